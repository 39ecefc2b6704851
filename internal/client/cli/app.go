package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dmitrijs2005/smartvoyage/internal/client/controller"
	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
	"github.com/dmitrijs2005/smartvoyage/internal/client/services"
	"github.com/dmitrijs2005/smartvoyage/internal/client/surprise"
	"github.com/dmitrijs2005/smartvoyage/internal/common"
	"github.com/dmitrijs2005/smartvoyage/internal/logging"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Voyage is the controller surface the terminal client drives.
type Voyage interface {
	State() controller.State
	Login(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Navigate(p controller.Page)
	SaveProfile(ctx context.Context, p models.Profile) error
	UpdateProfile(ctx context.Context, p models.Profile) error
	PlanJourney(ctx context.Context, form models.JourneyForm) (controller.ItineraryPage, error)
	DiscoverDestinations(ctx context.Context, form models.JourneyForm) ([]surprise.Destination, error)
	ChooseDestination(ctx context.Context, form models.JourneyForm, destination string) (controller.ItineraryPage, error)
	SendChatMessage(ctx context.Context, text string) (string, error)
	History(ctx context.Context) ([]models.JourneyHistoryEntry, error)
	OpenJourney(ctx context.Context, id string) (controller.ItineraryPage, error)
	DeleteJourney(ctx context.Context, id string) error
	PackingChecklist(ctx context.Context, form models.JourneyForm) (*models.LuggageChecklist, error)
	ExportItinerary(ctx context.Context) (string, error)
	ShareItinerary(ctx context.Context) (string, error)
	LocalData(ctx context.Context) (services.LocalUsage, error)
	ResetLocalData(ctx context.Context) error
}

type App struct {
	voyage Voyage
	reader *bufio.Reader
	out    io.Writer
	log    logging.Logger
}

func NewApp(v Voyage, in io.Reader, out io.Writer, log logging.Logger) *App {
	return &App{voyage: v, reader: bufio.NewReader(in), out: out, log: log.With("module", "cli")}
}

// Run renders the current page and serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Smart Voyage (type 'help' for commands)")
	a.render(ctx)
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.voyage.State().Authenticated()
}

func (a *App) promptOpen() bool {
	return a.voyage.State().ProfilePromptOpen()
}

func (a *App) status() string {
	st := a.voyage.State()
	s := string(st.Page.Name())
	if st.Session != nil {
		s = st.Session.Email + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}

// report prints what the user still needs to see about err. Auth and
// generation failures were already shown by the notifier.
func (a *App) report(err error) {
	var verr *models.ValidationError
	var authErr *controller.AuthError
	var genErr *controller.GenerationError

	switch {
	case err == nil:
	case errors.As(err, &verr):
		keys := make([]string, 0, len(verr.Fields))
		for k := range verr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(a.out, "  - %s\n", verr.Fields[k])
		}
	case errors.As(err, &authErr), errors.As(err, &genErr):
	case errors.Is(err, controller.ErrNotAuthenticated):
		fmt.Fprintln(a.out, "Please log in first (type 'login').")
	case errors.Is(err, controller.ErrNoItinerary):
		fmt.Fprintln(a.out, "Open an itinerary first ('new', 'surprise' or 'open <id>').")
	case errors.Is(err, services.ErrSharingDisabled):
		fmt.Fprintln(a.out, "Sharing is not configured.")
	case errors.Is(err, common.ErrNotConfigured):
		fmt.Fprintf(a.out, "Not available: %v\n", err)
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(a.out, "Not found.")
	case errors.Is(err, io.EOF):
	default:
		a.log.Error(context.Background(), "command failed", "error", err)
		fmt.Fprintf(a.out, "error: %v\n", err)
	}
}
