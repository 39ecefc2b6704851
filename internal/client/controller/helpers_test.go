package controller

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/smartvoyage/internal/client/gateway"
	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
	"github.com/dmitrijs2005/smartvoyage/internal/client/services"
	"github.com/dmitrijs2005/smartvoyage/internal/common"
	"github.com/dmitrijs2005/smartvoyage/internal/logging"
	"github.com/stretchr/testify/require"
)

const (
	userA = "user-a"
	userB = "user-b"
)

var validProfile = models.Profile{
	Name:              "Ana Roy",
	DateOfBirth:       "1990-04-12",
	Gender:            "Female",
	Nationality:       "Indian",
	PreferredLanguage: "English",
}

var validForm = models.JourneyForm{
	Destination: "Jaipur",
	Origin:      "Delhi",
	Date:        "2026-12-01",
	Travelers:   "2 traveler(s)",
	Budget:      "50000",
	Interests:   []string{"Heritage"},
}

// ---- gateway ----

type fakeGateway struct {
	mu        sync.Mutex
	session   *gateway.Session
	listeners map[int]gateway.Listener
	next      int

	signInErr     error
	signUpErr     error
	signUpPending bool
	signOutErr    error
	getErr        error

	lastRedirect string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{listeners: map[int]gateway.Listener{}}
}

func sessionFor(uid string) *gateway.Session {
	return &gateway.Session{UserID: uid, Email: uid + "@example.com", AccessToken: "tok-" + uid, ExpiresAt: time.Now().Add(time.Hour)}
}

func (g *fakeGateway) emit(ctx context.Context, e gateway.Event, s *gateway.Session) {
	g.mu.Lock()
	ids := make([]int, 0, len(g.listeners))
	for id := range g.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]gateway.Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, g.listeners[id])
	}
	g.mu.Unlock()
	for _, fn := range fns {
		fn(ctx, e, s)
	}
}

func (g *fakeGateway) SignInWithPassword(ctx context.Context, email, password string) (*gateway.Session, error) {
	if g.signInErr != nil {
		return nil, g.signInErr
	}
	s := sessionFor(userA)
	g.mu.Lock()
	g.session = s
	g.mu.Unlock()
	g.emit(ctx, gateway.EventSignedIn, s)
	return s, nil
}

func (g *fakeGateway) SignUp(ctx context.Context, email, password, redirectTo string) (*gateway.Session, error) {
	g.mu.Lock()
	g.lastRedirect = redirectTo
	g.mu.Unlock()
	if g.signUpErr != nil {
		return nil, g.signUpErr
	}
	if g.signUpPending {
		return nil, nil
	}
	s := sessionFor(userB)
	g.mu.Lock()
	g.session = s
	g.mu.Unlock()
	g.emit(ctx, gateway.EventSignedIn, s)
	return s, nil
}

func (g *fakeGateway) SignOut(ctx context.Context) error {
	if g.signOutErr != nil {
		return g.signOutErr
	}
	g.mu.Lock()
	g.session = nil
	g.mu.Unlock()
	g.emit(ctx, gateway.EventSignedOut, nil)
	return nil
}

func (g *fakeGateway) GetSession(context.Context) (*gateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session, g.getErr
}

func (g *fakeGateway) OnSessionChange(fn gateway.Listener) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next
	g.next++
	g.listeners[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.listeners, id)
	}
}

func (g *fakeGateway) listenerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.listeners)
}

// ---- generation ----

type fakeGenerator struct {
	itinerary string
	surprise  string
	checklist *models.LuggageChecklist
	reply     string
	err       error

	// during runs inside GenerateItinerary, before it returns.
	during func()

	lastForm      models.JourneyForm
	lastChecklist models.ChecklistRequest
	calls         int
}

func (f *fakeGenerator) GenerateItinerary(_ context.Context, form models.JourneyForm) (string, error) {
	f.calls++
	f.lastForm = form
	if f.during != nil {
		f.during()
	}
	return f.itinerary, f.err
}

func (f *fakeGenerator) FindSurprise(_ context.Context, form models.JourneyForm) (string, error) {
	f.calls++
	f.lastForm = form
	return f.surprise, f.err
}

func (f *fakeGenerator) PackingChecklist(_ context.Context, req models.ChecklistRequest) (*models.LuggageChecklist, error) {
	f.calls++
	f.lastChecklist = req
	return f.checklist, f.err
}

func (f *fakeGenerator) Chat(_ context.Context, msg string) (string, error) {
	f.calls++
	return f.reply, f.err
}

// ---- stores ----

type fakeProfiles struct {
	mu     sync.Mutex
	data   map[string]models.Profile
	getErr error
	putErr error
}

func newFakeProfiles() *fakeProfiles { return &fakeProfiles{data: map[string]models.Profile{}} }

func (f *fakeProfiles) Get(_ context.Context, uid string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.data[uid]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProfiles) Put(_ context.Context, uid string, p models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.data[uid] = p
	return nil
}

type fakeJourneys struct {
	mu        sync.Mutex
	data      map[string][]models.JourneyHistoryEntry
	recordErr error
	n         int
}

func newFakeJourneys() *fakeJourneys {
	return &fakeJourneys{data: map[string][]models.JourneyHistoryEntry{}}
}

func (f *fakeJourneys) List(_ context.Context, uid string) ([]models.JourneyHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.data[uid]), nil
}

func (f *fakeJourneys) Get(_ context.Context, uid, id string) (*models.JourneyHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.data[uid] {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("journey %s: %w", id, common.ErrorNotFound)
}

func (f *fakeJourneys) Append(_ context.Context, uid string, e models.JourneyHistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[uid] = append([]models.JourneyHistoryEntry{e}, f.data[uid]...)
	return nil
}

func (f *fakeJourneys) Record(ctx context.Context, uid, itinerary string, form models.JourneyForm) (models.JourneyHistoryEntry, error) {
	if f.recordErr != nil {
		return models.JourneyHistoryEntry{}, f.recordErr
	}
	f.mu.Lock()
	f.n++
	e := models.JourneyHistoryEntry{ID: fmt.Sprintf("journey_%d", f.n), Destination: form.Destination, Itinerary: itinerary, Form: form}
	f.mu.Unlock()
	return e, f.Append(ctx, uid, e)
}

func (f *fakeJourneys) Remove(_ context.Context, uid, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[uid] = slices.DeleteFunc(f.data[uid], func(e models.JourneyHistoryEntry) bool { return e.ID == id })
	return nil
}

type fakeExporter struct {
	path string
	err  error
	got  string
}

func (f *fakeExporter) Export(_ context.Context, itinerary string, _ models.JourneyForm) (string, error) {
	f.got = itinerary
	return f.path, f.err
}

type fakeSharer struct {
	link string
	err  error
}

func (f *fakeSharer) Share(context.Context, string, models.JourneyForm) (string, error) {
	return f.link, f.err
}

type fakeLocalData struct {
	usage    services.LocalUsage
	resetErr error
	resets   int
}

func (f *fakeLocalData) Usage(context.Context) (services.LocalUsage, error) {
	return f.usage, nil
}

func (f *fakeLocalData) Reset(context.Context) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resets++
	return nil
}

// ---- notifications ----

type notes struct {
	mu  sync.Mutex
	all []Notification
}

func (n *notes) Notify(_ context.Context, x Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.all = append(n.all, x)
}

func (n *notes) last() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.all) == 0 {
		return Notification{}
	}
	return n.all[len(n.all)-1]
}

func (n *notes) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.all)
}

// ---- fixture ----

type fixture struct {
	ctx      context.Context
	gw       *fakeGateway
	gen      *fakeGenerator
	profiles *fakeProfiles
	journeys *fakeJourneys
	exporter *fakeExporter
	sharer   *fakeSharer
	local    *fakeLocalData
	notes    *notes
	c        *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:      context.Background(),
		gw:       newFakeGateway(),
		gen:      &fakeGenerator{itinerary: "# Day 1"},
		profiles: newFakeProfiles(),
		journeys: newFakeJourneys(),
		exporter: &fakeExporter{path: "exports/smart-voyage-itinerary.md"},
		sharer:   &fakeSharer{link: "https://s3.example.com/itineraries/x.md?sig"},
		local:    &fakeLocalData{usage: services.LocalUsage{Profiles: 1, Histories: 1, Journeys: 4, Bytes: 900}},
		notes:    &notes{},
	}
	f.c = New(Deps{
		Gateway:     f.gw,
		Generator:   f.gen,
		Profiles:    f.profiles,
		Journeys:    f.journeys,
		Exporter:    f.exporter,
		Sharer:      f.sharer,
		LocalData:   f.local,
		Notifier:    f.notes,
		Log:         logging.Nop(),
		RedirectURL: "http://localhost:8080/",
	})
	t.Cleanup(f.c.Close)
	return f
}

// started starts the controller with uid signed in ("" for nobody).
func (f *fixture) started(t *testing.T, uid string) *fixture {
	t.Helper()
	if uid != "" {
		f.gw.session = sessionFor(uid)
	}
	require.NoError(t, f.c.Start(f.ctx))
	return f
}
