package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/smartvoyage/internal/client/controller"
	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
)

// readJourneyForm asks for the trip details. Destination is asked for new
// journeys only.
func (a *App) readJourneyForm(kind models.JourneyKind, cur models.JourneyForm) (models.JourneyForm, error) {
	var (
		f   models.JourneyForm
		err error
	)
	if kind == models.JourneyNew {
		if f.Destination, err = GetWithDefault(a.reader, "Where do you want to go?", cur.Destination, a.out); err != nil {
			return f, err
		}
	}
	if f.Origin, err = GetWithDefault(a.reader, "Starting point", cur.Origin, a.out); err != nil {
		return f, err
	}
	if f.Date, err = GetWithDefault(a.reader, "Travel date (YYYY-MM-DD)", cur.Date, a.out); err != nil {
		return f, err
	}
	if f.Budget, err = GetWithDefault(a.reader, "Budget (INR)", cur.Budget, a.out); err != nil {
		return f, err
	}

	count, err := GetInt(a.reader, fmt.Sprintf("How many travelers? (%d-%d)", models.MinTravelers, models.MaxTravelers),
		models.MinTravelers, models.MaxTravelers, a.out)
	if err != nil {
		return f, err
	}
	details := make([]models.Traveler, 0, count)
	for i := range count {
		name, err := getSimpleText(a.reader, fmt.Sprintf("Traveler %d name", i+1), a.out)
		if err != nil {
			return f, err
		}
		age, err := GetInt(a.reader, fmt.Sprintf("Traveler %d age", i+1), 0, models.MaxAge, a.out)
		if err != nil {
			return f, err
		}
		details = append(details, models.Traveler{Name: name, Age: age})
	}
	f.SetTravelers(count, details)

	answer, err := getSimpleText(a.reader, "Interests, comma separated ("+strings.Join(models.Interests, ", ")+")", a.out)
	if err != nil {
		return f, err
	}
	f.Interests = normalizeInterests(SplitList(answer))
	return f, nil
}

// normalizeInterests maps answers onto the canonical spelling; unknown
// values are kept so validation can name them.
func normalizeInterests(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, known := range models.Interests {
			if strings.EqualFold(known, s) {
				s = known
				break
			}
		}
		out = append(out, s)
	}
	return out
}

// fillJourney repeats the form until run accepts it.
func (a *App) fillJourney(kind models.JourneyKind, run func(models.JourneyForm) error) error {
	var cur models.JourneyForm
	for {
		f, err := a.readJourneyForm(kind, cur)
		if err != nil {
			return err
		}
		err = run(f)
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		a.report(err)
		cur = f
	}
}

func (a *App) NewJourney(ctx context.Context) error {
	if !a.isLoggedIn() {
		return controller.ErrNotAuthenticated
	}
	a.voyage.Navigate(controller.NewJourneyPage{Kind: models.JourneyNew})
	a.println("Plan a new journey.")

	return a.fillJourney(models.JourneyNew, func(f models.JourneyForm) error {
		a.println("Generating your itinerary...")
		page, err := a.voyage.PlanJourney(ctx, f)
		if err != nil {
			return err
		}
		a.showIfCurrent(ctx, page)
		return nil
	})
}

func (a *App) Surprise(ctx context.Context) error {
	if !a.isLoggedIn() {
		return controller.ErrNotAuthenticated
	}
	a.voyage.Navigate(controller.NewJourneyPage{Kind: models.JourneySurprise})
	a.println("Tell us about your trip and we will suggest three destinations.")

	var form models.JourneyForm
	err := a.fillJourney(models.JourneySurprise, func(f models.JourneyForm) error {
		a.println("Finding destinations...")
		dests, err := a.voyage.DiscoverDestinations(ctx, f)
		if err != nil {
			return err
		}
		if len(dests) == 0 {
			a.println("No destinations found. Try again with different preferences.")
			return nil
		}
		form = f
		for i, d := range dests {
			a.printf("\n%d. %s\n%s\n", i+1, d.Name, d.Description)
		}

		names := make([]string, len(dests))
		for i, d := range dests {
			names[i] = d.Name
		}
		choice, err := GetChoice(a.reader, "Pick a destination", names, "", a.out)
		if err != nil {
			return err
		}

		a.println("Generating your itinerary...")
		page, err := a.voyage.ChooseDestination(ctx, form, choice)
		if err != nil {
			return err
		}
		a.showIfCurrent(ctx, page)
		return nil
	})
	return err
}

// showIfCurrent renders page unless the session moved on meanwhile.
func (a *App) showIfCurrent(ctx context.Context, page controller.ItineraryPage) {
	if cur, ok := a.voyage.State().Page.(controller.ItineraryPage); ok && cur.EntryID == page.EntryID && cur.Itinerary == page.Itinerary {
		a.render(ctx)
	}
}

func (a *App) History(ctx context.Context) error {
	entries, err := a.voyage.History(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.println("No journeys yet. Type 'new' to plan one.")
		return nil
	}
	for _, e := range entries {
		a.printf("%s  %-20s from %-15s on %s  (created %s)\n",
			e.ID, e.Destination, e.Origin, e.TravelDate, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	a.println("Type 'open <id>' to view or 'delete <id>' to remove.")
	return nil
}

func (a *App) Open(ctx context.Context, id string) error {
	if _, err := a.voyage.OpenJourney(ctx, id); err != nil {
		return err
	}
	a.render(ctx)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.voyage.DeleteJourney(ctx, id); err != nil {
		return err
	}
	a.println("Deleted", id)
	return nil
}

func (a *App) Export(ctx context.Context) error {
	_, err := a.voyage.ExportItinerary(ctx)
	return err
}

func (a *App) Share(ctx context.Context) error {
	_, err := a.voyage.ShareItinerary(ctx)
	return err
}
