package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/smartvoyage/internal/client/controller"
	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
)

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// render prints the current page.
func (a *App) render(ctx context.Context) {
	st := a.voyage.State()

	switch p := st.Page.(type) {
	case controller.HomePage:
		a.println()
		a.println("Discover India with AI-Powered Travel Planning")
		a.println("Let artificial intelligence craft your perfect journey through India's")
		a.println("breathtaking landscapes, rich culture, and unforgettable experiences.")
		a.println()
		a.println("Type 'signup' to get started, 'login' if you have an account, or 'faq'.")

	case controller.DashboardPage:
		email := ""
		if st.Session != nil {
			email = st.Session.Email
		}
		a.println()
		a.printf("[%s] Welcome back, %s!\n", models.Initials(st.Profile, email), models.DisplayName(st.Profile, email))
		if st.ProfilePromptOpen() {
			a.println("Before you start, please create your traveler profile.")
			return
		}
		a.println("  new       plan a journey to a destination you have chosen")
		a.println("  surprise  let us suggest three destinations for you")
		a.println("  history   browse your past itineraries")
		a.println("  chat      ask the travel assistant")

	case controller.ItineraryPage:
		a.renderItinerary(ctx, p)

	case controller.LoginPage, controller.NewJourneyPage, controller.FAQPage:
		// rendered by their commands
	}
}

func (a *App) renderItinerary(ctx context.Context, p controller.ItineraryPage) {
	if strings.TrimSpace(p.Itinerary) == "" {
		a.println("No itinerary available.")
		return
	}

	a.println()
	a.println(p.Itinerary)

	list, err := a.voyage.PackingChecklist(ctx, p.Form)
	if err != nil || list.Empty() {
		return
	}

	a.println()
	a.println("Essential Luggage to Carry")
	if list.WeatherSummary != "" {
		a.println("Weather:", list.WeatherSummary)
	}
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		a.printf("%s:\n", title)
		for _, it := range items {
			a.printf("  [ ] %s\n", it)
		}
	}
	section("Clothing", list.Categories.Clothing)
	section("Essentials", list.Categories.Essentials)
	section("Electronics", list.Categories.Electronics)
	section("Medical", list.Categories.Medical)
	a.println()
	a.println("Type 'export' to save it as markdown or 'share' to get a link.")
}
