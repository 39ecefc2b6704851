package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/smartvoyage/internal/client/controller"
)

type FAQ struct {
	Question string
	Answer   string
}

type FAQCategory struct {
	Name      string
	Questions []FAQ
}

var faqs = []FAQCategory{
	{
		Name: "Account & Profile",
		Questions: []FAQ{
			{"How do I create an account?", "Type 'signup' at the prompt and enter your e-mail address and a password. Once the account is created you will be asked to fill in your traveler profile, and then you can start planning journeys."},
			{"How do I reset my password?", "Password resets are handled by the sign-in service. Use the reset link in the e-mail you receive from it, then sign in again with 'login'."},
			{"How do I update my profile details (like Name, DOB, etc.)?", "Type 'profile' to see your details and 'profile edit' to change them. Press Enter on a field to keep its current value."},
		},
	},
	{
		Name: "Creating a Journey",
		Questions: []FAQ{
			{"What's the difference between 'Surprise Journey' and 'New Journey'?", "'new' plans a trip to a destination you have already chosen. 'surprise' takes your preferences, budget and dates and suggests 3 destinations in India that match them; pick one and a full itinerary is generated for it."},
			{"How do I add multiple travelers (name and age) to my trip?", "When creating a journey you are asked how many people are traveling (between 1 and 10), followed by the name and age of each traveler. This helps personalise the itinerary and the luggage checklist."},
			{"Can I edit my itinerary after it's generated?", "Itineraries are generated as complete documents. Use 'export' to save the itinerary as a markdown file and edit it in any editor, or plan a new journey with updated preferences."},
		},
	},
	{
		Name: "Billing & Payments",
		Questions: []FAQ{
			{"Is the 'Smart Voyage' service free?", "Yes. You can create unlimited journeys, generate itineraries and luggage checklists at no cost."},
			{"What payment methods do you accept?", "Smart Voyage is free, so no payment method is required."},
			{"How does billing work for group trips?", "There is no charge for itinerary generation, whether you travel solo or with up to 10 travelers."},
		},
	},
	{
		Name: "Features & Support",
		Questions: []FAQ{
			{"How accurate is the 'Essential Luggage to Carry' list?", "The checklist considers your destination, travel month and the expected weather, including Indian seasonal patterns and regional climate. Weather can be unpredictable, so check a local forecast closer to your travel date."},
			{"Is the website available in other languages (like Hindi or Odia)?", "Smart Voyage is currently available in English. Support for regional languages is planned."},
			{"How can I contact customer support if my question isn't listed here?", "Type 'chat' to ask the travel assistant. For anything else, e-mail support@smartvoyage.in; we typically respond within 24-48 hours."},
		},
	},
}

// FilterFAQ returns the categories whose questions or answers contain query,
// ignoring case. Categories without matches are dropped.
func FilterFAQ(query string) []FAQCategory {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]FAQCategory, 0, len(faqs))
	for _, c := range faqs {
		var matched []FAQ
		for _, f := range c.Questions {
			if q == "" || strings.Contains(strings.ToLower(f.Question), q) || strings.Contains(strings.ToLower(f.Answer), q) {
				matched = append(matched, f)
			}
		}
		if len(matched) > 0 {
			out = append(out, FAQCategory{Name: c.Name, Questions: matched})
		}
	}
	return out
}

// FAQ prints the frequently asked questions, filtered by query.
func (a *App) FAQ(ctx context.Context, query string) error {
	a.voyage.Navigate(controller.FAQPage{})

	found := FilterFAQ(query)
	if query != "" {
		n := 0
		for _, c := range found {
			n += len(c.Questions)
		}
		a.printf("Found %d result(s)\n", n)
	}
	for _, c := range found {
		a.printf("\n== %s ==\n", c.Name)
		for _, f := range c.Questions {
			a.printf("\nQ: %s\nA: %s\n", f.Question, f.Answer)
		}
	}
	return nil
}
