package models

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/smartvoyage/internal/common"
)

// JourneyKind tells whether the user knows where to go (new) or asks for
// destination ideas (surprise).
type JourneyKind string

const (
	JourneyNew      JourneyKind = "new"
	JourneySurprise JourneyKind = "surprise"
)

const (
	MinTravelers = 1
	MaxTravelers = 10
	MaxAge       = 120

	// HistoryLimit bounds the per-user journey history.
	HistoryLimit = 50

	UnknownDestination = "Unknown"
)

// Interests is the fixed set offered by the journey form.
var Interests = []string{"Heritage", "Adventure", "Food", "Nature", "Spiritual", "Beach", "Mountains", "Culture"}

type Traveler struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// JourneyForm is the trip request. It is stored verbatim with every history
// entry so the itinerary page can be reopened later.
type JourneyForm struct {
	Destination     string     `json:"destination"`
	Origin          string     `json:"origin"`
	Date            string     `json:"date"`
	Travelers       string     `json:"travelers"`
	Budget          string     `json:"budget"`
	Interests       []string   `json:"interests"`
	TravelerDetails []Traveler `json:"travelerDetails,omitempty"`
}

// TravelersLabel renders the party as "Asha (34), Ravi (36)" or, without
// named travelers, "3 traveler(s)".
func TravelersLabel(count int, details []Traveler) string {
	parts := make([]string, 0, len(details))
	for _, t := range details {
		if strings.TrimSpace(t.Name) == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", strings.TrimSpace(t.Name), t.Age))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%d traveler(s)", count)
	}
	return strings.Join(parts, ", ")
}

// SetTravelers clamps count to the allowed range, keeps details for at most
// that many travelers and refreshes the Travelers label.
func (f *JourneyForm) SetTravelers(count int, details []Traveler) {
	count = max(MinTravelers, min(MaxTravelers, count))
	if len(details) > count {
		details = details[:count]
	}
	f.TravelerDetails = details
	f.Travelers = TravelersLabel(count, details)
}

// WithDestination returns a copy of the form aimed at dest.
func (f JourneyForm) WithDestination(dest string) JourneyForm {
	f.Interests = slices.Clone(f.Interests)
	f.TravelerDetails = slices.Clone(f.TravelerDetails)
	f.Destination = dest
	return f
}

func (f JourneyForm) Validate(kind JourneyKind) error {
	fields := map[string]string{}

	if kind == JourneyNew && strings.TrimSpace(f.Destination) == "" {
		fields["destination"] = "Destination is required"
	}
	if strings.TrimSpace(f.Origin) == "" {
		fields["origin"] = "Starting point is required"
	}
	if strings.TrimSpace(f.Date) == "" {
		fields["date"] = "Travel date is required"
	} else if _, err := time.Parse(DateLayout, f.Date); err != nil {
		fields["date"] = "Travel date must be YYYY-MM-DD"
	}
	if strings.TrimSpace(f.Budget) == "" {
		fields["budget"] = "Budget is required"
	} else if v, err := strconv.ParseFloat(f.Budget, 64); err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		fields["budget"] = "Budget must be a positive number"
	}
	if strings.TrimSpace(f.Travelers) == "" {
		fields["travelers"] = "Number of travelers is required"
	}
	if len(f.TravelerDetails) > MaxTravelers {
		fields["travelers"] = fmt.Sprintf("At most %d travelers", MaxTravelers)
	}
	for i, t := range f.TravelerDetails {
		if strings.TrimSpace(t.Name) == "" {
			fields[fmt.Sprintf("travelerDetails[%d].name", i)] = "Traveler name is required"
		}
		if t.Age < 0 || t.Age > MaxAge {
			fields[fmt.Sprintf("travelerDetails[%d].age", i)] = fmt.Sprintf("Age must be between 0 and %d", MaxAge)
		}
	}
	for _, in := range f.Interests {
		if !slices.Contains(Interests, in) {
			fields["interests"] = "Unknown interest: " + in
			break
		}
	}

	return orNil(fields)
}

// JourneyHistoryEntry is one generated itinerary kept in the local history.
// Entries are never edited; removal by ID is the only mutation.
type JourneyHistoryEntry struct {
	ID          string      `json:"id"`
	Destination string      `json:"destination"`
	Origin      string      `json:"origin"`
	TravelDate  string      `json:"date"`
	Itinerary   string      `json:"itinerary"`
	Form        JourneyForm `json:"formData"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// NewJourneyID returns "journey_<unix millis>_<9 random chars>".
func NewJourneyID(now time.Time) string {
	return fmt.Sprintf("journey_%d_%s", now.UnixMilli(), common.RandToken(9))
}

// NewJourneyEntry snapshots a generated itinerary together with its form.
func NewJourneyEntry(itinerary string, form JourneyForm, now time.Time) JourneyHistoryEntry {
	dest := strings.TrimSpace(form.Destination)
	if dest == "" {
		dest = UnknownDestination
	}
	return JourneyHistoryEntry{
		ID:          NewJourneyID(now),
		Destination: dest,
		Origin:      form.Origin,
		TravelDate:  form.Date,
		Itinerary:   itinerary,
		Form:        form,
		CreatedAt:   now.UTC(),
	}
}
