package models

import (
	"strings"
	"time"
)

// LuggageChecklist is the weather-aware packing list shown under an itinerary.
type LuggageChecklist struct {
	WeatherSummary string              `json:"weatherSummary"`
	Categories     ChecklistCategories `json:"categories"`
}

type ChecklistCategories struct {
	Clothing    []string `json:"clothing"`
	Essentials  []string `json:"essentials"`
	Electronics []string `json:"electronics"`
	Medical     []string `json:"medical"`
}

// Empty reports whether there is nothing to show.
func (c *LuggageChecklist) Empty() bool {
	if c == nil {
		return true
	}
	k := c.Categories
	return c.WeatherSummary == "" && len(k.Clothing)+len(k.Essentials)+len(k.Electronics)+len(k.Medical) == 0
}

// ChecklistRequest is what the checklist generator receives.
type ChecklistRequest struct {
	Destination string   `json:"destination"`
	Date        string   `json:"date"`
	Travelers   string   `json:"travelers"`
	Interests   []string `json:"interests"`
	Duration    string   `json:"duration"`
}

// NewChecklistRequest fills the request from a journey form, falling back to
// the defaults the generator expects.
func NewChecklistRequest(f JourneyForm) ChecklistRequest {
	req := ChecklistRequest{
		Destination: strings.TrimSpace(f.Destination),
		Date:        f.Date,
		Travelers:   strings.TrimSpace(f.Travelers),
		Interests:   f.Interests,
		Duration:    "Not specified",
	}
	if req.Destination == "" {
		req.Destination = "India"
	}
	if req.Travelers == "" {
		req.Travelers = "1 traveler"
	}
	if req.Interests == nil {
		req.Interests = []string{}
	}
	if d, err := time.Parse(DateLayout, f.Date); err == nil {
		req.Duration = d.Month().String() + " travel"
	}
	return req
}

// HasPlace reports whether the form names a destination or an origin, which
// is the minimum the checklist generator needs.
func (f JourneyForm) HasPlace() bool {
	return strings.TrimSpace(f.Destination) != "" || strings.TrimSpace(f.Origin) != ""
}
