// Package models defines the client-side data records of Smart Voyage:
// traveler profiles, journey forms, history entries and packing checklists.
package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used by every date field.
const DateLayout = "2006-01-02"

// Profile is the traveler's personal record. It exists only after the user
// completed the creation form and is never filled with defaults.
type Profile struct {
	Name              string `json:"name"`
	DateOfBirth       string `json:"dob"`
	Gender            string `json:"gender"`
	Nationality       string `json:"nationality"`
	PreferredLanguage string `json:"preferredLanguage"`
}

var (
	Genders   = []string{"Male", "Female", "Other", "Prefer not to say"}
	Languages = []string{"English", "Hindi", "Bengali", "Tamil", "Telugu", "Marathi", "Gujarati", "Kannada", "Malayalam", "Punjabi"}
)

// Validate reports every missing or malformed field at once.
func (p Profile) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = "Name is required"
	}
	if strings.TrimSpace(p.DateOfBirth) == "" {
		fields["dob"] = "Date of birth is required"
	} else if _, err := time.Parse(DateLayout, p.DateOfBirth); err != nil {
		fields["dob"] = "Date of birth must be YYYY-MM-DD"
	}
	if strings.TrimSpace(p.Gender) == "" {
		fields["gender"] = "Gender is required"
	}
	if strings.TrimSpace(p.Nationality) == "" {
		fields["nationality"] = "Nationality is required"
	}
	if strings.TrimSpace(p.PreferredLanguage) == "" {
		fields["preferredLanguage"] = "Preferred language is required"
	}

	return orNil(fields)
}

// DisplayName picks what the dashboard greets the user with.
func DisplayName(p *Profile, email string) string {
	if p != nil && strings.TrimSpace(p.Name) != "" {
		return strings.TrimSpace(p.Name)
	}
	if local, _, _ := strings.Cut(email, "@"); local != "" {
		return local
	}
	return "Traveler"
}

// Initials is the two-letter avatar text: first letters of the first and last
// word of the name, else the first two letters of the name or e-mail, else "U".
func Initials(p *Profile, email string) string {
	if p != nil {
		words := strings.Fields(p.Name)
		switch {
		case len(words) >= 2:
			return strings.ToUpper(firstRune(words[0]) + firstRune(words[len(words)-1]))
		case len(words) == 1:
			return strings.ToUpper(prefix(words[0], 2))
		}
	}
	if email != "" {
		return strings.ToUpper(prefix(email, 2))
	}
	return "U"
}

func firstRune(s string) string { return prefix(s, 1) }

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
