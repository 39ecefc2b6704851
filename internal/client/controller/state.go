package controller

import (
	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseAnonymous
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "loading"
	}
}

type PageName string

const (
	PageHome       PageName = "home"
	PageLogin      PageName = "login"
	PageDashboard  PageName = "dashboard"
	PageNewJourney PageName = "new-journey"
	PageItinerary  PageName = "itinerary"
	PageFAQ        PageName = "faq"
)

// Page is the active view together with exactly the data it needs.
type Page interface {
	Name() PageName
	isPage()
}

type LoginMode string

const (
	ModeLogin  LoginMode = "login"
	ModeSignup LoginMode = "signup"
)

type HomePage struct{}

type LoginPage struct {
	Mode LoginMode
}

type DashboardPage struct{}

type NewJourneyPage struct {
	Kind models.JourneyKind
}

// ItineraryPage carries a generated itinerary and the form it came from.
// EntryID is empty when the result was not saved to history.
type ItineraryPage struct {
	Itinerary string
	Form      models.JourneyForm
	EntryID   string
}

type FAQPage struct{}

func (HomePage) Name() PageName       { return PageHome }
func (LoginPage) Name() PageName      { return PageLogin }
func (DashboardPage) Name() PageName  { return PageDashboard }
func (NewJourneyPage) Name() PageName { return PageNewJourney }
func (ItineraryPage) Name() PageName  { return PageItinerary }
func (FAQPage) Name() PageName        { return PageFAQ }

func (HomePage) isPage()       {}
func (LoginPage) isPage()      {}
func (DashboardPage) isPage()  {}
func (NewJourneyPage) isPage() {}
func (ItineraryPage) isPage()  {}
func (FAQPage) isPage()        {}

// SessionView is the part of the session views may see.
type SessionView struct {
	UserID string
	Email  string
}

type State struct {
	Phase             Phase
	Session           *SessionView
	Profile           *models.Profile
	ProfileIncomplete bool
	Page              Page
}

func (s State) Authenticated() bool {
	return s.Phase == PhaseAuthenticated && s.Session != nil
}

// ProfilePromptOpen reports whether the profile creation form must be shown
// instead of anything else.
func (s State) ProfilePromptOpen() bool {
	return s.Authenticated() && s.ProfileIncomplete && s.Profile == nil
}

func (s State) clone() State {
	if s.Session != nil {
		v := *s.Session
		s.Session = &v
	}
	if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	return s
}
