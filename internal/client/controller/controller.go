// Package controller owns the client state: the live session, the user's
// profile and the current page.
//
// Every transition goes through a Controller method and is applied under one
// mutex, so transitions are ordered by receipt. Calls to the auth gateway and
// the generation service run outside the lock; state can change while they
// are in flight, and their results are applied against whatever state is
// current when they return.
//
// State machine:
//
//	Loading ──Start──▶ Anonymous ◀──sign out / expiry──┐
//	   │                   │                           │
//	   └──────────────▶ Authenticated ─────────────────┘
//	                  (ProfileIncomplete until the first profile save)
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/smartvoyage/internal/client/gateway"
	"github.com/dmitrijs2005/smartvoyage/internal/client/generation"
	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
	"github.com/dmitrijs2005/smartvoyage/internal/client/services"
	"github.com/dmitrijs2005/smartvoyage/internal/logging"
)

// Deps are the collaborators of a Controller. Exporter, Sharer and LocalData
// are optional.
type Deps struct {
	Gateway     gateway.Gateway
	Generator   generation.Service
	Profiles    services.ProfileService
	Journeys    services.JourneyService
	Exporter    services.ExportService
	Sharer      services.ShareService
	LocalData   services.LocalDataService
	Notifier    Notifier
	Log         logging.Logger
	RedirectURL string
}

type Controller struct {
	gw          gateway.Gateway
	gen         generation.Service
	profiles    services.ProfileService
	journeys    services.JourneyService
	exporter    services.ExportService
	sharer      services.ShareService
	localData   services.LocalDataService
	notifier    Notifier
	log         logging.Logger
	redirectURL string

	mu    sync.Mutex
	state State
	// epoch changes whenever the signed-in user changes.
	epoch       uint64
	unsubscribe func()
}

func New(d Deps) *Controller {
	n := d.Notifier
	if n == nil {
		n = nopNotifier{}
	}
	log := d.Log
	if log == nil {
		log = logging.Nop()
	}
	return &Controller{
		gw:          d.Gateway,
		gen:         d.Generator,
		profiles:    d.Profiles,
		journeys:    d.Journeys,
		exporter:    d.Exporter,
		sharer:      d.Sharer,
		localData:   d.LocalData,
		notifier:    n,
		log:         log.With("module", "controller"),
		redirectURL: d.RedirectURL,
		state:       State{Phase: PhaseLoading, Page: HomePage{}},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Start subscribes to session changes and resolves the initial session with
// a single GetSession call. A failing call leaves the client anonymous.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.unsubscribe != nil {
		c.mu.Unlock()
		return fmt.Errorf("controller already started")
	}
	c.state = State{Phase: PhaseLoading, Page: HomePage{}}
	c.unsubscribe = c.gw.OnSessionChange(c.handleSessionChange)
	c.mu.Unlock()

	s, err := c.gw.GetSession(ctx)
	if err != nil {
		c.log.Warn(ctx, "could not restore session", "error", err)
		s = nil
	}

	c.applySession(ctx, gateway.EventInitialSession, s)
	c.log.Info(ctx, "controller started", "phase", c.State().Phase.String())
	return nil
}

// Close ends the session-change subscription.
func (c *Controller) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *Controller) handleSessionChange(ctx context.Context, event gateway.Event, s *gateway.Session) {
	c.log.Debug(ctx, "session change", "event", string(event))
	c.applySession(ctx, event, s)
}

func (c *Controller) applySession(ctx context.Context, event gateway.Event, s *gateway.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s == nil {
		if c.state.Session != nil {
			c.epoch++
		}
		c.state.Phase = PhaseAnonymous
		c.state.Session = nil
		c.state.Profile = nil
		c.state.ProfileIncomplete = false
		switch c.state.Page.(type) {
		case HomePage, LoginPage:
		default:
			c.state.Page = HomePage{}
		}
		return
	}

	// A refresh never starts a session; a late one after sign out is stale.
	if event == gateway.EventTokenRefreshed && c.state.Session == nil && c.state.Phase != PhaseLoading {
		c.log.Debug(ctx, "ignoring token refresh while signed out")
		return
	}

	sameUser := c.state.Session != nil && c.state.Session.UserID == s.UserID
	// Unlike a sign-in, a refresh for the same user keeps the page and profile.
	if event == gateway.EventTokenRefreshed && sameUser {
		c.state.Session.Email = s.Email
		return
	}
	if !sameUser {
		c.epoch++
	}

	profile, err := c.profiles.Get(ctx, s.UserID)
	if err != nil {
		c.log.Error(ctx, "error loading profile", "user_id", s.UserID, "error", err)
		profile = nil
	}

	c.state.Phase = PhaseAuthenticated
	c.state.Session = &SessionView{UserID: s.UserID, Email: s.Email}
	c.state.Profile = profile
	c.state.ProfileIncomplete = profile == nil
	c.state.Page = DashboardPage{}
}

func (c *Controller) notify(ctx context.Context, kind NotificationKind, title, message string) {
	c.notifier.Notify(ctx, Notification{Kind: kind, Title: title, Message: message})
}

// currentUser returns the signed-in user and the epoch it belongs to.
func (c *Controller) currentUser() (string, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Authenticated() {
		return "", 0, ErrNotAuthenticated
	}
	return c.state.Session.UserID, c.epoch, nil
}

func (c *Controller) Login(ctx context.Context, email, password string) error {
	s, err := c.gw.SignInWithPassword(ctx, email, password)
	if err != nil {
		c.log.Warn(ctx, "login failed", "email", email, "error", err)
		c.notify(ctx, KindError, "Login Failed", userMessage(err, "Invalid email or password"))
		return &AuthError{Op: "login", Err: err}
	}

	c.applySession(ctx, gateway.EventSignedIn, s)
	c.notify(ctx, KindSuccess, "Welcome back!", "You've successfully signed in.")
	return nil
}

// SignUp registers a new account. A new account never has a profile, so the
// creation prompt opens as soon as a session exists.
func (c *Controller) SignUp(ctx context.Context, email, password string) error {
	s, err := c.gw.SignUp(ctx, email, password, c.redirectURL)
	if err != nil {
		c.log.Warn(ctx, "sign up failed", "email", email, "error", err)
		c.notify(ctx, KindError, "Sign Up Failed", userMessage(err, "Could not create account"))
		return &AuthError{Op: "signup", Err: err}
	}

	if s != nil {
		c.applySession(ctx, gateway.EventSignedIn, s)
		c.mu.Lock()
		c.state.ProfileIncomplete = true
		c.mu.Unlock()
	}

	c.notify(ctx, KindSuccess, "Account created!", "Welcome to Smart Voyage!")
	if s == nil {
		c.notify(ctx, KindInfo, "Confirm your e-mail", "Follow the link we sent to "+email+", then sign in.")
	}
	return nil
}

// Logout ends the session and returns to the home page. On failure the
// session is left as it was.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.gw.SignOut(ctx)
	if errors.Is(err, gateway.ErrNoSession) {
		c.log.Warn(ctx, "no session to sign out, clearing local state")
		err = nil
	}
	if err != nil {
		c.log.Warn(ctx, "logout failed", "error", err)
		c.notify(ctx, KindError, "Error", userMessage(err, "Could not sign out"))
		return &AuthError{Op: "logout", Err: err}
	}

	c.applySession(ctx, gateway.EventSignedOut, nil)
	c.mu.Lock()
	c.state.Page = HomePage{}
	c.mu.Unlock()

	c.notify(ctx, KindSuccess, "Signed out", "You've been successfully signed out.")
	return nil
}

// Navigate switches the page unconditionally.
func (c *Controller) Navigate(p Page) {
	if p == nil {
		p = HomePage{}
	}
	c.mu.Lock()
	c.state.Page = p
	c.mu.Unlock()
}

func (c *Controller) SaveProfile(ctx context.Context, p models.Profile) error {
	if err := c.putProfile(ctx, p); err != nil {
		return err
	}
	c.notify(ctx, KindSuccess, "Profile saved!", "Your profile has been created successfully.")
	return nil
}

func (c *Controller) UpdateProfile(ctx context.Context, p models.Profile) error {
	if err := c.putProfile(ctx, p); err != nil {
		return err
	}
	c.notify(ctx, KindSuccess, "Profile updated!", "Your profile has been updated successfully.")
	return nil
}

// putProfile validates and stores p. Validation errors are returned without
// a notification so the form can show them inline.
func (c *Controller) putProfile(ctx context.Context, p models.Profile) error {
	uid, epoch, err := c.currentUser()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if err := c.profiles.Put(ctx, uid, p); err != nil {
		c.log.Error(ctx, "error saving profile", "user_id", uid, "error", err)
		c.notify(ctx, KindError, "Error", "Could not save your profile")
		return fmt.Errorf("save profile: %w", err)
	}

	c.mu.Lock()
	if c.epoch == epoch {
		c.state.Profile = &p
		c.state.ProfileIncomplete = false
	}
	c.mu.Unlock()
	return nil
}
