// Package gateway is the client side of the hosted authentication platform.
//
// # Overview
//
// The Gateway interface is the contract the session controller depends on:
// password sign-in, sign-up with an e-mail redirect target, sign-out, the
// current session, and a subscription to session changes that lasts until
// the returned unsubscribe function is called.
//
// SupabaseGateway implements it over the GoTrue REST API. It persists the
// session in the local store (key "auth_session"), reads the user id, e-mail
// and expiry from the access token claims, and refreshes the token from a
// background watcher shortly before it expires.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrInvalidCredentials, ErrRejected, ErrUnavailable, ErrNoSession. Remote
// failures arrive as *APIError, whose Message is suitable for display.
package gateway

import (
	"context"
	"errors"
	"time"
)

// Event names a session change, using the platform's names.
type Event string

const (
	EventInitialSession Event = "INITIAL_SESSION"
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrRejected           = errors.New("request rejected by auth server")
	ErrUnavailable        = errors.New("auth server unavailable")
	ErrNoSession          = errors.New("no active session")
)

// Session is the authenticated identity of the running client.
type Session struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Listener receives session changes. session is nil after EventSignedOut.
type Listener func(ctx context.Context, event Event, session *Session)

type Gateway interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// SignUp may return a nil session when the platform requires e-mail
	// confirmation before the first sign-in.
	SignUp(ctx context.Context, email, password, redirectTo string) (*Session, error)
	SignOut(ctx context.Context) error
	// GetSession returns (nil, nil) when nobody is signed in.
	GetSession(ctx context.Context) (*Session, error)
	OnSessionChange(fn Listener) (unsubscribe func())
}
