package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/smartvoyage/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/smartvoyage/internal/common"
	"github.com/dmitrijs2005/smartvoyage/internal/logging"
)

// SessionKey is where the session is persisted in the local store.
const SessionKey = "auth_session"

// APIError is a non-2xx answer of the auth server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status >= 500:
		return ErrUnavailable
	case e.Code == "invalid_grant" || e.Code == "invalid_credentials":
		return ErrInvalidCredentials
	default:
		return ErrRejected
	}
}

// SupabaseGateway talks to a GoTrue-compatible auth server.
type SupabaseGateway struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	local      localstore.Repository
	log        logging.Logger
	now        func() time.Time

	// writeMu orders session writes so the in-memory and stored copies
	// change together.
	writeMu sync.Mutex

	mu        sync.Mutex
	session   *Session
	loaded    bool
	listeners map[int]Listener
	nextID    int
}

type Option func(*SupabaseGateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *SupabaseGateway) { g.httpClient = c }
}

func WithClock(now func() time.Time) Option {
	return func(g *SupabaseGateway) { g.now = now }
}

func NewSupabaseGateway(baseURL, anonKey string, local localstore.Repository, log logging.Logger, opts ...Option) *SupabaseGateway {
	g := &SupabaseGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: http.DefaultClient,
		local:      local,
		log:        log.With("module", "gateway"),
		now:        time.Now,
		listeners:  make(map[int]Listener),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// tokenResponse is the body of /token and (when auto-confirmed) /signup.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (g *SupabaseGateway) do(ctx context.Context, path string, query url.Values, body any, bearer string, out any) error {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.APIKeyHeaderName, g.anonKey)
	if bearer == "" {
		bearer = g.anonKey
	}
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+bearer)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) *APIError {
	var er errorResponse
	_ = json.Unmarshal(data, &er)

	e := &APIError{Status: status, Code: er.ErrorCode}
	if e.Code == "" {
		e.Code = er.Error
	}
	for _, m := range []string{er.Msg, er.ErrorDescription, er.Message, er.Error} {
		if m != "" {
			e.Message = m
			break
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// sessionFrom builds a Session, preferring the access token claims.
func (g *SupabaseGateway) sessionFrom(tr *tokenResponse) (*Session, error) {
	claims, err := parseAccessToken(tr.AccessToken)
	if err != nil {
		return nil, err
	}

	s := &Session{
		UserID:       claims.UserID,
		Email:        claims.Email,
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    claims.ExpiresAt,
	}
	if s.Email == "" && tr.User != nil {
		s.Email = tr.User.Email
	}
	if s.ExpiresAt.IsZero() {
		switch {
		case tr.ExpiresAt > 0:
			s.ExpiresAt = time.Unix(tr.ExpiresAt, 0)
		case tr.ExpiresIn > 0:
			s.ExpiresAt = g.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
		}
	}
	return s, nil
}

func (g *SupabaseGateway) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var tr tokenResponse
	err := g.do(ctx, "/auth/v1/token", url.Values{"grant_type": {"password"}},
		map[string]string{"email": email, "password": password}, "", &tr)
	if err != nil {
		return nil, err
	}

	s, err := g.sessionFrom(&tr)
	if err != nil {
		return nil, err
	}

	if err := g.setSession(ctx, s); err != nil {
		return nil, err
	}
	g.log.Info(ctx, "signed in", "user_id", s.UserID)
	g.emit(ctx, EventSignedIn, s)
	return s.clone(), nil
}

func (g *SupabaseGateway) SignUp(ctx context.Context, email, password, redirectTo string) (*Session, error) {
	q := url.Values{}
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}

	var tr tokenResponse
	err := g.do(ctx, "/auth/v1/signup", q, map[string]string{"email": email, "password": password}, "", &tr)
	if err != nil {
		return nil, err
	}

	if tr.AccessToken == "" {
		g.log.Info(ctx, "signed up, confirmation pending", "email", email)
		return nil, nil
	}

	s, err := g.sessionFrom(&tr)
	if err != nil {
		return nil, err
	}
	if err := g.setSession(ctx, s); err != nil {
		return nil, err
	}
	g.log.Info(ctx, "signed up", "user_id", s.UserID)
	g.emit(ctx, EventSignedIn, s)
	return s.clone(), nil
}

// SignOut revokes the session on the server and forgets it locally. When the
// server already considers the token invalid the local session is dropped
// anyway; any other failure leaves the session in place.
func (g *SupabaseGateway) SignOut(ctx context.Context) error {
	s, err := g.GetSession(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return ErrNoSession
	}

	if err := g.do(ctx, "/auth/v1/logout", nil, nil, s.AccessToken, nil); err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || !staleTokenStatus(apiErr.Status) {
			return err
		}
		g.log.Warn(ctx, "server rejected sign out token, clearing local session", "status", apiErr.Status)
	}

	if err := g.setSession(ctx, nil); err != nil {
		return err
	}
	g.log.Info(ctx, "signed out", "user_id", s.UserID)
	g.emit(ctx, EventSignedOut, nil)
	return nil
}

func staleTokenStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusNotFound
}

// GetSession restores a persisted session on first use. An expired session
// is refreshed once; if that fails it is discarded.
func (g *SupabaseGateway) GetSession(ctx context.Context) (*Session, error) {
	g.mu.Lock()
	loaded, s := g.loaded, g.session
	g.mu.Unlock()

	if !loaded {
		var err error
		s, err = g.restore(ctx)
		if err != nil {
			return nil, err
		}
	}

	if s == nil {
		return nil, nil
	}

	if s.Expired(g.now()) {
		refreshed, err := g.refresh(ctx, s)
		switch {
		case errors.Is(err, errSessionChanged):
			g.mu.Lock()
			s = g.session.clone()
			g.mu.Unlock()
			return s, nil
		case errors.Is(err, ErrUnavailable):
			g.log.Warn(ctx, "stored session expired and the auth server is unreachable", "error", err)
			return nil, err
		case err != nil:
			g.log.Warn(ctx, "stored session expired and could not be refreshed", "error", err)
			g.endSession(ctx, s)
			return nil, nil
		}
		s = refreshed
	}

	return s.clone(), nil
}

func (g *SupabaseGateway) restore(ctx context.Context) (*Session, error) {
	raw, err := g.local.Get(ctx, SessionKey)
	if err != nil {
		return nil, fmt.Errorf("error reading stored session: %w", err)
	}

	var s *Session
	if raw != nil {
		var stored Session
		if err := json.Unmarshal(raw, &stored); err != nil || stored.AccessToken == "" {
			g.log.Warn(ctx, "stored session is unreadable, ignoring it", "error", err)
		} else {
			s = &stored
		}
	}

	g.mu.Lock()
	if !g.loaded {
		g.session = s
		g.loaded = true
	}
	s = g.session
	g.mu.Unlock()

	return s, nil
}

func (g *SupabaseGateway) setSession(ctx context.Context, s *Session) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	return g.storeSession(ctx, s)
}

// replaceSession stores next only while the current session still holds
// old's refresh token, and reports whether it did.
func (g *SupabaseGateway) replaceSession(ctx context.Context, old, next *Session) (bool, error) {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	g.mu.Lock()
	cur := g.session
	g.mu.Unlock()
	if cur == nil || cur.RefreshToken != old.RefreshToken {
		return false, nil
	}
	return true, g.storeSession(ctx, next)
}

// endSession drops old after its refresh token was rejected and emits
// EventSignedOut. A session that was replaced meanwhile is kept.
func (g *SupabaseGateway) endSession(ctx context.Context, old *Session) {
	ended, err := g.replaceSession(ctx, old, nil)
	if err != nil {
		g.log.Error(ctx, "error clearing session", "error", err)
	}
	if ended {
		g.emit(ctx, EventSignedOut, nil)
	}
}

func (g *SupabaseGateway) storeSession(ctx context.Context, s *Session) error {
	g.mu.Lock()
	g.session = s.clone()
	g.loaded = true
	g.mu.Unlock()

	if s == nil {
		if err := g.local.Delete(ctx, SessionKey); err != nil {
			return fmt.Errorf("error clearing stored session: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := g.local.Set(ctx, SessionKey, raw); err != nil {
		return fmt.Errorf("error storing session: %w", err)
	}
	return nil
}

// errSessionChanged marks a refresh whose session was replaced or ended
// while the request was in flight. Its result is discarded.
var errSessionChanged = errors.New("session changed during refresh")

// refresh exchanges the refresh token and emits EventTokenRefreshed.
func (g *SupabaseGateway) refresh(ctx context.Context, s *Session) (*Session, error) {
	if s.RefreshToken == "" {
		return nil, ErrNoSession
	}

	var tr tokenResponse
	err := g.do(ctx, "/auth/v1/token", url.Values{"grant_type": {"refresh_token"}},
		map[string]string{"refresh_token": s.RefreshToken}, "", &tr)
	if err != nil {
		return nil, err
	}

	next, err := g.sessionFrom(&tr)
	if err != nil {
		return nil, err
	}
	stored, err := g.replaceSession(ctx, s, next)
	if err != nil {
		return nil, err
	}
	if !stored {
		g.log.Debug(ctx, "dropping refreshed token, session changed meanwhile", "user_id", next.UserID)
		return nil, errSessionChanged
	}
	g.log.Debug(ctx, "token refreshed", "user_id", next.UserID, "expires_at", next.ExpiresAt)

	g.mu.Lock()
	current := g.session != nil && g.session.RefreshToken == next.RefreshToken
	g.mu.Unlock()
	if current {
		g.emit(ctx, EventTokenRefreshed, next)
	}
	return next.clone(), nil
}

func (g *SupabaseGateway) OnSessionChange(fn Listener) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.listeners, id)
			g.mu.Unlock()
		})
	}
}

// emit calls listeners outside the lock, in subscription order.
func (g *SupabaseGateway) emit(ctx context.Context, event Event, s *Session) {
	g.mu.Lock()
	ids := make([]int, 0, len(g.listeners))
	for id := range g.listeners {
		ids = append(ids, id)
	}
	fns := make([]Listener, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, g.listeners[id])
	}
	g.mu.Unlock()

	for _, fn := range fns {
		fn(ctx, event, s.clone())
	}
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// StartRefreshWatcher refreshes the access token once it is within margin of
// expiry. It blocks until ctx is done. A rejected refresh ends the session
// with EventSignedOut; an unreachable server is retried on the next tick.
func (g *SupabaseGateway) StartRefreshWatcher(ctx context.Context, interval, margin time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.refreshIfDue(ctx, margin)
		case <-ctx.Done():
			return
		}
	}
}

func (g *SupabaseGateway) refreshIfDue(ctx context.Context, margin time.Duration) {
	g.mu.Lock()
	s := g.session.clone()
	g.mu.Unlock()

	if s == nil || s.ExpiresAt.IsZero() || g.now().Add(margin).Before(s.ExpiresAt) {
		return
	}

	_, err := g.refresh(ctx, s)
	if err == nil || errors.Is(err, errSessionChanged) {
		return
	}

	if errors.Is(err, ErrUnavailable) || ctx.Err() != nil {
		g.log.Warn(ctx, "token refresh postponed", "error", err)
		return
	}

	g.log.Warn(ctx, "token refresh failed, signing out", "error", err)
	g.endSession(ctx, s)
}

// AccessToken returns the current access token, or "" when signed out.
func (g *SupabaseGateway) AccessToken(ctx context.Context) (string, error) {
	s, err := g.GetSession(ctx)
	if err != nil || s == nil {
		return "", err
	}
	return s.AccessToken, nil
}
