package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/smartvoyage/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testAnonKey  = "anon-key"
	testEmail    = "ana@example.com"
	testPassword = "secret1"
	testUserID   = "0b5f3c1e-7c6a-4f7e-9d2a-3f1d2c4b5a69"
)

// ---- fakes ----

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) List(_ context.Context, prefix string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string][]byte{}
	for k, v := range m.data {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out, nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string][]byte{}
	return nil
}

type recorded struct {
	event   Event
	session *Session
}

type recorder struct {
	mu     sync.Mutex
	events []recorded
}

func (r *recorder) listen(_ context.Context, e Event, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recorded{e, s})
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.events...)
}

// ---- fake auth server ----

func signToken(t *testing.T, sub, email string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"exp":   exp.Unix(),
		"role":  "authenticated",
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

type fakeAuth struct {
	t *testing.T

	mu          sync.Mutex
	calls       []string
	lastAuth    string
	lastBody    map[string]string
	lastQuery   string
	tokenTTL    time.Duration
	refreshCode int
	logoutCode  int
	confirm     bool

	// refreshGate, when set before the first request, holds refresh
	// requests until it is closed; refreshStarted is signalled on entry.
	refreshGate    chan struct{}
	refreshStarted chan struct{}
}

func newFakeAuth(t *testing.T) (*fakeAuth, *httptest.Server) {
	f := &fakeAuth{t: t, tokenTTL: time.Hour}
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)
	return f, ts
}

func (f *fakeAuth) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.refreshGate != nil && r.URL.Query().Get("grant_type") == "refresh_token" {
		f.refreshStarted <- struct{}{}
		<-f.refreshGate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, r.URL.Path+"?"+r.URL.RawQuery)
	f.lastAuth = r.Header.Get("Authorization")
	f.lastQuery = r.URL.RawQuery
	f.lastBody = map[string]string{}
	_ = json.NewDecoder(r.Body).Decode(&f.lastBody)

	if r.Header.Get("apikey") != testAnonKey {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid API key"})
		return
	}

	switch {
	case r.URL.Path == "/auth/v1/token" && r.URL.Query().Get("grant_type") == "password":
		if f.lastBody["email"] != testEmail || f.lastBody["password"] != testPassword {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error_code": "invalid_credentials", "msg": "Invalid login credentials"})
			return
		}
		f.writeTokens(w, "refresh-1")

	case r.URL.Path == "/auth/v1/token" && r.URL.Query().Get("grant_type") == "refresh_token":
		if f.refreshCode != 0 {
			writeJSON(w, f.refreshCode, map[string]string{
				"error": "invalid_grant", "error_description": "Invalid Refresh Token"})
			return
		}
		f.writeTokens(w, "refresh-2")

	case r.URL.Path == "/auth/v1/signup":
		if f.lastBody["email"] == testEmail {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error_code": "user_already_exists", "msg": "User already registered"})
			return
		}
		if f.confirm {
			writeJSON(w, http.StatusOK, map[string]any{"id": testUserID, "email": f.lastBody["email"]})
			return
		}
		f.writeTokens(w, "refresh-1")

	case r.URL.Path == "/auth/v1/logout":
		if f.logoutCode != 0 {
			writeJSON(w, f.logoutCode, map[string]string{"msg": "logout failed"})
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAuth) writeTokens(w http.ResponseWriter, refresh string) {
	email := f.lastBody["email"]
	if email == "" {
		email = testEmail
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  signToken(f.t, testUserID, email, time.Now().Add(f.tokenTTL)),
		"refresh_token": refresh,
		"token_type":    "bearer",
		"expires_in":    int(f.tokenTTL.Seconds()),
		"user":          map[string]string{"id": testUserID, "email": email},
	})
}

func (f *fakeAuth) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestGateway(t *testing.T, url string, store *memStore, opts ...Option) *SupabaseGateway {
	t.Helper()
	return NewSupabaseGateway(url, testAnonKey, store, logging.Nop(), opts...)
}

// testClock is a settable clock for WithClock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock { return &testClock{now: time.Now()} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
