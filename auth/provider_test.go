package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/bloghub-admin/auth"
	"github.com/jrsteele09/bloghub-admin/contentapi"
	"github.com/jrsteele09/bloghub-admin/gate"
	"github.com/jrsteele09/bloghub-admin/internal/errors"
	"github.com/jrsteele09/bloghub-admin/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "ana@bloghub.io"
	adminPassword = "hunter22"
)

type testSecurity struct{}

func (testSecurity) GetSessionSecret() string { return "test-secret" }
func (testSecurity) GetMaxSessionAge() time.Duration { return 12 * time.Hour }
func (testSecurity) GetProfileSyncTimeout() time.Duration { return 5 * time.Second }
func (testSecurity) GetTokenLeeway() time.Duration { return 30 * time.Second }

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"user_id": 1,
		"exp":     exp.Unix(),
	}).SignedString([]byte("backend-key"))
	require.NoError(t, err)
	return signed
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// fakeBackend stands in for the BlogHub content API
type fakeBackend struct {
	mux          *http.ServeMux
	access       string
	loginCalls   atomic.Int32
	refreshCalls atomic.Int32
	profileAuth  []string
	mu           sync.Mutex
}

func newFakeBackend(t *testing.T, access string) *fakeBackend {
	t.Helper()
	b := &fakeBackend{mux: http.NewServeMux(), access: access}
	b.mux.HandleFunc("POST /api/auth/admin/login/", func(w http.ResponseWriter, r *http.Request) {
		b.loginCalls.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != adminPassword {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"user":   map[string]any{"id": 1, "email": body["email"], "is_admin": true},
				"tokens": map[string]any{"access": b.access, "refresh": "refresh-1"},
			},
		})
	})
	return b
}

func (b *fakeBackend) profile(status int) {
	b.mux.HandleFunc("GET /api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.profileAuth = append(b.profileAuth, r.Header.Get("Authorization"))
		b.mu.Unlock()
		if status != http.StatusOK {
			writeJSON(w, status, map[string]any{"detail": "nope"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"id": 1, "email": adminEmail, "fullname": "Ana Admin"},
		})
	})
}

func (b *fakeBackend) refresh(newAccess string) {
	b.mux.HandleFunc("POST /api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		b.refreshCalls.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if newAccess == "" || body["refresh"] != "refresh-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Token is invalid or expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access": newAccess})
	})
}

func (b *fakeBackend) authHeaders() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.profileAuth...)
}

func newProvider(t *testing.T, b *fakeBackend, options ...auth.ProviderOption) (*auth.Provider, *sessions.InMemoryRepo) {
	t.Helper()
	srv := httptest.NewServer(b.mux)
	t.Cleanup(srv.Close)

	repo := sessions.NewInMemoryRepo()
	sealer, err := sessions.NewSealer("test-secret")
	require.NoError(t, err)

	p, err := auth.NewProvider(contentapi.New(srv.URL, srv.Client()), repo, sealer, testSecurity{}, options...)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p, repo
}

func TestAdminLogin_InvalidFormNeverCallsAPI(t *testing.T) {
	b := newFakeBackend(t, mintToken(t, time.Now().Add(time.Hour)))
	p, repo := newProvider(t, b)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"missing email", "", adminPassword},
		{"malformed email", "ana-at-bloghub", adminPassword},
		{"missing password", adminEmail, ""},
		{"short password", adminEmail, "1234"},
		{"long password", adminEmail, strings.Repeat("x", 101)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.AdminLogin(context.Background(), tt.email, tt.password)
			require.ErrorIs(t, err, errors.ErrInvalidRequest)
		})
	}
	require.Zero(t, b.loginCalls.Load())
	require.Zero(t, repo.Len())
}

func TestAdminLogin_RejectedCredentials(t *testing.T) {
	b := newFakeBackend(t, mintToken(t, time.Now().Add(time.Hour)))
	p, repo := newProvider(t, b)

	_, err := p.AdminLogin(context.Background(), adminEmail, "wrong-password")
	require.ErrorIs(t, err, errors.ErrInvalidCredentials)
	require.Zero(t, repo.Len())
}

func TestAdminLogin_LoadingUntilProfileSync(t *testing.T) {
	access := mintToken(t, time.Now().Add(time.Hour))
	b := newFakeBackend(t, access)

	release := make(chan struct{})
	var once sync.Once
	b.mux.HandleFunc("GET /api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		<-release
		assert.Equal(t, "Bearer "+access, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"user": map[string]any{"id": 1, "email": adminEmail, "fullname": "Ana Admin"}},
		})
	})
	p, _ := newProvider(t, b)
	t.Cleanup(func() { once.Do(func() { close(release) }) })

	id, err := p.AdminLogin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	s := p.Session(context.Background(), id)
	require.True(t, s.Loading)
	require.Equal(t, adminEmail, s.User.Email)

	once.Do(func() { close(release) })
	p.Wait()

	s = p.Session(context.Background(), id)
	require.False(t, s.Loading)
	require.Equal(t, "Ana Admin", s.User.Fullname)
	// The profile payload has no is_admin, the login's value is kept
	require.True(t, s.User.Admin())
}

func TestAdminLogin_ProfileSyncFailureKeepsLoginUser(t *testing.T) {
	b := newFakeBackend(t, mintToken(t, time.Now().Add(time.Hour)))
	b.profile(http.StatusInternalServerError)
	p, _ := newProvider(t, b)

	id, err := p.AdminLogin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	p.Wait()

	s := p.Session(context.Background(), id)
	require.False(t, s.Loading)
	require.True(t, s.User.Admin())
	require.Empty(t, s.User.Fullname)
}

func TestSession_ProfileSyncRefreshesRejectedToken(t *testing.T) {
	b := newFakeBackend(t, mintToken(t, time.Now().Add(time.Hour)))
	fresh := mintToken(t, time.Now().Add(2*time.Hour))
	b.refresh(fresh)
	b.mux.HandleFunc("GET /api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+fresh {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Given token not valid"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": 1, "email": adminEmail, "is_admin": true}})
	})
	p, _ := newProvider(t, b)

	id, err := p.AdminLogin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	p.Wait()

	require.EqualValues(t, 1, b.refreshCalls.Load())
	s := p.Session(context.Background(), id)
	require.False(t, s.Loading)
	require.True(t, s.User.Admin())

	tok, err := p.TokenSource(context.Background(), id).Token()
	require.NoError(t, err)
	require.Equal(t, fresh, tok.AccessToken)
}

func TestSession_ExpiredAccessTokenRechecks(t *testing.T) {
	expired := mintToken(t, time.Now().Add(-time.Hour))

	t.Run("refresh succeeds", func(t *testing.T) {
		b := newFakeBackend(t, expired)
		b.profile(http.StatusOK)
		fresh := mintToken(t, time.Now().Add(time.Hour))
		b.refresh(fresh)
		p, _ := newProvider(t, b)

		id, err := p.AdminLogin(context.Background(), adminEmail, adminPassword)
		require.NoError(t, err)
		p.Wait()

		s := p.Session(context.Background(), id)
		require.True(t, s.Loading)
		require.NotNil(t, s.User)

		p.Wait()
		s = p.Session(context.Background(), id)
		require.False(t, s.Loading)
		require.True(t, s.User.Admin())
		require.EqualValues(t, 1, b.refreshCalls.Load())

		tok, err := p.TokenSource(context.Background(), id).Token()
		require.NoError(t, err)
		require.Equal(t, fresh, tok.AccessToken)
	})

	t.Run("refresh fails", func(t *testing.T) {
		b := newFakeBackend(t, expired)
		b.profile(http.StatusOK)
		b.refresh("")
		p, repo := newProvider(t, b)

		id, err := p.AdminLogin(context.Background(), adminEmail, adminPassword)
		require.NoError(t, err)
		p.Wait()

		require.True(t, p.Session(context.Background(), id).Loading)
		p.Wait()

		s := p.Session(context.Background(), id)
		require.Nil(t, s.User)
		require.False(t, s.Loading)
		require.Zero(t, repo.Len())
	})
}

func TestRecheck(t *testing.T) {
	b := newFakeBackend(t, mintToken(t, time.Now().Add(time.Hour)))
	b.profile(http.StatusOK)
	b.refresh(mintToken(t, time.Now().Add(2*time.Hour)))
	p, _ := newProvider(t, b)

	id, err := p.AdminLogin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	p.Wait()

	require.NoError(t, p.Recheck(context.Background(), id))
	p.Wait()

	require.EqualValues(t, 1, b.refreshCalls.Load())
	require.False(t, p.Session(context.Background(), id).Loading)

	require.ErrorIs(t, p.Recheck(context.Background(), "unknown"), errors.ErrSessionNotFound)
}

func TestSession_MaxAge(t *testing.T) {
	now := time.Now()
	b := newFakeBackend(t, mintToken(t, now.Add(24*time.Hour)))
	b.profile(http.StatusOK)
	p, repo := newProvider(t, b, auth.WithNowTime(func() time.Time { return now }))

	id, err := p.AdminLogin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	p.Wait()
	require.NotNil(t, p.Session(context.Background(), id).User)

	now = now.Add(13 * time.Hour)
	require.Nil(t, p.Session(context.Background(), id).User)
	require.Zero(t, repo.Len())
}

func TestSession_AccessExpiryFollowsProviderClock(t *testing.T) {
	start := time.Now()
	var clock atomic.Int64
	clock.Store(start.UnixNano())
	b := newFakeBackend(t, mintToken(t, start.Add(time.Hour)))
	b.profile(http.StatusOK)
	b.refresh(mintToken(t, start.Add(4*time.Hour)))
	p, _ := newProvider(t, b, auth.WithNowTime(func() time.Time { return time.Unix(0, clock.Load()) }))

	id, err := p.AdminLogin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	p.Wait()
	require.False(t, p.Session(context.Background(), id).Loading)

	// Past the access token but well inside the session's max age
	clock.Store(start.Add(2 * time.Hour).UnixNano())
	s := p.Session(context.Background(), id)
	require.True(t, s.Loading)
	require.NotNil(t, s.User)

	p.Wait()
	require.False(t, p.Session(context.Background(), id).Loading)
	require.EqualValues(t, 1, b.refreshCalls.Load())
}

func TestLogout(t *testing.T) {
	b := newFakeBackend(t, mintToken(t, time.Now().Add(time.Hour)))
	b.profile(http.StatusOK)
	p, repo := newProvider(t, b)

	id, err := p.AdminLogin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	p.Wait()

	require.NoError(t, p.Source(id).Logout(context.Background()))
	require.Nil(t, p.Session(context.Background(), id).User)
	require.Zero(t, repo.Len())

	_, err = p.TokenSource(context.Background(), id).Token()
	require.ErrorIs(t, err, errors.ErrSessionNotFound)

	// Anonymous and repeated logouts are fine
	require.NoError(t, p.Logout(context.Background(), ""))
	require.NoError(t, p.Logout(context.Background(), id))
}

func TestSource_DrivesTheGate(t *testing.T) {
	b := newFakeBackend(t, mintToken(t, time.Now().Add(time.Hour)))
	b.profile(http.StatusOK)
	p, _ := newProvider(t, b)

	nav := &recordingNavigator{path: "/admin/users"}

	anonymous := gate.New(p.Source(""), nav, gate.DefaultPaths())
	require.Equal(t, gate.Redirecting, anonymous.Evaluate(context.Background()).State())
	require.Equal(t, []string{"/admin/login"}, nav.replaced)

	id, err := p.AdminLogin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	p.Wait()

	nav.replaced = nil
	g := gate.New(p.Source(id), nav, gate.DefaultPaths())
	require.Equal(t, gate.AdminShell, g.Evaluate(context.Background()).State())
	require.Empty(t, nav.replaced)

	require.NoError(t, g.Logout(context.Background()))
	require.Equal(t, []string{"/admin/login"}, nav.replaced)
	require.Equal(t, []string{"Bearer " + b.access}, b.authHeaders())
}

type recordingNavigator struct {
	path     string
	replaced []string
}

func (n *recordingNavigator) CurrentPath() string { return n.path }
func (n *recordingNavigator) Replace(path string) { n.replaced = append(n.replaced, path) }
