package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rankwise/dashboard/pkg/apiclient"
	"github.com/rankwise/dashboard/pkg/credstore"
	"github.com/rankwise/dashboard/pkg/session"
)

// newUpstream fakes the API origin: credential exchange plus one resource
// endpoint that requires the issued bearer token.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req apiclient.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"message": "Invalid email or password", "code": "INVALID_CREDENTIALS",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(apiclient.AuthResponse{
			User:         session.User{ID: "usr-1", Email: req.Email, Name: "Ana", Role: session.RoleOwner},
			Organization: session.Organization{ID: "org-1", Name: "Acme SEO", Slug: "acme-seo", Tier: session.TierGrowth},
			Organizations: []session.Organization{
				{ID: "org-1", Name: "Acme SEO", Slug: "acme-seo", Tier: session.TierGrowth},
				{ID: "org-2", Name: "Beta Agency", Slug: "beta-agency", Tier: session.TierAgency},
			},
			Tokens: credstore.Credential{AccessToken: "acc-1", RefreshToken: "ref-1"},
		})
	})
	mux.HandleFunc("GET /api/v1/sites", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer acc-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(apiclient.Paginated[apiclient.Site]{
			Data: []apiclient.Site{{ID: "site-1", Name: "Acme"}},
			Meta: apiclient.PageMeta{Page: 1, Limit: 20, Total: 1, TotalPages: 1},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type testEnv struct {
	router  *Router
	creds   *credstore.Memory
	mirror  *credstore.CookieMirror
	session *session.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	upstream := newUpstream(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mirror := credstore.NewCookieMirror("", false)
	creds := credstore.NewMemory(mirror)
	sess := session.New(creds)
	sess.SetLoading(false)

	api := apiclient.New(apiclient.Config{
		BaseURL:     upstream.URL,
		Credentials: creds,
		Session:     sess,
		Timeout:     2 * time.Second,
		Logger:      logger,
	})

	router := NewRouter(RouterConfig{
		API:          api,
		Session:      sess,
		Credentials:  creds,
		Mirror:       mirror,
		BuildVersion: "test",
		Logger:       logger,
	})
	router.ApplyRoutes()

	return &testEnv{router: router, creds: creds, mirror: mirror, session: sess}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"hunter2"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.True(t, snap.Authenticated)
	require.Equal(t, "usr-1", snap.User.ID)
	require.Equal(t, "org-1", snap.Organization.ID)
	require.Len(t, snap.Organizations, 2)

	// The credential landed in the store and the response set its cookie.
	cred, err := env.creds.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "acc-1", cred.AccessToken)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, credstore.DefaultCookieName, cookies[0].Name)
	require.Equal(t, "acc-1", cookies[0].Value)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"wrong"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "INVALID_CREDENTIALS", body.Code)
	require.False(t, env.session.Snapshot().Authenticated)
}

func TestLoginRejectsMissingFields(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutClearsSessionAndCookie(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/logout", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Empty(t, cookies[0].Value)
	require.Equal(t, -1, cookies[0].MaxAge)

	require.False(t, env.session.Snapshot().Authenticated)

	// Logging out again still succeeds.
	rec = env.do(t, http.MethodPost, "/api/auth/logout", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSessionEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/auth/session", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.False(t, snap.Authenticated)
	require.False(t, snap.Loading)
}

func TestSwitchOrganization(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"hunter2"}`)

	rec := env.do(t, http.MethodPost, "/api/auth/switch-organization",
		`{"organizationId":"org-2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Equal(t, "org-2", snap.Organization.ID)

	rec = env.do(t, http.MethodPost, "/api/auth/switch-organization",
		`{"organizationId":"org-999"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSitesProxy(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"hunter2"}`)

	rec := env.do(t, http.MethodGet, "/api/sites", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page apiclient.Paginated[apiclient.Site]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	require.Equal(t, "site-1", page.Data[0].ID)
}

func TestPageShellBehindGuard(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// Anonymous navigation to a protected page bounces to login.
	rec := env.do(t, http.MethodGet, "/sites", "")
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.Equal(t, "/login?redirect=%2Fsites", rec.Header().Get("Location"))

	// With the credential cookie the shell renders, embedding the snapshot.
	req := httptest.NewRequest(http.MethodGet, "/sites", nil)
	req.AddCookie(&http.Cookie{Name: credstore.DefaultCookieName, Value: "acc-1"})
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), `id="session-state"`)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/livez", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)
}
