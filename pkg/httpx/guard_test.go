package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func guardedRequest(t *testing.T, cfg GuardConfig, path string, credentialed bool) *httptest.ResponseRecorder {
	t.Helper()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if credentialed {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "tok"})
	}
	rec := httptest.NewRecorder()
	RouteGuard(cfg)(next).ServeHTTP(rec, req)
	return rec
}

func TestRouteGuardDecisionTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		path         string
		credentialed bool
		wantStatus   int
		wantLocation string
	}{
		{
			name:       "anonymous on public path is allowed",
			path:       "/login",
			wantStatus: http.StatusOK,
		},
		{
			name:         "anonymous on protected path redirects to login",
			path:         "/sites",
			wantStatus:   http.StatusTemporaryRedirect,
			wantLocation: "/login?redirect=%2Fsites",
		},
		{
			name:         "anonymous on nested protected path preserves target",
			path:         "/sites/abc/settings",
			wantStatus:   http.StatusTemporaryRedirect,
			wantLocation: "/login?redirect=%2Fsites%2Fabc%2Fsettings",
		},
		{
			name:         "credentialed on protected path is allowed",
			path:         "/sites",
			credentialed: true,
			wantStatus:   http.StatusOK,
		},
		{
			name:         "credentialed on login redirects home",
			path:         "/login",
			credentialed: true,
			wantStatus:   http.StatusTemporaryRedirect,
			wantLocation: "/",
		},
		{
			name:         "credentialed on register redirects home",
			path:         "/register",
			credentialed: true,
			wantStatus:   http.StatusTemporaryRedirect,
			wantLocation: "/",
		},
		{
			name:       "anonymous on forgot-password is allowed",
			path:       "/forgot-password",
			wantStatus: http.StatusOK,
		},
		{
			name:         "credentialed on forgot-password is allowed",
			path:         "/forgot-password",
			credentialed: true,
			wantStatus:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := guardedRequest(t, GuardConfig{}, tt.path, tt.credentialed)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLocation != "" {
				require.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRouteGuardSkipsConfiguredPrefixes(t *testing.T) {
	t.Parallel()

	cfg := GuardConfig{SkipPaths: []string{"/api/", "/metrics"}}

	rec := guardedRequest(t, cfg, "/api/sites", false)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = guardedRequest(t, cfg, "/metrics", false)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouteGuardEmptyCookieIsAnonymous(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/sites", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: ""})
	rec := httptest.NewRecorder()
	RouteGuard(GuardConfig{})(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
}
