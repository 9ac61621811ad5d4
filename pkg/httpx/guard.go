package httpx

import (
	"net/http"
	"net/url"
	"strings"
)

// GuardConfig configures the route guard. The zero value is completed by
// defaults matching the dashboard's route map.
type GuardConfig struct {
	// CookieName is the credential marker cookie (default "access_token").
	CookieName string

	// LoginPath is where unauthenticated navigations are sent (default "/login").
	LoginPath string

	// HomePath is where credentialed hits on auth-entry paths are sent
	// (default "/").
	HomePath string

	// RedirectParam carries the originally requested path through the login
	// redirect (default "redirect").
	RedirectParam string

	// PublicPaths are prefixes that never require a credential.
	PublicPaths []string

	// AuthEntryPaths are login/registration prefixes; a credentialed request
	// is redirected away from them.
	AuthEntryPaths []string

	// SkipPaths are prefixes the guard ignores entirely (API, assets, health).
	SkipPaths []string
}

func (cfg GuardConfig) withDefaults() GuardConfig {
	if cfg.CookieName == "" {
		cfg.CookieName = "access_token"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/"
	}
	if cfg.RedirectParam == "" {
		cfg.RedirectParam = "redirect"
	}
	if cfg.PublicPaths == nil {
		cfg.PublicPaths = []string{
			"/login",
			"/register",
			"/forgot-password",
			"/reset-password",
			"/verify-email",
		}
	}
	if cfg.AuthEntryPaths == nil {
		cfg.AuthEntryPaths = []string{"/login", "/register"}
	}
	return cfg
}

// RouteGuard gates navigations on credential presence, before any page logic
// runs. It runs outside the session's process and therefore reads only the
// persisted cookie marker — a deliberately coarse check: the token's expiry
// and signature are the server's problem, presence is the guard's.
//
// Decision table:
//
//	credentialed + auth-entry path -> redirect home
//	credentialed                   -> allow
//	anonymous + public path        -> allow
//	anonymous                      -> redirect to login, preserving the target
func RouteGuard(cfg GuardConfig) Middleware {
	cfg = cfg.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if hasAnyPrefix(path, cfg.SkipPaths) {
				next.ServeHTTP(w, r)
				return
			}

			credentialed := false
			if c, err := r.Cookie(cfg.CookieName); err == nil && c.Value != "" {
				credentialed = true
			}

			if credentialed {
				if hasAnyPrefix(path, cfg.AuthEntryPaths) {
					http.Redirect(w, r, cfg.HomePath, http.StatusTemporaryRedirect)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if hasAnyPrefix(path, cfg.PublicPaths) {
				next.ServeHTTP(w, r)
				return
			}

			target := cfg.LoginPath + "?" + cfg.RedirectParam + "=" + url.QueryEscape(path)
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)
		})
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
