package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rankwise/dashboard/pkg/apiclient"
	"github.com/rankwise/dashboard/pkg/credstore"
	"github.com/rankwise/dashboard/pkg/httpx"
	"github.com/rankwise/dashboard/pkg/session"
	"github.com/rankwise/dashboard/pkg/slogx"
)

// RouterConfig carries the dependencies every handler group shares.
type RouterConfig struct {
	API          *apiclient.Client
	Session      *session.Store
	Credentials  credstore.Store
	Mirror       *credstore.CookieMirror
	BuildVersion string
	Logger       *slog.Logger
}

// Pinger is the readiness contract a persisted credential store backend
// satisfies. In-memory stores don't, and readiness then skips the check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux *chi.Mux

	api          *apiclient.Client
	session      *session.Store
	creds        credstore.Store
	mirror       *credstore.CookieMirror
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
}

func NewRouter(cfg RouterConfig) *Router {
	r := &Router{
		Mux:          chi.NewRouter(),
		api:          cfg.API,
		session:      cfg.Session,
		creds:        cfg.Credentials,
		mirror:       cfg.Mirror,
		buildVersion: cfg.BuildVersion,
		startTime:    time.Now(),
		logger:       cfg.Logger,
	}

	r.Mux.Use(slogx.HTTPMiddleware(r.logger))
	r.Mux.Use(httpx.PrometheusMetrics("dashboard"))
	if r.mirror != nil {
		r.Mux.Use(httpx.CookieSync(r.mirror))
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAPI()
	r.registerSystem()
	r.registerPages()
}

// ServeHTTP implements http.Handler for Router.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Mux.ServeHTTP(w, req)
}

func (r *Router) registerAPI() {
	auth := &AuthHandler{API: r.api, Session: r.session, Credentials: r.creds}
	sites := &SitesHandler{API: r.api}
	businesses := &BusinessesHandler{API: r.api}
	licenses := &LicensesHandler{API: r.api}
	credits := &CreditsHandler{API: r.api}
	billing := &BillingHandler{API: r.api}

	r.Mux.Route("/api", func(api chi.Router) {
		// Credential exchange gets the strict limit (brute-force surface);
		// the rest of the auth endpoints are local state reads/writes.
		api.With(httpx.RateLimitByIP(httpx.StrictLimit)).
			Post("/auth/login", auth.HandleLogin)
		api.Post("/auth/logout", auth.HandleLogout)
		api.Get("/auth/session", auth.HandleSession)
		api.Post("/auth/switch-organization", auth.HandleSwitchOrganization)

		api.Group(func(res chi.Router) {
			res.Use(httpx.RateLimitByIP(httpx.LenientLimit))

			res.Route("/sites", func(rt chi.Router) {
				rt.Get("/", sites.HandleList)
				rt.Post("/", sites.HandleCreate)
				rt.Get("/{id}", sites.HandleGet)
				rt.Patch("/{id}", sites.HandleUpdate)
				rt.Delete("/{id}", sites.HandleDelete)
				rt.Get("/{id}/businesses", businesses.HandleListForSite)
			})

			res.Get("/businesses/{id}", businesses.HandleGet)

			res.Route("/licenses", func(rt chi.Router) {
				rt.Get("/", licenses.HandleList)
				rt.Post("/", licenses.HandleCreate)
			})

			res.Get("/credits/balance", credits.HandleBalance)
			res.Get("/credits/transactions", credits.HandleTransactions)

			res.Get("/billing/subscription", billing.HandleSubscription)
			res.Get("/billing/invoices", billing.HandleInvoices)
		})
	})
}

func (r *Router) registerSystem() {
	r.Mux.Method(http.MethodGet, "/livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Method(http.MethodGet, "/readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.creds),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

func (r *Router) registerPages() {
	pages := &PagesHandler{Session: r.session}

	guard := httpx.RouteGuard(httpx.GuardConfig{
		SkipPaths: []string{"/api/", "/metrics", "/livez", "/readyz", "/assets/", "/favicon.ico"},
	})

	r.Mux.Handle("/*", guard(pages))
}
