package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/rankwise/dashboard/internal/dashboard/http"
	"github.com/rankwise/dashboard/pkg/apiclient"
	"github.com/rankwise/dashboard/pkg/credstore"
	"github.com/rankwise/dashboard/pkg/credstore/sqlite"
	"github.com/rankwise/dashboard/pkg/session"
	"github.com/rankwise/dashboard/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the dashboard service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	mirror  *credstore.CookieMirror
	creds   *sqlite.Store
	session *session.Store
	api     *apiclient.Client

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "dashboard",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initCredentials(); err != nil {
		return nil, err
	}

	app.session = session.New(app.creds)

	var breaker *apiclient.BreakerConfig
	if cfg.BreakerEnabled {
		b := apiclient.DefaultBreakerConfig("upstream-api")
		breaker = &b
	}
	app.api = apiclient.New(apiclient.Config{
		BaseURL:     cfg.APIURL,
		Credentials: app.creds,
		Session:     app.session,
		Timeout:     cfg.APIRequestTimeout,
		Breaker:     breaker,
		Logger:      app.logger,
	})

	app.initHTTP()

	return app, nil
}

// Bootstrap hydrates session state from a persisted credential, if one
// exists. It always flips the session out of its loading state, so route
// decisions and snapshots are definitive by the time it returns.
func (app *Application) Bootstrap(ctx context.Context) {
	defer app.session.SetLoading(false)

	if _, err := app.creds.Load(ctx); err != nil {
		if !errors.Is(err, credstore.ErrNoCredential) {
			app.logger.Error("credential load failed", "error", err)
		}
		return
	}

	me, err := app.api.Me(ctx)
	if err != nil {
		// An expired credential has already been torn down by the refresh
		// path. Anything else (upstream down, timeout) keeps the stored
		// credential for the next attempt.
		app.logger.Warn("session hydration failed", "error", err)
		return
	}

	app.session.Login(me.User, me.Organization, me.Organizations)
	app.logger.Info("session restored", "user_id", me.User.ID, "organization_id", me.Organization.ID)
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	bootCtx, cancel := context.WithTimeout(context.Background(), app.cfg.APIRequestTimeout)
	app.Bootstrap(bootCtx)
	cancel()

	app.logger.Info("dashboard starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down dashboard...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.creds.Close(); err != nil {
		app.logger.Error("error closing credential store", "error", err)
		return err
	}

	app.logger.Info("dashboard stopped")
	return nil
}

// initCredentials initializes the persisted credential store, its cookie
// mirror, and applies migrations.
func (app *Application) initCredentials() error {
	app.mirror = credstore.NewCookieMirror(credstore.DefaultCookieName, app.cfg.CookieSecure)

	dsn := fmt.Sprintf("file:%s", app.cfg.DatabaseFile)
	store, err := sqlite.New(dsn, app.mirror)
	if err != nil {
		return fmt.Errorf("failed to initialize credential store: %w", err)
	}
	app.creds = store

	if err := store.ApplyMigrations(); err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(httpapi.RouterConfig{
		API:          app.api,
		Session:      app.session,
		Credentials:  app.creds,
		Mirror:       app.mirror,
		BuildVersion: BuildVersion,
		Logger:       app.logger,
	})
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
