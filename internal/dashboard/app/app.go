package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/retailhub/internal/dashboard/http"
	"github.com/aussiebroadwan/retailhub/internal/gateway"
	"github.com/aussiebroadwan/retailhub/internal/guard"
	"github.com/aussiebroadwan/retailhub/internal/session"
	"github.com/aussiebroadwan/retailhub/internal/storage"
	"github.com/aussiebroadwan/retailhub/internal/verification"
	"github.com/aussiebroadwan/retailhub/pkg/retailapi"
	"github.com/aussiebroadwan/retailhub/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the dashboard server with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	kv      storage.KV
	session *session.Store
	gateway *gateway.Transport

	// authAPI talks to the backend without the gateway; the credential
	// endpoints must never trigger a refresh.
	authAPI *retailapi.Client
	// api is routed through the gateway
	api *retailapi.Client

	orchestrator *verification.Orchestrator
	authGate     *guard.AuthGate
	guestGate    *guard.GuestGate
	navigator    *httpapi.Navigator

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
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

	backend, err := url.Parse(cfg.BackendURL)
	if err != nil || backend.Scheme == "" || backend.Host == "" {
		return nil, fmt.Errorf("invalid BACKEND_URL %q", cfg.BackendURL)
	}

	ctx := context.Background()

	kv, err := app.openStorage(ctx)
	if err != nil {
		return nil, err
	}
	app.kv = kv

	if err := app.initSession(ctx); err != nil {
		_ = app.kv.Close()
		return nil, err
	}
	app.initVerification()
	app.initHTTP(backend)

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("dashboard starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"backend", app.cfg.BackendURL,
		"storage", app.cfg.StorageDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown gracefully shuts down the application
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

	if err := app.kv.Close(); err != nil {
		app.logger.Error("error closing session storage", "error", err)
		return err
	}

	app.logger.Info("dashboard stopped")
	return nil
}

// Handler exposes the router, mainly for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// initSession restores the persisted session and builds the credentialed
// backend client around it.
func (app *Application) initSession(ctx context.Context) error {
	app.authAPI = retailapi.NewClient(app.cfg.BackendURL, &http.Client{
		Timeout:   app.cfg.BackendTimeout,
		Transport: slogx.NewTransport(nil, app.logger),
	})

	app.session = session.New(app.kv, app.authAPI, app.logger,
		session.WithLogoutTimeout(app.cfg.LogoutTimeout),
	)
	if err := app.session.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	app.navigator = httpapi.NewNavigator(gateway.DefaultPublicPaths...)
	app.gateway = gateway.New(app.session,
		gateway.WithBase(slogx.NewTransport(nil, app.logger)),
		gateway.WithNavigator(app.navigator),
		gateway.WithLogger(app.logger),
	)

	client := app.gateway.Client()
	client.Timeout = app.cfg.BackendTimeout
	app.api = retailapi.NewClient(app.cfg.BackendURL, client)

	return nil
}

func (app *Application) initVerification() {
	app.orchestrator = verification.New(app.api, app.session, app.logger)
	app.authGate = guard.NewAuthGate(app.session, app.orchestrator, app.logger, app.cfg.VerifyTimeout)
	app.guestGate = guard.NewGuestGate(app.session)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP(backend *url.URL) {
	router := httpapi.NewRouter(BuildVersion, app.kv, app.session, backend, app.logger)

	router.AuthGate = app.authGate
	router.GuestGate = app.guestGate
	router.Navigator = app.navigator
	router.Gateway = app.gateway
	router.Profiles = app.api
	router.Probe = httpapi.HTTPProbe(&http.Client{Timeout: 2 * time.Second}, app.cfg.BackendURL)
	router.VerifyWait = app.cfg.VerifyWait
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
