// Package app wires the sync service together and manages its lifecycle.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	httpapi "github.com/OhMinsSup/jwc-platform-sub000/internal/api/http"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/config"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/reconcile"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/schema"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/server"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/sheets"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/store"
)

// App holds the service's shared resources.
type App struct {
	cfg *config.Config

	registry *schema.Registry
	store    store.Store
	api      sheets.API
	sync     *sheets.SyncManager
	shutdown *server.ShutdownManager

	httpServer *server.GracefulHTTPServer
}

// New validates the configuration and prepares the application.
func New(cfg *config.Config) (*App, error) {
	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	return &App{
		cfg:      cfg,
		registry: schema.NewRegistry(),
		shutdown: server.NewShutdownManager(server.ShutdownConfig{}),
	}, nil
}

// Start initializes shared resources and starts the HTTP server.
func (a *App) Start(ctx context.Context) error {
	if err := a.registry.Register(RegistrationSchema()); err != nil {
		return err
	}
	registrationSchema, err := a.registry.Get(RegistrationSchemaName)
	if err != nil {
		return err
	}

	st, err := store.NewSQLiteStore(a.cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	a.store = st
	a.shutdown.RegisterCloser(st)

	a.api, err = a.newSheetsAPI(ctx)
	if err != nil {
		return err
	}
	a.sync = sheets.NewSyncManager(a.api)

	target := sheets.Target{
		SpreadsheetID: a.cfg.Sheets.SpreadsheetID,
		SheetName:     a.cfg.Sheets.SheetName,
	}
	reconciler := reconcile.New(
		registrationSchema,
		a.store,
		a.sync,
		target,
		a.cfg.Sheets.ReadOnlyHeaders,
		a.cfg.Export.DefaultLimit,
	)

	mux := http.NewServeMux()
	mux.Handle("/webhook/sheets", httpapi.NewWebhookHandler(reconciler))
	mux.Handle("/export", httpapi.NewExportHandler(registrationSchema, a.store, a.sync, target, a.cfg.Export.DefaultLimit))
	mux.Handle("/healthz", httpapi.HealthHandler())

	handler := server.ShutdownMiddleware(a.shutdown)(httpapi.DefaultMiddleware()(mux))

	a.httpServer = server.NewGracefulHTTPServer(&http.Server{
		Addr:         a.cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		IdleTimeout:  a.cfg.HTTP.IdleTimeout,
	}, a.shutdown)

	go func() {
		log.Printf("app: http server listening on %s", a.cfg.HTTP.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil {
			log.Printf("app: http server error: %v", err)
		}
	}()

	return nil
}

// Wait blocks until a termination signal arrives, then shuts down.
func (a *App) Wait(ctx context.Context) error {
	return a.shutdown.ListenForSignals(ctx)
}

// Stop initiates graceful shutdown.
func (a *App) Stop(ctx context.Context) error {
	return a.shutdown.Shutdown(ctx, "stop requested")
}

// Store exposes the canonical store for one-shot tooling.
func (a *App) Store() store.Store {
	return a.store
}

func (a *App) newSheetsAPI(ctx context.Context) (sheets.API, error) {
	switch a.cfg.Sheets.Provider {
	case config.ProviderGoogle:
		api, err := sheets.NewGoogleAPI(ctx, a.cfg.Sheets.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create google sheets client: %w", err)
		}
		return api, nil
	case config.ProviderFake:
		return sheets.NewFake(), nil
	default:
		return nil, fmt.Errorf("unsupported sheets provider %q", a.cfg.Sheets.Provider)
	}
}
