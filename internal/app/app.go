// Package app wires configuration, logging, the processing pipeline, the
// analytics service and the HTTP transport into one runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"feiralens/internal/analytics"
	"feiralens/internal/categorization"
	"feiralens/internal/config"
	"feiralens/internal/dataprocessing"
	"feiralens/internal/infrastructure"
	custommw "feiralens/internal/middleware"
	"feiralens/internal/metrics"
	"feiralens/internal/pipeline"
	"feiralens/internal/storage"
	transport "feiralens/internal/transport/http"
)

// Application holds all wired components of the web server.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router chi.Router
	Server *http.Server

	Registry  *prometheus.Registry
	Pipeline  *pipeline.Orchestrator
	Analytics *analytics.Service
	Store     *storage.AnalysisStore
}

// New builds a fully wired application from configuration.
func New(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	recorder := metrics.NewRecorder(registry)

	categorizer := categorization.New()
	ledger := dataprocessing.NewLedgerParser(logger, categorizer)
	tabular := dataprocessing.NewTabularImporter(logger, dataprocessing.TabularConfig{
		MarketMarker:    cfg.Import.MarketMarker,
		RequiredColumns: cfg.Import.RequiredColumns,
	})

	orchestrator := pipeline.New(logger, ledger, tabular, recorder)
	analyticsService := analytics.NewService(logger)

	store, err := storage.NewAnalysisStore(logger, cfg.Storage.DataDir, cfg.Storage.PrivateSession)
	if err != nil {
		return nil, fmt.Errorf("initialize analysis store: %w", err)
	}

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Registry:  registry,
		Pipeline:  orchestrator,
		Analytics: analyticsService,
		Store:     store,
	}
	app.setupRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.NewRateLimiter(
		a.Config.Server.RateLimitRPS,
		a.Config.Server.RateLimitBurst,
		a.Logger,
	).Handler)

	pipelineHandler := transport.NewPipelineHandler(a.Pipeline, a.Analytics, a.Logger)
	analyticsHandler := transport.NewAnalyticsHandler(a.Analytics, a.Logger)
	analysesHandler := transport.NewAnalysesHandler(a.Store, pipelineHandler, a.Logger)
	healthHandler := transport.NewHealthHandler()

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.Version)
		r.Mount("/pipeline", pipelineHandler.Routes())
		r.Mount("/analytics", analyticsHandler.Routes())
		r.Mount("/analyses", analysesHandler.Routes())
	})

	// Prometheus endpoint stays outside the middleware chain
	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))

	a.Router = r
}

// Run starts the HTTP server and blocks until the context is cancelled, then
// shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	a.Logger.Info("shutting down server")
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return infrastructure.CloseLogFile()
}
