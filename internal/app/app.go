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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/KeremDpdo/research-publication-dashboard/internal/config"
	apierrors "github.com/KeremDpdo/research-publication-dashboard/internal/errors"
	"github.com/KeremDpdo/research-publication-dashboard/internal/infrastructure"
	customMiddleware "github.com/KeremDpdo/research-publication-dashboard/internal/middleware"
	"github.com/KeremDpdo/research-publication-dashboard/internal/services"
	handlers "github.com/KeremDpdo/research-publication-dashboard/internal/transport/http"
)

// Application wires the analysis service into the HTTP server
type Application struct {
	Config          *config.Config
	Router          *chi.Mux
	Server          *http.Server
	AnalysisService *services.AnalysisService
	Telemetry       *infrastructure.Telemetry
	Logger          *slog.Logger
	errorHandler    *apierrors.ErrorHandler
}

// NewApplication creates the services, router and server. Telemetry may be
// nil, in which case requests are neither traced nor measured.
func NewApplication(cfg *config.Config, logger *slog.Logger, telemetry *infrastructure.Telemetry) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Application{
		Config:          cfg,
		AnalysisService: services.NewAnalysisService(cfg.Analysis, logger),
		Telemetry:       telemetry,
		Logger:          logger,
		errorHandler:    apierrors.NewErrorHandler(logger, false),
	}

	if err := a.setupRouter(); err != nil {
		a.AnalysisService.Close()
		return nil, err
	}
	a.createServer()
	return a, nil
}

func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	if a.Telemetry != nil {
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to create telemetry middleware: %w", err)
		}
		r.Use(otelMiddleware.Handler)
	}

	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotFound, "NOT_FOUND", "no route matches "+r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		a.errorHandler.HandleError(w, r, apierrors.New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			r.Method+" is not allowed on "+r.URL.Path))
	})

	a.setupAPIRoutes(r)

	if a.Telemetry != nil && a.Telemetry.MetricsHandler != nil {
		r.Handle("/metrics", a.Telemetry.MetricsHandler)
	}

	a.Router = r
	return nil
}

func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.AnalysisService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)

		r.Group(func(r chi.Router) {
			if a.Config.Security.RateLimit.Enabled {
				r.Use(customMiddleware.NewRateLimiter(
					a.Config.Security.RateLimit.RPS,
					a.Config.Security.RateLimit.Burst,
					a.Logger,
				).Handler)
			}
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

			analysisHandler := handlers.NewAnalysisHandler(a.AnalysisService, a.Config.Analysis.MaxUploadBytes, a.Logger, a.errorHandler)
			r.Mount("/analyses", analysisHandler.Routes())
		})
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Address(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start begins serving in the background. A listen failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	a.AnalysisService.Close()

	if a.Telemetry != nil {
		if err := a.Telemetry.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down telemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return errors.Join(errs...)
}

// Run serves until ctx is cancelled or the process receives SIGINT or SIGTERM
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.InfoContext(ctx, "received shutdown signal")
	return a.Stop(ctx)
}
