package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"callcast/internal/config"
	"callcast/internal/infrastructure"
	"callcast/internal/operations"
	transporthttp "callcast/internal/transport/http"
)

// App is the assembled build service.
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	otel    *infrastructure.OTelProviders
	manager *operations.Manager
	server  *http.Server

	cancelBuilds context.CancelFunc
}

// New assembles the service for cfg with default telemetry. The returned
// App owns the OTel providers and the build context; Run releases both.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	return NewWithTelemetry(cfg, log, nil)
}

// NewWithTelemetry assembles the service with an explicit telemetry
// configuration. Tests pass a disabled configuration so repeated setup does
// not re-register Prometheus collectors.
func NewWithTelemetry(cfg *config.Config, log *slog.Logger, otelCfg *infrastructure.OTelConfig) (*App, error) {
	providers, err := infrastructure.InitializeOTel(otelCfg, log)
	if err != nil {
		return nil, fmt.Errorf("initialize observability: %w", err)
	}

	var metrics *infrastructure.PipelineMetrics
	if providers.Meter != nil {
		metrics, err = infrastructure.CreatePipelineMetrics(providers.Meter)
		if err != nil {
			return nil, fmt.Errorf("create pipeline metrics: %w", err)
		}
	}

	// Builds outlive the HTTP requests that trigger them; their context is
	// cancelled only at shutdown.
	buildCtx, cancelBuilds := context.WithCancel(context.Background())
	manager := operations.NewPipelineManager(buildCtx, cfg, log, metrics)
	if providers.Tracer != nil {
		manager.WithTracer(providers.Tracer)
	}

	router := transporthttp.NewRouter(transporthttp.RouterDeps{
		Builds:         manager,
		Logger:         log,
		OutputDir:      cfg.OutputDir,
		RateLimit:      cfg.Server.RateLimit,
		Metrics:        metrics,
		MetricsHandler: providers.PrometheusHTTP,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
	}

	return &App{
		cfg:          cfg,
		log:          log,
		otel:         providers,
		manager:      manager,
		server:       server,
		cancelBuilds: cancelBuilds,
	}, nil
}

// Manager exposes the operations manager, mainly for tests.
func (a *App) Manager() *operations.Manager {
	return a.manager
}

// Addr returns the server's listen address.
func (a *App) Addr() string {
	return a.server.Addr
}

// Run serves until ctx is cancelled, then shuts down: stop accepting
// requests, cancel and drain in-flight builds, flush telemetry.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.InfoContext(ctx, "build service listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		// The listener failed before shutdown was requested. Release builds
		// and telemetry the same way the normal path does.
		a.cancelBuilds()
		a.manager.Wait()
		flushCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		if terr := a.otel.Shutdown(flushCtx); terr != nil {
			a.log.Warn("telemetry shutdown failed", slog.String("error", terr.Error()))
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down build service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Std())
	defer cancel()

	shutdownErr := a.server.Shutdown(shutdownCtx)

	a.cancelBuilds()
	a.manager.Wait()

	if err := a.otel.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
	}

	if shutdownErr != nil {
		return fmt.Errorf("server shutdown: %w", shutdownErr)
	}
	<-errCh
	return nil
}

// RunWithTimeout is Run bounded by a deadline, used by smoke tests.
func (a *App) RunWithTimeout(parent context.Context, d time.Duration) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return a.Run(ctx)
}
