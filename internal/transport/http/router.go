package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"callcast/internal/config"
	"callcast/internal/infrastructure"
	"callcast/internal/middleware"
)

// RouterDeps carries everything the router wires together. MetricsHandler
// and Metrics may be nil when telemetry is disabled.
type RouterDeps struct {
	Builds         BuildService
	Logger         *slog.Logger
	OutputDir      string
	RateLimit      config.RateLimitConfig
	Metrics        *infrastructure.PipelineMetrics
	MetricsHandler http.Handler
}

// NewRouter assembles the service's chi router.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))

	builds := NewBuildHandler(deps.Builds, deps.Logger)
	manifest := NewManifestHandler(deps.OutputDir, deps.Logger)
	health := NewHealthHandler()

	r.Route("/api", func(api chi.Router) {
		api.With(middleware.RateLimit(deps.RateLimit)).Post("/builds", builds.Start)
		api.Get("/builds", builds.List)
		api.Get("/builds/{id}", builds.Get)
		api.Get("/manifest", manifest.Latest)
		api.Get("/healthz", health.Healthz)
		api.Get("/version", health.Version)
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}
	return r
}
