package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/contactdesk/contactdesk/internal/metrics"
	"github.com/contactdesk/contactdesk/internal/middleware"
)

// RouterConfig wires handlers and middleware into the router.
// MetricsExporter serves /metrics when MetricsEnabled is set.
type RouterConfig struct {
	Logger          *slog.Logger
	Recorder        metrics.Recorder
	MetricsEnabled  bool
	MetricsExporter http.Handler
	IsDevelopment   bool
	AllowedOrigins  []string
	MaxBodySize     int64

	DB          HealthChecker
	Submissions SubmissionService
	Improver    ImproveService
	Usage       UsageReader
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := cfg.MaxBodySize
	if maxBody <= 0 {
		maxBody = 64 << 10
	}

	h := New()
	health := NewHealthHandler(cfg.DB)
	contact := NewContactHandler(cfg.Submissions, logger)
	ai := NewAIHandler(cfg.Improver, cfg.Usage, logger)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.AllowedOrigins

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(cfg.Recorder))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.CORS(corsCfg))

	// Probes and service info
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Get("/", h.Hello)
	if cfg.MetricsEnabled {
		r.Get("/metrics", NewMetricsHandler(cfg.MetricsExporter).Metrics)
	}

	limitBody := middleware.MaxBodySize(maxBody)

	r.Route("/api", func(r chi.Router) {
		r.With(limitBody).Post("/submit", contact.Submit)
		r.Get("/submissions", contact.List)

		r.Route("/ai", func(r chi.Router) {
			// Credential check first, then the body limit.
			r.With(ai.RequireAvailable, limitBody).Post("/improve", ai.Improve)
			r.Get("/usage", ai.Usage)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
