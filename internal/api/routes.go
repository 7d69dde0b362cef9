package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zapponejosh/amlich-api/internal/config"
	"github.com/zapponejosh/amlich-api/internal/metrics"
)

// RouterDeps groups what NewRouter needs besides the handlers.
type RouterDeps struct {
	Config    *config.Config
	Logger    *slog.Logger
	Metrics   *metrics.Collector
	Gatherer  prometheus.Gatherer
	RateLimit *RateLimiter
}

// NewRouter configures all HTTP routes.
//
// Route structure:
//
//	GET    /health
//	GET    /metrics
//	GET    /api/v1/lunar?year=&month=&day=
//	GET    /api/v1/days/today
//	GET    /api/v1/days/{date}
//	GET    /api/v1/months/{year}/{month}
//	GET    /api/v1/years/{year}
//	GET    /api/v1/years/{year}/festivals.ics
//	GET    /api/v1/festivals?year=&month=&day=
//	GET    /api/v1/festivals/catalog
//	GET    /api/v1/festivals/solar/{month}/{day}
//	GET    /api/v1/festivals/lunar/{month}/{day}
//	GET    /api/v1/observances
//	POST   /api/v1/observances        (API key)
//	DELETE /api/v1/observances/{id}   (API key)
func NewRouter(h *Handlers, deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(deps.Logger),
		RequestIDMiddleware(),
		LoggingMiddleware(deps.Logger),
	)
	if deps.Metrics != nil {
		r.Use(MetricsMiddleware(deps.Metrics))
	}
	r.Use(CORSMiddleware())

	r.Get("/health", h.HealthCheck)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Middleware(deps.Logger))
		}

		r.Get("/lunar", h.ConvertToLunar)

		r.Get("/days/today", h.GetToday)
		r.Get("/days/{date}", h.GetDay)
		r.Get("/months/{year}/{month}", h.GetMonth)
		r.Get("/years/{year}", h.GetYear)
		r.Get("/years/{year}/festivals.ics", h.ExportYearICS)

		r.Get("/festivals", h.GetFestivals)
		r.Get("/festivals/catalog", h.GetFestivalCatalog)
		r.Get("/festivals/solar/{month}/{day}", h.GetSolarFestivals)
		r.Get("/festivals/lunar/{month}/{day}", h.GetLunarFestivals)

		r.Get("/observances", h.ListObservances)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(deps.Config, deps.Logger))
			r.Post("/observances", h.CreateObservance)
			r.Delete("/observances/{id}", h.DeleteObservance)
		})
	})

	return r
}
