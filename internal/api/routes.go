package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHealthHandler builds the liveness and readiness checks served under /health
func NewHealthHandler(db *sql.DB) healthcheck.Handler {
	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(1000))
	if db != nil {
		health.AddReadinessCheck("database", healthcheck.DatabasePingCheck(db, 1*time.Second))
	}
	return health
}

// NewRouter creates and configures the Chi router
func NewRouter(h *Handler, health healthcheck.Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(Recoverer(h.log))
	r.Use(Logger(h.log))
	r.Use(CORS)

	if health == nil {
		health = NewHealthHandler(nil)
	}
	r.Handle("/health/*", http.StripPrefix("/health", health))
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(JSONContentType)

		r.Get("/practice", h.GetPractice)
		r.Post("/answers", h.SubmitAnswer)
		r.Get("/progress", h.GetProgress)
		r.Get("/hint", h.GetHint)

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", h.ListCards)
			r.Post("/", h.CreateCard)
			r.Post("/import", h.ImportCards)
			r.Get("/export", h.ExportCards)
			r.Get("/{id}", h.GetCard)
		})
	})

	return r
}
