package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"podcastgen/metrics"
	"podcastgen/middleware"
)

// NewRouter wires the HTTP surface: task CRUD, raw queue access, the
// submission shortcut, and the operational endpoints.
func NewRouter(h *TaskHandler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.TraceID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery(logger))

	r.Post("/task", h.Create)
	r.Get("/task", h.List)
	r.Get("/task/{id}", h.GetByID)
	r.Post("/queue", h.Enqueue)
	r.Get("/queue/estimate", h.Estimate)
	r.Post("/submit", h.Submit)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	return r
}
