// Package api exposes the HTTP surface: session control, status, the pose
// WebSocket endpoint, and Prometheus metrics.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"swing-coach-lab/internal/ingestion"
	"swing-coach-lab/internal/observability"
	"swing-coach-lab/internal/session"
)

// NewRouter wires the full HTTP surface.
func NewRouter(controller *session.Controller, wsHandler *ingestion.WSHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	h := &handlers{controller: controller}

	r.Get("/healthz", h.health)
	r.Get("/status", h.status)
	r.Post("/session/start", h.startSession)
	r.Post("/session/stop", h.stopSession)
	r.Handle("/ws", wsHandler)
	r.Handle("/metrics", observability.Handler())

	return r
}
