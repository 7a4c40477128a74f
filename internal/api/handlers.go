package api

import (
	"encoding/json"
	"net/http"

	"swing-coach-lab/internal/session"
)

type handlers struct {
	controller *session.Controller
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// status returns the session snapshot: mode, swing count, last result.
func (h *handlers) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}

func (h *handlers) startSession(w http.ResponseWriter, _ *http.Request) {
	sessionID := h.controller.Start()
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": sessionID})
}

func (h *handlers) stopSession(w http.ResponseWriter, _ *http.Request) {
	h.controller.Stop()
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
