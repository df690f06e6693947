package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/parentbridge/parent-assistant/internal/store"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	pinger store.Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pinger store.Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// Health handles GET /health. The response includes store connectivity.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	database := "connected"
	status := "healthy"
	code := http.StatusOK

	if err := h.pinger.Ping(ctx); err != nil {
		database = "disconnected"
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]string{
		"status":   status,
		"database": database,
	})
}

// Ready handles GET /ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "store not reachable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
