package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"feiralens/internal/pipeline"
)

// HealthHandler serves liveness and version probes.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":  "healthy",
		"uptime":  time.Since(h.startedAt).String(),
		"version": pipeline.Version,
	})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"version": pipeline.Version})
}
