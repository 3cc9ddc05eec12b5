package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"callcast/pkg/contracts"
	apiv1 "callcast/pkg/contracts/api/v1"
)

// HealthHandler serves liveness and version endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Healthz handles GET /api/healthz.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, apiv1.HealthResponse{
		Status:    "healthy",
		Version:   contracts.Version,
		Timestamp: time.Now().UTC(),
	})
}

// Version handles GET /api/version.
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, contracts.GetVersionInfo())
}
