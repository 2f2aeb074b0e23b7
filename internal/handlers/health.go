package handlers

import (
	"net/http"

	"github.com/benvon/todo-assistant/internal/models"
	"github.com/gorilla/mux"
)

// HealthHandler reports liveness. It has no dependencies to check.
type HealthHandler struct {
	response models.HealthResponse
}

// NewHealthHandler creates a health handler reporting service and version
func NewHealthHandler(service, version string) *HealthHandler {
	return &HealthHandler{response: models.HealthResponse{
		Status:  "healthy",
		Service: service,
		Version: version,
	}}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.response)
}
