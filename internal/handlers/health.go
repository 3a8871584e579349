package handlers

import (
	"net/http"

	"github.com/webdevzw/reviews-apiserver/internal/services"
)

// HealthHandler exposes liveness and store-connectivity checks.
type HealthHandler struct {
	reviewService *services.ReviewService
}

func NewHealthHandler(reviewService *services.ReviewService) *HealthHandler {
	return &HealthHandler{reviewService: reviewService}
}

// Healthz reports process liveness.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// TestStore runs a trivial store round-trip.
func (h *HealthHandler) TestStore(w http.ResponseWriter, r *http.Request) {
	if err := h.reviewService.Ping(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Database connection failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "Database connection successful"})
}
