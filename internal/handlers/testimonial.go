package handlers

import (
	"net/http"

	"github.com/webdevzw/reviews-apiserver/internal/services"
	"github.com/webdevzw/reviews-apiserver/types"
)

// TestimonialHandler serves the public, read-only testimonial projection
// consumed by the external site.
type TestimonialHandler struct {
	reviewService *services.ReviewService
	allowedOrigin string
}

// NewTestimonialHandler constructs a handler scoped to the one external
// origin allowed to embed testimonials.
func NewTestimonialHandler(reviewService *services.ReviewService, allowedOrigin string) *TestimonialHandler {
	return &TestimonialHandler{
		reviewService: reviewService,
		allowedOrigin: allowedOrigin,
	}
}

// TestimonialsResponse is the public payload.
type TestimonialsResponse struct {
	Success      bool                `json:"success"`
	Testimonials []types.Testimonial `json:"testimonials"`
}

// ListTestimonials returns promoted, high-rated reviews in display order.
// The projection never carries contact details, moderation state, or
// identifiers.
func (h *TestimonialHandler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	h.setCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	testimonials, err := h.reviewService.ListTestimonials(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch testimonials")
		return
	}

	writeJSON(w, http.StatusOK, TestimonialsResponse{
		Success:      true,
		Testimonials: testimonials,
	})
}

// setCORSHeaders scopes cross-origin access to the single configured
// origin and read methods only.
func (h *TestimonialHandler) setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", h.allowedOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
