package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/webdevzw/reviews-apiserver/internal/services"
	"github.com/webdevzw/reviews-apiserver/internal/store"
	"github.com/webdevzw/reviews-apiserver/internal/validate"
	"github.com/webdevzw/reviews-apiserver/types"
)

// ReviewHandler provides HTTP handlers for review intake and moderation.
type ReviewHandler struct {
	reviewService *services.ReviewService
	exportService *services.ExportService
}

// NewReviewHandler constructs a handler with the provided services.
func NewReviewHandler(reviewService *services.ReviewService, exportService *services.ExportService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		exportService: exportService,
	}
}

// ReviewRouter registers review routes on the given router. Submission is
// public; everything else sits behind the auth middleware.
func ReviewRouter(r chi.Router, handler *ReviewHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/", handler.SubmitReview)
	r.With(authMiddleware).Get("/", handler.ListReviews)
	r.With(authMiddleware).Get("/export", handler.ExportReviews)
	r.Route("/{reviewID}", func(r chi.Router) {
		r.With(authMiddleware).Patch("/", handler.PatchReview)
		r.With(authMiddleware).Delete("/", handler.DeleteReview)
		r.With(authMiddleware).Patch("/testimonial", handler.SetTestimonial)
	})
}

// SubmitRequest is the public submission payload. Its rules mirror the
// data-model invariants; violations never reach the store.
type SubmitRequest struct {
	Service     types.ServiceCategory `json:"service" validate:"required,oneof=WEBSITE_DEVELOPMENT HOSTING DOMAIN_SALES CONSULTING MAINTENANCE"`
	Content     string                `json:"content" validate:"required,min=10"`
	Rating      int                   `json:"rating" validate:"required,gte=1,lte=5"`
	ClientEmail string                `json:"clientEmail" validate:"required,email"`
	ClientName  string                `json:"clientName" validate:"required,min=2"`
	PhoneNumber string                `json:"phoneNumber"`
	CompanyName string                `json:"companyName"`
	UserID      string                `json:"userId" validate:"required"`
}

func (req SubmitRequest) draft() types.Review {
	return types.Review{
		Service:     req.Service,
		Content:     req.Content,
		Rating:      req.Rating,
		ClientEmail: req.ClientEmail,
		ClientName:  req.ClientName,
		PhoneNumber: req.PhoneNumber,
		CompanyName: req.CompanyName,
		UserID:      req.UserID,
	}
}

// SubmitFeedback accepts a public submission and replies with the created
// record wrapped in a feedback envelope.
func (h *ReviewHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	created, ok := h.submit(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]types.Review{"review": created})
}

// SubmitReview accepts a public submission and replies with the created
// record wrapped in a success envelope.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	created, ok := h.submit(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": created})
}

func (h *ReviewHandler) submit(w http.ResponseWriter, r *http.Request) (types.Review, bool) {
	var req SubmitRequest
	if err := validate.DecodeStrict(r, &req); err != nil {
		writeValidationError(w, err)
		return types.Review{}, false
	}

	created, err := h.reviewService.Submit(r.Context(), req.draft())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create review")
		return types.Review{}, false
	}
	return created, true
}

// ListReviews returns every review, newest first.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// PatchReview applies a partial update and returns the updated record.
func (h *ReviewHandler) PatchReview(w http.ResponseWriter, r *http.Request) {
	id, err := parseReviewID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch services.ReviewPatch
	if err := validate.DecodeStrict(r, &patch); err != nil {
		writeValidationError(w, err)
		return
	}

	updated, err := h.reviewService.Patch(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "review not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update review")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteReview removes the record permanently.
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := parseReviewID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.reviewService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "review not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete review")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// TestimonialRequest toggles a review's promotion flag.
type TestimonialRequest struct {
	IsTestimonial *bool `json:"isTestimonial" validate:"required"`
}

// SetTestimonial promotes or demotes a review. A 409 means two
// promotions raced; the client should retry.
func (h *ReviewHandler) SetTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := parseReviewID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req TestimonialRequest
	if err := validate.DecodeStrict(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	review, err := h.reviewService.SetTestimonial(r.Context(), id, *req.IsTestimonial)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "review not found")
		case errors.Is(err, store.ErrConflict):
			writeError(w, http.StatusConflict, "testimonial order conflict")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update testimonial status")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "review": review})
}

// ExportReviews streams the full review list as a downloadable document.
func (h *ReviewHandler) ExportReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch reviews")
		return
	}

	document, filename, err := h.exportService.Export(r.Context(), reviews)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export reviews")
		return
	}

	w.Header().Set("Content-Type", h.exportService.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(document)
}

func parseReviewID(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "reviewID"))
	if id == "" {
		return "", fmt.Errorf("review id is required")
	}
	return id, nil
}
