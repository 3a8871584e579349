package services

import (
	"context"

	"github.com/webdevzw/reviews-apiserver/internal/notify"
	"github.com/webdevzw/reviews-apiserver/internal/store"
	"github.com/webdevzw/reviews-apiserver/types"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	List(ctx context.Context, filter store.ReviewFilter) ([]types.Review, error)
	Get(ctx context.Context, id string) (types.Review, error)
	Create(ctx context.Context, review types.Review) (types.Review, error)
	Update(ctx context.Context, review types.Review) (types.Review, error)
	Delete(ctx context.Context, id string) error
	SetTestimonial(ctx context.Context, id string, promote bool) (types.Review, error)
	Ping(ctx context.Context) error
}

// ReviewPatch is a partial update of a review's mutable fields. Nil
// pointers leave the field untouched; present values are re-validated
// against the same rules as submission.
type ReviewPatch struct {
	Service       *types.ServiceCategory `json:"service" validate:"omitempty,oneof=WEBSITE_DEVELOPMENT HOSTING DOMAIN_SALES CONSULTING MAINTENANCE"`
	Content       *string                `json:"content" validate:"omitempty,min=10"`
	Rating        *int                   `json:"rating" validate:"omitempty,gte=1,lte=5"`
	ClientName    *string                `json:"clientName" validate:"omitempty,min=2"`
	ClientEmail   *string                `json:"clientEmail" validate:"omitempty,email"`
	PhoneNumber   *string                `json:"phoneNumber"`
	CompanyName   *string                `json:"companyName"`
	UserID        *string                `json:"userId" validate:"omitempty,min=1"`
	Status        *types.ReviewStatus    `json:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

// ReviewService owns the review lifecycle: intake, moderation, and
// testimonial promotion.
type ReviewService struct {
	repo     ReviewRepository
	notifier *notify.Notifier
}

func NewReviewService(repo ReviewRepository, notifier *notify.Notifier) *ReviewService {
	return &ReviewService{repo: repo, notifier: notifier}
}

// Submit persists a validated draft. Whatever the caller supplied, a new
// review always enters moderation as a pending non-testimonial.
func (s *ReviewService) Submit(ctx context.Context, draft types.Review) (types.Review, error) {
	draft.Status = types.StatusPending
	draft.IsTestimonial = false
	draft.TestimonialOrder = nil

	created, err := s.repo.Create(ctx, draft)
	if err != nil {
		return types.Review{}, err
	}
	s.notifier.ReviewSubmitted(ctx, created)
	return created, nil
}

// List returns all reviews, newest first.
func (s *ReviewService) List(ctx context.Context) ([]types.Review, error) {
	return s.repo.List(ctx, store.ReviewFilter{Order: store.OrderCreatedDesc})
}

func (s *ReviewService) Get(ctx context.Context, id string) (types.Review, error) {
	return s.repo.Get(ctx, id)
}

// Patch applies a partial update and refreshes updatedAt. The record must
// exist; fields the patch does not mention keep their values.
func (s *ReviewService) Patch(ctx context.Context, id string, patch ReviewPatch) (types.Review, error) {
	review, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Review{}, err
	}

	if patch.Service != nil {
		review.Service = *patch.Service
	}
	if patch.Content != nil {
		review.Content = *patch.Content
	}
	if patch.Rating != nil {
		review.Rating = *patch.Rating
	}
	if patch.ClientName != nil {
		review.ClientName = *patch.ClientName
	}
	if patch.ClientEmail != nil {
		review.ClientEmail = *patch.ClientEmail
	}
	if patch.PhoneNumber != nil {
		review.PhoneNumber = *patch.PhoneNumber
	}
	if patch.CompanyName != nil {
		review.CompanyName = *patch.CompanyName
	}
	if patch.UserID != nil {
		review.UserID = *patch.UserID
	}
	if patch.Status != nil {
		review.Status = *patch.Status
	}

	updated, err := s.repo.Update(ctx, review)
	if err != nil {
		return types.Review{}, err
	}
	s.notifier.ReviewModerated(ctx, "updated", updated)
	return updated, nil
}

// Delete removes the review permanently.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	review, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.ReviewModerated(ctx, "deleted", review)
	return nil
}

// SetTestimonial promotes or demotes a review. Order assignment happens
// atomically in the store; store.ErrConflict means a concurrent promotion
// collided and the caller should retry.
func (s *ReviewService) SetTestimonial(ctx context.Context, id string, promote bool) (types.Review, error) {
	review, err := s.repo.SetTestimonial(ctx, id, promote)
	if err != nil {
		return types.Review{}, err
	}
	action := "demoted"
	if promote {
		action = "promoted"
	}
	s.notifier.ReviewModerated(ctx, action, review)
	return review, nil
}

// minTestimonialRating is the lowest rating shown publicly.
const minTestimonialRating = 4

// ListTestimonials returns the public projection: promoted, high-rated
// reviews in display order, stripped of contact details and identifiers.
func (s *ReviewService) ListTestimonials(ctx context.Context) ([]types.Testimonial, error) {
	promoted := true
	reviews, err := s.repo.List(ctx, store.ReviewFilter{
		Testimonial: &promoted,
		MinRating:   minTestimonialRating,
		Order:       store.OrderTestimonialAsc,
	})
	if err != nil {
		return nil, err
	}

	testimonials := make([]types.Testimonial, 0, len(reviews))
	for _, review := range reviews {
		testimonials = append(testimonials, review.AsTestimonial())
	}
	return testimonials, nil
}

// Ping checks the review store is reachable.
func (s *ReviewService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
