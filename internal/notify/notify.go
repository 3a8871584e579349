// Package notify publishes moderation events to a message broker so
// downstream consumers (admin alerting, analytics) can react to review
// activity. Publishing is fire-and-forget: a broker failure is logged and
// never fails the request that triggered it. The request/response path has
// no in-process subscribers.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/webdevzw/reviews-apiserver/types"
)

const (
	// ChannelSubmitted receives an event for every accepted submission.
	ChannelSubmitted = "reviews.submitted"

	// ChannelModerated receives an event for every admin mutation:
	// status changes, promotions, demotions, and deletions.
	ChannelModerated = "reviews.moderated"
)

// Backend is a broker-agnostic publisher.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// ReviewEvent is the wire payload for both channels. Contact details are
// deliberately omitted; consumers that need them go through the API.
type ReviewEvent struct {
	Action        string                `json:"action"`
	ReviewID      string                `json:"review_id"`
	Service       types.ServiceCategory `json:"service"`
	Rating        int                   `json:"rating"`
	Status        types.ReviewStatus    `json:"status"`
	IsTestimonial bool                  `json:"is_testimonial"`
	OccurredAt    time.Time             `json:"occurred_at"`
}

// Notifier wraps a backend. A nil Notifier is valid and publishes nothing.
type Notifier struct {
	backend Backend
	logger  *slog.Logger
}

func New(backend Backend, logger *slog.Logger) *Notifier {
	return &Notifier{backend: backend, logger: logger}
}

// ReviewSubmitted announces a new submission.
func (n *Notifier) ReviewSubmitted(ctx context.Context, review types.Review) {
	n.publish(ctx, ChannelSubmitted, "submitted", review)
}

// ReviewModerated announces an admin action on a review.
func (n *Notifier) ReviewModerated(ctx context.Context, action string, review types.Review) {
	n.publish(ctx, ChannelModerated, action, review)
}

func (n *Notifier) publish(ctx context.Context, channel, action string, review types.Review) {
	if n == nil || n.backend == nil {
		return
	}

	event := ReviewEvent{
		Action:        action,
		ReviewID:      review.ID,
		Service:       review.Service,
		Rating:        review.Rating,
		Status:        review.Status,
		IsTestimonial: review.IsTestimonial,
		OccurredAt:    time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		n.log(ctx, channel, err)
		return
	}

	attrs := map[string]string{"action": action}
	if _, err := n.backend.Publish(ctx, channel, data, attrs); err != nil {
		n.log(ctx, channel, err)
	}
}

func (n *Notifier) log(ctx context.Context, channel string, err error) {
	if n.logger == nil {
		return
	}
	n.logger.WarnContext(ctx, "event publish failed",
		slog.String("channel", channel),
		slog.String("error", err.Error()),
	)
}

// Close closes the underlying backend, if any.
func (n *Notifier) Close() error {
	if n == nil || n.backend == nil {
		return nil
	}
	return n.backend.Close()
}
