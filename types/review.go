package types

import (
	"strings"
	"time"
)

// ServiceCategory identifies which service offering a review is about.
// Only the five enumerated categories are accepted; free-form values are
// rejected at the boundary and by a database CHECK constraint.
type ServiceCategory string

const (
	ServiceWebsiteDevelopment ServiceCategory = "WEBSITE_DEVELOPMENT"
	ServiceHosting            ServiceCategory = "HOSTING"
	ServiceDomainSales        ServiceCategory = "DOMAIN_SALES"
	ServiceConsulting         ServiceCategory = "CONSULTING"
	ServiceMaintenance        ServiceCategory = "MAINTENANCE"
)

// ServiceCategories lists every accepted category.
var ServiceCategories = []ServiceCategory{
	ServiceWebsiteDevelopment,
	ServiceHosting,
	ServiceDomainSales,
	ServiceConsulting,
	ServiceMaintenance,
}

// Valid reports whether the category is one of the enumerated values.
func (c ServiceCategory) Valid() bool {
	for _, known := range ServiceCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Display returns the human-readable form of the category, with
// underscores rendered as spaces (e.g. "WEBSITE DEVELOPMENT").
func (c ServiceCategory) Display() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

// ReviewStatus is the moderation state of a review.
type ReviewStatus string

const (
	// StatusPending is the state of every freshly submitted review until
	// an admin moderates it.
	StatusPending ReviewStatus = "PENDING"

	// StatusApproved marks a review accepted by an admin.
	StatusApproved ReviewStatus = "APPROVED"

	// StatusRejected marks a review declined by an admin.
	StatusRejected ReviewStatus = "REJECTED"
)

// Valid reports whether the status is one of the enumerated values.
func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Review is a submitted piece of client feedback, the central entity of
// the system. Reviews are created by the public submission form, moderated
// by authenticated admins, and optionally promoted to testimonials for
// display on the external site.
type Review struct {
	// ID is the unique identifier of the review, assigned at creation.
	ID string `json:"id" db:"id"`

	// Service is the service category the review is about.
	Service ServiceCategory `json:"service" db:"service"`

	// Content is the free-text body of the review. Minimum 10 characters.
	Content string `json:"content" db:"content"`

	// Rating is the submitted score, an integer from 1 to 5 inclusive.
	Rating int `json:"rating" db:"rating"`

	// ClientName is the submitter's display name. Minimum 2 characters.
	ClientName string `json:"clientName" db:"client_name"`

	// ClientEmail is the submitter's email address. Never exposed through
	// the public testimonial projection.
	ClientEmail string `json:"clientEmail" db:"client_email"`

	// PhoneNumber is an optional contact number. Never exposed through
	// the public testimonial projection.
	PhoneNumber string `json:"phoneNumber,omitempty" db:"phone_number"`

	// CompanyName is the submitter's optional company name.
	CompanyName string `json:"companyName,omitempty" db:"company_name"`

	// UserID is an opaque identifier correlating the review to the
	// submission session.
	UserID string `json:"userId" db:"user_id"`

	// Status is the moderation state. New reviews start as PENDING.
	Status ReviewStatus `json:"status" db:"status"`

	// IsTestimonial marks the review as promoted for public display.
	IsTestimonial bool `json:"isTestimonial" db:"is_testimonial"`

	// TestimonialOrder is the display position among testimonials.
	// Non-nil exactly when IsTestimonial is true. Values come from a
	// monotonic counter and are never reused, even after demotion.
	TestimonialOrder *int `json:"testimonialOrder" db:"testimonial_order"`

	// CreatedAt is the submission timestamp. Immutable.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Testimonial is the public-safe projection of a promoted review served to
// the external site. It deliberately omits contact details, moderation
// state, and identifiers.
type Testimonial struct {
	// Content is the review body.
	Content string `json:"content"`

	// Rating is the score out of 5.
	Rating int `json:"rating"`

	// ClientName is the reviewer's display name.
	ClientName string `json:"clientName"`

	// CompanyName is the reviewer's company, if given.
	CompanyName string `json:"companyName,omitempty"`

	// Service is the display form of the service category.
	Service string `json:"service"`

	// Stars is a fixed-width glyph rendering of the rating out of 5,
	// e.g. "★★★★☆".
	Stars string `json:"stars"`
}

// AsTestimonial projects the review into its public shape.
func (r Review) AsTestimonial() Testimonial {
	return Testimonial{
		Content:     r.Content,
		Rating:      r.Rating,
		ClientName:  r.ClientName,
		CompanyName: r.CompanyName,
		Service:     r.Service.Display(),
		Stars:       StarGlyphs(r.Rating),
	}
}

// StarGlyphs renders a rating as filled and hollow stars out of 5.
// Out-of-range ratings are clamped so the output is always 5 glyphs wide.
func StarGlyphs(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
