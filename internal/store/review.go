package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/webdevzw/reviews-apiserver/types"
)

const uniqueViolation = "23505"

const reviewColumns = `id, service, content, rating, client_name, client_email, phone_number, company_name, user_id, status, is_testimonial, testimonial_order, created_at, updated_at`

// ReviewOrder selects the sort applied by List.
type ReviewOrder int

const (
	// OrderCreatedDesc lists newest reviews first (the admin view).
	OrderCreatedDesc ReviewOrder = iota

	// OrderTestimonialAsc lists by display position (the public view).
	OrderTestimonialAsc
)

// ReviewFilter narrows a List call. Zero value means all reviews.
type ReviewFilter struct {
	// Testimonial, when non-nil, keeps only reviews whose promotion flag
	// matches.
	Testimonial *bool

	// MinRating, when positive, keeps only reviews rated at or above it.
	MinRating int

	// Order selects the sort.
	Order ReviewOrder
}

// ReviewRepository handles persistence for reviews.
type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// listQuery builds the List statement. Placeholders are numbered from the
// argument position so new filters compose without renumbering.
func listQuery(filter ReviewFilter) (string, []any) {
	query := `SELECT ` + reviewColumns + ` FROM reviews`
	var (
		clauses []string
		args    []any
	)
	if filter.Testimonial != nil {
		args = append(args, *filter.Testimonial)
		clauses = append(clauses, fmt.Sprintf("is_testimonial = $%d", len(args)))
	}
	if filter.MinRating > 0 {
		args = append(args, filter.MinRating)
		clauses = append(clauses, fmt.Sprintf("rating >= $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	switch filter.Order {
	case OrderTestimonialAsc:
		query += " ORDER BY testimonial_order ASC"
	default:
		query += " ORDER BY created_at DESC"
	}
	return query, args
}

func (r *ReviewRepository) List(ctx context.Context, filter ReviewFilter) ([]types.Review, error) {
	query, args := listQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]types.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) Get(ctx context.Context, id string) (types.Review, error) {
	const query = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	review, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Review{}, ErrNotFound
		}
		return types.Review{}, err
	}
	return review, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review types.Review) (types.Review, error) {
	now := time.Now()
	review.ID = uuid.NewString()
	review.CreatedAt = now
	review.UpdatedAt = now

	const query = `
		INSERT INTO reviews (id, service, content, rating, client_name, client_email, phone_number, company_name, user_id, status, is_testimonial, testimonial_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		review.ID,
		review.Service,
		review.Content,
		review.Rating,
		review.ClientName,
		review.ClientEmail,
		nullIfEmpty(review.PhoneNumber),
		nullIfEmpty(review.CompanyName),
		review.UserID,
		review.Status,
		review.IsTestimonial,
		review.TestimonialOrder,
		review.CreatedAt,
		review.UpdatedAt,
	); err != nil {
		return types.Review{}, err
	}
	return review, nil
}

// Update rewrites every mutable field of the review. Callers are expected
// to have loaded the record first and applied their changes to it.
// Timestamps: created_at is never touched, updated_at is refreshed here.
func (r *ReviewRepository) Update(ctx context.Context, review types.Review) (types.Review, error) {
	review.UpdatedAt = time.Now()

	const query = `
		UPDATE reviews
		SET service = $1,
			content = $2,
			rating = $3,
			client_name = $4,
			client_email = $5,
			phone_number = $6,
			company_name = $7,
			user_id = $8,
			status = $9,
			updated_at = $10
		WHERE id = $11`
	result, err := r.db.ExecContext(
		ctx,
		query,
		review.Service,
		review.Content,
		review.Rating,
		review.ClientName,
		review.ClientEmail,
		nullIfEmpty(review.PhoneNumber),
		nullIfEmpty(review.CompanyName),
		review.UserID,
		review.Status,
		review.UpdatedAt,
		review.ID,
	)
	if err != nil {
		return types.Review{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Review{}, err
	}
	if affected == 0 {
		return types.Review{}, ErrNotFound
	}
	return review, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM reviews WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTestimonial flips the promotion flag. Promotion draws the display
// position from reviews_testimonial_order_seq inside the same UPDATE, so
// the read-max-then-write race of a two-step assignment cannot occur and
// vacated positions are never reissued. Promoting an already-promoted
// review keeps its position. A unique-index violation surfaces as
// ErrConflict.
func (r *ReviewRepository) SetTestimonial(ctx context.Context, id string, promote bool) (types.Review, error) {
	var query string
	if promote {
		query = `
			UPDATE reviews
			SET is_testimonial = TRUE,
				testimonial_order = CASE
					WHEN is_testimonial THEN testimonial_order
					ELSE nextval('reviews_testimonial_order_seq')
				END,
				updated_at = $2
			WHERE id = $1
			RETURNING ` + reviewColumns
	} else {
		query = `
			UPDATE reviews
			SET is_testimonial = FALSE,
				testimonial_order = NULL,
				updated_at = $2
			WHERE id = $1
			RETURNING ` + reviewColumns
	}

	review, err := scanReview(r.db.QueryRowContext(ctx, query, id, time.Now()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Review{}, ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return types.Review{}, ErrConflict
		}
		return types.Review{}, err
	}
	return review, nil
}

// Ping verifies the store is reachable with a trivial round-trip.
func (r *ReviewRepository) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (types.Review, error) {
	var (
		review  types.Review
		phone   sql.NullString
		company sql.NullString
		order   sql.NullInt64
	)
	if err := row.Scan(
		&review.ID,
		&review.Service,
		&review.Content,
		&review.Rating,
		&review.ClientName,
		&review.ClientEmail,
		&phone,
		&company,
		&review.UserID,
		&review.Status,
		&review.IsTestimonial,
		&order,
		&review.CreatedAt,
		&review.UpdatedAt,
	); err != nil {
		return types.Review{}, err
	}
	review.PhoneNumber = phone.String
	review.CompanyName = company.String
	if order.Valid {
		value := int(order.Int64)
		review.TestimonialOrder = &value
	}
	return review, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
