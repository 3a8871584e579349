package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/webdevzw/reviews-apiserver/types"
)

const adminColumns = `id, email, name, password_hash, created_at, updated_at`

// AdminRepository handles persistence for admin credentials.
type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (types.Admin, error) {
	const query = `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (types.Admin, error) {
	const query = `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *AdminRepository) Create(ctx context.Context, admin types.Admin) (types.Admin, error) {
	now := time.Now()
	admin.ID = uuid.NewString()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	const query = `
		INSERT INTO admins (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		admin.ID,
		admin.Email,
		admin.Name,
		admin.PasswordHash,
		admin.CreatedAt,
		admin.UpdatedAt,
	); err != nil {
		return types.Admin{}, err
	}
	return admin, nil
}

// Upsert creates the admin or, if the email is already provisioned,
// replaces its name and password hash. Used by the seed command.
func (r *AdminRepository) Upsert(ctx context.Context, admin types.Admin) (types.Admin, error) {
	now := time.Now()
	admin.ID = uuid.NewString()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	const query = `
		INSERT INTO admins (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + adminColumns
	return r.scanOne(r.db.QueryRowContext(
		ctx,
		query,
		admin.ID,
		admin.Email,
		admin.Name,
		admin.PasswordHash,
		admin.CreatedAt,
		admin.UpdatedAt,
	))
}

func (r *AdminRepository) scanOne(row *sql.Row) (types.Admin, error) {
	var admin types.Admin
	err := row.Scan(
		&admin.ID,
		&admin.Email,
		&admin.Name,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Admin{}, ErrNotFound
		}
		return types.Admin{}, err
	}
	return admin, nil
}
