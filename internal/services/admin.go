package services

import (
	"context"
	"errors"

	"github.com/webdevzw/reviews-apiserver/internal/store"
	"github.com/webdevzw/reviews-apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown email and wrong password so
// callers cannot tell which check failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminRepository defines persistence operations for admin credentials.
type AdminRepository interface {
	GetByID(ctx context.Context, id string) (types.Admin, error)
	GetByEmail(ctx context.Context, email string) (types.Admin, error)
	Create(ctx context.Context, admin types.Admin) (types.Admin, error)
	Upsert(ctx context.Context, admin types.Admin) (types.Admin, error)
}

// AdminService encapsulates admin credential use-cases.
type AdminService struct {
	repo AdminRepository
}

func NewAdminService(repo AdminRepository) *AdminService {
	return &AdminService{repo: repo}
}

// Authenticate verifies the email/password pair. Any failure is
// ErrInvalidCredentials; store errors other than not-found pass through.
func (s *AdminService) Authenticate(ctx context.Context, email, password string) (types.Admin, error) {
	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Admin{}, ErrInvalidCredentials
		}
		return types.Admin{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return types.Admin{}, ErrInvalidCredentials
	}
	return admin, nil
}

func (s *AdminService) GetByID(ctx context.Context, id string) (types.Admin, error) {
	return s.repo.GetByID(ctx, id)
}

// Create provisions a new admin with the given plain-text password.
func (s *AdminService) Create(ctx context.Context, email, name, password string) (types.Admin, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.Admin{}, err
	}
	return s.repo.Create(ctx, types.Admin{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
	})
}

// Upsert provisions or refreshes an admin. Used by the seed command.
func (s *AdminService) Upsert(ctx context.Context, email, name, password string) (types.Admin, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.Admin{}, err
	}
	return s.repo.Upsert(ctx, types.Admin{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
	})
}
