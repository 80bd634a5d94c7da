package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/bedolaga/bedolaga-console/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Admin, error) {
	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return admin, nil
}

// AdminByID loads an admin account, enforcing the active flag.
func (s *Service) AdminByID(ctx context.Context, id int64) (*Admin, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin.IsActive {
		return nil, shared.ErrNotFound
	}
	return admin, nil
}

// CreateAccount hashes the password and stores a new admin.
func (s *Service) CreateAccount(ctx context.Context, email, fullName, password string, superuser bool) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, &Admin{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		IsActive:     true,
		IsSuperuser:  superuser,
	})
}

// HasAccounts reports whether any admin exists yet.
func (s *Service) HasAccounts(ctx context.Context) (bool, error) {
	count, err := s.repo.Count(ctx)
	return count > 0, err
}
