package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cinelist/movie-collection/internal/core/domain"
	"github.com/cinelist/movie-collection/internal/core/ports"
)

// bcryptCost matches bcrypt.DefaultCost; kept explicit so stored hashes do
// not silently change strength with a library upgrade.
const bcryptCost = 10

// CredentialStore owns user records and their password hashes.
type CredentialStore struct {
	repo ports.UserRepository
	now  func() time.Time
}

func NewCredentialStore(repo ports.UserRepository) *CredentialStore {
	return &CredentialStore{repo: repo, now: time.Now}
}

// FindByEmailOrHandle looks a user up by email or username.
func (s *CredentialStore) FindByEmailOrHandle(ctx context.Context, identifier string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	return s.repo.FindByEmailOrUsername(ctx, NormalizeEmail(identifier), identifier)
}

// FindByEmail looks a user up by normalized email.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, NormalizeEmail(email))
}

// Create hashes rawPassword and persists a new user with the default role.
// An existing username or email yields domain.ErrUserExists.
func (s *CredentialStore) Create(ctx context.Context, handle, email, rawPassword string) (*domain.User, error) {
	return s.create(ctx, handle, email, rawPassword, domain.RoleUser)
}

func (s *CredentialStore) create(ctx context.Context, handle, email, rawPassword, role string) (*domain.User, error) {
	handle = strings.TrimSpace(handle)
	email = NormalizeEmail(email)

	existing, err := s.repo.FindByEmailOrUsername(ctx, email, handle)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrUserExists
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	user, err := s.newUser(handle, email, rawPassword, role)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, user)
}

// SeedSuperAdmin makes sure a super_admin account exists for email.
// It reports whether a new account was created.
func (s *CredentialStore) SeedSuperAdmin(ctx context.Context, handle, email, rawPassword string) (bool, error) {
	user, err := s.newUser(strings.TrimSpace(handle), NormalizeEmail(email), rawPassword, domain.RoleSuperAdmin)
	if err != nil {
		return false, err
	}
	created, err := s.repo.EnsureUser(ctx, user)
	if err != nil {
		return false, fmt.Errorf("seed super admin: %w", err)
	}
	return created, nil
}

// VerifyPassword compares rawPassword with the stored hash.
func (s *CredentialStore) VerifyPassword(user *domain.User, rawPassword string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(rawPassword)) == nil
}

func (s *CredentialStore) newUser(handle, email, rawPassword, role string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &domain.User{
		Username:     handle,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}, nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
