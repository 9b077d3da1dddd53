package ports

import (
	"context"

	"github.com/cinelist/movie-collection/internal/core/domain"
)

// RegisterInput is the raw registration form.
type RegisterInput struct {
	Username string `validate:"min=3"`
	Email    string `validate:"required,email"`
	Password string `validate:"min=6,bcryptlen"`
}

// LoginInput is the raw login form.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LoginResult carries the issued session token.
type LoginResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

// TokenVerifier validates a session token and returns its identity.
type TokenVerifier interface {
	Verify(raw string) (domain.Identity, error)
}
