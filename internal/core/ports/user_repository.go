package ports

import (
	"context"

	"github.com/cinelist/movie-collection/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create inserts user and returns it with its assigned ID.
	// A username or email collision returns domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByEmailOrUsername matches either field; used for identifier lookup
	// and the pre-insert uniqueness check.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	// EnsureUser inserts user only when no account with its email exists.
	// It reports whether an insert happened.
	EnsureUser(ctx context.Context, user *domain.User) (bool, error)
}
