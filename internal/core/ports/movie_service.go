package ports

import (
	"context"

	"github.com/cinelist/movie-collection/internal/core/domain"
)

// ListMoviesInput carries the list endpoint parameters. A nil Actor lists
// the whole catalogue; otherwise the listing is scoped to the actor.
type ListMoviesInput struct {
	Actor  *domain.Identity
	Search string
	Sort   string `validate:"omitempty,max=64"`
	Order  string `validate:"omitempty,oneof=asc desc"`
}

// CreateMovieInput is used both for direct creation and public imports.
type CreateMovieInput struct {
	OwnerID  string `validate:"required"`
	Title    string `validate:"required,max=255"`
	Director string `validate:"required,max=255"`
	Year     *int   `validate:"required,movieyear"`
}

// UpdateMovieInput is a partial update issued by Actor.
type UpdateMovieInput struct {
	ID       string
	Actor    domain.Identity `validate:"-"`
	Title    *string         `validate:"omitnil,min=1,max=255"`
	Director *string         `validate:"omitnil,min=1,max=255"`
	Year     *int            `validate:"omitnil,movieyear"`
}

// MovieService defines the movie collection use cases.
type MovieService interface {
	List(ctx context.Context, input ListMoviesInput) ([]*domain.Movie, error)
	Get(ctx context.Context, id string) (*domain.Movie, error)
	Create(ctx context.Context, input CreateMovieInput) (*domain.Movie, error)
	Update(ctx context.Context, input UpdateMovieInput) (*domain.Movie, error)
	Delete(ctx context.Context, id string) (*domain.Movie, error)
	ImportFromPublicListing(ctx context.Context, input CreateMovieInput) (*domain.Movie, error)
}
