package ports

import (
	"context"

	"github.com/cinelist/movie-collection/internal/core/domain"
)

// SortOrder is the direction of a movie listing.
type SortOrder int

const (
	SortDesc SortOrder = -1
	SortAsc  SortOrder = 1
)

// ListMoviesFilter carries the query applied by MovieRepository.List.
type ListMoviesFilter struct {
	OwnerID string // empty = whole catalogue
	Search  string // case-insensitive substring on title or director
	SortBy  string // document field; defaults to dateAdded
	Order   SortOrder
}

// MovieUpdate is a partial update; nil fields are left untouched.
type MovieUpdate struct {
	Title    *string
	Director *string
	Year     *int
}

// MovieRepository defines persistence operations for movies.
// Malformed ids return domain.ErrInvalidMovieID, absent ones domain.ErrMovieNotFound.
type MovieRepository interface {
	Create(ctx context.Context, m *domain.Movie) (*domain.Movie, error)
	FindByID(ctx context.Context, id string) (*domain.Movie, error)
	List(ctx context.Context, filter ListMoviesFilter) ([]*domain.Movie, error)
	// Update applies patch to the movie with id. When ownerID is non-empty the
	// movie must also belong to that owner.
	Update(ctx context.Context, id, ownerID string, patch MovieUpdate) (*domain.Movie, error)
	Delete(ctx context.Context, id string) (*domain.Movie, error)
	// Exists reports whether the owner already has an identical listing.
	Exists(ctx context.Context, m *domain.Movie) (bool, error)
}
