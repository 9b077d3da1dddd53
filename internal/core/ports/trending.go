package ports

import (
	"context"
	"time"
)

// TrendingMovie is the trimmed view of a movie from the public listing.
type TrendingMovie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
}

// MovieCatalog is the third-party public movie listing.
type MovieCatalog interface {
	Trending(ctx context.Context) ([]TrendingMovie, error)
	Latest(ctx context.Context) (*TrendingMovie, error)
}

// TrendingCache stores the last trending listing for a while.
// Get reports false on a miss.
type TrendingCache interface {
	Get(ctx context.Context) ([]TrendingMovie, bool, error)
	Set(ctx context.Context, movies []TrendingMovie, ttl time.Duration) error
}

// TrendingService serves the public listing to clients.
type TrendingService interface {
	Trending(ctx context.Context) ([]TrendingMovie, error)
	Latest(ctx context.Context) (*TrendingMovie, error)
}
