package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinelist/movie-collection/internal/pkg/metrics"
	"github.com/cinelist/movie-collection/internal/core/domain"
	"github.com/cinelist/movie-collection/internal/core/ports"
)

const defaultSortField = "dateAdded"

// sortFieldPattern limits sort keys to plain document field names.
var sortFieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type MovieService struct {
	repo      ports.MovieRepository
	validator InputValidator
	logger    zerolog.Logger
	now       func() time.Time
}

func NewMovieService(repo ports.MovieRepository, validator InputValidator, logger zerolog.Logger) *MovieService {
	return &MovieService{repo: repo, validator: validator, logger: logger, now: time.Now}
}

// List returns movies matching the search, newest first unless a sort is
// given. With an actor the listing is that actor's private collection.
func (s *MovieService) List(ctx context.Context, in ports.ListMoviesInput) ([]*domain.Movie, error) {
	in.Sort = strings.TrimSpace(in.Sort)
	in.Order = strings.ToLower(strings.TrimSpace(in.Order))
	if err := s.validator.Validate(&in); err != nil {
		return nil, err
	}
	if in.Sort != "" && !sortFieldPattern.MatchString(in.Sort) {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "sort", Message: "Sort must be a field name"},
		}}
	}

	filter := ports.ListMoviesFilter{
		Search: strings.TrimSpace(in.Search),
		SortBy: in.Sort,
		Order:  ports.SortDesc,
	}
	if filter.SortBy == "" {
		filter.SortBy = defaultSortField
	}
	if in.Order == "asc" {
		filter.Order = ports.SortAsc
	}
	if in.Actor != nil {
		filter.OwnerID = in.Actor.ID
	}

	movies, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []*domain.Movie{}
	}
	return movies, nil
}

// Get returns a single movie.
func (s *MovieService) Get(ctx context.Context, id string) (*domain.Movie, error) {
	return s.repo.FindByID(ctx, strings.TrimSpace(id))
}

// Create validates and stores a new movie owned by in.OwnerID.
func (s *MovieService) Create(ctx context.Context, in ports.CreateMovieInput) (*domain.Movie, error) {
	movie, err := s.newMovie(in)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, movie, "direct")
}

// ImportFromPublicListing adds a movie picked from the public listing,
// refusing an exact duplicate already in the owner's collection.
func (s *MovieService) ImportFromPublicListing(ctx context.Context, in ports.CreateMovieInput) (*domain.Movie, error) {
	movie, err := s.newMovie(in)
	if err != nil {
		return nil, err
	}

	// Check-then-insert: two concurrent imports of the same listing can both pass.
	exists, err := s.repo.Exists(ctx, movie)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrMovieExists
	}
	return s.insert(ctx, movie, "public_import")
}

// Update applies a partial update. Admins may edit any movie; other roles
// only their own.
func (s *MovieService) Update(ctx context.Context, in ports.UpdateMovieInput) (*domain.Movie, error) {
	in.Title = trimPtr(in.Title)
	in.Director = trimPtr(in.Director)
	if err := s.validator.Validate(&in); err != nil {
		return nil, err
	}

	ownerScope := ""
	if !in.Actor.IsAdmin() {
		ownerScope = in.Actor.ID
	}

	movie, err := s.repo.Update(ctx, strings.TrimSpace(in.ID), ownerScope, ports.MovieUpdate{
		Title:    in.Title,
		Director: in.Director,
		Year:     in.Year,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("movie_id", movie.ID).Str("actor", in.Actor.ID).Msg("movie updated")
	return movie, nil
}

// Delete removes a movie and returns what was deleted.
func (s *MovieService) Delete(ctx context.Context, id string) (*domain.Movie, error) {
	movie, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	metrics.MoviesDeletedTotal.Inc()
	s.logger.Info().Str("movie_id", movie.ID).Str("title", movie.Title).Msg("movie deleted")
	return movie, nil
}

func (s *MovieService) newMovie(in ports.CreateMovieInput) (*domain.Movie, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Director = strings.TrimSpace(in.Director)
	if err := s.validator.Validate(&in); err != nil {
		return nil, err
	}
	return &domain.Movie{
		Title:     in.Title,
		Director:  in.Director,
		Year:      *in.Year,
		OwnerID:   in.OwnerID,
		DateAdded: s.now().UTC().Truncate(time.Millisecond),
	}, nil
}

func (s *MovieService) insert(ctx context.Context, movie *domain.Movie, source string) (*domain.Movie, error) {
	created, err := s.repo.Create(ctx, movie)
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			s.logger.Error().Err(err).Str("owner", movie.OwnerID).Msg("failed to create movie")
		}
		return nil, err
	}

	metrics.MoviesCreatedTotal.WithLabelValues(source).Inc()
	s.logger.Info().
		Str("movie_id", created.ID).
		Str("owner", created.OwnerID).
		Str("source", source).
		Msg("movie created")
	return created, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
