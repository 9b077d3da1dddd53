package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinelist/movie-collection/internal/pkg/metrics"
	"github.com/cinelist/movie-collection/internal/core/ports"
)

const defaultTrendingTTL = 10 * time.Minute

type trendingService struct {
	catalog ports.MovieCatalog
	cache   ports.TrendingCache
	ttl     time.Duration
	log     zerolog.Logger
}

// NewTrendingService returns a TrendingService that reads through cache.
// A nil cache disables caching.
func NewTrendingService(catalog ports.MovieCatalog, cache ports.TrendingCache, ttl time.Duration, log zerolog.Logger) ports.TrendingService {
	if ttl <= 0 {
		ttl = defaultTrendingTTL
	}
	return &trendingService{catalog: catalog, cache: cache, ttl: ttl, log: log}
}

// Trending serves the weekly trending list, from cache when possible.
// Cache errors are logged and never fail the request.
func (s *trendingService) Trending(ctx context.Context) ([]ports.TrendingMovie, error) {
	if s.cache != nil {
		movies, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			metrics.TrendingCacheTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Msg("trending cache read failed, fetching upstream")
		case ok:
			metrics.TrendingCacheTotal.WithLabelValues("hit").Inc()
			return movies, nil
		default:
			metrics.TrendingCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	movies, err := s.catalog.Trending(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, movies, s.ttl); err != nil {
			s.log.Warn().Err(err).Msg("trending cache write failed")
		}
	}
	return movies, nil
}

// Latest is not cached; it changes with every new upstream entry.
func (s *trendingService) Latest(ctx context.Context) (*ports.TrendingMovie, error) {
	return s.catalog.Latest(ctx)
}
