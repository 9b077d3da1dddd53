package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cinelist/movie-collection/internal/core/ports"
)

const trendingKey = "tmdb:trending:week"

// TrendingCache keeps the last trending listing as a JSON blob.
type TrendingCache struct {
	client redis.Cmdable
	key    string
}

func NewTrendingCache(client redis.Cmdable) *TrendingCache {
	return &TrendingCache{client: client, key: trendingKey}
}

// Get reports false when the key is absent or expired.
func (c *TrendingCache) Get(ctx context.Context) ([]ports.TrendingMovie, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("trending cache get: %w", err)
	}

	var movies []ports.TrendingMovie
	if err := json.Unmarshal(raw, &movies); err != nil {
		return nil, false, fmt.Errorf("trending cache decode: %w", err)
	}
	return movies, true, nil
}

func (c *TrendingCache) Set(ctx context.Context, movies []ports.TrendingMovie, ttl time.Duration) error {
	raw, err := json.Marshal(movies)
	if err != nil {
		return fmt.Errorf("trending cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("trending cache set: %w", err)
	}
	return nil
}
