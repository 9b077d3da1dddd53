package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinelist/movie-collection/internal/pkg/metrics"
	"github.com/cinelist/movie-collection/internal/core/domain"
	"github.com/cinelist/movie-collection/internal/core/ports"
)

const (
	defaultTimeout = 5 * time.Second
	maxErrorBody   = 512

	endpointTrending = "trending"
	endpointLatest   = "latest"
)

// Config holds the upstream location and credentials.
type Config struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration
}

// Client talks to The Movie Database REST API and implements ports.MovieCatalog.
type Client struct {
	apiKey     string
	baseURL    string
	imageURL   string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		imageURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: log.With().Str("component", "tmdb").Logger(),
	}
}

type movieDTO struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
}

type pageDTO struct {
	Results []movieDTO `json:"results"`
}

// Trending returns this week's trending movies.
func (c *Client) Trending(ctx context.Context) ([]ports.TrendingMovie, error) {
	var page pageDTO
	if err := c.get(ctx, endpointTrending, "/trending/movie/week", &page); err != nil {
		return nil, err
	}

	movies := make([]ports.TrendingMovie, 0, len(page.Results))
	for _, m := range page.Results {
		movies = append(movies, c.toPort(m, true))
	}
	return movies, nil
}

// Latest returns the most recently added movie.
func (c *Client) Latest(ctx context.Context) (*ports.TrendingMovie, error) {
	var m movieDTO
	if err := c.get(ctx, endpointLatest, "/movie/latest", &m); err != nil {
		return nil, err
	}
	out := c.toPort(m, false)
	return &out, nil
}

func (c *Client) toPort(m movieDTO, withVotes bool) ports.TrendingMovie {
	out := ports.TrendingMovie{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		PosterPath:   c.imagePath(m.PosterPath),
		BackdropPath: c.imagePath(m.BackdropPath),
		ReleaseDate:  m.ReleaseDate,
	}
	if withVotes {
		out.VoteAverage = m.VoteAverage
	}
	return out
}

// imagePath expands a relative image path; missing images stay null.
func (c *Client) imagePath(p string) *string {
	if p == "" {
		return nil
	}
	full := c.imageURL + p
	return &full
}

func (c *Client) get(ctx context.Context, endpoint, path string, out any) error {
	if c.apiKey == "" {
		return domain.ErrUpstreamNotConfigured
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("build %s url: %w", endpoint, err)
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		c.log.Error().Err(err).Str("endpoint", endpoint).Msg("request failed")
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstream, endpoint, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestDuration.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Error().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("upstream returned error")
		return fmt.Errorf("%w: %s: status %d", domain.ErrUpstream, endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: decode: %v", domain.ErrUpstream, endpoint, err)
	}
	return nil
}
