package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,       default=3000"`
	Env       string        `env:"ENV,        default=development"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTTTL    time.Duration `env:"JWT_TTL,    default=1h"`
	StaticDir string        `env:"STATIC_DIR"`

	Mongo MongoConfig
	Redis RedisConfig
	TMDB  TMDBConfig
	Admin AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI, required"`
	Database string `env:"MONGO_DB,    default=movie_collection"`
}

// RedisConfig points at the trending cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type TMDBConfig struct {
	APIKey       string        `env:"TMDB_API_KEY"`
	BaseURL      string        `env:"TMDB_BASE_URL,       default=https://api.themoviedb.org/3"`
	ImageBaseURL string        `env:"TMDB_IMAGE_BASE_URL, default=https://image.tmdb.org/t/p/w500"`
	Timeout      time.Duration `env:"TMDB_TIMEOUT,        default=5s"`
	CacheTTL     time.Duration `env:"TMDB_CACHE_TTL,      default=10m"`
}

// AdminConfig seeds a super_admin account on startup when Email and
// Password are both set.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=superadmin"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Enabled reports whether an admin account should be seeded.
func (a AdminConfig) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
// A missing JWT_SECRET or MONGODB_URI is an error.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("config: JWT_SECRET must not be empty")
	}
	if strings.TrimSpace(cfg.Mongo.URI) == "" {
		return nil, errors.New("config: MONGODB_URI must not be empty")
	}
	return &cfg, nil
}
