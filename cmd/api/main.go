// @title                       Movie Collection API
// @version                     1.0
// @description                 Personal movie collections with role-based access and a public trending proxy.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	_ "github.com/cinelist/movie-collection/docs"
	"github.com/cinelist/movie-collection/internal/api"
	"github.com/cinelist/movie-collection/internal/api/handler"
	"github.com/cinelist/movie-collection/internal/core/ports"
	"github.com/cinelist/movie-collection/internal/core/service"
	"github.com/cinelist/movie-collection/internal/infrastructure/db/mongo"
	"github.com/cinelist/movie-collection/internal/infrastructure/db/redis"
	"github.com/cinelist/movie-collection/internal/infrastructure/tmdb"
	"github.com/cinelist/movie-collection/internal/pkg/config"
	"github.com/cinelist/movie-collection/internal/pkg/token"
	"github.com/cinelist/movie-collection/internal/pkg/validation"
	"github.com/cinelist/movie-collection/pkg/logger"
)

const (
	serviceName     = "movie-collection"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("service stopped")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Service: serviceName})
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	users := mongo.NewUserRepository(db)
	movies := mongo.NewMovieRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, movies); err != nil {
		return err
	}

	readiness := []handler.Dependency{handler.MongoDependency(db)}
	cache, rdb := connectCache(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
		readiness = append(readiness, handler.RedisDependency(rdb))
	}

	val := validation.New()
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	store := service.NewCredentialStore(users)

	if cfg.Admin.Enabled() {
		created, err := store.SeedSuperAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return err
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("super admin seeded")
		}
	}

	if cfg.TMDB.APIKey == "" {
		log.Warn().Msg("TMDB_API_KEY not set, public listing endpoints will answer 503")
	}
	catalog := tmdb.NewClient(tmdb.Config{
		APIKey:       cfg.TMDB.APIKey,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Timeout:      cfg.TMDB.Timeout,
	}, log)

	e := api.NewRouter(api.Deps{
		Logger:    log,
		Auth:      service.NewAuthService(store, tokens, val, log),
		Movies:    service.NewMovieService(movies, val, log),
		Trending:  service.NewTrendingService(catalog, cache, cfg.TMDB.CacheTTL, log),
		Tokens:    tokens,
		Readiness: readiness,
		StaticDir: cfg.StaticDir,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	})

	return g.Wait()
}

// connectCache returns a nil cache when Redis is not configured or unreachable.
func connectCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.TrendingCache, *goredis.Client) {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, trending cache disabled")
		return nil, nil
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, trending cache disabled")
		return nil, nil
	}
	return redis.NewTrendingCache(rdb), rdb
}
