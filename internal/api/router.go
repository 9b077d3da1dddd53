package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/cinelist/movie-collection/internal/api/handler"
	"github.com/cinelist/movie-collection/internal/api/middleware"
	"github.com/cinelist/movie-collection/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Logger    zerolog.Logger
	Auth      ports.AuthService
	Movies    ports.MovieService
	Trending  ports.TrendingService
	Tokens    ports.TokenVerifier
	Readiness []handler.Dependency
	StaticDir string

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	movieHandler := handler.NewMovieHandler(d.Movies)
	trendingHandler := handler.NewTrendingHandler(d.Trending)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Readiness...)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Public listing proxy ---
	public := e.Group("/api/public/movies")
	public.GET("/trending", trendingHandler.Trending)
	public.GET("/latest", trendingHandler.Latest)

	// --- Movie collection ---
	gated := []echo.MiddlewareFunc{
		middleware.Auth(d.Tokens),
		middleware.RBAC(middleware.MoviePolicy),
	}

	movies := e.Group("/movies")
	movies.GET("", movieHandler.List, middleware.OptionalAuth(d.Tokens))
	movies.GET("/:id", movieHandler.Get)
	movies.POST("", movieHandler.Create, gated...)
	movies.POST("/add-from-public", movieHandler.Import, gated...)
	movies.PUT("/:id", movieHandler.Update, gated...)
	movies.DELETE("/:id", movieHandler.Delete, gated...)

	// --- Operations ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if d.StaticDir != "" {
		e.Static("/", d.StaticDir)
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
