package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinelist/movie-collection/internal/core/ports"
)

// TrendingHandler proxies the public movie listing.
type TrendingHandler struct {
	service ports.TrendingService
}

func NewTrendingHandler(service ports.TrendingService) *TrendingHandler {
	return &TrendingHandler{service: service}
}

// Trending handles GET /api/public/movies/trending.
//
// @Summary      Trending movies this week
// @Tags         public
// @Produce      json
// @Success      200  {array}   ports.TrendingMovie
// @Failure      502  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/public/movies/trending [get]
func (h *TrendingHandler) Trending(c echo.Context) error {
	movies, err := h.service.Trending(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movies)
}

// Latest handles GET /api/public/movies/latest.
//
// @Summary      Most recently added movie
// @Tags         public
// @Produce      json
// @Success      200  {object}  ports.TrendingMovie
// @Failure      502  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/public/movies/latest [get]
func (h *TrendingHandler) Latest(c echo.Context) error {
	movie, err := h.service.Latest(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movie)
}
