package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinelist/movie-collection/internal/api/middleware"
	"github.com/cinelist/movie-collection/internal/core/ports"
)

// MovieHandler handles HTTP requests for the movie collection.
type MovieHandler struct {
	service ports.MovieService
}

func NewMovieHandler(service ports.MovieService) *MovieHandler {
	return &MovieHandler{service: service}
}

// List handles GET /movies.
//
// @Summary      List movies
// @Description  Anonymous callers see the whole catalogue; authenticated callers see their own collection.
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive match on title or director"
// @Param        sort    query     string  false  "Field to sort by (default dateAdded)"
// @Param        order   query     string  false  "asc or desc (default desc)"
// @Success      200     {array}   domain.Movie
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /movies [get]
func (h *MovieHandler) List(c echo.Context) error {
	in := ports.ListMoviesInput{
		Search: c.QueryParam("search"),
		Sort:   c.QueryParam("sort"),
		Order:  c.QueryParam("order"),
	}
	if id, ok := middleware.IdentityFrom(c); ok {
		in.Actor = &id
	}

	movies, err := h.service.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movies)
}

// Get handles GET /movies/:id.
//
// @Summary      Get a movie by id
// @Tags         movies
// @Produce      json
// @Param        id   path      string  true  "Movie id"
// @Success      200  {object}  domain.Movie
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /movies/{id} [get]
func (h *MovieHandler) Get(c echo.Context) error {
	movie, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movie)
}

// Create handles POST /movies.
//
// @Summary      Add a movie
// @Tags         movies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      movieRequest  true  "Movie"
// @Success      201   {object}  domain.Movie
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /movies [post]
func (h *MovieHandler) Create(c echo.Context) error {
	in, err := h.createInput(c)
	if err != nil {
		return err
	}

	movie, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, movie)
}

// Import handles POST /movies/add-from-public.
//
// @Summary      Import a movie from the public listing
// @Tags         movies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      movieRequest  true  "Movie"
// @Success      201   {object}  importMovieResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /movies/add-from-public [post]
func (h *MovieHandler) Import(c echo.Context) error {
	in, err := h.createInput(c)
	if err != nil {
		return err
	}

	movie, err := h.service.ImportFromPublicListing(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, importMovieResponse{
		Message: "Movie added to your collection!",
		Movie:   movie,
	})
}

func (h *MovieHandler) createInput(c echo.Context) (ports.CreateMovieInput, error) {
	id, err := ctxIdentity(c)
	if err != nil {
		return ports.CreateMovieInput{}, err
	}

	var req movieRequest
	if err := bindBody(c, &req); err != nil {
		return ports.CreateMovieInput{}, err
	}

	return ports.CreateMovieInput{
		OwnerID:  id.ID,
		Title:    deref(req.Title),
		Director: deref(req.Director),
		Year:     req.year(),
	}, nil
}

// Update handles PUT /movies/:id. Only the fields present in the body change.
//
// @Summary      Update a movie
// @Tags         movies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Movie id"
// @Param        body  body      movieRequest  true  "Fields to change"
// @Success      200   {object}  domain.Movie
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /movies/{id} [put]
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req movieRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	movie, err := h.service.Update(c.Request().Context(), ports.UpdateMovieInput{
		ID:       c.Param("id"),
		Actor:    id,
		Title:    req.Title,
		Director: req.Director,
		Year:     req.year(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movie)
}

// Delete handles DELETE /movies/:id.
//
// @Summary      Delete a movie
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Movie id"
// @Success      200  {object}  deleteMovieResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /movies/{id} [delete]
func (h *MovieHandler) Delete(c echo.Context) error {
	movie, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteMovieResponse{
		Message:      "Movie deleted successfully",
		DeletedMovie: movie,
	})
}
