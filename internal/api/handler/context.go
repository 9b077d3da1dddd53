package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinelist/movie-collection/internal/api/middleware"
	"github.com/cinelist/movie-collection/internal/core/domain"
)

// ctxIdentity returns the caller injected by the Auth middleware. A missing
// identity means the route was wired without Auth and is rejected as 401.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.ID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied.")
	}
	return id, nil
}

// bindBody decodes the JSON body; decoding failures are client errors.
func bindBody(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload").SetInternal(err)
	}
	return nil
}
