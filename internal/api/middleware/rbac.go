package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinelist/movie-collection/internal/pkg/metrics"
	"github.com/cinelist/movie-collection/internal/core/domain"
)

const msgForbidden = "Access denied: Insufficient permissions."

// Policy maps "METHOD path" (echo route pattern) to the roles allowed on it.
type Policy map[string][]string

// MoviePolicy is the access table for the movie routes.
var MoviePolicy = Policy{
	"POST /movies":                 {domain.RoleAdmin, domain.RoleSuperAdmin},
	"PUT /movies/:id":              {domain.RoleAdmin, domain.RoleSuperAdmin},
	"DELETE /movies/:id":           {domain.RoleSuperAdmin},
	"POST /movies/add-from-public": domain.Roles,
}

// Allows reports whether role may call route. Routes absent from the table
// are denied.
func (p Policy) Allows(route, role string) bool {
	for _, r := range p[route] {
		if r == role {
			return true
		}
	}
	return false
}

// RBAC enforces p for the matched route. It must run after Auth.
func RBAC(p Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Request().Method + " " + c.Path()
			id, ok := IdentityFrom(c)
			if !ok || !p.Allows(route, id.Role) {
				metrics.ForbiddenTotal.WithLabelValues(route).Inc()
				return echo.NewHTTPError(http.StatusForbidden, msgForbidden).SetInternal(domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
