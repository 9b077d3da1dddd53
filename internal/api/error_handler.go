package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cinelist/movie-collection/internal/core/domain"
)

const msgInternal = "An unexpected internal server error occurred."

// errorResponse is the canonical error envelope for all API errors.
// Errors holds one {"field": "message"} object per violated field.
type errorResponse struct {
	Message string              `json:"message"`
	Errors  []map[string]string `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"message": "...", "errors": [...]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		fields := make([]map[string]string, 0, len(ve.Fields))
		for _, f := range ve.Fields {
			fields = append(fields, map[string]string{f.Field: f.Message})
		}
		return http.StatusBadRequest, errorResponse{Message: "Validation failed", Errors: fields}
	}

	// Echo's own errors (bind failures, 404 from router) and middleware rejections.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
		}
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	// Invalid ids unwrap to ErrMovieNotFound, so they must be matched first.
	switch {
	case errors.Is(err, domain.ErrInvalidMovieID):
		return http.StatusBadRequest, errorResponse{Message: "Invalid movie ID format"}
	case errors.Is(err, domain.ErrMovieNotFound):
		return http.StatusNotFound, errorResponse{Message: "Movie not found"}
	case errors.Is(err, domain.ErrMovieExists):
		return http.StatusConflict, errorResponse{Message: "This movie is already in your collection."}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Message: "User with that username or email already exists."}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, errorResponse{Message: "Invalid credentials."}
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusUnauthorized, errorResponse{Message: "No token, authorization denied."}
	case errors.Is(err, domain.ErrExpiredCredential):
		return http.StatusUnauthorized, errorResponse{Message: "Token has expired."}
	case errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusUnauthorized, errorResponse{Message: "Token is not valid."}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Message: "Access denied: Insufficient permissions."}
	case errors.Is(err, domain.ErrUpstreamNotConfigured):
		return http.StatusServiceUnavailable, errorResponse{Message: "Public movie listing is not configured."}
	case errors.Is(err, domain.ErrUpstream):
		log.Warn().Err(err).Str("path", c.Path()).Msg("public movie listing unavailable")
		return http.StatusBadGateway, errorResponse{Message: "Failed to fetch movies from the public listing."}
	}

	logUnhandled(log, c, err)
	return http.StatusInternalServerError, errorResponse{Message: msgInternal}
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
