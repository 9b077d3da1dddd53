package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinelist/movie-collection/internal/pkg/metrics"
	"github.com/cinelist/movie-collection/internal/core/domain"
	"github.com/cinelist/movie-collection/internal/core/ports"
)

const (
	// LegacyTokenHeader is accepted when Authorization is absent.
	LegacyTokenHeader = "x-auth-token"

	msgMissingToken = "No token, authorization denied."
	msgExpiredToken = "Token has expired."
	msgInvalidToken = "Token is not valid."
)

// Auth validates the session token and injects the caller identity into context.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return authenticate(verifier, false)
}

// OptionalAuth lets anonymous requests through but still rejects a token
// that is present and unusable.
func OptionalAuth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return authenticate(verifier, true)
}

func authenticate(verifier ports.TokenVerifier, optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := extractToken(c.Request())
			if err != nil {
				if optional && errors.Is(err, domain.ErrMissingCredential) {
					return next(c)
				}
				return reject(err)
			}

			id, err := verifier.Verify(raw)
			if err != nil {
				return reject(err)
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

// extractToken reads "Authorization: Bearer <token>", falling back to the
// legacy header.
func extractToken(r *http.Request) (string, error) {
	if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", domain.ErrInvalidCredential
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if raw := strings.TrimSpace(r.Header.Get(LegacyTokenHeader)); raw != "" {
		return raw, nil
	}
	return "", domain.ErrMissingCredential
}

func reject(err error) error {
	reason, msg := "invalid", msgInvalidToken
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		reason, msg = "missing", msgMissingToken
	case errors.Is(err, domain.ErrExpiredCredential):
		reason, msg = "expired", msgExpiredToken
	}
	metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(err)
}
