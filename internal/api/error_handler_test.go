package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cinelist/movie-collection/internal/core/domain"
)

func render(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		err     error
		code    int
		message string
	}{
		{domain.ErrInvalidMovieID, http.StatusBadRequest, "Invalid movie ID format"},
		{fmt.Errorf("find: %w", domain.ErrMovieNotFound), http.StatusNotFound, "Movie not found"},
		{domain.ErrMovieExists, http.StatusConflict, "This movie is already in your collection."},
		{domain.ErrUserExists, http.StatusConflict, "User with that username or email already exists."},
		{domain.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials."},
		{domain.ErrExpiredCredential, http.StatusUnauthorized, "Token has expired."},
		{domain.ErrForbidden, http.StatusForbidden, "Access denied: Insufficient permissions."},
		{fmt.Errorf("%w: trending: status 500", domain.ErrUpstream), http.StatusBadGateway, "Failed to fetch movies from the public listing."},
		{domain.ErrUpstreamNotConfigured, http.StatusServiceUnavailable, "Public movie listing is not configured."},
		{echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied."), http.StatusUnauthorized, "No token, authorization denied."},
		{errors.New("connection reset by peer"), http.StatusInternalServerError, msgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			code, body := render(t, tt.err)
			if code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, code)
			}
			if body.Message != tt.message {
				t.Fatalf("expected %q, got %q", tt.message, body.Message)
			}
			if body.Errors != nil {
				t.Fatalf("unexpected field errors: %+v", body.Errors)
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationEnvelope(t *testing.T) {
	err := &domain.ValidationError{Fields: []domain.FieldError{
		{Field: "username", Message: "Username must be at least 3 characters long"},
		{Field: "email", Message: "Please enter a valid email address"},
	}}

	code, body := render(t, err)

	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body.Message != "Validation failed" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if len(body.Errors) != 2 || body.Errors[1]["email"] != "Please enter a valid email address" {
		t.Fatalf("unexpected errors: %+v", body.Errors)
	}
}
