package domain

import (
	"errors"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user with that username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrMissingCredential = errors.New("no token, authorization denied")
	ErrExpiredCredential = errors.New("token has expired")
	ErrInvalidCredential = errors.New("token is not valid")
	ErrForbidden         = errors.New("access denied")

	ErrMovieNotFound  = errors.New("movie not found")
	ErrInvalidMovieID = &invalidIDError{}
	ErrMovieExists    = errors.New("movie already in collection")

	ErrUpstream              = errors.New("upstream movie service error")
	ErrUpstreamNotConfigured = errors.New("upstream movie service not configured")
)

// invalidIDError is a NotFound for ids that could never exist; it stays
// distinguishable so the transport can answer 400.
type invalidIDError struct{}

func (*invalidIDError) Error() string { return "invalid movie id format" }
func (*invalidIDError) Unwrap() error { return ErrMovieNotFound }

// FieldError is a single violated input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Has reports whether field is among the violations.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
