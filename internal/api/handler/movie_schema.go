package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cinelist/movie-collection/internal/core/domain"
)

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Message string              `json:"message"`
	Errors  []map[string]string `json:"errors,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// --- Movies ---

// movieRequest is the body of create, update and import. Absent fields stay nil.
type movieRequest struct {
	Title    *string    `json:"title"`
	Director *string    `json:"director"`
	Year     *movieYear `json:"year" swaggertype:"integer"`
}

func (r movieRequest) year() *int {
	if r.Year == nil {
		return nil
	}
	y := int(*r.Year)
	return &y
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// movieYear accepts a JSON number or a numeric string. Anything else decodes
// to 0 so that the range check reports it.
type movieYear int

func (y *movieYear) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	raw := string(b)
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		raw = strings.TrimSpace(s)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		*y = 0
		return nil
	}
	*y = movieYear(n)
	return nil
}

type deleteMovieResponse struct {
	Message      string        `json:"message"`
	DeletedMovie *domain.Movie `json:"deletedMovie"`
}

type importMovieResponse struct {
	Message string        `json:"message"`
	Movie   *domain.Movie `json:"movie"`
}
