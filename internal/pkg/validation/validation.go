// Package validation wraps go-playground/validator and reports failures as
// *domain.ValidationError so every layer speaks the same error type.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cinelist/movie-collection/internal/core/domain"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Validator validates tagged structs. It satisfies echo.Validator.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New returns a Validator with the movieyear rule registered.
func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock is New with an injectable clock for the movieyear rule.
func NewWithClock(now func() time.Time) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	val := &Validator{v: v, now: now}
	_ = v.RegisterValidation("movieyear", val.movieYear)
	_ = v.RegisterValidation("bcryptlen", bcryptLen)
	return val
}

// Validate runs the struct rules on i. Rule violations come back as a
// *domain.ValidationError; anything else is returned unchanged.
func (val *Validator) Validate(i any) error {
	err := val.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make([]domain.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, domain.FieldError{
			Field:   fe.Field(),
			Message: val.message(fe),
		})
	}
	return &domain.ValidationError{Fields: fields}
}

func (val *Validator) movieYear(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return domain.ValidMovieYear(int(f.Int()), val.now())
	default:
		return false
	}
}

// bcryptLen rejects strings longer than bcrypt can hash. max counts runes,
// bcrypt counts bytes.
func bcryptLen(fl validator.FieldLevel) bool {
	f := fl.Field()
	return f.Kind() == reflect.String && len(f.String()) <= MaxPasswordBytes
}

// message converts a single FieldError into a human-readable message.
func (val *Validator) message(fe validator.FieldError) string {
	label := capitalize(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Please enter a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	case "bcryptlen":
		return fmt.Sprintf("%s must be at most %d bytes long", label, MaxPasswordBytes)
	case "movieyear":
		return fmt.Sprintf("%s must be a valid number between %d and %d",
			label, domain.MinMovieYear, domain.MaxMovieYear(val.now()))
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, fe.Tag())
	}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return strings.ToLower(f.Name)
	}
	return name
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
