package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cinelist/movie-collection/internal/pkg/metrics"
	"github.com/cinelist/movie-collection/internal/core/domain"
	"github.com/cinelist/movie-collection/internal/core/ports"
)

// InputValidator validates tagged input structs.
type InputValidator interface {
	Validate(i any) error
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(id domain.Identity) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	store     *CredentialStore
	tokens    TokenIssuer
	validator InputValidator
	logger    zerolog.Logger
}

func NewAuthService(store *CredentialStore, tokens TokenIssuer, validator InputValidator, logger zerolog.Logger) *AuthService {
	return &AuthService{store: store, tokens: tokens, validator: validator, logger: logger}
}

// Register validates the form and creates a user with the default role.
// No token is issued; the user logs in afterwards.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = NormalizeEmail(in.Email)
	if err := s.validator.Validate(&in); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return nil, err
	}

	user, err := s.store.Create(ctx, in.Username, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		} else {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
			s.logger.Error().Err(err).Str("username", in.Username).Msg("failed to register user")
		}
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login checks credentials and issues a session token. Unknown email and
// wrong password both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := s.validator.Validate(&in); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return nil, err
	}

	user, err := s.store.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, err
	}

	if !s.store.VerifyPassword(user, in.Password) {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	s.logger.Debug().Str("user_id", user.ID).Str("role", user.Role).Msg("user logged in")
	return &ports.LoginResult{Token: token, User: user}, nil
}
