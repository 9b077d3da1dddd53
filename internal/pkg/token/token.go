// Package token issues and verifies the HS256 session tokens that carry a
// user's identity. Tokens are stateless: nothing is stored server-side and a
// token stays valid until it expires.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cinelist/movie-collection/internal/core/domain"
)

// DefaultTTL is the lifetime of a freshly issued token.
const DefaultTTL = time.Hour

// Claims is the signed payload. The identity sits under "user".
type Claims struct {
	User domain.Identity `json:"user"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens with a shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for iat/exp and verification.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a Manager. A non-positive ttl falls back to DefaultTTL.
func NewManager(secret string, ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// ErrEmptySecret is returned by a Manager built without a signing key.
var ErrEmptySecret = errors.New("token secret is empty")

// Issue mints a signed token for id.
func (m *Manager) Issue(id domain.Identity) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrEmptySecret
	}
	now := m.now()
	claims := Claims{
		User: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Failures are domain.ErrExpiredCredential or domain.ErrInvalidCredential.
func (m *Manager) Verify(raw string) (domain.Identity, error) {
	if len(m.secret) == 0 {
		return domain.Identity{}, domain.ErrInvalidCredential
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.Identity{}, domain.ErrExpiredCredential
	case err != nil, !tkn.Valid:
		return domain.Identity{}, domain.ErrInvalidCredential
	}

	if claims.User.ID == "" || !domain.ValidRole(claims.User.Role) {
		return domain.Identity{}, domain.ErrInvalidCredential
	}
	return claims.User, nil
}
