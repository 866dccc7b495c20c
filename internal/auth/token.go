// Package auth issues and verifies the bearer credentials used by the admin
// API. Tokens are HS256 JWTs carrying the admin's email and role.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"quizhost-service/internal/domain"
)

// Claims is the payload signed into every admin token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies admin tokens with a shared HMAC secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	clock  func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, clock: time.Now}
}

// Issue mints a signed token for the identity.
func (m *Manager) Issue(identity domain.Identity) (string, error) {
	now := m.clock()
	claims := &Claims{
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token, returning the identity it carries.
// Any parse, signature, or expiry failure maps to domain.ErrInvalidToken.
func (m *Manager) Verify(tokenString string) (domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.clock))
	if err != nil || !token.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return domain.Identity{Email: claims.Email, Role: claims.Role}, nil
}
