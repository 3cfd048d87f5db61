// Package token issues and verifies the HS256 bearer tokens that prove a
// previously established identity. The token subject is the user id.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Bappoz/auth-system/internal/core/domain"
)

// DefaultTTL is the token validity window when none is configured.
const DefaultTTL = 24 * time.Hour

// Claims is the token payload: subject, issued-at and expiry. No audience,
// issuer or scope claims are carried.
type Claims struct {
	jwt.RegisteredClaims
}

// Service signs and verifies tokens with a process-wide symmetric secret.
// It holds no durable state.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given subject, valid from now until now+TTL.
func (s *Service) Issue(subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks the signature and expiry and returns the token subject.
// Clients only ever see a single invalid-or-expired outcome; expiry is kept
// as a distinct error so logs can tell the cases apart.
func (s *Service) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrInvalidToken
	}
	if !tkn.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
