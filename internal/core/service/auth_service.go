package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Bappoz/auth-system/internal/api/metrics"
	"github.com/Bappoz/auth-system/internal/core/crypto"
	"github.com/Bappoz/auth-system/internal/core/domain"
	"github.com/Bappoz/auth-system/internal/core/ports"
	"github.com/Bappoz/auth-system/internal/core/token"
	"github.com/Bappoz/auth-system/internal/core/validation"
)

// AuthService implements registration and login on top of a pluggable user
// repository. It holds no state beyond the repository and token service
// references; both flows are strictly request/response.
type AuthService struct {
	repo   ports.UserRepository
	tokens *token.Service
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *token.Service, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log}
}

// Register validates the candidate, checks email and username availability,
// hashes the password and persists the new account, returning a token for
// the freshly allocated user id.
//
// The availability pre-check and the insert are not atomic; SQL, Mongo and
// Redis backends close that window with storage-level uniqueness, the
// in-memory backend does not (see its package doc).
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, *domain.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("validation_error").Inc()
		return "", nil, err
	}
	if err := validation.ValidateUsername(username); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("validation_error").Inc()
		return "", nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("validation_error").Inc()
		return "", nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("lookup by email: %w", err)
	}
	if existing != nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return "", nil, domain.ErrUserExists
	}

	existing, err = s.repo.FindByUsername(ctx, username)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("lookup by username: %w", err)
	}
	if existing != nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return "", nil, domain.ErrUserExists
	}

	start := time.Now()
	hash, err := crypto.HashPassword(password)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("password hashing failed")
		return "", nil, domain.ErrInternal
	}

	user, err := s.repo.Create(ctx, domain.NewUser{Username: username, Email: email}, hash)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			// Lost the race to a concurrent registration; the storage-level
			// constraint caught it.
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return "", nil, err
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("token signing failed")
		return "", nil, domain.ErrInternal
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return tok, user, nil
}

// Login authenticates by username and password. An unknown username and a
// wrong password both yield ErrInvalidCredentials so the response never
// reveals whether the account exists.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("lookup by username: %w", err)
	}
	if user == nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	ok, err := crypto.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		// A stored hash we cannot parse is an operator problem, but the
		// client still just sees an authentication failure.
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("stored password hash unreadable")
		return "", nil, domain.ErrInvalidCredentials
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("token signing failed")
		return "", nil, domain.ErrInternal
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return tok, user, nil
}

// Profile resolves the account behind a verified token subject. A subject
// that no longer resolves to a user is treated as an authentication failure.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup by id: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}
