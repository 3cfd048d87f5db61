// Package memory provides the reference in-memory user repository: a
// mutex-guarded map keyed by user id with linear scans for username and
// email lookups. Useful for local development and tests; all data is lost
// when the process exits.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Bappoz/auth-system/internal/core/domain"
)

type UserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

// Create persists a new user. It does NOT enforce username/email uniqueness
// on its own: the service-level availability pre-check is the only guard,
// so two racing registrations can both land. This is a known limitation of
// the in-memory backend; the SQL, Mongo and Redis backends close the window
// at the store.
func (r *UserRepository) Create(_ context.Context, candidate domain.NewUser, passwordHash string) (*domain.User, error) {
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     candidate.Username,
		Email:        candidate.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
	}

	r.mu.Lock()
	r.users[user.ID] = user
	r.mu.Unlock()

	return clone(user), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Linear scan; fine at this backend's intended scale.
	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		return clone(u), nil
	}
	return nil, nil
}

// clone keeps callers from mutating the stored record through the returned
// pointer.
func clone(u *domain.User) *domain.User {
	c := *u
	return &c
}
