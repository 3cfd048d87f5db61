package ports

import (
	"context"

	"github.com/Bappoz/auth-system/internal/core/domain"
)

// UserRepository is the persistence contract for user records. Every backend
// (in-memory, PostgreSQL, MySQL, SQLite, MongoDB, Redis) satisfies the same
// external behaviour.
//
// Create allocates the identifier and timestamps and persists the record;
// backends with storage-level uniqueness report a collision as
// domain.ErrUserExists. Finders return (nil, nil) when no record matches:
// absence is a valid result, not an error.
type UserRepository interface {
	Create(ctx context.Context, candidate domain.NewUser, passwordHash string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
