package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Bappoz/auth-system/internal/core/domain"
)

// UserRepository stores each user as a hash at auth:user:<id> plus two index
// keys mapping username and email back to the id:
//
//	auth:index:username:<username> -> <id>
//	auth:index:email:<email>       -> <id>
//
// The index keys are claimed with SETNX, which doubles as atomic duplicate
// detection: the second of two racing registrations fails to claim the key.
type UserRepository struct {
	client *redis.Client
}

func NewUserRepository(client *redis.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) Create(ctx context.Context, candidate domain.NewUser, passwordHash string) (*domain.User, error) {
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

	usernameKey := indexKey("username", user.Username)
	claimed, err := r.client.SetNX(ctx, usernameKey, user.ID, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("claim username: %w", err)
	}
	if !claimed {
		return nil, domain.ErrUserExists
	}

	emailKey := indexKey("email", user.Email)
	claimed, err = r.client.SetNX(ctx, emailKey, user.ID, 0).Result()
	if err != nil {
		_ = r.client.Del(ctx, usernameKey).Err()
		return nil, fmt.Errorf("claim email: %w", err)
	}
	if !claimed {
		// Roll back the username claim so the name stays available.
		_ = r.client.Del(ctx, usernameKey).Err()
		return nil, domain.ErrUserExists
	}

	fields := map[string]any{
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"created_at":    strconv.FormatInt(user.CreatedAt.Unix(), 10),
		"updated_at":    strconv.FormatInt(user.UpdatedAt.Unix(), 10),
		"is_active":     strconv.FormatBool(user.IsActive),
	}
	if err := r.client.HSet(ctx, userKey(user.ID), fields).Err(); err != nil {
		// Release both index claims, otherwise the name and address stay
		// permanently reserved for a user hash that was never written.
		_ = r.client.Del(ctx, usernameKey, emailKey).Err()
		return nil, fmt.Errorf("store user: %w", err)
	}

	user.CreatedAt = time.Unix(user.CreatedAt.Unix(), 0).UTC()
	user.UpdatedAt = time.Unix(user.UpdatedAt.Unix(), 0).UTC()
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByIndex(ctx, indexKey("email", email))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findByIndex(ctx, indexKey("username", username))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.loadUser(ctx, id)
}

func (r *UserRepository) findByIndex(ctx context.Context, key string) (*domain.User, error) {
	id, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve index: %w", err)
	}
	return r.loadUser(ctx, id)
}

func (r *UserRepository) loadUser(ctx context.Context, id string) (*domain.User, error) {
	fields, err := r.client.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("load user %s: bad created_at: %w", id, err)
	}
	updatedAt, err := strconv.ParseInt(fields["updated_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("load user %s: bad updated_at: %w", id, err)
	}
	isActive, err := strconv.ParseBool(fields["is_active"])
	if err != nil {
		return nil, fmt.Errorf("load user %s: bad is_active: %w", id, err)
	}

	return &domain.User{
		ID:           id,
		Username:     fields["username"],
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
		CreatedAt:    time.Unix(createdAt, 0).UTC(),
		UpdatedAt:    time.Unix(updatedAt, 0).UTC(),
		IsActive:     isActive,
	}, nil
}

func userKey(id string) string {
	return "auth:user:" + id
}

func indexKey(field, value string) string {
	return fmt.Sprintf("auth:index:%s:%s", field, value)
}
