package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Bappoz/auth-system/internal/core/crypto"
	"github.com/Bappoz/auth-system/internal/core/domain"
	"github.com/Bappoz/auth-system/internal/core/token"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, candidate domain.NewUser, passwordHash string) (*domain.User, error) {
	r.nextID++
	now := time.Now().UTC()
	user := &domain.User{
		ID:           fmt.Sprintf("user-%d", r.nextID),
		Username:     candidate.Username,
		Email:        candidate.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
	}
	r.users[user.ID] = cloneUser(user)
	return user, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return cloneUser(r.users[id]), nil
}

func newTestService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, token.NewService("secret", time.Hour), zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	tok, user, err := svc.Register(context.Background(), "alice", "alice@example.com", "Str0ng#Pass")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.ID == "" {
		t.Fatalf("expected stored user, got %+v", user)
	}
	if user.PasswordHash == "Str0ng#Pass" {
		t.Fatalf("expected password to be hashed")
	}
	if ok, err := crypto.VerifyPassword(user.PasswordHash, "Str0ng#Pass"); err != nil || !ok {
		t.Fatalf("stored hash does not match password: ok=%v err=%v", ok, err)
	}
	if !user.IsActive {
		t.Fatalf("expected new user to be active")
	}

	subject, err := token.NewService("secret", time.Hour).Verify(tok)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if subject != user.ID {
		t.Fatalf("expected token subject %s, got %s", user.ID, subject)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	cases := map[string][3]string{
		"bad email":    {"alice", "not-an-email", "Str0ng#Pass"},
		"bad username": {"_alice", "alice@example.com", "Str0ng#Pass"},
		"bad password": {"alice", "alice@example.com", "weak"},
	}
	for name, args := range cases {
		_, _, err := svc.Register(context.Background(), args[0], args[1], args[2])
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", name, err)
		}
		if len(repo.users) != 0 {
			t.Fatalf("%s: no user should have been created", name)
		}
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if _, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "Str0ng#Pass"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, _, err := svc.Register(context.Background(), "other", "alice@example.com", "Str0ng#Pass")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if _, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "Str0ng#Pass"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, _, err := svc.Register(context.Background(), "alice", "other@example.com", "Str0ng#Pass")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, registered, err := svc.Register(context.Background(), "carol", "carol@example.com", "Senha123!")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	tok, user, err := svc.Login(context.Background(), "carol", "Senha123!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	subject, err := token.NewService("secret", time.Hour).Verify(tok)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if subject != registered.ID {
		t.Fatalf("expected subject %s, got %s", registered.ID, subject)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if _, _, err := svc.Register(context.Background(), "dave", "dave@example.com", "G00dpass!"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "dave", "WrongPass1!"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

// An unknown username yields the same error as a wrong password, so the
// response never reveals whether the account exists.
func TestAuthService_Login_UnknownUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if _, _, err := svc.Login(context.Background(), "ghost", "Senha123!"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_CorruptStoredHash(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, user, err := svc.Register(context.Background(), "erin", "erin@example.com", "Senha123!")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	repo.users[user.ID].PasswordHash = "not-a-hash"

	if _, _, err := svc.Login(context.Background(), "erin", "Senha123!"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, registered, err := svc.Register(context.Background(), "frank", "frank@example.com", "Senha123!")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Profile(context.Background(), registered.ID)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if user.Username != "frank" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Profile(context.Background(), "missing-id"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown id, got %v", err)
	}
}
