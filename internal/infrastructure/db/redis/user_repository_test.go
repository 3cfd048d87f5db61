package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/Bappoz/auth-system/internal/core/domain"
)

// fakeStore serves the repository's command set (SETNX, GET, DEL, HSET,
// HGETALL) from in-process maps via a client hook, so the repository runs
// against real go-redis plumbing without a server. failHSet makes the next
// HSET fail, simulating a transient error mid-create.
type fakeStore struct {
	strings  map[string]string
	hashes   map[string]map[string]string
	failHSet bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		strings: make(map[string]string),
		hashes:  make(map[string]map[string]string),
	}
}

func (f *fakeStore) client() *redis.Client {
	c := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	c.AddHook(f)
	return c
}

func (f *fakeStore) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("no network in tests")
	}
}

func (f *fakeStore) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		return errors.New("pipeline not supported")
	}
}

func (f *fakeStore) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		args := cmd.Args()
		name := strings.ToLower(fmt.Sprint(args[0]))

		switch name {
		case "set": // only issued as SET key value NX
			key := fmt.Sprint(args[1])
			boolCmd := cmd.(*redis.BoolCmd)
			if _, exists := f.strings[key]; exists {
				boolCmd.SetVal(false)
				return nil
			}
			f.strings[key] = fmt.Sprint(args[2])
			boolCmd.SetVal(true)
			return nil

		case "setnx": // go-redis issues SETNX for SetNX with zero expiration
			key := fmt.Sprint(args[1])
			boolCmd := cmd.(*redis.BoolCmd)
			if _, exists := f.strings[key]; exists {
				boolCmd.SetVal(false)
				return nil
			}
			f.strings[key] = fmt.Sprint(args[2])
			boolCmd.SetVal(true)
			return nil

		case "get":
			key := fmt.Sprint(args[1])
			strCmd := cmd.(*redis.StringCmd)
			val, ok := f.strings[key]
			if !ok {
				strCmd.SetErr(redis.Nil)
				return redis.Nil
			}
			strCmd.SetVal(val)
			return nil

		case "del":
			var removed int64
			for _, arg := range args[1:] {
				key := fmt.Sprint(arg)
				if _, ok := f.strings[key]; ok {
					delete(f.strings, key)
					removed++
				}
				if _, ok := f.hashes[key]; ok {
					delete(f.hashes, key)
					removed++
				}
			}
			cmd.(*redis.IntCmd).SetVal(removed)
			return nil

		case "hset":
			if f.failHSet {
				f.failHSet = false
				err := errors.New("connection reset")
				cmd.SetErr(err)
				return err
			}
			key := fmt.Sprint(args[1])
			hash := f.hashes[key]
			if hash == nil {
				hash = make(map[string]string)
				f.hashes[key] = hash
			}
			for i := 2; i+1 < len(args); i += 2 {
				hash[fmt.Sprint(args[i])] = fmt.Sprint(args[i+1])
			}
			cmd.(*redis.IntCmd).SetVal(int64((len(args) - 2) / 2))
			return nil

		case "hgetall":
			key := fmt.Sprint(args[1])
			mapCmd := cmd.(*redis.MapStringStringCmd)
			hash := f.hashes[key]
			out := make(map[string]string, len(hash))
			for k, v := range hash {
				out[k] = v
			}
			mapCmd.SetVal(out)
			return nil
		}

		err := fmt.Errorf("unsupported command %q", name)
		cmd.SetErr(err)
		return err
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(newFakeStore().client())
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.NewUser{Username: "alice", Email: "alice@example.com"}, "hashed")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" || !created.IsActive {
		t.Fatalf("unexpected user: %+v", created)
	}

	byUsername, err := repo.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find by username failed: %v", err)
	}
	if byUsername == nil || byUsername.ID != created.ID || byUsername.PasswordHash != "hashed" {
		t.Fatalf("unexpected lookup result: %+v", byUsername)
	}

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	if err != nil || byEmail == nil || byEmail.ID != created.ID {
		t.Fatalf("find by email: user=%+v err=%v", byEmail, err)
	}

	missing, err := repo.FindByUsername(ctx, "ghost")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for unknown username, got %+v, %v", missing, err)
	}
}

func TestUserRepository_DuplicateClaims(t *testing.T) {
	repo := NewUserRepository(newFakeStore().client())
	ctx := context.Background()

	if _, err := repo.Create(ctx, domain.NewUser{Username: "alice", Email: "alice@example.com"}, "hashed"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err := repo.Create(ctx, domain.NewUser{Username: "alice", Email: "other@example.com"}, "hashed")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate username, got %v", err)
	}

	_, err = repo.Create(ctx, domain.NewUser{Username: "bob", Email: "alice@example.com"}, "hashed")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate email, got %v", err)
	}

	// The failed email claim must have released the username claim.
	if _, err := repo.Create(ctx, domain.NewUser{Username: "bob", Email: "bob@example.com"}, "hashed"); err != nil {
		t.Fatalf("username should be available after rolled-back create: %v", err)
	}
}

func TestUserRepository_StoreFailureReleasesClaims(t *testing.T) {
	store := newFakeStore()
	repo := NewUserRepository(store.client())
	ctx := context.Background()

	store.failHSet = true
	_, err := repo.Create(ctx, domain.NewUser{Username: "alice", Email: "alice@example.com"}, "hashed")
	if err == nil {
		t.Fatalf("expected create to fail when the user hash write fails")
	}

	// Neither index key may survive the failed create: the name and the
	// address are still available.
	byUsername, err := repo.FindByUsername(ctx, "alice")
	if err != nil || byUsername != nil {
		t.Fatalf("expected (nil, nil) after failed create, got %+v, %v", byUsername, err)
	}
	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	if err != nil || byEmail != nil {
		t.Fatalf("expected (nil, nil) after failed create, got %+v, %v", byEmail, err)
	}

	// A retry with the same credentials succeeds.
	created, err := repo.Create(ctx, domain.NewUser{Username: "alice", Email: "alice@example.com"}, "hashed")
	if err != nil {
		t.Fatalf("retry after failed create: %v", err)
	}
	if found, err := repo.FindByUsername(ctx, "alice"); err != nil || found == nil || found.ID != created.ID {
		t.Fatalf("retry not visible: user=%+v err=%v", found, err)
	}
}
