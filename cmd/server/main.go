package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Bappoz/auth-system/internal/api"
	"github.com/Bappoz/auth-system/internal/core/ports"
	"github.com/Bappoz/auth-system/internal/core/token"
	"github.com/Bappoz/auth-system/internal/infrastructure/config"
	"github.com/Bappoz/auth-system/internal/infrastructure/db/memory"
	mongodb "github.com/Bappoz/auth-system/internal/infrastructure/db/mongo"
	"github.com/Bappoz/auth-system/internal/infrastructure/db/mysql"
	"github.com/Bappoz/auth-system/internal/infrastructure/db/postgres"
	redisdb "github.com/Bappoz/auth-system/internal/infrastructure/db/redis"
	"github.com/Bappoz/auth-system/internal/infrastructure/db/sqlite"
	"github.com/Bappoz/auth-system/internal/infrastructure/http/handlers"
	"github.com/Bappoz/auth-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	repo, checks, cleanup, err := buildRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("storage backend init failed")
	}
	defer cleanup()

	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	e := api.NewRouter(repo, tokens, log, checks)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	log.Info().
		Str("port", cfg.Port).
		Str("driver", cfg.DBDriver).
		Msg("auth system listening")

	// Returning instead of exiting lets the deferred cleanup close the
	// storage backend even when the listener fails to bind.
	if err := serve(e, cfg.Port, log, quit); err != nil {
		log.Error().Err(err).Msg("server failed")
	}
}

// serve runs the server until it fails or a shutdown signal arrives, then
// drains in-flight requests within shutdownTimeout.
func serve(e *echo.Echo, port string, log zerolog.Logger, quit <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(":" + port)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-quit:
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// buildRepository constructs the user repository named by DB_DRIVER along
// with its readiness checks and a cleanup func for process exit.
func buildRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.UserRepository, map[string]handlers.CheckFunc, func(), error) {
	noop := func() {}

	switch cfg.DBDriver {
	case "memory":
		log.Warn().Msg("using in-memory storage; all data is lost on exit")
		return memory.NewUserRepository(), nil, noop, nil

	case "postgres":
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, noop, err
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, noop, err
		}
		checks := map[string]handlers.CheckFunc{"postgres": db.PingContext}
		return postgres.NewUserRepository(db), checks, func() { _ = db.Close() }, nil

	case "mysql":
		db, err := mysql.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, noop, err
		}
		if err := mysql.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, noop, err
		}
		checks := map[string]handlers.CheckFunc{"mysql": db.PingContext}
		return mysql.NewUserRepository(db), checks, func() { _ = db.Close() }, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, noop, err
		}
		if err := sqlite.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, noop, err
		}
		checks := map[string]handlers.CheckFunc{"sqlite": db.PingContext}
		return sqlite.NewUserRepository(db), checks, func() { _ = db.Close() }, nil

	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, noop, err
		}
		repo := mongodb.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, noop, err
		}
		checks := map[string]handlers.CheckFunc{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
		}
		cleanup := func() { _ = client.Disconnect(context.Background()) }
		return repo, checks, cleanup, nil

	case "redis":
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, noop, err
		}
		checks := map[string]handlers.CheckFunc{
			"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
		}
		return redisdb.NewUserRepository(client), checks, func() { _ = client.Close() }, nil
	}

	return nil, nil, noop, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}
