// Package mysql provides the MySQL-backed user repository. Behaviour is
// identical to the PostgreSQL backend; only the dialect and the duplicate
// key detection differ.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const defaultTimeout = 10 * time.Second

// Open establishes a MySQL connection pool and verifies connectivity.
// The DSN must include parseTime=true so DATETIME columns scan into
// time.Time.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the users table with its unique constraints if it
// does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	query := `CREATE TABLE IF NOT EXISTS users (
	    id            VARCHAR(36) PRIMARY KEY,
	    username      VARCHAR(50) NOT NULL UNIQUE,
	    email         VARCHAR(255) NOT NULL UNIQUE,
	    password_hash TEXT NOT NULL,
	    created_at    DATETIME NOT NULL,
	    updated_at    DATETIME NOT NULL,
	    is_active     BOOLEAN NOT NULL DEFAULT TRUE
	)`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("mysql ensure schema: %w", err)
	}
	return nil
}
