// Package sqlite provides the SQLite-backed user repository using the pure
// Go modernc driver. Timestamps are stored as unix milliseconds.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the SQLite database at path and verifies
// connectivity.
func Open(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: database path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the users table with its unique constraints if it
// does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	query := `CREATE TABLE IF NOT EXISTS users (
	    id            TEXT PRIMARY KEY,
	    username      TEXT NOT NULL UNIQUE,
	    email         TEXT NOT NULL UNIQUE,
	    password_hash TEXT NOT NULL,
	    created_at    INTEGER NOT NULL,
	    updated_at    INTEGER NOT NULL,
	    is_active     INTEGER NOT NULL DEFAULT 1
	)`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("sqlite ensure schema: %w", err)
	}
	return nil
}
