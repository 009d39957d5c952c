package db

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const userSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);`

// Connect opens the SQLite database at path, enables foreign keys and makes
// sure the schema exists. Use ":memory:" for a throwaway database.
func Connect(ctx context.Context, path string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		pool.SetMaxOpenConns(1)
	}

	if _, err := pool.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := pool.ExecContext(ctx, userSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}

	slog.InfoContext(ctx, "DB connection initialized and schema verified", "db.path", path)
	return pool, nil
}
