// Package db persists editor snapshots, in PostgreSQL for the server and
// in SQLite for single-user and offline use.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	file_id              TEXT NOT NULL,
	user_id              TEXT NOT NULL DEFAULT '',
	save_trigger         TEXT NOT NULL CHECK (save_trigger IN ('manual', 'auto')),
	version              INTEGER NOT NULL,
	is_current           BOOLEAN NOT NULL DEFAULT FALSE,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	manual_report        JSONB,
	full_report          JSONB,
	ai_competency_report JSONB,
	UNIQUE (file_id, user_id, version)
);
CREATE INDEX IF NOT EXISTS snapshots_file_user_idx ON snapshots (file_id, user_id, version DESC);
`

// Migrate creates the snapshot table if it does not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
