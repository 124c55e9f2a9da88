package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/interview-feedback/internal/snapshot"
)

const snapshotColumns = "id, file_id, user_id, save_trigger, version, is_current, created_at, " + variantColumns

// Save stores snap as the newest, current version for its file and user.
// Concurrent saves for the same file are serialised by an advisory lock.
func (db *DB) Save(ctx context.Context, snap *snapshot.Snapshot) (*snapshot.Snapshot, error) {
	if snap == nil || snap.FileID == "" {
		return nil, fmt.Errorf("snapshot requires a file id")
	}
	payloads, err := encodeVariants(snap)
	if err != nil {
		return nil, err
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2))`,
		snap.FileID, snap.UserID,
	); err != nil {
		return nil, fmt.Errorf("failed to lock snapshot history: %w", err)
	}

	var version int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM snapshots WHERE file_id = $1 AND user_id = $2`,
		snap.FileID, snap.UserID,
	).Scan(&version); err != nil {
		return nil, fmt.Errorf("failed to compute snapshot version: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE snapshots SET is_current = FALSE WHERE file_id = $1 AND user_id = $2 AND is_current`,
		snap.FileID, snap.UserID,
	); err != nil {
		return nil, fmt.Errorf("failed to clear current snapshot: %w", err)
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO snapshots (file_id, user_id, save_trigger, version, is_current, `+variantColumns+`)
		 VALUES ($1, $2, $3, $4, TRUE, $5, $6, $7)
		 RETURNING `+snapshotColumns,
		snap.FileID, snap.UserID, string(snap.Trigger), version, payloads[0], payloads[1], payloads[2],
	)
	saved, err := scanSnapshot(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return saved, nil
}

// Latest returns the current snapshot of a file, falling back to the
// highest version when none is marked current.
func (db *DB) Latest(ctx context.Context, fileID, userID string) (*snapshot.Snapshot, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots
		 WHERE file_id = $1 AND user_id = $2
		 ORDER BY is_current DESC, version DESC
		 LIMIT 1`,
		fileID, userID,
	)
	snap, err := scanSnapshot(row)
	if err != nil {
		return nil, notFound(err, "failed to get latest snapshot")
	}
	return snap, nil
}

// Get returns a snapshot by id.
func (db *DB) Get(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	snapID, err := uuid.Parse(id)
	if err != nil {
		return nil, snapshot.ErrNotFound
	}
	row := db.pool.QueryRow(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE id = $1`, snapID)
	snap, err := scanSnapshot(row)
	if err != nil {
		return nil, notFound(err, "failed to get snapshot")
	}
	return snap, nil
}

// History lists a file's snapshots, newest first.
func (db *DB) History(ctx context.Context, fileID, userID string) ([]snapshot.Summary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, file_id, save_trigger, version, is_current, created_at FROM snapshots
		 WHERE file_id = $1 AND user_id = $2
		 ORDER BY version DESC`,
		fileID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	summaries := []snapshot.Summary{}
	for rows.Next() {
		var (
			s       snapshot.Summary
			id      uuid.UUID
			trigger string
		)
		if err := rows.Scan(&id, &s.FileID, &trigger, &s.Version, &s.IsCurrent, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.ID = id.String()
		s.Trigger = snapshot.Trigger(trigger)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// SetCurrent makes id the current snapshot of its file.
func (db *DB) SetCurrent(ctx context.Context, id string) error {
	snapID, err := uuid.Parse(id)
	if err != nil {
		return snapshot.ErrNotFound
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE snapshots SET is_current = (id = $1)
		 WHERE (file_id, user_id) = (SELECT file_id, user_id FROM snapshots WHERE id = $1)`,
		snapID,
	)
	if err != nil {
		return fmt.Errorf("failed to set current snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return snapshot.ErrNotFound
	}
	return nil
}

// Delete removes a snapshot.
func (db *DB) Delete(ctx context.Context, id string) error {
	snapID, err := uuid.Parse(id)
	if err != nil {
		return snapshot.ErrNotFound
	}
	tag, err := db.pool.Exec(ctx, `DELETE FROM snapshots WHERE id = $1`, snapID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return snapshot.ErrNotFound
	}
	return nil
}

func scanSnapshot(row pgx.Row) (*snapshot.Snapshot, error) {
	var (
		snap     snapshot.Snapshot
		id       uuid.UUID
		trigger  string
		payloads [3][]byte
	)
	if err := row.Scan(&id, &snap.FileID, &snap.UserID, &trigger, &snap.Version, &snap.IsCurrent,
		&snap.CreatedAt, &payloads[0], &payloads[1], &payloads[2]); err != nil {
		return nil, err
	}
	snap.ID = id.String()
	snap.Trigger = snapshot.Trigger(trigger)
	if err := decodeVariants(&snap, payloads); err != nil {
		return nil, err
	}
	return &snap, nil
}

func notFound(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return snapshot.ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

var _ snapshot.Store = (*DB)(nil)
