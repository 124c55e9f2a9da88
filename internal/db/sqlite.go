package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/jonathan/interview-feedback/internal/snapshot"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id                   TEXT PRIMARY KEY,
	file_id              TEXT NOT NULL,
	user_id              TEXT NOT NULL DEFAULT '',
	save_trigger         TEXT NOT NULL CHECK (save_trigger IN ('manual', 'auto')),
	version              INTEGER NOT NULL,
	is_current           INTEGER NOT NULL DEFAULT 0,
	created_at           TEXT NOT NULL,
	manual_report        TEXT,
	full_report          TEXT,
	ai_competency_report TEXT,
	UNIQUE (file_id, user_id, version)
);
CREATE INDEX IF NOT EXISTS snapshots_file_user_idx ON snapshots (file_id, user_id, version DESC);
`

// SQLiteStore keeps snapshots in a local SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema. Use ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection keeps pragmas and :memory: databases consistent.
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		sqliteSchema,
	} {
		if _, err := sqlDB.ExecContext(ctx, stmt); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to initialise sqlite database: %w", err)
		}
	}

	return &SQLiteStore{db: sqlDB, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save stores snap as the newest, current version for its file and user.
func (s *SQLiteStore) Save(ctx context.Context, snap *snapshot.Snapshot) (*snapshot.Snapshot, error) {
	if snap == nil || snap.FileID == "" {
		return nil, fmt.Errorf("snapshot requires a file id")
	}
	payloads, err := encodeVariants(snap)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var version int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM snapshots WHERE file_id = ? AND user_id = ?`,
		snap.FileID, snap.UserID,
	).Scan(&version); err != nil {
		return nil, fmt.Errorf("failed to compute snapshot version: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE snapshots SET is_current = 0 WHERE file_id = ? AND user_id = ?`,
		snap.FileID, snap.UserID,
	); err != nil {
		return nil, fmt.Errorf("failed to clear current snapshot: %w", err)
	}

	saved := snap.Clone()
	saved.ID = uuid.NewString()
	saved.Version = version
	saved.IsCurrent = true
	saved.CreatedAt = s.now().UTC()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, file_id, user_id, save_trigger, version, is_current, created_at, `+variantColumns+`)
		 VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?, ?)`,
		saved.ID, saved.FileID, saved.UserID, string(saved.Trigger), saved.Version,
		saved.CreatedAt.Format(time.RFC3339Nano),
		nullableText(payloads[0]), nullableText(payloads[1]), nullableText(payloads[2]),
	); err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return saved, nil
}

// Latest returns the current snapshot of a file, falling back to the
// highest version.
func (s *SQLiteStore) Latest(ctx context.Context, fileID, userID string) (*snapshot.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots
		 WHERE file_id = ? AND user_id = ?
		 ORDER BY is_current DESC, version DESC
		 LIMIT 1`,
		fileID, userID,
	)
	return scanSQLiteSnapshot(row)
}

// Get returns a snapshot by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)
	return scanSQLiteSnapshot(row)
}

// History lists a file's snapshots, newest first.
func (s *SQLiteStore) History(ctx context.Context, fileID, userID string) ([]snapshot.Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_id, save_trigger, version, is_current, created_at FROM snapshots
		 WHERE file_id = ? AND user_id = ?
		 ORDER BY version DESC`,
		fileID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []snapshot.Summary{}
	for rows.Next() {
		var (
			sum       snapshot.Summary
			trigger   string
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &sum.FileID, &trigger, &sum.Version, &sum.IsCurrent, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		sum.Trigger = snapshot.Trigger(trigger)
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// SetCurrent makes id the current snapshot of its file.
func (s *SQLiteStore) SetCurrent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE snapshots SET is_current = (id = ?1)
		 WHERE (file_id, user_id) = (SELECT file_id, user_id FROM snapshots WHERE id = ?1)`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to set current snapshot: %w", err)
	}
	return requireRow(res)
}

// Delete removes a snapshot.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return snapshot.ErrNotFound
	}
	return nil
}

func scanSQLiteSnapshot(row *sql.Row) (*snapshot.Snapshot, error) {
	var (
		snap      snapshot.Snapshot
		trigger   string
		createdAt string
		texts     [3]sql.NullString
	)
	err := row.Scan(&snap.ID, &snap.FileID, &snap.UserID, &trigger, &snap.Version, &snap.IsCurrent,
		&createdAt, &texts[0], &texts[1], &texts[2])
	if errors.Is(err, sql.ErrNoRows) {
		return nil, snapshot.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	snap.Trigger = snapshot.Trigger(trigger)
	if snap.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	var payloads [3][]byte
	for i, t := range texts {
		if t.Valid {
			payloads[i] = []byte(t.String)
		}
	}
	if err := decodeVariants(&snap, payloads); err != nil {
		return nil, err
	}
	return &snap, nil
}

func nullableText(data []byte) sql.NullString {
	if data == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(data), Valid: true}
}

var _ snapshot.Store = (*SQLiteStore)(nil)
