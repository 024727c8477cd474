package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based run history store.
// Use ":memory:" for an in-memory database, or a file path for
// persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		bundle TEXT NOT NULL,
		layouts INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		payload BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_kind ON runs(kind);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds a new run record to the store.
func (s *SQLiteStore) Append(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, kind, bundle, layouts, errors, warnings, duration_ms, started_at, payload) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		run.ID, string(run.Kind), run.Bundle, run.Layouts, run.Errors, run.Warnings,
		run.Duration.Milliseconds(), run.StartedAt.Unix(), run.Payload,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// Recent retrieves the most recent runs, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, kind, bundle, layouts, errors, warnings, duration_ms, started_at, payload FROM runs ORDER BY started_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var kind string
		var durationMS, startedUnix int64

		if err := rows.Scan(&run.ID, &kind, &run.Bundle, &run.Layouts, &run.Errors, &run.Warnings, &durationMS, &startedUnix, &run.Payload); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		run.Kind = RunKind(kind)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		run.StartedAt = time.Unix(startedUnix, 0)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return runs, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
