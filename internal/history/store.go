// Package history persists one row per index run so operators can audit what
// was published and when.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/docindex/internal/pipeline"
)

// Entry is a summarized run as stored.
type Entry struct {
	ID          string
	Start       time.Time
	End         time.Time
	Outcome     string
	Artifacts   int
	Services    int
	Diagnostics int
	ReportJSON  string
}

// Store records run reports in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (and initializes) the history database.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		start_time INTEGER NOT NULL,
		end_time INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		artifacts INTEGER NOT NULL,
		services INTEGER NOT NULL,
		diagnostics INTEGER NOT NULL,
		report TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_start ON runs(start_time);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores a finished run report.
func (s *Store) Record(ctx context.Context, report *pipeline.RunReport) error {
	data, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, start_time, end_time, outcome, artifacts, services, diagnostics, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.Start.Unix(), report.End.Unix(), string(report.Outcome),
		report.Artifacts, report.Services, len(report.Diagnostics), string(data))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, start_time, end_time, outcome, artifacts, services, diagnostics, report
		 FROM runs ORDER BY start_time DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var start, end int64
		if err := rows.Scan(&e.ID, &start, &end, &e.Outcome, &e.Artifacts, &e.Services, &e.Diagnostics, &e.ReportJSON); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.Start = time.Unix(start, 0)
		e.End = time.Unix(end, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
