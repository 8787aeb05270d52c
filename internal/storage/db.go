package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"ketf/internal"
)

// DB keeps the history of funding runs.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL,
  source TEXT NOT NULL DEFAULT '',
  totalFunds TEXT NOT NULL DEFAULT '',
  applicants INTEGER NOT NULL DEFAULT 0,
  eligible INTEGER NOT NULL DEFAULT 0,
  rejected INTEGER NOT NULL DEFAULT 0,
  totalRequested INTEGER NOT NULL DEFAULT 0,
  totalAllocated INTEGER NOT NULL DEFAULT 0,
  scale TEXT NOT NULL DEFAULT '',
  diagnostics INTEGER NOT NULL DEFAULT 0,
  startedAt TEXT NOT NULL,
  finishedAt TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_startedAt ON runs(startedAt);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(run internal.RunRecord) error {
	_, err := d.conn.Exec(`
INSERT INTO runs (
  runId, status, source, totalFunds, applicants, eligible, rejected,
  totalRequested, totalAllocated, scale, diagnostics, startedAt, finishedAt
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		run.RunID, string(run.Status), run.Source, run.TotalFunds, run.Applicants, run.Eligible, run.Rejected,
		run.TotalRequested, run.TotalAllocated, run.Scale, run.Diagnostics,
		formatTime(run.StartedAt), formatTime(run.FinishedAt),
	)
	return err
}

// ListRuns returns the most recent runs first.
func (d *DB) ListRuns(limit int) ([]internal.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(selectRuns+` ORDER BY startedAt DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (d *DB) GetRun(runID string) (*internal.RunRecord, error) {
	run, err := scanRun(d.conn.QueryRow(selectRuns+` WHERE runId = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

const selectRuns = `
SELECT runId, status, source, totalFunds, applicants, eligible, rejected,
       totalRequested, totalAllocated, scale, diagnostics, startedAt, finishedAt
FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (internal.RunRecord, error) {
	var run internal.RunRecord
	var status, startedAt, finishedAt string
	if err := s.Scan(
		&run.RunID, &status, &run.Source, &run.TotalFunds, &run.Applicants, &run.Eligible, &run.Rejected,
		&run.TotalRequested, &run.TotalAllocated, &run.Scale, &run.Diagnostics, &startedAt, &finishedAt,
	); err != nil {
		return internal.RunRecord{}, err
	}
	run.Status = internal.RunStatus(status)

	var err error
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return internal.RunRecord{}, fmt.Errorf("run %s startedAt: %w", run.RunID, err)
	}
	if run.FinishedAt, err = parseTime(finishedAt); err != nil {
		return internal.RunRecord{}, fmt.Errorf("run %s finishedAt: %w", run.RunID, err)
	}
	return run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
