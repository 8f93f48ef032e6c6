// Package history records fuzz runs in a SQLite database so a failure can
// be correlated with its seed and dump file long after the process died.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run outcomes. A run that died on a fatal condition never gets past
// "running", which is exactly the signal worth keeping.
const (
	OutcomeRunning = "running"
	OutcomePassed  = "passed"
	OutcomeFailed  = "failed"
)

// Run is one invocation of the harness.
type Run struct {
	ID         string
	Mode       string // "fuzz" or "replay"
	Seed       int64
	NumTests   int
	NumOps     int
	Outcome    string
	DumpPath   string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store is a SQLite-backed run log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the run database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			seed INTEGER NOT NULL,
			num_tests INTEGER NOT NULL,
			num_ops INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			dump_path TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL DEFAULT ''
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin records a run as started. The row stays in the "running" outcome
// until Finish, so a crashed process leaves a visible trace.
func (s *Store) Begin(r Run) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, mode, seed, num_tests, num_ops, outcome, dump_path, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Mode, r.Seed, r.NumTests, r.NumOps, OutcomeRunning, r.DumpPath,
		r.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Finish marks a run's outcome.
func (s *Store) Finish(id, outcome string, finishedAt time.Time) error {
	res, err := s.db.Exec(
		`UPDATE runs SET outcome = ?, finished_at = ? WHERE run_id = ?`,
		outcome, finishedAt.UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("no run with id %s", id)
	}
	return nil
}

// Runs lists all recorded runs, newest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, mode, seed, num_tests, num_ops, outcome, dump_path, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, run_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Mode, &r.Seed, &r.NumTests, &r.NumOps, &r.Outcome, &r.DumpPath, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished != "" {
			r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
