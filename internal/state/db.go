// Package state provides the SQLite run journal: a record of past
// engine runs and the solutions they produced, for inspection tooling.
// It never restores a task graph; runs are append-only history.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Run statuses recorded in the journal.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusOrphaned  = "orphaned"
	RunStatusFailed    = "failed"
)

// Run is one engine run.
type Run struct {
	ID           string
	RootTask     string
	Status       string
	StartedAt    time.Time
	FinishedAt   *time.Time
	InputTokens  int64
	OutputTokens int64
	Nodes        int
	Solved       int
}

// Solution is one solved task within a run.
type Solution struct {
	RunID       string
	NodeID      string
	NodeOrder   int
	Description string
	Solution    string
}

// DB wraps an SQLite database connection with journal operations.
type DB struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// Open opens the journal database at the given path, creating parent
// directories and the schema as needed. WAL mode is enabled for
// concurrent reads.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		root_task TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		nodes INTEGER NOT NULL DEFAULT 0,
		solved INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS solutions (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		node_id TEXT NOT NULL,
		node_order INTEGER NOT NULL,
		description TEXT NOT NULL,
		solution TEXT NOT NULL,
		PRIMARY KEY (run_id, node_id)
	);
	CREATE INDEX IF NOT EXISTS idx_solutions_run ON solutions(run_id);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// StartRun records the beginning of a run.
func (db *DB) StartRun(id, rootTask string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(
		`INSERT INTO runs (id, root_task, status, started_at) VALUES (?, ?, ?, ?)`,
		id, rootTask, RunStatusRunning, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	return nil
}

// FinishRun records the outcome of a run.
func (db *DB) FinishRun(id, status string, inputTokens, outputTokens int64, nodes, solved int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(
		`UPDATE runs SET status = ?, finished_at = ?, input_tokens = ?, output_tokens = ?, nodes = ?, solved = ?
		 WHERE id = ?`,
		status, time.Now().UTC(), inputTokens, outputTokens, nodes, solved, id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordSolutions stores the solved tasks of a run. Existing entries
// for the same node are replaced.
func (db *DB) RecordSolutions(solutions []Solution) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for _, s := range solutions {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO solutions (run_id, node_id, node_order, description, solution)
			 VALUES (?, ?, ?, ?, ?)`,
			s.RunID, s.NodeID, s.NodeOrder, s.Description, s.Solution,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record solution for node %s: %w", s.NodeID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit solutions: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(
		`SELECT id, root_task, status, started_at, finished_at, input_tokens, output_tokens, nodes, solved
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.RootTask, &r.Status, &r.StartedAt, &finished,
			&r.InputTokens, &r.OutputTokens, &r.Nodes, &r.Solved); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Solutions returns the solved tasks of a run in node insertion order.
func (db *DB) Solutions(runID string) ([]Solution, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(
		`SELECT run_id, node_id, node_order, description, solution
		 FROM solutions WHERE run_id = ? ORDER BY node_order`, runID)
	if err != nil {
		return nil, fmt.Errorf("query solutions: %w", err)
	}
	defer rows.Close()

	var solutions []Solution
	for rows.Next() {
		var s Solution
		if err := rows.Scan(&s.RunID, &s.NodeID, &s.NodeOrder, &s.Description, &s.Solution); err != nil {
			return nil, fmt.Errorf("scan solution: %w", err)
		}
		solutions = append(solutions, s)
	}
	return solutions, rows.Err()
}
