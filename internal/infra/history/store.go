package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
)

const (
	defaultLimit = 50
	// keepRuns bounds the table; older rows are pruned on insert.
	keepRuns = 1000
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS command_runs (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		started_at TEXT NOT NULL,
		duration_ns INTEGER NOT NULL,
		exit_code INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_command_runs_started_at ON command_runs(started_at)`,
}

// Store keeps orchestration runs in a SQLite database.
type Store struct {
	db *sql.DB
}

var _ repository.HistoryRepository = (*Store)(nil)

// Open opens or creates the database at path. Use ":memory:" in tests.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open sqlite store: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: apply schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts run and prunes the oldest rows beyond the retention bound.
func (s *Store) Record(ctx context.Context, run model.CommandRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO command_runs (id, command, started_at, duration_ns, exit_code, error) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.StartedAt.UTC().Format(time.RFC3339Nano), int64(run.Duration), run.ExitCode, run.Error,
	)
	if err != nil {
		return fmt.Errorf("history: record run %s: %w", run.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM command_runs WHERE id NOT IN (SELECT id FROM command_runs ORDER BY started_at DESC LIMIT ?)`,
		keepRuns,
	)
	if err != nil {
		return fmt.Errorf("history: prune runs: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. A non-positive limit uses the default.
func (s *Store) Recent(ctx context.Context, limit int) ([]model.CommandRun, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, started_at, duration_ns, exit_code, error FROM command_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var runs []model.CommandRun
	for rows.Next() {
		var (
			run       model.CommandRun
			startedAt string
			duration  int64
		)
		if err := rows.Scan(&run.ID, &run.Command, &startedAt, &duration, &run.ExitCode, &run.Error); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("history: parse started_at %q: %w", startedAt, err)
		}
		run.Duration = time.Duration(duration)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}
