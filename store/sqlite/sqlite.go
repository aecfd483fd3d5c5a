/*
Package sqlite provides a SQLite-backed implementation of scenario.Store.

PURPOSE:
  Persists the scenario library and run history for the API server. The
  engine never touches it: handlers load a document, decode it with the
  factory, run it, and record the outcome here.

KEY TABLES:
  scenarios:     Scenario documents (versioned JSON config)
  scenario_runs: One row per finished run, with window, balances and the
                 serialized result

INDEXES:
  - idx_runs_scenario_created: run history per scenario, newest first
  - idx_scenarios_name: library listing

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. ":memory:" databases are pinned to a
  single connection, otherwise each pooled connection would see its own
  empty database.

WAL MODE:
  File databases are opened with WAL so readers don't block the writer.

USAGE:
  store, err := sqlite.New("./scenarios.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - scenario/store.go: interface definition
  - scenario/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/scenario-engine/scenario"
)

// Store implements scenario.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ scenario.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Scenario library
	CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scenarios_name
		ON scenarios(name, id);

	-- Run history
	CREATE TABLE IF NOT EXISTS scenario_runs (
		id TEXT PRIMARY KEY,
		scenario_id TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
		start_month TEXT NOT NULL,
		end_month TEXT NOT NULL,
		initial_balance TEXT NOT NULL,
		final_balance TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_scenario_created
		ON scenario_runs(scenario_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCENARIOS
// =============================================================================

// SaveScenario inserts or updates a scenario. Updates bump the version and
// keep created_at.
func (s *Store) SaveScenario(ctx context.Context, rec scenario.ScenarioRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO scenarios (id, name, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			version = scenarios.version + 1,
			updated_at = excluded.updated_at
	`

	version := rec.Version
	if version == 0 {
		version = 1
	}
	now := formatTime(time.Now())
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.ConfigJSON, version, now, now,
	)
	return err
}

// GetScenario retrieves a scenario by ID.
func (s *Store) GetScenario(ctx context.Context, id string) (*scenario.ScenarioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, config_json, version, created_at, updated_at FROM scenarios WHERE id = ?",
		id,
	)
	rec, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scenario.ErrScenarioNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListScenarios returns all scenarios ordered by name, then ID.
func (s *Store) ListScenarios(ctx context.Context) ([]scenario.ScenarioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, config_json, version, created_at, updated_at FROM scenarios ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []scenario.ScenarioRecord{}
	for rows.Next() {
		rec, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// DeleteScenario removes a scenario and its run history.
func (s *Store) DeleteScenario(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM scenario_runs WHERE scenario_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return scenario.ErrScenarioNotFound
	}
	return tx.Commit()
}

// =============================================================================
// RUNS
// =============================================================================

// SaveRun records a finished run.
func (s *Store) SaveRun(ctx context.Context, run scenario.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM scenarios WHERE id = ?", run.ScenarioID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return scenario.ErrScenarioNotFound
	}
	if err != nil {
		return err
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO scenario_runs (id, scenario_id, start_month, end_month,
			initial_balance, final_balance, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		run.ID, run.ScenarioID, run.StartMonth, run.EndMonth,
		run.InitialBalance.String(), run.FinalBalance.String(),
		run.ResultJSON, formatTime(createdAt),
	)
	return err
}

// ListRuns returns a scenario's runs, newest first.
func (s *Store) ListRuns(ctx context.Context, scenarioID string) ([]scenario.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, scenario_id, start_month, end_month, initial_balance,
		       final_balance, result_json, created_at
		FROM scenario_runs
		WHERE scenario_id = ?
		ORDER BY created_at DESC, rowid DESC
	`
	rows, err := s.db.QueryContext(ctx, query, scenarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []scenario.RunRecord{}
	for rows.Next() {
		var r scenario.RunRecord
		var initial, final, createdAt string
		if err := rows.Scan(&r.ID, &r.ScenarioID, &r.StartMonth, &r.EndMonth,
			&initial, &final, &r.ResultJSON, &createdAt); err != nil {
			return nil, err
		}
		if r.InitialBalance, err = decimal.NewFromString(initial); err != nil {
			return nil, fmt.Errorf("run %s: initial_balance: %w", r.ID, err)
		}
		if r.FinalBalance, err = decimal.NewFromString(final); err != nil {
			return nil, fmt.Errorf("run %s: final_balance: %w", r.ID, err)
		}
		if r.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("run %s: created_at: %w", r.ID, err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Reset clears all data (for demo purposes).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"scenario_runs", "scenarios"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (scenario.ScenarioRecord, error) {
	var rec scenario.ScenarioRecord
	var createdAt, updatedAt string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.ConfigJSON, &rec.Version, &createdAt, &updatedAt); err != nil {
		return rec, err
	}
	var err error
	if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return rec, fmt.Errorf("scenario %s: created_at: %w", rec.ID, err)
	}
	if rec.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return rec, fmt.Errorf("scenario %s: updated_at: %w", rec.ID, err)
	}
	return rec, nil
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
