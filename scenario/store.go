/*
store.go - Persistence contract for the scenario library

PURPOSE:
  The engine does not persist anything. Hosts that keep a library of
  scenarios and a history of runs do so through this interface, outside
  Run, and hand the engine plain values.

KEY TYPES:
  ScenarioRecord: a scenario document (JSON) with a version counter
  RunRecord:      one finished run with its window and serialized result

IMPLEMENTATIONS:
  - scenario/store/memory.go: in-memory, for tests and ephemeral servers
  - store/sqlite/sqlite.go:   SQLite

SEE ALSO:
  - factory/scenario.go: converts ConfigJSON to a Scenario
  - api/handlers.go: the only writer
*/
package scenario

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ScenarioRecord is a stored scenario document.
type ScenarioRecord struct {
	ID         string
	Name       string
	ConfigJSON string
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RunRecord is a stored simulation run.
type RunRecord struct {
	ID             string
	ScenarioID     string
	StartMonth     string
	EndMonth       string
	InitialBalance decimal.Decimal
	FinalBalance   decimal.Decimal
	ResultJSON     string
	CreatedAt      time.Time
}

// Store persists scenarios and their runs.
type Store interface {
	// SaveScenario inserts or replaces a scenario, bumping its version on
	// replace.
	SaveScenario(ctx context.Context, rec ScenarioRecord) error

	// GetScenario returns ErrScenarioNotFound for unknown IDs.
	GetScenario(ctx context.Context, id string) (*ScenarioRecord, error)

	// ListScenarios returns all scenarios ordered by name, then ID.
	ListScenarios(ctx context.Context) ([]ScenarioRecord, error)

	// DeleteScenario removes a scenario and its runs.
	DeleteScenario(ctx context.Context, id string) error

	// SaveRun appends a run to a scenario's history.
	SaveRun(ctx context.Context, run RunRecord) error

	// ListRuns returns a scenario's runs, newest first.
	ListRuns(ctx context.Context, scenarioID string) ([]RunRecord, error)

	// Reset clears everything.
	Reset(ctx context.Context) error
}
