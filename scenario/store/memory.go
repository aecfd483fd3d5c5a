// Package store provides in-memory scenario.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/scenario-engine/scenario"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	scenarios map[string]scenario.ScenarioRecord
	runs      map[string][]scenario.RunRecord
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		scenarios: make(map[string]scenario.ScenarioRecord),
		runs:      make(map[string][]scenario.RunRecord),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) SaveScenario(_ context.Context, rec scenario.ScenarioRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if existing, ok := m.scenarios[rec.ID]; ok {
		rec.Version = existing.Version + 1
		rec.CreatedAt = existing.CreatedAt
	} else {
		if rec.Version == 0 {
			rec.Version = 1
		}
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	m.scenarios[rec.ID] = rec
	return nil
}

func (m *Memory) GetScenario(_ context.Context, id string) (*scenario.ScenarioRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.scenarios[id]
	if !ok {
		return nil, scenario.ErrScenarioNotFound
	}
	return &rec, nil
}

func (m *Memory) ListScenarios(_ context.Context) ([]scenario.ScenarioRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]scenario.ScenarioRecord, 0, len(m.scenarios))
	for _, rec := range m.scenarios {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) DeleteScenario(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.scenarios[id]; !ok {
		return scenario.ErrScenarioNotFound
	}
	delete(m.scenarios, id)
	delete(m.runs, id)
	return nil
}

func (m *Memory) SaveRun(_ context.Context, run scenario.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.scenarios[run.ScenarioID]; !ok {
		return scenario.ErrScenarioNotFound
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = m.now()
	}
	m.runs[run.ScenarioID] = append(m.runs[run.ScenarioID], run)
	return nil
}

func (m *Memory) ListRuns(_ context.Context, scenarioID string) ([]scenario.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := m.runs[scenarioID]
	result := make([]scenario.RunRecord, len(runs))
	// newest first; equal timestamps keep the later save first
	for i, r := range runs {
		result[len(runs)-1-i] = r
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scenarios = make(map[string]scenario.ScenarioRecord)
	m.runs = make(map[string][]scenario.RunRecord)
	return nil
}
