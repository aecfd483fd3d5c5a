// Package storetest checks a scenario.Store implementation against the
// behavior every implementation shares.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/scenario-engine/scenario"
)

// Run exercises newStore's result. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) scenario.Store) {
	t.Run("SaveAndGet", func(t *testing.T) { testSaveAndGet(t, newStore(t)) })
	t.Run("VersionBump", func(t *testing.T) { testVersionBump(t, newStore(t)) })
	t.Run("ListOrder", func(t *testing.T) { testListOrder(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("Runs", func(t *testing.T) { testRuns(t, newStore(t)) })
	t.Run("RunsOrderedByCreatedAt", func(t *testing.T) { testRunsOrderedByCreatedAt(t, newStore(t)) })
	t.Run("Reset", func(t *testing.T) { testReset(t, newStore(t)) })
}

func record(id, name string) scenario.ScenarioRecord {
	return scenario.ScenarioRecord{ID: id, Name: name, ConfigJSON: `{"name":"` + name + `","events":[]}`}
}

func testSaveAndGet(t *testing.T, s scenario.Store) {
	ctx := context.Background()

	// GIVEN
	require.NoError(t, s.SaveScenario(ctx, record("s1", "Plan")))

	// WHEN
	got, err := s.GetScenario(ctx, "s1")

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "Plan", got.Name)
	assert.Equal(t, 1, got.Version)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.GetScenario(ctx, "missing")
	assert.ErrorIs(t, err, scenario.ErrScenarioNotFound)
}

func testVersionBump(t *testing.T, s scenario.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveScenario(ctx, record("s1", "Plan")))
	first, err := s.GetScenario(ctx, "s1")
	require.NoError(t, err)

	updated := record("s1", "Plan v2")
	require.NoError(t, s.SaveScenario(ctx, updated))

	got, err := s.GetScenario(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, "Plan v2", got.Name)
	assert.Equal(t, updated.ConfigJSON, got.ConfigJSON)
	assert.True(t, got.CreatedAt.Equal(first.CreatedAt))
}

func testListOrder(t *testing.T, s scenario.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveScenario(ctx, record("b", "Zeta")))
	require.NoError(t, s.SaveScenario(ctx, record("c", "Alpha")))
	require.NoError(t, s.SaveScenario(ctx, record("a", "Alpha")))

	list, err := s.ListScenarios(ctx)

	require.NoError(t, err)
	ids := make([]string, len(list))
	for i, rec := range list {
		ids[i] = rec.ID
	}
	assert.Equal(t, []string{"a", "c", "b"}, ids)
}

func testDelete(t *testing.T, s scenario.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveScenario(ctx, record("s1", "Plan")))
	require.NoError(t, s.SaveRun(ctx, run("r1", "s1", time.Now())))

	require.NoError(t, s.DeleteScenario(ctx, "s1"))

	_, err := s.GetScenario(ctx, "s1")
	assert.ErrorIs(t, err, scenario.ErrScenarioNotFound)
	runs, err := s.ListRuns(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, runs)

	assert.ErrorIs(t, s.DeleteScenario(ctx, "s1"), scenario.ErrScenarioNotFound)
}

func run(id, scenarioID string, at time.Time) scenario.RunRecord {
	return scenario.RunRecord{
		ID:             id,
		ScenarioID:     scenarioID,
		StartMonth:     "2025-01",
		EndMonth:       "2025-12",
		InitialBalance: decimal.NewFromInt(100),
		FinalBalance:   decimal.RequireFromString("2450.75"),
		ResultJSON:     `{"months":[]}`,
		CreatedAt:      at,
	}
}

func testRuns(t *testing.T, s scenario.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveScenario(ctx, record("s1", "Plan")))

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, run("r1", "s1", base)))
	require.NoError(t, s.SaveRun(ctx, run("r2", "s1", base.Add(time.Minute))))

	runs, err := s.ListRuns(ctx, "s1")

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r2", runs[0].ID)
	assert.Equal(t, "r1", runs[1].ID)
	assert.True(t, runs[0].FinalBalance.Equal(decimal.RequireFromString("2450.75")))
	assert.True(t, runs[0].InitialBalance.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "2025-01", runs[0].StartMonth)

	err = s.SaveRun(ctx, run("r3", "missing", base))
	assert.ErrorIs(t, err, scenario.ErrScenarioNotFound)

	none, err := s.ListRuns(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testRunsOrderedByCreatedAt(t *testing.T, s scenario.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveScenario(ctx, record("s1", "Plan")))

	// GIVEN runs saved out of chronological order, two sharing a timestamp
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, run("late", "s1", base.Add(time.Hour))))
	require.NoError(t, s.SaveRun(ctx, run("early", "s1", base)))
	require.NoError(t, s.SaveRun(ctx, run("middle-a", "s1", base.Add(time.Minute))))
	require.NoError(t, s.SaveRun(ctx, run("middle-b", "s1", base.Add(time.Minute))))

	// WHEN
	runs, err := s.ListRuns(ctx, "s1")

	// THEN newest CreatedAt first; ties go to the later save
	require.NoError(t, err)
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"late", "middle-b", "middle-a", "early"}, ids)
}

func testReset(t *testing.T, s scenario.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveScenario(ctx, record("s1", "Plan")))
	require.NoError(t, s.SaveRun(ctx, run("r1", "s1", time.Now())))

	require.NoError(t, s.Reset(ctx))

	list, err := s.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	runs, err := s.ListRuns(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, runs)
}
