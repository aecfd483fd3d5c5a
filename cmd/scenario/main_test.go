package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/scenario-engine/api"
	"github.com/warp/scenario-engine/factory"
	"github.com/warp/scenario-engine/presets"
	"github.com/warp/scenario-engine/scenario"
)

const savingsPlanYAML = `
name: Savings plan
events:
  - name: Salary
    type: income
    amount: 2000
    recurrence: {kind: monthly}
    unlocked_by:
      - {type: date-in-range, start: "2025-01-01"}
  - name: Vacation Fund
    type: expense
    amount: 4000
    recurrence: {kind: monthly}
    unlocked_by:
      - {type: networth-is-above, event_ref: Salary, amount: 6000}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_JSON(t *testing.T) {
	// GIVEN
	path := writeFile(t, "plan.yaml", savingsPlanYAML)

	// WHEN
	out, err := execute(t, "run", path, "--start", "2025-01", "--end", "2025-05", "-o", "json")

	// THEN
	require.NoError(t, err, out)
	var res api.ResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, "Savings plan", res.Scenario)
	assert.Equal(t, 6000.0, res.FinalBalance)
	assert.Len(t, res.Months, 5)
}

func TestRun_Table(t *testing.T) {
	// GIVEN a starting balance of 100, March ends at 6100 before the fund
	// runs, so it fires in March and again in May
	path := writeFile(t, "plan.yaml", savingsPlanYAML)

	// WHEN
	out, err := execute(t, "run", path, "--start", "2025-01", "--end", "2025-05", "--initial", "100")

	// THEN

	require.NoError(t, err, out)
	assert.Contains(t, out, "Savings plan")
	assert.Contains(t, out, "2025-04")
	assert.Contains(t, out, "Salary, Vacation Fund")
	assert.Contains(t, out, "2025-03")
	assert.Contains(t, out, "100.00 -> 2100.00")
}

func TestRun_Errors(t *testing.T) {
	path := writeFile(t, "plan.yaml", savingsPlanYAML)

	_, err := execute(t, "run", path, "--start", "2025-05", "--end", "2025-01")
	assert.ErrorIs(t, err, scenario.ErrInvalidPeriod)

	_, err = execute(t, "run", path, "--start", "2025-1", "--end", "2025-05")
	assert.ErrorIs(t, err, scenario.ErrInvalidDate)
	assert.True(t, scenario.IsClientError(err))

	_, err = execute(t, "run", path, "-o", "xml", "--start", "2025-01", "--end", "2025-02")
	assert.Error(t, err)

	_, err = execute(t, "run", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRun_StrictFailsOnLintErrors(t *testing.T) {
	path := writeFile(t, "dues.json", `{"name":"dues","events":[{"name":"Dues","type":"expense","amount":10,"recurrence":{"kind":"yearly"}}]}`)

	out, err := execute(t, "run", path, "--start", "2025-01", "--end", "2025-12")
	require.NoError(t, err)
	assert.Contains(t, out, "yearly-without-range")

	_, err = execute(t, "run", path, "--strict", "--start", "2025-01", "--end", "2025-12")
	assert.Error(t, err)
}

func TestLint(t *testing.T) {
	good := writeFile(t, "good.yaml", savingsPlanYAML)
	bad := writeFile(t, "bad.json", `{"name":"x","events":[{"name":"Dues","type":"expense","amount":10,"recurrence":{"kind":"yearly"}}]}`)

	out, err := execute(t, "lint", good)
	require.NoError(t, err, out)
	assert.Contains(t, out, "no findings")

	out, err = execute(t, "lint", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "yearly-without-range")
	assert.Contains(t, err.Error(), "1 of 2")
}

func TestPresets_ExportRoundTrips(t *testing.T) {
	out, err := execute(t, "presets", "export", "savings-goal", "-f", "yaml")
	require.NoError(t, err, out)

	s, err := factory.NewScenarioFactory().ParseScenarioYAML([]byte(out))
	require.NoError(t, err)

	p, _ := presets.Get("savings-goal")
	in := p.Input()
	in.Scenario = s
	assert.True(t, scenario.Run(p.Input()).FinalBalance().Equal(scenario.Run(in).FinalBalance()))
}

func TestPresets_RunAndList(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	for _, p := range presets.All() {
		assert.Contains(t, out, p.ID)
	}

	out, err = execute(t, "presets", "run", "monthly-budget", "-o", "json")
	require.NoError(t, err, out)
	var res api.ResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2000.0, res.FinalBalance)
	assert.Equal(t, "2023-01", res.Start)

	_, err = execute(t, "presets", "run", "nope")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "scenario dev")
}
