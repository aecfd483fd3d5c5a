package presets

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/scenario-engine/lint"
	"github.com/warp/scenario-engine/scenario"
)

func TestAll_UniqueIDsAndLintClean(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range All() {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true

		assert.NotEmpty(t, p.Name)
		assert.False(t, p.End.IsBefore(p.Start), p.ID)
		assert.NoError(t, scenario.ValidatePeriod(p.Input()), p.ID)
		assert.Empty(t, lint.Check(p.Scenario).Findings, p.ID)
	}
}

func TestGet(t *testing.T) {
	p, ok := Get("savings-goal")
	require.True(t, ok)
	assert.Equal(t, "Savings Goal", p.Name)

	_, ok = Get("nope")
	assert.False(t, ok)
}

func TestPresets_FinalBalances(t *testing.T) {
	tests := []struct {
		id   string
		want float64
	}{
		{"one-off-expenses", -550},
		{"monthly-budget", 2000},
		{"savings-goal", 6000},
		{"car-purchase", 20000 - 10000 - 120*6},
		// 36 months of 1500 net plus three December bonuses
		{"annual-bonus", 36*1500 + 3*5000},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, ok := Get(tt.id)
			require.True(t, ok)

			res := scenario.Run(p.Input())

			want := decimal.NewFromFloat(tt.want)
			assert.True(t, want.Equal(res.FinalBalance()), "want %s, got %s", want, res.FinalBalance())
		})
	}
}

func TestAnnualBonus_OncePerYearInDecember(t *testing.T) {
	p, _ := Get("annual-bonus")

	res := scenario.Run(p.Input())

	assert.Equal(t, 3, res.FireCount("Bonus"))
	for _, m := range []string{"2024-12", "2025-12", "2026-12"} {
		var names []string
		for _, e := range res.Cashflow[m].Events {
			names = append(names, e.Name)
		}
		assert.Contains(t, names, "Bonus", m)
	}
}
