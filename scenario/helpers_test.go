package scenario_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/scenario-engine/calendar"
	"github.com/warp/scenario-engine/scenario"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(s string) calendar.Date {
	return calendar.MustParse(s)
}

func datePtr(s string) *calendar.Date {
	d := calendar.MustParse(s)
	return &d
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func assertAmount(t *testing.T, want float64, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !money(want).Equal(got) {
		assert.Fail(t, "amount mismatch: expected "+money(want).String()+", got "+got.String(), msgAndArgs...)
	}
}

func run(s scenario.Scenario, start, end string, initial float64) scenario.Result {
	return scenario.Run(scenario.Input{
		Scenario:       s,
		StartDate:      date(start),
		EndDate:        date(end),
		InitialBalance: money(initial),
	})
}

func eventNames(cf scenario.MonthlyCashflow) []string {
	names := make([]string, len(cf.Events))
	for i, e := range cf.Events {
		names[i] = e.Name
	}
	return names
}
