package scenario_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/scenario-engine/scenario"
)

func TestMakeOneOff(t *testing.T) {
	extra := scenario.EventHappened{EventName: "Job"}
	e := scenario.MakeOneOff("Laptop", scenario.EventExpense, money(1200), date("2024-06-15"), extra)

	assert.Equal(t, scenario.Once, e.Recurrence)
	require.Len(t, e.UnlockedBy, 2)
	assert.Equal(t, scenario.DateIs{Date: date("2024-06-15")}, e.UnlockedBy[0])
	assert.Equal(t, extra, e.UnlockedBy[1])
	assertAmount(t, -1200, e.SignedAmount())
}

func TestMakeRecurring_CopiesEnd(t *testing.T) {
	end := datePtr("2024-12-31")
	e := scenario.MakeRecurring("Gym", scenario.EventExpense, money(40), scenario.RecurMonthly, date("2024-01-01"), end)

	// mutating the caller's date must not move the range
	end.Year = 2030

	r, ok := e.DateRange()
	require.True(t, ok)
	require.NotNil(t, r.End)
	assert.Equal(t, 2024, r.End.Year)
	assert.Equal(t, scenario.RecurMonthly, e.Recurrence.Kind)
}

func TestMakeRecurring_OpenEnded(t *testing.T) {
	e := scenario.MakeRecurring("Salary", scenario.EventIncome, money(3000), scenario.RecurMonthly, date("2024-01-01"), nil)

	r, ok := e.DateRange()
	require.True(t, ok)
	assert.Nil(t, r.End)
	assertAmount(t, 3000, e.SignedAmount())
}

func TestMakeEvent_CopiesConditions(t *testing.T) {
	conds := []scenario.Condition{scenario.EventHappened{EventName: "A"}}
	e := scenario.MakeEvent("B", scenario.EventIncome, money(1), conds...)

	conds[0] = scenario.EventHappened{EventName: "Z"}
	assert.Equal(t, scenario.EventHappened{EventName: "A"}, e.UnlockedBy[0])

	bare := scenario.MakeEvent("C", scenario.EventIncome, money(1))
	assert.Nil(t, bare.UnlockedBy)
	_, hasRange := bare.DateRange()
	assert.False(t, hasRange)
}
