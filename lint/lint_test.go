package lint

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/scenario-engine/calendar"
	"github.com/warp/scenario-engine/scenario"
)

func d(s string) calendar.Date { return calendar.MustParse(s) }

func amt(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func codes(r Report) []string {
	out := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		out[i] = f.Code
	}
	return out
}

func TestCheck_CleanScenario(t *testing.T) {
	s := scenario.Scenario{Events: []scenario.Event{
		scenario.MakeRecurring("Salary", scenario.EventIncome, amt(2000), scenario.RecurMonthly, d("2025-01-01"), nil),
		scenario.MakeEvent("Vacation", scenario.EventExpense, amt(2000),
			scenario.NetworthIsAbove{EventRef: "Salary", Amount: amt(6000)}),
	}}

	r := Check(s)

	assert.Empty(t, r.Findings)
	assert.False(t, r.HasErrors())
}

func TestCheck_YearlyWithoutRange(t *testing.T) {
	s := scenario.Scenario{Events: []scenario.Event{
		{Name: "Dues", Type: scenario.EventExpense, Amount: amt(100), Recurrence: scenario.Yearly},
	}}

	r := Check(s)

	require.Len(t, r.Findings, 1)
	assert.Equal(t, CodeYearlyWithoutRange, r.Findings[0].Code)
	assert.Equal(t, SeverityError, r.Findings[0].Severity)
	assert.Equal(t, "Dues", r.Findings[0].Event)
	assert.True(t, r.HasErrors())
}

func TestCheck_RangeAndAmount(t *testing.T) {
	end := d("2024-12-31")
	s := scenario.Scenario{Events: []scenario.Event{
		scenario.MakeRecurring("Backwards", scenario.EventIncome, amt(-5), scenario.RecurMonthly, d("2025-01-01"), &end),
	}}

	r := Check(s)

	assert.Equal(t, []string{CodeNegativeAmount, CodeRangeEndBeforeStart}, codes(r))
	assert.Equal(t, 2, r.Count(SeverityError))
}

func TestCheck_SameMonthRangeIsFine(t *testing.T) {
	// End day before start day, but the same month: still one month wide
	end := d("2025-01-05")
	s := scenario.Scenario{Events: []scenario.Event{
		scenario.MakeRecurring("Short", scenario.EventIncome, amt(1), scenario.RecurMonthly, d("2025-01-20"), &end),
	}}

	assert.Empty(t, Check(s).Findings)
}

func TestCheck_References(t *testing.T) {
	s := scenario.Scenario{Events: []scenario.Event{
		scenario.MakeRecurring("Rent", scenario.EventExpense, amt(900), scenario.RecurMonthly, d("2025-01-01"), nil),
		scenario.MakeEvent("A", scenario.EventIncome, amt(1), scenario.EventHappened{EventName: "Ghost"}),
		scenario.MakeEvent("B", scenario.EventIncome, amt(1), scenario.IncomeIsAbove{EventName: "Rent", Amount: amt(1)}),
		scenario.MakeEvent("C", scenario.EventIncome, amt(1), scenario.NetworthIsAbove{EventRef: "Nobody", Amount: amt(1)}),
		scenario.MakeEvent("D", scenario.EventIncome, amt(1), scenario.NetworthIsAbove{Amount: amt(1)}),
	}}

	r := Check(s)

	require.Len(t, r.Findings, 3)
	assert.Equal(t, Finding{Event: "A", Code: CodeUnknownEventReference, Severity: SeverityWarning,
		Message: `event-happened references unknown event "Ghost"`}, r.Findings[0])
	assert.Equal(t, CodeIncomeReferenceNotIncome, r.Findings[1].Code)
	assert.Equal(t, "B", r.Findings[1].Event)
	assert.Equal(t, CodeUnknownEventReference, r.Findings[2].Code)
	assert.Equal(t, "C", r.Findings[2].Event)
	assert.False(t, r.HasErrors())
}

func TestCheck_DuplicateNames(t *testing.T) {
	s := scenario.Scenario{Events: []scenario.Event{
		scenario.MakeOneOff("Gift", scenario.EventIncome, amt(1), d("2025-01-01")),
		scenario.MakeOneOff("Gift", scenario.EventIncome, amt(1), d("2025-06-01")),
	}}

	r := Check(s)

	require.Len(t, r.Findings, 1)
	assert.Equal(t, CodeDuplicateName, r.Findings[0].Code)
	assert.Contains(t, r.Findings[0].Message, "2 events")
}

func TestCheck_BalanceChain(t *testing.T) {
	// GIVEN a balance-conditioned event gated on another one
	s := scenario.Scenario{Events: []scenario.Event{
		scenario.MakeEvent("First", scenario.EventIncome, amt(1), scenario.NetworthIsAbove{Amount: amt(0)}),
		scenario.MakeEvent("Second", scenario.EventIncome, amt(1), scenario.EventHappened{EventName: "First"}),
	}}

	// WHEN
	r := Check(s)

	// THEN
	require.Len(t, r.Findings, 1)
	assert.Equal(t, CodeBalanceChain, r.Findings[0].Code)
	assert.Equal(t, SeverityInfo, r.Findings[0].Severity)
	assert.Equal(t, "Second", r.Findings[0].Event)
}
