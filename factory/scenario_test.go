package factory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/scenario-engine/calendar"
	"github.com/warp/scenario-engine/scenario"
)

const savingsPlanJSON = `{
  "name": "Savings plan",
  "events": [
    {
      "name": "Salary",
      "type": "income",
      "amount": 2000,
      "recurrence": {"kind": "monthly"},
      "unlocked_by": [
        {"tag": "cashflow", "type": "date-in-range", "start": "2025-01-01"}
      ]
    },
    {
      "name": "Vacation Fund",
      "type": "expense",
      "amount": 4000,
      "recurrence": {"kind": "monthly"},
      "unlocked_by": [
        {"tag": "balance", "type": "networth-is-above", "event_ref": "Salary", "amount": 6000}
      ]
    }
  ]
}`

const savingsPlanYAML = `
name: Savings plan
events:
  - name: Salary
    type: income
    amount: 2000
    recurrence: {kind: monthly}
    unlocked_by:
      - {tag: cashflow, type: date-in-range, start: "2025-01-01"}
  - name: Vacation Fund
    type: expense
    amount: 4000
    recurrence: {kind: monthly}
    unlocked_by:
      - {tag: balance, type: networth-is-above, event_ref: Salary, amount: 6000}
`

func TestParseScenario(t *testing.T) {
	// GIVEN
	f := NewScenarioFactory()

	// WHEN
	s, err := f.ParseScenario(savingsPlanJSON)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "Savings plan", s.Name)
	require.Len(t, s.Events, 2)

	salary := s.Events[0]
	assert.Equal(t, scenario.EventIncome, salary.Type)
	assert.Equal(t, scenario.RecurMonthly, salary.Recurrence.Kind)
	assert.True(t, salary.Amount.Equal(decimalOf(2000)))
	r, ok := salary.DateRange()
	require.True(t, ok)
	assert.Equal(t, calendar.MustParse("2025-01-01"), r.Start)
	assert.Nil(t, r.End)

	fund := s.Events[1]
	require.Len(t, fund.UnlockedBy, 1)
	nw, ok := fund.UnlockedBy[0].(scenario.NetworthIsAbove)
	require.True(t, ok)
	assert.Equal(t, "Salary", nw.EventRef)
	assert.True(t, nw.Amount.Equal(decimalOf(6000)))
	assert.True(t, fund.DependsOnBalance())
}

func TestParseScenarioYAML_MatchesJSON(t *testing.T) {
	f := NewScenarioFactory()

	fromJSON, err := f.ParseScenario(savingsPlanJSON)
	require.NoError(t, err)
	fromYAML, err := f.ParseScenarioYAML([]byte(savingsPlanYAML))
	require.NoError(t, err)

	assert.Equal(t, f.ToJSON(fromJSON), f.ToJSON(fromYAML))
}

func TestParseScenario_RunsLikeBuilders(t *testing.T) {
	f := NewScenarioFactory()
	s, err := f.ParseScenario(savingsPlanJSON)
	require.NoError(t, err)

	res := scenario.Run(scenario.Input{
		Scenario:       s,
		StartDate:      calendar.MustParse("2025-01-01"),
		EndDate:        calendar.MustParse("2025-05-01"),
		InitialBalance: decimalOf(0),
	})

	assert.True(t, res.FinalBalance().Equal(decimalOf(6000)), "got %s", res.FinalBalance())
	assert.Equal(t, 1, res.FireCount("Vacation Fund"))
}

func TestToJSON_RoundTrip(t *testing.T) {
	// GIVEN a scenario using every condition variant
	f := NewScenarioFactory()
	end := calendar.MustParse("2026-06-30")
	s := scenario.Scenario{
		Name: "everything",
		Events: []scenario.Event{
			scenario.MakeRecurring("Job", scenario.EventIncome, decimalOf(3000), scenario.RecurMonthly, calendar.MustParse("2025-01-01"), &end),
			scenario.MakeOneOff("Laptop", scenario.EventExpense, decimalOf(1499.99), calendar.MustParse("2025-03-10"),
				scenario.IncomeIsAbove{EventName: "Job", Amount: decimalOf(2500)}),
			scenario.MakeRecurring("Insurance", scenario.EventExpense, decimalOf(720), scenario.RecurYearly, calendar.MustParse("2025-02-01"), nil),
			scenario.MakeEvent("Treat", scenario.EventExpense, decimalOf(50),
				scenario.EventHappened{EventName: "Laptop"},
				scenario.NetworthIsAbove{EventRef: "Job", Amount: decimalOf(100)}),
		},
	}

	// WHEN
	data, err := f.Marshal(s)
	require.NoError(t, err)
	back, err := f.ParseScenario(string(data))

	// THEN
	require.NoError(t, err)
	assert.Equal(t, f.ToJSON(s), f.ToJSON(back))
	for i := range s.Events {
		assert.True(t, s.Events[i].Amount.Equal(back.Events[i].Amount), s.Events[i].Name)
		assert.Equal(t, len(s.Events[i].UnlockedBy), len(back.Events[i].UnlockedBy), s.Events[i].Name)
	}
}

func TestFromJSON_Defaults(t *testing.T) {
	f := NewScenarioFactory()

	s, err := f.FromJSON(ScenarioJSON{Events: []EventJSON{{
		Name:   "Gift",
		Type:   "income",
		Amount: 100,
		UnlockedBy: []ConditionJSON{
			{Type: "date-is", Date: "2025-07"}, // tag inferred, month-only date
		},
	}}})

	require.NoError(t, err)
	e := s.Events[0]
	assert.Equal(t, scenario.RecurOnce, e.Recurrence.Kind)
	assert.Equal(t, scenario.DateIs{Date: calendar.MustParse("2025-07-01")}, e.UnlockedBy[0])
}

func TestFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		event   EventJSON
		wantErr error
		field   string
	}{
		{
			name:    "unknown event type",
			event:   EventJSON{Name: "X", Type: "transfer"},
			wantErr: scenario.ErrUnknownEventType,
			field:   "type",
		},
		{
			name:    "unknown recurrence",
			event:   EventJSON{Name: "X", Type: "income", Recurrence: &RecurrenceJSON{Kind: "weekly"}},
			wantErr: scenario.ErrUnknownRecurrence,
			field:   "recurrence.kind",
		},
		{
			name:    "unknown condition type",
			event:   EventJSON{Name: "X", Type: "income", UnlockedBy: []ConditionJSON{{Type: "moon-is-full"}}},
			wantErr: scenario.ErrUnknownCondition,
			field:   "unlocked_by[0].type",
		},
		{
			name: "tag does not match type",
			event: EventJSON{Name: "X", Type: "income", UnlockedBy: []ConditionJSON{
				{Tag: "cashflow", Type: "date-is", Date: "2025-01-01"},
				{Tag: "cashflow", Type: "event-happened", EventName: "Y"},
			}},
			wantErr: scenario.ErrUnknownCondition,
			field:   "unlocked_by[1].tag",
		},
		{
			name:    "bad date",
			event:   EventJSON{Name: "X", Type: "income", UnlockedBy: []ConditionJSON{{Type: "date-in-range", Start: "2025-01-01", End: "2025-13-01"}}},
			wantErr: scenario.ErrInvalidDate,
			field:   "unlocked_by[0].end",
		},
		{
			name:    "date with trailing text",
			event:   EventJSON{Name: "X", Type: "income", UnlockedBy: []ConditionJSON{{Type: "date-is", Date: "2025-01-2x"}}},
			wantErr: scenario.ErrInvalidDate,
			field:   "unlocked_by[0].date",
		},
		{
			name:    "missing range start",
			event:   EventJSON{Name: "X", Type: "income", UnlockedBy: []ConditionJSON{{Type: "date-in-range"}}},
			wantErr: scenario.ErrInvalidDate,
			field:   "unlocked_by[0].start",
		},
	}

	f := NewScenarioFactory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.FromJSON(ScenarioJSON{Events: []EventJSON{tt.event}})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, scenario.IsClientError(err))

			var decodeErr *scenario.DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, "X", decodeErr.Event)
			assert.Equal(t, tt.field, decodeErr.Field)
		})
	}
}

func TestFromJSON_UnnamedEventIsLabelledByIndex(t *testing.T) {
	_, err := NewScenarioFactory().FromJSON(ScenarioJSON{Events: []EventJSON{
		{Name: "ok", Type: "income"},
		{Type: "gift"},
	}})

	var decodeErr *scenario.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "#1", decodeErr.Event)
}

func TestParseScenario_MalformedJSON(t *testing.T) {
	_, err := NewScenarioFactory().ParseScenario(`{"name": `)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "plan.json")
	yamlPath := filepath.Join(dir, "plan.YML")
	require.NoError(t, os.WriteFile(jsonPath, []byte(savingsPlanJSON), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(savingsPlanYAML), 0o644))

	f := NewScenarioFactory()
	fromJSON, err := f.LoadFile(jsonPath)
	require.NoError(t, err)
	fromYAML, err := f.LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, f.ToJSON(fromJSON), f.ToJSON(fromYAML))

	_, err = f.LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func decimalOf(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
