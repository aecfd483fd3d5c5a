/*
runner.go - Scenario runner

PURPOSE:
  Iterates months from StartDate to EndDate (both normalized to the start of
  their month, inclusive), runs the monthly evaluator for each, and returns
  the accumulated cashflow and balance series keyed by "yyyy-MM".

GUARANTEES:
  - Deterministic for identical input, event declaration order included
  - No side effects outside the call: State is created here and not shared
  - Always terminates: bounded by the number of months in the range
  - An end month before the start month yields an empty Result

EXAMPLE:
  result := scenario.Run(scenario.Input{
      Scenario:       s,
      StartDate:      calendar.New(2023, time.January, 1),
      EndDate:        calendar.New(2023, time.December, 31),
      InitialBalance: decimal.Zero,
  })
  result.Balance["2023-06"]

SEE ALSO:
  - evaluator.go: per-month evaluation
  - batch.go: parallel runs of independent inputs
*/
package scenario

import (
	"github.com/shopspring/decimal"
	"github.com/warp/scenario-engine/calendar"
)

// Input is one simulation request.
type Input struct {
	Scenario       Scenario
	StartDate      calendar.Date
	EndDate        calendar.Date
	InitialBalance decimal.Decimal
}

// Result is the output of one run.
type Result struct {
	Months   []string // month keys in chronological order
	Cashflow map[string]MonthlyCashflow
	Balance  map[string]decimal.Decimal
	Fired    FiringHistory

	InitialBalance decimal.Decimal
}

// Run simulates the scenario over [StartDate, EndDate] at month resolution.
func Run(in Input) Result {
	state := NewState(in.InitialBalance)
	groups := Partition(in.Scenario.Events)

	end := in.EndDate.StartOfMonth()
	for current := in.StartDate.StartOfMonth(); !current.IsAfter(end); current = current.AddMonths(1) {
		state.EvaluateMonth(current, groups)
	}

	return state.result(in.InitialBalance)
}

func (s *State) result(initial decimal.Decimal) Result {
	cashflow := make(map[string]MonthlyCashflow, len(s.Cashflow))
	for k, cf := range s.Cashflow {
		events := make([]Event, len(cf.Events))
		copy(events, cf.Events)
		cashflow[k] = MonthlyCashflow{Amount: cf.Amount, Events: events}
	}
	balance := make(map[string]decimal.Decimal, len(s.Balance))
	for k, v := range s.Balance {
		balance[k] = v
	}
	return Result{
		Months:         s.Months(),
		Cashflow:       cashflow,
		Balance:        balance,
		Fired:          s.Fired.Clone(),
		InitialBalance: initial,
	}
}

// =============================================================================
// RESULT HELPERS
// =============================================================================

// FinalBalance is the ending balance of the last month, or the initial
// balance when no month was evaluated.
func (r Result) FinalBalance() decimal.Decimal {
	if len(r.Months) == 0 {
		return r.InitialBalance
	}
	return r.Balance[r.Months[len(r.Months)-1]]
}

// MonthRow is one line of the ordered series.
type MonthRow struct {
	Month   string
	Amount  decimal.Decimal
	Balance decimal.Decimal
	Events  []string
}

// Series returns the result as ordered rows.
func (r Result) Series() []MonthRow {
	rows := make([]MonthRow, 0, len(r.Months))
	for _, m := range r.Months {
		cf := r.Cashflow[m]
		names := make([]string, len(cf.Events))
		for i, e := range cf.Events {
			names[i] = e.Name
		}
		rows = append(rows, MonthRow{
			Month:   m,
			Amount:  cf.Amount,
			Balance: r.Balance[m],
			Events:  names,
		})
	}
	return rows
}

// FireCount returns how many times the named event fired.
func (r Result) FireCount(name string) int {
	return r.Fired[name].TotalFireCount
}
