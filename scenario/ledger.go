/*
ledger.go - Evaluation state: cashflow ledger, balances and firing history

PURPOSE:
  State is the single mutable accumulator for one Run. It is created by the
  runner, mutated month by month in chronological order, and handed back as
  a Result. Nothing here is shared between runs.

INVARIANTS:
  - Conservation: Balance[m] = Balance[m-1] + Cashflow[m].Amount, with the
    initial balance standing in for the month before the first one
  - History is append-only: a FiredEventInfo is created on first fire and
    only updated afterwards, never removed
  - Cashflow events are recorded in firing order (Pass 1, then Pass 2)

SEE ALSO:
  - evaluator.go: the two-pass monthly evaluation that drives fire()
  - runner.go: creates State and builds the Result
*/
package scenario

import (
	"github.com/shopspring/decimal"
	"github.com/warp/scenario-engine/calendar"
)

// =============================================================================
// FIRING HISTORY
// =============================================================================

type FiredEventInfo struct {
	FirstFiredMonth calendar.Date
	LastFiredMonth  calendar.Date
	TotalFireCount  int
}

// FiringHistory is keyed by event name.
type FiringHistory map[string]FiredEventInfo

func (h FiringHistory) record(name string, month calendar.Date) {
	info, ok := h[name]
	if !ok {
		info = FiredEventInfo{FirstFiredMonth: month}
	}
	info.LastFiredMonth = month
	info.TotalFireCount++
	h[name] = info
}

// Clone returns an independent copy.
func (h FiringHistory) Clone() FiringHistory {
	out := make(FiringHistory, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// =============================================================================
// CASHFLOW LEDGER
// =============================================================================

// MonthlyCashflow is the net signed amount and the events fired in a month.
type MonthlyCashflow struct {
	Amount decimal.Decimal
	Events []Event
}

// State is the evaluation accumulator for one run.
type State struct {
	Cashflow       map[string]*MonthlyCashflow
	Balance        map[string]decimal.Decimal
	CurrentBalance decimal.Decimal
	Fired          FiringHistory

	months []string
}

// NewState starts a ledger at the given balance.
func NewState(initialBalance decimal.Decimal) *State {
	return &State{
		Cashflow:       make(map[string]*MonthlyCashflow),
		Balance:        make(map[string]decimal.Decimal),
		CurrentBalance: initialBalance,
		Fired:          make(FiringHistory),
	}
}

func (s *State) openMonth(key string) *MonthlyCashflow {
	cf, ok := s.Cashflow[key]
	if !ok {
		cf = &MonthlyCashflow{Amount: decimal.Zero}
		s.Cashflow[key] = cf
		s.months = append(s.months, key)
	}
	return cf
}

func (s *State) fire(e Event, month calendar.Date, cf *MonthlyCashflow) {
	delta := e.SignedAmount()
	s.CurrentBalance = s.CurrentBalance.Add(delta)
	cf.Amount = cf.Amount.Add(delta)
	cf.Events = append(cf.Events, e)
	s.Fired.record(e.Name, month)
}

func (s *State) closeMonth(key string) {
	s.Balance[key] = s.CurrentBalance
}

// Months returns the evaluated month keys in order.
func (s *State) Months() []string {
	out := make([]string, len(s.months))
	copy(out, s.months)
	return out
}
