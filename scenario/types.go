/*
Package scenario provides the month-granularity scenario simulation engine.

PURPOSE:
  Evaluates a set of financial events (one-off or recurring income/expense
  items, each optionally gated by conditions) against a running balance and
  a cashflow ledger, one month at a time, over an arbitrary date range.

KEY CONCEPTS IN THIS FILE (types.go):
  - Event: an income or expense item with a recurrence kind and conditions
  - Recurrence: once, monthly or yearly
  - Scenario: a named, ordered list of events

EVALUATION MODEL:
  1. Runner iterates months from start to end (runner.go)
  2. Each month runs two passes over the events (evaluator.go):
     Group A = events with no balance-tagged condition,
     Group B = events with at least one
  3. An event fires when its recurrence gate passes (recurrence.go) and
     every condition holds (condition.go)
  4. Firing applies the signed amount, records the cashflow and updates
     the firing history (ledger.go)

DESIGN PRINCIPLES:
  1. Deterministic: same input, same output, declaration order included
  2. Never fails: a malformed event is inert, not an error
  3. No shared state: every Run owns its State
  4. Precision: amounts use decimal.Decimal

SEE ALSO:
  - condition.go: condition sum type and evaluator
  - builders.go: MakeOneOff, MakeRecurring, MakeEvent
  - lint/: pre-flight checks for events the engine silently ignores
*/
package scenario

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// EVENT TYPE
// =============================================================================

type EventType string

const (
	EventIncome  EventType = "income"
	EventExpense EventType = "expense"
)

// =============================================================================
// RECURRENCE
// =============================================================================

type RecurrenceKind string

const (
	RecurOnce    RecurrenceKind = "once"
	RecurMonthly RecurrenceKind = "monthly"
	RecurYearly  RecurrenceKind = "yearly"
)

type Recurrence struct {
	Kind RecurrenceKind
}

var (
	Once    = Recurrence{Kind: RecurOnce}
	Monthly = Recurrence{Kind: RecurMonthly}
	Yearly  = Recurrence{Kind: RecurYearly}
)

// =============================================================================
// EVENT
// =============================================================================

// Event is a single income or expense item.
//
// Name is the identity key for firing history and for the event-happened and
// income-is-above conditions. Two events sharing a name share one history.
type Event struct {
	Name       string
	Type       EventType
	Amount     decimal.Decimal // non-negative magnitude; sign comes from Type
	Recurrence Recurrence
	UnlockedBy []Condition // conjunction; empty means unconditional
}

// SignedAmount returns +Amount for income and -Amount for expenses.
func (e Event) SignedAmount() decimal.Decimal {
	if e.Type == EventExpense {
		return e.Amount.Neg()
	}
	return e.Amount
}

// DependsOnBalance reports whether any condition is balance-tagged, which
// places the event in the second evaluation pass.
func (e Event) DependsOnBalance() bool {
	for _, c := range e.UnlockedBy {
		if c.Tag() == TagBalance {
			return true
		}
	}
	return false
}

// DateRange returns the first date-in-range condition, if any.
func (e Event) DateRange() (DateInRange, bool) {
	for _, c := range e.UnlockedBy {
		if r, ok := c.(DateInRange); ok {
			return r, true
		}
	}
	return DateInRange{}, false
}

// =============================================================================
// SCENARIO
// =============================================================================

type Scenario struct {
	Name   string
	Events []Event
}

// EventNames returns the distinct event names in declaration order.
func (s Scenario) EventNames() []string {
	seen := make(map[string]bool, len(s.Events))
	var names []string
	for _, e := range s.Events {
		if !seen[e.Name] {
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	return names
}
