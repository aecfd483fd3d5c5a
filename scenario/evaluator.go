/*
evaluator.go - Monthly two-pass evaluator

PURPOSE:
  Evaluates every event for one month and applies the ones that fire.

TWO PASSES:
  Group A: events with no balance-tagged condition.
  Group B: events with at least one balance-tagged condition.

  Pass 1 runs Group A in declaration order. Pass 2 runs Group B in
  declaration order after the balance snapshot is refreshed, so a Group B
  threshold can react to this month's unconditioned income or expenses.

LIMITATION:
  This is not a fixed-point solver. NetworthIsAbove in Pass 2 sees one
  snapshot taken after Pass 1; a Group B event firing earlier in Pass 2 does
  not move the threshold for later Group B events in the same month. Group A
  events never see Group B effects of the same month.

SEE ALSO:
  - condition.go: Evaluate
  - recurrence.go: CanFireThisMonth
  - ledger.go: State.fire
*/
package scenario

import (
	"github.com/warp/scenario-engine/calendar"
)

// Groups is the two-pass partition of a scenario's events.
type Groups struct {
	A []Event // no balance-tagged condition
	B []Event // at least one balance-tagged condition
}

// Partition splits events into Group A and Group B, keeping declaration
// order within each group.
func Partition(events []Event) Groups {
	var g Groups
	for _, e := range events {
		if e.DependsOnBalance() {
			g.B = append(g.B, e)
		} else {
			g.A = append(g.A, e)
		}
	}
	return g
}

// ShouldFire reports whether the event is eligible and unlocked.
func ShouldFire(e Event, ctx EvalContext) bool {
	return CanFireThisMonth(e, ctx) && EvaluateAll(e.UnlockedBy, ctx)
}

// EvaluateMonth runs both passes for the month containing month and records
// the month's ending balance.
func (s *State) EvaluateMonth(month calendar.Date, groups Groups) {
	month = month.StartOfMonth()
	key := month.MonthKey()
	cf := s.openMonth(key)

	ctx := EvalContext{
		Month:          month,
		MonthKey:       key,
		CurrentBalance: s.CurrentBalance,
		Fired:          s.Fired,
	}

	s.runPass(groups.A, month, cf, &ctx)

	ctx.CurrentBalance = s.CurrentBalance
	s.runPass(groups.B, month, cf, &ctx)

	s.closeMonth(key)
}

func (s *State) runPass(events []Event, month calendar.Date, cf *MonthlyCashflow, ctx *EvalContext) {
	for _, e := range events {
		if !ShouldFire(e, *ctx) {
			continue
		}
		s.fire(e, month, cf)
		ctx.FiredThisMonth = append(ctx.FiredThisMonth, e)
	}
}
