/*
recurrence.go - Recurrence gate

PURPOSE:
  Decides whether an event is eligible to be considered in a month, based on
  its recurrence kind and the firing history for its name. Eligibility is
  necessary but not sufficient: the event's conditions must also hold.

GATES:
  once:    eligible until the name has fired
  monthly: always eligible; the month window comes from a date-in-range
           condition attached by MakeRecurring
  yearly:  eligible only in the anchor month (Start.Month of the first
           date-in-range condition), at most once per calendar year.
           Without a date-in-range condition the event is never eligible.

SEE ALSO:
  - evaluator.go: combines the gate with EvaluateAll
  - lint/: flags yearly events that can never fire
*/
package scenario

// RecurrenceGate decides eligibility for one recurrence kind.
type RecurrenceGate interface {
	CanFire(e Event, ctx EvalContext) bool
}

type OnceGate struct{}

// CanFire returns true while the name has no firing history.
func (OnceGate) CanFire(e Event, ctx EvalContext) bool {
	_, fired := ctx.Fired[e.Name]
	return !fired
}

type MonthlyGate struct{}

func (MonthlyGate) CanFire(Event, EvalContext) bool { return true }

type YearlyGate struct{}

// CanFire returns true in the anchor month of a year the event has not
// fired in yet.
func (YearlyGate) CanFire(e Event, ctx EvalContext) bool {
	r, ok := e.DateRange()
	if !ok {
		return false
	}
	if ctx.Month.Month != r.Start.Month {
		return false
	}
	info, fired := ctx.Fired[e.Name]
	if !fired {
		return true
	}
	return info.LastFiredMonth.Year != ctx.Month.Year
}

var recurrenceGates = map[RecurrenceKind]RecurrenceGate{
	RecurOnce:    OnceGate{},
	RecurMonthly: MonthlyGate{},
	RecurYearly:  YearlyGate{},
}

// CanFireThisMonth applies the gate for the event's recurrence kind. Unknown
// kinds are never eligible.
func CanFireThisMonth(e Event, ctx EvalContext) bool {
	gate, ok := recurrenceGates[e.Recurrence.Kind]
	if !ok {
		return false
	}
	return gate.CanFire(e, ctx)
}

// IsKnownRecurrence reports whether kind has a gate.
func IsKnownRecurrence(kind RecurrenceKind) bool {
	_, ok := recurrenceGates[kind]
	return ok
}
