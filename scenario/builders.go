package scenario

import (
	"github.com/shopspring/decimal"
	"github.com/warp/scenario-engine/calendar"
)

// =============================================================================
// BUILDERS - Pre-populate UnlockedBy with the conventional cashflow condition
// =============================================================================

// MakeOneOff builds a once event that fires in the month of date, subject to
// any extra conditions.
func MakeOneOff(name string, typ EventType, amount decimal.Decimal, date calendar.Date, extra ...Condition) Event {
	return Event{
		Name:       name,
		Type:       typ,
		Amount:     amount,
		Recurrence: Once,
		UnlockedBy: withConditions(DateIs{Date: date}, extra),
	}
}

// MakeRecurring builds a monthly or yearly event bounded by [start, end].
// A nil end leaves the range open.
func MakeRecurring(name string, typ EventType, amount decimal.Decimal, kind RecurrenceKind, start calendar.Date, end *calendar.Date, extra ...Condition) Event {
	return Event{
		Name:       name,
		Type:       typ,
		Amount:     amount,
		Recurrence: Recurrence{Kind: kind},
		UnlockedBy: withConditions(DateInRange{Start: start, End: copyDate(end)}, extra),
	}
}

// MakeEvent builds a once event gated only by the given conditions.
func MakeEvent(name string, typ EventType, amount decimal.Decimal, conds ...Condition) Event {
	var unlockedBy []Condition
	if len(conds) > 0 {
		unlockedBy = append([]Condition(nil), conds...)
	}
	return Event{
		Name:       name,
		Type:       typ,
		Amount:     amount,
		Recurrence: Once,
		UnlockedBy: unlockedBy,
	}
}

func withConditions(first Condition, extra []Condition) []Condition {
	out := make([]Condition, 0, len(extra)+1)
	out = append(out, first)
	return append(out, extra...)
}

func copyDate(d *calendar.Date) *calendar.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
