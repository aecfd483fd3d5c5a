package scenario

import (
	"github.com/shopspring/decimal"
	"github.com/warp/scenario-engine/calendar"
)

// =============================================================================
// CONDITION - Two-level tagged union (tag, then type)
// =============================================================================

// Tag separates context-free conditions from balance-order-sensitive ones.
type Tag string

const (
	TagCashflow Tag = "cashflow"
	TagBalance  Tag = "balance"
)

type ConditionType string

const (
	CondDateIs          ConditionType = "date-is"
	CondDateInRange     ConditionType = "date-in-range"
	CondNetworthIsAbove ConditionType = "networth-is-above"
	CondEventHappened   ConditionType = "event-happened"
	CondIncomeIsAbove   ConditionType = "income-is-above"
)

// ConditionTypes lists every variant. Evaluate must handle each of them.
var ConditionTypes = []ConditionType{
	CondDateIs,
	CondDateInRange,
	CondNetworthIsAbove,
	CondEventHappened,
	CondIncomeIsAbove,
}

// Condition is a sealed interface: only the variants below implement it.
// Conditions are stored as values, not pointers.
type Condition interface {
	Tag() Tag
	Type() ConditionType
	condition()
}

// DateIs holds when the evaluation month is Date's month.
type DateIs struct {
	Date calendar.Date
}

// DateInRange holds when the evaluation month lies in [Start, End] at month
// granularity. A nil End is unbounded.
type DateInRange struct {
	Start calendar.Date
	End   *calendar.Date
}

// NetworthIsAbove holds when the balance snapshot is strictly above Amount.
// EventRef names the event the threshold is about; it does not filter the
// balance.
type NetworthIsAbove struct {
	EventRef string
	Amount   decimal.Decimal
}

// EventHappened holds once an event named EventName has fired.
type EventHappened struct {
	EventName string
}

// IncomeIsAbove holds when an income event named EventName fired earlier in
// the current month with an amount at or above Amount.
type IncomeIsAbove struct {
	EventName string
	Amount    decimal.Decimal
}

func (DateIs) Tag() Tag          { return TagCashflow }
func (DateInRange) Tag() Tag     { return TagCashflow }
func (NetworthIsAbove) Tag() Tag { return TagBalance }
func (EventHappened) Tag() Tag   { return TagBalance }
func (IncomeIsAbove) Tag() Tag   { return TagBalance }

func (DateIs) Type() ConditionType          { return CondDateIs }
func (DateInRange) Type() ConditionType     { return CondDateInRange }
func (NetworthIsAbove) Type() ConditionType { return CondNetworthIsAbove }
func (EventHappened) Type() ConditionType   { return CondEventHappened }
func (IncomeIsAbove) Type() ConditionType   { return CondIncomeIsAbove }

func (DateIs) condition()          {}
func (DateInRange) condition()     {}
func (NetworthIsAbove) condition() {}
func (EventHappened) condition()   {}
func (IncomeIsAbove) condition()   {}

// Interval returns the month-normalized range the condition covers.
func (r DateInRange) Interval() calendar.Interval {
	end := calendar.FarFuture
	if r.End != nil {
		end = *r.End
	}
	return calendar.Interval{Start: r.Start.StartOfMonth(), End: end.StartOfMonth()}
}

// TagFor returns the tag a condition type belongs to.
func TagFor(t ConditionType) (Tag, bool) {
	switch t {
	case CondDateIs, CondDateInRange:
		return TagCashflow, true
	case CondNetworthIsAbove, CondEventHappened, CondIncomeIsAbove:
		return TagBalance, true
	default:
		return "", false
	}
}

// =============================================================================
// EVALUATION CONTEXT
// =============================================================================

// EvalContext is everything a condition may observe for one month.
type EvalContext struct {
	Month          calendar.Date // first day of the evaluation month
	MonthKey       string
	CurrentBalance decimal.Decimal
	Fired          FiringHistory
	FiredThisMonth []Event // events already fired this month, in pass order
}

// =============================================================================
// EVALUATOR
// =============================================================================

// Evaluate is a total function over the condition variants. An unknown
// implementation never holds.
func Evaluate(c Condition, ctx EvalContext) bool {
	switch c := c.(type) {
	case DateIs:
		return ctx.Month.IsSameMonth(c.Date)
	case DateInRange:
		return c.Interval().Contains(ctx.Month.StartOfMonth())
	case NetworthIsAbove:
		return ctx.CurrentBalance.GreaterThan(c.Amount)
	case EventHappened:
		_, ok := ctx.Fired[c.EventName]
		return ok
	case IncomeIsAbove:
		for _, e := range ctx.FiredThisMonth {
			if e.Name == c.EventName && e.Type == EventIncome && e.Amount.GreaterThanOrEqual(c.Amount) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// EvaluateAll is the short-circuit conjunction of conditions.
func EvaluateAll(conds []Condition, ctx EvalContext) bool {
	for _, c := range conds {
		if !Evaluate(c, ctx) {
			return false
		}
	}
	return true
}
