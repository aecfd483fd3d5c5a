/*
Package lint reports scenario shapes the engine accepts but that rarely
mean what their author intended.

PURPOSE:
  The engine is forgiving by construction: a yearly event with no date range
  never fires, a condition that names a missing event never holds, two
  events with the same name share one firing history. None of that is an
  error at run time. Check surfaces those cases before a run.

CHECKS:
  yearly-without-range      error    yearly event has no date-in-range condition
  range-end-before-start    error    date-in-range End is before Start
  negative-amount           error    amounts are magnitudes; the sign comes from type
  duplicate-name            warning  names are identity; histories will merge
  unknown-event-reference   warning  event-happened/income-is-above/networth ref
                                     names no event in the scenario
  income-reference-not-income
                            warning  income-is-above names only expense events
  balance-chain             info     a balance-conditioned event depends on another
                                     balance-conditioned event; it sees that
                                     event's firing this month but not its effect
                                     on the networth snapshot

SEE ALSO:
  - scenario/recurrence.go: why yearly events need a range
  - scenario/evaluator.go: the two-pass ordering behind balance-chain
*/
package lint

import (
	"fmt"
	"sort"

	"github.com/warp/scenario-engine/scenario"
)

// Severity ranks a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding codes.
const (
	CodeYearlyWithoutRange       = "yearly-without-range"
	CodeRangeEndBeforeStart      = "range-end-before-start"
	CodeNegativeAmount           = "negative-amount"
	CodeDuplicateName            = "duplicate-name"
	CodeUnknownEventReference    = "unknown-event-reference"
	CodeIncomeReferenceNotIncome = "income-reference-not-income"
	CodeBalanceChain             = "balance-chain"
)

// Finding is one reported problem, attached to an event by name.
type Finding struct {
	Event    string   `json:"event"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Report is the outcome of Check.
type Report struct {
	Findings []Finding `json:"findings"`
}

// HasErrors reports whether any finding is an error.
func (r Report) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

// Count returns the number of findings with the given severity.
func (r Report) Count(sev Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// Check inspects a scenario. Findings are ordered by event declaration,
// then by the order the checks run.
func Check(s scenario.Scenario) Report {
	c := newChecker(s)
	for _, e := range s.Events {
		c.checkAmount(e)
		c.checkRanges(e)
		c.checkYearly(e)
		c.checkReferences(e)
		c.checkBalanceChain(e)
	}
	c.checkDuplicates()
	return Report{Findings: c.findings}
}

// =============================================================================
// CHECKER
// =============================================================================

type checker struct {
	events      []scenario.Event
	names       map[string]int // name -> occurrences
	incomeNames map[string]bool
	balanceDeps map[string]bool // names of balance-conditioned events
	findings    []Finding
}

func newChecker(s scenario.Scenario) *checker {
	c := &checker{
		events:      s.Events,
		names:       make(map[string]int),
		incomeNames: make(map[string]bool),
		balanceDeps: make(map[string]bool),
	}
	for _, e := range s.Events {
		c.names[e.Name]++
		if e.Type == scenario.EventIncome {
			c.incomeNames[e.Name] = true
		}
		if e.DependsOnBalance() {
			c.balanceDeps[e.Name] = true
		}
	}
	return c
}

func (c *checker) add(event, code string, sev Severity, format string, args ...any) {
	c.findings = append(c.findings, Finding{
		Event:    event,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: sev,
	})
}

func (c *checker) checkAmount(e scenario.Event) {
	if e.Amount.IsNegative() {
		c.add(e.Name, CodeNegativeAmount, SeverityError,
			"amount %s is negative; use type %q or %q to set the direction",
			e.Amount, scenario.EventIncome, scenario.EventExpense)
	}
}

func (c *checker) checkRanges(e scenario.Event) {
	for _, cond := range e.UnlockedBy {
		r, ok := cond.(scenario.DateInRange)
		if !ok || r.End == nil {
			continue
		}
		if r.End.StartOfMonth().IsBefore(r.Start.StartOfMonth()) {
			c.add(e.Name, CodeRangeEndBeforeStart, SeverityError,
				"date range %s..%s is empty", r.Start, *r.End)
		}
	}
}

func (c *checker) checkYearly(e scenario.Event) {
	if e.Recurrence.Kind != scenario.RecurYearly {
		return
	}
	if _, ok := e.DateRange(); !ok {
		c.add(e.Name, CodeYearlyWithoutRange, SeverityError,
			"yearly event has no date-in-range condition and will never fire")
	}
}

func (c *checker) checkReferences(e scenario.Event) {
	for _, cond := range e.UnlockedBy {
		var ref string
		switch cond := cond.(type) {
		case scenario.EventHappened:
			ref = cond.EventName
		case scenario.IncomeIsAbove:
			ref = cond.EventName
			if c.names[ref] > 0 && !c.incomeNames[ref] {
				c.add(e.Name, CodeIncomeReferenceNotIncome, SeverityWarning,
					"income-is-above references %q, which is never an income", ref)
				continue
			}
		case scenario.NetworthIsAbove:
			ref = cond.EventRef
			if ref == "" {
				continue
			}
		default:
			continue
		}
		if c.names[ref] == 0 {
			c.add(e.Name, CodeUnknownEventReference, SeverityWarning,
				"%s references unknown event %q", cond.Type(), ref)
		}
	}
}

func (c *checker) checkBalanceChain(e scenario.Event) {
	if !e.DependsOnBalance() {
		return
	}
	for _, cond := range e.UnlockedBy {
		var ref string
		switch cond := cond.(type) {
		case scenario.EventHappened:
			ref = cond.EventName
		case scenario.IncomeIsAbove:
			ref = cond.EventName
		default:
			continue
		}
		if ref != e.Name && c.balanceDeps[ref] {
			c.add(e.Name, CodeBalanceChain, SeverityInfo,
				"depends on %q, which is itself balance-conditioned; both are evaluated in the second pass", ref)
		}
	}
}

func (c *checker) checkDuplicates() {
	var dupes []string
	for name, n := range c.names {
		if n > 1 {
			dupes = append(dupes, name)
		}
	}
	sort.Strings(dupes)
	for _, name := range dupes {
		c.add(name, CodeDuplicateName, SeverityWarning,
			"%d events share this name and will share one firing history", c.names[name])
	}
}
