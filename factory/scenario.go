/*
Package factory converts scenario documents (JSON or YAML) to Go values.

PURPOSE:
  The engine consumes already-constructed scenario.Scenario values. This
  package is the boundary where documents written by people or stored in the
  scenario library become those values, and where anything the engine would
  silently ignore (an unknown condition, a misspelled recurrence) is rejected
  with a located error instead.

JSON SCHEMA:
  {
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
        "amount": 2000,
        "recurrence": {"kind": "monthly"},
        "unlocked_by": [
          {"tag": "balance", "type": "networth-is-above",
           "event_ref": "Salary", "amount": 6000}
        ]
      }
    ]
  }

  YAML files use the same field names.

DECODING RULES:
  - type must be income or expense
  - recurrence.kind must be once, monthly or yearly; a missing recurrence is once
  - a condition's tag may be omitted; when present it must match the type
  - dates are YYYY-MM-DD (YYYY-MM is accepted and means the 1st)

USAGE:
  f := factory.NewScenarioFactory()
  s, err := f.ParseScenario(jsonString)
  s, err = f.LoadFile("plans/2025.yaml")

SEE ALSO:
  - scenario/types.go: the values produced here
  - lint/: warnings for documents that decode but would behave surprisingly
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/scenario-engine/calendar"
	"github.com/warp/scenario-engine/scenario"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DOCUMENT SCHEMA TYPES
// =============================================================================

// ScenarioJSON is the document representation of a scenario.
type ScenarioJSON struct {
	Name   string      `json:"name" yaml:"name"`
	Events []EventJSON `json:"events" yaml:"events"`
}

// EventJSON represents one event.
type EventJSON struct {
	Name       string          `json:"name" yaml:"name"`
	Type       string          `json:"type" yaml:"type"` // income, expense
	Amount     float64         `json:"amount" yaml:"amount"`
	Recurrence *RecurrenceJSON `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
	UnlockedBy []ConditionJSON `json:"unlocked_by,omitempty" yaml:"unlocked_by,omitempty"`
}

// RecurrenceJSON represents the recurrence descriptor.
type RecurrenceJSON struct {
	Kind string `json:"kind" yaml:"kind"` // once, monthly, yearly
}

// ConditionJSON is the flattened form of every condition variant. Only the
// fields relevant to Type are read.
type ConditionJSON struct {
	Tag       string  `json:"tag,omitempty" yaml:"tag,omitempty"`
	Type      string  `json:"type" yaml:"type"`
	Date      string  `json:"date,omitempty" yaml:"date,omitempty"`             // date-is
	Start     string  `json:"start,omitempty" yaml:"start,omitempty"`           // date-in-range
	End       string  `json:"end,omitempty" yaml:"end,omitempty"`               // date-in-range, optional
	EventRef  string  `json:"event_ref,omitempty" yaml:"event_ref,omitempty"`   // networth-is-above
	EventName string  `json:"event_name,omitempty" yaml:"event_name,omitempty"` // event-happened, income-is-above
	Amount    float64 `json:"amount,omitempty" yaml:"amount,omitempty"`         // networth-is-above, income-is-above
}

// =============================================================================
// SCENARIO FACTORY
// =============================================================================

// ScenarioFactory converts scenario documents to scenario.Scenario values.
type ScenarioFactory struct{}

// NewScenarioFactory creates a new scenario factory.
func NewScenarioFactory() *ScenarioFactory {
	return &ScenarioFactory{}
}

// ParseScenario parses a JSON document.
func (f *ScenarioFactory) ParseScenario(jsonStr string) (scenario.Scenario, error) {
	var sj ScenarioJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return scenario.Scenario{}, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}
	return f.FromJSON(sj)
}

// ParseScenarioYAML parses a YAML document.
func (f *ScenarioFactory) ParseScenarioYAML(data []byte) (scenario.Scenario, error) {
	var sj ScenarioJSON
	if err := yaml.Unmarshal(data, &sj); err != nil {
		return scenario.Scenario{}, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	return f.FromJSON(sj)
}

// LoadFile reads a scenario document, choosing the codec by extension
// (.yaml/.yml, anything else is JSON).
func (f *ScenarioFactory) LoadFile(path string) (scenario.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("failed to read scenario file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return f.ParseScenarioYAML(data)
	default:
		return f.ParseScenario(string(data))
	}
}

// FromJSON converts a ScenarioJSON to a scenario.Scenario.
func (f *ScenarioFactory) FromJSON(sj ScenarioJSON) (scenario.Scenario, error) {
	s := scenario.Scenario{
		Name:   sj.Name,
		Events: make([]scenario.Event, 0, len(sj.Events)),
	}
	for i, ej := range sj.Events {
		e, err := parseEvent(ej, i)
		if err != nil {
			return scenario.Scenario{}, err
		}
		s.Events = append(s.Events, e)
	}
	return s, nil
}

// ToJSON converts a scenario to its document form. FromJSON(ToJSON(s))
// reproduces s.
func (f *ScenarioFactory) ToJSON(s scenario.Scenario) ScenarioJSON {
	sj := ScenarioJSON{
		Name:   s.Name,
		Events: make([]EventJSON, 0, len(s.Events)),
	}
	for _, e := range s.Events {
		ej := EventJSON{
			Name:       e.Name,
			Type:       string(e.Type),
			Amount:     e.Amount.InexactFloat64(),
			Recurrence: &RecurrenceJSON{Kind: string(e.Recurrence.Kind)},
		}
		for _, c := range e.UnlockedBy {
			ej.UnlockedBy = append(ej.UnlockedBy, conditionToJSON(c))
		}
		sj.Events = append(sj.Events, ej)
	}
	return sj
}

// Marshal encodes a scenario as indented JSON.
func (f *ScenarioFactory) Marshal(s scenario.Scenario) ([]byte, error) {
	return json.MarshalIndent(f.ToJSON(s), "", "  ")
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseEvent(ej EventJSON, index int) (scenario.Event, error) {
	label := ej.Name
	if label == "" {
		label = fmt.Sprintf("#%d", index)
	}
	e := scenario.Event{
		Name:   ej.Name,
		Amount: decimal.NewFromFloat(ej.Amount),
	}

	switch scenario.EventType(ej.Type) {
	case scenario.EventIncome, scenario.EventExpense:
		e.Type = scenario.EventType(ej.Type)
	default:
		return e, &scenario.DecodeError{Event: label, Field: "type",
			Err: fmt.Errorf("%w: %q", scenario.ErrUnknownEventType, ej.Type)}
	}

	kind := scenario.RecurOnce
	if ej.Recurrence != nil && ej.Recurrence.Kind != "" {
		kind = scenario.RecurrenceKind(ej.Recurrence.Kind)
	}
	if !scenario.IsKnownRecurrence(kind) {
		return e, &scenario.DecodeError{Event: label, Field: "recurrence.kind",
			Err: fmt.Errorf("%w: %q", scenario.ErrUnknownRecurrence, kind)}
	}
	e.Recurrence = scenario.Recurrence{Kind: kind}

	for i, cj := range ej.UnlockedBy {
		c, field, err := parseCondition(cj)
		if err != nil {
			return e, &scenario.DecodeError{Event: label,
				Field: fmt.Sprintf("unlocked_by[%d]%s", i, field), Err: err}
		}
		e.UnlockedBy = append(e.UnlockedBy, c)
	}
	return e, nil
}

// parseCondition returns the condition or the offending sub-field and error.
func parseCondition(cj ConditionJSON) (scenario.Condition, string, error) {
	typ := scenario.ConditionType(cj.Type)
	tag, known := scenario.TagFor(typ)
	if !known {
		return nil, ".type", fmt.Errorf("%w: type %q", scenario.ErrUnknownCondition, cj.Type)
	}
	if cj.Tag != "" && scenario.Tag(cj.Tag) != tag {
		return nil, ".tag", fmt.Errorf("%w: %q is not a %s condition", scenario.ErrUnknownCondition, cj.Type, cj.Tag)
	}

	switch typ {
	case scenario.CondDateIs:
		d, err := calendar.Parse(cj.Date)
		if err != nil {
			return nil, ".date", err
		}
		return scenario.DateIs{Date: d}, "", nil

	case scenario.CondDateInRange:
		start, err := calendar.Parse(cj.Start)
		if err != nil {
			return nil, ".start", err
		}
		r := scenario.DateInRange{Start: start}
		if cj.End != "" {
			end, err := calendar.Parse(cj.End)
			if err != nil {
				return nil, ".end", err
			}
			r.End = &end
		}
		return r, "", nil

	case scenario.CondNetworthIsAbove:
		return scenario.NetworthIsAbove{EventRef: cj.EventRef, Amount: decimal.NewFromFloat(cj.Amount)}, "", nil

	case scenario.CondEventHappened:
		return scenario.EventHappened{EventName: cj.EventName}, "", nil

	case scenario.CondIncomeIsAbove:
		return scenario.IncomeIsAbove{EventName: cj.EventName, Amount: decimal.NewFromFloat(cj.Amount)}, "", nil
	}

	return nil, ".type", fmt.Errorf("%w: type %q", scenario.ErrUnknownCondition, cj.Type)
}

func conditionToJSON(c scenario.Condition) ConditionJSON {
	cj := ConditionJSON{Tag: string(c.Tag()), Type: string(c.Type())}
	switch c := c.(type) {
	case scenario.DateIs:
		cj.Date = c.Date.String()
	case scenario.DateInRange:
		cj.Start = c.Start.String()
		if c.End != nil {
			cj.End = c.End.String()
		}
	case scenario.NetworthIsAbove:
		cj.EventRef = c.EventRef
		cj.Amount = c.Amount.InexactFloat64()
	case scenario.EventHappened:
		cj.EventName = c.EventName
	case scenario.IncomeIsAbove:
		cj.EventName = c.EventName
		cj.Amount = c.Amount.InexactFloat64()
	}
	return cj
}
