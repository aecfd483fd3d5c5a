/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Scenario documents use
  factory.ScenarioJSON unchanged so that what a client posts, what the store
  keeps and what the CLI reads from a file are the same shape.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Scenarios:
    ScenarioDTO (wraps factory.ScenarioJSON)

  Runs:
    WindowRequest, SimulateRequest, BatchRequest, ResultDTO, MonthDTO,
    FiredDTO, RunDTO

  Lint:
    LintResponse

  Presets:
    PresetDTO, LoadPresetRequest

AMOUNTS:
  Amounts are JSON numbers (float64) on the wire and decimal.Decimal inside.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/scenario.go: ScenarioJSON type
*/
package api

import (
	"time"

	"github.com/warp/scenario-engine/factory"
	"github.com/warp/scenario-engine/lint"
	"github.com/warp/scenario-engine/presets"
	"github.com/warp/scenario-engine/scenario"
)

// =============================================================================
// SCENARIO LIBRARY
// =============================================================================

// ScenarioDTO represents a stored scenario in API responses.
type ScenarioDTO struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Config    factory.ScenarioJSON `json:"config"`
	Version   int                  `json:"version"`
	CreatedAt string               `json:"created_at,omitempty"`
	UpdatedAt string               `json:"updated_at,omitempty"`
}

// =============================================================================
// SIMULATION
// =============================================================================

// WindowRequest selects the months to simulate. Start defaults to the
// current month; End defaults to the configured horizon.
type WindowRequest struct {
	Start          string  `json:"start,omitempty"` // YYYY-MM-DD or YYYY-MM
	End            string  `json:"end,omitempty"`
	InitialBalance float64 `json:"initial_balance"`
}

// SimulateRequest runs an inline scenario without storing it.
type SimulateRequest struct {
	Scenario factory.ScenarioJSON `json:"scenario"`
	WindowRequest
}

// BatchRequest runs several inline scenarios.
type BatchRequest struct {
	Runs []SimulateRequest `json:"runs"`
}

// MonthDTO is one month of a result.
type MonthDTO struct {
	Month   string   `json:"month"`
	Amount  float64  `json:"amount"`
	Balance float64  `json:"balance"`
	Events  []string `json:"events"`
}

// FiredDTO is the firing history of one event name.
type FiredDTO struct {
	FirstFiredMonth string `json:"first_fired_month"`
	LastFiredMonth  string `json:"last_fired_month"`
	TotalFireCount  int    `json:"total_fire_count"`
}

// ResultDTO is a simulation result.
type ResultDTO struct {
	Scenario       string              `json:"scenario"`
	Start          string              `json:"start"`
	End            string              `json:"end"`
	InitialBalance float64             `json:"initial_balance"`
	FinalBalance   float64             `json:"final_balance"`
	Months         []MonthDTO          `json:"months"`
	Fired          map[string]FiredDTO `json:"fired"`
}

// BatchResponse holds batch results in request order.
type BatchResponse struct {
	Results []ResultDTO `json:"results"`
}

// RunDTO is a stored run.
type RunDTO struct {
	ID             string     `json:"id"`
	ScenarioID     string     `json:"scenario_id"`
	StartMonth     string     `json:"start_month"`
	EndMonth       string     `json:"end_month"`
	InitialBalance float64    `json:"initial_balance"`
	FinalBalance   float64    `json:"final_balance"`
	CreatedAt      string     `json:"created_at"`
	Result         *ResultDTO `json:"result,omitempty"`
}

// =============================================================================
// LINT & PRESETS
// =============================================================================

// LintResponse reports lint findings for a scenario document.
type LintResponse struct {
	Valid    bool           `json:"valid"` // no error-severity findings
	Findings []lint.Finding `json:"findings"`
}

// PresetDTO describes a built-in scenario.
type PresetDTO struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Category       string               `json:"category"`
	Start          string               `json:"start"`
	End            string               `json:"end"`
	InitialBalance float64              `json:"initial_balance"`
	Config         factory.ScenarioJSON `json:"config"`
}

// LoadPresetRequest stores presets in the library. An empty PresetID loads
// all of them.
type LoadPresetRequest struct {
	PresetID string `json:"preset_id"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// NewResultDTO converts a result to its wire form.
func NewResultDTO(name string, res scenario.Result) ResultDTO {
	dto := ResultDTO{
		Scenario:       name,
		InitialBalance: res.InitialBalance.InexactFloat64(),
		FinalBalance:   res.FinalBalance().InexactFloat64(),
		Months:         make([]MonthDTO, 0, len(res.Months)),
		Fired:          make(map[string]FiredDTO, len(res.Fired)),
	}
	if len(res.Months) > 0 {
		dto.Start = res.Months[0]
		dto.End = res.Months[len(res.Months)-1]
	}
	for _, row := range res.Series() {
		dto.Months = append(dto.Months, MonthDTO{
			Month:   row.Month,
			Amount:  row.Amount.InexactFloat64(),
			Balance: row.Balance.InexactFloat64(),
			Events:  row.Events,
		})
	}
	for name, info := range res.Fired {
		dto.Fired[name] = FiredDTO{
			FirstFiredMonth: info.FirstFiredMonth.MonthKey(),
			LastFiredMonth:  info.LastFiredMonth.MonthKey(),
			TotalFireCount:  info.TotalFireCount,
		}
	}
	return dto
}

func toPresetDTO(f *factory.ScenarioFactory, p presets.Preset) PresetDTO {
	return PresetDTO{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Start:          p.Start.String(),
		End:            p.End.String(),
		InitialBalance: p.InitialBalance.InexactFloat64(),
		Config:         f.ToJSON(p.Scenario),
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
