/*
handlers.go - HTTP API handlers for the scenario engine

PURPOSE:
  Exposes the scenario library and the simulation engine via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  factory (decoding), the simulator (runs) and the store (library).

ENDPOINTS:
  Scenario library:
    GET    /api/scenarios              List stored scenarios
    POST   /api/scenarios              Store a scenario document
    GET    /api/scenarios/{id}         Get a stored scenario
    PUT    /api/scenarios/{id}         Replace a stored scenario (version+1)
    DELETE /api/scenarios/{id}         Delete a scenario and its runs

  Runs:
    POST   /api/scenarios/{id}/run     Run a stored scenario, record the run
    GET    /api/scenarios/{id}/runs    Run history, newest first
    POST   /api/simulate               Run an inline scenario
    POST   /api/simulate/batch         Run several inline scenarios

  Tools:
    POST   /api/lint                   Lint a scenario document
    GET    /api/presets                List built-in scenarios
    POST   /api/presets/load           Store built-in scenarios in the library
    POST   /api/reset                  Clear the library (dev only)

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: scenario library and run history
  - Factory: document to scenario.Scenario conversion
  - Simulator: validated, logged runs and parallel batches

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: malformed JSON, decode errors, invalid windows
  - 404: unknown scenario
  - 500: store failures

SECURITY NOTE:
  No authentication. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/scenario-engine/calendar"
	"github.com/warp/scenario-engine/factory"
	"github.com/warp/scenario-engine/lint"
	"github.com/warp/scenario-engine/presets"
	"github.com/warp/scenario-engine/scenario"
)

// MaxBatchSize caps the number of runs in one batch request.
const MaxBatchSize = 100

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     scenario.Store
	Factory   *factory.ScenarioFactory
	Simulator *scenario.Simulator
	Logger    *slog.Logger

	// HorizonMonths is the window length used when a request omits End.
	HorizonMonths int

	newID func() string
	today func() calendar.Date
}

// NewHandler creates a new handler. A nil logger uses slog.Default().
func NewHandler(store scenario.Store, sim *scenario.Simulator, logger *slog.Logger, horizonMonths int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if horizonMonths < 1 {
		horizonMonths = 12
	}
	return &Handler{
		Store:         store,
		Factory:       factory.NewScenarioFactory(),
		Simulator:     sim,
		Logger:        logger,
		HorizonMonths: horizonMonths,
		newID:         uuid.NewString,
		today:         calendar.Today,
	}
}

// =============================================================================
// SCENARIO LIBRARY HANDLERS
// =============================================================================

// ListScenarios returns all stored scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListScenarios(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list scenarios", err)
		return
	}

	dtos := make([]ScenarioDTO, 0, len(records))
	for _, rec := range records {
		dto, err := h.toScenarioDTO(rec)
		if err != nil {
			h.Logger.WarnContext(r.Context(), "skipping unreadable scenario", "id", rec.ID, "error", err)
			continue
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateScenario stores a new scenario document.
// POST /api/scenarios
func (h *Handler) CreateScenario(w http.ResponseWriter, r *http.Request) {
	var doc factory.ScenarioJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	rec, err := h.saveDocument(r, h.newID(), doc)
	if err != nil {
		h.fail(w, r, "Failed to create scenario", err)
		return
	}
	h.writeScenario(w, r, http.StatusCreated, rec.ID)
}

// GetScenario returns one stored scenario.
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	h.writeScenario(w, r, http.StatusOK, chi.URLParam(r, "id"))
}

// UpdateScenario replaces a stored scenario document.
// PUT /api/scenarios/{id}
func (h *Handler) UpdateScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetScenario(r.Context(), id); err != nil {
		h.fail(w, r, "Failed to update scenario", err)
		return
	}

	var doc factory.ScenarioJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	if _, err := h.saveDocument(r, id, doc); err != nil {
		h.fail(w, r, "Failed to update scenario", err)
		return
	}
	h.writeScenario(w, r, http.StatusOK, id)
}

// DeleteScenario removes a scenario and its runs.
func (h *Handler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteScenario(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete scenario", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// saveDocument decodes the document (rejecting invalid ones) and stores its
// canonical form.
func (h *Handler) saveDocument(r *http.Request, id string, doc factory.ScenarioJSON) (scenario.ScenarioRecord, error) {
	s, err := h.Factory.FromJSON(doc)
	if err != nil {
		return scenario.ScenarioRecord{}, err
	}
	config, err := h.Factory.Marshal(s)
	if err != nil {
		return scenario.ScenarioRecord{}, err
	}

	rec := scenario.ScenarioRecord{ID: id, Name: s.Name, ConfigJSON: string(config)}
	if err := h.Store.SaveScenario(r.Context(), rec); err != nil {
		return rec, err
	}
	h.Logger.InfoContext(r.Context(), "scenario saved", "id", id, "name", s.Name, "events", len(s.Events))
	return rec, nil
}

func (h *Handler) writeScenario(w http.ResponseWriter, r *http.Request, status int, id string) {
	rec, err := h.Store.GetScenario(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to get scenario", err)
		return
	}
	dto, err := h.toScenarioDTO(*rec)
	if err != nil {
		h.fail(w, r, "Stored scenario is unreadable", err)
		return
	}
	writeJSON(w, status, dto)
}

func (h *Handler) toScenarioDTO(rec scenario.ScenarioRecord) (ScenarioDTO, error) {
	var doc factory.ScenarioJSON
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &doc); err != nil {
		return ScenarioDTO{}, err
	}
	return ScenarioDTO{
		ID:        rec.ID,
		Name:      rec.Name,
		Config:    doc,
		Version:   rec.Version,
		CreatedAt: formatTimestamp(rec.CreatedAt),
		UpdatedAt: formatTimestamp(rec.UpdatedAt),
	}, nil
}

// =============================================================================
// RUN HANDLERS
// =============================================================================

// RunScenario runs a stored scenario and records the run.
// POST /api/scenarios/{id}/run
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetScenario(ctx, id)
	if err != nil {
		h.fail(w, r, "Failed to run scenario", err)
		return
	}
	s, err := h.Factory.ParseScenario(rec.ConfigJSON)
	if err != nil {
		h.fail(w, r, "Stored scenario is unreadable", err)
		return
	}

	var req WindowRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	in, err := h.input(s, req)
	if err != nil {
		h.fail(w, r, "Invalid window", err)
		return
	}

	res, err := h.Simulator.Run(ctx, in)
	if err != nil {
		h.fail(w, r, "Simulation failed", err)
		return
	}

	dto := NewResultDTO(s.Name, res)
	resultJSON, err := json.Marshal(dto)
	if err != nil {
		h.fail(w, r, "Failed to encode result", err)
		return
	}

	run := scenario.RunRecord{
		ID:             h.newID(),
		ScenarioID:     id,
		StartMonth:     in.StartDate.MonthKey(),
		EndMonth:       in.EndDate.MonthKey(),
		InitialBalance: in.InitialBalance,
		FinalBalance:   res.FinalBalance(),
		ResultJSON:     string(resultJSON),
	}
	if err := h.Store.SaveRun(ctx, run); err != nil {
		h.fail(w, r, "Failed to record run", err)
		return
	}

	writeJSON(w, http.StatusCreated, RunDTO{
		ID:             run.ID,
		ScenarioID:     id,
		StartMonth:     run.StartMonth,
		EndMonth:       run.EndMonth,
		InitialBalance: run.InitialBalance.InexactFloat64(),
		FinalBalance:   run.FinalBalance.InexactFloat64(),
		Result:         &dto,
	})
}

// ListRuns returns the run history of a stored scenario.
// GET /api/scenarios/{id}/runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := h.Store.GetScenario(ctx, id); err != nil {
		h.fail(w, r, "Failed to list runs", err)
		return
	}
	runs, err := h.Store.ListRuns(ctx, id)
	if err != nil {
		h.fail(w, r, "Failed to list runs", err)
		return
	}

	includeResult := r.URL.Query().Get("include") == "result"
	dtos := make([]RunDTO, 0, len(runs))
	for _, run := range runs {
		dto := RunDTO{
			ID:             run.ID,
			ScenarioID:     run.ScenarioID,
			StartMonth:     run.StartMonth,
			EndMonth:       run.EndMonth,
			InitialBalance: run.InitialBalance.InexactFloat64(),
			FinalBalance:   run.FinalBalance.InexactFloat64(),
			CreatedAt:      formatTimestamp(run.CreatedAt),
		}
		if includeResult {
			var res ResultDTO
			if err := json.Unmarshal([]byte(run.ResultJSON), &res); err == nil {
				dto.Result = &res
			}
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Simulate runs an inline scenario.
// POST /api/simulate
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	in, err := h.inlineInput(req)
	if err != nil {
		h.fail(w, r, "Invalid scenario", err)
		return
	}

	res, err := h.Simulator.Run(r.Context(), in)
	if err != nil {
		h.fail(w, r, "Simulation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, NewResultDTO(in.Scenario.Name, res))
}

// SimulateBatch runs several inline scenarios in parallel.
// POST /api/simulate/batch
func (h *Handler) SimulateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	if len(req.Runs) > MaxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Too many runs (max %d)", MaxBatchSize), nil)
		return
	}

	inputs := make([]scenario.Input, len(req.Runs))
	for i, run := range req.Runs {
		in, err := h.inlineInput(run)
		if err != nil {
			h.fail(w, r, fmt.Sprintf("Invalid run #%d", i), err)
			return
		}
		inputs[i] = in
	}

	results, err := h.Simulator.RunBatch(r.Context(), inputs)
	if err != nil {
		h.fail(w, r, "Batch failed", err)
		return
	}

	resp := BatchResponse{Results: make([]ResultDTO, len(results))}
	for i, res := range results {
		resp.Results[i] = NewResultDTO(inputs[i].Scenario.Name, res)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) inlineInput(req SimulateRequest) (scenario.Input, error) {
	s, err := h.Factory.FromJSON(req.Scenario)
	if err != nil {
		return scenario.Input{}, err
	}
	return h.input(s, req.WindowRequest)
}

// input resolves a window request against the defaults.
func (h *Handler) input(s scenario.Scenario, req WindowRequest) (scenario.Input, error) {
	start := h.today().StartOfMonth()
	if req.Start != "" {
		d, err := calendar.Parse(req.Start)
		if err != nil {
			return scenario.Input{}, &scenario.DecodeError{Field: "start", Err: fmt.Errorf("%w: %q", scenario.ErrInvalidDate, req.Start)}
		}
		start = d
	}

	end := start.StartOfMonth().AddMonths(h.HorizonMonths - 1)
	if req.End != "" {
		d, err := calendar.Parse(req.End)
		if err != nil {
			return scenario.Input{}, &scenario.DecodeError{Field: "end", Err: fmt.Errorf("%w: %q", scenario.ErrInvalidDate, req.End)}
		}
		end = d
	}

	return scenario.Input{
		Scenario:       s,
		StartDate:      start,
		EndDate:        end,
		InitialBalance: decimal.NewFromFloat(req.InitialBalance),
	}, nil
}

// =============================================================================
// TOOL HANDLERS
// =============================================================================

// Lint decodes a scenario document and reports lint findings.
// POST /api/lint
func (h *Handler) Lint(w http.ResponseWriter, r *http.Request) {
	var doc factory.ScenarioJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	s, err := h.Factory.FromJSON(doc)
	if err != nil {
		h.fail(w, r, "Invalid scenario", err)
		return
	}

	report := lint.Check(s)
	findings := report.Findings
	if findings == nil {
		findings = []lint.Finding{}
	}
	writeJSON(w, http.StatusOK, LintResponse{Valid: !report.HasErrors(), Findings: findings})
}

// ListPresets returns the built-in scenarios.
// GET /api/presets
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	all := presets.All()
	dtos := make([]PresetDTO, len(all))
	for i, p := range all {
		dtos[i] = toPresetDTO(h.Factory, p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadPreset stores one or all presets in the library, keyed by preset ID.
// POST /api/presets/load
func (h *Handler) LoadPreset(w http.ResponseWriter, r *http.Request) {
	var req LoadPresetRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	selected := presets.All()
	if req.PresetID != "" {
		p, ok := presets.Get(req.PresetID)
		if !ok {
			writeError(w, http.StatusNotFound, "Unknown preset", fmt.Errorf("preset %q not found", req.PresetID))
			return
		}
		selected = []presets.Preset{p}
	}

	loaded := make([]ScenarioDTO, 0, len(selected))
	for _, p := range selected {
		if _, err := h.saveDocument(r, p.ID, h.Factory.ToJSON(p.Scenario)); err != nil {
			h.fail(w, r, "Failed to load preset", err)
			return
		}
		rec, err := h.Store.GetScenario(r.Context(), p.ID)
		if err != nil {
			h.fail(w, r, "Failed to load preset", err)
			return
		}
		dto, err := h.toScenarioDTO(*rec)
		if err != nil {
			h.fail(w, r, "Failed to load preset", err)
			return
		}
		loaded = append(loaded, dto)
	}
	writeJSON(w, http.StatusOK, loaded)
}

// ResetDatabase clears the scenario library.
// POST /api/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.fail(w, r, "Failed to reset", err)
		return
	}
	h.Logger.WarnContext(r.Context(), "scenario library reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// fail maps err to a status code and writes it. Server-side failures are
// logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.ErrorContext(r.Context(), message, "error", err, "path", r.URL.Path)
	}
	writeError(w, status, message, err)
}

func statusFor(err error) int {
	switch {
	case scenario.IsNotFound(err):
		return http.StatusNotFound
	case scenario.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeOptional decodes a JSON body if there is one.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
