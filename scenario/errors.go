/*
errors.go - Error types for the host layers around the engine

PURPOSE:
  The engine itself never fails: Run has no error return and a malformed
  event is simply inert. These errors belong to the code that feeds it
  (codec, store, API) and are kept here so every layer shares them.

ERROR CATEGORIES:
  1. Decode errors - unknown tags, types, kinds or malformed dates
  2. Request errors - invalid simulation windows
  3. Store errors - missing scenarios

USAGE:
  if errors.Is(err, scenario.ErrScenarioNotFound) {
      // 404
  }

SEE ALSO:
  - factory/scenario.go: returns DecodeError
  - api/handlers.go: maps errors to HTTP status codes
*/
package scenario

import (
	"errors"
	"fmt"

	"github.com/warp/scenario-engine/calendar"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrScenarioNotFound is returned when a stored scenario doesn't exist.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrInvalidPeriod is returned when a simulation window ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrUnknownCondition is returned for an unknown condition tag or type, or
	// a type filed under the wrong tag.
	ErrUnknownCondition = errors.New("unknown condition")

	// ErrUnknownRecurrence is returned for an unknown recurrence kind.
	ErrUnknownRecurrence = errors.New("unknown recurrence kind")

	// ErrUnknownEventType is returned for an event type other than income/expense.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrInvalidDate is calendar.ErrInvalidDate, so calendar.Parse failures
	// classify as client errors wherever they surface.
	ErrInvalidDate = calendar.ErrInvalidDate
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DecodeError locates a decoding failure inside a scenario document.
type DecodeError struct {
	Event string // event name, empty for scenario-level fields
	Field string // e.g. "type", "unlocked_by[1].start"
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Event == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("event %q: %s: %v", e.Event, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrUnknownCondition) ||
		errors.Is(err, ErrUnknownRecurrence) ||
		errors.Is(err, ErrUnknownEventType) ||
		errors.Is(err, ErrInvalidDate)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrScenarioNotFound)
}

// ValidatePeriod checks a simulation window at month granularity.
func ValidatePeriod(in Input) error {
	if in.EndDate.StartOfMonth().IsBefore(in.StartDate.StartOfMonth()) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidPeriod, in.StartDate.MonthKey(), in.EndDate.MonthKey())
	}
	return nil
}
