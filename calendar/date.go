/*
Package calendar provides a timezone-free (year, month, day) value type.

PURPOSE:
  The simulation engine works at month resolution and must never shift a
  date across a day or month boundary because of a timezone. Date is a plain
  calendrical triple; all arithmetic is done on the triple itself.

KEY OPERATIONS:
  - StartOfMonth: normalize to day 1
  - AddMonths:    month stepping (day clamped to the target month length)
  - MonthKey:     canonical "yyyy-MM" key used by cashflow/balance maps
  - IsSameMonth / IsWithinInterval: containment checks

USAGE:
  d := calendar.New(2025, time.January, 31)
  d.AddMonths(1)           // 2025-02-28
  d.StartOfMonth()         // 2025-01-01
  d.MonthKey()             // "2025-01"

SEE ALSO:
  - interval.go: Interval and month iteration
  - scenario/runner.go: month loop that consumes this package
*/
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendrical value, no timezone
// =============================================================================

// Date is an immutable (year, month, day) triple.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// FarFuture is the sentinel used for open-ended ranges.
var FarFuture = Date{Year: 9999, Month: time.December, Day: 31}

// ErrInvalidDate is returned by Parse for malformed input.
var ErrInvalidDate = errors.New("invalid date")

// Constructors
func New(year int, month time.Month, day int) Date { return Date{Year: year, Month: month, Day: day} }

// FromTime drops the clock and location of t.
func FromTime(t time.Time) Date { return New(t.Year(), t.Month(), t.Day()) }

func Today() Date { return FromTime(time.Now()) }

// Parse accepts "YYYY-MM-DD" or a month key "YYYY-MM" (day 1). Both forms
// are exact: zero-padded fields, no signs, no surrounding text.
func Parse(s string) (Date, error) {
	layout := "2006-01-02"
	if len(s) == len("2006-01") {
		layout = "2006-01"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return FromTime(t), nil
}

// MustParse is Parse for literals in tests and presets.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Equal(o Date) bool         { return d.Compare(o) == 0 }
func (d Date) IsAfter(o Date) bool       { return d.Compare(o) > 0 }
func (d Date) IsBefore(o Date) bool      { return d.Compare(o) < 0 }
func (d Date) IsSameMonth(o Date) bool   { return d.Year == o.Year && d.Month == o.Month }
func (d Date) IsZero() bool              { return d == Date{} }

// Arithmetic
func (d Date) StartOfMonth() Date { return New(d.Year, d.Month, 1) }

// AddMonths moves n months forward (or back when n < 0). The day is clamped
// to the length of the target month, so Jan 31 + 1 month is Feb 28/29.
func (d Date) AddMonths(n int) Date {
	total := d.Year*12 + int(d.Month) - 1 + n
	year := floorDiv(total, 12)
	month := time.Month(total-year*12) + 1
	day := d.Day
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return New(year, month, day)
}

// MonthsUntil counts whole month steps from d's month to o's month.
func (d Date) MonthsUntil(o Date) int {
	return (o.Year*12 + int(o.Month)) - (d.Year*12 + int(d.Month))
}

// Properties
func (d Date) MonthKey() string { return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month)) }
func (d Date) String() string   { return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day) }

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
