package calendar_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/scenario-engine/calendar"
)

func TestAddMonths_ClampsDay(t *testing.T) {
	tests := []struct {
		from string
		n    int
		want string
	}{
		{"2025-01-31", 1, "2025-02-28"},
		{"2024-01-31", 1, "2024-02-29"},
		{"2025-11-15", 2, "2026-01-15"},
		{"2025-01-15", -1, "2024-12-15"},
		{"2025-03-31", -13, "2024-02-29"},
		{"2025-06-01", 0, "2025-06-01"},
	}
	for _, tt := range tests {
		got := calendar.MustParse(tt.from).AddMonths(tt.n)
		if got.String() != tt.want {
			t.Errorf("%s + %d months = %s, want %s", tt.from, tt.n, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	a := calendar.New(2025, time.March, 10)
	b := calendar.New(2025, time.March, 11)
	c := calendar.New(2026, time.January, 1)

	if !b.IsAfter(a) || a.IsAfter(b) {
		t.Error("expected b after a")
	}
	if !a.IsBefore(c) {
		t.Error("expected a before c")
	}
	if !a.Equal(calendar.New(2025, time.March, 10)) {
		t.Error("expected equal dates")
	}
	if !a.IsSameMonth(b) || a.IsSameMonth(c) {
		t.Error("same-month check failed")
	}
}

func TestMonthKeyAndStartOfMonth(t *testing.T) {
	d := calendar.New(2023, time.February, 20)
	if d.MonthKey() != "2023-02" {
		t.Errorf("expected 2023-02, got %s", d.MonthKey())
	}
	if d.StartOfMonth() != calendar.New(2023, time.February, 1) {
		t.Errorf("unexpected start of month %s", d.StartOfMonth())
	}
	if calendar.FarFuture.MonthKey() != "9999-12" {
		t.Errorf("unexpected sentinel key %s", calendar.FarFuture.MonthKey())
	}
}

func TestParse(t *testing.T) {
	d, err := calendar.Parse("2026-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != calendar.New(2026, time.January, 15) {
		t.Errorf("unexpected date %s", d)
	}

	m, err := calendar.Parse("2026-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != calendar.New(2026, time.April, 1) {
		t.Errorf("month key should parse to first of month, got %s", m)
	}

	for _, bad := range []string{
		"", "2026-13-01", "2025-02-30", "20260115", "2026/01/15",
		"2023-1-023", "2023-01-2x", "2023-1x", "+023-01-02", "2023-01- 2",
		" 2023-01-02", "2023-01-02 ", "2023-00", "2023-01-02T00:00:00Z",
	} {
		if _, err := calendar.Parse(bad); !errors.Is(err, calendar.ErrInvalidDate) {
			t.Errorf("Parse(%q) should fail with ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestInterval(t *testing.T) {
	iv := calendar.Interval{
		Start: calendar.New(2025, time.November, 15),
		End:   calendar.New(2026, time.February, 3),
	}

	if !calendar.IsWithinInterval(calendar.New(2025, time.November, 15), iv) {
		t.Error("start should be inclusive")
	}
	if !iv.Contains(calendar.New(2026, time.February, 3)) {
		t.Error("end should be inclusive")
	}
	if iv.Contains(calendar.New(2025, time.November, 1)) {
		t.Error("day before start should be outside")
	}

	months := iv.Months()
	if len(months) != 4 {
		t.Fatalf("expected 4 months, got %d", len(months))
	}
	if months[0].MonthKey() != "2025-11" || months[3].MonthKey() != "2026-02" {
		t.Errorf("unexpected months %v", months)
	}

	span := iv.MonthSpan()
	if span.Start.Day != 1 || span.End.Day != 28 {
		t.Errorf("unexpected month span %s", span)
	}

	empty := calendar.Interval{Start: iv.End, End: iv.Start}
	if len(empty.Months()) != 0 {
		t.Error("reversed interval should have no months")
	}
}

func TestMonthsUntil(t *testing.T) {
	a := calendar.New(2025, time.October, 31)
	b := calendar.New(2026, time.March, 1)
	if got := a.MonthsUntil(b); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}
