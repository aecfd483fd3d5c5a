package calendar

// =============================================================================
// INTERVAL - Inclusive date range
// =============================================================================

// Interval is the closed range [Start, End].
type Interval struct {
	Start Date
	End   Date
}

// Contains reports whether d lies within [Start, End].
func (iv Interval) Contains(d Date) bool {
	return !d.IsBefore(iv.Start) && !d.IsAfter(iv.End)
}

// Months returns the month-start dates from Start's month to End's month,
// inclusive. An interval whose end precedes its start has no months.
func (iv Interval) Months() []Date {
	var months []Date
	current := iv.Start.StartOfMonth()
	end := iv.End.StartOfMonth()
	for !current.IsAfter(end) {
		months = append(months, current)
		current = current.AddMonths(1)
	}
	return months
}

// MonthSpan widens the interval to whole months.
func (iv Interval) MonthSpan() Interval {
	return Interval{
		Start: iv.Start.StartOfMonth(),
		End:   New(iv.End.Year, iv.End.Month, DaysIn(iv.End.Year, iv.End.Month)),
	}
}

func (iv Interval) String() string {
	return "[" + iv.Start.String() + ", " + iv.End.String() + "]"
}

// IsWithinInterval is the function form of Interval.Contains.
func IsWithinInterval(d Date, iv Interval) bool { return iv.Contains(d) }
