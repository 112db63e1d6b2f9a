package interval

import "time"

// Interval is a half-open time span [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// New returns the interval [start, end).
func New(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Contains reports whether t falls inside the interval.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Duration returns End minus Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// ClockWindow builds the interval on the given local calendar day spanning
// [startHour:startMin, endHour:endMin). The day's location is preserved.
func ClockWindow(day time.Time, startHour, startMin, endHour, endMin int) Interval {
	loc := day.Location()
	year, month, date := day.Date()
	return Interval{
		Start: time.Date(year, month, date, startHour, startMin, 0, 0, loc),
		End:   time.Date(year, month, date, endHour, endMin, 0, 0, loc),
	}
}
