package interval_test

import (
	"testing"
	"time"

	"carillon/internal/interval"
)

func mk(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2025, time.December, 7, hour, min, 0, 0, time.UTC)
}

func TestOverlapsHalfOpenSemantics(t *testing.T) {
	tests := []struct {
		name string
		a    interval.Interval
		b    interval.Interval
		want bool
	}{
		{
			name: "touching endpoints do not overlap",
			a:    interval.New(mk(t, 9, 0), mk(t, 10, 0)),
			b:    interval.New(mk(t, 10, 0), mk(t, 11, 0)),
			want: false,
		},
		{
			name: "one minute across the boundary overlaps",
			a:    interval.New(mk(t, 9, 59), mk(t, 10, 1)),
			b:    interval.New(mk(t, 10, 0), mk(t, 10, 50)),
			want: true,
		},
		{
			name: "fully contained overlaps",
			a:    interval.New(mk(t, 10, 10), mk(t, 10, 20)),
			b:    interval.New(mk(t, 10, 0), mk(t, 10, 50)),
			want: true,
		},
		{
			name: "disjoint spans do not overlap",
			a:    interval.New(mk(t, 7, 0), mk(t, 8, 0)),
			b:    interval.New(mk(t, 18, 0), mk(t, 21, 0)),
			want: false,
		},
		{
			name: "identical spans overlap",
			a:    interval.New(mk(t, 10, 0), mk(t, 11, 0)),
			b:    interval.New(mk(t, 10, 0), mk(t, 11, 0)),
			want: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("overlap is not symmetric: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClockWindowPreservesLocation(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	day := time.Date(2025, time.December, 7, 15, 5, 0, 0, chicago)
	w := interval.ClockWindow(day, 10, 0, 10, 50)
	if w.Start.Location() != chicago || w.End.Location() != chicago {
		t.Fatalf("window lost location: %v .. %v", w.Start, w.End)
	}
	if w.Start.Hour() != 10 || w.Start.Minute() != 0 {
		t.Fatalf("unexpected window start: %v", w.Start)
	}
	if w.End.Hour() != 10 || w.End.Minute() != 50 {
		t.Fatalf("unexpected window end: %v", w.End)
	}
}

func TestContains(t *testing.T) {
	w := interval.New(mk(t, 10, 0), mk(t, 11, 0))
	if !w.Contains(mk(t, 10, 0)) {
		t.Fatal("start instant should be contained")
	}
	if w.Contains(mk(t, 11, 0)) {
		t.Fatal("end instant should not be contained")
	}
}
