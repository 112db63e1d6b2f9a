package broadcast_test

import (
	"testing"
	"time"

	"carillon/internal/broadcast"
	"carillon/internal/interval"
)

func defaultRules() broadcast.Rules {
	return broadcast.Rules{
		Youth:       []string{"youth service"},
		Memorial:    []string{"memorial"},
		Wedding:     []string{"wedding"},
		Special:     []string{"special service", "revival", "missions service"},
		AnnualEvent: "christmas at carbondale",
		SundayNight: "sunday night",
		Holidays: []broadcast.HolidayRule{
			{Keyword: "easter", Label: "Easter"},
			{Keyword: "thanksgiving eve", Label: "Thanksgiving Eve"},
			{Keyword: "christmas eve", Label: "Christmas Eve"},
			{Keyword: "good friday", Label: "Good Friday"},
			{Keyword: "new year", Label: "New Year"},
		},
		Windows: broadcast.DefaultWindows(),
	}
}

// localAt builds a 2-hour local interval on the given date.
func localAt(t *testing.T, year int, month time.Month, day, hour, min int) interval.Interval {
	t.Helper()
	start := time.Date(year, month, day, hour, min, 0, 0, time.UTC)
	return interval.New(start, start.Add(2*time.Hour))
}

func TestClassifyPrecedenceAndWindows(t *testing.T) {
	classifier := broadcast.NewClassifier(defaultRules())

	// 2025-12-07 is a Sunday, 2025-12-10 a Wednesday, 2025-12-08 a Monday.
	tests := []struct {
		name      string
		title     string
		local     interval.Interval
		wantCat   broadcast.Category
		wantLabel string
	}{
		{
			name:    "youth wins over sunday window",
			title:   "Youth Service Night",
			local:   localAt(t, 2025, time.December, 7, 9, 0),
			wantCat: broadcast.CategoryYouth,
		},
		{
			name:    "memorial precedes holiday and sunday rules",
			title:   "Easter Memorial Service",
			local:   localAt(t, 2025, time.December, 7, 9, 0),
			wantCat: broadcast.CategoryMemorial,
		},
		{
			name:    "wedding by name",
			title:   "Smith Wedding",
			local:   localAt(t, 2025, time.December, 8, 14, 0),
			wantCat: broadcast.CategoryWedding,
		},
		{
			name:    "annual event precedes holiday table",
			title:   "Christmas At Carbondale 2025",
			local:   localAt(t, 2025, time.December, 20, 18, 0),
			wantCat: broadcast.CategoryChristmasAnnual,
		},
		{
			name:      "holiday keyword with label",
			title:     "Christmas Eve Candlelight",
			local:     localAt(t, 2025, time.December, 24, 18, 0),
			wantCat:   broadcast.CategoryHoliday,
			wantLabel: "Christmas Eve",
		},
		{
			name:    "special service keyword",
			title:   "Fall Revival",
			local:   localAt(t, 2025, time.December, 9, 19, 0),
			wantCat: broadcast.CategorySpecialService,
		},
		{
			name:    "sunday 09:59 start lands in first service",
			title:   "Sunday Service",
			local:   localAt(t, 2025, time.December, 7, 9, 59),
			wantCat: broadcast.CategoryFirstService,
		},
		{
			name:    "sunday 10:00 start lands in sunday school",
			title:   "Sunday Service",
			local:   localAt(t, 2025, time.December, 7, 10, 0),
			wantCat: broadcast.CategorySundaySchool,
		},
		{
			name:    "sunday 10:50 start lands in second service",
			title:   "Sunday Service",
			local:   localAt(t, 2025, time.December, 7, 10, 50),
			wantCat: broadcast.CategorySecondService,
		},
		{
			name:    "sunday evening overlap is sunday night",
			title:   "Evening Gathering",
			local:   localAt(t, 2025, time.December, 7, 18, 0),
			wantCat: broadcast.CategorySundayNight,
		},
		{
			name:    "sunday night by name outside window",
			title:   "Sunday Night Special Broadcast",
			local:   localAt(t, 2025, time.December, 7, 14, 0),
			wantCat: broadcast.CategorySundayNight,
		},
		{
			name:    "wednesday evening window",
			title:   "Midweek",
			local:   localAt(t, 2025, time.December, 10, 19, 0),
			wantCat: broadcast.CategoryWednesdayNight,
		},
		{
			name:    "wednesday outside window is uncategorized",
			title:   "Midweek",
			local:   localAt(t, 2025, time.December, 10, 9, 0),
			wantCat: broadcast.CategoryUncategorized,
		},
		{
			name:    "monday anything is uncategorized",
			title:   "Board Meeting",
			local:   localAt(t, 2025, time.December, 8, 19, 0),
			wantCat: broadcast.CategoryUncategorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifier.Classify(tc.title, tc.local, tc.local.Start.Weekday())
			if got.Category != tc.wantCat {
				t.Fatalf("Classify(%q) = %s, want %s", tc.title, got.Category, tc.wantCat)
			}
			if got.Label != tc.wantLabel {
				t.Fatalf("Classify(%q) label = %q, want %q", tc.title, got.Label, tc.wantLabel)
			}
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	classifier := broadcast.NewClassifier(defaultRules())
	names := []string{"", "x", "Sunday", "???", "Wednesday night prayer"}
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			for _, name := range names {
				local := localAt(t, 2025, time.December, 7+day, hour, 0)
				got := classifier.Classify(name, local, local.Start.Weekday())
				if got.Category == "" {
					t.Fatalf("classification returned empty category for %q on %v", name, local.Start)
				}
			}
		}
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	classifier := broadcast.NewClassifier(defaultRules())
	local := localAt(t, 2025, time.December, 8, 14, 0)
	got := classifier.Classify("MEMORIAL of Jane Doe", local, local.Start.Weekday())
	if got.Category != broadcast.CategoryMemorial {
		t.Fatalf("expected memorial, got %s", got.Category)
	}
}

func TestYouthIsSkipped(t *testing.T) {
	cls := broadcast.Class{Category: broadcast.CategoryYouth}
	if !cls.Skip() {
		t.Fatal("youth broadcasts must be skipped from download")
	}
	if (broadcast.Class{Category: broadcast.CategoryMemorial}).Skip() {
		t.Fatal("memorial broadcasts must not be skipped")
	}
}

func TestLocalIntervalDefaultsDuration(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	b := broadcast.Broadcast{
		ID:       "b1",
		Name:     "Sunday Service",
		StartsAt: time.Date(2025, time.December, 7, 15, 5, 0, 0, time.UTC),
	}
	local := b.LocalInterval(chicago, 2*time.Hour)
	if local.Start.Hour() != 9 || local.Start.Minute() != 5 {
		t.Fatalf("unexpected local start: %v", local.Start)
	}
	if local.Start.Weekday() != time.Sunday {
		t.Fatalf("expected Sunday, got %v", local.Start.Weekday())
	}
	if local.Duration() != 2*time.Hour {
		t.Fatalf("expected default 2h duration, got %v", local.Duration())
	}
}

func TestLocalIntervalEndNeverBeforeStart(t *testing.T) {
	start := time.Date(2025, time.December, 7, 15, 0, 0, 0, time.UTC)
	b := broadcast.Broadcast{
		ID:       "b2",
		StartsAt: start,
		StopsAt:  start.Add(-time.Hour),
	}
	local := b.LocalInterval(time.UTC, 2*time.Hour)
	if local.End.Before(local.Start) {
		t.Fatalf("interval end before start: %v .. %v", local.Start, local.End)
	}
}
