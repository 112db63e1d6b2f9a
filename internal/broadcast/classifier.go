package broadcast

import (
	"strings"
	"time"

	"carillon/internal/config"
	"carillon/internal/interval"
)

// ClockSpan is a time-of-day window expressed as [start, end) on any day.
type ClockSpan struct {
	StartHour, StartMin int
	EndHour, EndMin     int
}

// On materializes the span on the given local day.
func (s ClockSpan) On(day time.Time) interval.Interval {
	return interval.ClockWindow(day, s.StartHour, s.StartMin, s.EndHour, s.EndMin)
}

// Windows holds the weekly service windows used by time-based rules. Sunday
// morning windows are checked in order; a broadcast overlapping a boundary
// belongs to the earliest window it overlaps.
type Windows struct {
	SundayFirst    ClockSpan
	SundaySchool   ClockSpan
	SundaySecond   ClockSpan
	SundayNight    ClockSpan
	WednesdayNight ClockSpan
}

// DefaultWindows returns the organization's standard service windows.
func DefaultWindows() Windows {
	return Windows{
		SundayFirst:    ClockSpan{0, 0, 10, 0},
		SundaySchool:   ClockSpan{10, 0, 10, 50},
		SundaySecond:   ClockSpan{10, 50, 13, 0},
		SundayNight:    ClockSpan{17, 0, 22, 0},
		WednesdayNight: ClockSpan{18, 0, 21, 0},
	}
}

// HolidayRule pairs a lowercase name substring with its display label.
type HolidayRule struct {
	Keyword string
	Label   string
}

// Rules carries every input the classifier consults. Building it explicitly
// keeps classification deterministic and testable across time zones and
// keyword sets.
type Rules struct {
	Youth       []string
	Memorial    []string
	Wedding     []string
	Special     []string
	AnnualEvent string
	SundayNight string
	Holidays    []HolidayRule
	Windows     Windows
}

// RulesFromConfig assembles classifier rules from loaded configuration.
func RulesFromConfig(cfg *config.Config) Rules {
	holidays := make([]HolidayRule, 0, len(cfg.Classify.Holidays))
	for _, h := range cfg.Classify.Holidays {
		holidays = append(holidays, HolidayRule{Keyword: h.Keyword, Label: h.Label})
	}
	return Rules{
		Youth:       cfg.Classify.YouthKeywords,
		Memorial:    cfg.Classify.MemorialKeywords,
		Wedding:     cfg.Classify.WeddingKeywords,
		Special:     cfg.Classify.SpecialKeywords,
		AnnualEvent: cfg.Classify.AnnualEventKeyword,
		SundayNight: cfg.Classify.SundayNightKeyword,
		Holidays:    holidays,
		Windows:     DefaultWindows(),
	}
}

// Classifier assigns categories by ordered rule precedence: name-based rules
// first, then weekday/time-window rules, then the uncategorized fallback.
type Classifier struct {
	rules Rules
}

// NewClassifier builds a classifier over the given rules.
func NewClassifier(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify maps a broadcast name, its local interval, and the local weekday
// to exactly one category. Pure and total: every input yields a class.
func (c *Classifier) Classify(name string, local interval.Interval, weekday time.Weekday) Class {
	lower := strings.ToLower(name)

	switch {
	case containsAny(lower, c.rules.Youth):
		return Class{Category: CategoryYouth}
	case containsAny(lower, c.rules.Memorial):
		return Class{Category: CategoryMemorial}
	case containsAny(lower, c.rules.Wedding):
		return Class{Category: CategoryWedding}
	case c.rules.AnnualEvent != "" && strings.Contains(lower, c.rules.AnnualEvent):
		return Class{Category: CategoryChristmasAnnual}
	}

	for _, h := range c.rules.Holidays {
		if strings.Contains(lower, h.Keyword) {
			return Class{Category: CategoryHoliday, Label: h.Label}
		}
	}

	if containsAny(lower, c.rules.Special) {
		return Class{Category: CategorySpecialService}
	}

	day := local.Start
	w := c.rules.Windows

	if weekday == time.Sunday {
		switch {
		case local.Overlaps(w.SundayFirst.On(day)):
			return Class{Category: CategoryFirstService}
		case local.Overlaps(w.SundaySchool.On(day)):
			return Class{Category: CategorySundaySchool}
		case local.Overlaps(w.SundaySecond.On(day)):
			return Class{Category: CategorySecondService}
		}
		if strings.Contains(lower, c.rules.SundayNight) && c.rules.SundayNight != "" {
			return Class{Category: CategorySundayNight}
		}
		if local.Overlaps(w.SundayNight.On(day)) {
			return Class{Category: CategorySundayNight}
		}
	}

	if weekday == time.Wednesday && local.Overlaps(w.WednesdayNight.On(day)) {
		return Class{Category: CategoryWednesdayNight}
	}

	return Class{Category: CategoryUncategorized}
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
