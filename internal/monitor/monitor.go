package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"carillon/internal/boxcast"
	"carillon/internal/broadcast"
	"carillon/internal/config"
	"carillon/internal/interval"
	"carillon/internal/ledger"
	"carillon/internal/logging"
	"carillon/internal/notify"
	"carillon/internal/services"
)

// LiveReport summarizes one live-broadcast poll.
type LiveReport struct {
	Started []string
	Ended   []string
	Current int
}

// ScheduleReport summarizes one schedule-gap evaluation. Missing holds one
// entry per expected service slot with no scheduled broadcast.
type ScheduleReport struct {
	Checked bool
	Missing []string
	From    time.Time
	Until   time.Time
}

// GapDetected reports whether any expected slot is uncovered.
func (r ScheduleReport) GapDetected() bool {
	return len(r.Missing) > 0
}

// Monitor watches live broadcasts and the weekly service schedule. Edge
// detection and the daily gate both persist through the ledger, so restarts
// never re-announce a known stream or re-run the day's check.
type Monitor struct {
	api      boxcast.API
	store    *ledger.Ledger
	notifier notify.Service
	logger   *slog.Logger
	loc      *time.Location
	duration time.Duration
	windows  broadcast.Windows
	horizon  int
}

// New builds a monitor from configuration.
func New(cfg *config.Config, api boxcast.API, store *ledger.Ledger, notifier notify.Service, logger *slog.Logger) *Monitor {
	return &Monitor{
		api:      api,
		store:    store,
		notifier: notifier,
		logger:   logging.WithComponent(logger, "monitor"),
		loc:      cfg.Location(),
		duration: cfg.DefaultDuration(),
		windows:  broadcast.DefaultWindows(),
		horizon:  7,
	}
}

// CheckLive polls currently live broadcasts and reports edges against the
// previous poll. Newly live and newly ended broadcasts are announced.
func (m *Monitor) CheckLive(ctx context.Context) (LiveReport, error) {
	current, err := m.api.ListBroadcasts(ctx, boxcast.Filter{IsLive: true})
	if err != nil {
		return LiveReport{}, services.Wrap(services.ErrTransient, "monitor", "list live", "", err)
	}

	currentIDs := make(map[string]string, len(current))
	for _, bc := range current {
		currentIDs[bc.ID] = bc.Name
	}
	previous := m.store.LiveIDs()
	previousSet := make(map[string]struct{}, len(previous))
	for _, id := range previous {
		previousSet[id] = struct{}{}
	}

	report := LiveReport{Current: len(current)}
	for id, name := range currentIDs {
		if _, seen := previousSet[id]; !seen {
			report.Started = append(report.Started, name)
		}
	}
	for _, id := range previous {
		if _, still := currentIDs[id]; !still {
			report.Ended = append(report.Ended, m.endedName(ctx, id))
		}
	}
	sort.Strings(report.Started)
	sort.Strings(report.Ended)

	ids := make([]string, 0, len(currentIDs))
	for id := range currentIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	m.store.SetLiveIDs(ids)

	if len(report.Started) > 0 {
		m.logger.Info("broadcasts went live", logging.Any("names", report.Started))
		if err := m.notifier.NotifyLiveStarted(ctx, report.Started); err != nil {
			m.logger.Warn("live notification failed", logging.Error(err))
		}
	}
	if len(report.Ended) > 0 {
		m.logger.Info("broadcasts ended", logging.Any("names", report.Ended))
		if err := m.notifier.NotifyLiveEnded(ctx, report.Ended); err != nil {
			m.logger.Warn("live notification failed", logging.Error(err))
		}
	}
	return report, nil
}

// endedName resolves a display name for a broadcast that left the live set.
// The live listing no longer carries it, so the detail endpoint is the only
// source; a lookup failure falls back to the raw id.
func (m *Monitor) endedName(ctx context.Context, id string) string {
	detail, err := m.api.BroadcastDetail(ctx, id)
	if err != nil || detail.Name == "" {
		return id
	}
	return detail.Name
}

// CheckSchedule looks ahead over the coming week and verifies that every
// expected service slot (Sunday first service, Sunday second service,
// Wednesday night) has a broadcast scheduled in its window. Each uncovered
// slot is reported individually. The check runs at most once per local day;
// a day already marked in the ledger reports Checked=false.
func (m *Monitor) CheckSchedule(ctx context.Context, now time.Time) (ScheduleReport, error) {
	local := now.In(m.loc)
	today := local.Format("2006-01-02")
	if m.store.ScheduleCheckedOn(today) {
		return ScheduleReport{}, nil
	}

	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, m.loc)
	until := from.AddDate(0, 0, m.horizon)
	items, err := m.api.ListBroadcasts(ctx, boxcast.Filter{
		StartsAfter:  from,
		StartsBefore: until,
	})
	if err != nil {
		return ScheduleReport{}, services.Wrap(services.ErrTransient, "monitor", "list upcoming", "", err)
	}

	scheduled := make([]interval.Interval, 0, len(items))
	for _, bc := range items {
		scheduled = append(scheduled, bc.LocalInterval(m.loc, m.duration))
	}

	report := ScheduleReport{Checked: true, From: from, Until: until}
	for i := 0; i < m.horizon; i++ {
		day := from.AddDate(0, 0, i)
		for _, slot := range m.expectedSlots(day) {
			if !anyOverlaps(scheduled, slot.window) {
				report.Missing = append(report.Missing,
					fmt.Sprintf("%s (%s): %s", day.Format("2006-01-02"), day.Weekday(), slot.label))
			}
		}
	}

	if len(report.Missing) > 0 {
		m.logger.Warn("expected service slots uncovered in coming week",
			logging.Any("missing", report.Missing))
		if err := m.notifier.NotifyScheduleGap(ctx, report.Missing); err != nil {
			m.logger.Warn("schedule notification failed", logging.Error(err))
		}
	}

	m.store.MarkScheduleChecked(today)
	return report, nil
}

type expectedSlot struct {
	label  string
	window interval.Interval
}

// expectedSlots returns the service windows the schedule must cover on the
// given local day. Sunday School is not expected: the first and second
// service bracket it, and it is frequently not broadcast.
func (m *Monitor) expectedSlots(day time.Time) []expectedSlot {
	switch day.Weekday() {
	case time.Sunday:
		return []expectedSlot{
			{label: "1st Service window", window: m.windows.SundayFirst.On(day)},
			{label: "2nd Service window", window: m.windows.SundaySecond.On(day)},
		}
	case time.Wednesday:
		return []expectedSlot{
			{label: "Wednesday Night window", window: m.windows.WednesdayNight.On(day)},
		}
	}
	return nil
}

func anyOverlaps(intervals []interval.Interval, window interval.Interval) bool {
	for _, iv := range intervals {
		if iv.Overlaps(window) {
			return true
		}
	}
	return false
}
