package monitor

import (
	"context"
	"io"
	"reflect"
	"testing"
	"time"

	"carillon/internal/boxcast"
	"carillon/internal/broadcast"
	"carillon/internal/ledger"
	"carillon/internal/logging"
	"carillon/internal/notify"
	"carillon/internal/testsupport"
)

type fakeAPI struct {
	live     []broadcast.Broadcast
	upcoming []broadcast.Broadcast
	details  map[string]boxcast.Detail
}

func (f *fakeAPI) ListBroadcasts(ctx context.Context, filter boxcast.Filter) ([]broadcast.Broadcast, error) {
	if filter.IsLive {
		return f.live, nil
	}
	return f.upcoming, nil
}

func (f *fakeAPI) BroadcastDetail(ctx context.Context, id string) (boxcast.Detail, error) {
	return f.details[id], nil
}

func (f *fakeAPI) RequestExport(ctx context.Context, recordingID string) error { return nil }

func (f *fakeAPI) PollExport(ctx context.Context, recordingID string) (boxcast.ExportStatus, error) {
	return boxcast.ExportStatus{}, nil
}

func (f *fakeAPI) StreamDownload(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error) {
	return nil, 0, nil
}

type recordingNotifier struct {
	started [][]string
	ended   [][]string
	gaps    [][]string
}

func (r *recordingNotifier) NotifyLiveStarted(ctx context.Context, names []string) error {
	r.started = append(r.started, names)
	return nil
}

func (r *recordingNotifier) NotifyLiveEnded(ctx context.Context, names []string) error {
	r.ended = append(r.ended, names)
	return nil
}

func (r *recordingNotifier) NotifyScheduleGap(ctx context.Context, missing []string) error {
	r.gaps = append(r.gaps, missing)
	return nil
}

func (r *recordingNotifier) NotifyAnalytics(context.Context, string) error                 { return nil }
func (r *recordingNotifier) NotifyDownloaded(context.Context, string, string, int64) error { return nil }
func (r *recordingNotifier) NotifyRunSummary(context.Context, notify.RunSummary) error     { return nil }
func (r *recordingNotifier) NotifyUncategorized(context.Context, string, string) error     { return nil }
func (r *recordingNotifier) NotifyError(context.Context, error, string) error              { return nil }
func (r *recordingNotifier) TestNotification(context.Context) error                        { return nil }

func newTestMonitor(t *testing.T, api boxcast.API) (*Monitor, *ledger.Ledger, *recordingNotifier) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := ledger.Load(cfg.Paths.StateFile, false, logging.NewNop())
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	notifier := &recordingNotifier{}
	return New(cfg, api, store, notifier, logging.NewNop()), store, notifier
}

func TestCheckLiveDetectsEdges(t *testing.T) {
	api := &fakeAPI{
		live: []broadcast.Broadcast{
			{ID: "a", Name: "Sunday Morning", IsLive: true},
			{ID: "b", Name: "Sunday School", IsLive: true},
		},
		details: map[string]boxcast.Detail{
			"stale": {ID: "stale", Name: "Wednesday Night"},
		},
	}
	mon, store, notifier := newTestMonitor(t, api)
	store.SetLiveIDs([]string{"a", "stale"})

	report, err := mon.CheckLive(context.Background())
	if err != nil {
		t.Fatalf("CheckLive: %v", err)
	}
	if !reflect.DeepEqual(report.Started, []string{"Sunday School"}) {
		t.Errorf("started = %v", report.Started)
	}
	if !reflect.DeepEqual(report.Ended, []string{"Wednesday Night"}) {
		t.Errorf("ended = %v", report.Ended)
	}
	if !reflect.DeepEqual(store.LiveIDs(), []string{"a", "b"}) {
		t.Errorf("stored live ids = %v", store.LiveIDs())
	}
	if len(notifier.started) != 1 || len(notifier.ended) != 1 {
		t.Errorf("notifications: started=%d ended=%d", len(notifier.started), len(notifier.ended))
	}
}

func TestCheckLiveQuietWhenUnchanged(t *testing.T) {
	api := &fakeAPI{live: []broadcast.Broadcast{{ID: "a", Name: "Sunday Morning"}}}
	mon, store, notifier := newTestMonitor(t, api)
	store.SetLiveIDs([]string{"a"})

	report, err := mon.CheckLive(context.Background())
	if err != nil {
		t.Fatalf("CheckLive: %v", err)
	}
	if len(report.Started) != 0 || len(report.Ended) != 0 {
		t.Errorf("report = %+v", report)
	}
	if len(notifier.started) != 0 || len(notifier.ended) != 0 {
		t.Error("unchanged live set must not notify")
	}
}

func TestCheckScheduleFindsFullWeek(t *testing.T) {
	// 2025-12-09 is a Tuesday: the coming week holds Wednesday 2025-12-10
	// and Sunday 2025-12-14.
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	api := &fakeAPI{upcoming: []broadcast.Broadcast{
		{
			ID:       "a",
			Name:     "Sunday Morning",
			StartsAt: time.Date(2025, time.December, 14, 9, 0, 0, 0, loc),
			StopsAt:  time.Date(2025, time.December, 14, 10, 0, 0, 0, loc),
		},
		{
			ID:       "b",
			Name:     "Sunday Worship",
			StartsAt: time.Date(2025, time.December, 14, 10, 50, 0, 0, loc),
			StopsAt:  time.Date(2025, time.December, 14, 12, 10, 0, 0, loc),
		},
		{
			ID:       "c",
			Name:     "Midweek",
			StartsAt: time.Date(2025, time.December, 10, 19, 0, 0, 0, loc),
			StopsAt:  time.Date(2025, time.December, 10, 20, 30, 0, 0, loc),
		},
	}}
	mon, store, notifier := newTestMonitor(t, api)

	now := time.Date(2025, time.December, 9, 8, 0, 0, 0, loc)
	report, err := mon.CheckSchedule(context.Background(), now)
	if err != nil {
		t.Fatalf("CheckSchedule: %v", err)
	}
	if !report.Checked || report.GapDetected() {
		t.Errorf("report = %+v", report)
	}
	if len(notifier.gaps) != 0 {
		t.Error("no gap notification expected")
	}
	if !store.ScheduleCheckedOn("2025-12-09") {
		t.Error("day not marked as checked")
	}
}

func TestCheckScheduleReportsMissingWednesday(t *testing.T) {
	// Both Sunday services are scheduled but Wednesday night is not. The
	// uncovered slot must be reported on its own.
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	api := &fakeAPI{upcoming: []broadcast.Broadcast{
		{
			ID:       "a",
			Name:     "Sunday Morning",
			StartsAt: time.Date(2025, time.December, 14, 9, 0, 0, 0, loc),
		},
		{
			ID:       "b",
			Name:     "Sunday Worship",
			StartsAt: time.Date(2025, time.December, 14, 11, 0, 0, 0, loc),
		},
	}}
	mon, _, notifier := newTestMonitor(t, api)

	now := time.Date(2025, time.December, 9, 8, 0, 0, 0, loc)
	report, err := mon.CheckSchedule(context.Background(), now)
	if err != nil {
		t.Fatalf("CheckSchedule: %v", err)
	}
	want := []string{"2025-12-10 (Wednesday): Wednesday Night window"}
	if !reflect.DeepEqual(report.Missing, want) {
		t.Errorf("missing = %v, want %v", report.Missing, want)
	}
	if len(notifier.gaps) != 1 || !reflect.DeepEqual(notifier.gaps[0], want) {
		t.Errorf("gap notifications = %v", notifier.gaps)
	}
}

func TestCheckScheduleReportsEverySlot(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// A Saturday-only broadcast never satisfies the expected windows.
	api := &fakeAPI{upcoming: []broadcast.Broadcast{
		{
			ID:       "a",
			Name:     "Gospel Concert",
			StartsAt: time.Date(2025, time.December, 13, 19, 0, 0, 0, loc),
			StopsAt:  time.Date(2025, time.December, 13, 21, 0, 0, 0, loc),
		},
	}}
	mon, _, notifier := newTestMonitor(t, api)

	now := time.Date(2025, time.December, 9, 8, 0, 0, 0, loc)
	report, err := mon.CheckSchedule(context.Background(), now)
	if err != nil {
		t.Fatalf("CheckSchedule: %v", err)
	}
	want := []string{
		"2025-12-10 (Wednesday): Wednesday Night window",
		"2025-12-14 (Sunday): 1st Service window",
		"2025-12-14 (Sunday): 2nd Service window",
	}
	if !reflect.DeepEqual(report.Missing, want) {
		t.Errorf("missing = %v, want %v", report.Missing, want)
	}
	if len(notifier.gaps) != 1 {
		t.Errorf("gap notifications = %d, want 1", len(notifier.gaps))
	}
}

func TestCheckScheduleDailyGate(t *testing.T) {
	api := &fakeAPI{}
	mon, store, _ := newTestMonitor(t, api)
	store.MarkScheduleChecked("2025-12-09")

	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	now := time.Date(2025, time.December, 9, 8, 0, 0, 0, loc)
	report, err := mon.CheckSchedule(context.Background(), now)
	if err != nil {
		t.Fatalf("CheckSchedule: %v", err)
	}
	if report.Checked {
		t.Error("second check on the same day must be gated")
	}
}
