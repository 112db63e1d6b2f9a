package ledger_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"carillon/internal/ledger"
	"carillon/internal/logging"
)

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	l, err := ledger.Load(path, false, logging.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if l.DownloadedCount() != 0 {
		t.Fatalf("expected empty ledger, got %d downloads", l.DownloadedCount())
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	l, err := ledger.Load(path, false, logging.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	l.MarkDownloaded("rec-1", "/broadcasts/1st Service/2025-12-07.mp4")
	l.SetLiveIDs([]string{"b1", "b2"})
	l.MarkScheduleChecked("2025-12-07")
	l.MarkAnalyticsRan("2025-12-08")
	l.BumpAnnual(2025)
	l.BumpAnnual(2025)
	if err := l.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := ledger.Load(path, true, logging.NewNop())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got, ok := reloaded.RecordingPath("rec-1"); !ok || got != "/broadcasts/1st Service/2025-12-07.mp4" {
		t.Fatalf("recording path lost: %q ok=%v", got, ok)
	}
	if ids := reloaded.LiveIDs(); len(ids) != 2 {
		t.Fatalf("live ids lost: %v", ids)
	}
	if !reloaded.ScheduleCheckedOn("2025-12-07") {
		t.Fatal("schedule gate date lost")
	}
	if reloaded.ScheduleCheckedOn("2025-12-08") {
		t.Fatal("schedule gate matched the wrong date")
	}
	if !reloaded.AnalyticsRanOn("2025-12-08") {
		t.Fatal("analytics gate date lost")
	}
	if reloaded.AnnualCount(2025) != 2 {
		t.Fatalf("annual count lost: %d", reloaded.AnnualCount(2025))
	}
	if reloaded.AnnualCount(2024) != 0 {
		t.Fatalf("unexpected count for other year: %d", reloaded.AnnualCount(2024))
	}
}

func TestCorruptLedgerDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	l, err := ledger.Load(path, false, logging.NewNop())
	if err != nil {
		t.Fatalf("non-strict load should not fail: %v", err)
	}
	if l.DownloadedCount() != 0 {
		t.Fatal("expected empty ledger after corruption")
	}
}

func TestCorruptLedgerStrictFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	if _, err := ledger.Load(path, true, logging.NewNop()); err == nil {
		t.Fatal("strict load should fail on corrupt ledger")
	}
}

func TestSavedDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	l, err := ledger.Load(path, false, logging.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	l.MarkDownloaded("rec-9", "/out/file.mp4")
	l.SetLiveIDs([]string{"live-1"})
	l.MarkScheduleChecked("2025-12-07")
	if err := l.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("saved ledger is not valid JSON: %v", err)
	}
	for _, key := range []string{"live_ids", "last_schedule_check_date", "downloaded_recordings"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("saved document missing %q: %v", key, doc)
		}
	}
}
