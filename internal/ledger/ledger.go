package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/renameio/v2"

	"carillon/internal/logging"
)

// state is the persisted JSON document. One document holds everything the
// engine needs to stay idempotent across runs.
type state struct {
	LiveIDs               []string          `json:"live_ids"`
	LastScheduleCheckDate string            `json:"last_schedule_check_date,omitempty"`
	LastAnalyticsDate     string            `json:"last_analytics_date,omitempty"`
	DownloadedRecordings  map[string]string `json:"downloaded_recordings"`
	AnnualCounts          map[string]int    `json:"annual_counts,omitempty"`
}

func emptyState() state {
	return state{
		DownloadedRecordings: map[string]string{},
		AnnualCounts:         map[string]int{},
	}
}

// Ledger is the durable idempotency record: which recordings have been fully
// downloaded, which broadcasts were live last run, and when the periodic
// checks last fired. It is mutated in memory by the single run thread and
// written once at run end.
type Ledger struct {
	path  string
	state state
}

// Load reads the ledger document. A missing file yields an empty ledger. A
// corrupt file yields an error when strict is true; otherwise the ledger
// degrades to empty with a warning, accepting duplicate-download risk.
func Load(path string, strict bool, logger *slog.Logger) (*Ledger, error) {
	logger = logging.WithComponent(logger, "ledger")

	l := &Ledger{path: path, state: emptyState()}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return l, nil
		}
		if strict {
			return nil, fmt.Errorf("read ledger: %w", err)
		}
		logger.Warn("ledger unreadable, starting empty", logging.Error(err), logging.String("path", path))
		return l, nil
	}

	var loaded state
	if err := json.Unmarshal(data, &loaded); err != nil {
		if strict {
			return nil, fmt.Errorf("parse ledger %s: %w", path, err)
		}
		logger.Warn("ledger corrupt, starting empty; completed downloads may be re-fetched",
			logging.Error(err), logging.String("path", path))
		return l, nil
	}

	if loaded.DownloadedRecordings == nil {
		loaded.DownloadedRecordings = map[string]string{}
	}
	if loaded.AnnualCounts == nil {
		loaded.AnnualCounts = map[string]int{}
	}
	l.state = loaded
	return l, nil
}

// Save writes the document atomically (temp file plus rename), so a crash
// mid-save never corrupts the previous ledger.
func (l *Ledger) Save() error {
	data, err := json.MarshalIndent(l.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if dir := filepath.Dir(l.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure ledger directory: %w", err)
		}
	}
	if err := renameio.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

// Path returns the backing file location.
func (l *Ledger) Path() string {
	return l.path
}

// RecordingPath returns the output path recorded for a recording identifier
// and whether the recording has already been handled. Presence is a deliberate
// "already handled" marker, honored even if the file was deleted later.
func (l *Ledger) RecordingPath(recordingID string) (string, bool) {
	path, ok := l.state.DownloadedRecordings[recordingID]
	return path, ok
}

// MarkDownloaded records a completed download.
func (l *Ledger) MarkDownloaded(recordingID, outputPath string) {
	l.state.DownloadedRecordings[recordingID] = outputPath
}

// DownloadedCount returns the number of recordings ever completed.
func (l *Ledger) DownloadedCount() int {
	return len(l.state.DownloadedRecordings)
}

// Downloads returns a copy of the recording-to-path map.
func (l *Ledger) Downloads() map[string]string {
	out := make(map[string]string, len(l.state.DownloadedRecordings))
	for id, path := range l.state.DownloadedRecordings {
		out[id] = path
	}
	return out
}

// LiveIDs returns the broadcast identifiers that were live at the end of the
// previous run.
func (l *Ledger) LiveIDs() []string {
	out := make([]string, len(l.state.LiveIDs))
	copy(out, l.state.LiveIDs)
	return out
}

// SetLiveIDs replaces the live broadcast set.
func (l *Ledger) SetLiveIDs(ids []string) {
	cp := make([]string, len(ids))
	copy(cp, ids)
	l.state.LiveIDs = cp
}

// ScheduleCheckedOn reports whether the schedule-gap check already ran on the
// given local calendar date (formatted YYYY-MM-DD).
func (l *Ledger) ScheduleCheckedOn(date string) bool {
	return l.state.LastScheduleCheckDate == date
}

// MarkScheduleChecked records the schedule-gap check date.
func (l *Ledger) MarkScheduleChecked(date string) {
	l.state.LastScheduleCheckDate = date
}

// LastScheduleCheck returns the date of the most recent schedule-gap check,
// or empty when it has never run.
func (l *Ledger) LastScheduleCheck() string {
	return l.state.LastScheduleCheckDate
}

// AnalyticsRanOn reports whether the weekly analytics summary already ran on
// the given local calendar date.
func (l *Ledger) AnalyticsRanOn(date string) bool {
	return l.state.LastAnalyticsDate == date
}

// MarkAnalyticsRan records the analytics run date.
func (l *Ledger) MarkAnalyticsRan(date string) {
	l.state.LastAnalyticsDate = date
}

// LastAnalytics returns the date of the most recent weekly summary, or empty
// when it has never run.
func (l *Ledger) LastAnalytics() string {
	return l.state.LastAnalyticsDate
}

// AnnualCount reports how many annual-event recordings have been filed for a
// year. Implements the organizer's counter.
func (l *Ledger) AnnualCount(year int) int {
	return l.state.AnnualCounts[strconv.Itoa(year)]
}

// BumpAnnual increments the annual-event counter for a year.
func (l *Ledger) BumpAnnual(year int) {
	l.state.AnnualCounts[strconv.Itoa(year)]++
}
