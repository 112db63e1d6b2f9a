package workflow

import (
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"carillon/internal/analytics"
	"carillon/internal/boxcast"
	"carillon/internal/config"
	"carillon/internal/download"
	"carillon/internal/monitor"
	"carillon/internal/notify"
)

// Manager coordinates one engine run: monitoring, the scheduled checks, and
// the classification and download pipeline.
type Manager struct {
	cfg      *config.Config
	api      boxcast.API
	notifier notify.Service
	logger   *slog.Logger
	lock     *flock.Flock
	history  *analytics.Store
	runID    string
}

// RunResult summarizes one completed run.
type RunResult struct {
	RunID      string
	Started    time.Time
	Duration   time.Duration
	Live       monitor.LiveReport
	Schedule   monitor.ScheduleReport
	Report     *analytics.Report
	Items      []download.Result
	Downloaded int
	Skipped    int
	Pending    int
	Failed     int
	Bytes      int64
}

// NewManager constructs a manager with the production API client and
// notification service.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	return NewManagerWithDeps(cfg, boxcast.NewClient(cfg), notify.NewService(cfg), logger)
}

// NewManagerWithDeps constructs a manager with explicit dependencies (used
// in tests).
func NewManagerWithDeps(cfg *config.Config, api boxcast.API, notifier notify.Service, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		api:      api,
		notifier: notifier,
		logger:   logger,
		lock:     flock.New(cfg.Paths.LockFile),
		runID:    uuid.NewString()[:8],
	}
}

// WithHistory attaches the analytics history store. Without it weekly
// reports are delivered but not archived.
func (m *Manager) WithHistory(history *analytics.Store) *Manager {
	m.history = history
	return m
}

// RunID returns the correlation id stamped on every log line of this run.
func (m *Manager) RunID() string {
	return m.runID
}
