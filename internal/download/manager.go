package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"carillon/internal/boxcast"
	"carillon/internal/broadcast"
	"carillon/internal/config"
	"carillon/internal/ledger"
	"carillon/internal/logging"
	"carillon/internal/organizer"
	"carillon/internal/services"
)

// Result records what happened to one broadcast during a run. Category is
// the display label assigned by the classifier; the caller fills it in.
type Result struct {
	Broadcast   broadcast.Broadcast
	RecordingID string
	Category    string
	Destination organizer.Destination
	Status      Status
	Bytes       int64
	Err         error
}

// Manager drives a recording from export request through polling to an
// atomic file write. State transitions are recorded in the ledger so a rerun
// never downloads the same recording twice.
type Manager struct {
	api          boxcast.API
	store        *ledger.Ledger
	logger       *slog.Logger
	pollInterval time.Duration
	maxAttempts  int
	chunkSize    int64
}

// NewManager builds a manager from configuration.
func NewManager(cfg *config.Config, api boxcast.API, store *ledger.Ledger, logger *slog.Logger) *Manager {
	return &Manager{
		api:          api,
		store:        store,
		logger:       logging.WithComponent(logger, "download"),
		pollInterval: cfg.PollInterval(),
		maxAttempts:  cfg.Download.PollMaxAttempts,
		chunkSize:    cfg.ChunkSize(),
	}
}

// Process runs the full pipeline for one broadcast with an already resolved
// destination. Failures are captured in the result rather than aborting the
// run, except for context cancellation which is returned directly.
func (m *Manager) Process(ctx context.Context, bc broadcast.Broadcast, dest organizer.Destination) (Result, error) {
	res := Result{Broadcast: bc, Destination: dest, Status: StatusNotRequested}

	detail, err := m.api.BroadcastDetail(ctx, bc.ID)
	if err != nil {
		return m.fail(res, services.Wrap(services.ErrTransient, "download", "detail", bc.Name, err))
	}
	if detail.RecordingID == "" {
		return m.fail(res, services.Wrap(services.ErrNotFound, "download", "detail", bc.Name, boxcast.ErrNoRecording))
	}
	res.RecordingID = detail.RecordingID

	if skip, why := m.shouldSkip(detail.RecordingID, dest); skip {
		res.Status = StatusSkipped
		m.logger.Info("skipping recording",
			logging.String("broadcast", bc.Name),
			logging.String("recording_id", detail.RecordingID),
			logging.String("reason", why))
		return res, nil
	}

	if err := m.requestExport(ctx, detail.RecordingID); err != nil {
		return m.fail(res, err)
	}
	res.Status = StatusRequested

	status, err := m.awaitReady(ctx, &res, detail.RecordingID)
	if err != nil {
		if errors.Is(err, ctx.Err()) && ctx.Err() != nil {
			return res, err
		}
		return m.fail(res, err)
	}
	if res.Status == StatusPending {
		m.logger.Warn("export still pending after polling budget",
			logging.String("broadcast", bc.Name),
			logging.String("recording_id", detail.RecordingID))
		return res, nil
	}
	res.Status = StatusReady

	bytes, err := m.fetch(ctx, status.DownloadURL, dest)
	if err != nil {
		if errors.Is(err, ctx.Err()) && ctx.Err() != nil {
			return res, err
		}
		return m.fail(res, services.Wrap(services.ErrTransient, "download", "fetch", bc.Name, err))
	}
	res.Bytes = bytes
	res.Status = StatusDownloaded

	m.store.MarkDownloaded(detail.RecordingID, dest.Path())
	m.logger.Info("recording downloaded",
		logging.String("broadcast", bc.Name),
		logging.String("path", dest.Path()),
		logging.Int64("bytes", bytes))
	return res, nil
}

func (m *Manager) shouldSkip(recordingID string, dest organizer.Destination) (bool, string) {
	if path, ok := m.store.RecordingPath(recordingID); ok {
		return true, "already recorded in ledger at " + path
	}
	if _, err := os.Stat(dest.Path()); err == nil {
		return true, "file already exists"
	}
	return false, ""
}

func (m *Manager) requestExport(ctx context.Context, recordingID string) error {
	err := m.api.RequestExport(ctx, recordingID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, boxcast.ErrAlreadyRequested):
		// An earlier run asked for the export; polling proceeds.
		m.logger.Debug("export already requested", logging.String("recording_id", recordingID))
		return nil
	default:
		return services.Wrap(services.ErrTransient, "download", "request export", recordingID, err)
	}
}

// awaitReady polls until the export is ready, fails, the attempt budget is
// exhausted, or the context ends. A failed export surfaces as an error; an
// exhausted budget sets StatusPending on the result.
func (m *Manager) awaitReady(ctx context.Context, res *Result, recordingID string) (boxcast.ExportStatus, error) {
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		status, err := m.api.PollExport(ctx, recordingID)
		if err != nil {
			return boxcast.ExportStatus{}, services.Wrap(services.ErrTransient, "download", "poll", recordingID, err)
		}
		switch {
		case status.Ready():
			return status, nil
		case status.Failed():
			return boxcast.ExportStatus{}, services.Wrap(services.ErrTransient, "download", "poll", recordingID,
				fmt.Errorf("export failed with status %q", status.Raw))
		}
		res.Status = StatusPolling
		if attempt == m.maxAttempts {
			break
		}
		if err := sleepCtx(ctx, m.pollInterval); err != nil {
			return boxcast.ExportStatus{}, err
		}
	}
	res.Status = StatusPending
	return boxcast.ExportStatus{}, nil
}

// fetch streams the asset into the destination through a temporary file that
// is renamed into place only after a complete, flushed write.
func (m *Manager) fetch(ctx context.Context, downloadURL string, dest organizer.Destination) (int64, error) {
	if downloadURL == "" {
		return 0, errors.New("export is ready but carries no download URL")
	}
	if err := os.MkdirAll(dest.Dir, 0o755); err != nil {
		return 0, fmt.Errorf("create destination directory: %w", err)
	}

	body, _, err := m.api.StreamDownload(ctx, downloadURL)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	pending, err := renameio.NewPendingFile(dest.Path(), renameio.WithPermissions(0o644))
	if err != nil {
		return 0, fmt.Errorf("create temp file in %s: %w", dest.Dir, err)
	}
	defer pending.Cleanup()

	written, err := io.CopyBuffer(pending, body, make([]byte, m.chunkSize))
	if err != nil {
		return written, fmt.Errorf("write %s: %w", filepath.Base(dest.Filename), err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return written, fmt.Errorf("finalize %s: %w", dest.Path(), err)
	}
	return written, nil
}

func (m *Manager) fail(res Result, err error) (Result, error) {
	res.Status = StatusFailed
	res.Err = err
	m.logger.Error("download failed",
		logging.String("broadcast", res.Broadcast.Name),
		logging.Error(err))
	return res, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
