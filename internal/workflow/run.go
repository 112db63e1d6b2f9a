package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"carillon/internal/analytics"
	"carillon/internal/boxcast"
	"carillon/internal/broadcast"
	"carillon/internal/download"
	"carillon/internal/ledger"
	"carillon/internal/logging"
	"carillon/internal/monitor"
	"carillon/internal/notify"
	"carillon/internal/organizer"
	"carillon/internal/preflight"
	"carillon/internal/services"
)

// Run executes one full engine pass. Item-level failures are tolerated and
// reported in the result; only lock contention, failed preflight, ledger
// problems, and listing errors abort the run.
func (m *Manager) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	logger := m.logger.With(logging.String("run_id", m.runID))

	locked, err := m.lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "workflow", "lock", m.cfg.Paths.LockFile, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConflict, "workflow", "lock", "", errors.New("another run holds the lock"))
	}
	defer func() { _ = m.lock.Unlock() }()

	checks := preflight.RunAll(ctx, m.cfg)
	if !preflight.AllPassed(checks) {
		detail := strings.Join(preflight.Failures(checks), "; ")
		err := services.Wrap(services.ErrValidation, "workflow", "preflight", detail, nil)
		if notifyErr := m.notifier.NotifyError(ctx, err, "preflight"); notifyErr != nil {
			logger.Warn("error notification failed", logging.Error(notifyErr))
		}
		return nil, err
	}

	store, err := ledger.Load(m.cfg.Paths.StateFile, m.cfg.Ledger.Strict, logger)
	if err != nil {
		return nil, err
	}

	result := &RunResult{RunID: m.runID, Started: started}
	defer func() {
		if saveErr := store.Save(); saveErr != nil {
			logger.Error("ledger save failed", logging.Error(saveErr))
		}
		result.Duration = time.Since(started)
	}()

	mon := monitor.New(m.cfg, m.api, store, m.notifier, logger)
	if result.Live, err = mon.CheckLive(ctx); err != nil {
		if services.IsFatal(err) {
			return result, err
		}
		logger.Warn("live check failed", logging.Error(err))
	}
	if result.Schedule, err = mon.CheckSchedule(ctx, started); err != nil {
		if services.IsFatal(err) {
			return result, err
		}
		logger.Warn("schedule check failed", logging.Error(err))
	}

	reporter := analytics.NewReporter(m.cfg, m.api, store, m.history, m.notifier, logger)
	if result.Report, err = reporter.Run(ctx, started); err != nil {
		if services.IsFatal(err) {
			return result, err
		}
		logger.Warn("weekly report failed", logging.Error(err))
	}

	if err := m.processBroadcasts(ctx, store, result, logger); err != nil {
		return result, err
	}

	m.summarize(ctx, result, logger)
	return result, nil
}

func (m *Manager) processBroadcasts(ctx context.Context, store *ledger.Ledger, result *RunResult, logger *slog.Logger) error {
	items, err := m.api.ListBroadcasts(ctx, boxcast.Filter{
		StartsAfter:  m.cfg.StartDate(),
		HasRecording: true,
	})
	if err != nil {
		return services.Wrap(services.ErrTransient, "workflow", "list broadcasts", "", err)
	}
	logger.Info("broadcasts listed", logging.Int("count", len(items)))

	classifier := broadcast.NewClassifier(broadcast.RulesFromConfig(m.cfg))
	resolver := organizer.NewResolver(m.cfg, store)
	downloader := download.NewManager(m.cfg, m.api, store, logger)
	loc := m.cfg.Location()
	duration := m.cfg.DefaultDuration()

	for _, bc := range items {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		local := bc.LocalInterval(loc, duration)
		cls := classifier.Classify(bc.Name, local, local.Start.Weekday())
		if cls.Skip() {
			logger.Debug("broadcast excluded",
				logging.String("broadcast", bc.Name),
				logging.String("category", string(cls.Category)))
			continue
		}

		if cls.Category == broadcast.CategoryUncategorized {
			date := local.Start.Format("2006-01-02")
			if err := m.notifier.NotifyUncategorized(ctx, bc.Name, date); err != nil {
				logger.Warn("uncategorized notification failed", logging.Error(err))
			}
		}

		dest, err := resolver.Resolve(cls, local, bc.Name)
		if err != nil {
			result.Failed++
			result.Items = append(result.Items, download.Result{
				Broadcast: bc,
				Category:  cls.Category.Display(),
				Status:    download.StatusFailed,
				Err:       services.Wrap(services.ErrValidation, "workflow", "resolve destination", bc.Name, err),
			})
			continue
		}

		item, err := downloader.Process(ctx, bc, dest)
		if err != nil {
			return err
		}
		item.Category = cls.Category.Display()
		result.Items = append(result.Items, item)

		if !item.Status.Terminal() {
			continue
		}
		switch item.Status {
		case download.StatusDownloaded:
			result.Downloaded++
			result.Bytes += item.Bytes
			if cls.Category == broadcast.CategoryChristmasAnnual {
				store.BumpAnnual(local.Start.Year())
			}
			if err := m.notifier.NotifyDownloaded(ctx, bc.Name, dest.Path(), item.Bytes); err != nil {
				logger.Warn("download notification failed", logging.Error(err))
			}
		case download.StatusSkipped:
			result.Skipped++
		case download.StatusPending:
			result.Pending++
		case download.StatusFailed:
			result.Failed++
			if err := m.notifier.NotifyError(ctx, item.Err, bc.Name); err != nil {
				logger.Warn("error notification failed", logging.Error(err))
			}
		}
	}
	return nil
}

func (m *Manager) summarize(ctx context.Context, result *RunResult, logger *slog.Logger) {
	logger.Info("run complete",
		logging.Int("downloaded", result.Downloaded),
		logging.Int("skipped", result.Skipped),
		logging.Int("pending", result.Pending),
		logging.Int("failed", result.Failed),
		logging.Int64("bytes", result.Bytes),
		logging.Duration("duration", time.Since(result.Started)))

	summary := notify.RunSummary{
		Skipped:  result.Skipped,
		Pending:  result.Pending,
		Failed:   result.Failed,
		Bytes:    result.Bytes,
		Duration: time.Since(result.Started),
	}
	for _, item := range result.Items {
		if item.Status != download.StatusDownloaded {
			continue
		}
		summary.Downloads = append(summary.Downloads, notify.DownloadRecord{
			Name:     item.Broadcast.Name,
			Path:     item.Destination.Path(),
			Category: item.Category,
		})
	}
	if err := m.notifier.NotifyRunSummary(ctx, summary); err != nil {
		logger.Warn("summary notification failed", logging.Error(err))
	}
}
