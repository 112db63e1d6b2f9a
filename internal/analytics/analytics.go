package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
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

// CategoryCount tallies one category's broadcasts for a week.
type CategoryCount struct {
	Category  string
	Scheduled int
	Recorded  int
}

// Report is one weekly summary.
type Report struct {
	WeekStart   string
	GeneratedAt time.Time
	Counts      []CategoryCount
	Text        string
}

// Reporter builds the weekly broadcast summary. It runs on Mondays, at most
// once per day, with the gate persisted in the ledger.
type Reporter struct {
	api        boxcast.API
	store      *ledger.Ledger
	history    *Store
	classifier *broadcast.Classifier
	notifier   notify.Service
	logger     *slog.Logger
	loc        *time.Location
	duration   time.Duration
}

// NewReporter builds a reporter from configuration. history may be nil, in
// which case reports are delivered but not archived.
func NewReporter(cfg *config.Config, api boxcast.API, store *ledger.Ledger, history *Store, notifier notify.Service, logger *slog.Logger) *Reporter {
	return &Reporter{
		api:        api,
		store:      store,
		history:    history,
		classifier: broadcast.NewClassifier(broadcast.RulesFromConfig(cfg)),
		notifier:   notifier,
		logger:     logging.WithComponent(logger, "analytics"),
		loc:        cfg.Location(),
		duration:   cfg.DefaultDuration(),
	}
}

// Run produces the weekly report when due. On non-Mondays, or when the
// ledger shows a report already ran today, it returns (nil, nil).
func (r *Reporter) Run(ctx context.Context, now time.Time) (*Report, error) {
	local := now.In(r.loc)
	if local.Weekday() != time.Monday {
		return nil, nil
	}
	today := local.Format("2006-01-02")
	if r.store.AnalyticsRanOn(today) {
		return nil, nil
	}

	since := now.Add(-7 * 24 * time.Hour)
	items, err := r.api.ListBroadcasts(ctx, boxcast.Filter{
		StartsAfter:  since,
		StartsBefore: now,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "analytics", "list week", "", err)
	}

	report := r.build(items, since.In(r.loc), local)

	if r.history != nil {
		if err := r.history.SaveReport(ctx, *report); err != nil {
			r.logger.Warn("report archive failed", logging.Error(err))
		}
	}
	if err := r.notifier.NotifyAnalytics(ctx, report.Text); err != nil {
		r.logger.Warn("analytics notification failed", logging.Error(err))
	}

	r.store.MarkAnalyticsRan(today)
	r.logger.Info("weekly report generated",
		logging.String("week_start", report.WeekStart),
		logging.Int("broadcasts", len(items)))
	return report, nil
}

func (r *Reporter) build(items []broadcast.Broadcast, since, generated time.Time) *Report {
	// The API range query filters on UTC start instants; the report week is
	// bounded in local time, so boundary broadcasts can fall outside it.
	week := interval.New(since, generated)

	tally := make(map[string]*CategoryCount)
	for _, bc := range items {
		local := bc.LocalInterval(r.loc, r.duration)
		if !week.Contains(local.Start) {
			continue
		}
		cls := r.classifier.Classify(bc.Name, local, local.Start.Weekday())
		name := cls.Category.Display()

		count, ok := tally[name]
		if !ok {
			count = &CategoryCount{Category: name}
			tally[name] = count
		}
		count.Scheduled++
		if bc.HasRecording {
			count.Recorded++
		}
	}

	counts := make([]CategoryCount, 0, len(tally))
	for _, count := range tally {
		counts = append(counts, *count)
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Category < counts[j].Category })

	report := &Report{
		WeekStart:   since.Format("2006-01-02"),
		GeneratedAt: generated,
		Counts:      counts,
	}
	report.Text = renderText(report, r.store.DownloadedCount())
	return report
}

func renderText(report *Report, totalDownloads int) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Week of %s\n", report.WeekStart)
	if len(report.Counts) == 0 {
		builder.WriteString("No broadcasts this week\n")
	}
	for _, count := range report.Counts {
		fmt.Fprintf(&builder, "%s: %d broadcast(s), %d recorded\n", count.Category, count.Scheduled, count.Recorded)
	}
	fmt.Fprintf(&builder, "Library total: %d downloaded recording(s)", totalDownloads)
	return builder.String()
}
