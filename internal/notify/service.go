package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"carillon/internal/config"
)

const userAgent = "Carillon/0.1.0"

// Service defines the notification surface exposed to workflow components.
// Every method honors the per-event toggles in configuration; a disabled
// event is silently dropped.
type Service interface {
	NotifyLiveStarted(ctx context.Context, names []string) error
	NotifyLiveEnded(ctx context.Context, names []string) error
	NotifyScheduleGap(ctx context.Context, missing []string) error
	NotifyAnalytics(ctx context.Context, report string) error
	NotifyDownloaded(ctx context.Context, name, path string, size int64) error
	NotifyRunSummary(ctx context.Context, summary RunSummary) error
	NotifyUncategorized(ctx context.Context, name, date string) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// DownloadRecord is one completed download listed in the run summary.
type DownloadRecord struct {
	Name     string
	Path     string
	Category string
}

// RunSummary carries everything the end-of-run notification reports.
type RunSummary struct {
	Downloads []DownloadRecord
	Skipped   int
	Pending   int
	Failed    int
	Bytes     int64
	Duration  time.Duration
}

// NewService builds a notification service for the configured backend. An
// empty or "none" backend returns a noop implementation.
func NewService(cfg *config.Config) Service {
	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	var out sender
	switch strings.ToLower(strings.TrimSpace(cfg.Notifications.Backend)) {
	case "discord":
		out = &discordSender{webhookURL: cfg.Notifications.WebhookURL, client: client}
	case "ntfy":
		out = &ntfySender{endpoint: cfg.Notifications.NtfyTopic, client: client}
	default:
		return noopService{}
	}
	return &service{out: out, events: cfg.Notifications}
}

// message is a backend-neutral notification.
type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type sender interface {
	send(ctx context.Context, msg message) error
}

type service struct {
	out    sender
	events config.Notifications
}

func (s *service) NotifyLiveStarted(ctx context.Context, names []string) error {
	if !s.events.Live || len(names) == 0 {
		return nil
	}
	return s.out.send(ctx, message{
		title: "Carillon - Live",
		body:  fmt.Sprintf("🔴 Now live: %s", strings.Join(names, ", ")),
		tags:  []string{"carillon", "live", "started"},
	})
}

func (s *service) NotifyLiveEnded(ctx context.Context, names []string) error {
	if !s.events.Live || len(names) == 0 {
		return nil
	}
	return s.out.send(ctx, message{
		title: "Carillon - Broadcast Ended",
		body:  fmt.Sprintf("Broadcast ended: %s", strings.Join(names, ", ")),
		tags:  []string{"carillon", "live", "ended"},
	})
}

func (s *service) NotifyScheduleGap(ctx context.Context, missing []string) error {
	if !s.events.Schedule || len(missing) == 0 {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("⚠️ Expected broadcasts not scheduled in the next 7 days:\n")
	for _, slot := range missing {
		builder.WriteString("- ")
		builder.WriteString(slot)
		builder.WriteString("\n")
	}
	return s.out.send(ctx, message{
		title:    "Carillon - Schedule Gap",
		body:     strings.TrimRight(builder.String(), "\n"),
		tags:     []string{"carillon", "schedule", "gap"},
		priority: "high",
	})
}

func (s *service) NotifyAnalytics(ctx context.Context, report string) error {
	if !s.events.Analytics || strings.TrimSpace(report) == "" {
		return nil
	}
	return s.out.send(ctx, message{
		title: "Carillon - Weekly Summary",
		body:  report,
		tags:  []string{"carillon", "analytics", "weekly"},
	})
}

func (s *service) NotifyDownloaded(ctx context.Context, name, path string, size int64) error {
	if !s.events.Downloads {
		return nil
	}
	return s.out.send(ctx, message{
		title: "Carillon - Downloaded",
		body:  fmt.Sprintf("✅ %s (%s)\nFile: %s", strings.TrimSpace(name), humanize.Bytes(uint64(size)), path),
		tags:  []string{"carillon", "download", "completed"},
	})
}

func (s *service) NotifyRunSummary(ctx context.Context, summary RunSummary) error {
	if !s.events.Downloads {
		return nil
	}

	duration := summary.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	var title string
	if summary.Failed == 0 {
		title = "Carillon - Run Complete"
	} else {
		title = "Carillon - Run Complete (with errors)"
	}

	var builder strings.Builder
	if len(summary.Downloads) == 0 {
		builder.WriteString("No new recordings were downloaded this run.")
	} else {
		fmt.Fprintf(&builder, "Downloads this run: %d\n", len(summary.Downloads))
		for _, d := range summary.Downloads {
			fmt.Fprintf(&builder, "- %s → %s (category: %s)\n", d.Name, d.Path, d.Category)
		}
	}
	if summary.Failed > 0 || summary.Pending > 0 || summary.Skipped > 0 || len(summary.Downloads) > 0 {
		fmt.Fprintf(&builder, "\nDownloaded %s, skipped %d, pending %d, failed %d in %s",
			humanize.Bytes(uint64(summary.Bytes)), summary.Skipped, summary.Pending, summary.Failed, duration)
	}

	return s.out.send(ctx, message{
		title: title,
		body:  strings.TrimSpace(builder.String()),
		tags:  []string{"carillon", "run", "completed"},
	})
}

func (s *service) NotifyUncategorized(ctx context.Context, name, date string) error {
	if !s.events.Uncategorized {
		return nil
	}
	return s.out.send(ctx, message{
		title: "Carillon - Uncategorized Broadcast",
		body:  fmt.Sprintf("Could not categorize %q (%s)\nFiled under Uncategorized for manual review", strings.TrimSpace(name), date),
		tags:  []string{"carillon", "uncategorized", "review"},
	})
}

func (s *service) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !s.events.Errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return s.out.send(ctx, message{
		title:    "Carillon - Error",
		body:     builder.String(),
		tags:     []string{"carillon", "error", "alert"},
		priority: "high",
	})
}

func (s *service) TestNotification(ctx context.Context) error {
	return s.out.send(ctx, message{
		title:    "Carillon - Test",
		body:     "🧪 Notification system test",
		tags:     []string{"carillon", "test"},
		priority: "low",
	})
}

type discordSender struct {
	webhookURL string
	client     *http.Client
}

func (d *discordSender) send(ctx context.Context, msg message) error {
	content := msg.body
	if msg.title != "" {
		content = "**" + msg.title + "**\n" + content
	}
	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("encode discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build discord request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send discord notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type ntfySender struct {
	endpoint string
	client   *http.Client
}

func (n *ntfySender) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyLiveStarted(context.Context, []string) error             { return nil }
func (noopService) NotifyLiveEnded(context.Context, []string) error               { return nil }
func (noopService) NotifyScheduleGap(context.Context, []string) error             { return nil }
func (noopService) NotifyAnalytics(context.Context, string) error                 { return nil }
func (noopService) NotifyDownloaded(context.Context, string, string, int64) error { return nil }
func (noopService) NotifyRunSummary(context.Context, RunSummary) error            { return nil }
func (noopService) NotifyUncategorized(context.Context, string, string) error     { return nil }
func (noopService) NotifyError(context.Context, error, string) error              { return nil }
func (noopService) TestNotification(context.Context) error                        { return nil }
