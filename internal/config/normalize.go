package config

import (
	"fmt"
	"strings"
	"time"
)

// Normalize expands paths, lowercases keyword tables, and resolves derived
// values such as the time zone and start date. Load calls it after decoding;
// test helpers that assemble a Config by hand must call it themselves.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSchedule(); err != nil {
		return err
	}
	c.normalizeBoxCast()
	c.normalizeClassify()
	c.normalizeDownload()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.BaseDir, err = expandPath(c.Paths.BaseDir); err != nil {
		return fmt.Errorf("paths.base_dir: %w", err)
	}
	if c.Paths.StateFile, err = expandPath(c.Paths.StateFile); err != nil {
		return fmt.Errorf("paths.state_file: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.LockFile, err = expandPath(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	if c.Paths.AnalyticsDB, err = expandPath(c.Paths.AnalyticsDB); err != nil {
		return fmt.Errorf("paths.analytics_db: %w", err)
	}
	if c.Vault.KeyFile, err = expandPath(c.Vault.KeyFile); err != nil {
		return fmt.Errorf("vault.key_file: %w", err)
	}
	if c.Vault.VaultFile, err = expandPath(c.Vault.VaultFile); err != nil {
		return fmt.Errorf("vault.vault_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeSchedule() error {
	tz := strings.TrimSpace(c.Schedule.Timezone)
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	c.Schedule.Timezone = tz
	c.location = loc

	raw := strings.TrimSpace(c.Schedule.StartDate)
	if raw == "" {
		raw = defaultStartDate
	}
	day, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return fmt.Errorf("schedule.start_date: %w", err)
	}
	c.Schedule.StartDate = raw
	c.startDate = day

	if c.Schedule.DefaultDurationMinutes <= 0 {
		c.Schedule.DefaultDurationMinutes = defaultDurationMinutes
	}
	return nil
}

func (c *Config) normalizeBoxCast() {
	c.BoxCast.AuthURL = strings.TrimRight(strings.TrimSpace(c.BoxCast.AuthURL), "/")
	c.BoxCast.APIBase = strings.TrimRight(strings.TrimSpace(c.BoxCast.APIBase), "/")
	c.BoxCast.ClientID = strings.TrimSpace(c.BoxCast.ClientID)
	c.BoxCast.ClientSecret = strings.TrimSpace(c.BoxCast.ClientSecret)
	if c.BoxCast.RequestTimeout <= 0 {
		c.BoxCast.RequestTimeout = defaultRequestTimeout
	}
	if c.BoxCast.PageLimit <= 0 {
		c.BoxCast.PageLimit = defaultPageLimit
	}
}

func (c *Config) normalizeClassify() {
	c.Classify.YouthKeywords = normalizeKeywords(c.Classify.YouthKeywords)
	c.Classify.MemorialKeywords = normalizeKeywords(c.Classify.MemorialKeywords)
	c.Classify.WeddingKeywords = normalizeKeywords(c.Classify.WeddingKeywords)
	c.Classify.SpecialKeywords = normalizeKeywords(c.Classify.SpecialKeywords)
	c.Classify.AnnualEventKeyword = strings.ToLower(strings.TrimSpace(c.Classify.AnnualEventKeyword))
	c.Classify.SundayNightKeyword = strings.ToLower(strings.TrimSpace(c.Classify.SundayNightKeyword))

	holidays := c.Classify.Holidays[:0]
	for _, h := range c.Classify.Holidays {
		keyword := strings.ToLower(strings.TrimSpace(h.Keyword))
		label := strings.TrimSpace(h.Label)
		if keyword == "" || label == "" {
			continue
		}
		holidays = append(holidays, HolidayKeyword{Keyword: keyword, Label: label})
	}
	c.Classify.Holidays = holidays
}

func (c *Config) normalizeDownload() {
	if c.Download.PollInterval <= 0 {
		c.Download.PollInterval = defaultPollIntervalSeconds
	}
	if c.Download.PollMaxAttempts <= 0 {
		c.Download.PollMaxAttempts = defaultPollMaxAttempts
	}
	if c.Download.ChunkSizeMiB <= 0 {
		c.Download.ChunkSizeMiB = defaultChunkSizeMiB
	}
	ext := strings.TrimSpace(c.Download.Extension)
	if ext == "" {
		ext = defaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Download.Extension = strings.ToLower(ext)
}

func (c *Config) normalizeNotifications() {
	c.Notifications.Backend = strings.ToLower(strings.TrimSpace(c.Notifications.Backend))
	c.Notifications.WebhookURL = strings.TrimSpace(c.Notifications.WebhookURL)
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeKeywords(values []string) []string {
	out := values[:0]
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
