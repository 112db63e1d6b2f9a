package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and state file configuration.
type Paths struct {
	BaseDir     string `toml:"base_dir"`
	StateFile   string `toml:"state_file"`
	LogDir      string `toml:"log_dir"`
	LockFile    string `toml:"lock_file"`
	AnalyticsDB string `toml:"analytics_db"`
}

// BoxCast contains connection settings for the remote broadcast API.
type BoxCast struct {
	AuthURL        string `toml:"auth_url"`
	APIBase        string `toml:"api_base"`
	ClientID       string `toml:"client_id"`
	ClientSecret   string `toml:"client_secret"`
	RequestTimeout int    `toml:"request_timeout"`
	PageLimit      int    `toml:"page_limit"`
}

// Vault contains the encrypted credential vault file locations. When both
// files exist, the decrypted values fill in any BoxCast or notification
// credentials left empty in the config.
type Vault struct {
	KeyFile   string `toml:"key_file"`
	VaultFile string `toml:"vault_file"`
}

// Schedule contains the organization's calendar settings.
type Schedule struct {
	Timezone               string `toml:"timezone"`
	StartDate              string `toml:"start_date"`
	DefaultDurationMinutes int    `toml:"default_duration_minutes"`
}

// Download contains export polling and file transfer settings.
type Download struct {
	PollInterval    int    `toml:"poll_interval"`
	PollMaxAttempts int    `toml:"poll_max_attempts"`
	ChunkSizeMiB    int    `toml:"chunk_size_mib"`
	Extension       string `toml:"extension"`
	MinFreeGiB      int    `toml:"min_free_gib"`
}

// Organizer contains destination naming behavior.
type Organizer struct {
	// HolidayOverwrite keeps the historical behavior where a second holiday
	// broadcast in the same year replaces the first file. When false a
	// numeric suffix is appended instead.
	HolidayOverwrite bool `toml:"holiday_overwrite"`
}

// HolidayKeyword pairs a case-insensitive name substring with the display
// label used in holiday filenames.
type HolidayKeyword struct {
	Keyword string `toml:"keyword"`
	Label   string `toml:"label"`
}

// Classify contains the keyword tables driving category assignment.
type Classify struct {
	YouthKeywords      []string         `toml:"youth_keywords"`
	MemorialKeywords   []string         `toml:"memorial_keywords"`
	WeddingKeywords    []string         `toml:"wedding_keywords"`
	SpecialKeywords    []string         `toml:"special_keywords"`
	AnnualEventKeyword string           `toml:"annual_event_keyword"`
	SundayNightKeyword string           `toml:"sunday_night_keyword"`
	Holidays           []HolidayKeyword `toml:"holidays"`
}

// Ledger contains idempotency ledger behavior.
type Ledger struct {
	// Strict aborts the run when the ledger file exists but cannot be
	// parsed. The default degrades to an empty ledger, accepting the
	// duplicate-download risk in exchange for availability.
	Strict bool `toml:"strict"`
}

// Notifications contains settings for the outbound notification channel.
type Notifications struct {
	Backend        string `toml:"backend"`
	WebhookURL     string `toml:"webhook_url"`
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Live           bool   `toml:"live"`
	Schedule       bool   `toml:"schedule"`
	Analytics      bool   `toml:"analytics"`
	Downloads      bool   `toml:"downloads"`
	Uncategorized  bool   `toml:"uncategorized"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Carillon.
//
// Configuration sections by subsystem:
//   - Paths: download root, ledger state file, logs, lock file
//   - BoxCast: remote API credentials and endpoints
//   - Vault: encrypted credential vault locations
//   - Schedule: local time zone, earliest broadcast date, default duration
//   - Download: export polling bounds and streaming parameters
//   - Organizer: destination naming behavior
//   - Classify: keyword tables for category assignment
//   - Ledger: idempotency ledger behavior
//   - Notifications: discord/ntfy delivery settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	BoxCast       BoxCast       `toml:"boxcast"`
	Vault         Vault         `toml:"vault"`
	Schedule      Schedule      `toml:"schedule"`
	Download      Download      `toml:"download"`
	Organizer     Organizer     `toml:"organizer"`
	Classify      Classify      `toml:"classify"`
	Ledger        Ledger        `toml:"ledger"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`

	location  *time.Location
	startDate time.Time
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/carillon/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and derived values resolved.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("carillon.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Location returns the organization's local time zone. Valid only after
// Normalize has run (Load and testsupport both guarantee this).
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// StartDate returns the earliest broadcast start instant (UTC) the download
// phase considers.
func (c *Config) StartDate() time.Time {
	return c.startDate
}

// DefaultDuration returns the duration assumed for broadcasts without an end
// instant.
func (c *Config) DefaultDuration() time.Duration {
	minutes := c.Schedule.DefaultDurationMinutes
	if minutes <= 0 {
		minutes = defaultDurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// PollInterval returns the export status polling cadence.
func (c *Config) PollInterval() time.Duration {
	seconds := c.Download.PollInterval
	if seconds <= 0 {
		seconds = defaultPollIntervalSeconds
	}
	return time.Duration(seconds) * time.Second
}

// ChunkSize returns the streaming copy buffer size in bytes.
func (c *Config) ChunkSize() int64 {
	mib := c.Download.ChunkSizeMiB
	if mib <= 0 {
		mib = defaultChunkSizeMiB
	}
	return int64(mib) << 20
}

// EnsureDirectories creates the directories required for a run. The base
// directory is created on a best-effort basis so config load does not fail
// while external storage is offline; the preflight check reports it instead.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	if dir := filepath.Dir(c.Paths.StateFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.BaseDir) != "" {
		_ = os.MkdirAll(c.Paths.BaseDir, 0o755)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
