package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"carillon/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.BaseDir = filepath.Join(base, "broadcasts")
	cfgVal.Paths.StateFile = filepath.Join(base, "state", "state.json")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LockFile = filepath.Join(base, "state", "carillon.lock")
	cfgVal.Paths.AnalyticsDB = filepath.Join(base, "state", "analytics.db")
	cfgVal.BoxCast.ClientID = "test-client"
	cfgVal.BoxCast.ClientSecret = "test-secret"
	cfgVal.Download.MinFreeGiB = 0

	for _, dir := range []string{cfgVal.Paths.BaseDir, filepath.Dir(cfgVal.Paths.StateFile), cfgVal.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Normalize(); err != nil {
		t.Fatalf("normalize test config: %v", err)
	}
	return builder.cfg
}

// WithCredentials sets the API credentials on the test config.
func WithCredentials(clientID, clientSecret string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.BoxCast.ClientID = clientID
		b.cfg.BoxCast.ClientSecret = clientSecret
	}
}

// WithStartDate overrides the engine start date on the test config.
func WithStartDate(date string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Schedule.StartDate = date
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.BaseDir)
}
