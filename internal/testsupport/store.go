package testsupport

import (
	"testing"

	"carillon/internal/config"
	"carillon/internal/ledger"
	"carillon/internal/logging"
)

// MustOpenLedger loads the ledger backing the test config's state file.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Ledger {
	t.Helper()

	store, err := ledger.Load(cfg.Paths.StateFile, cfg.Ledger.Strict, logging.NewNop())
	if err != nil {
		t.Fatalf("ledger.Load: %v", err)
	}
	return store
}
