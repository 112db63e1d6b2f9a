package preflight

import (
	"context"
	"fmt"
	"path/filepath"

	"carillon/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the storage preflight checks for the given config. The
// checks gate a run: a broadcast download onto a full or missing volume
// would waste an export request.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Destination directory", cfg.Paths.BaseDir),
		CheckDirectoryAccess("State directory", filepath.Dir(cfg.Paths.StateFile)),
		CheckFreeSpace("Free space", cfg.Paths.BaseDir, uint64(cfg.Download.MinFreeGiB)<<30),
	}

	if cfg.BoxCast.ClientID != "" && cfg.BoxCast.ClientSecret != "" {
		results = append(results, CheckAPI(ctx, cfg))
	} else {
		results = append(results, Result{Name: "Broadcast API", Detail: "credentials missing"})
	}

	return results
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// Failures summarizes failed checks for error messages.
func Failures(results []Result) []string {
	var out []string
	for _, result := range results {
		if !result.Passed {
			out = append(out, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	return out
}
