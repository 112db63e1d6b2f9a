// Package workflow orchestrates a single engine run: instance locking,
// storage preflight, live and schedule monitoring, the weekly report, and
// the classification and download pipeline, with the ledger saved at the
// end regardless of outcome.
package workflow
