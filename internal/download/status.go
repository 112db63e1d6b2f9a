package download

// Status tracks a recording through the export and download pipeline.
type Status string

const (
	StatusNotRequested Status = "not-requested"
	StatusRequested    Status = "requested"
	StatusPolling      Status = "polling"
	StatusReady        Status = "ready"
	StatusDownloaded   Status = "downloaded"
	StatusFailed       Status = "failed"

	// StatusPending marks a recording whose export did not become ready
	// within the polling budget. The next run picks it up again.
	StatusPending Status = "pending"

	// StatusSkipped marks a recording that needed no work: already in the
	// ledger or already present on disk.
	StatusSkipped Status = "skipped"
)

// Terminal reports whether the pipeline is finished with the recording for
// this run.
func (s Status) Terminal() bool {
	switch s {
	case StatusDownloaded, StatusFailed, StatusPending, StatusSkipped:
		return true
	}
	return false
}
