package boxcast

import (
	"strings"
	"time"
)

// Filter narrows a broadcast listing request.
type Filter struct {
	StartsAfter  time.Time
	StartsBefore time.Time
	HasRecording bool
	IsLive       bool
	Limit        int
}

// Detail is the per-broadcast lookup result carrying the recording link.
type Detail struct {
	ID          string
	Name        string
	RecordingID string
	StopsAt     time.Time
}

// ExportStatus is one poll result for a requested export.
type ExportStatus struct {
	Raw         string
	DownloadURL string
}

// Ready reports whether the export finished and the asset is downloadable.
func (s ExportStatus) Ready() bool {
	return s.Raw == "ready"
}

// Failed reports whether the export failed server-side. The platform uses
// several "failed*" variants; all are terminal.
func (s ExportStatus) Failed() bool {
	return strings.HasPrefix(s.Raw, "failed")
}

// wire payloads

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

type broadcastPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StartsAt     string `json:"starts_at"`
	StopsAt      string `json:"stops_at"`
	IsLive       bool   `json:"is_live"`
	HasRecording bool   `json:"has_recording"`
}

type detailPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	StopsAt     string `json:"stops_at"`
	RecordingID string `json:"recording_id"`
}

type recordingPayload struct {
	DownloadStatus string `json:"download_status"`
	DownloadURL    string `json:"download_url"`
}

func parseInstant(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
