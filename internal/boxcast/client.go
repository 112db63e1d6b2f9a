package boxcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"carillon/internal/broadcast"
	"carillon/internal/config"
)

const userAgent = "Carillon/0.1.0"

// ErrAlreadyRequested marks an export-request conflict: the platform already
// holds a pending or completed export for the recording. Callers treat it as
// success.
var ErrAlreadyRequested = errors.New("export already requested")

// ErrNoRecording marks a broadcast whose detail carries no recording
// identifier.
var ErrNoRecording = errors.New("broadcast has no recording")

// API is the remote platform surface the engine consumes. The HTTP client
// implements it; tests substitute fakes.
type API interface {
	ListBroadcasts(ctx context.Context, filter Filter) ([]broadcast.Broadcast, error)
	BroadcastDetail(ctx context.Context, id string) (Detail, error)
	RequestExport(ctx context.Context, recordingID string) error
	PollExport(ctx context.Context, recordingID string) (ExportStatus, error)
	StreamDownload(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error)
}

// Client talks to the BoxCast REST API using OAuth2 client credentials. The
// bearer token is fetched lazily and cached for the process lifetime, which
// comfortably covers a single run.
type Client struct {
	authURL      string
	apiBase      string
	clientID     string
	clientSecret string
	pageLimit    int

	httpClient   *http.Client
	streamClient *http.Client

	token       string
	tokenExpiry time.Time
}

// NewClient builds a client from configuration. Credentials must already be
// resolved (config or vault).
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.BoxCast.RequestTimeout) * time.Second
	return &Client{
		authURL:      cfg.BoxCast.AuthURL,
		apiBase:      cfg.BoxCast.APIBase,
		clientID:     cfg.BoxCast.ClientID,
		clientSecret: cfg.BoxCast.ClientSecret,
		pageLimit:    cfg.BoxCast.PageLimit,
		httpClient:   &http.Client{Timeout: timeout},
		// Asset downloads run for as long as the stream needs; the
		// request context carries cancellation.
		streamClient: &http.Client{},
	}
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %s", resp.Status)
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", errors.New("token response missing access_token")
	}

	c.token = payload.AccessToken
	expiresIn := payload.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 300
	}
	// Refresh a minute early.
	c.tokenExpiry = time.Now().Add(time.Duration(expiresIn-60) * time.Second)
	return c.token, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	endpoint := c.apiBase + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// ListBroadcasts fetches account broadcasts matching the filter, sorted by
// start time.
func (c *Client) ListBroadcasts(ctx context.Context, filter Filter) ([]broadcast.Broadcast, error) {
	params := url.Values{"s": {"starts_at"}}

	limit := filter.Limit
	if limit <= 0 {
		limit = c.pageLimit
	}
	params.Set("l", strconv.Itoa(limit))

	if !filter.StartsAfter.IsZero() || !filter.StartsBefore.IsZero() {
		params.Set("q", startsAtRange(filter.StartsAfter, filter.StartsBefore))
	}
	if filter.HasRecording {
		params.Set("filter.has_recording", "true")
	}
	if filter.IsLive {
		params.Set("filter.is_live", "true")
	}

	var payloads []broadcastPayload
	if err := c.get(ctx, "/account/broadcasts", params, &payloads); err != nil {
		return nil, err
	}

	out := make([]broadcast.Broadcast, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, broadcast.Broadcast{
			ID:           p.ID,
			Name:         p.Name,
			StartsAt:     parseInstant(p.StartsAt),
			StopsAt:      parseInstant(p.StopsAt),
			IsLive:       p.IsLive,
			HasRecording: p.HasRecording,
		})
	}
	return out, nil
}

// BroadcastDetail fetches one broadcast, including its recording identifier.
func (c *Client) BroadcastDetail(ctx context.Context, id string) (Detail, error) {
	var payload detailPayload
	if err := c.get(ctx, "/account/broadcasts/"+id, nil, &payload); err != nil {
		return Detail{}, err
	}
	return Detail{
		ID:          payload.ID,
		Name:        payload.Name,
		RecordingID: payload.RecordingID,
		StopsAt:     parseInstant(payload.StopsAt),
	}, nil
}

// RequestExport asks the platform to prepare a recording for download.
// Returns ErrAlreadyRequested on a conflict response.
func (c *Client) RequestExport(ctx context.Context, recordingID string) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	endpoint := c.apiBase + "/account/recordings/" + recordingID + "/download"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader("{}"))
	if err != nil {
		return fmt.Errorf("build export request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request export: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return ErrAlreadyRequested
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return fmt.Errorf("export request returned %s", resp.Status)
	}
}

// PollExport fetches the current export status for a recording.
func (c *Client) PollExport(ctx context.Context, recordingID string) (ExportStatus, error) {
	var payload recordingPayload
	if err := c.get(ctx, "/account/recordings/"+recordingID, nil, &payload); err != nil {
		return ExportStatus{}, err
	}
	return ExportStatus{Raw: payload.DownloadStatus, DownloadURL: payload.DownloadURL}, nil
}

// StreamDownload opens the asset URL for reading. The returned size is -1
// when the server does not announce a content length. The caller owns the
// body.
func (c *Client) StreamDownload(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("open download stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("download returned %s", resp.Status)
	}
	return resp.Body, resp.ContentLength, nil
}

func startsAtRange(after, before time.Time) string {
	from := "0000-01-01T00:00:00Z"
	to := "9999-12-31T23:59:59Z"
	if !after.IsZero() {
		from = after.UTC().Format(time.RFC3339)
	}
	if !before.IsZero() {
		to = before.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("starts_at:[%s TO %s]", from, to)
}
