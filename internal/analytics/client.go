// Package analytics provides the HTTP client for the video analytics
// backend. The client implements resource.StatsSource; callers treat its
// failures as best-effort enrichment losses, never as fatal errors.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/curator-io/curator/pkg/resource"
)

// Client fetches video statistics from the analytics backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client from cfg. Returns nil when no backend is configured;
// callers must leave the repository's stats source unset in that case rather
// than passing the nil pointer through the interface.
func New(cfg *Config, logger *slog.Logger) *Client {
	if !cfg.Enabled() {
		return nil
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:  logger.With("system", "analytics"),
	}
}

type statsRequest struct {
	EncodeIDs []string `json:"encodeIds"`
}

type statsResponse struct {
	Stats []resource.VideoStats `json:"stats"`
}

// VideoStats requests statistics for a batch of secondary identifiers.
// A timeout surfaces as resource.ErrTimeout so callers can report the
// distinct cause; identifiers the backend has no data for are absent from
// the returned map.
func (c *Client) VideoStats(ctx context.Context, encodeIDs []string) (map[string]resource.VideoStats, error) {
	body, err := json.Marshal(statsRequest{EncodeIDs: encodeIDs})
	if err != nil {
		return nil, fmt.Errorf("marshal stats request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/video-stats", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build stats request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, resource.ErrTimeout
		}
		return nil, fmt.Errorf("analytics request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analytics status %d", res.StatusCode)
	}

	var parsed statsResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode stats response: %w", err)
	}

	stats := make(map[string]resource.VideoStats, len(parsed.Stats))
	for _, s := range parsed.Stats {
		stats[s.EncodeID] = s
	}
	return stats, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
