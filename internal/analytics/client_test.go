package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/curator-io/curator/pkg/resource"
)

func newClient(t *testing.T, baseURL, timeout string) *Client {
	t.Helper()

	cfg := &Config{BaseURL: baseURL, Timeout: timeout}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	client := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if client == nil {
		t.Fatal("expected a configured client")
	}
	return client
}

func TestVideoStats(t *testing.T) {
	var gotIDs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/video-stats" {
			t.Errorf("path: %s", r.URL.Path)
		}

		var req struct {
			EncodeIDs []string `json:"encodeIds"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotIDs = req.EncodeIDs

		json.NewEncoder(w).Encode(map[string]any{
			"stats": []resource.VideoStats{
				{EncodeID: "enc-1", Views: 5, ViewTime: 60},
			},
		})
	}))
	defer server.Close()

	client := newClient(t, server.URL, "1s")

	stats, err := client.VideoStats(context.Background(), []string{"enc-1", "enc-2"})
	if err != nil {
		t.Fatalf("video stats: %v", err)
	}

	if len(gotIDs) != 2 {
		t.Errorf("request ids: %v", gotIDs)
	}
	if s, ok := stats["enc-1"]; !ok || s.Views != 5 {
		t.Errorf("stats: %+v", stats)
	}
	if _, ok := stats["enc-2"]; ok {
		t.Error("backend returned no data for enc-2, map should omit it")
	}
}

func TestVideoStatsTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := newClient(t, server.URL, "50ms")

	start := time.Now()
	_, err := client.VideoStats(context.Background(), []string{"enc-1"})
	if !errors.Is(err, resource.ErrTimeout) {
		t.Errorf("expected timeout cause, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("timeout not enforced")
	}
}

func TestVideoStatsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newClient(t, server.URL, "1s")

	if _, err := client.VideoStats(context.Background(), []string{"enc-1"}); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestNewDisabled(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if client := New(cfg, slog.Default()); client != nil {
		t.Error("unconfigured backend must yield a nil client")
	}
}

func TestConfigFinalize(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.Timeout != "3s" {
		t.Errorf("default timeout: %s", cfg.Timeout)
	}
	if cfg.Enabled() {
		t.Error("enabled without a base url")
	}

	bad := &Config{Timeout: "soon"}
	if err := bad.Finalize(nil); err == nil {
		t.Error("invalid timeout accepted")
	}

	t.Setenv("TEST_ANALYTICS_URL", "http://stats.internal")
	env := &Env{BaseURL: "TEST_ANALYTICS_URL"}
	cfg = &Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize with env: %v", err)
	}
	if cfg.BaseURL != "http://stats.internal" {
		t.Errorf("env override: %s", cfg.BaseURL)
	}
}
