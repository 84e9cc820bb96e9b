package resource_test

import (
	"context"
	"errors"
	"testing"

	"github.com/curator-io/curator/pkg/resource"
)

type fakeStats struct {
	stats map[string]resource.VideoStats
	err   error
	calls [][]string
}

func (f *fakeStats) VideoStats(ctx context.Context, encodeIDs []string) (map[string]resource.VideoStats, error) {
	f.calls = append(f.calls, encodeIDs)
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func TestAddVideoAnalytics(t *testing.T) {
	source := &fakeStats{stats: map[string]resource.VideoStats{
		"enc-1": {EncodeID: "enc-1", Views: 12, ViewTime: 340.5},
	}}
	repo, _ := newRepo(t, resource.Options{Stats: source})

	items := []item{
		{Name: "hit", Kind: resource.KindVideo, EncodeID: "enc-1"},
		{Name: "miss", Kind: resource.KindVideo, EncodeID: "enc-2"},
		{Name: "image", Kind: "image", EncodeID: "enc-3"},
	}

	enriched, err := repo.AddVideoAnalytics(context.Background(), items)
	if err != nil {
		t.Fatalf("enrichment failed: %v", err)
	}

	if enriched[0].Views != 12 || enriched[0].ViewTime != 340.5 {
		t.Errorf("stats not applied: %+v", enriched[0])
	}
	if enriched[1].Views != 0 {
		t.Errorf("item without stats mutated: %+v", enriched[1])
	}
	if enriched[2].Views != 0 {
		t.Errorf("non-video item mutated: %+v", enriched[2])
	}

	if len(source.calls) != 1 || len(source.calls[0]) != 2 {
		t.Errorf("expected one batched call for the two video items, got %v", source.calls)
	}
}

func TestAddVideoAnalyticsFailureKeepsItems(t *testing.T) {
	source := &fakeStats{err: errors.New("backend down")}
	repo, _ := newRepo(t, resource.Options{Stats: source})

	items := []item{{Name: "clip", Kind: resource.KindVideo, EncodeID: "enc-1"}}

	enriched, err := repo.AddVideoAnalytics(context.Background(), items)
	if err == nil {
		t.Error("expected the failure to surface as a non-fatal error")
	}
	if len(enriched) != 1 || enriched[0].Name != "clip" {
		t.Errorf("items lost on failure: %+v", enriched)
	}
}

func TestAddVideoAnalyticsTimeout(t *testing.T) {
	source := &fakeStats{err: resource.ErrTimeout}
	repo, _ := newRepo(t, resource.Options{Stats: source})

	_, err := repo.AddVideoAnalytics(context.Background(), []item{
		{Kind: resource.KindVideo, EncodeID: "enc-1"},
	})
	if !errors.Is(err, resource.ErrTimeout) {
		t.Errorf("timeout cause lost: %v", err)
	}
}

func TestAddVideoAnalyticsNoSource(t *testing.T) {
	repo, _ := newRepo(t, resource.Options{})

	items := []item{{Kind: resource.KindVideo, EncodeID: "enc-1"}}
	enriched, err := repo.AddVideoAnalytics(context.Background(), items)
	if err != nil {
		t.Fatalf("no source must be a no-op: %v", err)
	}
	if len(enriched) != 1 {
		t.Errorf("items lost: %+v", enriched)
	}
}

func TestAddVideoAnalyticsNoVideoItems(t *testing.T) {
	source := &fakeStats{}
	repo, _ := newRepo(t, resource.Options{Stats: source})

	_, err := repo.AddVideoAnalytics(context.Background(), []item{{Kind: "image"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(source.calls) != 0 {
		t.Error("source called with no video items")
	}
}
