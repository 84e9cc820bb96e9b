package resource

import (
	"context"
	"errors"
)

// KindVideo marks entities eligible for video analytics enrichment.
const KindVideo = "video"

// ErrTimeout is returned by a StatsSource when the analytics backend did not
// answer in time. It is the one failure cause callers are expected to
// distinguish.
var ErrTimeout = errors.New("analytics request timed out")

// VideoStats is the per-video analytics record, keyed by the entity's
// secondary identifier.
type VideoStats struct {
	EncodeID string  `json:"encodeId"`
	Views    int64   `json:"views"`
	ViewTime float64 `json:"viewTime"`
}

// StatsSource supplies analytics for a batch of secondary identifiers.
// Identifiers without stats are simply absent from the returned map.
type StatsSource interface {
	VideoStats(ctx context.Context, encodeIDs []string) (map[string]VideoStats, error)
}

// Enrichable is implemented by entity types that can absorb video analytics.
type Enrichable interface {
	AnalyticsKind() string
	AnalyticsID() string
	ApplyStats(stats VideoStats)
}

// AddVideoAnalytics merges video statistics into items in place, matched by
// secondary identifier. Enrichment is best effort: items always come back,
// and a non-nil error only signals that stats could not be fetched. Items
// that are not video entities, or have no stats, are left untouched.
func (r *Repository[T]) AddVideoAnalytics(ctx context.Context, items []T) ([]T, error) {
	if r.stats == nil || len(items) == 0 {
		return items, nil
	}

	encodeIDs := make([]string, 0, len(items))
	for i := range items {
		e, ok := any(&items[i]).(Enrichable)
		if !ok {
			return items, nil
		}
		if e.AnalyticsKind() == KindVideo && e.AnalyticsID() != "" {
			encodeIDs = append(encodeIDs, e.AnalyticsID())
		}
	}
	if len(encodeIDs) == 0 {
		return items, nil
	}

	stats, err := r.stats.VideoStats(ctx, encodeIDs)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			r.logger.Warn("analytics enrichment timed out")
		} else {
			r.logger.Warn("analytics enrichment failed", "error", err)
		}
		return items, err
	}

	for i := range items {
		e, ok := any(&items[i]).(Enrichable)
		if !ok {
			continue
		}
		if s, found := stats[e.AnalyticsID()]; found {
			e.ApplyStats(s)
		}
	}
	return items, nil
}
