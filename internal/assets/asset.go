// Package assets implements the media asset domain for Curator.
// It provides types, data access, and business logic for tenant-scoped
// asset management: lifecycle transitions, partial updates, aggregates,
// and best-effort video analytics enrichment.
package assets

import "github.com/curator-io/curator/pkg/resource"

// Collection is the document store collection holding assets.
const Collection = "assets"

// Asset represents a managed media asset within one tenant scope.
type Asset struct {
	ID          string   `json:"id,omitempty"`
	AppID       string   `json:"appId,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Kind        string   `json:"kind,omitempty"`
	Size        float64  `json:"size,omitempty"`
	Duration    float64  `json:"duration,omitempty"`
	EncodeID    string   `json:"encodeId,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Status      int      `json:"status"`
	DeletedRoot bool     `json:"deletedRoot,omitempty"`
	Reported    bool     `json:"reported,omitempty"`

	// Views and ViewTime are populated by analytics enrichment only;
	// they are never stored.
	Views    int64   `json:"views,omitempty"`
	ViewTime float64 `json:"viewTime,omitempty"`
}

// Fields returns the declared mutable field set for assets. Partial updates
// outside this set are silently dropped.
func Fields() []string {
	return []string{"name", "description", "kind", "size", "duration", "encodeId", "tags"}
}

// AnalyticsKind reports the asset kind for enrichment eligibility.
func (a *Asset) AnalyticsKind() string {
	return a.Kind
}

// AnalyticsID returns the secondary identifier analytics are keyed by.
func (a *Asset) AnalyticsID() string {
	return a.EncodeID
}

// ApplyStats merges video statistics into the asset.
func (a *Asset) ApplyStats(stats resource.VideoStats) {
	a.Views = stats.Views
	a.ViewTime = stats.ViewTime
}
