package assets

import (
	"context"

	"github.com/curator-io/curator/pkg/pagination"
	"github.com/curator-io/curator/pkg/resource"
)

// System defines the public contract for asset domain operations.
// List and Enriched return paged results; everything else resolves to a
// result envelope.
type System interface {
	Handler() *Handler
	Resources() *resource.Repository[Asset]

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Asset], error)

	Enriched(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Asset], error)

	Create(ctx context.Context, payload map[string]any) resource.Result
	Update(ctx context.Context, payload map[string]any, id string) resource.Result
}
