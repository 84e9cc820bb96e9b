package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/curator-io/curator/pkg/docstore"
	"github.com/curator-io/curator/pkg/pagination"
	"github.com/curator-io/curator/pkg/resource"
)

type repo struct {
	resources  *resource.Repository[Asset]
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an asset repository implementing the System interface.
// Pass a nil stats source when no analytics backend is configured.
func New(
	store docstore.Store,
	appID string,
	stats resource.StatsSource,
	logger *slog.Logger,
	pagination pagination.Config,
) (System, error) {
	resources, err := resource.New[Asset](resource.Options{
		Store:      store,
		Collection: Collection,
		AppID:      appID,
		Validator:  NewValidator(),
		Fields:     Fields(),
		Stats:      stats,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("asset repository init failed: %w", err)
	}

	return &repo{
		resources:  resources,
		logger:     logger.With("system", "assets"),
		pagination: pagination,
	}, nil
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Resources() *resource.Repository[Asset] {
	return r.resources
}

// List runs the page read and the total count in parallel and assembles a
// page result.
func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Asset], error) {
	page.Normalize(r.pagination)
	filter := filters.Filter()

	var (
		total int64
		items []Asset
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res := r.resources.GetCount(gctx, filter)
		if !res.OK() {
			return errors.New(res.Message)
		}
		total = res.Data.(int64)
		return nil
	})
	g.Go(func() error {
		res := r.resources.GetAllByFilter(gctx, filter, page.PageSize, page.Page, page.Sort)
		if !res.OK() {
			return errors.New(res.Message)
		}
		items = res.Data.([]Asset)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	result := pagination.NewPageResult(items, int(total), page.Page, page.PageSize)
	return &result, nil
}

// Enriched lists assets and merges video analytics into the page.
// Enrichment failures degrade to the plain page; a timeout is logged as its
// own cause.
func (r *repo) Enriched(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Asset], error) {
	result, err := r.List(ctx, page, filters)
	if err != nil {
		return nil, err
	}

	enriched, err := r.resources.AddVideoAnalytics(ctx, result.Data)
	if err != nil {
		r.logger.Warn("serving assets without analytics", "error", err)
	}

	result.Data = enriched
	return result, nil
}

// Create inserts a new asset after checking name uniqueness within the scope.
func (r *repo) Create(ctx context.Context, payload map[string]any) resource.Result {
	if res := r.checkNameConflict(ctx, payload, ""); !res.OK() {
		return res
	}
	return r.resources.Create(ctx, payload)
}

// Update applies payload to an existing asset, keeping names unique within
// the scope. The asset being updated is excluded from the conflict check.
func (r *repo) Update(ctx context.Context, payload map[string]any, id string) resource.Result {
	if res := r.checkNameConflict(ctx, payload, id); !res.OK() {
		return res
	}
	return r.resources.Update(ctx, payload, id)
}

func (r *repo) checkNameConflict(ctx context.Context, payload map[string]any, excludingID string) resource.Result {
	name, ok := payload["name"]
	if !ok {
		return resource.Read("success", nil)
	}

	res := r.resources.Exists(ctx, []resource.Criterion{{Field: "name", Value: name}}, excludingID)
	if !res.OK() {
		return res
	}
	if conflict, _ := res.Data.(bool); conflict {
		return resource.Failure("name already exists")
	}
	return resource.Read("success", nil)
}
