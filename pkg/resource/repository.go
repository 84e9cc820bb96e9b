// Package resource provides a generic, tenant-scoped repository over a
// document store. Every operation validates its input, issues one logical
// store request, and resolves to a uniform Result envelope; store and
// validation errors never escape as raw error values.
package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/curator-io/curator/pkg/docstore"
)

const (
	msgInvalidID = "invalid id"
	msgNotFound  = "id does not exist"
)

// Criterion is a single field/value predicate for uniqueness checks.
type Criterion struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// Options configures a Repository.
type Options struct {
	// Store is the document store capability. Required.
	Store docstore.Store

	// Collection is the store collection holding this entity type. Required.
	Collection string

	// AppID binds the repository to one tenant scope.
	// Empty means unscoped.
	AppID string

	// Validator checks create/update payloads. Defaults to Identity.
	Validator Validator

	// Fields is the entity's declared field set: the static allow-list
	// used by SetField and the source for dummy data generation.
	Fields []string

	// Stats supplies video analytics for enrichment. Optional.
	Stats StatsSource

	Logger *slog.Logger
}

// Repository exposes typed document operations for one entity type within
// one tenant scope. T is the entity's typed view; documents read from the
// store are decoded into T through their JSON form.
type Repository[T any] struct {
	store      docstore.Store
	collection string
	appID      string
	validator  Validator
	fields     map[string]struct{}
	fieldList  []string
	stats      StatsSource
	logger     *slog.Logger
}

// New creates a Repository from opts. The declared field set is indexed once
// here; it is never re-derived per call.
func New[T any](opts Options) (*Repository[T], error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("resource: store is required")
	}
	if opts.Collection == "" {
		return nil, fmt.Errorf("resource: collection is required")
	}

	validator := opts.Validator
	if validator == nil {
		validator = Identity()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fields := make(map[string]struct{}, len(opts.Fields))
	for _, f := range opts.Fields {
		fields[f] = struct{}{}
	}

	return &Repository[T]{
		store:      opts.Store,
		collection: opts.Collection,
		appID:      opts.AppID,
		validator:  validator,
		fields:     fields,
		fieldList:  opts.Fields,
		stats:      opts.Stats,
		logger:     logger.With("collection", opts.Collection),
	}, nil
}

// AppID returns the tenant scope the repository is bound to.
func (r *Repository[T]) AppID() string {
	return r.appID
}

// Create validates payload, attaches the repository's scope and a default
// Active status, and inserts a new entity. Nothing is written when
// validation fails.
func (r *Repository[T]) Create(ctx context.Context, payload map[string]any) Result {
	value, err := r.validator.Validate(payload)
	if err != nil {
		return Failure(err.Error())
	}

	doc := make(docstore.Document, len(value)+2)
	for k, v := range value {
		doc[k] = v
	}
	if r.appID != "" {
		doc["appId"] = r.appID
	}
	if _, ok := doc["status"]; !ok {
		doc["status"] = int(StatusActive)
	}

	created, err := r.store.InsertOne(ctx, r.collection, doc)
	if err != nil {
		return r.storeFailure("create", err)
	}

	entity, err := decode[T](created)
	if err != nil {
		return Failure(err.Error())
	}
	return Written("created", entity)
}

// GetByID returns a single entity by primary id within the default
// visibility set. No match is a success with nil data.
func (r *Repository[T]) GetByID(ctx context.Context, id string) Result {
	if !validID(id) {
		return Failure(msgInvalidID)
	}

	doc, err := r.store.FindOne(ctx, r.collection, docstore.Filter{
		"id":     id,
		"status": defaultVisibility(),
	}, nil)
	if err != nil {
		return r.storeFailure("get by id", err)
	}
	return r.readResult(doc)
}

// GetByFilter returns the first entity matching filter within the
// repository scope. Default visibility applies unless the filter carries an
// explicit status predicate. No match is a success with nil data.
func (r *Repository[T]) GetByFilter(ctx context.Context, filter docstore.Filter) Result {
	merged := r.scopeFilter(filter, false)

	doc, err := r.store.FindOne(ctx, r.collection, merged, nil)
	if err != nil {
		return r.storeFailure("get by filter", err)
	}
	return r.readResult(doc)
}

// GetAllByFilter returns a page of entities matching filter. Pagination is
// zero-indexed: the read skips pageNum*pageSize documents. Caller filter
// fields never override the status or scope predicates.
func (r *Repository[T]) GetAllByFilter(ctx context.Context, filter docstore.Filter, pageSize, pageNum int, sort []docstore.SortField) Result {
	if pageNum < 0 {
		pageNum = 0
	}

	opts := docstore.FindOptions{Sort: sort}
	if pageSize > 0 {
		opts.Limit = pageSize
		opts.Skip = pageNum * pageSize
	}

	docs, err := r.store.FindMany(ctx, r.collection, r.scopeFilter(filter, true), opts)
	if err != nil {
		return r.storeFailure("get all by filter", err)
	}

	entities, err := decodeMany[T](docs)
	if err != nil {
		return Failure(err.Error())
	}
	return Read("success", entities)
}

// GetByIDs returns entities matching the given primary ids, restricted to
// the projected fields.
func (r *Repository[T]) GetByIDs(ctx context.Context, ids []string, fields []string) Result {
	values := make([]any, len(ids))
	for i, id := range ids {
		if !validID(id) {
			return Failure(msgInvalidID)
		}
		values[i] = id
	}

	docs, err := r.store.FindMany(ctx, r.collection, docstore.Filter{
		"id":     docstore.In{Values: values},
		"status": defaultVisibility(),
	}, docstore.FindOptions{Projection: fields})
	if err != nil {
		return r.storeFailure("get by ids", err)
	}

	entities, err := decodeMany[T](docs)
	if err != nil {
		return Failure(err.Error())
	}
	return Read("success", entities)
}

// GetByEncodeIDs returns entities matching the given secondary identifiers.
// The primary id is excluded from the projection unless fields explicitly
// requests it.
func (r *Repository[T]) GetByEncodeIDs(ctx context.Context, encodeIDs []string, fields []string) Result {
	values := make([]any, len(encodeIDs))
	for i, id := range encodeIDs {
		values[i] = id
	}

	docs, err := r.store.FindMany(ctx, r.collection, docstore.Filter{
		"encodeId": docstore.In{Values: values},
		"status":   defaultVisibility(),
	}, docstore.FindOptions{Projection: fields})
	if err != nil {
		return r.storeFailure("get by encode ids", err)
	}

	if !docstore.Projection(fields).Has("id") {
		for _, doc := range docs {
			delete(doc, "id")
		}
	}

	entities, err := decodeMany[T](docs)
	if err != nil {
		return Failure(err.Error())
	}
	return Read("success", entities)
}

// Update validates payload and applies it to the entity matching (id, scope)
// in one atomic request. Zero matches is a not-found failure; an update
// never degrades into an insert.
func (r *Repository[T]) Update(ctx context.Context, payload map[string]any, id string) Result {
	value, err := r.validator.Validate(payload)
	if err != nil {
		return Failure(err.Error())
	}
	if !validID(id) {
		return Failure(msgInvalidID)
	}

	set := make(docstore.Document, len(value))
	for k, v := range value {
		if k == "id" {
			continue
		}
		set[k] = v
	}

	doc, err := r.store.FindOneAndUpdate(ctx, r.collection, r.idFilter(id), set)
	if err != nil {
		return r.storeFailure("update", err)
	}
	if doc == nil {
		return Failure(msgNotFound)
	}

	entity, err := decode[T](doc)
	if err != nil {
		return Failure(err.Error())
	}
	return Written("updated", entity)
}

// Delete removes an entity. Soft deletion (hard=false) marks deletedRoot and
// then transitions status to Deleted through the shared status primitive;
// the entity stays in the store, hidden from default reads. Hard deletion
// removes the entity unconditionally by id, bypassing scope and status.
func (r *Repository[T]) Delete(ctx context.Context, id string, hard bool) Result {
	if !validID(id) {
		return Failure(msgInvalidID)
	}

	if hard {
		doc, err := r.store.DeleteByID(ctx, r.collection, id)
		if err != nil {
			return r.storeFailure("delete", err)
		}
		if doc == nil {
			return Failure(msgNotFound)
		}

		entity, err := decode[T](doc)
		if err != nil {
			return Failure(err.Error())
		}
		return Written("deleted", entity)
	}

	matched, err := r.store.UpdateOne(ctx, r.collection, docstore.Filter{"id": id}, docstore.Document{
		"deletedRoot": true,
	})
	if err != nil {
		return r.storeFailure("delete", err)
	}
	if !matched {
		return Failure(msgNotFound)
	}

	result := r.changeStatus(ctx, id, StatusDeleted)
	if !result.OK() {
		return result
	}
	return Written("soft deleted", result.Data)
}

// Activate transitions the entity's status to Active.
func (r *Repository[T]) Activate(ctx context.Context, id string) Result {
	return r.changeStatus(ctx, id, StatusActive)
}

// Deactivate transitions the entity's status to Inactive.
func (r *Repository[T]) Deactivate(ctx context.Context, id string) Result {
	return r.changeStatus(ctx, id, StatusInactive)
}

// changeStatus is the shared atomic status-change primitive, matched by
// primary id only.
func (r *Repository[T]) changeStatus(ctx context.Context, id string, status Status) Result {
	if !validID(id) {
		return Failure(msgInvalidID)
	}

	doc, err := r.store.FindOneAndUpdate(ctx, r.collection, docstore.Filter{"id": id}, docstore.Document{
		"status": int(status),
	})
	if err != nil {
		return r.storeFailure("change status", err)
	}
	if doc == nil {
		return Failure(msgNotFound)
	}

	entity, err := decode[T](doc)
	if err != nil {
		return Failure(err.Error())
	}
	return Written("status "+status.String(), entity)
}

// Report flags the entity matching the given secondary identifier as
// reported. Status is untouched.
func (r *Repository[T]) Report(ctx context.Context, encodeID string) Result {
	if encodeID == "" {
		return Failure(msgInvalidID)
	}

	doc, err := r.store.FindOneAndUpdate(ctx, r.collection, docstore.Filter{"encodeId": encodeID}, docstore.Document{
		"reported": true,
	})
	if err != nil {
		return r.storeFailure("report", err)
	}
	if doc == nil {
		return Failure(msgNotFound)
	}

	entity, err := decode[T](doc)
	if err != nil {
		return Failure(err.Error())
	}
	return Written("reported", entity)
}

// SetField applies the declared-field subset of payload to the entity
// matching (id, scope). Keys outside the declared field set are silently
// dropped; this is an injection guard, not a validation failure.
func (r *Repository[T]) SetField(ctx context.Context, payload map[string]any, id string) Result {
	if !validID(id) {
		return Failure(msgInvalidID)
	}

	set := make(docstore.Document)
	for k, v := range payload {
		if _, declared := r.fields[k]; declared {
			set[k] = v
		}
	}

	doc, err := r.store.FindOneAndUpdate(ctx, r.collection, r.idFilter(id), set)
	if err != nil {
		return r.storeFailure("set field", err)
	}
	if doc == nil {
		return Failure(msgNotFound)
	}

	entity, err := decode[T](doc)
	if err != nil {
		return Failure(err.Error())
	}
	return Written("updated", entity)
}

// GetField returns the value of one field of the entity with the given id.
// A missing entity or field is a success with nil data.
func (r *Repository[T]) GetField(ctx context.Context, id, key string) Result {
	if !validID(id) {
		return Failure(msgInvalidID)
	}

	doc, err := r.store.FindByID(ctx, r.collection, id, docstore.Projection{key})
	if err != nil {
		return r.storeFailure("get field", err)
	}
	if doc == nil {
		return Read("success", nil)
	}
	return Read("success", doc[key])
}

// GetFields returns a mapping covering exactly the requested keys for the
// entity with the given id. Keys absent from the document map to nil.
func (r *Repository[T]) GetFields(ctx context.Context, keys []string, id string) Result {
	if !validID(id) {
		return Failure(msgInvalidID)
	}

	doc, err := r.store.FindByID(ctx, r.collection, id, keys)
	if err != nil {
		return r.storeFailure("get fields", err)
	}
	if doc == nil {
		return Read("success", nil)
	}

	values := make(map[string]any, len(keys))
	for _, key := range keys {
		values[key] = doc[key]
	}
	return Read("success", values)
}

// GetCount returns the number of entities matching filter under default
// visibility and scope.
func (r *Repository[T]) GetCount(ctx context.Context, filter docstore.Filter) Result {
	count, err := r.store.Count(ctx, r.collection, r.scopeFilter(filter, true))
	if err != nil {
		return r.storeFailure("count", err)
	}
	return Read("success", count)
}

// GetSumOfField returns the sum of a numeric field across entities matching
// filter. Zero matches yields 0.
func (r *Repository[T]) GetSumOfField(ctx context.Context, filter docstore.Filter, field string) Result {
	sum, err := r.store.SumField(ctx, r.collection, r.scopeFilter(filter, true), field)
	if err != nil {
		return r.storeFailure("sum field", err)
	}
	return Read("success", sum)
}

// Exists reports whether an entity matching the criteria exists under
// default visibility and scope, ignoring the entity identified by
// excludingID. True means a conflicting entity exists; zero matches, or a
// match set limited to the excluded entity, is false.
func (r *Repository[T]) Exists(ctx context.Context, criteria []Criterion, excludingID string) Result {
	filter := r.scopeFilter(nil, true)
	for _, c := range criteria {
		filter[c.Field] = c.Value
	}
	if excludingID != "" {
		if !validID(excludingID) {
			return Failure(msgInvalidID)
		}
		filter["id"] = docstore.NotEq{Value: excludingID}
	}

	count, err := r.store.Count(ctx, r.collection, filter)
	if err != nil {
		return r.storeFailure("exists", err)
	}
	return Read("success", count > 0)
}

// GenerateDummyData bulk-inserts limit synthetic entities built from the
// declared field set, skipping ignoredFields and applying customValues
// overrides. Intended for seeding and test fixtures only.
func (r *Repository[T]) GenerateDummyData(ctx context.Context, ignoredFields []string, customValues map[string]any, limit int) Result {
	if limit < 1 {
		return Failure("limit must be positive")
	}

	ignored := make(map[string]struct{}, len(ignoredFields))
	for _, f := range ignoredFields {
		ignored[f] = struct{}{}
	}

	docs := make([]docstore.Document, 0, limit)
	for i := 0; i < limit; i++ {
		doc := make(docstore.Document, len(r.fieldList)+2)
		for _, field := range r.fieldList {
			if _, skip := ignored[field]; skip {
				continue
			}
			doc[field] = fmt.Sprintf("%s-%04d", field, i+1)
		}
		for k, v := range customValues {
			doc[k] = v
		}
		if r.appID != "" {
			doc["appId"] = r.appID
		}
		if _, ok := doc["status"]; !ok {
			doc["status"] = int(StatusActive)
		}
		docs = append(docs, doc)
	}

	inserted, err := r.store.InsertMany(ctx, r.collection, docs)
	if err != nil {
		return r.storeFailure("generate dummy data", err)
	}
	return Written("seeded", inserted)
}

// scopeFilter merges the caller filter with the repository's visibility and
// scope predicates. With strict=true the status predicate always wins; with
// strict=false a caller-supplied status predicate is honored.
func (r *Repository[T]) scopeFilter(filter docstore.Filter, strict bool) docstore.Filter {
	merged := make(docstore.Filter, len(filter)+2)
	for k, v := range filter {
		merged[k] = v
	}
	if _, ok := merged["status"]; strict || !ok {
		merged["status"] = defaultVisibility()
	}
	if r.appID != "" {
		merged["appId"] = r.appID
	}
	return merged
}

// idFilter matches a single entity by id within the repository scope.
func (r *Repository[T]) idFilter(id string) docstore.Filter {
	filter := docstore.Filter{"id": id}
	if r.appID != "" {
		filter["appId"] = r.appID
	}
	return filter
}

func (r *Repository[T]) readResult(doc docstore.Document) Result {
	if doc == nil {
		return Read("success", nil)
	}
	entity, err := decode[T](doc)
	if err != nil {
		return Failure(err.Error())
	}
	return Read("success", entity)
}

func (r *Repository[T]) storeFailure(op string, err error) Result {
	r.logger.Error("store operation failed", "op", op, "error", err)
	return Failure(err.Error())
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func decode[T any](doc docstore.Document) (T, error) {
	var entity T
	raw, err := json.Marshal(doc)
	if err != nil {
		return entity, fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(raw, &entity); err != nil {
		return entity, fmt.Errorf("decode document: %w", err)
	}
	return entity, nil
}

func decodeMany[T any](docs []docstore.Document) ([]T, error) {
	entities := make([]T, 0, len(docs))
	for _, doc := range docs {
		entity, err := decode[T](doc)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
