// Package memory provides an in-memory docstore backend.
// It is used by tests and by local mode, where no database is available.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/curator-io/curator/pkg/docstore"
)

type collection struct {
	docs  map[string]docstore.Document
	order []string
}

// Store is a mutex-guarded in-memory implementation of docstore.Store.
// Documents are deep-copied on the way in and out, so callers never share
// state with the store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		collections: make(map[string]*collection),
	}
}

func (s *Store) coll(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]docstore.Document)}
		s.collections[name] = c
	}
	return c
}

func (s *Store) InsertOne(ctx context.Context, name string, doc docstore.Document) (docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := doc.Clone()
	id, _ := stored["id"].(string)
	if id == "" {
		id = uuid.NewString()
		stored["id"] = id
	}

	c := s.coll(name)
	if _, exists := c.docs[id]; exists {
		return nil, fmt.Errorf("duplicate id %q in %s", id, name)
	}
	c.docs[id] = stored
	c.order = append(c.order, id)

	return stored.Clone(), nil
}

func (s *Store) InsertMany(ctx context.Context, name string, docs []docstore.Document) (int, error) {
	inserted := 0
	for _, doc := range docs {
		if _, err := s.InsertOne(ctx, name, doc); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func (s *Store) FindOne(ctx context.Context, name string, filter docstore.Filter, projection docstore.Projection) (docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.matches(name, filter) {
		return projection.Apply(doc), nil
	}
	return nil, nil
}

func (s *Store) FindByID(ctx context.Context, name, id string, projection docstore.Projection) (docstore.Document, error) {
	return s.FindOne(ctx, name, docstore.Filter{"id": id}, projection)
}

func (s *Store) FindMany(ctx context.Context, name string, filter docstore.Filter, opts docstore.FindOptions) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matches(name, filter)
	sortDocs(matched, opts.Sort)

	if opts.Skip > 0 {
		if opts.Skip >= len(matched) {
			matched = nil
		} else {
			matched = matched[opts.Skip:]
		}
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	out := make([]docstore.Document, 0, len(matched))
	for _, doc := range matched {
		out = append(out, opts.Projection.Apply(doc))
	}
	return out, nil
}

func (s *Store) FindOneAndUpdate(ctx context.Context, name string, filter docstore.Filter, set docstore.Document) (docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.matches(name, filter) {
		id, _ := doc["id"].(string)
		updated := doc.Clone()
		for k, v := range set {
			updated[k] = v
		}
		s.coll(name).docs[id] = updated
		return updated.Clone(), nil
	}
	return nil, nil
}

func (s *Store) UpdateOne(ctx context.Context, name string, filter docstore.Filter, set docstore.Document) (bool, error) {
	doc, err := s.FindOneAndUpdate(ctx, name, filter, set)
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}

func (s *Store) DeleteByID(ctx context.Context, name, id string) (docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(name)
	doc, ok := c.docs[id]
	if !ok {
		return nil, nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return doc.Clone(), nil
}

func (s *Store) Count(ctx context.Context, name string, filter docstore.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.matches(name, filter))), nil
}

func (s *Store) SumField(ctx context.Context, name string, filter docstore.Filter, field string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum float64
	for _, doc := range s.matches(name, filter) {
		if n, ok := toFloat(doc[field]); ok {
			sum += n
		}
	}
	return sum, nil
}

// matches returns matching documents in insertion order.
// Callers must hold at least the read lock.
func (s *Store) matches(name string, filter docstore.Filter) []docstore.Document {
	c, ok := s.collections[name]
	if !ok {
		return nil
	}

	var out []docstore.Document
	for _, id := range c.order {
		doc := c.docs[id]
		if matchesFilter(doc, filter) {
			out = append(out, doc)
		}
	}
	return out
}

func matchesFilter(doc docstore.Document, filter docstore.Filter) bool {
	for field, want := range filter {
		got, present := doc[field]
		switch cond := want.(type) {
		case docstore.In:
			if !present || !containsValue(cond.Values, got) {
				return false
			}
		case docstore.NotEq:
			if present && valuesEqual(got, cond.Value) {
				return false
			}
		default:
			if !present || !valuesEqual(got, want) {
				return false
			}
		}
	}
	return true
}

func containsValue(values []any, got any) bool {
	for _, v := range values {
		if valuesEqual(got, v) {
			return true
		}
	}
	return false
}

func valuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func sortDocs(docs []docstore.Document, fields []docstore.SortField) {
	if len(fields) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, f := range fields {
			cmp := compareValues(docs[i][f.Field], docs[j][f.Field])
			if cmp == 0 {
				continue
			}
			if f.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareValues(a, b any) int {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	}
	return 0
}
