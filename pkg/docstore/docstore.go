// Package docstore defines the document store capability consumed by the
// resource repository. The repository depends only on the Store interface;
// concrete backends live in subpackages.
package docstore

import (
	"context"
	"strings"
)

// Document is a single stored document as a generic key/value map.
type Document map[string]any

// Filter matches documents by field value. Plain values match by equality;
// In and NotEq wrap values to express membership and inequality.
type Filter map[string]any

// In matches when a field's value equals any of Values.
type In struct {
	Values []any
}

// NotEq matches when a field's value differs from Value.
// A document missing the field also matches.
type NotEq struct {
	Value any
}

// SortField names a document field and sort direction for ordered reads.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses a comma-separated sort expression such as
// "name,-createdAt". A leading '-' marks a descending field.
func ParseSortFields(expr string) []SortField {
	if expr == "" {
		return nil
	}

	fields := make([]SortField, 0)
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field := SortField{Field: part}
		if strings.HasPrefix(part, "-") {
			field.Field = part[1:]
			field.Descending = true
		}
		if field.Field != "" {
			fields = append(fields, field)
		}
	}
	return fields
}

// Projection restricts the fields returned by a read.
// An empty projection returns all fields.
type Projection []string

// FindOptions configures a FindMany read.
type FindOptions struct {
	Projection Projection
	Sort       []SortField

	// Limit caps the result set size; 0 means no limit.
	Limit int

	// Skip is the number of matching documents to pass over.
	Skip int
}

// Store is the set of document operations a backend must provide.
// Single-document mutations (FindOneAndUpdate, UpdateOne) are atomic
// match-and-mutate requests; concurrent writers serialize per document.
// Reads that match nothing return (nil, nil), not an error.
type Store interface {
	// InsertOne stores a new document, assigning an id if the document
	// carries none, and returns the stored document.
	InsertOne(ctx context.Context, collection string, doc Document) (Document, error)

	// InsertMany stores a batch of documents and returns how many were written.
	InsertMany(ctx context.Context, collection string, docs []Document) (int, error)

	// FindOne returns the first document matching filter.
	FindOne(ctx context.Context, collection string, filter Filter, projection Projection) (Document, error)

	// FindByID returns the document with the given primary id.
	FindByID(ctx context.Context, collection, id string, projection Projection) (Document, error)

	// FindMany returns all documents matching filter, honoring opts.
	FindMany(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]Document, error)

	// FindOneAndUpdate merges set into the first document matching filter
	// and returns the updated document.
	FindOneAndUpdate(ctx context.Context, collection string, filter Filter, set Document) (Document, error)

	// UpdateOne merges set into the first document matching filter and
	// reports whether a document matched.
	UpdateOne(ctx context.Context, collection string, filter Filter, set Document) (bool, error)

	// DeleteByID removes the document with the given primary id and
	// returns it, or (nil, nil) if none existed.
	DeleteByID(ctx context.Context, collection, id string) (Document, error)

	// Count returns the number of documents matching filter.
	Count(ctx context.Context, collection string, filter Filter) (int64, error)

	// SumField returns the sum of a numeric field across documents
	// matching filter, 0 when nothing matches.
	SumField(ctx context.Context, collection string, filter Filter, field string) (float64, error)
}

// Has reports whether the projection explicitly names field.
func (p Projection) Has(field string) bool {
	for _, f := range p {
		if f == field {
			return true
		}
	}
	return false
}

// Apply returns a copy of doc restricted to the projected fields.
// An empty projection returns a full copy.
func (p Projection) Apply(doc Document) Document {
	if doc == nil {
		return nil
	}
	if len(p) == 0 {
		return doc.Clone()
	}
	out := make(Document, len(p))
	for _, f := range p {
		if v, ok := doc[f]; ok {
			out[f] = cloneValue(v)
		}
	}
	return out
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}
		return out
	case Document:
		return map[string]any(Document(val).Clone())
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
