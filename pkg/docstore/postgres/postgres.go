// Package postgres implements the docstore capability on PostgreSQL.
// Each collection is a table of (id UUID, doc JSONB) rows; filters compile to
// fully parameterized JSONB expressions, and single-document mutations are
// issued as one atomic UPDATE statement.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/curator-io/curator/pkg/docstore"
)

// Store is a PostgreSQL-backed docstore.Store.
type Store struct {
	db *sql.DB
}

// New creates a Store over an existing connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertOne(ctx context.Context, collection string, doc docstore.Document) (docstore.Document, error) {
	if err := validCollection(collection); err != nil {
		return nil, err
	}

	stored := doc.Clone()
	id, _ := stored["id"].(string)
	if id == "" {
		id = uuid.NewString()
		stored["id"] = id
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	q := fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2) RETURNING doc", collection)
	return s.scanDoc(s.db.QueryRowContext(ctx, q, id, raw))
}

func (s *Store) InsertMany(ctx context.Context, collection string, docs []docstore.Document) (int, error) {
	if err := validCollection(collection); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	values := make([]string, 0, len(docs))
	args := make([]any, 0, len(docs)*2)
	param := 1

	for _, doc := range docs {
		stored := doc.Clone()
		id, _ := stored["id"].(string)
		if id == "" {
			id = uuid.NewString()
			stored["id"] = id
		}

		raw, err := json.Marshal(stored)
		if err != nil {
			return 0, fmt.Errorf("marshal document: %w", err)
		}

		values = append(values, fmt.Sprintf("($%d, $%d)", param, param+1))
		args = append(args, id, raw)
		param += 2
	}

	q := fmt.Sprintf("INSERT INTO %s (id, doc) VALUES %s", collection, strings.Join(values, ", "))
	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

func (s *Store) FindOne(ctx context.Context, collection string, filter docstore.Filter, projection docstore.Projection) (docstore.Document, error) {
	if err := validCollection(collection); err != nil {
		return nil, err
	}

	where, args, _ := compileFilter(filter, 1)
	q := fmt.Sprintf("SELECT doc FROM %s%s LIMIT 1", collection, where)

	doc, err := s.scanDoc(s.db.QueryRowContext(ctx, q, args...))
	if err != nil || doc == nil {
		return nil, err
	}
	return projection.Apply(doc), nil
}

func (s *Store) FindByID(ctx context.Context, collection, id string, projection docstore.Projection) (docstore.Document, error) {
	return s.FindOne(ctx, collection, docstore.Filter{"id": id}, projection)
}

func (s *Store) FindMany(ctx context.Context, collection string, filter docstore.Filter, opts docstore.FindOptions) ([]docstore.Document, error) {
	if err := validCollection(collection); err != nil {
		return nil, err
	}

	where, args, param := compileFilter(filter, 1)
	orderBy, orderArgs := compileOrderBy(opts.Sort, &param)
	args = append(args, orderArgs...)

	q := fmt.Sprintf("SELECT doc FROM %s%s%s", collection, where, orderBy)
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	if opts.Skip > 0 {
		q += fmt.Sprintf(" OFFSET %d", opts.Skip)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]docstore.Document, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		doc, err := unmarshalDoc(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, opts.Projection.Apply(doc))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) FindOneAndUpdate(ctx context.Context, collection string, filter docstore.Filter, set docstore.Document) (docstore.Document, error) {
	if err := validCollection(collection); err != nil {
		return nil, err
	}

	patch, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("marshal patch: %w", err)
	}

	where, args, _ := compileFilter(filter, 2)
	q := fmt.Sprintf(
		"UPDATE %s SET doc = doc || $1::jsonb, updated_at = now() WHERE id IN (SELECT id FROM %s%s LIMIT 1) RETURNING doc",
		collection, collection, where,
	)

	queryArgs := append([]any{patch}, args...)
	return s.scanDoc(s.db.QueryRowContext(ctx, q, queryArgs...))
}

func (s *Store) UpdateOne(ctx context.Context, collection string, filter docstore.Filter, set docstore.Document) (bool, error) {
	doc, err := s.FindOneAndUpdate(ctx, collection, filter, set)
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}

func (s *Store) DeleteByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	if err := validCollection(collection); err != nil {
		return nil, err
	}

	q := fmt.Sprintf("DELETE FROM %s WHERE id = $1 RETURNING doc", collection)
	return s.scanDoc(s.db.QueryRowContext(ctx, q, id))
}

func (s *Store) Count(ctx context.Context, collection string, filter docstore.Filter) (int64, error) {
	if err := validCollection(collection); err != nil {
		return 0, err
	}

	where, args, _ := compileFilter(filter, 1)
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", collection, where)

	var count int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) SumField(ctx context.Context, collection string, filter docstore.Filter, field string) (float64, error) {
	if err := validCollection(collection); err != nil {
		return 0, err
	}

	where, args, _ := compileFilter(filter, 2)
	q := fmt.Sprintf("SELECT COALESCE(SUM((doc->>$1)::numeric), 0) FROM %s%s", collection, where)

	queryArgs := append([]any{field}, args...)

	var sum float64
	if err := s.db.QueryRowContext(ctx, q, queryArgs...).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

func (s *Store) scanDoc(row *sql.Row) (docstore.Document, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return unmarshalDoc(raw)
}

func unmarshalDoc(raw []byte) (docstore.Document, error) {
	var doc docstore.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}
