package postgres

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/curator-io/curator/pkg/docstore"
)

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func validCollection(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid collection name %q", name)
	}
	return nil
}

// compileFilter builds a WHERE clause for a document filter with positional
// parameters starting at startParam. Filter keys are compiled in sorted order
// so generated SQL is deterministic. Returns the clause (with leading
// " WHERE ", or "" for an empty filter), the arguments, and the next
// parameter index.
func compileFilter(filter docstore.Filter, startParam int) (string, []any, int) {
	if len(filter) == 0 {
		return "", nil, startParam
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)*2)
	param := startParam

	for _, key := range keys {
		clause, clauseArgs := compileCondition(key, filter[key], &param)
		clauses = append(clauses, clause)
		args = append(args, clauseArgs...)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, param
}

func compileCondition(key string, value any, param *int) (string, []any) {
	switch cond := value.(type) {
	case docstore.In:
		return compileIn(key, cond.Values, param)
	case docstore.NotEq:
		return compileNotEq(key, cond.Value, param)
	default:
		return compileEquals(key, value, param)
	}
}

func compileEquals(key string, value any, param *int) (string, []any) {
	if key == "id" {
		clause := fmt.Sprintf("id = $%d", *param)
		*param++
		return clause, []any{value}
	}
	if value == nil {
		clause := fmt.Sprintf("doc->>$%d IS NULL", *param)
		*param++
		return clause, []any{key}
	}

	expr := fieldExpr(value, param)
	clause := fmt.Sprintf("%s = $%d", expr, *param)
	*param++
	return clause, []any{key, value}
}

func compileNotEq(key string, value any, param *int) (string, []any) {
	if key == "id" {
		clause := fmt.Sprintf("id IS DISTINCT FROM $%d", *param)
		*param++
		return clause, []any{value}
	}

	expr := fieldExpr(value, param)
	clause := fmt.Sprintf("%s IS DISTINCT FROM $%d", expr, *param)
	*param++
	return clause, []any{key, value}
}

func compileIn(key string, values []any, param *int) (string, []any) {
	if len(values) == 0 {
		return "FALSE", nil
	}

	if key == "id" {
		placeholders := make([]string, len(values))
		for i := range values {
			placeholders[i] = fmt.Sprintf("$%d", *param)
			*param++
		}
		return fmt.Sprintf("id IN (%s)", strings.Join(placeholders, ", ")), values
	}

	expr := fieldExpr(values[0], param)
	args := make([]any, 0, len(values)+1)
	args = append(args, key)

	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = fmt.Sprintf("$%d", *param)
		*param++
		args = append(args, v)
	}
	return fmt.Sprintf("%s IN (%s)", expr, strings.Join(placeholders, ", ")), args
}

// fieldExpr returns the JSONB extraction expression for a document field,
// cast to match the Go type of the comparison value. It consumes one
// parameter for the field name.
func fieldExpr(value any, param *int) string {
	expr := fmt.Sprintf("doc->>$%d", *param)
	*param++

	switch value.(type) {
	case bool:
		return fmt.Sprintf("(%s)::boolean", expr)
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("(%s)::numeric", expr)
	default:
		return expr
	}
}

// compileOrderBy builds an ORDER BY clause. Document fields are ordered by
// their JSONB value (doc->key), which compares numbers numerically; the
// primary id orders by its column.
func compileOrderBy(fields []docstore.SortField, param *int) (string, []any) {
	if len(fields) == 0 {
		return "", nil
	}

	parts := make([]string, len(fields))
	var args []any
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		if f.Field == "id" {
			parts[i] = "id " + dir
			continue
		}
		parts[i] = fmt.Sprintf("doc->$%d %s", *param, dir)
		args = append(args, f.Field)
		*param++
	}

	return " ORDER BY " + strings.Join(parts, ", "), args
}
