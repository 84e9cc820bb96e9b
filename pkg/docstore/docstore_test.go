package docstore_test

import (
	"reflect"
	"testing"

	"github.com/curator-io/curator/pkg/docstore"
)

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []docstore.SortField
	}{
		{
			name: "empty",
			expr: "",
			want: nil,
		},
		{
			name: "single ascending",
			expr: "name",
			want: []docstore.SortField{{Field: "name"}},
		},
		{
			name: "descending",
			expr: "-createdAt",
			want: []docstore.SortField{{Field: "createdAt", Descending: true}},
		},
		{
			name: "mixed with spaces",
			expr: "name, -size",
			want: []docstore.SortField{
				{Field: "name"},
				{Field: "size", Descending: true},
			},
		},
		{
			name: "blank segments dropped",
			expr: "name,,-",
			want: []docstore.SortField{{Field: "name"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := docstore.ParseSortFields(tt.expr)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProjectionApply(t *testing.T) {
	doc := docstore.Document{"id": "1", "name": "clip", "size": 10}

	full := docstore.Projection(nil).Apply(doc)
	if len(full) != 3 {
		t.Errorf("empty projection must return all fields, got %v", full)
	}

	restricted := docstore.Projection{"name", "missing"}.Apply(doc)
	if len(restricted) != 1 || restricted["name"] != "clip" {
		t.Errorf("restricted: got %v", restricted)
	}
}

func TestProjectionApplyCopies(t *testing.T) {
	doc := docstore.Document{"tags": []any{"a"}}

	out := docstore.Projection(nil).Apply(doc)
	out["tags"].([]any)[0] = "mutated"

	if doc["tags"].([]any)[0] != "a" {
		t.Error("projection shares state with the source document")
	}
}

func TestDocumentClone(t *testing.T) {
	doc := docstore.Document{
		"name":   "clip",
		"nested": map[string]any{"k": "v"},
		"list":   []any{1, 2},
	}

	clone := doc.Clone()
	clone["name"] = "other"
	clone["nested"].(map[string]any)["k"] = "changed"
	clone["list"].([]any)[0] = 9

	if doc["name"] != "clip" {
		t.Error("scalar shared")
	}
	if doc["nested"].(map[string]any)["k"] != "v" {
		t.Error("nested map shared")
	}
	if doc["list"].([]any)[0] != 1 {
		t.Error("slice shared")
	}
}

func TestProjectionHas(t *testing.T) {
	p := docstore.Projection{"id", "name"}
	if !p.Has("id") || p.Has("size") {
		t.Errorf("unexpected membership for %v", p)
	}
}
