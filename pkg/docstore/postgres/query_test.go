package postgres

import (
	"reflect"
	"testing"

	"github.com/curator-io/curator/pkg/docstore"
)

func TestValidCollection(t *testing.T) {
	for _, name := range []string{"assets", "asset_history", "a1"} {
		if err := validCollection(name); err != nil {
			t.Errorf("%q rejected: %v", name, err)
		}
	}
	for _, name := range []string{"", "Assets", "a-b", "a;drop table assets", "1a"} {
		if err := validCollection(name); err == nil {
			t.Errorf("%q accepted", name)
		}
	}
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name       string
		filter     docstore.Filter
		startParam int
		wantWhere  string
		wantArgs   []any
		wantNext   int
	}{
		{
			name:       "empty",
			filter:     nil,
			startParam: 1,
			wantWhere:  "",
			wantArgs:   nil,
			wantNext:   1,
		},
		{
			name:       "string equality",
			filter:     docstore.Filter{"name": "clip"},
			startParam: 1,
			wantWhere:  " WHERE doc->>$1 = $2",
			wantArgs:   []any{"name", "clip"},
			wantNext:   3,
		},
		{
			name:       "id column",
			filter:     docstore.Filter{"id": "abc"},
			startParam: 1,
			wantWhere:  " WHERE id = $1",
			wantArgs:   []any{"abc"},
			wantNext:   2,
		},
		{
			name:       "numeric cast",
			filter:     docstore.Filter{"size": 10},
			startParam: 1,
			wantWhere:  " WHERE (doc->>$1)::numeric = $2",
			wantArgs:   []any{"size", 10},
			wantNext:   3,
		},
		{
			name:       "boolean cast",
			filter:     docstore.Filter{"reported": true},
			startParam: 1,
			wantWhere:  " WHERE (doc->>$1)::boolean = $2",
			wantArgs:   []any{"reported", true},
			wantNext:   3,
		},
		{
			name:       "null match",
			filter:     docstore.Filter{"description": nil},
			startParam: 1,
			wantWhere:  " WHERE doc->>$1 IS NULL",
			wantArgs:   []any{"description"},
			wantNext:   2,
		},
		{
			name:       "in operator",
			filter:     docstore.Filter{"status": docstore.In{Values: []any{0, 1}}},
			startParam: 1,
			wantWhere:  " WHERE (doc->>$1)::numeric IN ($2, $3)",
			wantArgs:   []any{"status", 0, 1},
			wantNext:   4,
		},
		{
			name:       "empty in never matches",
			filter:     docstore.Filter{"status": docstore.In{}},
			startParam: 1,
			wantWhere:  " WHERE FALSE",
			wantArgs:   []any{},
			wantNext:   1,
		},
		{
			name:       "not eq on id",
			filter:     docstore.Filter{"id": docstore.NotEq{Value: "abc"}},
			startParam: 1,
			wantWhere:  " WHERE id IS DISTINCT FROM $1",
			wantArgs:   []any{"abc"},
			wantNext:   2,
		},
		{
			name:       "sorted keys",
			filter:     docstore.Filter{"status": 1, "appId": "app-1"},
			startParam: 1,
			wantWhere:  " WHERE doc->>$1 = $2 AND (doc->>$3)::numeric = $4",
			wantArgs:   []any{"appId", "app-1", "status", 1},
			wantNext:   5,
		},
		{
			name:       "offset start param",
			filter:     docstore.Filter{"name": "clip"},
			startParam: 2,
			wantWhere:  " WHERE doc->>$2 = $3",
			wantArgs:   []any{"name", "clip"},
			wantNext:   4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args, next := compileFilter(tt.filter, tt.startParam)
			if where != tt.wantWhere {
				t.Errorf("where: got %q, want %q", where, tt.wantWhere)
			}
			if len(args) != 0 || len(tt.wantArgs) != 0 {
				if !reflect.DeepEqual(args, tt.wantArgs) {
					t.Errorf("args: got %v, want %v", args, tt.wantArgs)
				}
			}
			if next != tt.wantNext {
				t.Errorf("next param: got %d, want %d", next, tt.wantNext)
			}
		})
	}
}

func TestCompileOrderBy(t *testing.T) {
	param := 1
	clause, args := compileOrderBy([]docstore.SortField{
		{Field: "name"},
		{Field: "id", Descending: true},
		{Field: "size", Descending: true},
	}, &param)

	want := " ORDER BY doc->$1 ASC, id DESC, doc->$2 DESC"
	if clause != want {
		t.Errorf("clause: got %q, want %q", clause, want)
	}
	if !reflect.DeepEqual(args, []any{"name", "size"}) {
		t.Errorf("args: got %v", args)
	}
	if param != 3 {
		t.Errorf("param: got %d, want 3", param)
	}
}

func TestCompileOrderByEmpty(t *testing.T) {
	param := 1
	clause, args := compileOrderBy(nil, &param)
	if clause != "" || args != nil || param != 1 {
		t.Errorf("got (%q, %v, %d)", clause, args, param)
	}
}
