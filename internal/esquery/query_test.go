package esquery

import (
	"encoding/json"
	"testing"
)

func TestClauseMarshalShapes(t *testing.T) {
	tests := []struct {
		name   string
		clause Clause
		want   string
	}{
		{
			name:   "term",
			clause: TermClause{Field: "author", Value: "bob"},
			want:   `{"term":{"author":"bob"}}`,
		},
		{
			name:   "must_not",
			clause: MustNotClause{Term: TermClause{Field: "author", Value: "bob"}},
			want:   `{"bool":{"must_not":[{"term":{"author":"bob"}}]}}`,
		},
		{
			name:   "range lt",
			clause: RangeClause{Field: "age", Bound: RangeLt, Value: "25"},
			want:   `{"range":{"age":{"lt":"25"}}}`,
		},
		{
			name:   "range gte",
			clause: RangeClause{Field: "age", Bound: RangeGte, Value: "25"},
			want:   `{"range":{"age":{"gte":"25"}}}`,
		},
		{
			name:   "match",
			clause: MatchClause{Field: "title", Value: "golang"},
			want:   `{"match":{"title":"golang"}}`,
		},
		{
			name:   "regexp",
			clause: RegexpClause{Field: "author", Value: "bo.*"},
			want:   `{"regexp":{"author":"bo.*"}}`,
		},
		{
			name:   "nested term",
			clause: NestedClause{Path: "elastic.posts.comments", Query: TermClause{Field: "author", Value: "bob"}},
			want:   `{"nested":{"path":"elastic.posts.comments","query":{"term":{"author":"bob"}}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.clause)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestGroupAndRootMarshalShapes(t *testing.T) {
	group := Group{Must: []Clause{
		TermClause{Field: "author", Value: "bob"},
		RangeClause{Field: "age", Bound: RangeGte, Value: "25"},
	}}

	data, err := json.Marshal(group)
	if err != nil {
		t.Fatalf("Marshal(group) error = %v", err)
	}
	wantGroup := `{"bool":{"must":[{"term":{"author":"bob"}},{"range":{"age":{"gte":"25"}}}]}}`
	if string(data) != wantGroup {
		t.Errorf("Marshal(group) = %s, want %s", data, wantGroup)
	}

	root := BoolQuery{Should: []Group{group}}
	data, err = json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal(root) error = %v", err)
	}
	wantRoot := `{"bool":{"should":[` + wantGroup + `]}}`
	if string(data) != wantRoot {
		t.Errorf("Marshal(root) = %s, want %s", data, wantRoot)
	}
}

func TestEmptyGroupMarshal(t *testing.T) {
	data, err := json.Marshal(Group{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"bool":{"must":[]}}` {
		t.Errorf("Marshal() = %s, want empty must list, not null", data)
	}
}
