package esquery

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/solatis/regosift/internal/rego"
	"github.com/solatis/regosift/internal/types"
)

func TestCompile_OperatorTable(t *testing.T) {
	tests := []struct {
		op   types.Operator
		want Clause
	}{
		{op: types.OpEq, want: TermClause{Field: "age", Value: "25"}},
		{op: types.OpNeq, want: MustNotClause{Term: TermClause{Field: "age", Value: "25"}}},
		{op: types.OpLt, want: RangeClause{Field: "age", Bound: RangeLt, Value: "25"}},
		{op: types.OpLte, want: RangeClause{Field: "age", Bound: RangeLte, Value: "25"}},
		{op: types.OpGt, want: RangeClause{Field: "age", Bound: RangeGt, Value: "25"}},
		{op: types.OpGte, want: RangeClause{Field: "age", Bound: RangeGte, Value: "25"}},
		{op: types.OpContains, want: MatchClause{Field: "age", Value: "25"}},
		{op: types.OpRegex, want: RegexpClause{Field: "age", Value: "25"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			groups := []types.ConditionGroup{
				{{Index: "posts", Field: "age", Operator: tt.op, Value: `"25"`}},
			}

			query, err := NewCompiler().Compile(groups, nil)
			if err != nil {
				t.Fatalf("Compile() error = %v, want nil", err)
			}
			if len(query.Should) != 1 || len(query.Should[0].Must) != 1 {
				t.Fatalf("Compile() = %+v, want one group with one clause", query)
			}
			if got := query.Should[0].Must[0]; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("clause = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCompile_NestingTrigger(t *testing.T) {
	t.Run("single segment stays bare", func(t *testing.T) {
		groups := []types.ConditionGroup{
			{{Index: "posts", Field: "author", Operator: types.OpEq, Value: `"bob"`}},
		}

		query, err := NewCompiler().Compile(groups, nil)
		if err != nil {
			t.Fatalf("Compile() error = %v, want nil", err)
		}
		if _, ok := query.Should[0].Must[0].(TermClause); !ok {
			t.Errorf("clause = %#v, want bare TermClause", query.Should[0].Must[0])
		}
	})

	t.Run("two segments already nest", func(t *testing.T) {
		groups := []types.ConditionGroup{
			{{Index: "elastic.posts", Field: "author", Operator: types.OpEq, Value: `"bob"`}},
		}

		query, err := NewCompiler().Compile(groups, nil)
		if err != nil {
			t.Fatalf("Compile() error = %v, want nil", err)
		}
		nested, ok := query.Should[0].Must[0].(NestedClause)
		if !ok {
			t.Fatalf("clause = %#v, want NestedClause", query.Should[0].Must[0])
		}
		if nested.Path != "elastic.posts" {
			t.Errorf("Path = %q, want %q", nested.Path, "elastic.posts")
		}
	})

	t.Run("multi segment wrapped nested", func(t *testing.T) {
		groups := []types.ConditionGroup{
			{{Index: "elastic.posts.comments", Field: "author", Operator: types.OpEq, Value: `"bob"`}},
		}

		query, err := NewCompiler().Compile(groups, nil)
		if err != nil {
			t.Fatalf("Compile() error = %v, want nil", err)
		}
		nested, ok := query.Should[0].Must[0].(NestedClause)
		if !ok {
			t.Fatalf("clause = %#v, want NestedClause", query.Should[0].Must[0])
		}
		if nested.Path != "elastic.posts.comments" {
			t.Errorf("Path = %q, want full index path %q", nested.Path, "elastic.posts.comments")
		}
		if _, ok := nested.Query.(TermClause); !ok {
			t.Errorf("nested query = %#v, want TermClause", nested.Query)
		}
	})
}

func TestCompile_BindingResolution(t *testing.T) {
	t.Run("present binding resolves", func(t *testing.T) {
		groups := []types.ConditionGroup{
			{{Index: "posts", Field: "author", Operator: types.OpEq, Value: "input.user"}},
		}

		query, err := NewCompiler().Compile(groups, types.Bindings{"user": "bob"})
		if err != nil {
			t.Fatalf("Compile() error = %v, want nil", err)
		}
		term := query.Should[0].Must[0].(TermClause)
		if term.Value != "bob" {
			t.Errorf("Value = %q, want %q", term.Value, "bob")
		}
	})

	t.Run("absent binding fails without tree", func(t *testing.T) {
		groups := []types.ConditionGroup{
			{{Index: "posts", Field: "author", Operator: types.OpEq, Value: "input.user"}},
		}

		query, err := NewCompiler().Compile(groups, types.Bindings{"other": "x"})
		if !errors.Is(err, types.ErrBindingNotFound) {
			t.Fatalf("Compile() error = %v, want ErrBindingNotFound", err)
		}
		if query != nil {
			t.Errorf("Compile() = %+v, want nil tree on failure", query)
		}
	})
}

func TestCompile_LiteralStripping(t *testing.T) {
	groups := []types.ConditionGroup{
		{{Index: "posts", Field: "category", Operator: types.OpEq, Value: `"Tech"`}},
	}

	// Binding named like the literal must not interfere
	query, err := NewCompiler().Compile(groups, types.Bindings{"Tech": "unrelated"})
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}
	term := query.Should[0].Must[0].(TermClause)
	if term.Value != "Tech" {
		t.Errorf("Value = %q, want unquoted %q", term.Value, "Tech")
	}
}

func TestCompile_UnsupportedOperator(t *testing.T) {
	groups := []types.ConditionGroup{
		{{Index: "posts", Field: "author", Operator: "~=", Value: `"bob"`}},
	}

	query, err := NewCompiler().Compile(groups, nil)
	if !errors.Is(err, types.ErrUnsupportedOperator) {
		t.Fatalf("Compile() error = %v, want ErrUnsupportedOperator", err)
	}
	if query != nil {
		t.Errorf("Compile() = %+v, want nil tree on failure", query)
	}
}

func TestCompile_FailFast(t *testing.T) {
	// First group compiles; second group's missing binding must abort the
	// whole compilation
	groups := []types.ConditionGroup{
		{{Index: "posts", Field: "category", Operator: types.OpEq, Value: `"Tech"`}},
		{{Index: "posts", Field: "author", Operator: types.OpEq, Value: "input.missing"}},
	}

	query, err := NewCompiler().Compile(groups, types.Bindings{})
	if !errors.Is(err, types.ErrBindingNotFound) {
		t.Fatalf("Compile() error = %v, want ErrBindingNotFound", err)
	}
	if query != nil {
		t.Errorf("Compile() = %+v, want nil tree, no partial result", query)
	}
}

func TestCompile_EmptyInput(t *testing.T) {
	query, err := NewCompiler().Compile(nil, nil)
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}

	data, err := json.Marshal(query)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"bool":{"should":[]}}` {
		t.Errorf("Marshal() = %s, want empty should list", data)
	}
}

const documentedPolicy = `
allowed contains x if {
    some x in data.elastic.posts
    x.author == input.user
    x.age >= input.min_age
}

allowed contains x if {
    some x in data.elastic.posts
    x.category == "Tech"
}

allowed contains x if {
    some x in data.elastic.posts.comments
    some y in x.comments
    y.author == input.user
}
`

func TestCompile_DocumentedScenario(t *testing.T) {
	groups := rego.NewExtractor().Extract(documentedPolicy)
	if len(groups) != 3 {
		t.Fatalf("Extract() produced %d groups, want 3", len(groups))
	}

	query, err := NewCompiler().Compile(groups, types.Bindings{"user": "bob", "min_age": "25"})
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}

	got, err := json.Marshal(query)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	// Every group's index path here is multi-segment ("elastic.posts",
	// "elastic.posts.comments"), so every clause sits inside a nested
	// wrapper carrying its full path.
	want := `{
	  "bool": {"should": [
	    {"bool": {"must": [
	      {"nested": {"path": "elastic.posts", "query": {"term": {"author": "bob"}}}},
	      {"nested": {"path": "elastic.posts", "query": {"range": {"age": {"gte": "25"}}}}}
	    ]}},
	    {"bool": {"must": [
	      {"nested": {"path": "elastic.posts", "query": {"term": {"category": "Tech"}}}}
	    ]}},
	    {"bool": {"must": [
	      {"nested": {"path": "elastic.posts.comments", "query": {"term": {"author": "bob"}}}}
	    ]}}
	  ]}
	}`

	var gotTree, wantTree any
	if err := json.Unmarshal(got, &gotTree); err != nil {
		t.Fatalf("Unmarshal(got) error = %v", err)
	}
	if err := json.Unmarshal([]byte(want), &wantTree); err != nil {
		t.Fatalf("Unmarshal(want) error = %v", err)
	}
	if !reflect.DeepEqual(gotTree, wantTree) {
		t.Errorf("query tree mismatch:\ngot  = %s\nwant = %s", got, want)
	}
}
