// Package esquery compiles extracted condition groups into an
// Elasticsearch-style boolean query tree.
//
// The tree is a closed sum type: Clause has a fixed set of implementing
// variants (term, negated term, range, match, regexp, nested wrapper), and
// Group/BoolQuery assemble them with AND/OR semantics. Modeling the tree as
// typed variants rather than nested maps keeps the compiler's operator
// table exhaustive and lets each variant own its exact wire shape.
package esquery

import "encoding/json"

// Clause is one comparison in the compiled query tree. The implementing
// variants form a fixed set; external packages cannot add more.
type Clause interface {
	json.Marshaler
	clause()
}

// RangeBound selects the comparison edge of a RangeClause.
type RangeBound string

const (
	RangeLt  RangeBound = "lt"
	RangeLte RangeBound = "lte"
	RangeGt  RangeBound = "gt"
	RangeGte RangeBound = "gte"
)

// TermClause is an exact match on a field.
// Wire shape: {"term": {field: value}}
type TermClause struct {
	Field string
	Value string
}

// MustNotClause negates an exact match.
// Wire shape: {"bool": {"must_not": [{"term": {field: value}}]}}
type MustNotClause struct {
	Term TermClause
}

// RangeClause compares a field against a single bound.
// Wire shape: {"range": {field: {bound: value}}}
type RangeClause struct {
	Field string
	Bound RangeBound
	Value string
}

// MatchClause is an analyzed full-text match, not an exact one.
// Wire shape: {"match": {field: value}}
type MatchClause struct {
	Field string
	Value string
}

// RegexpClause matches a field against a regular expression.
// Wire shape: {"regexp": {field: value}}
type RegexpClause struct {
	Field string
	Value string
}

// NestedClause scopes a clause to a nested sub-document path so the search
// engine scores each sub-document as a unit, independent of its siblings.
// Wire shape: {"nested": {"path": path, "query": clause}}
type NestedClause struct {
	Path  string
	Query Clause
}

// Group requires all of its clauses (AND). One Group per condition group.
// Wire shape: {"bool": {"must": [clause, ...]}}
type Group struct {
	Must []Clause
}

// BoolQuery is the compiled root: any one group suffices (OR).
// Wire shape: {"bool": {"should": [group, ...]}}
type BoolQuery struct {
	Should []Group
}

func (TermClause) clause()    {}
func (MustNotClause) clause() {}
func (RangeClause) clause()   {}
func (MatchClause) clause()   {}
func (RegexpClause) clause()  {}
func (NestedClause) clause()  {}

// MarshalJSON implements json.Marshaler.
func (c TermClause) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string]string{
		"term": {c.Field: c.Value},
	})
}

// MarshalJSON implements json.Marshaler.
func (c MustNotClause) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string][]Clause{
		"bool": {"must_not": {c.Term}},
	})
}

// MarshalJSON implements json.Marshaler.
func (c RangeClause) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string]map[RangeBound]string{
		"range": {c.Field: {c.Bound: c.Value}},
	})
}

// MarshalJSON implements json.Marshaler.
func (c MatchClause) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string]string{
		"match": {c.Field: c.Value},
	})
}

// MarshalJSON implements json.Marshaler.
func (c RegexpClause) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string]string{
		"regexp": {c.Field: c.Value},
	})
}

// MarshalJSON implements json.Marshaler.
func (c NestedClause) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"nested": map[string]any{
			"path":  c.Path,
			"query": c.Query,
		},
	})
}

// MarshalJSON implements json.Marshaler.
// An empty group marshals with an empty must list, never null.
func (g Group) MarshalJSON() ([]byte, error) {
	must := g.Must
	if must == nil {
		must = []Clause{}
	}
	return json.Marshal(map[string]map[string][]Clause{
		"bool": {"must": must},
	})
}

// MarshalJSON implements json.Marshaler.
// An empty root marshals with an empty should list, never null.
func (q BoolQuery) MarshalJSON() ([]byte, error) {
	should := q.Should
	if should == nil {
		should = []Group{}
	}
	return json.Marshal(map[string]map[string][]Group{
		"bool": {"should": should},
	})
}
