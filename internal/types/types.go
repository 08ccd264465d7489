// Package types provides domain models shared across regosift components.
//
// Zero-dependency design: types.go and errors.go use only the standard
// library so the extractor and compiler stay free of transitive weight.
// ID utilities in ids.go import uuid but are isolated for selective
// inclusion.
//
// Separation from wire format: the JSON field names on Condition match the
// documented extraction output ({"index","field","operator","value"}), so a
// ConditionGroup slice serializes directly as the "conditionGroups" payload
// without a translation layer.
package types

// Operator is a comparison operator as written in policy text.
// The compiler owns the authoritative operator-to-clause table; anything
// outside it fails compilation with ErrUnsupportedOperator.
type Operator string

const (
	OpEq       Operator = "=="
	OpNeq      Operator = "!="
	OpLt       Operator = "<"
	OpLte      Operator = "<="
	OpGt       Operator = ">"
	OpGte      Operator = ">="
	OpContains Operator = "contains"
	OpRegex    Operator = "re_match"
)

// Condition is one field comparison extracted from a rule block.
type Condition struct {
	// Iterator is the loop variable the comparison was qualified with
	// (the "x" in "x.author == input.user").
	Iterator string `json:"iterator,omitempty"`

	// Index is the dotted path to the searchable collection with the
	// "data." root stripped. Multi-segment paths denote a nested
	// sub-document collection.
	Index string `json:"index"`

	// Field is the compared document field with the iterator qualifier
	// stripped.
	Field string `json:"field"`

	// Operator is copied verbatim from the policy text.
	Operator Operator `json:"operator"`

	// Value is either a quoted string literal or an "input."-prefixed
	// reference to a runtime binding, copied verbatim.
	Value string `json:"value"`
}

// ConditionGroup is the ordered sequence of conditions from one rule block.
// Groups are independent alternatives (OR at the top level); conditions
// within a group are all required (AND). A group is never empty: blocks
// without recognizable conditions are dropped at extraction.
type ConditionGroup []Condition

// Bindings maps input-binding names (e.g. "user", "min_age") to the runtime
// values substituted for "input.<name>" references during compilation.
type Bindings map[string]string

// Resource limits enforced at the filter API boundary. The extractor and
// compiler themselves stay lenient and unbounded per input; these caps keep
// a single request's cost proportional to a sane input size.
const (
	// MaxPolicySize limits raw policy text accepted per request.
	// 256KB covers thousands of rule blocks; larger policies indicate a
	// caller bug rather than a real authorization model.
	MaxPolicySize = 256 * 1024

	// MaxBindings limits the number of input bindings per request.
	MaxBindings = 128

	// MaxBindingValueLength limits a single binding value.
	// 1KB accommodates identifiers, emails, and small tokens; document
	// content does not belong in bindings.
	MaxBindingValueLength = 1024
)
