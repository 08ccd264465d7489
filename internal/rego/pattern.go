// internal/rego/pattern.go
package rego

import "github.com/solatis/regosift/internal/types"

/*
 * Pattern configuration for condition extraction.
 *
 * A Pattern is the structural constant set of the supported rule shape:
 * the rule-boundary marker, the reserved index and input root prefixes,
 * and the recognized operator set. It is built once by a constructor and
 * never mutated afterwards, so independent extractor configurations can
 * coexist and a single Pattern is safe for unsynchronized concurrent reads.
 */

// Default structural constants of the supported rule shape.
const (
	// DefaultBlockMarker opens a new rule block.
	DefaultBlockMarker = "allowed contains x if {"

	// DefaultIndexRoot is the reserved prefix of searchable index paths.
	DefaultIndexRoot = "data."

	// DefaultInputRoot is the reserved prefix of runtime input references.
	DefaultInputRoot = "input."
)

// Pattern describes the fixed textual shape an Extractor recognizes.
// Immutable after construction.
type Pattern struct {
	blockMarker string
	indexRoot   string
	inputRoot   string
	operators   map[types.Operator]struct{}
}

// NewPattern constructs a pattern with an explicit operator set.
// The operator slice is copied; callers cannot mutate the pattern through
// it afterwards.
func NewPattern(blockMarker, indexRoot, inputRoot string, operators []types.Operator) Pattern {
	ops := make(map[types.Operator]struct{}, len(operators))
	for _, op := range operators {
		ops[op] = struct{}{}
	}
	return Pattern{
		blockMarker: blockMarker,
		indexRoot:   indexRoot,
		inputRoot:   inputRoot,
		operators:   ops,
	}
}

// DefaultPattern returns the pattern for the one supported rule shape:
// "some <iterator> in <index-path>; <field> <op> <value>".
func DefaultPattern() Pattern {
	return NewPattern(DefaultBlockMarker, DefaultIndexRoot, DefaultInputRoot, []types.Operator{
		types.OpEq,
		types.OpNeq,
		types.OpLt,
		types.OpLte,
		types.OpGt,
		types.OpGte,
		types.OpContains,
		types.OpRegex,
	})
}

// hasOperator reports whether text is a recognized comparison operator.
func (p Pattern) hasOperator(text string) bool {
	_, ok := p.operators[types.Operator(text)]
	return ok
}
