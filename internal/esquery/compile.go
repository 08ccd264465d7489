// internal/esquery/compile.go
package esquery

import (
	"fmt"
	"strings"

	"github.com/solatis/regosift/internal/types"
)

/*
 * Query compilation.
 *
 * Compiles condition groups into a BoolQuery with run-time value
 * substitution and nested-path handling:
 *
 *   1. Resolve each condition's value: "input."-prefixed tokens look up the
 *      caller's bindings, literals have their surrounding quotes stripped
 *   2. Map the operator to its clause variant via the fixed table
 *   3. Wrap the clause in a nested clause when the condition's index path
 *      is multi-segment
 *   4. Assemble clauses into per-group AND nodes under a single OR root
 *
 * Failure is fail-fast: the first unresolved binding or unsupported
 * operator aborts the whole compilation and no partial tree is returned.
 * Absence of a binding is a hard error, not a silent empty value - an
 * authorization filter built from a missing value would silently widen or
 * narrow the result set.
 */

// Compiler turns condition groups into boolean query trees.
// Stateless between calls; safe for concurrent use.
type Compiler struct {
	inputRoot string
}

// NewCompiler creates a compiler recognizing the default input-reference
// marker ("input.").
func NewCompiler() *Compiler {
	return &Compiler{inputRoot: "input."}
}

// Compile builds one query tree from the extracted condition groups and
// the caller-supplied input bindings. Group order and condition order are
// preserved. Returns types.ErrBindingNotFound or
// types.ErrUnsupportedOperator (wrapped with the offending token) on the
// first failing condition.
func (c *Compiler) Compile(groups []types.ConditionGroup, bindings types.Bindings) (*BoolQuery, error) {
	query := &BoolQuery{Should: make([]Group, 0, len(groups))}

	for _, group := range groups {
		compiled := Group{Must: make([]Clause, 0, len(group))}

		for _, cond := range group {
			value, err := c.resolveValue(cond.Value, bindings)
			if err != nil {
				return nil, err
			}

			clause, err := clauseFor(cond.Field, cond.Operator, value)
			if err != nil {
				return nil, err
			}

			// Multi-segment index paths denote a nested sub-document
			// collection the engine must filter as a unit
			if strings.Contains(cond.Index, ".") {
				clause = NestedClause{Path: cond.Index, Query: clause}
			}

			compiled.Must = append(compiled.Must, clause)
		}

		query.Should = append(query.Should, compiled)
	}

	return query, nil
}

// resolveValue substitutes an input reference with its binding, or strips
// the surrounding quotes from a literal.
func (c *Compiler) resolveValue(value string, bindings types.Bindings) (string, error) {
	if name, found := strings.CutPrefix(value, c.inputRoot); found {
		resolved, ok := bindings[name]
		if !ok {
			return "", fmt.Errorf("%w: %q", types.ErrBindingNotFound, name)
		}
		return resolved, nil
	}

	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1], nil
	}
	return value, nil
}

// clauseFor maps an operator to its clause variant. The table is the fixed
// set from the supported rule shape; the extractor's pattern already
// restricts operators to it, but the check is kept - components must not
// trust each other's invariants silently.
func clauseFor(field string, op types.Operator, value string) (Clause, error) {
	switch op {
	case types.OpEq:
		return TermClause{Field: field, Value: value}, nil
	case types.OpNeq:
		return MustNotClause{Term: TermClause{Field: field, Value: value}}, nil
	case types.OpLt:
		return RangeClause{Field: field, Bound: RangeLt, Value: value}, nil
	case types.OpLte:
		return RangeClause{Field: field, Bound: RangeLte, Value: value}, nil
	case types.OpGt:
		return RangeClause{Field: field, Bound: RangeGt, Value: value}, nil
	case types.OpGte:
		return RangeClause{Field: field, Bound: RangeGte, Value: value}, nil
	case types.OpContains:
		return MatchClause{Field: field, Value: value}, nil
	case types.OpRegex:
		return RegexpClause{Field: field, Value: value}, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedOperator, op)
	}
}
