// internal/rego/extract.go
package rego

import (
	"strings"

	"github.com/solatis/regosift/internal/types"
)

/*
 * Condition extraction from policy text.
 *
 * Splits policy text on the rule-boundary marker, then walks each block's
 * token stream with a cursor, collecting conditions in textual order:
 *
 *   1. "some <var> in <path>" binds an iterator variable; when <path>
 *      carries the index root ("data."), it also sets the block's current
 *      index path (root stripped)
 *   2. "<field> <op> <value>" attaches to the current index path, with a
 *      bound-iterator qualifier stripped from the field
 *   3. anything else advances the cursor by one token
 *
 * Parsing is lenient, not validating: malformed or unrecognized text is
 * "no conditions", never an error. A block producing zero conditions
 * contributes no group.
 *
 * Keeping the index path as block state (rather than requiring every
 * comparison to directly follow its own iteration header) lets one header
 * cover several comparisons, and lets nested iteration ("some y in
 * x.comments") qualify fields without losing the searchable index set by
 * the enclosing "data." header.
 */

// Extractor pattern-matches policy text into condition groups.
// Stateless between calls; safe for concurrent use from independent
// callers.
type Extractor struct {
	pattern Pattern
}

// NewExtractor creates an extractor recognizing the default rule shape.
func NewExtractor() *Extractor {
	return &Extractor{pattern: DefaultPattern()}
}

// NewExtractorWith creates an extractor with a custom pattern.
func NewExtractorWith(p Pattern) *Extractor {
	return &Extractor{pattern: p}
}

// Extract splits policy text into rule blocks and matches each block into
// an ordered condition group. Blocks with no recognizable conditions are
// dropped silently. Never fails; purely functional over its input.
func (e *Extractor) Extract(policyText string) []types.ConditionGroup {
	var groups []types.ConditionGroup

	for _, block := range strings.Split(policyText, e.pattern.blockMarker) {
		conditions := e.matchBlock(lex(block))
		if len(conditions) > 0 {
			groups = append(groups, conditions)
		}
	}

	return groups
}

// matchBlock collects all conditions from one block's token stream.
func (e *Extractor) matchBlock(tokens []token) types.ConditionGroup {
	var conditions types.ConditionGroup

	// Iterator variables bound so far in this block
	iterators := make(map[string]bool)

	// Index path and iterator of the most recent "data."-rooted header
	currentIndex := ""
	currentIterator := ""

	for i := 0; i < len(tokens); {
		if tokens[i].kind != tokenIdent {
			i++
			continue
		}

		if tokens[i].text == "some" {
			iterator, indexPath, next, ok := e.matchHeader(tokens, i)
			if !ok {
				i++
				continue
			}
			iterators[iterator] = true
			if indexPath != "" {
				currentIndex = indexPath
				currentIterator = iterator
			}
			i = next
			continue
		}

		cond, next, ok := e.matchComparison(tokens, i, iterators)
		if !ok {
			i++
			continue
		}
		i = next

		// A comparison without an enclosing index header has no
		// searchable collection to attach to; drop it
		if currentIndex == "" {
			continue
		}
		cond.Index = currentIndex
		if cond.Iterator == "" {
			cond.Iterator = currentIterator
		}
		conditions = append(conditions, cond)
	}

	return conditions
}

// matchHeader matches "some <var> in <path>" at position i (which must
// point at the "some" identifier). Returns the bound variable, the index
// path with the root prefix stripped ("" when the path is not rooted at
// the index root), and the cursor position after the header.
func (e *Extractor) matchHeader(tokens []token, i int) (iterator, indexPath string, next int, ok bool) {
	if i+3 >= len(tokens) {
		return "", "", 0, false
	}

	varTok := tokens[i+1]
	inTok := tokens[i+2]
	pathTok := tokens[i+3]

	if varTok.kind != tokenIdent || strings.Contains(varTok.text, ".") {
		return "", "", 0, false
	}
	if inTok.kind != tokenIdent || inTok.text != "in" {
		return "", "", 0, false
	}
	if pathTok.kind != tokenIdent {
		return "", "", 0, false
	}

	path := pathTok.text
	if rest, found := strings.CutPrefix(path, e.pattern.indexRoot); found && rest != "" {
		indexPath = rest
	}

	return varTok.text, indexPath, i + 4, true
}

// matchComparison matches "<field> <op> <value>" at position i. The value
// must be a quoted literal or a single-segment input reference. Field and
// value are copied verbatim except for the bound-iterator qualifier, which
// is stripped from the field.
func (e *Extractor) matchComparison(tokens []token, i int, iterators map[string]bool) (cond types.Condition, next int, ok bool) {
	if i+2 >= len(tokens) {
		return types.Condition{}, 0, false
	}

	fieldTok := tokens[i]
	opTok := tokens[i+1]
	valueTok := tokens[i+2]

	if opTok.kind != tokenOperator && opTok.kind != tokenIdent {
		return types.Condition{}, 0, false
	}
	if !e.pattern.hasOperator(opTok.text) {
		return types.Condition{}, 0, false
	}
	if !e.isValue(valueTok) {
		return types.Condition{}, 0, false
	}

	field := fieldTok.text
	iterator := ""
	if seg, rest, found := strings.Cut(field, "."); found && iterators[seg] {
		field = rest
		iterator = seg
	}

	return types.Condition{
		Iterator: iterator,
		Field:    field,
		Operator: types.Operator(opTok.text),
		Value:    valueTok.text,
	}, i + 3, true
}

// isValue reports whether tok is a valid condition value: a quoted string
// literal, or an input reference "input.<name>" with exactly one segment
// after the root.
func (e *Extractor) isValue(tok token) bool {
	switch tok.kind {
	case tokenString:
		return true
	case tokenIdent:
		rest, found := strings.CutPrefix(tok.text, e.pattern.inputRoot)
		return found && rest != "" && !strings.Contains(rest, ".")
	default:
		return false
	}
}
