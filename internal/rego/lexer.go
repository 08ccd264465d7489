// internal/rego/lexer.go
package rego

/*
 * Tokenizer for the restricted rule grammar.
 *
 * Produces a flat token stream the matcher walks with a cursor. Only four
 * token kinds matter to the grammar: dotted identifiers, comparison
 * operators, quoted string literals, and braces. Everything else (commas,
 * comments, stray punctuation) is skipped, never rejected - leniency is the
 * extraction policy, so the lexer has no error path.
 *
 * Identifiers are word characters and dots ("x.author",
 * "data.elastic.posts"). Keywords ("some", "in") and word operators
 * ("contains", "re_match") lex as identifiers; the matcher decides their
 * role from position and the configured operator set.
 *
 * String literals keep their surrounding quotes: condition values are
 * copied verbatim from policy text and unquoting is the compiler's job.
 * An unterminated literal yields no token - the remainder of the input is
 * unmatchable text and is dropped.
 */

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenOperator
	tokenString
	tokenLBrace
	tokenRBrace
)

type token struct {
	kind tokenKind
	text string
}

// lex splits rule text into tokens. Never fails; unrecognized bytes are
// skipped.
func lex(src string) []token {
	var tokens []token

	for i := 0; i < len(src); {
		c := src[i]

		switch {
		case isIdentByte(c):
			j := i
			for j < len(src) && (isIdentByte(src[j]) || src[j] == '.') {
				j++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: src[i:j]})
			i = j

		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				j++
			}
			if j >= len(src) {
				// Unterminated literal: nothing after it can match
				return tokens
			}
			tokens = append(tokens, token{kind: tokenString, text: src[i : j+1]})
			i = j + 1

		case c == '=' || c == '!':
			if i+1 < len(src) && src[i+1] == '=' {
				tokens = append(tokens, token{kind: tokenOperator, text: src[i : i+2]})
				i += 2
			} else {
				// Bare '=' / '!' are not part of the grammar
				i++
			}

		case c == '<' || c == '>':
			if i+1 < len(src) && src[i+1] == '=' {
				tokens = append(tokens, token{kind: tokenOperator, text: src[i : i+2]})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenOperator, text: src[i : i+1]})
				i++
			}

		case c == '{':
			tokens = append(tokens, token{kind: tokenLBrace, text: "{"})
			i++

		case c == '}':
			tokens = append(tokens, token{kind: tokenRBrace, text: "}"})
			i++

		default:
			i++
		}
	}

	return tokens
}

// isIdentByte reports whether c can start or continue an identifier
// segment. Dots are handled by the caller so a leading dot never opens an
// identifier.
func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
