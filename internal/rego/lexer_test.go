package rego

import "testing"

func TestLex(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token
	}{
		{
			name: "dotted identifiers",
			src:  "x.author data.elastic.posts",
			want: []token{
				{kind: tokenIdent, text: "x.author"},
				{kind: tokenIdent, text: "data.elastic.posts"},
			},
		},
		{
			name: "symbol operators",
			src:  "== != < <= > >=",
			want: []token{
				{kind: tokenOperator, text: "=="},
				{kind: tokenOperator, text: "!="},
				{kind: tokenOperator, text: "<"},
				{kind: tokenOperator, text: "<="},
				{kind: tokenOperator, text: ">"},
				{kind: tokenOperator, text: ">="},
			},
		},
		{
			name: "string literal keeps quotes",
			src:  `x.category == "Tech"`,
			want: []token{
				{kind: tokenIdent, text: "x.category"},
				{kind: tokenOperator, text: "=="},
				{kind: tokenString, text: `"Tech"`},
			},
		},
		{
			name: "braces",
			src:  "{ x }",
			want: []token{
				{kind: tokenLBrace, text: "{"},
				{kind: tokenIdent, text: "x"},
				{kind: tokenRBrace, text: "}"},
			},
		},
		{
			name: "bare equals and bang skipped",
			src:  "a = b ! c",
			want: []token{
				{kind: tokenIdent, text: "a"},
				{kind: tokenIdent, text: "b"},
				{kind: tokenIdent, text: "c"},
			},
		},
		{
			name: "unterminated literal drops remainder",
			src:  `x.author == "bob`,
			want: []token{
				{kind: tokenIdent, text: "x.author"},
				{kind: tokenOperator, text: "=="},
			},
		},
		{
			name: "punctuation skipped",
			src:  "a; b, (c)",
			want: []token{
				{kind: tokenIdent, text: "a"},
				{kind: tokenIdent, text: "b"},
				{kind: tokenIdent, text: "c"},
			},
		},
		{
			name: "empty input",
			src:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lex(tt.src)
			if len(got) != len(tt.want) {
				t.Fatalf("lex() produced %d tokens, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("lex() token[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
