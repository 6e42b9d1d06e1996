package ltl

import (
	"strings"
	"testing"

	"github.com/dekarrin/ictiobus/lex"
	"github.com/stretchr/testify/assert"
)

// lexClasses runs the lexer over the input and returns the IDs of the token
// classes produced, not including end-of-text.
func lexClasses(t *testing.T, input string) ([]string, error) {
	t.Helper()

	stream, err := Tokenize(strings.NewReader(input))
	if err != nil {
		return nil, err
	}

	var classes []string
	for {
		tok := stream.Next()
		switch tok.Class().ID() {
		case lex.TokenEndOfText.ID():
			return classes, nil
		case lex.TokenError.ID():
			return nil, &SyntaxError{message: tok.Lexeme()}
		}
		classes = append(classes, tok.Class().ID())
	}
}

func Test_Lex_tokenClassSequence(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    []string
		expectErr bool
	}{
		{name: "blank string", input: "", expect: nil},
		{name: "single atom", input: "a", expect: []string{"id"}},
		{name: "atom with digits and underscore", input: "req_1", expect: []string{"id"}},
		{name: "constant true", input: "true", expect: []string{"true"}},
		{name: "constant false", input: "false", expect: []string{"false"}},
		{name: "unicode constants", input: "⊤ ⊥", expect: []string{"true", "false"}},
		{name: "conjunction ascii", input: "a & b", expect: []string{"id", "and", "id"}},
		{name: "conjunction doubled", input: "a && b", expect: []string{"id", "and", "id"}},
		{name: "conjunction slashes", input: `a /\ b`, expect: []string{"id", "and", "id"}},
		{name: "conjunction unicode", input: "a ∧ b", expect: []string{"id", "and", "id"}},
		{name: "disjunction ascii", input: "a | b", expect: []string{"id", "or", "id"}},
		{name: "disjunction doubled", input: "a || b", expect: []string{"id", "or", "id"}},
		{name: "disjunction slashes", input: `a \/ b`, expect: []string{"id", "or", "id"}},
		{name: "negation bang", input: "!a", expect: []string{"not", "id"}},
		{name: "negation tilde", input: "~a", expect: []string{"not", "id"}},
		{name: "negation keyword", input: "NOT a", expect: []string{"not", "id"}},
		{name: "negation unicode", input: "¬a", expect: []string{"not", "id"}},
		{name: "implication", input: "a -> b", expect: []string{"id", "implies", "id"}},
		{name: "implication fat", input: "a => b", expect: []string{"id", "implies", "id"}},
		{name: "iff", input: "a <-> b", expect: []string{"id", "iff", "id"}},
		{name: "iff fat", input: "a <=> b", expect: []string{"id", "iff", "id"}},
		{name: "next", input: "X a", expect: []string{"next", "id"}},
		{name: "always letter", input: "G a", expect: []string{"always", "id"}},
		{name: "always brackets", input: "[] a", expect: []string{"always", "id"}},
		{name: "eventually letter", input: "F a", expect: []string{"eventually", "id"}},
		{name: "eventually diamond", input: "<> a", expect: []string{"eventually", "id"}},
		{name: "until", input: "a U b", expect: []string{"id", "until", "id"}},
		{name: "release", input: "a R b", expect: []string{"id", "release", "id"}},
		{name: "release V", input: "a V b", expect: []string{"id", "release", "id"}},
		{name: "yesterday", input: "Y a", expect: []string{"yesterday", "id"}},
		{name: "since", input: "a S b", expect: []string{"id", "since", "id"}},
		{name: "triggered", input: "a T b", expect: []string{"id", "triggered", "id"}},
		{name: "past", input: "P a", expect: []string{"past", "id"}},
		{name: "historically", input: "H a", expect: []string{"historically", "id"}},
		{name: "parens", input: "(a)", expect: []string{"lp", "id", "rp"}},
		{name: "keyword glued to letter is an atom", input: "Xa", expect: []string{"id"}},
		{name: "keyword glued to keyword is an atom", input: "GF", expect: []string{"id"}},
		{name: "full formula", input: "G (a -> X b)", expect: []string{
			"always", "lp", "id", "implies", "next", "id", "rp",
		}},
		{name: "unknown rune", input: "a @ b", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := lexClasses(t, tc.input)

			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}
