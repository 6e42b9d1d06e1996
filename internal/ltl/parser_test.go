package ltl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	a := Atom("a")
	b := Atom("b")
	c := Atom("c")

	testCases := []struct {
		name      string
		input     string
		expect    *Formula
		expectErr bool
	}{
		{name: "atom", input: "a", expect: a},
		{name: "constant", input: "true", expect: True()},
		{name: "negation", input: "!a", expect: Not(a)},
		{name: "double negation", input: "!!a", expect: Not(Not(a))},
		{name: "unary chain", input: "G F a", expect: Always(Eventually(a))},
		{name: "next of negation", input: "X !a", expect: Next(Not(a))},
		{name: "and binds tighter than or", input: "a | b & c", expect: Or(a, And(b, c))},
		{name: "until binds tighter than and", input: "a U b & c", expect: And(Until(a, b), c)},
		{name: "unary binds tighter than until", input: "!a U X b", expect: Until(Not(a), Next(b))},
		{name: "until is left associative", input: "a U b U c", expect: Until(Until(a, b), c)},
		{name: "and is left associative", input: "a & b & c", expect: And(And(a, b), c)},
		{name: "implication is right associative", input: "a -> b -> c", expect: Implies(a, Implies(b, c))},
		{name: "iff is loosest", input: "a <-> b -> c", expect: Iff(a, Implies(b, c))},
		{name: "parens override precedence", input: "(a | b) & c", expect: And(Or(a, b), c)},
		{name: "release", input: "a R b", expect: Release(a, b)},
		{name: "since", input: "a S b", expect: Since(a, b)},
		{name: "triggered", input: "a T b", expect: Triggered(a, b)},
		{name: "yesterday", input: "Y a", expect: Yesterday(a)},
		{name: "past", input: "P a", expect: Past(a)},
		{name: "historically", input: "H a", expect: Historically(a)},
		{name: "spec example", input: "G (a -> X b) & a & !b", expect: And(And(Always(Implies(a, Next(b))), a), Not(b))},
		{name: "empty input", input: "", expectErr: true},
		{name: "binary op at start", input: "U a", expectErr: true},
		{name: "missing right operand", input: "a U", expectErr: true},
		{name: "unbalanced parens", input: "(a | b", expectErr: true},
		{name: "trailing tokens", input: "a b", expectErr: true},
		{name: "stray closing paren", input: "a)", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Parse(tc.input)

			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.True(tc.expect.Equal(actual), "expected %q but got %q", tc.expect, actual)
		})
	}
}

func Test_Parse_syntaxErrorPosition(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("a & )")

	if !assert.Error(err) {
		return
	}
	synErr, ok := err.(*SyntaxError)
	if !assert.True(ok, "expected a *SyntaxError but got %T", err) {
		return
	}
	assert.Equal(1, synErr.Line())
	assert.Equal(5, synErr.Position())
	assert.Contains(synErr.FullMessage(), "^")
}

func Test_Parse_stringRoundTrip(t *testing.T) {
	// rendering a parsed formula and parsing it again must give the same
	// tree.
	inputs := []string{
		"a",
		"!a",
		"G (a -> X b) & a & !b",
		"(a U b) | (c R a)",
		"F (a & X (b U c))",
		"a <-> b -> c",
		"Y a S b",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert := assert.New(t)

			first, err := Parse(input)
			if !assert.NoError(err) {
				return
			}
			second, err := Parse(first.String())
			if !assert.NoError(err, "re-parsing %q", first.String()) {
				return
			}
			assert.True(first.Equal(second), "round trip of %q changed the tree (%q)", input, first)
		})
	}
}
