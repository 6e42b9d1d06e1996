package ltl

import (
	"fmt"
	"strings"

	"github.com/dekarrin/ictiobus/lex"
)

// File parser.go parses token streams into formulas with a Pratt-style
// expression parser. Precedence, high to low: unary operators, the binary
// temporal operators (U, R, S, T), '&', '|', '->', '<->'. Implication
// associates to the right, everything else to the left.

const (
	bpIff = 10 * (iota + 1)
	bpImplies
	bpOr
	bpAnd
	bpTemporal
	bpUnary
)

// leftBindingPower maps token class IDs of binary operators to their binding
// power. Classes not in the map (including end-of-text) bind at zero, which
// terminates the parse loop.
var leftBindingPower = map[string]int{
	tcIff.ID():       bpIff,
	tcImplies.ID():   bpImplies,
	tcOr.ID():        bpOr,
	tcAnd.ID():       bpAnd,
	tcUntil.ID():     bpTemporal,
	tcRelease.ID():   bpTemporal,
	tcSince.ID():     bpTemporal,
	tcTriggered.ID(): bpTemporal,
}

// Parse reads a single formula from the given source text. The entire text
// must be consumed; trailing tokens are a syntax error. The returned error,
// if any, is a *SyntaxError.
func Parse(input string) (*Formula, error) {
	stream, err := Tokenize(strings.NewReader(input))
	if err != nil {
		return nil, &SyntaxError{message: err.Error()}
	}

	f, err := parseExpression(stream, 0)
	if err != nil {
		return nil, err
	}

	if t, err := peekToken(stream); err != nil {
		return nil, err
	} else if t.Class().ID() != lex.TokenEndOfText.ID() {
		return nil, syntaxErrorFromToken(fmt.Sprintf("unexpected %s after the formula", t.Class().Human()), t)
	}

	return f, nil
}

func parseExpression(stream lex.TokenStream, rbp int) (*Formula, error) {
	t, err := nextToken(stream)
	if err != nil {
		return nil, err
	}

	left, err := nud(t, stream)
	if err != nil {
		return nil, err
	}

	for {
		peeked, err := peekToken(stream)
		if err != nil {
			return nil, err
		}
		if rbp >= leftBindingPower[peeked.Class().ID()] {
			break
		}

		t, err = nextToken(stream)
		if err != nil {
			return nil, err
		}
		left, err = led(t, left, stream)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// nud is the null denotation: how a token produces a value when it appears in
// prefix position.
func nud(t lex.Token, stream lex.TokenStream) (*Formula, error) {
	switch t.Class().ID() {
	case tcTrue.ID():
		return True(), nil
	case tcFalse.ID():
		return False(), nil
	case tcIdentifier.ID():
		return Atom(t.Lexeme()), nil
	case tcNot.ID():
		operand, err := parseExpression(stream, bpUnary)
		if err != nil {
			return nil, err
		}
		return Not(operand), nil
	case tcNext.ID(), tcAlways.ID(), tcEventually.ID(), tcYesterday.ID(), tcPast.ID(), tcHistorically.ID():
		operand, err := parseExpression(stream, bpUnary)
		if err != nil {
			return nil, err
		}
		switch t.Class().ID() {
		case tcNext.ID():
			return Next(operand), nil
		case tcAlways.ID():
			return Always(operand), nil
		case tcEventually.ID():
			return Eventually(operand), nil
		case tcYesterday.ID():
			return Yesterday(operand), nil
		case tcPast.ID():
			return Past(operand), nil
		default:
			return Historically(operand), nil
		}
	case tcLParen.ID():
		inner, err := parseExpression(stream, 0)
		if err != nil {
			return nil, err
		}
		closing, err := nextToken(stream)
		if err != nil {
			return nil, err
		}
		if closing.Class().ID() != tcRParen.ID() {
			return nil, syntaxErrorFromToken(fmt.Sprintf("expected ')' but found %s", closing.Class().Human()), closing)
		}
		return inner, nil
	case lex.TokenEndOfText.ID():
		return nil, syntaxErrorFromToken("unexpected end of formula", t)
	default:
		return nil, syntaxErrorFromToken(fmt.Sprintf("unexpected %s\n(%s cannot be at the start of an expression)", t.Class().Human(), t.Class().Human()), t)
	}
}

// led is the left denotation: how a binary operator token combines the value
// to its left with what follows.
func led(t lex.Token, left *Formula, stream lex.TokenStream) (*Formula, error) {
	lbp := leftBindingPower[t.Class().ID()]
	if lbp == 0 {
		return nil, syntaxErrorFromToken(fmt.Sprintf("unexpected %s", t.Class().Human()), t)
	}

	// implication is right-associative: parse its right side at one power
	// less so an implication to the right binds first.
	rbp := lbp
	if t.Class().ID() == tcImplies.ID() {
		rbp = lbp - 1
	}

	right, err := parseExpression(stream, rbp)
	if err != nil {
		return nil, err
	}

	switch t.Class().ID() {
	case tcIff.ID():
		return Iff(left, right), nil
	case tcImplies.ID():
		return Implies(left, right), nil
	case tcOr.ID():
		return Or(left, right), nil
	case tcAnd.ID():
		return And(left, right), nil
	case tcUntil.ID():
		return Until(left, right), nil
	case tcRelease.ID():
		return Release(left, right), nil
	case tcSince.ID():
		return Since(left, right), nil
	case tcTriggered.ID():
		return Triggered(left, right), nil
	default:
		panic(fmt.Sprintf("operator %q has a binding power but no led", t.Class().ID()))
	}
}

func nextToken(stream lex.TokenStream) (lex.Token, error) {
	t := stream.Next()
	if t.Class().ID() == lex.TokenError.ID() {
		return t, syntaxErrorFromToken(t.Lexeme(), t)
	}
	return t, nil
}

func peekToken(stream lex.TokenStream) (lex.Token, error) {
	t := stream.Peek()
	if t.Class().ID() == lex.TokenError.ID() {
		return t, syntaxErrorFromToken(t.Lexeme(), t)
	}
	return t, nil
}

func syntaxErrorFromToken(msg string, t lex.Token) *SyntaxError {
	return &SyntaxError{
		message:    msg,
		sourceLine: t.FullLine(),
		source:     t.Lexeme(),
		pos:        t.LinePos(),
		line:       t.Line(),
	}
}
