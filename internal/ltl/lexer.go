package ltl

import (
	"io"

	"github.com/dekarrin/ictiobus"
	"github.com/dekarrin/ictiobus/lex"
)

// File lexer.go defines the token classes of the formula surface syntax and
// builds the lexer for them. Each operator accepts both its ASCII aliases and
// its Unicode glyph.

var (
	tcTrue         = lex.NewTokenClass("true", "constant true")
	tcFalse        = lex.NewTokenClass("false", "constant false")
	tcIdentifier   = lex.NewTokenClass("id", "proposition name")
	tcNot          = lex.NewTokenClass("not", "'!'")
	tcAnd          = lex.NewTokenClass("and", "'&'")
	tcOr           = lex.NewTokenClass("or", "'|'")
	tcImplies      = lex.NewTokenClass("implies", "'->'")
	tcIff          = lex.NewTokenClass("iff", "'<->'")
	tcNext         = lex.NewTokenClass("next", "'X'")
	tcAlways       = lex.NewTokenClass("always", "'G'")
	tcEventually   = lex.NewTokenClass("eventually", "'F'")
	tcUntil        = lex.NewTokenClass("until", "'U'")
	tcRelease      = lex.NewTokenClass("release", "'R'")
	tcYesterday    = lex.NewTokenClass("yesterday", "'Y'")
	tcSince        = lex.NewTokenClass("since", "'S'")
	tcTriggered    = lex.NewTokenClass("triggered", "'T'")
	tcPast         = lex.NewTokenClass("past", "'P'")
	tcHistorically = lex.NewTokenClass("historically", "'H'")
	tcLParen       = lex.NewTokenClass("lp", "'('")
	tcRParen       = lex.NewTokenClass("rp", "')'")
)

// Lexer returns a lexer for LTL formulas. The lexer is lazy; lexing errors
// surface as error tokens during parsing.
func Lexer() lex.Lexer {
	lx := ictiobus.NewLazyLexer()

	lx.RegisterClass(tcTrue, "")
	lx.RegisterClass(tcFalse, "")
	lx.RegisterClass(tcNot, "")
	lx.RegisterClass(tcAnd, "")
	lx.RegisterClass(tcOr, "")
	lx.RegisterClass(tcImplies, "")
	lx.RegisterClass(tcIff, "")
	lx.RegisterClass(tcNext, "")
	lx.RegisterClass(tcAlways, "")
	lx.RegisterClass(tcEventually, "")
	lx.RegisterClass(tcUntil, "")
	lx.RegisterClass(tcRelease, "")
	lx.RegisterClass(tcYesterday, "")
	lx.RegisterClass(tcSince, "")
	lx.RegisterClass(tcTriggered, "")
	lx.RegisterClass(tcPast, "")
	lx.RegisterClass(tcHistorically, "")
	lx.RegisterClass(tcLParen, "")
	lx.RegisterClass(tcRParen, "")
	lx.RegisterClass(tcIdentifier, "")

	// multi-character operators first; keeping the longer aliases together
	// with their prefixes makes the table easier to audit. Keyword patterns
	// outrank the identifier pattern, so the word keywords only match at a
	// word boundary: a keyword glued to further identifier characters ("Xa",
	// "GF") lexes as one identifier.
	lx.AddPattern(`<->|<=>|↔`, lex.LexAs(tcIff.ID()), "", 1)
	lx.AddPattern(`->|=>|→`, lex.LexAs(tcImplies.ID()), "", 1)
	lx.AddPattern(`&&|&|/\\|∧`, lex.LexAs(tcAnd.ID()), "", 1)
	lx.AddPattern(`\|\||\||\\/|∨`, lex.LexAs(tcOr.ID()), "", 1)
	lx.AddPattern(`!|~|¬`, lex.LexAs(tcNot.ID()), "", 1)
	lx.AddPattern(`NOT\b`, lex.LexAs(tcNot.ID()), "", 2)
	lx.AddPattern(`true\b|⊤`, lex.LexAs(tcTrue.ID()), "", 2)
	lx.AddPattern(`false\b|⊥`, lex.LexAs(tcFalse.ID()), "", 2)
	lx.AddPattern(`X\b|○`, lex.LexAs(tcNext.ID()), "", 2)
	lx.AddPattern(`G\b|\[\]|□`, lex.LexAs(tcAlways.ID()), "", 2)
	lx.AddPattern(`F\b|<>|◇`, lex.LexAs(tcEventually.ID()), "", 2)
	lx.AddPattern(`U\b`, lex.LexAs(tcUntil.ID()), "", 2)
	lx.AddPattern(`R\b|V\b`, lex.LexAs(tcRelease.ID()), "", 2)
	lx.AddPattern(`Y\b`, lex.LexAs(tcYesterday.ID()), "", 2)
	lx.AddPattern(`S\b`, lex.LexAs(tcSince.ID()), "", 2)
	lx.AddPattern(`T\b`, lex.LexAs(tcTriggered.ID()), "", 2)
	lx.AddPattern(`P\b`, lex.LexAs(tcPast.ID()), "", 2)
	lx.AddPattern(`H\b`, lex.LexAs(tcHistorically.ID()), "", 2)
	lx.AddPattern(`\(`, lex.LexAs(tcLParen.ID()), "", 1)
	lx.AddPattern(`\)`, lex.LexAs(tcRParen.ID()), "", 1)
	lx.AddPattern(`[A-Za-z_][A-Za-z0-9_]*`, lex.LexAs(tcIdentifier.ID()), "", 0)
	lx.AddPattern(`\s+`, lex.Discard(), "", 0)

	return lx
}

// Tokenize runs the lexer over the given input and returns the token stream.
func Tokenize(input io.Reader) (lex.TokenStream, error) {
	return Lexer().Lex(input)
}
