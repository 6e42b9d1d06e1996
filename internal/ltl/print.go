package ltl

import (
	"fmt"
	"strings"
)

// File print.go renders formulas back to surface syntax. The output uses the
// ASCII operator aliases and only parenthesizes where precedence demands it,
// so it is suitable both for diagnostics and for re-parsing.

// operator precedence, high to low; unary operators bind tightest.
const (
	precAtom = iota
	precUnary
	precTemporalBinary
	precAnd
	precOr
	precImplies
	precIff
)

func precedence(op Op) int {
	switch op {
	case OpTrue, OpFalse, OpAtom:
		return precAtom
	case OpNot, OpNext, OpAlways, OpEventually, OpYesterday, OpPast, OpHistorically:
		return precUnary
	case OpUntil, OpRelease, OpSince, OpTriggered:
		return precTemporalBinary
	case OpAnd:
		return precAnd
	case OpOr:
		return precOr
	case OpImplies:
		return precImplies
	case OpIff:
		return precIff
	default:
		panic(fmt.Sprintf("no precedence for %v", op))
	}
}

// String renders the formula in surface syntax.
func (f *Formula) String() string {
	var sb strings.Builder
	writeFormula(&sb, f, precIff)
	return sb.String()
}

func writeFormula(sb *strings.Builder, f *Formula, enclosing int) {
	p := precedence(f.op)
	parens := p > enclosing
	if parens {
		sb.WriteByte('(')
	}

	switch f.op {
	case OpTrue:
		sb.WriteString("true")
	case OpFalse:
		sb.WriteString("false")
	case OpAtom:
		sb.WriteString(f.name)
	case OpNot:
		sb.WriteByte('!')
		writeFormula(sb, f.left, precUnary)
	case OpNext:
		sb.WriteString("X ")
		writeFormula(sb, f.left, precUnary)
	case OpAlways:
		sb.WriteString("G ")
		writeFormula(sb, f.left, precUnary)
	case OpEventually:
		sb.WriteString("F ")
		writeFormula(sb, f.left, precUnary)
	case OpYesterday:
		sb.WriteString("Y ")
		writeFormula(sb, f.left, precUnary)
	case OpPast:
		sb.WriteString("P ")
		writeFormula(sb, f.left, precUnary)
	case OpHistorically:
		sb.WriteString("H ")
		writeFormula(sb, f.left, precUnary)
	case OpUntil:
		writeBinary(sb, f, "U", precTemporalBinary)
	case OpRelease:
		writeBinary(sb, f, "R", precTemporalBinary)
	case OpSince:
		writeBinary(sb, f, "S", precTemporalBinary)
	case OpTriggered:
		writeBinary(sb, f, "T", precTemporalBinary)
	case OpAnd:
		writeBinary(sb, f, "&", precAnd)
	case OpOr:
		writeBinary(sb, f, "|", precOr)
	case OpImplies:
		writeBinary(sb, f, "->", precImplies)
	case OpIff:
		writeBinary(sb, f, "<->", precIff)
	default:
		panic(fmt.Sprintf("cannot print %v node", f.op))
	}

	if parens {
		sb.WriteByte(')')
	}
}

// writeBinary renders a left-associative binary node. The right operand gets
// one level less so equal-precedence neighbors on the right are
// parenthesized; implication is the exception and associates to the right.
func writeBinary(sb *strings.Builder, f *Formula, opText string, p int) {
	leftMax, rightMax := p, p-1
	if f.op == OpImplies {
		leftMax, rightMax = p-1, p
	}
	writeFormula(sb, f.left, leftMax)
	sb.WriteByte(' ')
	sb.WriteString(opText)
	sb.WriteByte(' ')
	writeFormula(sb, f.right, rightMax)
}
