package solver

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// File model.go extracts the witness model from a paused solver and renders
// it, both in the machine-parsable answer format and for human eyes.

// Literal is one proposition of a state, possibly negated.
type Literal struct {
	Atom     string
	Negative bool
}

func (l Literal) String() string {
	if l.Negative {
		return "!" + l.Atom
	}
	return l.Atom
}

// State is the set of literals holding at one instant, in pool order.
type State []Literal

// Model is an ultimately periodic trace: the states up to the end of the
// loop, and the index of the state the loop re-enters.
type Model struct {
	States    []State
	LoopState int
}

// Model returns the witness for the last satisfiable verdict, or nil when
// the solver is not paused on one; a formula that folded to ⊤ always gets the
// one-state empty model. The trace runs from instant 0 through the
// end of the loop; LoopState indexes the instant the path loops back to.
func (s *Solver) Model() *Model {
	if s.result != Satisfiable {
		return nil
	}

	// a formula that folded to ⊤ has the trivial one-state model.
	if s.pool == nil {
		return &Model{States: []State{{}}, LoopState: 0}
	}

	if s.state != statePaused {
		return nil
	}

	m := &Model{LoopState: int(s.loopState)}
	for _, f := range s.stack {
		if f.typ == frameChoice || f.typ == frameSAT {
			continue
		}

		var state State
		for j, ok := f.formulas.NextSet(0); ok; j, ok = f.formulas.NextSet(j + 1) {
			if name, isAtom := s.pool.atomNames[FormulaID(j)]; isAtom {
				state = append(state, Literal{Atom: name})
			} else if s.pool.negation.Test(j) {
				if name, isAtom := s.pool.atomNames[s.pool.lhs[j]]; isAtom {
					state = append(state, Literal{Atom: name, Negative: true})
				}
			}
		}
		m.States = append(m.States, state)
	}

	// the top frame repeats the loop target unless the whole model is the
	// single initial instant.
	if s.top().id != 0 {
		m.States = m.States[:len(m.States)-1]
	}

	return m
}

// Parsable renders the model in the machine-readable answer format: states
// comma-separated, each a brace-enclosed literal set, the loop target
// prefixed with '*'.
func (m *Model) Parsable() string {
	var sb strings.Builder
	for i, state := range m.States {
		if i > 0 {
			sb.WriteByte(',')
		}
		if i == m.LoopState {
			sb.WriteByte('*')
		}
		sb.WriteByte('{')
		for j, lit := range state {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(lit.String())
		}
		sb.WriteByte('}')
	}
	return sb.String()
}

// Pretty renders the model one state per line for console output, marking
// where the loop re-enters.
func (m *Model) Pretty() string {
	var sb strings.Builder
	for i, state := range m.States {
		lits := make([]string, len(state))
		for j, lit := range state {
			lits[j] = lit.String()
		}
		line := fmt.Sprintf("State %d: {%s}", i, strings.Join(lits, ", "))
		if i == m.LoopState {
			line += "  <- loop starts here"
		}
		sb.WriteString(line)
		if i+1 < len(m.States) {
			sb.WriteByte('\n')
		}
	}

	return rosed.Edit(sb.String()).
		WithOptions(rosed.Options{ParagraphSeparator: "\n"}).
		Wrap(80).
		String()
}
