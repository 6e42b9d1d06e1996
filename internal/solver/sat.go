package solver

import (
	"fmt"
	"sort"

	gophersat "github.com/crillab/gophersat/solver"
	"github.com/tempo-ltl/tempo/internal/trace"
)

// File sat.go is the propositional accelerator: when a fully α-expanded frame
// still holds unprocessed disjunctions, the frame's propositional skeleton is
// handed to a CDCL solver, which picks a satisfying assignment of all the
// disjunctions in one go. Rollback into the frame asks the same solver for
// the next assignment under accumulated blocking clauses.

// satHandle owns the solver attached to a SAT frame. It lives until the
// frame is popped.
type satHandle struct {
	gs *gophersat.Solver
}

// shouldUseSAT reports whether the frame should resolve its pending
// disjunctions through the accelerator.
func (s *Solver) shouldUseSAT(f *frame) bool {
	if !s.useSAT {
		return false
	}
	s.pending(f, s.pool.disjunction)
	return s.temp.Any()
}

// enterSATMode converts the frame into a SAT frame, builds the CNF of its
// propositional skeleton, and pushes a child for the first satisfying
// assignment. It returns false when the skeleton is propositionally
// unsatisfiable, leaving the caller to roll back.
func (s *Solver) enterSATMode(f *frame) bool {
	f.typ = frameSAT

	// the footprint: every asserted atom, atom-negation, tomorrow-formula
	// and disjunction. Conjunctions are gone by now and the remaining
	// temporal operators enter as their unit clauses would fix them anyway.
	s.temp.ClearAll()
	s.pool.atom.CopyFull(s.temp)
	s.temp.InPlaceUnion(s.pool.negation)
	s.temp.InPlaceUnion(s.pool.tomorrow)
	s.temp.InPlaceUnion(s.pool.disjunction)
	s.temp.InPlaceIntersection(f.formulas)

	var clauses [][]int
	seen := map[int]bool{}
	for i, ok := s.temp.NextSet(0); ok; i, ok = s.temp.NextSet(i + 1) {
		cl := s.pool.clauses[i]
		if cl == nil {
			panic(fmt.Sprintf("tableau: no clause for footprint position %d", i))
		}
		clauses = append(clauses, cl)
		for _, lit := range cl {
			v := lit
			if v < 0 {
				v = -v
			}
			if !seen[v-1] {
				seen[v-1] = true
				f.literals = append(f.literals, v-1)
			}
		}
		if s.pool.disjunction.Test(i) {
			f.toProcess.Clear(i)
		}
	}
	sort.Ints(f.literals)

	trace.Verbosef("Handing %d clauses over %d variables to the SAT solver", len(clauses), len(f.literals))

	pb := gophersat.ParseSlice(clauses)
	f.sat = &satHandle{gs: gophersat.New(pb)}

	if f.sat.gs.Solve() != gophersat.Sat {
		trace.Verbosef("SAT solver found the skeleton unsatisfiable")
		return false
	}

	s.push(s.extractSATModel(f))
	return true
}

// nextSATModel asks the frame's solver for a further assignment; the
// blocking clauses added after each extraction guarantee it differs from all
// previous ones.
func (s *Solver) nextSATModel(f *frame) (*frame, bool) {
	if f.sat.gs.Solve() != gophersat.Sat {
		return nil, false
	}
	return s.extractSATModel(f), true
}

// extractSATModel reads the current model into a child frame and appends the
// clause blocking it. Variables assigned true assert their position; ones
// assigned false assert the adjacent negation where the pool has one.
func (s *Solver) extractSATModel(f *frame) *frame {
	model := f.sat.gs.Model()
	child := newChildFrame(f)

	var blocking []gophersat.Lit
	for _, v := range f.literals {
		if model[v] {
			child.formulas.Set(uint(v))
			blocking = append(blocking, gophersat.IntToLit(int32(-(v + 1))))
		} else if s.pool.negPair(uint(v)) {
			child.formulas.Set(uint(v) + 1)
			blocking = append(blocking, gophersat.IntToLit(int32(v+1)))
		}
		// a false variable with no negation partner carries no information
		// into the frame.
	}
	f.sat.gs.AppendClause(gophersat.NewClause(blocking))

	return child
}
