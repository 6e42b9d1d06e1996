package solver

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/bits-and-blooms/bitset"
	"github.com/tempo-ltl/tempo/internal/ltl"
	"github.com/tempo-ltl/tempo/internal/trace"
)

// File solver.go is the tableau engine proper: the deterministic rule loop
// (contradiction, the α-rules, the β-choices), the history links, the
// loop/prune checks, the step rule, and rollback.

// Result is the verdict of a solve.
type Result int

const (
	Undefined Result = iota
	Satisfiable
	Unsatisfiable
)

func (r Result) String() string {
	switch r {
	case Satisfiable:
		return "SAT"
	case Unsatisfiable:
		return "UNSAT"
	default:
		return "UNDEFINED"
	}
}

type solveState int

const (
	stateInitialized solveState = iota
	stateRunning
	statePaused
	stateDone
)

// Stats counts search effort; reported at debug verbosity and on interrupt.
type Stats struct {
	TotalFrames          uint64
	MaxModelSize         FrameID
	MaxFrames            int
	CrossByContradiction uint64
	CrossByPrune         uint64
}

// Options configures a solve.
type Options struct {
	// MaxDepth caps the time-step depth; 0 means unlimited.
	MaxDepth uint64

	// DisableSAT turns the propositional accelerator off. Verdicts do not
	// depend on it; the model found can differ between the two modes.
	DisableSAT bool
}

// Solver decides satisfiability of one formula. It is not safe for
// concurrent use, with the sole exception of Interrupt.
type Solver struct {
	formula *ltl.Formula // simplified form
	pool    *pool
	stack   []*frame

	maxDepth FrameID
	useSAT   bool

	state     solveState
	result    Result
	loopState FrameID

	hasEventually bool
	hasUntil      bool
	hasNotUntil   bool

	interrupted atomic.Bool
	stats       Stats

	// temp is scratch space for the bitset algebra of the rules.
	temp *bitset.BitSet
}

// New builds a solver for the given formula. The formula is simplified here;
// an *ltl.UnsupportedError is returned when it lies outside the recognized
// fragment.
func New(f *ltl.Formula, opts Options) (*Solver, error) {
	simplified, err := ltl.Simplify(f)
	if err != nil {
		return nil, err
	}

	s := &Solver{
		formula:  simplified,
		maxDepth: FrameID(math.MaxInt64),
		useSAT:   !opts.DisableSAT,
		state:    stateInitialized,
		result:   Undefined,
	}
	if opts.MaxDepth != 0 && opts.MaxDepth < math.MaxInt64 {
		s.maxDepth = FrameID(opts.MaxDepth)
	}

	// a formula that folds to a constant never builds a pool.
	switch simplified.Op() {
	case ltl.OpTrue:
		s.result = Satisfiable
		s.state = stateDone
		return s, nil
	case ltl.OpFalse:
		s.result = Unsatisfiable
		s.state = stateDone
		return s, nil
	}

	trace.Debugf("Simplified formula: %s", simplified)
	s.pool = newPool(simplified, s.useSAT)
	trace.Debugf("Found %d subformulas, %d eventualities", s.pool.n, s.pool.numEventualities())

	s.hasEventually = s.pool.eventually.Any()
	s.hasUntil = s.pool.until.Any()
	s.hasNotUntil = s.pool.notUntil.Any()
	s.temp = bitset.New(s.pool.n)

	s.push(newInitialFrame(s.pool.start, s.pool.n, s.pool.numEventualities()))
	return s, nil
}

// Formula returns the simplified formula the solver decides.
func (s *Solver) Formula() *ltl.Formula {
	return s.formula
}

// Statistics returns the search-effort counters accumulated so far.
func (s *Solver) Statistics() Stats {
	return s.stats
}

// Interrupt asks a running solve to stop at its next rule-loop iteration. It
// is safe to call from another goroutine or a signal handler.
func (s *Solver) Interrupt() {
	s.interrupted.Store(true)
}

// Solution runs the search to a verdict. A satisfiable verdict pauses the
// engine with the model path on the stack; calling Solution again rolls the
// latest choice back and resumes, which is how further models are found.
func (s *Solver) Solution() Result {
	switch s.state {
	case stateRunning, stateDone:
		return s.result
	case statePaused:
		s.rollbackToLatestChoice()
	}
	s.state = stateRunning

frames:
	for len(s.stack) > 0 {
		if s.interrupted.Load() {
			s.interrupted.Store(false)
			s.dumpStats()
			s.state = stateDone
			return s.result
		}

		f := s.top()

		// expand the current frame until it is stable, a contradiction
		// rolls it back, or a β-rule pushes a child.
		for {
			if f.formulas.None() {
				// no obligations at all: the empty instant repeats forever.
				s.state = statePaused
				s.result = Satisfiable
				if f.chain != nil {
					s.loopState = f.chain.id
				} else {
					s.loopState = 0
				}
				s.dumpStats()
				return s.result
			}

			if s.checkContradiction(f) {
				s.stats.TotalFrames++
				s.stats.CrossByContradiction++
				s.rollbackToLatestChoice()
				continue frames
			}

			applied := false
			if s.applyConjunction(f) {
				applied = true
			}
			if s.applyAlways(f) {
				applied = true
			}
			if applied {
				// α-rules run to exhaustion (and re-check contradictions)
				// before any branching.
				continue
			}

			if !s.shouldUseSAT(f) && s.chooseFirst(f, s.pool.disjunction) {
				child := newChildFrame(f)
				child.formulas.Set(uint(s.pool.lhs[f.chosen]))
				s.push(child)
				continue frames
			}

			if s.hasEventually && s.chooseFirst(f, s.pool.eventually) {
				s.requestEventuality(f, s.pool.lhs[f.chosen])
				child := newChildFrame(f)
				child.formulas.Set(uint(s.pool.lhs[f.chosen]))
				s.push(child)
				continue frames
			}

			if s.hasUntil && s.chooseFirst(f, s.pool.until) {
				s.requestEventuality(f, s.pool.rhs[f.chosen])
				child := newChildFrame(f)
				child.formulas.Set(uint(s.pool.rhs[f.chosen]))
				s.push(child)
				continue frames
			}

			if s.hasNotUntil && s.chooseFirst(f, s.pool.notUntil) {
				s.requestEventuality(f, s.pool.lhs[f.chosen])
				s.requestEventuality(f, s.pool.rhs[f.chosen])
				child := newChildFrame(f)
				child.formulas.Set(uint(s.pool.lhs[f.chosen]))
				child.formulas.Set(uint(s.pool.rhs[f.chosen]))
				s.push(child)
				continue frames
			}

			if s.shouldUseSAT(f) {
				if s.enterSATMode(f) {
					continue frames
				}
				f.typ = frameUnknown
				s.stats.TotalFrames++
				s.rollbackToLatestChoice()
				continue frames
			}

			break
		}

		// the instant is fully expanded; close, cut, or advance.
		s.updateEventualities(f)
		s.updateHistory(f)

		if ok, loopID := s.checkLoopRule(f); ok {
			s.result = Satisfiable
			s.state = statePaused
			s.loopState = loopID
			s.dumpStats()
			return s.result
		}

		if s.checkPrune0(f) || s.checkPrune(f) {
			s.stats.TotalFrames++
			s.stats.CrossByPrune++
			s.rollbackToLatestChoice()
			continue
		}

		if f.id >= s.maxDepth {
			s.stats.TotalFrames++
			s.rollbackToLatestChoice()
			continue
		}

		s.step(f)
	}

	s.state = stateDone
	if s.result == Undefined {
		s.result = Unsatisfiable
	}
	s.dumpStats()
	return s.result
}

func (s *Solver) top() *frame {
	return s.stack[len(s.stack)-1]
}

func (s *Solver) push(f *frame) {
	s.stack = append(s.stack, f)
	s.stats.TotalFrames++
	if len(s.stack) > s.stats.MaxFrames {
		s.stats.MaxFrames = len(s.stack)
	}
	if f.id > s.stats.MaxModelSize {
		s.stats.MaxModelSize = f.id
	}
}

func (s *Solver) pop() {
	s.stack[len(s.stack)-1] = nil
	s.stack = s.stack[:len(s.stack)-1]
}

// checkContradiction reports whether the frame asserts both a formula and
// its adjacent negation.
func (s *Solver) checkContradiction(f *frame) bool {
	s.temp.ClearAll()
	f.formulas.CopyFull(s.temp)
	s.temp.InPlaceIntersection(s.pool.negation)
	for i, ok := s.temp.NextSet(0); ok; i, ok = s.temp.NextSet(i + 1) {
		if f.formulas.Test(uint(s.pool.lhs[i])) {
			return true
		}
	}
	return false
}

// applyConjunction asserts both children of every pending conjunction.
func (s *Solver) applyConjunction(f *frame) bool {
	s.pending(f, s.pool.conjunction)
	if !s.temp.Any() {
		return false
	}
	for i, ok := s.temp.NextSet(0); ok; i, ok = s.temp.NextSet(i + 1) {
		f.formulas.Set(uint(s.pool.lhs[i]))
		f.formulas.Set(uint(s.pool.rhs[i]))
		f.toProcess.Clear(i)
	}
	return true
}

// applyAlways asserts the operand of every pending G plus the adjacent X G
// carrying it to the next instant.
func (s *Solver) applyAlways(f *frame) bool {
	s.pending(f, s.pool.always)
	if !s.temp.Any() {
		return false
	}
	for i, ok := s.temp.NextSet(0); ok; i, ok = s.temp.NextSet(i + 1) {
		f.formulas.Set(uint(s.pool.lhs[i]))
		f.formulas.Set(i + 1)
		f.toProcess.Clear(i)
	}
	return true
}

// chooseFirst installs the first pending position of the given category as
// this frame's choice. The caller pushes the first branch; rollback installs
// the alternative.
func (s *Solver) chooseFirst(f *frame, category *bitset.BitSet) bool {
	s.pending(f, category)
	i, ok := s.temp.NextSet(0)
	if !ok {
		return false
	}
	f.toProcess.Clear(i)
	f.chosen = FormulaID(i)
	f.typ = frameChoice
	return true
}

// pending computes formulas ∩ toProcess ∩ category into the scratch bitset.
func (s *Solver) pending(f *frame, category *bitset.BitSet) {
	s.temp.ClearAll()
	f.formulas.CopyFull(s.temp)
	s.temp.InPlaceIntersection(category)
	s.temp.InPlaceIntersection(f.toProcess)
}

// requestEventuality marks the eventuality of the given promised position as
// awaited, unless the branch already tracks it.
func (s *Solver) requestEventuality(f *frame, promised FormulaID) {
	k := s.pool.fw[promised]
	if k == noFormula {
		panic(fmt.Sprintf("tableau: position %d promised but not registered as an eventuality", promised))
	}
	ev := &f.eventualities[k]
	if ev.state == evNotRequested {
		ev.state = evNotSatisfied
	}
}

// updateEventualities records, for every registered eventuality, that its
// formula held at this instant.
func (s *Solver) updateEventualities(f *frame) {
	for k := range f.eventualities {
		if f.formulas.Test(uint(s.pool.bw[k])) {
			f.eventualities[k].satisfy(f.id)
		}
	}
}

// updateHistory links the fully-expanded frame to the most recent earlier
// instant carrying an identical formula set, and through it to the earliest
// one.
func (s *Solver) updateHistory(f *frame) {
	for cur := f.chain; cur != nil; cur = cur.chain {
		if cur.formulas.Equal(f.formulas) {
			f.prev = cur
			f.first = cur.first
			return
		}
	}
	f.prev = f
	f.first = f
}

// checkLoopRule fires when the path has returned to an earlier identical
// instant and every awaited eventuality was fulfilled inside the candidate
// loop.
func (s *Solver) checkLoopRule(f *frame) (bool, FrameID) {
	if f.first == f {
		return false, 0
	}
	firstID := f.first.id
	for k := range f.eventualities {
		ev := &f.eventualities[k]
		if ev.state == evNotRequested {
			continue
		}
		if ev.state == evSatisfied && ev.at > firstID {
			continue
		}
		return false, 0
	}
	return true, firstID
}

// checkPrune0 cuts a branch that revisited an instant without satisfying any
// eventuality since the previous visit.
func (s *Solver) checkPrune0(f *frame) bool {
	if f.prev == f || len(f.eventualities) == 0 {
		return false
	}
	prevID := f.prev.id
	for k := range f.eventualities {
		ev := &f.eventualities[k]
		if ev.state == evSatisfied && ev.at > prevID {
			return false
		}
	}
	return true
}

// checkPrune cuts a branch whose progress since the previous visit is
// subsumed by the progress the previous visit had already made inside the
// candidate loop.
func (s *Solver) checkPrune(f *frame) bool {
	if f.prev == f.first {
		return false
	}
	for k := range f.eventualities {
		ev := &f.eventualities[k]
		if ev.state != evSatisfied || ev.at <= f.prev.id {
			continue
		}
		pev := &f.prev.eventualities[k]
		if pev.state == evSatisfied && pev.at > f.first.id {
			continue
		}
		return false
	}
	return true
}

// step advances to the next time instant, promoting the operand of every
// asserted X.
func (s *Solver) step(f *frame) {
	child := newStepFrame(f.id+1, s.pool.n, f.eventualities, f)

	s.temp.ClearAll()
	f.formulas.CopyFull(s.temp)
	s.temp.InPlaceIntersection(s.pool.tomorrow)
	for i, ok := s.temp.NextSet(0); ok; i, ok = s.temp.NextSet(i + 1) {
		child.formulas.Set(uint(s.pool.lhs[i]))
	}

	f.typ = frameStep
	s.push(child)
}

// rollbackToLatestChoice pops frames until a choice point with an untried
// alternative (or a SAT frame with another model) is found, installs that
// alternative, and returns. An emptied stack means the search space is
// exhausted.
func (s *Solver) rollbackToLatestChoice() {
	for len(s.stack) > 0 {
		top := s.top()

		if top.typ == frameChoice && top.chosen != noFormula {
			c := top.chosen
			sibling := newChildFrame(top)

			switch {
			case s.pool.disjunction.Test(uint(c)):
				sibling.formulas.Set(uint(s.pool.rhs[c]))

			case s.pool.eventually.Test(uint(c)):
				// the alternative defers the promise: X F φ.
				sibling.formulas.Set(uint(c) + 1)

			case s.pool.until.Test(uint(c)):
				sibling.formulas.Set(uint(s.pool.lhs[c]))
				sibling.formulas.Set(uint(s.pool.xEncoding(c)))

			case s.pool.notUntil.Test(uint(c)):
				sibling.formulas.Set(uint(s.pool.rhs[c]))
				sibling.formulas.Set(uint(s.pool.xEncoding(c)))

			default:
				panic(fmt.Sprintf("tableau: frame chose position %d of a non-branching kind", c))
			}

			top.chosen = noFormula
			s.push(sibling)
			return
		}

		if top.typ == frameSAT && top.sat != nil {
			if child, ok := s.nextSATModel(top); ok {
				s.push(child)
				return
			}
		}

		s.pop()
	}
}

func (s *Solver) dumpStats() {
	trace.Debugf("Total frames: %d", s.stats.TotalFrames)
	trace.Debugf("Maximum model size: %d", s.stats.MaxModelSize)
	trace.Debugf("Maximum depth: %d", s.stats.MaxFrames)
	trace.Debugf("Cross by contradiction: %d", s.stats.CrossByContradiction)
	trace.Debugf("Cross by prune: %d", s.stats.CrossByPrune)
}
