package solver

import (
	"github.com/bits-and-blooms/bitset"
)

// File frame.go holds the engine's representation of one candidate time
// instant (or choice point within one): the asserted-formula bitmap, the
// still-to-process bitmap, the per-eventuality bookkeeping, and the
// back-links that drive loop and prune detection.

type frameType uint8

const (
	frameUnknown frameType = iota
	frameStep
	frameChoice
	frameSAT
)

type evState uint8

const (
	// evNotRequested: no rule has promised this eventuality on the current
	// branch.
	evNotRequested evState = iota

	// evNotSatisfied: promised but not yet fulfilled.
	evNotSatisfied

	// evSatisfied: the promised formula held at frame `at`.
	evSatisfied
)

// eventuality is the per-branch fulfilment record of one registered
// eventuality.
type eventuality struct {
	state evState
	at    FrameID
}

func (ev *eventuality) satisfy(id FrameID) {
	ev.state = evSatisfied
	ev.at = id
}

// frame is one entry of the search stack.
type frame struct {
	// formulas has bit i set iff the pool formula at position i is asserted
	// at this instant.
	formulas *bitset.BitSet

	// toProcess has bit i set iff position i still awaits rule application.
	// Invariant: toProcess ⊆ formulas ∪ (bits never asserted); rules only
	// ever consult formulas ∩ toProcess.
	toProcess *bitset.BitSet

	// eventualities has one entry per registered eventuality, in registry
	// order; the layout is identical across the whole stack.
	eventualities []eventuality

	// id is the time-step index; branching copies keep their parent's.
	id FrameID

	// chosen names the position last branched on; noFormula when none or
	// when the alternative has already been taken.
	chosen FormulaID

	typ frameType

	// chain points at the previous time instant's final frame, skipping all
	// choice and SAT frames; it is the spine the history scan walks.
	chain *frame

	// prev and first are set by the history scan: prev is the most recent
	// prior instant with an identical formula set (self if none), first is
	// the earliest one in that equivalence chain.
	first *frame
	prev  *frame

	// sat is the solver handle attached while this frame is in SAT mode; it
	// lives until the frame is popped so rollback can ask for more models.
	sat *satHandle

	// literals is the SAT variable footprint of this frame: the pool
	// positions whose assignment is read back out of each SAT model.
	literals []int
}

// newInitialFrame builds the frame for time step 0 holding just the start
// formula, with everything still to process.
func newInitialFrame(start FormulaID, numFormulas uint, numEventualities int) *frame {
	f := &frame{
		formulas:      bitset.New(numFormulas),
		toProcess:     bitset.New(numFormulas).Complement(),
		eventualities: make([]eventuality, numEventualities),
		id:            0,
		chosen:        noFormula,
	}
	f.formulas.Set(uint(start))
	return f
}

// newChildFrame builds a copy of the given frame for a choice point or a SAT
// assignment: same instant, same obligations, fresh history links.
func newChildFrame(parent *frame) *frame {
	evs := make([]eventuality, len(parent.eventualities))
	copy(evs, parent.eventualities)
	return &frame{
		formulas:      parent.formulas.Clone(),
		toProcess:     parent.toProcess.Clone(),
		eventualities: evs,
		id:            parent.id,
		chosen:        noFormula,
		chain:         parent.chain,
	}
}

// newStepFrame builds the frame for the next time instant. The caller seeds
// formulas with the promoted tomorrow-obligations; eventuality bookkeeping
// carries over from the parent.
func newStepFrame(id FrameID, numFormulas uint, parentEvs []eventuality, chain *frame) *frame {
	evs := make([]eventuality, len(parentEvs))
	copy(evs, parentEvs)
	return &frame{
		formulas:      bitset.New(numFormulas),
		toProcess:     bitset.New(numFormulas).Complement(),
		eventualities: evs,
		id:            id,
		chosen:        noFormula,
		chain:         chain,
	}
}
