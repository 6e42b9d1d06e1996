// Package solver implements the one-pass tableau decision procedure for LTL
// satisfiability: the indexed subformula pool, the frame stack, the
// expansion/loop/prune rules with backtracking, the optional SAT accelerator,
// and extraction of ultimately periodic models.
package solver

import "math"

// FormulaID is a dense position into the sorted subformula pool.
type FormulaID uint32

// FrameID is the time-step index of a frame, i.e. its depth along the
// candidate path.
type FrameID int64

// noFormula is the sentinel for "no position": absent children in the child
// tables and a cleared choice on a frame.
const noFormula = FormulaID(math.MaxUint32)
