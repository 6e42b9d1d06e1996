package solver

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/tempo-ltl/tempo/internal/ltl"
)

// File pool.go builds the immutable per-solve data structures: the closure of
// the input formula sorted into canonical order, the dense position tables,
// the category bitsets, the eventuality registry, and (when the accelerator
// is on) the per-position CNF clause table. Everything here is built once and
// read-only during search.

// pool is the indexed subformula universe of one solve.
type pool struct {
	// formulas is the closure of the input, sorted canonically, deduplicated.
	formulas []*ltl.Formula

	// n is len(formulas); fixed for the lifetime of the solve.
	n uint

	// start is the position of the input formula itself.
	start FormulaID

	// lhs and rhs give child positions; noFormula where absent. For a
	// ¬(φ U ψ) node they hold the NNF negations of φ and ψ.
	lhs []FormulaID
	rhs []FormulaID

	// category bitsets, one bit per position.
	atom        *bitset.BitSet
	negation    *bitset.BitSet
	tomorrow    *bitset.BitSet
	always      *bitset.BitSet
	eventually  *bitset.BitSet
	conjunction *bitset.BitSet
	disjunction *bitset.BitSet
	until       *bitset.BitSet
	notUntil    *bitset.BitSet

	// atomNames maps atom positions to their proposition names.
	atomNames map[FormulaID]string

	// fw maps position → eventuality index (noFormula when the position is
	// not an eventuality); bw is the inverse, eventuality index → position.
	fw []FormulaID
	bw []FormulaID

	// clauses is the SAT clause pre-computed for each position (1-based
	// variables, negative literal = negated variable; variable k stands for
	// position k-1). Nil for positions that never enter the SAT footprint.
	clauses [][]int
}

// newPool indexes the closure of the given simplified formula. The formula
// must not be a bare constant; callers decide those before building.
func newPool(f *ltl.Formula, withClauses bool) *pool {
	var closure []*ltl.Formula
	generate(f, &closure)

	sort.SliceStable(closure, func(i, j int) bool {
		return lessFormulas(closure[i], closure[j])
	})
	closure = dedup(closure)

	p := &pool{
		formulas:    closure,
		n:           uint(len(closure)),
		start:       noFormula,
		atomNames:   map[FormulaID]string{},
		atom:        bitset.New(uint(len(closure))),
		negation:    bitset.New(uint(len(closure))),
		tomorrow:    bitset.New(uint(len(closure))),
		always:      bitset.New(uint(len(closure))),
		eventually:  bitset.New(uint(len(closure))),
		conjunction: bitset.New(uint(len(closure))),
		disjunction: bitset.New(uint(len(closure))),
		until:       bitset.New(uint(len(closure))),
		notUntil:    bitset.New(uint(len(closure))),
	}

	p.lhs = make([]FormulaID, p.n)
	p.rhs = make([]FormulaID, p.n)
	for i := range p.lhs {
		p.lhs[i] = noFormula
		p.rhs[i] = noFormula
	}

	for i, sub := range closure {
		pos := FormulaID(i)
		if sub.Equal(f) {
			p.start = pos
		}
		p.indexFormula(sub, pos)
	}
	if p.start == noFormula {
		panic("tableau: input formula missing from its own closure")
	}

	p.checkAdjacency()
	p.buildEventualities()
	if withClauses {
		p.buildClauses()
	}

	return p
}

// generate appends the closure of f: all subformulas, the polarity pair of
// every atom, the NNF negation duals a ¬(φ U ψ) node needs for its children,
// and the tomorrow-encoding of every formula the step rule carries over.
func generate(f *ltl.Formula, out *[]*ltl.Formula) {
	*out = append(*out, f)

	switch f.Op() {
	case ltl.OpAtom:
		*out = append(*out, ltl.Not(f))

	case ltl.OpNot:
		switch f.Left().Op() {
		case ltl.OpAtom:
			generate(f.Left(), out)
		case ltl.OpUntil:
			*out = append(*out, ltl.Next(f))
			generate(mustNegate(f.Left().Left()), out)
			generate(mustNegate(f.Left().Right()), out)
		default:
			panic(fmt.Sprintf("tableau: negation of %v survived simplification", f.Left().Op()))
		}

	case ltl.OpNext:
		generate(f.Left(), out)

	case ltl.OpAlways, ltl.OpEventually:
		*out = append(*out, ltl.Next(f))
		generate(f.Left(), out)

	case ltl.OpAnd, ltl.OpOr:
		generate(f.Left(), out)
		generate(f.Right(), out)

	case ltl.OpUntil:
		*out = append(*out, ltl.Next(f))
		generate(f.Left(), out)
		generate(f.Right(), out)

	default:
		panic(fmt.Sprintf("tableau: %v node survived simplification", f.Op()))
	}
}

// mustNegate returns the NNF of ¬f; the input is already in NNF so
// simplification cannot fail.
func mustNegate(f *ltl.Formula) *ltl.Formula {
	neg, err := ltl.Simplify(ltl.Not(f))
	if err != nil {
		panic(fmt.Sprintf("tableau: negating NNF formula failed: %v", err))
	}
	return neg
}

// lessFormulas is the canonical total order of the subformula pool. Atoms
// come first, by name; a negation sorts directly after the formula it
// negates, a tomorrow directly after its operand's polarity block; for the
// remaining kinds the operator order decides, recursing on children left
// then right.
func lessFormulas(a, b *ltl.Formula) bool {
	if a.Op() == ltl.OpAtom && b.Op() == ltl.OpAtom {
		return a.Name() < b.Name()
	}

	if a.Op() == ltl.OpNot && b.Op() == ltl.OpNot {
		return lessFormulas(a.Left(), b.Left())
	}
	if a.Op() == ltl.OpNot {
		if a.Left().Equal(b) {
			return false
		}
		return lessFormulas(a.Left(), b)
	}
	if b.Op() == ltl.OpNot {
		if b.Left().Equal(a) {
			return true
		}
		return lessFormulas(a, b.Left())
	}

	if a.Op() == ltl.OpNext && b.Op() == ltl.OpNext {
		return lessFormulas(a.Left(), b.Left())
	}
	if a.Op() == ltl.OpNext {
		if a.Left().Equal(b) {
			return false
		}
		return lessFormulas(a.Left(), b)
	}
	if b.Op() == ltl.OpNext {
		if b.Left().Equal(a) {
			return true
		}
		return lessFormulas(a, b.Left())
	}

	if a.Op() == b.Op() {
		switch a.Op() {
		case ltl.OpAlways, ltl.OpEventually:
			return lessFormulas(a.Left(), b.Left())
		case ltl.OpAnd, ltl.OpOr, ltl.OpUntil:
			if !a.Left().Equal(b.Left()) {
				return lessFormulas(a.Left(), b.Left())
			}
			return lessFormulas(a.Right(), b.Right())
		}
	}

	return a.Op() < b.Op()
}

func dedup(sorted []*ltl.Formula) []*ltl.Formula {
	result := sorted[:0]
	for _, f := range sorted {
		if len(result) == 0 || !result[len(result)-1].Equal(f) {
			result = append(result, f)
		}
	}
	return result
}

// find returns the position of f in the pool. It panics if f is absent; the
// generator is responsible for having produced every formula the indexing
// can ask for.
func (p *pool) find(f *ltl.Formula) FormulaID {
	i := sort.Search(len(p.formulas), func(i int) bool {
		return !lessFormulas(p.formulas[i], f)
	})
	if i >= len(p.formulas) || !p.formulas[i].Equal(f) {
		panic(fmt.Sprintf("tableau: formula %q missing from the pool", f))
	}
	return FormulaID(i)
}

func (p *pool) indexFormula(f *ltl.Formula, pos FormulaID) {
	switch f.Op() {
	case ltl.OpAtom:
		p.atom.Set(uint(pos))
		p.atomNames[pos] = f.Name()

	case ltl.OpNot:
		if f.Left().Op() == ltl.OpUntil {
			p.notUntil.Set(uint(pos))
			p.lhs[pos] = p.find(mustNegate(f.Left().Left()))
			p.rhs[pos] = p.find(mustNegate(f.Left().Right()))
			return
		}
		p.negation.Set(uint(pos))
		p.lhs[pos] = p.find(f.Left())

	case ltl.OpNext:
		p.tomorrow.Set(uint(pos))
		p.lhs[pos] = p.find(f.Left())

	case ltl.OpAlways:
		p.always.Set(uint(pos))
		p.lhs[pos] = p.find(f.Left())

	case ltl.OpEventually:
		p.eventually.Set(uint(pos))
		p.lhs[pos] = p.find(f.Left())

	case ltl.OpAnd:
		p.conjunction.Set(uint(pos))
		p.lhs[pos] = p.find(f.Left())
		p.rhs[pos] = p.find(f.Right())

	case ltl.OpOr:
		p.disjunction.Set(uint(pos))
		p.lhs[pos] = p.find(f.Left())
		p.rhs[pos] = p.find(f.Right())

	case ltl.OpUntil:
		p.until.Set(uint(pos))
		p.lhs[pos] = p.find(f.Left())
		p.rhs[pos] = p.find(f.Right())

	default:
		panic(fmt.Sprintf("tableau: cannot index %v node at position %d", f.Op(), pos))
	}
}

// checkAdjacency verifies the ordering guarantees the rules rely on: every
// atom is directly followed by its negation, every negation directly follows
// the formula it negates, and every G/F/U/¬U has its tomorrow-encoding at +1
// (or +2 where the polarity pair intervenes).
func (p *pool) checkAdjacency() {
	for i, ok := p.atom.NextSet(0); ok; i, ok = p.atom.NextSet(i + 1) {
		if i+1 >= p.n || !p.negation.Test(i+1) || p.lhs[i+1] != FormulaID(i) {
			panic(fmt.Sprintf("tableau: atom at position %d has no adjacent negation", i))
		}
	}
	for i, ok := p.negation.NextSet(0); ok; i, ok = p.negation.NextSet(i + 1) {
		if i == 0 || p.lhs[i] != FormulaID(i-1) {
			panic(fmt.Sprintf("tableau: negation at position %d does not follow its operand", i))
		}
	}
	for i, ok := p.always.NextSet(0); ok; i, ok = p.always.NextSet(i + 1) {
		if i+1 >= p.n || !p.tomorrow.Test(i+1) || p.lhs[i+1] != FormulaID(i) {
			panic(fmt.Sprintf("tableau: always at position %d has no tomorrow-encoding at +1", i))
		}
	}
	for i, ok := p.eventually.NextSet(0); ok; i, ok = p.eventually.NextSet(i + 1) {
		if i+1 >= p.n || !p.tomorrow.Test(i+1) || p.lhs[i+1] != FormulaID(i) {
			panic(fmt.Sprintf("tableau: eventually at position %d has no tomorrow-encoding at +1", i))
		}
	}
	for i, ok := p.until.NextSet(0); ok; i, ok = p.until.NextSet(i + 1) {
		p.xEncoding(FormulaID(i))
	}
	for i, ok := p.notUntil.NextSet(0); ok; i, ok = p.notUntil.NextSet(i + 1) {
		p.xEncoding(FormulaID(i))
	}
}

// xEncoding returns the position of the X(·) formula that carries the
// obligation at position c to the next instant. It sits at c+1, or at c+2
// when the polarity partner of c intervenes.
func (p *pool) xEncoding(c FormulaID) FormulaID {
	if uint(c)+1 < p.n && p.tomorrow.Test(uint(c)+1) && p.lhs[c+1] == c {
		return c + 1
	}
	if uint(c)+2 < p.n && p.tomorrow.Test(uint(c)+2) && p.lhs[c+2] == c {
		return c + 2
	}
	panic(fmt.Sprintf("tableau: position %d has no tomorrow-encoding at +1 or +2", c))
}

// buildEventualities registers every promised formula: the operand of each F,
// the right side of each U, and both (negated) sides of each ¬U. Eventuality
// indices follow pool order so the per-frame vectors and the formula bitmaps
// share a coordinate system.
func (p *pool) buildEventualities() {
	var promised []*ltl.Formula
	for i := uint(0); i < p.n; i++ {
		switch {
		case p.eventually.Test(i):
			promised = append(promised, p.formulas[p.lhs[i]])
		case p.until.Test(i):
			promised = append(promised, p.formulas[p.rhs[i]])
		case p.notUntil.Test(i):
			promised = append(promised, p.formulas[p.lhs[i]])
			promised = append(promised, p.formulas[p.rhs[i]])
		}
	}

	sort.SliceStable(promised, func(i, j int) bool {
		return lessFormulas(promised[i], promised[j])
	})
	promised = dedup(promised)

	p.fw = make([]FormulaID, p.n)
	for i := range p.fw {
		p.fw[i] = noFormula
	}
	p.bw = make([]FormulaID, len(promised))
	for i, f := range promised {
		pos := p.find(f)
		p.fw[pos] = FormulaID(i)
		p.bw[i] = pos
	}
}

// numEventualities returns the size of the eventuality registry.
func (p *pool) numEventualities() int {
	return len(p.bw)
}

// buildClauses pre-computes the SAT clause of every position that can appear
// in a frame's propositional skeleton. Variable k stands for position k-1; a
// negative literal asserts the position's polarity partner.
func (p *pool) buildClauses() {
	p.clauses = make([][]int, p.n)

	for i := uint(0); i < p.n; i++ {
		f := p.formulas[i]
		switch {
		case p.atom.Test(i), p.always.Test(i), p.eventually.Test(i), p.until.Test(i):
			p.clauses[i] = []int{int(i) + 1}

		case p.negation.Test(i):
			// the operand is directly below; asserting ¬φ forbids φ.
			p.clauses[i] = []int{-int(i)}

		case p.tomorrow.Test(i):
			p.clauses[i] = []int{p.tomorrowLiteral(i)}

		case p.disjunction.Test(i):
			var lits []int
			p.collectDisjuncts(f, &lits)
			p.clauses[i] = lits

		// conjunctions need no clause (the skeleton is already in CNF) and
		// ¬U positions never enter the footprint.
		}
	}
}

// tomorrowLiteral returns the literal encoding the X-formula at position i:
// X¬φ is the negation of the variable for Xφ when that formula exists, and
// its own positive variable otherwise.
func (p *pool) tomorrowLiteral(i uint) int {
	f := p.formulas[i]
	if f.Left().Op() == ltl.OpNot && i > 0 && p.tomorrow.Test(i-1) {
		if p.formulas[p.lhs[i-1]].Equal(f.Left().Left()) {
			return -int(i)
		}
	}
	return int(i) + 1
}

// collectDisjuncts flattens nested disjunctions into the literals of their
// leaves, with polarity resolved through the adjacency pairing.
func (p *pool) collectDisjuncts(f *ltl.Formula, lits *[]int) {
	for _, side := range []*ltl.Formula{f.Left(), f.Right()} {
		if side.Op() == ltl.OpOr {
			p.collectDisjuncts(side, lits)
			continue
		}
		pos := p.find(side)
		switch {
		case p.negation.Test(uint(pos)):
			*lits = append(*lits, -int(pos))
		case p.notUntil.Test(uint(pos)):
			// negative only when the positive until is actually the
			// predecessor position.
			if pos > 0 && p.until.Test(uint(pos)-1) && p.formulas[pos-1].Equal(side.Left()) {
				*lits = append(*lits, -int(pos))
			} else {
				*lits = append(*lits, int(pos)+1)
			}
		case p.tomorrow.Test(uint(pos)):
			*lits = append(*lits, p.tomorrowLiteral(uint(pos)))
		default:
			*lits = append(*lits, int(pos)+1)
		}
	}
}

// negPair reports whether position i+1 holds the NNF negation of the formula
// at position i, which is how a false SAT assignment of i is recorded.
func (p *pool) negPair(i uint) bool {
	if i+1 >= p.n {
		return false
	}
	if p.negation.Test(i+1) && p.lhs[i+1] == FormulaID(i) {
		return true
	}
	next := p.formulas[i+1]
	cur := p.formulas[i]
	return cur.Op() == ltl.OpNext && next.Op() == ltl.OpNext &&
		next.Left().Op() == ltl.OpNot && next.Left().Left().Equal(cur.Left())
}
