package ltl

import "fmt"

// File simplify.go rewrites formulas into the negation normal form the
// tableau consumes: negations pushed down to atoms (or kept on a whole
// until-formula, which the engine treats as its own operator kind),
// implication and iff expanded, release expressed through not-until, and
// constants folded away. Simplification is idempotent.
//
// Past-time operators are not accepted here; they must have been removed by
// the translator first.

// Simplify returns the negation normal form of f. The result is logically
// equivalent to f and contains only ⊤, ⊥, atoms, ¬atom, ∧, ∨, X, G, F, U and
// ¬(· U ·). It returns an *UnsupportedError if f contains an operator
// outside the recognized fragment.
func Simplify(f *Formula) (*Formula, error) {
	switch f.op {
	case OpTrue, OpFalse, OpAtom:
		return f, nil

	case OpNot:
		return simplifyNot(f.left)

	case OpNext:
		c, err := Simplify(f.left)
		if err != nil {
			return nil, err
		}
		if c.op == OpTrue || c.op == OpFalse {
			return c, nil
		}
		return Next(c), nil

	case OpAlways:
		c, err := Simplify(f.left)
		if err != nil {
			return nil, err
		}
		if c.op == OpTrue || c.op == OpFalse {
			return c, nil
		}
		return Always(c), nil

	case OpEventually:
		c, err := Simplify(f.left)
		if err != nil {
			return nil, err
		}
		if c.op == OpTrue || c.op == OpFalse {
			return c, nil
		}
		return Eventually(c), nil

	case OpAnd:
		l, err := Simplify(f.left)
		if err != nil {
			return nil, err
		}
		r, err := Simplify(f.right)
		if err != nil {
			return nil, err
		}
		if l.op == OpFalse || r.op == OpFalse {
			return False(), nil
		}
		if l.op == OpTrue {
			return r, nil
		}
		if r.op == OpTrue {
			return l, nil
		}
		return And(l, r), nil

	case OpOr:
		l, err := Simplify(f.left)
		if err != nil {
			return nil, err
		}
		r, err := Simplify(f.right)
		if err != nil {
			return nil, err
		}
		if l.op == OpTrue || r.op == OpTrue {
			return True(), nil
		}
		if l.op == OpFalse {
			return r, nil
		}
		if r.op == OpFalse {
			return l, nil
		}
		return Or(l, r), nil

	case OpUntil:
		l, err := Simplify(f.left)
		if err != nil {
			return nil, err
		}
		r, err := Simplify(f.right)
		if err != nil {
			return nil, err
		}
		// r must hold eventually no matter what, so constant right sides
		// decide the whole formula; a false left side forces r now.
		if r.op == OpTrue || r.op == OpFalse {
			return r, nil
		}
		if l.op == OpFalse {
			return r, nil
		}
		return Until(l, r), nil

	case OpRelease:
		// l R r ≡ ¬(¬l U ¬r)
		return simplifyNot(Until(Not(f.left), Not(f.right)))

	case OpImplies:
		return Simplify(Or(Not(f.left), f.right))

	case OpIff:
		return Simplify(And(Implies(f.left, f.right), Implies(f.right, f.left)))

	case OpYesterday, OpSince, OpTriggered, OpPast, OpHistorically:
		return nil, &UnsupportedError{Construct: fmt.Sprintf("past-time operator %v reached the simplifier; run the translator first", f.op)}

	default:
		return nil, &UnsupportedError{Construct: f.op.String()}
	}
}

// simplifyNot returns the negation normal form of ¬f.
func simplifyNot(f *Formula) (*Formula, error) {
	switch f.op {
	case OpTrue:
		return False(), nil
	case OpFalse:
		return True(), nil

	case OpAtom:
		return Not(f), nil

	case OpNot:
		// double negation
		return Simplify(f.left)

	case OpNext:
		// ¬X φ ≡ X ¬φ
		c, err := simplifyNot(f.left)
		if err != nil {
			return nil, err
		}
		if c.op == OpTrue || c.op == OpFalse {
			return c, nil
		}
		return Next(c), nil

	case OpAlways:
		// ¬G φ ≡ F ¬φ
		c, err := simplifyNot(f.left)
		if err != nil {
			return nil, err
		}
		if c.op == OpTrue || c.op == OpFalse {
			return c, nil
		}
		return Eventually(c), nil

	case OpEventually:
		// ¬F φ ≡ G ¬φ
		c, err := simplifyNot(f.left)
		if err != nil {
			return nil, err
		}
		if c.op == OpTrue || c.op == OpFalse {
			return c, nil
		}
		return Always(c), nil

	case OpAnd:
		l, err := simplifyNot(f.left)
		if err != nil {
			return nil, err
		}
		r, err := simplifyNot(f.right)
		if err != nil {
			return nil, err
		}
		if l.op == OpTrue || r.op == OpTrue {
			return True(), nil
		}
		if l.op == OpFalse {
			return r, nil
		}
		if r.op == OpFalse {
			return l, nil
		}
		return Or(l, r), nil

	case OpOr:
		l, err := simplifyNot(f.left)
		if err != nil {
			return nil, err
		}
		r, err := simplifyNot(f.right)
		if err != nil {
			return nil, err
		}
		if l.op == OpFalse || r.op == OpFalse {
			return False(), nil
		}
		if l.op == OpTrue {
			return r, nil
		}
		if r.op == OpTrue {
			return l, nil
		}
		return And(l, r), nil

	case OpUntil:
		// kept as a primitive ¬(φ U ψ) node; the indexing layer derives the
		// NNF negations of the children where the rules need them.
		u, err := Simplify(f)
		if err != nil {
			return nil, err
		}
		switch u.op {
		case OpTrue:
			return False(), nil
		case OpFalse:
			return True(), nil
		case OpUntil:
			return Not(u), nil
		default:
			// the until folded into something simpler; negate that instead.
			return simplifyNot(u)
		}

	case OpRelease:
		// ¬(l R r) ≡ ¬l U ¬r
		return Simplify(Until(Not(f.left), Not(f.right)))

	case OpImplies:
		// ¬(l → r) ≡ l ∧ ¬r
		return Simplify(And(f.left, Not(f.right)))

	case OpIff:
		// ¬(l ↔ r) ≡ (l ∧ ¬r) ∨ (¬l ∧ r)
		return Simplify(Or(And(f.left, Not(f.right)), And(Not(f.left), f.right)))

	case OpYesterday, OpSince, OpTriggered, OpPast, OpHistorically:
		return nil, &UnsupportedError{Construct: fmt.Sprintf("past-time operator %v reached the simplifier; run the translator first", f.op)}

	default:
		return nil, &UnsupportedError{Construct: f.op.String()}
	}
}
