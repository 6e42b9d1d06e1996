package ltl

import (
	"fmt"
	"strconv"
)

// File translate.go removes past-time operators. Each Y/S/T/P/H subformula is
// replaced by a fresh proposition letter and an axiom block is conjoined to
// the formula making the letter behave like the operator it replaced; the
// result is equisatisfiable pure future-time LTL. Fresh letters are
// guaranteed disjoint from the letters already used in the input.

// Translate rewrites all past-time operators in f into fresh proposition
// letters with their defining axioms conjoined. Formulas without past-time
// operators come back structurally unchanged, with no conjunct added.
func Translate(f *Formula) *Formula {
	tr := &translator{used: Atoms(f)}
	axioms := True()
	ff := tr.rewrite(f, &axioms)
	if axioms.op == OpTrue {
		return ff
	}
	return conc(ff, axioms)
}

type translator struct {
	// every proposition letter in use, both from the input and freshly
	// introduced.
	used map[string]bool
}

// conc conjoins an axiom accumulator with a formula, dropping the initial ⊤
// seed instead of carrying it along.
func conc(ax, fr *Formula) *Formula {
	if ax.op == OpTrue {
		return fr
	}
	return And(fr, ax)
}

func (tr *translator) rewrite(f *Formula, axioms **Formula) *Formula {
	switch f.op {
	case OpTrue, OpFalse, OpAtom:
		return f

	case OpNot:
		return Not(tr.rewrite(f.left, axioms))
	case OpNext:
		return Next(tr.rewrite(f.left, axioms))
	case OpAlways:
		return Always(tr.rewrite(f.left, axioms))
	case OpEventually:
		return Eventually(tr.rewrite(f.left, axioms))
	case OpAnd:
		return And(tr.rewrite(f.left, axioms), tr.rewrite(f.right, axioms))
	case OpOr:
		return Or(tr.rewrite(f.left, axioms), tr.rewrite(f.right, axioms))
	case OpImplies:
		return Implies(tr.rewrite(f.left, axioms), tr.rewrite(f.right, axioms))
	case OpIff:
		return Iff(tr.rewrite(f.left, axioms), tr.rewrite(f.right, axioms))
	case OpUntil:
		return Until(tr.rewrite(f.left, axioms), tr.rewrite(f.right, axioms))
	case OpRelease:
		return Release(tr.rewrite(f.left, axioms), tr.rewrite(f.right, axioms))

	case OpYesterday:
		// Y φ ⇒ p with ¬p ∧ G(Xp ↔ φ)
		fp := tr.rewrite(f.left, axioms)
		p := Atom(tr.propName(f))
		*axioms = conc(*axioms, And(Not(p), Always(Iff(Next(p), fp))))
		return p

	case OpSince:
		// φ S ψ ⇒ p with (p ↔ ψ) ∧ G(Xp ↔ (Xψ ∨ (p ∧ Xφ)))
		fpl := tr.rewrite(f.left, axioms)
		fpr := tr.rewrite(f.right, axioms)
		p := Atom(tr.propName(f))
		*axioms = conc(*axioms, And(
			Iff(p, fpr),
			Always(Iff(Next(p), Or(Next(fpr), And(p, Next(fpl))))),
		))
		return p

	case OpTriggered:
		// φ T ψ ⇒ t, defined through auxiliary letters for ψ S φ and H ψ.
		fpl := tr.rewrite(f.left, axioms)
		fpr := tr.rewrite(f.right, axioms)
		t := Atom(tr.propName(f))
		s := Atom(tr.propName(Since(fpr, fpl)))
		h := Atom(tr.propName(Historically(fpr)))
		*axioms = conc(*axioms, And(
			And(
				And(
					And(Iff(t, fpr), Or(And(h, fpr), Iff(s, fpl))),
					Always(Iff(t, Or(h, s))),
				),
				Always(Iff(Next(h), And(h, Next(fpr)))),
			),
			Always(Iff(Next(s), Or(Next(fpl), And(s, Next(fpr))))),
		))
		return t

	case OpPast:
		// P φ ⇒ p with (p ↔ φ) ∧ G(Xp ↔ (p ∨ φ))
		fp := tr.rewrite(f.left, axioms)
		p := Atom(tr.propName(f))
		*axioms = conc(*axioms, And(Iff(p, fp), Always(Iff(Next(p), Or(p, fp)))))
		return p

	case OpHistorically:
		// H φ ⇒ p with (p ∧ φ) ∧ G(Xp ↔ (p ∧ Xφ))
		fp := tr.rewrite(f.left, axioms)
		p := Atom(tr.propName(f))
		*axioms = conc(*axioms, And(And(p, fp), Always(Iff(Next(p), And(p, Next(fp))))))
		return p

	default:
		panic(fmt.Sprintf("translator: unknown operator %v", f.op))
	}
}

// propName derives a readable fresh letter for the formula being replaced and
// reserves it.
func (tr *translator) propName(f *Formula) string {
	name := tr.propNameR(f)
	c := 0
	for tr.used[name] {
		name += strconv.Itoa(c)
		c++
	}
	tr.used[name] = true
	return name
}

// propNameR builds the name stem from the structure of the formula: one
// letter per operator, then the stem of the leading child.
func (tr *translator) propNameR(f *Formula) string {
	switch f.op {
	case OpTrue:
		return "0"
	case OpFalse:
		return "1"
	case OpAtom:
		return f.name
	case OpAnd:
		return "c" + tr.propName(f.left)
	case OpOr:
		return "d" + tr.propName(f.left)
	case OpNot:
		return "n" + tr.propName(f.left)
	case OpImplies:
		return "m" + tr.propName(f.left)
	case OpIff:
		return "i" + tr.propName(f.left)
	case OpNext:
		return "x" + tr.propName(f.left)
	case OpUntil:
		return "u" + tr.propName(f.left)
	case OpRelease:
		return "r" + tr.propName(f.left)
	case OpEventually:
		return "f" + tr.propName(f.left)
	case OpAlways:
		return "g" + tr.propName(f.left)
	case OpYesterday:
		return "y" + tr.propName(f.left)
	case OpSince:
		return "s" + tr.propName(f.left)
	case OpTriggered:
		return "t" + tr.propName(f.left)
	case OpPast:
		return "p" + tr.propName(f.left)
	case OpHistorically:
		return "h" + tr.propName(f.left)
	default:
		panic(fmt.Sprintf("translator: unknown operator %v", f.op))
	}
}
