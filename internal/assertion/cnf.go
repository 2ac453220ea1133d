package assertion

import "sort"

// Formula is a conjunction of Clauses: the condition holds iff every
// clause holds.
type Formula []Clause

// Negate distributes negation over a formula without wedge clauses,
// producing the formula for "not F". Any wedge clause blocks negation —
// callers recover by re-generating the negated formula directly from the
// AST (e.g. scraping `!cond` instead of negating `cond`'s formula).
func Negate(f Formula) (Formula, bool) {
	// De Morgan: not(A . B) = not(A) + not(B); not(a | b | c) = not(a) . not(b) . not(c).
	// Start from the negation of the first clause and progressively
	// combine with the negation of each subsequent clause via the
	// cross-product used for OR-combination.
	var out Formula
	for _, c := range f {
		if c.Wedge {
			return nil, false
		}
		negatedClause, ok := negateClause(c)
		if !ok {
			return nil, false
		}
		if out == nil {
			out = negatedClause
			continue
		}
		out = CombineOredClauses(out, negatedClause)
	}
	return SimplifyCNF(out), true
}

// negateClause turns one OR-clause into its CNF equivalent: the
// conjunction of the negation of each possibility.
func negateClause(c Clause) (Formula, bool) {
	out := make(Formula, 0, len(c.Possibilities))
	for _, p := range c.Possibilities {
		neg, ok := assertionNegate(p.Assertion)
		if !ok {
			return nil, false
		}
		out = append(out, Clause{Possibilities: []VarAssertion{{Var: p.Var, Assertion: neg}}})
	}
	return out, true
}

func assertionNegate(a Assertion) (Assertion, bool) { return NegateAssertion(a) }

// combineAnded conjoins two formulas (simple concatenation; CNF
// conjunction is associative).
func combineAnded(a, b Formula) Formula {
	out := make(Formula, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// CombineOredClauses cross-multiplies every clause of a with every clause
// of b (distributing OR over AND: (x.y) | (p.q) = (x|p).(x|q).(y|p).(y|q))
// and simplifies the result. Used to build the formula for `cond1 || cond2`
// from each side's own formula.
func CombineOredClauses(a, b Formula) Formula {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(Formula, 0, len(a)*len(b))
	for _, ca := range a {
		for _, cb := range b {
			merged := Clause{Wedge: ca.Wedge || cb.Wedge}
			merged.Possibilities = append(merged.Possibilities, ca.Possibilities...)
			merged.Possibilities = append(merged.Possibilities, cb.Possibilities...)
			out = append(out, merged)
		}
	}
	return SimplifyCNF(out)
}

// SimplifyCNF removes duplicate clauses and drops any clause fully
// subsumed by another (same variable set, its possibility-key set a
// superset of the subsuming clause's). Tautological clauses (such as
// `$x truthy | $x falsy`) are not collapsed to a wedge clause; they are
// kept as given unless another clause subsumes them.
func SimplifyCNF(f Formula) Formula {
	// dedupe by a structural key.
	seen := make(map[string]bool)
	deduped := make(Formula, 0, len(f))
	for _, c := range f {
		k := clauseKey(c)
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, c)
	}

	// drop clauses subsumed by a "smaller" clause over the same variable
	// set whose possibilities are a subset (a more permissive disjunction
	// implies a more restrictive one is redundant information once both
	// are conjoined only when the restrictive one's possibilities are a
	// superset of the permissive one's — i.e. it adds no new information).
	out := make(Formula, 0, len(deduped))
	for i, ci := range deduped {
		subsumed := false
		for j, cj := range deduped {
			if i == j {
				continue
			}
			if sameVarSet(ci.varSet(), cj.varSet()) && supersetOf(ci.keySet(), cj.keySet()) && len(ci.keySet()) > len(cj.keySet()) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, ci)
		}
	}
	return out
}

func clauseKey(c Clause) string {
	keys := make([]string, 0, len(c.Possibilities))
	for _, p := range c.Possibilities {
		keys = append(keys, p.Var+"\x00"+p.Assertion.Key())
	}
	return joinSorted(keys)
}

func joinSorted(keys []string) string {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	out := ""
	for i, k := range sorted {
		if i > 0 {
			out += "\x01"
		}
		out += k
	}
	return out
}
