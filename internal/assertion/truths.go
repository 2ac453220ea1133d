package assertion

// GetTruthsFromFormula collects the assertions that hold unconditionally
// given f: every singleton, non-wedge clause is an AND-ed fact rather than
// a choice among possibilities, so its one assertion is true regardless of
// which other clauses are satisfied. Multi-possibility clauses (genuine
// disjunctions) contribute nothing here — the flow analyzer only narrows a
// variable's type on facts it knows for certain.
func GetTruthsFromFormula(f Formula) map[string][]Assertion {
	truths := make(map[string][]Assertion)
	for _, c := range f {
		if c.Wedge || len(c.Possibilities) != 1 {
			continue
		}
		p := c.Possibilities[0]
		truths[p.Var] = append(truths[p.Var], p.Assertion)
	}
	return truths
}

// FindParadox scans a variable's ANDed truths for a pair that can never
// both hold (one is the exact negation of the other), the condition a
// paradoxical-condition diagnostic reports. Returns the first such pair
// found; ok is false when none exists.
func FindParadox(truths []Assertion) (a, b Assertion, ok bool) {
	for i, ai := range truths {
		neg, negatable := NegateAssertion(ai)
		if !negatable {
			continue
		}
		negKey := neg.Key()
		for j, aj := range truths {
			if j == i {
				continue
			}
			if aj.Key() == negKey {
				return ai, aj, true
			}
		}
	}
	return Assertion{}, Assertion{}, false
}
