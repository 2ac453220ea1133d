package codebase

import "github.com/hakana-go/hakana/internal/ttype"

// typeComparatorView adapts Index to ttype.ClassInfo, the minimal
// interface the type comparator needs to compare named objects across
// variance and ancestor type-parameter mappings.
type typeComparatorView struct {
	idx *Index
}

// ClassInfoView returns the ttype.ClassInfo implementation backed by idx.
func (idx *Index) ClassInfoView() ttype.ClassInfo { return typeComparatorView{idx: idx} }

// Variance returns the declared variance of class name's type parameter
// at offset, defaulting to Invariant when unannotated or the class is
// unknown.
func (v typeComparatorView) Variance(name string, offset int) ttype.Variance {
	ci, ok := v.idx.Classes[name]
	if !ok || offset < 0 || offset >= len(ci.Templates) {
		return ttype.Invariant
	}
	return ci.Templates[offset].Variance
}

// ExtendedParams resolves how name's concrete type parameters map onto
// ancestor's declared parameters, composing the chain of `extends`
// clauses between them. The AST's Parents/Interfaces lists carry only
// names, not the type arguments an `implements Container<T>` clause
// would supply, so each hop propagates the current params positionally
// onto the next level's declared template list, padding with `mixed`
// where the counts don't line up exactly; a declared UpperBound on the
// next level's own template fills the gap when present.
//
// When more than one path reaches ancestor (a diamond through multiple
// interfaces), the first one discovered via a depth-first walk of
// Parents-then-Interfaces wins; later paths are not consulted once a
// mapping is found.
func (v typeComparatorView) ExtendedParams(name string, params []ttype.Union, ancestor string) ([]ttype.Union, bool) {
	if name == ancestor {
		return params, true
	}
	ci, ok := v.idx.Classes[name]
	if !ok {
		return nil, false
	}

	for _, candidates := range [][]string{ci.Parents, ci.Interfaces} {
		for _, next := range candidates {
			nextCi, ok := v.idx.Classes[next]
			if !ok {
				continue
			}
			nextParams := make([]ttype.Union, len(nextCi.Templates))
			for i, t := range nextCi.Templates {
				switch {
				case i < len(params):
					nextParams[i] = params[i]
				case t.UpperBound != nil:
					nextParams[i] = *t.UpperBound
				default:
					nextParams[i] = ttype.Mixed()
				}
			}
			if result, ok := v.ExtendedParams(next, nextParams, ancestor); ok {
				return result, true
			}
		}
	}
	return nil, false
}
