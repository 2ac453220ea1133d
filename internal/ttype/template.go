package ttype

// Bound is one accumulated constraint on a template variable, carrying
// enough context for the inferred-type replacer to pick the
// most specific candidate among several call sites / appearance depths.
type Bound struct {
	Type               Union
	EqualityClasslike  string
	AppearanceDepth    int
}

// TemplateResult holds the bookkeeping for one call-site's generic
// inference: the function's own declared template
// parameters plus accumulated lower/upper bounds keyed by
// (template name, defining entity).
type TemplateResult struct {
	TemplateTypes []Generic
	LowerBounds   map[SubstKey][]Bound
	UpperBounds   map[SubstKey][]Bound
}

// NewTemplateResult seeds a TemplateResult with `nothing` as the initial
// lower bound for every declared template type at depth 1, before any
// argument has been compared.
func NewTemplateResult(templateTypes []Generic) *TemplateResult {
	tr := &TemplateResult{
		TemplateTypes: templateTypes,
		LowerBounds:   make(map[SubstKey][]Bound),
		UpperBounds:   make(map[SubstKey][]Bound),
	}
	for _, t := range templateTypes {
		k := SubstKey{Name: t.Name, Entity: t.DefiningEntity}
		tr.LowerBounds[k] = []Bound{{Type: Nothing(), AppearanceDepth: 1}}
	}
	return tr
}

// AddLowerBound records that a template variable was compared against a
// concrete argument type at the given nesting depth.
func (tr *TemplateResult) AddLowerBound(k SubstKey, t Union, depth int) {
	tr.LowerBounds[k] = append(tr.LowerBounds[k], Bound{Type: t, AppearanceDepth: depth})
}

func (tr *TemplateResult) AddUpperBound(k SubstKey, t Union, depth int) {
	tr.UpperBounds[k] = append(tr.UpperBounds[k], Bound{Type: t, AppearanceDepth: depth})
}

// StandinReplace walks a declared type, substituting each Generic
// reference belonging to one of tr's TemplateTypes with a TemplateVar
// standin, so that the comparator can record bounds for it while walking
// an argument comparison.
func StandinReplace(t Union, tr *TemplateResult) Union {
	s := make(Subst, len(tr.TemplateTypes))
	for _, g := range tr.TemplateTypes {
		s[SubstKey{Name: g.Name, Entity: g.DefiningEntity}] = Single(TemplateVar{Name: g.Name, DefiningEntity: g.DefiningEntity})
	}
	return t.Apply(s)
}

// InferredReplace substitutes each template reference with the most
// specific bound: the combination (union) of its lower bounds, restricted
// by (intersected against) its upper bounds where those narrow further
//. Codebase-aware intersection is
// delegated to the caller via the narrow func; a nil narrow performs no
// restriction, which is sufficient for structural (non-nominal) bounds.
func InferredReplace(t Union, tr *TemplateResult, narrow func(lower, upper Union) Union) Union {
	s := make(Subst, len(tr.TemplateTypes))
	for _, g := range tr.TemplateTypes {
		k := SubstKey{Name: g.Name, Entity: g.DefiningEntity}
		lower := combineBounds(tr.LowerBounds[k])
		if lower.IsNothing() {
			lower = Mixed()
		}
		if upperBounds := tr.UpperBounds[k]; len(upperBounds) > 0 && narrow != nil {
			lower = narrow(lower, combineBounds(upperBounds))
		}
		s[k] = lower
	}
	return t.Apply(s)
}

func combineBounds(bounds []Bound) Union {
	result := Nothing()
	for _, b := range bounds {
		result = Combine(result, b.Type)
	}
	return result
}

// MappedGenericParams resolves an input object's view of an ancestor
// class's type parameters by composing `template_extended_params`
//. `extend` is the codebase's
// per-class extension map: given a class name, it returns the params it
// passes to each direct ancestor.
func MappedGenericParams(inputParams []Union, ancestor string, extend func(class string) map[string][]Union, class string) ([]Union, bool) {
	direct := extend(class)
	ancestorParams, ok := direct[ancestor]
	if !ok {
		return nil, false
	}
	// Substitute the class's own template slots (by position, as
	// generic_param atoms named "T","U","V",... through "Z", then "T7",
	// "T8",... by convention -- callers that declare differently-named
	// params should pre-rename) with the concrete inputParams before
	// returning the ancestor's view.
	s := make(Subst, len(inputParams))
	for i, p := range inputParams {
		s[SubstKey{Name: positionalName(i), Entity: EntityID{Kind: EntityClass, Name: class}}] = p
	}
	out := make([]Union, len(ancestorParams))
	for i, ap := range ancestorParams {
		out[i] = ap.Apply(s)
	}
	return out, true
}

func positionalName(i int) string {
	const letters = "TUVWXYZ"
	if i < len(letters) {
		return string(letters[i])
	}
	return "T" + string(rune('0'+i))
}
