package ttype

// Variance of a class template parameter offset.
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

// ClassInfo is the minimal view the comparator needs from the codebase
// index to compare named objects: declared variance per type-param
// offset and the `template_extended_params` expansion for ancestors.
// internal/codebase implements this against the real index; tests use a
// small hand-built fake.
type ClassInfo interface {
	// Variance returns the declared variance of type parameter offset i of
	// class name. Offsets without an explicit annotation default to
	// Invariant.
	Variance(name string, offset int) Variance
	// ExtendedParams resolves how `name`'s concrete type parameters map
	// onto ancestor's declared parameters, recursively composing
	// `template_extended_params`.
	ExtendedParams(name string, params []Union, ancestor string) ([]Union, bool)
}

// Result accumulates the reasons `is_contained_by` matched under widening,
// plus generic-inference bounds gathered along the way.
type Result struct {
	TypeCoerced                  bool
	TypeCoercedFromNestedMixed   bool
	TypeCoercedFromNestedAny     bool
	TypeCoercedFromAsMixed       bool
	TypeCoercedToLiteral         bool
	ReplacementAtomic            Atom
	ReplacementUnion             *Union
	UpcastedAwaitable            bool
	LowerBounds                  map[SubstKey]Union
	UpperBounds                  map[SubstKey]Union
}

func newResult() *Result {
	return &Result{LowerBounds: make(map[SubstKey]Union), UpperBounds: make(map[SubstKey]Union)}
}

func (r *Result) addLowerBound(k SubstKey, u Union) {
	if existing, ok := r.LowerBounds[k]; ok {
		r.LowerBounds[k] = Combine(existing, u)
	} else {
		r.LowerBounds[k] = u
	}
}

func (r *Result) addUpperBound(k SubstKey, u Union) {
	if existing, ok := r.UpperBounds[k]; ok {
		r.UpperBounds[k] = Combine(existing, u)
	} else {
		r.UpperBounds[k] = u
	}
}

// Options configures IsContainedBy; InsideAssertion narrows literal/nested
// coercion diagnostics for `??`/truthiness contexts.
type Options struct {
	IgnoreNull       bool
	IgnoreFalse      bool
	InsideAssertion  bool
	Classes          ClassInfo
}

// IsContainedBy reports whether every runtime value described by input is
// also described by container. Matching coercions are recorded into result
// rather than failing the match.
func IsContainedBy(input, container Union, opts Options) (bool, *Result) {
	result := newResult()
	ok := unionContainedBy(input, container, opts, result)
	return ok, result
}

func unionContainedBy(input, container Union, opts Options, result *Result) bool {
	// mixed contains everything (invariant 1).
	if container.IsMixed() {
		return true
	}
	// nothing is contained by everything (invariant 1).
	if input.IsNothing() {
		return true
	}
	if container.IsNothing() {
		return input.IsNothing()
	}

	work := input
	if opts.IgnoreNull {
		work = work.Filter(func(a Atom) bool {
			p, ok := a.(Primitive)
			return !(ok && p.Kind == PNull)
		})
	}
	if opts.IgnoreFalse {
		work = work.Filter(func(a Atom) bool {
			p, ok := a.(Primitive)
			return !(ok && p.Kind == PFalse)
		})
	}

	for _, atom := range work.Atoms {
		if !atomContainedByUnion(atom, container, opts, result) {
			return false
		}
	}
	return true
}

func atomContainedByUnion(atom Atom, container Union, opts Options, result *Result) bool {
	for _, cAtom := range container.Atoms {
		if atomContainedByAtom(atom, cAtom, opts, result) {
			return true
		}
	}
	// No exact member matched; check nested-mixed/any widening: mixed
	// anywhere in a structural container (e.g. vec<mixed>) absorbs any
	// element.
	for _, cAtom := range container.Atoms {
		if p, ok := cAtom.(Primitive); ok && p.Kind == PMixed {
			result.TypeCoerced = true
			if p.FromAny {
				result.TypeCoercedFromAsMixed = true
			} else {
				result.TypeCoercedFromNestedMixed = true
			}
			return true
		}
	}
	return false
}

func atomContainedByAtom(input, container Atom, opts Options, result *Result) bool {
	// Generic/TemplateVar containers: record inference bounds and
	// always succeed -- the constraint is checked later by the template
	// engine's where-clause evaluation.
	if g, ok := container.(Generic); ok {
		result.addUpperBound(SubstKey{Name: g.Name, Entity: g.DefiningEntity}, Single(input))
		return true
	}
	if tv, ok := container.(TemplateVar); ok {
		result.addLowerBound(SubstKey{Name: tv.Name, Entity: tv.DefiningEntity}, Single(input))
		return true
	}
	if g, ok := input.(Generic); ok {
		// An upper-bounded generic input is contained by container if its
		// upper bound is.
		if len(g.UpperBound.Atoms) > 0 {
			return unionContainedBy(g.UpperBound, Single(container), opts, result)
		}
		return false
	}

	switch c := container.(type) {
	case Primitive:
		return primitiveContains(input, c, opts, result)
	case LiteralInt:
		if li, ok := input.(LiteralInt); ok {
			return li.Value == c.Value
		}
		return false
	case LiteralString:
		if ls, ok := input.(LiteralString); ok {
			return ls.Value == c.Value
		}
		return false
	case LiteralEnumCase:
		if le, ok := input.(LiteralEnumCase); ok {
			return le.EnumName == c.EnumName && le.CaseName == c.CaseName
		}
		return false
	case ClassnameOf:
		if co, ok := input.(ClassnameOf); ok {
			return co.Class == c.Class
		}
		return false
	case ClassnameCarrier:
		_, ok := input.(ClassnameOf)
		if ok {
			return true
		}
		_, ok = input.(ClassnameCarrier)
		return ok
	case TypenameCarrier:
		_, ok := input.(TypenameCarrier)
		return ok
	case Vec:
		iv, ok := input.(Vec)
		if !ok {
			return false
		}
		return unionContainedBy(iv.Item, c.Item, opts, result)
	case Keyset:
		ik, ok := input.(Keyset)
		if !ok {
			return false
		}
		return unionContainedBy(ik.Item, c.Item, opts, result)
	case Dict:
		id, ok := input.(Dict)
		if !ok {
			return false
		}
		return dictContains(id, c, opts, result)
	case Awaitable:
		ia, ok := input.(Awaitable)
		if !ok {
			return false
		}
		result.UpcastedAwaitable = true
		return unionContainedBy(ia.Item, c.Item, opts, result)
	case NamedObject:
		io, ok := input.(NamedObject)
		if !ok {
			return false
		}
		return namedObjectContains(io, c, opts, result)
	case Closure:
		ic, ok := input.(Closure)
		if !ok {
			return false
		}
		return closureContains(ic, c, opts, result)
	case Alias:
		if c.ResolvedAs != nil {
			return unionContainedBy(Single(input), *c.ResolvedAs, opts, result)
		}
		if ia, ok := input.(Alias); ok {
			return ia.Name == c.Name
		}
		return false
	default:
		return dedupeKey(input) == dedupeKey(container)
	}
}

func primitiveContains(input Atom, c Primitive, opts Options, result *Result) bool {
	switch c.Kind {
	case PMixed:
		return true
	case PArraykey:
		// rule 2: arraykey contains any literal-int/literal-string, int, or string.
		switch input.(type) {
		case LiteralInt, LiteralString:
			return true
		}
		if p, ok := input.(Primitive); ok {
			return p.Kind == PInt || p.Kind == PString || p.Kind == PArraykey
		}
		return false
	case PNum:
		if p, ok := input.(Primitive); ok {
			return p.Kind == PInt || p.Kind == PFloat || p.Kind == PNum
		}
		if _, ok := input.(LiteralInt); ok {
			return true
		}
		return false
	case PInt:
		if _, ok := input.(LiteralInt); ok {
			return true
		}
		if p, ok := input.(Primitive); ok {
			return p.Kind == PInt
		}
		return false
	case PString:
		if _, ok := input.(LiteralString); ok {
			return true
		}
		if p, ok := input.(Primitive); ok {
			return p.Kind == PString
		}
		return false
	case PBool:
		if p, ok := input.(Primitive); ok {
			return p.Kind == PBool || p.Kind == PTrue || p.Kind == PFalse
		}
		return false
	case PTrue, PFalse, PNull, PVoid, PNothing, PFloat:
		if p, ok := input.(Primitive); ok {
			return p.Kind == c.Kind
		}
		return false
	}
	return false
}

func dictContains(input, container Dict, opts Options, result *Result) bool {
	// rule 4: known-items of container must be present and subtype-matched
	// in input; extra known keys in input are fine only if input's K/V
	// also subtype container's K/V.
	for key, citem := range container.Known {
		iitem, ok := input.Known[key]
		if !ok {
			if !unionContainedBy(input.Value, citem.Value, opts, result) && !unionContainedBy(input.Key, input.Key, opts, result) {
				return false
			}
			if input.Known != nil {
				return false
			}
			continue
		}
		if !unionContainedBy(iitem.Value, citem.Value, opts, result) {
			return false
		}
		if iitem.MaybeUndefined && !citem.MaybeUndefined {
			return false
		}
	}
	if len(input.Known) > len(container.Known) && len(container.Known) > 0 {
		if !unionContainedBy(input.Key, container.Key, opts, result) ||
			!unionContainedBy(input.Value, container.Value, opts, result) {
			return false
		}
	}
	if len(container.Known) == 0 {
		return unionContainedBy(input.Key, container.Key, opts, result) &&
			unionContainedBy(input.Value, container.Value, opts, result)
	}
	return true
}

func namedObjectContains(input, container NamedObject, opts Options, result *Result) bool {
	if input.Name != container.Name {
		// Without inheritance info we cannot widen; codebase.ClassInfo
		// callers should pre-resolve to a common ancestor before calling
		// IsContainedBy when inheritance is involved -- see
		// internal/codebase's use of ExtendedParams.
		if opts.Classes != nil {
			if mapped, ok := opts.Classes.ExtendedParams(input.Name, input.TypeParams, container.Name); ok {
				input = NamedObject{Name: container.Name, TypeParams: mapped, IsThis: input.IsThis}
			} else {
				return false
			}
		} else {
			return false
		}
	}
	if len(input.TypeParams) != len(container.TypeParams) {
		return len(container.TypeParams) == 0
	}
	for i := range container.TypeParams {
		v := Invariant
		if opts.Classes != nil {
			v = opts.Classes.Variance(container.Name, i)
		}
		switch v {
		case Covariant:
			if !unionContainedBy(input.TypeParams[i], container.TypeParams[i], opts, result) {
				return false
			}
		case Contravariant:
			if !unionContainedBy(container.TypeParams[i], input.TypeParams[i], opts, result) {
				return false
			}
		default: // Invariant
			fwd := unionContainedBy(input.TypeParams[i], container.TypeParams[i], opts, result)
			if !fwd {
				return false
			}
			if !unionContainedBy(container.TypeParams[i], input.TypeParams[i], opts, result) {
				// Forward direction held but narrowing: record as coerced
				// rather than failing outright.
				result.TypeCoerced = true
			}
		}
	}
	return true
}

func closureContains(input, container Closure, opts Options, result *Result) bool {
	// rule 5: parameters contravariant, return covariant, effects <= container's.
	if len(input.Params) != len(container.Params) {
		return false
	}
	for i := range container.Params {
		if !unionContainedBy(container.Params[i], input.Params[i], opts, result) {
			return false
		}
	}
	if !unionContainedBy(input.Return, container.Return, opts, result) {
		return false
	}
	return input.Effects.LessEqual(container.Effects)
}
