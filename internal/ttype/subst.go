package ttype

// SubstKey identifies a substitutable generic/template slot: its name plus
// the entity that declared it.
type SubstKey struct {
	Name   string
	Entity EntityID
}

// Subst maps generic/template slots to concrete unions.
type Subst map[SubstKey]Union

// Apply substitutes every Generic and TemplateVar atom reachable from u
// according to s, leaving unmatched atoms untouched. It walks into
// collection/closure/object structure the way funxy's ApplyWithCycleCheck
// walks TApp/TFunc/TRecord (internal/typesystem/types.go), adapted to this
// lattice's atom set.
func (u Union) Apply(s Subst) Union {
	if len(s) == 0 {
		return u
	}
	out := make([]Atom, 0, len(u.Atoms))
	for _, a := range u.Atoms {
		out = append(out, applyAtom(a, s)...)
	}
	return normalize(out)
}

// applyAtom returns the replacement atoms for a (a generic substituted by a
// multi-atom union expands to multiple atoms; everything else stays a
// single atom).
func applyAtom(a Atom, s Subst) []Atom {
	switch v := a.(type) {
	case Generic:
		if repl, ok := s[SubstKey{Name: v.Name, Entity: v.DefiningEntity}]; ok {
			return append([]Atom{}, repl.Atoms...)
		}
		return []Atom{a}
	case TemplateVar:
		if repl, ok := s[SubstKey{Name: v.Name, Entity: v.DefiningEntity}]; ok {
			return append([]Atom{}, repl.Atoms...)
		}
		return []Atom{a}
	case Vec:
		v.Item = v.Item.Apply(s)
		if v.Known != nil {
			newKnown := make(map[int]Union, len(v.Known))
			for k, it := range v.Known {
				newKnown[k] = it.Apply(s)
			}
			v.Known = newKnown
		}
		return []Atom{v}
	case Dict:
		v.Key = v.Key.Apply(s)
		v.Value = v.Value.Apply(s)
		if v.Known != nil {
			newKnown := make(map[DictKey]KnownDictItem, len(v.Known))
			for k, it := range v.Known {
				it.Value = it.Value.Apply(s)
				newKnown[k] = it
			}
			v.Known = newKnown
		}
		return []Atom{v}
	case Keyset:
		v.Item = v.Item.Apply(s)
		return []Atom{v}
	case Awaitable:
		v.Item = v.Item.Apply(s)
		return []Atom{v}
	case NamedObject:
		newParams := make([]Union, len(v.TypeParams))
		for i, tp := range v.TypeParams {
			newParams[i] = tp.Apply(s)
		}
		v.TypeParams = newParams
		return []Atom{v}
	case Closure:
		newParams := make([]Union, len(v.Params))
		for i, p := range v.Params {
			newParams[i] = p.Apply(s)
		}
		v.Params = newParams
		v.Return = v.Return.Apply(s)
		return []Atom{v}
	default:
		return []Atom{a}
	}
}

// Compose combines two substitutions so that applying the result equals
// applying s1 then s2: s1's entries have s2 applied to them, and s2's
// entries fill the slots s1 does not bind.
func (s1 Subst) Compose(s2 Subst) Subst {
	out := make(Subst, len(s1)+len(s2))
	for k, v := range s2 {
		out[k] = v
	}
	for k, v := range s1 {
		out[k] = v.Apply(s2)
	}
	return out
}
