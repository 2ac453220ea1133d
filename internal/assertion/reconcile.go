package assertion

import "github.com/hakana-go/hakana/internal/ttype"

// Outcome is the result of reconciling one assertion against a variable's
// prior type: the narrowed type, and whether narrowing emptied it
// (Impossible) or changed nothing because the prior type already satisfied
// the assertion (Redundant). Callers decide which issue kind to report —
// Impossible on a Truthy/Falsy kind reads differently from Impossible on an
// IsType kind, and that framing belongs to the flow analyzer, not here.
type Outcome struct {
	Type       ttype.Union
	Impossible bool
	Redundant  bool
}

// Reconcile narrows oldType under the fact that assertion held at a branch
// point, mirroring the per-kind case analysis of the original
// assertion_reconciler: IsType/IsEqual intersect, IsNotType/IsNotEqual
// subtract, Truthy/Falsy drop falsy/truthy possibilities, Isset/NotIsset
// narrow around null, and the array-key/countable kinds specialize a dict's
// known-items map. classes resolves named-object containment across
// inheritance; it may be nil when no class hierarchy applies.
func Reconcile(a Assertion, oldType ttype.Union, classes ttype.ClassInfo) Outcome {
	switch a.Kind {
	case KindIsType, KindIsEqual:
		return reconcileIsType(a.Type, oldType, classes)
	case KindIsNotType, KindIsNotEqual:
		return reconcileIsNotType(a.Type, oldType, classes)
	case KindTruthy:
		return reconcileTruthy(oldType)
	case KindFalsy:
		return reconcileFalsy(oldType)
	case KindIsIsset:
		return reconcileIsset(oldType)
	case KindIsNotIsset:
		return reconcileNotIsset(oldType)
	case KindArrayKeyExists, KindHasArrayKey:
		return reconcileHasArrayKey(a.ArrayKey, oldType)
	case KindArrayKeyDoesNotExist, KindDoesNotHaveArrayKey:
		return reconcileLacksArrayKey(a.ArrayKey, oldType)
	case KindNonEmptyCountable:
		return reconcileNonEmptyCountable(oldType)
	case KindEmptyCountable:
		return reconcileEmptyCountable(oldType)
	default:
		// InArray/NotInArray constrain the array being searched, not the
		// variable being asserted on; the count-exact and taint-toggle
		// kinds carry no type-lattice narrowing of their own. All four
		// pass the type through unchanged.
		return Outcome{Type: oldType}
	}
}

func reconcileIsType(assertedType, oldType ttype.Union, classes ttype.ClassInfo) Outcome {
	if oldType.IsMixed() {
		return Outcome{Type: assertedType}
	}
	opts := ttype.Options{Classes: classes}
	kept := oldType.Filter(func(atom ttype.Atom) bool {
		ok, _ := ttype.IsContainedBy(ttype.Single(atom), assertedType, opts)
		return ok
	})
	if kept.IsNothing() && !oldType.IsNothing() {
		return Outcome{Type: ttype.Mixed(), Impossible: true}
	}
	if kept.Equal(oldType) {
		return Outcome{Type: kept, Redundant: true}
	}
	return Outcome{Type: kept}
}

func reconcileIsNotType(assertedType, oldType ttype.Union, classes ttype.ClassInfo) Outcome {
	if oldType.IsMixed() {
		return Outcome{Type: oldType}
	}
	opts := ttype.Options{Classes: classes}
	removed := oldType.Subtract(func(atom ttype.Atom) bool {
		ok, _ := ttype.IsContainedBy(ttype.Single(atom), assertedType, opts)
		return ok
	})
	if removed.IsNothing() && !oldType.IsNothing() {
		return Outcome{Type: ttype.Mixed(), Impossible: true}
	}
	if removed.Equal(oldType) {
		return Outcome{Type: removed, Redundant: true}
	}
	return Outcome{Type: removed}
}

func reconcileTruthy(oldType ttype.Union) Outcome {
	if oldType.IsAlwaysTruthy() {
		return Outcome{Type: oldType, Redundant: true}
	}
	narrowed := oldType.RemoveFalsy()
	if narrowed.IsNothing() && !oldType.IsNothing() {
		return Outcome{Type: ttype.Mixed(), Impossible: true}
	}
	return Outcome{Type: narrowed}
}

func reconcileFalsy(oldType ttype.Union) Outcome {
	if oldType.IsAlwaysFalsy() {
		return Outcome{Type: oldType, Redundant: true}
	}
	narrowed := oldType.RemoveTruthy()
	if narrowed.IsNothing() && !oldType.IsNothing() {
		return Outcome{Type: ttype.Mixed(), Impossible: true}
	}
	return Outcome{Type: narrowed}
}

func reconcileIsset(oldType ttype.Union) Outcome {
	if !oldType.IsNullable() {
		return Outcome{Type: oldType, Redundant: true}
	}
	narrowed := oldType.Filter(func(a ttype.Atom) bool {
		p, ok := a.(ttype.Primitive)
		return !(ok && p.Kind == ttype.PNull)
	})
	if narrowed.IsNothing() && !oldType.IsNothing() {
		return Outcome{Type: ttype.Mixed(), Impossible: true}
	}
	return Outcome{Type: narrowed}
}

func reconcileNotIsset(oldType ttype.Union) Outcome {
	if !oldType.IsNullable() {
		return Outcome{Type: ttype.Mixed(), Impossible: true}
	}
	return Outcome{Type: ttype.Single(ttype.Primitive{Kind: ttype.PNull})}
}

func reconcileHasArrayKey(key string, oldType ttype.Union) Outcome {
	return Outcome{Type: mapDicts(oldType, func(d ttype.Dict) ttype.Dict {
		if d.Known == nil {
			return d
		}
		out := copyKnownDict(d)
		k, known := lookupDictKey(out.Known, key)
		if known {
			item := out.Known[k]
			item.MaybeUndefined = false
			out.Known[k] = item
		}
		return out
	})}
}

func reconcileLacksArrayKey(key string, oldType ttype.Union) Outcome {
	impossible := false
	narrowed := mapDicts(oldType, func(d ttype.Dict) ttype.Dict {
		if d.Known == nil {
			return d
		}
		out := copyKnownDict(d)
		k, known := lookupDictKey(out.Known, key)
		if known {
			if !out.Known[k].MaybeUndefined {
				impossible = true
			}
			delete(out.Known, k)
		}
		return out
	})
	if impossible {
		return Outcome{Type: ttype.Mixed(), Impossible: true}
	}
	return Outcome{Type: narrowed}
}

func reconcileNonEmptyCountable(oldType ttype.Union) Outcome {
	impossible := false
	narrowed := mapDicts(oldType, func(d ttype.Dict) ttype.Dict {
		if d.Known != nil && len(d.Known) == 0 {
			impossible = true
		}
		d.NonEmpty = true
		return d
	})
	if impossible {
		return Outcome{Type: ttype.Mixed(), Impossible: true}
	}
	return Outcome{Type: narrowed}
}

func reconcileEmptyCountable(oldType ttype.Union) Outcome {
	impossible := false
	narrowed := mapDicts(oldType, func(d ttype.Dict) ttype.Dict {
		if len(d.Known) > 0 {
			impossible = true
		}
		d.NonEmpty = false
		return d
	})
	if impossible {
		return Outcome{Type: ttype.Mixed(), Impossible: true}
	}
	return Outcome{Type: narrowed}
}

// mapDicts rewrites every Dict atom in u via f, leaving other atoms as-is.
func mapDicts(u ttype.Union, f func(ttype.Dict) ttype.Dict) ttype.Union {
	out := make([]ttype.Atom, len(u.Atoms))
	for i, a := range u.Atoms {
		if d, ok := a.(ttype.Dict); ok {
			out[i] = f(d)
			continue
		}
		out[i] = a
	}
	return ttype.Union{Atoms: out}
}

func copyKnownDict(d ttype.Dict) ttype.Dict {
	known := make(map[ttype.DictKey]ttype.KnownDictItem, len(d.Known))
	for k, v := range d.Known {
		known[k] = v
	}
	d.Known = known
	return d
}

func lookupDictKey(known map[ttype.DictKey]ttype.KnownDictItem, key string) (ttype.DictKey, bool) {
	k := ttype.DictKey{SValue: key}
	if _, ok := known[k]; ok {
		return k, true
	}
	return k, false
}
