package ttype

import (
	"sort"
	"strings"
)

// LiteralWidenThreshold is the number of same-base-type literals a union may
// carry before Combine widens them to the base type.
const LiteralWidenThreshold = 20

// Union is an ordered set of atoms representing a disjunction of possible
// runtime types. Two unions are equal iff their atom
// sets are equal; Key() below gives the canonical membership
// key used for that comparison.
type Union struct {
	Atoms []Atom
}

// Single builds a one-atom union.
func Single(a Atom) Union { return Union{Atoms: []Atom{a}} }

// Nothing is the identity element for Combine.
func Nothing() Union { return Single(Primitive{Kind: PNothing}) }

// Mixed absorbs every other atom under Combine (invariant 2).
func Mixed() Union { return Single(Primitive{Kind: PMixed}) }

func (u Union) String() string {
	if len(u.Atoms) == 0 {
		return "nothing"
	}
	parts := make([]string, len(u.Atoms))
	for i, a := range u.Atoms {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

// Key returns the canonical membership key: the sorted, deduplicated
// display strings of every atom. Two unions are equal iff their atom sets
// are equal, and display is deterministic, so this is safe for set
// comparison and for cache/round-trip identity checks.
func (u Union) Key() string {
	if len(u.Atoms) == 0 {
		return "nothing"
	}
	parts := make([]string, len(u.Atoms))
	for i, a := range u.Atoms {
		parts[i] = a.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, "\x00")
}

// Equal reports set-equality of two unions' atoms.
func (u Union) Equal(other Union) bool { return u.Key() == other.Key() }

func (u Union) Generics() []Generic {
	var g []Generic
	for _, a := range u.Atoms {
		g = append(g, a.Generics()...)
	}
	return g
}

// IsNothing reports whether u is exactly the bottom type.
func (u Union) IsNothing() bool {
	if len(u.Atoms) != 1 {
		return len(u.Atoms) == 0
	}
	p, ok := u.Atoms[0].(Primitive)
	return ok && p.Kind == PNothing
}

// IsMixed reports whether u is exactly the top type.
func (u Union) IsMixed() bool {
	for _, a := range u.Atoms {
		if p, ok := a.(Primitive); ok && p.Kind == PMixed {
			return true
		}
	}
	return false
}

// IsNullable reports whether null is one of u's possibilities.
func (u Union) IsNullable() bool {
	for _, a := range u.Atoms {
		if p, ok := a.(Primitive); ok && p.Kind == PNull {
			return true
		}
	}
	return false
}

func isFalsyAtom(a Atom) bool {
	switch v := a.(type) {
	case Primitive:
		switch v.Kind {
		case PNull, PFalse, PVoid, PNothing:
			return true
		}
		return false
	case LiteralInt:
		return v.Value == 0
	case LiteralString:
		return v.Value == "" || v.Value == "0"
	case Vec:
		return false // non-literal-sized collections are not statically falsy
	}
	return false
}

func isTruthyAtom(a Atom) bool {
	switch v := a.(type) {
	case Primitive:
		switch v.Kind {
		case PTrue, PVoid:
			return v.Kind == PTrue
		case PNull, PFalse, PNothing:
			return false
		}
		return false
	case LiteralInt:
		return v.Value != 0
	case LiteralString:
		return v.Value != "" && v.Value != "0"
	}
	return false
}

// IsAlwaysFalsy reports whether every possibility in u is falsy.
func (u Union) IsAlwaysFalsy() bool {
	if len(u.Atoms) == 0 {
		return false
	}
	for _, a := range u.Atoms {
		if !isFalsyAtom(a) {
			return false
		}
	}
	return true
}

// IsAlwaysTruthy reports whether every possibility in u is truthy.
func (u Union) IsAlwaysTruthy() bool {
	if len(u.Atoms) == 0 {
		return false
	}
	for _, a := range u.Atoms {
		if !isTruthyAtom(a) {
			return false
		}
	}
	return true
}

// HasTemplateOrStatic reports whether u mentions a generic_param or a
// `this`-typed named object, the two cases where a caller must not cache a
// concrete-type judgment across call sites.
func (u Union) HasTemplateOrStatic() bool {
	for _, a := range u.Atoms {
		switch v := a.(type) {
		case Generic:
			return true
		case NamedObject:
			if v.IsThis {
				return true
			}
		}
	}
	return false
}

// dedupeKey returns the membership key for one atom, used while combining.
func dedupeKey(a Atom) string { return a.String() }

// Combine computes the least upper bound of a and b in the lattice,
// applying the normalization rules:
//  1. redundant atoms merge;
//  2. mixed absorbs everything, nothing is absorbed by everything;
//  3. literal widening past LiteralWidenThreshold;
// Combine is associative and commutative up to normalization because it
// always sorts the deduplicated atom list before returning.
func Combine(a, b Union) Union {
	if a.IsNothing() {
		return b
	}
	if b.IsNothing() {
		return a
	}
	if a.IsMixed() || b.IsMixed() {
		fromAny := false
		for _, u := range []Union{a, b} {
			for _, at := range u.Atoms {
				if p, ok := at.(Primitive); ok && p.Kind == PMixed && p.FromAny {
					fromAny = true
				}
			}
		}
		return Single(Primitive{Kind: PMixed, FromAny: fromAny})
	}

	merged := make([]Atom, 0, len(a.Atoms)+len(b.Atoms))
	merged = append(merged, a.Atoms...)
	merged = append(merged, b.Atoms...)
	return normalize(merged)
}

// normalize flattens, deduplicates, widens, and sorts a raw atom slice into
// canonical form.
func normalize(raw []Atom) Union {
	seen := make(map[string]Atom)
	order := make([]string, 0, len(raw))
	for _, a := range raw {
		k := dedupeKey(a)
		if _, ok := seen[k]; !ok {
			seen[k] = a
			order = append(order, k)
		}
	}

	atoms := make([]Atom, 0, len(order))
	for _, k := range order {
		atoms = append(atoms, seen[k])
	}

	atoms = widenLiterals(atoms)
	atoms = dedupeAfterWiden(atoms)

	sort.Slice(atoms, func(i, j int) bool { return atoms[i].String() < atoms[j].String() })

	if len(atoms) == 0 {
		return Nothing()
	}
	return Union{Atoms: atoms}
}

// widenLiterals implements the literal-widening policy: once more than
// LiteralWidenThreshold literals of the same base type are present, they
// all widen to the base type.
func widenLiterals(atoms []Atom) []Atom {
	intLits := 0
	strLits := 0
	for _, a := range atoms {
		switch a.(type) {
		case LiteralInt:
			intLits++
		case LiteralString:
			strLits++
		}
	}

	widenInt := intLits > LiteralWidenThreshold
	widenStr := strLits > LiteralWidenThreshold

	if !widenInt && !widenStr {
		return atoms
	}

	out := make([]Atom, 0, len(atoms))
	for _, a := range atoms {
		switch a.(type) {
		case LiteralInt:
			if widenInt {
				out = append(out, Primitive{Kind: PInt})
				continue
			}
		case LiteralString:
			if widenStr {
				out = append(out, Primitive{Kind: PString})
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

func dedupeAfterWiden(atoms []Atom) []Atom {
	seen := make(map[string]bool)
	out := make([]Atom, 0, len(atoms))
	for _, a := range atoms {
		k := a.String()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}

// Subtract removes every atom in remove from u (used by negative-assertion
// reconciliation).
func (u Union) Subtract(remove func(Atom) bool) Union {
	out := make([]Atom, 0, len(u.Atoms))
	for _, a := range u.Atoms {
		if !remove(a) {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return Nothing()
	}
	return Union{Atoms: out}
}

// Filter keeps only atoms matching keep.
func (u Union) Filter(keep func(Atom) bool) Union {
	out := make([]Atom, 0, len(u.Atoms))
	for _, a := range u.Atoms {
		if keep(a) {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return Nothing()
	}
	return Union{Atoms: out}
}

// RemoveFalsy drops null/false/void/nothing/0/""/"0" possibilities,
// implementing the Truthy reconciler. Collections are never treated as
// falsy, so possibly-empty collections are kept.
func (u Union) RemoveFalsy() Union {
	return u.Filter(func(a Atom) bool { return !isFalsyAtom(a) })
}

// RemoveTruthy is the complement, used by the Falsy reconciler.
func (u Union) RemoveTruthy() Union {
	return u.Filter(func(a Atom) bool {
		if p, ok := a.(Primitive); ok && p.Kind == PTrue {
			return false
		}
		if li, ok := a.(LiteralInt); ok && li.Value != 0 {
			return false
		}
		if ls, ok := a.(LiteralString); ok && ls.Value != "" && ls.Value != "0" {
			return false
		}
		return true
	})
}
