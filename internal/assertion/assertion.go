// Package assertion implements the propositional algebra the flow
// analyzer uses to refine variable types at branch points: assertions
// (IsType, Truthy, HasArrayKey, ...) combined into CNF clauses, with
// negation, simplification, and paradox detection.
//
// The shape follows funxy's typesystem constraint-solving style (small
// immutable value types, free-standing functions over slices rather than
// a mutable solver object) adapted to a disjoint boolean-formula domain.
package assertion

import (
	"strconv"

	"github.com/hakana-go/hakana/internal/ttype"
)

// Kind identifies which assertion variant a value holds.
type Kind int

const (
	KindIsType Kind = iota
	KindIsNotType
	KindFalsy
	KindTruthy
	KindIsEqual
	KindIsNotEqual
	KindIsIsset
	KindIsNotIsset
	KindArrayKeyExists
	KindArrayKeyDoesNotExist
	KindHasArrayKey
	KindDoesNotHaveArrayKey
	KindInArray
	KindNotInArray
	KindNonEmptyCountable
	KindEmptyCountable
	KindHasExactCount
	KindDoesNotHaveExactCount
	KindIgnoreTaints
	KindDontIgnoreTaints
)

// Assertion is one refinement fact about a variable. Type is used by
// IsType/IsNotType/IsEqual/IsNotEqual/InArray/NotInArray; Key by the
// array-key variants; Count by the exact-count variants.
type Assertion struct {
	Kind     Kind
	Type     ttype.Union
	ArrayKey string
	Count    int
}

// Key returns the canonical string two assertions are compared by: equal
// iff their keys are equal.
func (a Assertion) Key() string {
	switch a.Kind {
	case KindIsType, KindIsNotType, KindIsEqual, KindIsNotEqual, KindInArray, KindNotInArray:
		return kindPrefix(a.Kind) + a.Type.Key()
	case KindArrayKeyExists, KindArrayKeyDoesNotExist, KindHasArrayKey, KindDoesNotHaveArrayKey:
		return kindPrefix(a.Kind) + a.ArrayKey
	case KindHasExactCount, KindDoesNotHaveExactCount:
		return kindPrefix(a.Kind) + strconv.Itoa(a.Count)
	default:
		return kindPrefix(a.Kind)
	}
}

func kindPrefix(k Kind) string {
	names := []string{
		"is:", "isnot:", "falsy", "truthy", "eq:", "noteq:", "isset", "notisset",
		"keyexists:", "nokeyexists:", "haskey:", "nohaskey:", "in:", "notin:",
		"nonempty", "empty", "count:", "notcount:", "ignoretaints", "dontignoretaints",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "?"
}

// NegateAssertion returns the logical complement of a, where one is
// well-defined: every pair (IsType/IsNotType, Truthy/Falsy, the Isset
// pairs, the ArrayKey pairs, InArray pairs, Countable pairs, the
// exact-count pairs, the taint pairs, and IsEqual/IsNotEqual) negates to
// its sibling.
func NegateAssertion(a Assertion) (Assertion, bool) {
	dual := map[Kind]Kind{
		KindIsType: KindIsNotType, KindIsNotType: KindIsType,
		KindFalsy: KindTruthy, KindTruthy: KindFalsy,
		KindIsEqual: KindIsNotEqual, KindIsNotEqual: KindIsEqual,
		KindIsIsset: KindIsNotIsset, KindIsNotIsset: KindIsIsset,
		KindArrayKeyExists: KindArrayKeyDoesNotExist, KindArrayKeyDoesNotExist: KindArrayKeyExists,
		KindHasArrayKey: KindDoesNotHaveArrayKey, KindDoesNotHaveArrayKey: KindHasArrayKey,
		KindInArray: KindNotInArray, KindNotInArray: KindInArray,
		KindNonEmptyCountable: KindEmptyCountable, KindEmptyCountable: KindNonEmptyCountable,
		KindHasExactCount: KindDoesNotHaveExactCount, KindDoesNotHaveExactCount: KindHasExactCount,
		KindIgnoreTaints: KindDontIgnoreTaints, KindDontIgnoreTaints: KindIgnoreTaints,
	}
	d, ok := dual[a.Kind]
	if !ok {
		return Assertion{}, false
	}
	out := a
	out.Kind = d
	return out, true
}

// VarAssertion pairs an assertion with the variable name it constrains.
type VarAssertion struct {
	Var       string
	Assertion Assertion
}

// Clause is a disjunction of VarAssertions ("possibilities"): the
// condition holds if any one of them is true. Wedge marks a clause the
// solver could not decompose into assertions (an opaque sub-expression);
// wedge clauses block negation.
type Clause struct {
	Possibilities []VarAssertion
	Wedge         bool
}

func (c Clause) varSet() map[string]bool {
	vars := make(map[string]bool, len(c.Possibilities))
	for _, p := range c.Possibilities {
		vars[p.Var] = true
	}
	return vars
}

func (c Clause) keySet() map[string]bool {
	keys := make(map[string]bool, len(c.Possibilities))
	for _, p := range c.Possibilities {
		keys[p.Var+"\x00"+p.Assertion.Key()] = true
	}
	return keys
}

func sameVarSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func supersetOf(super, sub map[string]bool) bool {
	for k := range sub {
		if !super[k] {
			return false
		}
	}
	return true
}
