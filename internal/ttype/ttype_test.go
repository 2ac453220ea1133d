package ttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineIdentityAndAbsorption(t *testing.T) {
	i := Single(Primitive{Kind: PInt})
	n := Nothing()
	m := Mixed()

	assert.True(t, Combine(i, n).Equal(i), "nothing is identity")
	assert.True(t, Combine(i, m).Equal(m), "mixed absorbs")
}

func TestCombineLiteralWidening(t *testing.T) {
	u := Nothing()
	for v := int64(0); v < LiteralWidenThreshold+1; v++ {
		u = Combine(u, Single(LiteralInt{Value: v}))
	}
	// past the threshold, all literal ints widen to the base type.
	assert.True(t, u.Equal(Single(Primitive{Kind: PInt})))
}

func TestCombineAssociativeCommutative(t *testing.T) {
	a := Single(Primitive{Kind: PInt})
	b := Single(Primitive{Kind: PString})
	c := Single(LiteralInt{Value: 5})

	left := Combine(a, Combine(b, c))
	right := Combine(Combine(a, b), c)
	assert.True(t, left.Equal(right))

	ab := Combine(a, b)
	ba := Combine(b, a)
	assert.True(t, ab.Equal(ba))
}

func TestIsContainedByReflexive(t *testing.T) {
	types := []Union{
		Single(Primitive{Kind: PInt}),
		Single(LiteralString{Value: "x"}),
		Combine(Single(Primitive{Kind: PInt}), Single(Primitive{Kind: PString})),
		Single(Vec{Item: Single(Primitive{Kind: PBool})}),
	}
	for _, ty := range types {
		ok, res := IsContainedBy(ty, ty, Options{})
		require.True(t, ok, "expected %s to be contained by itself", ty.String())
		assert.False(t, res.TypeCoercedToLiteral)
	}
}

func TestIsContainedByArraykeyRule(t *testing.T) {
	intOrStr := Combine(Single(Primitive{Kind: PInt}), Single(Primitive{Kind: PString}))
	arraykey := Single(Primitive{Kind: PArraykey})
	ok, _ := IsContainedBy(intOrStr, arraykey, Options{})
	assert.True(t, ok)
}

func TestIsContainedByMixedAndNothing(t *testing.T) {
	anyType := Single(Primitive{Kind: PBool})
	ok, _ := IsContainedBy(anyType, Mixed(), Options{})
	assert.True(t, ok)

	ok, _ = IsContainedBy(Nothing(), anyType, Options{})
	assert.True(t, ok)
}

func TestIsContainedByTransitiveWithoutCoercion(t *testing.T) {
	a := Single(LiteralInt{Value: 5})
	b := Single(Primitive{Kind: PInt})
	c := Single(Primitive{Kind: PArraykey})

	ok1, r1 := IsContainedBy(a, b, Options{})
	ok2, r2 := IsContainedBy(b, c, Options{})
	require.True(t, ok1)
	require.True(t, ok2)
	require.False(t, r1.TypeCoerced || r1.TypeCoercedToLiteral)
	require.False(t, r2.TypeCoerced || r2.TypeCoercedToLiteral)

	ok3, r3 := IsContainedBy(a, c, Options{})
	assert.True(t, ok3)
	assert.False(t, r3.TypeCoerced)
}

func TestClosureContravariantParams(t *testing.T) {
	// (arraykey) -> int should be contained by (int) -> int (contravariant params).
	wide := Closure{Params: []Union{Single(Primitive{Kind: PArraykey})}, Return: Single(Primitive{Kind: PInt})}
	narrow := Closure{Params: []Union{Single(Primitive{Kind: PInt})}, Return: Single(Primitive{Kind: PInt})}
	ok, _ := IsContainedBy(Single(wide), Single(narrow), Options{})
	assert.True(t, ok)
}

func TestDictKnownItemSubtyping(t *testing.T) {
	container := Dict{Known: map[DictKey]KnownDictItem{
		{IsInt: false, SValue: "b"}: {Value: Single(Primitive{Kind: PInt})},
	}}
	input := Dict{Known: map[DictKey]KnownDictItem{
		{IsInt: false, SValue: "a"}: {Value: Single(Primitive{Kind: PInt})},
		{IsInt: false, SValue: "b"}: {Value: Single(LiteralInt{Value: 2})},
	}}
	ok, _ := IsContainedBy(Single(input), Single(container), Options{})
	assert.True(t, ok)
}

func TestTruthyFalsyReconciliation(t *testing.T) {
	u := Combine(Combine(Single(Primitive{Kind: PNull}), Single(Primitive{Kind: PInt})), Single(Primitive{Kind: PFalse}))
	truthy := u.RemoveFalsy()
	assert.True(t, truthy.Equal(Single(Primitive{Kind: PInt})))
}

func TestStandinAndInferredReplace(t *testing.T) {
	entity := EntityID{Kind: EntityFunction, Name: "identity"}
	tParam := Generic{Name: "T", DefiningEntity: entity}
	declared := Single(tParam)

	tr := NewTemplateResult([]Generic{tParam})
	standin := StandinReplace(declared, tr)
	_, isStandin := standin.Atoms[0].(TemplateVar)
	require.True(t, isStandin)

	k := SubstKey{Name: "T", Entity: entity}
	tr.AddLowerBound(k, Single(Primitive{Kind: PInt}), 1)

	result := InferredReplace(declared, tr, nil)
	assert.True(t, result.Equal(Single(Primitive{Kind: PInt})))
}

func TestApplyIdempotentRefinement(t *testing.T) {
	// Applying an IsType-style filter twice yields the same type.
	u := Combine(Single(Primitive{Kind: PInt}), Single(Primitive{Kind: PString}))
	once := u.Filter(func(a Atom) bool {
		p, ok := a.(Primitive)
		return ok && p.Kind == PInt
	})
	twice := once.Filter(func(a Atom) bool {
		p, ok := a.(Primitive)
		return ok && p.Kind == PInt
	})
	assert.True(t, once.Equal(twice))
}
