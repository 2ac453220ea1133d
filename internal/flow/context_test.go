package flow

import (
	"testing"

	"github.com/hakana-go/hakana/internal/assertion"
	"github.com/hakana-go/hakana/internal/ttype"
	"github.com/stretchr/testify/assert"
)

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	ctx := NewBlockContext()
	ctx.Locals["x"] = ttype.Single(ttype.Primitive{Kind: ttype.PInt})

	clone := ctx.Clone()
	clone.Locals["x"] = ttype.Single(ttype.Primitive{Kind: ttype.PString})
	clone.Locals["y"] = ttype.Mixed()

	assert.Equal(t, ttype.PInt, ctx.Locals["x"].Atoms[0].(ttype.Primitive).Kind)
	_, hasY := ctx.Locals["y"]
	assert.False(t, hasY)
}

func TestRemoveClausesAboutDropsMatchingClauses(t *testing.T) {
	ctx := NewBlockContext()
	ctx.Clauses = []assertion.Clause{
		{Possibilities: []assertion.VarAssertion{{Var: "x", Assertion: assertion.Assertion{Kind: assertion.KindTruthy}}}},
		{Possibilities: []assertion.VarAssertion{{Var: "y", Assertion: assertion.Assertion{Kind: assertion.KindTruthy}}}},
	}
	ctx.RemoveClausesAbout("x")
	assert.Len(t, ctx.Clauses, 1)
	assert.Equal(t, "y", ctx.Clauses[0].Possibilities[0].Var)
}

func TestCombineLocalOnlyOnOneSideBecomesPossiblyUndefined(t *testing.T) {
	a := NewBlockContext()
	a.Locals["x"] = ttype.Single(ttype.Primitive{Kind: ttype.PInt})

	b := NewBlockContext()
	b.Locals["y"] = ttype.Single(ttype.Primitive{Kind: ttype.PString})

	merged := Combine(a, b)
	assert.True(t, merged.PossiblyUndefined["x"])
	assert.True(t, merged.PossiblyUndefined["y"])
}

func TestCombineHasReturnedIsConjunction(t *testing.T) {
	a := NewBlockContext()
	a.HasReturned = true
	b := NewBlockContext()
	b.HasReturned = false

	merged := Combine(a, b)
	assert.False(t, merged.HasReturned)

	b.HasReturned = true
	merged = Combine(a, b)
	assert.True(t, merged.HasReturned)
}

func TestCombineKeepsOnlySharedClauses(t *testing.T) {
	shared := assertion.Clause{Possibilities: []assertion.VarAssertion{{Var: "x", Assertion: assertion.Assertion{Kind: assertion.KindTruthy}}}}
	onlyA := assertion.Clause{Possibilities: []assertion.VarAssertion{{Var: "y", Assertion: assertion.Assertion{Kind: assertion.KindTruthy}}}}

	a := NewBlockContext()
	a.Clauses = []assertion.Clause{shared, onlyA}
	b := NewBlockContext()
	b.Clauses = []assertion.Clause{shared}

	merged := Combine(a, b)
	assert.Len(t, merged.Clauses, 1)
	assert.Equal(t, "x", merged.Clauses[0].Possibilities[0].Var)
}

func TestWidenSetsInsideLoop(t *testing.T) {
	ctx := NewBlockContext()
	widened := ctx.Widen()
	assert.True(t, widened.InsideLoop)
	assert.False(t, ctx.InsideLoop)
}
