package flow

import (
	"testing"

	"github.com/hakana-go/hakana/internal/assertion"
	"github.com/hakana-go/hakana/internal/codebase"
	"github.com/hakana-go/hakana/internal/dataflow"
	"github.com/hakana-go/hakana/internal/diagnostics"
	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/token"
	"github.com/hakana-go/hakana/internal/ttype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(codebase.New(), diagnostics.NewSet(), dataflow.New(), "test.hack")
}

func assignInt(name string, v int64) *hast.ExpressionStatement {
	return &hast.ExpressionStatement{Expr: &hast.Assign{
		Target: &hast.Variable{Name: name},
		Value:  &hast.Literal{Kind: hast.LiteralKindInt, IntVal: v},
	}}
}

func TestAnalyzeIfJoinsBothArmsWhenNeitherReturns(t *testing.T) {
	a := newTestAnalyzer()
	ctx := NewBlockContext()
	ctx.Locals["cond"] = ttype.Single(ttype.Primitive{Kind: ttype.PBool})

	stmt := &hast.IfStatement{
		Cond: &hast.Variable{Name: "cond"},
		Then: &hast.BlockStatement{Statements: []hast.Statement{assignInt("x", 1)}},
		Else: &hast.BlockStatement{Statements: []hast.Statement{assignInt("x", 2)}},
	}
	a.analyzeIf(ctx, stmt)

	assert.False(t, ctx.HasReturned)
	_, ok := ctx.Locals["x"]
	assert.True(t, ok)
}

func TestAnalyzeIfHasReturnedOnlyWhenBothArmsReturn(t *testing.T) {
	a := newTestAnalyzer()
	ctx := NewBlockContext()

	returning := func() *hast.BlockStatement {
		return &hast.BlockStatement{Statements: []hast.Statement{&hast.ReturnStatement{}}}
	}
	stmt := &hast.IfStatement{
		Cond: &hast.Variable{Name: "cond"},
		Then: returning(),
		Else: returning(),
	}
	a.analyzeIf(ctx, stmt)
	assert.True(t, ctx.HasReturned)

	ctx2 := NewBlockContext()
	stmt2 := &hast.IfStatement{
		Cond: &hast.Variable{Name: "cond"},
		Then: returning(),
		Else: &hast.BlockStatement{Statements: []hast.Statement{assignInt("x", 1)}},
	}
	a.analyzeIf(ctx2, stmt2)
	assert.False(t, ctx2.HasReturned)
}

func TestAnalyzeIfRecursesIntoElseifChain(t *testing.T) {
	a := newTestAnalyzer()
	ctx := NewBlockContext()

	elseif := &hast.IfStatement{
		Cond: &hast.Variable{Name: "other"},
		Then: &hast.BlockStatement{Statements: []hast.Statement{assignInt("y", 1)}},
		Else: &hast.BlockStatement{Statements: []hast.Statement{assignInt("y", 2)}},
	}
	stmt := &hast.IfStatement{
		Cond: &hast.Variable{Name: "cond"},
		Then: &hast.BlockStatement{Statements: []hast.Statement{assignInt("x", 1)}},
		Else: elseif,
	}
	a.analyzeIf(ctx, stmt)
	_, ok := ctx.Locals["y"]
	assert.True(t, ok)
}

func TestAnalyzeWhileJoinsZeroIterationCase(t *testing.T) {
	a := newTestAnalyzer()
	ctx := NewBlockContext()

	stmt := &hast.WhileStatement{
		Cond: &hast.Variable{Name: "cond"},
		Body: &hast.BlockStatement{Statements: []hast.Statement{assignInt("x", 1)}},
	}
	a.analyzeWhile(ctx, stmt)

	u, ok := ctx.Locals["x"]
	require.True(t, ok)
	assert.False(t, u.IsNothing())
}

func TestAnalyzeTryHasReturnedOnlyWhenBodyAndAllCatchesReturn(t *testing.T) {
	a := newTestAnalyzer()
	ctx := NewBlockContext()

	stmt := &hast.TryStatement{
		Body: &hast.BlockStatement{Statements: []hast.Statement{&hast.ReturnStatement{}}},
		Catches: []hast.CatchClause{
			{
				Types: []string{"Exception"},
				Var:   &hast.Variable{Name: "e"},
				Body:  &hast.BlockStatement{Statements: []hast.Statement{&hast.ReturnStatement{}}},
			},
		},
	}
	a.analyzeTry(ctx, stmt)
	assert.True(t, ctx.HasReturned)
}

func TestAnalyzeTryBodyLocalsArePossiblyUndefinedInCatch(t *testing.T) {
	a := newTestAnalyzer()
	ctx := NewBlockContext()

	stmt := &hast.TryStatement{
		Body: &hast.BlockStatement{Statements: []hast.Statement{assignInt("x", 1)}},
		Catches: []hast.CatchClause{
			{
				Types: []string{"Exception"},
				Var:   &hast.Variable{Name: "e"},
				Body:  &hast.BlockStatement{Statements: []hast.Statement{assignInt("y", 2)}},
			},
		},
	}
	a.analyzeTry(ctx, stmt)
	assert.True(t, ctx.PossiblyUndefined["x"])
}

func TestAnalyzeSwitchFallsThroughWithoutBreak(t *testing.T) {
	a := newTestAnalyzer()
	ctx := NewBlockContext()

	stmt := &hast.SwitchStatement{
		Subject: &hast.Variable{Name: "s"},
		Cases: []hast.SwitchCase{
			{Expr: &hast.Literal{Kind: hast.LiteralKindInt, IntVal: 1}, Statements: []hast.Statement{assignInt("x", 1)}},
			{Expr: nil, Statements: []hast.Statement{assignInt("y", 2)}},
		},
	}
	a.analyzeSwitch(ctx, stmt)
	_, hasX := ctx.Locals["x"]
	_, hasY := ctx.Locals["y"]
	assert.True(t, hasX)
	assert.True(t, hasY)
}

func TestAnalyzeSwitchBreakStopsFallthrough(t *testing.T) {
	a := newTestAnalyzer()
	ctx := NewBlockContext()

	stmt := &hast.SwitchStatement{
		Subject: &hast.Variable{Name: "s"},
		Cases: []hast.SwitchCase{
			{
				Expr: &hast.Literal{Kind: hast.LiteralKindInt, IntVal: 1},
				Statements: []hast.Statement{
					assignInt("x", 1),
					&hast.BreakStatement{},
				},
			},
			{Expr: nil, Statements: []hast.Statement{assignInt("y", 2)}},
		},
	}
	a.analyzeSwitch(ctx, stmt)
	_, hasX := ctx.Locals["x"]
	_, hasY := ctx.Locals["y"]
	assert.True(t, hasX)
	assert.False(t, hasY, "break in the first case must not fall into the default arm")
}

func TestApplyTruthsFlagsParadox(t *testing.T) {
	a := newTestAnalyzer()
	ctx := NewBlockContext()
	ctx.Locals["x"] = ttype.Single(ttype.Primitive{Kind: ttype.PInt})

	f := assertion.Formula{
		singleClause("x", assertion.Assertion{Kind: assertion.KindTruthy}),
		singleClause("x", assertion.Assertion{Kind: assertion.KindFalsy}),
	}
	a.applyTruths(ctx, f, token.Position{})

	found := false
	for _, issue := range a.Issues.Sorted() {
		if issue.Kind == diagnostics.ParadoxicalCondition {
			found = true
		}
	}
	assert.True(t, found)
}

func TestApplyTruthsNoParadoxForConsistentFacts(t *testing.T) {
	a := newTestAnalyzer()
	ctx := NewBlockContext()
	ctx.Locals["x"] = ttype.Single(ttype.Primitive{Kind: ttype.PInt})

	f := assertion.Formula{singleClause("x", assertion.Assertion{Kind: assertion.KindTruthy})}
	a.applyTruths(ctx, f, token.Position{})

	for _, issue := range a.Issues.Sorted() {
		assert.NotEqual(t, diagnostics.ParadoxicalCondition, issue.Kind)
	}
}

func TestAnalyzeUnsetRemovesLocal(t *testing.T) {
	a := newTestAnalyzer()
	ctx := NewBlockContext()
	ctx.Locals["x"] = ttype.Single(ttype.Primitive{Kind: ttype.PInt})

	stmt := &hast.UnsetStatement{Targets: []hast.Expression{&hast.Variable{Name: "x"}}}
	a.analyzeUnset(ctx, stmt)

	_, ok := ctx.Locals["x"]
	assert.False(t, ok)
}
