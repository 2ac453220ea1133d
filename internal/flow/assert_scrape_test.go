package flow

import (
	"testing"

	"github.com/hakana-go/hakana/internal/assertion"
	"github.com/hakana-go/hakana/internal/hast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strLit(v string) *hast.Literal { return &hast.Literal{Kind: hast.LiteralKindString, StrVal: v} }

func TestScrapePositiveBareVariableIsTruthy(t *testing.T) {
	f := scrapePositive(&hast.Variable{Name: "x"})
	require.Len(t, f, 1)
	assert.Equal(t, "x", f[0].Possibilities[0].Var)
	assert.Equal(t, assertion.KindTruthy, f[0].Possibilities[0].Assertion.Kind)
}

func TestScrapePositiveEqualityAgainstLiteral(t *testing.T) {
	cond := &hast.BinaryOp{Op: hast.OpEq, Left: &hast.Variable{Name: "x"}, Right: strLit("ok")}
	f := scrapePositive(cond)
	require.Len(t, f, 1)
	assert.Equal(t, assertion.KindIsEqual, f[0].Possibilities[0].Assertion.Kind)
}

func TestScrapePositiveAndConcatenatesClauses(t *testing.T) {
	cond := &hast.BinaryOp{
		Op:   hast.OpAnd,
		Left: &hast.Variable{Name: "x"},
		Right: &hast.Variable{Name: "y"},
	}
	f := scrapePositive(cond)
	require.Len(t, f, 2)
}

func TestScrapePositiveOrCombinesIntoSingleClause(t *testing.T) {
	cond := &hast.BinaryOp{
		Op:   hast.OpOr,
		Left: &hast.Variable{Name: "x"},
		Right: &hast.Variable{Name: "y"},
	}
	f := scrapePositive(cond)
	require.Len(t, f, 1)
	assert.Len(t, f[0].Possibilities, 2)
}

func TestScrapePositiveNotNegatesInner(t *testing.T) {
	cond := &hast.UnaryOp{Op: hast.OpNot, Operand: &hast.Variable{Name: "x"}}
	f := scrapePositive(cond)
	require.Len(t, f, 1)
	assert.Equal(t, assertion.KindFalsy, f[0].Possibilities[0].Assertion.Kind)
}

func TestScrapePositiveInstanceOf(t *testing.T) {
	cond := &hast.InstanceOf{Subject: &hast.Variable{Name: "x"}, ClassName: "Foo"}
	f := scrapePositive(cond)
	require.Len(t, f, 1)
	assert.Equal(t, assertion.KindIsType, f[0].Possibilities[0].Assertion.Kind)
}

func TestScrapePositiveIsset(t *testing.T) {
	cond := &hast.Isset{Target: &hast.Variable{Name: "x"}}
	f := scrapePositive(cond)
	require.Len(t, f, 1)
	assert.Equal(t, assertion.KindIsIsset, f[0].Possibilities[0].Assertion.Kind)
}

func TestScrapePositiveUnrecognizedExpressionIsWedge(t *testing.T) {
	cond := &hast.Call{Name: "something"}
	f := scrapePositive(cond)
	require.Len(t, f, 1)
	assert.True(t, f[0].Wedge)
}

func TestScrapeAssertionsNegateFlipsTruthyToFalsy(t *testing.T) {
	f := scrapeAssertions(&hast.Variable{Name: "x"}, true)
	require.Len(t, f, 1)
	assert.Equal(t, assertion.KindFalsy, f[0].Possibilities[0].Assertion.Kind)
}
