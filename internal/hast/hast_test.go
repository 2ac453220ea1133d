package hast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakana-go/hakana/internal/token"
	"github.com/hakana-go/hakana/internal/ttype"
)

type countingVisitor struct {
	BaseVisitor
	variables int
	calls     int
	ifs       int
}

func (c *countingVisitor) VisitVariable(e *Variable) { c.variables++ }
func (c *countingVisitor) VisitCall(e *Call)          { c.calls++ }
func (c *countingVisitor) VisitIfStatement(s *IfStatement) {
	c.ifs++
	s.Cond.Accept(c)
	s.Then.Accept(c)
}

func TestAcceptDispatchesToConcreteVisitMethod(t *testing.T) {
	ifStmt := &IfStatement{
		Cond: &BinaryOp{Op: OpGt, Left: &Variable{Name: "x"}, Right: &Literal{Kind: LiteralKindInt, IntVal: 0}},
		Then: &BlockStatement{Statements: []Statement{
			&ExpressionStatement{Expr: &Call{Name: "log", Args: []Expression{&Variable{Name: "x"}}}},
		}},
	}

	cv := &countingVisitor{}
	ifStmt.Accept(cv)

	assert.Equal(t, 1, cv.ifs)
}

func TestExtractSignaturesCoversFunctionsAndMethods(t *testing.T) {
	fn := &FunctionLike{
		Name:       "doThing",
		Params:     []Param{{Name: "x", Type: ttype.Single(ttype.Primitive{Kind: ttype.PInt})}},
		ReturnType: ttype.Single(ttype.Primitive{Kind: ttype.PVoid}),
	}
	method := &FunctionLike{Name: "run", ReturnType: ttype.Mixed()}
	class := &ClassLike{Name: "Worker", Kind: KindClass, Methods: []*FunctionLike{method}}

	prog := &Program{Decls: []Decl{fn, class}}
	sigs := ExtractSignatures(prog, nil)

	require.Len(t, sigs, 3)
	assert.Equal(t, "doThing", sigs[0].Name)
	assert.Equal(t, SigFunction, sigs[0].Kind)
	assert.Equal(t, "Worker", sigs[1].Name)
	assert.Equal(t, SigClass, sigs[1].Kind)
	assert.Equal(t, "Worker::run", sigs[2].Name)
	assert.Equal(t, SigMethod, sigs[2].Kind)
}

func TestExtractSignaturesStableAcrossBodyOnlyChange(t *testing.T) {
	base := func(body *BlockStatement) *Program {
		fn := &FunctionLike{
			Name:       "f",
			ReturnType: ttype.Single(ttype.Primitive{Kind: ttype.PInt}),
			Body:       body,
		}
		return &Program{Decls: []Decl{fn}}
	}

	before := ExtractSignatures(base(&BlockStatement{Statements: []Statement{
		&ReturnStatement{Value: &Literal{Kind: LiteralKindInt, IntVal: 1}},
	}}), nil)
	after := ExtractSignatures(base(&BlockStatement{Statements: []Statement{
		&ReturnStatement{Value: &Literal{Kind: LiteralKindInt, IntVal: 2}},
	}}), nil)

	require.Len(t, before, 1)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].Signature, after[0].Signature)
	assert.Equal(t, before[0].SignatureHash, after[0].SignatureHash)
}

func TestExtractSignaturesHashesBodyFromSource(t *testing.T) {
	source := []byte("function f(): int { return 1; }")
	fn := &FunctionLike{
		base:       base{P: token.Position{StartOffset: 0, EndOffset: len(source)}},
		Name:       "f",
		ReturnType: ttype.Single(ttype.Primitive{Kind: ttype.PInt}),
	}
	prog := &Program{Decls: []Decl{fn}}

	withSource := ExtractSignatures(prog, source)
	withoutSource := ExtractSignatures(prog, nil)

	require.Len(t, withSource, 1)
	require.Len(t, withoutSource, 1)
	assert.NotZero(t, withSource[0].BodyHash)
	assert.Zero(t, withoutSource[0].BodyHash)
	assert.Equal(t, withSource[0].SignatureHash, withoutSource[0].SignatureHash)
}
