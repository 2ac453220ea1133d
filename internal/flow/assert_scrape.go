package flow

import (
	"github.com/hakana-go/hakana/internal/assertion"
	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/ttype"
)

// scrapeAssertions turns a condition expression into the CNF formula of
// facts it establishes when true, the input GetTruthsFromFormula and
// FindParadox consume. negate requests the formula for the condition
// being false instead (an else-arm, or a negated sub-expression).
func scrapeAssertions(cond hast.Expression, negate bool) assertion.Formula {
	f := scrapePositive(cond)
	if !negate {
		return f
	}
	negated, ok := assertion.Negate(f)
	if !ok {
		return nil
	}
	return negated
}

func scrapePositive(cond hast.Expression) assertion.Formula {
	switch e := cond.(type) {
	case *hast.BinaryOp:
		switch e.Op {
		case hast.OpAnd:
			return append(scrapePositive(e.Left), scrapePositive(e.Right)...)
		case hast.OpOr:
			left := scrapePositive(e.Left)
			right := scrapePositive(e.Right)
			return assertion.CombineOredClauses(left, right)
		case hast.OpEq, hast.OpIdentical:
			if c, ok := equalityClause(e.Left, e.Right, assertion.KindIsEqual); ok {
				return assertion.Formula{c}
			}
		case hast.OpNotEq, hast.OpNotIdentical:
			if c, ok := equalityClause(e.Left, e.Right, assertion.KindIsNotEqual); ok {
				return assertion.Formula{c}
			}
		}
	case *hast.UnaryOp:
		if e.Op == hast.OpNot {
			inner := scrapePositive(e.Operand)
			negated, ok := assertion.Negate(inner)
			if ok {
				return negated
			}
			return nil
		}
	case *hast.InstanceOf:
		if v, ok := e.Subject.(*hast.Variable); ok {
			return assertion.Formula{singleClause(v.Name, assertion.Assertion{
				Kind: assertion.KindIsType,
				Type: ttype.Single(ttype.NamedObject{Name: e.ClassName}),
			})}
		}
	case *hast.Isset:
		if v, ok := e.Target.(*hast.Variable); ok {
			return assertion.Formula{singleClause(v.Name, assertion.Assertion{Kind: assertion.KindIsIsset})}
		}
	case *hast.Variable:
		return assertion.Formula{singleClause(e.Name, assertion.Assertion{Kind: assertion.KindTruthy})}
	}
	return assertion.Formula{{Wedge: true}}
}

func equalityClause(left, right hast.Expression, kind assertion.Kind) (assertion.Clause, bool) {
	v, lit := matchVariableAndLiteral(left, right)
	if v == nil {
		return assertion.Clause{}, false
	}
	u := literalType(lit)
	if u.IsNothing() {
		return assertion.Clause{}, false
	}
	return singleClause(v.Name, assertion.Assertion{Kind: kind, Type: u}), true
}

func matchVariableAndLiteral(a, b hast.Expression) (*hast.Variable, *hast.Literal) {
	if v, ok := a.(*hast.Variable); ok {
		if lit, ok := b.(*hast.Literal); ok {
			return v, lit
		}
	}
	if v, ok := b.(*hast.Variable); ok {
		if lit, ok := a.(*hast.Literal); ok {
			return v, lit
		}
	}
	return nil, nil
}

func literalType(lit *hast.Literal) ttype.Union {
	switch lit.Kind {
	case hast.LiteralKindInt:
		return ttype.Single(ttype.LiteralInt{Value: lit.IntVal})
	case hast.LiteralKindString:
		return ttype.Single(ttype.LiteralString{Value: lit.StrVal})
	case hast.LiteralKindBool:
		if lit.BoolVal {
			return ttype.Single(ttype.Primitive{Kind: ttype.PTrue})
		}
		return ttype.Single(ttype.Primitive{Kind: ttype.PFalse})
	case hast.LiteralKindNull:
		return ttype.Single(ttype.Primitive{Kind: ttype.PNull})
	default:
		return ttype.Nothing()
	}
}

func singleClause(varName string, a assertion.Assertion) assertion.Clause {
	return assertion.Clause{Possibilities: []assertion.VarAssertion{{Var: varName, Assertion: a}}}
}
