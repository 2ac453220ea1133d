package hast

import "github.com/hakana-go/hakana/internal/ttype"

// Variable is a `$name` reference. InferredType is filled in by the flow
// analyzer as it walks the containing block; it is empty on a freshly
// parsed tree.
type Variable struct {
	base
	Name         string
	InferredType ttype.Union
}

func (e *Variable) Accept(v Visitor) { v.VisitVariable(e) }
func (e *Variable) exprNode()        {}

// AssignOp distinguishes plain `=` from the compound forms; compound
// assignment is desugared to BinaryOp(Op, Target, Value) by the parser
// before this tree is built, so Assign itself only ever carries OpAssign.
type AssignOp int

const (
	OpAssign AssignOp = iota
)

// Assign is `target = value`.
type Assign struct {
	base
	Target Expression
	Value  Expression
	ByRef  bool
}

func (e *Assign) Accept(v Visitor) { v.VisitAssign(e) }
func (e *Assign) exprNode()        {}

// BinaryOperator enumerates the operators the flow analyzer gives
// short-circuit or refinement treatment to, plus the arithmetic/comparison
// set it type-checks.
type BinaryOperator int

const (
	OpAdd BinaryOperator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpConcat
	OpEq
	OpNotEq
	OpIdentical
	OpNotIdentical
	OpLt
	OpLte
	OpGt
	OpGte
	OpSpaceship
	OpAnd // &&
	OpOr  // ||
	OpXor
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShiftLeft
	OpShiftRight
)

// BinaryOp is `left <op> right`.
type BinaryOp struct {
	base
	Op    BinaryOperator
	Left  Expression
	Right Expression
}

func (e *BinaryOp) Accept(v Visitor) { v.VisitBinaryOp(e) }
func (e *BinaryOp) exprNode()        {}

type UnaryOperator int

const (
	OpNot UnaryOperator = iota
	OpNeg
	OpPreIncrement
	OpPreDecrement
	OpPostIncrement
	OpPostDecrement
)

// UnaryOp is a prefix/postfix unary expression.
type UnaryOp struct {
	base
	Op      UnaryOperator
	Operand Expression
}

func (e *UnaryOp) Accept(v Visitor) { v.VisitUnaryOp(e) }
func (e *UnaryOp) exprNode()        {}

// Ternary is `cond ? then : else`; Then is nil for the Elvis form
// `cond ?: else`, in which case cond's own value is returned when truthy.
type Ternary struct {
	base
	Cond Expression
	Then Expression
	Else Expression
}

func (e *Ternary) Accept(v Visitor) { v.VisitTernary(e) }
func (e *Ternary) exprNode()        {}

// NullCoalesce is `left ?? right`.
type NullCoalesce struct {
	base
	Left  Expression
	Right Expression
}

func (e *NullCoalesce) Accept(v Visitor) { v.VisitNullCoalesce(e) }
func (e *NullCoalesce) exprNode()        {}

// Call is a free function call, `name(args...)`.
type Call struct {
	base
	Name         string
	Args         []Expression
	TemplateArgs []ttype.Union // explicit `<...>` type arguments, if any
}

func (e *Call) Accept(v Visitor) { v.VisitCall(e) }
func (e *Call) exprNode()        {}

// MethodCall is `target->method(args...)`.
type MethodCall struct {
	base
	Target       Expression
	Method       string
	Args         []Expression
	NullsafeArrow bool
}

func (e *MethodCall) Accept(v Visitor) { v.VisitMethodCall(e) }
func (e *MethodCall) exprNode()        {}

// StaticCall is `Class::method(args...)`. ClassName holds the class as
// written, including `static`/`parent`; there is no separate field for
// those runtime-resolved forms.
type StaticCall struct {
	base
	ClassName string
	Method    string
	Args      []Expression
}

func (e *StaticCall) Accept(v Visitor) { v.VisitStaticCall(e) }
func (e *StaticCall) exprNode()        {}

// PropertyFetch is `target->prop`.
type PropertyFetch struct {
	base
	Target        Expression
	Property      string
	NullsafeArrow bool
}

func (e *PropertyFetch) Accept(v Visitor) { v.VisitPropertyFetch(e) }
func (e *PropertyFetch) exprNode()        {}

// StaticPropertyFetch is `Class::$prop`.
type StaticPropertyFetch struct {
	base
	ClassName string
	Property  string
}

func (e *StaticPropertyFetch) Accept(v Visitor) { v.VisitStaticPropertyFetch(e) }
func (e *StaticPropertyFetch) exprNode()        {}

// ArrayFetch is `container[key]`; Key is nil for the append form `[]`
// (only valid as an assignment target).
type ArrayFetch struct {
	base
	Container Expression
	Key       Expression
}

func (e *ArrayFetch) Accept(v Visitor) { v.VisitArrayFetch(e) }
func (e *ArrayFetch) exprNode()        {}

// ArrayLiteralKind distinguishes vec/dict/keyset literal syntax.
type ArrayLiteralKind int

const (
	ArrayLiteralVec ArrayLiteralKind = iota
	ArrayLiteralDict
	ArrayLiteralKeyset
)

// ArrayEntry is one `key => value` pair; Key is nil for a vec/keyset entry.
type ArrayEntry struct {
	Key   Expression
	Value Expression
}

// ArrayLiteral is a `vec[...]`/`dict[...]`/`keyset[...]` literal.
type ArrayLiteral struct {
	base
	Kind    ArrayLiteralKind
	Entries []ArrayEntry
}

func (e *ArrayLiteral) Accept(v Visitor) { v.VisitArrayLiteral(e) }
func (e *ArrayLiteral) exprNode()        {}

// New is `new ClassName(args...)`.
type New struct {
	base
	ClassName    string
	Args         []Expression
	TemplateArgs []ttype.Union
}

func (e *New) Accept(v Visitor) { v.VisitNew(e) }
func (e *New) exprNode()        {}

// InstanceOf is `expr instanceof ClassName`.
type InstanceOf struct {
	base
	Subject   Expression
	ClassName string
}

func (e *InstanceOf) Accept(v Visitor) { v.VisitInstanceOf(e) }
func (e *InstanceOf) exprNode()        {}

// Isset is `isset(target)`.
type Isset struct {
	base
	Target Expression
}

func (e *Isset) Accept(v Visitor) { v.VisitIsset(e) }
func (e *Isset) exprNode()        {}

// CastKind enumerates the primitive casts the language supports.
type CastKind int

const (
	CastInt CastKind = iota
	CastFloat
	CastString
	CastBool
)

// Cast is `(int)expr`-style.
type Cast struct {
	base
	Kind   CastKind
	Target Expression
}

func (e *Cast) Accept(v Visitor) { v.VisitCast(e) }
func (e *Cast) exprNode()        {}

// ClosureExpr is an anonymous function or arrow-function literal; arrow
// functions desugar to a single-statement Body by the parser.
type ClosureExpr struct {
	base
	Params      []Param
	ReturnType  ttype.Union
	Effects     ttype.Effect
	UsesByRef   []string // explicit `use (&$x)` captures
	Body        *BlockStatement
}

func (e *ClosureExpr) Accept(v Visitor) { v.VisitClosureExpr(e) }
func (e *ClosureExpr) exprNode()        {}

// LiteralKind tags which primitive a Literal holds.
type LiteralKind int

const (
	LiteralKindInt LiteralKind = iota
	LiteralKindFloat
	LiteralKindString
	LiteralKindBool
	LiteralKindNull
)

// Literal is a scalar literal expression.
type Literal struct {
	base
	Kind     LiteralKind
	IntVal   int64
	FloatVal float64
	StrVal   string
	BoolVal  bool
}

func (e *Literal) Accept(v Visitor) { v.VisitLiteral(e) }
func (e *Literal) exprNode()        {}

// ClassConstFetch is `Class::CONST` or `Class::class`.
type ClassConstFetch struct {
	base
	ClassName string
	ConstName string // "class" for the ::class form
}

func (e *ClassConstFetch) Accept(v Visitor) { v.VisitClassConstFetch(e) }
func (e *ClassConstFetch) exprNode()        {}
