package hast

// Visitor dispatches over every concrete node kind, mirroring funxy's
// ast.Visitor. Each walker (naming, header extraction, body analysis) of
// the analysis pipeline implements a subset directly and no-ops the rest,
// the way funxy's individual passes do.
type Visitor interface {
	VisitProgram(p *Program)
	VisitFunctionLike(f *FunctionLike)
	VisitClassLike(c *ClassLike)
	VisitTypedefDecl(t *TypedefDecl)
	VisitConstDecl(c *ConstDecl)

	VisitBlockStatement(s *BlockStatement)
	VisitExpressionStatement(s *ExpressionStatement)
	VisitReturnStatement(s *ReturnStatement)
	VisitThrowStatement(s *ThrowStatement)
	VisitBreakStatement(s *BreakStatement)
	VisitContinueStatement(s *ContinueStatement)
	VisitIfStatement(s *IfStatement)
	VisitWhileStatement(s *WhileStatement)
	VisitDoWhileStatement(s *DoWhileStatement)
	VisitForStatement(s *ForStatement)
	VisitForeachStatement(s *ForeachStatement)
	VisitSwitchStatement(s *SwitchStatement)
	VisitTryStatement(s *TryStatement)
	VisitUnsetStatement(s *UnsetStatement)

	VisitVariable(e *Variable)
	VisitAssign(e *Assign)
	VisitBinaryOp(e *BinaryOp)
	VisitUnaryOp(e *UnaryOp)
	VisitTernary(e *Ternary)
	VisitNullCoalesce(e *NullCoalesce)
	VisitCall(e *Call)
	VisitMethodCall(e *MethodCall)
	VisitStaticCall(e *StaticCall)
	VisitPropertyFetch(e *PropertyFetch)
	VisitStaticPropertyFetch(e *StaticPropertyFetch)
	VisitArrayFetch(e *ArrayFetch)
	VisitArrayLiteral(e *ArrayLiteral)
	VisitNew(e *New)
	VisitInstanceOf(e *InstanceOf)
	VisitIsset(e *Isset)
	VisitCast(e *Cast)
	VisitClosureExpr(e *ClosureExpr)
	VisitLiteral(e *Literal)
	VisitClassConstFetch(e *ClassConstFetch)
}

// BaseVisitor implements Visitor with no-op bodies; embed it and override
// only the methods a given pass cares about.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(p *Program)                         {}
func (BaseVisitor) VisitFunctionLike(f *FunctionLike)               {}
func (BaseVisitor) VisitClassLike(c *ClassLike)                     {}
func (BaseVisitor) VisitTypedefDecl(t *TypedefDecl)                 {}
func (BaseVisitor) VisitConstDecl(c *ConstDecl)                     {}
func (BaseVisitor) VisitBlockStatement(s *BlockStatement)           {}
func (BaseVisitor) VisitExpressionStatement(s *ExpressionStatement) {}
func (BaseVisitor) VisitReturnStatement(s *ReturnStatement)         {}
func (BaseVisitor) VisitThrowStatement(s *ThrowStatement)           {}
func (BaseVisitor) VisitBreakStatement(s *BreakStatement)           {}
func (BaseVisitor) VisitContinueStatement(s *ContinueStatement)     {}
func (BaseVisitor) VisitIfStatement(s *IfStatement)                 {}
func (BaseVisitor) VisitWhileStatement(s *WhileStatement)           {}
func (BaseVisitor) VisitDoWhileStatement(s *DoWhileStatement)       {}
func (BaseVisitor) VisitForStatement(s *ForStatement)               {}
func (BaseVisitor) VisitForeachStatement(s *ForeachStatement)       {}
func (BaseVisitor) VisitSwitchStatement(s *SwitchStatement)         {}
func (BaseVisitor) VisitTryStatement(s *TryStatement)               {}
func (BaseVisitor) VisitUnsetStatement(s *UnsetStatement)           {}
func (BaseVisitor) VisitVariable(e *Variable)                       {}
func (BaseVisitor) VisitAssign(e *Assign)                           {}
func (BaseVisitor) VisitBinaryOp(e *BinaryOp)                       {}
func (BaseVisitor) VisitUnaryOp(e *UnaryOp)                         {}
func (BaseVisitor) VisitTernary(e *Ternary)                         {}
func (BaseVisitor) VisitNullCoalesce(e *NullCoalesce)               {}
func (BaseVisitor) VisitCall(e *Call)                               {}
func (BaseVisitor) VisitMethodCall(e *MethodCall)                   {}
func (BaseVisitor) VisitStaticCall(e *StaticCall)                   {}
func (BaseVisitor) VisitPropertyFetch(e *PropertyFetch)             {}
func (BaseVisitor) VisitStaticPropertyFetch(e *StaticPropertyFetch) {}
func (BaseVisitor) VisitArrayFetch(e *ArrayFetch)                   {}
func (BaseVisitor) VisitArrayLiteral(e *ArrayLiteral)               {}
func (BaseVisitor) VisitNew(e *New)                                 {}
func (BaseVisitor) VisitInstanceOf(e *InstanceOf)                   {}
func (BaseVisitor) VisitIsset(e *Isset)                             {}
func (BaseVisitor) VisitCast(e *Cast)                               {}
func (BaseVisitor) VisitClosureExpr(e *ClosureExpr)                 {}
func (BaseVisitor) VisitLiteral(e *Literal)                         {}
func (BaseVisitor) VisitClassConstFetch(e *ClassConstFetch)         {}
