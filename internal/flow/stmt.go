package flow

import (
	"fmt"

	"github.com/hakana-go/hakana/internal/assertion"
	"github.com/hakana-go/hakana/internal/codebase"
	"github.com/hakana-go/hakana/internal/dataflow"
	"github.com/hakana-go/hakana/internal/diagnostics"
	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/token"
	"github.com/hakana-go/hakana/internal/ttype"
)

// AnalyzeFunctionBody walks fn's body from an empty context seeded with
// its parameters and returns the context at the end of the walk (callers
// that need it, e.g. unused-parameter detection, inspect the returned
// context's locals and possibly-undefined set). calling identifies fn
// itself in the codebase's reverse-reference map, so that a call made
// from within this body can be recorded against the right referencing
// symbol.
func (a *Analyzer) AnalyzeFunctionBody(fn *hast.FunctionLike, calling codebase.CallingContext) *BlockContext {
	a.Calling = calling
	ctx := NewBlockContext()
	for _, p := range fn.Params {
		ctx.Locals[p.Name] = p.Type
		nodeID := dataflow.NodeID("$"+p.Name, p.Pos, "")
		a.Graph.AddSource(&dataflow.Node{ID: nodeID, Kind: dataflow.NodeVariableUseSource, Label: p.Name, Pos: p.Pos})
		ctx.VarNodes[p.Name] = nodeID
	}
	if fn.Body != nil {
		a.analyzeBlock(ctx, fn.Body)
	}
	return ctx
}

// analyzeBlock walks every statement in order, short-circuiting once
// has_returned becomes true (dead statements after a return/throw are
// not analyzed further in this context, matching collect-and-continue
// semantics applied at the statement-sequence level).
func (a *Analyzer) analyzeBlock(ctx *BlockContext, block *hast.BlockStatement) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		if ctx.HasReturned || ctx.HasBroken {
			break
		}
		a.analyzeStmt(ctx, stmt)
	}
}

func (a *Analyzer) analyzeStmt(ctx *BlockContext, stmt hast.Statement) {
	switch s := stmt.(type) {
	case *hast.BlockStatement:
		a.analyzeBlock(ctx, s)
	case *hast.ExpressionStatement:
		a.evalExpr(ctx, s.Expr)
	case *hast.ReturnStatement:
		if s.Value != nil {
			a.evalExpr(ctx, s.Value)
		}
		ctx.HasReturned = true
	case *hast.ThrowStatement:
		a.evalExpr(ctx, s.Value)
		ctx.HasReturned = true
	case *hast.BreakStatement:
		ctx.HasBroken = true
	case *hast.ContinueStatement:
		// the two-pass fixpoint already accounts for early re-entry; no
		// per-statement bookkeeping needed here.
	case *hast.IfStatement:
		a.analyzeIf(ctx, s)
	case *hast.WhileStatement:
		a.analyzeWhile(ctx, s)
	case *hast.DoWhileStatement:
		a.analyzeDoWhile(ctx, s)
	case *hast.ForStatement:
		a.analyzeFor(ctx, s)
	case *hast.ForeachStatement:
		a.analyzeForeach(ctx, s)
	case *hast.SwitchStatement:
		a.analyzeSwitch(ctx, s)
	case *hast.TryStatement:
		a.analyzeTry(ctx, s)
	case *hast.UnsetStatement:
		a.analyzeUnset(ctx, s)
	}
}

// applyTruths reconciles every unconditional fact truths holds against
// ctx.Locals, emitting ParadoxicalCondition/Impossible* issues and
// falling back to mixed on an impossible refinement so analysis can
// keep going past the contradiction rather than abort.
func (a *Analyzer) applyTruths(ctx *BlockContext, f assertion.Formula, pos token.Position) {
	truths := assertion.GetTruthsFromFormula(f)
	for varName, varTruths := range truths {
		if _, _, ok := assertion.FindParadox(varTruths); ok {
			a.Issues.Add(diagnostics.New(diagnostics.ParadoxicalCondition, pos, a.File,
				fmt.Sprintf("$%s cannot satisfy both assertions at once", varName)))
		}
		oldType, known := ctx.Locals[varName]
		if !known {
			continue
		}
		for _, assertionFact := range varTruths {
			outcome := assertion.Reconcile(assertionFact, oldType, a.Index.ClassInfoView())
			if outcome.Impossible {
				a.Issues.Add(diagnostics.New(diagnostics.ImpossibleTruthinessCheck, pos, a.File,
					fmt.Sprintf("$%s can never satisfy this condition", varName)))
				oldType = ttype.Mixed()
				continue
			}
			if outcome.Redundant {
				a.Issues.Add(diagnostics.New(diagnostics.RedundantTruthinessCheck, pos, a.File,
					fmt.Sprintf("$%s already satisfies this condition", varName)))
			}
			oldType = outcome.Type
		}
		ctx.Locals[varName] = oldType
	}
	for _, clause := range f {
		ctx.Clauses = append(ctx.Clauses, clause)
	}
}

// analyzeIf handles if/else: clone into then/else arms, apply each arm's
// assertion formula, walk both bodies, and join at the end via Combine.
// An elseif chain arrives as a nested IfStatement in Else and is walked
// the same way recursively.
func (a *Analyzer) analyzeIf(ctx *BlockContext, stmt *hast.IfStatement) {
	a.evalExpr(ctx, stmt.Cond)
	thenTruths := scrapeAssertions(stmt.Cond, false)
	elseTruths := scrapeAssertions(stmt.Cond, true)

	thenCtx := ctx.Clone()
	a.applyTruths(thenCtx, thenTruths, stmt.Pos())
	a.analyzeBlock(thenCtx, stmt.Then)

	elseCtx := ctx.Clone()
	a.applyTruths(elseCtx, elseTruths, stmt.Pos())
	switch elseStmt := stmt.Else.(type) {
	case *hast.BlockStatement:
		a.analyzeBlock(elseCtx, elseStmt)
	case *hast.IfStatement:
		a.analyzeIf(elseCtx, elseStmt)
	}

	merged := Combine(thenCtx, elseCtx)
	ctx.Locals = merged.Locals
	ctx.PossiblyUndefined = merged.PossiblyUndefined
	ctx.Clauses = merged.Clauses
	ctx.HasReturned = merged.HasReturned
}

// analyzeWhile handles while loops: widen into the body with inside_loop
// set, analyze twice to reach a fixpoint, and join the pre-loop context
// with the post-body context so that a zero-iteration run is accounted
// for.
func (a *Analyzer) analyzeWhile(ctx *BlockContext, stmt *hast.WhileStatement) {
	loopCtx := ctx.Widen()
	a.evalExpr(loopCtx, stmt.Cond)
	truths := scrapeAssertions(stmt.Cond, false)
	a.applyTruths(loopCtx, truths, stmt.Pos())
	a.analyzeBlock(loopCtx, stmt.Body)

	// second fixpoint pass
	a.evalExpr(loopCtx, stmt.Cond)
	a.analyzeBlock(loopCtx, stmt.Body)

	merged := Combine(ctx, loopCtx)
	ctx.Locals = merged.Locals
	ctx.PossiblyUndefined = merged.PossiblyUndefined
}

// analyzeDoWhile runs the body unconditionally once (unlike while, a
// do/while body always executes at least once) before the widened
// fixpoint pass.
func (a *Analyzer) analyzeDoWhile(ctx *BlockContext, stmt *hast.DoWhileStatement) {
	loopCtx := ctx.Widen()
	a.analyzeBlock(loopCtx, stmt.Body)
	a.evalExpr(loopCtx, stmt.Cond)
	a.analyzeBlock(loopCtx, stmt.Body)

	ctx.Locals = loopCtx.Locals
	ctx.PossiblyUndefined = loopCtx.PossiblyUndefined
	ctx.HasReturned = loopCtx.HasReturned
}

func (a *Analyzer) analyzeFor(ctx *BlockContext, stmt *hast.ForStatement) {
	for _, init := range stmt.Init {
		a.evalExpr(ctx, init)
	}
	loopCtx := ctx.Widen()
	if stmt.Cond != nil {
		a.evalExpr(loopCtx, stmt.Cond)
	}
	a.analyzeBlock(loopCtx, stmt.Body)
	for _, step := range stmt.Step {
		a.evalExpr(loopCtx, step)
	}
	if stmt.Cond != nil {
		a.evalExpr(loopCtx, stmt.Cond)
	}
	a.analyzeBlock(loopCtx, stmt.Body)

	merged := Combine(ctx, loopCtx)
	ctx.Locals = merged.Locals
	ctx.PossiblyUndefined = merged.PossiblyUndefined
}

// analyzeForeach binds KeyVar/ValueVar from the collection's item type
// (vec/dict's Item/Value atoms, mixed otherwise) before widening into the
// body.
func (a *Analyzer) analyzeForeach(ctx *BlockContext, stmt *hast.ForeachStatement) {
	collType := a.evalExpr(ctx, stmt.Collection)
	loopCtx := ctx.Widen()

	valueType := foreachItemType(collType)
	if stmt.ValueVar != nil {
		loopCtx.Locals[stmt.ValueVar.Name] = valueType
	}
	if stmt.KeyVar != nil {
		loopCtx.Locals[stmt.KeyVar.Name] = ttype.Single(ttype.Primitive{Kind: ttype.PArraykey})
	}

	a.analyzeBlock(loopCtx, stmt.Body)
	a.analyzeBlock(loopCtx, stmt.Body)

	merged := Combine(ctx, loopCtx)
	ctx.Locals = merged.Locals
	ctx.PossiblyUndefined = merged.PossiblyUndefined
}

func foreachItemType(collType ttype.Union) ttype.Union {
	var out ttype.Union
	for _, atom := range collType.Atoms {
		switch v := atom.(type) {
		case ttype.Vec:
			out = ttype.Combine(out, v.Item)
		case ttype.Dict:
			out = ttype.Combine(out, v.Value)
		case ttype.Keyset:
			out = ttype.Combine(out, v.Item)
		}
	}
	if out.IsNothing() {
		return ttype.Mixed()
	}
	return out
}

// analyzeSwitch coalesces fall-through: each case's statements run under
// the accumulated context from every case above it that did not break or
// return, a `break` stops the fall-through chain, and the merge at the
// end only includes arms that did not return — a default case is
// required to treat the switch as exhaustive for has_returned purposes.
func (a *Analyzer) analyzeSwitch(ctx *BlockContext, stmt *hast.SwitchStatement) {
	a.evalExpr(ctx, stmt.Subject)

	var armContexts []*BlockContext
	hasDefault := false
	fallthroughCtx := ctx.Clone()

	for _, c := range stmt.Cases {
		caseCtx := fallthroughCtx.Clone()
		if c.Expr == nil {
			hasDefault = true
		} else {
			a.evalExpr(caseCtx, c.Expr)
		}
		for _, s := range c.Statements {
			if caseCtx.HasReturned || caseCtx.HasBroken {
				break
			}
			a.analyzeStmt(caseCtx, s)
		}
		if !caseCtx.HasReturned {
			armContexts = append(armContexts, caseCtx)
		}
		if caseCtx.HasBroken {
			caseCtx.HasBroken = false
			fallthroughCtx = caseCtx
			break
		}
		fallthroughCtx = caseCtx
	}

	if len(armContexts) == 0 {
		if hasDefault {
			ctx.HasReturned = true
		}
		return
	}
	merged := armContexts[0]
	for _, c := range armContexts[1:] {
		merged = Combine(merged, c)
	}
	ctx.Locals = merged.Locals
	ctx.PossiblyUndefined = merged.PossiblyUndefined
}

// analyzeTry handles try/catch/finally: the body's locals become
// possibly-undefined in every catch arm (an exception may have
// interrupted the try body at any point), each catch binds its
// exception variable to the declared type, and the merged context has
// returned only when the body and every catch arm all return.
func (a *Analyzer) analyzeTry(ctx *BlockContext, stmt *hast.TryStatement) {
	tryCtx := ctx.Clone()
	a.analyzeBlock(tryCtx, stmt.Body)
	bodyReturned := tryCtx.HasReturned

	preTryLocals := ctx.Locals

	var catchContexts []*BlockContext
	allCatchesLeave := len(stmt.Catches) > 0
	for _, catch := range stmt.Catches {
		catchCtx := ctx.Clone()
		for name := range tryCtx.Locals {
			if _, existed := preTryLocals[name]; !existed {
				catchCtx.PossiblyUndefined[name] = true
			}
		}
		if catch.Var != nil && len(catch.Types) > 0 {
			catchCtx.Locals[catch.Var.Name] = ttype.Single(ttype.NamedObject{Name: catch.Types[0]})
		}
		a.analyzeBlock(catchCtx, catch.Body)
		if !catchCtx.HasReturned {
			allCatchesLeave = false
		}
		catchContexts = append(catchContexts, catchCtx)
	}

	merged := tryCtx
	for _, c := range catchContexts {
		merged = Combine(merged, c)
	}
	merged.HasReturned = bodyReturned && allCatchesLeave

	if stmt.Finally != nil {
		a.analyzeBlock(merged, stmt.Finally)
	}

	ctx.Locals = merged.Locals
	ctx.PossiblyUndefined = merged.PossiblyUndefined
	ctx.HasReturned = merged.HasReturned
}

func removeDictKeyPath(key string) dataflow.PathKind {
	return dataflow.RemoveDictKey{Key: key}
}

func (a *Analyzer) analyzeUnset(ctx *BlockContext, stmt *hast.UnsetStatement) {
	for _, target := range stmt.Targets {
		switch t := target.(type) {
		case *hast.Variable:
			delete(ctx.Locals, t.Name)
			ctx.RemoveClausesAbout(t.Name)
		case *hast.ArrayFetch:
			a.evalExpr(ctx, t.Container)
			if key, ok := literalArrayKey(t.Key); ok {
				fromNode := ctx.LastDataflowNode
				nodeID := ctx.LastDataflowNode + "#unset"
				if fromNode != "" {
					a.Graph.AddEdge(fromNode, nodeID, removeDictKeyPath(key), nil, nil)
				}
			}
		}
	}
}
