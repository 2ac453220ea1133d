package flow

import (
	"fmt"

	"github.com/hakana-go/hakana/internal/codebase"
	"github.com/hakana-go/hakana/internal/dataflow"
	"github.com/hakana-go/hakana/internal/diagnostics"
	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/token"
	"github.com/hakana-go/hakana/internal/ttype"
)

// superglobals are the built-in taint sources: `$_GET`, `$_POST`, etc.
// fetched by array key are each tagged with the "user-input" taint kind.
var superglobals = map[string]bool{
	"$_GET": true, "$_POST": true, "$_REQUEST": true, "$_COOKIE": true, "$_SERVER": true,
}

// sinkCalls names the free-function calls treated as taint sinks; `echo`
// and `print` desugar to a call of their own name by the parser.
var sinkCalls = map[string]bool{"echo": true, "print": true}

const userInputTaint dataflow.TaintKind = "user-input"

// evalExpr analyzes an expression under ctx, returning its inferred
// type. It mutates ctx (locals, clauses, data-flow bookkeeping) and may
// append issues to a.Issues.
func (a *Analyzer) evalExpr(ctx *BlockContext, expr hast.Expression) ttype.Union {
	if expr == nil {
		return ttype.Mixed()
	}

	switch e := expr.(type) {
	case *hast.Literal:
		return a.evalLiteral(e)
	case *hast.Variable:
		return a.evalVariable(ctx, e)
	case *hast.Assign:
		return a.evalAssign(ctx, e)
	case *hast.BinaryOp:
		return a.evalBinaryOp(ctx, e)
	case *hast.UnaryOp:
		return a.evalUnaryOp(ctx, e)
	case *hast.Ternary:
		return a.evalTernary(ctx, e)
	case *hast.NullCoalesce:
		return a.evalNullCoalesce(ctx, e)
	case *hast.ArrayFetch:
		return a.evalArrayFetch(ctx, e)
	case *hast.ArrayLiteral:
		return a.evalArrayLiteral(ctx, e)
	case *hast.PropertyFetch:
		return a.evalPropertyFetch(ctx, e)
	case *hast.Call:
		return a.evalCall(ctx, e)
	case *hast.MethodCall:
		return a.evalMethodCall(ctx, e)
	case *hast.StaticCall:
		return a.evalStaticCall(ctx, e)
	case *hast.Isset:
		a.evalExpr(ctx, e.Target)
		return ttype.Single(ttype.Primitive{Kind: ttype.PBool})
	case *hast.InstanceOf:
		a.evalExpr(ctx, e.Subject)
		return ttype.Single(ttype.Primitive{Kind: ttype.PBool})
	case *hast.New:
		return a.evalNew(ctx, e)
	case *hast.Cast:
		a.evalExpr(ctx, e.Target)
		return castResultType(e.Kind)
	case *hast.ClosureExpr:
		return ttype.Mixed()
	default:
		return ttype.Mixed()
	}
}

func (a *Analyzer) evalLiteral(lit *hast.Literal) ttype.Union {
	return literalType(lit)
}

// evalVariable implements a variable read: besides resolving the local's
// current type, it wires a VariableUseSink edge from the node that last
// wrote the variable, so an end-of-function UnusedSources pass can tell a
// read local from a write-only one.
func (a *Analyzer) evalVariable(ctx *BlockContext, v *hast.Variable) ttype.Union {
	if u, ok := ctx.Locals[v.Name]; ok {
		v.InferredType = u
		if from, ok := ctx.VarNodes[v.Name]; ok && from != "" {
			sinkID := dataflow.NodeID("$"+v.Name+"#use", v.Pos(), "")
			a.Graph.AddSink(&dataflow.Node{ID: sinkID, Kind: dataflow.NodeVariableUseSink, Label: v.Name, Pos: v.Pos()})
			a.Graph.AddEdge(from, sinkID, dataflow.Default{}, nil, nil)
			ctx.LastDataflowNode = from
		}
		return u
	}
	if superglobals[v.Name] {
		return ttype.Mixed()
	}
	a.Issues.Add(diagnostics.New(diagnostics.UndefinedVariable, v.Pos(), a.File,
		fmt.Sprintf("variable $%s is not defined in this scope", v.Name)))
	return ttype.Mixed()
}

// evalAssign implements `$x = e`: analyze e, store its type under $x,
// drop clauses mentioning $x, and create a VariableUseSource data-flow
// node wired from e's value node.
func (a *Analyzer) evalAssign(ctx *BlockContext, assign *hast.Assign) ttype.Union {
	valueType := a.evalExpr(ctx, assign.Value)
	fromNode := ctx.LastDataflowNode

	switch target := assign.Target.(type) {
	case *hast.Variable:
		ctx.Locals[target.Name] = valueType
		ctx.AssignedVarIDs[target.Name]++
		delete(ctx.PossiblyUndefined, target.Name)
		ctx.RemoveClausesAbout(target.Name)

		nodeID := dataflow.NodeID("$"+target.Name, target.Pos(), "")
		a.Graph.AddSource(&dataflow.Node{ID: nodeID, Kind: dataflow.NodeVariableUseSource, Label: target.Name, Pos: target.Pos()})
		if fromNode != "" {
			a.Graph.AddEdge(fromNode, nodeID, dataflow.Default{}, nil, nil)
		}
		ctx.LastDataflowNode = nodeID
		ctx.VarNodes[target.Name] = nodeID

	case *hast.ArrayFetch:
		a.evalArrayAssignTarget(ctx, target, valueType, fromNode)

	case *hast.PropertyFetch:
		a.evalExpr(ctx, target.Target)

	default:
		a.evalExpr(ctx, target)
	}

	return valueType
}

func (a *Analyzer) evalArrayAssignTarget(ctx *BlockContext, target *hast.ArrayFetch, valueType ttype.Union, fromNode string) {
	a.evalExpr(ctx, target.Container)

	key, known := literalArrayKey(target.Key)
	nodeID := dataflow.NodeID("array-element", target.Pos(), key)
	a.Graph.AddNode(&dataflow.Node{ID: nodeID, Kind: dataflow.NodeVertex, Pos: target.Pos()})

	var path dataflow.PathKind
	if known {
		path = dataflow.ExpressionAssignment{Fetch: dataflow.ArrayValue, Key: key}
	} else {
		path = dataflow.UnknownExpressionAssignment{Fetch: dataflow.ArrayValue}
	}
	if fromNode != "" {
		a.Graph.AddEdge(fromNode, nodeID, path, nil, nil)
	}
	ctx.LastDataflowNode = nodeID
}

func (a *Analyzer) evalBinaryOp(ctx *BlockContext, bin *hast.BinaryOp) ttype.Union {
	switch bin.Op {
	case hast.OpAnd:
		a.evalExpr(ctx, bin.Left)
		formula := scrapeAssertions(bin.Left, false)
		a.applyTruths(ctx, formula, bin.Left.Pos())
		a.evalExpr(ctx, bin.Right)
		return ttype.Single(ttype.Primitive{Kind: ttype.PBool})
	case hast.OpOr:
		a.evalExpr(ctx, bin.Left)
		a.evalExpr(ctx, bin.Right)
		return ttype.Single(ttype.Primitive{Kind: ttype.PBool})
	case hast.OpEq, hast.OpNotEq, hast.OpIdentical, hast.OpNotIdentical,
		hast.OpLt, hast.OpLte, hast.OpGt, hast.OpGte, hast.OpSpaceship:
		a.evalExpr(ctx, bin.Left)
		a.evalExpr(ctx, bin.Right)
		return ttype.Single(ttype.Primitive{Kind: ttype.PBool})
	case hast.OpConcat:
		a.evalExpr(ctx, bin.Left)
		a.evalExpr(ctx, bin.Right)
		return ttype.Single(ttype.Primitive{Kind: ttype.PString})
	default:
		a.evalExpr(ctx, bin.Left)
		a.evalExpr(ctx, bin.Right)
		return ttype.Single(ttype.Primitive{Kind: ttype.PNum})
	}
}

func (a *Analyzer) evalUnaryOp(ctx *BlockContext, u *hast.UnaryOp) ttype.Union {
	if u.Op == hast.OpNot {
		a.evalExpr(ctx, u.Operand)
		return ttype.Single(ttype.Primitive{Kind: ttype.PBool})
	}
	return a.evalExpr(ctx, u.Operand)
}

// evalTernary joins both arms the same way an if/else statement does.
func (a *Analyzer) evalTernary(ctx *BlockContext, t *hast.Ternary) ttype.Union {
	a.evalExpr(ctx, t.Cond)
	thenTruths := scrapeAssertions(t.Cond, false)
	elseTruths := scrapeAssertions(t.Cond, true)

	thenCtx := ctx.Clone()
	a.applyTruths(thenCtx, thenTruths, t.Pos())
	var thenType ttype.Union
	if t.Then != nil {
		thenType = a.evalExpr(thenCtx, t.Then)
	} else {
		thenType = a.evalExpr(ctx, t.Cond).RemoveFalsy()
	}

	elseCtx := ctx.Clone()
	a.applyTruths(elseCtx, elseTruths, t.Pos())
	elseType := a.evalExpr(elseCtx, t.Else)

	merged := Combine(thenCtx, elseCtx)
	ctx.Locals = merged.Locals
	ctx.PossiblyUndefined = merged.PossiblyUndefined

	return ttype.Combine(thenType, elseType)
}

// evalNullCoalesce is `left ?? right`: left's non-null arm combines with
// right, mirroring the if/else join but without re-evaluating a shared
// condition expression twice.
func (a *Analyzer) evalNullCoalesce(ctx *BlockContext, n *hast.NullCoalesce) ttype.Union {
	leftType := a.evalExpr(ctx, n.Left)
	rightType := a.evalExpr(ctx, n.Right)
	nonNullLeft := leftType.Subtract(func(atom ttype.Atom) bool {
		p, ok := atom.(ttype.Primitive)
		return ok && p.Kind == ttype.PNull
	})
	return ttype.Combine(nonNullLeft, rightType)
}

// evalArrayFetch implements `container[key]`, wiring an ExpressionFetch
// (or UnknownExpressionFetch for a non-literal key) edge from the
// container's current data-flow node.
func (a *Analyzer) evalArrayFetch(ctx *BlockContext, fetch *hast.ArrayFetch) ttype.Union {
	if v, ok := fetch.Container.(*hast.Variable); ok && superglobals[v.Name] {
		return a.evalSuperglobalFetch(ctx, fetch, v)
	}

	containerType := a.evalExpr(ctx, fetch.Container)
	fromNode := ctx.LastDataflowNode

	key, known := literalArrayKey(fetch.Key)
	nodeID := dataflow.NodeID("array-element", fetch.Pos(), key)
	a.Graph.AddNode(&dataflow.Node{ID: nodeID, Kind: dataflow.NodeVertex, Pos: fetch.Pos()})

	var path dataflow.PathKind
	if known {
		path = dataflow.ExpressionFetch{Fetch: dataflow.ArrayValue, Key: key}
	} else {
		path = dataflow.UnknownExpressionFetch{Fetch: dataflow.ArrayValue}
	}
	if fromNode != "" {
		a.Graph.AddEdge(fromNode, nodeID, path, nil, nil)
	}
	ctx.LastDataflowNode = nodeID

	if known {
		if item, ok := knownDictItem(containerType, key); ok {
			return item
		}
	}
	return ttype.Mixed()
}

// evalSuperglobalFetch is the taint-source half of a superglobal read:
// `$_GET['taint']` creates a TaintSource node tagged user-input.
func (a *Analyzer) evalSuperglobalFetch(ctx *BlockContext, fetch *hast.ArrayFetch, v *hast.Variable) ttype.Union {
	a.evalExpr(ctx, fetch.Key)
	key, _ := literalArrayKey(fetch.Key)
	nodeID := dataflow.NodeID(v.Name, fetch.Pos(), key)
	node := &dataflow.Node{
		ID: nodeID, Kind: dataflow.NodeTaintSource, Label: v.Name, Pos: fetch.Pos(),
		Taints: map[dataflow.TaintKind]bool{userInputTaint: true},
	}
	a.Graph.AddSource(node)
	ctx.LastDataflowNode = nodeID
	return ttype.Mixed()
}

func (a *Analyzer) evalArrayLiteral(ctx *BlockContext, lit *hast.ArrayLiteral) ttype.Union {
	known := make(map[ttype.DictKey]ttype.KnownDictItem)
	var itemUnion ttype.Union
	for i, entry := range lit.Entries {
		valType := a.evalExpr(ctx, entry.Value)
		itemUnion = ttype.Combine(itemUnion, valType)
		if entry.Key != nil {
			a.evalExpr(ctx, entry.Key)
			if keyLit, ok := entry.Key.(*hast.Literal); ok && keyLit.Kind == hast.LiteralKindString {
				known[ttype.DictKey{SValue: keyLit.StrVal}] = ttype.KnownDictItem{Value: valType}
			}
		} else if lit.Kind == hast.ArrayLiteralVec || lit.Kind == hast.ArrayLiteralKeyset {
			known[ttype.DictKey{IsInt: true, IValue: int64(i)}] = ttype.KnownDictItem{Value: valType}
		}
	}
	switch lit.Kind {
	case hast.ArrayLiteralKeyset:
		return ttype.Single(ttype.Keyset{Item: itemUnion})
	case hast.ArrayLiteralVec:
		return ttype.Single(ttype.Vec{Item: itemUnion})
	default:
		return ttype.Single(ttype.Dict{Known: known, Value: itemUnion})
	}
}

func (a *Analyzer) evalPropertyFetch(ctx *BlockContext, fetch *hast.PropertyFetch) ttype.Union {
	targetType := a.evalExpr(ctx, fetch.Target)
	fromNode := ctx.LastDataflowNode
	nodeID := dataflow.NodeID("property:"+fetch.Property, fetch.Pos(), "")
	a.Graph.AddNode(&dataflow.Node{ID: nodeID, Kind: dataflow.NodeVertex, Pos: fetch.Pos()})
	if fromNode != "" {
		a.Graph.AddEdge(fromNode, nodeID, dataflow.ExpressionFetch{Fetch: dataflow.Property, Key: fetch.Property}, nil, nil)
	}
	ctx.LastDataflowNode = nodeID

	for _, atom := range targetType.Atoms {
		obj, ok := atom.(ttype.NamedObject)
		if !ok {
			continue
		}
		if ci := a.Index.Classes[obj.Name]; ci != nil {
			if prop, ok := ci.Properties[fetch.Property]; ok {
				return prop.Type
			}
		}
	}
	return ttype.Mixed()
}

// evalCall resolves a free function call against the symbol index,
// checking each argument's type against the declared parameter type and
// wiring a method-return data-flow node (specialized by call position
// when the callee is marked specialize_call).
func (a *Analyzer) evalCall(ctx *BlockContext, call *hast.Call) ttype.Union {
	argTypes := make([]ttype.Union, len(call.Args))
	argNodes := make([]string, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = a.evalExpr(ctx, arg)
		argNodes[i] = ctx.LastDataflowNode
	}

	if sinkCalls[call.Name] {
		a.wireSinkCall(call, argNodes)
	}

	fn := a.Index.Functions[call.Name]
	if fn == nil {
		ctx.LastDataflowNode = ""
		return ttype.Mixed()
	}
	a.Index.References().AddReferenceToSymbol(a.Calling, call.Name)

	a.checkArgs(call.Args, argTypes, fn.Params, call.Name)

	nodeID := a.wireCallReturn(call.Pos(), call.Name, fn, argNodes)
	ctx.LastDataflowNode = nodeID
	if len(fn.Decl.TaintSourceTags) > 0 {
		source := &dataflow.Node{ID: nodeID, Kind: dataflow.NodeTaintSource, Label: call.Name, Pos: call.Pos(), Taints: map[dataflow.TaintKind]bool{}}
		for _, tag := range fn.Decl.TaintSourceTags {
			source.Taints[dataflow.TaintKind(tag)] = true
		}
		a.Graph.AddSource(source)
	}
	return fn.ReturnType
}

func (a *Analyzer) wireSinkCall(call *hast.Call, argNodes []string) {
	for i, from := range argNodes {
		if from == "" {
			continue
		}
		sinkID := dataflow.NodeID(call.Name, call.Pos(), fmt.Sprintf("arg%d", i))
		node := &dataflow.Node{
			ID: sinkID, Kind: dataflow.NodeTaintSink, Label: call.Name, Pos: call.Pos(),
			Taints: map[dataflow.TaintKind]bool{userInputTaint: true},
		}
		a.Graph.AddSink(node)
		a.Graph.AddEdge(from, sinkID, dataflow.Default{}, nil, nil)
	}
}

// wireCallReturn creates the method-return data-flow node for a call to
// fn at pos, specialized by call-site position when fn is marked
// specialize_call, and wires every non-empty argument node to it.
func (a *Analyzer) wireCallReturn(pos token.Position, name string, fn *codebase.FunctionInfo, argNodes []string) string {
	specialization := ""
	if fn.Decl != nil && fn.Decl.SpecializeCall {
		specialization = pos.String()
	}
	nodeID := dataflow.NodeID(name+"#return", pos, specialization)
	a.Graph.AddNode(&dataflow.Node{ID: nodeID, Kind: dataflow.NodeVertex, Label: name, Pos: pos})
	for _, from := range argNodes {
		if from == "" {
			continue
		}
		a.Graph.AddEdge(from, nodeID, dataflow.Default{}, nil, nil)
	}
	return nodeID
}

func (a *Analyzer) evalMethodCall(ctx *BlockContext, call *hast.MethodCall) ttype.Union {
	targetType := a.evalExpr(ctx, call.Target)
	for _, arg := range call.Args {
		a.evalExpr(ctx, arg)
	}
	for _, atom := range targetType.Atoms {
		obj, ok := atom.(ttype.NamedObject)
		if !ok {
			continue
		}
		ci := a.Index.Classes[obj.Name]
		if ci == nil {
			continue
		}
		methodID, ok := ci.DeclaringMethodID[call.Method]
		if !ok {
			continue
		}
		if declClass, methodName, ok := splitMethodID(methodID); ok {
			a.Index.References().AddReferenceToClassMember(a.Calling, codebase.Member{Class: declClass, Member: methodName})
			if declCI := a.Index.Classes[declClass]; declCI != nil {
				if fn := declCI.Methods[methodName]; fn != nil {
					return fn.ReturnType
				}
			}
		}
	}
	return ttype.Mixed()
}

func (a *Analyzer) evalStaticCall(ctx *BlockContext, call *hast.StaticCall) ttype.Union {
	for _, arg := range call.Args {
		a.evalExpr(ctx, arg)
	}
	if ci := a.Index.Classes[call.ClassName]; ci != nil {
		a.Index.References().AddReferenceToClassMember(a.Calling, codebase.Member{Class: call.ClassName, Member: call.Method})
		if fn := ci.Methods[call.Method]; fn != nil {
			return fn.ReturnType
		}
	}
	return ttype.Mixed()
}

func (a *Analyzer) evalNew(ctx *BlockContext, n *hast.New) ttype.Union {
	for _, arg := range n.Args {
		a.evalExpr(ctx, arg)
	}
	a.Index.References().AddReferenceToSymbol(a.Calling, n.ClassName)
	return ttype.Single(ttype.NamedObject{Name: n.ClassName})
}

// checkArgs raises InvalidArgument for every positional argument whose
// inferred type is not contained by its parameter's declared type.
func (a *Analyzer) checkArgs(args []hast.Expression, argTypes []ttype.Union, params []hast.Param, calleeName string) {
	for i, argType := range argTypes {
		if i >= len(params) {
			return // variadic tail; not checked positionally
		}
		ok, _ := ttype.IsContainedBy(argType, params[i].Type, ttype.Options{Classes: a.Index.ClassInfoView()})
		if !ok {
			a.Issues.Add(diagnostics.New(diagnostics.InvalidArgument, args[i].Pos(), a.File,
				fmt.Sprintf("argument %d to %s expects %s, got %s", i+1, calleeName, params[i].Type.String(), argType.String())))
		}
	}
}

func splitMethodID(id string) (class, method string, ok bool) {
	for i := 0; i+1 < len(id); i++ {
		if id[i] == ':' && id[i+1] == ':' {
			return id[:i], id[i+2:], true
		}
	}
	return "", "", false
}

func literalArrayKey(key hast.Expression) (string, bool) {
	lit, ok := key.(*hast.Literal)
	if !ok {
		return "", false
	}
	switch lit.Kind {
	case hast.LiteralKindString:
		return lit.StrVal, true
	case hast.LiteralKindInt:
		return fmt.Sprintf("%d", lit.IntVal), true
	default:
		return "", false
	}
}

func knownDictItem(u ttype.Union, key string) (ttype.Union, bool) {
	for _, atom := range u.Atoms {
		d, ok := atom.(ttype.Dict)
		if !ok {
			continue
		}
		for k, item := range d.Known {
			if !k.IsInt && k.SValue == key {
				return item.Value, true
			}
		}
	}
	return ttype.Union{}, false
}

func castResultType(kind hast.CastKind) ttype.Union {
	switch kind {
	case hast.CastInt:
		return ttype.Single(ttype.Primitive{Kind: ttype.PInt})
	case hast.CastFloat:
		return ttype.Single(ttype.Primitive{Kind: ttype.PFloat})
	case hast.CastString:
		return ttype.Single(ttype.Primitive{Kind: ttype.PString})
	case hast.CastBool:
		return ttype.Single(ttype.Primitive{Kind: ttype.PBool})
	default:
		return ttype.Mixed()
	}
}
