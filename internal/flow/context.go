// Package flow implements the per-function flow-sensitive analysis pass:
// walking a function body's statements and expressions under a
// BlockContext that tracks each local's current type, the CNF clauses
// refining it, and the control-flow bookkeeping (has_returned,
// inside_loop, possibly-undefined locals) the seven branching constructs
// need to join correctly at merge points.
//
// The walker is built per-construct directly against the already-built
// assertion solver (truth extraction, paradox detection, per-kind
// reconciliation) and the codebase index, rather than ported from any
// single source file.
package flow

import (
	"github.com/hakana-go/hakana/internal/assertion"
	"github.com/hakana-go/hakana/internal/codebase"
	"github.com/hakana-go/hakana/internal/dataflow"
	"github.com/hakana-go/hakana/internal/diagnostics"
	"github.com/hakana-go/hakana/internal/ttype"
)

// BlockContext is the per-execution-point type environment: a flow-
// sensitive snapshot of every local's current type plus the refinement
// and control-flow state needed to join contexts correctly at branch
// points.
type BlockContext struct {
	Locals             map[string]ttype.Union
	AssignedVarIDs     map[string]int
	PossiblyUndefined  map[string]bool
	Clauses            []assertion.Clause

	// VarNodes is the most recent data-flow node id that wrote each local,
	// consulted by a later read so it can wire a VariableUseSink edge back
	// to the write that produced the value in hand.
	VarNodes map[string]string

	InsideIsset      bool
	InsideAssignment bool
	InsideLoop       bool
	InsideNegation   bool
	HasReturned      bool
	HasBroken        bool // set by a break; consumed and cleared by the nearest enclosing loop/switch
	AllowTaints      bool

	// LastDataflowNode is the most recently created data-flow node id for
	// "the value currently in hand" — expression evaluation threads this
	// so the next operation knows what to wire an edge from.
	LastDataflowNode string
}

// NewBlockContext returns an empty context, the state a function body
// analysis starts from.
func NewBlockContext() *BlockContext {
	return &BlockContext{
		Locals:            make(map[string]ttype.Union),
		AssignedVarIDs:    make(map[string]int),
		PossiblyUndefined: make(map[string]bool),
		VarNodes:          make(map[string]string),
		AllowTaints:       true,
	}
}

// Clone deep-copies everything a branch arm must not share with its
// sibling: locals, possibly-undefined markers, and clauses. Control-flow
// flags and dataflow bookkeeping also copy by value since BlockContext
// itself is always handled through a pointer.
func (c *BlockContext) Clone() *BlockContext {
	clone := &BlockContext{
		Locals:            make(map[string]ttype.Union, len(c.Locals)),
		AssignedVarIDs:    make(map[string]int, len(c.AssignedVarIDs)),
		PossiblyUndefined: make(map[string]bool, len(c.PossiblyUndefined)),
		VarNodes:          make(map[string]string, len(c.VarNodes)),
		Clauses:           append([]assertion.Clause(nil), c.Clauses...),
		InsideIsset:       c.InsideIsset,
		InsideAssignment:  c.InsideAssignment,
		InsideLoop:        c.InsideLoop,
		InsideNegation:    c.InsideNegation,
		HasReturned:       c.HasReturned,
		AllowTaints:       c.AllowTaints,
		LastDataflowNode:  c.LastDataflowNode,
	}
	for k, v := range c.Locals {
		clone.Locals[k] = v
	}
	for k, v := range c.AssignedVarIDs {
		clone.AssignedVarIDs[k] = v
	}
	for k, v := range c.PossiblyUndefined {
		clone.PossiblyUndefined[k] = v
	}
	for k, v := range c.VarNodes {
		clone.VarNodes[k] = v
	}
	return clone
}

// RemoveClausesAbout drops every clause that mentions varName: once a
// variable is reassigned, any assertion recorded about its old value no
// longer applies.
func (c *BlockContext) RemoveClausesAbout(varName string) {
	kept := c.Clauses[:0:0]
	for _, clause := range c.Clauses {
		mentions := false
		for _, p := range clause.Possibilities {
			if p.Var == varName {
				mentions = true
				break
			}
		}
		if !mentions {
			kept = append(kept, clause)
		}
	}
	c.Clauses = kept
}

// Combine joins two sibling contexts at a branch merge point: locals
// union their types (ttype.Combine), a local only present in one side
// becomes possibly-undefined, has_returned is the conjunction (both arms
// must return for the merged point to be unreachable), and clauses that
// hold on both sides survive.
func Combine(a, b *BlockContext) *BlockContext {
	out := NewBlockContext()
	out.AllowTaints = a.AllowTaints || b.AllowTaints

	names := make(map[string]bool, len(a.Locals)+len(b.Locals))
	for n := range a.Locals {
		names[n] = true
	}
	for n := range b.Locals {
		names[n] = true
	}

	for n := range names {
		at, aok := a.Locals[n]
		bt, bok := b.Locals[n]
		switch {
		case aok && bok:
			out.Locals[n] = ttype.Combine(at, bt)
		case aok:
			out.Locals[n] = at
			out.PossiblyUndefined[n] = true
		case bok:
			out.Locals[n] = bt
			out.PossiblyUndefined[n] = true
		}
	}
	for n := range a.PossiblyUndefined {
		out.PossiblyUndefined[n] = true
	}
	for n := range b.PossiblyUndefined {
		out.PossiblyUndefined[n] = true
	}
	for n, id := range a.VarNodes {
		out.VarNodes[n] = id
	}
	for n, id := range b.VarNodes {
		out.VarNodes[n] = id
	}

	out.Clauses = intersectClauses(a.Clauses, b.Clauses)
	out.HasReturned = a.HasReturned && b.HasReturned
	return out
}

func intersectClauses(a, b []assertion.Clause) []assertion.Clause {
	bKeys := make(map[string]bool, len(b))
	for _, c := range b {
		bKeys[clauseIdentity(c)] = true
	}
	var out []assertion.Clause
	for _, c := range a {
		if bKeys[clauseIdentity(c)] {
			out = append(out, c)
		}
	}
	return out
}

func clauseIdentity(c assertion.Clause) string {
	key := ""
	for _, p := range c.Possibilities {
		key += p.Var + "\x00" + p.Assertion.Key() + "\x01"
	}
	return key
}

// Widen produces the fixpoint-seed context for a loop body's first pass:
// a clone with inside_loop set, ready for the two-pass fixpoint a loop
// body is analyzed under.
func (c *BlockContext) Widen() *BlockContext {
	clone := c.Clone()
	clone.InsideLoop = true
	return clone
}

// Analyzer holds the whole-program state a function-body walk consults:
// the symbol index for callee resolution, the issue sink, and the
// per-function data-flow graph being built.
type Analyzer struct {
	Index     *codebase.Index
	Issues    *diagnostics.Set
	Graph     *dataflow.Graph
	MaxDepth  int
	File      string

	// Calling is the function or method currently being walked, set by
	// AnalyzeFunctionBody and consulted when a call/property-fetch needs to
	// record a symbol reference against the codebase index.
	Calling codebase.CallingContext
}

// NewAnalyzer returns an Analyzer ready to walk function bodies against
// idx, recording issues into issues and data-flow nodes into graph.
func NewAnalyzer(idx *codebase.Index, issues *diagnostics.Set, graph *dataflow.Graph, file string) *Analyzer {
	return &Analyzer{Index: idx, Issues: issues, Graph: graph, File: file, MaxDepth: 40}
}
