// Package dataflow implements the whole-program data-flow graph: keyed
// nodes, path-kind edges, and the breadth-first traversal that finds unused
// variables (function-body mode) and completed taint paths (whole-program
// mode).
//
// The graph and traversal are built directly against a labeled DAG of
// nodes with forward_edges keyed by node id, plus should_ignore_fetch
// structural tainting over each edge's path kind.
package dataflow

import (
	"fmt"

	"github.com/hakana-go/hakana/internal/token"
)

// NodeKind tags what a Node represents.
type NodeKind int

const (
	NodeVertex NodeKind = iota
	NodeVariableUseSource
	NodeVariableUseSink
	NodeTaintSource
	NodeTaintSink
)

// TaintKind names a category of tainted data (user input, SQL, HTML, ...).
type TaintKind string

// Node is one vertex in the graph.
type Node struct {
	ID     string
	Kind   NodeKind
	Label  string
	Pos    token.Position
	Taints map[TaintKind]bool // populated on TaintSource/TaintSink nodes
}

// FetchKind distinguishes what part of a compound expression a path edge
// traverses.
type FetchKind int

const (
	ArrayKey FetchKind = iota
	ArrayValue
	Property
)

// PathKind tags how an edge's source value flows into its destination.
type PathKind interface {
	pathKind()
}

// Default is a plain, unconditional flow (e.g. straight-line assignment).
type Default struct{}

// ExpressionAssignment is assigning into a specialized slot — `$a[key] = ...`.
type ExpressionAssignment struct {
	Fetch FetchKind
	Key   string
}

// ExpressionFetch is reading from a specialized slot — `$a[key]`.
type ExpressionFetch struct {
	Fetch FetchKind
	Key   string
}

// UnknownExpressionAssignment is an assignment through a non-literal key;
// it cannot be structurally narrowed by should_ignore_fetch.
type UnknownExpressionAssignment struct{ Fetch FetchKind }

// UnknownExpressionFetch is a fetch through a non-literal key.
type UnknownExpressionFetch struct{ Fetch FetchKind }

// RemoveDictKey models `unset($a[key])` clearing a specialized slot.
type RemoveDictKey struct{ Key string }

func (Default) pathKind()                      {}
func (ExpressionAssignment) pathKind()          {}
func (ExpressionFetch) pathKind()               {}
func (UnknownExpressionAssignment) pathKind()   {}
func (UnknownExpressionFetch) pathKind()        {}
func (RemoveDictKey) pathKind()                 {}

// Edge is one forward_edges entry: a destination plus the path kind and any
// taint-kind changes that apply when data flows along it.
type Edge struct {
	To            string
	Path          PathKind
	AddedTaints   []TaintKind
	RemovedTaints []TaintKind
}

// Graph is the per-function (torn down at function end) or whole-program
// (merged across every function, kept for the analysis cycle) data-flow
// graph.
type Graph struct {
	Nodes        map[string]*Node
	Sources      map[string]*Node
	Sinks        map[string]*Node
	ForwardEdges map[string][]Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		Nodes:        make(map[string]*Node),
		Sources:      make(map[string]*Node),
		Sinks:        make(map[string]*Node),
		ForwardEdges: make(map[string][]Edge),
	}
}

// NodeID combines a label, position, and optional specialization key
// into the node's identity.
func NodeID(label string, pos token.Position, specialization string) string {
	if specialization == "" {
		return fmt.Sprintf("%s@%s", label, pos.String())
	}
	return fmt.Sprintf("%s@%s#%s", label, pos.String(), specialization)
}

// AddNode registers n, overwriting any existing node with the same ID.
func (g *Graph) AddNode(n *Node) { g.Nodes[n.ID] = n }

// AddSource registers n as both a graph node and a taint/unused-var source.
func (g *Graph) AddSource(n *Node) {
	g.AddNode(n)
	g.Sources[n.ID] = n
}

// AddSink registers n as both a graph node and a taint/unused-var sink.
func (g *Graph) AddSink(n *Node) {
	g.AddNode(n)
	g.Sinks[n.ID] = n
}

// AddEdge records a forward_edges entry from "from" to "to".
func (g *Graph) AddEdge(from, to string, path PathKind, addedTaints, removedTaints []TaintKind) {
	g.ForwardEdges[from] = append(g.ForwardEdges[from], Edge{
		To:            to,
		Path:          path,
		AddedTaints:   addedTaints,
		RemovedTaints: removedTaints,
	})
}

// Merge folds other into g — the whole-program-mode merge step, run once
// per analysis cycle after every file's function-local graph has been
// built.
func (g *Graph) Merge(other *Graph) {
	for id, n := range other.Nodes {
		g.Nodes[id] = n
	}
	for id, n := range other.Sources {
		g.Sources[id] = n
	}
	for id, n := range other.Sinks {
		g.Sinks[id] = n
	}
	for id, edges := range other.ForwardEdges {
		g.ForwardEdges[id] = append(g.ForwardEdges[id], edges...)
	}
}
