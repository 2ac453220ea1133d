package dataflow

// DefaultMaxDepth is the traversal depth bound used when configuration
// doesn't override it (security_config.max_depth in hakana.yaml).
const DefaultMaxDepth = 40

// frontier is one BFS queue entry: the node reached, its depth, the
// path kinds taken to reach it (oldest first), and the accumulated
// taint-kind deltas.
type frontier struct {
	nodeID  string
	depth   int
	history []PathKind
	added   map[TaintKind]bool
	removed map[TaintKind]bool
}

// Completion is one taint path that reached a sink whose taint kinds
// intersect the source's, after applying the path's added/removed taint
// mods.
type Completion struct {
	SourceID string
	SinkID   string
	Taints   []TaintKind
}

// Traverse runs a breadth-first search from every TaintSource node, bounded
// by maxDepth (pass DefaultMaxDepth for the unconfigured default), and
// returns every completed taint path: a TaintSink reached whose own taints
// intersect the set the source's taints become after the path's
// added/removed taint mods are applied.
//
// should_ignore_fetch is applied at each candidate edge before it is
// followed: `$a['x'] = $tainted; sink($a['y']);` does not flow because
// the fetch key 'y' never matches an assignment recorded under that
// same key.
func (g *Graph) Traverse(maxDepth int) []Completion {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var completions []Completion
	for srcID, src := range g.Sources {
		if src.Kind != NodeTaintSource {
			continue
		}
		completions = append(completions, g.traverseFrom(srcID, src, maxDepth)...)
	}
	return completions
}

func (g *Graph) traverseFrom(srcID string, src *Node, maxDepth int) []Completion {
	var out []Completion
	visited := map[string]bool{srcID: true}
	queue := []frontier{{nodeID: srcID, depth: 0, added: map[TaintKind]bool{}, removed: map[TaintKind]bool{}}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= maxDepth {
			continue
		}

		for _, edge := range g.ForwardEdges[cur.nodeID] {
			if shouldIgnoreFetch(cur.history, edge.Path) {
				continue
			}

			nextAdded := cloneTaintSet(cur.added)
			nextRemoved := cloneTaintSet(cur.removed)
			for _, t := range edge.AddedTaints {
				nextAdded[t] = true
				delete(nextRemoved, t)
			}
			for _, t := range edge.RemovedTaints {
				nextRemoved[t] = true
				delete(nextAdded, t)
			}

			if sink, ok := g.Sinks[edge.To]; ok && sink.Kind == NodeTaintSink {
				effective := effectiveTaints(src.Taints, nextAdded, nextRemoved)
				if overlap := intersectTaints(effective, sink.Taints); len(overlap) > 0 {
					out = append(out, Completion{SourceID: srcID, SinkID: edge.To, Taints: overlap})
				}
			}

			if visited[edge.To] {
				continue
			}
			visited[edge.To] = true

			nextHistory := append(append([]PathKind(nil), cur.history...), edge.Path)
			queue = append(queue, frontier{
				nodeID:  edge.To,
				depth:   cur.depth + 1,
				history: nextHistory,
				added:   nextAdded,
				removed: nextRemoved,
			})
		}
	}
	return out
}

// UnusedSources returns every VariableUseSource node with no reachable path
// (ignoring taint semantics entirely — structural-tainting doesn't apply to
// plain use-tracking) to any VariableUseSink. Function-body mode consults
// this instead of Traverse: the graph is torn down at function end and only
// used for unused-variable detection.
func (g *Graph) UnusedSources(maxDepth int) []*Node {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var unused []*Node
	for id, src := range g.Sources {
		if src.Kind != NodeVariableUseSource {
			continue
		}
		if !g.reachesSink(id, maxDepth) {
			unused = append(unused, src)
		}
	}
	return unused
}

func (g *Graph) reachesSink(from string, maxDepth int) bool {
	visited := map[string]bool{from: true}
	queue := []struct{ id string; depth int }{{from, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		for _, edge := range g.ForwardEdges[cur.id] {
			if sink, ok := g.Sinks[edge.To]; ok && sink.Kind == NodeVariableUseSink {
				return true
			}
			if visited[edge.To] {
				continue
			}
			visited[edge.To] = true
			queue = append(queue, struct{ id string; depth int }{edge.To, cur.depth + 1})
		}
	}
	return false
}

// shouldIgnoreFetch decides whether a prospective ExpressionFetch edge is
// structurally tainted: walking history in reverse, a matching-key
// ExpressionAssignment of the same fetch kind found before any intervening
// fetch of that kind makes the edge valid. Only ExpressionFetch path kinds
// are subject to this check — every other PathKind always flows.
func shouldIgnoreFetch(history []PathKind, prospective PathKind) bool {
	fetch, ok := prospective.(ExpressionFetch)
	if !ok {
		return false
	}

	nesting := 0
	for i := len(history) - 1; i >= 0; i-- {
		switch h := history[i].(type) {
		case ExpressionFetch:
			if h.Fetch == fetch.Fetch {
				nesting++
			}
		case ExpressionAssignment:
			if h.Fetch == fetch.Fetch {
				nesting--
				if h.Key == fetch.Key && nesting <= 0 {
					return false // valid: matching assignment found before a matching fetch
				}
			}
		}
	}
	return true // no matching assignment found anywhere in the history: suppress
}

func cloneTaintSet(m map[TaintKind]bool) map[TaintKind]bool {
	out := make(map[TaintKind]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func effectiveTaints(base map[TaintKind]bool, added, removed map[TaintKind]bool) map[TaintKind]bool {
	out := make(map[TaintKind]bool)
	for t := range base {
		if !removed[t] {
			out[t] = true
		}
	}
	for t := range added {
		out[t] = true
	}
	return out
}

func intersectTaints(a, b map[TaintKind]bool) []TaintKind {
	var out []TaintKind
	for t := range a {
		if b[t] {
			out = append(out, t)
		}
	}
	return out
}
