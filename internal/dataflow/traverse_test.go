package dataflow

import (
	"testing"

	"github.com/hakana-go/hakana/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildKeyScenario(fetchKey string) *Graph {
	g := New()

	src := &Node{ID: "src", Kind: NodeTaintSource, Label: "$tainted", Taints: map[TaintKind]bool{"user-input": true}}
	mid := &Node{ID: "a", Kind: NodeVertex, Label: "$a", Pos: token.Position{StartLine: 1}}
	sink := &Node{ID: "sink", Kind: NodeTaintSink, Label: "echo", Taints: map[TaintKind]bool{"user-input": true}}

	g.AddSource(src)
	g.AddNode(mid)
	g.AddSink(sink)

	g.AddEdge(src.ID, mid.ID, ExpressionAssignment{Fetch: ArrayValue, Key: "x"}, nil, nil)
	g.AddEdge(mid.ID, sink.ID, ExpressionFetch{Fetch: ArrayValue, Key: fetchKey}, nil, nil)

	return g
}

// Scenario 3: `$a['x'] = $tainted; echo $a['y'];` — key mismatch suppresses
// the fetch, so no completed taint path reaches the sink.
func TestTraverseBlocksOnKeyMismatch(t *testing.T) {
	g := buildKeyScenario("y")
	completions := g.Traverse(DefaultMaxDepth)
	assert.Empty(t, completions)
}

// Scenario 4: `$a['x'] = $tainted; echo $a['x'];` — matching key lets the
// taint flow through to the sink.
func TestTraverseAllowsOnKeyMatch(t *testing.T) {
	g := buildKeyScenario("x")
	completions := g.Traverse(DefaultMaxDepth)
	require.Len(t, completions, 1)
	assert.Equal(t, "src", completions[0].SourceID)
	assert.Equal(t, "sink", completions[0].SinkID)
	assert.Contains(t, completions[0].Taints, TaintKind("user-input"))
}

func TestTraverseRespectsAddedAndRemovedTaints(t *testing.T) {
	g := New()
	src := &Node{ID: "src", Kind: NodeTaintSource, Taints: map[TaintKind]bool{"user-input": true}}
	sanitizer := &Node{ID: "clean", Kind: NodeVertex}
	sink := &Node{ID: "sink", Kind: NodeTaintSink, Taints: map[TaintKind]bool{"user-input": true}}

	g.AddSource(src)
	g.AddNode(sanitizer)
	g.AddSink(sink)

	g.AddEdge(src.ID, sanitizer.ID, Default{}, nil, []TaintKind{"user-input"})
	g.AddEdge(sanitizer.ID, sink.ID, Default{}, nil, nil)

	completions := g.Traverse(DefaultMaxDepth)
	assert.Empty(t, completions, "sanitizing edge removes the taint before it reaches the sink")
}

func TestTraverseStopsAtMaxDepth(t *testing.T) {
	g := New()
	src := &Node{ID: "n0", Kind: NodeTaintSource, Taints: map[TaintKind]bool{"x": true}}
	g.AddSource(src)

	for i := 0; i < 5; i++ {
		from := nodeNameAt(i)
		to := nodeNameAt(i + 1)
		g.AddNode(&Node{ID: from, Kind: NodeVertex})
		g.AddEdge(from, to, Default{}, nil, nil)
	}
	sink := &Node{ID: nodeNameAt(5), Kind: NodeTaintSink, Taints: map[TaintKind]bool{"x": true}}
	g.AddSink(sink)

	completions := g.Traverse(2)
	assert.Empty(t, completions, "sink is 5 hops away but depth is bounded to 2")

	completions = g.Traverse(5)
	assert.Len(t, completions, 1)
}

func nodeNameAt(i int) string {
	return "n" + string(rune('0'+i))
}

func TestUnusedSourcesFindsSourceWithNoSinkPath(t *testing.T) {
	g := New()
	used := &Node{ID: "used", Kind: NodeVariableUseSource}
	unused := &Node{ID: "unused", Kind: NodeVariableUseSource}
	sink := &Node{ID: "sink", Kind: NodeVariableUseSink}

	g.AddSource(used)
	g.AddSource(unused)
	g.AddSink(sink)
	g.AddEdge(used.ID, sink.ID, Default{}, nil, nil)

	result := g.UnusedSources(DefaultMaxDepth)
	require.Len(t, result, 1)
	assert.Equal(t, "unused", result[0].ID)
}

func TestShouldIgnoreFetchWithNoHistoryIgnoresFetch(t *testing.T) {
	assert.True(t, shouldIgnoreFetch(nil, ExpressionFetch{Fetch: ArrayValue, Key: "x"}))
}

func TestShouldIgnoreFetchPassesThroughNonFetchPaths(t *testing.T) {
	assert.False(t, shouldIgnoreFetch(nil, Default{}))
}

func TestGraphMergeCombinesTwoGraphs(t *testing.T) {
	a := New()
	a.AddSource(&Node{ID: "s1", Kind: NodeTaintSource})
	a.AddEdge("s1", "mid", Default{}, nil, nil)

	b := New()
	b.AddSink(&Node{ID: "sink1", Kind: NodeTaintSink})
	b.AddEdge("mid", "sink1", Default{}, nil, nil)

	a.Merge(b)
	assert.Contains(t, a.Sources, "s1")
	assert.Contains(t, a.Sinks, "sink1")
	assert.Len(t, a.ForwardEdges["s1"], 1)
	assert.Len(t, a.ForwardEdges["mid"], 1)
}
