package orchestrator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hakana-go/hakana/internal/codebase"
	"github.com/hakana-go/hakana/internal/config"
	"github.com/hakana-go/hakana/internal/dataflow"
	"github.com/hakana-go/hakana/internal/diagnostics"
	"github.com/hakana-go/hakana/internal/flow"
	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/token"
)

// fileAnalysis is one file's worth of analyze-phase output: the issues its
// functions raised, its data-flow graph (populated only outside
// function-body mode, where graphs live for the whole cycle instead of
// being torn down per function), and the symbol references its bodies
// recorded.
type fileAnalysis struct {
	Issues []*diagnostics.Issue
	Graph  *dataflow.Graph
	Refs   *codebase.SymbolReferences
}

// analyzeTargets walks every target in parallel, one goroutine per file so
// a whole-program-mode graph stays correctly scoped to the file it came
// from until the merge phase folds every file's graph into the cycle's.
func (o *Orchestrator) analyzeTargets(ctx context.Context, targets []reanalyzeTarget) []*fileAnalysis {
	byFile := make(map[string][]reanalyzeTarget)
	for _, t := range targets {
		byFile[t.File] = append(byFile[t.File], t)
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}

	results := make([]*fileAnalysis, len(files))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(o.workerLimit())
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			results[i] = o.analyzeFile(file, byFile[file])
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// analyzeFile walks every target belonging to file against a read-only
// view of the shared index (own Classes/Functions/Typedefs/Consts maps,
// fresh SymbolReferences so concurrent files never race on the same
// reverse-reference map).
func (o *Orchestrator) analyzeFile(file string, targets []reanalyzeTarget) *fileAnalysis {
	view := codebase.New()
	view.Classes, view.Functions = o.index.Classes, o.index.Functions
	view.Typedefs, view.Consts = o.index.Typedefs, o.index.Consts

	issues := diagnostics.NewSet()
	fileGraph := dataflow.New()
	functionBodyMode := o.Config.GraphKind == config.GraphFunctionBody

	for _, t := range targets {
		if t.Fn.Body == nil {
			continue // abstract/interface method: nothing to walk
		}

		graph := fileGraph
		if functionBodyMode {
			graph = dataflow.New()
		}

		an := flow.NewAnalyzer(view, issues, graph, file)
		an.MaxDepth = o.maxDepth()
		an.AnalyzeFunctionBody(t.Fn, t.Calling)

		if functionBodyMode && o.Config.FindUnusedExpressions {
			for _, src := range graph.UnusedSources(o.maxDepth()) {
				issues.Add(o.unusedVariableIssue(file, t.Fn, src))
			}
		}
	}

	return &fileAnalysis{
		Issues: issues.Sorted(),
		Graph:  fileGraph,
		Refs:   view.References(),
	}
}

// unusedVariableIssue classifies an unused VariableUseSource node as a
// never-used parameter or a never-read assignment, by checking whether its
// id matches one of fn's own parameters at that exact position.
func (o *Orchestrator) unusedVariableIssue(file string, fn *hast.FunctionLike, n *dataflow.Node) *diagnostics.Issue {
	for _, p := range fn.Params {
		if p.Name == n.Label && p.Pos == n.Pos {
			iss := diagnostics.New(diagnostics.UnusedParameter, n.Pos, file,
				fmt.Sprintf("parameter $%s is never used", n.Label))
			iss.CanFix = true
			return iss
		}
	}
	iss := diagnostics.New(diagnostics.UnusedAssignmentStatement, n.Pos, file,
		fmt.Sprintf("assignment to $%s is never read", n.Label))
	iss.CanFix = true
	return iss
}

// taintIssue turns one completed taint path into a TaintedData issue
// attached to the sink's file and position.
func (o *Orchestrator) taintIssue(g *dataflow.Graph, c dataflow.Completion) *diagnostics.Issue {
	sink := g.Sinks[c.SinkID]
	label := c.SinkID
	pos := token.Position{}
	if sink != nil {
		label = sink.Label
		pos = sink.Pos
	}
	return diagnostics.New(diagnostics.TaintedData, pos, o.filePath(pos),
		fmt.Sprintf("tainted data (%v) reaches %s", c.Taints, label))
}
