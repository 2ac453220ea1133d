// Package orchestrator implements the scan/parse/index/analyze/merge/apply
// pipeline: the component that owns fsscan, the codebase index, the flow
// analyzer, the data-flow graph, and the edit set, and drives all five
// across every file under the configured roots each cycle.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hakana-go/hakana/internal/codebase"
	"github.com/hakana-go/hakana/internal/config"
	"github.com/hakana-go/hakana/internal/dataflow"
	"github.com/hakana-go/hakana/internal/diagnostics"
	"github.com/hakana-go/hakana/internal/edit"
	"github.com/hakana-go/hakana/internal/fsscan"
	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/intern"
	"github.com/hakana-go/hakana/internal/token"
)

// Orchestrator owns every piece of state that must survive between cycles:
// the symbol index, the previous snapshot and signature lists (for the
// incremental differ), the comment streams (for the suppression pass), and
// the path interner that stamps every position with a stable FileID.
type Orchestrator struct {
	Config *config.Config
	Parser Parser
	Logger *zap.Logger

	mu       sync.Mutex
	files    *intern.Table
	index    *codebase.Index
	prevSnap fsscan.Snapshot
	prevSigs map[string][]hast.SignatureNode
	comments map[string][]token.Comment
}

// New returns an Orchestrator ready to run cycles against cfg, using parser
// to turn file contents into typed trees.
func New(cfg *config.Config, parser Parser, logger *zap.Logger) *Orchestrator {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		Config:   cfg,
		Parser:   parser,
		Logger:   logger,
		files:    intern.New(),
		index:    codebase.New(),
		prevSigs: make(map[string][]hast.SignatureNode),
		comments: make(map[string][]token.Comment),
	}
}

// Report is one cycle's outcome: every surviving issue, the merged
// data-flow graph (empty in function-body mode, where graphs are torn down
// per function), and the per-file edit sets the fix phase built for
// whatever issue kinds are configured to auto-fix.
type Report struct {
	RunID   string
	Issues  *diagnostics.Set
	Graph   *dataflow.Graph
	Edits   map[string]*edit.Set
	Touched int // files parsed this cycle
}

// RunCycle runs one full enumerate/hash/parse/index/analyze/merge/apply
// pass. Results and scan state from the previous call are reused, so a
// second call against an unchanged tree does no parsing or analysis work.
func (o *Orchestrator) RunCycle(ctx context.Context) (*Report, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	runID := uuid.NewString()
	log := o.Logger.With(zap.String("run_id", runID))

	files, err := fsscan.Enumerate(o.Config.Paths, o.Config.IgnoreFiles)
	if err != nil {
		return nil, fmt.Errorf("enumerating source roots: %w", err)
	}

	snap, err := fsscan.TakeSnapshot(files)
	if err != nil {
		return nil, fmt.Errorf("snapshotting source files: %w", err)
	}
	statuses := fsscan.Classify(o.prevSnap, snap)

	var toParse []string
	for _, f := range files {
		switch statuses[f] {
		case fsscan.Added, fsscan.Modified:
			toParse = append(toParse, f)
		}
	}
	for f, st := range statuses {
		if st == fsscan.Deleted {
			delete(o.prevSigs, f)
			delete(o.comments, f)
		}
	}
	log.Info("scan complete",
		zap.Int("total_files", len(files)),
		zap.Int("changed_files", len(toParse)))

	issues := diagnostics.NewSet()

	parsed, parseIssues := o.parseFiles(ctx, toParse)
	issues.AddAll(parseIssues)
	log.Info("parse complete", zap.Int("parsed", len(parsed)))

	targets := o.indexFiles(parsed)
	log.Info("index complete",
		zap.Int("classes", len(o.index.Classes)),
		zap.Int("functions", len(o.index.Functions)),
		zap.Int("reanalyze_targets", len(targets)))

	results := o.analyzeTargets(ctx, targets)

	graph := dataflow.New()
	for _, r := range results {
		if r == nil {
			continue
		}
		issues.AddAll(r.Issues)
		graph.Merge(r.Graph)
		o.index.References().Merge(r.Refs)
	}

	if o.Config.GraphKind == config.GraphWholeProgramTaint {
		for _, c := range graph.Traverse(o.maxDepth()) {
			issues.Add(o.taintIssue(graph, c))
		}
	}

	issues.AddAll(o.deadCodeIssues())

	filtered := o.filterIssues(issues)

	edits := o.buildFixes(filtered)

	log.Info("cycle complete", zap.Int("issues", len(filtered.Sorted())))

	o.prevSnap = snap
	return &Report{RunID: runID, Issues: filtered, Graph: graph, Edits: edits, Touched: len(parsed)}, nil
}

func (o *Orchestrator) workerLimit() int {
	if o.Config.Threads > 0 {
		return o.Config.Threads
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

func (o *Orchestrator) maxDepth() int {
	if o.Config.Security.MaxDepth > 0 {
		return o.Config.Security.MaxDepth
	}
	return dataflow.DefaultMaxDepth
}

// filePath resolves pos's interned FileID back to the path the orchestrator
// assigned it, for diagnostics that only have a position to work from (a
// merged whole-program graph's taint completions, notably).
func (o *Orchestrator) filePath(pos token.Position) string {
	if p, ok := o.files.TryLookup(intern.ID(pos.File)); ok {
		return p
	}
	return ""
}

// ReadSources reads every file referenced by report's edits, for a caller
// that wants to render and write the fixes back to disk.
func ReadSources(report *Report) (map[string][]byte, error) {
	out := make(map[string][]byte, len(report.Edits))
	for file := range report.Edits {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		out[file] = data
	}
	return out, nil
}

// RenderFixes applies report's per-file edit sets to sources, returning the
// fixed file contents keyed by path. Writing the result back to disk (or
// printing it as a diff) is left to the caller.
func RenderFixes(report *Report, sources map[string][]byte) (map[string]string, error) {
	out := make(map[string]string, len(report.Edits))
	for file, set := range report.Edits {
		src, ok := sources[file]
		if !ok {
			continue
		}
		rendered, err := set.Apply(string(src))
		if err != nil {
			return nil, fmt.Errorf("applying edits to %s: %w", file, err)
		}
		out[file] = rendered
	}
	return out, nil
}
