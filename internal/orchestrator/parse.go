package orchestrator

import (
	"context"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hakana-go/hakana/internal/diagnostics"
	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/token"
)

// parsedFile is one successfully parsed file's output, kept around for the
// rest of the cycle (signature extraction, the fix phase's source reads).
type parsedFile struct {
	Path     string
	Source   []byte
	Program  *hast.Program
	Comments []token.Comment
}

// parseFiles parses every path in parallel, bounded by the worker pool
// size. A read failure or ParseError never aborts the batch: it becomes a
// System-error Issue attached to that file, and every other file still
// completes.
func (o *Orchestrator) parseFiles(ctx context.Context, paths []string) (map[string]*parsedFile, []*diagnostics.Issue) {
	results := make(map[string]*parsedFile, len(paths))
	var issues []*diagnostics.Issue
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workerLimit())

	for _, path := range paths {
		path := path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}

			source, err := os.ReadFile(path)
			if err != nil {
				mu.Lock()
				issues = append(issues, diagnostics.New(diagnostics.FileNotReadable, token.Position{}, path, err.Error()))
				mu.Unlock()
				return nil
			}

			fileID := token.FileID(o.files.Intern(path))
			prog, comments, err := o.Parser.Parse(path, source, fileID)
			if err != nil {
				mu.Lock()
				issues = append(issues, parseErrorIssue(path, err))
				mu.Unlock()
				return nil
			}

			resolveProgram(prog)

			mu.Lock()
			results[path] = &parsedFile{Path: path, Source: source, Program: prog, Comments: comments}
			o.comments[path] = comments
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return results, issues
}

func parseErrorIssue(path string, err error) *diagnostics.Issue {
	pos := token.Position{}
	if pe, ok := err.(*ParseError); ok {
		pos = pe.Pos
	}
	return diagnostics.New(diagnostics.InvalidHakanaFile, pos, path, err.Error())
}
