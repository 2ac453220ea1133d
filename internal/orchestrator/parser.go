package orchestrator

import (
	"fmt"

	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/token"
)

// Parser is the external contract the orchestrator's parse phase consumes:
// given a file's path, its raw contents, and the FileID the orchestrator's
// interner assigned that path, return the typed declaration tree (with
// every position stamped with that FileID) plus the scoured comment
// stream, or a ParseError. No implementation lives in this module — a
// real one sits outside it, and tests supply a fake.
type Parser interface {
	Parse(path string, contents []byte, file token.FileID) (*hast.Program, []token.Comment, error)
}

// ParseErrorKind distinguishes a file that isn't source at all from one
// that is but failed to parse.
type ParseErrorKind int

const (
	SyntaxError ParseErrorKind = iota
	NotAHakanaFile
)

// ParseError is the structured failure a Parser returns for one file. It
// never aborts a whole cycle: the orchestrator turns it into a System-error
// Issue attached to Path and continues with every other file.
type ParseError struct {
	Kind ParseErrorKind
	Path string
	Pos  token.Position
	Err  error
}

func (e *ParseError) Error() string {
	if e.Kind == NotAHakanaFile {
		return fmt.Sprintf("%s: not a recognized source file", e.Path)
	}
	return fmt.Sprintf("%s:%d:%d: syntax error: %v", e.Path, e.Pos.StartLine, e.Pos.StartColumn, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
