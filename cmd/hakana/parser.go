package main

import (
	"fmt"

	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/orchestrator"
	"github.com/hakana-go/hakana/internal/token"
)

// noParser satisfies orchestrator.Parser without producing a tree. Lexing
// and parsing Hack source into hast nodes is a separate, external
// component this binary links against by swapping this file's
// newParser() for one backed by a real typed-tree producer; nothing else
// in the pipeline needs to change to support that.
type noParser struct{}

func newParser() orchestrator.Parser { return noParser{} }

func (noParser) Parse(path string, contents []byte, file token.FileID) (*hast.Program, []token.Comment, error) {
	return nil, nil, &orchestrator.ParseError{
		Kind: orchestrator.SyntaxError,
		Path: path,
		Err:  fmt.Errorf("no typed-tree producer is registered; see newParser in cmd/hakana/parser.go"),
	}
}
