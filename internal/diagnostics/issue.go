// Package diagnostics implements the Issue taxonomy and formatting,
// modeled on funxy's diagnostics.DiagnosticError contract: a typed code,
// a source token/position, a message, and file-scoped deduplication by
// (line, column, code).
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/hakana-go/hakana/internal/token"
)

// Kind identifies one diagnostic variant. New kinds are added alongside
// the analyzer code that emits them.
type Kind string

const (
	// Type errors
	InvalidArgument        Kind = "InvalidArgument"
	InvalidReturnType      Kind = "InvalidReturnType"
	InvalidPropertyAssignment Kind = "InvalidPropertyAssignment"
	PropertyTypeCoercion    Kind = "PropertyTypeCoercion"
	MixedPropertyTypeCoercion Kind = "MixedPropertyTypeCoercion"
	UndefinedVariable       Kind = "UndefinedVariable"
	UndefinedMember         Kind = "UndefinedMember"
	UndefinedClass          Kind = "UndefinedClass"
	MixedUsage              Kind = "MixedUsage"
	InvalidArrayOffset      Kind = "InvalidArrayOffset"

	// Logic errors
	ParadoxicalCondition       Kind = "ParadoxicalCondition"
	ImpossibleTruthinessCheck  Kind = "ImpossibleTruthinessCheck"
	RedundantTruthinessCheck   Kind = "RedundantTruthinessCheck"
	ImpossibleAssignment       Kind = "ImpossibleAssignment"
	ShadowedLoopVar            Kind = "ShadowedLoopVar"

	// Dead code
	UnusedFunction            Kind = "UnusedFunction"
	UnusedClass               Kind = "UnusedClass"
	UnusedMethod              Kind = "UnusedMethod"
	UnusedParameter           Kind = "UnusedParameter"
	UnusedAssignmentStatement Kind = "UnusedAssignmentStatement"

	// Taint errors
	TaintedData Kind = "TaintedData"

	// System errors
	InvalidHakanaFile Kind = "InvalidHakanaFile"
	FileNotReadable   Kind = "FileNotReadable"

	// Internal errors
	InternalError Kind = "InternalError"
)

// Issue is one diagnostic emitted by the engine.
type Issue struct {
	Kind                Kind
	Description         string
	Pos                 token.Position
	CallingFunctionlike  string // fully-qualified name, empty if top-level
	CanFix              bool
	FixmeAdded          bool
	InsertionStart       *int
	File                string // display path; distinct from Pos.File (an interned id)
}

// New builds an Issue, mirroring funxy's diagnostics.NewError(code, token,
// message) call shape.
func New(kind Kind, pos token.Position, file, description string) *Issue {
	return &Issue{Kind: kind, Pos: pos, File: file, Description: description}
}

// CanAutoFix reports whether this issue's kind is one the edit engine
// knows how to fix automatically.
func (i *Issue) CanAutoFix() bool { return i.CanFix }

// String formats the issue deterministically:
// "ERROR: <Kind> - <file>:<line>:<col> - <description>".
func (i *Issue) String() string {
	return fmt.Sprintf("ERROR: %s - %s:%d:%d - %s", i.Kind, i.File, i.Pos.StartLine, i.Pos.StartColumn, i.Description)
}

// dedupeKey groups issues the way funxy's walker.addError does: by
// (line, col, kind), so a condition analyzed twice (e.g. via a shared
// sub-expression) reports once.
func dedupeKey(i *Issue) string {
	return fmt.Sprintf("%d:%d:%s:%s", i.Pos.StartLine, i.Pos.StartColumn, i.Kind, i.File)
}

// Set deduplicates and deterministically orders issues.
type Set struct {
	byKey map[string]*Issue
}

func NewSet() *Set { return &Set{byKey: make(map[string]*Issue)} }

func (s *Set) Add(i *Issue) {
	if i == nil {
		return
	}
	s.byKey[dedupeKey(i)] = i
}

func (s *Set) AddAll(issues []*Issue) {
	for _, i := range issues {
		s.Add(i)
	}
}

// Sorted returns every issue ordered by (file, line, column), so output
// is byte-identical across runs over the same input.
func (s *Set) Sorted() []*Issue {
	out := make([]*Issue, 0, len(s.byKey))
	for _, i := range s.byKey {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].File != out[b].File {
			return out[a].File < out[b].File
		}
		if out[a].Pos.StartLine != out[b].Pos.StartLine {
			return out[a].Pos.StartLine < out[b].Pos.StartLine
		}
		if out[a].Pos.StartColumn != out[b].Pos.StartColumn {
			return out[a].Pos.StartColumn < out[b].Pos.StartColumn
		}
		return out[a].Kind < out[b].Kind
	})
	return out
}

// ExitCode reports 2 if any unsuppressed error survived, 0 otherwise.
// Process-level failures (config parse, missing root directory) use exit
// code 1 and are raised by the orchestrator directly, not through a Set.
func (s *Set) ExitCode() int {
	if len(s.byKey) > 0 {
		return 2
	}
	return 0
}
