package orchestrator

import (
	"strings"

	"github.com/hakana-go/hakana/internal/codebase"
	"github.com/hakana-go/hakana/internal/differ"
	"github.com/hakana-go/hakana/internal/hast"
)

// reanalyzeTarget is one function or method body the analyze phase must
// walk, tagged with the calling context the flow analyzer needs to record
// symbol references against the right referencing symbol.
type reanalyzeTarget struct {
	File    string
	Fn      *hast.FunctionLike
	Calling codebase.CallingContext
}

// indexFiles runs pass 1 over every freshly parsed file, recomputes
// transitive closures and member types over the whole index, and returns
// the minimal set of function/method bodies that changed in a way the
// differ cannot skip.
func (o *Orchestrator) indexFiles(parsed map[string]*parsedFile) []reanalyzeTarget {
	var targets []reanalyzeTarget

	for path, pf := range parsed {
		o.index.IndexDeclarations(path, pf.Program)

		newSigs := hast.ExtractSignatures(pf.Program, pf.Source)
		oldSigs := o.prevSigs[path]
		result := differ.Diff(oldSigs, newSigs)
		o.prevSigs[path] = newSigs

		for _, n := range liveChangedNodes(result) {
			targets = append(targets, expandTarget(path, n)...)
		}
	}

	if len(parsed) > 0 {
		names := make([]string, 0, len(o.index.Classes))
		for n := range o.index.Classes {
			names = append(names, n)
		}
		o.index.ComputeClosures(names)
		o.index.ResolveMemberTypes()
	}

	return targets
}

// liveChangedNodes is differ.Result.ChangedSet() restricted to nodes with a
// live Decl: a Deleted node's Decl still points at the declaration from the
// previous parse, which no longer exists in the program and must not be
// walked.
func liveChangedNodes(r differ.Result) []hast.SignatureNode {
	out := make([]hast.SignatureNode, 0, len(r.KeepSignature)+len(r.Added))
	for _, p := range r.KeepSignature {
		out = append(out, p.New)
	}
	out = append(out, r.Added...)
	return out
}

// expandTarget turns one changed top-level signature node into the
// reanalyze targets it implies: a function signature is one target
// directly; a class signature expands into one target per method, since a
// changed parent/interface/trait list can change how every method in the
// class resolves calls.
func expandTarget(file string, n hast.SignatureNode) []reanalyzeTarget {
	switch decl := n.Decl.(type) {
	case *hast.FunctionLike:
		return []reanalyzeTarget{{File: file, Fn: decl, Calling: callingContextForName(n.Name)}}
	case *hast.ClassLike:
		out := make([]reanalyzeTarget, 0, len(decl.Methods))
		for _, m := range decl.Methods {
			out = append(out, reanalyzeTarget{
				File:    file,
				Fn:      m,
				Calling: codebase.CallingContext{Method: codebase.Member{Class: decl.Name, Member: m.Name}},
			})
		}
		return out
	default:
		return nil
	}
}

func callingContextForName(name string) codebase.CallingContext {
	if class, method, ok := strings.Cut(name, "::"); ok {
		return codebase.CallingContext{Method: codebase.Member{Class: class, Member: method}}
	}
	return codebase.CallingContext{Function: name}
}
