package orchestrator

import (
	"fmt"

	"github.com/hakana-go/hakana/internal/codebase"
	"github.com/hakana-go/hakana/internal/diagnostics"
	"github.com/hakana-go/hakana/internal/token"
)

// deadCodeIssues runs the whole-program unused-definition post-pass: every
// function, class, and method the reverse-reference map never saw a
// reference to. Gated on find_unused_definitions, since it requires every
// file to have been indexed at least once to be meaningful.
func (o *Orchestrator) deadCodeIssues() []*diagnostics.Issue {
	if !o.Config.FindUnusedDefinitions {
		return nil
	}

	refs := o.index.References()
	referencedSymbols := refs.ReferencedSymbols()
	referencedMembers := refs.ReferencedClassMembers()
	overriddenMembers := refs.ReferencedOverriddenClassMembers()

	var out []*diagnostics.Issue

	for name, fn := range o.index.Functions {
		if referencedSymbols[name] {
			continue
		}
		out = append(out, unusedIssue(diagnostics.UnusedFunction, fn.Decl.Pos(), fn.File,
			fmt.Sprintf("function %s is never called", name)))
	}

	for className, ci := range o.index.Classes {
		if !referencedSymbols[className] {
			out = append(out, unusedIssue(diagnostics.UnusedClass, classPos(ci), ci.File,
				fmt.Sprintf("class %s is never referenced", className)))
		}
		for methodName, fn := range ci.Methods {
			member := codebase.Member{Class: className, Member: methodName}
			if referencedMembers[member] || overriddenMembers[member] {
				continue
			}
			out = append(out, unusedIssue(diagnostics.UnusedMethod, fn.Decl.Pos(), fn.File,
				fmt.Sprintf("method %s::%s is never called", className, methodName)))
		}
	}

	return out
}

func classPos(ci *codebase.ClassInfo) token.Position {
	if ci.Decl != nil {
		return ci.Decl.Pos()
	}
	return token.Position{}
}

func unusedIssue(kind diagnostics.Kind, pos token.Position, file, desc string) *diagnostics.Issue {
	iss := diagnostics.New(kind, pos, file, desc)
	iss.CanFix = true
	return iss
}
