package orchestrator

import (
	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/resolve"
)

// resolveProgram turns every raw class-like reference in prog (parent,
// implemented interface, trait use) into a fully-qualified name, using a
// scope built from the file's own namespace declaration and import list.
// It runs once per freshly parsed file, before the declarations are handed
// to the codebase index, so indexing and signature extraction both see
// already-qualified names.
func resolveProgram(prog *hast.Program) {
	scope := resolve.NewScope(prog.Namespace, nil)
	for _, imp := range prog.Imports {
		alias := imp.Alias
		if alias == "" {
			continue
		}
		switch imp.Kind {
		case hast.ImportClass:
			scope.TypeAliases[alias] = imp.Name
		case hast.ImportNamespace:
			scope.NamespaceAliases[alias] = imp.Name
		case hast.ImportFunction:
			scope.FuncAliases[alias] = imp.Name
		case hast.ImportConst:
			scope.ConstAliases[alias] = imp.Name
		}
	}

	for _, d := range prog.Decls {
		cls, ok := d.(*hast.ClassLike)
		if !ok {
			continue
		}
		resolveNames(scope, cls.Parents)
		resolveNames(scope, cls.Interfaces)
		resolveNames(scope, cls.TraitUses)
	}
}

func resolveNames(scope *resolve.Scope, names []string) {
	for i, n := range names {
		names[i] = resolve.Resolve(scope, n, resolve.KindClass)
	}
}
