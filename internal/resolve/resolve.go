// Package resolve turns the bare identifiers a parser hands back into
// fully-qualified names, following the same namespace-scope-stack shape
// as funxy's symbols.SymbolTable (outer-scope chaining, per-kind alias
// tables) but applied to qualified-name resolution instead of
// Hindley-Milner symbol lookup.
package resolve

import "strings"

// Kind selects which alias table a single-component name is resolved
// against. Function and constant aliases are case-sensitive; class and
// namespace aliases are not (matching how the case-insensitive class-name
// lookup the codebase index uses elsewhere treats declarations).
type Kind int

const (
	KindClass Kind = iota
	KindNamespace
	KindConst
	KindFunc
)

const namespaceSeparator = "\\"
const xhpPrefix = ":"

// reserved is the fixed set of built-in keywords and annotation markers
// that resolve to themselves regardless of scope.
var reserved = map[string]bool{
	"self": true, "parent": true, "static": true, "this": true,
	"HH_FIXME": true, "HAKANA_FIXME": true, "HAKANA_IGNORE": true,
}

// Scope is one namespace scope: the enclosing namespace name plus the
// four alias tables a `use` statement populates. Scope is built once per
// file by the parser pass that reads `namespace`/`use` declarations, then
// consulted read-only by every resolution call for that file.
type Scope struct {
	Namespace        string
	TypeAliases      map[string]string
	NamespaceAliases map[string]string
	ConstAliases     map[string]string
	FuncAliases      map[string]string
	outer            *Scope
}

// NewScope creates a scope nested under outer (nil for the file's
// top-level namespace scope).
func NewScope(namespace string, outer *Scope) *Scope {
	return &Scope{
		Namespace:        namespace,
		TypeAliases:      make(map[string]string),
		NamespaceAliases: make(map[string]string),
		ConstAliases:     make(map[string]string),
		FuncAliases:      make(map[string]string),
		outer:            outer,
	}
}

func (s *Scope) aliasTable(k Kind) map[string]string {
	switch k {
	case KindNamespace:
		return s.NamespaceAliases
	case KindConst:
		return s.ConstAliases
	case KindFunc:
		return s.FuncAliases
	default:
		return s.TypeAliases
	}
}

func (s *Scope) lookupAlias(k Kind, name string) (string, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		table := sc.aliasTable(k)
		if k == KindFunc || k == KindConst {
			if v, ok := table[name]; ok {
				return v, true
			}
			continue
		}
		for alias, expansion := range table {
			if strings.EqualFold(alias, name) {
				return expansion, true
			}
		}
	}
	return "", false
}

// Resolve turns name into a fully-qualified identifier under scope,
// applying rules in order:
//  1. a leading namespace separator means the name is already qualified;
//  2. a leading XHP colon means the name is already resolved;
//  3. reserved identifiers resolve to themselves;
//  4. for multi-component names, the first component is looked up in the
//     namespace alias table and, if found, replaces that component;
//  5. for single-component names, kind selects the alias table to try;
//  6. otherwise the current namespace is prepended.
func Resolve(scope *Scope, name string, kind Kind) string {
	if strings.HasPrefix(name, namespaceSeparator) {
		return strings.TrimPrefix(name, namespaceSeparator)
	}
	if strings.HasPrefix(name, xhpPrefix) {
		return strings.TrimPrefix(name, xhpPrefix)
	}
	if reserved[name] {
		return name
	}

	parts := strings.SplitN(name, namespaceSeparator, 2)
	if len(parts) == 2 {
		if expansion, ok := scope.lookupAlias(KindNamespace, parts[0]); ok {
			return expansion + namespaceSeparator + parts[1]
		}
		return joinNamespace(scope.currentNamespace(), name)
	}

	if expansion, ok := scope.lookupAlias(kind, name); ok {
		return expansion
	}
	return joinNamespace(scope.currentNamespace(), name)
}

func (s *Scope) currentNamespace() string {
	if s == nil {
		return ""
	}
	return s.Namespace
}

func joinNamespace(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + namespaceSeparator + name
}
