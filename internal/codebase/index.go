// Package codebase holds the whole-program symbol index: one ClassInfo
// per class-like, one FunctionInfo per function/method, transitive
// parent/interface closures, and the reverse-reference map other
// components consult to decide what a changed declaration might affect.
//
// Construction mirrors funxy's SymbolTable: a flat map keyed by name,
// built in two passes so that forward references between classes (legal
// since every top-level declaration is indexed before any body is
// resolved) work without a fixup pass.
package codebase

import (
	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/ttype"
)

// ClassInfo is the indexed form of one class-like declaration.
type ClassInfo struct {
	Name       string
	Kind       hast.ClassKind
	Parents    []string
	Interfaces []string
	TraitUses  []string
	Templates  []hast.TemplateParam
	Methods    map[string]*FunctionInfo
	Properties map[string]hast.Property
	Constants  map[string]hast.ClassConst
	IsFinal    bool
	File       string
	Decl       *hast.ClassLike

	// AllParentClasses is the transitive closure of Parents, ordered
	// nearest-first.
	AllParentClasses []string
	// AllParentInterfaces is the transitive closure of every interface
	// reachable through Parents and Interfaces.
	AllParentInterfaces []string
	// AllClassInterfaces is AllParentInterfaces plus Interfaces, deduped.
	AllClassInterfaces []string

	// DeclaringClassForProperty maps a property name to the class that
	// actually declares it (own, trait-provided, or inherited).
	DeclaringClassForProperty map[string]string
	// DeclaringMethodID maps a method name to "Class::method" of the
	// declaration that resolves for this class, walking traits, parents,
	// and interfaces in that precedence order.
	DeclaringMethodID map[string]string
}

// FunctionInfo is the indexed form of one function or method declaration.
type FunctionInfo struct {
	Name             string
	ClassName        string // empty for a free function
	Params           []hast.Param
	ReturnType       ttype.Union
	Effects          ttype.Effect
	Templates        []hast.TemplateParam
	WhereConstraints []hast.WhereConstraint
	Visibility       hast.Visibility
	IsStatic         bool
	IsAbstract        bool
	File             string
	Decl             *hast.FunctionLike
}

// ID returns "Class::method" for a method, or the bare name for a free
// function.
func (f *FunctionInfo) ID() string {
	if f.ClassName == "" {
		return f.Name
	}
	return f.ClassName + "::" + f.Name
}

// TypedefInfo is the indexed form of a type alias declaration.
type TypedefInfo struct {
	Name   string
	Params []string
	Body   ttype.Union
	File   string
}

// ConstInfo is the indexed form of a global constant declaration.
type ConstInfo struct {
	Name string
	Type ttype.Union
	File string
}

// Index is the whole-program symbol table. It is built single-threaded
// during the scan phase and is safe for concurrent read-only access while
// the flow analyzer walks function bodies in parallel, mirroring the
// interner's single-producer/read-many contract.
type Index struct {
	Classes   map[string]*ClassInfo
	Functions map[string]*FunctionInfo
	Typedefs  map[string]*TypedefInfo
	Consts    map[string]*ConstInfo

	refs *SymbolReferences
}

// New creates an empty index.
func New() *Index {
	return &Index{
		Classes:   make(map[string]*ClassInfo),
		Functions: make(map[string]*FunctionInfo),
		Typedefs:  make(map[string]*TypedefInfo),
		Consts:    make(map[string]*ConstInfo),
		refs:      newSymbolReferences(),
	}
}

// References returns the reverse-reference map accumulated during body
// analysis.
func (idx *Index) References() *SymbolReferences { return idx.refs }
