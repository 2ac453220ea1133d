package hast

import (
	"github.com/hakana-go/hakana/internal/token"
	"github.com/hakana-go/hakana/internal/ttype"
)

// Program is the parsed form of one source file: the namespace/import
// context the name resolver needs, plus its top-level declarations.
type Program struct {
	base
	File      string
	Namespace string
	Imports   []Import
	Decls     []Decl
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// Import is one `use`-style import/alias entry.
type Import struct {
	Kind        ImportKind
	Name        string // fully-qualified target
	Alias       string // local alias; equals the last component of Name if unaliased
}

type ImportKind int

const (
	ImportNamespace ImportKind = iota
	ImportClass
	ImportFunction
	ImportConst
)

// Decl is any top-level definition: class-like, function-like, typedef, or
// constant.
type Decl interface {
	Node
	declNode()
	DeclName() string
}

// Visibility of a class member.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

// Param is one function parameter.
type Param struct {
	Name       string
	Type       ttype.Union
	HasDefault bool
	IsVariadic bool
	Pos        token.Position
}

// TemplateParam is a class/function-level generic parameter declaration.
type TemplateParam struct {
	Name       string
	Variance   ttype.Variance
	UpperBound *ttype.Union
}

// WhereConstraint is a `where T as U` clause.
type WhereConstraint struct {
	TypeVar string
	As      ttype.Union
}

// FunctionLike is the shared shape for standalone functions and methods.
type FunctionLike struct {
	base
	Name            string
	Params          []Param
	ReturnType      ttype.Union
	Effects         ttype.Effect
	TemplateParams  []TemplateParam
	WhereConstraints []WhereConstraint
	TaintSourceTags []string
	Visibility      Visibility
	IsFinal         bool
	IsStatic        bool
	IsAbstract      bool
	SpecializeCall  bool
	Body            *BlockStatement // nil for abstract/interface methods
}

func (f *FunctionLike) Accept(v Visitor) { v.VisitFunctionLike(f) }
func (f *FunctionLike) declNode()        {}
func (f *FunctionLike) DeclName() string { return f.Name }

// ClassKind distinguishes class/interface/trait/enum.
type ClassKind int

const (
	KindClass ClassKind = iota
	KindInterface
	KindTrait
	KindEnum
)

// Property is a class field.
type Property struct {
	Name       string
	Type       ttype.Union
	Visibility Visibility
	IsStatic   bool
	Pos        token.Position
}

// ClassConst is a class constant.
type ClassConst struct {
	Name string
	Type ttype.Union
}

// ClassLike is a class/interface/trait/enum declaration.
type ClassLike struct {
	base
	Name            string
	Kind            ClassKind
	Parents         []string // at most one for KindClass, transitively extended list not included here
	Interfaces      []string
	TraitUses       []string
	TemplateParams  []TemplateParam
	Methods         []*FunctionLike
	Properties      []Property
	Constants       []ClassConst
	IsFinal         bool
}

func (c *ClassLike) Accept(v Visitor) { v.VisitClassLike(c) }
func (c *ClassLike) declNode()        {}
func (c *ClassLike) DeclName() string { return c.Name }

// TypedefDecl is a type alias declaration.
type TypedefDecl struct {
	base
	Name   string
	Params []string
	Body   ttype.Union
}

func (t *TypedefDecl) Accept(v Visitor) { v.VisitTypedefDecl(t) }
func (t *TypedefDecl) declNode()        {}
func (t *TypedefDecl) DeclName() string { return t.Name }

// ConstDecl is a global constant declaration.
type ConstDecl struct {
	base
	Name  string
	Type  ttype.Union
	Value Expression
}

func (c *ConstDecl) Accept(v Visitor) { v.VisitConstDecl(c) }
func (c *ConstDecl) declNode()        {}
func (c *ConstDecl) DeclName() string { return c.Name }
