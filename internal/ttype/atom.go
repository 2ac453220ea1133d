// Package ttype implements the type lattice, the type comparator, and the
// template/generic-inference engine.
//
// The shape is funxy's internal/typesystem package: an `Atom` interface
// implemented by a closed set of tagged structs, a `String`/`Apply`-style
// surface on each, and free-standing normalization functions rather than
// dynamic dispatch tricks. Where funxy's Type is a Hindley-Milner type
// variable/constructor lattice, this one is a union-of-atoms lattice; the
// operations (`Apply`, the `Generics` free-variable walk, `String`) keep
// the same shape deliberately.
package ttype

import "fmt"

// Atom is a single indivisible member of the type lattice. Every Atom is immutable once constructed.
type Atom interface {
	String() string
	// Generics returns every generic_param atom reachable from this atom,
	// used by the template engine to find free template variables.
	Generics() []Generic
}

// Primitive enumerates the non-parametric atomic kinds.
type PrimitiveKind int

const (
	PInt PrimitiveKind = iota
	PFloat
	PString
	PBool
	PTrue
	PFalse
	PNull
	PVoid
	PNothing
	PArraykey
	PNum
	PMixed
)

func (k PrimitiveKind) String() string {
	switch k {
	case PInt:
		return "int"
	case PFloat:
		return "float"
	case PString:
		return "string"
	case PBool:
		return "bool"
	case PTrue:
		return "true"
	case PFalse:
		return "false"
	case PNull:
		return "null"
	case PVoid:
		return "void"
	case PNothing:
		return "nothing"
	case PArraykey:
		return "arraykey"
	case PNum:
		return "num"
	case PMixed:
		return "mixed"
	default:
		return "?primitive"
	}
}

// Primitive is an atomic primitive type. FromAny records that `mixed` (or
// a literal widened from it) originated from an `as any`-style escape,
// which downstream coercion classification treats as "already
// maximally coerced" rather than re-flagging every subsequent use.
type Primitive struct {
	Kind   PrimitiveKind
	FromAny bool
}

func (p Primitive) String() string { return p.Kind.String() }
func (p Primitive) Generics() []Generic { return nil }

// LiteralInt is the literal type of a single known int value.
type LiteralInt struct{ Value int64 }

func (l LiteralInt) String() string       { return fmt.Sprintf("int(%d)", l.Value) }
func (l LiteralInt) Generics() []Generic  { return nil }

// LiteralString is the literal type of a single known string value.
type LiteralString struct{ Value string }

func (l LiteralString) String() string      { return fmt.Sprintf("string(%q)", l.Value) }
func (l LiteralString) Generics() []Generic { return nil }

// LiteralEnumCase is the literal type of a single enum case, e.g. Suit::Hearts.
type LiteralEnumCase struct {
	EnumName string
	CaseName string
}

func (l LiteralEnumCase) String() string      { return l.EnumName + "::" + l.CaseName }
func (l LiteralEnumCase) Generics() []Generic { return nil }

// ClassnameOf is the classname<Foo> atom: a class name as a value.
type ClassnameOf struct{ Class string }

func (c ClassnameOf) String() string      { return "classname<" + c.Class + ">" }
func (c ClassnameOf) Generics() []Generic { return nil }

// Vec is vec<T>, optionally with exact known-per-index item types.
type Vec struct {
	Item  Union
	Known map[int]Union // non-nil only when every index up to len(Known)-1 is known exactly
}

func (v Vec) String() string {
	if v.Known != nil {
		return fmt.Sprintf("vec<%s>{known=%d}", v.Item.String(), len(v.Known))
	}
	return "vec<" + v.Item.String() + ">"
}

func (v Vec) Generics() []Generic {
	g := v.Item.Generics()
	for _, item := range v.Known {
		g = append(g, item.Generics()...)
	}
	return g
}

// DictKey distinguishes the known-items keyspace: string or int keys.
type DictKey struct {
	IsInt  bool
	SValue string
	IValue int64
}

func (k DictKey) String() string {
	if k.IsInt {
		return fmt.Sprintf("%d", k.IValue)
	}
	return fmt.Sprintf("%q", k.SValue)
}

// Dict is dict<K,V>, optionally with known string/int keys and an optional
// shape name.
type Dict struct {
	Key       Union
	Value     Union
	Known     map[DictKey]KnownDictItem
	ShapeName string
	NonEmpty  bool
}

// KnownDictItem is one statically-known dict/shape entry; MaybeUndefined
// marks entries that HH\Shapes::removeKey or a conditional assignment may
// have removed.
type KnownDictItem struct {
	Value          Union
	MaybeUndefined bool
}

func (d Dict) String() string {
	if len(d.Known) > 0 {
		name := d.ShapeName
		if name == "" {
			name = "shape"
		}
		return fmt.Sprintf("%s(%d known)", name, len(d.Known))
	}
	return fmt.Sprintf("dict<%s, %s>", d.Key.String(), d.Value.String())
}

func (d Dict) Generics() []Generic {
	g := append(d.Key.Generics(), d.Value.Generics()...)
	for _, item := range d.Known {
		g = append(g, item.Value.Generics()...)
	}
	return g
}

// Keyset is keyset<T>.
type Keyset struct{ Item Union }

func (k Keyset) String() string      { return "keyset<" + k.Item.String() + ">" }
func (k Keyset) Generics() []Generic { return k.Item.Generics() }

// NamedObject is an instance of a user-defined class/interface, optionally
// parameterized, optionally `this`-typed.
type NamedObject struct {
	Name       string
	TypeParams []Union
	IsThis     bool
	ExtraTypes []NamedObject // intersection of additional implemented interfaces
}

func (n NamedObject) String() string {
	s := n.Name
	if n.IsThis {
		s = "this@" + s
	}
	if len(n.TypeParams) > 0 {
		s += "<"
		for i, tp := range n.TypeParams {
			if i > 0 {
				s += ", "
			}
			s += tp.String()
		}
		s += ">"
	}
	return s
}

func (n NamedObject) Generics() []Generic {
	var g []Generic
	for _, tp := range n.TypeParams {
		g = append(g, tp.Generics()...)
	}
	for _, e := range n.ExtraTypes {
		g = append(g, e.Generics()...)
	}
	return g
}

// Awaitable is Awaitable<T>.
type Awaitable struct{ Item Union }

func (a Awaitable) String() string      { return "Awaitable<" + a.Item.String() + ">" }
func (a Awaitable) Generics() []Generic { return a.Item.Generics() }

// Effect bits describe a function's purity.
type Effect uint8

const (
	EffectReadProps Effect = 1 << iota
	EffectReadGlobals
	EffectWriteProps
	EffectWriteGlobals
	EffectImpure
)

func (e Effect) Contains(other Effect) bool { return e&other == other }
func (e Effect) LessEqual(other Effect) bool { return e&^other == 0 }

// Closure is a first-class function type.
type Closure struct {
	Params  []Union
	Return  Union
	Effects Effect
}

func (c Closure) String() string {
	s := "("
	for i, p := range c.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + c.Return.String()
}

func (c Closure) Generics() []Generic {
	var g []Generic
	for _, p := range c.Params {
		g = append(g, p.Generics()...)
	}
	return append(g, c.Return.Generics()...)
}

// EntityID names the class-like or function-like that defines a generic
// parameter.
type EntityID struct {
	Kind EntityKind
	Name string
}

type EntityKind int

const (
	EntityClass EntityKind = iota
	EntityFunction
)

// Generic is a reference to a class/function's own template parameter.
type Generic struct {
	Name           string
	DefiningEntity EntityID
	UpperBound     Union
	ExtraTypes     []Union
}

func (g Generic) String() string { return g.Name }

func (g Generic) Generics() []Generic { return []Generic{g} }

// SameVariable reports whether two generics refer to the same (name,
// defining entity) pair -- the identity rule of invariant 4.
func (g Generic) SameVariable(other Generic) bool {
	return g.Name == other.Name && g.DefiningEntity == other.DefiningEntity
}

// ClassnameCarrier is the `classname` bare type (any class name), distinct
// from ClassnameOf which pins a specific class.
type ClassnameCarrier struct{}

func (ClassnameCarrier) String() string      { return "classname" }
func (ClassnameCarrier) Generics() []Generic { return nil }

// TypenameCarrier is the `typename` bare type.
type TypenameCarrier struct{}

func (TypenameCarrier) String() string      { return "typename" }
func (TypenameCarrier) Generics() []Generic { return nil }

// Alias is a named alias over another type, optionally parameterized.
// ResolvedAs is filled in once the codebase index has resolved the
// alias body; until then it is nil and the alias atom is treated opaquely.
type Alias struct {
	Name       string
	Params     []string
	ResolvedAs *Union
}

func (a Alias) String() string {
	if a.ResolvedAs != nil {
		return a.Name
	}
	return a.Name + "?unresolved"
}

func (a Alias) Generics() []Generic {
	if a.ResolvedAs != nil {
		return a.ResolvedAs.Generics()
	}
	return nil
}

// ClassTypeConstant is `Foo::TConst`, resolved lazily during comparison.
type ClassTypeConstant struct {
	ClassName string
	ConstName string
}

func (c ClassTypeConstant) String() string      { return c.ClassName + "::" + c.ConstName }
func (c ClassTypeConstant) Generics() []Generic { return nil }

// TemplateVar is a constraint-solving placeholder created by the template
// engine's standin substitution; it is never user-written.
type TemplateVar struct {
	Name           string
	DefiningEntity EntityID
}

func (t TemplateVar) String() string      { return "#standin:" + t.Name }
func (t TemplateVar) Generics() []Generic { return nil }
