package codebase

// Member identifies a classlike member: (class name, member name).
type Member struct {
	Class  string
	Member string
}

// SymbolReferences is the reverse-reference map the incremental
// re-indexer and dead-code detector both consult: which symbols reference
// which other symbols or classlike members. Keys are plain Go strings and
// Members rather than reference-counted handles, since the interner
// already owns string identity and there is no sharing problem left to
// solve here.
type SymbolReferences struct {
	symbolToMembers           map[string]map[Member]bool
	symbolToSymbols           map[string]map[string]bool
	memberToMembers           map[Member]map[Member]bool
	memberToSymbols           map[Member]map[string]bool
	symbolToOverriddenMembers map[string]map[Member]bool
	memberToOverriddenMembers map[Member]map[Member]bool
	functionReturnReferences  map[string]map[string]bool
}

func newSymbolReferences() *SymbolReferences {
	return &SymbolReferences{
		symbolToMembers:           make(map[string]map[Member]bool),
		symbolToSymbols:           make(map[string]map[string]bool),
		memberToMembers:           make(map[Member]map[Member]bool),
		memberToSymbols:           make(map[Member]map[string]bool),
		symbolToOverriddenMembers: make(map[string]map[Member]bool),
		memberToOverriddenMembers: make(map[Member]map[Member]bool),
		functionReturnReferences:  make(map[string]map[string]bool),
	}
}

// AddSymbolReferenceToSymbol records that referencingSymbol uses symbol.
func (r *SymbolReferences) AddSymbolReferenceToSymbol(referencingSymbol, symbol string) {
	addEdge(r.symbolToSymbols, referencingSymbol, symbol)
}

// AddSymbolReferenceToClassMember records that referencingSymbol (a
// function or class name) uses classMember; this also counts as a
// reference to the member's owning class.
func (r *SymbolReferences) AddSymbolReferenceToClassMember(referencingSymbol string, classMember Member) {
	r.AddSymbolReferenceToSymbol(referencingSymbol, classMember.Class)
	addEdge(r.symbolToMembers, referencingSymbol, classMember)
}

// AddClassMemberReferenceToClassMember records that one classlike member
// uses another.
func (r *SymbolReferences) AddClassMemberReferenceToClassMember(referencing, member Member) {
	r.AddSymbolReferenceToSymbol(referencing.Class, member.Class)
	addEdge(r.memberToMembers, referencing, member)
}

// AddClassMemberReferenceToSymbol records that a classlike member uses a
// free-standing symbol (a function, typedef, or class name).
func (r *SymbolReferences) AddClassMemberReferenceToSymbol(referencing Member, symbol string) {
	r.AddSymbolReferenceToSymbol(referencing.Class, symbol)
	addEdge(r.memberToSymbols, referencing, symbol)
}

// CallingContext is the minimal "who is executing this reference" context
// the flow analyzer threads through a function body walk: at most one of
// Function or Method is set.
type CallingContext struct {
	Function string
	Method   Member
}

func (c CallingContext) isMethod() bool { return c.Method.Class != "" }

// AddReferenceToClassMember records a reference to classMember from
// whichever calling context is active.
func (r *SymbolReferences) AddReferenceToClassMember(ctx CallingContext, classMember Member) {
	switch {
	case ctx.Function != "":
		r.AddSymbolReferenceToClassMember(ctx.Function, classMember)
	case ctx.isMethod():
		r.AddClassMemberReferenceToClassMember(ctx.Method, classMember)
	}
}

// AddReferenceToOverriddenClassMember records that ctx's code overrides
// (or calls through to an override of) classMember, tracked separately
// from plain references because override edges need their own traversal
// when deciding whether a parent method is genuinely unused.
func (r *SymbolReferences) AddReferenceToOverriddenClassMember(ctx CallingContext, classMember Member) {
	switch {
	case ctx.Function != "":
		addEdge(r.symbolToOverriddenMembers, ctx.Function, classMember)
	case ctx.isMethod():
		addEdge(r.memberToOverriddenMembers, ctx.Method, classMember)
	}
}

// AddReferenceToSymbol records a reference to symbol from whichever
// calling context is active.
func (r *SymbolReferences) AddReferenceToSymbol(ctx CallingContext, symbol string) {
	switch {
	case ctx.Function != "":
		r.AddSymbolReferenceToSymbol(ctx.Function, symbol)
	case ctx.isMethod():
		r.AddClassMemberReferenceToSymbol(ctx.Method, symbol)
	}
}

// AddReferenceToFunctionlikeReturn records that referencing uses the
// return value of functionlike, so dead-code analysis can tell whether a
// function's return value is ever consumed.
func (r *SymbolReferences) AddReferenceToFunctionlikeReturn(referencing, functionlike string) {
	addEdge(r.functionReturnReferences, referencing, functionlike)
}

// Merge folds other's edges into r, used when per-file reference sets
// computed by parallel body analysis are combined into the whole-program
// map.
func (r *SymbolReferences) Merge(other *SymbolReferences) {
	mergeSymbolMembers(r.symbolToMembers, other.symbolToMembers)
	mergeSymbolSymbols(r.symbolToSymbols, other.symbolToSymbols)
	mergeMemberMembers(r.memberToMembers, other.memberToMembers)
	mergeMemberSymbols(r.memberToSymbols, other.memberToSymbols)
	mergeSymbolMembers(r.symbolToOverriddenMembers, other.symbolToOverriddenMembers)
	mergeMemberMembers(r.memberToOverriddenMembers, other.memberToOverriddenMembers)
	mergeSymbolSymbols(r.functionReturnReferences, other.functionReturnReferences)
}

// ReferencedSymbols returns every symbol referenced by anything.
func (r *SymbolReferences) ReferencedSymbols() map[string]bool {
	out := make(map[string]bool)
	for _, targets := range r.symbolToSymbols {
		for t := range targets {
			out[t] = true
		}
	}
	return out
}

// ReferencedClassMembers returns every classlike member referenced by
// anything, whether the reference came from a free symbol or another
// member.
func (r *SymbolReferences) ReferencedClassMembers() map[Member]bool {
	out := make(map[Member]bool)
	for _, targets := range r.symbolToMembers {
		for t := range targets {
			out[t] = true
		}
	}
	for _, targets := range r.memberToMembers {
		for t := range targets {
			out[t] = true
		}
	}
	return out
}

// ReferencedOverriddenClassMembers returns every classlike member
// referenced through an override edge.
func (r *SymbolReferences) ReferencedOverriddenClassMembers() map[Member]bool {
	out := make(map[Member]bool)
	for _, targets := range r.symbolToOverriddenMembers {
		for t := range targets {
			out[t] = true
		}
	}
	for _, targets := range r.memberToOverriddenMembers {
		for t := range targets {
			out[t] = true
		}
	}
	return out
}

func addEdge[K comparable, V comparable](m map[K]map[V]bool, k K, v V) {
	set, ok := m[k]
	if !ok {
		set = make(map[V]bool)
		m[k] = set
	}
	set[v] = true
}

func mergeSymbolSymbols(dst, src map[string]map[string]bool) {
	for k, v := range src {
		for t := range v {
			addEdge(dst, k, t)
		}
	}
}

func mergeSymbolMembers(dst map[string]map[Member]bool, src map[string]map[Member]bool) {
	for k, v := range src {
		for t := range v {
			addEdge(dst, k, t)
		}
	}
}

func mergeMemberMembers(dst map[Member]map[Member]bool, src map[Member]map[Member]bool) {
	for k, v := range src {
		for t := range v {
			addEdge(dst, k, t)
		}
	}
}

func mergeMemberSymbols(dst map[Member]map[string]bool, src map[Member]map[string]bool) {
	for k, v := range src {
		for t := range v {
			addEdge(dst, k, t)
		}
	}
}
