package codebase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/ttype"
)

func classDecl(name string, kind hast.ClassKind, parents, interfaces, traits []string) *hast.ClassLike {
	return &hast.ClassLike{Name: name, Kind: kind, Parents: parents, Interfaces: interfaces, TraitUses: traits}
}

func TestTransitiveParentAndInterfaceClosure(t *testing.T) {
	idx := New()
	idx.IndexDeclarations("a.hack", &hast.Program{Decls: []hast.Decl{
		classDecl("Animal", hast.KindClass, nil, []string{"Nameable"}, nil),
		classDecl("Dog", hast.KindClass, []string{"Animal"}, []string{"Barks"}, nil),
		classDecl("Puppy", hast.KindClass, []string{"Dog"}, nil, nil),
		classDecl("Nameable", hast.KindInterface, nil, nil, nil),
		classDecl("Barks", hast.KindInterface, nil, nil, nil),
	}})

	idx.ComputeClosures([]string{"Animal", "Dog", "Puppy", "Nameable", "Barks"})

	puppy := idx.Classes["Puppy"]
	require.NotNil(t, puppy)
	assert.ElementsMatch(t, []string{"Dog", "Animal"}, puppy.AllParentClasses)
	assert.ElementsMatch(t, []string{"Barks", "Nameable"}, puppy.AllClassInterfaces)
}

func TestDeclaringMethodWalksTraitsThenParents(t *testing.T) {
	idx := New()
	idx.IndexDeclarations("a.hack", &hast.Program{Decls: []hast.Decl{
		classDecl("Base", hast.KindClass, nil, nil, nil),
		classDecl("Helper", hast.KindTrait, nil, nil, nil),
	}})
	idx.Classes["Base"].Methods["shared"] = &FunctionInfo{Name: "shared", ClassName: "Base"}
	idx.Classes["Base"].DeclaringMethodID["shared"] = "Base::shared"
	idx.Classes["Helper"].Methods["greet"] = &FunctionInfo{Name: "greet", ClassName: "Helper"}
	idx.Classes["Helper"].DeclaringMethodID["greet"] = "Helper::greet"

	idx.IndexDeclarations("b.hack", &hast.Program{Decls: []hast.Decl{
		classDecl("Child", hast.KindClass, []string{"Base"}, nil, []string{"Helper"}),
	}})

	idx.ComputeClosures([]string{"Base", "Helper", "Child"})

	child := idx.Classes["Child"]
	require.NotNil(t, child)
	assert.Equal(t, "Helper::greet", child.DeclaringMethodID["greet"])
	assert.Equal(t, "Base::shared", child.DeclaringMethodID["shared"])
}

func TestSymbolReferencesTracksFunctionToClassMember(t *testing.T) {
	refs := newSymbolReferences()
	refs.AddReferenceToClassMember(CallingContext{Function: "main"}, Member{Class: "Logger", Member: "log"})

	members := refs.ReferencedClassMembers()
	assert.True(t, members[Member{Class: "Logger", Member: "log"}])

	symbols := refs.ReferencedSymbols()
	assert.True(t, symbols["Logger"])
}

func TestSymbolReferencesMergeUnionsEdges(t *testing.T) {
	a := newSymbolReferences()
	a.AddReferenceToSymbol(CallingContext{Function: "f"}, "X")

	b := newSymbolReferences()
	b.AddReferenceToSymbol(CallingContext{Function: "f"}, "Y")

	a.Merge(b)
	assert.True(t, a.symbolToSymbols["f"]["X"])
	assert.True(t, a.symbolToSymbols["f"]["Y"])
}

func TestExtendedParamsIdentityWhenSameClass(t *testing.T) {
	idx := New()
	view := idx.ClassInfoView()
	params := []ttype.Union{ttype.Single(ttype.Primitive{Kind: ttype.PInt})}
	got, ok := view.ExtendedParams("Box", params, "Box")
	require.True(t, ok)
	assert.Equal(t, params, got)
}

func TestExtendedParamsComposesThroughParent(t *testing.T) {
	idx := New()
	idx.IndexDeclarations("a.hack", &hast.Program{Decls: []hast.Decl{
		classDecl("Container", hast.KindInterface, nil, nil, nil),
	}})
	idx.Classes["Container"].Templates = []hast.TemplateParam{{Name: "T"}}

	idx.Classes["Box"] = &ClassInfo{
		Name:       "Box",
		Interfaces: []string{"Container"},
		Templates:  []hast.TemplateParam{{Name: "U"}},
	}

	view := idx.ClassInfoView()
	params := []ttype.Union{ttype.Single(ttype.Primitive{Kind: ttype.PString})}
	got, ok := view.ExtendedParams("Box", params, "Container")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(ttype.Single(ttype.Primitive{Kind: ttype.PString})))
}
