package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFullyQualifiedStripsLeadingSeparator(t *testing.T) {
	s := NewScope("App", nil)
	assert.Equal(t, "Foo\\Bar", Resolve(s, "\\Foo\\Bar", KindClass))
}

func TestResolveXHPStripsColon(t *testing.T) {
	s := NewScope("App", nil)
	assert.Equal(t, "ui-button", Resolve(s, ":ui-button", KindClass))
}

func TestResolveReservedIdentity(t *testing.T) {
	s := NewScope("App", nil)
	assert.Equal(t, "self", Resolve(s, "self", KindClass))
	assert.Equal(t, "parent", Resolve(s, "parent", KindClass))
}

func TestResolveNamespaceAliasAppliesToFirstComponent(t *testing.T) {
	s := NewScope("App", nil)
	s.NamespaceAliases["Vendor"] = "Acme\\Vendor"
	assert.Equal(t, "Acme\\Vendor\\Widget", Resolve(s, "Vendor\\Widget", KindClass))
}

func TestResolveSingleComponentUsesKindTable(t *testing.T) {
	s := NewScope("App", nil)
	s.FuncAliases["fmt"] = "App\\Formatting\\fmt"
	s.ConstAliases["MAX"] = "App\\Limits\\MAX"

	assert.Equal(t, "App\\Formatting\\fmt", Resolve(s, "fmt", KindFunc))
	assert.Equal(t, "App\\Limits\\MAX", Resolve(s, "MAX", KindConst))
}

func TestResolveFuncAliasIsCaseSensitive(t *testing.T) {
	s := NewScope("App", nil)
	s.FuncAliases["fmt"] = "App\\Formatting\\fmt"
	// "FMT" was never aliased under that exact case, so it falls through to
	// namespace-prepending rather than matching "fmt" case-insensitively.
	assert.Equal(t, "App\\FMT", Resolve(s, "FMT", KindFunc))
}

func TestResolveFallsBackToCurrentNamespace(t *testing.T) {
	s := NewScope("App\\Sub", nil)
	assert.Equal(t, "App\\Sub\\Thing", Resolve(s, "Thing", KindClass))
}

func TestResolveInheritsOuterScopeAliases(t *testing.T) {
	outer := NewScope("App", nil)
	outer.TypeAliases["Vec"] = "HH\\Vector"
	inner := NewScope("App\\Sub", outer)

	assert.Equal(t, "HH\\Vector", Resolve(inner, "Vec", KindClass))
}
