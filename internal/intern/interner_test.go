package intern

import "testing"

import "github.com/stretchr/testify/assert"

func TestInternIdempotent(t *testing.T) {
	tbl := New()
	a := tbl.Intern("foo")
	b := tbl.Intern("foo")
	assert.Equal(t, a, b)
	assert.Equal(t, "foo", tbl.Lookup(a))
}

func TestInternDistinct(t *testing.T) {
	tbl := New()
	a := tbl.Intern("foo")
	b := tbl.Intern("bar")
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, tbl.Len())
}

func TestTryLookupMissing(t *testing.T) {
	tbl := New()
	_, ok := tbl.TryLookup(ID(42))
	assert.False(t, ok)
}
