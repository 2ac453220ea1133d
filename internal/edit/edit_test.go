package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySingleSubstitution(t *testing.T) {
	s := NewSet()
	s.Add(NewSubstitute(6, 11, "rust"))
	result, err := s.Apply("hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello rust", result)
}

func TestApplyMultipleEdits(t *testing.T) {
	s := NewSet()
	s.Add(NewSubstitute(0, 5, "goodbye"))
	s.Add(NewSubstitute(6, 11, "rust"))
	result, err := s.Apply("hello world")
	require.NoError(t, err)
	assert.Equal(t, "goodbye rust", result)
}

func TestApplyInsertion(t *testing.T) {
	s := NewSet()
	s.Add(Insert(5, " beautiful"))
	result, err := s.Apply("hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello beautiful world", result)
}

func TestApplyDeletion(t *testing.T) {
	s := NewSet()
	s.Add(Delete(5, 16))
	result, err := s.Apply("hello beautiful world")
	require.NoError(t, err)
	assert.Equal(t, "helloworld", result)
}

func TestTrimPrecedingWhitespaceRemovesBlankLine(t *testing.T) {
	source := "line1\n    to_remove\nline3"
	s := NewSet()
	s.Add(Edit{Start: 10, End: 19, Kind: TrimPrecedingWhitespace{LineStart: 6}})
	result, err := s.Apply(source)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline3", result)
}

func TestTrimPrecedingWhitespaceAndTrailingCommaRemovesComma(t *testing.T) {
	source := "f(a, b, c)"
	// remove " b" at offsets 4..6 plus its preceding whitespace (none to
	// trim back past, line_start==start) and the comma immediately after.
	s := NewSet()
	s.Add(Edit{Start: 4, End: 6, Kind: TrimPrecedingWhitespaceAndTrailingComma{LineStart: 4}})
	result, err := s.Apply(source)
	require.NoError(t, err)
	assert.Equal(t, "f(a, c)", result)
}

func TestTrimTrailingWhitespaceCollapsesToLineEnd(t *testing.T) {
	source := "foo   \nbar"
	s := NewSet()
	// remove "foo", then collapse the trailing spaces before the newline.
	s.Add(Edit{Start: 0, End: 3, Kind: TrimTrailingWhitespace{LineEnd: 6}})
	result, err := s.Apply(source)
	require.NoError(t, err)
	assert.Equal(t, "\nbar", result)
}

func TestOverlappingEditsRejectedOnApply(t *testing.T) {
	s := NewSet()
	s.Add(NewSubstitute(0, 8, "goodbye"))
	s.Add(NewSubstitute(6, 11, "rust"))
	_, err := s.Apply("hello world")
	assert.Error(t, err)
}

func TestTryAddPreventsOverlap(t *testing.T) {
	s := NewSet()
	assert.True(t, s.TryAdd(NewSubstitute(0, 8, "goodbye")))
	assert.False(t, s.TryAdd(NewSubstitute(6, 11, "rust")))
	assert.Equal(t, 1, s.Len())
}

func TestTryAddAllowsAdjacentRanges(t *testing.T) {
	s := NewSet()
	assert.True(t, s.TryAdd(NewSubstitute(0, 5, "a")))
	assert.True(t, s.TryAdd(NewSubstitute(5, 10, "b")))
	assert.Equal(t, 2, s.Len())
}

func TestMergeInsertionsAppliesReverseOrderPerOffset(t *testing.T) {
	s := NewSet()
	s.MergeInsertions(map[int][]string{5: {"first", "second"}})
	result, err := s.Apply("helloworld")
	require.NoError(t, err)
	assert.Equal(t, "hellofirstsecondworld", result)
}

func TestEditsAreSortedByStartThenEnd(t *testing.T) {
	s := NewSet()
	s.Add(NewSubstitute(6, 11, "b"))
	s.Add(NewSubstitute(0, 5, "a"))
	edits := s.Edits()
	require.Len(t, edits, 2)
	assert.Equal(t, 0, edits[0].Start)
	assert.Equal(t, 6, edits[1].Start)
}
