// Package edit implements the conflict-checked, offset-sorted text-edit
// bundle every fix-producing component (the migration-symbol rewriter, the
// unused-definition remover, lint auto-fixes) builds up and the
// orchestrator applies at the end of a cycle.
//
// Edit{start, end, kind} is a half-open byte range plus a substitution
// kind; try_add rejects an edit overlapping any already-held one, and
// apply sorts by (start, end) then applies in reverse order so an
// earlier edit's offsets stay valid while later ones are applied.
package edit

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the tagged union of edit operations an Edit can carry.
type Kind interface {
	editKind()
}

// Substitute replaces the edit's range with Text.
type Substitute struct{ Text string }

// Remove deletes the edit's range outright.
type Remove struct{}

// TrimPrecedingWhitespace removes the range, and if everything between
// LineStart and the range's start is whitespace, removes that too (plus one
// preceding newline, so a removed statement doesn't leave a blank line).
type TrimPrecedingWhitespace struct{ LineStart int }

// TrimPrecedingWhitespaceAndTrailingComma is TrimPrecedingWhitespace plus
// swallowing one trailing comma immediately after the range — removing a
// list element without leaving a dangling comma behind.
type TrimPrecedingWhitespaceAndTrailingComma struct{ LineStart int }

// TrimTrailingWhitespace removes the range, then trims the remainder of the
// line (up to LineEnd) down to its non-whitespace content.
type TrimTrailingWhitespace struct{ LineEnd int }

func (Substitute) editKind()                                  {}
func (Remove) editKind()                                      {}
func (TrimPrecedingWhitespace) editKind()                      {}
func (TrimPrecedingWhitespaceAndTrailingComma) editKind()      {}
func (TrimTrailingWhitespace) editKind()                       {}

// Edit is a single text edit over a half-open byte range [Start, End).
type Edit struct {
	Start int
	End   int
	Kind  Kind
}

// NewSubstitute creates a replacement edit.
func NewSubstitute(start, end int, replacement string) Edit {
	return Edit{Start: start, End: end, Kind: Substitute{Text: replacement}}
}

// Insert creates a zero-width insertion at offset.
func Insert(offset int, text string) Edit {
	return Edit{Start: offset, End: offset, Kind: Substitute{Text: text}}
}

// Delete creates a plain removal of [start, end).
func Delete(start, end int) Edit {
	return Edit{Start: start, End: end, Kind: Remove{}}
}

// Overlaps reports whether e and other's half-open ranges intersect.
func (e Edit) Overlaps(other Edit) bool {
	return (e.Start >= other.Start && e.Start < other.End) ||
		(e.End > other.Start && e.End <= other.End) ||
		(other.Start >= e.Start && other.Start < e.End) ||
		(other.End > e.Start && other.End <= e.End)
}

func (e Edit) String() string {
	switch k := e.Kind.(type) {
	case Substitute:
		return fmt.Sprintf("%d..%d -> %q", e.Start, e.End, k.Text)
	case Remove:
		return fmt.Sprintf("%d..%d -> (remove)", e.Start, e.End)
	case TrimPrecedingWhitespace:
		return fmt.Sprintf("%d..%d -> (remove, trim preceding from %d)", e.Start, e.End, k.LineStart)
	case TrimPrecedingWhitespaceAndTrailingComma:
		return fmt.Sprintf("%d..%d -> (remove, trim preceding from %d, trim trailing comma)", e.Start, e.End, k.LineStart)
	case TrimTrailingWhitespace:
		return fmt.Sprintf("%d..%d -> (remove, trim trailing to %d)", e.Start, e.End, k.LineEnd)
	default:
		return fmt.Sprintf("%d..%d -> ?", e.Start, e.End)
	}
}

// Set is an accumulating, conflict-checked bundle of edits for one file.
type Set struct {
	edits []Edit
}

// NewSet returns an empty edit set.
func NewSet() *Set { return &Set{} }

// Add appends edit without any overlap check. Callers that have already
// established the edits are disjoint (e.g. a single pass over non-
// overlapping AST nodes) can use this to skip the O(n) scan try_add does.
func (s *Set) Add(e Edit) { s.edits = append(s.edits, e) }

// TryAdd adds edit unless it overlaps an edit already in the set, in which
// case it is rejected and the set is left unchanged.
func (s *Set) TryAdd(e Edit) bool {
	for _, existing := range s.edits {
		if e.Overlaps(existing) {
			return false
		}
	}
	s.edits = append(s.edits, e)
	return true
}

// Len reports the number of edits in the set.
func (s *Set) Len() int { return len(s.edits) }

// IsEmpty reports whether the set has no edits.
func (s *Set) IsEmpty() bool { return len(s.edits) == 0 }

// Edits returns the set's edits sorted by (Start, End) ascending.
func (s *Set) Edits() []Edit {
	sorted := make([]Edit, len(s.edits))
	copy(sorted, s.edits)
	// Stable: ties (same start,end — e.g. same-offset insertions) must keep
	// registration order so MergeInsertions' stacking behavior is deterministic.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})
	return sorted
}

// Apply renders source with every edit in the set applied. Edits are
// sorted, checked for overlaps, then applied back-to-front so that an
// earlier edit's byte offsets are never invalidated by a later one being
// applied first.
func (s *Set) Apply(source string) (string, error) {
	sorted := s.Edits()

	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].End > sorted[i+1].Start {
			return "", fmt.Errorf("overlapping edits: %s and %s", sorted[i], sorted[i+1])
		}
	}

	result := source
	for i := len(sorted) - 1; i >= 0; i-- {
		var err error
		result, err = applyOne(result, sorted[i])
		if err != nil {
			return "", err
		}
	}
	return result, nil
}

// MergeInsertions adds a zero-width Insert edit per text in insertions,
// keyed by offset. Multiple insertions recorded at the same offset are
// applied in reverse order, so the first one registered ends up first in
// the rendered output.
func (s *Set) MergeInsertions(insertions map[int][]string) {
	offsets := make([]int, 0, len(insertions))
	for off := range insertions {
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)
	for _, off := range offsets {
		texts := insertions[off]
		for _, text := range texts {
			s.edits = append(s.edits, Insert(off, text))
		}
	}
}

func applyOne(source string, e Edit) (string, error) {
	if e.Start > len(source) || e.End > len(source) {
		return "", fmt.Errorf("edit offset out of bounds: %s (source length: %d)", e, len(source))
	}

	switch k := e.Kind.(type) {
	case Substitute:
		return source[:e.Start] + k.Text + source[e.End:], nil

	case Remove:
		return source[:e.Start] + source[e.End:], nil

	case TrimPrecedingWhitespace:
		start := trimPrecedingStart(source, e.Start, k.LineStart)
		return source[:start] + source[e.End:], nil

	case TrimPrecedingWhitespaceAndTrailingComma:
		start := trimPrecedingStart(source, e.Start, k.LineStart)
		end := e.End
		if end < len(source) && source[end] == ',' {
			end++
		}
		return source[:start] + source[end:], nil

	case TrimTrailingWhitespace:
		if e.End > k.LineEnd || k.LineEnd > len(source) {
			return "", fmt.Errorf("invalid TrimTrailingWhitespace range in %s", e)
		}
		trimmed := strings.TrimSpace(source[e.End:k.LineEnd])
		return source[:e.Start] + trimmed + source[k.LineEnd:], nil

	default:
		return "", fmt.Errorf("unknown edit kind for %s", e)
	}
}

// trimPrecedingStart returns the real start offset for a
// TrimPrecedingWhitespace(AndTrailingComma) edit: start unless everything
// between lineStart and start is whitespace, in which case it walks back to
// lineStart, and one further byte if that lands on a preceding newline.
func trimPrecedingStart(source string, start, lineStart int) int {
	if lineStart < 0 || lineStart > start || start > len(source) {
		return start
	}
	if strings.TrimSpace(source[lineStart:start]) != "" {
		return start
	}
	actual := lineStart
	if actual > 0 && source[actual-1] == '\n' {
		actual--
	}
	return actual
}
