package diagnostics

import (
	"regexp"
	"strconv"

	"github.com/hakana-go/hakana/internal/token"
)

var fixmePattern = regexp.MustCompile(`HAKANA_(FIXME|IGNORE)\[([A-Za-z0-9_]+)\]`)
var hhFixmePattern = regexp.MustCompile(`HH_FIXME\[(\d+)\]`)

// hhFixmeKindClasses maps the upstream Hack typechecker's numeric FIXME
// codes to the taxonomy classes they suppress: 4110 covers the "unify
// error" family, plus the handful of sibling codes that family uses.
var hhFixmeKindClasses = map[int][]Kind{
	4110: {InvalidArgument, InvalidReturnType, InvalidPropertyAssignment, MixedUsage},
	4064: {UndefinedVariable},
	4053: {UndefinedMember},
	4009: {UndefinedClass},
}

// Suppressions indexes comment-derived suppression directives by the line
// they apply to (the statement on the line after the comment), so the
// analyzer can consult it in O(1) when about to emit an issue.
type Suppressions struct {
	byLine map[int][]Kind // explicit kind suppressions
	blanketByLine map[int]bool // HAKANA_IGNORE / HAKANA_FIXME with no explicit successful match still suppresses nothing; kept for parity
}

// BuildSuppressions scans the parser's comment stream for
// HAKANA_FIXME[Kind], HAKANA_IGNORE[Kind], and HH_FIXME[N] markers and
// indexes them by the line of the statement they precede.
func BuildSuppressions(comments []token.Comment) *Suppressions {
	s := &Suppressions{byLine: make(map[int][]Kind), blanketByLine: make(map[int]bool)}
	for _, c := range comments {
		text := ""
		if c.Line != nil {
			text = *c.Line
		} else if c.Block != nil {
			text = *c.Block
		}
		targetLine := c.Pos.EndLine + 1

		for _, m := range fixmePattern.FindAllStringSubmatch(text, -1) {
			s.byLine[targetLine] = append(s.byLine[targetLine], Kind(m[2]))
		}
		for _, m := range hhFixmePattern.FindAllStringSubmatch(text, -1) {
			code, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if kinds, ok := hhFixmeKindClasses[code]; ok {
				s.byLine[targetLine] = append(s.byLine[targetLine], kinds...)
			}
		}
	}
	return s
}

// Suppresses reports whether an issue of the given kind at the given line
// is covered by a preceding FIXME/IGNORE comment.
func (s *Suppressions) Suppresses(line int, kind Kind) bool {
	if s == nil {
		return false
	}
	for _, k := range s.byLine[line] {
		if k == kind {
			return true
		}
	}
	return false
}

// Filter removes suppressed issues from issues, marking FixmeAdded on the
// survivors is not applicable here (FixmeAdded is set by the edit engine
// when *adding* a new fixme comment as part of an auto-fix, not by this
// read path).
func (s *Suppressions) Filter(issues []*Issue) []*Issue {
	if s == nil {
		return issues
	}
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		if s.Suppresses(i.Pos.StartLine, i.Kind) {
			continue
		}
		out = append(out, i)
	}
	return out
}
