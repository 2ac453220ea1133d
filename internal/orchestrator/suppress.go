package orchestrator

import (
	"regexp"
	"strconv"

	"github.com/hakana-go/hakana/internal/diagnostics"
	"github.com/hakana-go/hakana/internal/token"
)

var fixmePattern = regexp.MustCompile(`HAKANA_(?:FIXME|IGNORE)\[(\w+)\]`)
var hhFixmePattern = regexp.MustCompile(`HH_FIXME\[(\d+)\]`)

// hhFixmeKinds maps the upstream typechecker's numeric error codes onto the
// issue kinds they subsume. 4110 is HHVM's "unify error" family: any
// declared-type mismatch the type checker collapses into one code.
var hhFixmeKinds = map[int][]diagnostics.Kind{
	4110: {
		diagnostics.InvalidArgument,
		diagnostics.InvalidReturnType,
		diagnostics.InvalidPropertyAssignment,
		diagnostics.MixedUsage,
	},
}

// filterIssues drops anything outside the configured allowed_issues set,
// then anything suppressed by a HAKANA_FIXME/HAKANA_IGNORE/HH_FIXME comment
// on the line directly above the issue's position.
func (o *Orchestrator) filterIssues(issues *diagnostics.Set) *diagnostics.Set {
	out := diagnostics.NewSet()
	for _, iss := range issues.Sorted() {
		if !o.Config.IsAllowed(string(iss.Kind)) {
			continue
		}
		if o.suppressed(iss) {
			continue
		}
		out.Add(iss)
	}
	return out
}

func (o *Orchestrator) suppressed(iss *diagnostics.Issue) bool {
	comments := o.comments[iss.File]
	for _, c := range comments {
		if c.Pos.StartLine != iss.Pos.StartLine-1 {
			continue
		}
		text := commentText(c)
		if m := fixmePattern.FindStringSubmatch(text); m != nil && m[1] == string(iss.Kind) {
			return true
		}
		if m := hhFixmePattern.FindStringSubmatch(text); m != nil {
			code, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			for _, k := range hhFixmeKinds[code] {
				if k == iss.Kind {
					return true
				}
			}
		}
	}
	return false
}

func commentText(c token.Comment) string {
	if c.Line != nil {
		return *c.Line
	}
	if c.Block != nil {
		return *c.Block
	}
	return ""
}
