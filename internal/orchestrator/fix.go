package orchestrator

import (
	"fmt"

	"github.com/hakana-go/hakana/internal/diagnostics"
	"github.com/hakana-go/hakana/internal/edit"
)

// buildFixes builds one edit.Set per file for every issue whose kind is
// configured to auto-fix (issues_to_fix). Every auto-fixable kind in this
// engine fixes the same way: insert a HAKANA_FIXME[Kind] comment before the
// offending statement, a suppression the next cycle's comment scan will
// honor. Rewriting or deleting the offending code outright is left to a
// human, or to a future, kind-specific fixer.
func (o *Orchestrator) buildFixes(issues *diagnostics.Set) map[string]*edit.Set {
	sets := make(map[string]*edit.Set)
	for _, iss := range issues.Sorted() {
		if !iss.CanAutoFix() || !o.Config.ShouldFix(string(iss.Kind)) {
			continue
		}

		offset := iss.Pos.StartOffset
		if iss.Pos.InsertionStart != nil {
			offset = *iss.Pos.InsertionStart
		}

		set, ok := sets[iss.File]
		if !ok {
			set = edit.NewSet()
			sets[iss.File] = set
		}

		comment := fmt.Sprintf("/* HAKANA_FIXME[%s] */\n", iss.Kind)
		if set.TryAdd(edit.Insert(offset, comment)) {
			iss.FixmeAdded = true
		}
	}
	return sets
}
