// Package differ computes the minimal re-analyze set between two parses of
// the same file by diffing their hast.SignatureNode sequences: a Myers
// shortest-edit-script at the top-level-declaration granularity, then the
// same algorithm recursed into the children (class members) of any pair of
// top-level nodes that kept the same name.
//
// The orchestrator's index phase feeds it the old and new signature lists
// for a changed file and uses the result to decide what to re-index and
// what to reanalyze, instead of redoing either for the whole file on every
// edit.
package differ

import (
	"strings"

	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/token"
)

// NodePair is a top-level-or-member node that survived between parses,
// matched by name.
type NodePair struct {
	Old hast.SignatureNode
	New hast.SignatureNode
}

// Shift records how much a kept node's position moved, so that positions
// cached elsewhere (diagnostics not yet emitted, data-flow node keys) can be
// translated into the new file without a full reanalysis.
type Shift struct {
	OldStart    int
	OldEnd      int
	OffsetDelta int
	LineDelta   int
}

// Result is the four bags plus the position-shift and deletion-range maps
// for one file's diff.
type Result struct {
	Keep           []NodePair
	KeepSignature  []NodePair
	Added          []hast.SignatureNode
	Deleted        []hast.SignatureNode
	DiffMap        []Shift
	DeletionRanges []token.Position
}

// ChangedSet returns the nodes that must be re-indexed and reanalyzed:
// keep_signature (body changed under a stable external shape) union
// added-or-deleted. Fully unchanged "keep" nodes are deliberately excluded
// — skipping them is the entire point of running the differ.
func (r Result) ChangedSet() []hast.SignatureNode {
	out := make([]hast.SignatureNode, 0, len(r.KeepSignature)+len(r.Added)+len(r.Deleted))
	for _, p := range r.KeepSignature {
		out = append(out, p.New)
	}
	out = append(out, r.Added...)
	out = append(out, r.Deleted...)
	return out
}

// Diff compares two ordered signature-node sequences for the same file.
func Diff(old, new []hast.SignatureNode) Result {
	oldTop, oldChildren := splitTopLevel(old)
	newTop, newChildren := splitTopLevel(new)

	res := &Result{}
	diffSequence(oldTop, newTop, res, oldChildren, newChildren)
	return *res
}

// diffSequence runs the Myers diff over one level (top-level declarations,
// or one class's members) and folds the result into res. oldChildren/
// newChildren are nil when diffing a children level — class members don't
// themselves have members to recurse into.
func diffSequence(old, new []hast.SignatureNode, res *Result, oldChildren, newChildren map[string][]hast.SignatureNode) {
	eq := func(i, j int) bool { return sameNode(old[i], new[j]) }
	ops := myersDiff(len(old), len(new), eq)

	for _, op := range ops {
		switch op.kind {
		case opKeep:
			o, n := old[op.aIdx], new[op.bIdx]
			pair := NodePair{Old: o, New: n}
			if o.BodyHash == n.BodyHash {
				res.Keep = append(res.Keep, pair)
			} else {
				res.KeepSignature = append(res.KeepSignature, pair)
			}

			if delta, lineDelta := n.Pos.StartOffset-o.Pos.StartOffset, n.Pos.StartLine-o.Pos.StartLine; delta != 0 || lineDelta != 0 {
				res.DiffMap = append(res.DiffMap, Shift{
					OldStart:    o.Pos.StartOffset,
					OldEnd:      o.Pos.EndOffset,
					OffsetDelta: delta,
					LineDelta:   lineDelta,
				})
			}

			if oldChildren != nil || newChildren != nil {
				diffSequence(oldChildren[o.Name], newChildren[n.Name], res, nil, nil)
			}

		case opDelete:
			d := old[op.aIdx]
			res.Deleted = append(res.Deleted, d)
			res.DeletionRanges = append(res.DeletionRanges, d.Pos)
			for _, c := range oldChildren[d.Name] {
				res.Deleted = append(res.Deleted, c)
				res.DeletionRanges = append(res.DeletionRanges, c.Pos)
			}

		case opInsert:
			a := new[op.bIdx]
			res.Added = append(res.Added, a)
			res.Added = append(res.Added, newChildren[a.Name]...)
		}
	}
}

// sameNode is the equality predicate the Myers diff runs on: kind, name,
// and signature_hash must all match. body_hash is compared separately
// (keep vs keep_signature), not here — a body-only edit must still count
// as the "same" node for the purposes of the edit script.
func sameNode(a, b hast.SignatureNode) bool {
	return a.Kind == b.Kind && a.Name == b.Name && a.SignatureHash == b.SignatureHash
}

// splitTopLevel separates a flat SignatureNode slice (as produced by
// hast.ExtractSignatures, which names members "Class::member") into its
// top-level declarations and a class-name-keyed map of member nodes.
func splitTopLevel(nodes []hast.SignatureNode) ([]hast.SignatureNode, map[string][]hast.SignatureNode) {
	var top []hast.SignatureNode
	children := make(map[string][]hast.SignatureNode)
	for _, n := range nodes {
		if owner, _, ok := strings.Cut(n.Name, "::"); ok {
			children[owner] = append(children[owner], n)
		} else {
			top = append(top, n)
		}
	}
	return top, children
}
