package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakana-go/hakana/internal/hast"
	"github.com/hakana-go/hakana/internal/token"
)

func node(kind hast.SignatureKind, name string, sigHash, bodyHash uint64, startOffset int) hast.SignatureNode {
	return hast.SignatureNode{
		Kind:          kind,
		Name:          name,
		SignatureHash: sigHash,
		BodyHash:      bodyHash,
		Pos:           token.Position{StartOffset: startOffset, EndOffset: startOffset + 10, StartLine: startOffset/10 + 1},
	}
}

func TestDiffKeepsUnchangedNode(t *testing.T) {
	old := []hast.SignatureNode{node(hast.SigFunction, "f", 1, 1, 0)}
	new := []hast.SignatureNode{node(hast.SigFunction, "f", 1, 1, 0)}

	res := Diff(old, new)
	require.Len(t, res.Keep, 1)
	assert.Empty(t, res.KeepSignature)
	assert.Empty(t, res.Added)
	assert.Empty(t, res.Deleted)
	assert.Empty(t, res.DiffMap)
}

func TestDiffTagsBodyOnlyChangeAsKeepSignature(t *testing.T) {
	old := []hast.SignatureNode{node(hast.SigFunction, "f", 1, 1, 0)}
	new := []hast.SignatureNode{node(hast.SigFunction, "f", 1, 2, 0)}

	res := Diff(old, new)
	assert.Empty(t, res.Keep)
	require.Len(t, res.KeepSignature, 1)
	assert.Equal(t, "f", res.KeepSignature[0].New.Name)
}

func TestDiffDetectsAddedAndDeletedNodes(t *testing.T) {
	old := []hast.SignatureNode{
		node(hast.SigFunction, "f", 1, 1, 0),
		node(hast.SigFunction, "g", 2, 2, 10),
	}
	new := []hast.SignatureNode{
		node(hast.SigFunction, "f", 1, 1, 0),
		node(hast.SigFunction, "h", 3, 3, 10),
	}

	res := Diff(old, new)
	require.Len(t, res.Keep, 1)
	require.Len(t, res.Deleted, 1)
	require.Len(t, res.Added, 1)
	assert.Equal(t, "g", res.Deleted[0].Name)
	assert.Equal(t, "h", res.Added[0].Name)
	require.Len(t, res.DeletionRanges, 1)
}

func TestDiffRecursesIntoMembersOfKeptClass(t *testing.T) {
	old := []hast.SignatureNode{
		node(hast.SigClass, "Worker", 1, 1, 0),
		node(hast.SigMethod, "Worker::run", 2, 2, 10),
		node(hast.SigMethod, "Worker::stop", 3, 3, 20),
	}
	new := []hast.SignatureNode{
		node(hast.SigClass, "Worker", 1, 1, 0),
		node(hast.SigMethod, "Worker::run", 2, 9, 10), // body changed
		node(hast.SigMethod, "Worker::start", 4, 4, 30), // replaces stop
	}

	res := Diff(old, new)
	// Worker itself is a keep; run is keep_signature; stop is deleted; start is added.
	require.Len(t, res.Keep, 1)
	assert.Equal(t, "Worker", res.Keep[0].New.Name)
	require.Len(t, res.KeepSignature, 1)
	assert.Equal(t, "Worker::run", res.KeepSignature[0].New.Name)
	require.Len(t, res.Deleted, 1)
	assert.Equal(t, "Worker::stop", res.Deleted[0].Name)
	require.Len(t, res.Added, 1)
	assert.Equal(t, "Worker::start", res.Added[0].Name)
}

func TestDiffProducesShiftForMovedKeptNode(t *testing.T) {
	old := []hast.SignatureNode{node(hast.SigFunction, "f", 1, 1, 0)}
	shifted := node(hast.SigFunction, "f", 1, 1, 0)
	shifted.Pos.StartOffset = 5
	shifted.Pos.EndOffset = 15
	new := []hast.SignatureNode{shifted}

	res := Diff(old, new)
	require.Len(t, res.DiffMap, 1)
	assert.Equal(t, 5, res.DiffMap[0].OffsetDelta)
}

func TestChangedSetUnionsKeepSignatureAndAddOrDelete(t *testing.T) {
	old := []hast.SignatureNode{
		node(hast.SigFunction, "f", 1, 1, 0),
		node(hast.SigFunction, "g", 2, 2, 10),
	}
	new := []hast.SignatureNode{
		node(hast.SigFunction, "f", 1, 2, 0), // body change -> keep_signature
		node(hast.SigFunction, "h", 3, 3, 10), // g deleted, h added
	}

	res := Diff(old, new)
	changed := res.ChangedSet()
	names := map[string]bool{}
	for _, n := range changed {
		names[n.Name] = true
	}
	assert.True(t, names["f"])
	assert.True(t, names["g"])
	assert.True(t, names["h"])
	assert.Len(t, changed, 3)
}

func TestDiffRenameIsDeleteThenAdd(t *testing.T) {
	old := []hast.SignatureNode{node(hast.SigFunction, "oldName", 1, 1, 0)}
	new := []hast.SignatureNode{node(hast.SigFunction, "newName", 1, 1, 0)}

	res := Diff(old, new)
	assert.Empty(t, res.Keep)
	require.Len(t, res.Deleted, 1)
	require.Len(t, res.Added, 1)
}

func TestMyersDiffHandlesEmptySequences(t *testing.T) {
	ops := myersDiff(0, 0, func(i, j int) bool { return true })
	assert.Empty(t, ops)
}

func TestMyersDiffAllInsertsWhenOldEmpty(t *testing.T) {
	ops := myersDiff(0, 3, func(i, j int) bool { return false })
	require.Len(t, ops, 3)
	for _, op := range ops {
		assert.Equal(t, opInsert, op.kind)
	}
}
