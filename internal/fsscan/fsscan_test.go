package fsscan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEnumerateFindsSourceFilesAndSkipsOthers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.hack", "<<one>>")
	writeFile(t, dir, "b.txt", "not source")
	writeFile(t, dir, "sub/c.hack", "<<two>>")

	files, err := Enumerate([]string{dir}, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.Equal(t, ".hack", filepath.Ext(f))
	}
}

func TestEnumerateHonorsIgnoreGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.hack", "kept")
	writeFile(t, dir, "vendor/skip.hack", "skipped")

	files, err := Enumerate([]string{dir}, []string{"vendor"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "keep.hack"), files[0])
}

func TestClassifyDetectsAddedModifiedDeletedUnchanged(t *testing.T) {
	prev := Snapshot{
		"a.hack": {ContentHash: 1, Size: 10},
		"b.hack": {ContentHash: 2, Size: 20},
	}
	cur := Snapshot{
		"a.hack": {ContentHash: 1, Size: 10}, // unchanged
		"b.hack": {ContentHash: 9, Size: 20}, // modified
		"c.hack": {ContentHash: 3, Size: 5},  // added
	}

	result := Classify(prev, cur)
	assert.Equal(t, Unchanged, result["a.hack"])
	assert.Equal(t, Modified, result["b.hack"])
	assert.Equal(t, Added, result["c.hack"])
}

func TestClassifyDetectsDeleted(t *testing.T) {
	prev := Snapshot{"gone.hack": {ContentHash: 1}}
	cur := Snapshot{}

	result := Classify(prev, cur)
	assert.Equal(t, Deleted, result["gone.hack"])
}

func TestTakeSnapshotHashesFileContent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.hack", "hello")

	snap, err := TakeSnapshot([]string{path})
	require.NoError(t, err)
	require.Contains(t, snap, path)
	assert.NotZero(t, snap[path].ContentHash)
	assert.Equal(t, int64(5), snap[path].Size)
}

func TestTakeSnapshotSameContentSameHash(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFile(t, dir, "one.hack", "identical content")
	p2 := writeFile(t, dir, "two.hack", "identical content")

	snap, err := TakeSnapshot([]string{p1, p2})
	require.NoError(t, err)
	assert.Equal(t, snap[p1].ContentHash, snap[p2].ContentHash)
}

func TestStatusStringMatchesEnumName(t *testing.T) {
	assert.Equal(t, "Added", Added.String())
	assert.Equal(t, "Modified", Modified.String())
	assert.Equal(t, "Deleted", Deleted.String())
	assert.Equal(t, "Unchanged", Unchanged.String())
}
