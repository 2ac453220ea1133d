// Package fsscan implements the read-only source-file enumeration API and
// the content-hash snapshotter the orchestrator's scan phase consults to
// classify every enumerated file as Added, Modified, Deleted, or
// Unchanged between two cycles.
package fsscan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/minio/highwayhash"
)

// SourceExtensions are the file extensions Enumerate considers source
// files; anything else under a root is skipped regardless of ignore
// globs.
var SourceExtensions = []string{".hack"}

// hashKey mirrors the fixed, non-secret HighwayHash key hast's signature
// hasher uses: these are content fingerprints for change detection, not a
// security boundary.
var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

func contentHash(data []byte) uint64 {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		panic(err)
	}
	h.Write(data)
	return h.Sum64()
}

// Enumerate walks every root, returning every regular file with a
// recognized source extension whose path does not match any of
// ignoreGlobs. A glob matches if filepath.Match succeeds against either
// the file's basename or its full walked path (the root joined with the
// path below it).
func Enumerate(roots []string, ignoreGlobs []string) ([]string, error) {
	var out []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if matchesAny(ignoreGlobs, d.Name(), path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !isSourceFile(path) {
				return nil
			}
			if matchesAny(ignoreGlobs, d.Name(), path) {
				return nil
			}
			out = append(out, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("enumerating %s: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

func isSourceFile(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range SourceExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

func matchesAny(globs []string, base, path string) bool {
	for _, g := range globs {
		if ok, _ := filepath.Match(g, base); ok {
			return true
		}
		if ok, _ := filepath.Match(g, path); ok {
			return true
		}
	}
	return false
}

// Fingerprint is one file's recorded state as of a snapshot: its content
// hash and size. Modification time is deliberately not part of the
// fingerprint — a touch with unchanged content must classify as
// Unchanged, matching the content-hash contract the differ relies on to
// skip unnecessary reanalysis.
type Fingerprint struct {
	ContentHash uint64
	Size        int64
}

// Snapshot is a file-path-keyed set of fingerprints, the `{file →
// (content_hash, size)}` map the orchestrator persists between cycles.
type Snapshot map[string]Fingerprint

// TakeSnapshot reads and hashes every path, returning the resulting
// Snapshot. A file that can no longer be read is omitted (Classify then
// reports it Deleted against a prior snapshot).
func TakeSnapshot(paths []string) (Snapshot, error) {
	snap := make(Snapshot, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		snap[p] = Fingerprint{ContentHash: contentHash(data), Size: int64(len(data))}
	}
	return snap, nil
}

// Status classifies one file's change between two snapshots.
type Status int

const (
	Unchanged Status = iota
	Added
	Modified
	Deleted
)

func (s Status) String() string {
	switch s {
	case Added:
		return "Added"
	case Modified:
		return "Modified"
	case Deleted:
		return "Deleted"
	default:
		return "Unchanged"
	}
}

// Classify compares prev against cur and returns every file's Status,
// keyed by path. A file present only in prev is Deleted; present only in
// cur is Added; present in both with an equal ContentHash is Unchanged,
// otherwise Modified.
func Classify(prev, cur Snapshot) map[string]Status {
	out := make(map[string]Status, len(prev)+len(cur))
	for path, fp := range cur {
		if old, ok := prev[path]; ok {
			if old.ContentHash == fp.ContentHash {
				out[path] = Unchanged
			} else {
				out[path] = Modified
			}
		} else {
			out[path] = Added
		}
	}
	for path := range prev {
		if _, ok := cur[path]; !ok {
			out[path] = Deleted
		}
	}
	return out
}
