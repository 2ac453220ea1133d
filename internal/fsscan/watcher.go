package fsscan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is one debounced filesystem change the watcher reports: a
// FileStatus the orchestrator's next cycle should treat in place of
// running its own snapshot diff for that path.
type Event struct {
	Path   string
	Status Status
}

// Watcher is the optional collaborator mentioned in the source-file
// system contract: fsscan itself never watches files on its own, but a
// Watcher can be started alongside the orchestrator to push debounced
// Events into its next-cycle input instead of letting it re-enumerate
// from scratch every cycle.
type Watcher struct {
	roots       []string
	ignoreGlobs []string
	debounce    time.Duration

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]fsnotify.Op
}

// NewWatcher creates a Watcher over roots, applying the same ignore
// globs and source-extension filter Enumerate uses.
func NewWatcher(roots []string, ignoreGlobs []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Watcher{
		roots:       roots,
		ignoreGlobs: ignoreGlobs,
		debounce:    debounce,
		fsw:         fsw,
		pending:     make(map[string]fsnotify.Op),
	}, nil
}

// Start begins watching every root directory (and any subdirectory
// fsnotify reports a create event for) and returns a channel of
// debounced Events. The channel closes when ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) (<-chan Event, error) {
	for _, root := range w.roots {
		if err := w.addTree(root); err != nil {
			return nil, err
		}
	}

	out := make(chan Event)
	go w.run(ctx, out)
	return out, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if matchesAny(w.ignoreGlobs, filepath.Base(path), path) {
				return filepath.SkipDir
			}
			return w.fsw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context, out chan<- Event) {
	defer close(out)
	defer w.fsw.Close()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addTree(ev.Name)
					continue
				}
			}
			if !isSourceFile(ev.Name) {
				continue
			}
			if matchesAny(w.ignoreGlobs, filepath.Base(ev.Name), ev.Name) {
				continue
			}
			w.mu.Lock()
			w.pending[ev.Name] = w.pending[ev.Name] | ev.Op
			w.mu.Unlock()
		case <-w.fsw.Errors:
			// A watch error for one path does not invalidate the others;
			// the next snapshot-based cycle will catch anything missed.
		case <-ticker.C:
			w.flush(out)
		}
	}
}

func (w *Watcher) flush(out chan<- Event) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.mu.Unlock()

	for path, op := range batch {
		out <- Event{Path: path, Status: statusFromOp(op)}
	}
}

func statusFromOp(op fsnotify.Op) Status {
	switch {
	case op&fsnotify.Remove != 0, op&fsnotify.Rename != 0:
		return Deleted
	case op&fsnotify.Create != 0:
		return Added
	default:
		return Modified
	}
}
