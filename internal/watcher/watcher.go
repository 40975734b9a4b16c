// Package watcher reports filesystem changes under the directory of the
// currently selected entry so stale preview cache entries can be
// invalidated. Events are debounced per path: editors often produce
// bursts of writes for a single save.
package watcher

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lumipallolabs/peektree/internal/logging"
)

// DebounceWindow coalesces event bursts for one path.
const DebounceWindow = 250 * time.Millisecond

// Watcher watches a single directory at a time.
type Watcher struct {
	fsw    *fsnotify.Watcher
	events chan string

	mu      sync.Mutex
	dir     string
	pending map[string]*time.Timer
	closed  bool
}

// New creates a watcher. The caller consumes Events and must Close it.
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:     fsw,
		events:  make(chan string, 64),
		pending: make(map[string]*time.Timer),
	}
	go w.loop()
	return w, nil
}

// Events delivers debounced paths that changed on disk.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Watch replaces the watched directory. Watching the same directory
// again is a no-op.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dir == dir {
		return nil
	}
	if w.dir != "" {
		if err := w.fsw.Remove(w.dir); err != nil {
			logging.Debug.Printf("watcher: remove %s: %v", w.dir, err)
		}
	}
	if err := w.fsw.Add(dir); err != nil {
		w.dir = ""
		return err
	}
	w.dir = dir
	return nil
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	for _, t := range w.pending {
		t.Stop()
	}
	w.pending = make(map[string]*time.Timer)
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.schedule(ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Debug.Printf("watcher: %v", err)
		}
	}
}

// schedule arms (or re-arms) the debounce timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(DebounceWindow, func() {
		w.mu.Lock()
		delete(w.pending, path)
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}
		select {
		case w.events <- path:
		default:
			// Consumer is behind; dropping is fine, the cache check
			// falls back to the fingerprint.
		}
	})
}
