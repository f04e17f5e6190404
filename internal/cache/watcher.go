package cache

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MadAppGang/sourcemap/internal/logging"
)

// snapshotExt is the file suffix this watcher treats as a snapshot blob
// worth invalidating on change.
const snapshotExt = ".smap"

// Watcher monitors a directory tree for snapshot file changes and
// invalidates the corresponding Cache entries, debounced to batch rapid
// successive writes from a single rebuild.
type Watcher struct {
	watcher       *fsnotify.Watcher
	cache         *Cache
	logger        logging.Logger
	debounceTimer *time.Timer
	debounceDur   time.Duration
	pending       map[string]bool
	mu            sync.Mutex
	done          chan struct{}
	closed        bool
}

// NewWatcher creates a watcher rooted at root that invalidates entries in
// cache as their backing .smap files change.
func NewWatcher(root string, cache *Cache, logger logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &Watcher{
		watcher:     w,
		cache:       cache,
		logger:      logger,
		debounceDur: 500 * time.Millisecond,
		pending:     make(map[string]bool),
		done:        make(chan struct{}),
	}

	if err := watcher.watchRecursive(root); err != nil {
		w.Close()
		return nil, err
	}

	go watcher.watchLoop()

	logger.Infof("snapshot watcher started (root: %s, debounce: %s)", root, watcher.debounceDur)
	return watcher, nil
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() && w.shouldIgnore(path) {
			w.logger.Debugf("ignoring directory: %s", path)
			return filepath.SkipDir
		}

		if info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				w.logger.Warnf("failed to watch %s: %v", path, err)
			} else {
				w.logger.Debugf("watching directory: %s", path)
			}
		}

		return nil
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)

	ignoreDirs := []string{"node_modules", "vendor", ".git", "dist", "build", ".idea", ".vscode", "bin", "obj"}
	for _, ignore := range ignoreDirs {
		if base == ignore {
			return true
		}
	}

	return strings.HasPrefix(base, ".") && base != "."
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.shouldIgnore(event.Name) {
						if err := w.watcher.Add(event.Name); err != nil {
							w.logger.Warnf("failed to watch new directory %s: %v", event.Name, err)
						} else {
							w.logger.Debugf("started watching new directory: %s", event.Name)
						}
					}
				}
			}

			if !strings.HasSuffix(event.Name, snapshotExt) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.logger.Debugf("snapshot event: %s (%s)", event.Name, event.Op.String())
				w.handleChange(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("watcher error: %v", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleChange(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDur, w.processPending)
}

func (w *Watcher) processPending() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	for _, p := range paths {
		w.logger.Debugf("invalidating debounced change: %s", p)
		w.cache.Invalidate(p)
	}
}

// Close stops the watcher. Idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	return w.watcher.Close()
}
