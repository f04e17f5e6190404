// Package cache provides an in-memory, invalidation-aware store of
// engines loaded from snapshot files on disk — the supporting
// infrastructure a build tool or language server needs on top of the
// core engine: load-once, serve-many, and drop an entry once its backing
// file changes (the Watcher debounces changes before invalidating).
package cache

import (
	"fmt"
	"os"
	"sync"

	sourcemap "github.com/MadAppGang/sourcemap"
	"github.com/MadAppGang/sourcemap/internal/logging"
)

// EngineGetter is the interface consumers depend on, so tests can supply
// a fake without standing up real files.
type EngineGetter interface {
	Get(snapshotPath string) (*sourcemap.Engine, error)
	Invalidate(snapshotPath string)
	InvalidateAll()
	Size() int
}

// Cache provides in-memory caching of engines loaded from snapshot blobs
// on disk, with double-checked locking so concurrent readers don't
// serialize on a cache hit.
type Cache struct {
	mu     sync.RWMutex
	maps   map[string]*sourcemap.Engine
	logger logging.Logger
}

// New creates an empty cache. A nil logger is replaced with a no-op one.
func New(logger logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Cache{
		maps:   make(map[string]*sourcemap.Engine),
		logger: logger,
	}
}

// Get returns the engine for snapshotPath, loading and parsing it from
// disk on a cache miss.
func (c *Cache) Get(snapshotPath string) (*sourcemap.Engine, error) {
	c.mu.RLock()
	if e, ok := c.maps[snapshotPath]; ok {
		c.mu.RUnlock()
		c.logger.Debugf("snapshot cache hit: %s", snapshotPath)
		return e, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check under the write lock: another goroutine may have loaded
	// this path between the RUnlock above and this Lock.
	if e, ok := c.maps[snapshotPath]; ok {
		return e, nil
	}

	blob, err := os.ReadFile(snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("snapshot not found: %s", snapshotPath)
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", snapshotPath, err)
	}

	e, err := sourcemap.FromBuffer(blob)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", snapshotPath, err)
	}

	c.maps[snapshotPath] = e
	c.logger.Infof("snapshot loaded: %s", snapshotPath)
	return e, nil
}

// Invalidate removes a single entry, called after its backing file
// changes on disk.
func (c *Cache) Invalidate(snapshotPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.maps[snapshotPath]; ok {
		delete(c.maps, snapshotPath)
		c.logger.Debugf("snapshot invalidated: %s", snapshotPath)
	}
}

// InvalidateAll clears the entire cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := len(c.maps)
	c.maps = make(map[string]*sourcemap.Engine)
	c.logger.Infof("all snapshots invalidated (%d entries cleared)", count)
}

// Size returns the number of cached entries.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.maps)
}
