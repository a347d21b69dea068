package fs

import (
	"sync"
	"time"
)

// cacheEntry is the last known content of one key's file.
type cacheEntry struct {
	Data    []byte
	ModTime time.Time
	Size    int64
	// Own marks an entry recorded by our own Store, used to tell our writes
	// apart from external ones in the watcher.
	Own bool
}

// cache keeps file contents keyed by storage key, validated against the
// file's mtime and size on every read.
type cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	hits    int
	misses  int
}

func newCache() *cache {
	return &cache{entries: make(map[string]*cacheEntry)}
}

// Get retrieves an entry if it exists and is fresh.
// Returns nil and false if miss or stale.
func (c *cache) Get(key string, modTime time.Time, size int64) (*cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || !entry.ModTime.Equal(modTime) || entry.Size != size {
		c.misses++
		return nil, false
	}
	c.hits++
	return entry, true
}

// Set updates an entry in the cache.
func (c *cache) Set(key string, entry *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
}

// Delete removes a single entry from the cache.
func (c *cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// IsOwn reports whether the file state matches our last write of key.
func (c *cache) IsOwn(key string, modTime time.Time, size int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	return ok && entry.Own && entry.ModTime.Equal(modTime) && entry.Size == size
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counters.
func (c *cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
