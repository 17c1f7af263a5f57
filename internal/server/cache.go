package server

import (
	"context"
	"sync"
	"time"

	"github.com/mj1618/layout-inspector/internal/inspector"
	"github.com/mj1618/layout-inspector/internal/model"
)

// cacheEntry holds a snapshot with the time it was taken.
type cacheEntry struct {
	snapshot  *model.Snapshot
	timestamp time.Time
}

// SnapshotCache provides a TTL-based cache of snapshots per root. It also
// remembers the snapshot served before the current one, so a console can
// ask what changed.
type SnapshotCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	prev    map[string]*model.Snapshot
	ttl     time.Duration
	now     func() time.Time
}

// NewSnapshotCache creates a new cache. A ttl of 0 disables caching.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		entries: make(map[string]cacheEntry),
		prev:    make(map[string]*model.Snapshot),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Snapshot returns the cached snapshot of root if within TTL, otherwise
// takes a fresh one. An empty root means the inspector's first root.
func (c *SnapshotCache) Snapshot(ctx context.Context, in *inspector.Inspector, root string) (string, *model.Snapshot, error) {
	name, err := rootName(in, root)
	if err != nil {
		return "", nil, err
	}
	if c.ttl > 0 {
		c.mu.Lock()
		if entry, ok := c.entries[name]; ok && c.now().Sub(entry.timestamp) < c.ttl {
			c.mu.Unlock()
			return name, entry.snapshot, nil
		}
		c.mu.Unlock()
	}
	return c.Refresh(ctx, in, name)
}

// Refresh takes a fresh snapshot of root regardless of TTL.
func (c *SnapshotCache) Refresh(ctx context.Context, in *inspector.Inspector, root string) (string, *model.Snapshot, error) {
	name, s, err := in.GetSnapshot(ctx, root)
	if err != nil {
		return name, nil, err
	}

	c.mu.Lock()
	if entry, ok := c.entries[name]; ok {
		c.prev[name] = entry.snapshot
	}
	c.entries[name] = cacheEntry{snapshot: s, timestamp: c.now()}
	c.mu.Unlock()
	return name, s, nil
}

// Last returns the most recent snapshot of root and the one before it.
// Either may be nil.
func (c *SnapshotCache) Last(root string) (curr, prev *model.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[root].snapshot, c.prev[root]
}

// Invalidate expires the cached snapshot of root. The snapshot is kept as
// the diff baseline.
func (c *SnapshotCache) Invalidate(root string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[root]; ok {
		entry.timestamp = time.Time{}
		c.entries[root] = entry
	}
}

// InvalidateAll expires every cached snapshot.
func (c *SnapshotCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, entry := range c.entries {
		entry.timestamp = time.Time{}
		c.entries[k] = entry
	}
}

// rootName resolves an empty root to the inspector's first root.
func rootName(in *inspector.Inspector, root string) (string, error) {
	if root != "" {
		return root, nil
	}
	roots := in.Roots()
	if len(roots) == 0 {
		return "", inspector.ErrNoRoots
	}
	return roots[0], nil
}
