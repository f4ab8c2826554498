package cache

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/toolprint/vibews/internal/status"
)

// DefaultTTL is how long a cached status stays valid when the worktree
// directory has not changed.
const DefaultTTL = 300 * time.Second

// Entry is one memoized status.
type Entry struct {
	Status     *status.Status `json:"status"`
	DirModTime time.Time      `json:"dir_mod_time"`
	StoredAt   time.Time      `json:"stored_at"`
}

// Stats counts cache entries by validity.
type Stats struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Expired int `json:"expired"`
}

// Cache memoizes worktree status by path. An entry is valid until the TTL
// passes or the worktree directory's mtime changes. It is an optimization
// only: a miss always falls back to computing the status.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*Entry
	now     func() time.Time
}

// New returns an empty cache. ttl <= 0 uses DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl, entries: make(map[string]*Entry), now: time.Now}
}

func (c *Cache) valid(path string, e *Entry) bool {
	if c.now().Sub(e.StoredAt) >= c.ttl {
		return false
	}
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.ModTime().Equal(e.DirModTime)
}

// Get returns the cached status for path if it is still valid.
func (c *Cache) Get(path string) (*status.Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if !ok || !c.valid(path, e) {
		return nil, false
	}
	return e.Status, true
}

// Put stores st for path, stamped with the directory's current mtime.
func (c *Cache) Put(path string, st *status.Status) {
	var mtime time.Time
	if fi, err := os.Stat(path); err == nil {
		mtime = fi.ModTime()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = &Entry{Status: st, DirModTime: mtime, StoredAt: c.now()}
}

// Invalidate drops the entry for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
}

// Stats reports how many entries are still valid.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{Total: len(c.entries)}
	for path, e := range c.entries {
		if c.valid(path, e) {
			s.Valid++
		} else {
			s.Expired++
		}
	}
	return s
}

// Prune removes invalid entries and returns how many were removed.
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for path, e := range c.entries {
		if !c.valid(path, e) {
			delete(c.entries, path)
			removed++
		}
	}
	return removed
}

// Status returns the cached status for path or computes and stores it.
func (c *Cache) Status(ctx context.Context, t *status.Tracker, path string) (*status.Status, error) {
	if st, ok := c.Get(path); ok {
		return st, nil
	}
	st, err := t.Compute(ctx, path)
	if err != nil {
		return nil, err
	}
	c.Put(path, st)
	return st, nil
}
