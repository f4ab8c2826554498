package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/toolprint/vibews/internal/storage"
)

// FileName is the cache file stored in the repository's git common dir.
const FileName = "vibews-status.json"

// Path returns the cache file for the git common dir gitDir.
func Path(gitDir string) string {
	return filepath.Join(gitDir, FileName)
}

// LockPath returns the lock file guarding Path(gitDir).
func LockPath(gitDir string) string {
	return Path(gitDir) + ".lock"
}

type fileFormat struct {
	Entries map[string]*Entry `json:"entries"`
}

// Load reads the persisted cache. A missing or corrupted file yields an
// empty cache.
func Load(gitDir string, ttl time.Duration) (*Cache, error) {
	c := New(ttl)

	var data fileFormat
	if err := storage.LoadJSON(Path(gitDir), &data); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			// Corrupted - start fresh
			return c, nil
		}
		return nil, err
	}
	for path, e := range data.Entries {
		if e != nil && e.Status != nil {
			c.entries[path] = e
		}
	}
	return c, nil
}

// Save prunes invalid entries and writes the cache atomically.
func Save(gitDir string, c *Cache) error {
	c.Prune()

	c.mu.Lock()
	data := fileFormat{Entries: make(map[string]*Entry, len(c.entries))}
	for path, e := range c.entries {
		data.Entries[path] = e
	}
	c.mu.Unlock()

	return storage.SaveJSON(Path(gitDir), data)
}

// LoadWithLock acquires the cache lock and loads the cache.
// Returns cache, unlock function, and error.
// Caller must defer unlock() if err == nil.
func LoadWithLock(gitDir string, ttl time.Duration) (*Cache, func(), error) {
	fl := flock.New(LockPath(gitDir))
	if err := fl.Lock(); err != nil {
		return nil, nil, fmt.Errorf("failed to acquire cache lock: %w", err)
	}

	c, err := Load(gitDir, ttl)
	if err != nil {
		_ = fl.Unlock()
		return nil, nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return c, func() { _ = fl.Unlock() }, nil
}
