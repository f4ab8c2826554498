package main

import (
	"context"

	"github.com/toolprint/vibews/internal/cache"
	"github.com/toolprint/vibews/internal/git"
	"github.com/toolprint/vibews/internal/log"
	"github.com/toolprint/vibews/internal/status"
)

// loadStatuses returns the status of each path, serving fresh entries from
// the on-disk cache and computing the rest in parallel. A path that fails
// leaves a nil entry and a warning on stderr. The cache is an optimization
// only: when it cannot be read or written everything is computed.
func loadStatuses(ctx context.Context, tracker *status.Tracker, paths []string, refresh bool) []*status.Status {
	l := log.FromContext(ctx)

	c := cache.New(cache.DefaultTTL)
	gitDir, err := git.CommonDir(ctx, repoRoot)
	if err == nil {
		loaded, unlock, lerr := cache.LoadWithLock(gitDir, cache.DefaultTTL)
		if lerr != nil {
			l.Debug("status cache unavailable", "err", lerr)
			gitDir = ""
		} else {
			defer unlock()
			c = loaded
		}
	} else {
		gitDir = ""
	}
	if refresh {
		c.Clear()
	}

	results := make([]*status.Status, len(paths))
	var (
		missing []string
		slots   []int
	)
	for i, path := range paths {
		if st, ok := c.Get(path); ok {
			results[i] = st
			continue
		}
		missing = append(missing, path)
		slots = append(slots, i)
	}
	l.Debug("status cache", "hits", len(paths)-len(missing), "misses", len(missing))

	computed, warnings := tracker.ComputeAll(ctx, missing)
	for j, st := range computed {
		if st != nil {
			results[slots[j]] = st
			c.Put(missing[j], st)
		}
	}
	for _, w := range warnings {
		l.Warnf("status of %s: %v", w.Path, w.Err)
	}

	if gitDir != "" {
		if err := cache.Save(gitDir, c); err != nil {
			l.Debug("saving status cache failed", "err", err)
		}
	}
	return results
}
