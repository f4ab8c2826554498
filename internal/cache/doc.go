// Package cache memoizes worktree status between runs.
//
// Computing status shells out to git several times per worktree and merge
// detection more still, so `vibews list --status` keeps results in
// <git-common-dir>/vibews-status.json, shared by every worktree of the
// repository:
//
//	{
//	  "entries": {
//	    "/repo/.worktrees/vibe-ws/task-1__6718a2f0": {
//	      "status": { "branch": "vibe-ws/task-1", "severity": "clean", ... },
//	      "dir_mod_time": "2024-10-23T10:01:02Z",
//	      "stored_at": "2024-10-23T10:05:00Z"
//	    }
//	  }
//	}
//
// An entry is served only while it is younger than the TTL (default five
// minutes) and the worktree directory's mtime is unchanged. Cleanup never
// reads the cache.
//
// # Concurrency
//
// [LoadWithLock] takes an exclusive gofrs/flock lock on the cache file's
// sibling .lock file. Writes go through renameio, so readers never observe
// a partial file.
package cache
