// Package status classifies worktrees by how safe they are to touch.
//
// [Tracker.Compute] gathers porcelain status, upstream tracking and
// unpushed commits for one worktree, optionally runs merge detection, and
// grades the result with [Classify] into one of three severities:
//
//	Clean         nothing local, in sync (or merged with high confidence)
//	LightWarning  ordinary work in progress: edits, unpushed commits, no upstream
//	Warning       branch-level trouble: upstream deleted, far behind, diverged
//
// A worktree without an upstream that has no local changes is still Clean,
// so a freshly created worktree starts out Clean.
package status
