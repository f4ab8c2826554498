// Package worktree creates, lists and removes the git worktrees vibews
// manages.
//
// Task identifiers are turned into branch names by [Sanitize] and checked by
// [ValidateBranchName] before any git command runs. Managed branches are
// named {prefix}{sanitized-id} (default prefix "vibe-ws/"), and their
// worktrees live under the configured base directory at paths built by
// [ResolvePath]:
//
//	<base>/vibe-ws/task-123__6718a2f0
//
// The hex suffix is the creation time in unix seconds, so a re-created
// branch never reuses the directory of a removed one.
//
// [Manager] wraps `git worktree add|list|remove` and `git branch -D`. When
// auto_gitignore is enabled, Create also appends the base directory to the
// repository's .gitignore once, under [IgnoreMarker].
package worktree
