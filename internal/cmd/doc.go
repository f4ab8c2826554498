// Package cmd runs external commands (git, gh, glab) with context support.
//
// Every invocation is traced through the context logger in verbose mode and
// failures surface as [errs.ToolError] so the tool's own stderr becomes the
// error message:
//
//	out, err := cmd.OutputContext(ctx, repoRoot, "git", "worktree", "list", "--porcelain")
//	if err != nil {
//	    return fmt.Errorf("list worktrees: %w", err)
//	}
//
// Shelling out keeps user configuration (credential helpers, hooks, SSH
// keys) in effect and leaves all ref writes to git's own locking.
package cmd
