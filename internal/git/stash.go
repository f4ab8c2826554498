package git

import (
	"context"
	"fmt"
	"strings"
)

// Stash saves tracked and untracked changes at path under message.
// It reports false when there was nothing to save. The stash lives in the
// shared ref store, so it survives removal of the worktree.
func Stash(ctx context.Context, path, message string) (bool, error) {
	out, err := outputGitString(ctx, path, "stash", "push", "-u", "-m", message)
	if err != nil {
		return false, fmt.Errorf("failed to stash changes: %w", err)
	}
	if strings.Contains(out, "No local changes to save") {
		return false, nil
	}
	return true, nil
}

// StashPop applies and removes the most recent stash entry.
func StashPop(ctx context.Context, path string) error {
	if err := runGit(ctx, path, "stash", "pop"); err != nil {
		return fmt.Errorf("failed to pop stash: %w", err)
	}
	return nil
}

// StashList returns the stash subjects, newest first.
func StashList(ctx context.Context, path string) ([]string, error) {
	lines, err := outputGitLines(ctx, path, "stash", "list", "--format=%gs")
	if err != nil {
		return nil, fmt.Errorf("failed to list stashes: %w", err)
	}
	return lines, nil
}
