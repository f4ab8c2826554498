package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
)

// Placeholder branch names for worktrees without a checked-out branch.
const (
	DetachedBranch = "(detached)"
	BareBranch     = "(bare)"
)

// WorktreeInfo is one block of `git worktree list --porcelain`.
type WorktreeInfo struct {
	Path     string
	Head     string
	Branch   string
	Detached bool
	Bare     bool
	Locked   bool
	Prunable bool
}

// ParseWorktreeList parses porcelain output. Blocks start with a
// "worktree <path>" header and end at a blank line or the next header.
// Unknown attribute lines are ignored.
func ParseWorktreeList(data []byte) []WorktreeInfo {
	var (
		worktrees []WorktreeInfo
		current   *WorktreeInfo
	)
	flush := func() {
		if current != nil && current.Path != "" {
			worktrees = append(worktrees, *current)
		}
		current = nil
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		key, value, _ := strings.Cut(line, " ")
		switch {
		case line == "":
			flush()
		case key == "worktree":
			flush()
			current = &WorktreeInfo{Path: value}
		case current == nil:
			// attribute outside a block
		case key == "HEAD":
			current.Head = value
		case key == "branch":
			current.Branch = strings.TrimPrefix(value, "refs/heads/")
		case line == "detached":
			current.Detached = true
			current.Branch = DetachedBranch
		case line == "bare":
			current.Bare = true
			current.Branch = BareBranch
		case key == "locked":
			current.Locked = true
		case key == "prunable":
			current.Prunable = true
		}
	}
	flush()
	return worktrees
}

// ListWorktrees returns all worktrees of the repository at repoPath,
// main checkout first.
func ListWorktrees(ctx context.Context, repoPath string) ([]WorktreeInfo, error) {
	out, err := outputGit(ctx, repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %w", err)
	}
	return ParseWorktreeList(out), nil
}

// BranchWorktree returns the path of the worktree that has branch checked
// out, or "" if none does.
func BranchWorktree(ctx context.Context, repoPath, branch string) (string, error) {
	wts, err := ListWorktrees(ctx, repoPath)
	if err != nil {
		return "", err
	}
	for _, wt := range wts {
		if !wt.Detached && !wt.Bare && wt.Branch == branch {
			return wt.Path, nil
		}
	}
	return "", nil
}

// AddWorktree creates a new branch from base and checks it out at path.
func AddWorktree(ctx context.Context, repoPath, path, branch, base string) error {
	if base == "" {
		base = "HEAD"
	}
	if err := runGit(ctx, repoPath, "worktree", "add", "-b", branch, path, base); err != nil {
		return fmt.Errorf("failed to create worktree: %w", err)
	}
	return nil
}

// RemoveWorktree removes the worktree at path. force discards local changes.
func RemoveWorktree(ctx context.Context, repoPath, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	if err := runGit(ctx, repoPath, args...); err != nil {
		return fmt.Errorf("failed to remove worktree: %w", err)
	}
	return nil
}

// PruneWorktrees removes administrative entries for worktrees whose
// directories no longer exist.
func PruneWorktrees(ctx context.Context, repoPath string) error {
	if err := runGit(ctx, repoPath, "worktree", "prune"); err != nil {
		return fmt.Errorf("failed to prune worktrees: %w", err)
	}
	return nil
}
