package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CurrentBranch returns the checked-out branch at path.
// Returns "(detached)" for detached HEAD state.
func CurrentBranch(ctx context.Context, path string) (string, error) {
	branch, err := outputGitString(ctx, path, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %w", err)
	}
	if branch == "" {
		return DetachedBranch, nil
	}
	return branch, nil
}

// HeadCommit returns the full commit id of HEAD at path.
func HeadCommit(ctx context.Context, path string) (string, error) {
	head, err := outputGitString(ctx, path, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head, nil
}

// BranchExists checks if a local branch exists
func BranchExists(ctx context.Context, repoPath, branch string) bool {
	return runGit(ctx, repoPath, "show-ref", "--verify", "--quiet", "refs/heads/"+branch) == nil
}

// RefExists reports whether rev resolves to a commit.
func RefExists(ctx context.Context, repoPath, rev string) bool {
	return runGit(ctx, repoPath, "rev-parse", "--verify", "--quiet", rev+"^{commit}") == nil
}

// DeleteLocalBranch deletes a local branch
func DeleteLocalBranch(ctx context.Context, repoPath, branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if err := runGit(ctx, repoPath, "branch", flag, branch); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branch, err)
	}
	return nil
}

// MergedBranches returns the local branches whose tips are reachable from into.
func MergedBranches(ctx context.Context, repoPath, into string) (map[string]bool, error) {
	lines, err := outputGitLines(ctx, repoPath, "branch", "--merged", into)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches merged into %s: %w", into, err)
	}
	merged := make(map[string]bool, len(lines))
	for _, line := range lines {
		// "* " marks the current branch, "+ " one checked out in another worktree
		line = strings.TrimPrefix(line, "* ")
		line = strings.TrimPrefix(line, "+ ")
		merged[strings.TrimSpace(line)] = true
	}
	return merged, nil
}

// MergeBase returns the best common ancestor of a and b.
func MergeBase(ctx context.Context, repoPath, a, b string) (string, error) {
	base, err := outputGitString(ctx, repoPath, "merge-base", a, b)
	if err != nil {
		return "", fmt.Errorf("failed to find merge base of %s and %s: %w", a, b, err)
	}
	return base, nil
}

// DiffNames lists paths that differ between two revisions.
func DiffNames(ctx context.Context, repoPath, from, to string) ([]string, error) {
	names, err := outputGitLines(ctx, repoPath, "diff", "--name-only", from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s..%s: %w", from, to, err)
	}
	return names, nil
}

// CommitFiles lists the paths touched by a single commit.
func CommitFiles(ctx context.Context, repoPath, rev string) ([]string, error) {
	names, err := outputGitLines(ctx, repoPath, "diff-tree", "--no-commit-id", "--name-only", "-r", "--root", rev)
	if err != nil {
		return nil, fmt.Errorf("failed to list files of %s: %w", rev, err)
	}
	return names, nil
}

// CommitTime returns the committer time of rev.
func CommitTime(ctx context.Context, repoPath, rev string) (time.Time, error) {
	out, err := outputGitString(ctx, repoPath, "log", "-1", "--format=%ct", rev)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get commit time of %s: %w", rev, err)
	}
	ts, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse commit timestamp %q: %w", out, err)
	}
	return time.Unix(ts, 0), nil
}

// Checkout switches the worktree at path to branch.
func Checkout(ctx context.Context, path, branch string) error {
	if err := runGit(ctx, path, "checkout", branch); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branch, err)
	}
	return nil
}

// Merge merges branch into the branch checked out at path without opening
// an editor. Conflicts surface as an error; see ConflictedFiles.
func Merge(ctx context.Context, path, branch string) error {
	return runGit(ctx, path, "merge", "--no-edit", branch)
}

// AbortMerge stops an in-progress merge at path and restores the
// pre-merge state.
func AbortMerge(ctx context.Context, path string) error {
	if err := runGit(ctx, path, "merge", "--abort"); err != nil {
		return fmt.Errorf("failed to abort merge: %w", err)
	}
	return nil
}

// ConflictedFiles lists unmerged paths at path.
func ConflictedFiles(ctx context.Context, path string) ([]string, error) {
	files, err := outputGitLines(ctx, path, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicted files: %w", err)
	}
	return files, nil
}

// Push pushes branch to remote.
func Push(ctx context.Context, path, remote, branch string) error {
	if err := runGit(ctx, path, "push", remote, branch); err != nil {
		return fmt.Errorf("failed to push %s to %s: %w", branch, remote, err)
	}
	return nil
}

// RemoteURL returns the fetch URL of remote.
func RemoteURL(ctx context.Context, repoPath, remote string) (string, error) {
	url, err := outputGitString(ctx, repoPath, "remote", "get-url", remote)
	if err != nil {
		return "", fmt.Errorf("failed to get %s URL: %w", remote, err)
	}
	return url, nil
}

// DiffStat summarizes uncommitted changes at path against HEAD: a --stat
// table, or one "<status>\t<path>" line per file when compact is set.
func DiffStat(ctx context.Context, path string, compact bool) (string, error) {
	mode := "--stat"
	if compact {
		mode = "--name-status"
	}
	out, err := outputGitString(ctx, path, "diff", "HEAD", mode, "--color=never")
	if err != nil {
		return "", fmt.Errorf("failed to diff worktree: %w", err)
	}
	return out, nil
}

// CountCommits returns the number of commits in the revision range rng.
func CountCommits(ctx context.Context, path, rng string) (int, error) {
	out, err := outputGitString(ctx, path, "rev-list", "--count", rng)
	if err != nil {
		return 0, fmt.Errorf("failed to count commits in %s: %w", rng, err)
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("failed to parse commit count %q: %w", out, err)
	}
	return n, nil
}
