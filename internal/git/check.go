package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/toolprint/vibews/internal/cmd"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = fmt.Errorf("git not found: please install git (https://git-scm.com)")

// CheckGit verifies that git is available in PATH
func CheckGit() error {
	if !cmd.Exists("git") {
		return ErrGitNotFound
	}
	return nil
}

// IsInsideRepo returns true if path is inside a git work tree
func IsInsideRepo(ctx context.Context, path string) bool {
	return runGit(ctx, path, "rev-parse", "--is-inside-work-tree") == nil
}

// TopLevel returns the root of the work tree containing path.
// For a linked worktree this is the worktree root, not the main checkout.
func TopLevel(ctx context.Context, path string) (string, error) {
	top, err := outputGitString(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}
	return top, nil
}

// CommonDir returns the absolute git directory shared by all worktrees.
func CommonDir(ctx context.Context, path string) (string, error) {
	dir, err := outputGitString(ctx, path, "rev-parse", "--git-common-dir")
	if err != nil {
		return "", fmt.Errorf("failed to resolve git common dir: %w", err)
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(path, dir)
	}
	return filepath.Clean(dir), nil
}

// MainRepoRoot returns the main checkout for path, which may be the main
// checkout itself or any of its linked worktrees.
func MainRepoRoot(ctx context.Context, path string) (string, error) {
	top, err := TopLevel(ctx, path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(filepath.Join(top, ".git"))
	if err != nil {
		return "", fmt.Errorf("failed to stat .git: %w", err)
	}
	if info.IsDir() {
		return top, nil
	}
	common, err := CommonDir(ctx, top)
	if err != nil {
		return "", err
	}
	return filepath.Dir(common), nil
}

// IsMainCheckout reports whether path holds a .git directory rather than a
// .git file pointing into another repository.
func IsMainCheckout(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil && info.IsDir()
}
