package worktree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/toolprint/vibews/internal/config"
	"github.com/toolprint/vibews/internal/errs"
	"github.com/toolprint/vibews/internal/git"
	"github.com/toolprint/vibews/internal/log"
)

// Record describes one worktree as reported by git. Records are snapshots;
// call List again for fresh data.
type Record struct {
	Path      string        `json:"path"`
	Branch    string        `json:"branch"`
	Head      string        `json:"head"`
	Detached  bool          `json:"detached,omitempty"`
	Bare      bool          `json:"bare,omitempty"`
	Age       time.Duration `json:"age"`
	CreatedAt time.Time     `json:"created_at,omitzero"`
}

// CreateOptions controls Manager.Create.
type CreateOptions struct {
	TaskID     string
	BaseBranch string // defaults to HEAD
	Force      bool
	CustomPath string
}

// RemoveOptions controls Manager.Remove.
type RemoveOptions struct {
	Force        bool
	DeleteBranch bool
}

// Manager creates, lists and removes worktrees of one repository.
// All git commands run with the repository root as working directory.
type Manager struct {
	RepoRoot string
	Config   config.Config

	now func() time.Time
}

// NewManager returns a Manager for the main checkout at repoRoot.
func NewManager(repoRoot string, cfg config.Config) *Manager {
	return &Manager{RepoRoot: repoRoot, Config: cfg, now: time.Now}
}

func (m *Manager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

// BaseDir returns the absolute directory managed worktrees are created in.
func (m *Manager) BaseDir() (string, error) {
	return m.Config.ResolveBaseDir(m.RepoRoot)
}

// BranchName returns the managed branch for taskID: prefix + sanitized id.
func (m *Manager) BranchName(taskID string) (string, error) {
	id, err := Sanitize(taskID)
	if err != nil {
		return "", err
	}
	branch := m.Config.Prefix + id
	if err := ValidateBranchName(branch); err != nil {
		return "", err
	}
	return branch, nil
}

// Create makes a new branch for opts.TaskID and checks it out in a fresh
// worktree. An existing branch is an error unless opts.Force is set, in
// which case its worktree and the branch itself are replaced.
func (m *Manager) Create(ctx context.Context, opts CreateOptions) (*Record, error) {
	l := log.FromContext(ctx)

	branch, err := m.BranchName(opts.TaskID)
	if err != nil {
		return nil, err
	}
	// All input is checked before anything touches the repository.
	if opts.BaseBranch != "" {
		if err := ValidateBranchName(opts.BaseBranch); err != nil {
			return nil, err
		}
	}

	path := opts.CustomPath
	if path == "" {
		base, err := m.BaseDir()
		if err != nil {
			return nil, err
		}
		path = ResolvePath(base, branch, m.clock())
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(m.RepoRoot, path)
	}

	if err := m.EnsureBaseDirectory(); err != nil {
		return nil, err
	}
	if m.Config.AutoGitignore {
		if err := m.UpdateIgnoreFile(); err != nil {
			l.Warnf("failed to update .gitignore: %v", err)
		}
	}

	if git.BranchExists(ctx, m.RepoRoot, branch) {
		if !opts.Force {
			return nil, errs.State(errs.ErrBranchExists, branch, "use --force to recreate it")
		}
		if err := m.dropBranch(ctx, branch); err != nil {
			return nil, err
		}
	}

	l.Debug("creating worktree", "branch", branch, "path", path, "base", opts.BaseBranch)
	if err := git.AddWorktree(ctx, m.RepoRoot, path, branch, opts.BaseBranch); err != nil {
		return nil, err
	}

	rec, err := m.Find(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("worktree created but not listed: %w", err)
	}
	return rec, nil
}

// dropBranch removes the worktree that has branch checked out, if any, and
// force-deletes the branch.
func (m *Manager) dropBranch(ctx context.Context, branch string) error {
	wtPath, err := git.BranchWorktree(ctx, m.RepoRoot, branch)
	if err != nil {
		return err
	}
	if wtPath != "" {
		if m.IsMainWorktree(wtPath) {
			return errs.State(errs.ErrMainWorktree, branch, "branch is checked out in the main worktree")
		}
		if err := git.RemoveWorktree(ctx, m.RepoRoot, wtPath, true); err != nil {
			return err
		}
	}
	return git.DeleteLocalBranch(ctx, m.RepoRoot, branch, true)
}

// Remove removes the worktree identified by target, a path or a branch
// name. The main checkout is never removed.
func (m *Manager) Remove(ctx context.Context, target string, opts RemoveOptions) error {
	rec, err := m.Find(ctx, target)
	if err != nil {
		return err
	}
	if m.IsMainWorktree(rec.Path) {
		return errs.State(errs.ErrMainWorktree, rec.Path, "")
	}

	if err := git.RemoveWorktree(ctx, m.RepoRoot, rec.Path, opts.Force); err != nil {
		return err
	}
	if opts.DeleteBranch && !rec.Detached && !rec.Bare {
		if err := git.DeleteLocalBranch(ctx, m.RepoRoot, rec.Branch, true); err != nil {
			return err
		}
	}
	return nil
}

// List returns every worktree of the repository, main checkout first.
func (m *Manager) List(ctx context.Context) ([]Record, error) {
	infos, err := git.ListWorktrees(ctx, m.RepoRoot)
	if err != nil {
		return nil, err
	}
	now := m.clock()
	records := make([]Record, 0, len(infos))
	for _, info := range infos {
		rec := Record{
			Path:     info.Path,
			Branch:   info.Branch,
			Head:     info.Head,
			Detached: info.Detached,
			Bare:     info.Bare,
		}
		// Directory mtime stands in for creation time; Age stays zero
		// when the directory is gone (prunable entries).
		if fi, err := os.Stat(info.Path); err == nil {
			rec.CreatedAt = fi.ModTime()
			if age := now.Sub(rec.CreatedAt); age > 0 {
				rec.Age = age
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Find resolves target to a worktree. An existing path matches the worktree
// rooted there; anything else is looked up as a branch name.
func (m *Manager) Find(ctx context.Context, target string) (*Record, error) {
	records, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(target); statErr == nil {
		want := canonicalPath(target)
		for i := range records {
			if canonicalPath(records[i].Path) == want {
				return &records[i], nil
			}
		}
	}
	for i := range records {
		if !records[i].Detached && !records[i].Bare && records[i].Branch == target {
			return &records[i], nil
		}
	}
	return nil, errs.State(errs.ErrNotAWorktree, target, "run 'vibews list' to see worktrees")
}

// IsMainWorktree reports whether path is the main checkout of the repository.
func (m *Manager) IsMainWorktree(path string) bool {
	if canonicalPath(path) == canonicalPath(m.RepoRoot) {
		return true
	}
	return git.IsMainCheckout(path)
}

// canonicalPath makes paths comparable across symlinked temp dirs.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
