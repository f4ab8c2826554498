package cleanup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/toolprint/vibews/internal/errs"
	"github.com/toolprint/vibews/internal/git"
	"github.com/toolprint/vibews/internal/log"
	"github.com/toolprint/vibews/internal/worktree"
)

// stashTimeFormat renders the timestamp in stash names: YYYYmmdd-HHMMSS.
const stashTimeFormat = "20060102-150405"

var errNoBranch = errors.New("worktree has no branch checked out")

func (o *Orchestrator) discard(ctx context.Context, rec worktree.Record, opts *Options, res *Result) {
	err := o.Manager.Remove(ctx, rec.Path, worktree.RemoveOptions{Force: true, DeleteBranch: opts.DeleteBranch})
	if err != nil {
		res.fail("Failed to remove worktree", err)
		return
	}
	res.Action, res.Reason = Cleaned, "Worktree removed"
}

// mergeToFeature merges the worktree branch into the branch it was named
// after (prefix stripped). On conflict the merge is aborted, the worktree
// goes back to its own branch and stays.
func (o *Orchestrator) mergeToFeature(ctx context.Context, rec worktree.Record, res *Result) {
	if rec.Detached {
		res.fail("Failed to merge to feature branch", errNoBranch)
		return
	}
	prefix := o.Manager.Config.Prefix
	feature, ok := strings.CutPrefix(rec.Branch, prefix)
	if !ok || prefix == "" || feature == "" {
		res.fail(fmt.Sprintf("Branch '%s' does not have expected prefix '%s'", rec.Branch, prefix), nil)
		return
	}
	repo := o.Manager.RepoRoot
	if !git.BranchExists(ctx, repo, feature) {
		res.fail(fmt.Sprintf("Target feature branch '%s' does not exist", feature),
			errs.State(errs.ErrMergeTarget, feature, ""))
		return
	}

	if err := mergeInto(ctx, rec.Path, rec.Branch, feature); err != nil {
		var conflict *errs.ConflictError
		if errors.As(err, &conflict) {
			res.fail(fmt.Sprintf("Merge conflicts detected: %d conflicted files", len(conflict.Files)), err)
			return
		}
		res.fail("Failed to merge to feature branch", err)
		return
	}

	// The worktree has the feature branch checked out now, so it is removed
	// by path and the old branch deleted by name.
	if err := git.RemoveWorktree(ctx, repo, rec.Path, true); err != nil {
		res.fail(fmt.Sprintf("Merged to '%s' but failed to remove worktree", feature), err)
		return
	}
	if err := git.DeleteLocalBranch(ctx, repo, rec.Branch, true); err != nil {
		res.fail(fmt.Sprintf("Merged to '%s' but failed to delete branch", feature), err)
		return
	}
	res.Action, res.Reason = MergedToFeature, fmt.Sprintf("Merged to '%s' and cleaned", feature)
}

// mergeInto checks out target in the worktree at path and merges branch
// into it. Conflicts return *errs.ConflictError after the merge is aborted.
// On any failure the worktree is switched back to branch.
func mergeInto(ctx context.Context, path, branch, target string) error {
	if err := git.Checkout(ctx, path, target); err != nil {
		return err
	}
	mergeErr := git.Merge(ctx, path, branch)
	if mergeErr == nil {
		return nil
	}

	l := log.FromContext(ctx)
	files, err := git.ConflictedFiles(ctx, path)
	if err != nil {
		l.Debug("listing conflicts failed", "path", path, "err", err)
	}
	if err := git.AbortMerge(ctx, path); err != nil {
		l.Debug("merge abort failed", "path", path, "err", err)
	}
	if err := git.Checkout(ctx, path, branch); err != nil {
		l.Warnf("could not switch %s back to %s: %v", path, branch, err)
	}

	if len(files) > 0 {
		return &errs.ConflictError{Source: branch, Target: target, Files: files}
	}
	return fmt.Errorf("merge failed: %w", mergeErr)
}

func (o *Orchestrator) backupToOrigin(ctx context.Context, rec worktree.Record, opts *Options, res *Result) {
	if rec.Detached {
		res.fail("Failed to backup to origin", errNoBranch)
		return
	}
	remote := opts.Remote
	if remote == "" {
		remote = o.Manager.Config.Remote
	}
	if remote == "" {
		remote = "origin"
	}
	if err := git.Push(ctx, rec.Path, remote, rec.Branch); err != nil {
		res.fail("Failed to backup to "+remote, err)
		return
	}
	if err := o.Manager.Remove(ctx, rec.Path, worktree.RemoveOptions{Force: true}); err != nil {
		res.fail(fmt.Sprintf("Pushed to %s but failed to remove worktree", remote), err)
		return
	}
	res.Action, res.Reason = BackedUpToOrigin, fmt.Sprintf("Backed up to %s and cleaned", remote)
}

// stashName returns vibe-cleanup-<branch>-<YYYYmmdd-HHMMSS> in UTC.
func (o *Orchestrator) stashName(branch string) string {
	return fmt.Sprintf("vibe-cleanup-%s-%s", branch, o.clock().UTC().Format(stashTimeFormat))
}

func (o *Orchestrator) stashAndDiscard(ctx context.Context, rec worktree.Record, opts *Options, res *Result) {
	name := o.stashName(rec.Branch)
	created, err := git.Stash(ctx, rec.Path, name)
	if err != nil {
		res.fail("Failed to create stash", err)
		return
	}
	if err := o.Manager.Remove(ctx, rec.Path, worktree.RemoveOptions{Force: true, DeleteBranch: opts.DeleteBranch}); err != nil {
		if created {
			res.fail("Stash created but failed to remove worktree", err)
		} else {
			res.fail("Failed to remove worktree", err)
		}
		return
	}
	res.Action = StashCreated
	if created {
		res.Reason = fmt.Sprintf("Stashed changes as '%s' and cleaned", name)
	} else {
		res.Reason = "No changes to stash, worktree cleaned"
	}
}
