package status

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/toolprint/vibews/internal/config"
	"github.com/toolprint/vibews/internal/git"
	"github.com/toolprint/vibews/internal/log"
	"github.com/toolprint/vibews/internal/merge"
)

// mergedThreshold is the confidence above which a merge verdict caps the
// severity at LightWarning.
const mergedThreshold = 0.8

// Status is a point-in-time view of one worktree.
type Status struct {
	Path      string        `json:"path" yaml:"path"`
	Branch    string        `json:"branch" yaml:"branch"`
	IsClean   bool          `json:"is_clean" yaml:"is_clean"`
	Severity  Severity      `json:"severity" yaml:"severity"`
	Changes   []FileChange  `json:"changes,omitempty" yaml:"changes,omitempty"`
	Untracked []string      `json:"untracked,omitempty" yaml:"untracked,omitempty"`
	Unpushed  []git.Commit  `json:"unpushed,omitempty" yaml:"unpushed,omitempty"`
	Remote    RemoteState   `json:"remote" yaml:"remote"`
	Upstream  string        `json:"upstream,omitempty" yaml:"upstream,omitempty"`
	Merge     *merge.Result `json:"merge,omitempty" yaml:"merge,omitempty"`
}

// HasChanges reports uncommitted or untracked files.
func (s *Status) HasChanges() bool {
	return len(s.Changes) > 0 || len(s.Untracked) > 0
}

// IsMerged reports a positive merge verdict above minConfidence.
func (s *Status) IsMerged(minConfidence float64) bool {
	return s.Merge != nil && s.Merge.IsMerged && s.Merge.Confidence >= minConfidence
}

// MergeDetector is the part of merge.Detector the tracker uses.
type MergeDetector interface {
	Detect(ctx context.Context, path, branch string) (*merge.Result, error)
}

// Tracker computes worktree status.
type Tracker struct {
	Config config.StatusConfig
	// Merge, when set, runs merge detection for every branch checked out.
	Merge MergeDetector
}

// Compute inspects the worktree at path.
func (t *Tracker) Compute(ctx context.Context, path string) (*Status, error) {
	entries, err := git.Status(ctx, path)
	if err != nil {
		return nil, err
	}
	branch, err := git.CurrentBranch(ctx, path)
	if err != nil {
		return nil, err
	}

	st := &Status{Path: path, Branch: branch}
	st.Changes, st.Untracked = splitEntries(entries)

	upstream, err := git.Upstream(ctx, path)
	switch {
	case errors.Is(err, git.ErrNoUpstream):
		st.Remote = RemoteState{Kind: NoRemote}
	case err != nil:
		st.Upstream = upstream
		st.Remote = RemoteState{Kind: RemoteDeleted}
	default:
		st.Upstream = upstream
		ahead, behind, abErr := git.AheadBehind(ctx, path, upstream)
		if abErr != nil {
			st.Remote = RemoteState{Kind: RemoteDeleted}
			break
		}
		st.Remote = NewRemoteState(ahead, behind)
		if ahead > 0 {
			st.Unpushed, err = git.Log(ctx, path, t.commitLimit(), upstream+"..HEAD")
			if err != nil {
				return nil, err
			}
		}
	}

	if t.Merge != nil && branch != git.DetachedBranch {
		res, err := t.Merge.Detect(ctx, path, branch)
		if err != nil {
			log.FromContext(ctx).Debug("merge detection failed", "path", path, "err", err)
		} else {
			st.Merge = res
		}
	}

	st.IsClean = !st.HasChanges() && (st.Remote.Ahead == 0 || st.Remote.Kind == NoRemote)
	st.Severity = Classify(st)
	return st, nil
}

func (t *Tracker) commitLimit() int {
	if t.Config.MaxCommitsShown > 0 {
		return t.Config.MaxCommitsShown
	}
	return config.Default().Status.MaxCommitsShown
}

// Classify grades st. The first matching rule wins:
//
//  1. clean, nothing ahead or behind, upstream not deleted: Clean
//  2. merged above 0.8 confidence: Clean if clean, else LightWarning
//  3. remote deleted, more than 10 behind, or diverged with more than 5
//     behind or 20 ahead: Warning
//  4. changes, untracked files, unpushed commits, or no remote: LightWarning
//  5. Clean
func Classify(st *Status) Severity {
	ahead, behind := st.Remote.Ahead, st.Remote.Behind

	if st.IsClean && ahead == 0 && behind == 0 && st.Remote.Kind != RemoteDeleted {
		return Clean
	}
	if st.Merge != nil && st.Merge.IsMerged && st.Merge.Confidence > mergedThreshold {
		if st.IsClean {
			return Clean
		}
		return LightWarning
	}

	switch {
	case st.Remote.Kind == RemoteDeleted:
		return Warning
	case behind > 10:
		return Warning
	case st.Remote.Kind == Diverged && (behind > 5 || ahead > 20):
		return Warning
	}

	if st.HasChanges() || ahead > 0 || behind > 0 || st.Remote.Kind == NoRemote {
		return LightWarning
	}
	return Clean
}

// Describe summarizes st in one line, e.g. "2 uncommitted, 1 untracked, no remote".
func Describe(st *Status) string {
	if st.IsClean && st.Severity == Clean {
		if st.Merge != nil && st.Merge.IsMerged {
			return fmt.Sprintf("Clean (%s)", st.Merge.Method)
		}
		return "Clean"
	}

	var issues []string
	if n := len(st.Changes); n > 0 {
		issues = append(issues, fmt.Sprintf("%d uncommitted", n))
	}
	if n := len(st.Untracked); n > 0 {
		issues = append(issues, fmt.Sprintf("%d untracked", n))
	}
	if n := st.Remote.Ahead; n > 0 && st.Remote.Kind != Diverged {
		issues = append(issues, fmt.Sprintf("%d unpushed", n))
	}
	switch st.Remote.Kind {
	case NoRemote, Behind, Diverged, RemoteDeleted:
		issues = append(issues, st.Remote.String())
	}
	if len(issues) == 0 {
		return "Clean"
	}
	return strings.Join(issues, ", ")
}

// ComputeWarning is a non-fatal failure to compute one worktree's status.
type ComputeWarning struct {
	Path string
	Err  error
}

// ComputeAll computes status for each path in parallel. Results keep the
// order of paths; a failed path leaves a nil entry and a ComputeWarning.
func (t *Tracker) ComputeAll(ctx context.Context, paths []string) ([]*Status, []ComputeWarning) {
	results := make([]*Status, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8) // Bound concurrent git operations

	for i, path := range paths {
		g.Go(func() error {
			results[i], errs[i] = t.Compute(ctx, path)
			return nil // Never fail, failures become warnings
		})
	}
	_ = g.Wait()

	var warnings []ComputeWarning
	for i, err := range errs {
		if err != nil {
			warnings = append(warnings, ComputeWarning{Path: paths[i], Err: err})
		}
	}
	return results, warnings
}

// Activity reports whether the worktree has uncommitted changes or a commit
// within window.
func (t *Tracker) Activity(ctx context.Context, path string, window time.Duration) (bool, error) {
	if git.IsDirty(ctx, path) {
		return true, nil
	}
	since := fmt.Sprintf("--since=@%d", time.Now().Add(-window).Unix())
	commits, err := git.Log(ctx, path, 1, since, "HEAD")
	if err != nil {
		return false, err
	}
	return len(commits) > 0, nil
}

// Diff returns the uncommitted diff summary for path.
func (t *Tracker) Diff(ctx context.Context, path string, compact bool) (string, error) {
	return git.DiffStat(ctx, path, compact)
}

// BranchInfo describes a branch relative to its main branch.
type BranchInfo struct {
	Name        string      `json:"name" yaml:"name"`
	Main        string      `json:"main" yaml:"main"`
	FirstCommit *git.Commit `json:"first_commit,omitempty" yaml:"first_commit,omitempty"`
	CommitCount int         `json:"commit_count" yaml:"commit_count"`
}

// Branch returns the commits the branch at path has on top of main.
func (t *Tracker) Branch(ctx context.Context, path, main string) (*BranchInfo, error) {
	name, err := git.CurrentBranch(ctx, path)
	if err != nil {
		return nil, err
	}
	info := &BranchInfo{Name: name, Main: main}
	if name == main || name == git.DetachedBranch || main == "" {
		return info, nil
	}

	rng := main + "..HEAD"
	if info.CommitCount, err = git.CountCommits(ctx, path, rng); err != nil {
		return nil, err
	}
	if info.CommitCount > 0 {
		commits, err := git.Log(ctx, path, 0, "--reverse", rng)
		if err != nil {
			return nil, err
		}
		if len(commits) > 0 {
			info.FirstCommit = &commits[0]
		}
	}
	return info, nil
}
