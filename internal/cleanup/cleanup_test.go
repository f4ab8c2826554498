package cleanup

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolprint/vibews/internal/config"
	"github.com/toolprint/vibews/internal/errs"
	"github.com/toolprint/vibews/internal/git"
	"github.com/toolprint/vibews/internal/gittest"
	"github.com/toolprint/vibews/internal/merge"
	"github.com/toolprint/vibews/internal/status"
	"github.com/toolprint/vibews/internal/worktree"
)

type testEnv struct {
	repo string
	mgr  *worktree.Manager
	orch *Orchestrator
}

func newTestEnv(t *testing.T, repo string) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.AutoGitignore = false
	mgr := worktree.NewManager(repo, cfg)
	tracker := &status.Tracker{Config: cfg.Status, Merge: merge.NewDetector(cfg.Merge)}
	orch := New(mgr, tracker)
	orch.getwd = func() (string, error) { return repo, nil }
	return &testEnv{repo: repo, mgr: mgr, orch: orch}
}

func (e *testEnv) create(t *testing.T, taskID string) *worktree.Record {
	t.Helper()
	rec, err := e.mgr.Create(context.Background(), worktree.CreateOptions{TaskID: taskID, BaseBranch: "main"})
	require.NoError(t, err)
	return rec
}

func unattended() Options {
	opts := DefaultOptions()
	opts.AutoConfirm = true
	return opts
}

func kinds(vs []Violation) []Kind {
	out := make([]Kind, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Kind)
	}
	return out
}

func TestRun_UntrackedFilesBlockWithoutForce(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, gittest.NewRepo(t))
	rec := env.create(t, "scratch")
	gittest.WriteFile(t, rec.Path, "notes.txt", "wip\n")
	gittest.Backdate(t, rec.Path, 48*time.Hour)

	report, err := env.orch.Run(context.Background(), unattended())
	require.NoError(t, err)

	res := report.Find(rec.Path)
	require.NotNil(t, res)
	assert.Equal(t, Skipped, res.Action)
	assert.Equal(t, "Safety violations (use --force to override): 0 uncommitted changes, 1 untracked files", res.Reason)
	require.Equal(t, []Kind{UncommittedChanges}, kinds(res.Violations))
	assert.Equal(t, Warning, res.Violations[0].Level)
	assert.DirExists(t, rec.Path)
	assert.Equal(t, 0, report.CleanedN)
}

func TestRun_DryRunChangesNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, gittest.NewRepo(t))
	rec := env.create(t, "dry")

	opts := DefaultOptions()
	opts.DryRun = true
	opts.Force = true
	report, err := env.orch.Run(ctx, opts)
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.CleanedN)
	res := report.Find(rec.Path)
	require.NotNil(t, res)
	assert.Equal(t, Cleaned, res.Action)
	assert.Equal(t, "Would be cleaned (dry run)", res.Reason)
	assert.Equal(t, []Kind{BranchTooNew}, kinds(res.Violations), "forced warnings are still reported")

	records, err := env.mgr.List(ctx)
	require.NoError(t, err)
	var paths []string
	for _, r := range records {
		paths = append(paths, r.Path)
	}
	assert.Contains(t, paths, rec.Path)
	assert.True(t, git.BranchExists(ctx, env.repo, "vibe-ws/dry"))
}

func TestRun_SquashMergedIsCleaned(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, gittest.NewRepo(t))
	rec := env.create(t, "old-feature")
	gittest.Commit(t, rec.Path, "feature.txt", "feature\n", "Add feature")
	gittest.Git(t, env.repo, "merge", "-q", "--squash", "vibe-ws/old-feature")
	gittest.Git(t, env.repo, "commit", "-q", "-m", "Squashed vibe-ws/old-feature")
	gittest.Backdate(t, rec.Path, 48*time.Hour)

	opts := Options{
		Strategy:           Discard,
		MinAge:             24 * time.Hour,
		MergedOnly:         true,
		MinMergeConfidence: 0.5,
		Force:              true,
		AutoConfirm:        true,
		DeleteBranch:       true,
	}
	report, err := env.orch.Run(ctx, opts)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Evaluated)
	assert.Equal(t, 1, report.CleanedN)
	assert.Equal(t, 1, report.SkippedN, "main checkout")
	res := report.Find(rec.Path)
	require.NotNil(t, res)
	assert.Equal(t, Cleaned, res.Action, res.Reason)
	assert.NoDirExists(t, rec.Path)
	assert.False(t, git.BranchExists(ctx, env.repo, "vibe-ws/old-feature"))
	assert.NotEmpty(t, report.RunID)
}

func TestRun_SiblingSquashKeepsUnmergedBranch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, gittest.NewRepo(t))
	feat := env.create(t, "feat")
	gittest.Commit(t, feat.Path, "feat.txt", "unmerged\n", "Unmerged work")
	gittest.Backdate(t, feat.Path, 72*time.Hour)
	two := env.create(t, "feat-two")
	gittest.Commit(t, two.Path, "two.txt", "two\n", "Add two")
	gittest.Git(t, env.repo, "merge", "-q", "--squash", "vibe-ws/feat-two")
	gittest.Git(t, env.repo, "commit", "-q", "-m", "Squashed vibe-ws/feat-two")

	opts := MergedPreset()
	opts.AutoConfirm = true
	opts.DeleteBranch = true
	report, err := env.orch.Run(ctx, opts)
	require.NoError(t, err)

	res := report.Find(feat.Path)
	require.NotNil(t, res)
	assert.Equal(t, Skipped, res.Action, res.Reason)
	assert.Contains(t, res.Reason, "Branch does not appear to be merged")
	assert.DirExists(t, feat.Path)
	assert.True(t, git.BranchExists(ctx, env.repo, "vibe-ws/feat"))
}

func TestRun_AgeThreshold(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, gittest.NewRepo(t))
	young := env.create(t, "young")
	gittest.WriteFile(t, young.Path, "README.md", "# edited\n")
	old := env.create(t, "old")
	gittest.Backdate(t, old.Path, 30*24*time.Hour)

	report, err := env.orch.Run(ctx, unattended())
	require.NoError(t, err)

	youngRes := report.Find(young.Path)
	require.NotNil(t, youngRes)
	assert.Equal(t, Skipped, youngRes.Action)
	assert.Contains(t, kinds(youngRes.Violations), BranchTooNew)
	assert.Contains(t, kinds(youngRes.Violations), UncommittedChanges)
	assert.DirExists(t, young.Path)

	oldRes := report.Find(old.Path)
	require.NotNil(t, oldRes)
	assert.Equal(t, Cleaned, oldRes.Action, oldRes.Reason)
	assert.Equal(t, "Worktree removed", oldRes.Reason)
	assert.NoDirExists(t, old.Path)
	assert.True(t, git.BranchExists(ctx, env.repo, "vibe-ws/old"), "branch kept without DeleteBranch")
}

func TestRun_MainAndFilters(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, gittest.NewRepo(t))
	rec := env.create(t, "filtered")

	opts := unattended()
	opts.BranchPrefix = "other/"
	report, err := env.orch.Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, Skipped, report.Results[0].Action)
	assert.Equal(t, "Main repository worktree", report.Results[0].Reason)
	res := report.Find(rec.Path)
	require.NotNil(t, res)
	assert.Equal(t, Skipped, res.Action)
	assert.Equal(t, "Does not match cleanup filters", res.Reason)
	assert.Equal(t, 2, report.SkippedN)
}

func TestRun_Confirmation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, gittest.NewRepo(t))
	rec := env.create(t, "ask")
	gittest.Backdate(t, rec.Path, 48*time.Hour)

	opts := DefaultOptions()
	report, err := env.orch.Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, "Confirmation required (use --yes to skip)", report.Find(rec.Path).Reason)

	var asked []string
	opts.Confirm = func(_ context.Context, c Candidate) (bool, error) {
		asked = append(asked, c.Record.Branch)
		return false, nil
	}
	report, err = env.orch.Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"vibe-ws/ask"}, asked)
	assert.Equal(t, "User declined cleanup", report.Find(rec.Path).Reason)

	opts.Confirm = func(context.Context, Candidate) (bool, error) { return false, errors.New("tty closed") }
	report, err = env.orch.Run(ctx, opts)
	require.NoError(t, err)
	res := report.Find(rec.Path)
	assert.Equal(t, Failed, res.Action)
	assert.Equal(t, "tty closed", res.Error)
	assert.DirExists(t, rec.Path)

	opts.Confirm = func(context.Context, Candidate) (bool, error) { return true, nil }
	report, err = env.orch.Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, Cleaned, report.Find(rec.Path).Action)
	assert.NoDirExists(t, rec.Path)
}

func TestRun_MergeToFeature(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, gittest.NewRepo(t))
	gittest.Git(t, env.repo, "branch", "login")
	rec := env.create(t, "login")
	gittest.Commit(t, rec.Path, "login.go", "package login\n", "Add login")
	gittest.Backdate(t, rec.Path, 48*time.Hour)

	opts := unattended()
	opts.Strategy = MergeToFeature
	report, err := env.orch.Run(ctx, opts)
	require.NoError(t, err)

	res := report.Find(rec.Path)
	require.NotNil(t, res)
	assert.Equal(t, MergedToFeature, res.Action, res.Reason)
	assert.Equal(t, "Merged to 'login' and cleaned", res.Reason)
	assert.Equal(t, "package login", gittest.Git(t, env.repo, "show", "login:login.go"))
	assert.False(t, git.BranchExists(ctx, env.repo, "vibe-ws/login"))
	assert.NoDirExists(t, rec.Path)
	assert.Equal(t, 1, report.CleanedN)
}

func TestRun_MergeToFeatureConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, gittest.NewRepo(t))
	gittest.Git(t, env.repo, "checkout", "-q", "-b", "shared")
	gittest.Commit(t, env.repo, "README.md", "# target\n", "Target edit")
	gittest.Git(t, env.repo, "checkout", "-q", "main")

	rec := env.create(t, "shared")
	gittest.Commit(t, rec.Path, "README.md", "# worktree\n", "Worktree edit")
	gittest.Backdate(t, rec.Path, 48*time.Hour)

	opts := unattended()
	opts.Strategy = MergeToFeature
	report, err := env.orch.Run(ctx, opts)
	require.NoError(t, err)

	res := report.Find(rec.Path)
	require.NotNil(t, res)
	assert.Equal(t, Failed, res.Action)
	assert.Equal(t, "Merge conflicts detected: 1 conflicted files", res.Reason)
	var conflict *errs.ConflictError
	require.ErrorAs(t, res.Err, &conflict)
	assert.Equal(t, []string{"README.md"}, conflict.Files)
	assert.ErrorIs(t, res.Err, errs.ErrMergeConflict)

	assert.DirExists(t, rec.Path)
	assert.Equal(t, "vibe-ws/shared", gittest.Git(t, rec.Path, "rev-parse", "--abbrev-ref", "HEAD"))
	assert.Empty(t, gittest.Git(t, rec.Path, "status", "--porcelain"))
	assert.Equal(t, 1, report.FailedN)
}

func TestRun_MergeToFeatureMissingTarget(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, gittest.NewRepo(t))
	rec := env.create(t, "orphan")
	gittest.Backdate(t, rec.Path, 48*time.Hour)

	opts := unattended()
	opts.Strategy = "merge-to-feature"
	report, err := env.orch.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, MergeToFeature, report.Strategy)
	res := report.Find(rec.Path)
	require.NotNil(t, res)
	assert.Equal(t, Failed, res.Action)
	assert.Equal(t, "Target feature branch 'orphan' does not exist", res.Reason)
	assert.ErrorIs(t, res.Err, errs.ErrMergeTarget)
	assert.DirExists(t, rec.Path)
}

func TestRun_BackupToOrigin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, origin := gittest.NewRepoWithOrigin(t)
	env := newTestEnv(t, repo)
	rec := env.create(t, "backup")
	gittest.Commit(t, rec.Path, "wip.txt", "wip\n", "Work in progress")
	head := gittest.Git(t, rec.Path, "rev-parse", "HEAD")
	gittest.Backdate(t, rec.Path, 48*time.Hour)

	opts := unattended()
	opts.Strategy = BackupToOrigin
	opts.DeleteBranch = true
	report, err := env.orch.Run(ctx, opts)
	require.NoError(t, err)

	res := report.Find(rec.Path)
	require.NotNil(t, res)
	assert.Equal(t, BackedUpToOrigin, res.Action, res.Reason)
	assert.Equal(t, "Backed up to origin and cleaned", res.Reason)
	assert.Equal(t, head, gittest.Git(t, origin, "rev-parse", "refs/heads/vibe-ws/backup"))
	assert.True(t, git.BranchExists(ctx, repo, "vibe-ws/backup"), "backup keeps the local branch")
	assert.NoDirExists(t, rec.Path)
}

func TestRun_StashAndDiscard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, gittest.NewRepo(t))
	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	env.orch.now = func() time.Time { return now }

	rec := env.create(t, "stashy")
	gittest.WriteFile(t, rec.Path, "README.md", "# unsaved\n")
	gittest.Backdate(t, rec.Path, 48*time.Hour)

	opts := unattended()
	opts.Strategy = StashAndDiscard
	opts.Force = true
	report, err := env.orch.Run(ctx, opts)
	require.NoError(t, err)

	res := report.Find(rec.Path)
	require.NotNil(t, res)
	assert.Equal(t, StashCreated, res.Action, res.Reason)
	assert.Equal(t, "Stashed changes as 'vibe-cleanup-vibe-ws/stashy-20240309-140506' and cleaned", res.Reason)
	assert.NoDirExists(t, rec.Path)

	stashes, err := git.StashList(ctx, env.repo)
	require.NoError(t, err)
	require.Len(t, stashes, 1)
	assert.True(t, strings.HasSuffix(stashes[0], "vibe-cleanup-vibe-ws/stashy-20240309-140506"), stashes[0])
}

func TestRun_StashAndDiscardNothingToStash(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, gittest.NewRepo(t))
	rec := env.create(t, "tidy")
	gittest.Backdate(t, rec.Path, 48*time.Hour)

	opts := unattended()
	opts.Strategy = StashAndDiscard
	report, err := env.orch.Run(context.Background(), opts)
	require.NoError(t, err)

	res := report.Find(rec.Path)
	require.NotNil(t, res)
	assert.Equal(t, StashCreated, res.Action)
	assert.Equal(t, "No changes to stash, worktree cleaned", res.Reason)
}

func TestRun_InvalidStrategy(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, gittest.NewRepo(t))
	opts := unattended()
	opts.Strategy = "shred"
	_, err := env.orch.Run(context.Background(), opts)
	assert.Error(t, err)
}

func TestCheck_MergedOnly(t *testing.T) {
	t.Parallel()

	heuristic := &merge.Result{
		IsMerged: true, Method: merge.MethodSquash, Confidence: 0.7, Heuristic: true,
		Details: "issue #42 referenced on main",
		Results: []merge.StrategyResult{{Method: merge.MethodSquash, Merged: true, Confidence: 0.7, Heuristic: true}},
	}
	direct := &merge.Result{
		IsMerged: true, Method: merge.MethodStandard, Confidence: 0.95,
		Results: []merge.StrategyResult{{Method: merge.MethodStandard, Merged: true, Confidence: 0.95}},
	}

	tests := []struct {
		name   string
		merge  *merge.Result
		opts   func(*Options)
		want   Level
		detail string
	}{
		{"no verdict", nil, nil, Critical, "No merge information available"},
		{"not merged", &merge.Result{Method: merge.MethodStandard, Confidence: 0.8}, nil, Critical, "Branch does not appear to be merged"},
		{"low confidence", heuristic, func(o *Options) { o.MinMergeConfidence = 0.8 }, Warning, "Merge confidence too low: 70% (minimum: 80%)"},
		{"heuristic unattended", heuristic, func(o *Options) { o.AutoConfirm = true }, Critical, "Merge evidence is heuristic only"},
		{"heuristic confirmed", heuristic, func(o *Options) { o.Confirm = func(context.Context, Candidate) (bool, error) { return true, nil } }, "", ""},
		{"heuristic dry run", heuristic, func(o *Options) { o.AutoConfirm, o.DryRun = true, true }, "", ""},
		{"direct unattended", direct, func(o *Options) { o.AutoConfirm = true }, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{MergedOnly: true, MinMergeConfidence: 0.5}
			if tt.opts != nil {
				tt.opts(&opts)
			}
			st := &status.Status{Merge: tt.merge}
			vs := check(worktree.Record{Path: "/wt/a"}, st, &opts, "")
			if tt.want == "" {
				assert.Empty(t, vs)
				return
			}
			require.Len(t, vs, 1)
			assert.Equal(t, LowMergeConfidence, vs[0].Kind)
			assert.Equal(t, tt.want, vs[0].Level)
			assert.Contains(t, vs[0].Description, tt.detail)
		})
	}
}

func TestCheck_RemoteAndInUse(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	wt := filepath.Join(dir, "wt")
	rec := worktree.Record{Path: wt, Age: 48 * time.Hour}
	opts := DefaultOptions()
	opts.RequireRemote = true

	vs := check(rec, &status.Status{Remote: status.RemoteState{Kind: status.NoRemote}}, &opts, filepath.Join(wt, "pkg"))
	assert.Equal(t, []Kind{NoRemoteTracking, WorktreeInUse}, kinds(vs))
	assert.Equal(t, Critical, vs[1].Level)

	vs = check(rec, &status.Status{Upstream: "origin/x", Remote: status.RemoteState{Kind: status.RemoteDeleted}}, &opts, wt+"-other")
	require.Equal(t, []Kind{RemoteBranchMissing}, kinds(vs))
	assert.Equal(t, "Remote branch origin/x no longer exists", vs[0].Description)

	vs = check(rec, &status.Status{Remote: status.RemoteState{Kind: status.Ahead, Ahead: 3}}, &opts, "")
	require.Equal(t, []Kind{UnpushedCommits}, kinds(vs))
	assert.Equal(t, "3 unpushed commits", vs[0].Description)
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "30 minutes", FormatDuration(30*time.Minute))
	assert.Equal(t, "5 hours", FormatDuration(5*time.Hour))
	assert.Equal(t, "3 days", FormatDuration(3*24*time.Hour))
}

func TestPresets(t *testing.T) {
	t.Parallel()

	def := DefaultOptions()
	assert.Equal(t, Discard, def.Strategy)
	assert.Equal(t, 24*time.Hour, def.MinAge)
	assert.InDelta(t, 0.8, def.MinMergeConfidence, 1e-9)
	assert.False(t, def.Force)
	assert.False(t, def.DryRun)

	merged := MergedPreset()
	assert.True(t, merged.MergedOnly)
	assert.InDelta(t, 0.7, merged.MinMergeConfidence, 1e-9)

	assert.Equal(t, 7*24*time.Hour, OldWorktreesPreset(7).MinAge)

	fromCfg := OptionsFromConfig(config.CleanupConfig{AgeThresholdHours: 48, VerifyRemote: true, RequireConfirmation: false})
	assert.Equal(t, 48*time.Hour, fromCfg.MinAge)
	assert.True(t, fromCfg.RequireRemote)
	assert.True(t, fromCfg.AutoConfirm)
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Strategy{
		"discard":           Discard,
		"merge-to-feature":  MergeToFeature,
		"BACKUP_TO_ORIGIN":  BackupToOrigin,
		"stash-and-discard": StashAndDiscard,
	} {
		got, err := ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseStrategy("nuke")
	assert.Error(t, err)
}
