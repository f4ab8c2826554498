package cleanup

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/toolprint/vibews/internal/log"
	"github.com/toolprint/vibews/internal/status"
	"github.com/toolprint/vibews/internal/worktree"
)

// Candidate is a worktree that passed the safety checks and is about to be
// cleaned. Violations holds the Warning violations overridden by force.
type Candidate struct {
	Record     worktree.Record
	Status     *status.Status
	Strategy   Strategy
	Violations []Violation
}

// Orchestrator decides which worktrees may be removed and removes them.
type Orchestrator struct {
	Manager *worktree.Manager
	// Tracker computes status. Its Merge detector, when set, supplies the
	// verdict MergedOnly runs depend on.
	Tracker *status.Tracker

	getwd func() (string, error)
	now   func() time.Time
}

// New returns an Orchestrator over the worktrees of m.
func New(m *worktree.Manager, t *status.Tracker) *Orchestrator {
	return &Orchestrator{Manager: m, Tracker: t, getwd: os.Getwd, now: time.Now}
}

func (o *Orchestrator) clock() time.Time {
	if o.now == nil {
		return time.Now()
	}
	return o.now()
}

func (o *Orchestrator) cwd() string {
	getwd := o.getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	dir, err := getwd()
	if err != nil {
		return ""
	}
	return dir
}

// Run evaluates every worktree of the repository and cleans the ones that
// pass the safety checks with opts.Strategy.
//
// Status and merge detection for all candidates run in parallel. Strategies
// then execute one worktree at a time in list order, so the report is
// deterministic and no two git processes write refs concurrently.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Strategy == "" {
		opts.Strategy = Discard
	}
	strategy, err := ParseStrategy(string(opts.Strategy))
	if err != nil {
		return nil, err
	}
	opts.Strategy = strategy
	l := log.FromContext(ctx)

	records, err := o.Manager.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Strategy:  opts.Strategy,
		DryRun:    opts.DryRun,
		StartedAt: o.clock(),
		Evaluated: len(records),
	}
	l.Debug("cleanup started", "run", report.RunID, "strategy", opts.Strategy, "worktrees", len(records), "dry_run", opts.DryRun)

	// Results settled before evaluation keep their Action; the rest point
	// into statuses.
	results := make([]Result, len(records))
	slot := make([]int, len(records))
	var paths []string
	for i, rec := range records {
		results[i] = Result{Path: rec.Path, Branch: rec.Branch}
		switch {
		case rec.Bare || o.Manager.IsMainWorktree(rec.Path):
			results[i].Action, results[i].Reason = Skipped, "Main repository worktree"
		case opts.BranchPrefix != "" && !strings.HasPrefix(rec.Branch, opts.BranchPrefix):
			results[i].Action, results[i].Reason = Skipped, "Does not match cleanup filters"
		default:
			slot[i] = len(paths)
			paths = append(paths, rec.Path)
		}
	}

	statuses, warnings := o.Tracker.ComputeAll(ctx, paths)
	failures := make(map[string]error, len(warnings))
	for _, w := range warnings {
		failures[w.Path] = w.Err
	}

	cwd := o.cwd()
	for i, rec := range records {
		res := results[i]
		switch {
		case res.Action != "":
		case statuses[slot[i]] == nil:
			res.fail("Processing error", failures[rec.Path])
		case ctx.Err() != nil:
			res.Action, res.Reason = Skipped, "Cleanup cancelled"
		default:
			res = o.process(ctx, rec, statuses[slot[i]], &opts, cwd)
		}
		if res.Action == Failed {
			l.Warnf("cleanup of %s failed: %s", rec.Path, res.Reason)
		}
		report.add(res)
	}

	report.Duration = o.clock().Sub(report.StartedAt)
	l.Debug("cleanup complete", "run", report.RunID,
		"cleaned", report.CleanedN, "skipped", report.SkippedN, "failed", report.FailedN)
	return report, nil
}

// process applies the safety policy to one evaluated worktree and, if it
// passes, the strategy.
func (o *Orchestrator) process(ctx context.Context, rec worktree.Record, st *status.Status, opts *Options, cwd string) Result {
	res := Result{Path: rec.Path, Branch: rec.Branch}
	res.Violations = check(rec, st, opts, cwd)

	if critical := descriptions(res.Violations, Critical); len(critical) > 0 {
		res.Action = Skipped
		res.Reason = "Critical safety violations: " + strings.Join(critical, ", ")
		return res
	}
	if warnings := descriptions(res.Violations, Warning); len(warnings) > 0 && !opts.Force {
		res.Action = Skipped
		res.Reason = "Safety violations (use --force to override): " + strings.Join(warnings, ", ")
		return res
	}

	if opts.needsConfirm() {
		if opts.Confirm == nil {
			res.Action, res.Reason = Skipped, "Confirmation required (use --yes to skip)"
			return res
		}
		ok, err := opts.Confirm(ctx, Candidate{Record: rec, Status: st, Strategy: opts.Strategy, Violations: res.Violations})
		if err != nil {
			res.fail("Confirmation failed", err)
			return res
		}
		if !ok {
			res.Action, res.Reason = Skipped, "User declined cleanup"
			return res
		}
	}

	if opts.DryRun {
		res.Action, res.Reason = Cleaned, "Would be cleaned (dry run)"
		return res
	}

	log.FromContext(ctx).Debug("cleaning worktree", "path", rec.Path, "branch", rec.Branch, "strategy", opts.Strategy)
	switch opts.Strategy {
	case MergeToFeature:
		o.mergeToFeature(ctx, rec, &res)
	case BackupToOrigin:
		o.backupToOrigin(ctx, rec, opts, &res)
	case StashAndDiscard:
		o.stashAndDiscard(ctx, rec, opts, &res)
	default:
		o.discard(ctx, rec, opts, &res)
	}
	return res
}
