package cleanup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/toolprint/vibews/internal/config"
)

// Strategy is what happens to a worktree that passed the safety checks.
type Strategy string

const (
	// Discard removes the worktree.
	Discard Strategy = "discard"
	// MergeToFeature merges the worktree branch into the branch named by
	// stripping the managed prefix, then removes the worktree and its branch.
	MergeToFeature Strategy = "merge_to_feature"
	// BackupToOrigin pushes the branch to the remote, then removes the
	// worktree and keeps the branch.
	BackupToOrigin Strategy = "backup_to_origin"
	// StashAndDiscard stashes uncommitted work, then removes the worktree.
	StashAndDiscard Strategy = "stash_and_discard"
)

// Strategies lists every strategy in display order.
var Strategies = []Strategy{Discard, MergeToFeature, BackupToOrigin, StashAndDiscard}

// ParseStrategy accepts a strategy name, with '-' and '_' interchangeable.
func ParseStrategy(s string) (Strategy, error) {
	name := Strategy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, st := range Strategies {
		if st == name {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown cleanup strategy %q (valid: discard, merge-to-feature, backup-to-origin, stash-and-discard)", s)
}

// ConfirmFunc asks whether c should be cleaned. It is only called for
// worktrees that passed the safety checks, and only when the run is neither
// a dry run nor auto-confirmed. Without a ConfirmFunc such worktrees are
// skipped.
type ConfirmFunc func(ctx context.Context, c Candidate) (bool, error)

// Options controls Orchestrator.Run.
type Options struct {
	Strategy Strategy
	// MinAge is the age below which a worktree gets a BranchTooNew
	// violation. Zero disables the check.
	MinAge time.Duration
	// Force overrides Warning violations. Critical ones always block.
	Force       bool
	DryRun      bool
	AutoConfirm bool
	// BranchPrefix, when set, limits cleanup to branches starting with it.
	BranchPrefix string
	// MergedOnly requires a positive merge verdict of at least
	// MinMergeConfidence.
	MergedOnly         bool
	MinMergeConfidence float64
	// RequireRemote flags worktrees without a live upstream branch.
	RequireRemote bool
	// DeleteBranch deletes the local branch after Discard and
	// StashAndDiscard. MergeToFeature always deletes it; BackupToOrigin
	// never does.
	DeleteBranch bool
	// Remote is pushed to by BackupToOrigin. Empty means the configured
	// remote.
	Remote  string
	Confirm ConfirmFunc
}

// DefaultOptions returns discard with a 24 hour minimum age and 0.8 minimum
// merge confidence.
func DefaultOptions() Options {
	return Options{
		Strategy:           Discard,
		MinAge:             24 * time.Hour,
		MinMergeConfidence: 0.8,
	}
}

// OptionsFromConfig returns DefaultOptions adjusted by the [cleanup]
// section of the configuration.
func OptionsFromConfig(cfg config.CleanupConfig) Options {
	opts := DefaultOptions()
	if cfg.AgeThresholdHours > 0 {
		opts.MinAge = time.Duration(cfg.AgeThresholdHours) * time.Hour
	}
	opts.RequireRemote = cfg.VerifyRemote
	opts.DeleteBranch = cfg.AutoDeleteBranch
	opts.AutoConfirm = !cfg.RequireConfirmation
	return opts
}

// MergedPreset cleans only worktrees whose branch is merged with at least
// 0.7 confidence.
func MergedPreset() Options {
	opts := DefaultOptions()
	opts.MergedOnly = true
	opts.MinMergeConfidence = 0.7
	return opts
}

// OldWorktreesPreset cleans worktrees at least days old.
func OldWorktreesPreset(days int) Options {
	opts := DefaultOptions()
	opts.MinAge = time.Duration(days) * 24 * time.Hour
	return opts
}

// unattended reports whether the run removes worktrees without a human
// looking at each one.
func (o *Options) unattended() bool {
	return !o.DryRun && o.AutoConfirm
}

func (o *Options) needsConfirm() bool {
	return !o.DryRun && !o.AutoConfirm
}

// FormatDuration renders d in whole days, hours or minutes.
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	switch {
	case hours >= 24:
		return fmt.Sprintf("%d days", hours/24)
	case hours > 0:
		return fmt.Sprintf("%d hours", hours)
	default:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
}
