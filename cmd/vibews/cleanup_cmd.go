package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/toolprint/vibews/internal/cleanup"
	"github.com/toolprint/vibews/internal/output"
	"github.com/toolprint/vibews/internal/status"
	"github.com/toolprint/vibews/internal/ui/prompt"
	"github.com/toolprint/vibews/internal/ui/static"
	"github.com/toolprint/vibews/internal/ui/styles"
)

func newCleanupCmd() *cobra.Command {
	var (
		strategy      string
		minAge        time.Duration
		olderThan     int
		force         bool
		dryRun        bool
		yes           bool
		branchPrefix  string
		merged        bool
		minConfidence float64
		verifyRemote  bool
		deleteBranch  bool
		remote        string
	)

	cmd := &cobra.Command{
		Use:     "cleanup",
		Short:   "Remove worktrees that are safe to remove",
		Aliases: []string{"clean"},
		GroupID: GroupCleanup,
		Args:    cobra.NoArgs,
		Long: `Evaluate every linked worktree against the safety checks and clean the
ones that pass.

Checks that produce a warning (too young, uncommitted or untracked files,
unpushed commits, low merge confidence, missing upstream) skip the worktree
unless --force is given. Critical checks (branch not merged under --merged,
worktree is the current directory, heuristic-only merge evidence without
confirmation) always skip it.

Strategies:
  discard            remove the worktree
  merge-to-feature   merge into the branch without the prefix, then remove
  backup-to-origin   push the branch to the remote, then remove
  stash-and-discard  stash uncommitted work, then remove

Each worktree is confirmed interactively unless --yes or --dry-run is given.
Without a terminal and without --yes nothing is removed.`,
		Example: `  vibews cleanup --dry-run                 # Preview
  vibews cleanup --merged                  # Only merged branches, ask for each
  vibews cleanup --merged --yes            # Unattended
  vibews cleanup --older-than 14 --force   # Everything two weeks old
  vibews cleanup --strategy backup-to-origin --prefix vibe-ws/spike-`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			out := output.FromContext(ctx)
			cfg := loadedConfig(ctx)
			flags := cmd.Flags()

			opts := cleanup.OptionsFromConfig(cfg.Cleanup)
			if merged {
				preset := cleanup.MergedPreset()
				opts.MergedOnly = true
				opts.MinMergeConfidence = preset.MinMergeConfidence
			}
			if flags.Changed("older-than") {
				opts.MinAge = cleanup.OldWorktreesPreset(olderThan).MinAge
			}
			if flags.Changed("min-age") {
				opts.MinAge = minAge
			}
			if flags.Changed("min-confidence") {
				opts.MinMergeConfidence = minConfidence
			}
			if flags.Changed("verify-remote") {
				opts.RequireRemote = verifyRemote
			}
			if flags.Changed("delete-branch") {
				opts.DeleteBranch = deleteBranch
			}
			if flags.Changed("strategy") {
				s, err := cleanup.ParseStrategy(strategy)
				if err != nil {
					return err
				}
				opts.Strategy = s
			}
			opts.Force = force
			opts.DryRun = dryRun
			opts.AutoConfirm = opts.AutoConfirm || yes
			opts.BranchPrefix = branchPrefix
			opts.Remote = remote

			if !opts.AutoConfirm && !opts.DryRun && stdinInteractive() {
				opts.Confirm = func(ctx context.Context, c cleanup.Candidate) (bool, error) {
					res, err := prompt.Confirm(ctx, confirmRequest(c), os.Stdin, os.Stderr)
					if err != nil {
						return false, err
					}
					if res.Cancelled {
						cancel()
					}
					return res.Confirmed, nil
				}
			}

			orch := cleanup.New(newManager(ctx), newTracker(ctx, true))
			report, err := orch.Run(ctx, opts)
			if err != nil {
				return err
			}

			if out.Structured() {
				if err := out.Encode(report); err != nil {
					return err
				}
			} else {
				out.Print(renderReport(report))
			}
			if report.FailedN > 0 {
				return fmt.Errorf("%d worktree(s) could not be cleaned up", report.FailedN)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&strategy, "strategy", "s", string(cleanup.Discard), "Cleanup strategy: discard, merge-to-feature, backup-to-origin, stash-and-discard")
	cmd.Flags().DurationVar(&minAge, "min-age", 0, "Minimum worktree age (default cleanup.age_threshold_hours)")
	cmd.Flags().IntVar(&olderThan, "older-than", 0, "Minimum worktree age in days")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Override warning-level safety checks")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be cleaned without changing anything")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().StringVar(&branchPrefix, "prefix", "", "Only consider branches starting with this prefix")
	cmd.Flags().BoolVarP(&merged, "merged", "m", false, "Only clean branches detected as merged")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "Minimum merge confidence between 0 and 1 (default 0.8, 0.7 with --merged)")
	cmd.Flags().BoolVar(&verifyRemote, "verify-remote", false, "Require a live upstream branch (default cleanup.verify_remote)")
	cmd.Flags().BoolVarP(&deleteBranch, "delete-branch", "D", false, "Delete branches of removed worktrees (default cleanup.auto_delete_branch)")
	cmd.Flags().StringVar(&remote, "remote", "", "Remote for backup-to-origin (default: configured remote)")
	cmd.MarkFlagsMutuallyExclusive("min-age", "older-than")
	_ = cmd.RegisterFlagCompletionFunc("strategy", cobra.FixedCompletions(
		[]string{"discard", "merge-to-feature", "backup-to-origin", "stash-and-discard"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// confirmRequest describes c for the confirmation prompt.
func confirmRequest(c cleanup.Candidate) prompt.Request {
	details := []string{
		"Path:     " + c.Record.Path,
		"Strategy: " + string(c.Strategy),
	}
	if c.Status != nil {
		details = append(details, "Status:   "+status.Describe(c.Status))
		if m := c.Status.Merge; m != nil && m.IsMerged {
			details = append(details, fmt.Sprintf("Merged:   %.0f%% via %s (%s)", m.Confidence*100, m.Method, m.Details))
		}
	}
	if len(c.Violations) > 0 {
		details = append(details, "Overridden safety checks:")
		for _, v := range c.Violations {
			details = append(details, "  "+styles.Level(v.Level)+" "+v.Description)
		}
	}
	return prompt.Request{
		Question: fmt.Sprintf("Clean up %s?", styles.Render(styles.PrimaryStyle, c.Record.Branch)),
		Details:  details,
	}
}

func renderReport(r *cleanup.Report) string {
	var b strings.Builder
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		reason := res.Reason
		if res.Error != "" {
			reason += ": " + res.Error
		}
		rows = append(rows, []string{res.Branch, styles.Action(res.Action), reason})
	}
	b.WriteString(static.RenderTable([]string{"BRANCH", "ACTION", "REASON"}, rows))

	summary := r.Summary()
	if r.DryRun {
		summary = "Dry run: " + summary
	}
	b.WriteString("\n" + summary + "\n")
	return b.String()
}
