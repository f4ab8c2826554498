package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/toolprint/vibews/internal/config"
	"github.com/toolprint/vibews/internal/git"
	"github.com/toolprint/vibews/internal/merge"
	"github.com/toolprint/vibews/internal/output"
	"github.com/toolprint/vibews/internal/status"
	"github.com/toolprint/vibews/internal/ui/styles"
)

// statusReport is the structured form of status output.
type statusReport struct {
	*status.Status `yaml:",inline"`
	Active         *bool              `json:"active,omitempty" yaml:"active,omitempty"`
	BranchInfo     *status.BranchInfo `json:"branch_info,omitempty" yaml:"branch_info,omitempty"`
	Diff           string             `json:"diff,omitempty" yaml:"diff,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var (
		diff     bool
		compact  bool
		activity time.Duration
		noMerge  bool
	)

	cmd := &cobra.Command{
		Use:     "status [branch|path]",
		Short:   "Show the status of a worktree",
		Aliases: []string{"st"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Show uncommitted changes, unpushed commits, upstream state and merge
detection results for one worktree (default: the current directory).`,
		Example: `  vibews status                        # Current worktree
  vibews status vibe-ws/login-form     # By branch
  vibews status --diff --compact       # Include changed files
  vibews status --activity 24h         # Was anything done in the last day?`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			cfg := loadedConfig(ctx)
			var err error

			var target string
			if len(args) == 1 {
				target = args[0]
			} else if target, err = git.TopLevel(ctx, config.WorkDirFromContext(ctx)); err != nil {
				return err
			}
			rec, err := newManager(ctx).Find(ctx, target)
			if err != nil {
				return err
			}

			detector := newDetector(ctx)
			tracker := newTracker(ctx, false)
			if !noMerge {
				tracker.Merge = detector
			}
			st, err := tracker.Compute(ctx, rec.Path)
			if err != nil {
				return err
			}

			report := statusReport{Status: st}
			if main, err := detector.MainBranch(ctx, rec.Path); err == nil {
				if report.BranchInfo, err = tracker.Branch(ctx, rec.Path, main); err != nil {
					return err
				}
			}
			if activity > 0 {
				active, err := tracker.Activity(ctx, rec.Path, activity)
				if err != nil {
					return err
				}
				report.Active = &active
			}
			if diff {
				if report.Diff, err = tracker.Diff(ctx, rec.Path, compact); err != nil {
					return err
				}
			}

			if out.Structured() {
				return out.Encode(report)
			}
			out.Print(renderStatus(report, cfg.Status, activity))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&diff, "diff", "d", false, "Show a diff summary of uncommitted changes")
	cmd.Flags().BoolVar(&compact, "compact", false, "With --diff, list changed files instead of a stat table")
	cmd.Flags().DurationVar(&activity, "activity", 0, "Report whether there was activity within this window (e.g. 24h)")
	cmd.Flags().BoolVar(&noMerge, "no-merge", false, "Skip merge detection")

	return cmd
}

func renderStatus(r statusReport, cfg config.StatusConfig, activity time.Duration) string {
	st := r.Status
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s  %s\n", styles.Severity(st.Severity), styles.Render(styles.Bold, st.Branch), st.Severity)
	fmt.Fprintf(&b, "  Path:     %s\n", st.Path)
	remote := st.Remote.String()
	if st.Upstream != "" {
		remote = st.Upstream + ", " + remote
	}
	fmt.Fprintf(&b, "  Remote:   %s\n", remote)
	fmt.Fprintf(&b, "  Summary:  %s\n", status.Describe(st))
	if bi := r.BranchInfo; bi != nil && bi.CommitCount > 0 {
		fmt.Fprintf(&b, "  Branch:   %d commits on top of %s", bi.CommitCount, bi.Main)
		if bi.FirstCommit != nil {
			fmt.Fprintf(&b, ", first %s %s", bi.FirstCommit.ShortHash(), bi.FirstCommit.Subject)
		}
		b.WriteString("\n")
	}
	if r.Active != nil {
		state := "no activity"
		if *r.Active {
			state = "active"
		}
		fmt.Fprintf(&b, "  Activity: %s in the last %s\n", state, activity)
	}

	if cfg.ShowFiles && st.HasChanges() {
		b.WriteString("\nChanges:\n")
		lines := make([]string, 0, len(st.Changes)+len(st.Untracked))
		for _, c := range st.Changes {
			lines = append(lines, c.Description())
		}
		for _, u := range st.Untracked {
			lines = append(lines, "untracked: "+u)
		}
		writeLimited(&b, lines, cfg.MaxFilesShown)
	}

	if cfg.ShowCommitMessages && len(st.Unpushed) > 0 {
		b.WriteString("\nUnpushed commits:\n")
		lines := make([]string, 0, len(st.Unpushed))
		for _, c := range st.Unpushed {
			lines = append(lines, styles.Render(styles.PrimaryStyle, c.ShortHash())+" "+c.Subject)
		}
		writeLimited(&b, lines, cfg.MaxCommitsShown)
	}

	if st.Merge != nil {
		b.WriteString("\n")
		b.WriteString(renderMerge(st.Merge))
	}

	if r.Diff != "" {
		b.WriteString("\n")
		b.WriteString(r.Diff)
		b.WriteString("\n")
	}
	return b.String()
}

func writeLimited(b *strings.Builder, lines []string, limit int) {
	for i, line := range lines {
		if limit > 0 && i == limit {
			fmt.Fprintf(b, "  %s\n", styles.Render(styles.MutedStyle, fmt.Sprintf("... and %d more", len(lines)-limit)))
			return
		}
		fmt.Fprintf(b, "  %s\n", line)
	}
}

// renderMerge shows the verdict and each strategy's result.
func renderMerge(res *merge.Result) string {
	var b strings.Builder
	verdict := "not merged"
	if res.IsMerged {
		verdict = "merged"
	}
	if res.Heuristic {
		verdict += " (heuristic)"
	}
	fmt.Fprintf(&b, "Merge: %s, %.0f%% via %s\n", verdict, res.Confidence*100, res.Method)
	for _, r := range res.Results {
		detail := r.Details
		if r.Error != "" {
			detail = styles.Render(styles.ErrorStyle, r.Error)
		}
		mark := "-"
		if r.Merged {
			mark = "+"
		}
		fmt.Fprintf(&b, "  %s %-13s %3.0f%%  %s\n", mark, r.Method, r.Confidence*100, detail)
	}
	return b.String()
}
