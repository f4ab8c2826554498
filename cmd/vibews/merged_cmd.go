package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/toolprint/vibews/internal/config"
	"github.com/toolprint/vibews/internal/git"
	"github.com/toolprint/vibews/internal/log"
	"github.com/toolprint/vibews/internal/merge"
	"github.com/toolprint/vibews/internal/output"
	"github.com/toolprint/vibews/internal/ui/static"
	"github.com/toolprint/vibews/internal/ui/styles"
	"github.com/toolprint/vibews/internal/worktree"
)

// maxConcurrentDetections bounds parallel merge detection across worktrees.
const maxConcurrentDetections = 8

// mergedEntry is the merge verdict for one worktree.
type mergedEntry struct {
	Path   string        `json:"path" yaml:"path"`
	Branch string        `json:"branch" yaml:"branch"`
	Result *merge.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string        `json:"error,omitempty" yaml:"error,omitempty"`
}

func newMergedCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "merged [branch|path]",
		Short:   "Check whether worktree branches are merged",
		GroupID: GroupCleanup,
		Args:    cobra.MaximumNArgs(1),
		Long: `Run merge detection for one worktree (default: the current directory) or,
with --all, for every linked worktree in parallel.

Strategies run in the order of merge_detection.methods. Each one reports a
verdict and a confidence; the highest-confidence positive verdict wins.`,
		Example: `  vibews merged                   # Current worktree
  vibews merged vibe-ws/login     # One branch
  vibews merged --all             # Every worktree`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			mgr := newManager(ctx)

			if all && len(args) > 0 {
				return fmt.Errorf("--all cannot be combined with a worktree argument")
			}

			var targets []worktree.Record
			if all {
				records, err := mgr.List(ctx)
				if err != nil {
					return err
				}
				for _, rec := range records {
					if rec.Bare || rec.Detached || mgr.IsMainWorktree(rec.Path) {
						continue
					}
					targets = append(targets, rec)
				}
			} else {
				target := ""
				if len(args) == 1 {
					target = args[0]
				} else {
					top, err := git.TopLevel(ctx, config.WorkDirFromContext(ctx))
					if err != nil {
						return err
					}
					target = top
				}
				rec, err := mgr.Find(ctx, target)
				if err != nil {
					return err
				}
				if rec.Detached {
					return fmt.Errorf("%s has no branch checked out", rec.Path)
				}
				targets = append(targets, *rec)
			}

			detector := newDetector(ctx)
			entries := make([]mergedEntry, len(targets))
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(maxConcurrentDetections)
			for i, rec := range targets {
				g.Go(func() error {
					entries[i] = mergedEntry{Path: rec.Path, Branch: rec.Branch}
					res, err := detector.Detect(gctx, rec.Path, rec.Branch)
					if err != nil {
						log.FromContext(ctx).Warnf("merge detection for %s: %v", rec.Branch, err)
						entries[i].Error = err.Error()
						return nil
					}
					entries[i].Result = res
					return nil
				})
			}
			_ = g.Wait()

			if out.Structured() {
				return out.Encode(entries)
			}
			if len(entries) == 0 {
				out.Println("No worktrees to check")
				return nil
			}
			if !all {
				if entries[0].Result == nil {
					return fmt.Errorf("merge detection failed: %s", entries[0].Error)
				}
				out.Print(renderMerge(entries[0].Result))
				return nil
			}
			out.Print(renderMergedTable(entries))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Check every linked worktree")

	return cmd
}

func renderMergedTable(entries []mergedEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		if e.Result == nil {
			rows = append(rows, []string{e.Branch, styles.Render(styles.ErrorStyle, "error"), "", "", e.Error})
			continue
		}
		verdict := styles.Render(styles.MutedStyle, "no")
		if e.Result.IsMerged {
			verdict = styles.Render(styles.SuccessStyle, "yes")
			if e.Result.Heuristic {
				verdict = styles.Render(styles.WarnStyle, "maybe")
			}
		}
		rows = append(rows, []string{
			e.Branch,
			verdict,
			fmt.Sprintf("%.0f%%", e.Result.Confidence*100),
			e.Result.Method,
			static.Truncate(e.Result.Details, 60),
		})
	}
	return static.RenderTable([]string{"BRANCH", "MERGED", "CONFIDENCE", "METHOD", "DETAILS"}, rows)
}
