package main

import (
	"github.com/spf13/cobra"

	"github.com/toolprint/vibews/internal/output"
	"github.com/toolprint/vibews/internal/status"
	"github.com/toolprint/vibews/internal/ui/static"
	"github.com/toolprint/vibews/internal/ui/styles"
	"github.com/toolprint/vibews/internal/worktree"
)

// listEntry is one worktree in list output.
type listEntry struct {
	worktree.Record `yaml:",inline"`
	Main            bool           `json:"main,omitempty" yaml:"main,omitempty"`
	Status          *status.Status `json:"status,omitempty" yaml:"status,omitempty"`
}

func newListCmd() *cobra.Command {
	var (
		withStatus bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List worktrees",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List the worktrees of the current repository, main checkout first.

With --status each worktree is graded clean, light warning or warning, and
merge detection runs for its branch. Statuses are cached in the git
directory for five minutes or until the worktree directory changes.`,
		Example: `  vibews list                 # Paths, branches and ages
  vibews list -s              # Include status and merge state
  vibews list -s --refresh    # Ignore cached statuses
  vibews list --format json   # Machine-readable`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			mgr := newManager(ctx)

			records, err := mgr.List(ctx)
			if err != nil {
				return err
			}

			entries := make([]listEntry, len(records))
			var (
				paths []string
				slots []int
			)
			for i, rec := range records {
				entries[i] = listEntry{Record: rec, Main: rec.Bare || mgr.IsMainWorktree(rec.Path)}
				if withStatus && !rec.Bare {
					paths = append(paths, rec.Path)
					slots = append(slots, i)
				}
			}
			if withStatus {
				for j, st := range loadStatuses(ctx, newTracker(ctx, true), paths, refresh) {
					entries[slots[j]].Status = st
				}
			}

			if out.Structured() {
				return out.Encode(entries)
			}
			out.Print(renderList(entries, withStatus))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&withStatus, "status", "s", false, "Show status and merge state")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Recompute statuses instead of using the cache")

	return cmd
}

func renderList(entries []listEntry, withStatus bool) string {
	headers := []string{"BRANCH", "AGE", "HEAD", "PATH"}
	if withStatus {
		headers = append([]string{""}, append(headers, "STATUS")...)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		branch := e.Branch
		if e.Main {
			branch += " " + styles.Render(styles.MutedStyle, "(main)")
		}
		age := formatAge(e.Age)
		if e.Main {
			age = "-"
		}
		row := []string{branch, age, shortHash(e.Head), e.Path}
		if withStatus {
			mark, summary := "", ""
			if e.Status != nil {
				mark = styles.Severity(e.Status.Severity)
				summary = status.Describe(e.Status)
			}
			row = append([]string{mark}, append(row, summary)...)
		}
		rows = append(rows, row)
	}
	return static.RenderTable(headers, rows)
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
