package main

import (
	"github.com/spf13/cobra"

	"github.com/toolprint/vibews/internal/output"
	"github.com/toolprint/vibews/internal/ui/styles"
	"github.com/toolprint/vibews/internal/worktree"
)

func newCreateCmd() *cobra.Command {
	var (
		base  string
		force bool
		path  string
	)

	cmd := &cobra.Command{
		Use:     "create <task-id>",
		Short:   "Create a worktree for a task",
		Aliases: []string{"new"},
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Long: `Create a branch named {prefix}{task-id} and check it out in a new worktree.

The task id is sanitized into a branch-safe name first. The worktree goes
under the configured base directory unless --path is given.`,
		Example: `  vibews create login-form              # Branch vibe-ws/login-form from HEAD
  vibews create TICKET-42 --base main    # Start from main
  vibews create spike --force            # Replace an existing vibe-ws/spike
  vibews create demo --path ../demo      # Custom location`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			rec, err := newManager(ctx).Create(ctx, worktree.CreateOptions{
				TaskID:     args[0],
				BaseBranch: base,
				Force:      force,
				CustomPath: path,
			})
			if err != nil {
				return err
			}

			if out.Structured() {
				return out.Encode(rec)
			}
			out.Printf("Created worktree for %s\n", styles.Render(styles.Bold, rec.Branch))
			out.Println(rec.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "Branch or commit to start from (default HEAD)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing branch and its worktree")
	cmd.Flags().StringVar(&path, "path", "", "Create the worktree at this path instead of the base directory")

	return cmd
}
