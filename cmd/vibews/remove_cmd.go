package main

import (
	"github.com/spf13/cobra"

	"github.com/toolprint/vibews/internal/output"
	"github.com/toolprint/vibews/internal/worktree"
)

func newRemoveCmd() *cobra.Command {
	var (
		force        bool
		deleteBranch bool
		keepBranch   bool
	)

	cmd := &cobra.Command{
		Use:     "remove <branch|path>",
		Short:   "Remove a worktree",
		Aliases: []string{"rm"},
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Long: `Remove the worktree identified by branch name or path.

git refuses to remove a worktree with local modifications unless --force is
given. The main checkout is never removed. Whether the branch is deleted as
well defaults to cleanup.auto_delete_branch.`,
		Example: `  vibews remove vibe-ws/login-form        # By branch
  vibews remove .worktrees/vibe-ws/spike  # By path
  vibews rm vibe-ws/spike -f -D           # Discard changes, delete branch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			mgr := newManager(ctx)

			rec, err := mgr.Find(ctx, args[0])
			if err != nil {
				return err
			}

			opts := worktree.RemoveOptions{
				Force:        force,
				DeleteBranch: mgr.Config.Cleanup.AutoDeleteBranch,
			}
			if cmd.Flags().Changed("delete-branch") {
				opts.DeleteBranch = deleteBranch
			}
			if keepBranch {
				opts.DeleteBranch = false
			}

			if err := mgr.Remove(ctx, rec.Path, opts); err != nil {
				return err
			}

			if out.Structured() {
				return out.Encode(map[string]any{
					"path":           rec.Path,
					"branch":         rec.Branch,
					"branch_deleted": opts.DeleteBranch,
				})
			}
			out.Printf("Removed worktree %s\n", rec.Path)
			if opts.DeleteBranch && !rec.Detached {
				out.Printf("Deleted branch %s\n", rec.Branch)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even with local modifications")
	cmd.Flags().BoolVarP(&deleteBranch, "delete-branch", "D", false, "Delete the branch as well")
	cmd.Flags().BoolVar(&keepBranch, "keep-branch", false, "Keep the branch even if auto_delete_branch is set")
	cmd.MarkFlagsMutuallyExclusive("delete-branch", "keep-branch")

	return cmd
}
