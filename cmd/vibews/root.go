package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/toolprint/vibews/internal/config"
	"github.com/toolprint/vibews/internal/git"
	"github.com/toolprint/vibews/internal/log"
	"github.com/toolprint/vibews/internal/output"
	"github.com/toolprint/vibews/internal/ui/styles"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	format  string

	// Main checkout of the repository the command runs in, set before any
	// subcommand runs.
	repoRoot string
)

// Command group IDs for organizing help output
const (
	GroupCore    = "core"
	GroupCleanup = "cleanup"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vibews",
	Short: "Manage git worktrees and clean up merged ones safely",
	Long: `vibews creates one git worktree per task, tracks how each one differs
from its upstream, and removes worktrees only once it is safe to do so.

Merge status is detected with several strategies (regular merges, squash
merges, merged pull requests, identical file contents) and every cleanup
decision is reported with its reason.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		// Validate mutually exclusive flags
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		ctx := log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet))
		ctx, err := output.WithFormat(ctx, format)
		if err != nil {
			return err
		}
		styles.SetEnabled(format == output.FormatText && colorEnabled())

		// Check git is available
		if err := git.CheckGit(); err != nil {
			return err
		}

		repoRoot, err = git.MainRepoRoot(ctx, config.WorkDirFromContext(ctx))
		if err != nil {
			return fmt.Errorf("not inside a git repository: %w", err)
		}

		cfg, err := config.Load(repoRoot)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cmd.SetContext(config.WithConfig(ctx, &cfg))
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// colorEnabled reports whether stdout is a terminal and NO_COLOR is unset.
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// stdinInteractive reports whether prompts can be answered.
func stdinInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Get working directory
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vibews: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithWorkDir(ctx, workDir)

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'vibews -h' for help")
		cancel()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVar(&format, "format", output.FormatText, "Output format: text, json or yaml")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	_ = rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(output.Formats, cobra.ShellCompDirectiveNoFileComp))

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupCleanup, Title: "Cleanup Commands:"},
	)

	// Core commands
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newStatusCmd())

	// Cleanup commands
	rootCmd.AddCommand(newMergedCmd())
	rootCmd.AddCommand(newCleanupCmd())

	rootCmd.AddCommand(newVersionCmd())
}
