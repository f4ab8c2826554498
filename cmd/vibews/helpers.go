package main

import (
	"context"
	"fmt"
	"time"

	"github.com/toolprint/vibews/internal/config"
	"github.com/toolprint/vibews/internal/forge"
	"github.com/toolprint/vibews/internal/log"
	"github.com/toolprint/vibews/internal/merge"
	"github.com/toolprint/vibews/internal/status"
	"github.com/toolprint/vibews/internal/worktree"
)

// loadedConfig returns the config attached by the root command.
func loadedConfig(ctx context.Context) config.Config {
	if cfg := config.FromContext(ctx); cfg != nil {
		return *cfg
	}
	return config.Default()
}

func newManager(ctx context.Context) *worktree.Manager {
	return worktree.NewManager(repoRoot, loadedConfig(ctx))
}

// newDetector builds a merge detector. The hosting service CLI is only
// wired in when enabled and authenticated.
func newDetector(ctx context.Context) *merge.Detector {
	cfg := loadedConfig(ctx)
	var opts []merge.Option
	if cfg.Merge.UseGitHubCLI {
		f := forge.DetectFromRepo(ctx, repoRoot, cfg.Remote, cfg.Hosts)
		if err := f.Check(ctx); err != nil {
			log.FromContext(ctx).Debug("pull request lookup disabled", "forge", f.Name(), "err", err)
		} else {
			opts = append(opts, merge.WithPRLookup(f))
		}
	}
	return merge.NewDetector(cfg.Merge, opts...)
}

// newTracker builds a status tracker, with merge detection when withMerge
// is set.
func newTracker(ctx context.Context, withMerge bool) *status.Tracker {
	t := &status.Tracker{Config: loadedConfig(ctx).Status}
	if withMerge {
		t.Merge = newDetector(ctx)
	}
	return t
}

// formatAge renders d the way list output shows it: 45s, 12m, 5h, 3d.
func formatAge(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
