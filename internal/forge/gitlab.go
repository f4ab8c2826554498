package forge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/toolprint/vibews/internal/cmd"
	"github.com/toolprint/vibews/internal/errs"
)

// GitLab implements Forge for GitLab repositories using the glab CLI.
type GitLab struct{}

// Name returns "gitlab"
func (g *GitLab) Name() string {
	return TypeGitLab
}

// CLI returns "glab".
func (g *GitLab) CLI() string {
	return "glab"
}

// Check verifies that glab CLI is available and authenticated
func (g *GitLab) Check(ctx context.Context) error {
	if !cmd.Exists("glab") {
		return fmt.Errorf("glab not found: please install GitLab CLI (https://gitlab.com/gitlab-org/cli)")
	}

	if err := cmd.RunContext(ctx, "", "glab", "auth", "status"); err != nil {
		var toolErr *errs.ToolError
		if errors.As(err, &toolErr) && toolErr.Stderr != "" && !strings.Contains(toolErr.Stderr, "not logged") {
			return fmt.Errorf("glab auth check failed: %s", toolErr.Stderr)
		}
		return fmt.Errorf("glab not authenticated: please run 'glab auth login'")
	}
	return nil
}

// MergedPR looks up merged MRs with branch as source using glab CLI
func (g *GitLab) MergedPR(ctx context.Context, repoPath, branch string) (*PR, error) {
	output, err := cmd.OutputContext(ctx, repoPath, "glab", "mr", "list",
		"--source-branch", branch,
		"--merged",
		"-F", "json",
		"-P", "1") // limit to 1
	if err != nil {
		return nil, fmt.Errorf("glab command failed: %w", err)
	}
	return parseGitLabMRs(output)
}

func parseGitLabMRs(output []byte) (*PR, error) {
	// glab returns an array of MRs
	var mrs []struct {
		IID          int        `json:"iid"`
		Title        string     `json:"title"`
		State        string     `json:"state"` // opened, merged, closed
		WebURL       string     `json:"web_url"`
		SourceBranch string     `json:"source_branch"`
		TargetBranch string     `json:"target_branch"`
		MergedAt     *time.Time `json:"merged_at"`
	}
	if err := json.Unmarshal(output, &mrs); err != nil {
		return nil, fmt.Errorf("failed to parse glab output: %w", err)
	}

	for _, mr := range mrs {
		if !strings.EqualFold(mr.State, "merged") {
			continue
		}
		pr := &PR{
			Number: mr.IID,
			Title:  mr.Title,
			URL:    mr.WebURL,
			Head:   mr.SourceBranch,
			Base:   mr.TargetBranch,
		}
		if mr.MergedAt != nil {
			pr.MergedAt = *mr.MergedAt
		}
		return pr, nil
	}
	return nil, nil
}
