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

// GitHub implements Forge for GitHub repositories using the gh CLI.
type GitHub struct{}

// Name returns "github"
func (g *GitHub) Name() string {
	return TypeGitHub
}

// CLI returns "gh".
func (g *GitHub) CLI() string {
	return "gh"
}

// Check verifies that gh CLI is available and authenticated
func (g *GitHub) Check(ctx context.Context) error {
	if !cmd.Exists("gh") {
		return fmt.Errorf("gh not found: please install GitHub CLI (https://cli.github.com)")
	}

	if err := cmd.RunContext(ctx, "", "gh", "auth", "status"); err != nil {
		var toolErr *errs.ToolError
		if errors.As(err, &toolErr) && toolErr.Stderr != "" &&
			!strings.Contains(toolErr.Stderr, "not logged") && !strings.Contains(toolErr.Stderr, "no accounts") {
			return fmt.Errorf("gh auth check failed: %s", toolErr.Stderr)
		}
		return fmt.Errorf("gh not authenticated: please run 'gh auth login'")
	}
	return nil
}

// MergedPR looks up merged PRs with branch as head using gh CLI
func (g *GitHub) MergedPR(ctx context.Context, repoPath, branch string) (*PR, error) {
	output, err := cmd.OutputContext(ctx, repoPath, "gh", "pr", "list",
		"--head", branch,
		"--state", "merged",
		"--json", "number,title,url,headRefName,baseRefName,mergedAt",
		"--limit", "1")
	if err != nil {
		return nil, fmt.Errorf("gh command failed: %w", err)
	}
	return parseGitHubPRs(output)
}

func parseGitHubPRs(output []byte) (*PR, error) {
	var prs []struct {
		Number      int       `json:"number"`
		Title       string    `json:"title"`
		URL         string    `json:"url"`
		HeadRefName string    `json:"headRefName"`
		BaseRefName string    `json:"baseRefName"`
		MergedAt    time.Time `json:"mergedAt"`
	}
	if err := json.Unmarshal(output, &prs); err != nil {
		return nil, fmt.Errorf("failed to parse gh output: %w", err)
	}
	if len(prs) == 0 {
		return nil, nil
	}

	pr := prs[0]
	return &PR{
		Number:   pr.Number,
		Title:    pr.Title,
		URL:      pr.URL,
		Head:     pr.HeadRefName,
		Base:     pr.BaseRefName,
		MergedAt: pr.MergedAt,
	}, nil
}
