package forge

import (
	"context"
	"time"
)

// Forge types accepted in the [hosts] config table.
const (
	TypeGitHub = "github"
	TypeGitLab = "gitlab"
)

// PR is a merged pull/merge request.
type PR struct {
	Number   int       `json:"number"`
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Head     string    `json:"head"`
	Base     string    `json:"base"`
	MergedAt time.Time `json:"merged_at,omitzero"`
}

// Forge represents a git hosting service (GitHub, GitLab) reached through
// its CLI.
type Forge interface {
	// Name returns the forge name ("github" or "gitlab")
	Name() string

	// CLI returns the executable the forge shells out to.
	CLI() string

	// Check verifies the CLI is installed and authenticated
	Check(ctx context.Context) error

	// MergedPR returns the most recent merged PR whose head is branch, or
	// nil if there is none. repoPath is the local checkout the CLI runs in.
	MergedPR(ctx context.Context, repoPath, branch string) (*PR, error)
}
