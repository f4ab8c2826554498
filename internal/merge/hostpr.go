package merge

import (
	"context"
	"fmt"

	"github.com/toolprint/vibews/internal/forge"
)

// PRLookup finds a merged pull request by head branch. forge.Forge
// implementations satisfy it.
type PRLookup interface {
	MergedPR(ctx context.Context, repoPath, branch string) (*forge.PR, error)
}

// HostPR asks the hosting service whether a pull request with the branch as
// head was merged.
type HostPR struct {
	Lookup PRLookup
}

func (HostPR) Name() string { return MethodHostPR }

func (h HostPR) Detect(ctx context.Context, t Target) (StrategyResult, error) {
	pr, err := h.Lookup.MergedPR(ctx, t.Path, t.Branch)
	if err != nil {
		return StrategyResult{}, err
	}
	if pr == nil {
		return StrategyResult{Details: "no merged pull request"}, nil
	}
	details := fmt.Sprintf("PR #%d merged", pr.Number)
	if pr.Base != "" {
		details += " into " + pr.Base
	}
	return StrategyResult{Merged: true, Confidence: 0.9, Details: details}, nil
}
