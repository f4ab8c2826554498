package merge

import (
	"context"
	"errors"
	"fmt"

	"github.com/toolprint/vibews/internal/git"
)

// Standard detects branches reachable from a main branch, which covers
// fast-forward and true merges. It reports 0.95 when merged and 0.8 when
// not, since `git branch --merged` is authoritative for both answers except
// for squash and rebase merges.
type Standard struct{}

func (Standard) Name() string { return MethodStandard }

func (Standard) Detect(ctx context.Context, t Target) (StrategyResult, error) {
	checked := 0
	var lastErr error
	for _, main := range t.MainBranches {
		if main == t.Branch || !git.RefExists(ctx, t.Path, main) {
			continue
		}
		merged, err := git.MergedBranches(ctx, t.Path, main)
		if err != nil {
			lastErr = err
			continue
		}
		checked++
		if merged[t.Branch] {
			return StrategyResult{Merged: true, Confidence: 0.95, Details: "merged into " + main}, nil
		}
	}

	if checked == 0 {
		if lastErr != nil {
			return StrategyResult{}, lastErr
		}
		return StrategyResult{}, errors.New("no main branch found")
	}
	return StrategyResult{Confidence: 0.8, Details: fmt.Sprintf("not merged into %s", t.Main)}, nil
}
