package merge

import (
	"context"
)

// Method names reported in results. They match the merge_detection.methods
// config values.
const (
	MethodStandard    = "standard"
	MethodSquash      = "squash"
	MethodHostPR      = "github_pr"
	MethodFileContent = "file_content"
	MethodNone        = "none"
)

// Target is what a strategy inspects: the branch checked out at Path.
type Target struct {
	// Path is the worktree directory git commands run in.
	Path   string
	Branch string
	// Main is the first configured main branch that exists, "" if none.
	Main string
	// MainBranches is the full configured list, for strategies that check
	// each of them.
	MainBranches []string
}

// Strategy is one way of deciding whether a branch has been merged.
type Strategy interface {
	Name() string
	Detect(ctx context.Context, t Target) (StrategyResult, error)
}

// StrategyResult is the verdict of a single strategy.
type StrategyResult struct {
	Method     string  `json:"method" yaml:"method"`
	Merged     bool    `json:"merged" yaml:"merged"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Details    string  `json:"details,omitempty" yaml:"details,omitempty"`
	// Heuristic marks a correlation signal (timing, issue number) rather
	// than direct evidence.
	Heuristic bool   `json:"heuristic,omitempty" yaml:"heuristic,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result is the combined verdict over all strategies that ran.
type Result struct {
	IsMerged   bool             `json:"is_merged" yaml:"is_merged"`
	Method     string           `json:"method" yaml:"method"`
	Confidence float64          `json:"confidence" yaml:"confidence"`
	Details    string           `json:"details,omitempty" yaml:"details,omitempty"`
	Heuristic  bool             `json:"heuristic,omitempty" yaml:"heuristic,omitempty"`
	Results    []StrategyResult `json:"results" yaml:"results"`
}

// Corroborated reports whether at least one non-heuristic strategy found
// the branch merged.
func (r *Result) Corroborated() bool {
	if r == nil {
		return false
	}
	for _, sr := range r.Results {
		if sr.Merged && !sr.Heuristic && sr.Error == "" {
			return true
		}
	}
	return false
}

// Combine picks the highest-confidence positive result if any strategy
// reported merged, else the highest-confidence negative. Ties go to the
// earlier result.
func Combine(results []StrategyResult) *Result {
	if len(results) == 0 {
		return &Result{
			Method:  MethodNone,
			Details: "No detection methods available",
			Results: results,
		}
	}

	best := -1
	for i, r := range results {
		if r.Merged && (best < 0 || r.Confidence > results[best].Confidence) {
			best = i
		}
	}
	if best < 0 {
		best = 0
		for i, r := range results {
			if r.Confidence > results[best].Confidence {
				best = i
			}
		}
	}

	chosen := results[best]
	res := &Result{
		IsMerged:   chosen.Merged,
		Method:     chosen.Method,
		Confidence: chosen.Confidence,
		Details:    chosen.Details,
		Results:    results,
	}
	res.Heuristic = res.IsMerged && !res.Corroborated()
	return res
}
