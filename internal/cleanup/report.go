package cleanup

import (
	"fmt"
	"time"
)

// Action is the outcome for one worktree.
type Action string

const (
	Cleaned          Action = "cleaned"
	Skipped          Action = "skipped"
	Failed           Action = "failed"
	StashCreated     Action = "stash_created"
	MergedToFeature  Action = "merged_to_feature"
	BackedUpToOrigin Action = "backed_up_to_origin"
)

// Removed reports whether the action left the worktree removed (or, in a
// dry run, would have).
func (a Action) Removed() bool {
	switch a {
	case Cleaned, StashCreated, MergedToFeature, BackedUpToOrigin:
		return true
	}
	return false
}

// Result is the outcome for one worktree. Skipped and Failed results always
// carry a Reason.
type Result struct {
	Path       string      `json:"path" yaml:"path"`
	Branch     string      `json:"branch" yaml:"branch"`
	Action     Action      `json:"action" yaml:"action"`
	Reason     string      `json:"reason" yaml:"reason"`
	Error      string      `json:"error,omitempty" yaml:"error,omitempty"`
	Violations []Violation `json:"violations,omitempty" yaml:"violations,omitempty"`

	// Err is the underlying error behind Error, for errors.Is/As.
	Err error `json:"-" yaml:"-"`
}

func (r *Result) fail(reason string, err error) {
	r.Action = Failed
	r.Reason = reason
	if err != nil {
		r.Err = err
		r.Error = err.Error()
	}
}

// Report summarizes one cleanup run. Every worktree listed at the start of
// the run has exactly one Result, in list order.
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Strategy  Strategy      `json:"strategy" yaml:"strategy"`
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Evaluated int           `json:"total_evaluated" yaml:"total_evaluated"`
	CleanedN  int           `json:"cleaned_count" yaml:"cleaned_count"`
	SkippedN  int           `json:"skipped_count" yaml:"skipped_count"`
	FailedN   int           `json:"failed_count" yaml:"failed_count"`
	Results   []Result      `json:"results" yaml:"results"`
}

func (r *Report) add(res Result) {
	switch {
	case res.Action.Removed():
		r.CleanedN++
	case res.Action == Skipped:
		r.SkippedN++
	default:
		r.FailedN++
	}
	r.Results = append(r.Results, res)
}

// Find returns the result for the worktree at path, or nil.
func (r *Report) Find(path string) *Result {
	for i := range r.Results {
		if r.Results[i].Path == path {
			return &r.Results[i]
		}
	}
	return nil
}

// Summary renders the report counts on one line.
func (r *Report) Summary() string {
	verb := "cleaned"
	if r.DryRun {
		verb = "would clean"
	}
	return fmt.Sprintf("%d evaluated, %s %d, skipped %d, failed %d",
		r.Evaluated, verb, r.CleanedN, r.SkippedN, r.FailedN)
}
