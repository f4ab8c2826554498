package cleanup

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toolprint/vibews/internal/merge"
	"github.com/toolprint/vibews/internal/status"
	"github.com/toolprint/vibews/internal/worktree"
)

// Kind names the safety check a Violation came from.
type Kind string

const (
	UncommittedChanges  Kind = "uncommitted_changes"
	UnpushedCommits     Kind = "unpushed_commits"
	BranchTooNew        Kind = "branch_too_new"
	NoRemoteTracking    Kind = "no_remote_tracking"
	LowMergeConfidence  Kind = "low_merge_confidence"
	RemoteBranchMissing Kind = "remote_branch_missing"
	WorktreeInUse       Kind = "worktree_in_use"
)

// Level is how binding a Violation is.
type Level string

const (
	// Warning blocks cleanup unless Options.Force is set.
	Warning Level = "warning"
	// Critical always blocks cleanup.
	Critical Level = "critical"
)

// Violation is one reason a worktree should not be removed.
type Violation struct {
	Kind        Kind   `json:"kind" yaml:"kind"`
	Description string `json:"description" yaml:"description"`
	Level       Level  `json:"level" yaml:"level"`
}

// check collects the violations for one worktree. cwd may be empty.
func check(rec worktree.Record, st *status.Status, opts *Options, cwd string) []Violation {
	var out []Violation
	add := func(kind Kind, level Level, format string, args ...any) {
		out = append(out, Violation{Kind: kind, Description: fmt.Sprintf(format, args...), Level: level})
	}

	if opts.MinAge > 0 && rec.Age < opts.MinAge {
		add(BranchTooNew, Warning, "Worktree is only %s old (minimum: %d hours)",
			FormatDuration(rec.Age), int(opts.MinAge.Hours()))
	}

	if st.HasChanges() {
		add(UncommittedChanges, Warning, "%d uncommitted changes, %d untracked files",
			len(st.Changes), len(st.Untracked))
	}

	if n := len(st.Unpushed); n > 0 || st.Remote.Ahead > 0 {
		if st.Remote.Ahead > n {
			n = st.Remote.Ahead
		}
		add(UnpushedCommits, Warning, "%d unpushed commits", n)
	}

	if opts.RequireRemote {
		switch st.Remote.Kind {
		case status.NoRemote:
			add(NoRemoteTracking, Warning, "Branch has no remote tracking branch")
		case status.RemoteDeleted:
			add(RemoteBranchMissing, Warning, "Remote branch %s no longer exists", st.Upstream)
		}
	}

	if opts.MergedOnly {
		checkMerge(st.Merge, opts, add)
	}

	if cwd != "" && within(cwd, rec.Path) {
		add(WorktreeInUse, Critical, "Worktree is currently in use (current directory)")
	}
	return out
}

func checkMerge(res *merge.Result, opts *Options, add func(Kind, Level, string, ...any)) {
	switch {
	case res == nil:
		add(LowMergeConfidence, Critical, "No merge information available")
	case !res.IsMerged:
		add(LowMergeConfidence, Critical, "Branch does not appear to be merged")
	case res.Confidence < opts.MinMergeConfidence:
		add(LowMergeConfidence, Warning, "Merge confidence too low: %.0f%% (minimum: %.0f%%)",
			res.Confidence*100, opts.MinMergeConfidence*100)
	case opts.unattended() && !res.Corroborated():
		// Timing and issue-number correlation alone never remove a
		// worktree without someone confirming it.
		add(LowMergeConfidence, Critical, "Merge evidence is heuristic only (%s: %s); confirm interactively or use --dry-run",
			res.Method, res.Details)
	}
}

// within reports whether path is dir or below it.
func within(path, dir string) bool {
	path, dir = realPath(path), realPath(dir)
	if path == dir {
		return true
	}
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}

func realPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return filepath.Clean(p)
}

// descriptions returns the descriptions of the violations at level.
func descriptions(vs []Violation, level Level) []string {
	var out []string
	for _, v := range vs {
		if v.Level == level {
			out = append(out, v.Description)
		}
	}
	return out
}
