package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNoUpstream is returned by Upstream when the branch tracks nothing.
var ErrNoUpstream = errors.New("no upstream configured")

// StatusEntry is one record of `git status --porcelain=v1 -z`.
// X is the index (staged) column, Y the worktree column.
type StatusEntry struct {
	X, Y     byte
	Path     string
	OrigPath string
}

// Untracked reports whether the entry is "??".
func (e StatusEntry) Untracked() bool { return e.X == '?' && e.Y == '?' }

// Ignored reports whether the entry is "!!".
func (e StatusEntry) Ignored() bool { return e.X == '!' && e.Y == '!' }

// ParseStatusZ parses NUL-separated porcelain v1 output. Renames and copies
// carry their source path in the following record.
func ParseStatusZ(data []byte) []StatusEntry {
	fields := bytes.Split(data, []byte{0})
	var entries []StatusEntry
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if len(f) < 4 || f[2] != ' ' {
			continue
		}
		e := StatusEntry{X: f[0], Y: f[1], Path: string(f[3:])}
		if (e.X == 'R' || e.X == 'C') && i+1 < len(fields) {
			i++
			e.OrigPath = string(fields[i])
		}
		entries = append(entries, e)
	}
	return entries
}

// Status returns the porcelain status of the worktree at path, untracked
// files listed individually.
func Status(ctx context.Context, path string) ([]StatusEntry, error) {
	out, err := outputGit(ctx, path, "status", "--porcelain=v1", "-z", "--untracked-files=all")
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return ParseStatusZ(out), nil
}

// IsDirty returns true if the worktree has uncommitted changes or untracked files
func IsDirty(ctx context.Context, path string) bool {
	out, err := outputGit(ctx, path, "status", "--porcelain")
	if err != nil {
		return false
	}
	return len(bytes.TrimSpace(out)) > 0
}

// UpstreamConfig returns the configured remote and merge ref of branch.
// Both are empty when the branch tracks nothing.
func UpstreamConfig(ctx context.Context, repoPath, branch string) (remote, merge string) {
	remote, _ = outputGitString(ctx, repoPath, "config", "--get", "branch."+branch+".remote")
	merge, _ = outputGitString(ctx, repoPath, "config", "--get", "branch."+branch+".merge")
	return remote, merge
}

// Upstream resolves the upstream of the branch checked out at path.
// It returns ErrNoUpstream when none is configured and a non-nil error
// wrapping the git failure when one is configured but cannot be resolved.
func Upstream(ctx context.Context, path string) (string, error) {
	branch, err := CurrentBranch(ctx, path)
	if err != nil {
		return "", err
	}
	if branch == DetachedBranch {
		return "", ErrNoUpstream
	}
	remote, merge := UpstreamConfig(ctx, path, branch)
	if merge == "" {
		return "", ErrNoUpstream
	}
	name, err := outputGitString(ctx, path, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	if err != nil {
		want := strings.TrimPrefix(merge, "refs/heads/")
		if remote != "" && remote != "." {
			want = remote + "/" + want
		}
		return want, fmt.Errorf("upstream %s cannot be resolved: %w", want, err)
	}
	return name, nil
}

// AheadBehind counts commits on HEAD not on upstream (ahead) and on upstream
// not on HEAD (behind).
func AheadBehind(ctx context.Context, path, upstream string) (ahead, behind int, err error) {
	out, err := outputGitString(ctx, path, "rev-list", "--left-right", "--count", upstream+"...HEAD")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to compare with %s: %w", upstream, err)
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	if behind, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, fmt.Errorf("failed to parse behind count: %w", err)
	}
	if ahead, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, fmt.Errorf("failed to parse ahead count: %w", err)
	}
	return ahead, behind, nil
}

// Commit summarizes one log entry.
type Commit struct {
	Hash    string    `json:"hash" yaml:"hash"`
	Subject string    `json:"subject" yaml:"subject"`
	Author  string    `json:"author" yaml:"author"`
	Time    time.Time `json:"time" yaml:"time"`
}

// ShortHash returns the first seven characters of the hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

const logFormat = "--format=%H%x1f%an%x1f%ct%x1f%s"

// Log returns commits selected by args (revision ranges, --grep, ...).
// limit <= 0 means unbounded.
func Log(ctx context.Context, dir string, limit int, args ...string) ([]Commit, error) {
	gitArgs := []string{"log", logFormat}
	if limit > 0 {
		gitArgs = append(gitArgs, "-n", strconv.Itoa(limit))
	}
	gitArgs = append(gitArgs, args...)
	lines, err := outputGitLines(ctx, dir, gitArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	return parseLog(lines), nil
}

func parseLog(lines []string) []Commit {
	commits := make([]Commit, 0, len(lines))
	for _, line := range lines {
		parts := strings.SplitN(line, "\x1f", 4)
		if len(parts) != 4 {
			continue
		}
		c := Commit{Hash: parts[0], Author: parts[1], Subject: parts[3]}
		if ts, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
			c.Time = time.Unix(ts, 0)
		}
		commits = append(commits, c)
	}
	return commits
}
