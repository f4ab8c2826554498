package status

import (
	"github.com/toolprint/vibews/internal/git"
)

// ChangeKind names what happened to a file.
type ChangeKind string

const (
	Modified    ChangeKind = "modified"
	Added       ChangeKind = "added"
	Deleted     ChangeKind = "deleted"
	Renamed     ChangeKind = "renamed"
	Copied      ChangeKind = "copied"
	TypeChanged ChangeKind = "type changed"
	Unmerged    ChangeKind = "unmerged"
)

// FileChange is one tracked file with uncommitted changes.
type FileChange struct {
	Path     string     `json:"path" yaml:"path"`
	OrigPath string     `json:"orig_path,omitempty" yaml:"orig_path,omitempty"`
	Kind     ChangeKind `json:"kind" yaml:"kind"`
	Staged   bool       `json:"staged" yaml:"staged"`
	Unstaged bool       `json:"unstaged" yaml:"unstaged"`
}

// Label is the kind annotated with where the change lives, e.g.
// "modified (staged)".
func (c FileChange) Label() string {
	switch {
	case c.Kind == Unmerged:
		return string(c.Kind)
	case c.Staged && c.Unstaged:
		return string(c.Kind) + " (staged and unstaged)"
	case c.Staged:
		return string(c.Kind) + " (staged)"
	default:
		return string(c.Kind) + " (unstaged)"
	}
}

// Description renders "<label>: <path>".
func (c FileChange) Description() string {
	path := c.Path
	if c.OrigPath != "" {
		path = c.OrigPath + " -> " + c.Path
	}
	return c.Label() + ": " + path
}

// splitEntries separates porcelain entries into tracked changes and
// untracked paths. Ignored entries are dropped.
func splitEntries(entries []git.StatusEntry) (changes []FileChange, untracked []string) {
	for _, e := range entries {
		switch {
		case e.Ignored():
			continue
		case e.Untracked():
			untracked = append(untracked, e.Path)
		default:
			changes = append(changes, classify(e))
		}
	}
	return changes, untracked
}

func classify(e git.StatusEntry) FileChange {
	c := FileChange{Path: e.Path, OrigPath: e.OrigPath}
	if isUnmerged(e.X, e.Y) {
		c.Kind = Unmerged
		c.Staged, c.Unstaged = true, true
		return c
	}
	c.Staged = e.X != ' '
	c.Unstaged = e.Y != ' '
	code := e.X
	if !c.Staged {
		code = e.Y
	}
	c.Kind = kindOf(code)
	return c
}

func isUnmerged(x, y byte) bool {
	return x == 'U' || y == 'U' || (x == 'A' && y == 'A') || (x == 'D' && y == 'D')
}

func kindOf(code byte) ChangeKind {
	switch code {
	case 'A':
		return Added
	case 'D':
		return Deleted
	case 'R':
		return Renamed
	case 'C':
		return Copied
	case 'T':
		return TypeChanged
	default:
		return Modified
	}
}
