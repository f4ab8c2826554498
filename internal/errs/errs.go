// Package errs defines the error taxonomy shared by the worktree engine.
//
// Errors fall into five kinds:
//
//   - [InputError]: an identifier or branch name was rejected before any
//     external process ran. Never retried.
//   - [StateError]: the repository is not in the state the operation needs
//     (branch exists, target is not a worktree, merge target missing). The
//     caller may retry with force.
//   - [ToolError]: an external tool (git, gh, glab) exited non-zero.
//   - [DetectionError]: one merge detection strategy failed. Recorded on the
//     strategy result, never aborts detection.
//   - [ConflictError]: a merge-forward cleanup hit conflicts. The worktree is
//     left intact.
//
// Each kind wraps a sentinel so callers can use [errors.Is] with the
// sentinels below, or [errors.As] with the concrete types.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrInvalidBranchName = errors.New("invalid branch name")
	ErrBranchExists      = errors.New("branch already exists")
	ErrNotAWorktree      = errors.New("not a worktree")
	ErrMainWorktree      = errors.New("refusing to operate on the main worktree")
	ErrMergeTarget       = errors.New("merge target branch not found")
	ErrMergeConflict     = errors.New("merge conflict")
)

// InputError reports an unsafe or malformed value supplied by the caller.
type InputError struct {
	Value  string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	}
	return fmt.Sprintf("%v %q: %s", e.Err, e.Value, e.Reason)
}

func (e *InputError) Unwrap() error { return e.Err }

// Input builds an InputError around sentinel.
func Input(sentinel error, value, reason string) error {
	return &InputError{Value: value, Reason: reason, Err: sentinel}
}

// StateError reports a repository state that prevents an operation.
type StateError struct {
	Subject string
	Hint    string
	Err     error
}

func (e *StateError) Error() string {
	msg := fmt.Sprintf("%v: %s", e.Err, e.Subject)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *StateError) Unwrap() error { return e.Err }

// State builds a StateError around sentinel.
func State(sentinel error, subject, hint string) error {
	return &StateError{Subject: subject, Hint: hint, Err: sentinel}
}

// ToolError is returned when an external command exits unsuccessfully.
// Error() yields the captured stderr when present so messages read the way
// the tool printed them.
type ToolError struct {
	Tool   string
	Args   []string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return fmt.Sprintf("%s %s: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// DetectionError records the failure of a single merge detection strategy.
type DetectionError struct {
	Method string
	Err    error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("%s detection failed: %v", e.Method, e.Err)
}

func (e *DetectionError) Unwrap() error { return e.Err }

// ConflictError reports a merge that stopped with conflicted files.
type ConflictError struct {
	Source string
	Target string
	Files  []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("merging %s into %s: %d conflicted files", e.Source, e.Target, len(e.Files))
}

func (e *ConflictError) Unwrap() error { return ErrMergeConflict }
