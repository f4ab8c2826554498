package status

import (
	"fmt"
	"strings"
)

// Severity grades how risky automated operations on a worktree are.
type Severity int

const (
	Clean Severity = iota
	LightWarning
	Warning
)

func (s Severity) String() string {
	switch s {
	case Clean:
		return "clean"
	case LightWarning:
		return "light_warning"
	case Warning:
		return "warning"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Priority orders severities for sorting, most severe first.
func (s Severity) Priority() int {
	switch s {
	case Warning:
		return 0
	case LightWarning:
		return 1
	default:
		return 2
	}
}

// MarshalText renders the severity name in JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a name produced by MarshalText.
func (s *Severity) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "clean":
		*s = Clean
	case "light_warning":
		*s = LightWarning
	case "warning":
		*s = Warning
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}

// RemoteKind is the relation between a branch and its upstream.
type RemoteKind string

const (
	NoRemote      RemoteKind = "no_remote"
	UpToDate      RemoteKind = "up_to_date"
	Ahead         RemoteKind = "ahead"
	Behind        RemoteKind = "behind"
	Diverged      RemoteKind = "diverged"
	RemoteDeleted RemoteKind = "remote_deleted"
)

// RemoteState is the tracking state with its ahead/behind counts.
type RemoteState struct {
	Kind   RemoteKind `json:"kind" yaml:"kind"`
	Ahead  int        `json:"ahead,omitempty" yaml:"ahead,omitempty"`
	Behind int        `json:"behind,omitempty" yaml:"behind,omitempty"`
}

// NewRemoteState derives the kind from ahead/behind counts against an
// existing upstream.
func NewRemoteState(ahead, behind int) RemoteState {
	rs := RemoteState{Ahead: ahead, Behind: behind}
	switch {
	case ahead > 0 && behind > 0:
		rs.Kind = Diverged
	case ahead > 0:
		rs.Kind = Ahead
	case behind > 0:
		rs.Kind = Behind
	default:
		rs.Kind = UpToDate
	}
	return rs
}

func (r RemoteState) String() string {
	switch r.Kind {
	case NoRemote:
		return "no remote"
	case UpToDate:
		return "up to date"
	case Ahead:
		return fmt.Sprintf("%d ahead", r.Ahead)
	case Behind:
		return fmt.Sprintf("%d behind", r.Behind)
	case Diverged:
		return fmt.Sprintf("%d ahead, %d behind", r.Ahead, r.Behind)
	case RemoteDeleted:
		return "remote deleted"
	default:
		return string(r.Kind)
	}
}
