package worktree

import (
	"fmt"
	"strings"

	"github.com/toolprint/vibews/internal/errs"
)

// MaxBranchNameLength bounds branch names accepted by ValidateBranchName.
const MaxBranchNameLength = 255

// forbiddenChars are rejected anywhere in a branch name. Names end up as
// arguments to external processes, so shell metacharacters and git
// ref-format specials are refused outright.
const forbiddenChars = "$`(){}|&;<>\n\r\x00\"'\\ ~^:?*["

// Sanitize turns a free-form task identifier into a branch suffix.
// Characters outside [A-Za-z0-9-_/] become '-', runs of '-' and of '/'
// collapse to one, and leading/trailing '-' and '/' are trimmed.
// Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(taskID string) (string, error) {
	var b strings.Builder
	b.Grow(len(taskID))
	var last rune
	for _, r := range taskID {
		if !isSafeRune(r) {
			r = '-'
		}
		if (r == '-' || r == '/') && r == last {
			continue
		}
		b.WriteRune(r)
		last = r
	}

	out := strings.Trim(b.String(), "-/")
	if out == "" {
		return "", errs.Input(errs.ErrInvalidIdentifier, taskID, "nothing usable remains after sanitizing")
	}
	return out, nil
}

func isSafeRune(r rune) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' ||
		r == '-' || r == '_' || r == '/'
}

// ValidateBranchName rejects names that are unsafe to pass to git or a
// shell. It never runs an external command.
func ValidateBranchName(name string) error {
	reject := func(reason string) error {
		return errs.Input(errs.ErrInvalidBranchName, name, reason)
	}

	switch {
	case name == "":
		return reject("cannot be empty")
	case len(name) > MaxBranchNameLength:
		return reject(fmt.Sprintf("longer than %d characters", MaxBranchNameLength))
	case strings.HasPrefix(name, ".") || strings.HasPrefix(name, "/"):
		return reject("cannot start with '.' or '/'")
	case strings.HasSuffix(name, ".") || strings.HasSuffix(name, "/"):
		return reject("cannot end with '.' or '/'")
	case strings.HasSuffix(name, ".lock"):
		return reject("cannot end with '.lock'")
	case strings.Contains(name, ".."):
		return reject("cannot contain '..'")
	case strings.Contains(name, "@{"):
		return reject("cannot contain '@{'")
	case strings.Contains(name, "//"):
		return reject("cannot contain empty path segments")
	}

	for _, r := range name {
		if strings.ContainsRune(forbiddenChars, r) {
			return reject(fmt.Sprintf("contains forbidden character %q", r))
		}
		if r < 0x20 || r == 0x7f {
			return reject("contains control characters")
		}
	}
	return nil
}
