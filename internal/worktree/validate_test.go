package worktree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolprint/vibews/internal/errs"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Task 123", "Task-123"},
		{"Fix: issue #456", "Fix-issue-456"},
		{"feature/new-ui", "feature/new-ui"},
		{"a//b", "a/b"},
		{"/lead/and/trail/", "lead/and/trail"},
		{"--x--y--", "x-y"},
		{"snake_case ok", "snake_case-ok"},
		{"émoji 🚀 task", "moji-task"},
		{"a-/-b", "a-/-b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := Sanitize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitize_Empty(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "!!!", "---", "///", " / "} {
		_, err := Sanitize(in)
		assert.ErrorIs(t, err, errs.ErrInvalidIdentifier, "Sanitize(%q)", in)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Task 123", "a-/-b", "x//--//y", "  weird!!name??  ", "feat/ui/v2", "___", "a/-/b",
	}
	for _, in := range inputs {
		once, err := Sanitize(in)
		if err != nil {
			continue
		}
		twice, err := Sanitize(once)
		if assert.NoError(t, err, "Sanitize(%q) failed on its own output %q", in, once) {
			assert.Equal(t, once, twice, "Sanitize not idempotent for %q", in)
		}
	}
}

func TestValidateBranchName_Valid(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"feature/new-ui", "vibe-ws/task-123", "main", "a_b", "v1.2"} {
		assert.NoError(t, ValidateBranchName(name), name)
	}
}

func TestValidateBranchName_Invalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty":         "",
		"too long":      strings.Repeat("a", MaxBranchNameLength+1),
		"leading dot":   ".hidden",
		"leading /":     "/abs",
		"trailing dot":  "branch.",
		"trailing /":    "branch/",
		"double dot":    "a..b",
		"reflog":        "a@{1}",
		"lock suffix":   "topic.lock",
		"empty segment": "a//b",
		"tab":           "a\tb",
	}

	for name, branch := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, ValidateBranchName(branch), errs.ErrInvalidBranchName)
		})
	}
}

func TestValidateBranchName_RejectsInjection(t *testing.T) {
	t.Parallel()

	for _, c := range forbiddenChars {
		name := "branch" + string(c) + "name"
		err := ValidateBranchName(name)
		assert.ErrorIs(t, err, errs.ErrInvalidBranchName, name)
		var inputErr *errs.InputError
		assert.ErrorAs(t, err, &inputErr, name)
	}
}

func TestValidateBranchName_MaxLength(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateBranchName(strings.Repeat("a", MaxBranchNameLength)))
}
