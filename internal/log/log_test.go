package log

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrintf_Quiet(t *testing.T) {
	t.Parallel()

	var loud, silent bytes.Buffer
	New(&loud, false, false).Printf("removed %d worktrees", 3)
	New(&silent, false, true).Printf("removed %d worktrees", 3)

	assert.Equal(t, "removed 3 worktrees", loud.String())
	assert.Empty(t, silent.String(), "Printf wrote output when quiet")
}

func TestWarnf(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, false, false).Warnf("unknown merge method %q", "octopus")
	assert.Equal(t, "warning: unknown merge method \"octopus\"\n", buf.String())
}

func TestCommand(t *testing.T) {
	t.Parallel()

	t.Run("verbose with dir", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		done := New(&buf, true, false).Command("/repo", "git", "worktree", "list")
		done(120 * time.Millisecond)
		assert.Contains(t, buf.String(), "[/repo] $ git worktree list")
		assert.Contains(t, buf.String(), "120ms")
	})

	t.Run("verbose without dir", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		New(&buf, true, false).Command("", "gh", "auth", "status")(time.Millisecond)
		assert.Regexp(t, `^\$ gh auth status`, buf.String())
	})

	t.Run("silent unless verbose", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		New(&buf, false, false).Command("/repo", "git", "status")(time.Second)
		New(&buf, true, true).Command("/repo", "git", "status")(time.Second)
		assert.Empty(t, buf.String())
	})
}

func TestDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, true, false).Debug("evaluating", "branch", "vibe-ws/x", "age", "2h", "dangling")
	got := buf.String()
	for _, want := range []string{"evaluating", "branch=vibe-ws/x", "age=2h"} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "dangling", "unpaired key should be dropped")
}

func TestIsVerbose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		verbose, quiet bool
		want           bool
	}{
		{"verbose only", true, false, true},
		{"quiet only", false, true, false},
		{"both", true, true, false},
		{"neither", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, New(io.Discard, tt.verbose, tt.quiet).IsVerbose())
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	l := New(io.Discard, true, false)
	assert.Same(t, l, FromContext(WithLogger(context.Background(), l)))
	assert.Equal(t, io.Discard, FromContext(context.Background()).Writer())
}
