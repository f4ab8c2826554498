package worktree

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	t.Parallel()

	now := time.Unix(0x6718a2f0, 0)
	base := filepath.FromSlash("/repo/.worktrees")

	tests := []struct {
		name string
		id   string
		want string
	}{
		{"flat", "task-1", "/repo/.worktrees/task-1__6718a2f0"},
		{"nested", "vibe-ws/feat/ui", "/repo/.worktrees/vibe-ws/feat/ui__6718a2f0"},
		{"stray slashes", "/a//b/", "/repo/.worktrees/a/b__6718a2f0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, filepath.FromSlash(tt.want), ResolvePath(base, tt.id, now))
		})
	}
}

func TestResolvePath_Unique(t *testing.T) {
	t.Parallel()

	now := time.Now()
	a := ResolvePath("/base", "vibe-ws/x", now)
	b := ResolvePath("/base", "vibe-ws/x", now.Add(time.Second))
	assert.NotEqual(t, a, b, "paths one second apart collide")
}
