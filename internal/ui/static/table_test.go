package static

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	out := RenderTable([]string{"BRANCH", "PATH"}, [][]string{
		{"vibe-ws/a", "/wt/a"},
		{"vibe-ws/longer", "/wt/b"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3, out)

	col := strings.Index(lines[0], "PATH")
	require.GreaterOrEqual(t, col, 0, "header missing PATH: %q", lines[0])
	for _, line := range lines[1:] {
		assert.Equal(t, col, strings.Index(line, "/wt/"), "column not aligned: %q", line)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RenderTable([]string{"A"}, nil))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much too long", 8, "much to…"},
		{"abc", 1, "…"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.max), "Truncate(%q, %d)", tt.in, tt.max)
	}
}
