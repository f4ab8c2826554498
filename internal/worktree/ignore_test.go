package worktree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolprint/vibews/internal/config"
	"github.com/toolprint/vibews/internal/gittest"
)

func TestUpdateIgnoreFile_Idempotent(t *testing.T) {
	t.Parallel()

	m := NewManager(gittest.NewRepo(t), config.Default())
	gitignore := filepath.Join(m.RepoRoot, ".gitignore")
	gittest.WriteFile(t, m.RepoRoot, ".gitignore", "node_modules/")

	for range 3 {
		require.NoError(t, m.UpdateIgnoreFile())
	}

	data, err := os.ReadFile(gitignore)
	require.NoError(t, err)
	content := string(data)
	assert.Equal(t, 1, strings.Count(content, ".worktrees/\n"), content)
	assert.Equal(t, 1, strings.Count(content, IgnoreMarker), content)
	assert.True(t, strings.HasPrefix(content, "node_modules/\n"), "existing content not preserved:\n%s", content)
}

func TestUpdateIgnoreFile_CreatesFile(t *testing.T) {
	t.Parallel()

	m := NewManager(gittest.NewRepo(t), config.Default())
	require.NoError(t, m.UpdateIgnoreFile())
	data, err := os.ReadFile(filepath.Join(m.RepoRoot, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, IgnoreMarker+"\n.worktrees/\n", string(data))
}

func TestUpdateIgnoreFile_PatternAlreadyPresent(t *testing.T) {
	t.Parallel()

	m := NewManager(gittest.NewRepo(t), config.Default())
	gittest.WriteFile(t, m.RepoRoot, ".gitignore", "# mine\n.worktrees/\n")
	require.NoError(t, m.UpdateIgnoreFile())

	data, err := os.ReadFile(filepath.Join(m.RepoRoot, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "# mine\n.worktrees/\n", string(data), ".gitignore rewritten")
}

func TestUpdateIgnoreFile_OutsideRepo(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.BaseDir = gittest.TempDir(t)
	m := NewManager(gittest.NewRepo(t), cfg)

	require.NoError(t, m.UpdateIgnoreFile())
	assert.NoFileExists(t, filepath.Join(m.RepoRoot, ".gitignore"), ".gitignore written for base dir outside the repository")
}

func TestEnsureBaseDirectory(t *testing.T) {
	t.Parallel()

	m := NewManager(gittest.NewRepo(t), config.Default())
	for range 2 {
		require.NoError(t, m.EnsureBaseDirectory())
	}
	assert.DirExists(t, filepath.Join(m.RepoRoot, ".worktrees"))
}
