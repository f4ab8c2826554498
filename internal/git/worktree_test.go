package git

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolprint/vibews/internal/gittest"
)

func TestParseWorktreeList(t *testing.T) {
	t.Parallel()

	input := "worktree /repo\n" +
		"HEAD 1111111111111111111111111111111111111111\n" +
		"branch refs/heads/main\n" +
		"\n" +
		"worktree /repo/.worktrees/vibe-ws/feat__1\n" +
		"HEAD 2222222222222222222222222222222222222222\n" +
		"branch refs/heads/vibe-ws/feat\n" +
		"locked\n" +
		"\n" +
		"worktree /repo/.worktrees/detached\n" +
		"HEAD 3333333333333333333333333333333333333333\n" +
		"detached\n" +
		"prunable gitdir file points to non-existent location\n" +
		"\n" +
		"worktree /srv/bare.git\n" +
		"bare\n"

	assert.Equal(t, []WorktreeInfo{
		{Path: "/repo", Head: "1111111111111111111111111111111111111111", Branch: "main"},
		{Path: "/repo/.worktrees/vibe-ws/feat__1", Head: "2222222222222222222222222222222222222222", Branch: "vibe-ws/feat", Locked: true},
		{Path: "/repo/.worktrees/detached", Head: "3333333333333333333333333333333333333333", Branch: DetachedBranch, Detached: true, Prunable: true},
		{Path: "/srv/bare.git", Branch: BareBranch, Bare: true},
	}, ParseWorktreeList([]byte(input)))
}

func TestParseWorktreeList_NoTrailingBlank(t *testing.T) {
	t.Parallel()

	got := ParseWorktreeList([]byte("worktree /a\nHEAD abc\nbranch refs/heads/x\nworktree /b\nHEAD def\ndetached"))
	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].Branch)
	assert.Equal(t, DetachedBranch, got[1].Branch)
}

func TestParseWorktreeList_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, ParseWorktreeList(nil))
}

func TestAddListRemoveWorktree(t *testing.T) {
	t.Parallel()

	repo := gittest.NewRepo(t)
	ctx := context.Background()
	wtPath := filepath.Join(filepath.Dir(repo), "wt-feature")

	require.NoError(t, AddWorktree(ctx, repo, wtPath, "feature", ""))

	wts, err := ListWorktrees(ctx, repo)
	require.NoError(t, err)
	require.Len(t, wts, 2)
	assert.Equal(t, repo, wts[0].Path, "main checkout first")
	assert.Equal(t, "main", wts[0].Branch)
	assert.Equal(t, wtPath, wts[1].Path)
	assert.Equal(t, "feature", wts[1].Branch)

	path, err := BranchWorktree(ctx, repo, "feature")
	require.NoError(t, err)
	assert.Equal(t, wtPath, path)

	require.NoError(t, RemoveWorktree(ctx, repo, wtPath, false))
	assert.NoDirExists(t, wtPath)
	assert.True(t, BranchExists(ctx, repo, "feature"), "branch should survive worktree removal")
}

func TestRemoveWorktree_DirtyNeedsForce(t *testing.T) {
	t.Parallel()

	repo := gittest.NewRepo(t)
	ctx := context.Background()
	wtPath := filepath.Join(filepath.Dir(repo), "wt-dirty")
	require.NoError(t, AddWorktree(ctx, repo, wtPath, "dirty", "main"))
	gittest.WriteFile(t, wtPath, "scratch.txt", "wip\n")

	require.Error(t, RemoveWorktree(ctx, repo, wtPath, false), "dirty worktree removed without force")
	require.NoError(t, RemoveWorktree(ctx, repo, wtPath, true))
}
