package git

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolprint/vibews/internal/gittest"
)

func TestCurrentBranch(t *testing.T) {
	t.Parallel()

	repo := gittest.NewRepo(t)
	ctx := context.Background()
	got, err := CurrentBranch(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, "main", got)

	gittest.Git(t, repo, "checkout", "-q", "--detach")
	got, _ = CurrentBranch(ctx, repo)
	assert.Equal(t, DetachedBranch, got)
}

func TestBranchExistsAndDelete(t *testing.T) {
	t.Parallel()

	repo := gittest.NewRepo(t)
	ctx := context.Background()
	gittest.Git(t, repo, "branch", "topic")

	require.True(t, BranchExists(ctx, repo, "topic"))
	assert.False(t, BranchExists(ctx, repo, "missing"))
	assert.True(t, RefExists(ctx, repo, "main"))
	assert.False(t, RefExists(ctx, repo, "nope"))

	require.NoError(t, DeleteLocalBranch(ctx, repo, "topic", true))
	assert.False(t, BranchExists(ctx, repo, "topic"), "branch still exists after delete")
}

func TestMergedBranches(t *testing.T) {
	t.Parallel()

	repo := gittest.NewRepo(t)
	ctx := context.Background()

	gittest.Git(t, repo, "checkout", "-q", "-b", "done")
	gittest.Commit(t, repo, "done.txt", "d\n", "Done work")
	gittest.Git(t, repo, "checkout", "-q", "main")
	gittest.Git(t, repo, "merge", "-q", "--no-ff", "--no-edit", "done")

	gittest.Git(t, repo, "checkout", "-q", "-b", "open")
	gittest.Commit(t, repo, "open.txt", "o\n", "Open work")
	gittest.Git(t, repo, "checkout", "-q", "main")

	// A merged branch checked out in another worktree is listed with "+ ".
	wt := filepath.Join(filepath.Dir(repo), "wt-done")
	gittest.Git(t, repo, "worktree", "add", "-q", wt, "done")

	merged, err := MergedBranches(ctx, repo, "main")
	require.NoError(t, err)
	assert.True(t, merged["done"])
	assert.True(t, merged["main"])
	assert.False(t, merged["open"], "open branch reported as merged")
}

func TestMergeBaseAndDiffNames(t *testing.T) {
	t.Parallel()

	repo := gittest.NewRepo(t)
	ctx := context.Background()
	base := gittest.Git(t, repo, "rev-parse", "HEAD")

	gittest.Git(t, repo, "checkout", "-q", "-b", "topic")
	gittest.Commit(t, repo, "a.txt", "a\n", "Add a")
	tip := gittest.Commit(t, repo, "b/c.txt", "c\n", "Add c")
	gittest.Git(t, repo, "checkout", "-q", "main")
	gittest.Commit(t, repo, "main.txt", "m\n", "Main moves on")

	mb, err := MergeBase(ctx, repo, "main", "topic")
	require.NoError(t, err)
	require.Equal(t, base, mb)

	names, err := DiffNames(ctx, repo, mb, "topic")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b/c.txt"}, names)

	files, err := CommitFiles(ctx, repo, tip)
	require.NoError(t, err)
	assert.Equal(t, []string{"b/c.txt"}, files)
}

func TestMergeConflict(t *testing.T) {
	t.Parallel()

	repo := gittest.NewRepo(t)
	ctx := context.Background()
	gittest.Git(t, repo, "checkout", "-q", "-b", "left")
	gittest.Commit(t, repo, "README.md", "left\n", "Left")
	gittest.Git(t, repo, "checkout", "-q", "main")
	gittest.Commit(t, repo, "README.md", "right\n", "Right")

	require.Error(t, Merge(ctx, repo, "left"), "want conflict")
	files, err := ConflictedFiles(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md"}, files)
}
