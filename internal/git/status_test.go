package git

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolprint/vibews/internal/gittest"
)

func TestParseStatusZ(t *testing.T) {
	t.Parallel()

	input := "M  staged.go\x00" +
		" M unstaged.go\x00" +
		"R  new.go\x00old.go\x00" +
		"?? notes/todo.txt\x00" +
		"!! build/out\x00" +
		"UU conflict.go\x00"

	got := ParseStatusZ([]byte(input))
	require.Equal(t, []StatusEntry{
		{X: 'M', Y: ' ', Path: "staged.go"},
		{X: ' ', Y: 'M', Path: "unstaged.go"},
		{X: 'R', Y: ' ', Path: "new.go", OrigPath: "old.go"},
		{X: '?', Y: '?', Path: "notes/todo.txt"},
		{X: '!', Y: '!', Path: "build/out"},
		{X: 'U', Y: 'U', Path: "conflict.go"},
	}, got)
	assert.True(t, got[3].Untracked())
	assert.True(t, got[4].Ignored())
}

func TestStatus(t *testing.T) {
	t.Parallel()

	repo := gittest.NewRepo(t)
	gittest.WriteFile(t, repo, "README.md", "# changed\n")
	gittest.WriteFile(t, repo, "dir/new.txt", "x\n")

	entries, err := Status(context.Background(), repo)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.True(t, IsDirty(context.Background(), repo))
}

func TestUpstream_None(t *testing.T) {
	t.Parallel()

	repo := gittest.NewRepo(t)
	_, err := Upstream(context.Background(), repo)
	assert.ErrorIs(t, err, ErrNoUpstream)
}

func TestUpstream_AheadBehind(t *testing.T) {
	t.Parallel()

	repo, origin := gittest.NewRepoWithOrigin(t)
	ctx := context.Background()

	// Another clone pushes one commit; we add two local ones.
	other := filepath.Join(filepath.Dir(origin), "other")
	gittest.Git(t, "", "clone", "--quiet", origin, other)
	gittest.Configure(t, other)
	gittest.Commit(t, other, "remote.txt", "r\n", "Remote change")
	gittest.Git(t, other, "push", "-q", "origin", "main")
	gittest.Git(t, repo, "fetch", "-q", "origin")

	gittest.Commit(t, repo, "a.txt", "a\n", "Local one")
	gittest.Commit(t, repo, "b.txt", "b\n", "Local two")

	up, err := Upstream(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, "origin/main", up)

	ahead, behind, err := AheadBehind(ctx, repo, up)
	require.NoError(t, err)
	assert.Equal(t, 2, ahead)
	assert.Equal(t, 1, behind)

	commits, err := Log(ctx, repo, 5, up+"..HEAD")
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "Local two", commits[0].Subject, "newest first")
	assert.Equal(t, "Test User", commits[0].Author)
	assert.Len(t, commits[0].ShortHash(), 7)
}

func TestUpstream_RemoteDeleted(t *testing.T) {
	t.Parallel()

	repo, _ := gittest.NewRepoWithOrigin(t)
	ctx := context.Background()
	gittest.Git(t, repo, "checkout", "-q", "-b", "topic")
	gittest.Git(t, repo, "push", "-q", "-u", "origin", "topic")
	gittest.Git(t, repo, "push", "-q", "origin", "--delete", "topic")

	up, err := Upstream(ctx, repo)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoUpstream, "want a resolution failure")
	assert.Equal(t, "origin/topic", up)
}
