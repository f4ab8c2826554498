// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TempDir creates a temp directory and resolves symlinks
// (macOS /var -> /private/var).
func TempDir(t testing.TB) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return resolved
}

// Git runs git in dir and returns trimmed stdout. Fails the test on error.
func Git(t testing.TB, dir string, args ...string) string {
	t.Helper()
	return GitEnv(t, dir, nil, args...)
}

// GitEnv is Git with extra environment variables.
func GitEnv(t testing.TB, dir string, env []string, args ...string) string {
	t.Helper()
	c := exec.Command("git", args...)
	c.Dir = dir
	c.Env = append(os.Environ(), env...)
	var stderr strings.Builder
	c.Stderr = &stderr
	out, err := c.Output()
	if err != nil {
		t.Fatalf("git %v in %s failed: %v\n%s", args, dir, err, stderr.String())
	}
	return strings.TrimSpace(string(out))
}

// Configure sets identity and disables signing for the repo at dir.
func Configure(t testing.TB, dir string) {
	t.Helper()
	Git(t, dir, "config", "user.email", "test@test.com")
	Git(t, dir, "config", "user.name", "Test User")
	Git(t, dir, "config", "commit.gpgsign", "false")
}

// NewRepo creates a repository on branch main with one commit.
func NewRepo(t testing.TB) string {
	t.Helper()
	repo := filepath.Join(TempDir(t), "repo")
	Git(t, "", "init", "-b", "main", repo)
	Configure(t, repo)
	Commit(t, repo, "README.md", "# test\n", "Initial commit")
	return repo
}

// NewRepoWithOrigin creates a bare origin and a clone tracking origin/main.
func NewRepoWithOrigin(t testing.TB) (repo, origin string) {
	t.Helper()
	dir := TempDir(t)
	origin = filepath.Join(dir, "origin.git")
	repo = filepath.Join(dir, "repo")

	Git(t, "", "init", "--bare", "-b", "main", origin)
	Git(t, "", "clone", "--quiet", origin, repo)
	Configure(t, repo)
	Git(t, repo, "symbolic-ref", "HEAD", "refs/heads/main")
	Commit(t, repo, "README.md", "# test\n", "Initial commit")
	Git(t, repo, "push", "-q", "-u", "origin", "main")
	return repo, origin
}

// WriteFile writes content to dir/name, creating parent directories.
func WriteFile(t testing.TB, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// Commit writes file, commits it and returns the new commit id.
func Commit(t testing.TB, dir, file, content, message string) string {
	t.Helper()
	return CommitAt(t, dir, file, content, message, time.Time{})
}

// CommitAt is Commit with author and committer dates pinned to when.
// A zero when uses the current time.
func CommitAt(t testing.TB, dir, file, content, message string, when time.Time) string {
	t.Helper()
	WriteFile(t, dir, file, content)
	Git(t, dir, "add", "--", file)
	var env []string
	if !when.IsZero() {
		stamp := fmt.Sprintf("%d +0000", when.Unix())
		env = []string{"GIT_AUTHOR_DATE=" + stamp, "GIT_COMMITTER_DATE=" + stamp}
	}
	GitEnv(t, dir, env, "commit", "-q", "-m", message)
	return Git(t, dir, "rev-parse", "HEAD")
}

// Backdate sets the modification time of path to age ago.
func Backdate(t testing.TB, path string, age time.Duration) {
	t.Helper()
	when := time.Now().Add(-age)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("failed to backdate %s: %v", path, err)
	}
}
