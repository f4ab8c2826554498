package worktree

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/toolprint/vibews/internal/storage"
)

// IgnoreMarker precedes the base directory pattern in .gitignore.
const IgnoreMarker = "# Vibe worktree directories"

var errNoBaseDir = errors.New("worktree base path exists and is not a directory")

// EnsureBaseDirectory creates the worktree base directory if it is missing.
func (m *Manager) EnsureBaseDirectory() error {
	base, err := m.BaseDir()
	if err != nil {
		return err
	}
	fi, err := os.Stat(base)
	switch {
	case err == nil && !fi.IsDir():
		return fmt.Errorf("%w: %s", errNoBaseDir, base)
	case err == nil:
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return err
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return fmt.Errorf("failed to create worktree base directory: %w", err)
	}
	return nil
}

// IgnorePattern returns the .gitignore line for the base directory, or ""
// when the base directory is outside the repository.
func (m *Manager) IgnorePattern() (string, error) {
	base, err := m.BaseDir()
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(m.RepoRoot, base)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", nil
	}
	return filepath.ToSlash(rel) + "/", nil
}

// UpdateIgnoreFile appends the base directory pattern to the repository's
// .gitignore under IgnoreMarker. Running it again changes nothing.
func (m *Manager) UpdateIgnoreFile() error {
	pattern, err := m.IgnorePattern()
	if err != nil || pattern == "" {
		return err
	}

	path := filepath.Join(m.RepoRoot, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == pattern {
			return nil
		}
	}

	var buf bytes.Buffer
	buf.Write(data)
	if len(data) > 0 && !bytes.HasSuffix(data, []byte("\n")) {
		buf.WriteByte('\n')
	}
	if len(data) > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteString(IgnoreMarker + "\n")
	buf.WriteString(pattern + "\n")

	return storage.WriteFile(path, buf.Bytes(), 0o644)
}
