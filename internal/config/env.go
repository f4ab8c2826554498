package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// applyEnvOverrides applies VIBE_WORKTREE_* variables on top of cfg.
// Empty variables are ignored.
func applyEnvOverrides(cfg *Config) error {
	str := map[string]*string{
		"VIBE_WORKTREE_MODE":   &cfg.Mode,
		"VIBE_WORKTREE_BASE":   &cfg.BaseDir,
		"VIBE_WORKTREE_PREFIX": &cfg.Prefix,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"VIBE_WORKTREE_AUTO_GITIGNORE":     &cfg.AutoGitignore,
		"VIBE_WORKTREE_VERIFY_REMOTE":      &cfg.Cleanup.VerifyRemote,
		"VIBE_WORKTREE_AUTO_DELETE_BRANCH": &cfg.Cleanup.AutoDeleteBranch,
		"VIBE_WORKTREE_USE_GITHUB_CLI":     &cfg.Merge.UseGitHubCLI,
		"VIBE_WORKTREE_SHOW_FILES":         &cfg.Status.ShowFiles,
	}
	for key, dst := range bools {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: must be true or false", key, v)
		}
		*dst = b
	}

	ints := map[string]*int{
		"VIBE_WORKTREE_AGE_THRESHOLD":   &cfg.Cleanup.AgeThresholdHours,
		"VIBE_WORKTREE_MAX_FILES_SHOWN": &cfg.Status.MaxFilesShown,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: must be an integer", key, v)
		}
		*dst = n
	}

	if v := os.Getenv("VIBE_WORKTREE_MERGE_METHODS"); v != "" {
		cfg.Merge.Methods = splitList(v)
	}
	if v := os.Getenv("VIBE_WORKTREE_MAIN_BRANCHES"); v != "" {
		cfg.Merge.MainBranches = splitList(v)
	}
	return nil
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
