package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Worktree placement modes.
const (
	ModeLocal  = "local"
	ModeGlobal = "global"
)

// Merge detection method names, in default order.
const (
	MethodStandard    = "standard"
	MethodSquash      = "squash"
	MethodGitHubPR    = "github_pr"
	MethodFileContent = "file_content"
)

// LocalConfigFileName is the per-repo overlay read from the repository root.
const LocalConfigFileName = ".vibews.toml"

// DefaultGlobalBaseDir holds worktrees in global mode, one folder per repo.
const DefaultGlobalBaseDir = "~/.vibews/worktrees"

// CleanupConfig holds cleanup policy defaults.
type CleanupConfig struct {
	AgeThresholdHours   int  `toml:"age_threshold_hours"`
	VerifyRemote        bool `toml:"verify_remote"`
	AutoDeleteBranch    bool `toml:"auto_delete_branch"`
	RequireConfirmation bool `toml:"require_confirmation"`
}

// MergeDetectionConfig selects and orders merge detection strategies.
type MergeDetectionConfig struct {
	UseGitHubCLI bool     `toml:"use_github_cli"`
	Methods      []string `toml:"methods"`
	MainBranches []string `toml:"main_branches"`
}

// StatusConfig bounds how much detail status reports carry.
type StatusConfig struct {
	ShowFiles          bool `toml:"show_files"`
	MaxFilesShown      int  `toml:"max_files_shown"`
	ShowCommitMessages bool `toml:"show_commit_messages"`
	MaxCommitsShown    int  `toml:"max_commits_shown"`
}

// Config holds the vibews configuration
type Config struct {
	Mode          string               `toml:"mode"`
	BaseDir       string               `toml:"base_dir"`
	GlobalBaseDir string               `toml:"global_base_dir"`
	Prefix        string               `toml:"prefix"`
	AutoGitignore bool                 `toml:"auto_gitignore"`
	Remote        string               `toml:"remote"`
	Cleanup       CleanupConfig        `toml:"cleanup"`
	Merge         MergeDetectionConfig `toml:"merge_detection"`
	Status        StatusConfig         `toml:"status"`
	Hosts         map[string]string    `toml:"hosts"` // domain -> forge type
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Mode:          ModeLocal,
		BaseDir:       ".worktrees",
		GlobalBaseDir: DefaultGlobalBaseDir,
		Prefix:        "vibe-ws/",
		AutoGitignore: true,
		Remote:        "origin",
		Cleanup: CleanupConfig{
			AgeThresholdHours:   24,
			VerifyRemote:        true,
			AutoDeleteBranch:    false,
			RequireConfirmation: true,
		},
		Merge: MergeDetectionConfig{
			UseGitHubCLI: true,
			Methods:      []string{MethodStandard, MethodSquash, MethodGitHubPR, MethodFileContent},
			MainBranches: []string{"main", "master"},
		},
		Status: StatusConfig{
			ShowFiles:          true,
			MaxFilesShown:      10,
			ShowCommitMessages: true,
			MaxCommitsShown:    5,
		},
	}
}

// ResolveBaseDir returns the absolute directory new worktrees go under.
func (c *Config) ResolveBaseDir(repoRoot string) (string, error) {
	if c.Mode == ModeGlobal {
		base, err := expandPath(c.GlobalBaseDir)
		if err != nil {
			return "", fmt.Errorf("expand global_base_dir: %w", err)
		}
		return filepath.Join(base, filepath.Base(repoRoot)), nil
	}
	base, err := expandPath(c.BaseDir)
	if err != nil {
		return "", fmt.Errorf("expand base_dir: %w", err)
	}
	if filepath.IsAbs(base) {
		return base, nil
	}
	return filepath.Join(repoRoot, base), nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "~" || len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// Path returns the global config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vibews", "config.toml"), nil
}

// Load reads the global config, overlays the repo-local file when repoRoot
// is set, then applies VIBE_WORKTREE_* overrides and validates.
// Missing files are not an error.
func Load(repoRoot string) (Config, error) {
	path, err := Path()
	if err != nil {
		path = ""
	}
	return LoadFrom(path, repoRoot)
}

// LoadFrom is Load with an explicit global config path ("" skips it).
func LoadFrom(globalPath, repoRoot string) (Config, error) {
	cfg := Default()

	if globalPath != "" {
		if err := decodeFile(globalPath, &cfg); err != nil {
			return Default(), err
		}
	}
	if repoRoot != "" {
		if err := decodeFile(filepath.Join(repoRoot, LocalConfigFileName), &cfg); err != nil {
			return Default(), err
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Default(), err
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// decodeFile overlays the TOML file at path onto cfg. Keys absent from the
// file keep their current values.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}
