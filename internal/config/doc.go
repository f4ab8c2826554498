// Package config handles loading and validation of vibews configuration.
//
// # Configuration Sources (highest priority first)
//
//   - VIBE_WORKTREE_* environment variables
//   - <repo>/.vibews.toml
//   - ~/.config/vibews/config.toml
//   - Default values
//
// Files are overlaid key by key: a key absent from a file keeps the value
// from the layer below.
//
// # Example
//
//	mode = "local"          # or "global"
//	base_dir = ".worktrees"
//	prefix = "vibe-ws/"
//	auto_gitignore = true
//
//	[cleanup]
//	age_threshold_hours = 24
//	verify_remote = true
//	auto_delete_branch = false
//	require_confirmation = true
//
//	[merge_detection]
//	use_github_cli = true
//	methods = ["standard", "squash", "github_pr", "file_content"]
//	main_branches = ["main", "master"]
//
//	[status]
//	max_files_shown = 10
//	max_commits_shown = 5
//
//	[hosts]
//	"git.example.com" = "gitlab"
package config
