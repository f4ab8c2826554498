// Package forge looks up merged pull requests on git hosting services.
//
// GitHub is reached through the gh CLI and GitLab through glab. Both CLIs
// run inside the local checkout so they pick up the repository from its
// remotes.
//
// # Platform Detection
//
// Use [Detect] or [DetectFromRepo] to pick the forge from a remote URL:
//
//  1. Custom host mappings from the [hosts] config table (self-hosted)
//  2. URL patterns (gitlab.com, gitlab.* domains, /gitlab/ paths)
//  3. Falls back to GitHub
//
// # Usage
//
//	f := forge.DetectFromRepo(ctx, repoRoot, cfg.Remote, cfg.Hosts)
//	pr, err := f.MergedPR(ctx, repoRoot, "vibe-ws/task-1")
package forge
