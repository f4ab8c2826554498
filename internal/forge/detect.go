package forge

import (
	"context"
	"net/url"
	"strings"

	"github.com/toolprint/vibews/internal/git"
)

// Detect picks the forge for remoteURL. An entry in hosts (host name to
// forge type) wins over the URL heuristics. Anything unrecognized is GitHub.
func Detect(remoteURL string, hosts map[string]string) Forge {
	host := Host(remoteURL)
	for h, forgeType := range hosts {
		if host != "" && strings.EqualFold(h, host) {
			return ByName(forgeType)
		}
	}
	if looksLikeGitLab(host, remoteURL) {
		return &GitLab{}
	}
	return &GitHub{}
}

// DetectFromRepo detects the forge from the URL of remote in repoPath,
// falling back to GitHub when the remote cannot be read.
func DetectFromRepo(ctx context.Context, repoPath, remote string, hosts map[string]string) Forge {
	if remote == "" {
		remote = "origin"
	}
	remoteURL, err := git.RemoteURL(ctx, repoPath, remote)
	if err != nil {
		return &GitHub{}
	}
	return Detect(remoteURL, hosts)
}

// Host returns the lower-cased host of a git remote URL. It understands
// scheme URLs (https://, ssh://, git://) and the scp-like user@host:path
// form. Local paths have no host.
func Host(remoteURL string) string {
	if strings.Contains(remoteURL, "://") {
		u, err := url.Parse(remoteURL)
		if err != nil {
			return ""
		}
		return strings.ToLower(u.Hostname())
	}

	rest := remoteURL
	if _, after, ok := strings.Cut(rest, "@"); ok {
		rest = after
	}
	host, _, ok := strings.Cut(rest, ":")
	if !ok || host == "" || strings.Contains(host, "/") {
		return ""
	}
	return strings.ToLower(host)
}

// ByName returns the forge called name ("github" or "gitlab", any case).
// Unknown names get GitHub.
func ByName(name string) Forge {
	if strings.EqualFold(name, TypeGitLab) {
		return &GitLab{}
	}
	return &GitHub{}
}

// looksLikeGitLab matches gitlab.com, gitlab.* and *.gitlab.* hosts, and
// instances served under a /gitlab/ path.
func looksLikeGitLab(host, remoteURL string) bool {
	switch {
	case host == "gitlab.com", strings.HasPrefix(host, "gitlab."), strings.Contains(host, ".gitlab."):
		return true
	}
	return strings.Contains(strings.ToLower(remoteURL), "/gitlab/")
}
