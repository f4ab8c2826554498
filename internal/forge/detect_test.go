package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"git@github.com:user/repo.git", "github.com"},
		{"git@github.mycompany.com:org/repo.git", "github.mycompany.com"},
		{"https://gitlab.internal.corp/org/repo.git", "gitlab.internal.corp"},
		{"https://code.company.com:8443/org/repo.git", "code.company.com"},
		{"http://github.mycompany.com/org/repo.git", "github.mycompany.com"},
		{"ssh://git@gitlab.internal.corp:2222/org/repo.git", "gitlab.internal.corp"},
		{"GIT@GitHub.com:user/repo.git", "github.com"},
		{"github.com:user/repo.git", "github.com"},
		{"git://git.example.org/repo.git", "git.example.org"},
		{"/srv/git/origin.git", ""},
		{"../relative/repo", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Host(tt.url), "Host(%q)", tt.url)
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		hostMap map[string]string
		want    string
	}{
		{"github.com", "git@github.com:user/repo.git", nil, TypeGitHub},
		{"gitlab.com", "git@gitlab.com:user/repo.git", nil, TypeGitLab},
		{"custom host to gitlab", "git@code.internal.corp:org/repo.git", map[string]string{"code.internal.corp": "gitlab"}, TypeGitLab},
		{"host map wins over pattern", "git@gitlab.mycompany.com:org/repo.git", map[string]string{"gitlab.mycompany.com": "github"}, TypeGitHub},
		{"host map ignores case", "git@Code.Internal.Corp:org/repo.git", map[string]string{"code.internal.corp": "gitlab"}, TypeGitLab},
		{"gitlab subdomain", "https://git.gitlab.example.org/org/repo.git", nil, TypeGitLab},
		{"gitlab path segment", "https://company.com/gitlab/org/repo.git", nil, TypeGitLab},
		{"unknown host defaults to github", "git@unknown.example.com:org/repo.git", nil, TypeGitHub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Detect(tt.url, tt.hostMap).Name())
		})
	}
}

func TestByName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "glab", ByName("GitLab").CLI())
	assert.Equal(t, TypeGitHub, ByName("bitbucket").Name(), "unknown forge falls back to github")
}
