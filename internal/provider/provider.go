package provider

import (
	"context"
	"fmt"
	"strings"
)

// Provider defines the code-hosting operations a release needs.
type Provider interface {
	// Name returns the provider name (gh, github, gitlab).
	Name() string

	// PullRequestBody fetches the description of a pull request.
	PullRequestBody(ctx context.Context, repo string, number int) (string, error)

	// CreateRelease publishes a release for an existing tag and returns its URL.
	CreateRelease(ctx context.Context, repo string, release Release) (string, error)

	// EditLastComment replaces the body of the caller's most recent comment
	// on a pull request.
	EditLastComment(ctx context.Context, repo string, number int, body string) error
}

// SplitRepo splits an owner/repo identifier.
func SplitRepo(repo string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid repository %q: want owner/repo", repo)
	}
	return owner, name, nil
}

// GitHubReleaseURL returns the web URL of a release on github.com.
func GitHubReleaseURL(repo, tag string) string {
	return "https://github.com/" + repo + "/releases/tag/" + tag
}
