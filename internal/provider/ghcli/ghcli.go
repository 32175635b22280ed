// Package ghcli implements provider.Provider with the GitHub CLI.
package ghcli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/drewdunne/releaser/internal/command"
	"github.com/drewdunne/releaser/internal/provider"
)

// CLIProvider shells out to gh, which brings its own authentication.
type CLIProvider struct {
	runner command.Runner
	dir    string
}

// New creates a provider running gh in dir.
func New(runner command.Runner, dir string) *CLIProvider {
	return &CLIProvider{runner: runner, dir: dir}
}

// Name returns the provider name.
func (p *CLIProvider) Name() string {
	return "gh"
}

// PullRequestBody fetches a pull request description.
func (p *CLIProvider) PullRequestBody(ctx context.Context, repo string, number int) (string, error) {
	out, err := p.runner.Run(ctx, p.dir, "gh", "pr", "view", strconv.Itoa(number), "-R", repo, "--json", "body")
	if err != nil {
		return "", fmt.Errorf("fetching pull request: %w", err)
	}

	var parsed struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(out, &parsed); err != nil {
		return "", fmt.Errorf("parse gh pr view response: %w", err)
	}
	return parsed.Body, nil
}

// CreateRelease creates a release and uploads its asset in one gh call.
func (p *CLIProvider) CreateRelease(ctx context.Context, repo string, release provider.Release) (string, error) {
	args := []string{
		"release", "create", release.Tag,
		"-R", repo,
		"--title", release.Title,
		"--notes", release.Notes,
	}
	if release.AssetPath != "" {
		args = append(args, release.AssetPath)
	}

	out, err := p.runner.Run(ctx, p.dir, "gh", args...)
	if err != nil {
		return "", fmt.Errorf("creating release: %w", err)
	}

	// gh prints the release URL on success.
	if url := strings.TrimSpace(string(out)); strings.HasPrefix(url, "http") {
		return url, nil
	}
	return provider.GitHubReleaseURL(repo, release.Tag), nil
}

// EditLastComment edits the caller's last comment on a pull request.
func (p *CLIProvider) EditLastComment(ctx context.Context, repo string, number int, body string) error {
	_, err := p.runner.Run(ctx, p.dir, "gh", "pr", "comment", strconv.Itoa(number), "-R", repo, "--edit-last", "--body", body)
	if err != nil {
		return fmt.Errorf("editing comment: %w", err)
	}
	return nil
}
