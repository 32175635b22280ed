package github

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/drewdunne/releaser/internal/provider"
	"github.com/google/go-github/v60/github"
)

// GitHubProvider implements provider.Provider with the GitHub REST API.
type GitHubProvider struct {
	client *github.Client
	token  string
}

// Option configures the GitHub provider.
type Option func(*GitHubProvider)

// WithBaseURL sets a custom API and upload URL (GitHub Enterprise, tests).
func WithBaseURL(url string) Option {
	return func(p *GitHubProvider) {
		p.client.BaseURL, _ = p.client.BaseURL.Parse(url + "/")
		p.client.UploadURL, _ = p.client.UploadURL.Parse(url + "/")
	}
}

// New creates a new GitHub provider.
func New(token string, opts ...Option) *GitHubProvider {
	httpClient := &http.Client{
		Transport: &tokenTransport{token: token},
	}
	client := github.NewClient(httpClient)

	p := &GitHubProvider{
		client: client,
		token:  token,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// tokenTransport adds authorization header to requests.
type tokenTransport struct {
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}

// Name returns the provider name.
func (p *GitHubProvider) Name() string {
	return "github"
}

// PullRequestBody fetches a pull request description.
func (p *GitHubProvider) PullRequestBody(ctx context.Context, repo string, number int) (string, error) {
	owner, name, err := provider.SplitRepo(repo)
	if err != nil {
		return "", err
	}

	pr, _, err := p.client.PullRequests.Get(ctx, owner, name, number)
	if err != nil {
		return "", fmt.Errorf("fetching pull request: %w", err)
	}
	return pr.GetBody(), nil
}

// CreateRelease creates the release, then uploads the asset to it.
func (p *GitHubProvider) CreateRelease(ctx context.Context, repo string, release provider.Release) (string, error) {
	owner, name, err := provider.SplitRepo(repo)
	if err != nil {
		return "", err
	}

	rel, _, err := p.client.Repositories.CreateRelease(ctx, owner, name, &github.RepositoryRelease{
		TagName: github.String(release.Tag),
		Name:    github.String(release.Title),
		Body:    github.String(release.Notes),
	})
	if err != nil {
		return "", fmt.Errorf("creating release: %w", err)
	}

	if release.AssetPath != "" {
		f, err := os.Open(release.AssetPath)
		if err != nil {
			return "", fmt.Errorf("opening release asset: %w", err)
		}
		defer f.Close()

		_, _, err = p.client.Repositories.UploadReleaseAsset(ctx, owner, name, rel.GetID(), &github.UploadOptions{
			Name: filepath.Base(release.AssetPath),
		}, f)
		if err != nil {
			return "", fmt.Errorf("uploading release asset: %w", err)
		}
	}

	if url := rel.GetHTMLURL(); url != "" {
		return url, nil
	}
	return provider.GitHubReleaseURL(repo, release.Tag), nil
}

// EditLastComment edits the authenticated user's most recent comment on the
// pull request, or posts a new one when there is none.
func (p *GitHubProvider) EditLastComment(ctx context.Context, repo string, number int, body string) error {
	owner, name, err := provider.SplitRepo(repo)
	if err != nil {
		return err
	}

	me, _, err := p.client.Users.Get(ctx, "")
	if err != nil {
		return fmt.Errorf("fetching authenticated user: %w", err)
	}

	var lastID int64
	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		comments, resp, err := p.client.Issues.ListComments(ctx, owner, name, number, opts)
		if err != nil {
			return fmt.Errorf("listing comments: %w", err)
		}
		for _, c := range comments {
			if c.GetUser().GetLogin() == me.GetLogin() {
				lastID = c.GetID()
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	comment := &github.IssueComment{Body: &body}
	if lastID == 0 {
		if _, _, err := p.client.Issues.CreateComment(ctx, owner, name, number, comment); err != nil {
			return fmt.Errorf("posting comment: %w", err)
		}
		return nil
	}
	if _, _, err := p.client.Issues.EditComment(ctx, owner, name, lastID, comment); err != nil {
		return fmt.Errorf("editing comment: %w", err)
	}
	return nil
}
