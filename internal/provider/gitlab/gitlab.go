package gitlab

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/drewdunne/releaser/internal/provider"
	"github.com/xanzy/go-gitlab"
)

// GitLabProvider implements provider.Provider for GitLab. Pull requests are
// merge requests, and the repo identifier is the project path.
type GitLabProvider struct {
	client *gitlab.Client
	token  string
}

// Option configures the GitLab provider.
type Option func(*GitLabProvider)

// WithBaseURL sets a custom base URL (self-managed instances, tests).
func WithBaseURL(baseURL string) Option {
	return func(p *GitLabProvider) {
		p.client, _ = gitlab.NewClient(p.token, gitlab.WithBaseURL(strings.TrimSuffix(baseURL, "/")+"/api/v4"))
	}
}

// New creates a new GitLab provider.
func New(token string, opts ...Option) *GitLabProvider {
	client, _ := gitlab.NewClient(token)
	p := &GitLabProvider{client: client, token: token}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the provider name.
func (p *GitLabProvider) Name() string {
	return "gitlab"
}

// PullRequestBody fetches a merge request description.
func (p *GitLabProvider) PullRequestBody(ctx context.Context, repo string, number int) (string, error) {
	mr, _, err := p.client.MergeRequests.GetMergeRequest(repo, number, nil, gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("fetching merge request: %w", err)
	}
	return mr.Description, nil
}

// CreateRelease uploads the asset to the project, then creates the release
// with a link to the upload.
func (p *GitLabProvider) CreateRelease(ctx context.Context, repo string, release provider.Release) (string, error) {
	project, _, err := p.client.Projects.GetProject(repo, nil, gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("fetching project: %w", err)
	}

	opts := &gitlab.CreateReleaseOptions{
		Name:        gitlab.Ptr(release.Title),
		TagName:     gitlab.Ptr(release.Tag),
		Description: gitlab.Ptr(release.Notes),
	}

	if release.AssetPath != "" {
		f, err := os.Open(release.AssetPath)
		if err != nil {
			return "", fmt.Errorf("opening release asset: %w", err)
		}
		defer f.Close()

		name := filepath.Base(release.AssetPath)
		upload, _, err := p.client.Projects.UploadFile(repo, f, name, gitlab.WithContext(ctx))
		if err != nil {
			return "", fmt.Errorf("uploading release asset: %w", err)
		}
		opts.Assets = &gitlab.ReleaseAssetsOptions{
			Links: []*gitlab.ReleaseAssetLinkOptions{{
				Name: gitlab.Ptr(name),
				URL:  gitlab.Ptr(project.WebURL + upload.URL),
			}},
		}
	}

	if _, _, err := p.client.Releases.CreateRelease(repo, opts, gitlab.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("creating release: %w", err)
	}
	return project.WebURL + "/-/releases/" + url.PathEscape(release.Tag), nil
}

// EditLastComment edits the authenticated user's most recent note on the
// merge request, or posts a new one when there is none.
func (p *GitLabProvider) EditLastComment(ctx context.Context, repo string, number int, body string) error {
	me, _, err := p.client.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("fetching current user: %w", err)
	}

	noteID, err := p.lastNoteBy(ctx, repo, number, me.Username)
	if err != nil {
		return err
	}

	if noteID == 0 {
		_, _, err := p.client.Notes.CreateMergeRequestNote(repo, number, &gitlab.CreateMergeRequestNoteOptions{
			Body: &body,
		}, gitlab.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("posting comment: %w", err)
		}
		return nil
	}

	_, _, err = p.client.Notes.UpdateMergeRequestNote(repo, number, noteID, &gitlab.UpdateMergeRequestNoteOptions{
		Body: &body,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("editing comment: %w", err)
	}
	return nil
}

// lastNoteBy returns the ID of the newest non-system note by username, or 0.
func (p *GitLabProvider) lastNoteBy(ctx context.Context, repo string, number int, username string) (int, error) {
	opts := &gitlab.ListMergeRequestNotesOptions{
		ListOptions: gitlab.ListOptions{PerPage: 100},
		OrderBy:     gitlab.Ptr("created_at"),
		Sort:        gitlab.Ptr("desc"),
	}
	for {
		notes, resp, err := p.client.Notes.ListMergeRequestNotes(repo, number, opts, gitlab.WithContext(ctx))
		if err != nil {
			return 0, fmt.Errorf("listing comments: %w", err)
		}
		for _, n := range notes {
			if !n.System && n.Author.Username == username {
				return n.ID, nil
			}
		}
		if resp.NextPage == 0 {
			return 0, nil
		}
		opts.Page = resp.NextPage
	}
}
