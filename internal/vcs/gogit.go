package vcs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// GoGit is a Repository implemented in-process with go-git.
type GoGit struct {
	repo   *git.Repository
	root   string
	remote string
	auth   transport.AuthMethod

	// Signature overrides the author and tagger; nil reads user.name and
	// user.email from git config.
	Signature *object.Signature
}

// OpenGoGit opens the repository containing dir.
func OpenGoGit(dir, remote string, auth transport.AuthMethod) (*GoGit, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	return &GoGit{
		repo:   repo,
		root:   wt.Filesystem.Root(),
		remote: remote,
		auth:   auth,
	}, nil
}

// TokenAuth returns HTTP basic auth for a hosting-platform token, or nil
// when token is empty.
func TokenAuth(provider, token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	user := "x-access-token"
	if provider == "gitlab" {
		user = "oauth2"
	}
	return &githttp.BasicAuth{Username: user, Password: token}
}

// Commit implements Repository.
func (g *GoGit) Commit(ctx context.Context, message string, files ...string) error {
	wt, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	for _, f := range files {
		rel, err := g.relative(f)
		if err != nil {
			return err
		}
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("staging %s: %w", rel, err)
		}
	}
	if _, err := wt.Commit(message, &git.CommitOptions{Author: g.Signature}); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Push implements Repository.
func (g *GoGit) Push(ctx context.Context) error {
	head, err := g.repo.Head()
	if err != nil {
		return fmt.Errorf("resolving HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return fmt.Errorf("pushing branch: HEAD is detached at %s", head.Hash())
	}
	spec := config.RefSpec(head.Name().String() + ":" + head.Name().String())
	if err := g.push(ctx, spec); err != nil {
		return fmt.Errorf("pushing branch: %w", err)
	}
	return nil
}

// Tag implements Repository.
func (g *GoGit) Tag(ctx context.Context, name, message string) error {
	head, err := g.repo.Head()
	if err != nil {
		return fmt.Errorf("resolving HEAD: %w", err)
	}
	if _, err := g.repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
		Tagger:  g.Signature,
		Message: message,
	}); err != nil {
		return fmt.Errorf("creating tag: %w", err)
	}
	return nil
}

// PushTag implements Repository.
func (g *GoGit) PushTag(ctx context.Context, name string) error {
	ref := plumbing.NewTagReferenceName(name).String()
	if err := g.push(ctx, config.RefSpec(ref+":"+ref)); err != nil {
		return fmt.Errorf("pushing tag: %w", err)
	}
	return nil
}

func (g *GoGit) push(ctx context.Context, spec config.RefSpec) error {
	err := g.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: g.remote,
		RefSpecs:   []config.RefSpec{spec},
		Auth:       g.auth,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

func (g *GoGit) relative(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(g.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository", path)
	}
	return filepath.ToSlash(rel), nil
}
