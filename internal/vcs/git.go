package vcs

import (
	"context"
	"fmt"

	"github.com/drewdunne/releaser/internal/command"
)

// Git drives the git command-line tool.
type Git struct {
	runner command.Runner
	dir    string
	remote string
}

// NewGit creates a Git repository rooted at dir pushing to remote.
func NewGit(runner command.Runner, dir, remote string) *Git {
	return &Git{runner: runner, dir: dir, remote: remote}
}

// Commit implements Repository.
func (g *Git) Commit(ctx context.Context, message string, files ...string) error {
	if err := g.git(ctx, append([]string{"add", "--"}, files...)...); err != nil {
		return fmt.Errorf("staging files: %w", err)
	}
	if err := g.git(ctx, "commit", "-m", message); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Push implements Repository.
func (g *Git) Push(ctx context.Context) error {
	if err := g.git(ctx, "push", g.remote, "HEAD"); err != nil {
		return fmt.Errorf("pushing branch: %w", err)
	}
	return nil
}

// Tag implements Repository.
func (g *Git) Tag(ctx context.Context, name, message string) error {
	if err := g.git(ctx, "tag", "-a", name, "-m", message); err != nil {
		return fmt.Errorf("creating tag: %w", err)
	}
	return nil
}

// PushTag implements Repository.
func (g *Git) PushTag(ctx context.Context, name string) error {
	if err := g.git(ctx, "push", g.remote, name); err != nil {
		return fmt.Errorf("pushing tag: %w", err)
	}
	return nil
}

func (g *Git) git(ctx context.Context, args ...string) error {
	_, err := g.runner.Run(ctx, g.dir, "git", args...)
	return err
}
