// Package build produces the distributable plugin archive.
package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"

	"github.com/drewdunne/releaser/internal/command"
	"github.com/drewdunne/releaser/internal/docker"
)

// Builder runs the project's build command. The command is expected to leave
// <slug>.zip in the working directory.
type Builder interface {
	Build(ctx context.Context) error
}

// ArchivePath returns where the build leaves the archive for slug.
func ArchivePath(dir, slug string) string {
	return filepath.Join(dir, slug+".zip")
}

// Shell runs the build command with sh on the host.
type Shell struct {
	runner  command.Runner
	dir     string
	command string
}

// NewShell creates a host builder.
func NewShell(runner command.Runner, dir, command string) *Shell {
	return &Shell{runner: runner, dir: dir, command: command}
}

// Build implements Builder. Standard output is discarded.
func (s *Shell) Build(ctx context.Context) error {
	clog.FromContext(ctx).Infof("Building archive: %s", s.command)
	if _, err := s.runner.Run(ctx, s.dir, "sh", "-c", s.command); err != nil {
		return fmt.Errorf("building archive: %w", err)
	}
	return nil
}

// ContainerRunner runs one-shot containers.
type ContainerRunner interface {
	// PullImage pulls image unless it is already present.
	PullImage(ctx context.Context, image string) error
	Run(ctx context.Context, cfg docker.RunConfig, stdout, stderr io.Writer) error
}

// Container runs the build command inside a container image with the
// working directory mounted at /workspace.
type Container struct {
	docker  ContainerRunner
	dir     string
	image   string
	command string

	// Output receives the build output; nil discards it.
	Output io.Writer
}

// NewContainer creates a containerized builder.
func NewContainer(runner ContainerRunner, dir, image, command string) *Container {
	return &Container{docker: runner, dir: dir, image: image, command: command}
}

// Build implements Builder.
func (c *Container) Build(ctx context.Context) error {
	dir, err := filepath.Abs(c.dir)
	if err != nil {
		return fmt.Errorf("resolving build directory: %w", err)
	}

	out := c.Output
	if out == nil {
		out = io.Discard
	}

	if err := c.docker.PullImage(ctx, c.image); err != nil {
		return fmt.Errorf("preparing image %s: %w", c.image, err)
	}

	clog.FromContext(ctx).With("image", c.image).Infof("Building archive in container: %s", c.command)
	err = c.docker.Run(ctx, docker.RunConfig{
		Image:   c.image,
		User:    fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid()),
		WorkDir: "/workspace",
		Mounts:  []docker.Mount{{Source: dir, Target: "/workspace"}},
		Cmd:     []string{"sh", "-c", c.command},
	}, out, out)
	if err != nil {
		return fmt.Errorf("building archive in %s: %w", c.image, err)
	}
	return nil
}
