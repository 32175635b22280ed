// Package command runs external tools (git, gh, the build command).
package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/drewdunne/releaser/internal/metrics"
)

// Runner runs an external command in dir and returns its standard output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// Exec runs commands with os/exec.
type Exec struct {
	// Transcript receives the command line and its combined output when set.
	Transcript io.Writer
}

// Run implements Runner.
func (e *Exec) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	line := Line(name, args...)
	clog.FromContext(ctx).With("dir", dir).Debugf("running %s", line)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if e.Transcript != nil {
		fmt.Fprintf(e.Transcript, "$ %s\n", line)
		cmd.Stdout = io.MultiWriter(&stdout, e.Transcript)
		cmd.Stderr = io.MultiWriter(&stderr, e.Transcript)
	}

	metrics.CommandRun()
	if err := cmd.Run(); err != nil {
		metrics.CommandFailed()
		return stdout.Bytes(), fmt.Errorf("%s: %w: %s", line, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Line renders a command for logs, quoting arguments that contain spaces.
func Line(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
