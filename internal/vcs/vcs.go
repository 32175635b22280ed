// Package vcs commits, tags and pushes release changes.
package vcs

import "context"

// Repository is a working copy that can record and publish a release.
type Repository interface {
	// Commit stages files and commits them with message.
	Commit(ctx context.Context, message string, files ...string) error

	// Push pushes the current branch to the remote.
	Push(ctx context.Context) error

	// Tag creates an annotated tag on HEAD.
	Tag(ctx context.Context, name, message string) error

	// PushTag pushes a tag to the remote.
	PushTag(ctx context.Context, name string) error
}

// CommitMessage returns the changelog commit message for version.
func CommitMessage(version string) string {
	return "Update changelog for " + version
}

// TagMessage returns the annotated tag message for version.
func TagMessage(version string) string {
	return "Release " + version
}
