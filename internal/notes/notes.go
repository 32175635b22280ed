// Package notes extracts the release notes section from a pull request
// description.
package notes

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotesNotFound indicates the description has no delimited release notes.
var ErrNotesNotFound = errors.New("release notes section not found")

var (
	sectionPattern = regexp.MustCompile(`### Release Notes\s*\n---([\s\S]*?)---`)
	bulletPattern  = regexp.MustCompile(`(?m)^- `)
)

// Extract returns the text between the "### Release Notes" heading's pair of
// "---" delimiters, with "- " bullets rewritten to "* ".
func Extract(body string) (string, error) {
	m := sectionPattern.FindStringSubmatch(body)
	if m == nil {
		return "", ErrNotesNotFound
	}
	return strings.TrimSpace(bulletPattern.ReplaceAllString(m[1], "* ")), nil
}

// BodyGetter fetches a pull request description.
type BodyGetter interface {
	PullRequestBody(ctx context.Context, repo string, number int) (string, error)
}

// Fetcher reads release notes from pull requests.
type Fetcher struct {
	source BodyGetter
}

// NewFetcher creates a Fetcher reading from source.
func NewFetcher(source BodyGetter) *Fetcher {
	return &Fetcher{source: source}
}

// Fetch returns the release notes of pull request number in repo.
func (f *Fetcher) Fetch(ctx context.Context, repo string, number int) (string, error) {
	body, err := f.source.PullRequestBody(ctx, repo, number)
	if err != nil {
		return "", err
	}
	notes, err := Extract(body)
	if err != nil {
		return "", fmt.Errorf("pull request #%d: %w", number, err)
	}
	return notes, nil
}
