// Package changelog renders release entries into changelog.txt and the
// changelog section of readme.txt.
package changelog

import (
	"errors"
	"strings"
	"time"
)

// DateFormat is the layout of release dates in entry headers.
const DateFormat = "2006-01-02"

// ReadmeMarker is the line after which the readme lists recent releases.
const ReadmeMarker = "== Changelog ==\n"

var (
	// ErrNoTitle indicates the changelog does not start with a "# " title line.
	ErrNoTitle = errors.New("changelog has no title line")
	// ErrNoChangelogSection indicates the readme has no "== Changelog ==" line.
	ErrNoChangelogSection = errors.New("readme has no changelog section")
)

// Entry is one release in the changelog.
type Entry struct {
	Version string
	Date    string // YYYY-MM-DD
	Notes   string
}

// NewEntry creates an entry dated at now in UTC.
func NewEntry(version, notes string, now time.Time) Entry {
	return Entry{
		Version: version,
		Date:    now.UTC().Format(DateFormat),
		Notes:   notes,
	}
}

// Header returns the "## <version> - <date>" line without newline.
func (e Entry) Header() string {
	return "## " + e.Version + " - " + e.Date
}

// String renders the entry as it appears in the changelog.
func (e Entry) String() string {
	return e.Header() + "\n" + e.Notes
}

// Insert places entry directly under the title line of changelog, so the
// newest release always comes first.
func Insert(changelog string, entry Entry) (string, error) {
	end := strings.IndexByte(changelog, '\n')
	if !strings.HasPrefix(changelog, "# ") || end < 0 {
		return "", ErrNoTitle
	}
	var b strings.Builder
	b.WriteString(changelog[:end+1])
	b.WriteString("\n")
	b.WriteString(entry.String())
	b.WriteString("\n")
	b.WriteString(changelog[end+1:])
	return b.String(), nil
}

// Releases splits changelog into release blocks, newest first. A block
// starts at a line beginning with "##" and runs up to the next such line or
// the end of the document. Text before the first block is dropped.
func Releases(changelog string) []string {
	var (
		blocks  []string
		current strings.Builder
		inBlock bool
	)
	for _, line := range strings.SplitAfter(changelog, "\n") {
		if strings.HasPrefix(line, "##") {
			if inBlock {
				blocks = append(blocks, current.String())
				current.Reset()
			}
			inBlock = true
		}
		if inBlock {
			current.WriteString(line)
		}
	}
	if inBlock {
		blocks = append(blocks, current.String())
	}
	return blocks
}

// Readme replaces everything after the changelog marker of readme with the
// first n release blocks.
func Readme(readme string, releases []string, n int) (string, error) {
	i := strings.Index(readme, ReadmeMarker)
	if i < 0 {
		return "", ErrNoChangelogSection
	}
	if n > len(releases) {
		n = len(releases)
	}
	return readme[:i+len(ReadmeMarker)] + "\n" + strings.Join(releases[:n], ""), nil
}
