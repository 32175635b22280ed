package changelog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"
	"github.com/jonboulle/clockwork"

	"github.com/drewdunne/releaser/internal/console"
)

// Updater rewrites the changelog and readme files of a plugin checkout.
type Updater struct {
	ChangelogPath string
	ReadmePath    string
	// ReadmeEntries is how many releases the readme keeps.
	ReadmeEntries int
	Clock         clockwork.Clock
	Out           *console.Printer
}

// NewUpdater creates an Updater for the files in dir.
func NewUpdater(dir, changelogFile, readmeFile string, readmeEntries int) *Updater {
	return &Updater{
		ChangelogPath: filepath.Join(dir, changelogFile),
		ReadmePath:    filepath.Join(dir, readmeFile),
		ReadmeEntries: readmeEntries,
		Clock:         clockwork.NewRealClock(),
	}
}

// Files returns the paths Update writes, in write order.
func (u *Updater) Files() []string {
	return []string{u.ChangelogPath, u.ReadmePath}
}

// Update adds a release for version with notes, dated today. Both documents
// are computed before either is written.
func (u *Updater) Update(ctx context.Context, version, notes string) (Entry, error) {
	entry := NewEntry(version, notes, u.Clock.Now())

	changelog, err := os.ReadFile(u.ChangelogPath)
	if err != nil {
		return Entry{}, fmt.Errorf("reading changelog: %w", err)
	}
	readme, err := os.ReadFile(u.ReadmePath)
	if err != nil {
		return Entry{}, fmt.Errorf("reading readme: %w", err)
	}

	newChangelog, err := Insert(string(changelog), entry)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", u.ChangelogPath, err)
	}
	releases := Releases(newChangelog)
	newReadme, err := Readme(string(readme), releases, u.ReadmeEntries)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", u.ReadmePath, err)
	}

	clog.FromContext(ctx).With("version", entry.Version, "date", entry.Date).Info("Adding new release to changelog")
	u.Out.Heading("Adding new release to changelog: ")
	u.Out.Text(releases[0])

	if err := os.WriteFile(u.ChangelogPath, []byte(newChangelog), 0644); err != nil {
		return Entry{}, fmt.Errorf("writing changelog: %w", err)
	}
	u.Out.Check(filepath.Base(u.ChangelogPath))

	if err := os.WriteFile(u.ReadmePath, []byte(newReadme), 0644); err != nil {
		return Entry{}, fmt.Errorf("writing readme: %w", err)
	}
	u.Out.Check(filepath.Base(u.ReadmePath))

	return entry, nil
}
