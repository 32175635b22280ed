package logging

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/jonboulle/clockwork"
)

// Cleaner prunes transcripts older than a retention period.
type Cleaner struct {
	baseDir       string
	retentionDays int
	clock         clockwork.Clock
}

// NewCleaner creates a new Cleaner with the specified base directory and retention period.
func NewCleaner(baseDir string, retentionDays int) *Cleaner {
	return &Cleaner{baseDir: baseDir, retentionDays: retentionDays, clock: clockwork.NewRealClock()}
}

// WithClock replaces the clock used to compute the retention threshold.
func (c *Cleaner) WithClock(clock clockwork.Clock) *Cleaner {
	c.clock = clock
	return c
}

// Cleanup removes expired .log files, then any directories left empty.
// A missing base directory is not an error.
func (c *Cleaner) Cleanup(ctx context.Context) (int, error) {
	threshold := c.clock.Now().AddDate(0, 0, -c.retentionDays)
	var (
		deleted int
		dirs    []string
	)

	err := filepath.WalkDir(c.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == c.baseDir && os.IsNotExist(err) {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != c.baseDir {
				dirs = append(dirs, path)
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".log") {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(threshold) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			clog.FromContext(ctx).Warnf("removing transcript %s: %v", path, err)
			return nil
		}
		deleted++
		return nil
	})

	// Deepest first, so parents emptied by their children go too.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, dir := range dirs {
		if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
			os.Remove(dir)
		}
	}

	return deleted, err
}
