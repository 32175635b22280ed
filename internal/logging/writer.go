package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LogEntry contains metadata for creating a transcript file.
type LogEntry struct {
	Slug      string
	PRNumber  int
	Timestamp time.Time
}

// Writer manages release transcripts organized by plugin and pull request.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer with the specified base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Create creates a new transcript file for the given entry and returns the path.
// Directory structure: baseDir/slug/prNumber/timestamp.log
func (w *Writer) Create(entry LogEntry) (string, error) {
	dir := filepath.Join(
		w.baseDir,
		entry.Slug,
		fmt.Sprint(entry.PRNumber),
	)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating log directory: %w", err)
	}

	filename := entry.Timestamp.UTC().Format("2006-01-02T15-04-05") + ".log"
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating log file: %w", err)
	}
	f.Close()

	return path, nil
}

// Append writes data to the specified transcript file.
func (w *Writer) Append(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

// Transcript is an io.Writer appending to one transcript file.
type Transcript struct {
	w    *Writer
	path string
}

// Open returns a Transcript for a file created by Create.
func (w *Writer) Open(path string) *Transcript {
	return &Transcript{w: w, path: path}
}

// Path returns the transcript file path.
func (t *Transcript) Path() string {
	return t.path
}

func (t *Transcript) Write(p []byte) (int, error) {
	if err := t.w.Append(t.path, p); err != nil {
		return 0, err
	}
	return len(p), nil
}
