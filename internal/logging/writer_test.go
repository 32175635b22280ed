package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogWriter_Create(t *testing.T) {
	baseDir := t.TempDir()
	writer := NewWriter(baseDir)

	entry := LogEntry{
		Slug:      "wp-job-manager",
		PRNumber:  42,
		Timestamp: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	logPath, err := writer.Create(entry)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	want := filepath.Join(baseDir, "wp-job-manager", "42", "2026-01-15T10-30-00.log")
	if logPath != want {
		t.Errorf("Create() = %q, want %q", logPath, want)
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("Log file should exist: %v", err)
	}
}

func TestLogWriter_Append_MultipleWrites(t *testing.T) {
	writer := NewWriter(t.TempDir())

	logPath, err := writer.Create(LogEntry{Slug: "plugin", PRNumber: 1, Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := writer.Append(logPath, []byte(fmt.Sprintf("line %d\n", i))); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(content) != "line 1\nline 2\nline 3\n" {
		t.Errorf("Content = %q", string(content))
	}
}

func TestLogWriter_Append_NonexistentFile(t *testing.T) {
	writer := NewWriter(t.TempDir())

	if err := writer.Append("/nonexistent/path/file.log", []byte("data")); err == nil {
		t.Error("Append() should error for nonexistent file")
	}
}

func TestTranscript_Write(t *testing.T) {
	writer := NewWriter(t.TempDir())
	logPath, err := writer.Create(LogEntry{Slug: "plugin", PRNumber: 9, Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tr := writer.Open(logPath)
	fmt.Fprintf(tr, "$ %s\n", "git push origin HEAD")
	fmt.Fprintln(tr, "done")

	content, err := os.ReadFile(tr.Path())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(content), "$ git push origin HEAD\n") {
		t.Errorf("Content = %q", string(content))
	}
}
