package console

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Heading("Adding new release to changelog: ")
	p.Text("## 2.0.0 - 2024-01-01")
	p.Check("changelog.txt")
	p.Success("WP Job Manager 2.0.0 release created!")

	out := buf.String()
	for _, want := range []string{
		"Adding new release to changelog:",
		"## 2.0.0 - 2024-01-01\n",
		"✓",
		"changelog.txt",
		"WP Job Manager 2.0.0 release created!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n"); n != 4 {
		t.Errorf("got %d lines, want 4", n)
	}
}

func TestPrinter_Nil(t *testing.T) {
	var p *Printer
	p.Heading("ignored")
	p.Check("ignored")
}
