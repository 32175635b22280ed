// Package console prints human-facing progress lines.
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	boldStyle    = lipgloss.NewStyle().Bold(true)
	checkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
)

// Printer writes styled status lines. A nil Printer discards output.
type Printer struct {
	w io.Writer
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Heading prints a bold line.
func (p *Printer) Heading(text string) {
	p.println(boldStyle.Render(text))
}

// Text prints text as is.
func (p *Printer) Text(text string) {
	p.println(text)
}

// Check prints a green check mark followed by text.
func (p *Printer) Check(text string) {
	p.println(checkStyle.Render("✓") + " " + text)
}

// Success prints a bold green check line.
func (p *Printer) Success(text string) {
	p.println(successStyle.Render("✓ " + text))
}

func (p *Printer) println(s string) {
	if p == nil || p.w == nil {
		return
	}
	fmt.Fprintln(p.w, s)
}
