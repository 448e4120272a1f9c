// Package console prints the outcome of a run for the person who started it.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/jury/internal/domain/assign"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Printer writes outcome banners.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Success reports where the reports were written.
func (p *Printer) Success(dir string, s assign.Summary) error {
	body := detailStyle.Render(strings.Join([]string{
		fmt.Sprintf("Presentations assigned: %d", s.Presentations),
		fmt.Sprintf("Paper reviews assigned: %d", s.Papers()),
		fmt.Sprintf("Output data can be found in %s.", dir),
	}, "\n"))
	return p.print(successStyle.Render("Scheduling successfully completed!"), body)
}

// Failure echoes the diagnostic and where it was saved.
func (p *Printer) Failure(message, path string) error {
	lines := []string{strings.TrimRight(message, "\n")}
	if path != "" {
		lines = append(lines, fmt.Sprintf("Check %s to review this error message.", path))
	}
	return p.print(errorStyle.Render("[Error]"), detailStyle.Render(strings.Join(lines, "\n")))
}

func (p *Printer) print(head, body string) error {
	_, err := fmt.Fprintln(p.w, boxStyle.Render(head+"\n"+body))
	return err
}
