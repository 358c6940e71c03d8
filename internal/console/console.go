// Package console writes operator-facing output, styled with lipgloss when
// the destination is a terminal and plain otherwise.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorAccent  = lipgloss.Color("#20B9B4")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#5C7A84")
)

var styles = struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Box     lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Bold:    lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(colorSuccess),
	Warning: lipgloss.NewStyle().Foreground(colorWarning),
	Error:   lipgloss.NewStyle().Foreground(colorError),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1),
}

const (
	iconSuccess = "✓"
	iconWarning = "⚠"
	iconError   = "✗"
)

// ruleWidth is the width of the separator drawn between review items.
const ruleWidth = 55

// Console is the operator's output channel.
type Console struct {
	w      io.Writer
	styled bool
}

// New returns a Console writing to w. Styling is applied only when styled
// is true.
func New(w io.Writer, styled bool) *Console {
	return &Console{w: w, styled: styled}
}

// Stdout returns a Console on os.Stdout, styled when stdout is a terminal
// and plain is false.
func Stdout(plain bool) *Console {
	return New(os.Stdout, !plain && IsTerminal(os.Stdout))
}

// IsTerminal reports whether f refers to an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Writer exposes the underlying destination, e.g. for prompts.
func (c *Console) Writer() io.Writer { return c.w }

// Println writes an unstyled line.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.w, a...)
}

// Printf writes unstyled formatted text.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.w, format, a...)
}

// Title writes a heading line.
func (c *Console) Title(text string) {
	c.Println(c.render(styles.Title, text))
}

// Rule writes a full-width separator made of ch.
func (c *Console) Rule(ch string) {
	c.Println(c.render(styles.Muted, strings.Repeat(ch, ruleWidth)))
}

// Success writes a line prefixed with a check mark.
func (c *Console) Success(text string) {
	c.Printf("%s %s\n", c.render(styles.Success, iconSuccess), c.render(styles.Success, text))
}

// Warning writes a line prefixed with a warning sign.
func (c *Console) Warning(text string) {
	c.Printf("%s %s\n", c.render(styles.Warning, iconWarning), c.render(styles.Warning, text))
}

// Error writes a line prefixed with a cross.
func (c *Console) Error(text string) {
	c.Printf("%s %s\n", c.render(styles.Error, iconError), c.render(styles.Error, text))
}

// Muted writes secondary text.
func (c *Console) Muted(text string) {
	c.Println(c.render(styles.Muted, text))
}

// Bold returns text rendered bold, for inline use.
func (c *Console) Bold(text string) string {
	return c.render(styles.Bold, text)
}

// Box writes text inside a rounded border. Plain consoles frame it with
// dashed rules instead.
func (c *Console) Box(text string) {
	if !c.styled {
		rule := strings.Repeat("-", 33)
		c.Println(rule)
		c.Println(text)
		c.Println(rule)
		return
	}
	c.Println(styles.Box.Render(text))
}

func (c *Console) render(s lipgloss.Style, text string) string {
	if !c.styled {
		return text
	}
	return s.Render(text)
}
