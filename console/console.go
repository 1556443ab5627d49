// Package console prints replies, tool results, and tables for the
// non-interactive commands.
package console

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/botkit/bot"
	"github.com/botkit/bot/markdown"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const defaultWidth = 80

// maxCell bounds a table column so long titles do not push the rest of the
// row off screen.
const maxCell = 60

// Printer writes styled output to w.
type Printer struct {
	w     io.Writer
	theme bot.Theme
	width int

	ok    lipgloss.Style
	err   lipgloss.Style
	head  lipgloss.Style
	muted lipgloss.Style
}

// Option configures a [Printer].
type Option func(*Printer)

// WithTheme sets the color theme.
func WithTheme(t bot.Theme) Option {
	return func(p *Printer) { p.theme = t }
}

// WithWidth sets the wrap width for markdown replies. Default is 80.
func WithWidth(width int) Option {
	return func(p *Printer) {
		if width > 0 {
			p.width = width
		}
	}
}

// New creates a Printer writing to w.
func New(w io.Writer, opts ...Option) *Printer {
	p := &Printer{w: w, theme: bot.DefaultTheme(), width: defaultWidth}
	for _, o := range opts {
		o(p)
	}
	p.ok = lipgloss.NewStyle().Foreground(color(p.theme.Success))
	p.err = lipgloss.NewStyle().Foreground(color(p.theme.Error)).Bold(true)
	p.head = lipgloss.NewStyle().Foreground(color(p.theme.Accent)).Bold(true)
	p.muted = lipgloss.NewStyle().Foreground(color(p.theme.Muted))
	return p
}

func color(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(fmt.Sprint(index))
}

// Reply prints model text rendered as markdown.
func (p *Printer) Reply(text string) error {
	_, err := fmt.Fprintln(p.w, markdown.Render(text, p.width, p.theme))
	return err
}

// Result prints a tool result. String data is printed as is, other data as
// indented JSON. A failure is printed as a single error line.
func (p *Printer) Result(name string, r bot.ToolResult) error {
	if !r.OK {
		_, err := fmt.Fprintln(p.w, p.err.Render(fmt.Sprintf("%s failed: %s", name, r.Error)))
		return err
	}
	var body string
	switch d := r.Data.(type) {
	case nil:
		body = "(no output)"
	case string:
		body = d
	default:
		b, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s result: %w", name, err)
		}
		body = string(b)
	}
	_, err := fmt.Fprintf(p.w, "%s\n%s\n", p.ok.Render("✓ "+name), body)
	return err
}

// Cancelled prints a declined tool call.
func (p *Printer) Cancelled(name string) error {
	_, err := fmt.Fprintln(p.w, p.muted.Render(name+" cancelled"))
	return err
}

// Table prints rows in aligned columns under a header. Column widths are
// measured in terminal cells, so wide characters line up.
func (p *Printer) Table(headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], min(runewidth.StringWidth(row[i]), maxCell))
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			var cell string
			if i < len(cells) {
				cell = runewidth.Truncate(cells[i], maxCell, "…")
			}
			if i == len(widths)-1 {
				parts[i] = cell
				continue
			}
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var b strings.Builder
	b.WriteString(p.head.Render(line(headers)))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(line(row))
		b.WriteString("\n")
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Empty prints a muted note in place of an empty listing.
func (p *Printer) Empty(msg string) error {
	_, err := fmt.Fprintln(p.w, p.muted.Render(msg))
	return err
}
