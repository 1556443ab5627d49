// Package markdown renders model replies and pull request bodies as
// ANSI-styled terminal text, using goldmark for parsing and lipgloss for
// styling.
package markdown

import "github.com/botkit/bot"

// Render parses markdown source and returns styled terminal output.
// Paragraphs and list items wrap at width; code blocks are never reflowed.
// GitHub task lists ("- [x] done") and strikethrough are recognised.
func Render(source string, width int, theme bot.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	return newRenderer(theme).render([]byte(source), width)
}
