package bubbletea

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/botkit/bot"
)

var _ MessageBlock = (*ToolResultBlock)(nil)

const maxResultLines = 15

// ToolResultBlock renders the outcome of a tool call. Successful data is
// shown as indented JSON, truncated to a fixed number of lines.
type ToolResultBlock struct {
	toolName  string
	result    bot.ToolResult
	cancelled bool
	styles    Styles
}

// NewToolResultBlock creates a ToolResultBlock.
func NewToolResultBlock(toolName string, result bot.ToolResult, styles Styles) *ToolResultBlock {
	return &ToolResultBlock{toolName: toolName, result: result, styles: styles}
}

// NewCancelledBlock creates a ToolResultBlock for a declined call.
func NewCancelledBlock(toolName string, styles Styles) *ToolResultBlock {
	return &ToolResultBlock{toolName: toolName, cancelled: true, styles: styles}
}

// IsError reports whether the call failed.
func (b *ToolResultBlock) IsError() bool { return !b.cancelled && !b.result.OK }

func (b *ToolResultBlock) View(width int) string {
	switch {
	case b.cancelled:
		return b.styles.Muted.Width(width).Render("⊘ " + b.toolName + " cancelled")
	case !b.result.OK:
		header := b.styles.ToolCall.Render(b.toolName) + " " + b.styles.Error.Render("✗")
		return header + "\n" + b.styles.Error.Width(width).Render(b.result.Error)
	}
	header := b.styles.ToolCall.Render(b.toolName) + " " + b.styles.Success.Render("✓")
	body := resultBody(b.result.Data)
	if body == "" {
		return header
	}
	return header + "\n" + b.styles.Code.Width(width).Render(body)
}

func resultBody(data any) string {
	var text string
	switch d := data.(type) {
	case nil:
		return ""
	case string:
		text = d
	default:
		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err.Error()
		}
		text = string(out)
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= maxResultLines {
		return text
	}
	more := len(lines) - maxResultLines
	return strings.Join(lines[:maxResultLines], "\n") + fmt.Sprintf("\n… (%d more lines)", more)
}
