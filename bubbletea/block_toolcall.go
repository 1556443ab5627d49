package bubbletea

import (
	"github.com/botkit/bot"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*ToolCallBlock)(nil)

// ToolCallBlock renders a tool call the model requested.
type ToolCallBlock struct {
	call   bot.ToolCall
	styles Styles
}

// NewToolCallBlock creates a ToolCallBlock.
func NewToolCallBlock(call bot.ToolCall, styles Styles) *ToolCallBlock {
	return &ToolCallBlock{call: call, styles: styles}
}

// ID returns the tool call ID.
func (b *ToolCallBlock) ID() string { return b.call.ID }

func (b *ToolCallBlock) View(width int) string {
	content := b.styles.ToolCall.Render("▶ " + b.call.Name)
	if len(b.call.Arguments) > 0 {
		content += " " + b.styles.Muted.Render(formatArgs(b.call.Arguments))
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}
