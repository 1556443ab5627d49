package bubbletea

import (
	"github.com/botkit/bot"
	"github.com/botkit/bot/markdown"
)

var _ MessageBlock = (*ReplyBlock)(nil)

// ReplyBlock renders model text as markdown. The rendering is cached for the
// last width seen, since replies never change once received.
type ReplyBlock struct {
	text  string
	theme bot.Theme

	width    int
	rendered string
}

// NewReplyBlock creates a ReplyBlock.
func NewReplyBlock(text string, theme bot.Theme) *ReplyBlock {
	return &ReplyBlock{text: text, theme: theme}
}

func (b *ReplyBlock) View(width int) string {
	if b.rendered == "" || b.width != width {
		b.rendered = markdown.Render(b.text, width, b.theme)
		b.width = width
	}
	return b.rendered
}
