package json

import (
	"fmt"

	"github.com/botkit/bot"
)

// block is the stored form of a ContentBlock.
type block struct {
	Type      string   `json:"type"`
	Text      string   `json:"text,omitempty"`
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name,omitempty"`
	Arguments bot.Args `json:"arguments,omitempty"`
}

func encodeBlocks(blocks []bot.ContentBlock) ([]block, error) {
	out := make([]block, len(blocks))
	for i, b := range blocks {
		switch v := b.(type) {
		case bot.TextBlock:
			out[i] = block{Type: "text", Text: v.Text}
		case bot.ToolCallBlock:
			out[i] = block{Type: "tool_call", ID: v.ID, Name: v.Name, Arguments: v.Arguments}
		default:
			return nil, fmt.Errorf("content block %d: unknown content block type: %T", i, b)
		}
	}
	return out, nil
}

func decodeBlocks(blocks []block) ([]bot.ContentBlock, error) {
	out := make([]bot.ContentBlock, len(blocks))
	for i, b := range blocks {
		switch b.Type {
		case "text":
			out[i] = bot.TextBlock{Text: b.Text}
		case "tool_call":
			args := b.Arguments
			if args == nil {
				args = bot.Args{}
			}
			out[i] = bot.ToolCallBlock{ID: b.ID, Name: b.Name, Arguments: args}
		default:
			return nil, fmt.Errorf("content block %d: unknown content block type: %q", i, b.Type)
		}
	}
	return out, nil
}
