package bubbletea

import (
	"fmt"
	"sort"
	"strings"

	"github.com/botkit/bot"
)

// MessageBlock is a renderable element in the conversation.
// View takes a width so the root model controls layout and blocks are
// testable in isolation.
type MessageBlock interface {
	View(width int) string
}

// FormatCall renders a call as name(key=value, ...) with keys sorted.
func FormatCall(call bot.ToolCall) string {
	return call.Name + "(" + formatArgs(call.Arguments) + ")"
}

func formatArgs(args bot.Args) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		if s, ok := args[k].(string); ok {
			parts[i] = fmt.Sprintf("%s=%q", k, s)
			continue
		}
		parts[i] = fmt.Sprintf("%s=%v", k, args[k])
	}
	return strings.Join(parts, ", ")
}
