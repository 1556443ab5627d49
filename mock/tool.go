package mock

import (
	"context"

	"github.com/botkit/bot"
)

// Interface compliance check.
var _ bot.ToolExecutor = (*ToolExecutor)(nil)

// ToolExecutor is a test double for bot.ToolExecutor.
// Set ExecuteFn before calling Execute.
type ToolExecutor struct {
	ExecuteFn func(ctx context.Context, call bot.ToolCall) bot.ToolResult
}

// Execute delegates to ExecuteFn.
func (e *ToolExecutor) Execute(ctx context.Context, call bot.ToolCall) bot.ToolResult {
	return e.ExecuteFn(ctx, call)
}
