package bot

import "context"

// Provider is a strategy pattern interface for model capabilities. Generate
// returns either text, one or more tool calls, or both, as content blocks of
// the assistant message. There is no timeout at this layer; callers bound the
// call through ctx.
type Provider interface {
	Generate(ctx context.Context, req Request) (AssistantMessage, error)
}
