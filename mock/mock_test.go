package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/botkit/bot"
	"github.com/botkit/bot/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Generate(t *testing.T) {
	t.Parallel()
	t.Run("delegates to GenerateFn", func(t *testing.T) {
		t.Parallel()
		want := bot.AssistantMessage{Content: []bot.ContentBlock{bot.TextBlock{Text: "hello"}}}
		p := mock.Provider{
			GenerateFn: func(_ context.Context, req bot.Request) (bot.AssistantMessage, error) {
				assert.Equal(t, "sys", req.SystemPrompt)
				return want, nil
			},
		}
		got, err := p.Generate(context.Background(), bot.Request{SystemPrompt: "sys"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("panics when GenerateFn not set", func(t *testing.T) {
		t.Parallel()
		p := mock.Provider{}
		assert.Panics(t, func() {
			_, _ = p.Generate(context.Background(), bot.Request{})
		})
	})
}

func TestToolExecutor_Execute(t *testing.T) {
	t.Parallel()
	e := mock.ToolExecutor{
		ExecuteFn: func(_ context.Context, call bot.ToolCall) bot.ToolResult {
			assert.Equal(t, "decode_jwt", call.Name)
			return bot.Failure(errors.New("Invalid JWT token"))
		},
	}
	got := e.Execute(context.Background(), bot.ToolCall{Name: "decode_jwt"})
	assert.False(t, got.OK)
	assert.Equal(t, "Invalid JWT token", got.Error)
}

func TestRepository_OptionalFns(t *testing.T) {
	t.Parallel()
	r := mock.Repository{}
	assert.NoError(t, r.Fetch(context.Background()))
	assert.NoError(t, r.Push(context.Background(), "main"))
}
