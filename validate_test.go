package bot_test

import (
	"errors"
	"testing"

	"github.com/botkit/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	user := bot.NewUserMessage("hi")

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, bot.Request{Messages: []bot.Message{user}}.Validate())
	})

	t.Run("temperature out of range", func(t *testing.T) {
		t.Parallel()
		temp := 2.1
		err := bot.Request{Messages: []bot.Message{user}, Temperature: &temp}.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, bot.ErrValidation))
		assert.Contains(t, err.Error(), "temperature")
	})

	t.Run("negative max tokens", func(t *testing.T) {
		t.Parallel()
		err := bot.Request{MaxTokens: -1}.Validate()
		assert.True(t, errors.Is(err, bot.ErrValidation))
	})

	t.Run("tool call in user message", func(t *testing.T) {
		t.Parallel()
		bad := bot.UserMessage{Content: []bot.ContentBlock{bot.ToolCallBlock{Name: "x"}}}
		err := bot.Request{Messages: []bot.Message{user, bad}}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "message 1")
		assert.True(t, errors.Is(err, bot.ErrValidation))
	})

	t.Run("anonymous tool result", func(t *testing.T) {
		t.Parallel()
		err := bot.ValidateMessage(bot.ToolResultMessage{})
		assert.True(t, errors.Is(err, bot.ErrValidation))
	})
}
