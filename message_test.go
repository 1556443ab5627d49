package bot_test

import (
	"testing"

	"github.com/botkit/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Roles(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bot.RoleUser, bot.NewUserMessage("hi").Role())
	assert.Equal(t, bot.RoleAssistant, bot.AssistantMessage{}.Role())
	assert.Equal(t, bot.RoleToolResult, bot.ToolResultMessage{}.Role())
}

func TestNewUserMessage(t *testing.T) {
	t.Parallel()

	msg := bot.NewUserMessage("start a pomodoro")
	require.Len(t, msg.Content, 1)
	assert.Equal(t, bot.TextBlock{Text: "start a pomodoro"}, msg.Content[0])
	assert.False(t, msg.Timestamp.IsZero())
}

func TestAssistantMessage_TextAndToolCalls(t *testing.T) {
	t.Parallel()

	msg := bot.AssistantMessage{Content: []bot.ContentBlock{
		bot.TextBlock{Text: "Converting "},
		bot.ToolCallBlock{ID: "a", Name: "convert_currency", Arguments: bot.Args{"amount": 5.0}},
		bot.TextBlock{Text: "now."},
		bot.ToolCallBlock{ID: "b", Name: "send_notification", Arguments: bot.Args{"message": "done"}},
	}}

	assert.Equal(t, "Converting now.", msg.Text())
	assert.Equal(t, []bot.ToolCall{
		{ID: "a", Name: "convert_currency", Arguments: bot.Args{"amount": 5.0}},
		{ID: "b", Name: "send_notification", Arguments: bot.Args{"message": "done"}},
	}, msg.ToolCalls())
}

func TestAssistantMessage_Empty(t *testing.T) {
	t.Parallel()

	var msg bot.AssistantMessage
	assert.Empty(t, msg.Text())
	assert.Nil(t, msg.ToolCalls())
}
