package beeep_test

import (
	"context"
	"errors"
	"testing"

	"github.com/botkit/bot"
	"github.com/botkit/bot/beeep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Notify(t *testing.T) {
	t.Parallel()

	var gotTitle, gotMessage string
	n := beeep.NewWithFunc(func(title, message, _ string) error {
		gotTitle, gotMessage = title, message
		return nil
	})

	require.NoError(t, n.Notify(context.Background(), bot.Notification{Message: "Build finished"}))
	assert.Equal(t, bot.DefaultNotificationTitle, gotTitle)
	assert.Equal(t, "Build finished", gotMessage)

	require.NoError(t, n.Notify(context.Background(), bot.Notification{Title: "Pomodoro", Message: "Pomodoro timer stopped."}))
	assert.Equal(t, "Pomodoro", gotTitle)
}

func TestNotifier_Notify_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty message", func(t *testing.T) {
		t.Parallel()
		n := beeep.NewWithFunc(func(string, string, string) error {
			t.Fatal("should not deliver")
			return nil
		})
		err := n.Notify(context.Background(), bot.Notification{Message: "  "})
		assert.ErrorIs(t, err, bot.ErrValidation)
	})

	t.Run("delivery failure", func(t *testing.T) {
		t.Parallel()
		n := beeep.NewWithFunc(func(string, string, string) error { return errors.New("no dbus session") })
		err := n.Notify(context.Background(), bot.Notification{Message: "hi"})
		require.ErrorIs(t, err, bot.ErrUpstream)
		assert.Contains(t, err.Error(), "Notification error: no dbus session")
	})
}
