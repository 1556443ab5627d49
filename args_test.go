package bot_test

import (
	"errors"
	"testing"

	"github.com/botkit/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	t.Parallel()

	args := bot.Args{
		"name":    "alice",
		"count":   3.0,
		"ratio":   "1.5",
		"frac":    2.5,
		"flag":    true,
		"strflag": "false",
		"list":    []any{"a", "", "b"},
		"csv":     " x, y ,,z ",
		"nil":     nil,
	}

	t.Run("String", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "alice", args.String("name", "def"))
		assert.Equal(t, "3", args.String("count", ""))
		assert.Equal(t, "def", args.String("missing", "def"))
		assert.Equal(t, "def", args.String("nil", "def"))
	})

	t.Run("Number", func(t *testing.T) {
		t.Parallel()
		n, err := args.Number("ratio")
		require.NoError(t, err)
		assert.InDelta(t, 1.5, n, 1e-9)

		_, err = args.Number("name")
		assert.True(t, errors.Is(err, bot.ErrValidation))

		_, err = args.Number("missing")
		assert.True(t, errors.Is(err, bot.ErrValidation))
	})

	t.Run("Int", func(t *testing.T) {
		t.Parallel()
		n, err := args.Int("count")
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		_, err = args.Int("frac")
		assert.True(t, errors.Is(err, bot.ErrValidation))
	})

	t.Run("Bool", func(t *testing.T) {
		t.Parallel()
		assert.True(t, args.Bool("flag", false))
		assert.False(t, args.Bool("strflag", true))
		assert.True(t, args.Bool("missing", true))
	})

	t.Run("Strings", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"a", "b"}, args.Strings("list"))
		assert.Equal(t, []string{"x", "y", "z"}, args.Strings("csv"))
		assert.Nil(t, args.Strings("missing"))
	})

	t.Run("Has", func(t *testing.T) {
		t.Parallel()
		assert.True(t, args.Has("name"))
		assert.False(t, args.Has("nil"))
		assert.False(t, args.Has("missing"))
	})
}
