package pomodoro_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/botkit/bot"
	"github.com/botkit/bot/pomodoro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExecSpawner(t *testing.T) {
	t.Parallel()

	t.Run("ready process", func(t *testing.T) {
		t.Parallel()
		s := &pomodoro.ExecSpawner{
			Path: shell(t),
			Args: []string{"-c", "echo '" + pomodoro.ReadyLine + "'; exec sleep 30"},
		}
		pid, err := s.Spawn(context.Background())
		require.NoError(t, err)

		procs := pomodoro.OSProcessTable{}
		assert.True(t, procs.Alive(pid))
		require.NoError(t, procs.Terminate(pid))
		assert.Eventually(t, func() bool { return !procs.Alive(pid) }, 5*time.Second, 20*time.Millisecond)
	})

	t.Run("wrong readiness line", func(t *testing.T) {
		t.Parallel()
		s := &pomodoro.ExecSpawner{Path: shell(t), Args: []string{"-c", "echo hello"}}
		_, err := s.Spawn(context.Background())
		assert.ErrorIs(t, err, bot.ErrState)
	})

	t.Run("readiness timeout", func(t *testing.T) {
		t.Parallel()
		s := &pomodoro.ExecSpawner{Path: shell(t), Args: []string{"-c", "sleep 30"}, Timeout: 100 * time.Millisecond}
		_, err := s.Spawn(context.Background())
		assert.ErrorIs(t, err, bot.ErrState)
	})
}

func TestOSProcessTable_Alive(t *testing.T) {
	t.Parallel()
	assert.False(t, pomodoro.OSProcessTable{}.Alive(0))
	assert.False(t, pomodoro.OSProcessTable{}.Alive(-1))
}
