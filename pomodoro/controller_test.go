package pomodoro_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/botkit/bot"
	"github.com/botkit/bot/pomodoro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpawner struct {
	pid    int
	err    error
	spawns int
	// markerPath, when set, is checked for absence at spawn time.
	markerPath string
	t          *testing.T
}

func (s *fakeSpawner) Spawn(context.Context) (int, error) {
	s.spawns++
	if s.markerPath != "" {
		_, err := os.Stat(s.markerPath)
		assert.True(s.t, errors.Is(err, os.ErrNotExist), "marker written before readiness")
	}
	return s.pid, s.err
}

type fakeProcs struct {
	alive      map[int]bool
	terminated []int
}

func (p *fakeProcs) Alive(pid int) bool { return p.alive[pid] }

func (p *fakeProcs) Terminate(pid int) error {
	p.terminated = append(p.terminated, pid)
	p.alive[pid] = false
	return nil
}

func writeMarker(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func markerPID(t *testing.T, path string) (int, bool) {
	t.Helper()
	pid, ok, err := pomodoro.Marker{Path: path}.Read()
	require.NoError(t, err)
	return pid, ok
}

func TestController_Start(t *testing.T) {
	t.Parallel()

	t.Run("spawns and writes marker after readiness", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "pomodoro.pid")
		spawner := &fakeSpawner{pid: 4242, markerPath: path, t: t}
		c := pomodoro.NewController(path, spawner, &fakeProcs{alive: map[int]bool{}})

		status, err := c.Start(context.Background())
		require.NoError(t, err)
		assert.Equal(t, bot.PomodoroStatus{Running: true, PID: 4242, Message: "Pomodoro timer started with PID: 4242."}, status)
		pid, ok := markerPID(t, path)
		assert.True(t, ok)
		assert.Equal(t, 4242, pid)
	})

	t.Run("already running is a no-op", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "pomodoro.pid")
		writeMarker(t, path, "77\n")
		spawner := &fakeSpawner{pid: 1}
		c := pomodoro.NewController(path, spawner, &fakeProcs{alive: map[int]bool{77: true}})

		status, err := c.Start(context.Background())
		require.NoError(t, err)
		assert.Equal(t, pomodoro.MsgAlreadyRunning, status.Message)
		assert.Equal(t, 77, status.PID)
		assert.Zero(t, spawner.spawns)
	})

	t.Run("stale marker is replaced", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "pomodoro.pid")
		writeMarker(t, path, "77\n")
		spawner := &fakeSpawner{pid: 88, markerPath: path, t: t}
		c := pomodoro.NewController(path, spawner, &fakeProcs{alive: map[int]bool{}})

		status, err := c.Start(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 88, status.PID)
		pid, _ := markerPID(t, path)
		assert.Equal(t, 88, pid)
	})

	t.Run("garbage marker is replaced", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "pomodoro.pid")
		writeMarker(t, path, "not a pid")
		c := pomodoro.NewController(path, &fakeSpawner{pid: 5}, &fakeProcs{alive: map[int]bool{}})

		status, err := c.Start(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 5, status.PID)
	})

	t.Run("spawn failure leaves no marker", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "pomodoro.pid")
		wantErr := errors.New("exec format error")
		c := pomodoro.NewController(path, &fakeSpawner{err: wantErr}, &fakeProcs{alive: map[int]bool{}})

		_, err := c.Start(context.Background())
		assert.ErrorIs(t, err, wantErr)
		_, ok := markerPID(t, path)
		assert.False(t, ok)
	})
}

func TestController_Stop(t *testing.T) {
	t.Parallel()

	t.Run("nothing running", func(t *testing.T) {
		t.Parallel()
		procs := &fakeProcs{alive: map[int]bool{}}
		c := pomodoro.NewController(filepath.Join(t.TempDir(), "pomodoro.pid"), &fakeSpawner{}, procs)

		status, err := c.Stop(context.Background())
		require.NoError(t, err)
		assert.Equal(t, pomodoro.MsgNotRunning, status.Message)
		assert.Empty(t, procs.terminated)
	})

	t.Run("terminates live process", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "pomodoro.pid")
		writeMarker(t, path, "123\n")
		procs := &fakeProcs{alive: map[int]bool{123: true}}
		c := pomodoro.NewController(path, &fakeSpawner{}, procs)

		status, err := c.Stop(context.Background())
		require.NoError(t, err)
		assert.Equal(t, bot.PomodoroStatus{PID: 123, Message: "Pomodoro timer stopped."}, status)
		assert.Equal(t, []int{123}, procs.terminated)
		_, ok := markerPID(t, path)
		assert.False(t, ok)
	})

	t.Run("stale marker", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "pomodoro.pid")
		writeMarker(t, path, "123\n")
		procs := &fakeProcs{alive: map[int]bool{}}
		c := pomodoro.NewController(path, &fakeSpawner{}, procs)

		_, err := c.Stop(context.Background())
		assert.ErrorIs(t, err, bot.ErrState)
		assert.Empty(t, procs.terminated)
		_, ok := markerPID(t, path)
		assert.False(t, ok)
	})
}

func TestMarker(t *testing.T) {
	t.Parallel()

	m := pomodoro.Marker{Path: filepath.Join(t.TempDir(), "state", "pomodoro.pid")}
	_, ok, err := m.Read()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Create(99))
	assert.ErrorIs(t, m.Create(100), bot.ErrState, "a second timer cannot claim the marker")

	pid, ok, err := m.Read()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 99, pid)

	info, err := os.Stat(m.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, m.Remove())
	require.NoError(t, m.Remove())
}
