package pomodoro

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/botkit/bot"
)

// Status messages reported to callers.
const (
	MsgAlreadyRunning = `A Pomodoro timer is already running. Use "bot pomodoro stop" to end it.`
	MsgNotRunning     = "No Pomodoro timer is running."
	MsgStopped        = "Pomodoro timer stopped."
)

// Interface compliance check.
var _ bot.PomodoroService = (*Controller)(nil)

// Controller starts and stops the background timer through its marker.
type Controller struct {
	marker  Marker
	spawner Spawner
	procs   ProcessTable
	logger  *slog.Logger
}

// ControllerOption configures a [Controller].
type ControllerOption func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l.With("component", "pomodoro") }
}

// NewController returns a Controller keeping its marker at markerPath.
func NewController(markerPath string, s Spawner, p ProcessTable, opts ...ControllerOption) *Controller {
	c := &Controller{
		marker:  Marker{Path: markerPath},
		spawner: s,
		procs:   p,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start spawns the background timer unless one is already alive. The
// marker is written only after the process reports readiness.
func (c *Controller) Start(ctx context.Context) (bot.PomodoroStatus, error) {
	pid, ok, err := c.marker.Read()
	switch {
	case err != nil && ok:
		c.logger.Warn("removing unreadable marker", "error", err)
		if err := c.marker.Remove(); err != nil {
			return bot.PomodoroStatus{}, err
		}
	case err != nil:
		return bot.PomodoroStatus{}, err
	case ok && c.procs.Alive(pid):
		return bot.PomodoroStatus{Running: true, PID: pid, Message: MsgAlreadyRunning}, nil
	case ok:
		c.logger.Warn("removing stale marker", "error", fmt.Errorf("pid %d is not running: %w", pid, bot.ErrState))
		if err := c.marker.Remove(); err != nil {
			return bot.PomodoroStatus{}, err
		}
	}

	pid, err = c.spawner.Spawn(ctx)
	if err != nil {
		return bot.PomodoroStatus{}, err
	}
	if err := c.marker.Create(pid); err != nil {
		_ = c.procs.Terminate(pid)
		return bot.PomodoroStatus{}, err
	}
	c.logger.Info("timer started", "pid", pid)
	return bot.PomodoroStatus{
		Running: true,
		PID:     pid,
		Message: fmt.Sprintf("Pomodoro timer started with PID: %d.", pid),
	}, nil
}

// Stop terminates the background timer. The timer itself sends the
// "stopped" notification on its way out.
func (c *Controller) Stop(ctx context.Context) (bot.PomodoroStatus, error) {
	pid, ok, err := c.marker.Read()
	if !ok {
		if err != nil {
			return bot.PomodoroStatus{}, err
		}
		return bot.PomodoroStatus{Message: MsgNotRunning}, nil
	}
	if err != nil {
		_ = c.marker.Remove()
		return bot.PomodoroStatus{Message: MsgNotRunning}, err
	}
	if !c.procs.Alive(pid) {
		if err := c.marker.Remove(); err != nil {
			return bot.PomodoroStatus{}, err
		}
		return bot.PomodoroStatus{Message: MsgNotRunning},
			fmt.Errorf("stale marker: pomodoro process %d was not running: %w", pid, bot.ErrState)
	}
	if err := c.procs.Terminate(pid); err != nil {
		return bot.PomodoroStatus{Running: true, PID: pid}, err
	}
	if err := c.marker.Remove(); err != nil {
		return bot.PomodoroStatus{PID: pid, Message: MsgStopped}, err
	}
	c.logger.Info("timer stopped", "pid", pid)
	return bot.PomodoroStatus{PID: pid, Message: MsgStopped}, nil
}
