// Package pomodoro runs the work/break timer in a detached process and
// controls it through a pid marker file.
package pomodoro

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/botkit/bot"
)

// Timer alternates work sessions and breaks, notifying on every
// transition. It runs inside the detached process.
type Timer struct {
	notifier bot.Notifier
	work     time.Duration
	brk      time.Duration
	after    func(time.Duration) <-chan time.Time
	logger   *slog.Logger

	mu       sync.Mutex
	phase    bot.Phase
	sessions int
}

// TimerOption configures a [Timer].
type TimerOption func(*Timer)

// WithDurations sets the work and break lengths.
func WithDurations(work, brk time.Duration) TimerOption {
	return func(t *Timer) { t.work, t.brk = work, brk }
}

// WithAfter replaces time.After. Useful for testing.
func WithAfter(f func(time.Duration) <-chan time.Time) TimerOption {
	return func(t *Timer) { t.after = f }
}

// WithTimerLogger sets the logger.
func WithTimerLogger(l *slog.Logger) TimerOption {
	return func(t *Timer) { t.logger = l.With("component", "pomodoro") }
}

// NewTimer returns an idle Timer with 25 minute sessions and 5 minute
// breaks.
func NewTimer(n bot.Notifier, opts ...TimerOption) *Timer {
	t := &Timer{
		notifier: n,
		work:     25 * time.Minute,
		brk:      5 * time.Minute,
		after:    time.After,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		phase:    bot.PhaseIdle,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// State returns the current phase and the number of sessions started.
func (t *Timer) State() (bot.Phase, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase, t.sessions
}

// Run cycles Working → OnBreak → Working until ctx is cancelled, then
// returns to Idle and sends a "stopped" notification.
func (t *Timer) Run(ctx context.Context) error {
	for {
		n := t.enter(bot.PhaseWorking)
		t.notify(ctx, "Pomodoro Started", fmt.Sprintf("Session #%d. Time to focus!", n))
		if !t.wait(ctx, t.work) {
			return t.stop()
		}

		t.enter(bot.PhaseOnBreak)
		t.notify(ctx, "Pomodoro Break", "Work session complete. Time for a break!")
		if !t.wait(ctx, t.brk) {
			return t.stop()
		}
		t.notify(ctx, "Pomodoro", "Break over. Time for the next session!")
	}
}

func (t *Timer) enter(p bot.Phase) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phase = p
	if p == bot.PhaseWorking {
		t.sessions++
	}
	t.logger.Info("phase changed", "phase", p, "session", t.sessions)
	return t.sessions
}

func (t *Timer) wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-t.after(d):
		return true
	case <-ctx.Done():
		return false
	}
}

func (t *Timer) stop() error {
	t.enter(bot.PhaseIdle)
	// ctx is already cancelled; the final notification still has to go out.
	t.notify(context.Background(), "Pomodoro", "Pomodoro timer stopped.")
	return nil
}

func (t *Timer) notify(ctx context.Context, title, message string) {
	if err := t.notifier.Notify(ctx, bot.Notification{Title: title, Message: message}); err != nil {
		t.logger.Warn("notification failed", "title", title, "error", err)
	}
}
