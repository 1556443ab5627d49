package pomodoro_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/botkit/bot"
	"github.com/botkit/bot/mock"
	"github.com/botkit/bot/pomodoro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock hands every timer request to the test, which fires it.
type manualClock struct {
	waits chan wait
}

type wait struct {
	d  time.Duration
	ch chan time.Time
}

func newManualClock() *manualClock { return &manualClock{waits: make(chan wait)} }

func (c *manualClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.waits <- wait{d: d, ch: ch}
	return ch
}

func (c *manualClock) next(t *testing.T) wait {
	t.Helper()
	select {
	case w := <-c.waits:
		return w
	case <-time.After(5 * time.Second):
		t.Fatal("timer never waited")
		return wait{}
	}
}

type recorder struct {
	mu    sync.Mutex
	notes []bot.Notification
}

func (r *recorder) notifier(err error) *mock.Notifier {
	return &mock.Notifier{NotifyFn: func(_ context.Context, n bot.Notification) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.notes = append(r.notes, n)
		return err
	}}
}

func (r *recorder) all() []bot.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bot.Notification(nil), r.notes...)
}

func TestTimer_Run(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	rec := &recorder{}
	timer := pomodoro.NewTimer(rec.notifier(nil),
		pomodoro.WithDurations(25*time.Minute, 5*time.Minute),
		pomodoro.WithAfter(clock.After))

	phase, n := timer.State()
	assert.Equal(t, bot.PhaseIdle, phase)
	assert.Zero(t, n)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- timer.Run(ctx) }()

	w := clock.next(t)
	assert.Equal(t, 25*time.Minute, w.d)
	phase, n = timer.State()
	assert.Equal(t, bot.PhaseWorking, phase)
	assert.Equal(t, 1, n)
	w.ch <- time.Now()

	w = clock.next(t)
	assert.Equal(t, 5*time.Minute, w.d)
	phase, _ = timer.State()
	assert.Equal(t, bot.PhaseOnBreak, phase)
	w.ch <- time.Now()

	w = clock.next(t)
	assert.Equal(t, 25*time.Minute, w.d)
	phase, n = timer.State()
	assert.Equal(t, bot.PhaseWorking, phase)
	assert.Equal(t, 2, n)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	phase, n = timer.State()
	assert.Equal(t, bot.PhaseIdle, phase)
	assert.Equal(t, 2, n)
	assert.Equal(t, []bot.Notification{
		{Title: "Pomodoro Started", Message: "Session #1. Time to focus!"},
		{Title: "Pomodoro Break", Message: "Work session complete. Time for a break!"},
		{Title: "Pomodoro", Message: "Break over. Time for the next session!"},
		{Title: "Pomodoro Started", Message: "Session #2. Time to focus!"},
		{Title: "Pomodoro", Message: "Pomodoro timer stopped."},
	}, rec.all())
}

func TestTimer_Run_NotificationFailureKeepsRunning(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	rec := &recorder{}
	timer := pomodoro.NewTimer(rec.notifier(errors.New("no notification daemon")),
		pomodoro.WithAfter(clock.After))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- timer.Run(ctx) }()

	clock.next(t).ch <- time.Now()
	clock.next(t)
	cancel()
	require.NoError(t, <-done)
	assert.Len(t, rec.all(), 3)
}

func TestServe_AnnouncesReadiness(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}
	var out strings.Builder
	timer := pomodoro.NewTimer(rec.notifier(nil), pomodoro.WithAfter(func(time.Duration) <-chan time.Time { return nil }))

	require.NoError(t, pomodoro.Serve(ctx, &out, timer))
	assert.Equal(t, pomodoro.ReadyLine+"\n", out.String())
}
