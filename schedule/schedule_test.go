package schedule_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/botkit/bot"
	"github.com/botkit/bot/mock"
	"github.com/botkit/bot/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateAlert_Run(t *testing.T) {
	t.Parallel()

	rates := &mock.RateService{RatesFn: func(context.Context) (bot.RateTable, error) {
		return bot.RateTable{Rates: map[string]bot.Rate{
			"USD": {Code: "USD", Buy: 26100, Transfer: 26130, Sell: 26350},
		}}, nil
	}}

	t.Run("notifies sell rate", func(t *testing.T) {
		t.Parallel()
		var got bot.Notification
		notifier := &mock.Notifier{NotifyFn: func(_ context.Context, n bot.Notification) error {
			got = n
			return nil
		}}
		alert := &schedule.RateAlert{Rates: rates, Notifier: notifier}
		require.NoError(t, alert.Run(context.Background()))
		assert.Equal(t, bot.Notification{Title: "Currency Rate", Message: "USD to VND: 26,350.00"}, got)
	})

	t.Run("unknown currency", func(t *testing.T) {
		t.Parallel()
		alert := &schedule.RateAlert{Rates: rates, Notifier: &mock.Notifier{}, Currency: "xau"}
		assert.ErrorIs(t, alert.Run(context.Background()), bot.ErrUpstream)
	})

	t.Run("feed failure", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("connection refused")
		alert := &schedule.RateAlert{
			Rates: &mock.RateService{RatesFn: func(context.Context) (bot.RateTable, error) {
				return bot.RateTable{}, wantErr
			}},
			Notifier: &mock.Notifier{},
		}
		assert.ErrorIs(t, alert.Run(context.Background()), wantErr)
	})
}

func TestNext(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	next, err := schedule.Next(schedule.DefaultRateAlertSpec, from.In(time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 25, 9, 0, 0, 0, time.UTC), next)

	_, err = schedule.Next("every tuesday", from)
	assert.ErrorIs(t, err, bot.ErrValidation)
}

type countingJob struct {
	runs atomic.Int64
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestScheduler(t *testing.T) {
	t.Parallel()

	t.Run("rejects bad spec", func(t *testing.T) {
		t.Parallel()
		s := schedule.New()
		assert.ErrorIs(t, s.Add("61 * * * *", &countingJob{}), bot.ErrValidation)
	})

	t.Run("rejects duplicate job", func(t *testing.T) {
		t.Parallel()
		s := schedule.New()
		require.NoError(t, s.Add("@daily", &countingJob{}))
		assert.ErrorIs(t, s.Add("@hourly", &countingJob{}), bot.ErrValidation)
	})

	t.Run("runs until cancelled", func(t *testing.T) {
		t.Parallel()
		job := &countingJob{err: errors.New("boom")}
		s := schedule.New(schedule.WithLocation(time.UTC))
		require.NoError(t, s.Add("@every 1s", job))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		require.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)
		cancel()
		require.NoError(t, <-done)

		st, ok := s.Stats("counting")
		require.True(t, ok)
		assert.GreaterOrEqual(t, st.Runs, int64(1))
		assert.Equal(t, st.Runs, st.Errors)
		assert.Equal(t, "boom", st.LastError)
	})
}
