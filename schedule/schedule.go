// Package schedule runs recurring jobs on cron expressions.
package schedule

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/botkit/bot"
	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs jobs on standard five-field cron expressions.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	mu    sync.Mutex
	ctx   context.Context
	stats map[string]*Stats
}

// Stats tracks executions of one job.
type Stats struct {
	Runs      int64
	Errors    int64
	LastRunAt time.Time
	LastError string
}

// Option configures a [Scheduler].
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l.With("component", "scheduler") }
}

// WithLocation evaluates expressions in loc. Default is local time.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.cron = cron.New(cron.WithLocation(loc)) }
}

// New returns an empty Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		cron:   cron.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:    context.Background(),
		stats:  make(map[string]*Stats),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Add registers job under spec. An unparsable spec is an ErrValidation.
func (s *Scheduler) Add(spec string, job Job) error {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %v: %w", spec, err, bot.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stats[job.Name()]; ok {
		return fmt.Errorf("job %s already scheduled: %w", job.Name(), bot.ErrValidation)
	}
	s.stats[job.Name()] = &Stats{}
	s.cron.Schedule(sched, cron.FuncJob(func() { s.execute(job) }))
	s.logger.Info("job scheduled", "job", job.Name(), "spec", spec, "next", sched.Next(time.Now()))
	return nil
}

// Run starts the scheduler and blocks until ctx is cancelled. Jobs in
// flight are waited for before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// Stats returns a copy of the execution stats for the named job.
func (s *Scheduler) Stats(name string) (Stats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[name]
	if !ok {
		return Stats{}, false
	}
	return *st, true
}

func (s *Scheduler) execute(job Job) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	start := time.Now()
	err := job.Run(ctx)

	s.mu.Lock()
	st := s.stats[job.Name()]
	st.Runs++
	st.LastRunAt = start
	if err != nil {
		st.Errors++
		st.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("job failed", "job", job.Name(), "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Info("job completed", "job", job.Name(), "duration", time.Since(start))
}

// Next returns the first activation of spec after from.
func Next(spec string, from time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression %q: %v: %w", spec, err, bot.ErrValidation)
	}
	return sched.Next(from), nil
}
