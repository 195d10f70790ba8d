// Package scheduler drives the periodic garden jobs from a single polling
// loop. Due jobs run one at a time.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"garden-care-backend/internal/metrics"
	"garden-care-backend/internal/model"
)

// Job is a named unit of periodic work.
type Job struct {
	Name     string
	Schedule Schedule
	Run      func(ctx context.Context) error
}

type entry struct {
	job  Job
	next time.Time
}

// Scheduler owns the job table.
type Scheduler struct {
	// mu serializes job execution and guards the table.
	mu     sync.Mutex
	jobs   []*entry
	byName map[string]*entry

	poll   time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a scheduler that checks for due jobs every poll interval.
func New(poll time.Duration, logger zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		byName: make(map[string]*entry),
		poll:   poll,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With().Str("component", "scheduler").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a job. Names must be unique.
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil || job.Schedule == nil {
		return fmt.Errorf("job %q is incomplete: %w", job.Name, model.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[job.Name]; ok {
		return fmt.Errorf("job %q is already registered: %w", job.Name, model.ErrValidation)
	}
	e := &entry{job: job}
	s.jobs = append(s.jobs, e)
	s.byName[job.Name] = e
	return nil
}

// Jobs returns the registered job names in registration order.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for _, e := range s.jobs {
		names = append(names, e.job.Name)
	}
	return names
}

// Next reports when the named job is next due. The zero time means the job
// has not been armed yet.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byName[name]
	if !ok {
		return time.Time{}, false
	}
	return e.next, true
}

// Run polls for due jobs until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info().Dur("poll", s.poll).Strs("jobs", s.Jobs()).Msg("scheduler starting")
	s.arm(s.now())

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler shutting down")
			return nil
		case <-ticker.C:
			s.Tick(ctx, s.now())
		}
	}
}

func (s *Scheduler) arm(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.jobs {
		if e.next.IsZero() {
			e.next = e.job.Schedule.Next(now)
			s.logger.Debug().Str("job", e.job.Name).Time("next", e.next).Msg("job armed")
		}
	}
}

// Tick runs, in registration order, every job due at now and reschedules it.
// Jobs that were never armed are armed instead of run. It returns the number
// of jobs run.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ran := 0
	for _, e := range s.jobs {
		if ctx.Err() != nil {
			break
		}
		if e.next.IsZero() {
			e.next = e.job.Schedule.Next(now)
			continue
		}
		if now.Before(e.next) {
			continue
		}
		_ = s.execute(ctx, e.job)
		e.next = e.job.Schedule.Next(now)
		ran++
	}
	return ran
}

// RunNow runs the named job immediately, waiting for any running job first.
// Its schedule is left unchanged.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("job %q: %w", name, model.ErrNotFound)
	}
	return s.execute(ctx, e.job)
}

// ErrJobPanicked wraps a panic recovered from a job.
var ErrJobPanicked = errors.New("job panicked")

func (s *Scheduler) execute(ctx context.Context, job Job) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
		elapsed := time.Since(start)
		metrics.JobDurationSeconds.WithLabelValues(job.Name).Observe(elapsed.Seconds())
		if err != nil {
			metrics.JobFailuresTotal.WithLabelValues(job.Name).Inc()
			s.logger.Error().Err(err).Str("job", job.Name).Dur("elapsed", elapsed).Msg("job failed")
			return
		}
		s.logger.Info().Str("job", job.Name).Dur("elapsed", elapsed).Msg("job finished")
	}()

	s.logger.Debug().Str("job", job.Name).Msg("job starting")
	return job.Run(ctx)
}
