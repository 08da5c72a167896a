package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/optz/gh-freshdesk/internal/logger"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler runs a job on a cron schedule. A run that is still going when
// the next one is due causes that next run to be skipped.
type Scheduler struct {
	cron     *cron.Cron
	job      Job
	spec     string
	runFirst bool

	mu      sync.Mutex
	running bool
	entryID cron.EntryID
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithImmediateRun runs the job once as soon as Run is called.
func WithImmediateRun() SchedulerOption {
	return func(s *Scheduler) {
		s.runFirst = true
	}
}

// NewScheduler validates spec and creates a scheduler for job. spec is a
// standard five-field cron expression or a descriptor such as "@hourly".
func NewScheduler(spec string, job Job, opts ...SchedulerOption) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	l := cronLogger{}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		job:  job,
		spec: spec,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run starts the schedule and blocks until ctx is cancelled. It waits for
// an in-flight job to return before returning ctx.Err().
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true

	id, err := s.cron.AddFunc(s.spec, func() { s.runJob(ctx) })
	if err != nil {
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("add cron job: %w", err)
	}
	s.entryID = id
	s.mu.Unlock()

	if s.runFirst {
		s.runJob(ctx)
	}

	s.cron.Start()
	logger.Info("Scheduled with %q, next run at %s", s.spec, s.cron.Entry(id).Next.Format("2006-01-02 15:04:05"))

	<-ctx.Done()
	<-s.cron.Stop().Done()

	s.mu.Lock()
	s.cron.Remove(s.entryID)
	s.running = false
	s.mu.Unlock()

	return ctx.Err()
}

func (s *Scheduler) runJob(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.job(ctx); err != nil {
		logger.Error("Scheduled run failed: %v", err)
	}
}

// cronLogger routes cron's own messages to the package logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: %s %v", msg, keysAndValues)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
