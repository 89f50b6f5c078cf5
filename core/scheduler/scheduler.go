package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"clan-ledger/core/lock"
	"clan-ledger/core/metrics"

	"go.uber.org/zap"
)

// ErrBusy is returned by Trigger when another run of the job holds the lock.
var ErrBusy = errors.New("job is already running")

// Job is one periodic task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs each job on its own ticker. A job never overlaps itself: the next tick
// is taken only after the previous run returned, and runs go through the Locker so a
// manual Trigger and a tick cannot run together either.
type Scheduler struct {
	jobs       []Job
	locker     lock.Locker
	runTimeout time.Duration
	logger     *zap.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New creates a scheduler. A nil locker falls back to an in-process one.
func New(locker lock.Locker, runTimeout time.Duration, logger *zap.Logger) *Scheduler {
	if locker == nil {
		locker = lock.NewLocal()
	}
	if runTimeout <= 0 {
		runTimeout = 4 * time.Minute
	}
	return &Scheduler{locker: locker, runTimeout: runTimeout, logger: logger}
}

// Add registers a job. Jobs with a non-positive interval are ignored.
func (s *Scheduler) Add(job Job) {
	if job.Interval <= 0 {
		s.logger.Warn("Job disabled, interval not positive", zap.String("job", job.Name))
		return
	}
	s.jobs = append(s.jobs, job)
}

// Start launches every job. Each job runs once immediately and then on every tick.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop cancels the jobs and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// Trigger runs a registered job now, outside its ticker. It returns ErrBusy when
// the job is already running.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name == name {
			ran, err := s.runOnce(ctx, job)
			if !ran && err == nil {
				return ErrBusy
			}
			return err
		}
	}
	return errors.New("unknown job " + name)
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.runOnce(ctx, job); err != nil && ctx.Err() == nil {
			s.logger.Error("Job failed", zap.String("job", job.Name), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// runOnce executes the job under its lock. ran is false when the lock was taken.
func (s *Scheduler) runOnce(ctx context.Context, job Job) (ran bool, err error) {
	release, ok, err := s.locker.TryLock(ctx, job.Name, s.runTimeout+time.Minute)
	if err != nil {
		metrics.JobRuns.WithLabelValues(job.Name, "error").Inc()
		return false, err
	}
	if !ok {
		metrics.JobRuns.WithLabelValues(job.Name, "skipped").Inc()
		s.logger.Info("Job skipped, previous run still active", zap.String("job", job.Name))
		return false, nil
	}
	defer release()

	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	start := time.Now()
	err = job.Run(runCtx)
	metrics.JobDuration.WithLabelValues(job.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.JobRuns.WithLabelValues(job.Name, "error").Inc()
		return true, err
	}
	metrics.JobRuns.WithLabelValues(job.Name, "ok").Inc()
	return true, nil
}
