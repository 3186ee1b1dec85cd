// Package scheduler runs the periodic maintenance sweeps of the API process.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SweepFunc performs one sweep and returns how many rows it changed
type SweepFunc func(ctx context.Context) (int64, error)

// Job is a named sweep run on a fixed interval
type Job struct {
	Name     string
	Interval time.Duration
	Run      SweepFunc
}

// Config holds scheduler configuration
type Config struct {
	Enabled bool
	// JobTimeout bounds a single run
	JobTimeout time.Duration
	// RunOnStart runs every job once immediately after Start
	RunOnStart bool
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		JobTimeout: 2 * time.Minute,
		RunOnStart: true,
	}
}

// JobStats is the last outcome of a job
type JobStats struct {
	Runs      int64
	Failures  int64
	Affected  int64
	LastRunAt time.Time
	LastError string
}

// Scheduler runs each job in its own goroutine. Runs of the same job never
// overlap; a run that outlasts its interval delays the next tick.
type Scheduler struct {
	config Config
	jobs   []Job
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	stats     map[string]JobStats
}

// New validates the jobs and creates a scheduler
func New(config Config, logger *zap.Logger, jobs ...Job) (*Scheduler, error) {
	seen := make(map[string]struct{}, len(jobs))
	for _, j := range jobs {
		if j.Name == "" || j.Run == nil || j.Interval <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidJob, j.Name)
		}
		if _, dup := seen[j.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateJob, j.Name)
		}
		seen[j.Name] = struct{}{}
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultConfig().JobTimeout
	}
	return &Scheduler{
		config: config,
		jobs:   jobs,
		logger: logger,
		stats:  make(map[string]JobStats, len(jobs)),
	}, nil
}

// Start launches the job loops; it returns immediately
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	if !s.config.Enabled {
		s.logger.Info("Scheduler is disabled")
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}

	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop cancels the loops and waits for running sweeps until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether Start has been called without Stop
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Stats returns the last outcome of the named job
func (s *Scheduler) Stats(name string) (JobStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[name]
	return st, ok
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.execute(ctx, job)
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx, job)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	log := s.logger.With(zap.String("job", job.Name))
	start := time.Now()
	affected, err := s.safeRun(runCtx, job)
	elapsed := time.Since(start)

	s.mu.Lock()
	st := s.stats[job.Name]
	st.Runs++
	st.LastRunAt = start
	st.Affected = affected
	st.LastError = ""
	if err != nil {
		st.Failures++
		st.LastError = err.Error()
	}
	s.stats[job.Name] = st
	s.mu.Unlock()

	switch {
	case err != nil:
		log.Error("Scheduled job failed", zap.Error(err), zap.Duration("elapsed", elapsed))
	case affected > 0:
		log.Info("Scheduled job completed", zap.Int64("affected", affected), zap.Duration("elapsed", elapsed))
	default:
		log.Debug("Scheduled job completed", zap.Duration("elapsed", elapsed))
	}
}

func (s *Scheduler) safeRun(ctx context.Context, job Job) (affected int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
	}()
	return job.Run(ctx)
}
