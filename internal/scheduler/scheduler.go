package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs a single process repeatedly with a fixed delay between
// the end of one execution and the start of the next. Executions never
// overlap.
type Scheduler struct {
	name     string
	process  Process
	log      *zerolog.Logger
	interval time.Duration
	schedule cron.Schedule

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler for process. Intervals have second
// granularity and must be at least one second.
func NewScheduler(interval time.Duration, process Process, log *zerolog.Logger) (*Scheduler, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("interval must be at least 1s, got %s", interval)
	}

	return &Scheduler{
		name:     process.Name(),
		process:  process,
		log:      log,
		interval: interval,
		schedule: cron.Every(interval),
	}, nil
}

// Start runs the scheduler in the background until ctx is cancelled or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run(ctx)
	}()
}

// Stop cancels the scheduler and waits for an in-flight execution to
// finish, or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes the process immediately, then once per interval, and
// blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info().
		Str("Process", s.name).
		Dur("interval", s.interval).
		Msg("Starting scheduler")

	for {
		if ctx.Err() != nil {
			s.log.Info().
				Str("Process", s.name).
				Msg("Scheduler received cancellation signal. Exiting...")
			return
		}

		s.launchProcess(ctx)

		timer := time.NewTimer(time.Until(s.schedule.Next(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
}

// Interval returns the delay between executions.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Name returns the name of the scheduler
func (s *Scheduler) Name() string {
	return s.name
}

func (s *Scheduler) launchProcess(ctx context.Context) {
	s.log.Debug().
		Str("Process", s.name).
		Msg("Scheduler triggering task execution")

	if err := s.process.Execute(ctx); err != nil {
		s.log.Debug().
			Str("Process", s.name).
			Err(err).
			Msg("Process execution finished with error")
	}
}
