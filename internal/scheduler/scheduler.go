// Package scheduler owns the periodic recurrence pass. A Scheduler is an
// explicit handle: it is created, started and stopped by its owner and never
// runs passes concurrently.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"moneytrack/internal/core"
)

// Runner performs one recurrence pass against the given time snapshot.
type Runner interface {
	RunDue(ctx context.Context, now time.Time) (core.PassSummary, error)
}

type Option func(*Scheduler)

// WithClock replaces time.Now as the source of pass snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithoutInitialPass skips the pass Start normally runs right away.
func WithoutInitialPass() Option {
	return func(s *Scheduler) { s.runOnStart = false }
}

// WithAfterPass calls fn with the summary of every pass that completes,
// including passes started by RunOnce.
func WithAfterPass(fn func(context.Context, core.PassSummary)) Option {
	return func(s *Scheduler) { s.afterPass = fn }
}

type Scheduler struct {
	runner     Runner
	interval   time.Duration
	now        func() time.Time
	runOnStart bool
	afterPass  func(context.Context, core.PassSummary)

	// pass is held for the whole of a pass.
	pass sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(runner Runner, interval time.Duration, opts ...Option) (*Scheduler, error) {
	if runner == nil {
		return nil, errors.New("scheduler needs a runner")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid interval %v: must be positive", interval)
	}
	s := &Scheduler{
		runner:     runner,
		interval:   interval,
		now:        time.Now,
		runOnStart: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start launches the tick loop. The loop ends when ctx is cancelled or Stop
// is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return errors.New("scheduler is already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(loopCtx, s.done)

	slog.InfoContext(ctx, "Recurrence scheduler started", "interval", s.interval)
	return nil
}

// Stop cancels the loop and waits for the in-flight pass, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}

	cancel()
	select {
	case <-done:
		slog.InfoContext(ctx, "Recurrence scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop scheduler: %w", ctx.Err())
	}
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// RunOnce runs a pass now, waiting for any pass already in progress.
func (s *Scheduler) RunOnce(ctx context.Context) (core.PassSummary, error) {
	s.pass.Lock()
	defer s.pass.Unlock()
	return s.run(ctx)
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if s.runOnStart {
		s.tick(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs a pass unless one is still going.
func (s *Scheduler) tick(ctx context.Context) {
	if !s.pass.TryLock() {
		slog.WarnContext(ctx, "Skipping recurrence tick, previous pass still running")
		return
	}
	defer s.pass.Unlock()

	if _, err := s.run(ctx); err != nil {
		slog.ErrorContext(ctx, "Recurrence pass failed", "error", err)
	}
}

func (s *Scheduler) run(ctx context.Context) (core.PassSummary, error) {
	if err := ctx.Err(); err != nil {
		return core.PassSummary{}, err
	}
	now := s.now()
	summary, err := s.runner.RunDue(ctx, now)
	if s.afterPass != nil {
		s.afterPass(ctx, summary)
	}
	if err != nil {
		return summary, fmt.Errorf("recurrence pass at %s: %w", now.UTC().Format(time.RFC3339), err)
	}
	return summary, nil
}
