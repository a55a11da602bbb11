// Package scheduler runs the periodic background jobs: bar
// synchronization and live price refresh, each on its own cadence.
package scheduler

import (
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	applogger "github.com/NeuralG/coin-trading-ai/pkg/logger"
)

// Scheduler wraps a cron runner and gives every registered job a
// non-reentrancy guard: a new invocation of a job is skipped while the
// previous one is still running, so fetch/merge cycles never overlap.
type Scheduler struct {
	cron *cron.Cron
	l    *applogger.Logger
}

func New(l *applogger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		l:    l,
	}
}

// AddJob registers fn under the given cron spec (e.g. "@every 1h").
func (s *Scheduler) AddJob(spec, name string, fn func()) error {
	if _, err := s.cron.AddFunc(spec, s.Guard(name, fn)); err != nil {
		return fmt.Errorf("register job %s: %w", name, err)
	}
	return nil
}

// Guard wraps fn with per-job mutual exclusion and panic recovery.
// Exported so jobs triggered outside the cron runner (e.g. the startup
// refresh) share the same guard semantics. A panicking job must not
// take the process down with it.
func (s *Scheduler) Guard(name string, fn func()) func() {
	var running atomic.Bool
	return func() {
		if !running.CompareAndSwap(false, true) {
			s.l.Warn("job still running, skipping invocation", applogger.String("job", name))
			return
		}
		defer running.Store(false)
		defer func() {
			if rec := recover(); rec != nil {
				s.l.Error("job panicked",
					applogger.String("job", name),
					applogger.Any("panic", rec),
				)
			}
		}()
		fn()
	}
}

// Start begins scheduling registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.l.Info("scheduler started")
}

// Stop stops the scheduler; running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.l.Info("scheduler stopped")
}
