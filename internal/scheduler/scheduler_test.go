package scheduler

import (
	"sync"
	"testing"

	applogger "github.com/NeuralG/coin-trading-ai/pkg/logger"
)

func TestGuardSkipsOverlappingRuns(t *testing.T) {
	s := New(applogger.Nop())

	entered := make(chan struct{})
	release := make(chan struct{})
	runs := 0
	var mu sync.Mutex
	job := s.Guard("test", func() {
		mu.Lock()
		runs++
		mu.Unlock()
		entered <- struct{}{}
		<-release
	})

	go job()
	<-entered

	// Second invocation while the first is still running must be a no-op.
	job()
	mu.Lock()
	if runs != 1 {
		mu.Unlock()
		t.Fatalf("overlapping invocation ran, runs = %d", runs)
	}
	mu.Unlock()

	close(release)
}

func TestGuardAllowsSequentialRuns(t *testing.T) {
	s := New(applogger.Nop())
	runs := 0
	job := s.Guard("test", func() { runs++ })

	job()
	job()
	if runs != 2 {
		t.Fatalf("sequential invocations must both run, runs = %d", runs)
	}
}

func TestGuardRecoversFromPanic(t *testing.T) {
	s := New(applogger.Nop())
	calls := 0
	job := s.Guard("test", func() {
		calls++
		panic("job exploded")
	})

	// The panic must be swallowed by the guard and must not poison it:
	// the next invocation runs normally.
	job()
	job()
	if calls != 2 {
		t.Fatalf("guard must release after a panic, calls = %d", calls)
	}
}

func TestAddJobRejectsBadSpec(t *testing.T) {
	s := New(applogger.Nop())
	if err := s.AddJob("not a cron spec", "bad", func() {}); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
	if err := s.AddJob("@every 1h", "good", func() {}); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
}
