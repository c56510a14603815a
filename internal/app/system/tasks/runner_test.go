package tasks_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cropconnect/coophub/internal/app/system/tasks"
	"go.uber.org/zap"
)

func waitForTick(t *testing.T, ticks <-chan struct{}) {
	t.Helper()
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run within 2s")
	}
}

func TestRunner_RunsRegisteredJob(t *testing.T) {
	runner := tasks.NewRunner(zap.NewNop())

	ticks := make(chan struct{}, 1)
	runner.Register(tasks.Job{
		Name:     "tick",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			select {
			case ticks <- struct{}{}:
			default:
			}
			return nil
		},
	})

	runner.Start()
	defer runner.Stop()

	waitForTick(t, ticks)
	waitForTick(t, ticks)
}

func TestRunner_StopPreventsFurtherRuns(t *testing.T) {
	runner := tasks.NewRunner(zap.NewNop())

	var runs atomic.Int64
	ticks := make(chan struct{}, 1)
	runner.Register(tasks.Job{
		Name:     "count",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			select {
			case ticks <- struct{}{}:
			default:
			}
			return nil
		},
	})

	runner.Start()
	waitForTick(t, ticks)
	runner.Stop()

	// Stop waits for the loop to exit, so the count is final.
	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if got := runs.Load(); got != after {
		t.Errorf("job ran after Stop: %d -> %d", after, got)
	}
}

func TestRunner_MultipleJobs(t *testing.T) {
	runner := tasks.NewRunner(zap.NewNop())

	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)
	runner.Register(tasks.Job{
		Name:     "first",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			select {
			case first <- struct{}{}:
			default:
			}
			return nil
		},
	})
	runner.Register(tasks.Job{
		Name:     "second",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			select {
			case second <- struct{}{}:
			default:
			}
			return nil
		},
	})

	runner.Start()
	defer runner.Stop()

	waitForTick(t, first)
	waitForTick(t, second)
}

func TestRunner_JobErrorDoesNotStopLoop(t *testing.T) {
	runner := tasks.NewRunner(zap.NewNop())

	ticks := make(chan struct{}, 1)
	runner.Register(tasks.Job{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			select {
			case ticks <- struct{}{}:
			default:
			}
			return errors.New("boom")
		},
	})

	runner.Start()
	defer runner.Stop()

	// The loop keeps ticking despite the error.
	waitForTick(t, ticks)
	waitForTick(t, ticks)
}

func TestRunner_StopWithNoJobs(t *testing.T) {
	runner := tasks.NewRunner(zap.NewNop())
	runner.Start()
	runner.Stop()
}

func TestRunner_JobReceivesDeadline(t *testing.T) {
	runner := tasks.NewRunner(zap.NewNop())

	deadlines := make(chan bool, 1)
	runner.Register(tasks.Job{
		Name:     "deadline",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			select {
			case deadlines <- ok:
			default:
			}
			return nil
		},
	})

	runner.Start()
	defer runner.Stop()

	select {
	case ok := <-deadlines:
		if !ok {
			t.Error("expected job context to carry a deadline")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run within 2s")
	}
}
