// internal/jobs/runner_test.go
package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunnerRunsJobs(t *testing.T) {
	r := NewRunner(2, 10)
	r.Start(context.Background())

	var count atomic.Int64
	for i := 0; i < 5; i++ {
		err := r.Submit(Job{Name: "inc", Fn: func(context.Context) error {
			count.Add(1)
			return nil
		}})
		if err != nil {
			t.Fatal(err)
		}
	}

	if !r.WaitIdle(2 * time.Second) {
		t.Fatal("runner did not go idle")
	}
	r.Stop()

	if count.Load() != 5 {
		t.Errorf("expected 5 jobs run, got %d", count.Load())
	}
}

func TestRunnerConcurrencyCap(t *testing.T) {
	r := NewRunner(2, 10)
	r.Start(context.Background())

	var running, peak atomic.Int64
	var wg sync.WaitGroup
	wg.Add(4)
	for i := 0; i < 4; i++ {
		r.Submit(Job{Name: "slow", Fn: func(context.Context) error {
			defer wg.Done()
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(50 * time.Millisecond)
			running.Add(-1)
			return nil
		}})
	}
	wg.Wait()
	r.Stop()

	if peak.Load() > 2 {
		t.Errorf("concurrency cap exceeded: peak %d", peak.Load())
	}
}

func TestRunnerStopDrains(t *testing.T) {
	r := NewRunner(1, 10)
	r.Start(context.Background())

	var done atomic.Bool
	r.Submit(Job{Name: "slow", Fn: func(context.Context) error {
		time.Sleep(100 * time.Millisecond)
		done.Store(true)
		return nil
	}})

	r.Stop()

	if !done.Load() {
		t.Error("Stop returned before in-flight job finished")
	}
}

func TestRunnerSurvivesFailureAndPanic(t *testing.T) {
	r := NewRunner(1, 10)
	r.Start(context.Background())

	r.Submit(Job{Name: "fails", Fn: func(context.Context) error {
		return errors.New("synthesis failed")
	}})
	r.Submit(Job{Name: "panics", Fn: func(context.Context) error {
		panic("boom")
	}})

	var ran atomic.Bool
	r.Submit(Job{Name: "after", Fn: func(context.Context) error {
		ran.Store(true)
		return nil
	}})

	if !r.WaitIdle(2 * time.Second) {
		t.Fatal("runner did not go idle")
	}
	r.Stop()

	if !ran.Load() {
		t.Error("job after failure/panic did not run")
	}
}

func TestRunnerQueueFull(t *testing.T) {
	r := NewRunner(1, 1)
	r.Start(context.Background())
	defer r.Stop()

	block := make(chan struct{})
	r.Submit(Job{Name: "blocker", Fn: func(context.Context) error {
		<-block
		return nil
	}})

	// Fill the buffer, then expect backpressure.
	var err error
	for i := 0; i < 5; i++ {
		err = r.Submit(Job{Name: "extra", Fn: func(context.Context) error { return nil }})
		if err != nil {
			break
		}
	}
	close(block)
	if err == nil {
		t.Error("expected queue-full error")
	}
}

// Shutdown drains in-flight jobs before the runner's context is
// cancelled; a job mid-flight during WaitIdle must never observe
// cancellation.
func TestWaitIdleDrainsBeforeCancel(t *testing.T) {
	r := NewRunner(1, 4)
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	defer r.Stop()

	observed := make(chan error, 1)
	err := r.Submit(Job{
		Name: "slow-audio",
		Fn: func(jobCtx context.Context) error {
			time.Sleep(50 * time.Millisecond)
			observed <- jobCtx.Err()
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if !r.WaitIdle(2 * time.Second) {
		t.Fatal("runner never drained")
	}
	cancel()

	select {
	case ctxErr := <-observed:
		if ctxErr != nil {
			t.Fatalf("in-flight job saw cancellation during drain: %v", ctxErr)
		}
	case <-time.After(time.Second):
		t.Fatal("job never reported")
	}
}
