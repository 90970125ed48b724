// internal/jobs/runner.go

// Package jobs runs named background work under a supervisor: failures
// are captured and logged rather than lost, and the process can drain
// in-flight work before shutdown instead of abandoning it.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// Job is one unit of background work. Name appears in supervisor logs.
type Job struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Runner executes submitted jobs on worker goroutines, with a semaphore
// limiting how many run simultaneously. Blocking work such as audio
// synthesis goes through here so it never stalls request handling.
type Runner struct {
	queue     chan Job
	semaphore *semaphore.Weighted
	active    atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a Runner allowing up to maxConcurrent jobs to execute
// simultaneously, buffering up to queueSize submissions.
func NewRunner(maxConcurrent int64, queueSize int) *Runner {
	return &Runner{
		queue:     make(chan Job, queueSize),
		semaphore: semaphore.NewWeighted(maxConcurrent),
	}
}

// Start initialises the runner's context and dispatch loop. Must be called
// before Submit.
func (r *Runner) Start(ctx context.Context) {
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.dispatch()
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (r *Runner) Stop() {
	close(r.queue)
	r.wg.Wait()
	if r.cancel != nil {
		r.cancel()
	}
}

// Submit enqueues a job. Returns an error if the queue buffer is full;
// callers treat that as backpressure, not a crash.
func (r *Runner) Submit(job Job) error {
	select {
	case r.queue <- job:
		return nil
	default:
		return fmt.Errorf("job queue full, dropping %q", job.Name)
	}
}

// dispatch drains the queue, acquiring a semaphore slot per job and
// running each on its own goroutine.
func (r *Runner) dispatch() {
	defer r.wg.Done()
	for job := range r.queue {
		if err := r.semaphore.Acquire(r.ctx, 1); err != nil {
			slog.Warn("runner stopping with queued jobs", "dropped", job.Name)
			return
		}
		r.wg.Add(1)
		r.active.Add(1)
		go func(job Job) {
			defer r.wg.Done()
			defer r.active.Add(-1)
			defer r.semaphore.Release(1)
			r.run(job)
		}(job)
	}
}

// run executes one job, recovering panics and logging failures. A job
// error never crashes the process.
func (r *Runner) run(job Job) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("job panicked", "job", job.Name, "panic", rec)
		}
	}()

	if err := job.Fn(r.ctx); err != nil {
		slog.Error("job failed", "job", job.Name, "error", err)
	}
}

// WaitIdle blocks until no jobs are queued or running, or the timeout
// expires. Returns true if idle, false if timed out.
func (r *Runner) WaitIdle(timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		if r.active.Load() == 0 && len(r.queue) == 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Active returns the number of jobs currently executing.
func (r *Runner) Active() int64 {
	return r.active.Load()
}
