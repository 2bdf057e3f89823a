package jobs

import (
	"context"
	"fmt"

	"github.com/gammazero/workerpool"
)

// Job is the handle returned when a heavy pipeline step is submitted. The
// submitting caller gets the handle back immediately and must Await it to
// observe completion or failure; nothing about the step is synchronous.
type Job struct {
	Name string
	done chan struct{}
	err  error
}

// Await blocks until the job finishes or the context is cancelled. The
// job's error, if any, is returned wrapped with the job name so the
// operator can tell which step failed.
func (j *Job) Await(ctx context.Context) error {
	select {
	case <-j.done:
		if j.err != nil {
			return fmt.Errorf("job %q: %w", j.Name, j.err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("job %q: %w", j.Name, ctx.Err())
	}
}

// Done reports whether the job has finished, without blocking.
func (j *Job) Done() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// Runner executes submitted jobs on a bounded worker pool.
type Runner struct {
	wp *workerpool.WorkerPool
}

func NewRunner(size int) *Runner {
	if size <= 0 {
		size = 1
	}
	return &Runner{wp: workerpool.New(size)}
}

// Submit schedules fn and returns its handle without waiting.
func (r *Runner) Submit(name string, fn func() error) *Job {
	job := &Job{Name: name, done: make(chan struct{})}
	r.wp.Submit(func() {
		job.err = fn()
		close(job.done)
	})
	return job
}

// StopWait drains the pool. No further submissions are accepted.
func (r *Runner) StopWait() {
	r.wp.StopWait()
}
