package workerpool

import (
	"context"
)

// Job is a one-shot unit of work.
//
// A Job captures everything it needs, takes no arguments and returns
// nothing. The pool invokes every accepted Job exactly once, on exactly
// one worker.
type Job func()

// TaskFunc is the function executed by a worker for a Task.
type TaskFunc func(ctx context.Context) error

// Task is a Job that may fail.
//
// Fn is retried according to Retry (or the pool default policy) while it
// returns an error. The final error is reported via Options.OnJobError;
// it is never handed back to the submitter.
//
// Ctx scopes logging and interrupts retry backoff. Cleanup, if set, runs
// once after the last attempt, including when Fn panicked.
type Task struct {
	Fn      TaskFunc
	Ctx     context.Context
	Cleanup func()
	Retry   *RetryPolicy
}

// task is the queued form of a submission.
type task struct {
	fn      TaskFunc
	ctx     context.Context
	cleanup func()
	retry   RetryPolicy
}

// jobTask adapts a plain Job to the queued form. Plain jobs get exactly
// one attempt.
func jobTask(ctx context.Context, job Job) task {
	return task{
		fn: func(context.Context) error {
			job()
			return nil
		},
		ctx:   ctx,
		retry: RetryPolicy{Attempts: 1},
	}
}
