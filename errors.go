package workerpool

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize is returned when a pool is constructed with fewer
	// than one worker.
	ErrInvalidSize = errors.New("workerpool: pool size must be at least 1")

	// ErrPoolClosed is returned by Submit once Shutdown has been called.
	ErrPoolClosed = errors.New("workerpool: pool closed")

	// ErrNilJob is returned when a nil Job is submitted.
	ErrNilJob = errors.New("workerpool: job is nil")

	// ErrNilFunc is returned when a submitted Task has a nil Fn.
	ErrNilFunc = errors.New("workerpool: task func is nil")

	// ErrJobExited is reported when a job ends its worker goroutine with
	// runtime.Goexit. The worker is restarted.
	ErrJobExited = errors.New("workerpool: job called runtime.Goexit")

	// ErrNilMetrics is returned when NewPool is given a nil MetricsPolicy.
	ErrNilMetrics = errors.New("workerpool: metrics policy is nil")

	// ErrPinUnsupported is reported when worker pinning is requested on a
	// platform without CPU affinity support.
	ErrPinUnsupported = errors.New("workerpool: cpu pinning is not supported on this platform")
)

// PanicError is reported when a job panics. The worker that ran it keeps
// serving the queue.
type PanicError struct {
	Worker int
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("workerpool: worker %d: job panicked: %v", e.Worker, e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// JobError is reported when a Task still fails after its last attempt.
type JobError struct {
	Worker   int
	Attempts int
	Err      error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("workerpool: worker %d: task failed after %d attempt(s): %v", e.Worker, e.Attempts, e.Err)
}

func (e *JobError) Unwrap() error { return e.Err }
