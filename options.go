package workerpool

import (
	"context"
)

// Options configure a worker Pool.
//
// Workers is mandatory and is never defaulted: a pool with fewer than one
// worker is a configuration error. All other zero values are replaced
// with defaults in FillDefaults.
type Options struct {
	// Workers is the fixed number of worker goroutines.
	Workers int

	// QueueCapacity is the initial capacity of the work queue. The queue
	// grows past it on demand.
	QueueCapacity int

	// Retry is the default retry policy applied to Tasks.
	Retry RetryPolicy

	// PinWorkers locks each worker to an OS thread and pins worker i to
	// CPU i % runtime.NumCPU(). Linux only.
	PinWorkers bool

	// Ctx is the base context of the pool. Plain Jobs log through the
	// logger it carries. Cancelling it does not stop the pool.
	Ctx context.Context

	// OnJobError receives *PanicError and *JobError values, and errors
	// wrapping ErrJobExited. It is called from worker goroutines and must
	// be safe for concurrent use. A panic inside it is logged and dropped.
	OnJobError func(error)

	// OnInternalError receives failures that are not caused by a job,
	// such as a failed CPU pinning. Panics are handled as for OnJobError.
	OnInternalError func(error)
}

// FillDefaults replaces zero values, except Workers, with defaults.
func (o *Options) FillDefaults() {
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = DefaultQueueCapacity
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	o.Retry.fillDefaults()
}

// Validate reports configuration errors.
func (o *Options) Validate() error {
	if o.Workers < 1 {
		return ErrInvalidSize
	}
	return nil
}
