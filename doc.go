// Package workerpool provides a fixed-size worker pool.
//
// A Pool starts a fixed number of long-lived worker goroutines at
// construction. Callers from any goroutine submit jobs; jobs are
// appended to a single unbounded FIFO queue shared by all workers, and
// the first idle worker takes the next one. Callers never pay
// goroutine-creation cost per job and concurrency never exceeds the
// pool size.
//
// Architecture overview
//
// The pool is composed of three layers:
//
//  1. Jobs
//     A Job is a one-shot func(). A Task is a Job that may fail; it
//     carries a context, an optional cleanup function and an optional
//     retry policy.
//
//  2. Work queue
//     An unbounded multi-producer/multi-consumer FIFO. Submit never
//     waits for a worker. Each queued job is delivered to exactly one
//     worker. Once closed, the queue rejects new jobs but still hands
//     out the ones it holds.
//
//  3. Workers
//     Each worker loops: wait for a job, run it, repeat. A worker runs
//     one job at a time; different workers run jobs in parallel. When
//     the queue is closed and empty the worker exits.
//
// Lifecycle
//
// NewPool refuses a pool with fewer than one worker. Shutdown closes the
// queue, lets the workers drain every job already accepted and waits
// for all workers to exit. After Shutdown, Submit returns ErrPoolClosed.
//
// Error handling
//
// The pool distinguishes between two classes of errors:
//
//   - Job errors: a panic (*PanicError) or a Task that still fails after
//     its last attempt (*JobError)
//   - Internal errors: failures of the pool itself, such as CPU pinning
//
// Both are logged and passed to the handlers in Options. Neither stops
// a worker.
//
// CPU pinning
//
// On Linux, workers may optionally be pinned to specific CPUs.
// When enabled, workers are locked to OS threads and restricted
// to run on a single CPU core.
//
// Metrics
//
// A Pool reports to a MetricsPolicy chosen at construction.
// AtomicMetrics keeps in-process counters, NoopMetrics discards
// everything, and package prommetrics exports Prometheus collectors.
package workerpool
