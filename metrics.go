package workerpool

import (
	"sync/atomic"
	"time"

	"golang.org/x/sys/cpu"
)

// MetricsPolicy defines hooks used by the worker pool to report
// queueing and execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {
	// IncQueued is called once a job has been accepted by the queue.
	IncQueued()

	// DecQueued is called when a worker takes a job off the queue.
	DecQueued()

	// IncExecuted is called after every job run, whatever its outcome.
	IncExecuted()

	// IncFailed is called when a task exhausts its attempts with an error.
	IncFailed()

	// IncPanicked is called when a job panics.
	IncPanicked()

	// ObserveRun reports how long a job occupied its worker.
	ObserveRun(d time.Duration)
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	queued atomic.Int64
	_      cpu.CacheLinePad

	executed atomic.Uint64
	_        cpu.CacheLinePad

	failed   atomic.Uint64
	panicked atomic.Uint64
	busyNs   atomic.Int64
}

// Queued returns the current number of queued jobs.
func (m *AtomicMetrics) Queued() int64 { return m.queued.Load() }

// Executed returns the total number of executed jobs.
func (m *AtomicMetrics) Executed() uint64 { return m.executed.Load() }

// Failed returns the number of tasks that exhausted their retries.
func (m *AtomicMetrics) Failed() uint64 { return m.failed.Load() }

// Panicked returns the number of jobs that panicked.
func (m *AtomicMetrics) Panicked() uint64 { return m.panicked.Load() }

// BusyTime returns the accumulated run time of all jobs.
func (m *AtomicMetrics) BusyTime() time.Duration { return time.Duration(m.busyNs.Load()) }

func (m *AtomicMetrics) IncQueued()                 { m.queued.Add(1) }
func (m *AtomicMetrics) DecQueued()                 { m.queued.Add(-1) }
func (m *AtomicMetrics) IncExecuted()               { m.executed.Add(1) }
func (m *AtomicMetrics) IncFailed()                 { m.failed.Add(1) }
func (m *AtomicMetrics) IncPanicked()               { m.panicked.Add(1) }
func (m *AtomicMetrics) ObserveRun(d time.Duration) { m.busyNs.Add(int64(d)) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics discards every update. Its methods never touch the
// receiver, so a nil *NoopMetrics is valid.
type NoopMetrics struct{}

func (m *NoopMetrics) IncQueued()               {}
func (m *NoopMetrics) DecQueued()               {}
func (m *NoopMetrics) IncExecuted()             {}
func (m *NoopMetrics) IncFailed()               {}
func (m *NoopMetrics) IncPanicked()             {}
func (m *NoopMetrics) ObserveRun(time.Duration) {}
