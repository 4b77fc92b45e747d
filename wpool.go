package workerpool

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Pool runs submitted jobs on a fixed set of worker goroutines.
//
// The worker count is set at construction and never changes. All
// workers consume the same unbounded FIFO queue. M is the metrics
// implementation; using a concrete type keeps metric calls direct.
type Pool[M MetricsPolicy] struct {
	queue   *workQueue
	workers []*worker
	wg      sync.WaitGroup
	done    chan struct{} // closed once every worker has returned
	opts    Options
	metrics M

	liveWorkers   atomic.Int32
	activeWorkers atomic.Int32
}

// NewPool validates opts and starts exactly opts.Workers workers.
//
// A pool with fewer than one worker is refused with ErrInvalidSize before
// any goroutine is started. m must be usable: a nil interface value is
// refused with ErrNilMetrics, and a nil pointer is only valid for
// implementations that never dereference it, such as *NoopMetrics.
func NewPool[M MetricsPolicy](m M, opts Options) (*Pool[M], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if any(m) == nil {
		return nil, ErrNilMetrics
	}
	opts.FillDefaults()

	p := &Pool[M]{
		workers: make([]*worker, opts.Workers),
		done:    make(chan struct{}),
		opts:    opts,
		metrics: m,
	}

	p.queue = newWorkQueue(opts.QueueCapacity, m.IncQueued)

	p.wg.Add(opts.Workers)
	for i := range opts.Workers {
		w := &worker{id: i}
		p.workers[i] = w
		go p.runWorker(w)
	}
	go func() {
		p.wg.Wait()
		close(p.done)
	}()

	lg.FromContext(opts.Ctx).Info("worker pool started",
		lg.Int("workers", opts.Workers),
		lg.Int("queue_capacity", opts.QueueCapacity),
	)
	return p, nil
}

// MustNewPool is like NewPool but panics on a configuration error.
func MustNewPool[M MetricsPolicy](m M, opts Options) *Pool[M] {
	p, err := NewPool(m, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// New starts a pool of size workers with default options and no metrics.
func New(size int) (*Pool[*NoopMetrics], error) {
	return NewPool(&NoopMetrics{}, Options{Workers: size})
}

// NewForCurrentCPU starts one worker per usable CPU, as reported by
// runtime.GOMAXPROCS. opts.Workers is overwritten.
func NewForCurrentCPU[M MetricsPolicy](m M, opts Options) (*Pool[M], error) {
	opts.Workers = runtime.GOMAXPROCS(0)
	return NewPool(m, opts)
}

// Submit enqueues job for execution by some worker and returns
// immediately. Every accepted job runs exactly once. After Shutdown,
// Submit returns ErrPoolClosed.
func (p *Pool[M]) Submit(job Job) error {
	if job == nil {
		return ErrNilJob
	}
	return p.queue.push(jobTask(p.opts.Ctx, job))
}

// SubmitTask enqueues a Task. A Task whose context is already done is
// rejected.
func (p *Pool[M]) SubmitTask(t Task) error {
	if t.Fn == nil {
		return ErrNilFunc
	}
	ctx := t.Ctx
	if ctx == nil {
		ctx = p.opts.Ctx
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("workerpool: task context done: %w", err)
	}
	return p.queue.push(task{
		fn:      t.Fn,
		ctx:     ctx,
		cleanup: t.Cleanup,
		retry:   p.opts.Retry.merge(t.Retry),
	})
}

// Shutdown stops accepting jobs, lets the workers drain the queue and
// waits for all of them to exit.
//
// It is safe to call more than once. If ctx ends first, Shutdown returns
// ctx.Err() while the workers keep draining; a later call can wait again.
//
// Shutdown must not be called from inside a job of the same pool: the
// calling worker would wait for itself. Use a bounded ctx or call it
// from another goroutine.
func (p *Pool[M]) Shutdown(ctx context.Context) error {
	if p.queue.close() {
		lg.FromContext(p.opts.Ctx).Info("worker pool shutting down",
			lg.Int("queued", p.queue.len()),
			lg.Int32("active_workers", p.activeWorkers.Load()),
		)
	}

	select {
	case <-p.done:
		return nil
	default:
	}
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop is a blocking Shutdown. Like Shutdown, it must not be called
// from a job running on this pool.
func (p *Pool[M]) Stop() { _ = p.Shutdown(context.Background()) }

// Size returns the fixed number of workers.
func (p *Pool[M]) Size() int { return len(p.workers) }

// LiveWorkers returns the number of worker goroutines that have started
// and not yet terminated.
func (p *Pool[M]) LiveWorkers() int32 { return p.liveWorkers.Load() }

// ActiveWorkers returns the number of workers currently running a job.
func (p *Pool[M]) ActiveWorkers() int32 { return p.activeWorkers.Load() }

// QueueLength returns the number of jobs waiting for a worker.
func (p *Pool[M]) QueueLength() int { return p.queue.len() }

// WorkerStates returns a snapshot of every worker's state, indexed by
// worker ordinal.
func (p *Pool[M]) WorkerStates() []WorkerState {
	states := make([]WorkerState, len(p.workers))
	for i, w := range p.workers {
		states[i] = w.State()
	}
	return states
}

// Metrics returns the metrics implementation the pool reports to.
func (p *Pool[M]) Metrics() M { return p.metrics }
