package workerpool

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

// WorkerState is the lifecycle state of a single worker.
type WorkerState int32

const (
	// WorkerIdle means the worker is waiting on the queue.
	WorkerIdle WorkerState = iota

	// WorkerExecuting means the worker is running a job.
	WorkerExecuting

	// WorkerTerminal means the queue was closed and drained and the
	// worker has exited.
	WorkerTerminal
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "Idle"
	case WorkerExecuting:
		return "Executing"
	case WorkerTerminal:
		return "Terminal"
	default:
		return "Unknown"
	}
}

type worker struct {
	id    int
	state atomic.Int32
}

func (w *worker) State() WorkerState     { return WorkerState(w.state.Load()) }
func (w *worker) setState(s WorkerState) { w.state.Store(int32(s)) }

// runWorker is the receive-execute loop of one worker. It returns only
// when the queue reports it is closed and empty.
func (p *Pool[M]) runWorker(w *worker) {
	p.liveWorkers.Add(1)
	p.serve(w)
}

// serve runs the loop on the current goroutine. If a job ends the
// goroutine with runtime.Goexit, serve starts a replacement goroutine
// that keeps the worker's ordinal and its WaitGroup slot.
func (p *Pool[M]) serve(w *worker) {
	drained := false
	defer func() {
		if drained {
			p.liveWorkers.Add(-1)
			p.wg.Done()
			return
		}
		if w.State() == WorkerExecuting {
			p.activeWorkers.Add(-1)
			w.setState(WorkerIdle)
		}
		lg.FromContext(p.opts.Ctx).Error("job exited its worker goroutine; restarting worker",
			lg.Int("worker", w.id),
		)
		p.reportJobError(fmt.Errorf("workerpool: worker %d: %w", w.id, ErrJobExited))
		go p.serve(w)
	}()

	if p.opts.PinWorkers {
		// The thread stays locked until the goroutine exits, so the
		// runtime discards it instead of reusing a pinned thread.
		runtime.LockOSThread()
		cpuID := w.id % runtime.NumCPU()
		if err := PinToCPU(cpuID); err != nil {
			p.reportInternalError(fmt.Errorf("workerpool: pin worker %d to cpu %d: %w", w.id, cpuID, err))
		}
	}

	for {
		t, ok := p.queue.pop()
		if !ok {
			w.setState(WorkerTerminal)
			drained = true
			return
		}
		p.metrics.DecQueued()

		w.setState(WorkerExecuting)
		p.activeWorkers.Add(1)
		p.execute(w, t)
		p.activeWorkers.Add(-1)
		w.setState(WorkerIdle)
	}
}

// execute runs a single task. Panics from the task or its cleanup are
// recovered here so the worker always returns to the loop.
func (p *Pool[M]) execute(w *worker, t task) {
	logger := lg.FromContext(t.ctx).With(lg.Int("worker", w.id))
	logger.Info("worker got a job; executing", lg.Int32("active_workers", p.activeWorkers.Load()))

	start := time.Now()
	defer func() {
		p.metrics.ObserveRun(time.Since(start))
		p.metrics.IncExecuted()
	}()
	if t.cleanup != nil {
		defer p.runCleanup(w, t)
	}
	defer p.recoverJob(w, t)

	p.runAttempts(w, t)
}

func (p *Pool[M]) recoverJob(w *worker, t task) {
	if r := recover(); r != nil {
		p.handlePanic(w, t, r)
	}
}

func (p *Pool[M]) runCleanup(w *worker, t task) {
	defer p.recoverJob(w, t)
	t.cleanup()
}

func (p *Pool[M]) handlePanic(w *worker, t task, r any) {
	perr := &PanicError{Worker: w.id, Value: r, Stack: debug.Stack()}
	lg.FromContext(t.ctx).Error("job panicked",
		lg.Int("worker", w.id),
		lg.Any("panic", r),
	)
	p.metrics.IncPanicked()
	p.reportJobError(perr)
}

// runAttempts calls t.fn until it succeeds, the policy is exhausted or
// t.ctx is cancelled while backing off.
func (p *Pool[M]) runAttempts(w *worker, t task) {
	logger := lg.FromContext(t.ctx).With(lg.Int("worker", w.id))
	pol := t.retry

	if pol.Attempts <= 1 {
		if err := t.fn(t.ctx); err != nil {
			p.taskFailed(w, t, 1, err)
		}
		return
	}

	bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())

	for attempt := 1; attempt <= pol.Attempts; attempt++ {
		err := t.fn(t.ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info("task succeeded after retry", lg.Int("attempt", attempt))
			}
			return
		}
		if attempt == pol.Attempts {
			p.taskFailed(w, t, attempt, err)
			return
		}

		delay := bo.Next()
		logger.Warn("task attempt failed; backing off",
			lg.Int("attempt", attempt),
			lg.String("sleep", delay.String()),
			lg.Any("error", err),
		)
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-t.ctx.Done():
			timer.Stop()
			logger.Info("task canceled", lg.Any("reason", t.ctx.Err()))
			p.taskFailed(w, t, attempt, errors.Join(err, t.ctx.Err()))
			return
		}
	}
}

func (p *Pool[M]) taskFailed(w *worker, t task, attempts int, err error) {
	lg.FromContext(t.ctx).Error("task failed",
		lg.Int("worker", w.id),
		lg.Int("attempts", attempts),
		lg.Any("error", err),
	)
	p.metrics.IncFailed()
	p.reportJobError(&JobError{Worker: w.id, Attempts: attempts, Err: err})
}
