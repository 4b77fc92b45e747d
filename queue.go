package workerpool

import (
	"sync"
)

const (
	// DefaultQueueCapacity is the initial number of slots in the work queue.
	DefaultQueueCapacity = 1024
)

// workQueue is the unbounded FIFO shared by all workers.
//
// Any number of producers may push and any number of consumers may pop
// concurrently. Each pushed task is handed to exactly one consumer.
// Storage is a circular buffer that doubles when full, so push never
// waits for a consumer.
type workQueue struct {
	mu       sync.Mutex
	nonEmpty sync.Cond

	buf        []task // circular buffer
	head, tail int    // read/write indices
	size       int    // number of tasks currently buffered

	closed bool

	// onPush, if set, runs under the lock for every accepted task, before
	// any consumer can see it.
	onPush func()
}

func newWorkQueue(capacity int, onPush func()) *workQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	q := &workQueue{buf: make([]task, capacity), onPush: onPush}
	q.nonEmpty.L = &q.mu
	return q
}

// push appends t at the tail. It fails with ErrPoolClosed after close.
func (q *workQueue) push(t task) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrPoolClosed
	}
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[q.tail] = t
	q.tail++
	if q.tail == len(q.buf) {
		q.tail = 0
	}
	q.size++
	if q.onPush != nil {
		q.onPush()
	}
	q.mu.Unlock()

	q.nonEmpty.Signal()
	return nil
}

// pop removes and returns the oldest task, blocking while the queue is
// empty. ok is false only once the queue is closed and fully drained.
func (q *workQueue) pop() (t task, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size == 0 {
		if q.closed {
			return task{}, false
		}
		q.nonEmpty.Wait()
	}

	t = q.buf[q.head]
	q.buf[q.head] = task{} // release references held by the slot
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	q.size--
	return t, true
}

// close rejects further pushes and wakes every blocked consumer.
// Tasks already queued remain poppable. It reports whether this call
// performed the close.
func (q *workQueue) close() bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.closed = true
	q.mu.Unlock()

	q.nonEmpty.Broadcast()
	return true
}

func (q *workQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// grow doubles the buffer, unrolling the ring so head starts at zero.
// Must be called with q.mu held.
func (q *workQueue) grow() {
	next := make([]task, 2*len(q.buf))
	n := copy(next, q.buf[q.head:])
	copy(next[n:], q.buf[:q.head])
	q.head = 0
	q.tail = q.size
	q.buf = next
}
