package process

import (
	"sync"
	"time"

	"github.com/gammazero/deque"
)

// lineQueue is an unbounded FIFO of lines. The producer (a drain goroutine) never blocks,
// the consumer waits with a bounded timeout.
type lineQueue struct {
	mu     sync.Mutex
	lines  deque.Deque[string]
	closed bool
	// signaled (without blocking) after every push and on close
	ready chan struct{}
}

func newLineQueue() *lineQueue {
	return &lineQueue{ready: make(chan struct{}, 1)}
}

func (q *lineQueue) push(line string) {
	q.mu.Lock()
	q.lines.PushBack(line)
	q.mu.Unlock()
	q.notify()
}

// close marks the end of the stream, waiting consumers return right away
func (q *lineQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notify()
}

func (q *lineQueue) notify() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// drain takes every queued line, returns nil if there are none
func (q *lineQueue) drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.lines.Len() == 0 {
		return nil
	}
	out := make([]string, 0, q.lines.Len())
	for q.lines.Len() > 0 {
		out = append(out, q.lines.PopFront())
	}
	return out
}

func (q *lineQueue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// pop waits up to timeout for the first line, then returns it with everything
// else already queued
func (q *lineQueue) pop(timeout time.Duration) []string {
	if lines := q.drain(); lines != nil {
		return lines
	}
	if timeout <= 0 || q.isClosed() {
		return []string{}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-q.ready:
			if lines := q.drain(); lines != nil {
				return lines
			}
			if q.isClosed() {
				return []string{}
			}
		case <-timer.C:
			// a line may have landed right at the deadline
			if lines := q.drain(); lines != nil {
				return lines
			}
			return []string{}
		}
	}
}
