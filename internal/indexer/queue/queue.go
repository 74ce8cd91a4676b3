// Package queue implements the indexer's bounded, dual-priority,
// in-process admission queue: HIGH drains before STANDARD, and both
// are backed by buffered channels so a single consumer stays
// thread-safe against concurrent producers without extra locking.
// Grounded on the teacher's internal/worker channel/stopCh idiom.
package queue

import (
	"context"
	"time"

	"github.com/lumensearch/search-core/internal/core/domain"
)

const fullThreshold = 0.9

// Queue is the dual-priority bounded admission queue described in
// spec §4.6.
type Queue struct {
	high     chan *domain.QueueItem
	standard chan *domain.QueueItem

	highCap     int
	standardCap int

	closed chan struct{}
}

// New builds a Queue with the given per-priority capacities.
func New(highCap, standardCap int) *Queue {
	return &Queue{
		high:        make(chan *domain.QueueItem, highCap),
		standard:    make(chan *domain.QueueItem, standardCap),
		highCap:     highCap,
		standardCap: standardCap,
		closed:      make(chan struct{}),
	}
}

// Put enqueues item into the named priority's channel, blocking up to
// timeout if full. Returns false (never an error) if admission could
// not happen within the timeout — callers propagate this as
// backpressure to their producers.
func (q *Queue) Put(ctx context.Context, item *domain.QueueItem, priority domain.Priority, timeout time.Duration) bool {
	target := q.high
	if priority == domain.PriorityStandard {
		target = q.standard
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case target <- item:
		return true
	case <-q.closed:
		return false
	case <-ctx.Done():
		return false
	case <-timer.C:
		return false
	}
}

// Get always drains HIGH first; only when HIGH is empty does it wait
// on STANDARD with a short block.
func (q *Queue) Get(ctx context.Context) (*domain.QueueItem, bool) {
	select {
	case item := <-q.high:
		return item, true
	default:
	}

	select {
	case item := <-q.high:
		return item, true
	case item := <-q.standard:
		return item, true
	case <-q.closed:
		return q.drainNonBlocking()
	case <-ctx.Done():
		return nil, false
	case <-time.After(200 * time.Millisecond):
		return nil, false
	}
}

func (q *Queue) drainNonBlocking() (*domain.QueueItem, bool) {
	select {
	case item := <-q.high:
		return item, true
	default:
	}
	select {
	case item := <-q.standard:
		return item, true
	default:
	}
	return nil, false
}

// QSize reports the current depth of each priority's channel.
func (q *Queue) QSize() (high, standard int) {
	return len(q.high), len(q.standard)
}

// IsFull reports true when either priority is at or above 90% of its
// configured capacity.
func (q *Queue) IsFull() bool {
	if q.highCap > 0 && float64(len(q.high))/float64(q.highCap) >= fullThreshold {
		return true
	}
	if q.standardCap > 0 && float64(len(q.standard))/float64(q.standardCap) >= fullThreshold {
		return true
	}
	return false
}

// Close stops further blocking Put/Get calls from waiting
// indefinitely; already-buffered items remain drainable via Get until
// both channels are empty.
func (q *Queue) Close() {
	close(q.closed)
}
