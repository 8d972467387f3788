package notifier

import (
	"context"
	"sync"

	"entity-notifier/internal/core"
)

// Queue is a FIFO of events fed by any number of publishers and drained by a
// single consumer. Put never blocks.
//
// With capacity 0 the queue is unbounded. With a positive capacity a Put on a
// full queue discards the oldest pending event and counts it in Dropped.
type Queue struct {
	mu       sync.Mutex
	items    []core.Event
	capacity int
	dropped  uint64
	ready    chan struct{}
}

// NewQueue returns an empty queue. capacity <= 0 means unbounded.
func NewQueue(capacity int) *Queue {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue{capacity: capacity, ready: make(chan struct{}, 1)}
}

// Put appends ev and reports whether an older event was dropped to make room.
func (q *Queue) Put(ev core.Event) (dropped bool) {
	q.mu.Lock()
	if q.capacity > 0 && len(q.items) >= q.capacity {
		q.items[0] = core.Event{}
		q.items = q.items[1:]
		q.dropped++
		dropped = true
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return dropped
}

// TryGet pops the oldest event without waiting.
func (q *Queue) TryGet() (core.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return core.Event{}, false
	}
	ev := q.items[0]
	q.items[0] = core.Event{}
	q.items = q.items[1:]
	return ev, true
}

// Get pops the oldest event, waiting until one is available or ctx is done.
func (q *Queue) Get(ctx context.Context) (core.Event, error) {
	for {
		if ev, ok := q.TryGet(); ok {
			return ev, nil
		}
		select {
		case <-q.ready:
		case <-ctx.Done():
			return core.Event{}, ctx.Err()
		}
	}
}

// Ready is signalled after a Put. It may fire spuriously; use TryGet after it.
func (q *Queue) Ready() <-chan struct{} { return q.ready }

// Drain removes and returns every pending event.
func (q *Queue) Drain() []core.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Capacity returns the bound, 0 when unbounded.
func (q *Queue) Capacity() int { return q.capacity }

// Dropped returns how many events were discarded by the overflow policy.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
