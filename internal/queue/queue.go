// Package queue provides the fire-and-forget event queue shared by the
// roll monitor and the sinks. The queue is deliberately unbounded: delivery
// is best effort and event volume is bounded by game-session pace, so no
// backpressure is applied. Capacity is limited only by process memory.
package queue

import (
	"sync"

	"loottracker/internal/models"
)

// Queue is an unbounded FIFO of loot events with a single consumer and
// one or more producers.
type Queue struct {
	mu    sync.Mutex
	items []*models.LootEvent
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends an event. It never blocks and never fails.
func (q *Queue) Enqueue(event *models.LootEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, event)
}

// Drain removes and returns all queued events in FIFO order.
func (q *Queue) Drain() []*models.LootEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	items := q.items
	q.items = nil
	return items
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
