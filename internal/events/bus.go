package events

import (
	"log/slog"
	"sync"
	"time"
)

const defaultQueueSize = 256

// Bus is an in-process event queue. Producers publish without blocking;
// a worker pool drains the channel and turns events into notifications.
type Bus struct {
	queue  chan Event
	mu     sync.Mutex
	closed bool
}

// NewBus creates a bus with the default queue capacity.
func NewBus() *Bus {
	return NewBusWithCapacity(defaultQueueSize)
}

func NewBusWithCapacity(capacity int) *Bus {
	if capacity <= 0 {
		capacity = defaultQueueSize
	}
	return &Bus{queue: make(chan Event, capacity)}
}

// Publish queues an event for delivery. The write never blocks: when the
// queue is full the event is dropped and logged, so a slow consumer cannot
// stall request handling.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case b.queue <- event:
	default:
		slog.Warn("event queue full, dropping event", "type", event.Type, "task_id", event.TaskID)
	}
}

// Events returns the channel consumers read from. The channel is closed
// by Close, which lets range loops in workers terminate cleanly.
func (b *Bus) Events() <-chan Event {
	return b.queue
}

// Close stops the bus. Safe to call more than once.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.queue)
}
