package events

// Publisher defines the interface for emitting domain events.
// This interface allows for loose coupling and easier testing by depending
// on behavior rather than concrete implementation.
type Publisher interface {
	// Publish queues an event for asynchronous delivery. It never blocks;
	// events are dropped when the queue is full.
	Publish(event Event)

	// Events returns the channel consumers read from.
	Events() <-chan Event

	// Close stops the bus. Publish becomes a no-op afterwards.
	Close()
}

// Compile-time verification that *Bus implements Publisher
var _ Publisher = (*Bus)(nil)
