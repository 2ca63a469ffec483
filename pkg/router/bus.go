package router

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Bus is a best-effort in-process event bus for routing observability.
//
// Publish never blocks routing: when a subscriber's buffer is full the
// event is dropped and counted. Decisions do not depend on delivery.
type Bus struct {
	mu      sync.RWMutex
	subs    []chan RouteEvent
	buffer  int
	dropped atomic.Int64
	logger  *slog.Logger
}

// NewBus creates a bus whose subscriber channels hold buffer events.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 256
	}
	return &Bus{
		buffer: buffer,
		logger: slog.Default().With("component", "router.bus"),
	}
}

// Subscribe registers a new subscriber and returns its channel.
func (b *Bus) Subscribe() <-chan RouteEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan RouteEvent, b.buffer)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers an event to all subscribers without blocking.
func (b *Bus) Publish(event RouteEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped returns the number of events dropped due to full subscriber
// buffers.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
