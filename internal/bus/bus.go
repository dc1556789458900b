package bus

import (
	"sync"

	"maniasr/internal/report"
)

// Bus handles internal pub/sub: calculated results fan out to the result
// logger and the broadcast hub without either depending on the other.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan report.Result
}

func NewBus() *Bus {
	return &Bus{
		subscribers: make([]chan report.Result, 0),
	}
}

// Subscribe returns a read-only channel for results.
func (b *Bus) Subscribe(bufferSize int) <-chan report.Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan report.Result, bufferSize)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Publish broadcasts the result to all subscribers.
// Non-blocking publish: if a subscriber is slow/full, we drop the message.
func (b *Bus) Publish(r report.Result) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- r:
		default:
			// Slow consumer, dropping to maintain low latency
		}
	}
}
