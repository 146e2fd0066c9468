// Package eventbus carries completed charging-session events from
// transport adapters to the preference tracker.
package eventbus

import (
	"sync"

	"github.com/chargewise/chargewise/core/preference"
)

// SessionEvent pairs a completed session with the owning session ID.
type SessionEvent struct {
	SessionID string
	Record    preference.SessionRecord
}

// Bus is a fan-out publish/subscribe bus for session events. Delivery is
// non-blocking; slow subscribers miss events rather than stalling
// publishers.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan SessionEvent
	closed bool
}

// New creates a new Bus.
func New() *Bus { return &Bus{} }

// Publish sends the event to all subscribers.
func (b *Bus) Publish(ev SessionEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel.
func (b *Bus) Subscribe() <-chan SessionEvent {
	ch := make(chan SessionEvent, 8)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan SessionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
