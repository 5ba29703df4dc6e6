package session

import (
	"sync"

	"github.com/google/uuid"
)

// Event identifies a store notification.
type Event string

const (
	// EventStateChanged carries a State snapshot after every change to the main track.
	EventStateChanged Event = "session.state.changed"
	// EventDiffChanged carries a *DiffSession snapshot, or a nil *DiffSession when diff mode ends.
	EventDiffChanged Event = "session.diff.changed"
)

// Handler receives an event payload.
type Handler func(payload interface{})

type subscription struct {
	id      string
	handler Handler
}

// Emitter dispatches events to subscribers synchronously, in subscription order.
type Emitter struct {
	mu        sync.RWMutex
	listeners map[Event][]subscription
}

// NewEmitter creates an emitter with no listeners.
func NewEmitter() *Emitter {
	return &Emitter{
		listeners: make(map[Event][]subscription),
	}
}

// On registers handler for event and returns a subscription id for Off.
func (e *Emitter) On(event Event, handler Handler) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := uuid.New().String()
	e.listeners[event] = append(e.listeners[event], subscription{id: id, handler: handler})
	return id
}

// Off removes a subscription. Unknown ids are ignored.
func (e *Emitter) Off(event Event, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := e.listeners[event]
	for i, sub := range subs {
		if sub.id == id {
			e.listeners[event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit calls every handler registered for event on the calling goroutine.
func (e *Emitter) Emit(event Event, payload interface{}) {
	e.mu.RLock()
	subs := append([]subscription(nil), e.listeners[event]...)
	e.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(payload)
	}
}

// ListenerCount returns the number of handlers registered for event.
func (e *Emitter) ListenerCount(event Event) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[event])
}

// RemoveAllListeners drops every subscription.
func (e *Emitter) RemoveAllListeners() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = make(map[Event][]subscription)
}
