// internal/event/manager.go
package event

import "sync"

// Handler defines the function signature for event subscribers.
// It returns true if the event was consumed (prevents further processing if needed).
type Handler func(e Event) bool

// HandlerID identifies a subscription so it can be removed later.
type HandlerID uint64

type entry struct {
	id HandlerID
	fn Handler
}

// Manager handles event subscriptions and dispatching. Handlers for a type run
// synchronously, in subscription order.
type Manager struct {
	mu       sync.RWMutex
	nextID   HandlerID
	handlers map[Type][]entry
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]entry),
	}
}

// Subscribe adds a handler function for a specific event type and returns an
// ID that can be passed to Unsubscribe.
func (m *Manager) Subscribe(eventType Type, handler Handler) HandlerID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.handlers[eventType] = append(m.handlers[eventType], entry{id: id, fn: handler})
	return id
}

// Unsubscribe removes a previously registered handler. Removing an unknown or
// already-removed ID is a no-op.
func (m *Manager) Unsubscribe(eventType Type, id HandlerID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.handlers[eventType]
	for i, e := range entries {
		if e.id == id {
			m.handlers[eventType] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Dispatch sends an event to all registered handlers for its type, in
// subscription order. Handlers run synchronously on the caller's goroutine.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	event := Event{
		Type: eventType,
		Data: data,
	}

	m.mu.RLock()
	entries := m.handlers[eventType]
	// Copy so a handler can unsubscribe itself (or others) during dispatch.
	entriesCopy := make([]entry, len(entries))
	copy(entriesCopy, entries)
	m.mu.RUnlock()

	for _, e := range entriesCopy {
		e.fn(event)
	}
}
