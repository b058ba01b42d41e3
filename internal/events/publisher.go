package events

import (
	"context"
	"sync"
)

// Publisher delivers domain events to an off-chain sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop discards events. Used when no sink is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// Memory records events in order. Used in tests and for local introspection.
type Memory struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Publish(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (m *Memory) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Event{}, m.events...)
}

// Clear drops recorded events. Use between tests to ensure isolation.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
