package events

import (
	"fmt"
	"sync"
)

// Publisher is the side of the bus producers depend on.
type Publisher interface {
	Publish(event interface{})
}

// Bus dispatches events to listeners keyed by the event's Go type name.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]func(interface{})
	inflight  sync.WaitGroup
}

func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string][]func(interface{})),
	}
}

// Subscribe registers handler for events whose type name equals eventType.
// Use TypeOf to build the name from a sample value.
func (b *Bus) Subscribe(eventType string, handler func(interface{})) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[eventType] = append(b.listeners[eventType], handler)
}

// Publish runs every matching handler in its own goroutine and returns
// without waiting for them.
func (b *Bus) Publish(event interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, handler := range b.listeners[TypeOf(event)] {
		b.inflight.Add(1)
		go func(h func(interface{})) {
			defer b.inflight.Done()
			h(event)
		}(handler)
	}
}

// Wait blocks until every handler started so far has returned.
func (b *Bus) Wait() {
	b.inflight.Wait()
}

func TypeOf(event interface{}) string {
	return fmt.Sprintf("%T", event)
}

// NullBus drops every event.
type NullBus struct{}

func (NullBus) Publish(interface{}) {}
