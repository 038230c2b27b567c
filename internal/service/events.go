package service

import (
	"sync"
	"time"
)

// EventType defines the type of event
type EventType string

const (
	EventCollectionStarted   EventType = "collection_started"
	EventCollectionSucceeded EventType = "collection_succeeded"
	EventCollectionFailed    EventType = "collection_failed"
	EventSnapshotRestored    EventType = "snapshot_restored"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Time    time.Time   `json:"time"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventName names the event on the SSE stream
func (e Event) EventName() string {
	return string(e.Type)
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers. Slow subscribers miss events.
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
