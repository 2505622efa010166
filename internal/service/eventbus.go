package service

import (
	"sync"
)

// AllAssets subscribes to events for every asset.
const AllAssets = "*"

type EventType string

const (
	EventInserted EventType = "inserted"
	EventUpdated  EventType = "updated"
	EventDeleted  EventType = "deleted"
)

type Event struct {
	Type            EventType `json:"type"`
	LocalIdentifier string    `json:"localIdentifier"`
}

type EventPublisher interface {
	Publish(localIdentifier string, event Event)
}

type EventBus struct {
	subscribers map[string][]chan Event
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]chan Event),
	}
}

func (eb *EventBus) Subscribe(localIdentifier string) chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan Event, 16)
	eb.subscribers[localIdentifier] = append(eb.subscribers[localIdentifier], ch)
	return ch
}

func (eb *EventBus) Unsubscribe(localIdentifier string, ch chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs := eb.subscribers[localIdentifier]
	for i, sub := range subs {
		if sub == ch {
			eb.subscribers[localIdentifier] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}

	if len(eb.subscribers[localIdentifier]) == 0 {
		delete(eb.subscribers, localIdentifier)
	}
}

// Publish never blocks; slow subscribers miss events.
func (eb *EventBus) Publish(localIdentifier string, event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	deliver := func(subs []chan Event) {
		for _, ch := range subs {
			select {
			case ch <- event:
			default:
			}
		}
	}
	deliver(eb.subscribers[localIdentifier])
	if localIdentifier != AllAssets {
		deliver(eb.subscribers[AllAssets])
	}
}

var _ EventPublisher = (*EventBus)(nil)
