// Package event provides a small synchronous pub/sub bus for editor
// notifications.
package event

import (
	"sync"

	"github.com/google/uuid"
)

// Topic names an event stream.
type Topic string

// Topics published by the editor.
const (
	TopicEditApplied    Topic = "edit.applied"
	TopicLinesRepaired  Topic = "lines.repaired"
	TopicTabOpened      Topic = "tab.opened"
	TopicTabClosed      Topic = "tab.closed"
	TopicTabActivated   Topic = "tab.activated"
	TopicFileSaved      Topic = "file.saved"
	TopicConfigReloaded Topic = "config.reloaded"
)

// HandlerFunc receives a published event payload.
type HandlerFunc func(topic Topic, payload any)

// Subscription identifies one registered handler.
type Subscription struct {
	id    string
	topic Topic
}

// ID returns the subscription's unique identifier.
func (s Subscription) ID() string { return s.id }

// Topic returns the subscribed topic.
func (s Subscription) Topic() Topic { return s.topic }

// Bus delivers events to subscribers synchronously, in subscription
// order. Handlers must not block; long work belongs on the caller's
// own goroutines.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]entry
}

type entry struct {
	id string
	fn HandlerFunc
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]entry)}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, fn HandlerFunc) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.NewString()
	b.subs[topic] = append(b.subs[topic], entry{id: id, fn: fn})
	return Subscription{id: id, topic: topic}
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.subs[sub.topic]
	for i, e := range entries {
		if e.id == sub.id {
			b.subs[sub.topic] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Publish delivers a payload to every subscriber of the topic.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.RLock()
	entries := append([]entry(nil), b.subs[topic]...)
	b.mu.RUnlock()

	for _, e := range entries {
		e.fn(topic, payload)
	}
}
