// Package msgbus is an in-process topic bus with fan-out delivery. Publishing
// never blocks: a subscriber whose channel is full misses that message. Recent
// messages matter more than complete ones here.
package msgbus

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// Errors returned by subscription management.
var (
	ErrSubscriberExists   = errors.New("subscriber id already exists on topic")
	ErrSubscriberNotFound = errors.New("subscriber id not found on topic")
	ErrBusClosed          = errors.New("bus is closed")
)

// Stats is a snapshot of bus delivery counters.
type Stats struct {
	Published int64
	Sent      int64
	Dropped   int64
}

// Bus distributes messages per topic to registered subscriber channels.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	topics map[string]map[string]chan<- interface{}

	published atomic.Int64
	sent      atomic.Int64
	dropped   atomic.Int64
}

// New returns an empty open bus.
func New() *Bus {
	return &Bus{topics: map[string]map[string]chan<- interface{}{}}
}

// Subscribe registers a channel to receive messages published on a topic. The
// id must be unique per topic.
func (b *Bus) Subscribe(topic, id string, ch chan<- interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	subs := b.topics[topic]
	if subs == nil {
		subs = map[string]chan<- interface{}{}
		b.topics[topic] = subs
	}
	if _, ok := subs[id]; ok {
		return errors.Wrapf(ErrSubscriberExists, "topic %q id %q", topic, id)
	}
	subs[id] = ch
	return nil
}

// Unsubscribe removes a subscriber from a topic.
func (b *Bus) Unsubscribe(topic, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	subs := b.topics[topic]
	if _, ok := subs[id]; !ok {
		return errors.Wrapf(ErrSubscriberNotFound, "topic %q id %q", topic, id)
	}
	delete(subs, id)
	return nil
}

// Publish delivers the message to every subscriber of the topic that has
// channel capacity; the rest are counted as drops. Publishing on a closed bus
// drops the message.
func (b *Bus) Publish(topic string, msg interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.published.Inc()
	if b.closed {
		b.dropped.Inc()
		return
	}
	for _, ch := range b.topics[topic] {
		select {
		case ch <- msg:
			b.sent.Inc()
		default:
			b.dropped.Inc()
		}
	}
}

// Stats returns a snapshot of the delivery counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Sent:      b.sent.Load(),
		Dropped:   b.dropped.Load(),
	}
}

// Close prevents further subscriptions and deliveries.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	b.closed = true
	b.topics = nil
	return nil
}
