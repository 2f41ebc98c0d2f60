// Package broadcast pkg/broadcast/hub.go

package broadcast

import (
	"log"
	"sync"
	"sync/atomic"
)

const subscriberBuffer = 16

// Message is one published payload tagged with its topic.
type Message struct {
	Topic   string
	Payload interface{}
}

// Subscriber is one registered live client. Messages arrive on C in
// publish order; a subscriber that falls behind loses messages rather
// than slowing the publisher.
type Subscriber struct {
	id     string
	topics map[string]struct{}
	ch     chan Message
}

// C returns the subscriber's receive channel. It is closed on
// Unsubscribe.
func (s *Subscriber) C() <-chan Message {
	return s.ch
}

// ID returns the identifier given at subscription.
func (s *Subscriber) ID() string {
	return s.id
}

// Hub fans the latest sample out to all currently-subscribed clients.
// This is a live channel only: no replay, no delivery guarantee across
// reconnects. The subscriber registry has its own lock, independent of
// the sample store.
type Hub struct {
	mu      sync.RWMutex
	subs    map[*Subscriber]struct{}
	dropped uint64
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[*Subscriber]struct{}),
	}
}

// Subscribe registers a client for the given topics. Subscribers may
// join at any time without coordinating with the publish cadence.
func (h *Hub) Subscribe(id string, topics ...string) *Subscriber {
	sub := &Subscriber{
		id:     id,
		topics: make(map[string]struct{}, len(topics)),
		ch:     make(chan Message, subscriberBuffer),
	}

	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	log.Printf("broadcast: subscriber %s joined (%d topics)", id, len(topics))

	return sub
}

// Unsubscribe removes a client and closes its channel. Safe to call
// once per subscriber; the channel close happens under the write lock,
// after which no publisher can send on it.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub]; !ok {
		return
	}

	delete(h.subs, sub)
	close(sub.ch)

	log.Printf("broadcast: subscriber %s left", sub.id)
}

// Publish delivers payload to every live subscriber of topic. Delivery
// is best-effort: a full subscriber buffer drops the message instead of
// blocking the poll loop.
func (h *Hub) Publish(topic string, payload interface{}) {
	msg := Message{Topic: topic, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if _, ok := sub.topics[topic]; !ok {
			continue
		}

		select {
		case sub.ch <- msg:
		default:
			atomic.AddUint64(&h.dropped, 1)
			log.Printf("broadcast: dropping %s for slow subscriber %s", topic, sub.id)
		}
	}
}

// Dropped returns the number of messages discarded due to backpressure.
func (h *Hub) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}

// SubscriberCount returns the number of currently-registered clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}
