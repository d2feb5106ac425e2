package notify

import (
	"sync"
	"sync/atomic"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/pkg/log"
)

const defaultBuffer = 256

// Publisher delivers one-shot notifications to listening UI surfaces.
type Publisher interface {
	Publish(event model.Event)
}

// Hub fans events out to every subscriber. Delivery never blocks the publisher:
// a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID atomic.Uint64
	buffer int
}

var _ Publisher = (*Hub)(nil)

// NewHub creates a hub whose subscriptions buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{subs: make(map[uint64]*Subscription), buffer: buffer}
}

// Subscription receives events until it is closed.
type Subscription struct {
	id     uint64
	hub    *Hub
	ch     chan model.Event
	once   sync.Once
	names  map[string]struct{}
	misses atomic.Uint64
}

// Subscribe registers a listener. With no names it receives every event.
func (h *Hub) Subscribe(names ...string) *Subscription {
	sub := &Subscription{
		id:  h.nextID.Add(1),
		hub: h,
		ch:  make(chan model.Event, h.buffer),
	}
	if len(names) > 0 {
		sub.names = make(map[string]struct{}, len(names))
		for _, n := range names {
			sub.names[n] = struct{}{}
		}
	}

	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()
	return sub
}

// Publish sends event to every matching subscriber.
func (h *Hub) Publish(event model.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.names != nil {
			if _, ok := sub.names[event.Name]; !ok {
				continue
			}
		}
		select {
		case sub.ch <- event:
		default:
			if sub.misses.Add(1) == 1 {
				log.Warn("Event subscriber is not keeping up, dropping events", "subscriber", sub.id, "event", event.Name)
			}
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close removes every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[uint64]*Subscription)
	h.mu.Unlock()
	for _, sub := range subs {
		sub.closeChannel()
	}
}

// Events returns the delivery channel. It is closed when the subscription ends.
func (s *Subscription) Events() <-chan model.Event {
	return s.ch
}

// Dropped returns how many events were missed because the buffer was full.
func (s *Subscription) Dropped() uint64 {
	return s.misses.Load()
}

// Close unregisters the subscription.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	delete(s.hub.subs, s.id)
	s.hub.mu.Unlock()
	s.closeChannel()
}

func (s *Subscription) closeChannel() {
	s.once.Do(func() { close(s.ch) })
}
