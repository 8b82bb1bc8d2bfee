package pubsub

import (
	"sync"
	"time"

	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
)

// Event types published on the bus
const (
	EventPickLocked      = "pick:locked"
	EventPickRevealed    = "pick:revealed"
	EventPickAdvanced    = "pick:advanced"
	EventSessionStarted  = "session:started"
	EventSessionComplete = "session:complete"
	EventCampusJoined    = "campus:joined"
	EventGroupCreated    = "group:created"
	EventGroupJoined     = "group:joined"
	EventCatalogReset    = "catalog:reset"
)

// Event represents a pubsub event
type Event struct {
	Type    string         `json:"type"`
	Session string         `json:"session,omitempty"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// NewEvent stamps an event with the current time
func NewEvent(eventType, session string, payload map[string]any) Event {
	return Event{Type: eventType, Session: session, At: time.Now().UTC(), Payload: payload}
}

// Upstream is an interface for upstream publishers (e.g., NATS)
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// Bus is what the rest of the server publishes to and streams from
type Bus interface {
	Upstream
	Close()
}

// PubSub implements a simple publish-subscribe system
type PubSub struct {
	mu          sync.RWMutex
	subscribers []chan Event
	upstream    Upstream // Optional upstream publisher (e.g., NATS)
	bufferSize  int
}

// New creates a new PubSub instance
func New() *PubSub {
	return &PubSub{
		subscribers: []chan Event{},
		bufferSize:  10,
	}
}

// NewWithUpstream creates a PubSub that bridges to an upstream publisher (e.g., NATS).
// Publish goes to the upstream, which broadcasts back to every instance including this one.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := New()
	ps.upstream = upstream

	go func() {
		ch := upstream.Subscribe()
		logger.Debug("PubSub: Subscribed to upstream, waiting for events")
		for event := range ch {
			logger.Debug("PubSub: Received event from upstream, forwarding to local", "type", event.Type, "session", event.Session)
			ps.publishLocal(event)
		}
		logger.Debug("PubSub: Upstream channel closed")
	}()

	return ps
}

// Subscribe adds a new subscriber and returns a channel for receiving events
func (ps *PubSub) Subscribe() chan Event {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan Event, ps.bufferSize)
	ps.subscribers = append(ps.subscribers, ch)
	logger.Debug("PubSub: New subscriber added", "totalSubscribers", len(ps.subscribers))
	return ch
}

// Unsubscribe removes a subscriber
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for i, sub := range ps.subscribers {
		if sub == ch {
			close(ch)
			ps.subscribers = append(ps.subscribers[:i], ps.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers, through the upstream when one is configured
func (ps *PubSub) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	if ps.upstream != nil {
		logger.Debug("PubSub: Forwarding to upstream", "type", event.Type)
		ps.upstream.Publish(event)
		return
	}
	ps.publishLocal(event)
}

// publishLocal sends an event to local subscribers only
func (ps *PubSub) publishLocal(event Event) {
	ps.mu.RLock()
	subs := make([]chan Event, len(ps.subscribers))
	copy(subs, ps.subscribers)
	ps.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			// Skip if channel is full
		}
	}
}

// Close closes every local subscriber channel
func (ps *PubSub) Close() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for _, ch := range ps.subscribers {
		close(ch)
	}
	ps.subscribers = nil
}

// SubscriberCount returns the number of local subscribers
func (ps *PubSub) SubscriberCount() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers)
}
