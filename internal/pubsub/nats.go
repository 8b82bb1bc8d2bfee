package pubsub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
)

const (
	DefaultSubject    = "bracket.events"
	DefaultStreamName = "BRACKET_EVENTS"
)

// jetStreamBus is the JetStream plumbing shared by the external and embedded buses.
// Every published event comes back through the stream subscription and is fanned
// out to local subscribers, so all instances see the same sequence.
type jetStreamBus struct {
	nc          *nats.Conn
	js          nats.JetStreamContext
	sub         *nats.Subscription
	subject     string
	subscribers []chan Event
	mu          sync.RWMutex
}

func (b *jetStreamBus) ensureStream(name string, storage nats.StorageType, maxAge time.Duration) error {
	if _, err := b.js.StreamInfo(name); err == nil {
		return nil
	}
	_, err := b.js.AddStream(&nats.StreamConfig{
		Name:     name,
		Subjects: []string{b.subject},
		Storage:  storage,
		MaxAge:   maxAge,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", name, err)
	}
	logger.Info("JetStream stream ready", "stream", name, "subject", b.subject)
	return nil
}

func (b *jetStreamBus) startSubscription() error {
	sub, err := b.js.Subscribe(b.subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Failed to unmarshal event from JetStream", "error", err)
			msg.Nak()
			return
		}
		b.fanOut(event)
		msg.Ack()
	}, nats.ManualAck(), nats.DeliverNew())
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.subject, err)
	}
	b.sub = sub
	return nil
}

func (b *jetStreamBus) fanOut(event Event) {
	b.mu.RLock()
	subs := make([]chan Event, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			logger.Warn("JetStream: skipping slow subscriber", "event_type", event.Type)
		}
	}
}

// Publish publishes an event to the JetStream subject
func (b *jetStreamBus) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return
	}
	if _, err := b.js.Publish(b.subject, data); err != nil {
		logger.Error("Failed to publish to NATS", "error", err, "subject", b.subject, "event_type", event.Type)
		return
	}
	logger.Debug("Published event", "event_type", event.Type, "subject", b.subject)
}

// Subscribe creates a subscription channel for events
func (b *jetStreamBus) Subscribe() chan Event {
	ch := make(chan Event, 100)
	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscription channel
func (b *jetStreamBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// SubscriberCount returns the number of active local subscribers
func (b *jetStreamBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

func (b *jetStreamBus) closeLocal() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sub != nil {
		b.sub.Unsubscribe()
	}
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
	if b.nc != nil {
		b.nc.Close()
	}
}

// NATSPubSub implements pub/sub against an external NATS JetStream deployment
type NATSPubSub struct {
	jetStreamBus
}

// NewNATSPubSub connects to NATS and ensures the bracket event stream exists
func NewNATSPubSub(natsURL, subject string) (*NATSPubSub, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	nc, err := nats.Connect(natsURL, nats.Name("bracket-champs"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	p := &NATSPubSub{jetStreamBus{nc: nc, js: js, subject: subject}}
	if err := p.ensureStream(DefaultStreamName, nats.FileStorage, 24*time.Hour); err != nil {
		nc.Close()
		return nil, err
	}
	if err := p.startSubscription(); err != nil {
		nc.Close()
		return nil, err
	}
	logger.Info("Connected to NATS JetStream", "url", natsURL, "subject", subject)
	return p, nil
}

// SubscribeJetStream creates a durable consumer so a worker group can share the event log
func (p *NATSPubSub) SubscribeJetStream(consumerName string, handler func(Event)) error {
	_, err := p.js.Subscribe(p.subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Failed to unmarshal event", "error", err, "consumer", consumerName)
			msg.Nak()
			return
		}
		handler(event)
		msg.Ack()
	}, nats.Durable(consumerName), nats.ManualAck())
	return err
}

// Close closes the NATS connection
func (p *NATSPubSub) Close() {
	p.closeLocal()
}
