package pubsub

import (
	"sync"
	"testing"
	"time"
)

func newEmbedded(t *testing.T) *EmbeddedNATSPubSub {
	t.Helper()
	ps, err := NewEmbeddedNATSPubSub(DefaultEmbeddedNATSOptions())
	if err != nil {
		t.Fatalf("Failed to create embedded NATS: %v", err)
	}
	t.Cleanup(ps.Close)
	return ps
}

func TestDefaultEmbeddedNATSOptions(t *testing.T) {
	opts := DefaultEmbeddedNATSOptions()
	if opts.Subject != "bracket.events" || opts.StreamName != "BRACKET_EVENTS" {
		t.Errorf("unexpected defaults %+v", opts)
	}
	if opts.Port != -1 || opts.StoreDir != "" {
		t.Errorf("expected random port and in-memory storage, got %+v", opts)
	}
}

func TestNewEmbeddedNATSPubSub(t *testing.T) {
	ps := newEmbedded(t)

	if ps.server == nil || ps.nc == nil || ps.js == nil {
		t.Fatal("embedded bus not fully initialized")
	}
	if ps.ServerURL() == "" {
		t.Error("server URL should not be empty")
	}
}

func TestEmbeddedNATSSubscribeUnsubscribe(t *testing.T) {
	ps := newEmbedded(t)

	ch := ps.Subscribe()
	if ps.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", ps.SubscriberCount())
	}

	ps.Unsubscribe(ch)
	if ps.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", ps.SubscriberCount())
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestEmbeddedNATSPublishAndReceive(t *testing.T) {
	ps := newEmbedded(t)
	ch := ps.Subscribe()

	ps.Publish(NewEvent(EventPickLocked, "session-1", map[string]any{"team": "Vermont", "index": 0}))

	select {
	case ev := <-ch:
		if ev.Type != EventPickLocked || ev.Session != "session-1" {
			t.Errorf("unexpected event %+v", ev)
		}
		if ev.Payload["team"] != "Vermont" {
			t.Errorf("payload mismatch: %v", ev.Payload)
		}
		// JSON numbers come back as float64
		if ev.Payload["index"] != 0.0 {
			t.Errorf("index mismatch: %v", ev.Payload["index"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestEmbeddedNATSConcurrentPublish(t *testing.T) {
	ps := newEmbedded(t)
	ch := ps.Subscribe()

	const publishers, each = 5, 10
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				ps.Publish(Event{Type: EventPickAdvanced})
			}
		}()
	}
	wg.Wait()

	received := 0
	timeout := time.After(3 * time.Second)
	for received < publishers*each {
		select {
		case <-ch:
			received++
		case <-timeout:
			t.Fatalf("received %d of %d events", received, publishers*each)
		}
	}
}

func TestEmbeddedNATSCloseClosesSubscribers(t *testing.T) {
	ps, err := NewEmbeddedNATSPubSub(DefaultEmbeddedNATSOptions())
	if err != nil {
		t.Fatalf("Failed to create embedded NATS: %v", err)
	}
	ch := ps.Subscribe()
	ps.Close()

	if _, ok := <-ch; ok {
		t.Error("subscriber channel should be closed")
	}
}

func TestEmbeddedNATSSatisfiesBus(t *testing.T) {
	var _ Bus = newEmbedded(t)
	var _ Bus = New()
}
