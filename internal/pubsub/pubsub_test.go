package pubsub

import (
	"sync"
	"testing"
	"time"
)

func receive(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
		return Event{}
	}
}

func TestNew(t *testing.T) {
	ps := New()
	if ps.SubscriberCount() != 0 {
		t.Errorf("expected no subscribers, got %d", ps.SubscriberCount())
	}
	if ps.upstream != nil {
		t.Error("upstream should be nil for basic PubSub")
	}
}

func TestNewEventStampsTime(t *testing.T) {
	before := time.Now().UTC()
	ev := NewEvent(EventPickLocked, "s1", map[string]any{"team": "Duke"})
	if ev.At.Before(before) {
		t.Errorf("event time %v is before %v", ev.At, before)
	}
	if ev.Type != EventPickLocked || ev.Session != "s1" {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	ps := New()
	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()
	ch3 := ps.Subscribe()

	ps.Unsubscribe(ch2)
	if ps.SubscriberCount() != 2 {
		t.Errorf("expected 2 subscribers, got %d", ps.SubscriberCount())
	}
	if _, ok := <-ch2; ok {
		t.Error("channel should be closed after unsubscribe")
	}

	ps.Publish(NewEvent(EventPickAdvanced, "s1", nil))
	receive(t, ch1)
	receive(t, ch3)
}

func TestPublishBroadcastsPayload(t *testing.T) {
	ps := New()
	subs := []chan Event{ps.Subscribe(), ps.Subscribe()}

	ps.Publish(NewEvent(EventCampusJoined, "", map[string]any{"group": "Oregon Ducks"}))

	for i, ch := range subs {
		ev := receive(t, ch)
		if ev.Type != EventCampusJoined || ev.Payload["group"] != "Oregon Ducks" {
			t.Errorf("subscriber %d: unexpected event %+v", i, ev)
		}
	}
}

func TestPublishFillsMissingTime(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()
	ps.Publish(Event{Type: EventGroupJoined})
	if ev := receive(t, ch); ev.At.IsZero() {
		t.Error("expected Publish to stamp a time")
	}
}

func TestPublishDropsWhenChannelFull(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()

	for i := 0; i < 15; i++ {
		ps.Publish(Event{Type: EventPickLocked})
	}

	if len(ch) != 10 {
		t.Errorf("expected 10 buffered events, got %d", len(ch))
	}
}

func TestConcurrentSubscribeUnsubscribe(t *testing.T) {
	ps := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch := ps.Subscribe()
			time.Sleep(time.Millisecond)
			ps.Unsubscribe(ch)
		}()
		go func() {
			defer wg.Done()
			ps.Publish(Event{Type: EventPickRevealed})
		}()
	}
	wg.Wait()

	if n := ps.SubscriberCount(); n != 0 {
		t.Errorf("expected 0 subscribers after all unsubscribe, got %d", n)
	}
}

func TestCloseClosesSubscribers(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()
	ps.Close()

	if _, ok := <-ch; ok {
		t.Error("expected closed channel")
	}
	if ps.SubscriberCount() != 0 {
		t.Error("expected subscribers cleared")
	}
}

// fakeUpstream loops every publish back to its subscribers like a NATS subject would
type fakeUpstream struct {
	mu          sync.Mutex
	published   []Event
	subscribers []chan Event
}

func (f *fakeUpstream) Publish(event Event) {
	f.mu.Lock()
	f.published = append(f.published, event)
	subs := append([]chan Event{}, f.subscribers...)
	f.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (f *fakeUpstream) Subscribe() chan Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan Event, 100)
	f.subscribers = append(f.subscribers, ch)
	return ch
}

func (f *fakeUpstream) Unsubscribe(ch chan Event) {}

func (f *fakeUpstream) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

func (f *fakeUpstream) subscribed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers) > 0
}

func TestPublishWithUpstreamRoundTrips(t *testing.T) {
	upstream := &fakeUpstream{}
	ps := NewWithUpstream(upstream)

	deadline := time.Now().Add(time.Second)
	for !upstream.subscribed() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	ch := ps.Subscribe()
	ps.Publish(NewEvent(EventSessionComplete, "s9", nil))

	if upstream.count() != 1 {
		t.Errorf("expected 1 event sent upstream, got %d", upstream.count())
	}
	if ev := receive(t, ch); ev.Session != "s9" {
		t.Errorf("unexpected event %+v", ev)
	}

	// Events from other instances arrive through the same path
	upstream.Publish(Event{Type: EventGroupCreated})
	if ev := receive(t, ch); ev.Type != EventGroupCreated {
		t.Errorf("expected group:created, got %s", ev.Type)
	}
}
