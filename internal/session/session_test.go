package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/Billy-Davies-2/bracket-champs/internal/dal"
	"github.com/Billy-Davies-2/bracket-champs/internal/mocks"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
	"github.com/Billy-Davies-2/bracket-champs/internal/pickflow"
	"github.com/Billy-Davies-2/bracket-champs/internal/pubsub"
)

// recordingBus keeps every published event
type recordingBus struct {
	mu     sync.Mutex
	events []pubsub.Event
}

func (b *recordingBus) Publish(ev pubsub.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func (b *recordingBus) Subscribe() chan pubsub.Event    { return make(chan pubsub.Event) }
func (b *recordingBus) Unsubscribe(ch chan pubsub.Event) {}

func (b *recordingBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, ev := range b.events {
		out = append(out, ev.Type)
	}
	return out
}

func awaitState(t *testing.T, ch <-chan pickflow.Snapshot, state pickflow.State) pickflow.Snapshot {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s := <-ch:
			if s.State == state {
				return s
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", state)
			return pickflow.Snapshot{}
		}
	}
}

func waitForTimers(t *testing.T, clock *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clock.BlockUntilContext(ctx, n); err != nil {
		t.Fatalf("waiting for %d timers: %v", n, err)
	}
}

func TestPlayThroughAndClaim(t *testing.T) {
	clock := clockwork.NewFakeClock()
	bus := &recordingBus{}
	recorder := mocks.NewMockClickHouseClient()
	m := NewManager(Options{Clock: clock, Bus: bus, Recorder: recorder})
	defer m.CloseAll()

	s := m.Create(dal.DefaultCatalog().Matchups, models.ModeClassic)
	if s.ID == "" {
		t.Fatal("expected a session id")
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 session, got %d", m.Len())
	}

	watch, stop := s.Watch()
	defer stop()

	if _, err := m.Claim(s.ID); !errors.Is(err, ErrHandOffPending) {
		t.Errorf("expected ErrHandOffPending, got %v", err)
	}

	choices := []string{"Duke", "Kentucky", "New Mexico", "Gonzaga"}
	for i, team := range choices {
		v, err := m.Pick(context.Background(), s.ID, team)
		if err != nil {
			t.Fatalf("pick %d: %v", i, err)
		}
		if v.ID != s.ID || v.State != pickflow.StateConfirming {
			t.Fatalf("pick %d: unexpected view %+v", i, v)
		}
		waitForTimers(t, clock, 2)
		clock.Advance(3 * time.Second)
		if i < len(choices)-1 {
			next := awaitState(t, watch, pickflow.StateBrowsing)
			if next.Index != i+1 {
				t.Fatalf("pick %d: expected Browsing(%d), got %+v", i, i+1, next)
			}
		}
	}
	awaitState(t, watch, pickflow.StateComplete)

	ho, err := m.Claim(s.ID)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if diff := cmp.Diff(choices, ho.Picks); diff != "" {
		t.Errorf("hand-off picks mismatch (-want +got):\n%s", diff)
	}
	if _, err := m.Claim(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second claim, got %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expected claimed session to be dropped, %d left", m.Len())
	}

	if got := len(recorder.Recorded()); got != len(choices) {
		t.Errorf("expected %d recorded picks, got %d", len(choices), got)
	}
	counts, _ := recorder.PickCounts(context.Background(), 1)
	if counts["Duke"] != 1 {
		t.Errorf("expected Duke counted once for matchup 1, got %v", counts)
	}

	types := bus.types()
	if len(types) == 0 || types[0] != pubsub.EventSessionStarted {
		t.Fatalf("expected session:started first, got %v", types)
	}
	if types[len(types)-1] != pubsub.EventSessionComplete {
		t.Errorf("expected session:complete last, got %v", types)
	}
	locked := 0
	for _, typ := range types {
		if typ == pubsub.EventPickLocked {
			locked++
		}
	}
	if locked != len(choices) {
		t.Errorf("expected %d pick:locked events, got %d", len(choices), locked)
	}
}

func TestUnknownSession(t *testing.T) {
	m := NewManager(Options{Clock: clockwork.NewFakeClock()})

	if _, err := m.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if _, err := m.Pick(context.Background(), "nope", "Duke"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Pick: expected ErrNotFound, got %v", err)
	}
	if _, err := m.Claim("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Claim: expected ErrNotFound, got %v", err)
	}
}

func TestPickErrorsPassThrough(t *testing.T) {
	m := NewManager(Options{Clock: clockwork.NewFakeClock()})
	defer m.CloseAll()
	s := m.Create(dal.DefaultCatalog().Matchups, models.ModeClassic)

	if _, err := m.Pick(context.Background(), s.ID, "Gonzaga"); !errors.Is(err, pickflow.ErrUnknownTeam) {
		t.Errorf("expected ErrUnknownTeam, got %v", err)
	}
	if _, err := m.Pick(context.Background(), s.ID, "Vermont"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Pick(context.Background(), s.ID, "Duke"); !errors.Is(err, pickflow.ErrOverlayActive) {
		t.Errorf("expected ErrOverlayActive, got %v", err)
	}
}

func TestWatchStop(t *testing.T) {
	m := NewManager(Options{Clock: clockwork.NewFakeClock()})
	defer m.CloseAll()
	s := m.Create(dal.DefaultCatalog().Matchups, models.ModeClassic)

	ch, stop := s.Watch()
	stop()
	stop()

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after stop")
	}
	// no watchers left; picking must not block or panic
	if _, err := m.Pick(context.Background(), s.ID, "Duke"); err != nil {
		t.Fatal(err)
	}
}

// playAll picks the first team of every matchup and waits for Complete
func playAll(t *testing.T, m *Manager, clock *clockwork.FakeClock, s *Session) {
	t.Helper()
	watch, stop := s.Watch()
	defer stop()
	for i, mu := range dal.DefaultCatalog().Matchups {
		if _, err := m.Pick(context.Background(), s.ID, mu.TeamA.Name); err != nil {
			t.Fatalf("pick %d: %v", i, err)
		}
		waitForTimers(t, clock, 2)
		clock.Advance(3 * time.Second)
	}
	awaitState(t, watch, pickflow.StateComplete)
}

func TestClaimedSessionsAreDropped(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewManager(Options{Clock: clock})
	defer m.CloseAll()

	for i := 0; i < 3; i++ {
		s := m.Create(dal.DefaultCatalog().Matchups, models.ModeClassic)
		playAll(t, m, clock, s)
		if _, err := m.Claim(s.ID); err != nil {
			t.Fatalf("claim %d: %v", i, err)
		}
	}
	if m.Len() != 0 {
		t.Errorf("expected no sessions after claims, got %d", m.Len())
	}
}

func TestSweepDropsUnclaimedAndIdleSessions(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewManager(Options{Clock: clock, CompletedTTL: time.Minute, IdleTTL: 10 * time.Minute})
	defer m.CloseAll()

	done := m.Create(dal.DefaultCatalog().Matchups, models.ModeClassic)
	playAll(t, m, clock, done)
	idle := m.Create(dal.DefaultCatalog().Matchups, models.ModeClassic)

	if n := m.Sweep(); n != 0 {
		t.Fatalf("expected nothing swept yet, got %d", n)
	}

	clock.Advance(time.Minute)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("expected the unclaimed session swept, got %d", n)
	}
	if _, err := m.Get(done.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected unclaimed session gone, got %v", err)
	}
	if _, err := m.Get(idle.ID); err != nil {
		t.Errorf("idle session dropped too early: %v", err)
	}

	clock.Advance(10 * time.Minute)
	if n := m.Sweep(); n != 1 || m.Len() != 0 {
		t.Errorf("expected idle session swept, swept %d, %d left", n, m.Len())
	}
}

func TestPickKeepsSessionActive(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewManager(Options{Clock: clock, IdleTTL: 10 * time.Minute})
	defer m.CloseAll()
	s := m.Create(dal.DefaultCatalog().Matchups, models.ModeClassic)

	clock.Advance(9 * time.Minute)
	if _, err := m.Pick(context.Background(), s.ID, "Duke"); err != nil {
		t.Fatal(err)
	}
	clock.Advance(9 * time.Minute)
	if n := m.Sweep(); n != 0 {
		t.Errorf("expected active session kept, swept %d", n)
	}
}

func TestClaimDuringTransitions(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewManager(Options{Clock: clock})
	defer m.CloseAll()
	s := m.Create(dal.DefaultCatalog().Matchups, models.ModeClassic)
	watch, stop := s.Watch()
	defer stop()

	ctx, cancel := context.WithCancel(context.Background())
	claims := make(chan struct{})
	go func() {
		defer close(claims)
		for ctx.Err() == nil {
			m.Claim(s.ID)
		}
	}()

	for i, mu := range dal.DefaultCatalog().Matchups {
		if _, err := m.Pick(context.Background(), s.ID, mu.TeamB.Name); err != nil {
			t.Fatalf("pick %d: %v", i, err)
		}
		waitForTimers(t, clock, 2)
		clock.Advance(time.Second)
		clock.Advance(2 * time.Second)
	}
	awaitState(t, watch, pickflow.StateComplete)
	cancel()

	select {
	case <-claims:
	case <-time.After(2 * time.Second):
		t.Fatal("claim loop hung")
	}
}
