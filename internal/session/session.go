// Package session owns the live pick-flow controllers, one per play-through,
// and the one-shot hand-off each of them produces when it completes.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Billy-Davies-2/bracket-champs/internal/clickhouse"
	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
	"github.com/Billy-Davies-2/bracket-champs/internal/pickflow"
	"github.com/Billy-Davies-2/bracket-champs/internal/pubsub"
)

var (
	ErrNotFound       = errors.New("session not found")
	ErrHandOffPending = errors.New("session has not finished picking")
	ErrHandOffClaimed = errors.New("hand-off already claimed")
)

const watchBuffer = 16

const (
	DefaultCompletedTTL = 10 * time.Minute
	DefaultIdleTTL      = time.Hour
)

// Options configures a Manager. Bus and Recorder are optional.
type Options struct {
	Clock        clockwork.Clock
	RevealAfter  time.Duration
	AdvanceAfter time.Duration
	Bus          pubsub.Upstream
	Recorder     clickhouse.PickRecorder

	// CompletedTTL is how long a finished session waits for its hand-off
	// to be claimed. IdleTTL drops sessions nobody has picked on.
	CompletedTTL time.Duration
	IdleTTL      time.Duration
}

// Session is one play-through of the matchup flow
type Session struct {
	ID      string
	Created time.Time

	ctrl *pickflow.Controller

	mu          sync.Mutex
	handOff     *models.HandOff
	claimed     bool
	lastActive  time.Time
	completedAt time.Time
	watchers    map[chan pickflow.Snapshot]struct{}
}

// View is a snapshot tagged with its session id
type View struct {
	ID string `json:"id"`
	pickflow.Snapshot
}

// View returns the current state of the session
func (s *Session) View() View {
	return View{ID: s.ID, Snapshot: s.ctrl.Snapshot()}
}

// Watch streams every transition of the session. The returned func stops the stream.
func (s *Session) Watch() (<-chan pickflow.Snapshot, func()) {
	ch := make(chan pickflow.Snapshot, watchBuffer)
	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}

// expired reports whether the session is past its completed or idle deadline
func (s *Session) expired(now time.Time, completedTTL, idleTTL time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.completedAt.IsZero() {
		return now.Sub(s.completedAt) >= completedTTL
	}
	return now.Sub(s.lastActive) >= idleTTL
}

func (s *Session) broadcast(snap pickflow.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.watchers {
		select {
		case ch <- snap:
		default:
			// slow watcher, drop
		}
	}
}

// Manager is the registry of live sessions
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
}

// NewManager creates an empty registry
func NewManager(opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.CompletedTTL <= 0 {
		opts.CompletedTTL = DefaultCompletedTTL
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	return &Manager{sessions: make(map[string]*Session), opts: opts}
}

// Create starts a new play-through over matchups in Browsing(0)
func (m *Manager) Create(matchups []models.Matchup, mode models.BracketMode) *Session {
	m.Sweep()

	now := m.opts.Clock.Now()
	ctrl := pickflow.New(matchups, mode, pickflow.Options{
		Clock:        m.opts.Clock,
		RevealAfter:  m.opts.RevealAfter,
		AdvanceAfter: m.opts.AdvanceAfter,
	})
	s := &Session{
		ID:         uuid.NewString(),
		Created:    now,
		ctrl:       ctrl,
		lastActive: now,
		watchers:   make(map[chan pickflow.Snapshot]struct{}),
	}

	ctrl.OnTransition(func(snap pickflow.Snapshot) {
		s.broadcast(snap)
		m.publishTransition(s.ID, snap)
	})
	ctrl.OnHandOff(func(ho models.HandOff) {
		s.mu.Lock()
		s.handOff = &ho
		s.completedAt = m.opts.Clock.Now()
		s.mu.Unlock()
		m.publish(pubsub.NewEvent(pubsub.EventSessionComplete, s.ID, map[string]any{
			"picks":       ho.Picks,
			"bracketMode": string(ho.BracketMode),
		}))
	})

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	snap := ctrl.Snapshot()
	logger.Info("Session started", "session", s.ID, "mode", snap.BracketMode, "matchups", snap.Total)
	m.publish(pubsub.NewEvent(pubsub.EventSessionStarted, s.ID, map[string]any{
		"bracketMode": string(snap.BracketMode),
		"total":       snap.Total,
	}))
	return s
}

// Get looks up a session by id
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Pick locks in a team on the session's current matchup and records it for analytics
func (m *Manager) Pick(ctx context.Context, id, team string) (View, error) {
	s, err := m.Get(id)
	if err != nil {
		return View{}, err
	}
	snap, err := s.ctrl.Pick(team)
	if err != nil {
		return View{}, err
	}
	s.touch(m.opts.Clock.Now())

	if m.opts.Recorder != nil && snap.Matchup != nil {
		rec := clickhouse.PickRecord{
			SessionID:   id,
			MatchupID:   snap.Matchup.ID,
			Team:        team,
			BracketMode: string(snap.BracketMode),
			PickedAt:    m.opts.Clock.Now().UTC(),
		}
		if err := m.opts.Recorder.RecordPick(ctx, rec); err != nil {
			logger.Warn("Failed to record pick", "session", id, "error", err)
		}
	}
	return View{ID: id, Snapshot: snap}, nil
}

// Claim returns the hand-off of a completed session exactly once and drops
// the session from the registry.
func (m *Manager) Claim(id string) (models.HandOff, error) {
	s, err := m.Get(id)
	if err != nil {
		return models.HandOff{}, err
	}

	// s.mu is taken by transition callbacks, so the controller is read first
	snap := s.ctrl.Snapshot()

	s.mu.Lock()
	if s.claimed {
		s.mu.Unlock()
		return models.HandOff{}, ErrHandOffClaimed
	}
	ho := s.handOff
	if ho == nil {
		// watchers see Complete just before the hand-off callback runs
		if snap.State != pickflow.StateComplete {
			s.mu.Unlock()
			return models.HandOff{}, ErrHandOffPending
		}
		ho = &models.HandOff{Picks: snap.Picks, BracketMode: snap.BracketMode}
	}
	s.claimed = true
	s.mu.Unlock()

	m.remove(id)
	return *ho, nil
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.ctrl.Close()
	}
}

// Sweep drops sessions whose hand-off went unclaimed past CompletedTTL and
// sessions idle past IdleTTL. It returns how many were dropped.
func (m *Manager) Sweep() int {
	now := m.opts.Clock.Now()

	m.mu.RLock()
	var stale []string
	for id, s := range m.sessions {
		if s.expired(now, m.opts.CompletedTTL, m.opts.IdleTTL) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		m.remove(id)
	}
	if len(stale) > 0 {
		logger.Debug("Swept sessions", "count", len(stale))
	}
	return len(stale)
}

// Janitor sweeps on every tick until ctx is done
func (m *Manager) Janitor(ctx context.Context, every time.Duration) {
	ticker := m.opts.Clock.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			m.Sweep()
		}
	}
}

// Len reports the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll stops every pending timer. Used at shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.ctrl.Close()
	}
	logger.Info("Closed sessions", "count", len(m.sessions))
}

func (m *Manager) publishTransition(id string, snap pickflow.Snapshot) {
	var eventType string
	switch snap.State {
	case pickflow.StateConfirming:
		eventType = pubsub.EventPickLocked
	case pickflow.StateRevealing:
		eventType = pubsub.EventPickRevealed
	case pickflow.StateBrowsing:
		eventType = pubsub.EventPickAdvanced
	default:
		return
	}

	payload := map[string]any{"index": snap.Index, "total": snap.Total}
	if snap.Team != "" {
		payload["team"] = snap.Team
		payload["pct"] = snap.Pct
	}
	if snap.Reveal != nil {
		payload["rarity"] = string(snap.Reveal.Rarity)
	}
	m.publish(pubsub.NewEvent(eventType, id, payload))
}

func (m *Manager) publish(ev pubsub.Event) {
	if m.opts.Bus != nil {
		m.opts.Bus.Publish(ev)
	}
}
