// Package pickflow drives one play-through of the matchup picking flow:
// Browsing(i) -> Confirming -> Revealing -> Browsing(i+1), and Complete after
// the last matchup hands its picks off.
package pickflow

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Billy-Davies-2/bracket-champs/internal/derive"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
)

const (
	DefaultRevealAfter  = 1 * time.Second
	DefaultAdvanceAfter = 3 * time.Second
)

var (
	ErrOverlayActive   = errors.New("pick overlay is still showing")
	ErrSessionComplete = errors.New("pick session is complete")
	ErrUnknownTeam     = errors.New("team is not in this matchup")
	ErrNoMatchup       = errors.New("no matchup at current index")
)

// State is the controller's position in the flow
type State string

const (
	StateBrowsing   State = "browsing"
	StateConfirming State = "confirming"
	StateRevealing  State = "revealing"
	StateAdvancing  State = "advancing"
	StateComplete   State = "complete"
)

// Snapshot is a copy of the controller state safe to hand to observers
type Snapshot struct {
	State       State              `json:"state"`
	Index       int                `json:"index"`
	Total       int                `json:"total"`
	Matchup     *models.Matchup    `json:"matchup,omitempty"`
	Team        string             `json:"team,omitempty"`
	Pct         int                `json:"pct,omitempty"`
	Reveal      *derive.Reveal     `json:"reveal,omitempty"`
	Picks       []string           `json:"picks"`
	BracketMode models.BracketMode `json:"bracketMode"`
}

// Overlay reports whether the confirmation overlay is showing
func (s Snapshot) Overlay() bool {
	return s.State == StateConfirming || s.State == StateRevealing
}

// Options configures a Controller. Zero values fall back to the defaults.
type Options struct {
	Clock        clockwork.Clock
	RevealAfter  time.Duration
	AdvanceAfter time.Duration
}

// Controller is a single pick-flow state machine. All methods are safe for
// concurrent use; timer callbacks run on clock goroutines.
type Controller struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	clock        clockwork.Clock
	revealAfter  time.Duration
	advanceAfter time.Duration

	matchups []models.Matchup
	mode     models.BracketMode

	state  State
	idx    int
	team   string
	pct    int
	reveal *derive.Reveal
	picks  []string

	// seq identifies the pick a pending timer belongs to
	seq    int
	timers []clockwork.Timer
	closed bool

	onTransition []func(Snapshot)
	onHandOff    []func(models.HandOff)
}

// New creates a controller in Browsing(0)
func New(matchups []models.Matchup, mode models.BracketMode, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.RevealAfter <= 0 {
		opts.RevealAfter = DefaultRevealAfter
	}
	if opts.AdvanceAfter <= 0 {
		opts.AdvanceAfter = DefaultAdvanceAfter
	}

	ms := make([]models.Matchup, len(matchups))
	copy(ms, matchups)

	return &Controller{
		clock:        opts.Clock,
		revealAfter:  opts.RevealAfter,
		advanceAfter: opts.AdvanceAfter,
		matchups:     ms,
		mode:         models.ParseBracketMode(string(mode)),
		state:        StateBrowsing,
		picks:        []string{},
	}
}

// OnTransition registers an observer for every state change.
// Observers must not call Pick.
func (c *Controller) OnTransition(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTransition = append(c.onTransition, fn)
}

// OnHandOff registers an observer for the one-shot hand-off at the end of the flow
func (c *Controller) OnHandOff(fn func(models.HandOff)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onHandOff = append(c.onHandOff, fn)
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Current returns the matchup being shown, or false when the index is out of range
func (c *Controller) Current() (models.Matchup, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

func (c *Controller) currentLocked() (models.Matchup, bool) {
	if c.state == StateComplete || c.idx < 0 || c.idx >= len(c.matchups) {
		return models.Matchup{}, false
	}
	return c.matchups[c.idx], true
}

// Pick locks in a team for the current matchup. The pick is appended at once;
// the reveal and advance timers are both measured from this moment.
func (c *Controller) Pick(team string) (Snapshot, error) {
	c.mu.Lock()

	switch c.state {
	case StateComplete:
		c.mu.Unlock()
		return Snapshot{}, ErrSessionComplete
	case StateConfirming, StateRevealing, StateAdvancing:
		c.mu.Unlock()
		return Snapshot{}, ErrOverlayActive
	}
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, ErrSessionComplete
	}

	m, ok := c.currentLocked()
	if !ok {
		c.mu.Unlock()
		return Snapshot{}, ErrNoMatchup
	}
	pct, ok := m.PickPercent(team)
	if !ok {
		c.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%q vs %q: %w", m.TeamA.Name, m.TeamB.Name, ErrUnknownTeam)
	}

	c.picks = append(c.picks, team)
	c.team = team
	c.pct = pct
	c.reveal = nil
	c.state = StateConfirming
	c.seq++
	seq := c.seq

	c.stopTimersLocked()
	c.timers = append(c.timers,
		c.clock.AfterFunc(c.revealAfter, func() { c.fireReveal(seq) }),
		c.clock.AfterFunc(c.advanceAfter, func() { c.fireAdvance(seq) }),
	)

	snap := c.snapshotLocked()
	c.publish([]Snapshot{snap}, nil)
	return snap, nil
}

func (c *Controller) fireReveal(seq int) {
	c.mu.Lock()
	if c.closed || seq != c.seq || c.state != StateConfirming {
		c.mu.Unlock()
		return
	}
	r := derive.PickRarity(c.pct)
	c.reveal = &r
	c.state = StateRevealing
	c.publish([]Snapshot{c.snapshotLocked()}, nil)
}

func (c *Controller) fireAdvance(seq int) {
	c.mu.Lock()
	if c.closed || seq != c.seq || (c.state != StateConfirming && c.state != StateRevealing) {
		c.mu.Unlock()
		return
	}

	c.state = StateAdvancing
	snaps := []Snapshot{c.snapshotLocked()}

	c.team, c.pct, c.reveal = "", 0, nil
	c.timers = nil

	var handOff *models.HandOff
	if c.idx >= len(c.matchups)-1 {
		picks := make([]string, len(c.picks))
		copy(picks, c.picks)
		handOff = &models.HandOff{Picks: picks, BracketMode: c.mode}
		c.state = StateComplete
	} else {
		c.idx++
		c.state = StateBrowsing
	}
	snaps = append(snaps, c.snapshotLocked())
	c.publish(snaps, handOff)
}

// publish releases c.mu and delivers notifications in transition order.
// The caller must hold c.mu.
func (c *Controller) publish(snaps []Snapshot, handOff *models.HandOff) {
	transition := append([]func(Snapshot){}, c.onTransition...)
	handOffs := append([]func(models.HandOff){}, c.onHandOff...)

	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()

	for _, s := range snaps {
		for _, fn := range transition {
			fn(s)
		}
	}
	if handOff != nil {
		for _, fn := range handOffs {
			fn(*handOff)
		}
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		State:       c.state,
		Index:       c.idx,
		Total:       len(c.matchups),
		Team:        c.team,
		Pct:         c.pct,
		Picks:       append([]string{}, c.picks...),
		BracketMode: c.mode,
	}
	if m, ok := c.currentLocked(); ok {
		s.Matchup = &m
	}
	if c.reveal != nil {
		r := *c.reveal
		s.Reveal = &r
	}
	return s
}

func (c *Controller) stopTimersLocked() {
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = nil
}

// Close stops pending timers. It is used at shutdown, not as an undo.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimersLocked()
}
