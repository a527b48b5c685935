// Package player implements the slideshow state machine and the session
// that drives it with a timer.
package player

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyGallery is returned when a player is created for zero assets.
var ErrEmptyGallery = errors.New("player: gallery is empty")

// Phase is the timer state of a player.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
)

// Effect names a sound effect.
type Effect string

const (
	EffectBackground Effect = "bgm"
	EffectClick      Effect = "click"
	EffectDownload   Effect = "download"
)

// EventType identifies what a view must do with an Event.
type EventType string

const (
	EventShow     EventType = "show"     // display the asset at Index
	EventState    EventType = "state"    // Phase or Muted changed
	EventSound    EventType = "sound"    // play Effect
	EventDownload EventType = "download" // save the asset at Index
)

// Event is one instruction for the view.
type Event struct {
	Type   EventType `json:"type"`
	Index  int       `json:"index"`
	Phase  Phase     `json:"phase,omitempty"`
	Muted  bool      `json:"muted"`
	Effect Effect    `json:"effect,omitempty"`
}

// Options selects the slideshow variant.
type Options struct {
	TickPeriod         time.Duration
	SoundEnabled       bool
	RequireStartAction bool
	DownloadOnPause    bool
}

// DefaultOptions returns the start-screen variant with sound, a 100ms
// tick and an explicit download action.
func DefaultOptions() Options {
	return Options{
		TickPeriod:         100 * time.Millisecond,
		SoundEnabled:       true,
		RequireStartAction: true,
	}
}

// State is a snapshot of a player.
type State struct {
	Index int   `json:"index"`
	Len   int   `json:"len"`
	Phase Phase `json:"phase"`
	Muted bool  `json:"muted"`
}

// Player holds the index, phase and mute flag of one slideshow. It is not
// safe for concurrent use; a Session serializes access to it.
type Player struct {
	opts       Options
	n          int
	index      int
	phase      Phase
	muted      bool
	bgmStarted bool
}

// New returns an idle player over n assets.
func New(n int, opts Options) (*Player, error) {
	if n <= 0 {
		return nil, ErrEmptyGallery
	}
	if opts.TickPeriod <= 0 {
		return nil, fmt.Errorf("player: tick period must be positive, got %v", opts.TickPeriod)
	}
	return &Player{opts: opts, n: n, phase: PhaseIdle}, nil
}

// Options returns the options the player was created with.
func (p *Player) Options() Options { return p.opts }

// Snapshot returns the current state.
func (p *Player) Snapshot() State {
	return State{Index: p.index, Len: p.n, Phase: p.phase, Muted: p.muted}
}

// Phase returns the current phase.
func (p *Player) Phase() Phase { return p.phase }

// Mount is called once when the view attaches. Without a start screen the
// slideshow starts right away.
func (p *Player) Mount() []Event {
	if !p.opts.RequireStartAction {
		return p.Start()
	}
	return []Event{p.stateEvent()}
}

// Start leaves the start screen. It does nothing unless the player is idle.
func (p *Player) Start() []Event {
	if p.phase != PhaseIdle {
		return nil
	}
	p.phase = PhaseRunning
	events := []Event{p.stateEvent(), p.showEvent()}
	if p.playable() {
		p.bgmStarted = true
		events = append(events, p.soundEvent(EffectBackground))
	}
	return events
}

// Tick advances to the next asset, wrapping at the end. Ticks outside the
// running phase are ignored.
func (p *Player) Tick() []Event {
	if p.phase != PhaseRunning {
		return nil
	}
	p.index = (p.index + 1) % p.n
	return []Event{p.showEvent()}
}

// Click toggles between running and paused. Pausing plays the click effect
// and, with DownloadOnPause, downloads the asset on screen.
func (p *Player) Click() []Event {
	switch p.phase {
	case PhaseRunning:
		p.phase = PhasePaused
		events := []Event{p.stateEvent()}
		if p.playable() {
			events = append(events, p.soundEvent(EffectClick))
		}
		if p.opts.DownloadOnPause {
			events = append(events, p.Download()...)
		}
		return events
	case PhasePaused:
		return p.Resume()
	}
	return nil
}

// Resume continues from the current index.
func (p *Player) Resume() []Event {
	if p.phase != PhasePaused {
		return nil
	}
	p.phase = PhaseRunning
	return []Event{p.stateEvent()}
}

// ToggleMute flips the mute flag. It never changes the phase or index.
func (p *Player) ToggleMute() []Event {
	p.muted = !p.muted
	events := []Event{p.stateEvent()}
	// Background music muted at start begins on the first unmute.
	if p.phase != PhaseIdle && !p.bgmStarted && p.playable() {
		p.bgmStarted = true
		events = append(events, p.soundEvent(EffectBackground))
	}
	return events
}

// Download saves the asset currently on screen.
func (p *Player) Download() []Event {
	if p.phase == PhaseIdle {
		return nil
	}
	events := []Event{{Type: EventDownload, Index: p.index}}
	if p.playable() {
		events = append(events, p.soundEvent(EffectDownload))
	}
	return events
}

// Apply dispatches a Command to the matching operation.
func (p *Player) Apply(cmd Command) ([]Event, error) {
	switch cmd {
	case CommandStart:
		return p.Start(), nil
	case CommandClick:
		return p.Click(), nil
	case CommandResume:
		return p.Resume(), nil
	case CommandMute:
		return p.ToggleMute(), nil
	case CommandDownload:
		return p.Download(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
}

func (p *Player) playable() bool {
	return p.opts.SoundEnabled && !p.muted
}

func (p *Player) stateEvent() Event {
	return Event{Type: EventState, Index: p.index, Phase: p.phase, Muted: p.muted}
}

func (p *Player) showEvent() Event {
	return Event{Type: EventShow, Index: p.index}
}

func (p *Player) soundEvent(e Effect) Event {
	return Event{Type: EventSound, Index: p.index, Effect: e}
}
