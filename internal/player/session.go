package player

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownCommand is returned for commands the player does not know.
var ErrUnknownCommand = errors.New("player: unknown command")

// ErrSessionClosed is returned by Send after Run has returned.
var ErrSessionClosed = errors.New("player: session closed")

// Command is a user action sent by the view.
type Command string

const (
	CommandStart    Command = "start"
	CommandClick    Command = "click"
	CommandResume   Command = "resume"
	CommandMute     Command = "mute"
	CommandDownload Command = "download"
)

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	switch c {
	case CommandStart, CommandClick, CommandResume, CommandMute, CommandDownload:
		return true
	}
	return false
}

// EventSink receives the events a session produces, always from the
// session goroutine.
type EventSink func(Event)

// request runs fn on the session goroutine.
type request struct {
	fn   func() []Event
	done chan struct{}
}

// Session runs one Player on a single goroutine. The ticker exists only
// while the player is running.
type Session struct {
	player   *Player
	clock    Clock
	sink     EventSink
	requests chan request
	closed   chan struct{}
}

// NewSession wraps p. A nil clock uses RealClock.
func NewSession(p *Player, sink EventSink, clock Clock) *Session {
	if clock == nil {
		clock = RealClock{}
	}
	if sink == nil {
		sink = func(Event) {}
	}
	return &Session{
		player:   p,
		clock:    clock,
		sink:     sink,
		requests: make(chan request),
		closed:   make(chan struct{}),
	}
}

// Send delivers cmd to the session and waits until it has been applied and
// its events emitted.
func (s *Session) Send(ctx context.Context, cmd Command) error {
	if !cmd.Valid() {
		return ErrUnknownCommand
	}
	return s.do(ctx, func() []Event {
		events, _ := s.player.Apply(cmd)
		return events
	})
}

// Snapshot returns the player state as seen by the session goroutine.
func (s *Session) Snapshot(ctx context.Context) (State, error) {
	var st State
	err := s.do(ctx, func() []Event {
		st = s.player.Snapshot()
		return nil
	})
	return st, err
}

func (s *Session) do(ctx context.Context, fn func() []Event) error {
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case s.requests <- req:
	case <-s.closed:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-s.closed:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run mounts the player and processes ticks and commands until ctx is
// cancelled. The ticker is always stopped on return.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.closed)

	var ticker Ticker
	var tick <-chan time.Time
	syncTimer := func() {
		running := s.player.Phase() == PhaseRunning
		switch {
		case running && ticker == nil:
			ticker = s.clock.NewTicker(s.player.Options().TickPeriod)
			tick = ticker.C()
		case !running && ticker != nil:
			ticker.Stop()
			ticker, tick = nil, nil
		}
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	s.apply(s.player.Mount(), syncTimer)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-s.requests:
			s.apply(req.fn(), syncTimer)
			close(req.done)
		case <-tick:
			s.apply(s.player.Tick(), syncTimer)
		}
	}
}

// apply re-arms or cancels the timer before the events reach the view.
func (s *Session) apply(events []Event, syncTimer func()) {
	syncTimer()
	for _, e := range events {
		s.sink(e)
	}
}
