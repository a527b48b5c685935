package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/slideshow/internal/gallery"
)

var (
	errSessionNotFound = errors.New("session not found")
	errSessionMounted  = errors.New("session already has a player")
)

// pageSession is the gallery snapshot behind one rendered page.
type pageSession struct {
	id      string
	gallery *gallery.Gallery
	sounds  *gallery.Sounds
	created time.Time
	mounted bool
}

// registry tracks page sessions. A session is released when its socket
// closes; sessions that never get a socket expire after ttl.
type registry struct {
	mu      sync.Mutex
	entries map[string]*pageSession
	ttl     time.Duration
	now     func() time.Time
}

func newRegistry(ttl time.Duration) *registry {
	return &registry{
		entries: make(map[string]*pageSession),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *registry) add(g *gallery.Gallery, sounds *gallery.Sounds) *pageSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.ttl > 0 {
		for id, e := range r.entries {
			if !e.mounted && now.Sub(e.created) > r.ttl {
				delete(r.entries, id)
			}
		}
	}

	e := &pageSession{
		id:      uuid.NewString(),
		gallery: g,
		sounds:  sounds,
		created: now,
	}
	r.entries[e.id] = e
	return e
}

func (r *registry) get(id string) (*pageSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	return e, ok
}

// mount claims the session for a player socket. Each page gets one player.
func (r *registry) mount(id string) (*pageSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, errSessionNotFound
	}
	if e.mounted {
		return nil, errSessionMounted
	}
	e.mounted = true
	return e, nil
}

func (r *registry) release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
