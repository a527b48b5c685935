package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/slideshow/internal/player"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// commandMessage is the incoming WebSocket message format.
type commandMessage struct {
	Type string `json:"type"` // start, click, resume, mute or download
}

// eventMessage is the outgoing WebSocket message format: a player event
// plus the asset it refers to.
type eventMessage struct {
	player.Event
	Name    string `json:"name,omitempty"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// socketWriter serializes writes from the session goroutine and the read loop.
type socketWriter struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	failed bool
}

func (sw *socketWriter) write(msg eventMessage) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.failed {
		return
	}
	if err := sw.conn.WriteJSON(msg); err != nil {
		sw.failed = true
		log.Printf("server: websocket write: %v", err)
	}
}

func (sw *socketWriter) sendError(message string) {
	sw.write(eventMessage{Event: player.Event{Type: "error"}, Message: message})
}

// handlePlayerSocket mounts a player for the page session named in the
// query. The player and its timer live until the socket closes.
func (s *Server) handlePlayerSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	sess, err := s.sessions.mount(id)
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, errSessionMounted) {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	defer s.sessions.release(id)

	p, err := player.New(sess.gallery.Len(), s.cfg.Player)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out := &socketWriter{conn: conn}
	session := player.NewSession(p, func(e player.Event) {
		out.write(s.describe(sess, e))
	}, s.clock)

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		session.Run(ctx)
	}()

	// Unblock the read loop on server shutdown.
	go func() {
		select {
		case <-ctx.Done():
		case <-s.closing:
			conn.Close()
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			break
		}

		var req commandMessage
		if err := json.Unmarshal(msg, &req); err != nil {
			out.sendError("invalid message format")
			continue
		}

		err = session.Send(ctx, player.Command(req.Type))
		if errors.Is(err, player.ErrUnknownCommand) {
			out.sendError("unknown message type: " + req.Type)
			continue
		}
		if err != nil {
			break
		}
	}

	cancel()
	<-runDone
}

// describe attaches the asset name and URL to events that refer to one.
func (s *Server) describe(sess *pageSession, e player.Event) eventMessage {
	msg := eventMessage{Event: e}
	asset := sess.gallery.At(e.Index)
	if asset == nil {
		return msg
	}
	switch e.Type {
	case player.EventShow:
		msg.Name = asset.Name
		msg.URL = assetURL(sess.id, e.Index)
	case player.EventDownload:
		msg.Name = asset.Name
		msg.URL = assetURL(sess.id, e.Index) + "?download=1"
	}
	return msg
}
