package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/slideshow/internal/gallery"
	"github.com/ziadkadry99/slideshow/internal/page"
)

// galleryItem is one entry of the /api/gallery response.
type galleryItem struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
	URL       string `json:"url"`
}

// galleryResponse is the JSON response for the /api/gallery endpoint.
type galleryResponse struct {
	Session string        `json:"session"`
	Assets  []galleryItem `json:"assets"`
}

// handleIndex loads a freshly shuffled gallery and renders the player page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	g, err := gallery.Load(r.Context(), gallery.Options{
		Dir:     s.cfg.ImageDir,
		Exclude: s.cfg.Exclude,
		Verbose: s.cfg.Verbose,
	})
	if err != nil {
		s.renderLoadError(w, err)
		return
	}

	var sounds *gallery.Sounds
	if s.cfg.Player.SoundEnabled {
		sounds, err = gallery.LoadSounds(s.cfg.SoundDir)
		if err != nil {
			s.renderLoadError(w, err)
			return
		}
	}

	intro, err := s.renderer.Intro(s.cfg.IntroFile)
	if err != nil {
		log.Printf("server: %v", err)
	}

	sess := s.sessions.add(g, sounds)

	script := page.NewScript(page.ModeServed, s.cfg.Player)
	script.Socket = "/ws/player"
	script.Session = sess.id
	script.Images = make([]page.Image, g.Len())
	for i, a := range g.Assets {
		script.Images[i] = page.Image{Name: a.Name, URL: assetURL(sess.id, i)}
	}
	if !sounds.Empty() {
		script.Sounds = map[string]string{}
		for _, name := range []string{"bgm", "click", "download"} {
			if sounds.ByName(name) != nil {
				script.Sounds[name] = fmt.Sprintf("/sounds/%s/%s", sess.id, name)
			}
		}
	}

	err = s.renderer.Player(w, page.Data{
		Title:  s.cfg.Title,
		Height: s.cfg.Height,
		Intro:  intro,
		Script: script,
	})
	if err != nil {
		log.Printf("server: rendering page: %v", err)
	}
}

// renderLoadError shows the static notice for a gallery that cannot play.
func (s *Server) renderLoadError(w http.ResponseWriter, err error) {
	level, msg, ok := page.LoadMessage(err)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
	}
	log.Printf("server: %v", err)
	if rerr := s.renderer.Message(w, s.cfg.Title, s.cfg.Height, level, msg); rerr != nil {
		log.Printf("server: rendering message: %v", rerr)
	}
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(chi.URLParam(r, "session"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	asset := sess.gallery.At(index)
	if asset == nil {
		http.NotFound(w, r)
		return
	}

	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": asset.Name}))
	}
	serveAsset(w, r, asset)
}

func (s *Server) handleSound(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(chi.URLParam(r, "session"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	asset := sess.sounds.ByName(chi.URLParam(r, "name"))
	if asset == nil {
		http.NotFound(w, r)
		return
	}
	serveAsset(w, r, asset)
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	sess, ok := s.sessions.get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": errSessionNotFound.Error()})
		return
	}

	items := make([]galleryItem, sess.gallery.Len())
	for i, a := range sess.gallery.Assets {
		items[i] = galleryItem{
			Index:     i,
			ID:        a.ID,
			Name:      a.Name,
			MediaType: a.MediaType,
			Size:      a.Size(),
			URL:       assetURL(id, i),
		}
	}
	writeJSON(w, http.StatusOK, galleryResponse{Session: id, Assets: items})
}

func serveAsset(w http.ResponseWriter, r *http.Request, a *gallery.Asset) {
	w.Header().Set("Content-Type", a.MediaType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Header().Set("ETag", strconv.Quote(a.ID))
	http.ServeContent(w, r, a.Name, time.Time{}, bytes.NewReader(a.Data))
}

func assetURL(session string, index int) string {
	return fmt.Sprintf("/assets/%s/%d", session, index)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
