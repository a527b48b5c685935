package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/slideshow/internal/gallery"
	"github.com/ziadkadry99/slideshow/internal/player"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
}

// testConfig returns a config over a temp gallery with a.png, b.jpg and
// c.txt plus all three sound effects. Ticks are an hour apart.
func testConfig(t *testing.T) Config {
	t.Helper()
	root := t.TempDir()
	imageDir := filepath.Join(root, "img")
	soundDir := filepath.Join(root, "sounds")
	writeFiles(t, imageDir, map[string]string{"a.png": "image a", "b.jpg": "image b", "c.txt": "text"})
	writeFiles(t, soundDir, map[string]string{
		gallery.BackgroundSound: "bgm",
		gallery.ClickSound:      "click",
		gallery.DownloadSound:   "download",
	})

	opts := player.DefaultOptions()
	opts.TickPeriod = time.Hour
	return Config{
		Title:      "Test Gallery",
		Height:     750,
		ImageDir:   imageDir,
		SoundDir:   soundDir,
		Player:     opts,
		SessionTTL: time.Minute,
	}
}

func newServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

// addSession registers a page session the way handleIndex does.
func addSession(t *testing.T, srv *Server) *pageSession {
	t.Helper()
	cfg := srv.ServerConfig()
	g, err := gallery.Load(context.Background(), gallery.Options{Dir: cfg.ImageDir, NoShuffle: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sounds, err := gallery.LoadSounds(cfg.SoundDir)
	if err != nil {
		t.Fatalf("LoadSounds: %v", err)
	}
	return srv.sessions.add(g, sounds)
}

func get(srv *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := newServer(t, testConfig(t))

	w := get(srv, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	cfg := testConfig(t)
	cfg.AllowAll = true
	srv := newServer(t, cfg)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestIndex_RendersPlayer(t *testing.T) {
	srv := newServer(t, testConfig(t))

	w := get(srv, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{"Test Gallery", "WebSocket", "/ws/player", "a.png", "b.jpg"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "c.txt") {
		t.Error("page lists a non-image file")
	}
	if n := srv.sessions.len(); n != 1 {
		t.Errorf("expected 1 registered session, got %d", n)
	}

	// Every page load gets its own session.
	get(srv, "/")
	if n := srv.sessions.len(); n != 2 {
		t.Errorf("expected 2 registered sessions, got %d", n)
	}
}

func TestIndex_LoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, cfg *Config)
		want   string
	}{
		{"missing image dir", func(t *testing.T, cfg *Config) {
			cfg.ImageDir = filepath.Join(t.TempDir(), "missing")
		}, "folder not found"},
		{"empty image dir", func(t *testing.T, cfg *Config) {
			cfg.ImageDir = t.TempDir()
		}, "no images"},
		{"missing sound dir", func(t *testing.T, cfg *Config) {
			cfg.SoundDir = filepath.Join(t.TempDir(), "missing")
		}, "folder not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(t, &cfg)
			srv := newServer(t, cfg)

			w := get(srv, "/")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			body := w.Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("page missing %q: %s", tt.want, body)
			}
			if strings.Contains(body, "WebSocket") {
				t.Error("player must not be rendered after a load error")
			}
			if n := srv.sessions.len(); n != 0 {
				t.Errorf("expected no sessions, got %d", n)
			}
		})
	}
}

func TestIndex_SilentVariantIgnoresSoundDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Player.SoundEnabled = false
	cfg.SoundDir = filepath.Join(t.TempDir(), "missing")
	srv := newServer(t, cfg)

	w := get(srv, "/")
	if !strings.Contains(w.Body.String(), "WebSocket") {
		t.Errorf("silent variant should render without a sound folder: %s", w.Body.String())
	}
}

func TestAsset(t *testing.T) {
	srv := newServer(t, testConfig(t))
	sess := addSession(t, srv)

	w := get(srv, assetURL(sess.id, 0))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "image a" {
		t.Errorf("body = %q, want %q", w.Body.String(), "image a")
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "" {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}

	w = get(srv, assetURL(sess.id, 1)+"?download=1")
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename=b.jpg` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	for _, target := range []string{
		assetURL(sess.id, 2),
		assetURL("unknown", 0),
		"/assets/" + sess.id + "/x",
	} {
		if w := get(srv, target); w.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", target, w.Code)
		}
	}
}

func TestSound(t *testing.T) {
	srv := newServer(t, testConfig(t))
	sess := addSession(t, srv)

	w := get(srv, "/sounds/"+sess.id+"/click")
	if w.Code != http.StatusOK || w.Body.String() != "click" {
		t.Errorf("click sound: %d %q", w.Code, w.Body.String())
	}
	if w := get(srv, "/sounds/"+sess.id+"/boom"); w.Code != http.StatusNotFound {
		t.Errorf("unknown sound = %d, want 404", w.Code)
	}
}

func TestGalleryEndpoint(t *testing.T) {
	srv := newServer(t, testConfig(t))
	sess := addSession(t, srv)

	w := get(srv, "/api/gallery?session="+sess.id)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp galleryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Session != sess.id || len(resp.Assets) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Assets[0].Name != "a.png" || resp.Assets[0].URL != assetURL(sess.id, 0) || resp.Assets[0].Size != 7 {
		t.Errorf("first asset = %+v", resp.Assets[0])
	}

	if w := get(srv, "/api/gallery?session=nope"); w.Code != http.StatusNotFound {
		t.Errorf("unknown session = %d, want 404", w.Code)
	}
}

func TestRegistryExpiresUnmountedSessions(t *testing.T) {
	reg := newRegistry(time.Minute)
	now := time.Now()
	reg.now = func() time.Time { return now }

	stale := reg.add(nil, nil)
	mounted := reg.add(nil, nil)
	if _, err := reg.mount(mounted.id); err != nil {
		t.Fatalf("mount: %v", err)
	}

	now = now.Add(2 * time.Minute)
	reg.add(nil, nil)

	if _, ok := reg.get(stale.id); ok {
		t.Error("stale session should have expired")
	}
	if _, ok := reg.get(mounted.id); !ok {
		t.Error("mounted session must not expire")
	}
	if _, err := reg.mount(mounted.id); err != errSessionMounted {
		t.Errorf("second mount error = %v, want errSessionMounted", err)
	}
	reg.release(mounted.id)
	if _, err := reg.mount(mounted.id); err != errSessionNotFound {
		t.Errorf("mount after release error = %v, want errSessionNotFound", err)
	}
}
