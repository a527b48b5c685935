package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/slideshow/internal/page"
	"github.com/ziadkadry99/slideshow/internal/player"
)

// Config holds server configuration.
type Config struct {
	Port       int
	AllowAll   bool // allow all CORS origins (dev mode)
	Title      string
	Height     int
	ImageDir   string
	SoundDir   string // only read when Player.SoundEnabled is set
	IntroFile  string
	Exclude    []string
	Player     player.Options
	SessionTTL time.Duration // how long a rendered page may wait for its socket
	Verbose    bool
}

// Server hosts the slideshow page and the player sessions behind it.
type Server struct {
	cfg        Config
	renderer   *page.Renderer
	sessions   *registry
	clock      player.Clock
	router     chi.Router
	httpServer *http.Server

	closing   chan struct{}
	closeOnce sync.Once
}

// New creates a server. It fails only if the page templates are broken.
func New(cfg Config) (*Server, error) {
	renderer, err := page.NewRenderer()
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		renderer: renderer,
		sessions: newRegistry(cfg.SessionTTL),
		clock:    player.RealClock{},
		closing:  make(chan struct{}),
	}

	s.router = s.buildRouter()
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/", s.handleIndex)
		r.Get("/assets/{session}/{index}", s.handleAsset)
		r.Get("/sounds/{session}/{name}", s.handleSound)
		r.Get("/api/gallery", s.handleGallery)
	})

	// The socket lives as long as the page, so it stays outside the timeout group.
	r.Get("/ws/player", s.handlePlayerSocket)

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("slideshow server listening on %s", addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops all player sessions and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.closing) })
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
