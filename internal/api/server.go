package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"waterball/internal/game"
	"waterball/internal/world"
)

// Server is the HTTP front door: REST endpoints, the static client, and
// the WebSocket session layer.
type Server struct {
	engine      *game.Engine
	router      *chi.Mux
	hub         *SessionHub
	rateLimiter *IPRateLimiter
	httpServer  *http.Server
}

// ServerConfig carries everything the server needs beyond the engine.
type ServerConfig struct {
	Terrain     *world.Terrain // nil in degraded mode
	Spells      game.SpellBook
	TickRate    int
	StaticDir   string
	MinimapPNG  []byte
	CORSOrigins []string
}

// NewServer wires the router and session hub. Nothing starts until
// Start is called, so tests can construct a server and use Router()
// without goroutines or listeners.
func NewServer(engine *game.Engine, cfg ServerConfig) *Server {
	s := &Server{
		engine:      engine,
		rateLimiter: NewIPRateLimiter(DefaultRateLimitConfig),
		hub:         NewSessionHub(engine, cfg.Terrain, cfg.Spells, cfg.TickRate, cfg.CORSOrigins),
	}

	s.router = NewRouter(RouterConfig{
		Engine:         engine,
		Spells:         cfg.Spells,
		MinimapPNG:     cfg.MinimapPNG,
		RateLimiter:    s.rateLimiter,
		CORSOrigins:    cfg.CORSOrigins,
		StaticFilesDir: cfg.StaticDir,
	})

	// The WebSocket route needs the hub, so it lives outside NewRouter.
	s.router.Get("/ws", s.hub.HandleWebSocket)

	return s
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub returns the session hub, mainly for stats.
func (s *Server) Hub() *SessionHub {
	return s.hub
}

// Start opens the listener and blocks until the server exits.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🌐 Server starting on %s", addr)
	log.Printf("🎮 Client: http://localhost%s/", addr)

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops background workers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
