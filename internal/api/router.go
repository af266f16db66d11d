package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"waterball/internal/game"
)

// EngineInterface defines the engine methods the HTTP layer calls.
// Kept minimal so handler tests can run against a stub instead of a live
// tick loop.
type EngineInterface interface {
	// Snapshot returns the latest lock-free immutable frame
	Snapshot() *game.Snapshot
	// Stats returns engine counters for monitoring
	Stats() map[string]interface{}
	// AvatarCount returns the number of live avatars
	AvatarCount() int
}

// RouterConfig carries the dependencies for the HTTP router.
type RouterConfig struct {
	// Engine is the simulation (required)
	Engine EngineInterface

	// Spells is the catalog served at /api/spells
	Spells game.SpellBook

	// MinimapPNG is the pre-rendered top-down map, empty when terrain
	// generation failed
	MinimapPNG []byte

	// RateLimiter is an optional pre-configured rate limiter; built from
	// RateLimitConfig (or defaults) when nil
	RateLimiter *IPRateLimiter

	// RateLimitConfig is used only when RateLimiter is nil
	RateLimitConfig *RateLimitConfig

	// CORSOrigins overrides the default allowed origins
	CORSOrigins []string

	// StaticFilesDir serves the browser client; defaults to "./web"
	StaticFilesDir string

	// DisableLogging drops the request logger (benchmarks, tests)
	DisableLogging bool
}

type routerHandlers struct {
	engine  EngineInterface
	spells  game.SpellBook
	minimap []byte
}

// NewRouter constructs the HTTP router with all middleware and routes.
// This function is pure: no goroutines, no listeners, safe for
// httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting before CORS so floods are rejected early
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{
		engine:  cfg.Engine,
		spells:  cfg.Spells,
		minimap: cfg.MinimapPNG,
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
		r.Get("/spells", h.handleGetSpells)
		r.Get("/minimap.png", h.handleGetMinimap)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Browser client
	staticDir := cfg.StaticFilesDir
	if staticDir == "" {
		staticDir = "./web"
	}
	r.Handle("/*", http.FileServer(http.Dir(staticDir)))

	return r
}
