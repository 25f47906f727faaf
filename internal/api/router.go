package api

import (
	"breachline/internal/lobby"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig contains all dependencies needed to construct the HTTP
// router. Kept as a struct for dependency injection and testability,
// mirroring the factory pattern used for the original admin-panel
// server this one replaces.
type RouterConfig struct {
	// Lobby routes new WebSocket connections to a room (required).
	Lobby *lobby.Lobby

	// RateLimiter is an optional pre-configured rate limiter. If nil, a
	// new one is created from RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is only used if RateLimiter is nil.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional allow-list beyond localhost.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for
	// benchmarks and tests).
	DisableLogging bool

	// AdminEnabled exposes room-internals endpoints under /api/admin.
	AdminEnabled bool
}

// routerHandlers holds dependencies for handler methods.
type routerHandlers struct {
	lobby *lobby.Lobby
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// It opens no listeners, so it is safe to use with httptest.NewServer.
// When cfg.RateLimiter is nil it builds an IPRateLimiter, which starts
// that limiter's cleanup goroutine.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   append([]string{"http://localhost:*", "http://127.0.0.1:*"}, cfg.CORSOrigins...),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{lobby: cfg.Lobby}

	r.Get("/healthz", h.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/walls", h.handleGetWalls)
		r.Get("/weapons", h.handleGetWeapons)
		r.Get("/leaderboard", h.handleGetLeaderboard)

		if cfg.AdminEnabled {
			r.Route("/admin", func(r chi.Router) {
				r.Get("/rooms", h.handleAdminRooms)
			})
		}
	})

	return r
}

// GetRateLimiterFromRouter extracts (or builds) the rate limiter a
// router config would use, for tests that need to assert on it.
func GetRateLimiterFromRouter(cfg RouterConfig) *IPRateLimiter {
	if cfg.RateLimiter != nil {
		return cfg.RateLimiter
	}
	rateLimitCfg := DefaultRateLimitConfig
	if cfg.RateLimitConfig != nil {
		rateLimitCfg = *cfg.RateLimitConfig
	}
	return NewIPRateLimiter(rateLimitCfg)
}
