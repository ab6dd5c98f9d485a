// Package api is the inspection server over the geometry engine: JSON
// endpoints and a websocket feed for the demo scene, prometheus metrics,
// per-IP rate limiting. None of this is load-bearing for the engine; the
// query core stays import-free of HTTP concerns.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"convex2d/internal/scene"
)

// SceneInterface is what the API layer needs from the scene. The
// interface exists so handler tests can run against a stub without the
// tick loop.
type SceneInterface interface {
	// Snapshot returns the latest immutable per-tick snapshot.
	Snapshot() *scene.Snapshot
	// Names returns the body names in insertion order.
	Names() []string
	// Distance runs a body-pair distance query by name.
	Distance(a, b string) (*scene.PairView, error)
}

// RouterConfig carries the router dependencies, built for injection in
// tests.
type RouterConfig struct {
	// Scene is the demo world (required).
	Scene SceneInterface

	// Hub is the websocket hub; nil disables the /ws route.
	Hub *Hub

	// RateLimiter is an optional pre-built limiter. If nil one is created
	// from RateLimitConfig, falling back to DefaultRateLimitConfig.
	RateLimiter     *IPRateLimiter
	RateLimitConfig *RateLimitConfig

	// CORSOrigins overrides the allowed origins; empty means localhost.
	CORSOrigins []string

	// Frame geometry for the PNG endpoint.
	FrameWidth, FrameHeight int
	FramePixPerUnit         float64

	// DisableLogging drops the request logger (benchmarks, tests).
	DisableLogging bool

	Log *zap.Logger
}

// NewRouter builds the chi router with middleware and routes.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.RateLimiter == nil {
		rlCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		cfg.RateLimiter = NewIPRateLimiter(rlCfg)
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}

	h := &handlers{
		scene:       cfg.Scene,
		frameW:      orDefault(cfg.FrameWidth, 960),
		frameH:      orDefault(cfg.FrameHeight, 540),
		pixPerUnit:  orDefaultF(cfg.FramePixPerUnit, 24),
		log:         cfg.Log,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))
	r.Use(latencyMiddleware)
	r.Use(cfg.RateLimiter.Middleware)

	r.Get("/health", h.handleHealth)
	r.Handle("/metrics", MetricsHandler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleState)
		r.Get("/bodies", h.handleBodies)
		r.Get("/distance", h.handleDistance)
		r.Get("/frame.png", h.handleFrame)
	})
	if cfg.Hub != nil {
		r.Get("/ws", cfg.Hub.HandleWS)
	}
	return r
}

func orDefault(v, d int) int {
	if v > 0 {
		return v
	}
	return d
}

func orDefaultF(v, d float64) float64 {
	if v > 0 {
		return v
	}
	return d
}
