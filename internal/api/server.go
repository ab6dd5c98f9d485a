package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"convex2d/internal/config"
	"convex2d/internal/scene"
)

// Server combines the HTTP router, the websocket hub and the snapshot
// broadcast loop.
//
// Background goroutines do not start until Start() is called, so tests
// can construct a Server without opening listeners.
type Server struct {
	scene       *scene.Scene
	hub         *Hub
	httpServer  *http.Server
	rateLimiter *IPRateLimiter
	cfg         config.ServerConfig
	log         *zap.Logger
	stopChan    chan struct{}
}

// NewServer wires a server from the scene and config.
func NewServer(sc *scene.Scene, cfg config.ServerConfig, log *zap.Logger) *Server {
	hub := NewHub(cfg.MaxWSPerIP, cfg.MaxWSTotal, log)
	rl := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: cfg.RatePerSecond,
		Burst:             cfg.RateBurst,
	})
	router := NewRouter(RouterConfig{
		Scene:           sc,
		Hub:             hub,
		RateLimiter:     rl,
		CORSOrigins:     cfg.CORSOrigins,
		FrameWidth:      cfg.FrameWidth,
		FrameHeight:     cfg.FrameHeight,
		FramePixPerUnit: cfg.FramePixPerUnit,
		Log:             log,
	})
	return &Server{
		scene:       sc,
		hub:         hub,
		rateLimiter: rl,
		cfg:         cfg,
		log:         log,
		stopChan:    make(chan struct{}),
		httpServer: &http.Server{
			Addr:              ":" + strconv.Itoa(cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start launches the scene loop, the hub, the snapshot broadcaster and
// the HTTP listener. Blocks until the listener exits.
func (s *Server) Start() error {
	s.scene.Start()
	go s.hub.Run()
	go s.broadcastLoop()
	s.log.Info("listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops everything gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stopChan)
	s.scene.Stop()
	s.hub.Stop()
	s.rateLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}

// broadcastLoop pushes each fresh snapshot to the websocket clients.
func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.TickRate))
	defer ticker.Stop()
	var lastTick int64 = -1
	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			snap := s.scene.Snapshot()
			if snap == nil || snap.Tick == lastTick {
				continue
			}
			lastTick = snap.Tick
			msg, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			s.hub.Broadcast(msg)
		}
	}
}
