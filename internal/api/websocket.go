package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The inspection server is a debugging tool; it accepts any
		// origin. Lock this down before exposing it publicly.
		return true
	},
}

// wsClient tracks one connection with its identity and source IP.
type wsClient struct {
	id   string
	conn *websocket.Conn
	ip   string
}

// Hub manages websocket clients and broadcasts per-tick snapshots with
// per-IP and total connection caps.
type Hub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	perIP    map[string]int
	maxPerIP int
	maxTotal int
	log      *zap.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// NewHub creates a hub with connection limits.
func NewHub(maxPerIP, maxTotal int, log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		perIP:      make(map[string]int),
		maxPerIP:   maxPerIP,
		maxTotal:   maxTotal,
		log:        log,
		done:       make(chan struct{}),
	}
}

// Run services register/unregister/broadcast until Stop is called, then
// closes every remaining connection.
func (h *Hub) Run() {
	defer h.closeAll()
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.conn] = c
			h.perIP[c.ip]++
			wsClients.Set(float64(len(h.clients)))
			h.mu.Unlock()
			h.log.Info("ws client connected", zap.String("id", c.id), zap.String("ip", c.ip))

		case conn := <-h.unregister:
			h.mu.Lock()
			if c, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				if h.perIP[c.ip]--; h.perIP[c.ip] <= 0 {
					delete(h.perIP, c.ip)
				}
				_ = conn.Close()
				h.log.Info("ws client disconnected", zap.String("id", c.id))
			}
			wsClients.Set(float64(len(h.clients)))
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.clients {
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					// Reader goroutine notices the closed conn and
					// unregisters it.
					_ = conn.Close()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop terminates the hub loop. Idempotent.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// closeAll drops every remaining client after the loop exits.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, c := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
		if h.perIP[c.ip]--; h.perIP[c.ip] <= 0 {
			delete(h.perIP, c.ip)
		}
	}
	wsClients.Set(0)
}

// Broadcast queues a message for every client, dropping it when the hub
// is backed up.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
	}
}

// canAccept checks the connection caps for an IP.
func (h *Hub) canAccept(ip string) (ok bool, reason string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) >= h.maxTotal {
		return false, "ws_limit"
	}
	if h.perIP[ip] >= h.maxPerIP {
		return false, "ws_ip_limit"
	}
	return true, ""
}

// HandleWS upgrades a connection and parks a reader goroutine on it.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)
	if ok, reason := h.canAccept(ip); !ok {
		RecordRejected(reason)
		http.Error(w, "connection limit reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{id: uuid.NewString(), conn: conn, ip: ip}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
				_ = conn.Close()
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
