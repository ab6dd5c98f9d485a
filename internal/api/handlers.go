package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"convex2d/internal/render"
)

// handlers holds the route implementations and their dependencies.
type handlers struct {
	scene      SceneInterface
	frameW     int
	frameH     int
	pixPerUnit float64
	log        *zap.Logger
}

func (h *handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *handlers) handleState(w http.ResponseWriter, _ *http.Request) {
	snap := h.scene.Snapshot()
	if snap == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap)
}

func (h *handlers) handleBodies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]interface{}{"bodies": h.scene.Names()})
}

// handleDistance runs an ad-hoc body-pair distance query:
// GET /api/distance?a=anchor&b=orbiter-0
func (h *handlers) handleDistance(w http.ResponseWriter, r *http.Request) {
	a := r.URL.Query().Get("a")
	b := r.URL.Query().Get("b")
	if a == "" || b == "" {
		http.Error(w, "query params a and b are required", http.StatusBadRequest)
		return
	}
	pair, err := h.scene.Distance(a, b)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, pair)
}

func (h *handlers) handleFrame(w http.ResponseWriter, _ *http.Request) {
	snap := h.scene.Snapshot()
	w.Header().Set("Content-Type", "image/png")
	if err := render.Frame(w, snap, h.frameW, h.frameH, h.pixPerUnit); err != nil {
		h.log.Warn("frame render failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
