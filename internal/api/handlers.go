package api

import (
	"encoding/json"
	"net/http"
)

// Handler methods for routerHandlers. Used by both the standalone router
// (for tests) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	// Lock-free read: the snapshot pool never blocks the tick loop.
	writeJSON(w, h.engine.Snapshot())
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Stats())
}

func (h *routerHandlers) handleGetSpells(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.spells)
}

func (h *routerHandlers) handleGetMinimap(w http.ResponseWriter, r *http.Request) {
	if len(h.minimap) == 0 {
		writeError(w, "minimap unavailable", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600") // Terrain is static per run
	w.Write(h.minimap)
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
