package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"waterball/internal/game"
	"waterball/internal/world"
)

const (
	// MaxWSConnectionsTotal is the global WebSocket session cap
	MaxWSConnectionsTotal = 128

	// MaxWSConnectionsPerIP limits sessions per source IP
	MaxWSConnectionsPerIP = 4

	// snapshotSendInterval paces state frames to clients. The engine ticks
	// faster; clients only need the latest frame.
	snapshotSendInterval = 50 * time.Millisecond

	wsWriteTimeout = 5 * time.Second
)

// Handshake is the one-time payload sent when a session opens: everything
// static the client needs to build its scene before the first snapshot.
type Handshake struct {
	AvatarID    string             `json:"avatarId"`
	TickRate    int                `json:"tickRate"`
	Degraded    bool               `json:"degraded"`
	TerrainSize float64            `json:"terrainSize"`
	GridSize    int                `json:"gridSize"`
	Heights     []float32          `json:"heights,omitempty"`
	Decorations []world.Decoration `json:"decorations,omitempty"`
	Spells      game.SpellBook     `json:"spells"`
}

// session is one WebSocket connection bound to one avatar.
type session struct {
	id     string
	ip     string
	conn   *websocket.Conn
	avatar *game.Avatar

	closeOnce sync.Once
	done      chan struct{}
}

// SessionHub owns all live sessions: connection limits, the avatar
// lifecycle, and the per-session snapshot send loops.
type SessionHub struct {
	engine  *game.Engine
	terrain *world.Terrain // nil in degraded mode
	spells  game.SpellBook
	tick    int

	mu       sync.RWMutex
	sessions map[*session]struct{}

	wsLimiter    *WebSocketRateLimiter
	extraOrigins []string
	nextID       uint64

	upgrader websocket.Upgrader
}

// NewSessionHub creates a hub over an engine. terrain may be nil when the
// flat fallback world is active; the handshake then omits the heightmap.
func NewSessionHub(engine *game.Engine, terrain *world.Terrain, spells game.SpellBook, tickRate int, extraOrigins []string) *SessionHub {
	h := &SessionHub{
		engine:       engine,
		terrain:      terrain,
		spells:       spells,
		tick:         tickRate,
		sessions:     make(map[*session]struct{}),
		wsLimiter:    NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
		extraOrigins: extraOrigins,
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if IsAllowedOrigin(origin, h.extraOrigins) {
				return true
			}
			log.Printf("⚠️ WebSocket rejected from origin: %s", origin)
			RecordConnectionRejected("origin")
			return false
		},
	}

	return h
}

// SessionCount returns the number of live sessions.
func (h *SessionHub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// HandleWebSocket upgrades a connection, spawns its avatar and runs the
// session until either side closes.
func (h *SessionHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if h.SessionCount() >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket rejected: total session limit reached")
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}
	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip)
		return
	}

	id := fmt.Sprintf("avatar_%d", atomic.AddUint64(&h.nextID, 1))
	avatar, err := h.engine.AddAvatar(id)
	if err != nil {
		RecordConnectionRejected("avatar_limit")
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "world full"),
			time.Now().Add(wsWriteTimeout))
		conn.Close()
		h.wsLimiter.Release(ip)
		return
	}

	s := &session{
		id:     id,
		ip:     ip,
		conn:   conn,
		avatar: avatar,
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.sessions[s] = struct{}{}
	count := len(h.sessions)
	h.mu.Unlock()
	UpdateWSConnections(count)
	UpdateAvatarCount(h.engine.AvatarCount())

	if err := h.sendHandshake(s); err != nil {
		h.closeSession(s)
		return
	}

	go h.writeLoop(s)
	go h.readLoop(s)
}

// sendHandshake sends the static scene payload.
func (h *SessionHub) sendHandshake(s *session) error {
	hs := Handshake{
		AvatarID: s.id,
		TickRate: h.tick,
		Degraded: h.terrain == nil,
		Spells:   h.spells,
	}
	if h.terrain != nil {
		hs.TerrainSize = h.terrain.Size()
		hs.GridSize = h.terrain.GridSize()
		hs.Heights = h.terrain.Heights()
		hs.Decorations = h.terrain.Decorations()
	}

	s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return s.conn.WriteJSON(envelope{Event: "welcome", Data: hs})
}

type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// writeLoop pushes the latest snapshot at the send rate, skipping frames
// the engine has not advanced past (paused server, slow tick).
func (h *SessionHub) writeLoop(s *session) {
	ticker := time.NewTicker(snapshotSendInterval)
	defer ticker.Stop()

	var lastSeq uint64
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			snap := h.engine.Snapshot()
			if snap.Sequence == lastSeq {
				continue
			}
			lastSeq = snap.Sequence

			s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := s.conn.WriteJSON(envelope{Event: "state", Data: snap}); err != nil {
				h.closeSession(s)
				return
			}
			IncrementWSMessages()
			UpdateProjectileCount(len(snap.Projectiles))
		}
	}
}

// readLoop feeds client input into the avatar's accumulator.
func (h *SessionHub) readLoop(s *session) {
	defer h.closeSession(s)

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg game.InputMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue // Malformed input is dropped, not fatal
		}
		s.avatar.Input.Apply(msg)
	}
}

// closeSession tears down one session exactly once.
func (h *SessionHub) closeSession(s *session) {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()

		h.engine.RemoveAvatar(s.id)
		h.wsLimiter.Release(s.ip)

		h.mu.Lock()
		delete(h.sessions, s)
		count := len(h.sessions)
		h.mu.Unlock()
		UpdateWSConnections(count)
		UpdateAvatarCount(h.engine.AvatarCount())
	})
}
