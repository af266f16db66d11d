package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // Tick boundary marker
	EventTypeAvatarJoin
	EventTypeAvatarLeave
	EventTypeStateChange
	EventTypeLanding
	EventTypeCast
	EventTypeCastFailed
	EventTypeHit
	EventTypePause
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8     `json:"version"`   // Schema version
	Type      EventType `json:"type"`      // Event type
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence
	TickNum   uint64    `json:"tickNum"`   // Simulation tick this occurred in
	AvatarID  string    `json:"avatarId"`  // Source avatar (for rate limiting)
	Payload   []byte    `json:"payload"`   // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeAvatarJoin:
		return "avatar_join"
	case EventTypeAvatarLeave:
		return "avatar_leave"
	case EventTypeStateChange:
		return "state_change"
	case EventTypeLanding:
		return "landing"
	case EventTypeCast:
		return "cast"
	case EventTypeCastFailed:
		return "cast_failed"
	case EventTypeHit:
		return "hit"
	case EventTypePause:
		return "pause"
	default:
		return "unknown"
	}
}

// Typed payloads for different event types

// StateChangePayload records a movement state transition
type StateChangePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CastPayload records a resolved spell release
type CastPayload struct {
	Spell    string  `json:"spell"`
	Held     float64 `json:"held"` // Seconds the button was down
	ManaCost int     `json:"manaCost"`
	Damage   int     `json:"damage"`
}

// CastFailedPayload records a cast rejected for insufficient mana
type CastFailedPayload struct {
	Spell    string  `json:"spell"`
	ManaCost int     `json:"manaCost"`
	Mana     float64 `json:"mana"` // Pool level at rejection
}

// HitPayload records a projectile striking a target
type HitPayload struct {
	ProjectileID string  `json:"projectileId"`
	TargetID     string  `json:"targetId"`
	Damage       int     `json:"damage"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Z            float64 `json:"z"`
}

// AvatarJoinPayload records a session attaching to the simulation
type AvatarJoinPayload struct {
	AvatarID string  `json:"avatarId"`
	SpawnX   float64 `json:"spawnX"`
	SpawnY   float64 `json:"spawnY"`
	SpawnZ   float64 `json:"spawnZ"`
}

// PausePayload records a pause toggle
type PausePayload struct {
	Paused bool `json:"paused"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, avatarID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		AvatarID:  avatarID,
		Payload:   EncodePayload(payload),
	}
}
