package game

import (
	"sync/atomic"
	"time"
)

// AvatarSnapshot is an immutable copy of one avatar's renderable state.
// Value types only, so a published snapshot can never observe a later tick.
type AvatarSnapshot struct {
	ID  string  `json:"id"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Z   float64 `json:"z"`
	Yaw float64 `json:"yaw"`

	State string `json:"state"` // Movement state wire name
	Clip  string `json:"clip"`  // Animation clip the client should play

	// Camera rig (per-session orbit)
	CamYaw   float64 `json:"camYaw"`
	CamPitch float64 `json:"camPitch"`
	CamDist  float64 `json:"camDist"`

	// Casting HUD
	Charging       bool    `json:"charging"`
	ChargeProgress float64 `json:"chargeProgress"`
	ChargePhase    string  `json:"chargePhase"`
	ChargeColor    string  `json:"chargeColor"`
	SpellsCast     int     `json:"spellsCast"`

	// Pools
	Mana       float64 `json:"mana"`
	MaxMana    float64 `json:"maxMana"`
	ManaColor  string  `json:"manaColor"`
	Health     float64 `json:"health"`
	MaxHealth  float64 `json:"maxHealth"`
	Stamina    float64 `json:"stamina"`
	MaxStamina float64 `json:"maxStamina"`

	Toasts []Toast `json:"toasts,omitempty"`
}

// ProjectileSnapshot is an immutable copy of one projectile for rendering.
type ProjectileSnapshot struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

// TargetSnapshot is an immutable copy of one training dummy.
type TargetSnapshot struct {
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
	Radius      float64 `json:"radius"`
	HP          float64 `json:"hp"`
	MaxHP       float64 `json:"maxHp"`
	Flashing    bool    `json:"flashing"`
	HitsTaken   int     `json:"hitsTaken"`
	TotalDamage int     `json:"totalDamage"`
}

// CueSnapshot is a one-tick animation/audio cue (landing thud, cast
// release, impact splash). Cues are cleared every tick; a client that
// misses one misses it.
type CueSnapshot struct {
	AvatarID string  `json:"avatarId,omitempty"`
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
}

// Snapshot is one complete immutable frame of renderable state. All slices
// are pre-allocated and capped so snapshot size is bounded regardless of
// simulation load.
type Snapshot struct {
	Sequence   uint64    `json:"sequence"`
	Timestamp  time.Time `json:"timestamp"`
	TickNumber uint64    `json:"tickNumber"`
	SimTime    float64   `json:"simTime"` // Seconds of unpaused simulation
	Paused     bool      `json:"paused"`
	Degraded   bool      `json:"degraded"` // Flat-world physics fallback active

	Avatars     []AvatarSnapshot     `json:"avatars"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`
	Targets     []TargetSnapshot     `json:"targets"`
	Cues        []CueSnapshot        `json:"cues,omitempty"`
}

// SnapshotLimits caps snapshot slice sizes.
type SnapshotLimits struct {
	MaxAvatars     int
	MaxProjectiles int
	MaxTargets     int
	MaxCues        int
}

// SnapshotPool triple-buffers snapshots for a lock-free producer/consumer
// pair: the tick loop writes, WebSocket sessions read, and neither ever
// blocks the other.
type SnapshotPool struct {
	snapshots [3]Snapshot
	limits    SnapshotLimits
	writeIdx  uint32 // atomic, producer index
	readIdx   uint32 // atomic, consumer index
	sequence  uint64 // atomic
}

// NewSnapshotPool pre-allocates all three buffers at their caps.
func NewSnapshotPool(limits SnapshotLimits) *SnapshotPool {
	if limits.MaxCues <= 0 {
		limits.MaxCues = 64
	}
	pool := &SnapshotPool{limits: limits}
	for i := 0; i < 3; i++ {
		pool.snapshots[i] = Snapshot{
			Avatars:     make([]AvatarSnapshot, 0, limits.MaxAvatars),
			Projectiles: make([]ProjectileSnapshot, 0, limits.MaxProjectiles),
			Targets:     make([]TargetSnapshot, 0, limits.MaxTargets),
			Cues:        make([]CueSnapshot, 0, limits.MaxCues),
		}
	}
	return pool
}

// AcquireWrite returns the next write slot with slices reset but capacity
// preserved. Producer only.
func (p *SnapshotPool) AcquireWrite() *Snapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Avatars = snap.Avatars[:0]
	snap.Projectiles = snap.Projectiles[:0]
	snap.Targets = snap.Targets[:0]
	snap.Cues = snap.Cues[:0]

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()

	return snap
}

// PublishWrite makes the just-written slot the one readers see.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the latest published snapshot. Consumer only.
func (p *SnapshotPool) AcquireRead() *Snapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// Limits returns the configured caps.
func (p *SnapshotPool) Limits() SnapshotLimits { return p.limits }
