package game

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"waterball/internal/config"
	"waterball/internal/physics"
)

// Engine owns the simulation: avatars, training dummies, projectiles, the
// physics world and the tick loop. Everything mutable lives behind one
// mutex; WebSocket sessions interact only through InputState (lock-free on
// the engine side) and the snapshot pool.
type Engine struct {
	mu sync.RWMutex

	cfg   config.AppConfig
	world *physics.World

	avatars    map[string]*Avatar
	avatarList []*Avatar // Join order, for deterministic iteration
	dummies    []*TrainingDummy
	targets    []Target // dummies as the projectile target list, same order

	projectiles *ProjectileSystem

	running  bool
	paused   bool
	ticker   *time.Ticker
	stopChan chan struct{}

	simTime   float64 // Seconds of unpaused simulation
	tickCount uint64

	snapshotPool *SnapshotPool
	eventLog     *EventLog

	// Scratch buffers reused every tick
	inputScratch []InputSnapshot
	cueScratch   []CueSnapshot

	// Observability hooks, set once before Start
	onTick func(duration time.Duration)
	onCast func()
}

// NewEngine creates a stopped engine over a physics world.
func NewEngine(cfg config.AppConfig, w *physics.World) *Engine {
	limits := SnapshotLimits{
		MaxAvatars:     cfg.Limits.MaxAvatars,
		MaxProjectiles: cfg.Limits.MaxProjectiles,
		MaxTargets:     cfg.Limits.MaxTargets,
	}

	return &Engine{
		cfg:          cfg,
		world:        w,
		avatars:      make(map[string]*Avatar),
		avatarList:   make([]*Avatar, 0, cfg.Limits.MaxAvatars),
		dummies:      make([]*TrainingDummy, 0, cfg.Limits.MaxTargets),
		targets:      make([]Target, 0, cfg.Limits.MaxTargets),
		projectiles:  NewProjectileSystem(w, cfg.Limits.MaxProjectiles),
		stopChan:     make(chan struct{}),
		snapshotPool: NewSnapshotPool(limits),
		eventLog:     NewEventLog(),
		inputScratch: make([]InputSnapshot, 0, cfg.Limits.MaxAvatars),
		cueScratch:   make([]CueSnapshot, 0, 64),
	}
}

// EventLog exposes the journal for startup wiring and stats.
func (e *Engine) EventLog() *EventLog { return e.eventLog }

// SetTickObserver installs a per-tick duration callback for metrics.
// Must be called before Start.
func (e *Engine) SetTickObserver(fn func(time.Duration)) { e.onTick = fn }

// SetCastObserver installs a successful-cast callback for metrics.
// Must be called before Start.
func (e *Engine) SetCastObserver(fn func()) { e.onCast = fn }

// Start begins the tick loop.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.cfg.Sim.TickRate))

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.tick()
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("🎮 Simulation started at %d TPS", e.cfg.Sim.TickRate)
}

// Stop halts the tick loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("🛑 Simulation stopped")
}

// AddAvatar spawns an avatar and returns it. The caller (a WebSocket
// session) feeds its InputState and reads snapshots from the pool.
func (e *Engine) AddAvatar(id string) (*Avatar, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.avatars[id]; exists {
		return nil, fmt.Errorf("avatar %s already exists", id)
	}
	if len(e.avatars) >= e.cfg.Limits.MaxAvatars {
		return nil, fmt.Errorf("avatar limit reached (%d)", e.cfg.Limits.MaxAvatars)
	}

	spawn := e.spawnPosition(len(e.avatarList))
	avatar, err := NewAvatar(id, e.world, spawn, DefaultMovementConfig(), DefaultSpellBook(), e.cfg.Limits.MaxToasts)
	if err != nil {
		return nil, err
	}

	e.avatars[id] = avatar
	e.avatarList = append(e.avatarList, avatar)

	e.eventLog.Record(EventTypeAvatarJoin, e.tickCount, id, AvatarJoinPayload{
		AvatarID: id,
		SpawnX:   spawn.X(),
		SpawnY:   spawn.Y(),
		SpawnZ:   spawn.Z(),
	})
	log.Printf("👤 Avatar %s joined (%d online)", id, len(e.avatars))

	return avatar, nil
}

// RemoveAvatar despawns an avatar and frees its body.
func (e *Engine) RemoveAvatar(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	avatar, ok := e.avatars[id]
	if !ok {
		return
	}
	delete(e.avatars, id)

	for i, a := range e.avatarList {
		if a == avatar {
			e.avatarList = append(e.avatarList[:i], e.avatarList[i+1:]...)
			break
		}
	}
	e.world.RemoveBody(avatar.Body)

	e.eventLog.Record(EventTypeAvatarLeave, e.tickCount, id, nil)
	log.Printf("👋 Avatar %s left (%d online)", id, len(e.avatars))
}

// AddDummy places a training dummy on the terrain surface.
func (e *Engine) AddDummy(id string, x, z float64) (*TrainingDummy, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.dummies) >= e.cfg.Limits.MaxTargets {
		return nil, fmt.Errorf("target limit reached (%d)", e.cfg.Limits.MaxTargets)
	}

	pos := mgl64.Vec3{x, e.world.HeightAt(x, z) + DummyRadius, z}
	d := NewTrainingDummy(id, pos)
	e.dummies = append(e.dummies, d)
	e.targets = append(e.targets, d)
	return d, nil
}

// spawnPosition rings avatars around the spawn clearing so they never stack.
func (e *Engine) spawnPosition(index int) mgl64.Vec3 {
	angle := float64(index) * 0.7
	radius := 2.0 + float64(index%8)*0.8
	x := math.Cos(angle) * radius
	z := math.Sin(angle) * radius
	return mgl64.Vec3{x, e.world.HeightAt(x, z) + AvatarRadius, z}
}

// tick advances the simulation one step. Fixed order: input snapshots,
// pause edges, per-avatar camera/movement/cast, physics step, projectiles,
// dummies, pools, then snapshot publication. While paused only input and
// snapshots run, so the overlay still renders and unpause still works.
func (e *Engine) tick() {
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.tickCount++
	dt := 1.0 / float64(e.cfg.Sim.TickRate)
	e.cueScratch = e.cueScratch[:0]

	// One journal heartbeat per second of wall time
	if e.tickCount%uint64(e.cfg.Sim.TickRate) == 0 {
		e.eventLog.Record(EventTypeTick, e.tickCount, "", nil)
	}

	// Drain every session's input exactly once per tick.
	e.inputScratch = e.inputScratch[:0]
	for _, a := range e.avatarList {
		e.inputScratch = append(e.inputScratch, a.Input.Snapshot())
	}

	// Pause edges apply even while paused.
	for i := range e.inputScratch {
		if e.inputScratch[i].PausePressed {
			e.paused = !e.paused
			e.eventLog.Record(EventTypePause, e.tickCount, e.avatarList[i].ID, PausePayload{Paused: e.paused})
			if e.paused {
				log.Println("⏸️  Simulation paused")
			} else {
				log.Println("▶️  Simulation resumed")
			}
		}
	}

	if !e.paused {
		e.simTime += dt
		now := e.simTime

		for i, a := range e.avatarList {
			e.stepAvatar(dt, now, a, e.inputScratch[i])
		}

		e.world.Step(dt)

		impacts := e.projectiles.Update(dt, e.targets)
		for _, imp := range impacts {
			e.applyImpact(imp)
		}

		for _, d := range e.dummies {
			d.Update(dt)
		}
	}

	e.publishSnapshot()

	if e.onTick != nil {
		e.onTick(time.Since(start))
	}
}

// stepAvatar runs one avatar's camera, movement, casting and pools.
func (e *Engine) stepAvatar(dt, now float64, a *Avatar, in InputSnapshot) {
	a.Camera.Update(dt, in.LookDX, in.LookDY, in.Scroll)

	res := a.Movement.Update(dt, in, a.Camera.Forward(), a.Camera.Right(), a.SprintAllowed())
	if res.StateChanged {
		e.eventLog.Record(EventTypeStateChange, e.tickCount, a.ID, StateChangePayload{
			From: res.PrevState.String(),
			To:   res.State.String(),
		})
	}
	if res.Landed {
		pos := a.Body.Position()
		e.eventLog.Record(EventTypeLanding, e.tickCount, a.ID, nil)
		e.pushCue(CueSnapshot{AvatarID: a.ID, Kind: CueLanding, X: pos.X(), Y: pos.Y(), Z: pos.Z()})
	}

	if in.CastPressed {
		a.Cast.Press(now)
	}
	a.Cast.Update(now)

	if in.CastReleased {
		if spell, held, ok := a.Cast.Release(now); ok {
			e.resolveCast(a, spell, held)
		}
	}

	a.UpdatePools(dt, res.State)
	a.Toaster.Update(dt)
}

// resolveCast spends mana and spawns the projectile. A failed spend eats
// the charge: that is the cost of casting on an empty pool.
func (e *Engine) resolveCast(a *Avatar, spell SpellDefinition, held float64) {
	if !a.Mana.Spend(float64(spell.ManaCost)) {
		a.Toaster.Push(ToastWarning, "Not enough mana")
		e.eventLog.Record(EventTypeCastFailed, e.tickCount, a.ID, CastFailedPayload{
			Spell:    spell.Name,
			ManaCost: spell.ManaCost,
			Mana:     a.Mana.Current(),
		})
		return
	}

	origin := a.CastOrigin()
	p := e.projectiles.Spawn(a.ID, origin, a.Camera.Aim(), spell)
	if p == nil {
		// Live cap hit. Refund so the charge is not wasted on a full sky.
		a.Mana.Add(float64(spell.ManaCost))
		a.Toaster.Push(ToastWarning, "Too many projectiles in flight")
		return
	}

	a.SpellsCast++
	if e.onCast != nil {
		e.onCast()
	}
	e.eventLog.Record(EventTypeCast, e.tickCount, a.ID, CastPayload{
		Spell:    spell.Name,
		Held:     held,
		ManaCost: spell.ManaCost,
		Damage:   spell.Damage,
	})
	e.pushCue(CueSnapshot{AvatarID: a.ID, Kind: CueCast, X: origin.X(), Y: origin.Y(), Z: origin.Z()})
}

// applyImpact records the outcome of a retired projectile.
func (e *Engine) applyImpact(imp Impact) {
	switch {
	case imp.Target != nil:
		targetID := ""
		if d, ok := imp.Target.(*TrainingDummy); ok {
			targetID = d.ID
		}
		e.eventLog.Record(EventTypeHit, e.tickCount, imp.OwnerID, HitPayload{
			ProjectileID: imp.ProjectileID,
			TargetID:     targetID,
			Damage:       imp.Damage,
			X:            imp.Pos.X(),
			Y:            imp.Pos.Y(),
			Z:            imp.Pos.Z(),
		})
		e.pushCue(CueSnapshot{AvatarID: imp.OwnerID, Kind: CueImpact, X: imp.Pos.X(), Y: imp.Pos.Y(), Z: imp.Pos.Z()})
	case imp.Ground:
		e.pushCue(CueSnapshot{Kind: CueSplash, X: imp.Pos.X(), Y: imp.Pos.Y(), Z: imp.Pos.Z()})
	}
	// Expiry retires silently.
}

func (e *Engine) pushCue(cue CueSnapshot) {
	if len(e.cueScratch) < cap(e.cueScratch) {
		e.cueScratch = append(e.cueScratch, cue)
	}
}

// publishSnapshot copies renderable state into the triple buffer.
func (e *Engine) publishSnapshot() {
	snap := e.snapshotPool.AcquireWrite()

	snap.TickNumber = e.tickCount
	snap.SimTime = e.simTime
	snap.Paused = e.paused
	snap.Degraded = e.world.Degraded()

	for _, a := range e.avatarList {
		if len(snap.Avatars) >= cap(snap.Avatars) {
			break
		}
		snap.Avatars = append(snap.Avatars, a.ToSnapshot())
	}

	for _, p := range e.projectiles.Live() {
		if len(snap.Projectiles) >= cap(snap.Projectiles) {
			break
		}
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{
			ID:     p.ID,
			X:      p.Pos.X(),
			Y:      p.Pos.Y(),
			Z:      p.Pos.Z(),
			Radius: p.Radius,
			Color:  p.Color,
		})
	}

	for _, d := range e.dummies {
		if len(snap.Targets) >= cap(snap.Targets) {
			break
		}
		pos := d.WorldPosition()
		snap.Targets = append(snap.Targets, TargetSnapshot{
			ID:          d.ID,
			X:           pos.X(),
			Y:           pos.Y(),
			Z:           pos.Z(),
			Radius:      d.CollisionRadius(),
			HP:          d.HP(),
			MaxHP:       DummyMaxHP,
			Flashing:    d.Flashing(),
			HitsTaken:   d.HitsTaken(),
			TotalDamage: d.TotalDamage(),
		})
	}

	snap.Cues = append(snap.Cues, e.cueScratch...)

	e.snapshotPool.PublishWrite()
}

// Snapshot returns the latest published frame.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshotPool.AcquireRead()
}

// Paused reports the pause flag.
func (e *Engine) Paused() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.paused
}

// AvatarCount returns the number of live avatars.
func (e *Engine) AvatarCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.avatars)
}

// Stats returns engine counters for the monitoring endpoint.
func (e *Engine) Stats() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return map[string]interface{}{
		"tick":        e.tickCount,
		"simTime":     e.simTime,
		"paused":      e.paused,
		"degraded":    e.world.Degraded(),
		"avatars":     len(e.avatars),
		"targets":     len(e.dummies),
		"projectiles": e.projectiles.Count(),
		"tickRate":    e.cfg.Sim.TickRate,
		"events":      e.eventLog.Stats(),
	}
}
