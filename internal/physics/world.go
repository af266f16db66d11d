// Package physics provides the rigid-body collaborator the simulation leans
// on: point-mass bodies with gravity integration, impulses, and a downward
// ground probe against a heightfield. The movement controller only ever talks
// to this narrow surface; it never inspects terrain data directly.
//
// Two constructions exist: NewWorld over a real heightfield, and
// NewFlatWorld as the degraded-mode fallback when terrain generation fails.
// The fallback keeps the game playable on an infinite flat plane.
package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// HeightSampler reports terrain elevation at a world-space column.
type HeightSampler interface {
	HeightAt(x, z float64) float64
}

// Config tunes the shared physics parameters.
type Config struct {
	Gravity      float64 // Downward acceleration, world units / s^2
	GroundProbe  float64 // Max distance below the feet that still counts as grounded
	MaxFallSpeed float64 // Terminal velocity clamp
	WorldFloor   float64 // Absolute kill floor; bodies never sink below this
}

// DefaultConfig returns production defaults tuned for the prototype scale.
func DefaultConfig() Config {
	return Config{
		Gravity:      -24.0,
		GroundProbe:  0.25,
		MaxFallSpeed: 60.0,
		WorldFloor:   -100.0,
	}
}

// flatSampler is the degraded-mode ground: an infinite plane at y=0.
type flatSampler struct{}

func (flatSampler) HeightAt(x, z float64) float64 { return 0 }

// World steps all registered bodies against a shared heightfield.
type World struct {
	cfg    Config
	ground HeightSampler
	bodies []*Body

	degraded bool
}

// NewWorld creates a physics world over the given heightfield.
func NewWorld(ground HeightSampler, cfg Config) (*World, error) {
	if ground == nil {
		return nil, fmt.Errorf("physics world requires a height sampler")
	}
	if cfg.Gravity >= 0 {
		return nil, fmt.Errorf("gravity must point down, got %f", cfg.Gravity)
	}
	return &World{cfg: cfg, ground: ground}, nil
}

// NewFlatWorld creates the kinematic fallback world over a flat plane.
// Used when terrain construction fails so startup never blocks on physics.
func NewFlatWorld(cfg Config) *World {
	if cfg.Gravity >= 0 {
		cfg = DefaultConfig()
	}
	return &World{cfg: cfg, ground: flatSampler{}, degraded: true}
}

// Degraded reports whether this world is the flat fallback.
func (w *World) Degraded() bool { return w.degraded }

// HeightAt exposes the ground elevation under a column. The projectile
// system uses it for ground-impact tests.
func (w *World) HeightAt(x, z float64) float64 {
	return w.ground.HeightAt(x, z)
}

// CreateBody registers a new body. The radius defines where the feet are:
// the body rests when its center sits radius above the ground.
func (w *World) CreateBody(pos mgl64.Vec3, radius float64) *Body {
	b := &Body{pos: pos, radius: radius}
	w.bodies = append(w.bodies, b)
	return b
}

// RemoveBody unregisters a body. Safe to call for bodies not in the world.
func (w *World) RemoveBody(body *Body) {
	for i, b := range w.bodies {
		if b == body {
			w.bodies[i] = w.bodies[len(w.bodies)-1]
			w.bodies = w.bodies[:len(w.bodies)-1]
			return
		}
	}
}

// Step integrates gravity and velocity for all bodies and resolves ground
// contact. Vertical velocity is owned here; the movement controller only
// writes the horizontal components (plus jump impulses).
func (w *World) Step(dt float64) {
	for _, b := range w.bodies {
		vy := b.vel.Y() + w.cfg.Gravity*dt
		if vy < -w.cfg.MaxFallSpeed {
			vy = -w.cfg.MaxFallSpeed
		}
		b.vel[1] = vy

		b.pos = b.pos.Add(b.vel.Mul(dt))

		floor := w.ground.HeightAt(b.pos.X(), b.pos.Z()) + b.radius
		if b.pos.Y() <= floor {
			b.pos[1] = floor
			if b.vel.Y() < 0 {
				b.vel[1] = 0
			}
		}
		if b.pos.Y() < w.cfg.WorldFloor {
			// Emergency teleport back above ground; should never trigger
			// with a sane heightfield but keeps a bad frame recoverable.
			b.pos[1] = w.ground.HeightAt(b.pos.X(), b.pos.Z()) + b.radius
			b.vel[1] = 0
		}
	}
}

// GroundDistance probes straight down from the body's feet and reports the
// distance to the surface. The boolean is true when the surface is within
// the configured probe length (the "grounded" test).
func (w *World) GroundDistance(b *Body) (float64, bool) {
	dist := b.pos.Y() - b.radius - w.ground.HeightAt(b.pos.X(), b.pos.Z())
	return dist, dist <= w.cfg.GroundProbe
}

// Body is a point mass with a foot radius. All mutation goes through the
// methods below; position integration is the world's job.
type Body struct {
	pos    mgl64.Vec3
	vel    mgl64.Vec3
	radius float64
}

// Position returns the body's center position.
func (b *Body) Position() mgl64.Vec3 { return b.pos }

// SetPosition teleports the body (spawn placement only).
func (b *Body) SetPosition(pos mgl64.Vec3) { b.pos = pos }

// Radius returns the foot radius.
func (b *Body) Radius() float64 { return b.radius }

// LinearVelocity returns the current velocity.
func (b *Body) LinearVelocity() mgl64.Vec3 { return b.vel }

// SetLinearVelocity overwrites the full velocity vector.
func (b *Body) SetLinearVelocity(v mgl64.Vec3) { b.vel = v }

// SetHorizontalVelocity overwrites the X/Z components, preserving vertical
// velocity, which gravity integration owns.
func (b *Body) SetHorizontalVelocity(x, z float64) {
	b.vel[0] = x
	b.vel[2] = z
}

// ApplyImpulse adds an instantaneous velocity change (unit mass).
func (b *Body) ApplyImpulse(imp mgl64.Vec3) {
	b.vel = b.vel.Add(imp)
}
