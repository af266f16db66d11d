package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"waterball/internal/physics"
)

// Projectile is one in-flight spell. Owned exclusively by the
// ProjectileSystem from spawn to removal; nothing else holds a reference to
// a live projectile.
type Projectile struct {
	ID      string
	OwnerID string

	Pos mgl64.Vec3
	Dir mgl64.Vec3 // Unit direction, fixed at spawn

	Speed  float64
	Radius float64
	Damage int
	Color  string

	Elapsed     float64
	MaxLifetime float64
}

// Impact describes why a projectile left the world. Hit impacts carry the
// target; ground and expiry removals do not.
type Impact struct {
	ProjectileID string
	OwnerID      string
	Pos          mgl64.Vec3
	Damage       int
	Target       Target // nil for ground/expiry removals
	Ground       bool
	Expired      bool
}

// ProjectileSystem owns every live projectile: spawning, advancing,
// collision and retirement all happen here.
type ProjectileSystem struct {
	world *physics.World

	projectiles []*Projectile
	maxLive     int
	nextID      uint64
}

// NewProjectileSystem creates an empty system over a physics world (used
// only for ground height queries).
func NewProjectileSystem(w *physics.World, maxLive int) *ProjectileSystem {
	return &ProjectileSystem{
		world:       w,
		projectiles: make([]*Projectile, 0, maxLive),
		maxLive:     maxLive,
	}
}

// Count returns the number of live projectiles.
func (ps *ProjectileSystem) Count() int { return len(ps.projectiles) }

// Live returns the live set for snapshot building. Callers must not hold
// the slice across ticks.
func (ps *ProjectileSystem) Live() []*Projectile { return ps.projectiles }

// Spawn creates a projectile at origin nudged forward by the spell's spawn
// offset so it clears the caster. Returns nil when the live cap is full.
func (ps *ProjectileSystem) Spawn(ownerID string, origin, dir mgl64.Vec3, spell SpellDefinition) *Projectile {
	if len(ps.projectiles) >= ps.maxLive {
		return nil
	}

	ps.nextID++
	p := &Projectile{
		ID:          fmt.Sprintf("proj_%d", ps.nextID),
		OwnerID:     ownerID,
		Pos:         origin.Add(dir.Mul(spell.SpawnOffset)),
		Dir:         dir,
		Speed:       spell.Speed,
		Radius:      spell.Radius,
		Damage:      spell.Damage,
		Color:       spell.Color,
		MaxLifetime: spell.MaxLifetime,
	}
	ps.projectiles = append(ps.projectiles, p)
	return p
}

// Update advances every projectile and retires the ones that hit, touch
// the ground, or expire. The live slice is compacted in place during the
// same pass, writing survivors forward so no element is ever skipped.
func (ps *ProjectileSystem) Update(dt float64, targets []Target) []Impact {
	var impacts []Impact

	kept := ps.projectiles[:0]
	for _, p := range ps.projectiles {
		p.Pos = p.Pos.Add(p.Dir.Mul(p.Speed * dt))
		p.Elapsed += dt

		// A projectile hits at most one target. Targets are tested in
		// list order and the first qualifying hit wins.
		hit := false
		for _, t := range targets {
			if p.Pos.Sub(t.WorldPosition()).Len() <= p.Radius+t.CollisionRadius() {
				t.ApplyImpact(p.Damage, p.Pos)
				impacts = append(impacts, Impact{
					ProjectileID: p.ID,
					OwnerID:      p.OwnerID,
					Pos:          p.Pos,
					Damage:       p.Damage,
					Target:       t,
				})
				hit = true
				break
			}
		}
		if hit {
			continue
		}

		// Ground contact is a miss: remove without damage.
		if p.Pos.Y()-p.Radius <= ps.world.HeightAt(p.Pos.X(), p.Pos.Z()) {
			impacts = append(impacts, Impact{
				ProjectileID: p.ID,
				OwnerID:      p.OwnerID,
				Pos:          p.Pos,
				Ground:       true,
			})
			continue
		}

		if p.Elapsed >= p.MaxLifetime {
			impacts = append(impacts, Impact{
				ProjectileID: p.ID,
				OwnerID:      p.OwnerID,
				Pos:          p.Pos,
				Expired:      true,
			})
			continue
		}

		kept = append(kept, p)
	}

	// Clear dropped tail slots so retired projectiles can be collected.
	for i := len(kept); i < len(ps.projectiles); i++ {
		ps.projectiles[i] = nil
	}
	ps.projectiles = kept

	return impacts
}
