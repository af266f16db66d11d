package game

import "github.com/go-gl/mathgl/mgl64"

// Target is the capability interface projectiles collide against: anything
// with a world position, a collision radius and an impact reaction. Whether
// a target is a dummy, a prop or something else is the implementation's
// business.
type Target interface {
	WorldPosition() mgl64.Vec3
	CollisionRadius() float64
	ApplyImpact(damage int, from mgl64.Vec3)
}

// Training dummy constants
const (
	DummyRadius        = 0.9
	DummyMaxHP         = 100
	DummyHitFlashTime  = 0.35 // Seconds the client should tint the dummy
	DummyRecoverPerSec = 8.0  // HP per second back toward full
)

// TrainingDummy is the practice target. It never dies: damage drains its
// visible HP bar, the bar recovers over time, and hit/damage totals keep
// counting for the session stats.
type TrainingDummy struct {
	ID  string
	pos mgl64.Vec3

	hp        float64
	hitFlash  float64 // Remaining flash time
	hitsTaken int
	totalDmg  int
}

// NewTrainingDummy places a dummy at a world position.
func NewTrainingDummy(id string, pos mgl64.Vec3) *TrainingDummy {
	return &TrainingDummy{ID: id, pos: pos, hp: DummyMaxHP}
}

// WorldPosition implements Target.
func (d *TrainingDummy) WorldPosition() mgl64.Vec3 { return d.pos }

// CollisionRadius implements Target.
func (d *TrainingDummy) CollisionRadius() float64 { return DummyRadius }

// ApplyImpact implements Target. The dummy soaks the hit, flashes, and
// keeps score.
func (d *TrainingDummy) ApplyImpact(damage int, from mgl64.Vec3) {
	d.hp -= float64(damage)
	if d.hp < 0 {
		d.hp = 0
	}
	d.hitFlash = DummyHitFlashTime
	d.hitsTaken++
	d.totalDmg += damage
}

// Update decays the hit flash and recovers HP toward full.
func (d *TrainingDummy) Update(dt float64) {
	if d.hitFlash > 0 {
		d.hitFlash -= dt
		if d.hitFlash < 0 {
			d.hitFlash = 0
		}
	}
	if d.hp < DummyMaxHP {
		d.hp += DummyRecoverPerSec * dt
		if d.hp > DummyMaxHP {
			d.hp = DummyMaxHP
		}
	}
}

// HP returns the current visible hit points.
func (d *TrainingDummy) HP() float64 { return d.hp }

// Flashing reports whether the hit flash is active.
func (d *TrainingDummy) Flashing() bool { return d.hitFlash > 0 }

// HitsTaken returns the total hits absorbed.
func (d *TrainingDummy) HitsTaken() int { return d.hitsTaken }

// TotalDamage returns the cumulative damage absorbed.
func (d *TrainingDummy) TotalDamage() int { return d.totalDmg }
