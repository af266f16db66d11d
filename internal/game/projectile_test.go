package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"waterball/internal/physics"
)

func testSpell() SpellDefinition {
	return SpellDefinition{
		Name:        "Water Ball",
		ManaCost:    5,
		Speed:       10,
		Radius:      0.5,
		Damage:      8,
		MaxLifetime: 5.0,
		SpawnOffset: 1.0,
	}
}

// recordingTarget counts impacts without any dummy behavior
type recordingTarget struct {
	pos    mgl64.Vec3
	radius float64
	hits   int
}

func (r *recordingTarget) WorldPosition() mgl64.Vec3            { return r.pos }
func (r *recordingTarget) CollisionRadius() float64             { return r.radius }
func (r *recordingTarget) ApplyImpact(damage int, _ mgl64.Vec3) { r.hits++ }

// TestSpawnAppliesOffset tests the forward nudge that clears the caster
func TestSpawnAppliesOffset(t *testing.T) {
	w := physics.NewFlatWorld(physics.DefaultConfig())
	ps := NewProjectileSystem(w, 8)

	p := ps.Spawn("a1", mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 0, -1}, testSpell())
	if p == nil {
		t.Fatal("spawn should succeed under the cap")
	}
	if p.Pos.Z() != -1 {
		t.Errorf("spawn should nudge forward by the offset: z = %f, want -1", p.Pos.Z())
	}
}

// TestSpawnRespectsCap tests the live projectile limit
func TestSpawnRespectsCap(t *testing.T) {
	w := physics.NewFlatWorld(physics.DefaultConfig())
	ps := NewProjectileSystem(w, 2)

	ps.Spawn("a1", mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 0, -1}, testSpell())
	ps.Spawn("a1", mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 0, -1}, testSpell())
	if p := ps.Spawn("a1", mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 0, -1}, testSpell()); p != nil {
		t.Error("spawn above the cap should return nil")
	}
}

// TestProjectileLifetime tests removal at the first tick elapsed reaches
// maxLifetime, and at no earlier tick
func TestProjectileLifetime(t *testing.T) {
	w := physics.NewFlatWorld(physics.DefaultConfig())
	ps := NewProjectileSystem(w, 8)

	spell := testSpell()
	spell.MaxLifetime = 5.0
	// Fly level, high above the ground, nothing to hit
	ps.Spawn("a1", mgl64.Vec3{0, 50, 0}, mgl64.Vec3{0, 0, -1}, spell)

	dt := 0.5
	for i := 1; i <= 9; i++ {
		impacts := ps.Update(dt, nil)
		if len(impacts) != 0 {
			t.Fatalf("projectile removed early at elapsed %.1f", float64(i)*dt)
		}
	}

	impacts := ps.Update(dt, nil) // elapsed reaches 5.0 here
	if len(impacts) != 1 || !impacts[0].Expired {
		t.Fatalf("projectile should expire exactly at maxLifetime, got %+v", impacts)
	}
	if ps.Count() != 0 {
		t.Errorf("expired projectile should leave the live set, count = %d", ps.Count())
	}
}

// TestFirstMatchWinsInListOrder tests that collision checks targets in list
// order and stops at the first hit
func TestFirstMatchWinsInListOrder(t *testing.T) {
	w := physics.NewFlatWorld(physics.DefaultConfig())
	ps := NewProjectileSystem(w, 8)

	// Both targets overlap the projectile's next position; the nearer one
	// is listed second and must NOT be hit.
	far := &recordingTarget{pos: mgl64.Vec3{0, 5, -1}, radius: 3}
	near := &recordingTarget{pos: mgl64.Vec3{0, 5, -0.5}, radius: 3}

	spell := testSpell()
	spell.SpawnOffset = 0
	ps.Spawn("a1", mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, 0, -1}, spell)

	impacts := ps.Update(0.01, []Target{far, near})
	if len(impacts) != 1 {
		t.Fatalf("expected one impact, got %d", len(impacts))
	}
	if far.hits != 1 || near.hits != 0 {
		t.Errorf("first target in list order should win: far=%d near=%d", far.hits, near.hits)
	}
	if ps.Count() != 0 {
		t.Error("hit projectile should be removed immediately")
	}
}

// TestGroundContactRemovesWithoutDamage tests the miss-collision on terrain
func TestGroundContactRemovesWithoutDamage(t *testing.T) {
	w := physics.NewFlatWorld(physics.DefaultConfig())
	ps := NewProjectileSystem(w, 8)

	tgt := &recordingTarget{pos: mgl64.Vec3{100, 100, 100}, radius: 1}

	spell := testSpell()
	spell.SpawnOffset = 0
	ps.Spawn("a1", mgl64.Vec3{0, 0.4, 0}, mgl64.Vec3{0, -1, 0}, spell)

	impacts := ps.Update(0.1, []Target{tgt})
	if len(impacts) != 1 || !impacts[0].Ground {
		t.Fatalf("expected a ground removal, got %+v", impacts)
	}
	if tgt.hits != 0 {
		t.Error("ground contact must not damage any target")
	}
}

// TestSamePassCompaction tests that removing several projectiles in one
// update never skips a survivor
func TestSamePassCompaction(t *testing.T) {
	w := physics.NewFlatWorld(physics.DefaultConfig())
	ps := NewProjectileSystem(w, 8)

	short := testSpell()
	short.MaxLifetime = 0.05
	long := testSpell()
	long.MaxLifetime = 10

	// Alternate doomed and surviving projectiles
	ps.Spawn("a1", mgl64.Vec3{0, 50, 0}, mgl64.Vec3{0, 0, -1}, short)
	ps.Spawn("a1", mgl64.Vec3{0, 50, 5}, mgl64.Vec3{0, 0, -1}, long)
	ps.Spawn("a1", mgl64.Vec3{0, 50, 10}, mgl64.Vec3{0, 0, -1}, short)
	ps.Spawn("a1", mgl64.Vec3{0, 50, 15}, mgl64.Vec3{0, 0, -1}, long)

	impacts := ps.Update(0.1, nil)
	if len(impacts) != 2 {
		t.Fatalf("expected 2 expiries, got %d", len(impacts))
	}
	if ps.Count() != 2 {
		t.Fatalf("expected 2 survivors, got %d", ps.Count())
	}
	for _, p := range ps.Live() {
		if p.MaxLifetime != 10 {
			t.Error("a survivor was dropped during compaction")
		}
	}
}
