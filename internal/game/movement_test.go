package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"waterball/internal/physics"
)

func newTestMover(t *testing.T) (*physics.World, *MovementController) {
	t.Helper()
	w := physics.NewFlatWorld(physics.DefaultConfig())
	body := w.CreateBody(mgl64.Vec3{0, AvatarRadius, 0}, AvatarRadius)
	m, err := NewMovementController(DefaultMovementConfig(), w, body)
	if err != nil {
		t.Fatalf("NewMovementController failed: %v", err)
	}
	return w, m
}

var (
	testForward = mgl64.Vec3{0, 0, -1}
	testRight   = mgl64.Vec3{1, 0, 0}
)

// TestMovementConfigValidate tests the configuration invariants
func TestMovementConfigValidate(t *testing.T) {
	cfg := DefaultMovementConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	bad := cfg
	bad.AirControl = 1.5
	if err := bad.Validate(); err == nil {
		t.Error("air control above 1 should fail validation")
	}

	bad = cfg
	bad.WalkSpeed = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero walk speed should fail validation")
	}
}

// TestIdleWithoutInput tests that a grounded motionless avatar reads Idle
func TestIdleWithoutInput(t *testing.T) {
	_, m := newTestMover(t)

	res := m.Update(1.0/30, InputSnapshot{}, testForward, testRight, true)
	if res.State != StateIdle {
		t.Errorf("expected idle, got %s", res.State)
	}
}

// TestWalkAndRunStates tests grounded state resolution by speed and sprint
func TestWalkAndRunStates(t *testing.T) {
	_, m := newTestMover(t)
	dt := 1.0 / 30

	in := InputSnapshot{MoveZ: 1}
	for i := 0; i < 60; i++ {
		m.Update(dt, in, testForward, testRight, true)
	}
	if m.State() != StateWalking {
		t.Errorf("expected walking after sustained input, got %s", m.State())
	}

	in.Sprint = true
	var res MovementResult
	for i := 0; i < 60; i++ {
		res = m.Update(dt, in, testForward, testRight, true)
	}
	if res.State != StateRunning {
		t.Errorf("expected running with sprint held, got %s", res.State)
	}

	// Sprint blocked (no stamina) drops back to walking speed
	for i := 0; i < 120; i++ {
		res = m.Update(dt, in, testForward, testRight, false)
	}
	if res.State != StateWalking {
		t.Errorf("expected walking when sprint is blocked, got %s", res.State)
	}
}

// TestJumpOnRisingEdgeWhileGrounded tests that a grounded jump edge applies
// the impulse and transitions to Jumping
func TestJumpOnRisingEdgeWhileGrounded(t *testing.T) {
	_, m := newTestMover(t)

	res := m.Update(1.0/30, InputSnapshot{JumpPressed: true}, testForward, testRight, true)
	if !res.Jumped {
		t.Fatal("grounded jump edge should fire")
	}
	if res.State != StateJumping {
		t.Errorf("expected jumping, got %s", res.State)
	}
}

// TestJumpSuppressedWhileAirborne tests that airborne jump requests are
// silently dropped
func TestJumpSuppressedWhileAirborne(t *testing.T) {
	w, m := newTestMover(t)
	dt := 1.0 / 30

	m.Update(dt, InputSnapshot{JumpPressed: true}, testForward, testRight, true)
	w.Step(dt)

	velBefore := m.State()
	res := m.Update(dt, InputSnapshot{JumpPressed: true}, testForward, testRight, true)
	if res.Jumped {
		t.Error("airborne jump request should be dropped")
	}
	if velBefore.Grounded() {
		t.Fatal("avatar should be airborne in this scenario")
	}
}

// TestLandingFiresOncePerEpisode tests the full grounded-airborne-grounded
// cycle: jump, fall, land, with exactly one landing notification
func TestLandingFiresOncePerEpisode(t *testing.T) {
	w, m := newTestMover(t)
	dt := 1.0 / 30

	res := m.Update(dt, InputSnapshot{JumpPressed: true}, testForward, testRight, true)
	if res.State != StateJumping {
		t.Fatalf("expected jumping, got %s", res.State)
	}

	landings := 0
	sawFalling := false
	for i := 0; i < 300; i++ {
		w.Step(dt)
		res = m.Update(dt, InputSnapshot{}, testForward, testRight, true)
		if res.State == StateFalling {
			sawFalling = true
		}
		if res.Landed {
			landings++
		}
	}

	if !sawFalling {
		t.Error("avatar should pass through falling on the way down")
	}
	if landings != 1 {
		t.Errorf("landing should fire exactly once, fired %d times", landings)
	}
	if !m.State().Grounded() {
		t.Errorf("avatar should end grounded, got %s", m.State())
	}
}

// TestYawTracksMovementDirection tests shortest-angle yaw interpolation
func TestYawTracksMovementDirection(t *testing.T) {
	_, m := newTestMover(t)
	dt := 1.0 / 30

	// Move along +X: target yaw is atan2(1, 0) = pi/2
	for i := 0; i < 120; i++ {
		m.Update(dt, InputSnapshot{MoveX: 1}, testForward, testRight, true)
	}
	if math.Abs(m.Yaw()-math.Pi/2) > 0.01 {
		t.Errorf("yaw should converge to pi/2, got %f", m.Yaw())
	}
}

// TestVerticalVelocityUntouched tests that horizontal control never writes
// the vertical component
func TestVerticalVelocityUntouched(t *testing.T) {
	w, m := newTestMover(t)
	body := w.CreateBody(mgl64.Vec3{0, 10, 0}, AvatarRadius)
	m2, _ := NewMovementController(DefaultMovementConfig(), w, body)

	body.SetLinearVelocity(mgl64.Vec3{0, -3, 0})
	m2.Update(1.0/30, InputSnapshot{MoveZ: 1}, testForward, testRight, true)

	if body.LinearVelocity().Y() != -3 {
		t.Errorf("vertical velocity should be untouched, got %f", body.LinearVelocity().Y())
	}
	_ = m
}
