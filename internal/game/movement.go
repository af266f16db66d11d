package game

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"waterball/internal/physics"
)

// MovementState enumerates the avatar locomotion states. Exactly one value
// is active per avatar per tick; the transition is a pure function of
// (grounded, vertical velocity sign, horizontal speed, sprint), with the
// previous state kept only for landing and state-change edges.
type MovementState uint8

const (
	StateIdle MovementState = iota
	StateWalking
	StateRunning
	StateJumping
	StateFalling
	StateLanding
)

// String returns the wire name used in snapshots and event payloads.
func (s MovementState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWalking:
		return "walking"
	case StateRunning:
		return "running"
	case StateJumping:
		return "jumping"
	case StateFalling:
		return "falling"
	case StateLanding:
		return "landing"
	default:
		return "unknown"
	}
}

// Grounded reports whether the state is a ground-contact state.
func (s MovementState) Grounded() bool {
	return s == StateIdle || s == StateWalking || s == StateRunning || s == StateLanding
}

// MovementConfig is immutable per-avatar locomotion tuning.
type MovementConfig struct {
	WalkSpeed     float64 // World units per second
	RunSpeed      float64
	JumpImpulse   float64 // Upward velocity applied on jump
	AirControl    float64 // 0..1 fraction of acceleration available airborne
	Acceleration  float64 // Approach rate toward target velocity, per second
	Deceleration  float64 // Decay rate when no input, per second
	RotationSpeed float64 // Yaw interpolation rate, radians per second

	WalkThreshold float64 // Horizontal speed above which the avatar walks
	RunThreshold  float64 // Horizontal speed above which sprinting reads as running
	JumpThreshold float64 // Vertical velocity above which airborne reads as jumping
	YawDeadzone   float64 // Minimum input magnitude before yaw tracks movement
}

// DefaultMovementConfig returns locomotion tuning matched to the prototype
// terrain scale.
func DefaultMovementConfig() MovementConfig {
	return MovementConfig{
		WalkSpeed:     4.5,
		RunSpeed:      8.5,
		JumpImpulse:   9.0,
		AirControl:    0.25,
		Acceleration:  10.0,
		Deceleration:  12.0,
		RotationSpeed: 10.0,
		WalkThreshold: 0.3,
		RunThreshold:  5.0,
		JumpThreshold: 0.5,
		YawDeadzone:   0.1,
	}
}

// Validate checks the configuration invariants.
func (c MovementConfig) Validate() error {
	if c.WalkSpeed <= 0 || c.RunSpeed <= 0 || c.JumpImpulse <= 0 {
		return fmt.Errorf("movement speeds must be positive")
	}
	if c.AirControl < 0 || c.AirControl > 1 {
		return fmt.Errorf("air control must be in [0,1], got %f", c.AirControl)
	}
	if c.Acceleration <= 0 || c.Deceleration <= 0 || c.RotationSpeed <= 0 {
		return fmt.Errorf("movement response rates must be positive")
	}
	return nil
}

// MovementResult reports what one update did, for animation and event
// consumers. StateChanged carries the (old, new) pair; Landed fires exactly
// once per airborne episode.
type MovementResult struct {
	State        MovementState
	PrevState    MovementState
	StateChanged bool
	Landed       bool
	Jumped       bool
}

// MovementController drives one avatar's locomotion. It owns the body's
// horizontal velocity and yaw; vertical velocity belongs to the physics
// world except for the jump impulse.
type MovementController struct {
	cfg   MovementConfig
	world *physics.World
	body  *physics.Body

	state    MovementState
	yaw      float64
	airborne bool // True between leaving the ground and the landing edge
}

// NewMovementController creates a controller bound to a physics body.
func NewMovementController(cfg MovementConfig, w *physics.World, body *physics.Body) (*MovementController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MovementController{cfg: cfg, world: w, body: body}, nil
}

// State returns the current movement state.
func (m *MovementController) State() MovementState { return m.state }

// Yaw returns the avatar facing in radians.
func (m *MovementController) Yaw() float64 { return m.yaw }

// Update advances locomotion by one tick. Camera directions orient the
// input axes; sprintAllowed gates running (stamina exhaustion drops the
// avatar back to walk speed without touching the sprint input itself).
func (m *MovementController) Update(dt float64, in InputSnapshot, camForward, camRight mgl64.Vec3, sprintAllowed bool) MovementResult {
	_, grounded := m.world.GroundDistance(m.body)

	// Desired horizontal direction from camera-relative axes.
	desired := camForward.Mul(in.MoveZ).Add(camRight.Mul(in.MoveX))
	desired[1] = 0
	mag := desired.Len()
	hasInput := mag > m.cfg.YawDeadzone
	if mag > 0 {
		desired = desired.Mul(1 / mag)
	}

	sprinting := in.Sprint && sprintAllowed

	targetSpeed := 0.0
	if hasInput {
		if sprinting {
			targetSpeed = m.cfg.RunSpeed
		} else {
			targetSpeed = m.cfg.WalkSpeed
		}
	}

	control := 1.0
	if !grounded {
		control = m.cfg.AirControl
	}

	vel := m.body.LinearVelocity()
	hvx, hvz := vel.X(), vel.Z()

	if hasInput {
		tx := desired.X() * targetSpeed
		tz := desired.Z() * targetSpeed
		alpha := math.Min(1, m.cfg.Acceleration*control*dt)
		hvx += (tx - hvx) * alpha
		hvz += (tz - hvz) * alpha
	} else {
		// Damping branch: decay toward rest, never overshoot past zero.
		decay := math.Min(1, m.cfg.Deceleration*control*dt)
		hvx -= hvx * decay
		hvz -= hvz * decay
	}
	m.body.SetHorizontalVelocity(hvx, hvz)

	res := MovementResult{PrevState: m.state}

	// Jump fires only on the rising edge while grounded. Airborne requests
	// are dropped, not queued.
	if in.JumpPressed && grounded {
		m.body.ApplyImpulse(mgl64.Vec3{0, m.cfg.JumpImpulse, 0})
		grounded = false
		res.Jumped = true
	}

	// Yaw tracks the movement direction while grounded.
	if grounded && hasInput {
		target := math.Atan2(desired.X(), desired.Z())
		step := m.cfg.RotationSpeed * dt
		diff := shortestAngle(m.yaw, target)
		if math.Abs(diff) <= step {
			m.yaw = target
		} else {
			m.yaw += math.Copysign(step, diff)
		}
	}

	hspeed := math.Hypot(hvx, hvz)
	vy := m.body.LinearVelocity().Y()
	if res.Jumped {
		vy = m.cfg.JumpImpulse
	}

	next := m.resolveState(grounded, vy, hspeed, sprinting)

	if m.airborne && next.Grounded() {
		res.Landed = true
	}
	m.airborne = !next.Grounded()

	res.State = next
	res.StateChanged = next != m.state
	m.state = next

	return res
}

// resolveState applies the fixed priority order: airborne states first,
// then grounded states by horizontal speed.
func (m *MovementController) resolveState(grounded bool, vy, hspeed float64, sprinting bool) MovementState {
	if !grounded {
		if vy > m.cfg.JumpThreshold {
			return StateJumping
		}
		return StateFalling
	}
	if hspeed > m.cfg.RunThreshold && sprinting {
		return StateRunning
	}
	if hspeed > m.cfg.WalkThreshold {
		return StateWalking
	}
	return StateIdle
}
