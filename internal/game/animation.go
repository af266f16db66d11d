package game

// Animation clip names the browser client binds to its rigged character.
// The server decides which clip plays; the client only crossfades.
const (
	ClipIdle       = "idle"
	ClipWalk       = "walk"
	ClipRun        = "run"
	ClipJump       = "jump"
	ClipFall       = "fall"
	ClipLand       = "land"
	ClipChargeIdle = "charge_idle"
	ClipChargeWalk = "charge_walk"
)

// Cue kinds carried in snapshots for one tick.
const (
	CueLanding = "landing"
	CueCast    = "cast"
	CueImpact  = "impact"
	CueSplash  = "splash" // Projectile hit the ground
)

// ClipFor maps a movement state (and whether a cast is charging) to the
// clip the client should play. Charging overrides only the slow states;
// running and airborne states keep their full-body clips so locomotion
// stays readable.
func ClipFor(state MovementState, charging bool) string {
	if charging {
		switch state {
		case StateIdle:
			return ClipChargeIdle
		case StateWalking:
			return ClipChargeWalk
		}
	}

	switch state {
	case StateWalking:
		return ClipWalk
	case StateRunning:
		return ClipRun
	case StateJumping:
		return ClipJump
	case StateFalling:
		return ClipFall
	case StateLanding:
		return ClipLand
	default:
		return ClipIdle
	}
}
