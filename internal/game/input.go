package game

import "sync"

// InputState accumulates raw input messages from a WebSocket session between
// ticks. It does no interpretation: axes, held buttons and deltas are stored
// as received and drained once per tick into an InputSnapshot. Press and
// release edges are latched as the transitions arrive, so a click shorter
// than one tick interval still registers both edges.
type InputState struct {
	mu sync.Mutex

	moveX float64 // Strafe axis, -1..1
	moveZ float64 // Forward axis, -1..1

	sprint bool
	jump   bool
	cast   bool
	pause  bool

	lookDX float64 // Accumulated mouse deltas since last snapshot
	lookDY float64
	scroll float64

	// Edge latches, set on transitions in Apply and cleared by Snapshot
	jumpPressed  bool
	castPressed  bool
	castReleased bool
	pausePressed bool
}

// InputSnapshot is the per-tick view of a session's input. Edges come from
// the latches in InputState, so a button held across many ticks produces
// exactly one Pressed.
type InputSnapshot struct {
	MoveX float64
	MoveZ float64

	Sprint bool

	JumpPressed  bool
	CastHeld     bool
	CastPressed  bool
	CastReleased bool
	PausePressed bool

	LookDX float64
	LookDY float64
	Scroll float64
}

// NewInputState creates an empty input accumulator.
func NewInputState() *InputState {
	return &InputState{}
}

// InputMessage is the wire format clients send. Deltas are additive; axes
// and held buttons are absolute.
type InputMessage struct {
	MoveX  float64 `json:"moveX"`
	MoveZ  float64 `json:"moveZ"`
	Sprint bool    `json:"sprint"`
	Jump   bool    `json:"jump"`
	Cast   bool    `json:"cast"`
	Pause  bool    `json:"pause"`
	LookDX float64 `json:"lookDx"`
	LookDY float64 `json:"lookDy"`
	Scroll float64 `json:"scroll"`
}

// Apply merges a client message into the accumulator. Called from the
// session read goroutine; the tick loop drains via Snapshot.
func (s *InputState) Apply(msg InputMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.Jump && !s.jump {
		s.jumpPressed = true
	}
	if msg.Cast && !s.cast {
		s.castPressed = true
	}
	if !msg.Cast && s.cast {
		s.castReleased = true
	}
	if msg.Pause && !s.pause {
		s.pausePressed = true
	}

	s.moveX = clampAxis(msg.MoveX)
	s.moveZ = clampAxis(msg.MoveZ)
	s.sprint = msg.Sprint
	s.jump = msg.Jump
	s.cast = msg.Cast
	s.pause = msg.Pause
	s.lookDX += msg.LookDX
	s.lookDY += msg.LookDY
	s.scroll += msg.Scroll
}

// Snapshot drains accumulated deltas and returns the per-tick input view.
func (s *InputState) Snapshot() InputSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := InputSnapshot{
		MoveX:        s.moveX,
		MoveZ:        s.moveZ,
		Sprint:       s.sprint,
		JumpPressed:  s.jumpPressed,
		CastHeld:     s.cast,
		CastPressed:  s.castPressed,
		CastReleased: s.castReleased,
		PausePressed: s.pausePressed,
		LookDX:       s.lookDX,
		LookDY:       s.lookDY,
		Scroll:       s.scroll,
	}

	// Edges and deltas are consumed; axes and held buttons persist until
	// the next message changes them.
	s.jumpPressed = false
	s.castPressed = false
	s.castReleased = false
	s.pausePressed = false
	s.lookDX = 0
	s.lookDY = 0
	s.scroll = 0

	return snap
}

func clampAxis(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
