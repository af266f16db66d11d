package game

import "testing"

// TestEdgesFireOncePerHold tests that a button held across snapshots
// produces exactly one pressed edge
func TestEdgesFireOncePerHold(t *testing.T) {
	s := NewInputState()

	s.Apply(InputMessage{Jump: true, Cast: true})

	first := s.Snapshot()
	if !first.JumpPressed || !first.CastPressed {
		t.Error("first snapshot after press should carry the edges")
	}

	second := s.Snapshot()
	if second.JumpPressed || second.CastPressed {
		t.Error("held buttons must not re-fire their edges")
	}
	if !second.CastHeld {
		t.Error("cast should still read as held")
	}
}

// TestCastReleaseEdge tests the falling edge on cast
func TestCastReleaseEdge(t *testing.T) {
	s := NewInputState()

	s.Apply(InputMessage{Cast: true})
	s.Snapshot()

	s.Apply(InputMessage{Cast: false})
	snap := s.Snapshot()
	if !snap.CastReleased {
		t.Error("releasing cast should fire the released edge")
	}
	if s.Snapshot().CastReleased {
		t.Error("released edge must fire only once")
	}
}

// TestSubTickClickKeepsBothEdges tests that a press and release arriving
// between two ticks still produce their edges instead of collapsing
func TestSubTickClickKeepsBothEdges(t *testing.T) {
	s := NewInputState()

	s.Apply(InputMessage{Cast: true, Jump: true})
	s.Apply(InputMessage{Cast: false, Jump: false})

	snap := s.Snapshot()
	if !snap.CastPressed || !snap.CastReleased {
		t.Error("sub-tick cast click should carry both edges")
	}
	if snap.CastHeld {
		t.Error("cast should not read as held after the release")
	}
	if !snap.JumpPressed {
		t.Error("sub-tick jump tap should still fire its edge")
	}

	snap = s.Snapshot()
	if snap.CastPressed || snap.CastReleased || snap.JumpPressed {
		t.Error("latched edges must clear after one snapshot")
	}
}

// TestLookDeltasAccumulateAndDrain tests delta accumulation between ticks
func TestLookDeltasAccumulateAndDrain(t *testing.T) {
	s := NewInputState()

	s.Apply(InputMessage{LookDX: 3, LookDY: -1})
	s.Apply(InputMessage{LookDX: 2, Scroll: 1})

	snap := s.Snapshot()
	if snap.LookDX != 5 || snap.LookDY != -1 || snap.Scroll != 1 {
		t.Errorf("deltas should accumulate: got dx=%f dy=%f scroll=%f", snap.LookDX, snap.LookDY, snap.Scroll)
	}

	snap = s.Snapshot()
	if snap.LookDX != 0 || snap.Scroll != 0 {
		t.Error("deltas should drain after a snapshot")
	}
}

// TestAxesClamp tests that client axes are clamped to [-1, 1]
func TestAxesClamp(t *testing.T) {
	s := NewInputState()

	s.Apply(InputMessage{MoveX: 7, MoveZ: -3})
	snap := s.Snapshot()
	if snap.MoveX != 1 || snap.MoveZ != -1 {
		t.Errorf("axes should clamp: got x=%f z=%f", snap.MoveX, snap.MoveZ)
	}
}
