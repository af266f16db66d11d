package game

import (
	"math"
	"testing"
)

// TestPitchClamps tests the pitch limits against huge mouse deltas
func TestPitchClamps(t *testing.T) {
	c := NewCameraRig()

	for i := 0; i < 200; i++ {
		c.Update(1.0/30, 0, 1e6, 0)
	}
	if c.Pitch() > CameraMaxPitch+1e-9 {
		t.Errorf("pitch should clamp at %f, got %f", CameraMaxPitch, c.Pitch())
	}

	for i := 0; i < 200; i++ {
		c.Update(1.0/30, 0, -1e6, 0)
	}
	if c.Pitch() < CameraMinPitch-1e-9 {
		t.Errorf("pitch should clamp at %f, got %f", CameraMinPitch, c.Pitch())
	}
}

// TestZoomClamps tests scroll-driven distance limits
func TestZoomClamps(t *testing.T) {
	c := NewCameraRig()

	for i := 0; i < 200; i++ {
		c.Update(1.0/30, 0, 0, 100)
	}
	if c.Distance() < CameraMinDistance-1e-9 {
		t.Errorf("distance should clamp at %f, got %f", CameraMinDistance, c.Distance())
	}

	for i := 0; i < 200; i++ {
		c.Update(1.0/30, 0, 0, -100)
	}
	if c.Distance() > CameraMaxDistance+1e-9 {
		t.Errorf("distance should clamp at %f, got %f", CameraMaxDistance, c.Distance())
	}
}

// TestForwardRightOrthogonal tests the horizontal direction basis
func TestForwardRightOrthogonal(t *testing.T) {
	c := NewCameraRig()
	for i := 0; i < 100; i++ {
		c.Update(1.0/30, 37, 0, 0)
	}

	f, r := c.Forward(), c.Right()
	if math.Abs(f.Y()) > 1e-9 || math.Abs(r.Y()) > 1e-9 {
		t.Error("movement basis must stay horizontal")
	}
	if math.Abs(f.Dot(r)) > 1e-9 {
		t.Errorf("forward and right should be orthogonal, dot = %f", f.Dot(r))
	}
	if math.Abs(f.Len()-1) > 1e-9 {
		t.Errorf("forward should be unit length, got %f", f.Len())
	}
}

// TestShortestAngleWraps tests wrap-around at the pi boundary
func TestShortestAngleWraps(t *testing.T) {
	got := shortestAngle(3.0, -3.0)
	want := 2*math.Pi - 6.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("shortestAngle(3, -3) = %f, want %f", got, want)
	}

	if shortestAngle(1.0, 1.0) != 0 {
		t.Error("identical angles should have zero difference")
	}
}
