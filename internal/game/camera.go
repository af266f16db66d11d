package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera rig constants
const (
	CameraSensitivity  = 0.003 // Radians per pixel of mouse delta
	CameraSmoothing    = 12.0  // Exponential approach rate toward targets
	CameraMinPitch     = -1.2  // Radians, looking up limit
	CameraMaxPitch     = 1.35  // Radians, looking down limit
	CameraMinDistance  = 3.0
	CameraMaxDistance  = 18.0
	CameraZoomStep     = 0.8 // Distance change per scroll unit
	CameraDefaultYaw   = 0.0
	CameraDefaultPitch = 0.45
	CameraDefaultDist  = 9.0
)

// CameraRig is the server-side orbit camera for one avatar. Mouse deltas
// drive target angles; the actual angles ease toward the targets every tick
// so fast flicks stay smooth at snapshot rate. The rig reads the avatar
// position only when the snapshot is built, one frame behind the physics
// step. That lag is accepted at prototype scale.
type CameraRig struct {
	yaw   float64
	pitch float64
	dist  float64

	targetYaw   float64
	targetPitch float64
	targetDist  float64
}

// NewCameraRig creates a rig at the default orbit.
func NewCameraRig() *CameraRig {
	return &CameraRig{
		yaw:         CameraDefaultYaw,
		pitch:       CameraDefaultPitch,
		dist:        CameraDefaultDist,
		targetYaw:   CameraDefaultYaw,
		targetPitch: CameraDefaultPitch,
		targetDist:  CameraDefaultDist,
	}
}

// Update applies look deltas and scroll, then eases the rig toward its
// targets.
func (c *CameraRig) Update(dt, lookDX, lookDY, scroll float64) {
	c.targetYaw -= lookDX * CameraSensitivity
	c.targetPitch += lookDY * CameraSensitivity
	c.targetPitch = clamp(c.targetPitch, CameraMinPitch, CameraMaxPitch)

	c.targetDist -= scroll * CameraZoomStep
	c.targetDist = clamp(c.targetDist, CameraMinDistance, CameraMaxDistance)

	// Exponential smoothing, frame-rate independent
	alpha := 1 - math.Exp(-CameraSmoothing*dt)
	c.yaw += shortestAngle(c.yaw, c.targetYaw) * alpha
	c.pitch += (c.targetPitch - c.pitch) * alpha
	c.dist += (c.targetDist - c.dist) * alpha
}

// Yaw returns the current camera yaw in radians.
func (c *CameraRig) Yaw() float64 { return c.yaw }

// Pitch returns the current camera pitch in radians.
func (c *CameraRig) Pitch() float64 { return c.pitch }

// Distance returns the current orbit distance.
func (c *CameraRig) Distance() float64 { return c.dist }

// Forward returns the camera's horizontal forward direction. Pitch is
// ignored so movement input never pushes the avatar into the ground.
func (c *CameraRig) Forward() mgl64.Vec3 {
	return mgl64.Vec3{-math.Sin(c.yaw), 0, -math.Cos(c.yaw)}
}

// Aim returns the full 3D view direction including pitch. Cast projectiles
// fly along this vector.
func (c *CameraRig) Aim() mgl64.Vec3 {
	cp := math.Cos(c.pitch)
	return mgl64.Vec3{-math.Sin(c.yaw) * cp, -math.Sin(c.pitch), -math.Cos(c.yaw) * cp}
}

// Right returns the camera's horizontal right direction.
func (c *CameraRig) Right() mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(c.yaw), 0, -math.Sin(c.yaw)}
}

// shortestAngle returns the signed smallest rotation from a to b.
func shortestAngle(a, b float64) float64 {
	diff := math.Mod(b-a, 2*math.Pi)
	if diff > math.Pi {
		diff -= 2 * math.Pi
	}
	if diff < -math.Pi {
		diff += 2 * math.Pi
	}
	return diff
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
