package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"waterball/internal/physics"
)

// Avatar tuning
const (
	AvatarRadius   = 0.9 // Body rests this far above the ground
	CastHandHeight = 1.4 // Projectile origin above the feet

	DefaultMaxMana    = 100.0
	ManaRegenPerSec   = 6.0
	DefaultMaxHealth  = 100.0
	HealthRegenPerSec = 1.5
	DefaultMaxStamina = 100.0
	StaminaRegenRate  = 14.0
	SprintDrainPerSec = 18.0
)

// Avatar is one player-controlled entity: a physics body plus the
// controllers and pools that drive it. All per-tick mutation happens on the
// engine goroutine; only the InputState is touched from outside.
type Avatar struct {
	ID string

	Input    *InputState
	Camera   *CameraRig
	Body     *physics.Body
	Movement *MovementController
	Cast     *CastController

	Mana    *ResourcePool
	Health  *ResourcePool
	Stamina *ResourcePool

	Toaster    *Toaster
	SpellsCast int
}

// NewAvatar assembles an avatar at a spawn position.
func NewAvatar(id string, w *physics.World, spawn mgl64.Vec3, cfg MovementConfig, book SpellBook, maxToasts int) (*Avatar, error) {
	body := w.CreateBody(spawn, AvatarRadius)

	movement, err := NewMovementController(cfg, w, body)
	if err != nil {
		w.RemoveBody(body)
		return nil, err
	}

	return &Avatar{
		ID:       id,
		Input:    NewInputState(),
		Camera:   NewCameraRig(),
		Body:     body,
		Movement: movement,
		Cast:     NewCastController(book),
		Mana:     NewResourcePool(DefaultMaxMana, ManaRegenPerSec),
		Health:   NewResourcePool(DefaultMaxHealth, HealthRegenPerSec),
		Stamina:  NewResourcePool(DefaultMaxStamina, StaminaRegenRate),
		Toaster:  NewToaster(maxToasts),
	}, nil
}

// CastOrigin returns the hand position projectiles spawn from.
func (a *Avatar) CastOrigin() mgl64.Vec3 {
	return a.Body.Position().Add(mgl64.Vec3{0, CastHandHeight, 0})
}

// SprintAllowed reports whether the avatar has stamina left to run.
func (a *Avatar) SprintAllowed() bool {
	return a.Stamina.Current() > 0
}

// UpdatePools advances regeneration for one tick. Stamina drains instead of
// regenerating while running; running dry drops the avatar back to walk
// speed on the next tick via SprintAllowed.
func (a *Avatar) UpdatePools(dt float64, state MovementState) {
	a.Mana.Regen(dt, state)
	a.Health.Regen(dt, state)
	if state == StateRunning {
		a.Stamina.Drain(SprintDrainPerSec * dt)
	} else {
		a.Stamina.Regen(dt, state)
	}
}

// ToSnapshot copies the avatar's renderable state.
func (a *Avatar) ToSnapshot() AvatarSnapshot {
	pos := a.Body.Position()
	progress := a.Cast.Progress()

	snap := AvatarSnapshot{
		ID:  a.ID,
		X:   pos.X(),
		Y:   pos.Y(),
		Z:   pos.Z(),
		Yaw: a.Movement.Yaw(),

		State: a.Movement.State().String(),
		Clip:  ClipFor(a.Movement.State(), a.Cast.Charging()),

		CamYaw:   a.Camera.Yaw(),
		CamPitch: a.Camera.Pitch(),
		CamDist:  a.Camera.Distance(),

		Charging:       a.Cast.Charging(),
		ChargeProgress: progress,
		ChargePhase:    ChargePhase(progress),
		ChargeColor:    ChargeColor(progress),
		SpellsCast:     a.SpellsCast,

		Mana:       a.Mana.Current(),
		MaxMana:    a.Mana.Max(),
		ManaColor:  ManaColor(a.Mana.Fraction()),
		Health:     a.Health.Current(),
		MaxHealth:  a.Health.Max(),
		Stamina:    a.Stamina.Current(),
		MaxStamina: a.Stamina.Max(),
	}

	if toasts := a.Toaster.Active(); len(toasts) > 0 {
		snap.Toasts = append(snap.Toasts, toasts...)
	}

	return snap
}
