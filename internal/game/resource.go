package game

// Regen scaling while exerted. Running cuts regeneration, being airborne
// cuts it further on top.
const (
	RegenRunningFactor  = 0.5
	RegenAirborneFactor = 0.25
)

// ResourcePool is a bounded regenerating resource (mana, health, stamina).
// Current never leaves [0, max]. All mutation happens on the tick goroutine
// under the engine lock, so the pool itself carries no synchronization.
type ResourcePool struct {
	current float64
	max     float64
	regen   float64 // Base regeneration per second
}

// NewResourcePool creates a full pool.
func NewResourcePool(max, regenPerSec float64) *ResourcePool {
	return &ResourcePool{current: max, max: max, regen: regenPerSec}
}

// Current returns the current amount.
func (p *ResourcePool) Current() float64 { return p.current }

// Max returns the capacity.
func (p *ResourcePool) Max() float64 { return p.max }

// Fraction returns current/max in [0,1].
func (p *ResourcePool) Fraction() float64 {
	if p.max <= 0 {
		return 0
	}
	return p.current / p.max
}

// Regen advances regeneration by dt. The rate scales down while running
// and further while airborne, and the result clamps at max.
func (p *ResourcePool) Regen(dt float64, state MovementState) {
	rate := p.regen
	if state == StateRunning {
		rate *= RegenRunningFactor
	}
	if !state.Grounded() {
		rate *= RegenAirborneFactor
	}

	p.current += rate * dt
	if p.current > p.max {
		p.current = p.max
	}
}

// Spend atomically deducts amount. On insufficient funds it returns false
// and leaves the pool untouched; there is never a partial deduction.
func (p *ResourcePool) Spend(amount float64) bool {
	if amount > p.current {
		return false
	}
	p.current -= amount
	return true
}

// Drain removes up to amount, flooring at zero. Used for continuous costs
// like sprint stamina where running dry is expected, not an error.
func (p *ResourcePool) Drain(amount float64) {
	p.current -= amount
	if p.current < 0 {
		p.current = 0
	}
}

// Add restores amount, clamped at max.
func (p *ResourcePool) Add(amount float64) {
	p.current += amount
	if p.current > p.max {
		p.current = p.max
	}
}
