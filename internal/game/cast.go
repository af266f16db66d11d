package game

// CastController runs the press-hold-release charging protocol for one
// caster: Idle and Charging are the only states, and a release always
// returns to Idle. There is no cancel path; every release resolves to some
// spell. Time is the engine's simulation clock in seconds, so charging
// freezes cleanly while the game is paused.
type CastController struct {
	book SpellBook

	charging  bool
	startTime float64
	progress  float64
}

// NewCastController creates an idle controller over a spell book.
func NewCastController(book SpellBook) *CastController {
	return &CastController{book: book}
}

// Charging reports whether a cast session is live.
func (c *CastController) Charging() bool { return c.charging }

// Progress returns the charge fraction in [0,1] for the UI bar.
func (c *CastController) Progress() float64 {
	if !c.charging {
		return 0
	}
	return c.progress
}

// Book returns the controller's spell book.
func (c *CastController) Book() SpellBook { return c.book }

// Press starts a cast session. Pressing while already charging is a no-op;
// the original start time stands.
func (c *CastController) Press(now float64) {
	if c.charging {
		return
	}
	c.charging = true
	c.startTime = now
	c.progress = 0
}

// Update recomputes charge progress. Called every tick while charging.
func (c *CastController) Update(now float64) {
	if !c.charging {
		return
	}
	full := c.book.Charged.CastTime
	if full <= 0 {
		c.progress = 1
		return
	}
	p := (now - c.startTime) / full
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	c.progress = p
}

// Release ends the session and resolves the held duration to a spell.
// Releasing while not charging returns ok=false.
func (c *CastController) Release(now float64) (spell SpellDefinition, held float64, ok bool) {
	if !c.charging {
		return SpellDefinition{}, 0, false
	}
	held = now - c.startTime
	c.charging = false
	c.progress = 0
	return c.book.Resolve(held), held, true
}
