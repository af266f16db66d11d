package game

import "math"

// SpellDefinition is an immutable spell template. Two canonical tiers exist
// per book (quick and charged); partial charges are derived by Resolve and
// never stored. The jsonschema tags feed the catalog schema generator in
// cmd/spellschema.
type SpellDefinition struct {
	Name        string  `json:"name" jsonschema:"required,description=Display name of the spell tier"`
	ManaCost    int     `json:"manaCost" jsonschema:"required,minimum=0"`
	Speed       float64 `json:"speed" jsonschema:"required,description=Projectile speed in world units per second"`
	Radius      float64 `json:"radius" jsonschema:"required,description=Projectile collision radius"`
	Damage      int     `json:"damage" jsonschema:"required,minimum=0"`
	Color       string  `json:"color" jsonschema:"description=Hex color for the client renderer"`
	CastTime    float64 `json:"castTime" jsonschema:"description=Seconds of hold to reach this tier"`
	MaxLifetime float64 `json:"maxLifetime" jsonschema:"description=Seconds before an unhit projectile expires"`
	SpawnOffset float64 `json:"spawnOffset" jsonschema:"description=Forward nudge at spawn to clear the caster"`
}

// SpellBook holds the two canonical tiers of one chargeable spell.
type SpellBook struct {
	Quick   SpellDefinition `json:"quick" jsonschema:"required"`
	Charged SpellDefinition `json:"charged" jsonschema:"required"`
}

// QuickThreshold is the hold window below which a release always resolves
// to the quick tier.
const QuickThreshold = 0.25

// DefaultSpellBook returns the water ball in both tiers.
func DefaultSpellBook() SpellBook {
	return SpellBook{
		Quick: SpellDefinition{
			Name:        "Water Ball",
			ManaCost:    5,
			Speed:       18.0,
			Radius:      0.35,
			Damage:      8,
			Color:       "#4fc3f7",
			CastTime:    0,
			MaxLifetime: 5.0,
			SpawnOffset: 1.2,
		},
		Charged: SpellDefinition{
			Name:        "Greater Water Ball",
			ManaCost:    22,
			Speed:       26.0,
			Radius:      0.8,
			Damage:      30,
			Color:       "#0288d1",
			CastTime:    1.5,
			MaxLifetime: 5.0,
			SpawnOffset: 1.2,
		},
	}
}

// Resolve maps a hold duration to a concrete spell. Below QuickThreshold
// the quick tier is returned as-is; at or past the charged tier's cast time
// the charged tier is returned as-is. In between, mana cost, radius and
// damage interpolate linearly (costs rounded up), while speed, color, name
// and cast time come from the charged tier. That asymmetry matches the
// tuned feel of the prototype and is intentional.
func (b SpellBook) Resolve(held float64) SpellDefinition {
	if held < QuickThreshold {
		return b.Quick
	}
	full := b.Charged.CastTime
	if full <= 0 || held >= full {
		return b.Charged
	}

	t := held / full
	spell := b.Charged
	spell.ManaCost = int(math.Ceil(lerpf(float64(b.Quick.ManaCost), float64(b.Charged.ManaCost), t)))
	spell.Damage = int(math.Ceil(lerpf(float64(b.Quick.Damage), float64(b.Charged.Damage), t)))
	spell.Radius = lerpf(b.Quick.Radius, b.Charged.Radius, t)
	return spell
}

func lerpf(a, b, t float64) float64 {
	return a + (b-a)*t
}
