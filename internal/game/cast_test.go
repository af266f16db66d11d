package game

import (
	"math"
	"testing"
)

func testBook() SpellBook {
	b := DefaultSpellBook()
	b.Quick.ManaCost = 5
	b.Charged.ManaCost = 22
	b.Quick.Damage = 8
	b.Charged.Damage = 30
	b.Charged.CastTime = 1.5
	return b
}

// TestPressIsIdempotent tests that pressing while already charging keeps
// the original start time
func TestPressIsIdempotent(t *testing.T) {
	c := NewCastController(testBook())

	c.Press(1.0)
	c.Press(1.4) // Should be a no-op

	spell, held, ok := c.Release(2.5)
	if !ok {
		t.Fatal("release after press should resolve")
	}
	if held != 1.5 {
		t.Errorf("held duration should measure from the first press: got %f, want 1.5", held)
	}
	if spell.ManaCost != 22 {
		t.Errorf("1.5s hold should resolve to the charged tier, got cost %d", spell.ManaCost)
	}
}

// TestReleaseWithoutCharging tests that a stray release is ignored
func TestReleaseWithoutCharging(t *testing.T) {
	c := NewCastController(testBook())

	if _, _, ok := c.Release(1.0); ok {
		t.Error("release without a press should not resolve")
	}
}

// TestQuickTierBoundary tests that a short tap resolves to the quick tier
// exactly
func TestQuickTierBoundary(t *testing.T) {
	c := NewCastController(testBook())

	c.Press(0)
	spell, _, ok := c.Release(0.1)
	if !ok {
		t.Fatal("release should resolve")
	}
	if spell.ManaCost != 5 || spell.Damage != 8 {
		t.Errorf("0.1s hold should be the quick tier: got cost %d damage %d", spell.ManaCost, spell.Damage)
	}
}

// TestChargedTierBoundary tests full-charge and over-charge resolution
func TestChargedTierBoundary(t *testing.T) {
	for _, held := range []float64{1.5, 2.0, 10.0} {
		c := NewCastController(testBook())
		c.Press(0)
		spell, _, _ := c.Release(held)
		if spell.ManaCost != 22 || spell.Damage != 30 {
			t.Errorf("%.1fs hold should be the charged tier: got cost %d damage %d", held, spell.ManaCost, spell.Damage)
		}
	}
}

// TestPartialChargeInterpolation tests linear interpolation with ceil on
// cost and damage at the midpoint
func TestPartialChargeInterpolation(t *testing.T) {
	c := NewCastController(testBook())

	c.Press(0)
	spell, _, _ := c.Release(0.75) // Half of the 1.5s full charge

	wantCost := int(math.Ceil(5 + (22-5)*0.5))
	if spell.ManaCost != wantCost {
		t.Errorf("midpoint mana cost: got %d, want %d", spell.ManaCost, wantCost)
	}
	wantDamage := int(math.Ceil(8 + (30-8)*0.5))
	if spell.Damage != wantDamage {
		t.Errorf("midpoint damage: got %d, want %d", spell.Damage, wantDamage)
	}

	// Speed and color always come from the charged tier
	book := testBook()
	if spell.Speed != book.Charged.Speed {
		t.Errorf("partial charge speed should inherit the charged tier: got %f", spell.Speed)
	}
	if spell.Color != book.Charged.Color {
		t.Errorf("partial charge color should inherit the charged tier: got %s", spell.Color)
	}
}

// TestChargeProgressClamps tests the progress readout over a session
func TestChargeProgressClamps(t *testing.T) {
	c := NewCastController(testBook())

	if c.Progress() != 0 {
		t.Error("idle controller should report zero progress")
	}

	c.Press(0)
	c.Update(0.75)
	if math.Abs(c.Progress()-0.5) > 1e-9 {
		t.Errorf("progress at half charge: got %f, want 0.5", c.Progress())
	}

	c.Update(99)
	if c.Progress() != 1 {
		t.Errorf("progress should clamp at 1, got %f", c.Progress())
	}

	c.Release(99)
	if c.Charging() || c.Progress() != 0 {
		t.Error("release should return the controller to idle")
	}
}
