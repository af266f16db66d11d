package game

import "testing"

// TestChargePhaseLabels tests the phase label boundaries
func TestChargePhaseLabels(t *testing.T) {
	cases := []struct {
		progress float64
		want     string
	}{
		{0, "charging"},
		{0.34, "charging"},
		{0.35, "focusing"},
		{0.74, "focusing"},
		{0.75, "near-ready"},
		{0.99, "near-ready"},
		{1.0, "ready"},
	}
	for _, c := range cases {
		if got := ChargePhase(c.progress); got != c.want {
			t.Errorf("ChargePhase(%f) = %s, want %s", c.progress, got, c.want)
		}
	}
}

// TestManaColorThresholds tests the mana readout color bands
func TestManaColorThresholds(t *testing.T) {
	if ManaColor(0.1) == ManaColor(0.9) {
		t.Error("low and full mana should use different colors")
	}
	if ManaColor(0.24) != ManaColor(0.0) {
		t.Error("everything below the low threshold should share a color")
	}
	if ManaColor(0.3) == ManaColor(0.9) {
		t.Error("warn band should differ from the healthy band")
	}
}

// TestToasterExpiry tests auto-dismiss after the TTL
func TestToasterExpiry(t *testing.T) {
	tr := NewToaster(5)
	tr.Push(ToastInfo, "hello")

	tr.Update(DefaultToastTTL - 0.1)
	if len(tr.Active()) != 1 {
		t.Fatal("toast should still be alive before its TTL")
	}

	tr.Update(0.2)
	if len(tr.Active()) != 0 {
		t.Error("toast should expire after its TTL")
	}
}

// TestToasterCapEvictsOldest tests the notification cap
func TestToasterCapEvictsOldest(t *testing.T) {
	tr := NewToaster(2)
	tr.Push(ToastInfo, "one")
	tr.Push(ToastInfo, "two")
	tr.Push(ToastInfo, "three")

	active := tr.Active()
	if len(active) != 2 {
		t.Fatalf("toaster should cap at 2, got %d", len(active))
	}
	if active[0].Text != "two" || active[1].Text != "three" {
		t.Errorf("oldest toast should be evicted: got %q, %q", active[0].Text, active[1].Text)
	}
}
