package game

// HUD presentation rules. This file is pure output: it maps simulation
// values to the labels, colors and notifications the client renders, and
// never feeds anything back into the simulation.

// Charge bar phase boundaries (fractions of full charge)
const (
	PhaseFocusingAt  = 0.35
	PhaseNearReadyAt = 0.75
	PhaseReadyAt     = 1.0
)

// ChargePhase returns the label shown next to the charge bar.
func ChargePhase(progress float64) string {
	switch {
	case progress >= PhaseReadyAt:
		return "ready"
	case progress >= PhaseNearReadyAt:
		return "near-ready"
	case progress >= PhaseFocusingAt:
		return "focusing"
	default:
		return "charging"
	}
}

// ChargeColor returns the bar color for a charge fraction. The gradient
// runs cool blue to bright cyan as the spell approaches full power.
func ChargeColor(progress float64) string {
	switch {
	case progress >= PhaseReadyAt:
		return "#00e5ff"
	case progress >= PhaseNearReadyAt:
		return "#29b6f6"
	case progress >= PhaseFocusingAt:
		return "#4f8ef7"
	default:
		return "#5c6bc0"
	}
}

// Mana display thresholds
const (
	ManaLowFraction  = 0.25
	ManaWarnFraction = 0.5
)

// ManaColor returns the mana readout color for a fill fraction.
func ManaColor(fraction float64) string {
	switch {
	case fraction < ManaLowFraction:
		return "#ef5350" // red, casting about to fail
	case fraction < ManaWarnFraction:
		return "#ffb74d" // amber
	default:
		return "#4fc3f7" // healthy blue
	}
}

// ToastLevel classifies a notification.
type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastWarning ToastLevel = "warning"
	ToastError   ToastLevel = "error"
)

// DefaultToastTTL is how long a notification stays on screen.
const DefaultToastTTL = 3.0

// Toast is one transient notification.
type Toast struct {
	Level ToastLevel `json:"level"`
	Text  string     `json:"text"`
	TTL   float64    `json:"ttl"` // Remaining seconds
}

// Toaster holds one avatar's active notifications, oldest first, capped so
// a spammy tick can't grow the snapshot without bound.
type Toaster struct {
	toasts []Toast
	max    int
}

// NewToaster creates a toaster with a notification cap.
func NewToaster(max int) *Toaster {
	return &Toaster{toasts: make([]Toast, 0, max), max: max}
}

// Push adds a notification, evicting the oldest at the cap.
func (t *Toaster) Push(level ToastLevel, text string) {
	if len(t.toasts) >= t.max {
		copy(t.toasts, t.toasts[1:])
		t.toasts = t.toasts[:len(t.toasts)-1]
	}
	t.toasts = append(t.toasts, Toast{Level: level, Text: text, TTL: DefaultToastTTL})
}

// Update ages notifications and drops the expired ones in place.
func (t *Toaster) Update(dt float64) {
	kept := t.toasts[:0]
	for _, toast := range t.toasts {
		toast.TTL -= dt
		if toast.TTL > 0 {
			kept = append(kept, toast)
		}
	}
	t.toasts = kept
}

// Active returns the live notifications, oldest first.
func (t *Toaster) Active() []Toast { return t.toasts }
