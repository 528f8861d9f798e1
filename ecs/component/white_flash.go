package component

// WhiteFlash makes a sprite render as full white while On. It is the visual
// side of an invincibility window: Cycles on/off toggles spread over Remaining.
type WhiteFlash struct {
	Remaining float64
	Interval  float64
	Timer     float64
	On        bool
}

// NewWhiteFlash spreads cycles full on/off flashes over duration seconds.
func NewWhiteFlash(duration float64, cycles int) WhiteFlash {
	if cycles <= 0 {
		cycles = 1
	}
	return WhiteFlash{
		Remaining: duration,
		Interval:  duration / float64(2*cycles),
		On:        true,
	}
}

var WhiteFlashComponent = NewComponent[WhiteFlash]()
