package component

// Health tracks hit points. Current never drops below zero; Dead latches once
// the terminal state has been requested so later hits are ignored.
type Health struct {
	Current int
	Max     int
	Dead    bool
	// Revived is set the one time a revivable creature comes back.
	Revived bool
	// LastAttacker is the entity credited with the most recent damage.
	LastAttacker uint64
}

// Fraction returns Current/Max, or 0 when Max is unset.
func (h *Health) Fraction() float64 {
	if h == nil || h.Max <= 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}

var HealthComponent = NewComponent[Health]()
