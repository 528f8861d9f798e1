package component

// DefaultShieldClearRadius is the fixed projectile-clearing radius used when
// absorbing a hit. It is not derived from shield upgrades.
const DefaultShieldClearRadius = 96.0

// Shield negates one ranged hit per charge.
type Shield struct {
	Charges        int
	MaxCharges     int
	ClearRadius    float64
	KillsPerCharge int
	KillProgress   int
}

// Absorb consumes one charge if available.
func (s *Shield) Absorb() bool {
	if s == nil || s.Charges <= 0 {
		return false
	}
	s.Charges--
	return true
}

// RegisterKill counts a kill toward the next charge and reports whether a
// charge was granted.
func (s *Shield) RegisterKill() bool {
	if s == nil || s.KillsPerCharge <= 0 || s.Charges >= s.MaxCharges {
		return false
	}
	s.KillProgress++
	if s.KillProgress < s.KillsPerCharge {
		return false
	}
	s.KillProgress = 0
	s.Charges++
	return true
}

// Radius returns the configured clear radius or the default.
func (s *Shield) Radius() float64 {
	if s == nil || s.ClearRadius <= 0 {
		return DefaultShieldClearRadius
	}
	return s.ClearRadius
}

var ShieldComponent = NewComponent[Shield]()
