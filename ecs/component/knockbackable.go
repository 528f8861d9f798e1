package component

const (
	DefaultKnockbackDistance = 24.0
	DefaultKnockbackDuration = 0.15
)

// Knockbackable marks entities that may be displaced by damage and says how far.
type Knockbackable struct {
	Distance float64
	Duration float64
}

var KnockbackableComponent = NewComponent[Knockbackable]()

// Knockback is a running displacement along (DirX, DirY). While it exists
// AI movement intent is ignored.
type Knockback struct {
	DirX     float64
	DirY     float64
	Distance float64
	Duration float64
	Elapsed  float64
}

// EaseOut maps linear progress to a decelerating curve.
func EaseOut(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	inv := 1 - t
	return 1 - inv*inv
}

// Step advances the knockback by dt and returns the displacement covered
// during the step and whether it has finished.
func (k *Knockback) Step(dt float64) (dx, dy float64, done bool) {
	if k == nil || k.Duration <= 0 {
		return 0, 0, true
	}
	before := EaseOut(k.Elapsed / k.Duration)
	k.Elapsed += dt
	after := EaseOut(k.Elapsed / k.Duration)
	dist := (after - before) * k.Distance
	return k.DirX * dist, k.DirY * dist, k.Elapsed >= k.Duration
}

var KnockbackComponent = NewComponent[Knockback]()
