package component

import "math"

// AttackKind selects how an attack delivers its damage.
type AttackKind string

const (
	AttackMelee  AttackKind = "melee"
	AttackRanged AttackKind = "ranged"
	AttackBoth   AttackKind = "both"
)

const (
	DefaultImpactFraction = 0.5
	DefaultCritMultiplier = 1.5
)

// Payload is what a ranged attack carries to its victim on top of the hit.
type Payload struct {
	Name               string
	PoisonPerTick      int
	PoisonDuration     float64
	PoisonInterval     float64
	SlowMultiplier     float64
	SlowDuration       float64
	ProjectileSpeed    float64
	ProjectileRadius   float64
	ProjectileLifetime float64
}

// AttackProfile configures one actor's attack and tracks the attack cycle in
// flight. HasDamaged guarantees one damage application per cycle.
type AttackProfile struct {
	Range            float64
	BaseDamage       int
	AdditionalDamage int
	DamageMultiplier float64
	Kind             AttackKind

	// Attack point, expressed in the actor's facing frame (x forward).
	PointOffsetX   float64
	PointOffsetY   float64
	HasAttackPoint bool

	// ImpactFraction is the normalized attack time at which damage lands.
	ImpactFraction float64
	Duration       float64
	Cooldown       float64
	CritMultiplier float64

	// PlayerControlled swaps BaseDamage for the AttackPower stat and enables crits.
	PlayerControlled bool

	Payload  Payload
	Payloads []Payload
	// Selected indexes Payloads for the current activation.
	Selected int
	// TargetMask is the collision category of opposing actors.
	TargetMask uint32

	Target     uint64
	InProgress bool
	HasDamaged bool
	Cycle      int
}

// StartAttacking begins a new attack cycle against target.
func (a *AttackProfile) StartAttacking(target uint64) {
	if a == nil {
		return
	}
	a.Target = target
	a.HasDamaged = false
	a.InProgress = true
	a.Cycle++
}

// StopAttacking ends the cycle and forgets the target.
func (a *AttackProfile) StopAttacking() {
	if a == nil {
		return
	}
	a.InProgress = false
	a.Target = 0
}

// CanTrigger reports whether the current cycle may still deal damage.
func (a *AttackProfile) CanTrigger() bool {
	return a != nil && a.InProgress && !a.HasDamaged
}

func (a *AttackProfile) MarkDamaged() {
	if a != nil {
		a.HasDamaged = true
	}
}

// CurrentPayload returns the payload chosen for this activation.
func (a *AttackProfile) CurrentPayload() Payload {
	if a == nil {
		return Payload{}
	}
	if a.Selected >= 0 && a.Selected < len(a.Payloads) {
		return a.Payloads[a.Selected]
	}
	return a.Payload
}

// Impact returns the normalized threshold, falling back to mid-animation.
func (a *AttackProfile) Impact() float64 {
	if a == nil || a.ImpactFraction <= 0 || a.ImpactFraction > 1 {
		return DefaultImpactFraction
	}
	return a.ImpactFraction
}

// GetAttackDamage computes round((base + additional) * multiplier). For
// player-controlled profiles base is the effective attack power and a roll at
// or under the crit rate multiplies the result.
func (a *AttackProfile) GetAttackDamage(stats *Stats, roll float64) int {
	if a == nil {
		return 0
	}
	base := float64(a.BaseDamage)
	if a.PlayerControlled && stats != nil {
		base = stats.AttackPower.EffectiveValue()
	}
	mult := a.DamageMultiplier
	if mult <= 0 {
		mult = 1
	}
	dmg := (base + float64(a.AdditionalDamage)) * mult
	if a.PlayerControlled && stats != nil {
		if crit := stats.CritChance(); crit > 0 && roll <= crit {
			cm := a.CritMultiplier
			if cm <= 0 {
				cm = DefaultCritMultiplier
			}
			dmg *= cm
		}
	}
	return int(math.Round(dmg))
}

// AttackPoint returns the world position of the attack point for an actor at
// (x, y) facing rotation radians. Without a configured point it is the
// actor's own position.
func (a *AttackProfile) AttackPoint(x, y, rotation float64) (float64, float64) {
	if a == nil || !a.HasAttackPoint {
		return x, y
	}
	sin, cos := math.Sincos(rotation)
	return x + a.PointOffsetX*cos - a.PointOffsetY*sin, y + a.PointOffsetX*sin + a.PointOffsetY*cos
}

var AttackProfileComponent = NewComponent[AttackProfile]()
