package component

// DamageKind says how a hit was delivered. Only ranged hits can be absorbed
// by a shield and only poison skips the hit reaction.
type DamageKind string

const (
	DamageMelee  DamageKind = "melee"
	DamageRanged DamageKind = "ranged"
	DamageBlast  DamageKind = "blast"
	DamagePoison DamageKind = "poison"
)

// DamageInfo describes one incoming hit.
type DamageInfo struct {
	Amount int
	Kind   DamageKind
	// Source is the attributed attacker (0 when unknown).
	Source uint64
	// SourceX and SourceY locate the hit origin for knockback.
	SourceX   float64
	SourceY   float64
	HasOrigin bool
}
