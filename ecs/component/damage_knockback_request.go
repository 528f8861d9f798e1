package component

// DamageKnockback is a transient component requesting the knockback system
// displace the entity away from the damage source. The knockback system
// converts it into a running Knockback and removes the request.
type DamageKnockback struct {
	SourceX      float64
	SourceY      float64
	SourceEntity uint64
}

var DamageKnockbackRequestComponent = NewComponent[DamageKnockback]()
