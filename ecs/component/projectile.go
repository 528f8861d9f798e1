package component

// Projectile is a straight-line mover that hits the first opposing actor it
// overlaps.
type Projectile struct {
	Owner   uint64
	Mask    uint32
	VX      float64
	VY      float64
	Radius  float64
	Damage  int
	Payload Payload
}

var ProjectileComponent = NewComponent[Projectile]()
