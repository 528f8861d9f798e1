package component

const (
	LayerPlayer uint32 = 1 << iota
	LayerCreature
	LayerProjectile
	LayerWall
)

// CollisionLayer declares an actor's category and the categories its attacks
// may affect.
type CollisionLayer struct {
	// Category is a bitmask of this entity's collision category. If zero,
	// it is treated as category 1.
	Category uint32 `yaml:"category,omitempty"`
	// Mask is a bitmask of categories this entity should collide with. If
	// zero, it is treated as all-bits set.
	Mask uint32 `yaml:"mask,omitempty"`
}

// Categories returns Category with the zero default applied.
func (c *CollisionLayer) Categories() uint32 {
	if c == nil || c.Category == 0 {
		return 1
	}
	return c.Category
}

// Collides returns Mask with the zero default applied.
func (c *CollisionLayer) Collides() uint32 {
	if c == nil || c.Mask == 0 {
		return ^uint32(0)
	}
	return c.Mask
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
