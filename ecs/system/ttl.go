package system

import (
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// TTLSystem destroys entities whose time-to-live has run out.
type TTLSystem struct {
	ctx *Context
}

func NewTTLSystem(ctx *Context) *TTLSystem {
	return &TTLSystem{ctx: ctx}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Remaining -= s.ctx.DT
		if ttl.Remaining > 0 {
			return
		}

		// TTL expired: destroy the entity
		ecs.DestroyEntity(w, e)
	})
}
