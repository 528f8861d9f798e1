package system

import (
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// CooldownSystem counts cooldowns down and removes them when they finish. The
// combat AI treats the missing component as "ready".
type CooldownSystem struct {
	ctx *Context
}

func NewCooldownSystem(ctx *Context) *CooldownSystem {
	return &CooldownSystem{ctx: ctx}
}

func (s *CooldownSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.CooldownComponent.Kind(), func(e ecs.Entity, cd *component.Cooldown) {
		cd.Remaining -= s.ctx.DT
		if cd.Remaining <= 0 {
			ecs.Remove(w, e, component.CooldownComponent.Kind())
		}
	})
}
