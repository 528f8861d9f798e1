package system

import (
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// StatusEffectSystem advances every tracker once per tick and feeds poison
// ticks through the damage resolver.
type StatusEffectSystem struct {
	ctx *Context
}

func NewStatusEffectSystem(ctx *Context) *StatusEffectSystem {
	return &StatusEffectSystem{ctx: ctx}
}

func (s *StatusEffectSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := s.ctx.DT

	ecs.ForEach(w, component.StatusEffectsComponent.Kind(), func(e ecs.Entity, status *component.StatusEffects) {
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead {
			status.Clear()
			return
		}

		ticks := status.Advance(dt)
		for i := 0; i < ticks.Count; i++ {
			if status.IsInvincible() {
				break
			}
			res := TakeDamage(w, s.ctx, e, component.DamageInfo{
				Amount: ticks.PerTick,
				Kind:   component.DamagePoison,
				Source: ticks.Source,
			})
			if res == DamageKilled || res == DamageRevived {
				break
			}
		}
	})
}
