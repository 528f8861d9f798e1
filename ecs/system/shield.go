package system

import (
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// ShieldRecharger counts the kills of shield holders and hands out charges.
type ShieldRecharger struct {
	ctx *Context
}

func NewShieldRecharger(ctx *Context) *ShieldRecharger {
	return &ShieldRecharger{ctx: ctx}
}

func (s *ShieldRecharger) OnKill(w *ecs.World, kill KillEvent) {
	if s == nil || kill.Killer == 0 {
		return
	}
	shield, ok := ecs.Get(w, kill.Killer, component.ShieldComponent.Kind())
	if !ok {
		return
	}
	if shield.RegisterKill() {
		s.ctx.emit(w, EventShieldRecharged, ShieldEvent{Entity: kill.Killer, Charges: shield.Charges})
	}
}
