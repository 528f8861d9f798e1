package system

import (
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

type WhiteFlashSystem struct {
	ctx *Context
}

func NewWhiteFlashSystem(ctx *Context) *WhiteFlashSystem { return &WhiteFlashSystem{ctx: ctx} }

func (s *WhiteFlashSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := s.ctx.DT

	for _, e := range ecs.Query(w, component.WhiteFlashComponent.Kind()) {
		wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind())
		if !ok {
			continue
		}
		if wf.Interval <= 0 {
			wf.Interval = wf.Remaining
		}
		wf.Timer += dt
		for wf.Interval > 0 && wf.Timer >= wf.Interval {
			wf.Timer -= wf.Interval
			wf.On = !wf.On
		}
		wf.Remaining -= dt
		if wf.Remaining <= 0 {
			ecs.Remove(w, e, component.WhiteFlashComponent.Kind())
		}
	}
}
