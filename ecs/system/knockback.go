package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// KnockbackSystem turns knockback requests into running displacements and
// advances them each physics step. While a knockback runs the body's
// velocity is set so the step covers exactly the eased distance for that
// step; the actor's own movement intent is ignored.
type KnockbackSystem struct {
	ctx *Context
}

func NewKnockbackSystem(ctx *Context) *KnockbackSystem {
	return &KnockbackSystem{ctx: ctx}
}

func (s *KnockbackSystem) FixedUpdate(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := s.ctx.FixedDT
	if dt <= 0 {
		return
	}

	ecs.ForEach(w, component.DamageKnockbackRequestComponent.Kind(), func(e ecs.Entity, req *component.DamageKnockback) {
		ecs.Remove(w, e, component.DamageKnockbackRequestComponent.Kind())
		s.start(w, e, req)
	})

	ecs.ForEach(w, component.KnockbackComponent.Kind(), func(e ecs.Entity, kb *component.Knockback) {
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead {
			ecs.Remove(w, e, component.KnockbackComponent.Kind())
			return
		}

		// a finished knockback is kept through its last step so the
		// physics step that moves it does not also apply the intent
		if kb.Duration <= 0 || kb.Elapsed >= kb.Duration {
			if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil && !body.Static {
				body.Body.SetVelocityVector(cp.Vector{})
			}
			ecs.Remove(w, e, component.KnockbackComponent.Kind())
			return
		}

		dx, dy, _ := kb.Step(dt)
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil && !body.Static {
			body.Body.SetVelocityVector(cp.Vector{X: dx / dt, Y: dy / dt})
		} else if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.X += dx
			t.Y += dy
		}
	})
}

func (s *KnockbackSystem) start(w *ecs.World, e ecs.Entity, req *component.DamageKnockback) {
	kbl, ok := ecs.Get(w, e, component.KnockbackableComponent.Kind())
	if !ok {
		return
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead {
		return
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}

	dx := t.X - req.SourceX
	dy := t.Y - req.SourceY
	length := math.Hypot(dx, dy)
	if length <= 1e-6 {
		dx = 0
		dy = -1
		length = 1
	}

	distance := kbl.Distance
	if distance <= 0 {
		distance = component.DefaultKnockbackDistance
	}
	duration := kbl.Duration
	if duration <= 0 {
		duration = component.DefaultKnockbackDuration
	}

	_ = ecs.Add(w, e, component.KnockbackComponent.Kind(), &component.Knockback{
		DirX:     dx / length,
		DirY:     dy / length,
		Distance: distance,
		Duration: duration,
	})
}
