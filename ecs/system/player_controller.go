package system

import (
	"math"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

const playerAttackClip = "attack"

// PlayerControlSystem turns the host's PlayerControl command into movement
// intent and runs the player's attack cycle on the same impact timing the
// creatures use.
type PlayerControlSystem struct {
	ctx *Context
}

func NewPlayerControlSystem(ctx *Context) *PlayerControlSystem {
	return &PlayerControlSystem{ctx: ctx}
}

func (p *PlayerControlSystem) Update(w *ecs.World) {
	if p == nil || w == nil {
		return
	}

	entities := ecs.Query(w,
		component.PlayerControlComponent.Kind(),
		component.TransformComponent.Kind(),
	)
	for _, e := range entities {
		ctrl, _ := ecs.Get(w, e, component.PlayerControlComponent.Kind())
		transform, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		intent, _ := ecs.Get(w, e, component.MoveIntentComponent.Kind())

		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead {
			if intent != nil {
				*intent = component.MoveIntent{}
			}
			ctrl.Attack = false
			continue
		}

		p.move(w, e, ctrl, transform, intent)
		p.attack(w, e, ctrl, transform)
		ctrl.Attack = false
	}
}

func (p *PlayerControlSystem) move(w *ecs.World, e ecs.Entity, ctrl *component.PlayerControl, transform *component.Transform, intent *component.MoveIntent) {
	if intent == nil {
		return
	}
	mx, my := ctrl.MoveX, ctrl.MoveY
	l := math.Hypot(mx, my)
	if l < 1e-9 {
		*intent = component.MoveIntent{}
	} else {
		if l > 1 {
			mx, my = mx/l, my/l
		}
		speed := 0.0
		if stats, ok := ecs.Get(w, e, component.StatsComponent.Kind()); ok {
			speed = stats.MoveSpeed.EffectiveValue()
		}
		intent.X, intent.Y = mx*speed, my*speed
	}

	switch {
	case ctrl.AimX != 0 || ctrl.AimY != 0:
		transform.Rotation = math.Atan2(ctrl.AimY, ctrl.AimX)
	case l > 1e-9:
		transform.Rotation = math.Atan2(my, mx)
	}
}

func (p *PlayerControlSystem) attack(w *ecs.World, e ecs.Entity, ctrl *component.PlayerControl, transform *component.Transform) {
	atk, ok := ecs.Get(w, e, component.AttackProfileComponent.Kind())
	if !ok {
		return
	}
	clock, ok := ecs.Get(w, e, component.AttackClockComponent.Kind())
	if !ok {
		clock = &component.AttackClock{}
		_ = ecs.Add(w, e, component.AttackClockComponent.Kind(), clock)
	}

	if !atk.InProgress {
		if !ctrl.Attack || ecs.Has(w, e, component.CooldownComponent.Kind()) {
			return
		}
		atk.StartAttacking(uint64(nearestCreature(w, transform.X, transform.Y)))
		clock.Elapsed = 0
		if p.ctx.Animator != nil {
			p.ctx.Animator.Play(w, e, playerAttackClip)
		}
		return
	}

	duration := atk.Duration
	if duration <= 0 {
		duration = defaultAttackDuration
	}
	clock.Elapsed += p.ctx.DT
	if clock.Elapsed >= atk.Impact()*duration {
		AttackTrigger(w, p.ctx, e)
	}
	if clock.Elapsed >= duration {
		atk.StopAttacking()
		if atk.Cooldown > 0 {
			_ = ecs.Add(w, e, component.CooldownComponent.Kind(), &component.Cooldown{Remaining: atk.Cooldown})
		}
	}
}

func nearestCreature(w *ecs.World, x, y float64) ecs.Entity {
	best, bestDist := ecs.Entity(0), math.Inf(1)
	for _, e := range ecs.Query(w, component.CreatureTagComponent.Kind(), component.TransformComponent.Kind()) {
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead {
			continue
		}
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		if d := math.Hypot(t.X-x, t.Y-y); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}
