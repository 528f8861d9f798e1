package system

import (
	"math"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/entity"
)

// AttackTrigger lands the current attack cycle of attacker. It is safe to call
// on every tick of the impact window: once the cycle has dealt damage (or
// launched its projectile) further calls do nothing. It reports whether
// anything was hit or launched by this call.
func AttackTrigger(w *ecs.World, ctx *Context, attacker ecs.Entity) bool {
	atk, ok := ecs.Get(w, attacker, component.AttackProfileComponent.Kind())
	if !ok || !atk.CanTrigger() {
		return false
	}
	if h, ok := ecs.Get(w, attacker, component.HealthComponent.Kind()); ok && h.Dead {
		return false
	}

	switch atk.Kind {
	case component.AttackRanged:
		return fireProjectile(w, ctx, attacker, atk)
	case component.AttackBoth:
		if meleeStrike(w, ctx, attacker, atk) {
			return true
		}
		return fireProjectile(w, ctx, attacker, atk)
	default:
		return meleeStrike(w, ctx, attacker, atk)
	}
}

func meleeStrike(w *ecs.World, ctx *Context, attacker ecs.Entity, atk *component.AttackProfile) bool {
	t, ok := ecs.Get(w, attacker, component.TransformComponent.Kind())
	if !ok {
		ctx.warnOnce(attacker, "transform", "attacker has no transform")
		return false
	}
	if ctx == nil || ctx.Spatial == nil {
		ctx.warnOnce(attacker, "spatial", "no spatial query; melee attack skipped")
		return false
	}
	if !atk.HasAttackPoint {
		ctx.warnOnce(attacker, "attack_point", "no attack point configured; striking from actor position")
	}

	px, py := atk.AttackPoint(t.X, t.Y, t.Rotation)
	stats, _ := ecs.Get(w, attacker, component.StatsComponent.Kind())

	hit := false
	for _, victim := range ctx.Spatial.OverlapCircle(w, px, py, atk.Range, atk.TargetMask) {
		if victim == attacker {
			continue
		}
		dmg := atk.GetAttackDamage(stats, ctx.roll())
		res := TakeDamage(w, ctx, victim, component.DamageInfo{
			Amount:    dmg,
			Kind:      component.DamageMelee,
			Source:    uint64(attacker),
			SourceX:   t.X,
			SourceY:   t.Y,
			HasOrigin: true,
		})
		if res.Landed() {
			hit = true
		}
	}
	if hit {
		atk.MarkDamaged()
	}
	return hit
}

func fireProjectile(w *ecs.World, ctx *Context, attacker ecs.Entity, atk *component.AttackProfile) bool {
	target := ecs.Entity(atk.Target)
	if target == 0 || !ecs.IsAlive(w, target) {
		return false
	}
	if h, ok := ecs.Get(w, target, component.HealthComponent.Kind()); ok && h.Dead {
		return false
	}
	tt, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	t, ok := ecs.Get(w, attacker, component.TransformComponent.Kind())
	if !ok {
		ctx.warnOnce(attacker, "transform", "attacker has no transform")
		return false
	}

	px, py := atk.AttackPoint(t.X, t.Y, t.Rotation)
	dx, dy := tt.X-px, tt.Y-py
	if math.Hypot(dx, dy) < 1e-6 {
		dx, dy = math.Cos(t.Rotation), math.Sin(t.Rotation)
	}

	stats, _ := ecs.Get(w, attacker, component.StatsComponent.Kind())
	payload := atk.CurrentPayload()
	if _, err := entity.NewProjectile(w, entity.ProjectileParams{
		Owner:   attacker,
		Mask:    atk.TargetMask,
		X:       px,
		Y:       py,
		DirX:    dx,
		DirY:    dy,
		Damage:  atk.GetAttackDamage(stats, ctx.roll()),
		Payload: payload,
	}); err != nil {
		ctx.logf("attack: entity=%s launch projectile: %v", attacker, err)
		return false
	}
	atk.MarkDamaged()
	return true
}

// SetCurrentState overrides a creature's state from outside the AI (scripted
// events, debug tools). The change is committed by the AI on its next pass.
// Forcing Revive on a dead creature brings it back with half health and uses
// up its one revive.
func SetCurrentState(w *ecs.World, e ecs.Entity, next component.StateID) bool {
	state, ok := ecs.Get(w, e, component.CombatStateComponent.Kind())
	if !ok || next == "" {
		return false
	}
	if next == component.StateRevive {
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
			h.Revived = true
			if h.Dead || h.Current <= 0 {
				h.Dead = false
				h.Current = reviveHealth(h)
			}
		}
	}
	state.Pending = next
	state.PendingForce = true
	return true
}
