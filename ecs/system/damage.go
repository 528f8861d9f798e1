package system

import (
	"math"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// DamageResult reports what TakeDamage did with a hit.
type DamageResult int

const (
	DamageIgnored DamageResult = iota
	DamageAbsorbed
	DamageApplied
	DamageKilled
	DamageRevived
)

func (r DamageResult) String() string {
	switch r {
	case DamageAbsorbed:
		return "absorbed"
	case DamageApplied:
		return "applied"
	case DamageKilled:
		return "killed"
	case DamageRevived:
		return "revived"
	}
	return "ignored"
}

// Landed reports whether the hit reached the victim's health.
func (r DamageResult) Landed() bool {
	return r == DamageApplied || r == DamageKilled || r == DamageRevived
}

// TakeDamage is the single entry point for reducing an actor's health.
// Dead and invincible victims ignore the hit, a shield charge absorbs a ranged
// hit, and anything else is mitigated by defense and subtracted. A lethal hit
// either revives a revivable creature once or kills; a non-lethal hit grants
// i-frames and, for creatures, Hurt and a knockback request.
func TakeDamage(w *ecs.World, ctx *Context, victim ecs.Entity, info component.DamageInfo) DamageResult {
	health, ok := ecs.Get(w, victim, component.HealthComponent.Kind())
	if !ok {
		ctx.warnOnce(victim, "health", "damage target has no health")
		return DamageIgnored
	}
	if health.Dead || health.Current <= 0 {
		return DamageIgnored
	}

	status, _ := ecs.Get(w, victim, component.StatusEffectsComponent.Kind())
	if status.IsInvincible() {
		return DamageIgnored
	}

	if info.Kind == component.DamageRanged {
		if shield, ok := ecs.Get(w, victim, component.ShieldComponent.Kind()); ok && shield.Absorb() {
			cleared := clearProjectilesNear(w, ctx, victim, shield.Radius())
			ctx.logf("damage: entity=%s shield absorbed hit, cleared=%d charges=%d", victim, cleared, shield.Charges)
			ctx.emit(w, EventShieldAbsorbed, ShieldEvent{Entity: victim, Charges: shield.Charges, Cleared: cleared})
			return DamageAbsorbed
		}
	}

	amount := info.Amount
	if amount <= 0 {
		return DamageIgnored
	}
	if info.Kind != component.DamagePoison {
		amount = mitigate(w, victim, amount)
	}

	health.Current -= amount
	if health.Current < 0 {
		health.Current = 0
	}
	if info.Source != 0 {
		health.LastAttacker = info.Source
	}
	ctx.notifyHealth(w, victim, health)

	result := DamageApplied
	if health.Current <= 0 {
		result = resolveLethal(w, ctx, victim, health)
	} else if info.Kind != component.DamagePoison {
		reactToHit(w, ctx, victim, status, info)
	}

	ctx.emit(w, EventDamage, DamageEvent{
		Victim:   victim,
		Attacker: ecs.Entity(info.Source),
		Amount:   amount,
		Kind:     info.Kind,
		Result:   result,
	})
	return result
}

// mitigate subtracts rounded defense but never below one point.
func mitigate(w *ecs.World, victim ecs.Entity, amount int) int {
	stats, ok := ecs.Get(w, victim, component.StatsComponent.Kind())
	if !ok {
		return amount
	}
	def := stats.Defense.EffectiveValue()
	if def <= 0 {
		return amount
	}
	reduced := amount - int(math.Round(def))
	if reduced < 1 {
		return 1
	}
	return reduced
}

func resolveLethal(w *ecs.World, ctx *Context, victim ecs.Entity, health *component.Health) DamageResult {
	state, isCreature := ecs.Get(w, victim, component.CombatStateComponent.Kind())
	species, _ := ecs.Get(w, victim, component.SpeciesComponent.Kind())

	if isCreature && species != nil && species.Revivable && !health.Revived {
		health.Revived = true
		health.Current = reviveHealth(health)
		if status, ok := ecs.Get(w, victim, component.StatusEffectsComponent.Kind()); ok {
			status.ApplyInvincibility(species.ReviveDuration, 0)
		}
		ctx.notifyHealth(w, victim, health)
		state.Force(component.StateRevive)
		return DamageRevived
	}

	health.Dead = true
	cancelTimers(w, victim)
	if isCreature {
		state.Force(component.StateDead)
	} else {
		ctx.logf("damage: entity=%s died", victim)
		ctx.emit(w, EventPlayerDied, KillEvent{Victim: victim, Killer: ecs.Entity(health.LastAttacker)})
	}
	return DamageKilled
}

func reviveHealth(h *component.Health) int {
	hp := h.Max / 2
	if hp < 1 {
		hp = 1
	}
	return hp
}

func reactToHit(w *ecs.World, ctx *Context, victim ecs.Entity, status *component.StatusEffects, info component.DamageInfo) {
	if hr, ok := ecs.Get(w, victim, component.HitResponseComponent.Kind()); ok && hr.IFrames > 0 && status != nil {
		status.ApplyInvincibility(hr.IFrames, hr.FlashCycles)
		flash := component.NewWhiteFlash(hr.IFrames, hr.FlashCycles)
		_ = ecs.Add(w, victim, component.WhiteFlashComponent.Kind(), &flash)
	}

	state, ok := ecs.Get(w, victim, component.CombatStateComponent.Kind())
	if !ok {
		return
	}
	state.Force(component.StateHurt)

	if !info.HasOrigin || !ecs.Has(w, victim, component.KnockbackableComponent.Kind()) {
		return
	}
	_ = ecs.Add(w, victim, component.DamageKnockbackRequestComponent.Kind(), &component.DamageKnockback{
		SourceX:      info.SourceX,
		SourceY:      info.SourceY,
		SourceEntity: info.Source,
	})
}

// cancelTimers drops every outstanding timer of a dying actor.
func cancelTimers(w *ecs.World, e ecs.Entity) {
	if status, ok := ecs.Get(w, e, component.StatusEffectsComponent.Kind()); ok {
		status.Clear()
	}
	if atk, ok := ecs.Get(w, e, component.AttackProfileComponent.Kind()); ok {
		atk.StopAttacking()
	}
	if intent, ok := ecs.Get(w, e, component.MoveIntentComponent.Kind()); ok {
		*intent = component.MoveIntent{}
	}
	ecs.Remove(w, e, component.CooldownComponent.Kind())
	ecs.Remove(w, e, component.KnockbackComponent.Kind())
	ecs.Remove(w, e, component.DamageKnockbackRequestComponent.Kind())
	ecs.Remove(w, e, component.WhiteFlashComponent.Kind())
}

// clearProjectilesNear destroys enemy projectiles aimed at the victim's layer
// within radius of it.
func clearProjectilesNear(w *ecs.World, ctx *Context, victim ecs.Entity, radius float64) int {
	t, ok := ecs.Get(w, victim, component.TransformComponent.Kind())
	if !ok {
		return 0
	}
	layer, _ := ecs.Get(w, victim, component.CollisionLayerComponent.Kind())
	category := layer.Categories()

	var hits []ecs.Entity
	if ctx != nil && ctx.Spatial != nil {
		hits = ctx.Spatial.OverlapCircle(w, t.X, t.Y, radius, component.LayerProjectile)
	} else {
		hits = projectilesInCircle(w, t.X, t.Y, radius)
	}

	cleared := 0
	for _, e := range hits {
		p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
		if !ok || p.Mask&category == 0 {
			continue
		}
		if ecs.DestroyEntity(w, e) {
			cleared++
		}
	}
	return cleared
}

// ApplyPoison starts or overwrites poison on target.
func ApplyPoison(w *ecs.World, target ecs.Entity, perTick int, duration, interval float64, source ecs.Entity) bool {
	status, ok := ecs.Get(w, target, component.StatusEffectsComponent.Kind())
	if !ok {
		return false
	}
	if h, ok := ecs.Get(w, target, component.HealthComponent.Kind()); ok && h.Dead {
		return false
	}
	status.ApplyPoison(perTick, duration, interval, uint64(source))
	return true
}

// ApplySlow replaces any running slow on target.
func ApplySlow(w *ecs.World, target ecs.Entity, multiplier, duration float64) bool {
	status, ok := ecs.Get(w, target, component.StatusEffectsComponent.Kind())
	if !ok {
		return false
	}
	if h, ok := ecs.Get(w, target, component.HealthComponent.Kind()); ok && h.Dead {
		return false
	}
	status.ApplySlow(multiplier, duration)
	return true
}

func applyPayload(w *ecs.World, target ecs.Entity, p component.Payload, source ecs.Entity) {
	if p.PoisonPerTick > 0 && p.PoisonDuration > 0 {
		ApplyPoison(w, target, p.PoisonPerTick, p.PoisonDuration, p.PoisonInterval, source)
	}
	if p.SlowDuration > 0 {
		ApplySlow(w, target, p.SlowMultiplier, p.SlowDuration)
	}
}
