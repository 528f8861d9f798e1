package entity

import (
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/prefabs"
)

const defaultWanderChance = 0.5

// SpeciesFromSpec converts a prefab species into the descriptor the state
// machine reads.
func SpeciesFromSpec(spec *prefabs.SpeciesSpec) component.Species {
	if spec == nil {
		return component.Species{Variant: component.VariantStandard}
	}

	variant := component.Variant(spec.Variant)
	switch variant {
	case component.VariantDetonate, component.VariantDualSkill:
	default:
		variant = component.VariantStandard
	}

	chance := defaultWanderChance
	if spec.WanderChance != nil {
		chance = *spec.WanderChance
	}

	var anims map[component.StateID]string
	if len(spec.Animations) > 0 {
		anims = make(map[component.StateID]string, len(spec.Animations))
		for state, clip := range spec.Animations {
			anims[component.StateID(state)] = clip
		}
	}

	return component.Species{
		Name:            spec.Name,
		Variant:         variant,
		DetectionRange:  spec.DetectionRange,
		AttackRange:     spec.AttackRange,
		IdleDwellMin:    spec.IdleDwell.Min,
		IdleDwellMax:    spec.IdleDwell.Max,
		WanderChance:    chance,
		WanderMin:       spec.WanderDuration.Min,
		WanderMax:       spec.WanderDuration.Max,
		HurtDuration:    spec.HurtDuration,
		DeathDuration:   spec.DeathDuration,
		ReviveDuration:  spec.ReviveDuration,
		AttackCooldown:  spec.Attack.Cooldown,
		Revivable:       spec.Revivable,
		ExplosionRadius: spec.ExplosionRadius,
		UsePathfinding:  spec.Pathfinding,
		SkillScript:     spec.SkillScript,
		Score:           spec.Score,
		Experience:      spec.Experience,
		Animations:      anims,
	}
}

// PayloadFromSpec converts a prefab payload.
func PayloadFromSpec(spec prefabs.PayloadSpec) component.Payload {
	return component.Payload{
		Name:               spec.Name,
		PoisonPerTick:      spec.PoisonPerTick,
		PoisonDuration:     spec.PoisonDuration,
		PoisonInterval:     spec.PoisonInterval,
		SlowMultiplier:     spec.SlowMultiplier,
		SlowDuration:       spec.SlowDuration,
		ProjectileSpeed:    spec.ProjectileSpeed,
		ProjectileRadius:   spec.ProjectileRadius,
		ProjectileLifetime: spec.ProjectileLifetime,
	}
}

// AttackFromSpec converts a prefab attack aimed at the given layer mask.
func AttackFromSpec(spec prefabs.AttackSpec, mask uint32, playerControlled bool) component.AttackProfile {
	kind := component.AttackKind(spec.Kind)
	switch kind {
	case component.AttackRanged, component.AttackBoth:
	default:
		kind = component.AttackMelee
	}

	atk := component.AttackProfile{
		Range:            spec.Range,
		BaseDamage:       spec.BaseDamage,
		AdditionalDamage: spec.AdditionalDamage,
		DamageMultiplier: spec.DamageMultiplier,
		Kind:             kind,
		ImpactFraction:   spec.ImpactFraction,
		Duration:         spec.Duration,
		Cooldown:         spec.Cooldown,
		CritMultiplier:   spec.CritMultiplier,
		PlayerControlled: playerControlled,
		Payload:          PayloadFromSpec(spec.Payload),
		TargetMask:       mask,
	}
	if spec.Point != nil {
		atk.PointOffsetX = spec.Point.X
		atk.PointOffsetY = spec.Point.Y
		atk.HasAttackPoint = true
	}
	for _, p := range spec.Payloads {
		atk.Payloads = append(atk.Payloads, PayloadFromSpec(p))
	}
	return atk
}

func statFromSpec(spec prefabs.StatSpec) component.Stat {
	return component.Stat{Base: spec.Base, Equip: spec.Equip, Upgrade: spec.Upgrade}
}

// StatsFromSpec converts a prefab stat block.
func StatsFromSpec(spec prefabs.StatsSpec) component.Stats {
	return component.Stats{
		AttackPower: statFromSpec(spec.AttackPower),
		Defense:     statFromSpec(spec.Defense),
		CritRate:    statFromSpec(spec.CritRate),
		MoveSpeed:   statFromSpec(spec.MoveSpeed),
		MaxHealth:   statFromSpec(spec.MaxHealth),
	}
}

func bodyFromSpec(spec prefabs.BodySpec) *component.PhysicsBody {
	body := &component.PhysicsBody{
		Radius:   spec.Radius,
		Mass:     spec.Mass,
		Friction: spec.Friction,
		Drag:     spec.Drag,
	}
	if body.Radius <= 0 {
		body.Radius = 12
	}
	if body.Mass <= 0 {
		body.Mass = 1
	}
	return body
}
