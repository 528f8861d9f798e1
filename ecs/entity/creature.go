package entity

import (
	"fmt"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/prefabs"
)

const defaultRepathInterval = 0.5

// NewCreature builds a creature of the given species at (x, y). The state
// machine starts in Idle on its first AI pass.
func NewCreature(w *ecs.World, spec *prefabs.SpeciesSpec, x, y float64) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("creature: nil species spec")
	}

	entity := ecs.CreateEntity(w)
	if err := addCreatureComponents(w, entity, spec, x, y); err != nil {
		ecs.DestroyEntity(w, entity)
		return 0, fmt.Errorf("creature %s: %w", spec.Name, err)
	}
	return entity, nil
}

func addCreatureComponents(w *ecs.World, entity ecs.Entity, spec *prefabs.SpeciesSpec, x, y float64) error {
	if err := ecs.Add(w, entity, component.CreatureTagComponent.Kind(), &component.CreatureTag{}); err != nil {
		return fmt.Errorf("add creature tag: %w", err)
	}

	species := SpeciesFromSpec(spec)
	if err := ecs.Add(w, entity, component.SpeciesComponent.Kind(), &species); err != nil {
		return fmt.Errorf("add species: %w", err)
	}

	if err := ecs.Add(w, entity, component.CombatStateComponent.Kind(), &component.CombatState{}); err != nil {
		return fmt.Errorf("add combat state: %w", err)
	}

	hp := spec.Health
	if hp <= 0 {
		hp = 1
	}
	if err := ecs.Add(w, entity, component.HealthComponent.Kind(), &component.Health{Current: hp, Max: hp}); err != nil {
		return fmt.Errorf("add health: %w", err)
	}

	stats := component.Stats{
		Defense:   component.NewStat(spec.Defense),
		MoveSpeed: component.NewStat(spec.MoveSpeed),
		MaxHealth: component.NewStat(float64(hp)),
	}
	if err := ecs.Add(w, entity, component.StatsComponent.Kind(), &stats); err != nil {
		return fmt.Errorf("add stats: %w", err)
	}

	attack := AttackFromSpec(spec.Attack, component.LayerPlayer, false)
	if err := ecs.Add(w, entity, component.AttackProfileComponent.Kind(), &attack); err != nil {
		return fmt.Errorf("add attack: %w", err)
	}

	if err := ecs.Add(w, entity, component.StatusEffectsComponent.Kind(), &component.StatusEffects{}); err != nil {
		return fmt.Errorf("add status effects: %w", err)
	}

	if err := ecs.Add(w, entity, component.HitResponseComponent.Kind(), &component.HitResponse{
		IFrames:     spec.IFrames.Duration,
		FlashCycles: spec.IFrames.FlashCycles,
	}); err != nil {
		return fmt.Errorf("add hit response: %w", err)
	}

	kb := &component.Knockbackable{Distance: spec.Knockback.Distance, Duration: spec.Knockback.Duration}
	if kb.Distance <= 0 {
		kb.Distance = component.DefaultKnockbackDistance
	}
	if kb.Duration <= 0 {
		kb.Duration = component.DefaultKnockbackDuration
	}
	if err := ecs.Add(w, entity, component.KnockbackableComponent.Kind(), kb); err != nil {
		return fmt.Errorf("add knockbackable: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		return fmt.Errorf("add transform: %w", err)
	}

	if err := ecs.Add(w, entity, component.MoveIntentComponent.Kind(), &component.MoveIntent{}); err != nil {
		return fmt.Errorf("add move intent: %w", err)
	}

	if err := ecs.Add(w, entity, component.PhysicsBodyComponent.Kind(), bodyFromSpec(spec.Body)); err != nil {
		return fmt.Errorf("add physics body: %w", err)
	}

	if err := ecs.Add(w, entity, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{
		Category: component.LayerCreature,
		Mask:     component.LayerPlayer,
	}); err != nil {
		return fmt.Errorf("add collision layer: %w", err)
	}

	if err := ecs.Add(w, entity, component.TargetComponent.Kind(), &component.Target{}); err != nil {
		return fmt.Errorf("add target: %w", err)
	}

	if err := ecs.Add(w, entity, component.AnimationComponent.Kind(), &component.Animation{
		Durations: copyDurations(spec.AnimationDurations),
	}); err != nil {
		return fmt.Errorf("add animation: %w", err)
	}

	if spec.Pathfinding {
		if err := ecs.Add(w, entity, component.PathfindingComponent.Kind(), &component.Pathfinding{
			RepathInterval: defaultRepathInterval,
		}); err != nil {
			return fmt.Errorf("add pathfinding: %w", err)
		}
	}

	return nil
}

func copyDurations(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
