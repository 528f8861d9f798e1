package entity

import (
	"fmt"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/prefabs"
)

// NewPlayer builds the player-controlled actor at (x, y).
func NewPlayer(w *ecs.World, spec *prefabs.PlayerSpec, x, y float64) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("player: nil spec")
	}

	entity := ecs.CreateEntity(w)
	if err := addPlayerComponents(w, entity, spec, x, y); err != nil {
		ecs.DestroyEntity(w, entity)
		return 0, fmt.Errorf("player: %w", err)
	}
	return entity, nil
}

func addPlayerComponents(w *ecs.World, entity ecs.Entity, spec *prefabs.PlayerSpec, x, y float64) error {
	if err := ecs.Add(w, entity, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return fmt.Errorf("add player tag: %w", err)
	}

	stats := StatsFromSpec(spec.Stats)
	if err := ecs.Add(w, entity, component.StatsComponent.Kind(), &stats); err != nil {
		return fmt.Errorf("add stats: %w", err)
	}

	maxHP := stats.MaxHealthValue()
	if maxHP <= 0 {
		maxHP = 1
	}
	if err := ecs.Add(w, entity, component.HealthComponent.Kind(), &component.Health{Current: maxHP, Max: maxHP}); err != nil {
		return fmt.Errorf("add health: %w", err)
	}

	attack := AttackFromSpec(spec.Attack, component.LayerCreature, true)
	if err := ecs.Add(w, entity, component.AttackProfileComponent.Kind(), &attack); err != nil {
		return fmt.Errorf("add attack: %w", err)
	}

	if err := ecs.Add(w, entity, component.AttackClockComponent.Kind(), &component.AttackClock{}); err != nil {
		return fmt.Errorf("add attack clock: %w", err)
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

	if err := ecs.Add(w, entity, component.ShieldComponent.Kind(), &component.Shield{
		Charges:        spec.Shield.Charges,
		MaxCharges:     spec.Shield.MaxCharges,
		ClearRadius:    spec.Shield.ClearRadius,
		KillsPerCharge: spec.Shield.KillsPerCharge,
	}); err != nil {
		return fmt.Errorf("add shield: %w", err)
	}

	level := spec.Progression.Level
	if level < 1 {
		level = 1
	}
	if err := ecs.Add(w, entity, component.ProgressionComponent.Kind(), &component.Progression{
		Level:          level,
		ExpPerLevel:    spec.Progression.ExpPerLevel,
		DamagePerLevel: spec.Progression.DamagePerLevel,
		HealthPerLevel: spec.Progression.HealthPerLevel,
	}); err != nil {
		return fmt.Errorf("add progression: %w", err)
	}

	if err := ecs.Add(w, entity, component.PlayerControlComponent.Kind(), &component.PlayerControl{AimX: 1}); err != nil {
		return fmt.Errorf("add player control: %w", err)
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
		Category: component.LayerPlayer,
		Mask:     component.LayerCreature,
	}); err != nil {
		return fmt.Errorf("add collision layer: %w", err)
	}

	if err := ecs.Add(w, entity, component.AnimationComponent.Kind(), &component.Animation{
		Durations: copyDurations(spec.AnimationDurations),
	}); err != nil {
		return fmt.Errorf("add animation: %w", err)
	}

	return nil
}
