package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/prefabs"
)

func TestNewCreatureFromPrefab(t *testing.T) {
	reg, err := prefabs.LoadSpeciesRegistry("species.yaml")
	require.NoError(t, err)

	tests := []struct {
		species     string
		variant     component.Variant
		kind        component.AttackKind
		pathfinding bool
	}{
		{"grunt", component.VariantStandard, component.AttackMelee, true},
		{"lich", component.VariantStandard, component.AttackMelee, false},
		{"bloater", component.VariantDetonate, component.AttackMelee, false},
		{"spitter", component.VariantDualSkill, component.AttackRanged, false},
	}

	for _, tc := range tests {
		t.Run(tc.species, func(t *testing.T) {
			w := ecs.NewWorld()
			spec, ok := reg.Lookup(tc.species)
			require.True(t, ok)

			e, err := NewCreature(w, spec, 10, 20)
			require.NoError(t, err)

			species, ok := ecs.Get(w, e, component.SpeciesComponent.Kind())
			require.True(t, ok)
			assert.Equal(t, tc.species, species.Name)
			assert.Equal(t, tc.variant, species.Variant)

			atk, _ := ecs.Get(w, e, component.AttackProfileComponent.Kind())
			assert.Equal(t, tc.kind, atk.Kind)
			assert.Equal(t, component.LayerPlayer, atk.TargetMask)
			assert.False(t, atk.PlayerControlled)

			h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
			assert.Equal(t, spec.Health, h.Current)
			assert.Equal(t, spec.Health, h.Max)

			tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
			assert.Equal(t, component.Transform{X: 10, Y: 20}, *tr)

			state, _ := ecs.Get(w, e, component.CombatStateComponent.Kind())
			assert.Equal(t, component.StateID(""), state.Current)

			assert.Equal(t, tc.pathfinding, ecs.Has(w, e, component.PathfindingComponent.Kind()))
			assert.True(t, ecs.Has(w, e, component.KnockbackableComponent.Kind()))
			assert.True(t, ecs.Has(w, e, component.CreatureTagComponent.Kind()))
		})
	}
}

func TestSpeciesFromSpecDefaults(t *testing.T) {
	s := SpeciesFromSpec(&prefabs.SpeciesSpec{Name: "odd", Variant: "mystery"})
	assert.Equal(t, component.VariantStandard, s.Variant)
	assert.Equal(t, defaultWanderChance, s.WanderChance)
	assert.Nil(t, s.Animations)

	zero := 0.0
	s = SpeciesFromSpec(&prefabs.SpeciesSpec{WanderChance: &zero, Animations: map[string]string{"idle": "clip"}})
	assert.Zero(t, s.WanderChance)
	assert.Equal(t, "clip", s.Animations[component.StateIdle])

	assert.Equal(t, component.VariantStandard, SpeciesFromSpec(nil).Variant)
}

func TestNewPlayer(t *testing.T) {
	w := ecs.NewWorld()
	spec, err := prefabs.LoadPlayerSpec()
	require.NoError(t, err)

	e, err := NewPlayer(w, spec, 320, 240)
	require.NoError(t, err)

	h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	assert.Equal(t, 100, h.Current)

	atk, _ := ecs.Get(w, e, component.AttackProfileComponent.Kind())
	assert.True(t, atk.PlayerControlled)
	assert.Equal(t, component.LayerCreature, atk.TargetMask)
	assert.True(t, atk.HasAttackPoint)

	shield, _ := ecs.Get(w, e, component.ShieldComponent.Kind())
	assert.Equal(t, 1, shield.Charges)

	prog, _ := ecs.Get(w, e, component.ProgressionComponent.Kind())
	assert.Equal(t, 1, prog.Level)
	assert.True(t, ecs.Has(w, e, component.PlayerTagComponent.Kind()))

	_, err = NewPlayer(w, nil, 0, 0)
	assert.Error(t, err)
	_, err = NewCreature(w, nil, 0, 0)
	assert.Error(t, err)
}

func TestNewProjectileDefaults(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewProjectile(w, ProjectileParams{Owner: 3, Mask: component.LayerPlayer, X: 5, Y: 5, DirX: 0, DirY: 2, Damage: 4})
	require.NoError(t, err)

	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, uint64(3), p.Owner)
	assert.InDelta(t, 0, p.VX, 1e-9)
	assert.InDelta(t, defaultProjectileSpeed, p.VY, 1e-9)
	assert.Equal(t, defaultProjectileRadius, p.Radius)

	ttl, _ := ecs.Get(w, e, component.TTLComponent.Kind())
	assert.Equal(t, defaultProjectileLifetime, ttl.Remaining)

	e, err = NewProjectile(w, ProjectileParams{Payload: component.Payload{ProjectileSpeed: 50}})
	require.NoError(t, err)
	p, _ = ecs.Get(w, e, component.ProjectileComponent.Kind())
	assert.InDelta(t, 50, p.VX, 1e-9, "zero direction fires along +x")
}
