package system

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/entity"
	"github.com/milk9111/skirmish/prefabs"
)

// dt is a power of two so timer sums stay exact.
const dt = 0.125

func newTestSim(t *testing.T, opts Options) *Simulation {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 12345
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	sim := NewSimulation(opts)
	require.NotNil(t, sim)
	return sim
}

func floatPtr(v float64) *float64 { return &v }

// testSpecies is a melee creature that never wanders.
func testSpecies() prefabs.SpeciesSpec {
	return prefabs.SpeciesSpec{
		Name:           "grunt",
		Variant:        "standard",
		Health:         30,
		MoveSpeed:      40,
		DetectionRange: 200,
		AttackRange:    30,
		WanderChance:   floatPtr(0),
		HurtDuration:   0.25,
		DeathDuration:  0.5,
		Score:          10,
		Experience:     5,
		Attack: prefabs.AttackSpec{
			Kind:           "melee",
			Range:          20,
			BaseDamage:     10,
			Point:          &prefabs.PointSpec{X: 10},
			ImpactFraction: 0.5,
			Duration:       0.5,
			Cooldown:       1,
		},
		Body: prefabs.BodySpec{Radius: 10, Mass: 1, Friction: 10, Drag: 1},
	}
}

func testPlayerSpec() prefabs.PlayerSpec {
	return prefabs.PlayerSpec{
		Name: "player",
		Stats: prefabs.StatsSpec{
			AttackPower: prefabs.StatSpec{Base: 10},
			MoveSpeed:   prefabs.StatSpec{Base: 100},
			MaxHealth:   prefabs.StatSpec{Base: 100},
		},
		Attack: prefabs.AttackSpec{
			Kind:           "melee",
			Range:          20,
			Point:          &prefabs.PointSpec{X: 10},
			ImpactFraction: 0.5,
			Duration:       0.5,
		},
		Body: prefabs.BodySpec{Radius: 10, Mass: 1, Friction: 60, Drag: 3},
		Progression: prefabs.ProgressionSpec{
			Level:          1,
			ExpPerLevel:    50,
			DamagePerLevel: 2,
			HealthPerLevel: 10,
		},
	}
}

func spawnCreature(t *testing.T, w *ecs.World, spec prefabs.SpeciesSpec, x, y float64) ecs.Entity {
	t.Helper()
	e, err := entity.NewCreature(w, &spec, x, y)
	require.NoError(t, err)
	return e
}

func spawnPlayer(t *testing.T, w *ecs.World, spec prefabs.PlayerSpec, x, y float64) ecs.Entity {
	t.Helper()
	e, err := entity.NewPlayer(w, &spec, x, y)
	require.NoError(t, err)
	return e
}

func healthOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Health {
	t.Helper()
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	require.True(t, ok, "entity %s has no health", e)
	return h
}

func stateOf(w *ecs.World, e ecs.Entity) component.StateID {
	s, ok := ecs.Get(w, e, component.CombatStateComponent.Kind())
	if !ok {
		return ""
	}
	return s.Current
}

func tick(sim *Simulation, n int) {
	for i := 0; i < n; i++ {
		sim.Tick(dt)
	}
}

func step(sim *Simulation, n int) {
	for i := 0; i < n; i++ {
		sim.Step(dt)
	}
}

type eventLog struct {
	events []ecs.Event
}

func recordEvents(sim *Simulation) *eventLog {
	l := &eventLog{}
	sim.Subscribe("", func(evt ecs.Event) { l.events = append(l.events, evt) })
	return l
}

func (l *eventLog) ofType(typ string) []ecs.Event {
	var out []ecs.Event
	for _, evt := range l.events {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}

func (l *eventLog) transitions(e ecs.Entity) []component.StateID {
	var out []component.StateID
	for _, evt := range l.ofType(EventStateChanged) {
		if sc := evt.Data.(StateChangedEvent); sc.Entity == e {
			out = append(out, sc.To)
		}
	}
	return out
}

// fixedSkill always picks the same payload.
type fixedSkill int

func (f fixedSkill) SelectSkill(*component.Species, SkillRequest) int { return int(f) }
