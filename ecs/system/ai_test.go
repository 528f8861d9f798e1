package system

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/prefabs"
)

func TestCombatAI_StartsIdle(t *testing.T) {
	sim := newTestSim(t, Options{})
	grunt := spawnCreature(t, sim.World, testSpecies(), 0, 0)

	assert.Equal(t, component.StateID(""), stateOf(sim.World, grunt))
	tick(sim, 1)
	assert.Equal(t, component.StateIdle, stateOf(sim.World, grunt))
}

func TestCombatAI_WanderReturnsToIdleAtDuration(t *testing.T) {
	sim := newTestSim(t, Options{})
	w := sim.World
	spec := testSpecies()
	spec.WanderChance = floatPtr(1)
	spec.IdleDwell = prefabs.RangeSpec{Min: 0.25, Max: 0.25}
	spec.WanderDuration = prefabs.RangeSpec{Min: 0.5, Max: 0.5}
	grunt := spawnCreature(t, w, spec, 0, 0)

	tick(sim, 1)
	assert.Equal(t, component.StateIdle, stateOf(w, grunt))
	tick(sim, 1)
	assert.Equal(t, component.StateWander, stateOf(w, grunt))

	tick(sim, 1)
	intent, _ := ecs.Get(w, grunt, component.MoveIntentComponent.Kind())
	assert.InDelta(t, 40, math.Hypot(intent.X, intent.Y), 1e-9)

	tick(sim, 2)
	assert.Equal(t, component.StateWander, stateOf(w, grunt))
	tick(sim, 1)
	assert.Equal(t, component.StateIdle, stateOf(w, grunt))
	assert.Zero(t, intent.X)
	assert.Zero(t, intent.Y)
}

func TestCombatAI_ChaseAndGiveUp(t *testing.T) {
	sim := newTestSim(t, Options{})
	w := sim.World
	grunt := spawnCreature(t, w, testSpecies(), 0, 0)
	player := spawnPlayer(t, w, testPlayerSpec(), 100, 0)

	tick(sim, 1)
	assert.Equal(t, component.StateChase, stateOf(w, grunt))

	tick(sim, 1)
	intent, _ := ecs.Get(w, grunt, component.MoveIntentComponent.Kind())
	assert.InDelta(t, 40, intent.X, 1e-9)
	assert.InDelta(t, 0, intent.Y, 1e-9)

	pt, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	pt.X = 1000
	tick(sim, 1)
	assert.Equal(t, component.StateIdle, stateOf(w, grunt))
	assert.Zero(t, intent.X)
}

func TestCombatAI_OneHitPerAttackCycle(t *testing.T) {
	sim := newTestSim(t, Options{})
	w := sim.World
	grunt := spawnCreature(t, w, testSpecies(), 0, 0)
	player := spawnPlayer(t, w, testPlayerSpec(), 20, 0)

	tick(sim, 1)
	assert.Equal(t, component.StateAttack, stateOf(w, grunt))

	tick(sim, 1)
	assert.Equal(t, 100, healthOf(t, w, player).Current, "no damage before the impact point")
	tick(sim, 1)
	assert.Equal(t, 90, healthOf(t, w, player).Current)
	tick(sim, 2)
	assert.Equal(t, 90, healthOf(t, w, player).Current, "the impact window lands once")
	assert.True(t, ecs.Has(w, grunt, component.CooldownComponent.Kind()))

	// cooldown runs out on tick 13 and the next cycle lands two ticks later
	tick(sim, 9)
	assert.Equal(t, 90, healthOf(t, w, player).Current)
	tick(sim, 1)
	assert.Equal(t, 80, healthOf(t, w, player).Current)
}

func TestCombatAI_HurtExitFollowsEvaluationOrder(t *testing.T) {
	tests := []struct {
		name    string
		playerX float64
		want    component.StateID
	}{
		{"nothing_nearby", -1, component.StateIdle},
		{"player_detected", 100, component.StateChase},
		{"player_in_reach", 20, component.StateAttack},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sim := newTestSim(t, Options{})
			w := sim.World
			grunt := spawnCreature(t, w, testSpecies(), 0, 0)
			if tc.playerX >= 0 {
				spawnPlayer(t, w, testPlayerSpec(), tc.playerX, 0)
			}

			require.Equal(t, DamageApplied, TakeDamage(w, sim.Ctx, grunt, melee(5)))
			tick(sim, 1)
			assert.Equal(t, component.StateHurt, stateOf(w, grunt))
			tick(sim, 1)
			assert.Equal(t, tc.want, stateOf(w, grunt))
		})
	}
}

func TestCombatAI_SecondHitRestartsHurt(t *testing.T) {
	sim := newTestSim(t, Options{})
	w := sim.World
	events := recordEvents(sim)
	grunt := spawnCreature(t, w, testSpecies(), 0, 0)

	TakeDamage(w, sim.Ctx, grunt, melee(5))
	tick(sim, 1)
	TakeDamage(w, sim.Ctx, grunt, melee(5))
	tick(sim, 1)
	assert.Equal(t, component.StateHurt, stateOf(w, grunt))
	tick(sim, 1)
	assert.Equal(t, component.StateIdle, stateOf(w, grunt))
	assert.Equal(t,
		[]component.StateID{component.StateHurt, component.StateHurt, component.StateIdle},
		events.transitions(grunt))
}

func TestCombatAI_HitDuringTickReactsNextTick(t *testing.T) {
	sim := newTestSim(t, Options{})
	w := sim.World
	spec := testSpecies()
	spec.DetectionRange = 0
	spec.AttackRange = 0
	player := spawnPlayer(t, w, testPlayerSpec(), 0, 0)
	grunt := spawnCreature(t, w, spec, 20, 0)

	ctrl, _ := ecs.Get(w, player, component.PlayerControlComponent.Kind())
	ctrl.Attack = true
	hitTick := 0
	for i := 1; i <= 4 && hitTick == 0; i++ {
		tick(sim, 1)
		if healthOf(t, w, grunt).Current < 30 {
			hitTick = i
		}
	}
	require.NotZero(t, hitTick, "the swing never landed")

	state, _ := ecs.Get(w, grunt, component.CombatStateComponent.Kind())
	assert.Equal(t, component.StateHurt, state.Current)
	assert.Zero(t, state.Elapsed, "hurt is not evaluated in the tick it was raised")

	tick(sim, 1)
	assert.Equal(t, component.StateHurt, state.Current)
	assert.InDelta(t, dt, state.Elapsed, 1e-9)
	tick(sim, 1)
	assert.Equal(t, component.StateIdle, state.Current)
}

func TestCombatAI_DetonateBlastsAndDiesWithoutCredit(t *testing.T) {
	sim := newTestSim(t, Options{})
	w := sim.World
	events := recordEvents(sim)

	spec := testSpecies()
	spec.Name = "bloater"
	spec.Variant = string(component.VariantDetonate)
	spec.ExplosionRadius = 40
	spec.Attack.BaseDamage = 18
	spec.Attack.Point = nil
	bloater := spawnCreature(t, w, spec, 0, 0)
	bystander := spawnCreature(t, w, testSpecies(), -20, 0)
	player := spawnPlayer(t, w, testPlayerSpec(), 20, 0)

	tick(sim, 3)
	assert.Equal(t, 82, healthOf(t, w, player).Current)
	assert.Equal(t, 30, healthOf(t, w, bystander).Current, "blasts only hit the opposing layer")
	assert.True(t, healthOf(t, w, bloater).Dead)
	assert.Equal(t, component.StateDead, stateOf(w, bloater))

	tick(sim, 4)
	assert.False(t, ecs.IsAlive(w, bloater))

	kills := events.ofType(EventKill)
	require.Len(t, kills, 1)
	kill := kills[0].Data.(KillEvent)
	assert.Equal(t, bloater, kill.Victim)
	assert.Equal(t, ecs.Entity(0), kill.Killer)

	prog, _ := ecs.Get(w, player, component.ProgressionComponent.Kind())
	assert.Zero(t, prog.Score)
	assert.Zero(t, prog.Experience)
}

func TestCombatAI_KillCreditsKiller(t *testing.T) {
	sim := newTestSim(t, Options{})
	w := sim.World
	events := recordEvents(sim)

	pspec := testPlayerSpec()
	pspec.Shield = prefabs.ShieldSpec{MaxCharges: 2, KillsPerCharge: 1}
	player := spawnPlayer(t, w, pspec, 1000, 0)

	spec := testSpecies()
	spec.Experience = 60
	grunt := spawnCreature(t, w, spec, 0, 0)

	res := TakeDamage(w, sim.Ctx, grunt, component.DamageInfo{Amount: 30, Kind: component.DamageMelee, Source: uint64(player)})
	require.Equal(t, DamageKilled, res)

	tick(sim, 3)
	assert.True(t, ecs.IsAlive(w, grunt), "the death clip is still playing")
	tick(sim, 1)
	assert.False(t, ecs.IsAlive(w, grunt))

	prog, _ := ecs.Get(w, player, component.ProgressionComponent.Kind())
	assert.Equal(t, 10, prog.Score)
	assert.Equal(t, 60, prog.Experience)
	assert.Equal(t, 2, prog.Level)

	atk, _ := ecs.Get(w, player, component.AttackProfileComponent.Kind())
	assert.Equal(t, 2, atk.AdditionalDamage)
	h := healthOf(t, w, player)
	assert.Equal(t, 110, h.Max)
	assert.Equal(t, 110, h.Current)

	shield, _ := ecs.Get(w, player, component.ShieldComponent.Kind())
	assert.Equal(t, 1, shield.Charges)

	require.Len(t, events.ofType(EventKill), 1)
	kill := events.ofType(EventKill)[0].Data.(KillEvent)
	assert.Equal(t, player, kill.Killer)
	assert.Equal(t, "grunt", kill.Species)
	assert.Len(t, events.ofType(EventShieldRecharged), 1)
	assert.Len(t, events.ofType(EventLevelUp), 1)
}

type killCounter struct{ kills []KillEvent }

func (k *killCounter) OnKill(_ *ecs.World, kill KillEvent) { k.kills = append(k.kills, kill) }

type healthRecorder struct{ seen []int }

func (h *healthRecorder) OnHealthChanged(_ *ecs.World, _ ecs.Entity, current, _ int) {
	h.seen = append(h.seen, current)
}

func TestSimulation_NotifiesSinksAndObservers(t *testing.T) {
	sim := newTestSim(t, Options{})
	w := sim.World
	kills := &killCounter{}
	obs := &healthRecorder{}
	sim.AddKillSink(kills)
	sim.AddHealthObserver(obs)

	grunt := spawnCreature(t, w, testSpecies(), 0, 0)
	TakeDamage(w, sim.Ctx, grunt, melee(10))
	TakeDamage(w, sim.Ctx, grunt, melee(20))
	tick(sim, 4)

	assert.Equal(t, []int{20, 0}, obs.seen)
	require.Len(t, kills.kills, 1)
	assert.Equal(t, grunt, kills.kills[0].Victim)
}

func TestSetCurrentState_Override(t *testing.T) {
	sim := newTestSim(t, Options{})
	w := sim.World
	spec := testSpecies()
	spec.ReviveDuration = 1
	spec.WanderDuration = prefabs.RangeSpec{Min: 1, Max: 1}
	grunt := spawnCreature(t, w, spec, 0, 0)
	player := spawnPlayer(t, w, testPlayerSpec(), 1000, 0)
	tick(sim, 1)

	assert.False(t, SetCurrentState(w, player, component.StateWander), "only creatures have a state machine")

	require.True(t, SetCurrentState(w, grunt, component.StateWander))
	assert.Equal(t, component.StateIdle, stateOf(w, grunt), "overrides wait for the next pass")
	tick(sim, 1)
	assert.Equal(t, component.StateWander, stateOf(w, grunt))

	require.Equal(t, DamageKilled, TakeDamage(w, sim.Ctx, grunt, melee(30)))
	tick(sim, 1)
	assert.Equal(t, component.StateDead, stateOf(w, grunt))

	// dead is terminal for ordinary overrides
	require.True(t, SetCurrentState(w, grunt, component.StateIdle))
	tick(sim, 1)
	assert.Equal(t, component.StateDead, stateOf(w, grunt))

	require.True(t, SetCurrentState(w, grunt, component.StateRevive))
	h := healthOf(t, w, grunt)
	assert.Equal(t, 15, h.Current)
	assert.False(t, h.Dead)
	tick(sim, 1)
	assert.Equal(t, component.StateRevive, stateOf(w, grunt))
}

func TestCombatAI_DualSkillLaunchesSelectedPayload(t *testing.T) {
	sim := newTestSim(t, Options{Skills: fixedSkill(1)})
	w := sim.World

	spec := testSpecies()
	spec.Name = "spitter"
	spec.Variant = string(component.VariantDualSkill)
	spec.AttackRange = 150
	spec.Attack = prefabs.AttackSpec{
		Kind:           "ranged",
		Range:          150,
		BaseDamage:     4,
		ImpactFraction: 0.5,
		Duration:       0.5,
		Cooldown:       1,
		Payloads: []prefabs.PayloadSpec{
			{Name: "venom", PoisonPerTick: 2, PoisonDuration: 2, PoisonInterval: 1},
			{Name: "tar", SlowMultiplier: 0.5, SlowDuration: 2, ProjectileSpeed: 200},
		},
	}
	spitter := spawnCreature(t, w, spec, 0, 0)
	player := spawnPlayer(t, w, testPlayerSpec(), 100, 0)

	step(sim, 3)
	state, _ := ecs.Get(w, spitter, component.CombatStateComponent.Kind())
	assert.Equal(t, 1, state.Skill)
	require.Equal(t, 1, ecs.Count(w, component.ProjectileComponent.Kind()))

	step(sim, 2)
	assert.Equal(t, 100, healthOf(t, w, player).Current, "still in flight")

	step(sim, 1)
	assert.Equal(t, 96, healthOf(t, w, player).Current)
	assert.Zero(t, ecs.Count(w, component.ProjectileComponent.Kind()))

	status, _ := ecs.Get(w, player, component.StatusEffectsComponent.Kind())
	assert.Equal(t, 0.5, status.SpeedMultiplier())
	assert.False(t, status.Poison.Active(), "only the selected payload applies")
}

func TestAttackTrigger_BothFallsBackToRanged(t *testing.T) {
	sim := newTestSim(t, Options{})
	w := sim.World

	spec := testSpecies()
	spec.Attack.Kind = "both"
	grunt := spawnCreature(t, w, spec, 0, 0)
	player := spawnPlayer(t, w, testPlayerSpec(), 100, 0)

	atk, _ := ecs.Get(w, grunt, component.AttackProfileComponent.Kind())
	assert.False(t, AttackTrigger(w, sim.Ctx, grunt), "no cycle in progress")

	atk.StartAttacking(uint64(player))
	assert.True(t, AttackTrigger(w, sim.Ctx, grunt))
	assert.Equal(t, 1, ecs.Count(w, component.ProjectileComponent.Kind()))
	assert.Equal(t, 100, healthOf(t, w, player).Current, "melee reach is too short")

	assert.False(t, AttackTrigger(w, sim.Ctx, grunt), "one launch per cycle")
	assert.Equal(t, 1, ecs.Count(w, component.ProjectileComponent.Kind()))
}

func TestPlayerControl_AttackLandsAtImpact(t *testing.T) {
	sim := newTestSim(t, Options{})
	w := sim.World
	player := spawnPlayer(t, w, testPlayerSpec(), 0, 0)
	grunt := spawnCreature(t, w, testSpecies(), 20, 0)

	ctrl, _ := ecs.Get(w, player, component.PlayerControlComponent.Kind())
	ctrl.Attack = true
	tick(sim, 1)
	assert.False(t, ctrl.Attack, "the command is consumed every tick")
	assert.Equal(t, 30, healthOf(t, w, grunt).Current)

	tick(sim, 2)
	assert.Equal(t, 20, healthOf(t, w, grunt).Current)
	tick(sim, 2)
	assert.Equal(t, 20, healthOf(t, w, grunt).Current)
}

func TestPlayerControl_MovementIntent(t *testing.T) {
	sim := newTestSim(t, Options{})
	w := sim.World
	player := spawnPlayer(t, w, testPlayerSpec(), 0, 0)

	ctrl, _ := ecs.Get(w, player, component.PlayerControlComponent.Kind())
	ctrl.MoveX, ctrl.MoveY = 1, 1
	ctrl.AimX, ctrl.AimY = 0, 0
	tick(sim, 1)

	intent, _ := ecs.Get(w, player, component.MoveIntentComponent.Kind())
	assert.InDelta(t, 100/math.Sqrt2, intent.X, 1e-9)
	assert.InDelta(t, 100/math.Sqrt2, intent.Y, 1e-9)
	tr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	assert.InDelta(t, math.Pi/4, tr.Rotation, 1e-9)
}
