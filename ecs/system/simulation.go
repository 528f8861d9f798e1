package system

import (
	"log"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/prefabs"
)

// Options configures a Simulation. Everything is optional; a zero Options
// gives an empty arena with no walls, no path finder and no encounter.
type Options struct {
	Seed   int64
	Logger *log.Logger

	Arena     *prefabs.ArenaSpec
	Species   *prefabs.SpeciesRegistry
	Encounter *prefabs.EncounterSpec

	// Animator defaults to ClipAnimator; Skills to ScriptSkillSelector.
	Animator Animator
	Skills   SkillSelector
}

// Simulation owns the world and runs the combat systems: Tick on the variable
// (frame) clock, FixedTick on the physics clock. Both do nothing while
// paused. Gameplay events raised during either are handed to subscribers at
// the end of Tick.
type Simulation struct {
	World    *ecs.World
	Ctx      *Context
	Physics  *PhysicsSystem
	Paths    *GridPathfinder
	Director *SpawnDirector

	variable *ecs.Scheduler
	fixed    *ecs.FixedScheduler

	subscribers map[string][]func(ecs.Event)
}

func NewSimulation(opts Options) *Simulation {
	ctx := NewContext(opts.Seed)
	if opts.Logger != nil {
		ctx.Logger = opts.Logger
	}
	ctx.Animator = opts.Animator
	if ctx.Animator == nil {
		ctx.Animator = ClipAnimator{}
	}
	ctx.Skills = opts.Skills
	if ctx.Skills == nil {
		ctx.Skills = NewScriptSkillSelector(ctx)
	}

	sim := &Simulation{
		World:       ecs.NewWorld(),
		Ctx:         ctx,
		Physics:     NewPhysicsSystem(ctx),
		subscribers: map[string][]func(ecs.Event){},
	}
	ctx.Spatial = sim.Physics
	ctx.KillSinks = append(ctx.KillSinks, NewShieldRecharger(ctx))

	if opts.Arena != nil {
		sim.Physics.AddObstacles(opts.Arena.Obstacles)
		sim.Paths = NewGridPathfinder(opts.Arena.Width, opts.Arena.Height, opts.Arena.GridSize, opts.Arena.Obstacles)
		ctx.Paths = sim.Paths
	}
	if opts.Encounter != nil {
		sim.Director = NewSpawnDirector(ctx, opts.Species, opts.Encounter)
	}

	sim.variable = ecs.NewScheduler(TransitionLatchSystem{})
	if sim.Paths != nil {
		sim.variable.Add(sim.Paths)
	}
	sim.variable.Add(NewPlayerControlSystem(ctx))
	sim.variable.Add(NewStatusEffectSystem(ctx))
	sim.variable.Add(NewCooldownSystem(ctx))
	sim.variable.Add(NewCombatAISystem(ctx))
	if sim.Director != nil {
		sim.variable.Add(sim.Director)
	}
	sim.variable.Add(NewAnimationSystem(ctx))
	sim.variable.Add(NewWhiteFlashSystem(ctx))
	sim.variable.Add(NewTTLSystem(ctx))

	sim.fixed = ecs.NewFixedScheduler(
		NewKnockbackSystem(ctx),
		sim.Physics,
		NewProjectileSystem(ctx),
	)
	return sim
}

// Tick advances the variable-rate systems by dt seconds.
func (s *Simulation) Tick(dt float64) {
	if s == nil || dt <= 0 || s.Ctx.Flow.Paused() {
		return
	}
	s.Ctx.DT = dt
	s.Ctx.Time += dt
	s.variable.Update(s.World)
	s.dispatch()
}

// FixedTick advances physics, knockback and projectiles by dt seconds.
func (s *Simulation) FixedTick(dt float64) {
	if s == nil || dt <= 0 || s.Ctx.Flow.Paused() {
		return
	}
	s.Ctx.FixedDT = dt
	s.fixed.FixedUpdate(s.World)
}

// Step runs one variable tick followed by one fixed tick of the same length,
// so intents and attacks decided this frame are integrated this frame.
func (s *Simulation) Step(dt float64) {
	s.Tick(dt)
	s.FixedTick(dt)
}

// Subscribe registers fn for events of the given type; "" receives all.
func (s *Simulation) Subscribe(eventType string, fn func(ecs.Event)) {
	if s == nil || fn == nil {
		return
	}
	s.subscribers[eventType] = append(s.subscribers[eventType], fn)
}

func (s *Simulation) SetPaused(paused bool) {
	if s != nil {
		s.Ctx.Flow.SetPaused(paused)
	}
}

func (s *Simulation) Paused() bool {
	return s != nil && s.Ctx.Flow.Paused()
}

// AddKillSink registers an extra kill consumer.
func (s *Simulation) AddKillSink(sink KillSink) {
	if s != nil && sink != nil {
		s.Ctx.KillSinks = append(s.Ctx.KillSinks, sink)
	}
}

// AddHealthObserver registers a health observer.
func (s *Simulation) AddHealthObserver(obs HealthObserver) {
	if s != nil && obs != nil {
		s.Ctx.HealthObservers = append(s.Ctx.HealthObservers, obs)
	}
}

func (s *Simulation) dispatch() {
	for _, evt := range s.World.Events().Drain() {
		for _, fn := range s.subscribers[evt.Type] {
			fn(evt)
		}
		for _, fn := range s.subscribers[""] {
			fn(evt)
		}
	}
}
