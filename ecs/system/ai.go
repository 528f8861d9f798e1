package system

import (
	"math"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

const (
	waypointArriveRadius  = 4.0
	defaultRepathInterval = 0.5
	defaultAttackDuration = 0.5
)

// CombatAISystem drives every creature's combat state machine. Transitions
// requested before the tick began (physics-tick hits, external overrides) are
// committed ahead of evaluation; anything requested during the tick, by the
// creature itself or by damage it takes, is committed at the end of the pass
// and so first evaluated on the next tick.
type CombatAISystem struct {
	ctx *Context
}

func NewCombatAISystem(ctx *Context) *CombatAISystem {
	return &CombatAISystem{ctx: ctx}
}

// TransitionLatchSystem must run first in the variable tick. It separates
// the requests carried into the tick from those raised during it.
type TransitionLatchSystem struct{}

func (TransitionLatchSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.CombatStateComponent.Kind(), func(_ ecs.Entity, s *component.CombatState) {
		s.Latch()
	})
}

type actor struct {
	w         *ecs.World
	e         ecs.Entity
	state     *component.CombatState
	species   *component.Species
	health    *component.Health
	transform *component.Transform
	intent    *component.MoveIntent
	attack    *component.AttackProfile
	stats     *component.Stats

	target    ecs.Entity
	hasTarget bool
	tx, ty    float64
	dist      float64
}

func (s *CombatAISystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	creatures := ecs.Query(w, component.CombatStateComponent.Kind(), component.SpeciesComponent.Kind())

	for _, e := range creatures {
		s.commitLatched(w, e)
	}
	for _, e := range creatures {
		if !ecs.IsAlive(w, e) {
			continue
		}
		s.evaluate(w, e)
	}
	for _, e := range creatures {
		if ecs.IsAlive(w, e) {
			s.commit(w, e)
		}
	}
}

// commitLatched applies the request carried into this tick while keeping
// whatever was raised since the tick began.
func (s *CombatAISystem) commitLatched(w *ecs.World, e ecs.Entity) {
	state, ok := ecs.Get(w, e, component.CombatStateComponent.Kind())
	if !ok {
		return
	}
	if state.Current == "" && state.Latched == "" {
		state.Latched = component.StateIdle
	}
	next, force := state.Latched, state.LatchedForce
	pending, pendingForce := state.Pending, state.PendingForce
	state.Latched, state.LatchedForce = "", false
	s.apply(w, e, state, next, force)
	state.Pending, state.PendingForce = pending, pendingForce
}

func (s *CombatAISystem) commit(w *ecs.World, e ecs.Entity) {
	state, ok := ecs.Get(w, e, component.CombatStateComponent.Kind())
	if !ok {
		return
	}
	if state.Current == "" && state.Pending == "" {
		state.Pending = component.StateIdle
	}
	next, force := state.Pending, state.PendingForce
	state.Pending, state.PendingForce = "", false
	s.apply(w, e, state, next, force)
}

func (s *CombatAISystem) apply(w *ecs.World, e ecs.Entity, state *component.CombatState, next component.StateID, force bool) {
	if next == "" || (next == state.Current && !force) {
		return
	}
	// Dead is terminal unless something explicitly revives.
	if state.Current == component.StateDead && next != component.StateRevive {
		return
	}
	s.enter(w, e, state, next)
}

func (s *CombatAISystem) load(w *ecs.World, e ecs.Entity) *actor {
	state, ok := ecs.Get(w, e, component.CombatStateComponent.Kind())
	if !ok {
		return nil
	}
	species, ok := ecs.Get(w, e, component.SpeciesComponent.Kind())
	if !ok {
		return nil
	}
	transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		s.ctx.warnOnce(e, "transform", "creature has no transform")
		return nil
	}

	a := &actor{w: w, e: e, state: state, species: species, transform: transform}
	a.health, _ = ecs.Get(w, e, component.HealthComponent.Kind())
	a.intent, _ = ecs.Get(w, e, component.MoveIntentComponent.Kind())
	a.attack, _ = ecs.Get(w, e, component.AttackProfileComponent.Kind())
	a.stats, _ = ecs.Get(w, e, component.StatsComponent.Kind())
	s.acquireTarget(a)
	return a
}

// acquireTarget keeps the remembered target while it stays valid and otherwise
// picks the nearest living player.
func (s *CombatAISystem) acquireTarget(a *actor) {
	tgt, _ := ecs.Get(a.w, a.e, component.TargetComponent.Kind())
	if tgt != nil && validTarget(a.w, ecs.Entity(tgt.Entity)) {
		a.setTarget(ecs.Entity(tgt.Entity))
		return
	}

	best, bestDist := ecs.Entity(0), math.Inf(1)
	for _, p := range ecs.Query(a.w, component.PlayerTagComponent.Kind(), component.TransformComponent.Kind()) {
		if !validTarget(a.w, p) {
			continue
		}
		pt, _ := ecs.Get(a.w, p, component.TransformComponent.Kind())
		if d := math.Hypot(pt.X-a.transform.X, pt.Y-a.transform.Y); d < bestDist {
			best, bestDist = p, d
		}
	}
	if best == 0 {
		if tgt != nil {
			tgt.Entity = 0
		}
		return
	}
	if tgt != nil {
		tgt.Entity = uint64(best)
	}
	a.setTarget(best)
}

func validTarget(w *ecs.World, e ecs.Entity) bool {
	if e == 0 || !ecs.IsAlive(w, e) || !ecs.Has(w, e, component.TransformComponent.Kind()) {
		return false
	}
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	return ok && !h.Dead
}

func (a *actor) setTarget(e ecs.Entity) {
	t, ok := ecs.Get(a.w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	a.target, a.hasTarget = e, true
	a.tx, a.ty = t.X, t.Y
	a.dist = math.Hypot(t.X-a.transform.X, t.Y-a.transform.Y)
}

func (s *CombatAISystem) evaluate(w *ecs.World, e ecs.Entity) {
	state, ok := ecs.Get(w, e, component.CombatStateComponent.Kind())
	if !ok {
		return
	}
	// hit or killed earlier this tick: the reaction starts next tick
	if state.Pending.Priority() >= component.StateHurt.Priority() {
		return
	}
	a := s.load(w, e)
	if a == nil {
		return
	}

	switch a.state.Current {
	case component.StateIdle:
		s.idle(a)
	case component.StateWander:
		s.wander(a)
	case component.StateChase:
		s.chase(a)
	case component.StateAttack:
		s.attacking(a)
	case component.StateHurt:
		s.hurt(a)
	case component.StateDead:
		s.dead(a)
	case component.StateRevive:
		s.revive(a)
	}
}

// engage applies the shared evaluation order: attack range, then detection
// range, then nothing.
func (s *CombatAISystem) engage(a *actor) component.StateID {
	if !a.hasTarget {
		return ""
	}
	if a.dist <= a.species.AttackRange && s.attackReady(a) {
		return component.StateAttack
	}
	if a.dist <= a.species.DetectionRange {
		return component.StateChase
	}
	return ""
}

func (s *CombatAISystem) attackReady(a *actor) bool {
	return a.attack != nil && !ecs.Has(a.w, a.e, component.CooldownComponent.Kind())
}

func (s *CombatAISystem) idle(a *actor) {
	if next := s.engage(a); next != "" {
		a.state.Request(next)
		return
	}

	a.state.Elapsed += s.ctx.DT
	if a.state.Elapsed < a.state.Duration {
		return
	}
	if s.ctx.roll() < a.species.WanderChance {
		a.state.Request(component.StateWander)
		return
	}
	a.state.Elapsed = 0
	a.state.Duration = s.rollRange(a.species.IdleDwellMin, a.species.IdleDwellMax)
}

func (s *CombatAISystem) wander(a *actor) {
	if next := s.engage(a); next != "" {
		a.state.Request(next)
		return
	}

	a.state.Elapsed += s.ctx.DT
	if a.state.Elapsed >= a.state.Duration {
		s.stop(a)
		a.state.Request(component.StateIdle)
		return
	}
	s.move(a, a.state.DirX, a.state.DirY)
}

func (s *CombatAISystem) chase(a *actor) {
	switch next := s.engage(a); next {
	case "":
		s.stop(a)
		a.state.Request(component.StateIdle)
		return
	case component.StateAttack:
		s.stop(a)
		a.state.Request(component.StateAttack)
		return
	}

	if a.dist <= a.species.AttackRange {
		// in reach but cooling down
		s.stop(a)
		s.face(a, a.tx-a.transform.X, a.ty-a.transform.Y)
		return
	}
	s.pursue(a)
}

func (s *CombatAISystem) attacking(a *actor) {
	st, atk := a.state, a.attack
	if atk == nil {
		a.state.Request(component.StateIdle)
		return
	}

	if st.Recovery {
		if ecs.Has(a.w, a.e, component.CooldownComponent.Kind()) {
			s.stop(a)
			return
		}
		switch next := s.engage(a); next {
		case component.StateAttack:
			st.Force(component.StateAttack)
		case "":
			st.Request(component.StateIdle)
		default:
			st.Request(next)
		}
		return
	}

	st.Elapsed += s.ctx.DT
	if st.Elapsed >= atk.Impact()*st.Duration && atk.CanTrigger() {
		if a.species.Variant == component.VariantDetonate {
			s.detonate(a)
			return
		}
		if AttackTrigger(a.w, s.ctx, a.e) {
			st.Impacted = true
		}
	}

	if st.Elapsed >= st.Duration {
		atk.StopAttacking()
		cd := atk.Cooldown
		if a.species.AttackCooldown > 0 {
			cd = a.species.AttackCooldown
		}
		if cd > 0 {
			_ = ecs.Add(a.w, a.e, component.CooldownComponent.Kind(), &component.Cooldown{Remaining: cd})
		}
		st.Recovery = true
	}
}

// detonate blasts everything opposing within the explosion radius and then
// kills the creature itself. Nobody is credited with the kill.
func (s *CombatAISystem) detonate(a *actor) {
	a.attack.MarkDamaged()
	a.state.Impacted = true

	radius := a.species.ExplosionRadius
	if radius <= 0 {
		radius = a.attack.Range
	}
	x, y := a.transform.X, a.transform.Y

	if s.ctx.Spatial == nil {
		s.ctx.warnOnce(a.e, "spatial", "no spatial query; detonation hits nothing")
	} else {
		for _, victim := range s.ctx.Spatial.OverlapCircle(a.w, x, y, radius, a.attack.TargetMask) {
			if victim == a.e {
				continue
			}
			TakeDamage(a.w, s.ctx, victim, component.DamageInfo{
				Amount:    a.attack.GetAttackDamage(a.stats, s.ctx.roll()),
				Kind:      component.DamageBlast,
				Source:    uint64(a.e),
				SourceX:   x,
				SourceY:   y,
				HasOrigin: true,
			})
		}
	}

	if a.health != nil {
		a.health.Current = 0
		a.health.Dead = true
		a.health.LastAttacker = 0
		s.ctx.notifyHealth(a.w, a.e, a.health)
	}
	cancelTimers(a.w, a.e)
	a.state.Force(component.StateDead)
}

func (s *CombatAISystem) hurt(a *actor) {
	s.stop(a)
	a.state.Elapsed += s.ctx.DT
	if a.state.Elapsed < a.state.Duration {
		return
	}
	next := s.engage(a)
	if next == "" {
		next = component.StateIdle
	}
	a.state.Request(next)
}

func (s *CombatAISystem) dead(a *actor) {
	a.state.Elapsed += s.ctx.DT
	done := a.state.Elapsed >= a.state.Duration
	if a.state.Duration <= 0 {
		done = s.animationDone(a, a.species.Animation(component.StateDead))
	}
	if done {
		s.finishDeath(a)
	}
}

// finishDeath credits the killer, notifies kill sinks and removes the
// creature.
func (s *CombatAISystem) finishDeath(a *actor) {
	kill := KillEvent{Victim: a.e, Species: a.species.Name}
	if a.health != nil {
		kill.Killer = ecs.Entity(a.health.LastAttacker)
	}
	if kill.Killer != 0 && ecs.IsAlive(a.w, kill.Killer) {
		kill.Score = a.species.Score
		kill.Experience = a.species.Experience
		awardKill(a.w, s.ctx, kill)
	}
	s.ctx.notifyKill(a.w, kill)
	ecs.DestroyEntity(a.w, a.e)
}

func (s *CombatAISystem) revive(a *actor) {
	s.stop(a)
	a.state.Elapsed += s.ctx.DT
	if a.state.Elapsed >= a.state.Duration {
		a.state.Request(component.StateIdle)
	}
}

func (s *CombatAISystem) enter(w *ecs.World, e ecs.Entity, state *component.CombatState, next component.StateID) {
	prev := state.Current
	state.Reset(next)

	a := s.load(w, e)
	if a == nil {
		return
	}

	switch next {
	case component.StateIdle:
		s.stop(a)
		state.Duration = s.rollRange(a.species.IdleDwellMin, a.species.IdleDwellMax)
	case component.StateWander:
		angle := s.ctx.roll() * 2 * math.Pi
		state.DirX, state.DirY = math.Cos(angle), math.Sin(angle)
		state.Duration = s.rollRange(a.species.WanderMin, a.species.WanderMax)
	case component.StateChase:
		if pf, ok := ecs.Get(w, e, component.PathfindingComponent.Kind()); ok {
			pf.RepathTimer = 0
		}
	case component.StateAttack:
		s.beginAttack(a)
	case component.StateHurt:
		s.stop(a)
		a.attack.StopAttacking()
		state.Duration = a.species.HurtDuration
	case component.StateDead:
		s.stop(a)
		cancelTimers(w, e)
		if a.health != nil {
			a.health.Dead = true
		}
		state.Duration = s.clipDuration(a, next, a.species.DeathDuration)
	case component.StateRevive:
		s.stop(a)
		a.attack.StopAttacking()
		ecs.Remove(w, e, component.CooldownComponent.Kind())
		state.Duration = s.clipDuration(a, next, a.species.ReviveDuration)
		if a.health != nil {
			a.health.Dead = false
		}
		if status, ok := ecs.Get(w, e, component.StatusEffectsComponent.Kind()); ok {
			status.ApplyInvincibility(state.Duration, 0)
		}
	}

	s.play(a, a.species.Animation(next))
	s.ctx.emit(w, EventStateChanged, StateChangedEvent{Entity: e, From: prev, To: next})
}

func (s *CombatAISystem) beginAttack(a *actor) {
	s.stop(a)
	if a.attack == nil {
		s.ctx.warnOnce(a.e, "attack", "creature has no attack profile")
		a.state.Recovery = true
		return
	}

	a.attack.StartAttacking(uint64(a.target))
	if a.hasTarget {
		s.face(a, a.tx-a.transform.X, a.ty-a.transform.Y)
	}
	if a.species.Variant == component.VariantDualSkill {
		a.state.Skill = s.selectSkill(a)
		a.attack.Selected = a.state.Skill
	}

	d := s.clipDuration(a, component.StateAttack, a.attack.Duration)
	if d <= 0 {
		d = defaultAttackDuration
	}
	a.state.Duration = d
}

func (s *CombatAISystem) selectSkill(a *actor) int {
	n := len(a.attack.Payloads)
	if n == 0 {
		return 0
	}
	req := SkillRequest{
		Entity:   a.e,
		Options:  make([]string, n),
		Distance: a.dist,
		Roll:     s.ctx.roll(),
	}
	for i, p := range a.attack.Payloads {
		req.Options[i] = p.Name
	}
	if a.health != nil {
		req.HealthFraction = a.health.Fraction()
	}

	var idx int
	if s.ctx.Skills != nil {
		idx = s.ctx.Skills.SelectSkill(a.species, req)
	} else {
		idx = RandomSkillSelector{}.SelectSkill(a.species, req)
	}
	if idx < 0 || idx >= n {
		idx = 0
	}
	return idx
}

// pursue heads for the next waypoint when a path is available and straight
// at the target otherwise.
func (s *CombatAISystem) pursue(a *actor) {
	pf, ok := ecs.Get(a.w, a.e, component.PathfindingComponent.Kind())
	if ok && a.species.UsePathfinding {
		if s.ctx.Paths == nil {
			s.ctx.warnOnce(a.e, "paths", "no path finder; chasing in a straight line")
		} else {
			pf.RepathTimer -= s.ctx.DT
			if pf.RepathTimer <= 0 || (!pf.Pending && len(pf.Waypoints) > 0 && pf.Exhausted()) {
				s.requestPath(a, pf)
			}
			for {
				wp, ok := pf.Next()
				if !ok || math.Hypot(wp.X-a.transform.X, wp.Y-a.transform.Y) > waypointArriveRadius {
					break
				}
				pf.Index++
			}
			if wp, ok := pf.Next(); ok {
				s.move(a, wp.X-a.transform.X, wp.Y-a.transform.Y)
				return
			}
		}
	}
	s.move(a, a.tx-a.transform.X, a.ty-a.transform.Y)
}

func (s *CombatAISystem) requestPath(a *actor, pf *component.Pathfinding) {
	pf.Generation++
	pf.Pending = true
	interval := pf.RepathInterval
	if interval <= 0 {
		interval = defaultRepathInterval
	}
	pf.RepathTimer = interval

	w, e, gen := a.w, a.e, pf.Generation
	s.ctx.Paths.RequestPath(a.transform.X, a.transform.Y, a.tx, a.ty, func(nodes []component.PathNode) {
		cur, ok := ecs.Get(w, e, component.PathfindingComponent.Kind())
		if !ok || cur.Generation != gen {
			return
		}
		cur.Waypoints = nodes
		cur.Index = 0
		cur.Pending = false
	})
}

func (s *CombatAISystem) move(a *actor, dx, dy float64) {
	l := math.Hypot(dx, dy)
	if l < 1e-9 || a.intent == nil {
		s.stop(a)
		return
	}
	speed := 0.0
	if a.stats != nil {
		speed = a.stats.MoveSpeed.EffectiveValue()
	}
	a.intent.X = dx / l * speed
	a.intent.Y = dy / l * speed
	s.face(a, dx, dy)
}

func (s *CombatAISystem) stop(a *actor) {
	if a.intent != nil {
		*a.intent = component.MoveIntent{}
	}
}

func (s *CombatAISystem) face(a *actor, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	a.transform.Rotation = math.Atan2(dy, dx)
}

func (s *CombatAISystem) play(a *actor, clip string) {
	if s.ctx.Animator == nil {
		s.ctx.warnOnce(a.e, "animator", "no animator; clips complete immediately")
		return
	}
	s.ctx.Animator.Play(a.w, a.e, clip)
}

func (s *CombatAISystem) animationDone(a *actor, clip string) bool {
	if s.ctx.Animator == nil {
		return true
	}
	return s.ctx.Animator.Done(a.w, a.e, clip)
}

// clipDuration prefers the configured duration and falls back to the authored
// length of the state's clip.
func (s *CombatAISystem) clipDuration(a *actor, state component.StateID, configured float64) float64 {
	if configured > 0 {
		return configured
	}
	anim, ok := ecs.Get(a.w, a.e, component.AnimationComponent.Kind())
	if !ok {
		return 0
	}
	return anim.Durations[a.species.Animation(state)]
}

func (s *CombatAISystem) rollRange(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.ctx.roll()*(max-min)
}
