package system

import (
	"math"
	"sort"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// ProjectileSystem moves projectiles on the physics tick and resolves the
// first opposing actor each one overlaps. Projectiles are not simulated by
// the physics space; they pass through each other and only test actors.
type ProjectileSystem struct {
	ctx *Context
}

func NewProjectileSystem(ctx *Context) *ProjectileSystem {
	return &ProjectileSystem{ctx: ctx}
}

func (s *ProjectileSystem) FixedUpdate(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := s.ctx.FixedDT

	ecs.ForEach(w, component.ProjectileComponent.Kind(), func(e ecs.Entity, p *component.Projectile) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			ecs.DestroyEntity(w, e)
			return
		}
		t.X += p.VX * dt
		t.Y += p.VY * dt

		victim, ok := s.firstVictim(w, e, p, t)
		if !ok {
			return
		}

		owner := ecs.Entity(p.Owner)
		res := TakeDamage(w, s.ctx, victim, component.DamageInfo{
			Amount:    p.Damage,
			Kind:      component.DamageRanged,
			Source:    p.Owner,
			SourceX:   t.X,
			SourceY:   t.Y,
			HasOrigin: true,
		})
		if res.Landed() && res != DamageKilled {
			applyPayload(w, victim, p.Payload, owner)
		}
		ecs.DestroyEntity(w, e)
	})
}

func (s *ProjectileSystem) firstVictim(w *ecs.World, self ecs.Entity, p *component.Projectile, t *component.Transform) (ecs.Entity, bool) {
	var candidates []ecs.Entity
	if s.ctx.Spatial != nil {
		candidates = s.ctx.Spatial.OverlapCircle(w, t.X, t.Y, p.Radius, p.Mask)
	} else {
		candidates = actorsInCircle(w, t.X, t.Y, p.Radius, p.Mask)
	}
	for _, c := range candidates {
		if c == self || uint64(c) == p.Owner {
			continue
		}
		if h, ok := ecs.Get(w, c, component.HealthComponent.Kind()); !ok || h.Dead {
			continue
		}
		return c, true
	}
	return 0, false
}

// projectilesInCircle lists projectiles whose hit circle overlaps the given
// circle.
func projectilesInCircle(w *ecs.World, x, y, radius float64) []ecs.Entity {
	var out []ecs.Entity
	ecs.ForEach(w, component.ProjectileComponent.Kind(), func(e ecs.Entity, p *component.Projectile) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if ok && math.Hypot(t.X-x, t.Y-y) <= radius+p.Radius {
			out = append(out, e)
		}
	})
	return out
}

// actorsInCircle is the body-less overlap test: actors are treated as
// circles of their physics radius (or a point without one).
func actorsInCircle(w *ecs.World, x, y, radius float64, mask uint32) []ecs.Entity {
	var out []ecs.Entity
	ecs.ForEach2(w, component.CollisionLayerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, layer *component.CollisionLayer, t *component.Transform) {
		if layer.Categories()&mask == 0 || ecs.Has(w, e, component.ProjectileComponent.Kind()) {
			return
		}
		r := 0.0
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
			r = body.Radius
		}
		if math.Hypot(t.X-x, t.Y-y) <= radius+r {
			out = append(out, e)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
