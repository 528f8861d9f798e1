package system

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/prefabs"
)

// actorCollisionMask is what actor shapes physically collide with.
const actorCollisionMask = component.LayerPlayer | component.LayerCreature | component.LayerWall

// PhysicsSystem owns the Chipmunk space. The world is top-down so gravity is
// zero; movement comes from intents, and friction plus drag bring bodies to
// rest. It also answers circle overlap queries for the combat code.
type PhysicsSystem struct {
	ctx   *Context
	space *cp.Space

	entities map[ecs.Entity]*bodyInfo
	walls    []*cp.Shape
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
	// lastX/lastY is where syncTransforms last put the transform; a
	// transform that moved elsewhere was teleported and the body follows.
	lastX, lastY float64
}

func NewPhysicsSystem(ctx *Context) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})
	return &PhysicsSystem{
		ctx:      ctx,
		space:    space,
		entities: make(map[ecs.Entity]*bodyInfo),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// AddObstacles adds static box walls for the arena's obstacles.
func (ps *PhysicsSystem) AddObstacles(rects []prefabs.RectSpec) {
	if ps == nil || ps.space == nil {
		return
	}
	for _, r := range rects {
		if r.Width <= 0 || r.Height <= 0 {
			continue
		}
		bb := cp.BB{L: r.X, B: r.Y, R: r.X + r.Width, T: r.Y + r.Height}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(0)
		shape.SetElasticity(0)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(component.LayerWall), uint(component.LayerPlayer|component.LayerCreature)))
		ps.space.AddShape(shape)
		ps.walls = append(ps.walls, shape)
	}
}

func (ps *PhysicsSystem) FixedUpdate(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	dt := ps.ctx.FixedDT
	if dt <= 0 {
		return
	}

	ps.syncEntities(w)
	ps.applyIntents(w, dt)
	ps.space.Step(dt)
	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	for _, e := range ecs.Query(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		bodyComp, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		transform, _ := ecs.Get(w, e, component.TransformComponent.Kind())

		if info := ps.entities[e]; info != nil {
			if info.static {
				continue
			}
			if transform.X != info.lastX || transform.Y != info.lastY {
				info.body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
				// the broad phase catches up on the next Step; refresh the
				// shape's own geometry so exact queries see the new spot now
				info.shape.CacheBB()
				info.lastX, info.lastY = transform.X, transform.Y
			}
			continue
		}

		layer, _ := ecs.Get(w, e, component.CollisionLayerComponent.Kind())
		info := ps.createBodyInfo(e, transform, bodyComp, layer.Categories())
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shape = info.shape
	}
}

func (ps *PhysicsSystem) createBodyInfo(e ecs.Entity, transform *component.Transform, bodyComp *component.PhysicsBody, category uint32) *bodyInfo {
	radius := bodyComp.Radius
	if radius <= 0 {
		radius = 12
	}
	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	filter := cp.NewShapeFilter(cp.NO_GROUP, uint(category), uint(actorCollisionMask))

	if bodyComp.Static {
		shape := cp.NewCircle(ps.space.StaticBody, radius, cp.Vector{X: transform.X, Y: transform.Y})
		shape.SetFilter(filter)
		shape.UserData = e
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shape: shape, static: true, lastX: transform.X, lastY: transform.Y}
	}

	// infinite moment: actors never spin
	body := cp.NewBody(mass, cp.INFINITY)
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetFilter(filter)
	shape.UserData = e

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	return &bodyInfo{body: body, shape: shape, lastX: transform.X, lastY: transform.Y}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		if info.shape != nil {
			ps.space.RemoveShape(info.shape)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}

// applyIntents turns move intents into velocity, scaled by any slow, and
// applies friction and drag to bodies coasting without an intent. Bodies
// under knockback are driven by the knockback system instead. The part of an
// intent pushing into a surface the body already touches is dropped, so the
// solver never has to undo a full step of penetration.
func (ps *PhysicsSystem) applyIntents(w *ecs.World, dt float64) {
	for e, info := range ps.entities {
		if info.static {
			continue
		}
		if ecs.Has(w, e, component.KnockbackComponent.Kind()) {
			continue
		}
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead {
			info.body.SetVelocityVector(cp.Vector{})
			continue
		}

		if intent, ok := ecs.Get(w, e, component.MoveIntentComponent.Kind()); ok && (intent.X != 0 || intent.Y != 0) {
			mult := 1.0
			if status, ok := ecs.Get(w, e, component.StatusEffectsComponent.Kind()); ok {
				mult = status.SpeedMultiplier()
			}
			info.body.SetVelocityVector(slideAlongContacts(info.body, cp.Vector{X: intent.X * mult, Y: intent.Y * mult}))
			continue
		}

		bodyComp, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		applyFrictionAndDrag(info.body, bodyComp, dt)
	}
}

// slideAlongContacts removes from v every component that points into a shape
// the body is in contact with.
func slideAlongContacts(body *cp.Body, v cp.Vector) cp.Vector {
	body.EachArbiter(func(arb *cp.Arbiter) {
		if arb.Count() == 0 {
			return
		}
		// body is shape A, so the normal points away from it
		n := arb.Normal()
		if d := v.Dot(n); d > 0 {
			v = v.Sub(n.Mult(d))
		}
	})
	return v
}

// applyFrictionAndDrag applies a constant-magnitude friction force against the
// direction of motion plus a drag force proportional to velocity. If the
// combined deceleration would reverse the body within this step it is brought
// to rest instead.
func applyFrictionAndDrag(body *cp.Body, comp *component.PhysicsBody, dt float64) {
	if body == nil || comp == nil {
		return
	}
	v := body.Velocity()
	speed := math.Hypot(v.X, v.Y)
	if speed < 1e-9 {
		return
	}
	mass := body.Mass()
	if mass <= 0 || math.IsInf(mass, 0) {
		return
	}

	ux, uy := v.X/speed, v.Y/speed
	magnitude := comp.Friction + comp.Drag*speed
	if magnitude <= 0 {
		return
	}
	if magnitude/mass*dt >= speed {
		body.SetVelocityVector(cp.Vector{})
		return
	}
	body.ApplyForceAtWorldPoint(cp.Vector{X: -ux * magnitude, Y: -uy * magnitude}, body.Position())
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		if info.static {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		pos := info.body.Position()
		transform.X, transform.Y = pos.X, pos.Y
		info.lastX, info.lastY = pos.X, pos.Y
	}
}

// OverlapCircle returns live entities overlapping the circle whose category
// is in mask, sorted by entity id. Actors come from the physics space;
// projectiles are tested directly when mask includes their layer.
func (ps *PhysicsSystem) OverlapCircle(w *ecs.World, x, y, radius float64, mask uint32) []ecs.Entity {
	if ps == nil || w == nil {
		return nil
	}
	ps.syncEntities(w)

	seen := make(map[ecs.Entity]struct{})
	var out []ecs.Entity
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
	center := cp.Vector{X: x, Y: y}
	ps.space.BBQuery(cp.NewBBForCircle(center, radius), filter, func(shape *cp.Shape, _ interface{}) {
		e, ok := shape.UserData.(ecs.Entity)
		if !ok || !ecs.IsAlive(w, e) {
			return
		}
		if _, dup := seen[e]; dup {
			return
		}
		if shape.PointQuery(center).Distance > radius {
			return
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}, nil)

	if mask&component.LayerProjectile != 0 {
		for _, e := range projectilesInCircle(w, x, y, radius) {
			if _, dup := seen[e]; !dup {
				seen[e] = struct{}{}
				out = append(out, e)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BodyCount reports how many actor bodies are in the space.
func (ps *PhysicsSystem) BodyCount() int {
	if ps == nil {
		return 0
	}
	return len(ps.entities)
}
