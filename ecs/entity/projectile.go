package entity

import (
	"fmt"
	"math"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

const (
	defaultProjectileSpeed    = 200.0
	defaultProjectileRadius   = 6.0
	defaultProjectileLifetime = 2.0
)

// ProjectileParams describes a projectile launch.
type ProjectileParams struct {
	Owner   ecs.Entity
	Mask    uint32
	X, Y    float64
	DirX    float64
	DirY    float64
	Damage  int
	Payload component.Payload
}

// NewProjectile launches a projectile from (X, Y) along (DirX, DirY) using the
// payload's speed, radius and lifetime.
func NewProjectile(w *ecs.World, p ProjectileParams) (ecs.Entity, error) {
	speed := p.Payload.ProjectileSpeed
	if speed <= 0 {
		speed = defaultProjectileSpeed
	}
	radius := p.Payload.ProjectileRadius
	if radius <= 0 {
		radius = defaultProjectileRadius
	}
	lifetime := p.Payload.ProjectileLifetime
	if lifetime <= 0 {
		lifetime = defaultProjectileLifetime
	}

	dx, dy := p.DirX, p.DirY
	if l := math.Hypot(dx, dy); l > 0 {
		dx, dy = dx/l, dy/l
	} else {
		dx, dy = 1, 0
	}

	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.ProjectileTagComponent.Kind(), &component.ProjectileTag{}); err != nil {
		return 0, fmt.Errorf("projectile: add tag: %w", err)
	}

	if err := ecs.Add(w, entity, component.ProjectileComponent.Kind(), &component.Projectile{
		Owner:   uint64(p.Owner),
		Mask:    p.Mask,
		VX:      dx * speed,
		VY:      dy * speed,
		Radius:  radius,
		Damage:  p.Damage,
		Payload: p.Payload,
	}); err != nil {
		return 0, fmt.Errorf("projectile: add projectile: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{
		X:        p.X,
		Y:        p.Y,
		Rotation: math.Atan2(dy, dx),
	}); err != nil {
		return 0, fmt.Errorf("projectile: add transform: %w", err)
	}

	if err := ecs.Add(w, entity, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{
		Category: component.LayerProjectile,
		Mask:     p.Mask,
	}); err != nil {
		return 0, fmt.Errorf("projectile: add collision layer: %w", err)
	}

	if err := ecs.Add(w, entity, component.TTLComponent.Kind(), &component.TTL{Remaining: lifetime}); err != nil {
		return 0, fmt.Errorf("projectile: add ttl: %w", err)
	}

	return entity, nil
}
