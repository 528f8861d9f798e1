package main

import (
	"math"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/system"
)

// bot plays the player well enough to exercise an encounter: it walks to the
// nearest living creature and swings whenever one is inside its reach.
type bot struct {
	sess *system.Session
}

func newBot(sess *system.Session) *bot {
	return &bot{sess: sess}
}

func (b *bot) drive() {
	if b == nil {
		return
	}
	w := b.sess.Sim.World
	ctrl, ok := ecs.Get(w, b.sess.Player, component.PlayerControlComponent.Kind())
	if !ok {
		return
	}
	tr, ok := ecs.Get(w, b.sess.Player, component.TransformComponent.Kind())
	if !ok {
		return
	}

	reach := 24.0
	if atk, ok := ecs.Get(w, b.sess.Player, component.AttackProfileComponent.Kind()); ok && atk.Range > 0 {
		reach = atk.Range
	}

	tx, ty, dist, found := nearestCreature(w, tr.X, tr.Y)
	if !found {
		ctrl.MoveX, ctrl.MoveY = 0, 0
		return
	}
	dx, dy := tx-tr.X, ty-tr.Y
	ctrl.AimX, ctrl.AimY = dx, dy
	if dist > reach*0.75 {
		ctrl.MoveX, ctrl.MoveY = dx/dist, dy/dist
		return
	}
	ctrl.MoveX, ctrl.MoveY = 0, 0
	ctrl.Attack = true
}

func nearestCreature(w *ecs.World, x, y float64) (float64, float64, float64, bool) {
	best := math.Inf(1)
	var bx, by float64
	ecs.ForEach2(w, component.CreatureTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.CreatureTag, t *component.Transform) {
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead {
			return
		}
		if d := math.Hypot(t.X-x, t.Y-y); d < best {
			best, bx, by = d, t.X, t.Y
		}
	})
	return bx, by, best, !math.IsInf(best, 1)
}
