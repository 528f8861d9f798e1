package system

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// Animator plays state clips and reports when a non-looping clip has ended.
type Animator interface {
	Play(w *ecs.World, e ecs.Entity, clip string)
	Done(w *ecs.World, e ecs.Entity, clip string) bool
}

// SpatialQuery finds the live actors whose colliders overlap a circle and
// whose category intersects mask.
type SpatialQuery interface {
	OverlapCircle(w *ecs.World, x, y, radius float64, mask uint32) []ecs.Entity
}

// PathFinder computes a route between two world points. The callback may run
// on a later tick; callers must tolerate empty or stale results.
type PathFinder interface {
	RequestPath(startX, startY, goalX, goalY float64, done func([]component.PathNode))
}

// KillSink consumes kill notifications.
type KillSink interface {
	OnKill(w *ecs.World, kill KillEvent)
}

// HealthObserver is told about every health change.
type HealthObserver interface {
	OnHealthChanged(w *ecs.World, e ecs.Entity, current, max int)
}

// SkillSelector picks a payload index for a dual-skill activation.
type SkillSelector interface {
	SelectSkill(species *component.Species, req SkillRequest) int
}

// GameFlow is the pause flag owned by the host.
type GameFlow struct {
	paused bool
}

func (g *GameFlow) SetPaused(paused bool) {
	if g != nil {
		g.paused = paused
	}
}

func (g *GameFlow) Paused() bool {
	return g != nil && g.paused
}

type warnKey struct {
	entity ecs.Entity
	what   string
}

// Context carries the collaborators every combat system needs. Nothing in the
// combat core reaches for globals; tests swap any of these out.
type Context struct {
	Logger *log.Logger
	RNG    *rand.Rand
	Flow   *GameFlow

	Animator        Animator
	Spatial         SpatialQuery
	Paths           PathFinder
	Skills          SkillSelector
	KillSinks       []KillSink
	HealthObservers []HealthObserver

	// DT is the current variable tick delta in seconds; FixedDT the current
	// physics step.
	DT      float64
	FixedDT float64
	// Time accumulates variable ticks.
	Time float64

	warned map[warnKey]struct{}
}

// NewContext returns a context with a seeded RNG and the default logger.
func NewContext(seed int64) *Context {
	return &Context{
		Logger: log.Default(),
		RNG:    rand.New(rand.NewSource(seed)),
		Flow:   &GameFlow{},
	}
}

func (c *Context) logf(format string, args ...any) {
	if c == nil || c.Logger == nil {
		return
	}
	c.Logger.Printf(format, args...)
}

// warnOnce logs a missing-collaborator warning the first time it is seen for
// an entity.
func (c *Context) warnOnce(e ecs.Entity, what string, format string, args ...any) {
	if c == nil {
		return
	}
	if c.warned == nil {
		c.warned = make(map[warnKey]struct{})
	}
	key := warnKey{entity: e, what: what}
	if _, seen := c.warned[key]; seen {
		return
	}
	c.warned[key] = struct{}{}
	c.logf("warn: entity=%s %s", e, fmt.Sprintf(format, args...))
}

func (c *Context) roll() float64 {
	if c == nil || c.RNG == nil {
		return rand.Float64()
	}
	return c.RNG.Float64()
}

func (c *Context) emit(w *ecs.World, typ string, data any) {
	w.Events().Push(ecs.Event{Type: typ, Data: data})
}

func (c *Context) notifyHealth(w *ecs.World, e ecs.Entity, h *component.Health) {
	if c == nil || h == nil {
		return
	}
	for _, obs := range c.HealthObservers {
		obs.OnHealthChanged(w, e, h.Current, h.Max)
	}
	c.emit(w, EventHealthChanged, HealthChangedEvent{Entity: e, Current: h.Current, Max: h.Max})
}

func (c *Context) notifyKill(w *ecs.World, kill KillEvent) {
	if c == nil {
		return
	}
	for _, sink := range c.KillSinks {
		sink.OnKill(w, kill)
	}
	c.emit(w, EventKill, kill)
}
