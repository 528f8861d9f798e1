package system

import (
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// ClipAnimator is the default Animator. It records the current clip on the
// Animation component and the AnimationSystem advances its clock.
type ClipAnimator struct{}

func (ClipAnimator) Play(w *ecs.World, e ecs.Entity, clip string) {
	anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind())
	if !ok {
		return
	}
	anim.Current = clip
	anim.Elapsed = 0
}

// Done reports whether clip has played through. A clip that is no longer
// current counts as finished.
func (ClipAnimator) Done(w *ecs.World, e ecs.Entity, clip string) bool {
	anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind())
	if !ok || anim.Current != clip {
		return true
	}
	if anim.Loop[clip] {
		return false
	}
	return anim.Progress() >= 1
}

// AnimationSystem advances every clip clock.
type AnimationSystem struct {
	ctx *Context
}

func NewAnimationSystem(ctx *Context) *AnimationSystem {
	return &AnimationSystem{ctx: ctx}
}

func (s *AnimationSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.AnimationComponent.Kind(), func(_ ecs.Entity, anim *component.Animation) {
		if anim.Current == "" {
			return
		}
		anim.Elapsed += s.ctx.DT
	})
}
