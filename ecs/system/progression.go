package system

import (
	"math"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// awardKill credits score and experience to the killer and levels it up as
// many times as the new total allows.
func awardKill(w *ecs.World, ctx *Context, kill KillEvent) {
	prog, ok := ecs.Get(w, kill.Killer, component.ProgressionComponent.Kind())
	if !ok {
		return
	}
	prog.Score += kill.Score
	prog.Experience += kill.Experience

	for prog.ExpPerLevel > 0 && prog.Experience >= prog.NextLevelAt() {
		levelUp(w, ctx, kill.Killer, prog)
	}
}

func levelUp(w *ecs.World, ctx *Context, e ecs.Entity, prog *component.Progression) {
	if prog.Level < 1 {
		prog.Level = 1
	}
	prog.Level++

	if atk, ok := ecs.Get(w, e, component.AttackProfileComponent.Kind()); ok {
		atk.AdditionalDamage += prog.DamagePerLevel
	}

	if stats, ok := ecs.Get(w, e, component.StatsComponent.Kind()); ok && prog.HealthPerLevel != 0 {
		stats.MaxHealth.SetUpgrade(stats.MaxHealth.Upgrade + prog.HealthPerLevel)
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && !h.Dead {
			h.Max = stats.MaxHealthValue()
			h.Current += int(math.Round(prog.HealthPerLevel))
			if h.Current > h.Max {
				h.Current = h.Max
			}
			ctx.notifyHealth(w, e, h)
		}
	}

	ctx.logf("progression: entity=%s reached level %d", e, prog.Level)
	ctx.emit(w, EventLevelUp, LevelUpEvent{Entity: e, Level: prog.Level})
}
