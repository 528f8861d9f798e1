package system

import (
	"fmt"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

const (
	EventDamage            = "damage"
	EventHealthChanged     = "health_changed"
	EventShieldAbsorbed    = "shield_absorbed"
	EventStateChanged      = "state_changed"
	EventKill              = "kill"
	EventPlayerDied        = "player_died"
	EventSpawned           = "spawned"
	EventWaveStarted       = "wave_started"
	EventWaveCleared       = "wave_cleared"
	EventEncounterComplete = "encounter_complete"
	EventLevelUp           = "level_up"
	EventShieldRecharged   = "shield_recharged"
)

type DamageEvent struct {
	Victim   ecs.Entity
	Attacker ecs.Entity
	Amount   int
	Kind     component.DamageKind
	Result   DamageResult
}

type HealthChangedEvent struct {
	Entity  ecs.Entity
	Current int
	Max     int
}

type ShieldEvent struct {
	Entity  ecs.Entity
	Charges int
	Cleared int
}

type StateChangedEvent struct {
	Entity ecs.Entity
	From   component.StateID
	To     component.StateID
}

// KillEvent is sent when a creature finishes dying. Killer is zero for
// self-inflicted deaths.
type KillEvent struct {
	Victim     ecs.Entity
	Killer     ecs.Entity
	Species    string
	Score      int
	Experience int
}

type SpawnEvent struct {
	Entity  ecs.Entity
	Species string
	Wave    int
}

type WaveEvent struct {
	Wave int
	Name string
}

type LevelUpEvent struct {
	Entity ecs.Entity
	Level  int
}

// DescribeEvent renders evt as a single log line.
func DescribeEvent(evt ecs.Event) string {
	switch d := evt.Data.(type) {
	case DamageEvent:
		return fmt.Sprintf("%s: %s hit %s for %d (%s, %s)", evt.Type, d.Attacker, d.Victim, d.Amount, d.Kind, d.Result)
	case HealthChangedEvent:
		return fmt.Sprintf("%s: %s %d/%d", evt.Type, d.Entity, d.Current, d.Max)
	case ShieldEvent:
		return fmt.Sprintf("%s: %s charges=%d cleared=%d", evt.Type, d.Entity, d.Charges, d.Cleared)
	case StateChangedEvent:
		return fmt.Sprintf("%s: %s %s -> %s", evt.Type, d.Entity, d.From, d.To)
	case KillEvent:
		return fmt.Sprintf("%s: %s %s by %s (+%d score, +%d exp)", evt.Type, d.Species, d.Victim, d.Killer, d.Score, d.Experience)
	case SpawnEvent:
		return fmt.Sprintf("%s: %s %s in wave %d", evt.Type, d.Species, d.Entity, d.Wave)
	case WaveEvent:
		return fmt.Sprintf("%s: %d %q", evt.Type, d.Wave, d.Name)
	case LevelUpEvent:
		return fmt.Sprintf("%s: %s reached level %d", evt.Type, d.Entity, d.Level)
	default:
		return fmt.Sprintf("%s: %v", evt.Type, evt.Data)
	}
}
