package system

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

const (
	recordLevel      = "level"
	recordExperience = "experience"
	recordScore      = "score"
	recordCoins      = "coins"
	recordHealth     = "health"
	recordMaxHealth  = "max_health"
	recordSkills     = "skills"
	recordEquipment  = "equipment"
	recordStatPrefix = "stat."
)

// PlayerRecord is the persistent part of a player between sessions. Only
// stat base values are kept; equipment and upgrade bonuses are rebuilt by
// whoever restores the record.
type PlayerRecord struct {
	Level      int
	Experience int
	Score      int
	Coins      int
	Health     int
	MaxHealth  int
	Stats      map[component.StatKind]float64
	Skills     []string
	Equipment  []string
}

// CapturePlayer snapshots e's persistent state.
func CapturePlayer(w *ecs.World, e ecs.Entity) (PlayerRecord, error) {
	if !ecs.IsAlive(w, e) {
		return PlayerRecord{}, fmt.Errorf("persistence: capture %s: %w", e, component.ErrEntityNotAlive)
	}

	rec := PlayerRecord{Stats: map[component.StatKind]float64{}}
	if prog, ok := ecs.Get(w, e, component.ProgressionComponent.Kind()); ok {
		rec.Level = prog.Level
		rec.Experience = prog.Experience
		rec.Score = prog.Score
		rec.Coins = prog.Coins
		rec.Skills = append([]string(nil), prog.Skills...)
		rec.Equipment = append([]string(nil), prog.Equipment...)
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		rec.Health = h.Current
		rec.MaxHealth = h.Max
	}
	if stats, ok := ecs.Get(w, e, component.StatsComponent.Kind()); ok {
		for _, kind := range component.StatKinds {
			rec.Stats[kind] = stats.Stat(kind).Base
		}
	}
	return rec, nil
}

// RestorePlayer applies rec to e. Level-derived bonuses are recomputed from
// the progression rates already on the entity.
func RestorePlayer(w *ecs.World, e ecs.Entity, rec PlayerRecord) error {
	if !ecs.IsAlive(w, e) {
		return fmt.Errorf("persistence: restore %s: %w", e, component.ErrEntityNotAlive)
	}

	prog, hasProg := ecs.Get(w, e, component.ProgressionComponent.Kind())
	if hasProg {
		prog.Level = rec.Level
		if prog.Level < 1 {
			prog.Level = 1
		}
		prog.Experience = rec.Experience
		prog.Score = rec.Score
		prog.Coins = rec.Coins
		prog.Skills = append([]string(nil), rec.Skills...)
		prog.Equipment = append([]string(nil), rec.Equipment...)
	}

	stats, hasStats := ecs.Get(w, e, component.StatsComponent.Kind())
	if hasStats {
		for kind, base := range rec.Stats {
			if st := stats.Stat(kind); st != nil {
				st.SetBase(base)
			}
		}
		if hasProg {
			stats.MaxHealth.SetUpgrade(float64(prog.Level-1) * prog.HealthPerLevel)
		}
	}

	if hasProg {
		if atk, ok := ecs.Get(w, e, component.AttackProfileComponent.Kind()); ok {
			atk.AdditionalDamage = (prog.Level - 1) * prog.DamagePerLevel
		}
	}

	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		h.Max = rec.MaxHealth
		if h.Max <= 0 && hasStats {
			h.Max = stats.MaxHealthValue()
		}
		h.Current = rec.Health
		if h.Current > h.Max {
			h.Current = h.Max
		}
		if h.Current < 0 {
			h.Current = 0
		}
		h.Dead = h.Current == 0
	}
	return nil
}

// Records flattens the record into string key/value pairs.
func (r PlayerRecord) Records() map[string]string {
	out := map[string]string{
		recordLevel:      strconv.Itoa(r.Level),
		recordExperience: strconv.Itoa(r.Experience),
		recordScore:      strconv.Itoa(r.Score),
		recordCoins:      strconv.Itoa(r.Coins),
		recordHealth:     strconv.Itoa(r.Health),
		recordMaxHealth:  strconv.Itoa(r.MaxHealth),
		recordSkills:     strings.Join(r.Skills, ","),
		recordEquipment:  strings.Join(r.Equipment, ","),
	}
	for kind, v := range r.Stats {
		out[recordStatPrefix+string(kind)] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}

// ParseRecords rebuilds a record from Records output. Unknown keys are
// ignored; malformed numbers are errors.
func ParseRecords(m map[string]string) (PlayerRecord, error) {
	rec := PlayerRecord{Stats: map[component.StatKind]float64{}}
	ints := []struct {
		key string
		dst *int
	}{
		{recordLevel, &rec.Level},
		{recordExperience, &rec.Experience},
		{recordScore, &rec.Score},
		{recordCoins, &rec.Coins},
		{recordHealth, &rec.Health},
		{recordMaxHealth, &rec.MaxHealth},
	}
	for _, f := range ints {
		raw, ok := m[f.key]
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return PlayerRecord{}, fmt.Errorf("persistence: %s: %w", f.key, err)
		}
		*f.dst = v
	}

	rec.Skills = splitList(m[recordSkills])
	rec.Equipment = splitList(m[recordEquipment])

	keys := make([]string, 0, len(m))
	for k := range m {
		if strings.HasPrefix(k, recordStatPrefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := strconv.ParseFloat(m[k], 64)
		if err != nil {
			return PlayerRecord{}, fmt.Errorf("persistence: %s: %w", k, err)
		}
		rec.Stats[component.StatKind(strings.TrimPrefix(k, recordStatPrefix))] = v
	}
	return rec, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
