package system

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/entity"
	"github.com/milk9111/skirmish/prefabs"
)

const (
	defaultSpeciesFile   = "species.yaml"
	defaultEncounterFile = "encounter.yaml"
)

// Session is a simulation built from an arena prefab with its player spawned
// and the encounter started.
type Session struct {
	Sim     *Simulation
	Arena   *prefabs.ArenaSpec
	Species *prefabs.SpeciesRegistry
	Player  ecs.Entity
}

// LoadSession reads the arena and every prefab it names. opts supplies the
// seed, logger and optional overrides; its Arena, Species and Encounter are
// replaced by what the arena references. An encounter that fails to start is
// logged and leaves the session running without spawns.
func LoadSession(arenaFile string, opts Options) (*Session, error) {
	arena, err := prefabs.LoadArenaSpec(arenaFile)
	if err != nil {
		return nil, err
	}

	speciesFile := arena.Species
	if speciesFile == "" {
		speciesFile = defaultSpeciesFile
	}
	species, err := prefabs.LoadSpeciesRegistry(speciesFile)
	if err != nil {
		return nil, err
	}

	encounterFile := arena.Encounter
	if encounterFile == "" {
		encounterFile = defaultEncounterFile
	}
	encounter, err := prefabs.LoadEncounterSpec(encounterFile)
	if err != nil {
		return nil, err
	}

	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, err
	}

	opts.Arena = arena
	opts.Species = species
	opts.Encounter = encounter
	sim := NewSimulation(opts)

	player, err := entity.NewPlayer(sim.World, playerSpec, arena.PlayerStart.X, arena.PlayerStart.Y)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	if err := sim.Director.StartSpawning(); err != nil {
		sim.Ctx.logf("session: %s: %v", arenaFile, err)
	}

	return &Session{Sim: sim, Arena: arena, Species: species, Player: player}, nil
}

// Reload applies edited prefab and script names reported by a watcher.
// Species edits swap the registry contents in place so the director's next
// spawn uses them; script edits drop the cached compilation.
func (s *Session) Reload(names []string) {
	if s == nil {
		return
	}
	for _, name := range names {
		switch {
		case name == filepath.Base(s.Species.Source()):
			if err := s.Species.Reload(); err != nil {
				s.Sim.Ctx.logf("session: reload %s: %v", name, err)
				continue
			}
			s.Sim.Ctx.logf("session: reloaded %s (%d species)", name, len(s.Species.Names()))
		case strings.EqualFold(filepath.Ext(name), ".tengo"):
			if sel, ok := s.Sim.Ctx.Skills.(*ScriptSkillSelector); ok {
				sel.Invalidate(name)
				s.Sim.Ctx.logf("session: reloaded script %s", name)
			}
		}
	}
}

// PlayerAlive reports whether the session's player is still standing.
func (s *Session) PlayerAlive() bool {
	if s == nil {
		return false
	}
	h, ok := ecs.Get(s.Sim.World, s.Player, component.HealthComponent.Kind())
	return ok && !h.Dead
}
