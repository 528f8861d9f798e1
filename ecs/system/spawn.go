package system

import (
	"errors"
	"fmt"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/entity"
	"github.com/milk9111/skirmish/prefabs"
)

var (
	ErrNoSpawnPoints  = errors.New("spawn: no spawn points configured")
	ErrNoWaves        = errors.New("spawn: no waves configured")
	ErrUnknownSpecies = errors.New("spawn: unknown species")
)

// SpawnDirector emits the creatures of an encounter wave by wave. A wave's
// groups spawn one after another at their own interval; the next wave waits
// until every creature of the current one is gone and then its delay.
type SpawnDirector struct {
	ctx     *Context
	species *prefabs.SpeciesRegistry
	points  []prefabs.PointSpec
	waves   []prefabs.WaveSpec

	started  bool
	halted   bool
	complete bool

	wave       int
	group      int
	inGroup    int
	delay      float64
	timer      float64
	spawning   bool
	nextPoint  int
	spawnCount int

	// events raised outside Update wait here for the world
	pending []ecs.Event
}

func NewSpawnDirector(ctx *Context, species *prefabs.SpeciesRegistry, encounter *prefabs.EncounterSpec) *SpawnDirector {
	d := &SpawnDirector{ctx: ctx, species: species}
	if encounter != nil {
		d.points = encounter.SpawnPoints
		d.waves = encounter.Waves
	}
	return d
}

// StartSpawning validates the encounter and begins the first wave. A bad
// configuration halts only the director; the caller may keep simulating.
func (d *SpawnDirector) StartSpawning() error {
	if d == nil {
		return ErrNoWaves
	}
	if len(d.points) == 0 {
		d.halted = true
		d.ctx.logf("spawn: encounter halted: %v", ErrNoSpawnPoints)
		return ErrNoSpawnPoints
	}
	if len(d.waves) == 0 {
		d.halted = true
		d.ctx.logf("spawn: encounter halted: %v", ErrNoWaves)
		return ErrNoWaves
	}
	for _, wave := range d.waves {
		for _, g := range wave.Groups {
			if _, ok := d.species.Lookup(g.Species); !ok {
				d.halted = true
				err := fmt.Errorf("%w: %q in wave %q", ErrUnknownSpecies, g.Species, wave.Name)
				d.ctx.logf("spawn: encounter halted: %v", err)
				return err
			}
		}
	}

	d.started = true
	d.beginWave(0)
	return nil
}

func (d *SpawnDirector) beginWave(idx int) {
	d.wave = idx
	d.group = 0
	d.inGroup = 0
	d.timer = 0
	d.delay = d.waves[idx].Delay
	d.spawning = true
	d.pending = append(d.pending[:0], ecs.Event{Type: EventWaveStarted, Data: WaveEvent{Wave: idx, Name: d.waves[idx].Name}})
}

// HasMoreWaves reports whether any creature of the encounter is still to be
// spawned.
func (d *SpawnDirector) HasMoreWaves() bool {
	if d == nil || d.halted || d.complete {
		return false
	}
	if !d.started {
		return len(d.waves) > 0
	}
	return d.spawning || d.wave < len(d.waves)-1
}

// EncounterComplete reports whether every wave has spawned and been cleared.
func (d *SpawnDirector) EncounterComplete() bool {
	return d != nil && d.complete
}

// Halted reports whether the director stopped on a configuration error.
func (d *SpawnDirector) Halted() bool {
	return d != nil && d.halted
}

// Wave returns the index of the current wave.
func (d *SpawnDirector) Wave() int {
	if d == nil {
		return 0
	}
	return d.wave
}

// Spawned returns how many creatures the director has created.
func (d *SpawnDirector) Spawned() int {
	if d == nil {
		return 0
	}
	return d.spawnCount
}

func (d *SpawnDirector) Update(w *ecs.World) {
	if d == nil || w == nil || !d.started || d.halted || d.complete {
		return
	}
	for _, evt := range d.pending {
		w.Events().Push(evt)
	}
	d.pending = d.pending[:0]

	dt := d.ctx.DT
	if d.spawning {
		d.spawnStep(w, dt)
		return
	}

	if aliveInWave(w, d.wave) > 0 {
		return
	}
	d.ctx.emit(w, EventWaveCleared, WaveEvent{Wave: d.wave, Name: d.waves[d.wave].Name})
	if d.wave+1 < len(d.waves) {
		d.beginWave(d.wave + 1)
		return
	}
	d.complete = true
	d.ctx.logf("spawn: encounter complete after %d waves", len(d.waves))
	d.ctx.emit(w, EventEncounterComplete, WaveEvent{Wave: d.wave, Name: d.waves[d.wave].Name})
}

func (d *SpawnDirector) spawnStep(w *ecs.World, dt float64) {
	if d.delay > 0 {
		d.delay -= dt
		if d.delay > 0 {
			return
		}
		dt = -d.delay
		d.delay = 0
	}

	groups := d.waves[d.wave].Groups
	d.timer -= dt
	for d.group < len(groups) {
		g := groups[d.group]
		if d.inGroup >= g.Count {
			d.group++
			d.inGroup = 0
			d.timer = 0
			continue
		}
		if d.timer > 0 {
			return
		}
		d.spawn(w, g)
		d.inGroup++
		d.timer += g.Interval
	}
	d.spawning = false
}

func (d *SpawnDirector) spawn(w *ecs.World, g prefabs.SpawnGroupSpec) {
	spec, ok := d.species.Lookup(g.Species)
	if !ok {
		d.ctx.logf("spawn: %v: %q", ErrUnknownSpecies, g.Species)
		return
	}
	p := d.points[d.nextPoint%len(d.points)]
	d.nextPoint++

	e, err := entity.NewCreature(w, spec, p.X, p.Y)
	if err != nil {
		d.ctx.logf("spawn: %v", err)
		return
	}
	_ = ecs.Add(w, e, component.SpawnedComponent.Kind(), &component.Spawned{Wave: d.wave, Group: d.group})
	d.spawnCount++
	d.ctx.emit(w, EventSpawned, SpawnEvent{Entity: e, Species: spec.Name, Wave: d.wave})
}

func aliveInWave(w *ecs.World, wave int) int {
	n := 0
	ecs.ForEach(w, component.SpawnedComponent.Kind(), func(_ ecs.Entity, s *component.Spawned) {
		if s.Wave == wave {
			n++
		}
	})
	return n
}
