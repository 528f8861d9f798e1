package prefabs

import (
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	spec, err := ParseSpec[T](data)
	if err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

// ParseSpec decodes raw YAML into T.
func ParseSpec[T any](data []byte) (T, error) {
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

// RangeSpec is an inclusive [min, max] interval in seconds.
type RangeSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Roll draws uniformly from the interval.
func (r RangeSpec) Roll(rng *rand.Rand) float64 {
	if r.Max <= r.Min || rng == nil {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type RectSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type StatSpec struct {
	Base    float64 `yaml:"base"`
	Equip   float64 `yaml:"equip"`
	Upgrade float64 `yaml:"upgrade"`
}

type StatsSpec struct {
	AttackPower StatSpec `yaml:"attack_power"`
	Defense     StatSpec `yaml:"defense"`
	CritRate    StatSpec `yaml:"crit_rate"`
	MoveSpeed   StatSpec `yaml:"move_speed"`
	MaxHealth   StatSpec `yaml:"max_health"`
}

type PayloadSpec struct {
	Name               string  `yaml:"name"`
	PoisonPerTick      int     `yaml:"poison_per_tick"`
	PoisonDuration     float64 `yaml:"poison_duration"`
	PoisonInterval     float64 `yaml:"poison_interval"`
	SlowMultiplier     float64 `yaml:"slow_multiplier"`
	SlowDuration       float64 `yaml:"slow_duration"`
	ProjectileSpeed    float64 `yaml:"projectile_speed"`
	ProjectileRadius   float64 `yaml:"projectile_radius"`
	ProjectileLifetime float64 `yaml:"projectile_lifetime"`
}

type AttackSpec struct {
	Kind             string        `yaml:"kind"`
	Range            float64       `yaml:"range"`
	BaseDamage       int           `yaml:"base_damage"`
	AdditionalDamage int           `yaml:"additional_damage"`
	DamageMultiplier float64       `yaml:"damage_multiplier"`
	Point            *PointSpec    `yaml:"point"`
	ImpactFraction   float64       `yaml:"impact_fraction"`
	Duration         float64       `yaml:"duration"`
	Cooldown         float64       `yaml:"cooldown"`
	CritMultiplier   float64       `yaml:"crit_multiplier"`
	Payload          PayloadSpec   `yaml:"payload"`
	Payloads         []PayloadSpec `yaml:"payloads"`
}

type BodySpec struct {
	Radius   float64 `yaml:"radius"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
	Drag     float64 `yaml:"drag"`
}

type IFrameSpec struct {
	Duration    float64 `yaml:"duration"`
	FlashCycles int     `yaml:"flash_cycles"`
}

type KnockbackSpec struct {
	Distance float64 `yaml:"distance"`
	Duration float64 `yaml:"duration"`
}

type SpeciesSpec struct {
	Name               string             `yaml:"name"`
	Variant            string             `yaml:"variant"`
	Health             int                `yaml:"health"`
	MoveSpeed          float64            `yaml:"move_speed"`
	Defense            float64            `yaml:"defense"`
	DetectionRange     float64            `yaml:"detection_range"`
	AttackRange        float64            `yaml:"attack_range"`
	IdleDwell          RangeSpec          `yaml:"idle_dwell"`
	WanderChance       *float64           `yaml:"wander_chance"`
	WanderDuration     RangeSpec          `yaml:"wander_duration"`
	HurtDuration       float64            `yaml:"hurt_duration"`
	DeathDuration      float64            `yaml:"death_duration"`
	ReviveDuration     float64            `yaml:"revive_duration"`
	Revivable          bool               `yaml:"revivable"`
	IFrames            IFrameSpec         `yaml:"iframes"`
	Knockback          KnockbackSpec      `yaml:"knockback"`
	ExplosionRadius    float64            `yaml:"explosion_radius"`
	Pathfinding        bool               `yaml:"pathfinding"`
	SkillScript        string             `yaml:"skill_script"`
	Score              int                `yaml:"score"`
	Experience         int                `yaml:"experience"`
	Animations         map[string]string  `yaml:"animations"`
	AnimationDurations map[string]float64 `yaml:"animation_durations"`
	Attack             AttackSpec         `yaml:"attack"`
	Body               BodySpec           `yaml:"body"`
}

type SpeciesFile struct {
	Species []SpeciesSpec `yaml:"species"`
}

// SpeciesRegistry indexes species specs by name.
type SpeciesRegistry struct {
	source string
	byName map[string]*SpeciesSpec
	order  []string
}

// LoadSpeciesRegistry loads every species listed in filename.
func LoadSpeciesRegistry(filename string) (*SpeciesRegistry, error) {
	file, err := LoadSpec[SpeciesFile](filename)
	if err != nil {
		return nil, err
	}
	reg, err := NewSpeciesRegistry(file.Species)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	reg.source = filename
	return reg, nil
}

func NewSpeciesRegistry(specs []SpeciesSpec) (*SpeciesRegistry, error) {
	reg := &SpeciesRegistry{byName: make(map[string]*SpeciesSpec, len(specs))}
	for i := range specs {
		s := specs[i]
		if s.Name == "" {
			return nil, fmt.Errorf("species %d: missing name", i)
		}
		if _, dup := reg.byName[s.Name]; dup {
			return nil, fmt.Errorf("species %q: duplicate name", s.Name)
		}
		reg.byName[s.Name] = &s
		reg.order = append(reg.order, s.Name)
	}
	return reg, nil
}

// Reload re-reads the registry from the file it was loaded from.
func (r *SpeciesRegistry) Reload() error {
	if r == nil || r.source == "" {
		return fmt.Errorf("prefabs: species registry has no source")
	}
	fresh, err := LoadSpeciesRegistry(r.source)
	if err != nil {
		return err
	}
	r.byName = fresh.byName
	r.order = fresh.order
	return nil
}

// Source returns the prefab file backing the registry.
func (r *SpeciesRegistry) Source() string {
	if r == nil {
		return ""
	}
	return r.source
}

func (r *SpeciesRegistry) Lookup(name string) (*SpeciesSpec, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.byName[name]
	return s, ok
}

func (r *SpeciesRegistry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

type ShieldSpec struct {
	Charges        int     `yaml:"charges"`
	MaxCharges     int     `yaml:"max_charges"`
	ClearRadius    float64 `yaml:"clear_radius"`
	KillsPerCharge int     `yaml:"kills_per_charge"`
}

type ProgressionSpec struct {
	Level          int     `yaml:"level"`
	ExpPerLevel    int     `yaml:"exp_per_level"`
	DamagePerLevel int     `yaml:"damage_per_level"`
	HealthPerLevel float64 `yaml:"health_per_level"`
}

type PlayerSpec struct {
	Name               string             `yaml:"name"`
	Stats              StatsSpec          `yaml:"stats"`
	Attack             AttackSpec         `yaml:"attack"`
	Shield             ShieldSpec         `yaml:"shield"`
	IFrames            IFrameSpec         `yaml:"iframes"`
	Body               BodySpec           `yaml:"body"`
	Progression        ProgressionSpec    `yaml:"progression"`
	AnimationDurations map[string]float64 `yaml:"animation_durations"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type SpawnGroupSpec struct {
	Species  string  `yaml:"species"`
	Count    int     `yaml:"count"`
	Interval float64 `yaml:"interval"`
}

type WaveSpec struct {
	Name   string           `yaml:"name"`
	Delay  float64          `yaml:"delay"`
	Groups []SpawnGroupSpec `yaml:"groups"`
}

type EncounterSpec struct {
	SpawnPoints []PointSpec `yaml:"spawn_points"`
	Waves       []WaveSpec  `yaml:"waves"`
}

func LoadEncounterSpec(filename string) (*EncounterSpec, error) {
	spec, err := LoadSpec[EncounterSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type ArenaSpec struct {
	Name        string     `yaml:"name"`
	Width       float64    `yaml:"width"`
	Height      float64    `yaml:"height"`
	GridSize    float64    `yaml:"grid_size"`
	PlayerStart PointSpec  `yaml:"player_start"`
	Obstacles   []RectSpec `yaml:"obstacles"`
	Species     string     `yaml:"species"`
	Encounter   string     `yaml:"encounter"`
}

func LoadArenaSpec(filename string) (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
