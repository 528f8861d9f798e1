package component

import "math"

// Stat is a derived numeric value. Each contribution is set independently
// and EffectiveValue always recomputes the sum.
type Stat struct {
	Base    float64 `yaml:"base"`
	Equip   float64 `yaml:"equip"`
	Upgrade float64 `yaml:"upgrade"`
}

func NewStat(base float64) Stat {
	return Stat{Base: base}
}

// EffectiveValue returns base + equipment bonus + upgrade bonus.
func (s Stat) EffectiveValue() float64 {
	return s.Base + s.Equip + s.Upgrade
}

func (s *Stat) SetBase(v float64)    { s.Base = v }
func (s *Stat) SetEquip(v float64)   { s.Equip = v }
func (s *Stat) SetUpgrade(v float64) { s.Upgrade = v }

// StatKind names one of the stats carried by Stats.
type StatKind string

const (
	StatAttackPower StatKind = "attack_power"
	StatDefense     StatKind = "defense"
	StatCritRate    StatKind = "crit_rate"
	StatMoveSpeed   StatKind = "move_speed"
	StatMaxHealth   StatKind = "max_health"
)

// StatKinds lists every stat in a stable order.
var StatKinds = []StatKind{StatAttackPower, StatDefense, StatCritRate, StatMoveSpeed, StatMaxHealth}

// Stats is the single source of truth for derived combat numbers.
type Stats struct {
	AttackPower Stat
	Defense     Stat
	CritRate    Stat
	MoveSpeed   Stat
	MaxHealth   Stat
}

// Stat returns a pointer to the named stat, or nil for an unknown kind.
func (s *Stats) Stat(kind StatKind) *Stat {
	if s == nil {
		return nil
	}
	switch kind {
	case StatAttackPower:
		return &s.AttackPower
	case StatDefense:
		return &s.Defense
	case StatCritRate:
		return &s.CritRate
	case StatMoveSpeed:
		return &s.MoveSpeed
	case StatMaxHealth:
		return &s.MaxHealth
	}
	return nil
}

// CritChance is the effective crit rate clamped to [0,1].
func (s *Stats) CritChance() float64 {
	if s == nil {
		return 0
	}
	return math.Max(0, math.Min(1, s.CritRate.EffectiveValue()))
}

// MaxHealthValue rounds the effective max health to a whole number of hit points.
func (s *Stats) MaxHealthValue() int {
	if s == nil {
		return 0
	}
	return int(math.Round(s.MaxHealth.EffectiveValue()))
}

var StatsComponent = NewComponent[Stats]()
