package component

// PlayerControl is the per-frame command the host writes for the player.
type PlayerControl struct {
	MoveX  float64
	MoveY  float64
	Attack bool
	AimX   float64
	AimY   float64
}

var PlayerControlComponent = NewComponent[PlayerControl]()

// Progression is the player's persistent advancement.
type Progression struct {
	Level      int
	Experience int
	Score      int
	Coins      int
	Skills     []string
	Equipment  []string

	ExpPerLevel    int
	DamagePerLevel int
	HealthPerLevel float64
}

// NextLevelAt is the experience needed to leave the current level.
func (p *Progression) NextLevelAt() int {
	if p == nil || p.ExpPerLevel <= 0 {
		return 0
	}
	lvl := p.Level
	if lvl < 1 {
		lvl = 1
	}
	return lvl * p.ExpPerLevel
}

var ProgressionComponent = NewComponent[Progression]()

// AttackClock times the player's swing, which has no state machine of its own.
type AttackClock struct {
	Elapsed float64
}

var AttackClockComponent = NewComponent[AttackClock]()
