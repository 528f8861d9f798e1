package component

// Variant is the closed set of state machine flavours a species can use.
type Variant string

const (
	VariantStandard  Variant = "standard"
	VariantDetonate  Variant = "detonate"
	VariantDualSkill Variant = "dual_skill"
)

// Species parameterizes the shared creature state machine.
type Species struct {
	Name    string
	Variant Variant

	DetectionRange float64
	AttackRange    float64

	IdleDwellMin float64
	IdleDwellMax float64
	WanderChance float64
	WanderMin    float64
	WanderMax    float64

	HurtDuration   float64
	DeathDuration  float64
	ReviveDuration float64
	AttackCooldown float64

	Revivable bool

	ExplosionRadius float64
	UsePathfinding  bool
	SkillScript     string

	Score      int
	Experience int

	Animations map[StateID]string
}

// Animation returns the clip name for a state, defaulting to the state id.
func (s *Species) Animation(state StateID) string {
	if s != nil && s.Animations != nil {
		if name, ok := s.Animations[state]; ok && name != "" {
			return name
		}
	}
	return string(state)
}

var SpeciesComponent = NewComponent[Species]()
