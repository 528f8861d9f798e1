package component

// Cooldown is a simple seconds-based cooldown marker. The cooldown system
// counts it down and removes it at zero; a creature's attack waits for it.
type Cooldown struct {
	Remaining float64
}

var CooldownComponent = NewComponent[Cooldown]()
