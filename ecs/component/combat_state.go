package component

// StateID identifies a combat behavior state.
type StateID string

const (
	StateIdle   StateID = "idle"
	StateWander StateID = "wander"
	StateChase  StateID = "chase"
	StateAttack StateID = "attack"
	StateHurt   StateID = "hurt"
	StateDead   StateID = "dead"
	StateRevive StateID = "revive"
)

// Priority orders competing transition requests made within one tick.
func (s StateID) Priority() int {
	switch s {
	case StateDead:
		return 4
	case StateRevive:
		return 3
	case StateHurt:
		return 2
	case "":
		return 0
	}
	return 1
}

// CombatState is the per-creature state machine instance. Every field below
// Current belongs to the current state and is reset on transition.
type CombatState struct {
	Current StateID

	// Pending is committed by the AI system; it never takes effect in the
	// middle of an evaluation. Latched is the request carried into the
	// current tick, committed before the creature is evaluated.
	Pending      StateID
	PendingForce bool
	Latched      StateID
	LatchedForce bool

	Elapsed  float64
	Duration float64
	DirX     float64
	DirY     float64
	Impacted bool
	Recovery bool
	Skill    int
}

// Request asks for a transition. Higher priority requests win; equal
// priority requests overwrite.
func (s *CombatState) Request(next StateID) {
	if s == nil || next == "" {
		return
	}
	if next.Priority() < s.Pending.Priority() {
		return
	}
	s.Pending = next
	s.PendingForce = false
}

// Force requests a transition that re-enters the target even if it is
// already current (a second hit restarts Hurt).
func (s *CombatState) Force(next StateID) {
	if s == nil || next == "" || next.Priority() < s.Pending.Priority() {
		return
	}
	s.Pending = next
	s.PendingForce = true
}

// Latch sets the pending request aside at the start of a tick so requests
// raised later in the same tick stay pending until the end of the AI pass.
func (s *CombatState) Latch() {
	if s == nil || s.Pending == "" {
		return
	}
	if s.Pending.Priority() >= s.Latched.Priority() {
		s.Latched, s.LatchedForce = s.Pending, s.PendingForce
	}
	s.Pending, s.PendingForce = "", false
}

// Reset clears the per-state scratch fields.
func (s *CombatState) Reset(next StateID) {
	*s = CombatState{Current: next}
}

var CombatStateComponent = NewComponent[CombatState]()
