package component

import "math"

const (
	DefaultPoisonInterval = 1.0

	// timerEpsilon absorbs float drift from summing fixed frame deltas.
	timerEpsilon = 1e-9
)

// PoisonEffect deals PerTick damage every Interval seconds until Remaining
// runs out.
type PoisonEffect struct {
	PerTick   int
	Remaining float64
	Interval  float64
	TickTimer float64
	Source    uint64
}

func (p PoisonEffect) Active() bool {
	return p.PerTick > 0 && p.Remaining > timerEpsilon
}

// SlowEffect scales movement speed while Remaining is positive.
type SlowEffect struct {
	Multiplier float64
	Remaining  float64
}

func (s SlowEffect) Active() bool {
	return s.Remaining > timerEpsilon
}

// PoisonTicks reports the poison damage that came due during one Advance.
type PoisonTicks struct {
	Count   int
	PerTick int
	Source  uint64
}

// StatusEffects holds the timed effects of one actor. Poison and slow are
// single-instance: applying either again replaces the running one.
type StatusEffects struct {
	Invincible          bool
	InvincibleRemaining float64
	FlashCycles         int
	Poison              PoisonEffect
	Slow                SlowEffect
}

// ApplyInvincibility makes the actor immune for duration seconds. A second
// call refreshes the window instead of extending it.
func (s *StatusEffects) ApplyInvincibility(duration float64, flashCycles int) {
	if s == nil || duration <= 0 {
		return
	}
	s.Invincible = true
	s.InvincibleRemaining = duration
	s.FlashCycles = flashCycles
}

// ApplyPoison starts or overwrites the poison effect.
func (s *StatusEffects) ApplyPoison(perTick int, duration, interval float64, source uint64) {
	if s == nil || perTick <= 0 || duration <= 0 {
		return
	}
	if interval <= 0 {
		interval = DefaultPoisonInterval
	}
	s.Poison = PoisonEffect{
		PerTick:   perTick,
		Remaining: duration,
		Interval:  interval,
		TickTimer: interval,
		Source:    source,
	}
}

// ApplySlow cancels any running slow and starts a fresh one.
func (s *StatusEffects) ApplySlow(multiplier, duration float64) {
	if s == nil || duration <= 0 {
		return
	}
	s.Slow = SlowEffect{Multiplier: math.Max(0, multiplier), Remaining: duration}
}

func (s *StatusEffects) IsInvincible() bool {
	return s != nil && s.Invincible
}

// SpeedMultiplier returns the active slow multiplier, or 1.
func (s *StatusEffects) SpeedMultiplier() float64 {
	if s == nil || !s.Slow.Active() {
		return 1
	}
	return s.Slow.Multiplier
}

// Advance counts every timer down by dt and returns the poison ticks that
// fell inside the step.
func (s *StatusEffects) Advance(dt float64) PoisonTicks {
	if s == nil || dt <= 0 {
		return PoisonTicks{}
	}

	if s.Invincible {
		s.InvincibleRemaining -= dt
		if s.InvincibleRemaining <= timerEpsilon {
			s.Invincible = false
			s.InvincibleRemaining = 0
			s.FlashCycles = 0
		}
	}

	if s.Slow.Remaining > 0 {
		s.Slow.Remaining -= dt
		if !s.Slow.Active() {
			s.Slow = SlowEffect{}
		}
	}

	return s.advancePoison(dt)
}

func (s *StatusEffects) advancePoison(dt float64) PoisonTicks {
	p := &s.Poison
	if !p.Active() {
		s.Poison = PoisonEffect{}
		return PoisonTicks{}
	}
	if p.Interval <= 0 {
		p.Interval = DefaultPoisonInterval
	}

	out := PoisonTicks{PerTick: p.PerTick, Source: p.Source}
	// only the part of the step that overlaps the effect can tick
	span := math.Min(dt, p.Remaining)
	p.TickTimer -= span
	for p.TickTimer <= timerEpsilon {
		out.Count++
		p.TickTimer += p.Interval
	}
	p.Remaining -= dt
	if !p.Active() {
		s.Poison = PoisonEffect{}
	}
	return out
}

// Clear cancels every outstanding effect.
func (s *StatusEffects) Clear() {
	if s == nil {
		return
	}
	*s = StatusEffects{}
}

var StatusEffectsComponent = NewComponent[StatusEffects]()
