package ecs

// System updates a world once per variable-rate tick.
type System interface {
	Update(w *World)
}

// FixedSystem updates a world once per fixed-rate physics tick.
type FixedSystem interface {
	FixedUpdate(w *World)
}

// Scheduler runs systems in registration order.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}

// FixedScheduler runs fixed-rate systems in registration order.
type FixedScheduler struct {
	systems []FixedSystem
}

func NewFixedScheduler(systems ...FixedSystem) *FixedScheduler {
	s := &FixedScheduler{}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

func (s *FixedScheduler) Add(system FixedSystem) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *FixedScheduler) FixedUpdate(w *World) {
	for _, system := range s.systems {
		system.FixedUpdate(w)
	}
}
