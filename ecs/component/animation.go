package component

// Animation is the playback bookkeeping the combat core needs from a clip
// player: which clip is current and how far into it we are. Durations are
// authored per clip in seconds; a clip without a duration completes at once.
type Animation struct {
	Current   string
	Elapsed   float64
	Durations map[string]float64
	Loop      map[string]bool
}

// Progress returns the normalized playback position of the current clip.
func (a *Animation) Progress() float64 {
	if a == nil || a.Current == "" {
		return 0
	}
	d := a.Durations[a.Current]
	if d <= 0 {
		return 1
	}
	p := a.Elapsed / d
	if a.Loop[a.Current] {
		return p - float64(int(p))
	}
	return p
}

var AnimationComponent = NewComponent[Animation]()
