package component

// Target is a weak reference to the actor being pursued. It never keeps the
// target alive; readers must check liveness.
type Target struct {
	Entity uint64
}

var TargetComponent = NewComponent[Target]()
