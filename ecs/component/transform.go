package component

// Transform is the actor's position and facing (radians, 0 = +X).
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
