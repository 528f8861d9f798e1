package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Friction is a constant opposing force magnitude; Drag scales with speed.
type PhysicsBody struct {
	Body     *cp.Body
	Shape    *cp.Shape
	Radius   float64
	Mass     float64
	Friction float64
	Drag     float64
	Static   bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// MoveIntent is the velocity the behavior layer wants this physics step.
type MoveIntent struct {
	X float64
	Y float64
}

var MoveIntentComponent = NewComponent[MoveIntent]()
