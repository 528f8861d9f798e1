package component

// Spawned marks creatures created by the spawn director.
type Spawned struct {
	Wave  int
	Group int
}

var SpawnedComponent = NewComponent[Spawned]()
