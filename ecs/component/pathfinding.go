package component

// PathNode represents a world-space point along a path.
type PathNode struct {
	X float64
	Y float64
}

// Pathfinding stores the waypoints delivered by the path finder and the
// repath cadence. Generation rejects results for superseded requests.
type Pathfinding struct {
	Waypoints      []PathNode
	Index          int
	RepathInterval float64
	RepathTimer    float64
	Pending        bool
	Generation     int
}

// Next returns the current waypoint, if any remain.
func (p *Pathfinding) Next() (PathNode, bool) {
	if p == nil || p.Index >= len(p.Waypoints) {
		return PathNode{}, false
	}
	return p.Waypoints[p.Index], true
}

// Exhausted reports whether every waypoint has been consumed.
func (p *Pathfinding) Exhausted() bool {
	return p == nil || p.Index >= len(p.Waypoints)
}

var PathfindingComponent = NewComponent[Pathfinding]()
