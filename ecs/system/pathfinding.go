package system

import (
	"container/heap"
	"math"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/prefabs"
)

const defaultPathGridSize = 32.0

// GridPathfinder answers path requests with A* over a uniform grid of the
// arena. Requests are queued and solved when the system next runs, so a
// caller always receives its path on a later tick.
type GridPathfinder struct {
	gridSize float64
	gridW    int
	gridH    int
	blocked  []bool

	queue []pathRequest
}

type pathRequest struct {
	sx, sy float64
	gx, gy float64
	done   func([]component.PathNode)
}

// NewGridPathfinder builds the blocked grid for an arena of the given size.
func NewGridPathfinder(width, height, gridSize float64, obstacles []prefabs.RectSpec) *GridPathfinder {
	if gridSize <= 0 {
		gridSize = defaultPathGridSize
	}
	gridW := int(math.Ceil(width / gridSize))
	gridH := int(math.Ceil(height / gridSize))
	if gridW < 1 {
		gridW = 1
	}
	if gridH < 1 {
		gridH = 1
	}
	g := &GridPathfinder{gridSize: gridSize, gridW: gridW, gridH: gridH}
	g.blocked = buildBlockedGrid(obstacles, gridW, gridH, gridSize)
	return g
}

func (g *GridPathfinder) RequestPath(startX, startY, goalX, goalY float64, done func([]component.PathNode)) {
	if g == nil || done == nil {
		return
	}
	g.queue = append(g.queue, pathRequest{sx: startX, sy: startY, gx: goalX, gy: goalY, done: done})
}

// Pending reports how many requests await the next update.
func (g *GridPathfinder) Pending() int {
	if g == nil {
		return 0
	}
	return len(g.queue)
}

// Update solves every request queued before this call.
func (g *GridPathfinder) Update(w *ecs.World) {
	if g == nil || len(g.queue) == 0 {
		return
	}
	queue := g.queue
	g.queue = nil
	for _, req := range queue {
		req.done(g.FindPath(req.sx, req.sy, req.gx, req.gy))
	}
}

// FindPath returns the waypoints from start to goal, excluding the start cell
// and ending exactly on the goal. It returns nil when no route exists.
func (g *GridPathfinder) FindPath(startX, startY, goalX, goalY float64) []component.PathNode {
	start := gridCoord(startX, startY, g.gridSize, g.gridW, g.gridH)
	goal := gridCoord(goalX, goalY, g.gridSize, g.gridW, g.gridH)

	path := astarPath(start, goal, g.blocked, g.gridW, g.gridH)
	if len(path) == 0 {
		return nil
	}
	nodes := gridPathToWorld(path[1:], g.gridSize)
	if len(nodes) == 0 {
		return []component.PathNode{{X: goalX, Y: goalY}}
	}
	nodes[len(nodes)-1] = component.PathNode{X: goalX, Y: goalY}
	return nodes
}

// Blocked reports whether the cell containing (x, y) is an obstacle.
func (g *GridPathfinder) Blocked(x, y float64) bool {
	p := gridCoord(x, y, g.gridSize, g.gridW, g.gridH)
	return g.blocked[p.y*g.gridW+p.x]
}

type gridPos struct {
	x int
	y int
}

func gridCoord(x, y, gridSize float64, gridW, gridH int) gridPos {
	gx := int(math.Floor(x / gridSize))
	gy := int(math.Floor(y / gridSize))
	if gx < 0 {
		gx = 0
	}
	if gy < 0 {
		gy = 0
	}
	if gx >= gridW {
		gx = gridW - 1
	}
	if gy >= gridH {
		gy = gridH - 1
	}
	return gridPos{x: gx, y: gy}
}

func gridPathToWorld(path []gridPos, gridSize float64) []component.PathNode {
	if len(path) == 0 {
		return nil
	}
	out := make([]component.PathNode, 0, len(path))
	half := gridSize * 0.5
	for _, p := range path {
		out = append(out, component.PathNode{
			X: float64(p.x)*gridSize + half,
			Y: float64(p.y)*gridSize + half,
		})
	}
	return out
}

func buildBlockedGrid(obstacles []prefabs.RectSpec, gridW, gridH int, gridSize float64) []bool {
	blocked := make([]bool, gridW*gridH)
	for _, r := range obstacles {
		if r.Width <= 0 || r.Height <= 0 {
			continue
		}
		startX := int(math.Floor(r.X / gridSize))
		startY := int(math.Floor(r.Y / gridSize))
		endX := int(math.Floor((r.X + r.Width - 0.001) / gridSize))
		endY := int(math.Floor((r.Y + r.Height - 0.001) / gridSize))

		if startX < 0 {
			startX = 0
		}
		if startY < 0 {
			startY = 0
		}
		if endX >= gridW {
			endX = gridW - 1
		}
		if endY >= gridH {
			endY = gridH - 1
		}

		for y := startY; y <= endY; y++ {
			for x := startX; x <= endX; x++ {
				blocked[y*gridW+x] = true
			}
		}
	}
	return blocked
}

func astarPath(start, goal gridPos, blocked []bool, gridW, gridH int) []gridPos {
	if blocked[start.y*gridW+start.x] || blocked[goal.y*gridW+goal.x] {
		return nil
	}

	open := &openSet{}
	heap.Init(open)

	cameFrom := make([]int, gridW*gridH)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, gridW*gridH)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	startIdx := start.y*gridW + start.x
	goalIdx := goal.y*gridW + goal.x
	gScore[startIdx] = 0
	heap.Push(open, &openItem{pos: start, f: heuristic(start, goal), g: 0})

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		cur := current.pos
		curIdx := cur.y*gridW + cur.x
		if current.g > gScore[curIdx] {
			continue
		}

		if curIdx == goalIdx {
			return reconstructPath(cameFrom, gridW, startIdx, goalIdx)
		}

		for _, n := range neighbors(cur, gridW, gridH) {
			idx := n.y*gridW + n.x
			if blocked[idx] {
				continue
			}
			tentativeG := gScore[curIdx] + 1
			if tentativeG < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentativeG
				heap.Push(open, &openItem{pos: n, f: tentativeG + heuristic(n, goal), g: tentativeG})
			}
		}
	}

	return nil
}

func reconstructPath(cameFrom []int, gridW int, startIdx, goalIdx int) []gridPos {
	if startIdx == goalIdx {
		return []gridPos{{x: startIdx % gridW, y: startIdx / gridW}}
	}
	if cameFrom[goalIdx] == -1 {
		return nil
	}

	path := make([]gridPos, 0, 32)
	for cur := goalIdx; cur != -1; cur = cameFrom[cur] {
		path = append(path, gridPos{x: cur % gridW, y: cur / gridW})
		if cur == startIdx {
			break
		}
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func neighbors(p gridPos, gridW, gridH int) []gridPos {
	out := make([]gridPos, 0, 4)
	if p.x > 0 {
		out = append(out, gridPos{x: p.x - 1, y: p.y})
	}
	if p.x < gridW-1 {
		out = append(out, gridPos{x: p.x + 1, y: p.y})
	}
	if p.y > 0 {
		out = append(out, gridPos{x: p.x, y: p.y - 1})
	}
	if p.y < gridH-1 {
		out = append(out, gridPos{x: p.x, y: p.y + 1})
	}
	return out
}

func heuristic(a, b gridPos) float64 {
	return math.Abs(float64(a.x-b.x)) + math.Abs(float64(a.y-b.y))
}

type openItem struct {
	pos   gridPos
	f     float64
	g     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f == o[j].f {
		return o[i].g > o[j].g
	}
	return o[i].f < o[j].f
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
