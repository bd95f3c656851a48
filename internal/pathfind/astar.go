// Package pathfind implements A* search over tile coordinates using the
// octile-distance heuristic, turn penalty, and corner-cut prevention
// Factorio's own pathfinder uses (spec.md §4.7,
// original_source/src/bot/pathfinding.rs).
package pathfind

import (
	"container/heap"
	"math"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

const (
	sqrt2 = 1.4142135623730951
	// octileDiagCoeff is sqrt(2) - 2, the coefficient applied to the
	// smaller of |dx|,|dy| in the octile heuristic.
	octileDiagCoeff = -0.5857864376269049
	turnPenaltyScale = 20.0

	// DefaultMaxNodes bounds search effort before giving up (spec.md §4.7).
	DefaultMaxNodes = 20000

	// MinWalkingSpeedModifier floors a tile's speed modifier so a
	// near-zero (but nonzero) modifier can't produce an unbounded edge
	// cost.
	MinWalkingSpeedModifier = 0.05
)

// Walkability answers whether a tile is walkable and how fast it can be
// crossed, backing the pathfinder's walkability oracle (spec.md §4.7).
type Walkability interface {
	// Walkable reports whether (x, y) can be entered at all (tile
	// collision and overlapping entity collision combined).
	Walkable(x, y int32) bool
	// SpeedModifier returns the tile's walking-speed modifier
	// (1.0 = normal, <1.0 = slower, e.g. landfill vs. concrete).
	SpeedModifier(x, y int32) float64
}

// node is one A* frontier entry.
type node struct {
	pos  codec.TilePos
	g, f float64
}

// openQueue is a container/heap min-priority-queue over node.f, tied
// broken by the *larger* g (prefer the node already deeper into the
// search, matching original_source's tie-break via reversed Ord).
type openQueue []node

func (q openQueue) Len() int { return len(q) }
func (q openQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].g > q[j].g
}
func (q openQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *openQueue) Push(x any)        { *q = append(*q, x.(node)) }
func (q *openQueue) Pop() any {
	old := *q
	n := len(old)
	v := old[n-1]
	*q = old[:n-1]
	return v
}

// neighborOffsets is the eight-way step set with its base cost (1 for
// cardinal, sqrt2 for diagonal).
var neighborOffsets = [8]struct {
	dx, dy int32
	cost   float64
}{
	{0, -1, 1}, {1, -1, sqrt2}, {1, 0, 1}, {1, 1, sqrt2},
	{0, 1, 1}, {-1, 1, sqrt2}, {-1, 0, 1}, {-1, -1, sqrt2},
}

// ErrNoPath is returned when the goal is unreachable within the node
// budget or at all.
type ErrNoPath struct {
	Start, Goal codec.TilePos
}

func (e *ErrNoPath) Error() string {
	return "pathfind: no path found"
}

// Find runs A* from start to goal over w, returning the tile path
// (excluding start, including goal) or ErrNoPath if the goal cannot be
// reached within maxNodes expansions. A zero maxNodes uses DefaultMaxNodes.
func Find(start, goal codec.TilePos, w Walkability, maxNodes int) ([]codec.TilePos, error) {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	if start == goal {
		return nil, nil
	}

	open := &openQueue{}
	heap.Init(open)
	heap.Push(open, node{pos: start, g: 0, f: octileHeuristic(start, goal)})

	cameFrom := map[codec.TilePos]codec.TilePos{}
	gScore := map[codec.TilePos]float64{start: 0}

	expanded := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(node)
		if current.pos == goal {
			return reconstruct(cameFrom, start, goal), nil
		}

		best, ok := gScore[current.pos]
		if !ok || current.g > best {
			continue
		}

		expanded++
		if expanded > maxNodes {
			return nil, &ErrNoPath{Start: start, Goal: goal}
		}

		for _, off := range neighborOffsets {
			next := codec.TilePos{X: current.pos.X + off.dx, Y: current.pos.Y + off.dy}

			if off.dx != 0 && off.dy != 0 {
				// Corner-cut prevention: both orthogonal neighbors must
				// be walkable before a diagonal step between them is.
				if !w.Walkable(current.pos.X+off.dx, current.pos.Y) ||
					!w.Walkable(current.pos.X, current.pos.Y+off.dy) {
					continue
				}
			}
			if !w.Walkable(next.X, next.Y) {
				continue
			}

			turnPenalty := 0.0
			if prev, ok := cameFrom[current.pos]; ok {
				turnPenalty = computeTurnPenalty(prev, current.pos, next)
			}

			speed := math.Max(w.SpeedModifier(next.X, next.Y), MinWalkingSpeedModifier)
			step := off.cost/speed + turnPenalty
			tentativeG := current.g + step

			if score, ok := gScore[next]; !ok || tentativeG < score {
				cameFrom[next] = current.pos
				gScore[next] = tentativeG
				f := tentativeG + octileHeuristic(next, goal)
				heap.Push(open, node{pos: next, g: tentativeG, f: f})
			}
		}
	}

	return nil, &ErrNoPath{Start: start, Goal: goal}
}

func reconstruct(cameFrom map[codec.TilePos]codec.TilePos, start, goal codec.TilePos) []codec.TilePos {
	var rev []codec.TilePos
	current := goal
	rev = append(rev, current)
	for current != start {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		current = prev
		rev = append(rev, current)
	}

	path := make([]codec.TilePos, 0, len(rev)-1)
	for i := len(rev) - 2; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}

func octileHeuristic(a, b codec.TilePos) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	min := math.Min(dx, dy)
	return (dx + dy) + octileDiagCoeff*min
}

func computeTurnPenalty(prev, curr, next codec.TilePos) float64 {
	a1 := angleFraction(curr.X-prev.X, curr.Y-prev.Y)
	a2 := angleFraction(next.X-curr.X, next.Y-curr.Y)
	diff := math.Abs(a1 - a2)
	diff = math.Min(diff, 1.0-diff)
	return diff * turnPenaltyScale
}

func angleFraction(dx, dy int32) float64 {
	if dx == 0 && dy == 0 {
		return 0
	}
	angle := math.Atan2(float64(dy), float64(dx))
	frac := angle * (1.0 / (2.0 * math.Pi))
	frac -= math.Floor(frac)
	return frac
}
