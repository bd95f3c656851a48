package follow

import (
	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
	"github.com/ancillary-agi/factorio-headless-client/internal/pathfind"
)

// Pursuit wraps a Follower with bounded replanning: when the follower
// reports Stuck, Pursuit asks pathfind for a fresh route from the
// player's current tile to the original goal, up to MaxReplanAttempts
// times, before giving up with StatusNoPath (spec.md §4.8).
type Pursuit struct {
	goal      codec.TilePos
	tolerance float64
	w         pathfind.Walkability
	maxNodes  int

	follower *Follower
	attempts int
}

// NewPursuit plans an initial path toward goal and returns a Pursuit
// ready to be driven tick-by-tick, or an error if no initial path exists.
func NewPursuit(start, goal codec.TilePos, w pathfind.Walkability, maxNodes int, tolerance float64, startTick uint32) (*Pursuit, error) {
	path, err := pathfind.Find(start, goal, w, maxNodes)
	if err != nil {
		return nil, err
	}
	return &Pursuit{
		goal: goal, tolerance: tolerance, w: w, maxNodes: maxNodes,
		follower: NewFollower(path, tolerance, startTick),
	}, nil
}

// Tick drives the underlying Follower, transparently replanning from
// currentTile on Stuck (up to MaxReplanAttempts) before surfacing a
// terminal status to the caller.
func (p *Pursuit) Tick(tick uint32, pos codec.MapPos) (Decision, Status, codec.Direction) {
	decision, status, dir := p.follower.Tick(tick, pos)
	if status != StatusStuck {
		return decision, status, dir
	}

	if p.attempts >= MaxReplanAttempts {
		return DecisionStopWalking, StatusNoPath, 0
	}
	p.attempts++

	currentTile := pos.Tile()
	path, err := pathfind.Find(currentTile, p.goal, p.w, p.maxNodes)
	if err != nil {
		return DecisionStopWalking, StatusNoPath, 0
	}
	p.follower = NewFollower(path, p.tolerance, tick)
	return DecisionNone, StatusNone, 0
}

// Interrupt stops pursuit early, e.g. on an external command.
func (p *Pursuit) Interrupt() {
	p.follower.Stop()
}
