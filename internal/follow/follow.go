// Package follow drives a path-following state machine: advancing
// through waypoints, emitting StartWalking/StopWalking decisions,
// detecting when the player has stopped making progress, and bounding
// how many times a stalled path gets replanned (spec.md §4.8,
// grounded on original_source/src/bot/controller.rs's
// direction_to/is_at/navigate_to shape).
package follow

import (
	"math"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// DefaultTolerance is how close (in tiles) the follower considers a
// waypoint reached.
const DefaultTolerance = 0.3

// DefaultStuckBudget is how many ticks without forward progress before
// the follower reports Stuck (spec.md §4.8: "120-tick budget").
const DefaultStuckBudget = 120

// MaxReplanAttempts bounds how many times Pursuit will replan a stalled
// path before giving up (spec.md §4.8: "bounded replan, max 2 attempts").
const MaxReplanAttempts = 2

// Status is the event a Follower reports back to its caller each tick.
type Status uint8

const (
	StatusNone Status = iota
	StatusStarted
	StatusArrived
	StatusStopped
	StatusStuck
	StatusNoPath
	StatusInterrupted
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusStarted:
		return "started"
	case StatusArrived:
		return "arrived"
	case StatusStopped:
		return "stopped"
	case StatusStuck:
		return "stuck"
	case StatusNoPath:
		return "no_path"
	case StatusInterrupted:
		return "interrupted"
	case StatusError:
		return "error"
	default:
		return "none"
	}
}

// Decision is what a Follower wants the protocol layer to send this tick.
type Decision uint8

const (
	DecisionNone Decision = iota
	DecisionStartWalking
	DecisionStopWalking
)

// Follower advances through a waypoint list one tile at a time,
// tracking stall progress against DefaultStuckBudget.
type Follower struct {
	waypoints []codec.TilePos
	index     int
	tolerance float64
	stuckBudget uint32

	lastDirection   codec.Direction
	haveLastDir     bool
	lastProgressTick uint32
	lastDistance    float64
	haveLastDistance bool
}

// NewFollower returns a Follower over waypoints, reached with tolerance
// tiles, starting its stall clock at startTick.
func NewFollower(waypoints []codec.TilePos, tolerance float64, startTick uint32) *Follower {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Follower{
		waypoints: waypoints, tolerance: tolerance,
		stuckBudget: DefaultStuckBudget, lastProgressTick: startTick,
	}
}

// Tick advances the follower by one tick given the player's current
// position, returning what to send and any status event.
func (f *Follower) Tick(tick uint32, pos codec.MapPos) (Decision, Status, codec.Direction) {
	if f.index >= len(f.waypoints) {
		return DecisionNone, StatusArrived, 0
	}

	x, y := pos.ToTiles()
	target := f.waypoints[f.index]
	dist := distance(x, y, float64(target.X)+0.5, float64(target.Y)+0.5)

	if !f.haveLastDistance || dist < f.lastDistance-1e-6 {
		f.lastProgressTick = tick
		f.lastDistance = dist
		f.haveLastDistance = true
	}

	if dist <= f.tolerance {
		f.index++
		f.haveLastDistance = false
		if f.index >= len(f.waypoints) {
			return DecisionStopWalking, StatusArrived, 0
		}
		return f.advanceToward(x, y)
	}

	if tick-f.lastProgressTick > f.stuckBudget {
		return DecisionStopWalking, StatusStuck, 0
	}

	return f.advanceToward(x, y)
}

func (f *Follower) advanceToward(x, y float64) (Decision, Status, codec.Direction) {
	target := f.waypoints[f.index]
	dir := codec.DirectionFromDelta(float64(target.X)+0.5-x, float64(target.Y)+0.5-y)

	if !f.haveLastDir {
		f.haveLastDir = true
		f.lastDirection = dir
		return DecisionStartWalking, StatusStarted, dir
	}
	if dir != f.lastDirection {
		f.lastDirection = dir
		return DecisionStartWalking, StatusNone, dir
	}
	return DecisionNone, StatusNone, dir
}

// Stop halts the follower permanently (e.g. the caller interrupted it).
func (f *Follower) Stop() {
	f.index = len(f.waypoints)
}

// Remaining returns the waypoints not yet reached.
func (f *Follower) Remaining() []codec.TilePos {
	return f.waypoints[f.index:]
}

func distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}
