package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
	"github.com/ancillary-agi/factorio-headless-client/internal/follow"
)

// openWalkability treats every tile as walkable at normal speed, for
// exercising Goto/driveGoal without a populated world mirror.
type openWalkability struct{}

func (openWalkability) Walkable(x, y int32) bool       { return true }
func (openWalkability) SpeedModifier(x, y int32) float64 { return 1.0 }

func TestDrainClosureWrapsQueuedActionsIntoOneTickClosure(t *testing.T) {
	c := newTestConnection()
	c.state = StateInGame
	c.clientTick = 5
	c.playerIndex = 1

	require.NoError(t, c.Walk(codec.DirEast))
	require.NoError(t, c.Chat("hello"))

	closures := c.drainClosure()
	require.Len(t, closures, 1)
	require.Len(t, closures[0].Actions, 2)
	require.Empty(t, c.pendingActions)
}

func TestDrainClosureReturnsNilWhenNothingQueued(t *testing.T) {
	c := newTestConnection()
	require.Nil(t, c.drainClosure())
}

func TestDriveGoalQueuesWalkActionTowardGoal(t *testing.T) {
	c := newTestConnection()
	c.state = StateInGame
	c.playerIndex = 1
	local := c.world.Player(1, "bot")
	local.Position = codec.MapPos{X: codec.FixedFromTiles(0.5), Y: codec.FixedFromTiles(0.5)}

	w := openWalkability{}
	pursuit, err := follow.NewPursuit(codec.TilePos{X: 0, Y: 0}, codec.TilePos{X: 3, Y: 0}, w, 0, follow.DefaultTolerance, c.world.Tick)
	require.NoError(t, err)
	c.pursuit = pursuit

	c.driveGoal()

	require.NotEmpty(t, c.pendingActions)
}

func TestStopGotoClearsPursuit(t *testing.T) {
	c := newTestConnection()
	c.pursuit = nil
	c.StopGoto()
	require.Nil(t, c.pursuit)
}
