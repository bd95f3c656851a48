package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ancillary-agi/factorio-headless-client/internal/action"
	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
	"github.com/ancillary-agi/factorio-headless-client/internal/mapblob"
	"github.com/ancillary-agi/factorio-headless-client/internal/message"
)

func TestApplyObservedActionPlayerJoinMarksLocalConfirmed(t *testing.T) {
	c := newTestConnection()
	c.username = "bot"

	c.applyObservedAction(3, action.PlayerJoinGame{PlayerIndex: 3, Username: "bot"})

	require.True(t, c.playerConfirmed)
	require.EqualValues(t, 3, c.playerIndex)
	p, ok := c.world.Players[3]
	require.True(t, ok)
	require.True(t, p.Connected)
}

func TestApplyObservedActionPlayerJoinTracksOtherPlayers(t *testing.T) {
	c := newTestConnection()
	c.username = "bot"

	c.applyObservedAction(5, action.PlayerJoinGame{PlayerIndex: 5, Username: "someone-else"})

	require.False(t, c.playerConfirmed)
	p, ok := c.world.Players[5]
	require.True(t, ok)
	require.Equal(t, "someone-else", p.Username)
}

func TestApplyObservedActionStartStopWalking(t *testing.T) {
	c := newTestConnection()
	c.world.Tick = 10

	c.applyObservedAction(1, action.StartWalking{Direction: codec.DirEast})
	p := c.world.Players[1]
	require.True(t, p.Walking)
	require.Equal(t, codec.DirEast, p.WalkingDirection)
	require.EqualValues(t, 10, p.LastTickMoved)

	c.world.Tick = 20
	c.applyObservedAction(1, action.StopWalking{})
	require.False(t, c.world.Players[1].Walking)
}

func TestApplyObservedActionMiningAndShooting(t *testing.T) {
	c := newTestConnection()
	c.world.Player(2, "")

	c.applyObservedAction(2, action.BeginMining{})
	require.True(t, c.world.Players[2].Mining)
	c.applyObservedAction(2, action.StopMining{})
	require.False(t, c.world.Players[2].Mining)

	c.applyObservedAction(2, action.ChangeShootingState{Shooting: true})
	require.True(t, c.world.Players[2].Shooting)
	c.applyObservedAction(2, action.ChangeShootingState{Shooting: false})
	require.False(t, c.world.Players[2].Shooting)
}

func TestAdvancePlayerWalkMovesPositionForwardByElapsedTicks(t *testing.T) {
	c := newTestConnection()
	c.characterSpeed = 0.1
	c.world.Tick = 5

	p := c.world.Player(1, "")
	p.Position = codec.MapPos{}
	p.Walking = true
	p.WalkingDirection = codec.DirEast
	p.LastTickMoved = 0

	c.advancePlayerWalk(p)

	x, _ := p.Position.ToTiles()
	require.InDelta(t, 0.5, x, 1e-9)
	require.EqualValues(t, 5, p.LastTickMoved)
}

func TestApplyTickClosureDecodesAndRoutesActions(t *testing.T) {
	c := newTestConnection()
	c.world.Tick = 1

	payload := action.Encode(action.StartWalking{Direction: codec.DirSouth})
	closure := message.TickClosure{
		Tick: 1,
		Actions: []message.SyncAction{
			{PlayerIndex: 7, Type: message.SyncPlayerAction, Payload: payload},
		},
	}

	c.applyTickClosure(closure)

	p, ok := c.world.Players[7]
	require.True(t, ok)
	require.True(t, p.Walking)
	require.Equal(t, codec.DirSouth, p.WalkingDirection)
}

func TestApplyMapDataSeedsWorldAndLocalPlayer(t *testing.T) {
	c := newTestConnection()
	c.playerIndex = 1
	c.username = "bot"

	data := &mapblob.MapData{
		Seed:           99,
		InitialTick:    42,
		CharacterSpeed: 0.18,
		StartPosition:  codec.MapPos{X: codec.FixedFromTiles(3), Y: codec.FixedFromTiles(4)},
		Prototypes: &mapblob.PrototypeTable{
			Entities: map[uint16]string{}, Items: map[uint16]string{},
			Recipes: map[uint16]string{}, Tiles: map[uint16]string{},
		},
		Surfaces: []*mapblob.Surface{{Name: "nauvis", Index: 1}},
	}

	c.applyMapData(data)

	require.EqualValues(t, data.Seed, c.world.Seed)
	require.Equal(t, data.CharacterSpeed, c.characterSpeed)
	p := c.world.Players[1]
	require.Equal(t, data.StartPosition, p.Position)
}
