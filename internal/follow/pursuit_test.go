package follow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

type openField struct{}

func (openField) Walkable(x, y int32) bool         { return true }
func (openField) SpeedModifier(x, y int32) float64 { return 1.0 }

func TestNewPursuitPlansInitialPath(t *testing.T) {
	p, err := NewPursuit(codec.TilePos{X: 0, Y: 0}, codec.TilePos{X: 3, Y: 0}, openField{}, 0, 0.3, 0)
	require.NoError(t, err)
	require.NotEmpty(t, p.follower.Remaining())
}

func TestNewPursuitReturnsErrorWhenGoalUnreachable(t *testing.T) {
	walls := wallAt{}
	for y := int32(-5); y <= 5; y++ {
		walls[codec.TilePos{X: 2, Y: y}] = true
	}
	// Ring the goal so no route around the wall reaches it.
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				walls[codec.TilePos{X: 5 + dx, Y: dy}] = true
			}
		}
	}
	_, err := NewPursuit(codec.TilePos{X: 0, Y: 0}, codec.TilePos{X: 5, Y: 0}, walls, 0, 0.3, 0)
	require.Error(t, err)
}

func TestPursuitReplansOnStuckThenGivesUpAfterMaxAttempts(t *testing.T) {
	p, err := NewPursuit(codec.TilePos{X: 0, Y: 0}, codec.TilePos{X: 100, Y: 0}, openField{}, 0, 0.3, 0)
	require.NoError(t, err)

	stuckPos := codec.MapPos{}
	var status Status
	tick := uint32(0)
	for attempt := 0; attempt <= MaxReplanAttempts; attempt++ {
		for i := uint32(0); i <= DefaultStuckBudget+1; i++ {
			_, status, _ = p.Tick(tick, stuckPos)
			tick++
		}
	}
	require.Equal(t, StatusNoPath, status)
}

func TestPursuitInterruptStopsFollower(t *testing.T) {
	p, err := NewPursuit(codec.TilePos{X: 0, Y: 0}, codec.TilePos{X: 3, Y: 0}, openField{}, 0, 0.3, 0)
	require.NoError(t, err)
	p.Interrupt()
	require.Empty(t, p.follower.Remaining())
}

// wallAt mirrors the pathfind package's test double so Pursuit's replanning
// behavior against a partially-blocked field can be exercised here too.
type wallAt map[codec.TilePos]bool

func (w wallAt) Walkable(x, y int32) bool {
	return !w[codec.TilePos{X: x, Y: y}]
}
func (w wallAt) SpeedModifier(x, y int32) float64 { return 1.0 }
