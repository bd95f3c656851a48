package pathfind

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// openField treats every tile as walkable at normal speed.
type openField struct{}

func (openField) Walkable(x, y int32) bool       { return true }
func (openField) SpeedModifier(x, y int32) float64 { return 1.0 }

// wallAt blocks a fixed set of tiles, otherwise open.
type wallAt map[codec.TilePos]bool

func (w wallAt) Walkable(x, y int32) bool {
	return !w[codec.TilePos{X: x, Y: y}]
}
func (w wallAt) SpeedModifier(x, y int32) float64 { return 1.0 }

func TestFindStraightLine(t *testing.T) {
	path, err := Find(codec.TilePos{X: 0, Y: 0}, codec.TilePos{X: 5, Y: 0}, openField{}, 0)
	require.NoError(t, err)
	require.Equal(t, codec.TilePos{X: 5, Y: 0}, path[len(path)-1])
	require.True(t, len(path) <= 5)
}

func TestFindSameTileReturnsEmptyPath(t *testing.T) {
	path, err := Find(codec.TilePos{X: 3, Y: 3}, codec.TilePos{X: 3, Y: 3}, openField{}, 0)
	require.NoError(t, err)
	require.Empty(t, path)
}

func TestFindNoPathWhenWalled(t *testing.T) {
	walls := wallAt{}
	// Build a solid wall across x=5 from y=-10..10, plus a ring of walls
	// on every tile around the goal to seal it off.
	for y := int32(-10); y <= 10; y++ {
		walls[codec.TilePos{X: 5, Y: y}] = true
	}
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				walls[codec.TilePos{X: 10 + dx, Y: dy}] = true
			}
		}
	}
	_, err := Find(codec.TilePos{X: 0, Y: 0}, codec.TilePos{X: 10, Y: 0}, walls, 0)
	require.Error(t, err)
	var noPath *ErrNoPath
	require.ErrorAs(t, err, &noPath)
}

func TestFindRespectsNodeBudget(t *testing.T) {
	_, err := Find(codec.TilePos{X: 0, Y: 0}, codec.TilePos{X: 1000, Y: 1000}, openField{}, 10)
	require.Error(t, err)
}

func TestCornerCutPrevention(t *testing.T) {
	// Block the two orthogonal neighbors of a diagonal step so the
	// pathfinder must detour instead of cutting the corner.
	walls := wallAt{
		codec.TilePos{X: 1, Y: 0}: true,
		codec.TilePos{X: 0, Y: 1}: true,
	}
	path, err := Find(codec.TilePos{X: 0, Y: 0}, codec.TilePos{X: 1, Y: 1}, walls, 0)
	require.NoError(t, err)
	// A corner-cut would be a single diagonal step; verify the path takes
	// more than one step around the blocked corner.
	require.Greater(t, len(path), 1)
}

func TestOctileHeuristicSymmetry(t *testing.T) {
	a := codec.TilePos{X: 0, Y: 0}
	b := codec.TilePos{X: 3, Y: 4}
	require.Equal(t, octileHeuristic(a, b), octileHeuristic(b, a))
}

func TestAsyncFindReturnsSameResultAsSync(t *testing.T) {
	async := NewAsync(openField{}, 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := async.Find(ctx, codec.TilePos{X: 0, Y: 0}, codec.TilePos{X: 4, Y: 0})
	require.NoError(t, err)

	want, err := Find(codec.TilePos{X: 0, Y: 0}, codec.TilePos{X: 4, Y: 0}, openField{}, 0)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFindManyBatch(t *testing.T) {
	goals := []Goal{
		{Start: codec.TilePos{X: 0, Y: 0}, End: codec.TilePos{X: 3, Y: 0}},
		{Start: codec.TilePos{X: 0, Y: 0}, End: codec.TilePos{X: 0, Y: 3}},
	}
	results, err := FindMany(context.Background(), goals, openField{}, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, codec.TilePos{X: 3, Y: 0}, results[0][len(results[0])-1])
	require.Equal(t, codec.TilePos{X: 0, Y: 3}, results[1][len(results[1])-1])
}
