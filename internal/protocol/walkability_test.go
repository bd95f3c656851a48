package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
	"github.com/ancillary-agi/factorio-headless-client/internal/world"
)

func TestMirrorWalkabilityDefaultsToWalkableWhenSurfaceUnknown(t *testing.T) {
	w := mirrorWalkability{w: world.New(nil, nil), surface: 1}
	require.True(t, w.Walkable(0, 0))
	require.Equal(t, 1.0, w.SpeedModifier(0, 0))
}

func TestMirrorWalkabilityBlocksCollidingTiles(t *testing.T) {
	ww := world.New(nil, nil)
	surf := ww.Surface(1, "nauvis")
	chunk := surf.ChunkAt(codec.ChunkOf(codec.TilePos{X: 0, Y: 0}))
	chunk.Charted = true
	chunk.SetTile(0, 0, world.Tile{Name: "water", CollidesWithPlayer: true, IsWater: true})

	w := mirrorWalkability{w: ww, surface: 1}
	require.False(t, w.Walkable(0, 0))
}

func TestMirrorWalkabilityBlocksCollidingEntities(t *testing.T) {
	ww := world.New(nil, nil)
	surf := ww.Surface(1, "nauvis")
	chunk := surf.ChunkAt(codec.ChunkOf(codec.TilePos{X: 2, Y: 2}))
	chunk.Charted = true
	chunk.SetTile(2, 2, world.Tile{Name: "grass", WalkingSpeedModifier: 1.0})

	ent := world.NewEntity(1, "stone-wall", codec.MapPosFromTile(codec.TilePos{X: 2, Y: 2}))
	surf.AddEntity(ent)

	w := mirrorWalkability{w: ww, surface: 1}
	require.False(t, w.Walkable(2, 2))
}

func TestMirrorWalkabilitySpeedModifierReadsTile(t *testing.T) {
	ww := world.New(nil, nil)
	surf := ww.Surface(1, "nauvis")
	chunk := surf.ChunkAt(codec.ChunkOf(codec.TilePos{X: 1, Y: 1}))
	chunk.Charted = true
	chunk.SetTile(1, 1, world.Tile{Name: "concrete", WalkingSpeedModifier: 1.4})

	w := mirrorWalkability{w: ww, surface: 1}
	require.Equal(t, 1.4, w.SpeedModifier(1, 1))
}
