package protocol

import (
	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
	"github.com/ancillary-agi/factorio-headless-client/internal/world"
)

// mirrorWalkability adapts the world mirror's per-tile and per-entity
// state into the pathfind.Walkability oracle (spec.md §4.7 "Walkability").
type mirrorWalkability struct {
	w       *world.World
	surface world.SurfaceIndex
}

func (m mirrorWalkability) Walkable(x, y int32) bool {
	surf, ok := m.w.Surfaces[m.surface]
	if !ok {
		return true
	}
	tile, ok := surf.TileAt(codec.TilePos{X: x, Y: y})
	if !ok {
		return true
	}
	if !tile.CollidesWithPlayer {
		return !tile.IsWater && !m.entityBlocks(surf, x, y)
	}
	return false
}

func (m mirrorWalkability) entityBlocks(surf *world.Surface, x, y int32) bool {
	for _, e := range surf.Entities {
		if !e.CollidesWithPlayer {
			continue
		}
		if tile := e.Position.Tile(); tile.X == x && tile.Y == y {
			return true
		}
	}
	return false
}

func (m mirrorWalkability) SpeedModifier(x, y int32) float64 {
	surf, ok := m.w.Surfaces[m.surface]
	if !ok {
		return 1.0
	}
	tile, ok := surf.TileAt(codec.TilePos{X: x, Y: y})
	if !ok {
		return 1.0
	}
	return tile.WalkingSpeedModifier
}
