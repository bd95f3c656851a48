package world

import (
	"strings"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// ChunkTiles is the tile count per chunk (32x32, spec.md §3).
const ChunkTiles = 32

// Surface is one named game surface (e.g. "nauvis") with its charted
// chunks and the entities placed on it.
type Surface struct {
	Index    SurfaceIndex
	Name     string
	Chunks   map[codec.ChunkPos]*Chunk
	Entities map[EntityID]*Entity
}

// NewSurface returns an empty named surface.
func NewSurface(idx SurfaceIndex, name string) *Surface {
	return &Surface{
		Index:    idx,
		Name:     name,
		Chunks:   map[codec.ChunkPos]*Chunk{},
		Entities: map[EntityID]*Entity{},
	}
}

// ChunkAt returns the chunk at pos, creating an ungenerated/unchartered
// placeholder if absent.
func (s *Surface) ChunkAt(pos codec.ChunkPos) *Chunk {
	if c, ok := s.Chunks[pos]; ok {
		return c
	}
	c := NewChunk(pos)
	s.Chunks[pos] = c
	return c
}

// TileAt returns the tile at a global tile position, and whether its
// containing chunk has been charted at all (an uncharted tile has no
// known terrain, distinct from a charted-but-empty one).
func (s *Surface) TileAt(pos codec.TilePos) (Tile, bool) {
	chunkPos := codec.ChunkOf(pos)
	c, ok := s.Chunks[chunkPos]
	if !ok || !c.Charted {
		return Tile{}, false
	}
	localX := uint8(((pos.X % ChunkTiles) + ChunkTiles) % ChunkTiles)
	localY := uint8(((pos.Y % ChunkTiles) + ChunkTiles) % ChunkTiles)
	return c.TileAt(localX, localY), true
}

// AddEntity places e on the surface, charting its containing chunk if
// necessary.
func (s *Surface) AddEntity(e *Entity) {
	tile := e.Position.Tile()
	s.ChunkAt(codec.ChunkOf(tile)).Charted = true
	s.Entities[e.ID] = e
}

// RemoveEntity removes an entity by id.
func (s *Surface) RemoveEntity(id EntityID) {
	delete(s.Entities, id)
}

// Chunk is a 32x32-tile region of terrain.
type Chunk struct {
	Position  codec.ChunkPos
	Tiles     [ChunkTiles * ChunkTiles]Tile
	Generated bool
	Charted   bool
}

// NewChunk returns an ungenerated chunk at pos.
func NewChunk(pos codec.ChunkPos) *Chunk {
	return &Chunk{Position: pos}
}

// TileAt returns the tile at local coordinates (0..31, 0..31).
func (c *Chunk) TileAt(localX, localY uint8) Tile {
	return c.Tiles[int(localY)*ChunkTiles+int(localX)]
}

// SetTile sets the tile at local coordinates.
func (c *Chunk) SetTile(localX, localY uint8, t Tile) {
	c.Tiles[int(localY)*ChunkTiles+int(localX)] = t
}

// Tile is one tile's terrain properties, relevant to pathfinding and
// movement (spec.md §4.6, original_source/src/state/surface.rs Tile).
type Tile struct {
	Name                 string
	CollidesWithPlayer   bool
	IsWater              bool
	WalkingSpeedModifier float64
}

// NewTile derives collision/water flags from the tile name when no
// prototype data is available, mirroring the fallback heuristic in
// original_source/src/state/surface.rs.
func NewTile(name string) Tile {
	t := Tile{Name: name, WalkingSpeedModifier: 1.0}
	t.IsWater = strings.Contains(name, "water") || strings.Contains(name, "deepwater")
	t.CollidesWithPlayer = t.IsWater || strings.Contains(name, "out-of-map")
	return t
}
