package mapblob

import (
	"fmt"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// absolutePositionSentinel marks a full i32/i32 position following the
// i16 dx field, rather than a delta against the previous position
// (original_source/src/codec/map_transfer.rs MapDeserializer).
const absolutePositionSentinel = int16(0x7FFF)

// positionDelta tracks the running (last_x, last_y) state the chunk
// stream's delta-encoded positions are relative to.
type positionDelta struct {
	lastX, lastY int32
}

func (p *positionDelta) read(r *codec.Reader) (x, y int32, err error) {
	dx, err := r.I16()
	if err != nil {
		return 0, 0, fmt.Errorf("mapblob: position dx: %w", err)
	}
	if dx == absolutePositionSentinel {
		x, err = r.I32()
		if err != nil {
			return 0, 0, fmt.Errorf("mapblob: absolute position x: %w", err)
		}
		y, err = r.I32()
		if err != nil {
			return 0, 0, fmt.Errorf("mapblob: absolute position y: %w", err)
		}
		p.lastX, p.lastY = x, y
		return x, y, nil
	}
	dy, err := r.I16()
	if err != nil {
		return 0, 0, fmt.Errorf("mapblob: position dy: %w", err)
	}
	x = p.lastX + int32(dx)
	y = p.lastY + int32(dy)
	p.lastX, p.lastY = x, y
	return x, y, nil
}

// Entity is a map-blob entity record, position in fixed32 map units.
type Entity struct {
	PrototypeID uint16
	Position    codec.MapPos
	Direction   codec.Direction
}

// Tile is a map-blob tile record, position relative to its chunk origin.
type Tile struct {
	PrototypeID uint16
	X, Y        uint8
}

// Chunk is one 32x32-tile chunk's worth of parsed map data.
type Chunk struct {
	Position codec.ChunkPos
	Entities []Entity
	Tiles    []Tile
}

// Surface is one named surface's charted chunks.
type Surface struct {
	Name   string
	Index  uint16
	Chunks []Chunk
}

// ParseSurface reads one surface's chunk stream: name, index, chunk
// count, then per chunk a position, entity list, and tile list. Entity
// positions are delta-encoded and the delta state resets at the start of
// each chunk; tile positions are chunk-local u8 x/y pairs.
func ParseSurface(r *codec.Reader) (*Surface, error) {
	name, err := r.SimpleString()
	if err != nil {
		return nil, fmt.Errorf("mapblob: surface name: %w", err)
	}
	index, err := r.U16()
	if err != nil {
		return nil, fmt.Errorf("mapblob: surface index: %w", err)
	}
	chunkCount, err := r.OptU32()
	if err != nil {
		return nil, fmt.Errorf("mapblob: surface %q chunk count: %w", name, err)
	}

	chunks := make([]Chunk, chunkCount)
	for i := range chunks {
		c, err := parseChunk(r)
		if err != nil {
			return nil, fmt.Errorf("mapblob: surface %q chunk %d: %w", name, i, err)
		}
		chunks[i] = c
	}
	return &Surface{Name: name, Index: index, Chunks: chunks}, nil
}

func parseChunk(r *codec.Reader) (Chunk, error) {
	cx, err := r.I32()
	if err != nil {
		return Chunk{}, fmt.Errorf("chunk x: %w", err)
	}
	cy, err := r.I32()
	if err != nil {
		return Chunk{}, fmt.Errorf("chunk y: %w", err)
	}
	pos := codec.ChunkPos{X: cx, Y: cy}

	var delta positionDelta

	entityCount, err := r.OptU32()
	if err != nil {
		return Chunk{}, fmt.Errorf("entity count: %w", err)
	}
	entities := make([]Entity, entityCount)
	for i := range entities {
		protoID, err := r.U16()
		if err != nil {
			return Chunk{}, fmt.Errorf("entity %d prototype id: %w", i, err)
		}
		x, y, err := delta.read(r)
		if err != nil {
			return Chunk{}, fmt.Errorf("entity %d position: %w", i, err)
		}
		dir, err := r.Direction()
		if err != nil {
			return Chunk{}, fmt.Errorf("entity %d direction: %w", i, err)
		}
		entities[i] = Entity{
			PrototypeID: protoID,
			Position:    codec.MapPos{X: codec.Fixed32(x), Y: codec.Fixed32(y)},
			Direction:   dir,
		}
	}

	tileCount, err := r.OptU32()
	if err != nil {
		return Chunk{}, fmt.Errorf("tile count: %w", err)
	}
	tiles := make([]Tile, tileCount)
	for i := range tiles {
		protoID, err := r.U16()
		if err != nil {
			return Chunk{}, fmt.Errorf("tile %d prototype id: %w", i, err)
		}
		x, err := r.U8()
		if err != nil {
			return Chunk{}, fmt.Errorf("tile %d x: %w", i, err)
		}
		y, err := r.U8()
		if err != nil {
			return Chunk{}, fmt.Errorf("tile %d y: %w", i, err)
		}
		tiles[i] = Tile{PrototypeID: protoID, X: x, Y: y}
	}

	return Chunk{Position: pos, Entities: entities, Tiles: tiles}, nil
}
