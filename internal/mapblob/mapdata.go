package mapblob

import (
	"fmt"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// DefaultCharacterSpeed is the vanilla player walking speed in
// tiles/tick, used when the blob's map-gen settings block (out of
// scope here, spec.md Non-goals) doesn't override it.
const DefaultCharacterSpeed = 0.15

// MapData is the fully parsed result of one map-transfer blob.
type MapData struct {
	Seed          uint32
	InitialTick   uint64
	CharacterSpeed float64
	StartPosition  codec.MapPos
	Prototypes     *PrototypeTable
	Surfaces       []*Surface
}

// Parse decompresses and parses a complete map blob (spec.md §4.5 phase
// 6 "assemble + transition"). The blob layout is: seed, initial tick,
// character speed, start position, prototype table, then a count-
// prefixed list of surfaces.
func Parse(blob []byte) (*MapData, error) {
	raw, err := Decompress(blob)
	if err != nil {
		return nil, fmt.Errorf("mapblob: decompress: %w", err)
	}

	r := codec.NewReader(raw)
	seed, err := r.U32()
	if err != nil {
		return nil, fmt.Errorf("mapblob: seed: %w", err)
	}
	initialTick, err := r.U64()
	if err != nil {
		return nil, fmt.Errorf("mapblob: initial tick: %w", err)
	}
	speed, err := r.F64()
	if err != nil {
		return nil, fmt.Errorf("mapblob: character speed: %w", err)
	}
	if speed <= 0 {
		speed = DefaultCharacterSpeed
	}
	start, err := r.MapPosition()
	if err != nil {
		return nil, fmt.Errorf("mapblob: start position: %w", err)
	}

	protos, err := ParsePrototypeTable(r)
	if err != nil {
		return nil, fmt.Errorf("mapblob: prototypes: %w", err)
	}

	surfaceCount, err := r.OptU32()
	if err != nil {
		return nil, fmt.Errorf("mapblob: surface count: %w", err)
	}
	surfaces := make([]*Surface, surfaceCount)
	for i := range surfaces {
		s, err := ParseSurface(r)
		if err != nil {
			return nil, fmt.Errorf("mapblob: surface %d: %w", i, err)
		}
		surfaces[i] = s
	}

	return &MapData{
		Seed: seed, InitialTick: initialTick, CharacterSpeed: speed,
		StartPosition: start, Prototypes: protos, Surfaces: surfaces,
	}, nil
}
