// Package world mirrors the authoritative server game state locally:
// surfaces, chunks, tiles, entities, players, research, and recipes, all
// mutated by observed synchronizer actions rather than owned directly
// (spec.md §4.6, §9 "Arena + index for entities").
package world

import (
	"hash/crc32"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// EntityID is an arena-assigned identifier, never a pointer (spec.md §9).
type EntityID uint32

// PlayerIndex identifies a player slot, matching the wire's player index.
type PlayerIndex uint16

// SurfaceIndex identifies a surface ("nauvis", "vulcanus", ...).
type SurfaceIndex uint16

// ProtoLoader resolves a prototype id to a name when the map blob's own
// table doesn't define it (SPEC_FULL §4.5 — an external collaborator
// backed by the out-of-scope Lua/prototype runtime).
type ProtoLoader interface {
	Lookup(kind string, id uint16) (name string, ok bool)
}

// ChunkSynthesizer generates a chunk's terrain when queried before the
// map blob ever charted it (SPEC_FULL §4.5 — backed by the out-of-scope
// terrain-noise evaluator).
type ChunkSynthesizer interface {
	Synthesize(pos codec.ChunkPos) (*Chunk, error)
}

// World is the local mirror of the authoritative game state.
type World struct {
	Tick    uint32
	Seed    uint32
	Surfaces map[SurfaceIndex]*Surface
	Players  map[PlayerIndex]*Player
	Research ResearchState
	Recipes  RecipeTable

	nextEntityID EntityID
	protoLoader  ProtoLoader
	synthesizer  ChunkSynthesizer
}

// New returns an empty World. proto and synth may be nil; when absent,
// unresolved prototype lookups and unsynthesized chunk queries simply
// report "not found" rather than guessing (SPEC_FULL §4.5).
func New(proto ProtoLoader, synth ChunkSynthesizer) *World {
	return &World{
		Surfaces:     map[SurfaceIndex]*Surface{},
		Players:      map[PlayerIndex]*Player{},
		Recipes:      RecipeTable{Recipes: map[string]Recipe{}},
		nextEntityID: 1,
		protoLoader:  proto,
		synthesizer:  synth,
	}
}

// NextEntityID returns the next arena id and advances the counter.
func (w *World) NextEntityID() EntityID {
	id := w.nextEntityID
	w.nextEntityID++
	return id
}

// Surface returns the named surface, creating it if absent.
func (w *World) Surface(idx SurfaceIndex, name string) *Surface {
	if s, ok := w.Surfaces[idx]; ok {
		return s
	}
	s := NewSurface(idx, name)
	w.Surfaces[idx] = s
	return s
}

// Player returns the player at idx, creating it if absent.
func (w *World) Player(idx PlayerIndex, username string) *Player {
	if p, ok := w.Players[idx]; ok {
		return p
	}
	p := NewPlayer(idx, username)
	w.Players[idx] = p
	return p
}

// RemovePlayer drops a player that has left the game.
func (w *World) RemovePlayer(idx PlayerIndex) {
	delete(w.Players, idx)
}

// LookupPrototype resolves a prototype id via the external loader, if
// one was supplied.
func (w *World) LookupPrototype(kind string, id uint16) (string, bool) {
	if w.protoLoader == nil {
		return "", false
	}
	return w.protoLoader.Lookup(kind, id)
}

// ChunkAt returns the chunk at pos on surface idx, synthesizing it via
// the configured ChunkSynthesizer if the map blob never charted it.
// Returns nil, false if neither the mirror nor a synthesizer has it.
func (w *World) ChunkAt(idx SurfaceIndex, pos codec.ChunkPos) (*Chunk, bool) {
	s, ok := w.Surfaces[idx]
	if !ok {
		return nil, false
	}
	if c, ok := s.Chunks[pos]; ok {
		return c, true
	}
	if w.synthesizer == nil {
		return nil, false
	}
	c, err := w.synthesizer.Synthesize(pos)
	if err != nil || c == nil {
		return nil, false
	}
	s.Chunks[pos] = c
	return c, true
}

// Checksum computes a rolling CRC32 over mirrored entity and player
// state, purely for desync *diagnosis* (never recovery) against the
// checksums in the server's tick confirms (SPEC_FULL §4.6).
func (w *World) Checksum() uint32 {
	h := crc32.NewIEEE()
	var buf [4]byte

	writeU32 := func(v uint32) {
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		buf[3] = byte(v >> 24)
		h.Write(buf[:])
	}

	writeU32(w.Tick)
	for _, sIdx := range sortedSurfaceIndices(w.Surfaces) {
		s := w.Surfaces[sIdx]
		for _, eID := range sortedEntityIDs(s.Entities) {
			e := s.Entities[eID]
			writeU32(uint32(e.ID))
			writeU32(uint32(e.Position.X))
			writeU32(uint32(e.Position.Y))
		}
	}
	for _, pIdx := range sortedPlayerIndices(w.Players) {
		p := w.Players[pIdx]
		writeU32(uint32(p.Position.X))
		writeU32(uint32(p.Position.Y))
	}
	return h.Sum32()
}
