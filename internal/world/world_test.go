package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

func TestNewWorldHasNoSurfaces(t *testing.T) {
	w := New(nil, nil)
	require.Empty(t, w.Surfaces)
}

func TestSurfaceCreatedOnFirstAccess(t *testing.T) {
	w := New(nil, nil)
	s := w.Surface(1, "nauvis")
	require.Equal(t, "nauvis", s.Name)
	require.Same(t, s, w.Surface(1, "nauvis"))
}

func TestEntityIDsIncrement(t *testing.T) {
	w := New(nil, nil)
	a := w.NextEntityID()
	b := w.NextEntityID()
	c := w.NextEntityID()
	require.Equal(t, EntityID(1), a)
	require.Equal(t, EntityID(2), b)
	require.Equal(t, EntityID(3), c)
}

func TestPlayerJoinAndRemove(t *testing.T) {
	w := New(nil, nil)
	p := w.Player(0, "alice")
	require.Equal(t, "alice", p.Username)
	require.Contains(t, w.Players, PlayerIndex(0))
	w.RemovePlayer(0)
	require.NotContains(t, w.Players, PlayerIndex(0))
}

func TestChunkSynthesizerFallback(t *testing.T) {
	synth := fakeSynthesizer{chunk: NewChunk(codec.ChunkPos{X: 5, Y: 5})}
	w := New(nil, synth)
	w.Surface(1, "nauvis")

	c, ok := w.ChunkAt(1, codec.ChunkPos{X: 5, Y: 5})
	require.True(t, ok)
	require.Equal(t, codec.ChunkPos{X: 5, Y: 5}, c.Position)
}

func TestChunkAtReturnsFalseWithoutSynthesizer(t *testing.T) {
	w := New(nil, nil)
	w.Surface(1, "nauvis")
	_, ok := w.ChunkAt(1, codec.ChunkPos{X: 0, Y: 0})
	require.False(t, ok)
}

func TestChecksumDeterministic(t *testing.T) {
	w1 := New(nil, nil)
	w1.Tick = 10
	s1 := w1.Surface(1, "nauvis")
	s1.AddEntity(NewEntity(w1.NextEntityID(), "iron-chest", codec.MapPos{X: 100, Y: 200}))

	w2 := New(nil, nil)
	w2.Tick = 10
	s2 := w2.Surface(1, "nauvis")
	s2.AddEntity(NewEntity(w2.NextEntityID(), "iron-chest", codec.MapPos{X: 100, Y: 200}))

	require.Equal(t, w1.Checksum(), w2.Checksum())
}

func TestChecksumChangesWithState(t *testing.T) {
	w := New(nil, nil)
	before := w.Checksum()
	w.Tick = 1
	after := w.Checksum()
	require.NotEqual(t, before, after)
}

func TestAdvanceWalking(t *testing.T) {
	start := codec.MapPos{X: 0, Y: 0}
	next := AdvanceWalking(start, codec.DirEast, 0.15, 1.0)
	x, _ := next.ToTiles()
	// 0.15 tiles is 38.4 fixed32 units; the position keeps 38/256.
	require.InDelta(t, 38.0/256, x, 1e-9)
}

func TestTileWaterHeuristic(t *testing.T) {
	water := NewTile("water")
	require.True(t, water.IsWater)
	require.True(t, water.CollidesWithPlayer)

	grass := NewTile("grass-1")
	require.False(t, grass.IsWater)
	require.False(t, grass.CollidesWithPlayer)
}

func TestEntityTypeFromName(t *testing.T) {
	require.Equal(t, EntityTransportBelt, TypeFromName("fast-transport-belt"))
	require.Equal(t, EntityResource, TypeFromName("iron-ore"))
	require.Equal(t, EntityUnknown, TypeFromName("something-else"))
}

type fakeSynthesizer struct {
	chunk *Chunk
}

func (f fakeSynthesizer) Synthesize(pos codec.ChunkPos) (*Chunk, error) {
	return f.chunk, nil
}
