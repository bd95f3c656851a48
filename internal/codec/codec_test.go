package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptU32RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 254, 255, 256, 65535, 0xDEADBEEF, 0xFFFFFFFF}
	for _, v := range values {
		w := NewWriter()
		w.OptU32(v)
		r := NewReader(w.Bytes())
		got, err := r.OptU32()
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, 0, r.Remaining())
	}
}

func TestOptU32Boundary(t *testing.T) {
	w := NewWriter()
	w.OptU32(0xFE)
	require.Len(t, w.Bytes(), 1)

	w2 := NewWriter()
	w2.OptU32(0xFF)
	require.Len(t, w2.Bytes(), 5)
	require.Equal(t, byte(0xFF), w2.Bytes()[0])
}

func TestOptU16RoundTrip(t *testing.T) {
	values := []uint16{0, 1, 254, 255, 256, 0xFFFF}
	for _, v := range values {
		w := NewWriter()
		w.OptU16(v)
		r := NewReader(w.Bytes())
		got, err := r.OptU16()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	cases := []string{"", "hello", strings.Repeat("x", 1000)}
	for _, s := range cases {
		w := NewWriter()
		w.String(s)
		r := NewReader(w.Bytes())
		got, err := r.String()
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestStringTooLong(t *testing.T) {
	r := NewReader(nil)
	w := NewWriter()
	w.OptU32(MaxStringLen + 1)
	r = NewReader(w.Bytes())
	_, err := r.String()
	require.Error(t, err)
	var tooLong *ErrStringTooLong
	require.ErrorAs(t, err, &tooLong)
}

func TestMapPositionRoundTrip(t *testing.T) {
	positions := []MapPos{
		{X: 0, Y: 0},
		{X: 256, Y: -512},
		{X: 0x7FFFFFFF, Y: -0x80000000},
	}
	for _, p := range positions {
		w := NewWriter()
		w.MapPosition(p)
		r := NewReader(w.Bytes())
		got, err := r.MapPosition()
		require.NoError(t, err)
		require.Equal(t, p, got)
	}
}

func TestDirectionRoundTrip(t *testing.T) {
	for d := DirNorth; d <= DirNorthWest; d++ {
		w := NewWriter()
		w.Direction(d)
		r := NewReader(w.Bytes())
		got, err := r.Direction()
		require.NoError(t, err)
		require.Equal(t, d, got)
	}
}

func TestDirectionInvalid(t *testing.T) {
	r := NewReader([]byte{8})
	_, err := r.Direction()
	require.Error(t, err)
}

func TestUnexpectedEOF(t *testing.T) {
	r := NewReader([]byte{1, 2})
	_, err := r.U32()
	require.Error(t, err)
	var eof *ErrUnexpectedEOF
	require.ErrorAs(t, err, &eof)
}

func TestTileChunkConversion(t *testing.T) {
	tile := TilePos{X: -5, Y: 33}
	chunk := ChunkOf(tile)
	require.Equal(t, ChunkPos{X: -1, Y: 1}, chunk)
}

func TestFixedTileConversion(t *testing.T) {
	f := FixedFromTiles(12.5)
	require.Equal(t, Fixed32(3200), f)
	require.InDelta(t, 12.5, f.ToTiles(), 1e-9)
}

func TestDirectionFromDelta(t *testing.T) {
	require.Equal(t, DirEast, DirectionFromDelta(1, 0))
	require.Equal(t, DirSouth, DirectionFromDelta(0, 1))
	require.Equal(t, DirNorth, DirectionFromDelta(0, -1))
	require.Equal(t, DirWest, DirectionFromDelta(-1, 0))
}
