package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeByteWorkedExample(t *testing.T) {
	b := EncodeTypeByte(MsgConnectionRequestReply, true, true, false)
	require.Equal(t, byte(0x63), b)

	typ, reliable, fragmented, serverSide := DecodeTypeByte(0x63)
	require.Equal(t, MsgConnectionRequestReply, typ)
	require.True(t, reliable)
	require.True(t, fragmented)
	require.False(t, serverSide)
}

func TestParseBuildRoundTrip(t *testing.T) {
	h := Header{
		Type:       MsgServerToClientHeartbeat,
		Reliable:   true,
		Fragmented: true,
		FragmentID: 42,
	}
	h.MessageID = 0x1234
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	buf := Build(h, payload)
	got, offset, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, h.Type, got.Type)
	require.True(t, got.Reliable)
	require.True(t, got.Fragmented)
	require.Equal(t, h.MessageID, got.MessageID)
	require.Equal(t, h.FragmentID, got.FragmentID)
	require.Equal(t, payload, buf[offset:])
}

func TestConfirmationListFlag(t *testing.T) {
	h := Header{
		Type:          MsgServerToClientHeartbeat,
		Fragmented:    true,
		MessageID:     7,
		Confirmations: []uint32{1, 2, 3},
	}
	buf := Build(h, nil)
	got, _, err := Parse(buf)
	require.NoError(t, err)
	require.True(t, got.HasConfirmations)
	require.Equal(t, []uint32{1, 2, 3}, got.Confirmations)
	require.Equal(t, len(got.Confirmations), 3)
}

func TestAlwaysHasMessageID(t *testing.T) {
	h := Header{Type: MsgConnectionRequest, MessageID: 99}
	buf := Build(h, nil)
	got, _, err := Parse(buf)
	require.NoError(t, err)
	require.True(t, got.HasMessageID)
	require.Equal(t, uint16(99), got.MessageID)
}

func TestNoMessageIDWhenNotFragmentedOrSpecial(t *testing.T) {
	h := Header{Type: MsgServerToClientHeartbeat}
	buf := Build(h, []byte{1})
	require.Len(t, buf, 2)
	got, offset, err := Parse(buf)
	require.NoError(t, err)
	require.False(t, got.HasMessageID)
	require.Equal(t, 1, offset)
}
