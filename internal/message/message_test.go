package message

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectionRequestRoundTrip(t *testing.T) {
	m := ConnectionRequest{ClientRequestID: 0xCAFEBABE}
	buf := m.Encode()
	got, err := DecodeConnectionRequest(buf)
	require.NoError(t, err)
	require.Equal(t, m.ClientRequestID, got.ClientRequestID)
}

func TestConnectionRequestReplyConfirmRoundTrip(t *testing.T) {
	m := ConnectionRequestReplyConfirm{
		Username: "biter_hunter",
		ModList: []ModListEntry{
			{Name: "base", Checksum: 1},
			{Name: "space-age", Checksum: 2},
		},
		CoreChecksum:      0x1111,
		PrototypeChecksum: 0x2222,
	}
	buf := m.Encode()
	got, err := DecodeConnectionRequestReplyConfirm(buf)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestConnectionAcceptOrDenyAccepted(t *testing.T) {
	w := testWriterAccept(t, ConnectionAcceptOrDeny{
		Accepted: true, PeerID: 3, PlayerIndex: 1, PeerConstant: 77,
		InitialMsgID: 500, InitialTick: 12345, ServerName: "test server",
	})
	got, err := DecodeConnectionAcceptOrDeny(w)
	require.NoError(t, err)
	require.True(t, got.Accepted)
	require.Equal(t, uint16(1), got.PlayerIndex)
	require.Equal(t, uint64(12345), got.InitialTick)
	require.Equal(t, "test server", got.ServerName)
}

func TestConnectionAcceptOrDenyDenied(t *testing.T) {
	got, err := DecodeConnectionAcceptOrDeny([]byte{0, byte(DenyVersionMismatch)})
	require.NoError(t, err)
	require.False(t, got.Accepted)
	require.Equal(t, DenyVersionMismatch, got.Reason)
}

func TestTickClosureRoundTrip(t *testing.T) {
	c := TickClosure{
		Tick: 999,
		Actions: []SyncAction{
			{PlayerIndex: 0, Type: SyncChangeLatency, Payload: EncodeSyncPayload(ChangeLatency{Latency: 5})},
			{PlayerIndex: 1, Type: SyncBeginPause, Payload: nil},
		},
	}
	buf := EncodeTickClosure(c)
	got, n, err := DecodeTickClosure(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, c.Tick, got.Tick)
	require.Len(t, got.Actions, 2)
	require.Equal(t, SyncChangeLatency, got.Actions[0].Type)
	require.Equal(t, uint16(1), got.Actions[1].PlayerIndex)

	payload, err := DecodeSyncPayload(got.Actions[0].Type, got.Actions[0].Payload)
	require.NoError(t, err)
	require.Equal(t, ChangeLatency{Latency: 5}, payload)
}

// TestTickClosureMatchesWalkActionByteLayout checks the closure framing
// around one player-action entry whose payload is a raw 16-byte
// two-double walk vector (0.0, -1.0): an 8-byte tick, a 1-byte packed
// action count, the 1-byte SyncPlayerAction type, a 1-byte player-index
// delta, and the 16-byte payload with no length prefix of its own — 27
// bytes total. The payload is built by hand: action.StartWalking encodes
// as a type id plus a single direction byte, not as two doubles.
func TestTickClosureMatchesWalkActionByteLayout(t *testing.T) {
	payload := make([]byte, 16)
	binary.LittleEndian.PutUint64(payload[8:], math.Float64bits(-1.0))

	c := TickClosure{
		Tick: 5000,
		Actions: []SyncAction{
			{PlayerIndex: 1, Type: SyncPlayerAction, Payload: payload},
		},
	}
	buf := EncodeTickClosure(c)
	require.Len(t, buf, 27)

	got, n, err := DecodeTickClosure(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, uint32(5000), got.Tick)
	require.Len(t, got.Actions, 1)
	require.Equal(t, uint16(1), got.Actions[0].PlayerIndex)
	require.Equal(t, payload, got.Actions[0].Payload)
}

func TestClientHeartbeatRoundTrip(t *testing.T) {
	h := ClientToServerHeartbeat{
		Tick: 100, ConfirmedTick: 98, ClientTickLead: 3,
		Closures: []TickClosure{{Tick: 100, Actions: nil}},
	}
	buf := EncodeClientHeartbeat(h)
	got, err := DecodeClientHeartbeat(buf)
	require.NoError(t, err)
	require.Equal(t, h.Tick, got.Tick)
	require.Equal(t, h.ConfirmedTick, got.ConfirmedTick)
	require.Equal(t, h.ClientTickLead, got.ClientTickLead)
	require.Len(t, got.Closures, 1)
}

func TestServerHeartbeatRoundTrip(t *testing.T) {
	h := ServerToClientHeartbeat{
		Tick:     200,
		Confirms: []TickConfirm{{Tick: 199, Checksum: 0xABCD}},
		Closures: []TickClosure{{Tick: 200, Actions: []SyncAction{{PlayerIndex: 0, Type: SyncBeginPause}}}},
		Actions: []SyncAction{
			{Type: SyncChangeLatency, Payload: EncodeSyncPayload(ChangeLatency{Latency: 10})},
			{Type: SyncClientShouldStartSendingTickClosures, Payload: EncodeSyncPayload(ClientShouldStartSendingTickClosures{Tick: 500})},
		},
	}
	buf := EncodeServerHeartbeat(h)
	got, err := DecodeServerHeartbeat(buf)
	require.NoError(t, err)
	require.Equal(t, h.Tick, got.Tick)
	require.Len(t, got.Confirms, 1)
	require.Equal(t, uint32(0xABCD), got.Confirms[0].Checksum)
	require.Len(t, got.Closures, 1)
	require.Len(t, got.Actions, 2)

	latency, err := DecodeSyncPayload(got.Actions[0].Type, got.Actions[0].Payload)
	require.NoError(t, err)
	require.Equal(t, ChangeLatency{Latency: 10}, latency)

	start, err := DecodeSyncPayload(got.Actions[1].Type, got.Actions[1].Payload)
	require.NoError(t, err)
	require.Equal(t, ClientShouldStartSendingTickClosures{Tick: 500}, start)
}

func TestTransferBlockRoundTrip(t *testing.T) {
	data := make([]byte, MapTransferBlockSize)
	for i := range data {
		data[i] = byte(i)
	}
	w := TransferBlockRequest{BlockNumber: 7, Reliable: true}
	buf := w.Encode()
	require.Len(t, buf, 5)

	tb := TransferBlock{BlockNumber: 7, Data: data}
	got, err := DecodeTransferBlock(append(encodeU32(tb.BlockNumber), data...))
	require.NoError(t, err)
	require.Equal(t, tb.BlockNumber, got.BlockNumber)
	require.Equal(t, data, got.Data)
}

func encodeU32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// testWriterAccept encodes an accepted ConnectionAcceptOrDeny by hand since
// the real wire layout has no Encode method (the client never sends this
// message itself).
func testWriterAccept(t *testing.T, m ConnectionAcceptOrDeny) []byte {
	t.Helper()
	buf := []byte{1}
	buf = append(buf, le16(m.PeerID)...)
	buf = append(buf, le16(m.PlayerIndex)...)
	buf = append(buf, le16(m.PeerConstant)...)
	buf = append(buf, le16(m.InitialMsgID)...)
	buf = append(buf, le64(m.InitialTick)...)
	buf = append(buf, byte(len(m.ServerName))) // opt-u16 length: one byte below 0xFF

	buf = append(buf, m.ServerName...)
	return buf
}

func le16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }
func le64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}
