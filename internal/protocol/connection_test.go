package protocol

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
	"github.com/ancillary-agi/factorio-headless-client/internal/message"
	"github.com/ancillary-agi/factorio-headless-client/internal/telemetry"
	"github.com/ancillary-agi/factorio-headless-client/internal/transport"
	"github.com/ancillary-agi/factorio-headless-client/internal/wire"
)

func newTestConnection() *Connection {
	return New(zerolog.Nop(), telemetry.NewMetrics(), nil, nil)
}

// fakeServer answers the first leg of the handshake (the info query) and
// optionally the second leg (connection request/accept), each on its own
// socket the way the real server sees a fresh ephemeral port per phase.
type fakeServer struct {
	t        *testing.T
	infoSock *transport.Socket
	infoAddr *net.UDPAddr
}

func startFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	sock, err := transport.Listen("")
	require.NoError(t, err)
	t.Cleanup(func() { sock.Close() })
	return &fakeServer{t: t, infoSock: sock, infoAddr: sock.LocalAddr().(*net.UDPAddr)}
}

func (f *fakeServer) serveInfoThenHandshake(accept bool) {
	go func() {
		// Step 1: answer the server-info query on the info socket.
		buf, from, err := f.infoSock.Receive(5 * time.Second)
		if err != nil {
			return
		}
		if _, _, err := wire.Parse(buf); err != nil {
			return
		}
		reply := encodeGameInformationRequestReply()
		f.infoSock.SendTo(wire.Build(wire.Header{Type: wire.MsgGameInformationRequestReply}, reply), from)

		// Step 2: the client rebinds to a fresh socket and sends the real
		// handshake to the same remote address (our single fake socket
		// answers both phases here, mirroring a single-process test server).
		buf, from, err = f.infoSock.Receive(5 * time.Second)
		if err != nil {
			return
		}
		header, offset, err := wire.Parse(buf)
		if err != nil || header.Type != wire.MsgConnectionRequest {
			return
		}
		req, err := message.DecodeConnectionRequest(buf[offset:])
		if err != nil {
			return
		}
		replyPayload := encodeConnectionRequestReply(req.ClientRequestID + 1)
		f.infoSock.SendTo(wire.Build(wire.Header{Type: wire.MsgConnectionRequestReply}, replyPayload), from)

		buf, from, err = f.infoSock.Receive(5 * time.Second)
		if err != nil {
			return
		}
		header, _, err = wire.Parse(buf)
		if err != nil || header.Type != wire.MsgConnectionRequestReplyConfirm {
			return
		}

		var accBuf []byte
		if accept {
			accBuf = encodeConnectionAccept()
		} else {
			accBuf = encodeConnectionDeny(message.DenyVersionMismatch)
		}
		f.infoSock.SendTo(wire.Build(wire.Header{Type: wire.MsgConnectionAcceptOrDeny}, accBuf), from)
	}()
}

func encodeGameInformationRequestReply() []byte {
	w := codec.NewWriter()
	w.OptU32(0)
	return w.Bytes()
}

func encodeConnectionRequestReply(serverRequestID uint32) []byte {
	w := codec.NewWriter()
	w.U32(serverRequestID)
	w.U16(transport.MaxPacketSize)
	return w.Bytes()
}

func encodeConnectionAccept() []byte {
	w := codec.NewWriter()
	w.Bool(true)
	w.U16(42)              // peer id
	w.U16(1)               // player index
	w.U16(777)             // peer constant
	w.U16(0)               // initial msg id
	w.U64(100)             // initial tick
	w.SimpleString("test") // server name
	return w.Bytes()
}

func encodeConnectionDeny(reason message.DenyReason) []byte {
	w := codec.NewWriter()
	w.Bool(false)
	w.U8(uint8(reason))
	return w.Bytes()
}

func TestConnectSucceedsAgainstFakeServer(t *testing.T) {
	server := startFakeServer(t)
	server.serveInfoThenHandshake(true)

	c := newTestConnection()
	defer c.Close()

	err := c.Connect(context.Background(), server.infoAddr.String(), "bot")
	require.NoError(t, err)
	require.Equal(t, StateDownloadingMap, c.State())
	require.EqualValues(t, 1, c.playerIndex)
	require.EqualValues(t, 42, c.peerID)
	require.EqualValues(t, 100, c.clientTick)
}

func TestConnectReturnsVersionMismatchOnDeny(t *testing.T) {
	server := startFakeServer(t)
	server.serveInfoThenHandshake(false)

	c := newTestConnection()
	defer c.Close()

	err := c.Connect(context.Background(), server.infoAddr.String(), "bot")
	require.ErrorIs(t, err, ErrVersionMismatch)
}

func TestConnectTimesOutAgainstUnresponsivePeer(t *testing.T) {
	dead, err := transport.Listen("")
	require.NoError(t, err)
	addr := dead.LocalAddr().(*net.UDPAddr)
	dead.Close()

	c := newTestConnection()
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err = c.Connect(ctx, addr.String(), "bot")
	require.Error(t, err)
}

func TestQueueActionRejectedOutsideInGameState(t *testing.T) {
	c := newTestConnection()
	err := c.Walk(codec.DirNorth)
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestEventsChannelReceivesConnectingEvent(t *testing.T) {
	server := startFakeServer(t)
	server.serveInfoThenHandshake(true)

	c := newTestConnection()
	defer c.Close()

	done := make(chan struct{})
	go func() {
		c.Connect(context.Background(), server.infoAddr.String(), "bot")
		close(done)
	}()

	select {
	case ev := <-c.Events():
		require.Equal(t, "connecting", ev.Kind.String())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for connecting event")
	}
	<-done
}
