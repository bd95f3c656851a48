// Package protocol implements the Connection state machine that owns an
// entire bot session: the seven-step handshake, the six-phase map
// download, the 60Hz live heartbeat loop, and the public action surface
// (spec.md §4.5). It is the one place every lower layer (wire, message,
// mapblob, world, action, pathfind, follow) comes together, following
// the teacher's `Client` struct shape in
// networking/client/client.go (connect/gameLoop/receiveLoop/handleMessage)
// generalized from game-state replication to Factorio's lockstep model.
package protocol

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ancillary-agi/factorio-headless-client/internal/botio"
	"github.com/ancillary-agi/factorio-headless-client/internal/follow"
	"github.com/ancillary-agi/factorio-headless-client/internal/mapblob"
	"github.com/ancillary-agi/factorio-headless-client/internal/message"
	"github.com/ancillary-agi/factorio-headless-client/internal/telemetry"
	"github.com/ancillary-agi/factorio-headless-client/internal/transport"
	"github.com/ancillary-agi/factorio-headless-client/internal/wire"
	"github.com/ancillary-agi/factorio-headless-client/internal/world"
)

// HeartbeatInterval is the gameplay heartbeat cadence (spec.md §4.5 "one
// outbound heartbeat per ≈16 ms (60 Hz)").
const HeartbeatInterval = 16 * time.Millisecond

// defaultClientTickLead is client_tick_lead's starting value before any
// ChangeLatency synchronizer action adjusts it (spec.md §3).
const defaultClientTickLead = 28

// unconfirmedTickEcho is what an outbound heartbeat's confirmed-tick
// field carries before the server has confirmed any tick at all
// (spec.md §4.5).
const unconfirmedTickEcho = 0xFFFFFFFF

// HandshakeTimeout bounds the seven-step handshake (spec.md §4.5 "total
// budget ≈10 s").
const HandshakeTimeout = 10 * time.Second

// MapDownloadTimeout bounds the six-phase map download (spec.md §4.5
// "MAP_DOWNLOAD_TIMEOUT (60 s)").
const MapDownloadTimeout = 60 * time.Second

// Connection owns one bot session end to end.
type Connection struct {
	socket     *transport.Socket
	remoteAddr *net.UDPAddr
	state      State

	log     zerolog.Logger
	metrics *telemetry.Metrics
	events  chan botio.Event

	username         string
	clientRequestID  uint32
	serverRequestID  uint32
	peerID           uint16
	playerIndex      world.PlayerIndex
	playerConfirmed  bool
	peerConstant     uint16
	nextMsgID        uint16
	rng              *reliableRNG

	clientTick       uint32
	serverTick       uint32
	confirmedTick    uint32
	hasConfirmedTick bool
	clientTickLead   uint16
	startSendingTick uint32
	sendingClosures  bool
	clientTickPrimed bool

	announcedTransferSize uint64

	world          *world.World
	mapAssembler   *mapblob.Assembler
	characterSpeed float64

	lastDisconnectReason error
	surface              world.SurfaceIndex

	pendingActions [][]byte
	pursuit        *follow.Pursuit
}

// New returns a Connection ready to Connect. proto and synth are the
// world mirror's external collaborator seams (SPEC_FULL §4.5); either
// may be nil.
func New(log zerolog.Logger, metrics *telemetry.Metrics, proto world.ProtoLoader, synth world.ChunkSynthesizer) *Connection {
	sessionID := uuid.New()
	return &Connection{
		state:          StateDisconnected,
		log:            log.With().Str("session_id", sessionID.String()).Logger(),
		metrics:        metrics,
		events:         make(chan botio.Event, 64),
		world:          world.New(proto, synth),
		surface:        1,
		characterSpeed: mapblob.DefaultCharacterSpeed,
		clientTickLead: defaultClientTickLead,
	}
}

// confirmedTickEcho is the value this client stamps into an outbound
// heartbeat's confirmed-tick field: one past the highest tick the server
// has confirmed, or a sentinel while nothing has been confirmed yet
// (spec.md §4.5).
func (c *Connection) confirmedTickEcho() uint32 {
	if !c.hasConfirmedTick {
		return unconfirmedTickEcho
	}
	return c.confirmedTick + 1
}

// nextClientTick advances client_tick for the next outbound heartbeat,
// respecting both tick-clock invariants from spec.md §3: the first
// gameplay heartbeat after the server signals
// ClientShouldStartSendingTickClosures stamps client_tick to the tick it
// named, and client_tick never runs past
// confirmed_tick + client_tick_lead + 5.
func (c *Connection) nextClientTick() uint32 {
	if c.sendingClosures && !c.clientTickPrimed {
		c.clientTickPrimed = true
		return c.startSendingTick
	}
	next := c.clientTick + 1
	if max := c.confirmedTick + uint32(c.clientTickLead) + 5; next > max {
		return c.clientTick
	}
	return next
}

// Events returns the channel Connect/DownloadMap/Poll publish lifecycle
// and action-status events to. The caller must keep draining it.
func (c *Connection) Events() <-chan botio.Event { return c.events }

// World returns the local world mirror.
func (c *Connection) World() *world.World { return c.world }

// State returns the current connection state.
func (c *Connection) State() State { return c.state }

// Tick returns the last tick this client has stamped outbound heartbeats with.
func (c *Connection) Tick() uint32 { return c.clientTick }

// LastDisconnectReason returns the error that ended the previous
// session, or nil if the connection never disconnected abnormally.
func (c *Connection) LastDisconnectReason() error { return c.lastDisconnectReason }

func (c *Connection) emit(e botio.Event) {
	select {
	case c.events <- e:
	default:
		// Drop rather than block the protocol loop on a slow consumer.
	}
}

func randomUint32() uint32 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<32-1))
	if err != nil {
		return uint32(time.Now().UnixNano())
	}
	return uint32(n.Int64())
}

// Connect runs the seven-step handshake against addr (spec.md §4.5).
func (c *Connection) Connect(ctx context.Context, addr, username string) error {
	c.username = username
	c.state = StateQueryingServerInfo
	c.log.Info().Str("addr", addr).Str("username", username).Msg("connecting")
	c.emit(botio.Event{Kind: botio.EventConnecting})

	remoteAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("protocol: resolve %s: %w", addr, err)
	}
	c.remoteAddr = remoteAddr

	deadline, cancel := context.WithTimeout(ctx, HandshakeTimeout)
	defer cancel()

	// Step 1: server info query, on a throwaway transport.
	infoSocket, err := transport.Listen("")
	if err != nil {
		return fmt.Errorf("protocol: open info transport: %w", err)
	}
	if err := c.queryServerInfo(deadline, infoSocket); err != nil {
		infoSocket.Close()
		return err
	}
	infoSocket.Close()

	// Step 2: fresh transport for the real session.
	socket, err := transport.Listen("")
	if err != nil {
		return fmt.Errorf("protocol: open session transport: %w", err)
	}
	c.socket = socket

	// Step 3/4: ConnectionRequest / ConnectionRequestReply.
	c.state = StateConnecting
	c.clientRequestID = randomUint32()
	if err := c.sendRaw(wire.MsgConnectionRequest, false, message.ConnectionRequest{ClientRequestID: c.clientRequestID}.Encode()); err != nil {
		return err
	}
	replyBuf, err := c.waitFor(deadline, wire.MsgConnectionRequestReply)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionTimeout, err)
	}
	reply, err := message.DecodeConnectionRequestReply(replyBuf)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPacket, err)
	}
	c.serverRequestID = reply.ServerRequestID

	// Step 5: ConnectionRequestReplyConfirm.
	confirm := message.ConnectionRequestReplyConfirm{
		Username:          username,
		CoreChecksum:      0,
		PrototypeChecksum: 0,
	}
	if err := c.sendRaw(wire.MsgConnectionRequestReplyConfirm, false, confirm.Encode()); err != nil {
		return err
	}

	// Step 6: ConnectionAcceptOrDeny.
	c.state = StateWaitingForAccept
	acceptBuf, err := c.waitFor(deadline, wire.MsgConnectionAcceptOrDeny)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionTimeout, err)
	}
	accept, err := message.DecodeConnectionAcceptOrDeny(acceptBuf)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPacket, err)
	}
	if !accept.Accepted {
		c.log.Warn().Uint8("reason", uint8(accept.Reason)).Msg("connection refused")
		if accept.Reason == message.DenyVersionMismatch {
			return ErrVersionMismatch
		}
		return fmt.Errorf("%w: reason %d", ErrConnectionRefused, accept.Reason)
	}

	c.peerID = accept.PeerID
	c.playerIndex = world.PlayerIndex(accept.PlayerIndex)
	c.peerConstant = accept.PeerConstant
	c.nextMsgID = accept.InitialMsgID
	c.clientTick = uint32(accept.InitialTick)
	c.rng = newReliableRNG(uint64(c.clientRequestID) ^ uint64(c.serverRequestID) ^ uint64(c.peerConstant))

	// Step 7: connected.
	c.state = StateDownloadingMap
	c.log.Info().Uint16("peer_id", c.peerID).Uint16("player_index", uint16(c.playerIndex)).Msg("connected")
	c.emit(botio.Event{Kind: botio.EventConnected})
	return nil
}

func (c *Connection) queryServerInfo(ctx context.Context, socket *transport.Socket) error {
	req := wire.Build(wire.Header{Type: wire.MsgGameInformationRequest}, nil)
	if err := socket.SendTo(req, c.remoteAddr); err != nil {
		return fmt.Errorf("protocol: send server info query: %w", err)
	}

	for {
		remaining := time.Until(deadlineOf(ctx))
		if remaining <= 0 {
			return ErrConnectionTimeout
		}
		buf, _, err := socket.Receive(minDuration(remaining, 500*time.Millisecond))
		if err != nil {
			if err == transport.ErrTimeout {
				return ErrConnectionTimeout
			}
			return fmt.Errorf("protocol: receive server info: %w", err)
		}
		header, offset, err := wire.Parse(buf)
		if err != nil {
			continue
		}
		if header.Type != wire.MsgGameInformationRequestReply {
			continue
		}
		if _, err := message.DecodeGameInformationRequestReply(buf[offset:]); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPacket, err)
		}
		return nil
	}
}

func deadlineOf(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(time.Minute)
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

// sendRaw builds and sends one packet of type t, marking it reliable
// per the session RNG once the handshake has seeded it (handshake
// packets before that point are always unreliable, matching the
// pre-accept steps having no RNG seed yet).
func (c *Connection) sendRaw(t wire.MessageType, fragmented bool, payload []byte) error {
	reliable := false
	if c.rng != nil {
		reliable = c.rng.shouldMarkReliable()
	}
	h := wire.Header{Type: t, Reliable: reliable, Fragmented: fragmented, MessageID: c.nextMsgID}
	buf := wire.Build(h, payload)
	c.nextMsgID++
	if c.metrics != nil {
		c.metrics.PacketsSent.Inc()
		c.metrics.BytesSent.Add(len(buf))
	}
	addr := c.remoteAddr
	if c.socket == nil {
		return ErrNotConnected
	}
	return c.socket.SendTo(buf, addr)
}

// waitFor blocks (respecting ctx) until a packet of type want arrives on
// c.socket, returning its payload.
func (c *Connection) waitFor(ctx context.Context, want wire.MessageType) ([]byte, error) {
	for {
		remaining := time.Until(deadlineOf(ctx))
		if remaining <= 0 {
			return nil, ErrConnectionTimeout
		}
		buf, _, err := c.socket.Receive(minDuration(remaining, time.Second))
		if err != nil {
			if err == transport.ErrTimeout {
				continue
			}
			return nil, fmt.Errorf("protocol: receive: %w", err)
		}
		if c.metrics != nil {
			c.metrics.PacketsReceived.Inc()
			c.metrics.BytesReceived.Add(len(buf))
		}
		header, offset, err := wire.Parse(buf)
		if err != nil {
			continue
		}
		if header.Type == wire.MsgEmpty {
			if want == wire.MsgConnectionAcceptOrDeny {
				return nil, ErrConnectionRefused
			}
			continue
		}
		if header.Type != want {
			continue
		}
		return buf[offset:], nil
	}
}

// Close tears down the session's socket.
func (c *Connection) Close() error {
	c.state = StateDisconnected
	c.emit(botio.Event{Kind: botio.EventDisconnected})
	if c.socket != nil {
		return c.socket.Close()
	}
	return nil
}
