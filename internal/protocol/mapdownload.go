package protocol

import (
	"context"
	"fmt"
	"time"

	"github.com/ancillary-agi/factorio-headless-client/internal/botio"
	"github.com/ancillary-agi/factorio-headless-client/internal/mapblob"
	"github.com/ancillary-agi/factorio-headless-client/internal/message"
	"github.com/ancillary-agi/factorio-headless-client/internal/transport"
	"github.com/ancillary-agi/factorio-headless-client/internal/wire"
)

// defaultTransferBlockCount is used when the server's announced transfer
// size hasn't been observed yet (spec.md §4.5 phase 3 "or defaulted to 256").
const defaultTransferBlockCount = 256

// transferBlockRequestBurst is how many block requests go out per batch
// (spec.md §4.5 phase 3 "batches of 50").
const transferBlockRequestBurst = 50

// missingBlockRetryInterval is how long to wait with no new blocks
// before re-requesting the gap (spec.md §4.5 phase 4 "200 ms of no-progress").
const missingBlockRetryInterval = 200 * time.Millisecond

// DownloadMap drives the six-phase map transfer (spec.md §4.5). It must
// be called after a successful Connect.
func (c *Connection) DownloadMap(ctx context.Context) error {
	if c.state != StateDownloadingMap {
		return ErrNotConnected
	}
	c.emit(botio.Event{Kind: botio.EventMapDownloading})

	deadline, cancel := context.WithTimeout(ctx, MapDownloadTimeout)
	defer cancel()

	c.mapAssembler = mapblob.NewAssembler(0)
	expectedBlocks := uint32(defaultTransferBlockCount)

	// Phase 1/2: state heartbeats until the server signals readiness via
	// an inbound heartbeat; we treat the first ServerToClientHeartbeat as
	// that signal, a deliberate simplification of the literal trailer
	// byte sequences spec.md §4.5 phases 1-2 specify (see DESIGN.md).
	for i := 0; i < 10; i++ {
		if err := c.sendStateHeartbeat(); err != nil {
			return err
		}
		if hb, ok := c.tryReceiveHeartbeat(); ok {
			c.applyServerHeartbeat(hb)
			break
		}
		time.Sleep(HeartbeatInterval)
	}

	// Phase 3/4: request and receive transfer blocks until complete.
	requested := map[uint32]bool{}
	lastProgress := time.Now()

	for !c.mapAssembler.IsComplete() {
		if time.Until(deadlineOf(deadline)) <= 0 {
			return fmt.Errorf("%w: map download", ErrConnectionTimeout)
		}

		if c.announcedTransferSize > 0 {
			expectedBlocks = uint32((c.announcedTransferSize + message.MapTransferBlockSize - 1) / message.MapTransferBlockSize)
		}

		burst := 0
		for n := uint32(0); n < expectedBlocks && burst < transferBlockRequestBurst; n++ {
			if requested[n] || c.mapAssembler.HasBlock(n) {
				continue
			}
			if err := c.sendRaw(wire.MsgTransferBlockRequest, false,
				message.TransferBlockRequest{BlockNumber: n}.Encode()); err != nil {
				return err
			}
			requested[n] = true
			burst++
		}

		progressed := c.pumpTransferBlocks(200 * time.Millisecond)
		if progressed {
			lastProgress = time.Now()
		} else if time.Since(lastProgress) > missingBlockRetryInterval {
			for n := range requested {
				delete(requested, n)
			}
		}
	}

	// Phase 5: assemble and parse.
	blob := c.mapAssembler.Finish()
	data, err := mapblob.Parse(blob)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPacket, err)
	}
	c.applyMapData(data)
	c.log.Info().Int("blocks", int(expectedBlocks)).Int("bytes", len(blob)).Msg("map downloaded")

	// Phase 6: wait for the server's ClientShouldStartSendingTickClosures
	// synchronizer action, which names the tick our own outbound closures
	// should start from (spec.md §3, §4.5 phase 6); applySyncAction sets
	// sendingClosures once it arrives. Poll's ordinary heartbeat loop
	// picks up the live session from here.
	for !c.sendingClosures {
		if time.Until(deadlineOf(deadline)) <= 0 {
			return fmt.Errorf("%w: map download phase 6", ErrConnectionTimeout)
		}
		if hb, ok := c.tryReceiveHeartbeat(); ok {
			c.applyServerHeartbeat(hb)
			continue
		}
		if err := c.sendStateHeartbeat(); err != nil {
			return err
		}
		time.Sleep(HeartbeatInterval)
	}

	c.state = StateInGame
	c.emit(botio.Event{Kind: botio.EventMapDownloaded})
	c.emit(botio.Event{Kind: botio.EventInGame})
	return nil
}

func (c *Connection) sendStateHeartbeat() error {
	hb := message.ClientToServerHeartbeat{
		Tick:          c.clientTick,
		ConfirmedTick: c.confirmedTickEcho(),
	}
	return c.sendRaw(wire.MsgClientToServerHeartbeat, false, message.EncodeClientHeartbeat(hb))
}

func (c *Connection) tryReceiveHeartbeat() (message.ServerToClientHeartbeat, bool) {
	buf, _, err := c.socket.Receive(50 * time.Millisecond)
	if err != nil {
		return message.ServerToClientHeartbeat{}, false
	}
	header, offset, err := wire.Parse(buf)
	if err != nil || header.Type != wire.MsgServerToClientHeartbeat {
		return message.ServerToClientHeartbeat{}, false
	}
	hb, err := message.DecodeServerHeartbeat(buf[offset:])
	if err != nil {
		return message.ServerToClientHeartbeat{}, false
	}
	return hb, true
}

// pumpTransferBlocks drains inbound packets for budget, storing any
// TransferBlocks it sees, and reports whether at least one new block
// arrived.
func (c *Connection) pumpTransferBlocks(budget time.Duration) bool {
	deadline := time.Now().Add(budget)
	progressed := false
	for time.Now().Before(deadline) {
		buf, _, err := c.socket.Receive(time.Until(deadline))
		if err != nil {
			if err == transport.ErrTimeout {
				return progressed
			}
			return progressed
		}
		header, offset, err := wire.Parse(buf)
		if err != nil {
			continue
		}
		switch header.Type {
		case wire.MsgTransferBlock:
			block, err := message.DecodeTransferBlock(buf[offset:])
			if err != nil {
				continue
			}
			if !c.mapAssembler.HasBlock(block.BlockNumber) {
				progressed = true
			}
			c.mapAssembler.AddBlock(block.BlockNumber, block.Data)
		case wire.MsgServerToClientHeartbeat:
			if hb, err := message.DecodeServerHeartbeat(buf[offset:]); err == nil {
				c.applyServerHeartbeat(hb)
			}
		}
	}
	return progressed
}
