package protocol

import (
	"context"
	"time"

	"github.com/ancillary-agi/factorio-headless-client/internal/action"
	"github.com/ancillary-agi/factorio-headless-client/internal/botio"
	"github.com/ancillary-agi/factorio-headless-client/internal/follow"
	"github.com/ancillary-agi/factorio-headless-client/internal/message"
	"github.com/ancillary-agi/factorio-headless-client/internal/wire"
)

// Poll drains inbound packets, advances the active pursuit (if any), and
// sends one outbound heartbeat carrying any actions queued since the
// last call. It is meant to be called roughly once per HeartbeatInterval
// while State() == StateInGame (spec.md §4.5 "Live heartbeats").
func (c *Connection) Poll() error {
	if c.state != StateInGame {
		return ErrNotConnected
	}

	for {
		buf, _, err := c.socket.TryReceive()
		if err != nil {
			return err
		}
		if buf == nil {
			break
		}
		header, offset, err := wire.Parse(buf)
		if err != nil {
			continue
		}
		if c.metrics != nil {
			c.metrics.PacketsReceived.Inc()
			c.metrics.BytesReceived.Add(len(buf))
		}
		if header.Type != wire.MsgServerToClientHeartbeat {
			continue
		}
		hb, err := message.DecodeServerHeartbeat(buf[offset:])
		if err != nil {
			continue
		}
		c.applyServerHeartbeat(hb)
	}

	c.driveGoal()

	c.clientTick = c.nextClientTick()
	closures := c.drainClosure()
	hb := message.ClientToServerHeartbeat{
		Tick:           c.clientTick,
		ConfirmedTick:  c.confirmedTickEcho(),
		ClientTickLead: c.clientTickLead,
		Closures:       closures,
	}
	return c.sendRaw(wire.MsgClientToServerHeartbeat, false, message.EncodeClientHeartbeat(hb))
}

// drainClosure wraps every action queued since the last heartbeat into a
// single tick closure and clears the queue.
func (c *Connection) drainClosure() []message.TickClosure {
	if len(c.pendingActions) == 0 {
		return nil
	}
	actions := make([]message.SyncAction, len(c.pendingActions))
	for i, payload := range c.pendingActions {
		actions[i] = message.SyncAction{
			PlayerIndex: uint16(c.playerIndex),
			Type:        message.SyncPlayerAction,
			Payload:     payload,
		}
	}
	c.pendingActions = nil
	return []message.TickClosure{{Tick: c.clientTick, Actions: actions}}
}

// driveGoal advances the active pursuit by one tick, translating its
// walking decision into queued actions and surfacing status changes on
// the event channel.
func (c *Connection) driveGoal() {
	if c.pursuit == nil {
		return
	}
	local := c.world.Player(c.playerIndex, c.username)
	decision, status, dir := c.pursuit.Tick(c.world.Tick, local.Position)

	switch decision {
	case follow.DecisionStartWalking:
		_ = c.queueAction(action.StartWalking{Direction: dir})
	case follow.DecisionStopWalking:
		_ = c.queueAction(action.StopWalking{})
	}

	switch status {
	case follow.StatusArrived, follow.StatusNoPath, follow.StatusInterrupted, follow.StatusError:
		c.pursuit = nil
	}

	if status != follow.StatusNone {
		c.emit(botio.Event{Kind: botio.EventActionStatus, Tick: c.world.Tick, ActionStatus: status})
	}
}

// Run drives Poll on a HeartbeatInterval ticker until ctx is cancelled or
// Poll returns an error.
func (c *Connection) Run(ctx context.Context) error {
	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.Poll(); err != nil {
				c.lastDisconnectReason = err
				return err
			}
		}
	}
}
