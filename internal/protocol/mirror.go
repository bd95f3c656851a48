package protocol

import (
	"github.com/ancillary-agi/factorio-headless-client/internal/action"
	"github.com/ancillary-agi/factorio-headless-client/internal/botio"
	"github.com/ancillary-agi/factorio-headless-client/internal/mapblob"
	"github.com/ancillary-agi/factorio-headless-client/internal/message"
	"github.com/ancillary-agi/factorio-headless-client/internal/world"
)

// applyMapData populates the world mirror from a fully parsed map blob
// (spec.md §4.5 phase 5 "populate world mirror, extract prototype
// tables, seed character speed and spawn").
func (c *Connection) applyMapData(data *mapblob.MapData) {
	c.world.Seed = data.Seed
	c.world.Tick = uint32(data.InitialTick)
	c.characterSpeed = data.CharacterSpeed

	for _, blobSurface := range data.Surfaces {
		surf := c.world.Surface(world.SurfaceIndex(blobSurface.Index), blobSurface.Name)
		if blobSurface.Index == data.Surfaces[0].Index {
			c.surface = surf.Index
		}

		for _, bc := range blobSurface.Chunks {
			chunk := surf.ChunkAt(bc.Position)
			chunk.Generated = true
			chunk.Charted = true

			for _, t := range bc.Tiles {
				name, _ := data.Prototypes.TileName(t.PrototypeID)
				chunk.SetTile(t.X, t.Y, world.NewTile(name))
			}
			for _, e := range bc.Entities {
				name, _ := data.Prototypes.EntityName(e.PrototypeID)
				ent := world.NewEntity(c.world.NextEntityID(), name, e.Position)
				ent.Direction = e.Direction
				surf.AddEntity(ent)
			}
		}
	}

	local := c.world.Player(c.playerIndex, c.username)
	local.Position = data.StartPosition
}

// applyServerHeartbeat updates tick-clock state and walks any attached
// tick closures and confirmations (spec.md §4.5 "Processing inbound
// heartbeats").
func (c *Connection) applyServerHeartbeat(hb message.ServerToClientHeartbeat) {
	if hb.Tick > c.serverTick {
		c.serverTick = hb.Tick
	}
	for _, confirm := range hb.Confirms {
		c.hasConfirmedTick = true
		if confirm.Tick > c.confirmedTick {
			c.confirmedTick = confirm.Tick
		}
		// The server's reported checksum is only meaningfully comparable
		// against our own mirror once both sides have simulated up to the
		// same tick; a mismatch there is as far as this client goes toward
		// detecting desync (spec.md §4.6 "diagnosis, never recovery").
		if confirm.Tick == c.world.Tick && confirm.Checksum != c.world.Checksum() {
			c.log.Warn().Uint32("tick", confirm.Tick).Msg("checksum mismatch")
			c.emit(botio.Event{Kind: botio.EventDesync, Tick: confirm.Tick, Err: ErrDesync})
		}
	}
	for _, closure := range hb.Closures {
		c.applyTickClosure(closure)
	}
	for _, sync := range hb.Actions {
		c.applySyncAction(sync)
	}
	c.advanceWalkingPlayers()
}

// applySyncAction reacts to a synchronizer action carried in a
// heartbeat's tail (spec.md §4.4, §4.5): latency changes feed the tick
// clock, and the map-ready signal feeds the map download's block count.
func (c *Connection) applySyncAction(sync message.SyncAction) {
	payload, err := message.DecodeSyncPayload(sync.Type, sync.Payload)
	if err != nil {
		return
	}
	switch v := payload.(type) {
	case message.ChangeLatency:
		lead := int(v.Latency) - 3
		if lead < 1 {
			lead = 1
		}
		c.clientTickLead = uint16(lead)

	case message.ClientShouldStartSendingTickClosures:
		c.startSendingTick = uint32(v.Tick)
		c.sendingClosures = true
		c.clientTickPrimed = false

	case message.MapReadyForDownload:
		c.announcedTransferSize = v.TransferSize
	}
}

// applyTickClosure routes each embedded action by variant (spec.md §4.5
// "Applying observed actions"). A closure entry typed SyncPlayerAction
// carries an ordinary player input action (package action); every other
// SyncActionType is a synchronizer action and has no player to route to,
// so it's left to the heartbeat-tail handling in applySyncAction.
func (c *Connection) applyTickClosure(closure message.TickClosure) {
	for _, sync := range closure.Actions {
		if sync.Type != message.SyncPlayerAction {
			continue
		}
		a, _, err := action.Decode(sync.Payload)
		if err != nil {
			continue
		}
		c.applyObservedAction(world.PlayerIndex(sync.PlayerIndex), a)
	}
}

func (c *Connection) applyObservedAction(idx world.PlayerIndex, a action.Action) {
	switch v := a.(type) {
	case action.PlayerJoinGame:
		if v.Username == c.username {
			c.playerIndex = idx
			c.playerConfirmed = true
		}
		p := c.world.Player(idx, v.Username)
		p.Connected = true

	case action.PlayerLeaveGame:
		if p, ok := c.world.Players[idx]; ok {
			p.Connected = false
		}

	case action.StartWalking:
		p := c.world.Player(idx, "")
		c.advancePlayerWalk(p)
		p.Walking = true
		p.WalkingDirection = v.Direction
		p.LastTickMoved = c.world.Tick

	case action.StopWalking:
		p := c.world.Player(idx, "")
		c.advancePlayerWalk(p)
		p.Walking = false

	case action.BeginMining:
		if p, ok := c.world.Players[idx]; ok {
			p.Mining = true
		}
	case action.StopMining:
		if p, ok := c.world.Players[idx]; ok {
			p.Mining = false
		}

	case action.ChangeShootingState:
		if p, ok := c.world.Players[idx]; ok {
			p.Shooting = v.Shooting
		}
	}
}

// advanceWalkingPlayers sweeps every walking player forward by elapsed
// ticks x character speed in a single step (spec.md §4.5 "Between observed
// actions, a per-tick sweep...").
func (c *Connection) advanceWalkingPlayers() {
	for _, p := range c.world.Players {
		if !p.Walking {
			continue
		}
		c.advancePlayerWalk(p)
	}
}

func (c *Connection) advancePlayerWalk(p *world.Player) {
	if !p.Walking || c.world.Tick <= p.LastTickMoved {
		return
	}
	elapsed := c.world.Tick - p.LastTickMoved
	speed := c.characterSpeed
	modifier := 1.0
	if surf, ok := c.world.Surfaces[c.surface]; ok {
		if tile, ok := surf.TileAt(p.Position.Tile()); ok {
			modifier = tile.WalkingSpeedModifier
		}
	}
	p.Position = world.AdvanceWalking(p.Position, p.WalkingDirection, speed*float64(elapsed), modifier)
	p.LastTickMoved = c.world.Tick
}
