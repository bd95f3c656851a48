package protocol

import (
	"github.com/ancillary-agi/factorio-headless-client/internal/action"
	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
	"github.com/ancillary-agi/factorio-headless-client/internal/follow"
	"github.com/ancillary-agi/factorio-headless-client/internal/pathfind"
)

// queueAction appends an encoded action to the outbound tick closure
// Poll will flush on its next heartbeat (spec.md §4.5 "Issuing actions").
func (c *Connection) queueAction(a action.Action) error {
	if c.state != StateInGame {
		return ErrNotConnected
	}
	c.pendingActions = append(c.pendingActions, action.Encode(a))
	return nil
}

// Walk starts the local player walking in a facing.
func (c *Connection) Walk(dir codec.Direction) error {
	return c.queueAction(action.StartWalking{Direction: dir})
}

// StopWalk halts the local player's movement.
func (c *Connection) StopWalk() error {
	return c.queueAction(action.StopWalking{})
}

// Mine begins mining the entity or tile at pos.
func (c *Connection) Mine(pos codec.MapPos) error {
	return c.queueAction(action.BeginMining{Position: pos})
}

// StopMining halts the current mining action.
func (c *Connection) StopMining() error {
	return c.queueAction(action.StopMining{})
}

// Shoot starts or stops shooting at target.
func (c *Connection) Shoot(target codec.MapPos, shooting bool) error {
	return c.queueAction(action.ChangeShootingState{Shooting: shooting, Target: target})
}

// Chat sends a chat line visible to other players.
func (c *Connection) Chat(text string) error {
	return c.queueAction(action.SendChatMessage{Text: text})
}

// RunServerCommand invokes an admin/server-side command.
func (c *Connection) RunServerCommand(command, params string) error {
	return c.queueAction(action.RunServerCommand{Command: command, Params: params})
}

// Craft queues a recipe for crafting, optionally repeated count times.
func (c *Connection) Craft(recipe string, count uint32) error {
	return c.queueAction(action.CraftItem{Recipe: recipe, Count: count})
}

// PlaceEntity builds item from the cursor stack at pos, facing dir.
func (c *Connection) PlaceEntity(pos codec.MapPos, dir codec.Direction, item string) error {
	return c.queueAction(action.PlaceEntity{Position: pos, Direction: dir, Item: item})
}

// Goto plans a path from the local player's current tile to goal and
// begins driving it; Poll advances the pursuit each tick and reports
// progress as botio.EventActionStatus events (spec.md §4.8 "Issuing a
// movement goal"). Replaces any pursuit already in progress.
func (c *Connection) Goto(goal codec.TilePos) error {
	if c.state != StateInGame {
		return ErrNotConnected
	}
	local := c.world.Player(c.playerIndex, c.username)
	w := mirrorWalkability{w: c.world, surface: c.surface}
	pursuit, err := follow.NewPursuit(local.Position.Tile(), goal, w, pathfind.DefaultMaxNodes, follow.DefaultTolerance, c.world.Tick)
	if err != nil {
		return err
	}
	c.pursuit = pursuit
	return nil
}

// StopGoto interrupts any movement goal in progress.
func (c *Connection) StopGoto() {
	if c.pursuit != nil {
		c.pursuit.Interrupt()
	}
	c.pursuit = nil
}
