package world

import "github.com/ancillary-agi/factorio-headless-client/internal/codec"

// InventoryKind names one of a player's inventory slots (SPEC_FULL §4.6,
// original_source/src/state/inventory.rs).
type InventoryKind uint8

const (
	InventoryCharacterMain InventoryKind = iota
	InventoryCharacterQuickbar
	InventoryCharacterTrash
	InventoryCharacterArmor
	InventoryCharacterGuns
	InventoryCharacterAmmo
	InventoryFuel
)

// Stack is one item stack: a name and count.
type Stack struct {
	Name  string
	Count uint32
}

// Player is a mirrored player/character: position, facing, cursor, and
// inventories (SPEC_FULL §4.6).
type Player struct {
	Index     PlayerIndex
	Username  string
	Connected bool

	Position        codec.MapPos
	Direction       codec.Direction
	Walking         bool
	WalkingDirection codec.Direction
	LastTickMoved   uint32
	Mining          bool
	Shooting        bool

	CursorStack     *Stack
	SelectedEntity  *EntityID

	Inventories map[InventoryKind][]Stack
}

// NewPlayer returns a fresh player record with empty inventories.
func NewPlayer(idx PlayerIndex, username string) *Player {
	return &Player{
		Index: idx, Username: username, Connected: true,
		Inventories: map[InventoryKind][]Stack{},
	}
}

// InventoryFor returns the slice backing kind, or nil if absent.
func (p *Player) InventoryFor(kind InventoryKind) []Stack {
	return p.Inventories[kind]
}

// SetInventory replaces the slots of one inventory kind wholesale (the
// server sends full-inventory snapshots, not per-slot diffs, per
// original_source/src/state/inventory.rs).
func (p *Player) SetInventory(kind InventoryKind, stacks []Stack) {
	p.Inventories[kind] = stacks
}

// CountItem sums the quantity of name across every inventory.
func (p *Player) CountItem(name string) uint32 {
	var total uint32
	for _, stacks := range p.Inventories {
		for _, s := range stacks {
			if s.Name == name {
				total += s.Count
			}
		}
	}
	return total
}
