package action

import "github.com/ancillary-agi/factorio-headless-client/internal/codec"

// InventoryKind names one of a player's inventory slots (matches
// internal/world.InventoryKind; duplicated here to keep action free of
// a dependency on world).
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

// CursorTransfer moves a single item from an inventory slot to the cursor.
type CursorTransfer struct {
	FromInventory InventoryKind
	FromSlot      uint16
}

func (CursorTransfer) TypeID() TypeID { return TypeCursorTransfer }
func (a CursorTransfer) encode(w *codec.Writer) {
	w.U8(uint8(a.FromInventory))
	w.U16(a.FromSlot)
}
func (CursorTransfer) sealed() {}

// StackTransfer moves a whole stack between two inventory slots.
type StackTransfer struct {
	FromInventory InventoryKind
	FromSlot      uint16
	ToInventory   InventoryKind
	ToSlot        uint16
}

func (StackTransfer) TypeID() TypeID { return TypeStackTransfer }
func (a StackTransfer) encode(w *codec.Writer) {
	w.U8(uint8(a.FromInventory))
	w.U16(a.FromSlot)
	w.U8(uint8(a.ToInventory))
	w.U16(a.ToSlot)
}
func (StackTransfer) sealed() {}

// InventoryTransfer moves every item of a kind between two inventories.
type InventoryTransfer struct {
	FromInventory InventoryKind
	ToInventory   InventoryKind
}

func (InventoryTransfer) TypeID() TypeID { return TypeInventoryTransfer }
func (a InventoryTransfer) encode(w *codec.Writer) {
	w.U8(uint8(a.FromInventory))
	w.U8(uint8(a.ToInventory))
}
func (InventoryTransfer) sealed() {}

// CursorSplit moves half a stack from a slot to the cursor.
type CursorSplit struct {
	FromInventory InventoryKind
	FromSlot      uint16
}

func (CursorSplit) TypeID() TypeID { return TypeCursorSplit }
func (a CursorSplit) encode(w *codec.Writer) {
	w.U8(uint8(a.FromInventory))
	w.U16(a.FromSlot)
}
func (CursorSplit) sealed() {}

// StackSplit moves half a stack between two inventory slots.
type StackSplit struct {
	FromInventory InventoryKind
	FromSlot      uint16
	ToInventory   InventoryKind
	ToSlot        uint16
}

func (StackSplit) TypeID() TypeID { return TypeStackSplit }
func (a StackSplit) encode(w *codec.Writer) {
	w.U8(uint8(a.FromInventory))
	w.U16(a.FromSlot)
	w.U8(uint8(a.ToInventory))
	w.U16(a.ToSlot)
}
func (StackSplit) sealed() {}

// DropItem drops the cursor stack (or a slot's stack) onto the ground.
type DropItem struct {
	Position codec.MapPos
}

func (DropItem) TypeID() TypeID { return TypeDropItem }
func (a DropItem) encode(w *codec.Writer) {
	w.MapPosition(a.Position)
}
func (DropItem) sealed() {}

// UseItem activates the held item (e.g. a capsule or blueprint).
type UseItem struct {
	Position codec.MapPos
}

func (UseItem) TypeID() TypeID { return TypeUseItem }
func (a UseItem) encode(w *codec.Writer) {
	w.MapPosition(a.Position)
}
func (UseItem) sealed() {}

// SetGhostCursor sets the cursor to a ghost-placement preview of an entity.
type SetGhostCursor struct {
	EntityName string
}

func (SetGhostCursor) TypeID() TypeID { return TypeSetGhostCursor }
func (a SetGhostCursor) encode(w *codec.Writer) {
	w.SimpleString(a.EntityName)
}
func (SetGhostCursor) sealed() {}

// ImportBlueprintString loads a blueprint string onto the cursor.
type ImportBlueprintString struct {
	Data string
}

func (ImportBlueprintString) TypeID() TypeID { return TypeImportBlueprintString }
func (a ImportBlueprintString) encode(w *codec.Writer) {
	w.String(a.Data)
}
func (ImportBlueprintString) sealed() {}

func init() {
	register(TypeCursorTransfer, func(r *codec.Reader) (Action, error) {
		inv, err := r.U8()
		if err != nil {
			return nil, err
		}
		slot, err := r.U16()
		if err != nil {
			return nil, err
		}
		return CursorTransfer{FromInventory: InventoryKind(inv), FromSlot: slot}, nil
	})
	register(TypeStackTransfer, func(r *codec.Reader) (Action, error) {
		fromInv, err := r.U8()
		if err != nil {
			return nil, err
		}
		fromSlot, err := r.U16()
		if err != nil {
			return nil, err
		}
		toInv, err := r.U8()
		if err != nil {
			return nil, err
		}
		toSlot, err := r.U16()
		if err != nil {
			return nil, err
		}
		return StackTransfer{
			FromInventory: InventoryKind(fromInv), FromSlot: fromSlot,
			ToInventory: InventoryKind(toInv), ToSlot: toSlot,
		}, nil
	})
	register(TypeInventoryTransfer, func(r *codec.Reader) (Action, error) {
		fromInv, err := r.U8()
		if err != nil {
			return nil, err
		}
		toInv, err := r.U8()
		if err != nil {
			return nil, err
		}
		return InventoryTransfer{FromInventory: InventoryKind(fromInv), ToInventory: InventoryKind(toInv)}, nil
	})
	register(TypeCursorSplit, func(r *codec.Reader) (Action, error) {
		inv, err := r.U8()
		if err != nil {
			return nil, err
		}
		slot, err := r.U16()
		if err != nil {
			return nil, err
		}
		return CursorSplit{FromInventory: InventoryKind(inv), FromSlot: slot}, nil
	})
	register(TypeStackSplit, func(r *codec.Reader) (Action, error) {
		fromInv, err := r.U8()
		if err != nil {
			return nil, err
		}
		fromSlot, err := r.U16()
		if err != nil {
			return nil, err
		}
		toInv, err := r.U8()
		if err != nil {
			return nil, err
		}
		toSlot, err := r.U16()
		if err != nil {
			return nil, err
		}
		return StackSplit{
			FromInventory: InventoryKind(fromInv), FromSlot: fromSlot,
			ToInventory: InventoryKind(toInv), ToSlot: toSlot,
		}, nil
	})
	register(TypeDropItem, func(r *codec.Reader) (Action, error) {
		pos, err := r.MapPosition()
		if err != nil {
			return nil, err
		}
		return DropItem{Position: pos}, nil
	})
	register(TypeUseItem, func(r *codec.Reader) (Action, error) {
		pos, err := r.MapPosition()
		if err != nil {
			return nil, err
		}
		return UseItem{Position: pos}, nil
	})
	register(TypeSetGhostCursor, func(r *codec.Reader) (Action, error) {
		name, err := r.SimpleString()
		if err != nil {
			return nil, err
		}
		return SetGhostCursor{EntityName: name}, nil
	})
	register(TypeImportBlueprintString, func(r *codec.Reader) (Action, error) {
		data, err := r.String()
		if err != nil {
			return nil, err
		}
		return ImportBlueprintString{Data: data}, nil
	})
}
