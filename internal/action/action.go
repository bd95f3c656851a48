// Package action implements Factorio's input-action variant space: the
// player-issued commands carried inside a tick closure (spec.md §3,
// §6.3). The full wire space is roughly 330 variants; this package gives
// full typed payloads to the subset the core actually drives (movement,
// mining, building, crafting, chat, inventory manipulation) and falls
// back to Opaque for everything else so parsing never fails on an
// action kind this client doesn't model.
package action

import (
	"fmt"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// TypeID identifies an input-action variant on the wire.
type TypeID uint16

const (
	TypeStartWalking TypeID = iota + 1
	TypeStopWalking
	TypeBeginMining
	TypeStopMining
	TypePlaceEntity
	TypeRotateEntity
	TypeCraftItem
	TypeSetResearch
	TypeSendChatMessage
	TypeRunServerCommand
	TypeSetFilter
	TypeCursorTransfer
	TypeStackTransfer
	TypeInventoryTransfer
	TypeCursorSplit
	TypeStackSplit
	TypeDropItem
	TypeUseItem
	TypeSetGhostCursor
	TypeImportBlueprintString
	TypeStartWireDragging
	TypeEndWireDragging
	TypeDeconstructArea
	TypeCopyEntitySettings
	TypePasteEntitySettings
	TypeLaunchRocket
	TypeToggleDriving
	TypeDrive
	TypePlayerJoinGame
	TypePlayerLeaveGame
	TypeChangeShootingState
)

// Action is a sealed sum type: every input-action variant this package
// knows about, plus Opaque for anything it doesn't.
type Action interface {
	TypeID() TypeID
	encode(w *codec.Writer)
	sealed()
}

// Encode writes a's type id (variable-width, per spec.md §6.3: one byte
// if < 0xFF, else 0xFF followed by a little-endian u16) followed by its
// payload.
func Encode(a Action) []byte {
	w := codec.NewWriter()
	w.OptU16(uint16(a.TypeID()))
	a.encode(w)
	return w.Bytes()
}

// decoders maps a type id to a function that reads its payload (the type
// id itself has already been consumed).
var decoders = map[TypeID]func(r *codec.Reader) (Action, error){}

func register(id TypeID, fn func(r *codec.Reader) (Action, error)) {
	decoders[id] = fn
}

// Decode reads one action's type id and payload from buf, returning the
// remaining unread bytes' offset. Unknown type ids decode to Opaque
// rather than failing, so tick-closure parsing stays total.
func Decode(buf []byte) (Action, int, error) {
	r := codec.NewReader(buf)
	rawID, err := r.OptU16()
	if err != nil {
		return nil, 0, fmt.Errorf("action: read type id: %w", err)
	}
	id := TypeID(rawID)
	if dec, ok := decoders[id]; ok {
		a, err := dec(r)
		if err != nil {
			return nil, 0, fmt.Errorf("action: decode %d: %w", id, err)
		}
		return a, r.Pos(), nil
	}
	rest := r.Rest()
	payload := make([]byte, len(rest))
	copy(payload, rest)
	return Opaque{TypeID_: id, Payload: payload}, len(buf), nil
}

// Opaque carries an action this package has no typed payload for.
type Opaque struct {
	TypeID_ TypeID
	Payload []byte
}

func (o Opaque) TypeID() TypeID { return o.TypeID_ }
func (o Opaque) encode(w *codec.Writer) {
	w.Raw(o.Payload)
}
func (o Opaque) sealed() {}
