package action

import "github.com/ancillary-agi/factorio-headless-client/internal/codec"

// CraftItem queues a recipe for crafting, optionally repeated.
type CraftItem struct {
	Recipe string
	Count  uint32
}

func (CraftItem) TypeID() TypeID { return TypeCraftItem }
func (a CraftItem) encode(w *codec.Writer) {
	w.SimpleString(a.Recipe)
	w.OptU32(a.Count)
}
func (CraftItem) sealed() {}

// SetResearch sets the active technology research.
type SetResearch struct {
	Technology string
}

func (SetResearch) TypeID() TypeID { return TypeSetResearch }
func (a SetResearch) encode(w *codec.Writer) {
	w.SimpleString(a.Technology)
}
func (SetResearch) sealed() {}

// SendChatMessage sends a chat line visible to other players.
type SendChatMessage struct {
	Text string
}

func (SendChatMessage) TypeID() TypeID { return TypeSendChatMessage }
func (a SendChatMessage) encode(w *codec.Writer) {
	w.String(a.Text)
}
func (SendChatMessage) sealed() {}

// RunServerCommand invokes an admin/server-side command.
type RunServerCommand struct {
	Command string
	Params  string
}

func (RunServerCommand) TypeID() TypeID { return TypeRunServerCommand }
func (a RunServerCommand) encode(w *codec.Writer) {
	w.String(a.Command)
	w.String(a.Params)
}
func (RunServerCommand) sealed() {}

// SetFilter sets the item filter of an inventory slot (e.g. a logistic
// chest request slot or quickbar filter).
type SetFilter struct {
	Inventory InventoryKind
	Slot      uint16
	ItemName  string
}

func (SetFilter) TypeID() TypeID { return TypeSetFilter }
func (a SetFilter) encode(w *codec.Writer) {
	w.U8(uint8(a.Inventory))
	w.U16(a.Slot)
	w.SimpleString(a.ItemName)
}
func (SetFilter) sealed() {}

// ToggleDriving enters or exits the vehicle at the player's position.
type ToggleDriving struct{}

func (ToggleDriving) TypeID() TypeID         { return TypeToggleDriving }
func (ToggleDriving) encode(w *codec.Writer) {}
func (ToggleDriving) sealed()                {}

// Drive steers the vehicle the player currently occupies.
type Drive struct {
	Forward bool
	Reverse bool
	Left    bool
	Right   bool
}

func (Drive) TypeID() TypeID { return TypeDrive }
func (a Drive) encode(w *codec.Writer) {
	var b uint8
	if a.Forward {
		b |= 1
	}
	if a.Reverse {
		b |= 2
	}
	if a.Left {
		b |= 4
	}
	if a.Right {
		b |= 8
	}
	w.U8(b)
}
func (Drive) sealed() {}

// PlayerJoinGame signals a player has entered the game world.
type PlayerJoinGame struct {
	PlayerIndex uint16
	Username    string
}

func (PlayerJoinGame) TypeID() TypeID { return TypePlayerJoinGame }
func (a PlayerJoinGame) encode(w *codec.Writer) {
	w.U16(a.PlayerIndex)
	w.SimpleString(a.Username)
}
func (PlayerJoinGame) sealed() {}

// PlayerLeaveGame signals a player has left the game world.
type PlayerLeaveGame struct {
	PlayerIndex uint16
}

func (PlayerLeaveGame) TypeID() TypeID { return TypePlayerLeaveGame }
func (a PlayerLeaveGame) encode(w *codec.Writer) {
	w.U16(a.PlayerIndex)
}
func (PlayerLeaveGame) sealed() {}

func init() {
	register(TypeCraftItem, func(r *codec.Reader) (Action, error) {
		recipe, err := r.SimpleString()
		if err != nil {
			return nil, err
		}
		count, err := r.OptU32()
		if err != nil {
			return nil, err
		}
		return CraftItem{Recipe: recipe, Count: count}, nil
	})
	register(TypeSetResearch, func(r *codec.Reader) (Action, error) {
		tech, err := r.SimpleString()
		if err != nil {
			return nil, err
		}
		return SetResearch{Technology: tech}, nil
	})
	register(TypeSendChatMessage, func(r *codec.Reader) (Action, error) {
		text, err := r.String()
		if err != nil {
			return nil, err
		}
		return SendChatMessage{Text: text}, nil
	})
	register(TypeRunServerCommand, func(r *codec.Reader) (Action, error) {
		cmd, err := r.String()
		if err != nil {
			return nil, err
		}
		params, err := r.String()
		if err != nil {
			return nil, err
		}
		return RunServerCommand{Command: cmd, Params: params}, nil
	})
	register(TypeSetFilter, func(r *codec.Reader) (Action, error) {
		inv, err := r.U8()
		if err != nil {
			return nil, err
		}
		slot, err := r.U16()
		if err != nil {
			return nil, err
		}
		item, err := r.SimpleString()
		if err != nil {
			return nil, err
		}
		return SetFilter{Inventory: InventoryKind(inv), Slot: slot, ItemName: item}, nil
	})
	register(TypeToggleDriving, func(r *codec.Reader) (Action, error) {
		return ToggleDriving{}, nil
	})
	register(TypeDrive, func(r *codec.Reader) (Action, error) {
		b, err := r.U8()
		if err != nil {
			return nil, err
		}
		return Drive{
			Forward: b&1 != 0, Reverse: b&2 != 0, Left: b&4 != 0, Right: b&8 != 0,
		}, nil
	})
	register(TypePlayerJoinGame, func(r *codec.Reader) (Action, error) {
		idx, err := r.U16()
		if err != nil {
			return nil, err
		}
		name, err := r.SimpleString()
		if err != nil {
			return nil, err
		}
		return PlayerJoinGame{PlayerIndex: idx, Username: name}, nil
	})
	register(TypePlayerLeaveGame, func(r *codec.Reader) (Action, error) {
		idx, err := r.U16()
		if err != nil {
			return nil, err
		}
		return PlayerLeaveGame{PlayerIndex: idx}, nil
	})
}
