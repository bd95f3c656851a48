package action

import "github.com/ancillary-agi/factorio-headless-client/internal/codec"

// PlaceEntity builds an item from the cursor stack at a position/facing.
type PlaceEntity struct {
	Position  codec.MapPos
	Direction codec.Direction
	Item      string
}

func (PlaceEntity) TypeID() TypeID { return TypePlaceEntity }
func (a PlaceEntity) encode(w *codec.Writer) {
	w.MapPosition(a.Position)
	w.Direction(a.Direction)
	w.SimpleString(a.Item)
}
func (PlaceEntity) sealed() {}

// RotateEntity rotates the entity at a position one step.
type RotateEntity struct {
	Position codec.MapPos
}

func (RotateEntity) TypeID() TypeID { return TypeRotateEntity }
func (a RotateEntity) encode(w *codec.Writer) {
	w.MapPosition(a.Position)
}
func (RotateEntity) sealed() {}

// DeconstructArea marks every deconstructible entity in a rectangle.
type DeconstructArea struct {
	LeftTop     codec.MapPos
	RightBottom codec.MapPos
}

func (DeconstructArea) TypeID() TypeID { return TypeDeconstructArea }
func (a DeconstructArea) encode(w *codec.Writer) {
	w.MapPosition(a.LeftTop)
	w.MapPosition(a.RightBottom)
}
func (DeconstructArea) sealed() {}

// CopyEntitySettings copies the settings of the entity at a position
// onto the cursor, for a later PasteEntitySettings.
type CopyEntitySettings struct {
	Position codec.MapPos
}

func (CopyEntitySettings) TypeID() TypeID { return TypeCopyEntitySettings }
func (a CopyEntitySettings) encode(w *codec.Writer) {
	w.MapPosition(a.Position)
}
func (CopyEntitySettings) sealed() {}

// PasteEntitySettings applies copied settings onto the entity at a position.
type PasteEntitySettings struct {
	Position codec.MapPos
}

func (PasteEntitySettings) TypeID() TypeID { return TypePasteEntitySettings }
func (a PasteEntitySettings) encode(w *codec.Writer) {
	w.MapPosition(a.Position)
}
func (PasteEntitySettings) sealed() {}

// StartWireDragging begins dragging a copper/circuit wire from a position.
type StartWireDragging struct {
	Position codec.MapPos
}

func (StartWireDragging) TypeID() TypeID { return TypeStartWireDragging }
func (a StartWireDragging) encode(w *codec.Writer) {
	w.MapPosition(a.Position)
}
func (StartWireDragging) sealed() {}

// EndWireDragging completes a wire drag at a position.
type EndWireDragging struct {
	Position codec.MapPos
}

func (EndWireDragging) TypeID() TypeID { return TypeEndWireDragging }
func (a EndWireDragging) encode(w *codec.Writer) {
	w.MapPosition(a.Position)
}
func (EndWireDragging) sealed() {}

// LaunchRocket triggers the rocket silo at a position to launch.
type LaunchRocket struct {
	Position codec.MapPos
}

func (LaunchRocket) TypeID() TypeID { return TypeLaunchRocket }
func (a LaunchRocket) encode(w *codec.Writer) {
	w.MapPosition(a.Position)
}
func (LaunchRocket) sealed() {}

func init() {
	register(TypePlaceEntity, func(r *codec.Reader) (Action, error) {
		pos, err := r.MapPosition()
		if err != nil {
			return nil, err
		}
		dir, err := r.Direction()
		if err != nil {
			return nil, err
		}
		item, err := r.SimpleString()
		if err != nil {
			return nil, err
		}
		return PlaceEntity{Position: pos, Direction: dir, Item: item}, nil
	})
	register(TypeRotateEntity, func(r *codec.Reader) (Action, error) {
		pos, err := r.MapPosition()
		if err != nil {
			return nil, err
		}
		return RotateEntity{Position: pos}, nil
	})
	register(TypeDeconstructArea, func(r *codec.Reader) (Action, error) {
		lt, err := r.MapPosition()
		if err != nil {
			return nil, err
		}
		rb, err := r.MapPosition()
		if err != nil {
			return nil, err
		}
		return DeconstructArea{LeftTop: lt, RightBottom: rb}, nil
	})
	register(TypeCopyEntitySettings, func(r *codec.Reader) (Action, error) {
		pos, err := r.MapPosition()
		if err != nil {
			return nil, err
		}
		return CopyEntitySettings{Position: pos}, nil
	})
	register(TypePasteEntitySettings, func(r *codec.Reader) (Action, error) {
		pos, err := r.MapPosition()
		if err != nil {
			return nil, err
		}
		return PasteEntitySettings{Position: pos}, nil
	})
	register(TypeStartWireDragging, func(r *codec.Reader) (Action, error) {
		pos, err := r.MapPosition()
		if err != nil {
			return nil, err
		}
		return StartWireDragging{Position: pos}, nil
	})
	register(TypeEndWireDragging, func(r *codec.Reader) (Action, error) {
		pos, err := r.MapPosition()
		if err != nil {
			return nil, err
		}
		return EndWireDragging{Position: pos}, nil
	})
	register(TypeLaunchRocket, func(r *codec.Reader) (Action, error) {
		pos, err := r.MapPosition()
		if err != nil {
			return nil, err
		}
		return LaunchRocket{Position: pos}, nil
	})
}
