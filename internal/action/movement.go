package action

import "github.com/ancillary-agi/factorio-headless-client/internal/codec"

// StartWalking begins player movement in a facing.
type StartWalking struct {
	Direction codec.Direction
}

func (StartWalking) TypeID() TypeID { return TypeStartWalking }
func (a StartWalking) encode(w *codec.Writer) {
	w.Direction(a.Direction)
}
func (StartWalking) sealed() {}

// StopWalking halts player movement.
type StopWalking struct{}

func (StopWalking) TypeID() TypeID     { return TypeStopWalking }
func (StopWalking) encode(w *codec.Writer) {}
func (StopWalking) sealed()            {}

// BeginMining starts mining the entity or tile at a position.
type BeginMining struct {
	Position codec.MapPos
}

func (BeginMining) TypeID() TypeID { return TypeBeginMining }
func (a BeginMining) encode(w *codec.Writer) {
	w.MapPosition(a.Position)
}
func (BeginMining) sealed() {}

// StopMining halts the current mining action.
type StopMining struct{}

func (StopMining) TypeID() TypeID         { return TypeStopMining }
func (StopMining) encode(w *codec.Writer) {}
func (StopMining) sealed()                {}

// ChangeShootingState starts or stops shooting at a position.
type ChangeShootingState struct {
	Shooting bool
	Target   codec.MapPos
}

func (ChangeShootingState) TypeID() TypeID { return TypeChangeShootingState }
func (a ChangeShootingState) encode(w *codec.Writer) {
	w.Bool(a.Shooting)
	w.MapPosition(a.Target)
}
func (ChangeShootingState) sealed() {}

func init() {
	register(TypeStartWalking, func(r *codec.Reader) (Action, error) {
		d, err := r.Direction()
		if err != nil {
			return nil, err
		}
		return StartWalking{Direction: d}, nil
	})
	register(TypeStopWalking, func(r *codec.Reader) (Action, error) {
		return StopWalking{}, nil
	})
	register(TypeBeginMining, func(r *codec.Reader) (Action, error) {
		pos, err := r.MapPosition()
		if err != nil {
			return nil, err
		}
		return BeginMining{Position: pos}, nil
	})
	register(TypeStopMining, func(r *codec.Reader) (Action, error) {
		return StopMining{}, nil
	})
	register(TypeChangeShootingState, func(r *codec.Reader) (Action, error) {
		shooting, err := r.Bool()
		if err != nil {
			return nil, err
		}
		target, err := r.MapPosition()
		if err != nil {
			return nil, err
		}
		return ChangeShootingState{Shooting: shooting, Target: target}, nil
	})
}
