package world

import "github.com/ancillary-agi/factorio-headless-client/internal/codec"

// Vector2 is a 2D tile-space vector, adapted from the teacher's generic
// math library down to the one operation the world mirror needs:
// integrating a walking player's position one tick at a time.
type Vector2 struct {
	X, Y float64
}

// Add returns v+other.
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Mul returns v scaled by scalar.
func (v Vector2) Mul(scalar float64) Vector2 {
	return Vector2{X: v.X * scalar, Y: v.Y * scalar}
}

// AdvanceWalking integrates a player's position by one tick of walking
// at characterSpeed tiles/tick, modulated by the walking-speed modifier
// of the tile underfoot (spec.md §4.6 "advance the player's position by
// elapsed_ticks x character_speed x tile modifier").
func AdvanceWalking(pos codec.MapPos, dir codec.Direction, characterSpeed, tileModifier float64) codec.MapPos {
	dx, dy := dir.Vector()
	step := Vector2{X: dx, Y: dy}.Mul(characterSpeed * tileModifier)

	x, y := pos.ToTiles()
	next := Vector2{X: x, Y: y}.Add(step)
	return codec.MapPos{
		X: codec.FixedFromTiles(next.X),
		Y: codec.FixedFromTiles(next.Y),
	}
}
