package world

import (
	"strings"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// EntityType categorizes an entity for pathfinding (walkability) and
// follower decisions; it is a coarse subset of
// original_source/src/state/entity.rs's much larger enum, kept to the
// categories the core actually branches on.
type EntityType uint8

const (
	EntityUnknown EntityType = iota
	EntityResource
	EntityTree
	EntityCharacter
	EntityContainer
	EntityTransportBelt
	EntityInserter
	EntityAssemblingMachine
	EntityFurnace
	EntityMiningDrill
	EntityElectricPole
	EntityWall
	EntityTurret
	EntityRadar
	EntityRoboport
	EntitySolarPanel
	EntityAccumulator
	EntityLab
	EntityRocketSilo
)

// TypeFromName classifies a prototype name using the same substring
// heuristics as original_source's entity_type_from_name, since the map
// blob's prototype table gives names, not type tags.
func TypeFromName(name string) EntityType {
	switch {
	case strings.HasSuffix(name, "-ore") || name == "crude-oil" || name == "uranium-ore":
		return EntityResource
	case strings.HasPrefix(name, "tree-"):
		return EntityTree
	case name == "character":
		return EntityCharacter
	case strings.Contains(name, "transport-belt"):
		return EntityTransportBelt
	case strings.Contains(name, "inserter"):
		return EntityInserter
	case strings.Contains(name, "assembling-machine"):
		return EntityAssemblingMachine
	case strings.Contains(name, "furnace"):
		return EntityFurnace
	case strings.Contains(name, "mining-drill"):
		return EntityMiningDrill
	case strings.Contains(name, "electric-pole") || strings.Contains(name, "substation"):
		return EntityElectricPole
	case strings.Contains(name, "chest") || strings.Contains(name, "container"):
		return EntityContainer
	case strings.Contains(name, "turret"):
		return EntityTurret
	case strings.Contains(name, "wall"):
		return EntityWall
	case strings.Contains(name, "radar"):
		return EntityRadar
	case strings.Contains(name, "roboport"):
		return EntityRoboport
	case strings.Contains(name, "solar-panel"):
		return EntitySolarPanel
	case strings.Contains(name, "accumulator"):
		return EntityAccumulator
	case strings.Contains(name, "lab"):
		return EntityLab
	case strings.Contains(name, "rocket-silo"):
		return EntityRocketSilo
	default:
		return EntityUnknown
	}
}

// Entity is a mirrored world object: resource patch, building, tree,
// or character, indexed by an arena id rather than a pointer.
type Entity struct {
	ID        EntityID
	Name      string
	Type      EntityType
	Position  codec.MapPos
	Direction codec.Direction
	Health    *float32
	MaxHealth *float32

	// CollidesWithPlayer marks entities the pathfinder must route
	// around (spec.md §4.7 walkability oracle).
	CollidesWithPlayer bool
}

// NewEntity returns a new entity with an arena-assigned id. Collision is
// derived from its type classification, since the map blob's prototype
// table carries names only (spec.md §4.7 walkability oracle).
func NewEntity(id EntityID, name string, pos codec.MapPos) *Entity {
	typ := TypeFromName(name)
	return &Entity{ID: id, Name: name, Type: typ, Position: pos, CollidesWithPlayer: collidesByType(typ)}
}

// collidesByType reports whether entities of typ block player movement.
// Resources, trees, and characters don't collide; built structures do.
func collidesByType(typ EntityType) bool {
	switch typ {
	case EntityUnknown, EntityResource, EntityTree, EntityCharacter:
		return false
	default:
		return true
	}
}
