package mapblob

import (
	"fmt"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// PrototypeTable maps the blob's own prototype id tables (entity, item,
// recipe, tile) to names, resolved before the chunk stream is parsed so
// entity/tile prototype ids can be named immediately.
type PrototypeTable struct {
	Entities map[uint16]string
	Items    map[uint16]string
	Recipes  map[uint16]string
	Tiles    map[uint16]string
}

// EntityName looks up an entity prototype id.
func (t *PrototypeTable) EntityName(id uint16) (string, bool) {
	name, ok := t.Entities[id]
	return name, ok
}

// TileName looks up a tile prototype id.
func (t *PrototypeTable) TileName(id uint16) (string, bool) {
	name, ok := t.Tiles[id]
	return name, ok
}

// ParsePrototypeTable reads the id->name tables at the head of the
// decompressed map blob: a count-prefixed list of (table name, entry
// count, [id, name]... ) groups (original_source/src/codec/map_transfer.rs
// PrototypeMappings).
func ParsePrototypeTable(r *codec.Reader) (*PrototypeTable, error) {
	t := &PrototypeTable{
		Entities: map[uint16]string{},
		Items:    map[uint16]string{},
		Recipes:  map[uint16]string{},
		Tiles:    map[uint16]string{},
	}

	groupCount, err := r.OptU32()
	if err != nil {
		return nil, fmt.Errorf("mapblob: prototype group count: %w", err)
	}
	for g := uint32(0); g < groupCount; g++ {
		tableName, err := r.SimpleString()
		if err != nil {
			return nil, fmt.Errorf("mapblob: prototype group %d name: %w", g, err)
		}
		entryCount, err := r.OptU32()
		if err != nil {
			return nil, fmt.Errorf("mapblob: prototype group %q entry count: %w", tableName, err)
		}
		dest := t.tableFor(tableName)
		for i := uint32(0); i < entryCount; i++ {
			id, err := r.U16()
			if err != nil {
				return nil, fmt.Errorf("mapblob: prototype %q entry %d id: %w", tableName, i, err)
			}
			name, err := r.SimpleString()
			if err != nil {
				return nil, fmt.Errorf("mapblob: prototype %q entry %d name: %w", tableName, i, err)
			}
			if dest != nil {
				dest[id] = name
			}
		}
	}
	return t, nil
}

func (t *PrototypeTable) tableFor(name string) map[uint16]string {
	switch name {
	case "Entity":
		return t.Entities
	case "ItemPrototype":
		return t.Items
	case "Recipe":
		return t.Recipes
	case "TilePrototype":
		return t.Tiles
	default:
		return nil
	}
}
