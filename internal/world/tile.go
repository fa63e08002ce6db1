// Package world provides the game board, its tile kinds and level generation.
package world

import (
	"sort"

	"github.com/samdwyer/sokogrump/internal/gamedata"
)

// Tile ids used by the bundled tile catalog.
const (
	KindFloor       = 0
	KindWall        = 1
	KindTarget      = 2
	KindBox         = 3
	KindVoid        = 4
	KindBoxOnTarget = 5
)

// TileKind is a terrain category backed by one sprite sheet.
type TileKind struct {
	ID          int
	Name        string
	SpriteSheet string
}

// Tile is the occupant of a single board cell.
type Tile struct {
	ID int
}

// IsPassable returns true if the player can stand on the tile.
func (t Tile) IsPassable() bool {
	return t.ID == KindFloor || t.ID == KindTarget
}

// KindsFromRegistry converts the catalog's tile definitions into tile kinds, ordered by id.
func KindsFromRegistry(reg *gamedata.TileRegistry) []TileKind {
	defs := reg.All()
	kinds := make([]TileKind, 0, len(defs))
	for _, d := range defs {
		kinds = append(kinds, TileKind{ID: d.ID, Name: d.Name, SpriteSheet: d.SpriteSheet})
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].ID < kinds[j].ID })
	return kinds
}
