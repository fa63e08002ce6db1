package gamedata

import (
	"errors"
	"sort"
)

// TileRegistry holds loaded tile definitions and provides lookup utilities.
type TileRegistry struct {
	tiles    map[int]*TileDef
	all      []TileDef
	player   TileDef
	families []FamilyDef
	tileSize int
}

// NewTileRegistry creates a registry from a loaded tile catalog.
func NewTileRegistry(file TilesFile) *TileRegistry {
	registry := &TileRegistry{
		tiles:    make(map[int]*TileDef),
		all:      file.Tiles,
		player:   file.Player,
		families: file.Families,
		tileSize: file.TileSize,
	}
	for i := range registry.all {
		registry.tiles[registry.all[i].ID] = &registry.all[i]
	}
	return registry
}

// LoadTileRegistry loads and creates a registry from the embedded tiles.json.
func LoadTileRegistry() (*TileRegistry, error) {
	file, err := LoadTiles()
	if err != nil {
		return nil, err
	}
	if len(file.Tiles) == 0 {
		return nil, errors.New("no tiles loaded from tiles.json")
	}
	return NewTileRegistry(file), nil
}

// MustLoadTileRegistry loads a registry, panicking on error.
func MustLoadTileRegistry() *TileRegistry {
	registry, err := LoadTileRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the tile definition with the given id, or nil if not found.
func (r *TileRegistry) GetByID(id int) *TileDef {
	return r.tiles[id]
}

// GetByName returns the tile definition with the given name, or nil if not found.
func (r *TileRegistry) GetByName(name string) *TileDef {
	for i := range r.all {
		if r.all[i].Name == name {
			return &r.all[i]
		}
	}
	return nil
}

// All returns all tile definitions.
func (r *TileRegistry) All() []TileDef {
	return r.all
}

// Player returns the player sprite definition.
func (r *TileRegistry) Player() TileDef {
	return r.player
}

// TileSize returns the side of one tile in pixels.
func (r *TileRegistry) TileSize() int {
	return r.tileSize
}

// Families returns the auto-tiling families.
func (r *TileRegistry) Families() []FamilyDef {
	return r.families
}

// AutoTiling maps every auto-tiled kind to the ids it connects to.
func (r *TileRegistry) AutoTiling() map[int][]int {
	out := make(map[int][]int)
	for _, fam := range r.families {
		matches := append([]int(nil), fam.Matches...)
		sort.Ints(matches)
		for _, id := range fam.Autotiled {
			out[id] = matches
		}
	}
	return out
}

// Count returns the number of tile kinds in the registry.
func (r *TileRegistry) Count() int {
	return len(r.all)
}
