package gamedata

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// TileDef defines a tile kind loaded from JSON.
type TileDef struct {
	ID          int    `json:"id"`          // Identifier used in level rows (0-9)
	Name        string `json:"name"`        // Display name (e.g., "floor")
	SpriteSheet string `json:"spriteSheet"` // Sheet path relative to the assets directory
	Glyph       string `json:"glyph"`       // Single character for terminal rendering
	Color       string `json:"color"`       // Hex color code (e.g., "#6B5B45")
}

// GlyphRune returns the glyph as a rune for rendering.
func (t *TileDef) GlyphRune() rune {
	for _, r := range t.Glyph {
		return r
	}
	return '?'
}

// TCellColor returns the color as a tcell.Color.
func (t *TileDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(t.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// FamilyDef describes a terrain family whose tiles are drawn with auto-tiling.
//
// Autotiled lists the kinds that pick their frame from neighbors; Matches lists
// every kind those tiles treat as connected terrain.
type FamilyDef struct {
	Name      string `json:"name"`
	Autotiled []int  `json:"autotiled"`
	Matches   []int  `json:"matches"`
}

// TilesFile represents the structure of tiles.json.
type TilesFile struct {
	TileSize int         `json:"tileSize"`
	Player   TileDef     `json:"player"`
	Tiles    []TileDef   `json:"tiles"`
	Families []FamilyDef `json:"families"`
}

// Validate checks ids are unique and every family references known kinds.
func (f *TilesFile) Validate() error {
	if f.TileSize <= 0 {
		return fmt.Errorf("tileSize must be positive, got %d", f.TileSize)
	}
	if f.Player.SpriteSheet == "" {
		return fmt.Errorf("player has no sprite sheet")
	}

	known := make(map[int]bool, len(f.Tiles))
	for _, t := range f.Tiles {
		if t.ID < 0 || t.ID > 9 {
			return fmt.Errorf("tile %q: id %d outside 0-9", t.Name, t.ID)
		}
		if known[t.ID] {
			return fmt.Errorf("duplicate tile id %d", t.ID)
		}
		if t.SpriteSheet == "" {
			return fmt.Errorf("tile %q has no sprite sheet", t.Name)
		}
		known[t.ID] = true
	}

	owner := make(map[int]string)
	for _, fam := range f.Families {
		if len(fam.Matches) == 0 {
			return fmt.Errorf("family %q has an empty matching set", fam.Name)
		}
		for _, id := range fam.Matches {
			if !known[id] {
				return fmt.Errorf("family %q matches unknown tile id %d", fam.Name, id)
			}
		}
		for _, id := range fam.Autotiled {
			if !known[id] {
				return fmt.Errorf("family %q auto-tiles unknown tile id %d", fam.Name, id)
			}
			if prev, ok := owner[id]; ok {
				return fmt.Errorf("tile id %d auto-tiled by both %q and %q", id, prev, fam.Name)
			}
			owner[id] = fam.Name
		}
	}
	return nil
}

// LoadTiles loads and validates the tile catalog from the embedded tiles.json file.
func LoadTiles() (TilesFile, error) {
	file, err := Load[TilesFile]("tiles.json")
	if err != nil {
		return TilesFile{}, err
	}
	if err := file.Validate(); err != nil {
		return TilesFile{}, fmt.Errorf("tiles.json: %w", err)
	}
	return file, nil
}

// MustLoadTiles loads the tile catalog, panicking on error.
func MustLoadTiles() TilesFile {
	tiles, err := LoadTiles()
	if err != nil {
		panic(err)
	}
	return tiles
}
