package world

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/samdwyer/sokogrump/internal/gamedata"
)

// ErrInvalidLevel is returned when a level definition cannot be turned into a board.
var ErrInvalidLevel = errors.New("invalid level")

// Board is the game state the renderer reads: a fixed-size grid of tiles
// plus the player's position.
type Board struct {
	Width  int
	Height int
	Tiles  [][]Tile // indexed [y][x]
	Player *Player
	kinds  map[int]TileKind
}

// NewBoard creates a board filled with a single tile.
func NewBoard(width, height int, fill Tile, kinds []TileKind) *Board {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = fill
		}
	}

	b := &Board{
		Width:  width,
		Height: height,
		Tiles:  tiles,
		Player: NewPlayer(0, 0),
		kinds:  make(map[int]TileKind, len(kinds)),
	}
	for _, k := range kinds {
		b.kinds[k.ID] = k
	}
	return b
}

// NewBoardFromLevel builds a board from a level definition.
// Rows must be equal length digits naming known kinds and the player must start in bounds.
func NewBoardFromLevel(level gamedata.LevelDef, kinds []TileKind) (*Board, error) {
	if len(level.Rows) == 0 || len(level.Rows[0]) == 0 {
		return nil, fmt.Errorf("%w %q: no rows", ErrInvalidLevel, level.Name)
	}

	width, height := len(level.Rows[0]), len(level.Rows)
	b := NewBoard(width, height, Tile{}, kinds)

	for y, row := range level.Rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w %q: row %d has %d cells, want %d", ErrInvalidLevel, level.Name, y, len(row), width)
		}
		for x := 0; x < width; x++ {
			ch := row[x]
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("%w %q: bad cell %q at (%d,%d)", ErrInvalidLevel, level.Name, ch, x, y)
			}
			id := int(ch - '0')
			if _, ok := b.kinds[id]; !ok {
				return nil, fmt.Errorf("%w %q: unknown tile id %d at (%d,%d)", ErrInvalidLevel, level.Name, id, x, y)
			}
			b.Tiles[y][x] = Tile{ID: id}
		}
	}

	if !b.InBounds(level.PlayerX, level.PlayerY) {
		return nil, fmt.Errorf("%w %q: player start (%d,%d) outside %dx%d board",
			ErrInvalidLevel, level.Name, level.PlayerX, level.PlayerY, width, height)
	}
	b.Player.MoveTo(level.PlayerX, level.PlayerY)

	return b, nil
}

// InBounds reports whether (x, y) is a cell of the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Dimensions returns the board width and height in cells.
func (b *Board) Dimensions() (width, height int) {
	return b.Width, b.Height
}

// TileAt returns the tile at the given position. ok is false outside the board.
func (b *Board) TileAt(x, y int) (Tile, bool) {
	if !b.InBounds(x, y) {
		return Tile{}, false
	}
	return b.Tiles[y][x], true
}

// SetTile replaces the tile at the given position. It returns false outside the board.
func (b *Board) SetTile(x, y int, t Tile) bool {
	if !b.InBounds(x, y) {
		return false
	}
	b.Tiles[y][x] = t
	return true
}

// IsPassable returns true if the given position can be walked on.
func (b *Board) IsPassable(x, y int) bool {
	t, ok := b.TileAt(x, y)
	return ok && t.IsPassable()
}

// Kind returns the catalog entry for a tile id.
func (b *Board) Kind(id int) (TileKind, bool) {
	k, ok := b.kinds[id]
	return k, ok
}

// TileKinds returns the distinct kinds present on the board, ordered by id.
// Ids with no catalog entry are reported with an empty sprite sheet.
func (b *Board) TileKinds() []TileKind {
	seen := make(map[int]bool)
	var out []TileKind
	for _, row := range b.Tiles {
		for _, t := range row {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			k, ok := b.kinds[t.ID]
			if !ok {
				k = TileKind{ID: t.ID}
			}
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PlayerLocation returns the player's cell.
func (b *Board) PlayerLocation() image.Point {
	return b.Player.Location()
}
