package render

import (
	"context"
	"fmt"
	"image"

	"github.com/samdwyer/sokogrump/internal/autotile"
	"github.com/samdwyer/sokogrump/internal/world"
)

// GameState is the board data the renderer pulls every frame.
type GameState interface {
	Dimensions() (width, height int)
	TileAt(x, y int) (world.Tile, bool)
	TileKinds() []world.TileKind
	PlayerLocation() image.Point
}

// Options configures a BoardRenderer.
type Options struct {
	// PlayerSheet is the sprite sheet path of the player.
	PlayerSheet string
	// AutoTiling maps each auto-tiled kind to the kinds it connects to.
	// Kinds not listed are drawn with their sprite's default source rectangle.
	AutoTiling map[int]autotile.Set
}

// BoardRenderer draws the tile grid and the player on top of it.
//
// Its lifecycle is LoadContent, then any number of Update/Draw pairs, then UnloadContent.
type BoardRenderer struct {
	state      GameState
	catalog    *Catalog
	opts       Options
	playerDest image.Point
}

// NewBoardRenderer creates a renderer reading from state and drawing sprites owned by catalog.
func NewBoardRenderer(state GameState, catalog *Catalog, opts Options) *BoardRenderer {
	if opts.AutoTiling == nil {
		opts.AutoTiling = make(map[int]autotile.Set)
	}
	return &BoardRenderer{
		state:   state,
		catalog: catalog,
		opts:    opts,
	}
}

// LoadContent loads sprites for every kind on the board and the player.
func (r *BoardRenderer) LoadContent(ctx context.Context) error {
	return r.catalog.Load(ctx, r.state.TileKinds(), r.opts.PlayerSheet)
}

// UnloadContent releases all sprites. Safe to call at any time outside Draw.
func (r *BoardRenderer) UnloadContent(ctx context.Context) {
	r.catalog.Unload(ctx)
}

// Update reads the player's cell and stores its pixel offset for the next draw.
func (r *BoardRenderer) Update() {
	r.playerDest = r.state.PlayerLocation().Mul(r.catalog.TileSize())
}

// PlayerDest returns the pixel offset the player will be drawn at.
func (r *BoardRenderer) PlayerDest() image.Point {
	return r.playerDest
}

// Plan computes the draw commands for one frame: every cell in row-major
// order, then the player. It fails without returning partial output if any
// cell's kind has no loaded sprite.
func (r *BoardRenderer) Plan() ([]DrawCommand, error) {
	if !r.catalog.Loaded() {
		return nil, ErrNotLoaded
	}

	size := r.catalog.TileSize()
	width, height := r.state.Dimensions()
	cmds := make([]DrawCommand, 0, width*height+1)

	lookup := func(x, y int) (int, bool) {
		t, ok := r.state.TileAt(x, y)
		return t.ID, ok
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tile, ok := r.state.TileAt(x, y)
			if !ok {
				return nil, fmt.Errorf("cell (%d,%d) missing from %dx%d board", x, y, width, height)
			}

			sprite, err := r.catalog.Sprite(tile.ID)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", x, y, err)
			}

			src := sprite.Source
			if matching, ok := r.opts.AutoTiling[tile.ID]; ok {
				frame := autotile.Select(x, y, matching, lookup)
				src = frame.Rect(size)
				if !fits(sprite.Image, src) {
					return nil, fmt.Errorf("cell (%d,%d): frame %+v: %w", x, y, frame, ErrSheetTooSmall)
				}
			}

			cmds = append(cmds, DrawCommand{
				Image:  sprite.Image,
				Source: src,
				Dest:   image.Pt(x*size, y*size),
			})
		}
	}

	player, err := r.catalog.Player()
	if err != nil {
		return nil, err
	}
	cmds = append(cmds, DrawCommand{
		Image:  player.Image,
		Source: player.Source,
		Dest:   r.playerDest,
	})

	return cmds, nil
}

// Draw plans the frame and issues it to d. Nothing is drawn if planning fails.
func (r *BoardRenderer) Draw(d Drawer) error {
	cmds, err := r.Plan()
	if err != nil {
		return err
	}
	for _, c := range cmds {
		d.Draw(c.Image, c.Source, c.Dest)
	}
	return nil
}

// ScreenSize returns the pixel size of the whole board.
func (r *BoardRenderer) ScreenSize() (width, height int) {
	w, h := r.state.Dimensions()
	size := r.catalog.TileSize()
	return w * size, h * size
}

// AutoTilingFrom converts id lists, as found in the tile catalog, into matching sets.
func AutoTilingFrom(families map[int][]int) map[int]autotile.Set {
	out := make(map[int]autotile.Set, len(families))
	for id, matches := range families {
		out[id] = autotile.NewSet(matches...)
	}
	return out
}
