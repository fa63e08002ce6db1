// Package spritegen paints placeholder sprite sheets for the tile catalog.
//
// Auto-tiled kinds get a full 4x4 sheet in which every frame draws a border
// on the sides its mask leaves unconnected. Other kinds get one framed tile,
// and the player a filled disc on a transparent tile.
package spritegen

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/samdwyer/sokogrump/internal/autotile"
	"github.com/samdwyer/sokogrump/internal/gamedata"
)

// TileSheet paints a sheet for a tile of color c.
func TileSheet(c color.RGBA, tileSize int, autotiled bool) *image.RGBA {
	if !autotiled {
		img := image.NewRGBA(image.Rect(0, 0, tileSize, tileSize))
		paintFrame(img, image.Point{}, tileSize, c, autotile.None)
		return img
	}

	img := image.NewRGBA(image.Rect(0, 0, autotile.SheetColumns*tileSize, autotile.SheetRows*tileSize))
	for row := 0; row < autotile.SheetRows; row++ {
		for col := 0; col < autotile.SheetColumns; col++ {
			f := autotile.Frame{Column: col, Row: row}
			m, _ := autotile.MaskFor(f)
			paintFrame(img, f.Rect(tileSize).Min, tileSize, c, m)
		}
	}
	return img
}

// PlayerSheet paints a disc of color c centered in a transparent tile.
func PlayerSheet(c color.RGBA, tileSize int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, tileSize, tileSize))
	r := tileSize * 3 / 8
	cx, cy := tileSize/2, tileSize/2
	for y := 0; y < tileSize; y++ {
		for x := 0; x < tileSize; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}

// paintFrame fills one tile and darkens the sides m does not connect.
func paintFrame(img *image.RGBA, origin image.Point, tileSize int, c color.RGBA, m autotile.Mask) {
	edge := darken(c)
	border := max(1, tileSize/8)

	for y := 0; y < tileSize; y++ {
		for x := 0; x < tileSize; x++ {
			px := c
			switch {
			case y < border && !m.Has(autotile.Up),
				x >= tileSize-border && !m.Has(autotile.Right),
				y >= tileSize-border && !m.Has(autotile.Down),
				x < border && !m.Has(autotile.Left):
				px = edge
			}
			img.SetRGBA(origin.X+x, origin.Y+y, px)
		}
	}
}

func darken(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}

// WriteAll writes a sheet for every tile in the registry plus the player
// under dir, at the paths the catalog names. It returns the paths written.
func WriteAll(dir string, reg *gamedata.TileRegistry) ([]string, error) {
	size := reg.TileSize()
	auto := reg.AutoTiling()

	var written []string
	for _, def := range reg.All() {
		c, err := gamedata.ParseHexRGBA(def.Color)
		if err != nil {
			return written, fmt.Errorf("tile %q: %w", def.Name, err)
		}
		_, autotiled := auto[def.ID]
		path := filepath.Join(dir, def.SpriteSheet)
		if err := writePNG(path, TileSheet(c, size, autotiled)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	player := reg.Player()
	c, err := gamedata.ParseHexRGBA(player.Color)
	if err != nil {
		return written, fmt.Errorf("player: %w", err)
	}
	path := filepath.Join(dir, player.SpriteSheet)
	if err := writePNG(path, PlayerSheet(c, size)); err != nil {
		return written, err
	}
	return append(written, path), nil
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
