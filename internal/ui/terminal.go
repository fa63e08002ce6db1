package ui

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/sokogrump/internal/render"
)

// Glyph is the character and color a sprite sheet shows as in the terminal.
type Glyph struct {
	Rune  rune
	Color tcell.Color
}

// sheet is a decoded sprite sheet held by the terminal backend.
type sheet struct {
	path  string
	img   image.Image
	glyph Glyph
}

func (s *sheet) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// Terminal is a drawing backend that shows every tile as one terminal cell.
// The cell background is the average opaque color of the drawn frame, so
// auto-tiled edges and corners still read as different shades.
type Terminal struct {
	screen    *Screen
	assetsDir string
	tileSize  int
	glyphs    map[string]Glyph
	live      map[*sheet]bool
}

// NewTerminal creates a terminal backend. Sheet paths are resolved under assetsDir.
func NewTerminal(screen *Screen, assetsDir string, tileSize int, glyphs map[string]Glyph) *Terminal {
	return &Terminal{
		screen:    screen,
		assetsDir: assetsDir,
		tileSize:  tileSize,
		glyphs:    glyphs,
		live:      make(map[*sheet]bool),
	}
}

// LoadImage decodes a PNG sprite sheet.
func (t *Terminal) LoadImage(path string) (render.Image, error) {
	f, err := os.Open(filepath.Join(t.assetsDir, path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	s := &sheet{path: path, img: img, glyph: t.glyphs[path]}
	if s.glyph.Rune == 0 {
		s.glyph.Rune = ' '
	}
	t.live[s] = true
	return s, nil
}

// ReleaseImage drops a sheet loaded by this backend.
func (t *Terminal) ReleaseImage(img render.Image) {
	if s, ok := img.(*sheet); ok {
		delete(t.live, s)
	}
}

// Live returns the number of sheets loaded and not yet released.
func (t *Terminal) Live() int {
	return len(t.live)
}

// Draw paints the cell covering dst. Mostly transparent frames keep the
// background already on screen.
func (t *Terminal) Draw(img render.Image, src image.Rectangle, dst image.Point) {
	s, ok := img.(*sheet)
	if !ok {
		return
	}

	cell := dst.Div(t.tileSize)
	bg, covered := averageColor(s.img, src.Add(s.img.Bounds().Min))
	if !covered {
		_, under := t.screen.GetContent(cell.X, cell.Y)
		_, bg, _ = under.Decompose()
	}

	style := tcell.StyleDefault.Background(bg).Foreground(s.glyph.Color)
	t.screen.SetContent(cell.X, cell.Y, s.glyph.Rune, style)
}

// averageColor averages the opaque pixels of r. covered is false when fewer
// than half of the pixels are opaque.
func averageColor(img image.Image, r image.Rectangle) (c tcell.Color, covered bool) {
	r = r.Intersect(img.Bounds())
	var sumR, sumG, sumB, opaque uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, ca := img.At(x, y).RGBA()
			if ca < 0x8000 {
				continue
			}
			sumR += uint64(cr >> 8)
			sumG += uint64(cg >> 8)
			sumB += uint64(cb >> 8)
			opaque++
		}
	}

	total := uint64(r.Dx() * r.Dy())
	if opaque == 0 || opaque*2 < total {
		return tcell.ColorDefault, false
	}
	return tcell.NewRGBColor(int32(sumR/opaque), int32(sumG/opaque), int32(sumB/opaque)), true
}
