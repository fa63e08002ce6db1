// Package window provides a pixel drawing backend and frame loop on Ebiten.
package window

import (
	"context"
	"errors"
	"image"
	_ "image/png"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/samdwyer/sokogrump/internal/render"
)

// Backend loads sprite sheets as Ebiten images and draws them onto the
// screen image of the frame being rendered.
type Backend struct {
	assetsDir string
	target    *ebiten.Image
}

// NewBackend creates a backend resolving sheet paths under assetsDir.
func NewBackend(assetsDir string) *Backend {
	return &Backend{assetsDir: assetsDir}
}

// LoadImage loads a sprite sheet from disk.
func (b *Backend) LoadImage(path string) (render.Image, error) {
	img, _, err := ebitenutil.NewImageFromFile(filepath.Join(b.assetsDir, path))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// ReleaseImage frees the GPU memory of a sheet.
func (b *Backend) ReleaseImage(img render.Image) {
	if ei, ok := img.(*ebiten.Image); ok {
		ei.Deallocate()
	}
}

// Draw copies the src region of img to dst on the current frame.
func (b *Backend) Draw(img render.Image, src image.Rectangle, dst image.Point) {
	ei, ok := img.(*ebiten.Image)
	if !ok || b.target == nil {
		return
	}
	sub := ei.SubImage(src.Add(ei.Bounds().Min)).(*ebiten.Image)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(dst.X), float64(dst.Y))
	b.target.DrawImage(sub, op)
}

// Game runs a BoardRenderer inside the Ebiten frame loop.
type Game struct {
	ctx      context.Context
	backend  *Backend
	renderer *render.BoardRenderer
	width    int
	height   int
	err      error
}

// errQuit ends the Ebiten loop without reporting a failure.
var errQuit = ebiten.Termination

// Run opens a window sized to the board and draws it until the window is
// closed or Escape is pressed. Content is loaded before the first frame and
// unloaded when the loop ends.
func Run(ctx context.Context, title string, backend *Backend, renderer *render.BoardRenderer, scale int) error {
	if err := renderer.LoadContent(ctx); err != nil {
		// Release whatever loaded before the failure
		renderer.UnloadContent(ctx)
		return err
	}
	defer renderer.UnloadContent(ctx)

	w, h := renderer.ScreenSize()
	if scale < 1 {
		scale = 1
	}
	ebiten.SetWindowSize(w*scale, h*scale)
	ebiten.SetWindowTitle(title)

	g := &Game{ctx: ctx, backend: backend, renderer: renderer, width: w, height: h}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return g.err
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}
	g.renderer.Update()
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.backend.target = screen
	defer func() { g.backend.target = nil }()

	if err := g.renderer.Draw(g.backend); err != nil {
		// Surfaced from the next Update, which stops the loop
		g.err = err
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
