package render

import (
	"context"
	"errors"
	"image"
	"os"
	"testing"

	"github.com/samdwyer/sokogrump/internal/autotile"
	"github.com/samdwyer/sokogrump/internal/gamedata"
	"github.com/samdwyer/sokogrump/internal/world"
)

const tileSize = 16

// mockImage is a test implementation of the Image interface.
type mockImage struct {
	path string
	w, h int
}

func (m *mockImage) Bounds() image.Rectangle { return image.Rect(0, 0, m.w, m.h) }

type drawCall struct {
	path string
	src  image.Rectangle
	dst  image.Point
}

// mockBackend records every load, release and draw.
type mockBackend struct {
	sizes    map[string][2]int // path -> sheet size; default is a full 4x4 sheet
	fail     map[string]error
	loaded   []string
	live     map[*mockImage]bool
	released int
	draws    []drawCall
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		sizes: make(map[string][2]int),
		fail:  make(map[string]error),
		live:  make(map[*mockImage]bool),
	}
}

func (m *mockBackend) LoadImage(path string) (Image, error) {
	if err, ok := m.fail[path]; ok {
		return nil, err
	}
	w, h := 4*tileSize, 4*tileSize
	if s, ok := m.sizes[path]; ok {
		w, h = s[0], s[1]
	}
	img := &mockImage{path: path, w: w, h: h}
	m.loaded = append(m.loaded, path)
	m.live[img] = true
	return img, nil
}

func (m *mockBackend) ReleaseImage(img Image) {
	mi := img.(*mockImage)
	if !m.live[mi] {
		panic("release of an image that is not live: " + mi.path)
	}
	delete(m.live, mi)
	m.released++
}

func (m *mockBackend) Draw(img Image, src image.Rectangle, dst image.Point) {
	m.draws = append(m.draws, drawCall{path: img.(*mockImage).path, src: src, dst: dst})
}

var kinds = []world.TileKind{
	{ID: world.KindFloor, Name: "floor", SpriteSheet: "floor.png"},
	{ID: world.KindWall, Name: "wall", SpriteSheet: "wall.png"},
	{ID: world.KindTarget, Name: "target", SpriteSheet: "target.png"},
}

// buildBoard creates a board from rows of tile ids indexed [y][x].
func buildBoard(rows [][]int) *world.Board {
	b := world.NewBoard(len(rows[0]), len(rows), world.Tile{}, kinds)
	for y, row := range rows {
		for x, id := range row {
			b.SetTile(x, y, world.Tile{ID: id})
		}
	}
	return b
}

func floorAutoTiling() map[int]autotile.Set {
	return map[int]autotile.Set{world.KindFloor: autotile.NewSet(0, 2, 3, 5)}
}

func TestCatalogLoadAndUnload(t *testing.T) {
	ctx := context.Background()
	backend := newMockBackend()
	c := NewCatalog(backend, tileSize)

	if err := c.Load(ctx, kinds, "player.png"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != len(kinds) {
		t.Errorf("Expected %d tile sprites, got %d", len(kinds), c.Len())
	}
	if len(backend.live) != len(kinds)+1 {
		t.Errorf("Expected %d live images, got %d", len(kinds)+1, len(backend.live))
	}

	s, err := c.Sprite(world.KindWall)
	if err != nil {
		t.Fatalf("Sprite(wall) failed: %v", err)
	}
	if s.Source != image.Rect(0, 0, tileSize, tileSize) {
		t.Errorf("Expected one-tile source rect, got %v", s.Source)
	}

	c.Unload(ctx)
	if len(backend.live) != 0 {
		t.Errorf("Expected every image released, %d still live", len(backend.live))
	}
	if c.Len() != 0 || c.Loaded() {
		t.Errorf("Catalog not cleared after unload: len=%d loaded=%v", c.Len(), c.Loaded())
	}
	if _, err := c.Player(); !errors.Is(err, ErrMissingSprite) {
		t.Errorf("Expected player cleared, got %v", err)
	}
}

func TestCatalogLoadTwiceFailsFast(t *testing.T) {
	ctx := context.Background()
	backend := newMockBackend()
	c := NewCatalog(backend, tileSize)

	if err := c.Load(ctx, kinds, "player.png"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	loads := len(backend.loaded)

	if err := c.Load(ctx, kinds, "player.png"); !errors.Is(err, ErrAlreadyLoaded) {
		t.Fatalf("Expected ErrAlreadyLoaded, got %v", err)
	}
	if len(backend.loaded) != loads {
		t.Errorf("Second load loaded %d more images", len(backend.loaded)-loads)
	}

	c.Unload(ctx)
	if len(backend.live) != 0 {
		t.Errorf("Leaked %d images", len(backend.live))
	}

	// Reload after unload works
	if err := c.Load(ctx, kinds, "player.png"); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	c.Unload(ctx)
}

func TestCatalogUnloadBeforeLoad(t *testing.T) {
	backend := newMockBackend()
	c := NewCatalog(backend, tileSize)

	c.Unload(context.Background())
	c.Unload(context.Background())

	if backend.released != 0 {
		t.Errorf("Expected no releases, got %d", backend.released)
	}
}

func TestCatalogPartialLoadFailure(t *testing.T) {
	ctx := context.Background()
	backend := newMockBackend()
	backend.fail["target.png"] = os.ErrNotExist
	c := NewCatalog(backend, tileSize)

	err := c.Load(ctx, kinds, "player.png")
	var loadErr *ContentLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected ContentLoadError, got %v", err)
	}
	if loadErr.Path != "target.png" {
		t.Errorf("Expected failing path target.png, got %q", loadErr.Path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped os.ErrNotExist, got %v", err)
	}

	// floor and wall were loaded before the failure
	if len(backend.live) != 2 {
		t.Errorf("Expected 2 live images after partial load, got %d", len(backend.live))
	}

	c.Unload(ctx)
	if len(backend.live) != 0 {
		t.Errorf("Partial load leaked %d images", len(backend.live))
	}
}

func TestCatalogPlayerLoadFailure(t *testing.T) {
	ctx := context.Background()
	backend := newMockBackend()
	backend.fail["player.png"] = os.ErrPermission
	c := NewCatalog(backend, tileSize)

	err := c.Load(ctx, kinds, "player.png")
	var loadErr *ContentLoadError
	if !errors.As(err, &loadErr) || loadErr.Asset != "player" {
		t.Fatalf("Expected player ContentLoadError, got %v", err)
	}

	c.Unload(ctx)
	if len(backend.live) != 0 {
		t.Errorf("Leaked %d images", len(backend.live))
	}
}

func TestCatalogRejectsBadSheets(t *testing.T) {
	ctx := context.Background()

	t.Run("empty path", func(t *testing.T) {
		c := NewCatalog(newMockBackend(), tileSize)
		err := c.Load(ctx, []world.TileKind{{ID: 9, Name: "ghost"}}, "player.png")
		if !errors.Is(err, ErrNoSpriteSheet) {
			t.Errorf("Expected ErrNoSpriteSheet, got %v", err)
		}
	})

	t.Run("too small", func(t *testing.T) {
		backend := newMockBackend()
		backend.sizes["wall.png"] = [2]int{tileSize - 1, tileSize}
		c := NewCatalog(backend, tileSize)
		err := c.Load(ctx, kinds, "player.png")
		if !errors.Is(err, ErrSheetTooSmall) {
			t.Errorf("Expected ErrSheetTooSmall, got %v", err)
		}
		// The undersized sheet is released immediately, floor waits for Unload
		if len(backend.live) != 1 {
			t.Errorf("Expected 1 live image, got %d", len(backend.live))
		}
		c.Unload(ctx)
		if len(backend.live) != 0 {
			t.Errorf("Leaked %d images", len(backend.live))
		}
	})
}

func TestRendererTwoByTwoBoard(t *testing.T) {
	// (0,0)=floor (1,0)=floor
	// (0,1)=wall  (1,1)=floor
	board := buildBoard([][]int{
		{0, 0},
		{1, 0},
	})
	board.Player.MoveTo(1, 1)

	ctx := context.Background()
	backend := newMockBackend()
	r := NewBoardRenderer(board, NewCatalog(backend, tileSize), Options{
		PlayerSheet: "player.png",
		AutoTiling:  floorAutoTiling(),
	})
	if err := r.LoadContent(ctx); err != nil {
		t.Fatalf("LoadContent failed: %v", err)
	}
	defer r.UnloadContent(ctx)

	r.Update()
	if err := r.Draw(backend); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	frame := func(m autotile.Mask) image.Rectangle { return autotile.FrameFor(m).Rect(tileSize) }
	one := image.Rect(0, 0, tileSize, tileSize)

	want := []drawCall{
		// (0,0): right connected only, mask 2, frame (1,3)
		{"floor.png", image.Rect(16, 48, 32, 64), image.Pt(0, 0)},
		// (1,0): left and down
		{"floor.png", frame(autotile.Left | autotile.Down), image.Pt(16, 0)},
		{"wall.png", one, image.Pt(0, 16)},
		// (1,1): up only, wall to the left
		{"floor.png", frame(autotile.Up), image.Pt(16, 16)},
		{"player.png", one, image.Pt(16, 16)},
	}

	if len(backend.draws) != len(want) {
		t.Fatalf("Expected %d draws, got %d: %+v", len(want), len(backend.draws), backend.draws)
	}
	for i := range want {
		if backend.draws[i] != want[i] {
			t.Errorf("Draw %d = %+v, want %+v", i, backend.draws[i], want[i])
		}
	}
}

func TestRendererPlayerDrawnLast(t *testing.T) {
	board := buildBoard([][]int{
		{1, 1, 1},
		{1, 0, 1},
		{1, 1, 1},
	})
	board.Player.MoveTo(1, 1)

	r := NewBoardRenderer(board, NewCatalog(newMockBackend(), tileSize), Options{PlayerSheet: "player.png"})
	if err := r.LoadContent(context.Background()); err != nil {
		t.Fatalf("LoadContent failed: %v", err)
	}

	r.Update()
	cmds, err := r.Plan()
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(cmds) != 10 {
		t.Fatalf("Expected 10 commands, got %d", len(cmds))
	}
	last := cmds[len(cmds)-1]
	if last.Image.(*mockImage).path != "player.png" || last.Dest != image.Pt(16, 16) {
		t.Errorf("Last command should draw the player at (16,16), got %+v", last)
	}
	// Without auto-tiling every tile uses its one-tile rectangle
	for _, c := range cmds[:9] {
		if c.Source != image.Rect(0, 0, tileSize, tileSize) {
			t.Errorf("Unexpected source %v for %s", c.Source, c.Image.(*mockImage).path)
		}
	}
}

func TestRendererUpdateTracksPlayer(t *testing.T) {
	board := buildBoard([][]int{{0, 0, 0}})
	r := NewBoardRenderer(board, NewCatalog(newMockBackend(), tileSize), Options{PlayerSheet: "player.png"})

	board.Player.MoveTo(2, 0)
	if r.PlayerDest() != image.Pt(0, 0) {
		t.Errorf("Player offset changed before Update: %v", r.PlayerDest())
	}
	r.Update()
	if r.PlayerDest() != image.Pt(32, 0) {
		t.Errorf("Expected player offset (32,0), got %v", r.PlayerDest())
	}
}

func TestRendererPlanIsRepeatable(t *testing.T) {
	board := buildBoard([][]int{
		{0, 2, 0},
		{0, 0, 1},
	})
	r := NewBoardRenderer(board, NewCatalog(newMockBackend(), tileSize), Options{
		PlayerSheet: "player.png",
		AutoTiling:  floorAutoTiling(),
	})
	if err := r.LoadContent(context.Background()); err != nil {
		t.Fatalf("LoadContent failed: %v", err)
	}
	r.Update()

	first, err := r.Plan()
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	second, err := r.Plan()
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Command %d differs between plans: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRendererMissingSpriteFailsDraw(t *testing.T) {
	board := buildBoard([][]int{{0, 0}})
	backend := newMockBackend()
	catalog := NewCatalog(backend, tileSize)
	r := NewBoardRenderer(board, catalog, Options{PlayerSheet: "player.png"})
	if err := r.LoadContent(context.Background()); err != nil {
		t.Fatalf("LoadContent failed: %v", err)
	}

	// A kind that was not on the board at load time appears later
	board.SetTile(1, 0, world.Tile{ID: world.KindWall})

	r.Update()
	err := r.Draw(backend)
	if !errors.Is(err, ErrMissingSprite) {
		t.Fatalf("Expected ErrMissingSprite, got %v", err)
	}
	if len(backend.draws) != 0 {
		t.Errorf("Expected no draws on failure, got %d", len(backend.draws))
	}
}

func TestRendererDrawBeforeLoad(t *testing.T) {
	board := buildBoard([][]int{{0}})
	backend := newMockBackend()
	r := NewBoardRenderer(board, NewCatalog(backend, tileSize), Options{PlayerSheet: "player.png"})

	if err := r.Draw(backend); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Expected ErrNotLoaded, got %v", err)
	}
}

func TestRendererAutoTiledSheetTooSmall(t *testing.T) {
	board := buildBoard([][]int{{0}})
	backend := newMockBackend()
	backend.sizes["floor.png"] = [2]int{tileSize, tileSize}
	r := NewBoardRenderer(board, NewCatalog(backend, tileSize), Options{
		PlayerSheet: "player.png",
		AutoTiling:  floorAutoTiling(),
	})
	if err := r.LoadContent(context.Background()); err != nil {
		t.Fatalf("LoadContent failed: %v", err)
	}

	// An isolated floor needs frame (0,3), outside a one-tile sheet
	if _, err := r.Plan(); !errors.Is(err, ErrSheetTooSmall) {
		t.Errorf("Expected ErrSheetTooSmall, got %v", err)
	}
}

func TestRendererScreenSize(t *testing.T) {
	board := buildBoard([][]int{{0, 0, 0}, {0, 0, 0}})
	r := NewBoardRenderer(board, NewCatalog(newMockBackend(), tileSize), Options{})

	w, h := r.ScreenSize()
	if w != 48 || h != 32 {
		t.Errorf("Expected 48x32, got %dx%d", w, h)
	}
}

func TestAutoTilingFromCatalog(t *testing.T) {
	auto := AutoTilingFrom(gamedata.MustLoadTileRegistry().AutoTiling())

	floor, ok := auto[world.KindFloor]
	if !ok {
		t.Fatal("Floor should be auto-tiled")
	}
	for _, id := range []int{world.KindFloor, world.KindTarget, world.KindBox, world.KindBoxOnTarget} {
		if !floor.Contains(id) {
			t.Errorf("Floor family should match %d", id)
		}
	}
	if floor.Contains(world.KindWall) {
		t.Error("Floor family should not match walls")
	}
	if _, ok := auto[world.KindWall]; ok {
		t.Error("Walls should not be auto-tiled")
	}
}
