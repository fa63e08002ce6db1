package render

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/sokogrump/internal/telemetry"
	"github.com/samdwyer/sokogrump/internal/world"
)

var (
	// ErrAlreadyLoaded is returned by Load when content is loaded and not yet unloaded.
	ErrAlreadyLoaded = errors.New("content already loaded")
	// ErrNotLoaded is returned when drawing before content is loaded.
	ErrNotLoaded = errors.New("content not loaded")
	// ErrMissingSprite means a tile kind on the board has no loaded sprite.
	ErrMissingSprite = errors.New("missing sprite")
	// ErrNoSpriteSheet means a tile kind names no sprite sheet at all.
	ErrNoSpriteSheet = errors.New("no sprite sheet")
	// ErrSheetTooSmall means a loaded sheet cannot hold the frame that was asked of it.
	ErrSheetTooSmall = errors.New("sprite sheet too small")
)

// ContentLoadError reports a sprite sheet that could not be loaded.
type ContentLoadError struct {
	Asset string // "tile 3 (box)" or "player"
	Path  string
	Err   error
}

func (e *ContentLoadError) Error() string {
	return fmt.Sprintf("load %s from %q: %v", e.Asset, e.Path, e.Err)
}

func (e *ContentLoadError) Unwrap() error {
	return e.Err
}

// Sprite is a loaded sheet and the one-tile source rectangle used when no
// frame is selected for it.
type Sprite struct {
	Image  Image
	Source image.Rectangle
}

// Catalog owns the sprites for every tile kind and the player.
// Each sprite is released exactly once, by Unload.
type Catalog struct {
	loader   Loader
	tileSize int
	tiles    map[int]*Sprite
	player   *Sprite
	loaded   bool
}

// NewCatalog creates an empty catalog loading through the given backend.
func NewCatalog(loader Loader, tileSize int) *Catalog {
	return &Catalog{
		loader:   loader,
		tileSize: tileSize,
		tiles:    make(map[int]*Sprite),
	}
}

// Load loads a sprite for every kind plus the player.
//
// Loading twice without Unload fails with ErrAlreadyLoaded and loads nothing.
// On a ContentLoadError the sprites loaded so far stay in the catalog until Unload.
func (c *Catalog) Load(ctx context.Context, kinds []world.TileKind, playerSheet string) error {
	tracer := telemetry.Tracer("render")
	_, span := tracer.Start(ctx, "content.load")
	defer span.End()

	if c.loaded {
		return ErrAlreadyLoaded
	}
	c.loaded = true

	for _, k := range kinds {
		if _, ok := c.tiles[k.ID]; ok {
			continue
		}
		asset := fmt.Sprintf("tile %d (%s)", k.ID, k.Name)
		s, err := c.loadSprite(asset, k.SpriteSheet)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "content load failed")
			return err
		}
		c.tiles[k.ID] = s
	}

	s, err := c.loadSprite("player", playerSheet)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "content load failed")
		return err
	}
	c.player = s

	span.SetAttributes(
		attribute.Int("content.tile_sprites", len(c.tiles)),
		attribute.Int("content.tile_size", c.tileSize),
	)
	return nil
}

func (c *Catalog) loadSprite(asset, path string) (*Sprite, error) {
	if path == "" {
		return nil, &ContentLoadError{Asset: asset, Path: path, Err: ErrNoSpriteSheet}
	}

	img, err := c.loader.LoadImage(path)
	if err != nil {
		return nil, &ContentLoadError{Asset: asset, Path: path, Err: err}
	}

	src := image.Rect(0, 0, c.tileSize, c.tileSize)
	if !fits(img, src) {
		c.loader.ReleaseImage(img)
		b := img.Bounds()
		return nil, &ContentLoadError{
			Asset: asset,
			Path:  path,
			Err:   fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrSheetTooSmall, b.Dx(), b.Dy(), c.tileSize, c.tileSize),
		}
	}

	return &Sprite{Image: img, Source: src}, nil
}

// Unload releases every sprite, the player's included, and empties the catalog.
// It is safe on an empty or partially loaded catalog.
func (c *Catalog) Unload(ctx context.Context) {
	tracer := telemetry.Tracer("render")
	_, span := tracer.Start(ctx, "content.unload")
	defer span.End()

	released := 0
	for id, s := range c.tiles {
		c.loader.ReleaseImage(s.Image)
		delete(c.tiles, id)
		released++
	}
	if c.player != nil {
		c.loader.ReleaseImage(c.player.Image)
		c.player = nil
		released++
	}
	c.loaded = false

	span.SetAttributes(attribute.Int("content.released", released))
}

// Loaded reports whether Load has been called since the last Unload.
func (c *Catalog) Loaded() bool {
	return c.loaded
}

// TileSize returns the side of one tile in pixels.
func (c *Catalog) TileSize() int {
	return c.tileSize
}

// Len returns the number of loaded tile sprites, excluding the player.
func (c *Catalog) Len() int {
	return len(c.tiles)
}

// Sprite returns the sprite for a tile kind.
func (c *Catalog) Sprite(id int) (*Sprite, error) {
	s, ok := c.tiles[id]
	if !ok {
		return nil, fmt.Errorf("%w for tile %d", ErrMissingSprite, id)
	}
	return s, nil
}

// Player returns the player sprite.
func (c *Catalog) Player() (*Sprite, error) {
	if c.player == nil {
		return nil, fmt.Errorf("%w for player", ErrMissingSprite)
	}
	return c.player, nil
}

// fits reports whether src, relative to the sheet origin, lies within the sheet.
func fits(img Image, src image.Rectangle) bool {
	b := img.Bounds()
	return src.Min.X >= 0 && src.Min.Y >= 0 && src.Max.X <= b.Dx() && src.Max.Y <= b.Dy()
}
