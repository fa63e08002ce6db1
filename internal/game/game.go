package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/sokogrump/internal/gamedata"
	"github.com/samdwyer/sokogrump/internal/render"
	"github.com/samdwyer/sokogrump/internal/telemetry"
	"github.com/samdwyer/sokogrump/internal/ui"
	"github.com/samdwyer/sokogrump/internal/world"
)

// Game holds the board being shown and the data it was built from.
type Game struct {
	cfg      Config
	registry *gamedata.TileRegistry
	board    *world.Board
	level    string
	seed     int64
	state    State
	running  bool
}

// New builds the board named by cfg.
func New(ctx context.Context, cfg Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.init")
	defer span.End()

	registry, err := gamedata.LoadTileRegistry()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tile registry")
		return nil, fmt.Errorf("load tiles: %w", err)
	}

	g := &Game{cfg: cfg, registry: registry, state: StateReady}
	kinds := world.KindsFromRegistry(registry)

	if cfg.Level == GeneratedLevel {
		g.seed = cfg.Seed
		if g.seed == 0 {
			g.seed = time.Now().UnixNano()
		}
		gen, err := world.Generate(ctx, cfg.Width, cfg.Height, rand.New(rand.NewSource(g.seed)), kinds)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "generate")
			return nil, err
		}
		g.board = gen.Board
		g.level = GeneratedLevel
	} else {
		level, err := findLevel(cfg.Level, cfg.LevelsFile)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "level")
			return nil, err
		}
		g.board, err = world.NewBoardFromLevel(level, kinds)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "level")
			return nil, err
		}
		g.level = level.Name
	}

	w, h := g.board.Dimensions()
	loc := g.board.PlayerLocation()
	span.SetAttributes(
		attribute.String("level.name", g.level),
		attribute.Int64("level.seed", g.seed),
		attribute.Int("board.width", w),
		attribute.Int("board.height", h),
		attribute.Int("player.start_x", loc.X),
		attribute.Int("player.start_y", loc.Y),
		attribute.String("backend", cfg.Backend),
	)
	return g, nil
}

// findLevel looks name up in the levels file, if any, then in the embedded
// levels. An empty name picks the first level found.
func findLevel(name, levelsFile string) (gamedata.LevelDef, error) {
	var levels []gamedata.LevelDef
	if levelsFile != "" {
		extra, err := gamedata.LoadLevelsFile(levelsFile)
		if err != nil {
			return gamedata.LevelDef{}, err
		}
		levels = append(levels, extra...)
	}
	embedded, err := gamedata.LoadLevels()
	if err != nil {
		return gamedata.LevelDef{}, err
	}
	levels = append(levels, embedded...)

	if len(levels) == 0 {
		return gamedata.LevelDef{}, fmt.Errorf("%w: no levels available", world.ErrInvalidLevel)
	}
	if name == "" {
		return levels[0], nil
	}
	for _, l := range levels {
		if l.Name == name {
			return l, nil
		}
	}
	return gamedata.LevelDef{}, fmt.Errorf("%w: unknown level %q", world.ErrInvalidLevel, name)
}

// Board returns the board being shown.
func (g *Game) Board() *world.Board {
	return g.board
}

// Level returns the name of the level being shown.
func (g *Game) Level() string {
	return g.level
}

// Seed returns the seed a generated level was built from, or 0.
func (g *Game) Seed() int64 {
	return g.seed
}

// State returns the current lifecycle state.
func (g *Game) State() State {
	return g.state
}

// TileSize returns the sprite frame size in pixels.
func (g *Game) TileSize() int {
	return g.registry.TileSize()
}

// NewRenderer creates a board renderer whose catalog loads through loader.
func (g *Game) NewRenderer(loader render.Loader) *render.BoardRenderer {
	catalog := render.NewCatalog(loader, g.registry.TileSize())
	return render.NewBoardRenderer(g.board, catalog, render.Options{
		PlayerSheet: g.registry.Player().SpriteSheet,
		AutoTiling:  render.AutoTilingFrom(g.registry.AutoTiling()),
	})
}

// Glyphs maps every sprite sheet to the character the terminal shows for it.
func (g *Game) Glyphs() map[string]ui.Glyph {
	all := g.registry.All()
	defs := make([]gamedata.TileDef, 0, len(all)+1)
	defs = append(append(defs, all...), g.registry.Player())
	glyphs := make(map[string]ui.Glyph, len(defs))
	for i := range defs {
		glyphs[defs[i].SpriteSheet] = ui.Glyph{Rune: defs[i].GlyphRune(), Color: defs[i].TCellColor()}
	}
	return glyphs
}

// RunTerminal draws the board on screen until Escape, q or Ctrl-C is pressed
// or ctx is cancelled. The screen is not closed.
func (g *Game) RunTerminal(ctx context.Context, screen *ui.Screen) error {
	term := ui.NewTerminal(screen, g.cfg.AssetsDir, g.registry.TileSize(), g.Glyphs())
	renderer := g.NewRenderer(term)

	if err := renderer.LoadContent(ctx); err != nil {
		// Release whatever loaded before the failure
		renderer.UnloadContent(ctx)
		return err
	}
	g.state = StateRunning
	defer func() {
		renderer.UnloadContent(ctx)
		g.state = StateStopped
	}()

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	g.running = true
	for g.running {
		renderer.Update()
		screen.Clear()
		if err := renderer.Draw(term); err != nil {
			return err
		}
		screen.Show()

		select {
		case <-ctx.Done():
			g.running = false
		case ev := <-events:
			g.handleEvent(screen, ev)
		}
	}
	return nil
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(screen *ui.Screen, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			g.running = false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				g.running = false
			}
		}
	case *tcell.EventResize:
		screen.Sync()
	}
}
