package game

import (
	"errors"
	"fmt"

	"github.com/samdwyer/sokogrump/internal/world"
)

// Backend names accepted by Config.Backend.
const (
	BackendTerminal = "terminal"
	BackendWindow   = "window"
)

// GeneratedLevel is the level name that asks for a procedurally built board.
const GeneratedLevel = "generated"

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible level generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	// Level names the level to play. Empty picks the first one available;
	// GeneratedLevel builds one.
	Level string

	// LevelsFile is an optional JSON file of extra levels, searched before
	// the embedded ones.
	LevelsFile string

	Backend   string
	AssetsDir string

	// Width and Height size generated levels.
	Width  int
	Height int

	// Scale multiplies the window size of the pixel backend.
	Scale int
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendTerminal,
		AssetsDir: "assets",
		Width:     world.DefaultWidth,
		Height:    world.DefaultHeight,
		Scale:     2,
	}
}

// Validate reports the first invalid option.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendTerminal, BackendWindow:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.AssetsDir == "" {
		return errors.New("assets directory is required")
	}
	if c.Level == GeneratedLevel && (c.Width <= 0 || c.Height <= 0) {
		return fmt.Errorf("invalid generated level size %dx%d", c.Width, c.Height)
	}
	if c.Scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", c.Scale)
	}
	return nil
}
