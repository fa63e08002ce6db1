// Package main is the entry point for SokoGrump.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/samdwyer/sokogrump/internal/game"
	"github.com/samdwyer/sokogrump/internal/telemetry"
	"github.com/samdwyer/sokogrump/internal/ui"
	"github.com/samdwyer/sokogrump/internal/ui/window"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	setupOTelEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}

func newCommand() *cli.Command {
	defaults := game.DefaultConfig()

	return &cli.Command{
		Name:  "sokogrump",
		Usage: "draw a SokoGrump board with auto-tiled terrain",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Value:   defaults.Backend,
				Usage:   "drawing backend: terminal or window",
				Sources: cli.EnvVars("SOKOGRUMP_BACKEND"),
			},
			&cli.StringFlag{
				Name:    "level",
				Usage:   "level name, or \"generated\" for a procedural board",
				Sources: cli.EnvVars("SOKOGRUMP_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "levels-file",
				Usage:   "JSON file of extra levels",
				Sources: cli.EnvVars("SOKOGRUMP_LEVELS_FILE"),
			},
			&cli.StringFlag{
				Name:    "assets",
				Value:   defaults.AssetsDir,
				Usage:   "directory sprite sheet paths are resolved under",
				Sources: cli.EnvVars("SOKOGRUMP_ASSETS"),
			},
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "seed for generated levels (0 picks one)",
				Sources: cli.EnvVars("SOKOGRUMP_SEED"),
			},
			&cli.IntFlag{
				Name:  "width",
				Value: defaults.Width,
				Usage: "width of generated levels in tiles",
			},
			&cli.IntFlag{
				Name:  "height",
				Value: defaults.Height,
				Usage: "height of generated levels in tiles",
			},
			&cli.IntFlag{
				Name:    "scale",
				Value:   defaults.Scale,
				Usage:   "window scale factor",
				Sources: cli.EnvVars("SOKOGRUMP_SCALE"),
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := game.Config{
		Seed:       cmd.Int64("seed"),
		Level:      cmd.String("level"),
		LevelsFile: cmd.String("levels-file"),
		Backend:    cmd.String("backend"),
		AssetsDir:  cmd.String("assets"),
		Width:      cmd.Int("width"),
		Height:     cmd.Int("height"),
		Scale:      cmd.Int("scale"),
	}

	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.Printf("Warning: telemetry setup failed: %v", err)
			log.Printf("Game will run without observability")
		} else {
			defer func() {
				if err := shutdown(context.WithoutCancel(ctx)); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	}

	g, err := game.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize game: %w", err)
	}
	log.Printf("Playing %q (seed %d) on the %s backend", g.Level(), g.Seed(), cfg.Backend)

	switch cfg.Backend {
	case game.BackendWindow:
		backend := window.NewBackend(cfg.AssetsDir)
		return window.Run(ctx, "SokoGrump - "+g.Level(), backend, g.NewRenderer(backend), cfg.Scale)
	default:
		screen, err := ui.NewScreen()
		if err != nil {
			return err
		}
		defer screen.Close()
		return g.RunTerminal(ctx, screen)
	}
}

// setupOTelEnv points the OTLP exporter at Honeycomb when an API key is set.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_SOKOGRUMP_API_KEY")
	if apiKey == "" {
		return
	}
	dataset := os.Getenv("HONEYCOMB_SOKOGRUMP_DATASET")
	if dataset == "" {
		dataset = "sokogrump"
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
