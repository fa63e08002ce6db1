// Package main writes placeholder sprite sheets for every tile in the catalog.
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samdwyer/sokogrump/internal/gamedata"
	"github.com/samdwyer/sokogrump/internal/spritegen"
)

func main() {
	cmd := &cli.Command{
		Name:  "spritegen",
		Usage: "write placeholder sprite sheets for the tile catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Value:   "assets",
				Usage:   "directory to write sheets under",
				Sources: cli.EnvVars("SOKOGRUMP_ASSETS"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg, err := gamedata.LoadTileRegistry()
			if err != nil {
				return err
			}
			paths, err := spritegen.WriteAll(cmd.String("out"), reg)
			for _, p := range paths {
				log.Printf("Wrote %s", p)
			}
			return err
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("spritegen: %v", err)
	}
}
