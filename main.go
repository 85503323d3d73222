package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/typegen/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

// targetFlags are the flags of the commands that run configured targets
func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path of typegen.json or typegen.yaml (default: search the working directory and its parents)",
			Sources: cli.EnvVars("TYPEGEN_CONFIG"),
		},
		&cli.StringSliceFlag{
			Name:    "target",
			Aliases: []string{"t"},
			Usage:   "only generate the named target (repeatable)",
		},
	}
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "typegen",
		Usage:   `Generate TypeScript declarations for the data types of a Rust crate from its rustdoc JSON export.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("TYPEGEN_LOG_LEVEL"),
				Value:   "warn",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			ctrl.Flags.LogLevel = level.String()
			ctrl.Logger = log.Logger

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create a typegen configuration interactively",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
			{
				Name:  "generate",
				Usage: "Emit declarations for every configured target",
				Flags: targetFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					ctrl.Flags.ConfigPath = c.String("config")
					ctrl.Flags.Targets = c.StringSlice("target")
					return ctrl.Generate(ctx)
				},
			},
			{
				Name:  "watch",
				Usage: "Regenerate whenever a crate export or the configuration changes",
				Flags: targetFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					ctrl.Flags.ConfigPath = c.String("config")
					ctrl.Flags.Targets = c.StringSlice("target")
					return ctrl.Watch(ctx)
				},
			},
			{
				Name:      "paths",
				Usage:     "List the declarations of a crate export that can be used as roots",
				ArgsUsage: "[prefix]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "crate",
						Usage:    "rustdoc JSON export to inspect",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "only list paths starting with this prefix, e.g. my_crate::types",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "also list modules, traits, functions and other non-type items",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					prefix := c.String("prefix")
					if prefix == "" {
						prefix = c.Args().First()
					}
					return ctrl.Paths(ctx, c.String("crate"), prefix, c.Bool("all"))
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run typegen")
	}
}
