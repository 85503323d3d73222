package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// GenerateCommand runs the configured targets once
type GenerateCommand struct {
	deps       Dependencies
	configPath string
	targets    []string
}

// NewGenerateCommand creates a generate command with default dependencies
func NewGenerateCommand(configPath string, targets []string, logger zerolog.Logger) *GenerateCommand {
	return &GenerateCommand{
		deps:       defaultDependencies(logger),
		configPath: configPath,
		targets:    targets,
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (gc *GenerateCommand) WithDependencies(deps Dependencies) *GenerateCommand {
	gc.deps = deps
	return gc
}

// Execute runs the generate command
func (gc *GenerateCommand) Execute(ctx context.Context) error {
	cfg, configFile, err := gc.deps.ConfigLoader.Load(gc.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w\n\nRun 'typegen init' to create one", err)
	}

	gc.deps.Logger.Debug().
		Str("config", configFile).
		Str("language", cfg.Language).
		Int("targets", len(cfg.Targets)).
		Msg("loaded configuration")

	results, err := newRunner(gc.deps, cfg, configFile, gc.targets).Run(ctx)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	report(gc.deps.Output, results)
	return nil
}
