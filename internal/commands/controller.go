// Package commands contains the CLI commands for the application
package commands

import (
	"context"

	"github.com/rs/zerolog"
)

type Flags struct {
	LogLevel   string
	ConfigPath string
	Targets    []string
}

type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger
}

// Generate runs every configured target once
func (c *Controller) Generate(ctx context.Context) error {
	return NewGenerateCommand(c.Flags.ConfigPath, c.Flags.Targets, c.Logger).Execute(ctx)
}

// Watch regenerates whenever a crate export or the configuration changes
func (c *Controller) Watch(ctx context.Context) error {
	return NewWatchCommand(c.Flags.ConfigPath, c.Flags.Targets, c.Logger).Execute(ctx)
}

// Paths lists the declarations of a crate export that can serve as roots
func (c *Controller) Paths(ctx context.Context, crate, prefix string, all bool) error {
	return NewPathsCommand(crate, prefix, all, c.Logger).Execute(ctx)
}

// Init creates a configuration file interactively
func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand()
	return cmd.Run(ctx)
}
