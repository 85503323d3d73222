package commands

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/okra-platform/typegen/internal/config"
	"github.com/okra-platform/typegen/internal/schema"
)

// PathsCommand lists the declarations of a crate export, to help choose roots
type PathsCommand struct {
	deps   Dependencies
	crate  string
	prefix string
	all    bool
}

// NewPathsCommand creates a paths command with default dependencies. Unless
// all is set, only declarations usable as roots are listed.
func NewPathsCommand(crate, prefix string, all bool, logger zerolog.Logger) *PathsCommand {
	return &PathsCommand{
		deps:   defaultDependencies(logger),
		crate:  crate,
		prefix: prefix,
		all:    all,
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (pc *PathsCommand) WithDependencies(deps Dependencies) *PathsCommand {
	pc.deps = deps
	return pc
}

// Execute prints "kind path" lines, sorted by path
func (pc *PathsCommand) Execute(ctx context.Context) error {
	if pc.crate == "" {
		return fmt.Errorf("a crate export is required")
	}

	data, err := pc.deps.FileSystem.ReadFile(pc.crate)
	if err != nil {
		return fmt.Errorf("failed to read crate export: %w", err)
	}

	crate, err := schema.Load(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", pc.crate, err)
	}

	idx := schema.NewIndex(crate)
	count := 0
	for _, summary := range idx.Declarations(pc.prefix) {
		if !pc.all && !config.IsRootKind(summary.Kind) {
			continue
		}
		fmt.Fprintf(pc.deps.Stdout, "%-8s %s\n", summary.Kind, summary)
		count++
	}

	pc.deps.Logger.Debug().Str("crate", idx.Name()).Int("declarations", count).Msg("listed declarations")
	return nil
}
