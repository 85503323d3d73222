package codegen

import (
	"github.com/okra-platform/typegen/internal/codegen/typescript"
)

// DefaultRegistry is the global registry instance with pre-registered generators
var DefaultRegistry = NewRegistry()

func newTypeScript(opts Options) Generator {
	return typescript.NewGenerator(opts.Helpers).WithLogger(opts.Logger)
}

func init() {
	DefaultRegistry.Register("typescript", newTypeScript)

	// Register ts as an alias for typescript
	DefaultRegistry.Register("ts", newTypeScript)
}
