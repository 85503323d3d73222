package codegen

import (
	"github.com/rs/zerolog"

	"github.com/okra-platform/typegen/internal/diagnostic"
	"github.com/okra-platform/typegen/internal/schema"
)

// Generator is the interface that all language-specific declaration generators must implement
type Generator interface {
	// Generate emits the declarations reachable from roots and returns them
	// as bytes together with the diagnostics collected on the way
	Generate(idx *schema.Index, roots []schema.Root) ([]byte, *diagnostic.Diagnostics, error)

	// Language returns the name of the target language (e.g., "typescript")
	Language() string

	// FileExtension returns the file extension for generated files (e.g., ".ts")
	FileExtension() string
}

// DeclarationCounter is implemented by generators whose output holds more
// than the emitted declarations, such as a prelude of helper types
type DeclarationCounter interface {
	// CountDeclarations returns the number of declarations in code
	// produced by Generate
	CountDeclarations(code []byte) int
}

// Options contains common options for code generation
type Options struct {
	// Helpers is the namespace providing the helper types. Empty means the
	// output defines them itself.
	Helpers string

	// Logger receives the visitation trace and diagnostics
	Logger zerolog.Logger
}
