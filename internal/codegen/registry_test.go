package codegen

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/typegen/internal/diagnostic"
	"github.com/okra-platform/typegen/internal/schema"
	"github.com/okra-platform/typegen/internal/testutil"
)

// mockGenerator is a test generator
type mockGenerator struct {
	lang    string
	helpers string
}

func (m *mockGenerator) Generate(idx *schema.Index, roots []schema.Root) ([]byte, *diagnostic.Diagnostics, error) {
	return []byte("mock output"), &diagnostic.Diagnostics{}, nil
}

func (m *mockGenerator) Language() string {
	return m.lang
}

func (m *mockGenerator) FileExtension() string {
	return ".mock"
}

func TestRegistry_NewRegistry(t *testing.T) {
	// Test: New registry is empty by default
	r := NewRegistry()
	assert.NotNil(t, r)

	// Should error on unknown language
	_, err := r.Get("unknown", Options{})
	assert.Error(t, err)
}

func TestRegistry_Register(t *testing.T) {
	// Test: Register custom generator and pass options through
	r := NewRegistry()

	r.Register("mock", func(opts Options) Generator {
		return &mockGenerator{lang: "mock", helpers: opts.Helpers}
	})

	gen, err := r.Get("mock", Options{Helpers: "oasis.types"})
	require.NoError(t, err)
	require.NotNil(t, gen)
	assert.Equal(t, "mock", gen.Language())
	assert.Equal(t, "oasis.types", gen.(*mockGenerator).helpers)
}

func TestRegistry_UnsupportedLanguage(t *testing.T) {
	// Test: Error for unsupported language
	r := NewRegistry()

	gen, err := r.Get("unknown", Options{})
	assert.Error(t, err)
	assert.Nil(t, gen)
	assert.Contains(t, err.Error(), "unsupported language: unknown")
}

func TestRegistry_Languages(t *testing.T) {
	// Test: List of supported languages
	r := NewRegistry()

	// Empty registry should have no languages
	assert.Empty(t, r.Languages())

	for _, lang := range []string{"typescript", "python", "go"} {
		lang := lang
		r.Register(lang, func(Options) Generator {
			return &mockGenerator{lang: lang}
		})
	}

	assert.Equal(t, []string{"go", "python", "typescript"}, r.Languages())
}

func TestDefaultRegistry(t *testing.T) {
	// Test: typescript and its ts alias are registered
	assert.Equal(t, []string{"ts", "typescript"}, DefaultRegistry.Languages())

	for _, lang := range []string{"typescript", "ts"} {
		gen, err := DefaultRegistry.Get(lang, Options{Helpers: "h", Logger: zerolog.Nop()})
		require.NoError(t, err)
		assert.Equal(t, "typescript", gen.Language())
		assert.Equal(t, ".ts", gen.FileExtension())
	}

	// Test: Options reach the generator
	b := testutil.NewCrate("sdk")
	b.Struct("Balance", b.Field("amount", testutil.Prim("u64")))

	gen, err := DefaultRegistry.Get("ts", Options{Helpers: "h"})
	require.NoError(t, err)
	code, _, err := gen.Generate(b.Index(), []schema.Root{b.Root("Balance", "struct")})
	require.NoError(t, err)
	assert.Equal(t, "export interface Balance {\n    amount: h.longnum /* u64 */;\n}\n", string(code))
}
