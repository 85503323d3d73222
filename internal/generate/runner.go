// Package generate runs the configured targets: load a crate export, emit
// declarations for its roots and write them out.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/okra-platform/typegen/internal/codegen"
	"github.com/okra-platform/typegen/internal/config"
	"github.com/okra-platform/typegen/internal/diagnostic"
	"github.com/okra-platform/typegen/internal/schema"
)

// FileSystem defines the file system operations of a run
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
}

// OSFileSystem implements FileSystem on the local disk
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

// Result describes the outcome of one target
type Result struct {
	// Target is the target name from the configuration
	Target string

	// Output is the written file, or "-" for standard output
	Output string

	// Declarations is the number of top-level declarations emitted
	Declarations int

	// Diagnostics holds the non-fatal problems found while generating
	Diagnostics *diagnostic.Diagnostics

	// Duration is the time spent loading and generating
	Duration time.Duration

	code []byte
}

// Runner generates all targets of a configuration
type Runner struct {
	config      *config.Config
	projectRoot string
	logger      zerolog.Logger

	fs       FileSystem
	stdout   io.Writer
	registry *codegen.Registry
	only     map[string]bool
}

// NewRunner creates a runner. Relative crate and output paths are resolved
// against projectRoot.
func NewRunner(cfg *config.Config, projectRoot string, logger zerolog.Logger) *Runner {
	return &Runner{
		config:      cfg,
		projectRoot: projectRoot,
		logger:      logger.With().Str("component", "generate").Logger(),
		fs:          OSFileSystem{},
		stdout:      os.Stdout,
		registry:    codegen.DefaultRegistry,
	}
}

// WithFileSystem replaces the file system, mainly for tests
func (r *Runner) WithFileSystem(fs FileSystem) *Runner {
	r.fs = fs
	return r
}

// WithStdout sets where "-" outputs are written
func (r *Runner) WithStdout(w io.Writer) *Runner {
	r.stdout = w
	return r
}

// WithRegistry sets the generator registry
func (r *Runner) WithRegistry(registry *codegen.Registry) *Runner {
	r.registry = registry
	return r
}

// WithTargets restricts the run to the named targets
func (r *Runner) WithTargets(names ...string) *Runner {
	if len(names) == 0 {
		r.only = nil
		return r
	}
	r.only = make(map[string]bool, len(names))
	for _, name := range names {
		r.only[name] = true
	}
	return r
}

// Run generates the selected targets concurrently. Outputs are written only
// once every target succeeded, in configuration order.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	targets, err := r.selectTargets()
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(targets))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, target := range targets {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			result, err := r.generateTarget(target)
			if err != nil {
				return fmt.Errorf("target %s: %w", target.Name, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, result := range results {
		if err := r.write(result); err != nil {
			return nil, fmt.Errorf("target %s: %w", result.Target, err)
		}
		r.logger.Info().
			Str("target", result.Target).
			Str("output", result.Output).
			Int("declarations", result.Declarations).
			Int("warnings", len(result.Diagnostics.Warnings)).
			Dur("duration", result.Duration).
			Msg("generated declarations")
	}

	return results, nil
}

func (r *Runner) selectTargets() ([]config.TargetConfig, error) {
	if r.only == nil {
		return r.config.Targets, nil
	}

	var selected []config.TargetConfig
	found := make(map[string]bool, len(r.only))
	for _, t := range r.config.Targets {
		if r.only[t.Name] {
			selected = append(selected, t)
			found[t.Name] = true
		}
	}
	for name := range r.only {
		if !found[name] {
			return nil, fmt.Errorf("unknown target: %s", name)
		}
	}
	return selected, nil
}

func (r *Runner) generateTarget(target config.TargetConfig) (Result, error) {
	start := time.Now()
	logger := r.logger.With().Str("target", target.Name).Logger()

	gen, err := r.registry.Get(r.config.Language, codegen.Options{
		Helpers: r.config.Helpers,
		Logger:  logger,
	})
	if err != nil {
		return Result{}, err
	}

	roots, err := target.SchemaRoots()
	if err != nil {
		return Result{}, err
	}

	cratePath := r.resolve(target.Crate)
	data, err := r.fs.ReadFile(cratePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read crate export %s: %w", cratePath, err)
	}

	crate, err := schema.Load(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", cratePath, err)
	}

	idx := schema.NewIndex(crate)
	logger.Debug().
		Str("crate", idx.Name()).
		Int("items", len(crate.Index)).
		Int("roots", len(roots)).
		Msg("loaded crate export")

	code, diags, err := gen.Generate(idx, roots)
	if err != nil {
		return Result{}, err
	}

	output := target.Output
	if output != config.StdoutOutput {
		output = r.resolve(output)
	}

	var declarations int
	if counter, ok := gen.(codegen.DeclarationCounter); ok {
		declarations = counter.CountDeclarations(code)
	} else {
		declarations = countDeclarations(code)
	}

	return Result{
		Target:       target.Name,
		Output:       output,
		Declarations: declarations,
		Diagnostics:  diags,
		Duration:     time.Since(start),
		code:         code,
	}, nil
}

func (r *Runner) write(result Result) error {
	if result.Output == config.StdoutOutput {
		if _, err := r.stdout.Write(result.code); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		return nil
	}

	if err := r.fs.MkdirAll(filepath.Dir(result.Output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := r.fs.WriteFile(result.Output, result.code, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", result.Output, err)
	}
	return nil
}

func (r *Runner) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.projectRoot, path)
}

// CratePaths returns the resolved crate export paths of all targets
func (r *Runner) CratePaths() []string {
	paths := make([]string, 0, len(r.config.Targets))
	for _, t := range r.config.Targets {
		paths = append(paths, r.resolve(t.Crate))
	}
	return paths
}

// countDeclarations counts the top-level exported declarations in code of
// generators that do not count their own
func countDeclarations(code []byte) int {
	count := 0
	for _, line := range bytes.Split(code, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("export ")) {
			count++
		}
	}
	return count
}
